package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const wildcards = "*?"

// HasWildcard 是否包含通配符 '*' 或 '?'
func HasWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, wildcards)
}

// LiteralPrefix 返回第一个通配符之前的字面量前缀
func LiteralPrefix(pattern string) string {
	if i := strings.IndexAny(pattern, wildcards); i >= 0 {
		return pattern[:i]
	}
	return pattern
}

// Fold 索引里的名字统一按大写比较
func Fold(s string) string {
	return strings.ToUpper(s)
}

// MatchWildcard 大小写不敏感的通配符匹配
// '*' 匹配任意长度（含空）字符序列，'?' 匹配单个字符
func MatchWildcard(pattern, s string) bool {
	p, str := []rune(pattern), []rune(s)
	pi, si := 0, 0
	star, mark := -1, 0
	for si < len(str) {
		switch {
		case pi < len(p) && p[pi] == '*':
			star, mark = pi, si
			pi++
		case pi < len(p) && (p[pi] == '?' || equalFold(p[pi], str[si])):
			pi++
			si++
		case star >= 0:
			// 回溯：让上一个 '*' 多吃一个字符
			pi = star + 1
			mark++
			si = mark
		default:
			return false
		}
	}

	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}

// MatchAny 命中任意一个模式即返回true
func MatchAny(patterns []string, s string) bool {
	for _, p := range patterns {
		if MatchWildcard(p, s) {
			return true
		}
	}
	return false
}

func equalFold(a, b rune) bool {
	if a == b {
		return true
	}
	if a < utf8.RuneSelf && b < utf8.RuneSelf {
		return unicode.ToUpper(a) == unicode.ToUpper(b)
	}
	return unicode.SimpleFold(a) == b || unicode.SimpleFold(b) == a
}
