package cdindex

import (
	"strings"
)

// keyFunc 读取第 i 条记录的检索键（未折叠）
type keyFunc func(i int) (string, error)

func compareFolded(key, target string) int {
	return strings.Compare(strings.ToUpper(key), target)
}

// comparePrefix 只比较 key 折叠后的前 len(prefix) 个字节
func comparePrefix(key, prefix string) int {
	k := strings.ToUpper(key)
	if len(k) > len(prefix) {
		k = k[:len(prefix)]
	}
	return strings.Compare(k, prefix)
}

// findExact 在按折叠键排序的 n 条记录中二分查找 target（已折叠）
func findExact(n int, keyAt keyFunc, target string) (int, bool, error) {
	lo, hi := 0, n-1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		key, err := keyAt(mid)
		if err != nil {
			return 0, false, err
		}

		switch c := compareFolded(key, target); {
		case c == 0:
			return mid, true, nil
		case c < 0:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return 0, false, nil
}

// prefixRange 返回共享前缀 prefix（已折叠）的连续记录区间 [lo, hi)
// 第一阶段二分找到任意一条带该前缀的记录，
// 第二阶段分别在左右两侧二分出区间边界
// 前缀为空时区间为全部记录
func prefixRange(n int, keyAt keyFunc, prefix string) (int, int, error) {
	if prefix == "" {
		return 0, n, nil
	}

	lo, hi := 0, n-1
	found := -1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		key, err := keyAt(mid)
		if err != nil {
			return 0, 0, err
		}

		switch c := comparePrefix(key, prefix); {
		case c == 0:
			found = mid
		case c < 0:
			lo = mid + 1
		default:
			hi = mid - 1
		}
		if found >= 0 {
			break
		}
	}
	if found < 0 {
		return 0, 0, nil
	}

	// 左边界：[lo, found] 中第一条带前缀的记录
	left, right := lo, found
	for left < right {
		mid := int(uint(left+right) >> 1)
		key, err := keyAt(mid)
		if err != nil {
			return 0, 0, err
		}
		if comparePrefix(key, prefix) < 0 {
			left = mid + 1
		} else {
			right = mid
		}
	}
	start := left

	// 右边界：(found, hi] 中第一条大于前缀的记录
	left, right = found+1, hi+1
	for left < right {
		mid := int(uint(left+right) >> 1)
		key, err := keyAt(mid)
		if err != nil {
			return 0, 0, err
		}
		if comparePrefix(key, prefix) > 0 {
			right = mid
		} else {
			left = mid + 1
		}
	}
	return start, left, nil
}
