package cdindex

import (
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
)

// HitList 待读取的命中队列，已按 (division, 注释偏移量) 排好序
type HitList struct {
	hits []iface.Hit
	pos  int
}

func NewHitList(hits []iface.Hit) *HitList {
	return &HitList{hits: hits}
}

// Pop 取出队首命中，队列为空时 ok=false
func (l *HitList) Pop() (iface.Hit, bool) {
	if l.pos >= len(l.hits) {
		return iface.Hit{}, false
	}
	h := l.hits[l.pos]
	l.pos++
	return h, true
}

// Peek 查看队首命中但不取出
func (l *HitList) Peek() (iface.Hit, bool) {
	if l.pos >= len(l.hits) {
		return iface.Hit{}, false
	}
	return l.hits[l.pos], true
}

// Len 剩余命中数
func (l *HitList) Len() int {
	return len(l.hits) - l.pos
}

// Hits 剩余命中的拷贝
func (l *HitList) Hits() []iface.Hit {
	return append([]iface.Hit(nil), l.hits[l.pos:]...)
}
