package iface

import (
	"bufio"
	"bytes"
)

// Hit 一次索引命中
type Hit struct {
	Name      string
	Division  uint16
	AnnOffset uint32
	SeqOffset uint32
}

// Less 命中排序：division，其次注释偏移量
func (h Hit) Less(o Hit) bool {
	if h.Division != o.Division {
		return h.Division < o.Division
	}
	if h.AnnOffset != o.AnnOffset {
		return h.AnnOffset < o.AnnOffset
	}
	return h.SeqOffset < o.SeqOffset
}

// Same 指向同一条记录
func (h Hit) Same(o Hit) bool {
	return h.Division == o.Division && h.AnnOffset == o.AnnOffset && h.SeqOffset == o.SeqOffset
}

// Record 解码后的一条原始记录
type Record struct {
	Name      string
	Division  string
	AnnOffset uint32
	SeqOffset uint32
	Text      []byte // Text 注释文本
	Seq       []byte // Seq 已解码为字母的序列
}

// Lines 按行读取注释文本，交给具体格式的注释解析器
func (r *Record) Lines() *bufio.Scanner {
	sc := bufio.NewScanner(bytes.NewReader(r.Text))
	sc.Buffer(make([]byte, 0, 64*1024), len(r.Text)+1)
	return sc
}
