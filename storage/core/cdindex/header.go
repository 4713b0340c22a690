package cdindex

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Header 索引文件头
// 文件存储结构：
// -------------------------------------------------------------
// | file-size 4字节 | record-count 4字节 | record-size 2字节 |
// -------------------------------------------------------------
// | db-name 20字节 | release 10字节 | date 4字节 | 保留至300字节 |
// -------------------------------------------------------------
type Header struct {
	FileSize uint32
	NRecords uint32
	RecSize  uint16
	DbName   string
	Release  string
	Date     [headerDateSize]byte
}

func parseHeader(raw []byte, order binary.ByteOrder) *Header {
	h := &Header{
		FileSize: order.Uint32(raw[headerFileSizeOffset : headerFileSizeOffset+headerFileSizeSize]),
		NRecords: order.Uint32(raw[headerRecordCountOffset : headerRecordCountOffset+headerRecordCountSize]),
		RecSize:  order.Uint16(raw[headerRecordSizeOffset : headerRecordSizeOffset+headerRecordSizeSize]),
		DbName:   trimField(raw[headerDbNameOffset : headerDbNameOffset+headerDbNameSize]),
		Release:  trimField(raw[headerReleaseOffset : headerReleaseOffset+headerReleaseSize]),
	}
	copy(h.Date[:], raw[headerDateOffset:headerDateOffset+headerDateSize])
	return h
}

// DateString date 字段依次为 保留、年（1900起）、月、日
func (h *Header) DateString() string {
	if h.Date == [headerDateSize]byte{} {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", 1900+int(h.Date[1]), h.Date[2], h.Date[3])
}

// trimField 去掉定长字段尾部的空格和NUL填充
func trimField(raw []byte) string {
	return strings.TrimRight(string(raw), " \x00")
}
