package cdindex

import (
	"encoding/binary"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/storage/core/binfile"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// indexFile 定长记录的索引文件：300字节文件头 + NRecords 条 RecSize 字节的记录
type indexFile struct {
	*binfile.File
	header *Header
}

func openIndexFile(path string, order binary.ByteOrder, useMmap bool, minRecSize int) (*indexFile, error) {
	f, err := binfile.Open(path, order, useMmap)
	if err != nil {
		return nil, err
	}

	raw, err := f.Bytes(0, HeaderSize)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	header := parseHeader(raw, order)
	if n := header.NRecords; n > 0 {
		end := int64(HeaderSize) + int64(n)*int64(header.RecSize)
		if int(header.RecSize) < minRecSize || end > f.Size() {
			_ = f.Close()
			e := errs.NewCorruptErr().WithErr(errors.Errorf("%s: %d records of %d bytes do not fit in %d bytes", path, n, header.RecSize, f.Size()))
			logs.Error(e.Error(), zap.String(consts.LogFieldPath, path), zap.Uint16(consts.LogFieldValue, header.RecSize))
			return nil, e
		}
	}

	return &indexFile{File: f, header: header}, nil
}

func (f *indexFile) Len() int {
	return int(f.header.NRecords)
}

func (f *indexFile) recSize() int {
	return int(f.header.RecSize)
}

// record 读取第 i 条记录（从0开始）
func (f *indexFile) record(i int) ([]byte, error) {
	if i < 0 || i >= f.Len() {
		e := errs.NewCorruptErr().WithErr(errors.Errorf("%s: record %d out of range [0, %d)", f.Path(), i, f.Len()))
		logs.Error(e.Error(), zap.String(consts.LogFieldPath, f.Path()))
		return nil, e
	}
	return f.Bytes(int64(HeaderSize)+int64(i)*int64(f.recSize()), f.recSize())
}
