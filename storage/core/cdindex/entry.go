package cdindex

import (
	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"github.com/Trinoooo/eggie_seqdb/utils"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Entry entrynam.idx 中的一条记录
// 文件存储结构：
// | name (record-size - 10)字节 | annoff 4字节 | seqoff 4字节 | division 2字节 |
type Entry struct {
	Name      string
	AnnOffset uint32
	SeqOffset uint32
	Division  uint16
}

func (e *Entry) Hit() iface.Hit {
	return iface.Hit{
		Name:      e.Name,
		Division:  e.Division,
		AnnOffset: e.AnnOffset,
		SeqOffset: e.SeqOffset,
	}
}

func (idx *Index) parseEntry(raw []byte) *Entry {
	order := idx.entries.Order()
	nameSize := len(raw) - entryFixedSize
	return &Entry{
		Name:      trimField(raw[:nameSize]),
		AnnOffset: order.Uint32(raw[nameSize:]),
		SeqOffset: order.Uint32(raw[nameSize+entryAnnOffsetSize:]),
		Division:  order.Uint16(raw[nameSize+entryAnnOffsetSize+entrySeqOffsetSize:]),
	}
}

// EntryAt 读取第 i 条条目记录（从0开始）
func (idx *Index) EntryAt(i int) (*Entry, error) {
	raw, err := idx.entries.record(i)
	if err != nil {
		return nil, err
	}
	return idx.parseEntry(raw), nil
}

// entryByNumber hit 文件中的条目号从1开始
func (idx *Index) entryByNumber(recno uint32) (*Entry, error) {
	if recno == 0 || int64(recno) > int64(idx.entries.Len()) {
		e := errs.NewCorruptErr().WithErr(errors.Errorf("entry number %d out of range [1, %d]", recno, idx.entries.Len()))
		logs.Error(e.Error(), zap.Uint32(consts.LogFieldValue, recno))
		return nil, e
	}
	return idx.EntryAt(int(recno) - 1)
}

func (idx *Index) entryName(i int) (string, error) {
	raw, err := idx.entries.record(i)
	if err != nil {
		return "", err
	}
	return trimField(raw[:len(raw)-entryFixedSize]), nil
}

// FindEntry 精确查找条目名（大小写不敏感）
func (idx *Index) FindEntry(name string) (*Entry, bool, error) {
	pos, found, err := findExact(idx.entries.Len(), idx.entryName, utils.Fold(name))
	if err != nil || !found {
		return nil, false, err
	}

	entry, err := idx.EntryAt(pos)
	if err != nil {
		return nil, false, err
	}
	return entry, true, nil
}

// SearchEntries 按通配符模式检索条目名
func (idx *Index) SearchEntries(pattern string) ([]iface.Hit, error) {
	lo, hi, err := prefixRange(idx.entries.Len(), idx.entryName, utils.Fold(utils.LiteralPrefix(pattern)))
	if err != nil {
		return nil, err
	}

	var hits []iface.Hit
	for i := lo; i < hi; i++ {
		entry, err := idx.EntryAt(i)
		if err != nil {
			return nil, err
		}
		if utils.MatchWildcard(pattern, entry.Name) {
			hits = append(hits, entry.Hit())
		}
	}

	logs.Debug("search entries",
		zap.String(consts.LogFieldQuery, pattern),
		zap.Int(consts.LogFieldCount, len(hits)),
		zap.Int("scanned", hi-lo),
	)
	return hits, nil
}
