package cdindex

import (
	"path/filepath"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"github.com/Trinoooo/eggie_seqdb/utils"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Target <field>.trg 中的一条记录
// 文件存储结构：
// | nhits 4字节 | firsthit 4字节 | value (record-size - 8)字节 |
// firsthit 为 .hit 文件中第一条命中的记录号（从1开始），
// 同一 target 的命中在 .hit 中连续存放
type Target struct {
	Value    string
	NHits    uint32
	FirstHit uint32
}

// targetPair 一组二级索引文件
type targetPair struct {
	field iface.Field
	trg   *indexFile
	hit   *indexFile
}

func targetPaths(dir string, field iface.Field) (string, string) {
	return filepath.Join(dir, string(field)+consts.TargetSuffix), filepath.Join(dir, string(field)+consts.HitSuffix)
}

func (idx *Index) openTargetPair(field iface.Field) (*targetPair, error) {
	trgPath, hitPath := targetPaths(idx.opts.IndexDir, field)
	trg, err := openIndexFile(trgPath, idx.order, idx.opts.Mmap, targetFixedSize+1)
	if err != nil {
		return nil, err
	}

	hit, err := openIndexFile(hitPath, idx.order, idx.opts.Mmap, hitRecordSize)
	if err != nil {
		_ = trg.Close()
		return nil, err
	}

	if hit.Len() > 0 && hit.recSize() != hitRecordSize {
		_ = trg.Close()
		_ = hit.Close()
		e := errs.NewCorruptErr().WithErr(errors.Errorf("%s: hit record size %d, want %d", hitPath, hit.recSize(), hitRecordSize))
		logs.Error(e.Error(), zap.String(consts.LogFieldPath, hitPath))
		return nil, e
	}

	return &targetPair{field: field, trg: trg, hit: hit}, nil
}

func (tp *targetPair) close() error {
	err := tp.trg.Close()
	if e := tp.hit.Close(); err == nil {
		err = e
	}
	return err
}

func (tp *targetPair) target(i int) (*Target, error) {
	raw, err := tp.trg.record(i)
	if err != nil {
		return nil, err
	}
	order := tp.trg.Order()
	return &Target{
		NHits:    order.Uint32(raw),
		FirstHit: order.Uint32(raw[targetNHitsSize:]),
		Value:    trimField(raw[targetFixedSize:]),
	}, nil
}

func (tp *targetPair) value(i int) (string, error) {
	raw, err := tp.trg.record(i)
	if err != nil {
		return "", err
	}
	return trimField(raw[targetFixedSize:]), nil
}

// entryNumbers 展开 target 的命中区间，返回条目号（从1开始）
func (tp *targetPair) entryNumbers(t *Target) ([]uint32, error) {
	if t.NHits == 0 {
		return nil, nil
	}

	first := int64(t.FirstHit)
	if first == 0 || first-1+int64(t.NHits) > int64(tp.hit.Len()) {
		e := errs.NewCorruptErr().WithErr(errors.Errorf("%s: hit range [%d, +%d) out of %d records", tp.hit.Path(), t.FirstHit, t.NHits, tp.hit.Len()))
		logs.Error(e.Error(), zap.String(consts.LogFieldField, string(tp.field)), zap.String(consts.LogFieldValue, t.Value))
		return nil, e
	}

	return tp.hit.Uint32s(int64(HeaderSize)+(first-1)*hitRecordSize, int(t.NHits))
}

// SearchField 在字段的二级索引中按通配符模式检索
// 没有共享前缀的 target 时返回空，不是错误
func (idx *Index) SearchField(field iface.Field, pattern string) ([]iface.Hit, error) {
	tp, ok := idx.targets[field]
	if !ok {
		e := errs.NewFieldNotIndexedErr().WithErr(errors.Errorf("field %s has no %s/%s pair in %s", field, consts.TargetSuffix, consts.HitSuffix, idx.opts.IndexDir))
		logs.Error(e.Error(), zap.String(consts.LogFieldField, string(field)))
		return nil, e
	}

	lo, hi, err := prefixRange(tp.trg.Len(), tp.value, utils.Fold(utils.LiteralPrefix(pattern)))
	if err != nil {
		return nil, err
	}

	var hits []iface.Hit
	for i := lo; i < hi; i++ {
		t, err := tp.target(i)
		if err != nil {
			return nil, err
		}
		if !utils.MatchWildcard(pattern, t.Value) {
			continue
		}

		numbers, err := tp.entryNumbers(t)
		if err != nil {
			return nil, err
		}
		for _, recno := range numbers {
			entry, err := idx.entryByNumber(recno)
			if err != nil {
				return nil, err
			}
			hits = append(hits, entry.Hit())
		}
	}

	logs.Debug("search field",
		zap.String(consts.LogFieldField, string(field)),
		zap.String(consts.LogFieldQuery, pattern),
		zap.Int(consts.LogFieldCount, len(hits)),
		zap.Int("scanned", hi-lo),
	)
	return hits, nil
}
