package blast

import (
	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/storage/core/cdindex"
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"github.com/Trinoooo/eggie_seqdb/utils"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Blast EMBL-CD 索引 + BLAST 1.x/2.x 数据文件
// 条目的注释偏移量为记录在 BLAST 表中的序号
type Blast struct {
	idx    *cdindex.Index
	tables *utils.Lru[uint16, *Table] // tables 按 division 缓存已解析的表
}

var _ iface.ICore = &Blast{}

func New(config *viper.Viper) (iface.ICore, error) {
	opts, err := cdindex.OptionsFromConfig(config)
	if err != nil {
		return nil, err
	}
	return Open(opts)
}

func Open(opts *cdindex.Options) (*Blast, error) {
	idx, err := cdindex.Open(opts)
	if err != nil {
		return nil, err
	}

	b := &Blast{idx: idx}
	b.tables = utils.NewLRU[uint16, *Table](opts.TableCache).OnEvict(func(code uint16, t *Table) {
		logs.Debug("evict blast table", zap.Uint16(consts.LogFieldDivision, code), zap.Uint32(consts.LogFieldCount, t.Size))
	})
	return b, nil
}

// table 读取 division 的表，命中缓存时不再解析
func (b *Blast) table(code uint16) (*Table, string, error) {
	d, err := b.idx.Division(code)
	if err != nil {
		return nil, "", err
	}
	base := b.idx.Path(baseName(d.File))

	if t, ok := b.tables.Read(code); ok {
		return t, base, nil
	}
	t, err := LoadTable(base, b.idx.Options().Mmap)
	if err != nil {
		return nil, "", err
	}
	b.tables.Write(code, t)
	return t, base, nil
}

func (b *Blast) All(q *iface.Query) (iface.Session, error) {
	include, exclude := b.idx.Options().Filters(q.Include, q.Exclude)
	skip := b.idx.SkipVector(include, exclude)

	var hits []iface.Hit
	for _, d := range b.idx.Divisions() {
		if skip.Skipped(d.Code) {
			continue
		}
		t, _, err := b.table(d.Code)
		if err != nil {
			return nil, err
		}
		for i := uint32(0); i < t.Size; i++ {
			hits = append(hits, iface.Hit{Division: d.Code, AnnOffset: i})
		}
	}
	return newSession(b, cdindex.NewHitList(cdindex.MergeHits(hits))), nil
}

func (b *Blast) ById(q *iface.Query) (iface.Session, error) {
	hits, err := b.idx.LookupEntry(q)
	if err != nil {
		return nil, err
	}
	return newSession(b, hits), nil
}

func (b *Blast) ByQuery(q *iface.Query) (iface.Session, error) {
	hits, err := b.idx.LookupQuery(q)
	if err != nil {
		return nil, err
	}
	return newSession(b, hits), nil
}

func (b *Blast) Info() *iface.Info {
	info := b.idx.Info()
	info.Method = consts.MethodBlast
	return info
}

// Close 释放缓存的表，关闭索引
func (b *Blast) Close() error {
	var codes []uint16
	_ = b.tables.Traverse(func(code uint16, t *Table) error {
		logs.Debug("release blast table",
			zap.Uint16(consts.LogFieldDivision, code),
			zap.String("kind", t.Kind.String()),
			zap.Uint32(consts.LogFieldCount, t.Size),
		)
		codes = append(codes, code)
		return nil
	}, true)
	// Traverse 持有锁，遍历结束后再移除
	for _, code := range codes {
		b.tables.Remove(code)
	}

	logs.Info("close database",
		zap.String(consts.LogFieldMethod, consts.MethodBlast),
		zap.Int("released_tables", len(codes)),
	)
	return b.idx.Close()
}
