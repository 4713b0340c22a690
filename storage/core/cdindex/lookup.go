package cdindex

import (
	"sort"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"go.uber.org/zap"
)

// entryFallback 精确条目名未命中时依次尝试的二级索引
var entryFallback = []iface.Field{
	iface.FieldAccession,
	iface.FieldSequenceVersion,
	iface.FieldKeyword,
}

// LookupEntry 精确条目查找，最多一条命中
// 条目名未命中时按 登录号 -> 序列版本 -> 关键字 的顺序在已存在的二级索引中继续查找
func (idx *Index) LookupEntry(q *iface.Query) (*HitList, error) {
	skip := idx.skipFor(q)

	entry, found, err := idx.FindEntry(q.Id)
	if err != nil {
		return nil, err
	}
	if found {
		return NewHitList(filterSkipped([]iface.Hit{entry.Hit()}, skip)), nil
	}

	for _, field := range entryFallback {
		if !idx.HasField(field) {
			continue
		}
		hits, err := idx.SearchField(field, q.Id)
		if err != nil {
			return nil, err
		}
		hits = MergeHits(filterSkipped(hits, skip))
		if len(hits) > 0 {
			logs.Debug("entry resolved through secondary index",
				zap.String(consts.LogFieldQuery, q.Id),
				zap.String(consts.LogFieldField, string(field)),
			)
			return NewHitList(hits[:1]), nil
		}
	}
	return NewHitList(nil), nil
}

// LookupQuery 多字段查询，各字段结果取并集
func (idx *Index) LookupQuery(q *iface.Query) (*HitList, error) {
	skip := idx.skipFor(q)

	var all []iface.Hit
	for _, field := range q.Populated() {
		var (
			hits []iface.Hit
			err  error
		)
		if field == iface.FieldId {
			hits, err = idx.SearchEntries(q.Id)
		} else {
			hits, err = idx.SearchField(field, q.Value(field))
		}
		if err != nil {
			return nil, err
		}
		all = append(all, filterSkipped(hits, skip)...)
	}
	return NewHitList(MergeHits(all)), nil
}

// LookupAll 全部条目
func (idx *Index) LookupAll(q *iface.Query) (*HitList, error) {
	skip := idx.skipFor(q)

	hits := make([]iface.Hit, 0, idx.entries.Len())
	for i := 0; i < idx.entries.Len(); i++ {
		entry, err := idx.EntryAt(i)
		if err != nil {
			return nil, err
		}
		if !skip.Skipped(entry.Division) {
			hits = append(hits, entry.Hit())
		}
	}
	return NewHitList(MergeHits(hits)), nil
}

func (idx *Index) skipFor(q *iface.Query) SkipSet {
	include, exclude := idx.opts.Filters(q.Include, q.Exclude)
	return idx.SkipVector(include, exclude)
}

func filterSkipped(hits []iface.Hit, skip SkipSet) []iface.Hit {
	out := hits[:0]
	for _, h := range hits {
		if !skip.Skipped(h.Division) {
			out = append(out, h)
		}
	}
	return out
}

// MergeHits 按 (division, 注释偏移量) 排序并去掉重复命中
func MergeHits(hits []iface.Hit) []iface.Hit {
	if len(hits) == 0 {
		return hits
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Less(hits[j])
	})

	out := hits[:1]
	for _, h := range hits[1:] {
		if !h.Same(out[len(out)-1]) {
			out = append(out, h)
		}
	}
	return out
}
