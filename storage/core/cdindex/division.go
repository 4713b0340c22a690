package cdindex

import (
	"path/filepath"
	"strings"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"github.com/Trinoooo/eggie_seqdb/utils"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Division 一个物理数据文件
// division.lkp 记录结构：
// | code 2字节 | filename (record-size - 2)字节 |
// filename 可以是 "数据文件 序列文件" 两个名字，以空格分隔
type Division struct {
	Code    uint16
	File    string
	SeqFile string
}

func loadDivisions(f *indexFile) ([]Division, error) {
	divisions := make([]Division, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		raw, err := f.record(i)
		if err != nil {
			return nil, err
		}

		d := Division{Code: f.Order().Uint16(raw[:divisionCodeSize])}
		names := strings.Fields(trimField(raw[divisionCodeSize:]))
		if d.Code == 0 || len(names) == 0 {
			e := errs.NewCorruptErr().WithErr(errors.Errorf("%s: bad division record %d", f.Path(), i))
			logs.Error(e.Error(), zap.String(consts.LogFieldPath, f.Path()), zap.Uint16(consts.LogFieldDivision, d.Code))
			return nil, e
		}
		d.File = names[0]
		if len(names) > 1 {
			d.SeqFile = names[1]
		}
		divisions = append(divisions, d)
	}
	return divisions, nil
}

// SkipSet 以 division 编号为下标的跳过标记
type SkipSet []bool

// Skipped 编号超出范围的 division 不跳过，读取时会按损坏处理
func (s SkipSet) Skipped(code uint16) bool {
	return int(code) < len(s) && s[code]
}

// Count 被跳过的 division 数量
func (s SkipSet) Count() int {
	n := 0
	for _, skip := range s {
		if skip {
			n++
		}
	}
	return n
}

// SkipVector 根据文件名过滤条件计算跳过标记
// 给定 include 时，未命中任何 include 的文件被跳过；
// 命中 exclude 且未命中 include 的文件被跳过
func (idx *Index) SkipVector(include, exclude []string) SkipSet {
	skip := make(SkipSet, idx.maxCode+1)
	for _, d := range idx.divisions {
		name := filepath.Base(d.File)
		included := utils.MatchAny(include, name)
		switch {
		case len(include) > 0 && !included:
			skip[d.Code] = true
		case !included && utils.MatchAny(exclude, name):
			skip[d.Code] = true
		}
	}
	return skip
}

// Division 按编号查找 division
func (idx *Index) Division(code uint16) (*Division, error) {
	pos, ok := idx.byCode[code]
	if !ok {
		e := errs.NewCorruptErr().WithErr(errors.Errorf("unknown division code %d", code))
		logs.Error(e.Error(), zap.Uint16(consts.LogFieldDivision, code))
		return nil, e
	}
	return &idx.divisions[pos], nil
}

// Divisions 全部 division，按 division.lkp 中的顺序
func (idx *Index) Divisions() []Division {
	return idx.divisions
}
