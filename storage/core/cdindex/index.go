package cdindex

import (
	"encoding/binary"
	"path/filepath"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/storage/core/binfile"
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"github.com/Trinoooo/eggie_seqdb/utils"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Index 一个 EMBL-CD 索引目录
// division.lkp 在打开时全部读入内存，之后即关闭；
// entrynam.idx 与各字段的 .trg/.hit 在整个生命周期内保持打开
type Index struct {
	opts  *Options
	order binary.ByteOrder

	header    *Header
	divisions []Division
	byCode    map[uint16]int
	maxCode   uint16

	entries *indexFile
	targets map[iface.Field]*targetPair
}

// Open 打开索引目录
func Open(opts *Options) (*Index, error) {
	if opts == nil {
		e := errs.NewInvalidParamErr()
		logs.Error(e.Error(), zap.String(consts.LogFieldParams, "opts"))
		return nil, e
	}
	if err := opts.check(); err != nil {
		return nil, err
	}
	if err := utils.CheckDir(opts.IndexDir); err != nil {
		logs.Error(err.Error(), zap.String(consts.LogFieldPath, opts.IndexDir))
		return nil, err
	}

	idx := &Index{
		opts:    opts,
		order:   opts.Order,
		byCode:  make(map[uint16]int),
		targets: make(map[iface.Field]*targetPair),
	}

	divisionPath := filepath.Join(opts.IndexDir, consts.DivisionFile)
	if idx.order == nil {
		order, ok, err := binfile.ProbeOrder(divisionPath, headerFileSizeOffset)
		if err != nil {
			return nil, err
		}
		if !ok {
			logs.Warn("byte order detection inconclusive, assume little endian", zap.String(consts.LogFieldPath, divisionPath))
		}
		idx.order = order
	}

	if err := idx.loadDivisions(divisionPath); err != nil {
		return nil, err
	}

	entries, err := openIndexFile(filepath.Join(opts.IndexDir, consts.EntryFile), idx.order, opts.Mmap, entryFixedSize+1)
	if err != nil {
		return nil, err
	}
	idx.entries = entries
	idx.header = entries.header

	for _, field := range iface.TargetFields {
		trgPath, hitPath := targetPaths(opts.IndexDir, field)
		if !utils.FileExists(trgPath) || !utils.FileExists(hitPath) {
			continue
		}
		tp, err := idx.openTargetPair(field)
		if err != nil {
			_ = idx.Close()
			return nil, err
		}
		idx.targets[field] = tp
	}

	if opts.Verify {
		if err := idx.Verify(); err != nil {
			_ = idx.Close()
			return nil, err
		}
	}

	logs.Info("open index",
		zap.String(consts.LogFieldPath, opts.IndexDir),
		zap.Int("divisions", len(idx.divisions)),
		zap.Int("entries", idx.entries.Len()),
		zap.Int("fields", len(idx.targets)),
		zap.String("order", idx.order.String()),
	)
	return idx, nil
}

func (idx *Index) loadDivisions(path string) error {
	f, err := openIndexFile(path, idx.order, false, divisionCodeSize+1)
	if err != nil {
		return err
	}
	defer f.Close()

	divisions, err := loadDivisions(f)
	if err != nil {
		return err
	}

	for i, d := range divisions {
		if _, ok := idx.byCode[d.Code]; ok {
			e := errs.NewCorruptErr().WithErr(errors.Errorf("%s: duplicate division code %d", path, d.Code))
			logs.Error(e.Error(), zap.Uint16(consts.LogFieldDivision, d.Code))
			return e
		}
		idx.byCode[d.Code] = i
		if d.Code > idx.maxCode {
			idx.maxCode = d.Code
		}
	}
	idx.divisions = divisions
	return nil
}

// Verify 线性扫描，确认 entrynam.idx 与各 .trg 按折叠键有序
func (idx *Index) Verify() error {
	if err := verifySorted(idx.entries, idx.entries.Len(), idx.entryName); err != nil {
		return err
	}
	for _, tp := range idx.targets {
		if err := verifySorted(tp.trg, tp.trg.Len(), tp.value); err != nil {
			return err
		}
	}
	return nil
}

func verifySorted(f *indexFile, n int, keyAt keyFunc) error {
	var prev string
	for i := 0; i < n; i++ {
		key, err := keyAt(i)
		if err != nil {
			return err
		}
		key = utils.Fold(key)
		if i > 0 && key < prev {
			e := errs.NewCorruptErr().WithErr(errors.Errorf("%s: record %d %q sorts before %q", f.Path(), i, key, prev))
			logs.Error(e.Error(), zap.String(consts.LogFieldPath, f.Path()), zap.Int(consts.LogFieldOffset, i))
			return e
		}
		prev = key
	}
	return nil
}

// Order 数据库使用的字节序
func (idx *Index) Order() binary.ByteOrder {
	return idx.order
}

func (idx *Index) Options() *Options {
	return idx.opts
}

func (idx *Index) Header() *Header {
	return idx.header
}

// Len entrynam.idx 中的条目数
func (idx *Index) Len() int {
	return idx.entries.Len()
}

// HasField 字段是否有可用的二级索引
func (idx *Index) HasField(field iface.Field) bool {
	if field == iface.FieldId {
		return true
	}
	_, ok := idx.targets[field]
	return ok
}

// Fields 可检索字段，按固定顺序
func (idx *Index) Fields() []iface.Field {
	fields := []iface.Field{iface.FieldId}
	for _, f := range iface.TargetFields {
		if _, ok := idx.targets[f]; ok {
			fields = append(fields, f)
		}
	}
	return fields
}

// Info 索引元信息，Method 由具体的访问方法填写
func (idx *Index) Info() *iface.Info {
	info := &iface.Info{
		Name:    idx.header.DbName,
		Release: idx.header.Release,
		Date:    idx.header.DateString(),
		Entries: idx.header.NRecords,
		Fields:  idx.Fields(),
	}
	for _, d := range idx.divisions {
		info.Divisions = append(info.Divisions, d.File)
	}
	return info
}

// Path 数据目录下 division 文件的完整路径
func (idx *Index) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(idx.opts.DataDir, name)
}

func (idx *Index) Close() error {
	var err error
	if idx.entries != nil {
		err = idx.entries.Close()
		idx.entries = nil
	}
	for field, tp := range idx.targets {
		if e := tp.close(); err == nil {
			err = e
		}
		delete(idx.targets, field)
	}
	if err != nil {
		logs.Error(err.Error(), zap.String(consts.LogFieldPath, idx.opts.IndexDir))
	}
	return err
}
