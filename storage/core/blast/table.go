package blast

import (
	"encoding/binary"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/storage/core/binfile"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Table BLAST 表文件（.pin / .nin / .atb / .ntb）
// 2.x 文件头：
// ----------------------------------------------------------------------------
// | version 4字节 | type 4字节 | titlelen 4字节 | title | datelen 4字节 | date |
// ----------------------------------------------------------------------------
// | size 4字节 | totlen 8字节（小端） | maxlen 4字节 |
// ----------------------------------------------------------------------------
// 1.x 文件头：
// ----------------------------------------------------------------------------
// | magic 4字节 | format 4字节 | titlelen 4字节 | title（补齐到4字节） |
// ----------------------------------------------------------------------------
// | size 4字节 | totlen 4字节 | maxlen 4字节 | (DNA) complen 4字节 | cleancount 4字节 |
// ----------------------------------------------------------------------------
// 文件头之后依次是 size+1 项的偏移量数组：
// 标题 Hdr、压缩序列 Cmp，1.x DNA 之后为 FASTA 源文件 Src（以及 cleancount 个字），
// 2.x DNA 之后为简并碱基 Amb
type Table struct {
	Kind       Kind
	Title      string
	Date       string
	Size       uint32
	TotLen     uint64
	MaxLen     uint32
	CompLen    uint32
	CleanCount uint32

	// 各数组在表文件中的起始位置
	TopHdr int64
	TopCmp int64
	TopSrc int64
	TopAmb int64

	Hdr []uint32
	Cmp []uint32
	Src []uint32
	Amb []uint32
}

// headerReader 顺序读取表文件头
type headerReader struct {
	f   *binfile.File
	off int64
}

func (r *headerReader) uint32() (uint32, error) {
	v, err := r.f.Uint32(r.off)
	r.off += wordSize
	return v, err
}

func (r *headerReader) uint64LE() (uint64, error) {
	raw, err := r.f.Bytes(r.off, 8)
	if err != nil {
		return 0, err
	}
	r.off += 8
	return binary.LittleEndian.Uint64(raw), nil
}

// pascal 4字节长度前缀的字符串，align>1 时补齐
func (r *headerReader) pascal(align int64) (string, error) {
	n, err := r.uint32()
	if err != nil {
		return "", err
	}
	if int64(n) > r.f.Size()-r.off {
		e := errs.NewCorruptErr().WithErr(errors.Errorf("%s: string length %d at offset %d beyond file", r.f.Path(), n, r.off))
		logs.Error(e.Error(), zap.String(consts.LogFieldPath, r.f.Path()), zap.Int64(consts.LogFieldOffset, r.off))
		return "", e
	}
	raw, err := r.f.Bytes(r.off, int(n))
	if err != nil {
		return "", err
	}
	r.off += int64(n)
	if rem := r.off % align; align > 1 && rem != 0 {
		r.off += align - rem
	}
	return string(raw), nil
}

func (r *headerReader) array(n int) ([]uint32, int64, error) {
	top := r.off
	arr, err := r.f.Uint32s(r.off, n)
	if err != nil {
		return nil, 0, err
	}
	r.off += int64(n) * wordSize
	return arr, top, nil
}

func corrupt(f *binfile.File, format string, args ...interface{}) error {
	e := errs.NewCorruptErr().WithErr(errors.Errorf("%s: "+format, append([]interface{}{f.Path()}, args...)...))
	logs.Error(e.Error(), zap.String(consts.LogFieldPath, f.Path()))
	return e
}

func unsupported(f *binfile.File, format string, args ...interface{}) error {
	e := errs.NewUnsupportedFormatErr().WithErr(errors.Errorf("%s: "+format, append([]interface{}{f.Path()}, args...)...))
	logs.Error(e.Error(), zap.String(consts.LogFieldPath, f.Path()))
	return e
}

// ParseTable 解析表文件，kind 由文件扩展名决定
func ParseTable(f *binfile.File, kind Kind) (*Table, error) {
	r := &headerReader{f: f}
	t := &Table{Kind: kind}

	var err error
	switch kind.Version() {
	case 1:
		err = t.parseHeader1(r)
	case 2:
		err = t.parseHeader2(r)
	default:
		err = unsupported(f, "unknown table kind %d", kind)
	}
	if err != nil {
		return nil, err
	}

	// 数组长度完全由 size 决定，先核对文件长度，避免按损坏的 size 分配内存
	arrays := int64(2)
	if !kind.Protein() {
		arrays = 3
	}
	want := r.off + arrays*(int64(t.Size)+1)*wordSize + int64(t.CleanCount)*wordSize
	if want != f.Size() {
		return nil, corrupt(f, "table of %d records should be %d bytes, got %d", t.Size, want, f.Size())
	}

	if t.Hdr, t.TopHdr, err = r.array(int(t.Size) + 1); err != nil {
		return nil, err
	}
	if t.Cmp, t.TopCmp, err = r.array(int(t.Size) + 1); err != nil {
		return nil, err
	}
	switch kind {
	case KindDna1:
		if t.Src, t.TopSrc, err = r.array(int(t.Size) + 1); err != nil {
			return nil, err
		}
	case KindDna2:
		if t.Amb, t.TopAmb, err = r.array(int(t.Size) + 1); err != nil {
			return nil, err
		}
	}

	if err := t.checkMonotonic(f); err != nil {
		return nil, err
	}

	logs.Debug("parse blast table",
		zap.String(consts.LogFieldPath, f.Path()),
		zap.String("kind", kind.String()),
		zap.Uint32(consts.LogFieldCount, t.Size),
		zap.String("title", t.Title),
	)
	return t, nil
}

func (t *Table) parseHeader1(r *headerReader) error {
	magic, err := r.uint32()
	if err != nil {
		return err
	}
	format, err := r.uint32()
	if err != nil {
		return err
	}

	wantMagic, wantFormat := magicDna1, formatDna1
	if t.Kind.Protein() {
		wantMagic, wantFormat = magicProtein1, formatProtein1
	}
	if magic != wantMagic {
		return unsupported(r.f, "magic %#x, want %#x", magic, wantMagic)
	}
	if format != wantFormat {
		return unsupported(r.f, "format %d, want %d", format, wantFormat)
	}

	if t.Title, err = r.pascal(wordSize); err != nil {
		return err
	}
	if t.Size, err = r.uint32(); err != nil {
		return err
	}
	totLen, err := r.uint32()
	if err != nil {
		return err
	}
	t.TotLen = uint64(totLen)
	if t.MaxLen, err = r.uint32(); err != nil {
		return err
	}

	if !t.Kind.Protein() {
		if t.CompLen, err = r.uint32(); err != nil {
			return err
		}
		if t.CleanCount, err = r.uint32(); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) parseHeader2(r *headerReader) error {
	version, err := r.uint32()
	if err != nil {
		return err
	}
	if version != version3 && version != version4 {
		return unsupported(r.f, "version %d", version)
	}

	typ, err := r.uint32()
	if err != nil {
		return err
	}
	wantType := typeDna
	if t.Kind.Protein() {
		wantType = typeProtein
	}
	if typ != wantType {
		return unsupported(r.f, "sequence type %d, want %d", typ, wantType)
	}

	if t.Title, err = r.pascal(1); err != nil {
		return err
	}
	if t.Date, err = r.pascal(1); err != nil {
		return err
	}
	if t.Size, err = r.uint32(); err != nil {
		return err
	}
	if t.TotLen, err = r.uint64LE(); err != nil {
		return err
	}
	t.MaxLen, err = r.uint32()
	return err
}

func (t *Table) checkMonotonic(f *binfile.File) error {
	arrays := map[string][]uint32{"header": t.Hdr, "sequence": t.Cmp, "source": t.Src, "ambiguity": t.Amb}
	for name, arr := range arrays {
		for i := 1; i < len(arr); i++ {
			if arr[i] < arr[i-1] {
				return corrupt(f, "%s offset %d (%d) < offset %d (%d)", name, i, arr[i], i-1, arr[i-1])
			}
		}
	}

	// 简并碱基区域夹在本条与下一条压缩序列之间
	for i := 0; i+1 < len(t.Amb); i++ {
		if t.Amb[i] < t.Cmp[i] || t.Amb[i] > t.Cmp[i+1] {
			return corrupt(f, "ambiguity offset %d (%d) outside [%d, %d]", i, t.Amb[i], t.Cmp[i], t.Cmp[i+1])
		}
	}
	return nil
}

// CheckSizes 最后一项偏移量必须等于标题文件 / 序列文件的长度
func (t *Table) CheckSizes(hdr, seq *binfile.File) error {
	if last := int64(t.Hdr[t.Size]); last != hdr.Size() {
		return corrupt(hdr, "last header offset %d, file size %d", last, hdr.Size())
	}
	if last := int64(t.Cmp[t.Size]); last != seq.Size() {
		return corrupt(seq, "last sequence offset %d, file size %d", last, seq.Size())
	}
	return nil
}

// span 第 i 条记录在 arr 中的 [start, end)
func (t *Table) span(arr []uint32, i uint32) (int64, int64, error) {
	if i >= t.Size {
		e := errs.NewCorruptErr().WithErr(errors.Errorf("record %d out of table of %d", i, t.Size))
		logs.Error(e.Error(), zap.Uint32(consts.LogFieldValue, i))
		return 0, 0, e
	}
	return int64(arr[i]), int64(arr[i+1]), nil
}
