package gcg

import (
	"bufio"
	"io"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/storage/core/binfile"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"github.com/Trinoooo/eggie_seqdb/storage/core/nucleic"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// chunk 一条记录（或拆分记录的一块）
type chunk struct {
	header *Header
	desc   []byte
	seq    []byte
}

// seqReader 顺序读取序列文件中的记录
type seqReader struct {
	f      *binfile.File
	r      *bufio.Reader
	remain int64 // remain 起始偏移量之后的文件字节数，任何正文都不可能更长
}

func newSeqReader(f *binfile.File, off int64) (*seqReader, error) {
	section, err := f.Section(off)
	if err != nil {
		return nil, err
	}
	return &seqReader{
		f:      f,
		r:      bufio.NewReaderSize(section, 64*consts.KB),
		remain: f.Size() - off,
	}, nil
}

func (sr *seqReader) fail(err error) error {
	if errs.GetCode(err) == errs.UnknownErrCode {
		err = errs.NewReadFileErr().WithErr(errors.Wrap(err, sr.f.Path()))
	}
	logs.Error(err.Error(), zap.String(consts.LogFieldPath, sr.f.Path()))
	return err
}

// next 读取下一块，文件结束或下一行不是标题行时返回 nil
func (sr *seqReader) next() (*chunk, error) {
	// 跳过正文后的换行
	for {
		b, err := sr.r.Peek(1)
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		if err != nil {
			return nil, sr.fail(err)
		}
		if b[0] != '\n' && b[0] != '\r' {
			break
		}
		_, _ = sr.r.ReadByte()
	}

	if b, _ := sr.r.Peek(1); len(b) == 0 || b[0] != '>' {
		return nil, nil
	}

	line, err := sr.r.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, sr.fail(err)
	}
	header, err := parseHeader(line)
	if err != nil {
		return nil, sr.fail(err)
	}

	desc, err := sr.r.ReadBytes('\n')
	if err != nil {
		return nil, sr.fail(errs.NewShortReadErr().WithErr(errors.Errorf("%s: record %s has no description line", sr.f.Path(), header.Id)))
	}

	if size := bodySize(header); size > sr.remain {
		e := errs.NewCorruptErr().WithErr(errors.Errorf("%s: record %s claims %d body bytes, file has %d left", sr.f.Path(), header.Id, size, sr.remain))
		return nil, sr.fail(e)
	}

	c := &chunk{header: header, desc: desc}
	switch header.Type {
	case TypeAscii:
		c.seq, err = sr.ascii(header.Length)
	default:
		c.seq, err = sr.packed(header.Length)
	}
	if err != nil {
		return nil, sr.fail(err)
	}
	return c, nil
}

// bodySize 正文至少占用的字节数
func bodySize(h *Header) int64 {
	n := int64(h.Length)
	if h.Type == TypeAscii {
		return n
	}
	size := n / nucleic.BasesPerByte
	if n%nucleic.BasesPerByte != 0 {
		size++
	}
	return size
}

// ascii 读取 n 个字符，跳过换行
func (sr *seqReader) ascii(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		c, err := sr.r.ReadByte()
		if err != nil {
			return nil, errs.NewShortReadErr().WithErr(errors.Errorf("sequence ends after %d of %d symbols", len(out), n))
		}
		if c == '\n' || c == '\r' {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// packed 读取 (n+3)/4 字节并解码 n 个碱基
func (sr *seqReader) packed(n int) ([]byte, error) {
	raw := make([]byte, (n+nucleic.BasesPerByte-1)/nucleic.BasesPerByte)
	if _, err := io.ReadFull(sr.r, raw); err != nil {
		return nil, errs.NewShortReadErr().WithErr(errors.Wrapf(err, "packed sequence of %d bases", n))
	}
	return nucleic.UnpackExact(raw, n)
}

// readSequence 读取 off 处的记录，拆分记录的后续分块按 位置 拼接
func readSequence(f *binfile.File, off int64) (*chunk, error) {
	sr, err := newSeqReader(f, off)
	if err != nil {
		return nil, err
	}

	first, err := sr.next()
	if err != nil {
		return nil, err
	}
	if first == nil {
		e := errs.NewCorruptErr().WithErr(errors.Errorf("%s: no gcg header at offset %d", f.Path(), off))
		logs.Error(e.Error(), zap.String(consts.LogFieldPath, f.Path()), zap.Int64(consts.LogFieldOffset, off))
		return nil, e
	}

	base, split := splitBase(first.header.Id)
	if !split {
		return first, nil
	}

	buf, err := splice(f, nil, first)
	if err != nil {
		return nil, err
	}
	parts := 1
	for {
		c, err := sr.next()
		if err != nil {
			return nil, err
		}
		if c == nil || !continues(base, c.header.Id) {
			break
		}
		if buf, err = splice(f, buf, c); err != nil {
			return nil, err
		}
		parts++
	}

	logs.Debug("merge split gcg record",
		zap.String(consts.LogFieldValue, base),
		zap.Int(consts.LogFieldCount, parts),
		zap.Int("length", len(buf)),
	)
	first.seq = buf
	return first, nil
}

// splice 把分块写到 position-1 处，按需扩展缓冲区
// 分块起点超过已拼接长度说明中间有空洞，视为损坏
func splice(f *binfile.File, buf []byte, c *chunk) ([]byte, error) {
	start := c.header.Position - 1
	if start > len(buf) {
		e := errs.NewCorruptErr().WithErr(errors.Errorf("%s: chunk %s starts at %d, merged length is %d", f.Path(), c.header.Id, c.header.Position, len(buf)))
		logs.Error(e.Error(), zap.String(consts.LogFieldPath, f.Path()), zap.Int(consts.LogFieldOffset, c.header.Position))
		return nil, e
	}
	if end := start + len(c.seq); end > len(buf) {
		if end > cap(buf) {
			grown := make([]byte, end, 2*end)
			copy(grown, buf)
			buf = grown
		} else {
			buf = buf[:end]
		}
	}
	copy(buf[start:], c.seq)
	return buf, nil
}

// annotationExtent 注释文本到下一条 ">>>>" 标题行为止
func annotationExtent(n int, line []byte) (bool, bool) {
	if n > 0 && binfile.HasPrefix(line, ">>>>") {
		return false, false
	}
	return true, true
}
