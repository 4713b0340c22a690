package binfile

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"github.com/Trinoooo/eggie_seqdb/utils"
	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// File 只读的二进制文件句柄
// 所有读取都是定位读（ReadAt），不依赖文件游标，
// 因此同一个 File 可以被多个查询会话交替使用
type File struct {
	path   string
	fd     *os.File
	data   mmap.MMap // data 非nil表示文件已经映射到内存
	size   int64
	order  binary.ByteOrder
	closed bool
}

var _ io.ReaderAt = &File{}

// Open 打开文件，order 决定多字节整数的解释方式
// useMmap 为true时整个文件只读映射，适合被反复二分查找的索引文件
func Open(path string, order binary.ByteOrder, useMmap bool) (*File, error) {
	if order == nil {
		e := errs.NewInvalidParamErr()
		logs.Error(e.Error(), zap.String(consts.LogFieldParams, "order"), zap.String(consts.LogFieldPath, path))
		return nil, e
	}

	fd, size, err := utils.OpenReadOnly(path)
	if err != nil {
		logs.Error(err.Error(), zap.String(consts.LogFieldPath, path))
		return nil, err
	}

	f := &File{
		path:  path,
		fd:    fd,
		size:  size,
		order: order,
	}

	// 空文件无法映射
	if useMmap && size > 0 {
		data, err := mmap.Map(fd, mmap.RDONLY, 0)
		if err != nil {
			_ = fd.Close()
			e := errs.NewMmapFileErr().WithErr(errors.Wrap(err, path))
			logs.Error(e.Error(), zap.String(consts.LogFieldPath, path))
			return nil, e
		}
		f.data = data
	}

	return f, nil
}

func (f *File) Path() string {
	return f.path
}

func (f *File) Size() int64 {
	return f.size
}

func (f *File) Order() binary.ByteOrder {
	return f.order
}

func (f *File) Mapped() bool {
	return f.data != nil
}

// ReadAt 实现 io.ReaderAt
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if f.closed {
		return 0, errs.NewFileClosedErr()
	}
	if off < 0 {
		return 0, errs.NewSeekFileErr().WithErr(errors.Errorf("%s: negative offset %d", f.path, off))
	}

	if f.data == nil {
		return f.fd.ReadAt(p, off)
	}

	if off >= f.size {
		return 0, io.EOF
	}
	n := copy(p, f.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// ReadFull 从 off 处读满 p，读不满视为致命错误
func (f *File) ReadFull(p []byte, off int64) error {
	n, err := f.ReadAt(p, off)
	if n == len(p) {
		return nil
	}

	var e *errs.SeqErr
	if err == nil || errors.Is(err, io.EOF) {
		e = errs.NewShortReadErr().WithErr(errors.Errorf("%s: want %d bytes at offset %d, got %d", f.path, len(p), off, n))
	} else if errs.GetCode(err) != errs.UnknownErrCode {
		return err
	} else {
		e = errs.NewReadFileErr().WithErr(errors.Wrapf(err, "%s: read %d bytes at offset %d", f.path, len(p), off))
	}
	logs.Error(e.Error(), zap.String(consts.LogFieldPath, f.path), zap.Int64(consts.LogFieldOffset, off))
	return e
}

// Bytes 读取 [off, off+n) 的拷贝
func (f *File) Bytes(off int64, n int) ([]byte, error) {
	if n < 0 {
		e := errs.NewCorruptErr().WithErr(errors.Errorf("%s: negative length %d at offset %d", f.path, n, off))
		logs.Error(e.Error(), zap.String(consts.LogFieldPath, f.path))
		return nil, e
	}
	buf := make([]byte, n)
	if err := f.ReadFull(buf, off); err != nil {
		return nil, err
	}
	return buf, nil
}

func (f *File) Uint16(off int64) (uint16, error) {
	var buf [2]byte
	if err := f.ReadFull(buf[:], off); err != nil {
		return 0, err
	}
	return f.order.Uint16(buf[:]), nil
}

func (f *File) Uint32(off int64) (uint32, error) {
	var buf [4]byte
	if err := f.ReadFull(buf[:], off); err != nil {
		return 0, err
	}
	return f.order.Uint32(buf[:]), nil
}

// Uint32s 读取 n 个连续的 uint32
func (f *File) Uint32s(off int64, n int) ([]uint32, error) {
	raw, err := f.Bytes(off, n*4)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = f.order.Uint32(raw[i*4:])
	}
	return out, nil
}

// Section 从 off 开始直到文件末尾的只读视图，供按行读取使用
func (f *File) Section(off int64) (*io.SectionReader, error) {
	if off < 0 || off > f.size {
		e := errs.NewSeekFileErr().WithErr(errors.Errorf("%s: offset %d out of range [0, %d]", f.path, off, f.size))
		logs.Error(e.Error(), zap.String(consts.LogFieldPath, f.path))
		return nil, e
	}
	return io.NewSectionReader(f, off, f.size-off), nil
}

func (f *File) Close() error {
	if f.closed {
		return errs.NewFileClosedErr()
	}
	f.closed = true

	if f.data != nil {
		if err := f.data.Unmap(); err != nil {
			_ = f.fd.Close()
			return errs.NewCloseFileErr().WithErr(errors.Wrap(err, f.path))
		}
		f.data = nil
	}

	if err := f.fd.Close(); err != nil {
		return errs.NewCloseFileErr().WithErr(errors.Wrap(err, f.path))
	}
	return nil
}
