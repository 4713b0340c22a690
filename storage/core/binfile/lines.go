package binfile

import (
	"bufio"
	"bytes"
	"io"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const lineBufferSize = 64 * consts.KB

// LineFunc 逐行判断：keep 表示收入该行，more=false 表示到此为止
// n 为行号（从0开始），line 含行尾换行符
type LineFunc func(n int, line []byte) (keep, more bool)

// ReadLines 从 off 开始按行读取，直到 fn 返回 more=false 或文件结束
func (f *File) ReadLines(off int64, fn LineFunc) ([]byte, error) {
	section, err := f.Section(off)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	r := bufio.NewReaderSize(section, lineBufferSize)
	for n := 0; ; n++ {
		line, err := r.ReadBytes('\n')
		if len(line) > 0 {
			keep, more := fn(n, line)
			if keep {
				out.Write(line)
			}
			if !more {
				break
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if errs.GetCode(err) != errs.UnknownErrCode {
				return nil, err
			}
			e := errs.NewReadFileErr().WithErr(errors.Wrapf(err, "%s: read line at offset %d", f.path, off))
			logs.Error(e.Error(), zap.String(consts.LogFieldPath, f.path), zap.Int64(consts.LogFieldOffset, off))
			return nil, e
		}
	}
	return out.Bytes(), nil
}

// HasPrefix 行首匹配
func HasPrefix(line []byte, prefix string) bool {
	return len(line) >= len(prefix) && string(line[:len(prefix)]) == prefix
}
