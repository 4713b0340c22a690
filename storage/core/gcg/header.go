package gcg

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/pkg/errors"
)

// 序列正文编码
const (
	TypeAscii  = "A"
	TypePacked = "2"
)

const headerFields = 6

// Header 序列文件中每条记录的标题行
// >>>>id  字段2  字段3  类型  长度  位置
// 拆分记录的各个分块通过 位置（从1开始）拼接
type Header struct {
	Id       string
	Type     string
	Length   int
	Position int
}

func parseHeader(line []byte) (*Header, error) {
	line = bytes.TrimLeft(bytes.TrimRight(line, "\r\n"), ">")
	fields := strings.Fields(string(line))
	if len(fields) != headerFields {
		return nil, errs.NewCorruptErr().WithErr(errors.Errorf("gcg header %q has %d fields, want %d", line, len(fields), headerFields))
	}

	h := &Header{Id: fields[0], Type: strings.ToUpper(fields[3])}
	length, err := strconv.Atoi(fields[4])
	if err != nil || length < 0 {
		return nil, errs.NewCorruptErr().WithErr(errors.Errorf("gcg header %q: bad length %q", line, fields[4]))
	}
	position, err := strconv.Atoi(fields[5])
	if err != nil || position < 1 {
		return nil, errs.NewCorruptErr().WithErr(errors.Errorf("gcg header %q: bad position %q", line, fields[5]))
	}
	h.Length, h.Position = length, position

	if h.Type != TypeAscii && h.Type != TypePacked {
		return nil, errs.NewUnsupportedFormatErr().WithErr(errors.Errorf("gcg header %q: sequence type %q", line, fields[3]))
	}
	return h, nil
}

var continuation = regexp.MustCompile(`^(.+)_0{1,2}$`)

// splitBase 以 _0 / _00 结尾的 id 是拆分记录的第一块，返回去掉后缀的名字
func splitBase(id string) (string, bool) {
	m := continuation.FindStringSubmatch(id)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// continues id 等于 base 或为 base_<数字> 时属于同一条拆分记录
func continues(base, id string) bool {
	if id == base {
		return true
	}
	if !strings.HasPrefix(id, base+"_") {
		return false
	}
	suffix := id[len(base)+1:]
	if suffix == "" {
		return false
	}
	for _, c := range suffix {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
