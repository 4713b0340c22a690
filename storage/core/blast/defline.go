package blast

import (
	"bytes"
	"strings"

	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/pkg/errors"
)

// BER 编码的 Blast-def-line-set
// | tag | length | contents |
// length 短格式 <0x80，长格式 0x80|n 后跟 n 字节，0x80 表示不定长，以 0x00 0x00 结束
const (
	tagVisibleString = 0x1a
	tagSequence      = 0x30
	tagConstructed   = 0x20
	tagHighMask      = 0x1f
	lengthLong       = 0x80
	lengthIndefinite = 0x80
	maxBerDepth      = 32
)

// deflineSeparator 多条 defline 拼接时的分隔符
const deflineSeparator = "\x01"

// deflineSet 每条 defline 的 VisibleString，按出现顺序
// 外层 SEQUENCE OF 中的每个 SEQUENCE 为一条 defline
type deflineSet struct {
	lines [][]string
}

func (ds *deflineSet) start() {
	ds.lines = append(ds.lines, nil)
}

func (ds *deflineSet) add(s string) {
	if len(ds.lines) == 0 {
		ds.start()
	}
	last := len(ds.lines) - 1
	ds.lines[last] = append(ds.lines[last], s)
}

// deflines 按 defline 分组提取 VisibleString
func deflines(data []byte) ([][]string, error) {
	ds := &deflineSet{}
	rest, err := walkBer(data, 0, false, ds)
	if err != nil {
		return nil, err
	}
	if len(bytes.Trim(rest, "\x00")) != 0 {
		return nil, errs.NewCorruptErr().WithErr(errors.Errorf("%d trailing bytes after defline", len(rest)))
	}
	return ds.lines, nil
}

// walkBer 解析 data 中连续的 TLV，indefinite 为true时遇到结束标记返回剩余数据
func walkBer(data []byte, depth int, indefinite bool, out *deflineSet) ([]byte, error) {
	if depth > maxBerDepth {
		return nil, errs.NewCorruptErr().WithErr(errors.New("defline nested too deep"))
	}

	for len(data) > 0 {
		if indefinite && len(data) >= 2 && data[0] == 0 && data[1] == 0 {
			return data[2:], nil
		}
		if !indefinite && depth == 0 && data[0] == 0 {
			return data, nil
		}

		tag := data[0]
		data = data[1:]
		if tag&tagHighMask == tagHighMask {
			// 多字节标签号
			for len(data) > 0 && data[0]&0x80 != 0 {
				data = data[1:]
			}
			if len(data) == 0 {
				return nil, errs.NewCorruptErr().WithErr(errors.New("truncated defline tag"))
			}
			data = data[1:]
		}

		if len(data) == 0 {
			return nil, errs.NewCorruptErr().WithErr(errors.New("truncated defline length"))
		}
		lb := data[0]
		data = data[1:]

		if tag == tagSequence && depth == 1 {
			out.start()
		}

		if lb == lengthIndefinite {
			if tag&tagConstructed == 0 {
				return nil, errs.NewCorruptErr().WithErr(errors.New("indefinite length on primitive defline value"))
			}
			rest, err := walkBer(data, depth+1, true, out)
			if err != nil {
				return nil, err
			}
			data = rest
			continue
		}

		length := int(lb)
		if lb&lengthLong != 0 {
			n := int(lb &^ lengthLong)
			if n > 4 || n > len(data) {
				return nil, errs.NewCorruptErr().WithErr(errors.Errorf("bad defline length of %d bytes", n))
			}
			length = 0
			for _, b := range data[:n] {
				length = length<<8 | int(b)
			}
			data = data[n:]
		}
		if length > len(data) {
			return nil, errs.NewCorruptErr().WithErr(errors.Errorf("defline value of %d bytes, %d left", length, len(data)))
		}

		value := data[:length]
		data = data[length:]
		switch {
		case tag == tagVisibleString:
			out.add(string(value))
		case tag&tagConstructed != 0:
			if _, err := walkBer(value, depth+1, false, out); err != nil {
				return nil, err
			}
		}
	}

	if indefinite {
		return nil, errs.NewCorruptErr().WithErr(errors.New("missing end of contents"))
	}
	return nil, nil
}

// deflineText 每条 defline 的第一个字符串为 title，其余为 id
// 多条 defline 以 \x01 连接
func deflineText(lines [][]string) string {
	parts := make([]string, 0, len(lines))
	for _, strs := range lines {
		if len(strs) == 0 {
			continue
		}
		title, ids := strs[0], strs[1:]
		if len(ids) == 0 {
			parts = append(parts, title)
			continue
		}
		parts = append(parts, strings.Join(ids, "|")+" "+title)
	}
	return ">" + strings.Join(parts, deflineSeparator)
}
