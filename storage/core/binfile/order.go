package binfile

import (
	"encoding/binary"
	"fmt"
	"strings"
	"sync"

	"github.com/Trinoooo/eggie_seqdb/errs"
	"golang.org/x/sys/cpu"
)

// 字节序配置取值
const (
	OrderLittle = "little"
	OrderBig    = "big"
	OrderNative = "native"
	OrderAuto   = "auto"
)

var (
	nativeOnce  sync.Once
	nativeOrder binary.ByteOrder
)

// NativeOrder 主机字节序，只探测一次
func NativeOrder() binary.ByteOrder {
	nativeOnce.Do(func() {
		if cpu.IsBigEndian {
			nativeOrder = binary.BigEndian
		} else {
			nativeOrder = binary.LittleEndian
		}
	})
	return nativeOrder
}

// ParseOrder 解析配置中的字节序
// 返回 auto=true 时调用方需要自行探测（见 ProbeOrder）
func ParseOrder(name string) (order binary.ByteOrder, auto bool, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case OrderLittle:
		return binary.LittleEndian, false, nil
	case OrderBig:
		return binary.BigEndian, false, nil
	case OrderNative:
		return NativeOrder(), false, nil
	case OrderAuto, "":
		return nil, true, nil
	default:
		return nil, false, errs.NewConfigErr().WithErr(fmt.Errorf("unknown byte order %q", name))
	}
}

// ProbeOrder 根据文件头中记录的文件大小字段推断字节序
// sizeOffset 处的4字节按两种字节序解释，与真实文件大小相等者胜出；
// 都不相等时回退到小端（EMBL-CD 原生字节序），ok=false
func ProbeOrder(path string, sizeOffset int64) (order binary.ByteOrder, ok bool, err error) {
	f, err := Open(path, binary.LittleEndian, false)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	raw, err := f.Bytes(sizeOffset, 4)
	if err != nil {
		return nil, false, err
	}

	size := uint64(f.Size())
	switch {
	case uint64(binary.LittleEndian.Uint32(raw)) == size:
		return binary.LittleEndian, true, nil
	case uint64(binary.BigEndian.Uint32(raw)) == size:
		return binary.BigEndian, true, nil
	default:
		return binary.LittleEndian, false, nil
	}
}
