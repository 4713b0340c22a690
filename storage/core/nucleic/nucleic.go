package nucleic

import (
	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// 2-bit 编码（ncbi2na）：每字节4个碱基，高位在前
// | b0 2比特 | b1 2比特 | b2 2比特 | b3 2比特 |
const (
	BasesPerByte = 4
	bitsPerBase  = 2
	baseMask     = 0x03
)

// Alphabet2na 2-bit 编码对应的碱基
const Alphabet2na = "ACGT"

// Alphabet4na ncbi4na 编码对应的碱基（含简并碱基）
const Alphabet4na = "-ACMGRSVTWYHKDBN"

var code2na = func() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = 0xff
	}
	for i := 0; i < len(Alphabet2na); i++ {
		t[Alphabet2na[i]] = byte(i)
		t[Alphabet2na[i]|0x20] = byte(i)
	}
	// U 与 T 同码
	t['U'], t['u'] = 3, 3
	return t
}()

// Code2na 碱基的 2-bit 编码，非 ACGTU 返回 ok=false
func Code2na(base byte) (byte, bool) {
	c := code2na[base]
	return c, c != 0xff
}

func baseAt(packed []byte, i int) byte {
	shift := uint(bitsPerBase * (BasesPerByte - 1 - i%BasesPerByte))
	return Alphabet2na[(packed[i/BasesPerByte]>>shift)&baseMask]
}

// PackedLength 末字节低2位记录末字节中的有效碱基数，
// 长度恰好是4的倍数时追加一个计数为0的字节
func PackedLength(packed []byte) (int, error) {
	if len(packed) == 0 {
		e := errs.NewCorruptErr().WithErr(errors.New("empty 2-bit buffer"))
		logs.Error(e.Error())
		return 0, e
	}
	last := packed[len(packed)-1]
	return (len(packed)-1)*BasesPerByte + int(last&baseMask), nil
}

// Unpack2na 解码带末字节计数的 2-bit 序列
// 输出缓冲区复用输入的前缀，从尾部向前展开，因此读 buf[i/4] 时该字节尚未被覆盖
func Unpack2na(packed []byte) ([]byte, error) {
	n, err := PackedLength(packed)
	if err != nil {
		return nil, err
	}

	size := n
	if len(packed) > size {
		size = len(packed)
	}
	buf := make([]byte, size)
	copy(buf, packed)
	for i := n - 1; i >= 0; i-- {
		buf[i] = baseAt(buf, i)
	}
	return buf[:n], nil
}

// UnpackExact 解码恰好 n 个碱基，末字节没有计数（GCG 2-bit 正文）
func UnpackExact(packed []byte, n int) ([]byte, error) {
	if n < 0 || (n+BasesPerByte-1)/BasesPerByte > len(packed) {
		e := errs.NewCorruptErr().WithErr(errors.Errorf("%d bases do not fit in %d packed bytes", n, len(packed)))
		logs.Error(e.Error(), zap.Int(consts.LogFieldValue, n))
		return nil, e
	}

	out := make([]byte, n)
	for i := range out {
		out[i] = baseAt(packed, i)
	}
	return out, nil
}

// Pack2na 编码为带末字节计数的 2-bit 序列，非 ACGTU 碱基按 A 编码
func Pack2na(seq []byte) []byte {
	packed := PackExact(seq)
	if len(seq)%BasesPerByte == 0 {
		return append(packed, 0)
	}
	packed[len(packed)-1] |= byte(len(seq) % BasesPerByte)
	return packed
}

// PackExact 编码为 (len+3)/4 字节，末字节不带计数
func PackExact(seq []byte) []byte {
	packed := make([]byte, (len(seq)+BasesPerByte-1)/BasesPerByte)
	for i, base := range seq {
		c, _ := Code2na(base)
		c &= baseMask
		shift := uint(bitsPerBase * (BasesPerByte - 1 - i%BasesPerByte))
		packed[i/BasesPerByte] |= c << shift
	}
	return packed
}
