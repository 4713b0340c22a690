package nucleic

import (
	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// 简并碱基记录，紧跟在记录数之后
// 短格式（每条1个字）：
// | code 4比特 | run-1 4比特 | position 24比特 |
// 长格式（记录数最高位置1，每条2个字）：
// | code 4比特 | run-1 12比特 | 保留 16比特 | position 32比特 |
const (
	LongFormat = 1 << 31

	codeShift     = 28
	shortRunShift = 24
	shortRunMask  = 0x0f
	shortPosMask  = 0x00ffffff
	longRunShift  = 16
	longRunMask   = 0x0fff
)

// Ambiguity 一段连续的相同简并碱基
type Ambiguity struct {
	Code     byte
	Run      int
	Position int
}

// Base 简并碱基对应的字母
func (a Ambiguity) Base() byte {
	return Alphabet4na[a.Code&0x0f]
}

// DecodeAmbiguity 解析简并碱基区域，words[0] 为记录数
func DecodeAmbiguity(words []uint32) ([]Ambiguity, error) {
	if len(words) == 0 {
		return nil, nil
	}

	count := int(words[0] &^ LongFormat)
	long := words[0]&LongFormat != 0
	perRecord := 1
	if long {
		perRecord = 2
	}
	if count*perRecord > len(words)-1 {
		e := errs.NewCorruptErr().WithErr(errors.Errorf("ambiguity count %d needs %d words, have %d", count, count*perRecord, len(words)-1))
		logs.Error(e.Error(), zap.Bool("long", long), zap.Int(consts.LogFieldCount, count))
		return nil, e
	}

	out := make([]Ambiguity, 0, count)
	for i := 0; i < count; i++ {
		w := words[1+i*perRecord]
		a := Ambiguity{Code: byte(w >> codeShift)}
		if long {
			a.Run = int((w>>longRunShift)&longRunMask) + 1
			a.Position = int(words[2+i*perRecord])
		} else {
			a.Run = int((w>>shortRunShift)&shortRunMask) + 1
			a.Position = int(w & shortPosMask)
		}
		out = append(out, a)
	}
	return out, nil
}

// ApplyAmbiguity 把简并碱基覆盖到已解码的序列上
func ApplyAmbiguity(seq []byte, words []uint32) error {
	ambiguities, err := DecodeAmbiguity(words)
	if err != nil {
		return err
	}

	for _, a := range ambiguities {
		if a.Position+a.Run > len(seq) {
			e := errs.NewCorruptErr().WithErr(errors.Errorf("ambiguity run [%d, +%d) beyond sequence length %d", a.Position, a.Run, len(seq)))
			logs.Error(e.Error(), zap.Int(consts.LogFieldOffset, a.Position))
			return e
		}
		base := a.Base()
		for i := a.Position; i < a.Position+a.Run; i++ {
			seq[i] = base
		}
	}
	return nil
}

// Code4na 字母对应的 ncbi4na 编码
func Code4na(base byte) (byte, bool) {
	for i := 0; i < len(Alphabet4na); i++ {
		if Alphabet4na[i] == base || Alphabet4na[i]|0x20 == base {
			return byte(i), true
		}
	}
	return 0, false
}

// EncodeAmbiguity 提取序列中非 ACGT 的连续片段，run 超过短格式上限或位置超过24比特时使用长格式
func EncodeAmbiguity(seq []byte) []uint32 {
	var runs []Ambiguity
	for i := 0; i < len(seq); {
		if _, ok := Code2na(seq[i]); ok {
			i++
			continue
		}
		code, ok := Code4na(seq[i])
		if !ok {
			code = byte(len(Alphabet4na) - 1)
		}
		j := i + 1
		for j < len(seq) && seq[j] == seq[i] {
			j++
		}
		runs = append(runs, Ambiguity{Code: code, Run: j - i, Position: i})
		i = j
	}
	if len(runs) == 0 {
		return nil
	}

	long := false
	for _, r := range runs {
		if r.Run > shortRunMask+1 || r.Position > shortPosMask {
			long = true
		}
	}

	if !long {
		words := []uint32{uint32(len(runs))}
		for _, r := range runs {
			words = append(words, uint32(r.Code)<<codeShift|uint32(r.Run-1)<<shortRunShift|uint32(r.Position))
		}
		return words
	}

	words := []uint32{uint32(len(runs)) | LongFormat}
	for _, r := range runs {
		// 单条长格式记录最多 4096 个碱基
		for r.Run > 0 {
			n := r.Run
			if n > longRunMask+1 {
				n = longRunMask + 1
			}
			words = append(words, uint32(r.Code)<<codeShift|uint32(n-1)<<longRunShift, uint32(r.Position))
			r.Run -= n
			r.Position += n
		}
	}
	words[0] = uint32((len(words)-1)/2) | LongFormat
	return words
}
