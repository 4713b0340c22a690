package nucleic

import (
	"strings"
	"testing"

	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackRoundTrip(t *testing.T) {
	seq := "ACGTTGCAACGTAGGCT"
	for n := 0; n <= len(seq); n++ {
		in := []byte(seq[:n])
		packed := Pack2na(in)
		assert.Equal(t, n/BasesPerByte+1, len(packed), "length %d", n)

		length, err := PackedLength(packed)
		require.Nil(t, err)
		assert.Equal(t, n, length)

		out, err := Unpack2na(packed)
		require.Nil(t, err)
		assert.Equal(t, string(in), string(out), "length %d", n)
	}
}

func TestPackExactRoundTrip(t *testing.T) {
	seq := "GATTACAGATTACA"
	for n := 0; n <= len(seq); n++ {
		packed := PackExact([]byte(seq[:n]))
		assert.Equal(t, (n+3)/4, len(packed))

		out, err := UnpackExact(packed, n)
		require.Nil(t, err)
		assert.Equal(t, seq[:n], string(out))
	}
}

func TestPackLayout(t *testing.T) {
	// A=0 C=1 G=2 T=3，高位在前
	assert.Equal(t, []byte{0x1b, 0x00}, Pack2na([]byte("ACGT")))
	assert.Equal(t, []byte{0xe7}, Pack2na([]byte("TGC")))
	assert.Equal(t, []byte{0x1b, 0xc1}, Pack2na([]byte("ACGTT")))
}

func TestUnpackErrors(t *testing.T) {
	_, err := Unpack2na(nil)
	assert.Equal(t, errs.CorruptErrCode, errs.GetCode(err))

	_, err = UnpackExact([]byte{0x1b}, 5)
	assert.Equal(t, errs.CorruptErrCode, errs.GetCode(err))
}

func TestApplyAmbiguityShort(t *testing.T) {
	seq := []byte("ACGTACGTAC")
	// N(15) 两个，从位置2开始；R(5) 一个，位置 9
	words := []uint32{2, 15<<28 | 1<<24 | 2, 5<<28 | 0<<24 | 9}
	require.Nil(t, ApplyAmbiguity(seq, words))
	assert.Equal(t, "ACNNACGTAR", string(seq))
}

func TestApplyAmbiguityLong(t *testing.T) {
	seq := []byte(strings.Repeat("A", 40))
	words := []uint32{1 | LongFormat, 15<<28 | 19<<16, 10}
	require.Nil(t, ApplyAmbiguity(seq, words))
	assert.Equal(t, strings.Repeat("A", 10)+strings.Repeat("N", 20)+strings.Repeat("A", 10), string(seq))
}

func TestApplyAmbiguityErrors(t *testing.T) {
	seq := []byte("ACGT")
	err := ApplyAmbiguity(seq, []uint32{2, 15 << 28})
	assert.Equal(t, errs.CorruptErrCode, errs.GetCode(err))

	err = ApplyAmbiguity(seq, []uint32{1, 15<<28 | 3<<24 | 2})
	assert.Equal(t, errs.CorruptErrCode, errs.GetCode(err))

	assert.Nil(t, ApplyAmbiguity(seq, nil))
	assert.Equal(t, "ACGT", string(seq))
}

func TestEncodeAmbiguity(t *testing.T) {
	cases := []string{
		"ACGT",
		"ACNNNGTRY",
		"NNNNNNNNNNNNNNNNNNNNACGT",
		strings.Repeat("AC", 10) + "WSKM" + strings.Repeat("G", 3),
	}
	for _, c := range cases {
		seq := []byte(c)
		words := EncodeAmbiguity(seq)

		out, err := Unpack2na(Pack2na(seq))
		require.Nil(t, err)
		require.Nil(t, ApplyAmbiguity(out, words))
		assert.Equal(t, c, string(out))
	}

	// 超过16个碱基的 run 需要长格式
	words := EncodeAmbiguity([]byte(strings.Repeat("N", 20)))
	assert.NotZero(t, words[0]&LongFormat)
}
