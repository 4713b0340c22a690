package fixture

import (
	"bytes"
	"encoding/binary"
	"os"
	"strings"
	"testing"

	"github.com/Trinoooo/eggie_seqdb/storage/core/nucleic"
	"github.com/stretchr/testify/require"
)

const (
	blastProtein1 = "-ARNDCQEGHILKMFPSTWYVBZX*"
	blastProtein2 = "-ABCDEFGHIKLMNPQRSTVWXYZU*OJ"
)

// BlastRecord 2.x 的标题由 Title 和 Ids 编码为 BER；1.x 标题为 ">" + Title
type BlastRecord struct {
	Title string
	Ids   []string
	Seq   string
}

// Blast 一组 BLAST 数据库文件
// Source 为true时 1.x DNA 额外写出同名的 FASTA 源文件
type Blast struct {
	Version int
	Protein bool
	Title   string
	Date    string
	Source  bool
	Records []BlastRecord
}

func (b *Blast) extensions() (string, string, string) {
	switch {
	case b.Version == 1 && b.Protein:
		return ".atb", ".ahd", ".asq"
	case b.Version == 1:
		return ".ntb", ".nhd", ".nsq"
	case b.Protein:
		return ".pin", ".phr", ".psq"
	default:
		return ".nin", ".nhr", ".nsq"
	}
}

// Write 以 base 为前缀写出表、标题、序列文件
func (b *Blast) Write(tb testing.TB, base string) {
	tb.Helper()
	be := binary.BigEndian
	n := len(b.Records)

	hdrOff := make([]uint32, 0, n+1)
	cmpOff := make([]uint32, 0, n+1)
	srcOff := make([]uint32, 0, n+1)
	ambOff := make([]uint32, 0, n+1)
	var hdr, seq, src bytes.Buffer

	if b.Version == 2 {
		seq.WriteByte(0)
	}
	for _, r := range b.Records {
		hdrOff = append(hdrOff, uint32(hdr.Len()))
		if b.Version == 1 {
			hdr.WriteString(">" + r.Title)
		} else {
			hdr.Write(Defline(r.Title, r.Ids))
		}

		cmpOff = append(cmpOff, uint32(seq.Len()))
		switch {
		case b.Protein:
			alphabet := blastProtein2
			if b.Version == 1 {
				alphabet = blastProtein1
			}
			for i := 0; i < len(r.Seq); i++ {
				code := strings.IndexByte(alphabet, r.Seq[i])
				require.True(tb, code >= 0, "residue %c", r.Seq[i])
				seq.WriteByte(byte(code))
			}
			seq.WriteByte(0)
		case b.Version == 1:
			seq.WriteByte(0xfc)
			seq.Write(nucleic.Pack2na([]byte(r.Seq)))
			seq.WriteByte(0xfc)
			srcOff = append(srcOff, uint32(src.Len()))
			src.WriteString(">" + r.Title + "\n" + r.Seq + "\n")
		default:
			seq.Write(nucleic.Pack2na([]byte(r.Seq)))
			ambOff = append(ambOff, uint32(seq.Len()))
			for _, w := range nucleic.EncodeAmbiguity([]byte(r.Seq)) {
				require.Nil(tb, binary.Write(&seq, be, w))
			}
		}
	}
	hdrOff = append(hdrOff, uint32(hdr.Len()))
	cmpOff = append(cmpOff, uint32(seq.Len()))
	srcOff = append(srcOff, uint32(src.Len()))
	ambOff = append(ambOff, uint32(seq.Len()))

	var table bytes.Buffer
	put := func(v uint32) { require.Nil(tb, binary.Write(&table, be, v)) }
	pascal := func(s string, align int) {
		put(uint32(len(s)))
		table.WriteString(s)
		for align > 1 && table.Len()%align != 0 {
			table.WriteByte(0)
		}
	}

	var total uint64
	maxLen := 0
	for _, r := range b.Records {
		total += uint64(len(r.Seq))
		maxLen = max(maxLen, len(r.Seq))
	}

	if b.Version == 1 {
		if b.Protein {
			put(0x78857a4f)
			put(3)
		} else {
			put(0x78857a4e)
			put(6)
		}
		pascal(b.Title, 4)
		put(uint32(n))
		put(uint32(total))
		put(uint32(maxLen))
		if !b.Protein {
			put(uint32(seq.Len()))
			put(0)
		}
	} else {
		put(4)
		if b.Protein {
			put(1)
		} else {
			put(0)
		}
		pascal(b.Title, 1)
		pascal(b.Date, 1)
		put(uint32(n))
		require.Nil(tb, binary.Write(&table, binary.LittleEndian, total))
		put(uint32(maxLen))
	}

	arrays := [][]uint32{hdrOff, cmpOff}
	switch {
	case b.Protein:
	case b.Version == 1:
		arrays = append(arrays, srcOff)
	default:
		arrays = append(arrays, ambOff)
	}
	for _, arr := range arrays {
		for _, v := range arr {
			put(v)
		}
	}

	tableExt, hdrExt, seqExt := b.extensions()
	require.Nil(tb, os.WriteFile(base+tableExt, table.Bytes(), 0644))
	require.Nil(tb, os.WriteFile(base+hdrExt, hdr.Bytes(), 0644))
	require.Nil(tb, os.WriteFile(base+seqExt, seq.Bytes(), 0644))
	if b.Version == 1 && !b.Protein && b.Source {
		require.Nil(tb, os.WriteFile(base, src.Bytes(), 0644))
	}
}

// Defline BER 编码的 Blast-def-line-set，外层使用不定长编码
func Defline(title string, ids []string) []byte {
	return DeflineSet(DeflineEntry{Title: title, Ids: ids})
}

// DeflineEntry Blast-def-line-set 中的一条
type DeflineEntry struct {
	Title string
	Ids   []string
}

// DeflineSet 外层为不定长 SEQUENCE OF，每条 defline 为定长 SEQUENCE
func DeflineSet(entries ...DeflineEntry) []byte {
	visible := func(s string) []byte {
		return tlv(0x1a, []byte(s))
	}

	out := []byte{0x30, 0x80}
	for _, e := range entries {
		var idSet []byte
		for _, id := range e.Ids {
			idSet = append(idSet, tlv(0xa0, visible(id))...)
		}
		line := append(tlv(0xa0, visible(e.Title)), tlv(0xa1, tlv(0x30, idSet))...)
		out = append(out, tlv(0x30, line)...)
	}
	return append(out, 0, 0)
}

func tlv(tag byte, value []byte) []byte {
	out := []byte{tag}
	switch n := len(value); {
	case n < 0x80:
		out = append(out, byte(n))
	case n < 0x100:
		out = append(out, 0x81, byte(n))
	default:
		out = append(out, 0x82, byte(n>>8), byte(n))
	}
	return append(out, value...)
}
