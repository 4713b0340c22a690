package blast

import (
	"bytes"

	"github.com/Trinoooo/eggie_seqdb/storage/core/binfile"
	"github.com/Trinoooo/eggie_seqdb/storage/core/nucleic"
	"github.com/bytedance/gopkg/lang/mcache"
)

// readScratch 读取 [start, end) 到临时缓冲区，调用方负责 mcache.Free
func readScratch(f *binfile.File, start, end int64) ([]byte, error) {
	if end < start {
		return nil, corrupt(f, "negative span [%d, %d)", start, end)
	}
	buf := mcache.Malloc(int(end - start))
	if err := f.ReadFull(buf, start); err != nil {
		mcache.Free(buf)
		return nil, err
	}
	return buf, nil
}

// header 第 i 条记录的标题文本，以 '>' 开头
func (fs *files) header(i uint32) ([]byte, error) {
	start, end, err := fs.table.span(fs.table.Hdr, i)
	if err != nil {
		return nil, err
	}
	raw, err := fs.hdr.Bytes(start, int(end-start))
	if err != nil {
		return nil, err
	}

	if fs.table.Kind.Version() == 1 {
		text := bytes.TrimRight(raw, "\x00\r\n ")
		if len(text) == 0 || text[0] != '>' {
			text = append([]byte{'>'}, text...)
		}
		return text, nil
	}

	lines, err := deflines(raw)
	if err != nil {
		return nil, corrupt(fs.hdr, "record %d defline: %v", i, err)
	}
	return []byte(deflineText(lines)), nil
}

// sequence 按格式解码第 i 条记录的序列
func (fs *files) sequence(i uint32) ([]byte, error) {
	switch fs.table.Kind {
	case KindProtein1:
		return fs.protein(i, alphabetProtein1)
	case KindProtein2:
		return fs.protein(i, alphabetProtein2)
	case KindDna1:
		return fs.dna1(i)
	default:
		return fs.dna2(i)
	}
}

// protein 记录之间以一个 NUL 字节分隔，长度为 end-start-1
func (fs *files) protein(i uint32, alphabet string) ([]byte, error) {
	start, end, err := fs.table.span(fs.table.Cmp, i)
	if err != nil {
		return nil, err
	}
	if end-start < 1 {
		return nil, corrupt(fs.seq, "record %d: protein span [%d, %d) has no separator", i, start, end)
	}

	raw, err := readScratch(fs.seq, start, end)
	if err != nil {
		return nil, err
	}
	defer mcache.Free(raw)

	n := len(raw) - 1
	if raw[n] != proteinSeparator {
		return nil, corrupt(fs.seq, "record %d: separator %#x at offset %d", i, raw[n], end-1)
	}

	out := make([]byte, n)
	for j, c := range raw[:n] {
		if int(c) < len(alphabet) {
			out[j] = alphabet[c]
		} else {
			out[j] = unknownResidue
		}
	}
	if n > 0 && out[n-1] == stopResidue {
		out = out[:n-1]
	}
	return out, nil
}

// dna2 压缩序列为 [cmp[i], amb[i])，简并碱基区域为 [amb[i], cmp[i+1])
func (fs *files) dna2(i uint32) ([]byte, error) {
	start, next, err := fs.table.span(fs.table.Cmp, i)
	if err != nil {
		return nil, err
	}
	amb := int64(fs.table.Amb[i])

	packed, err := readScratch(fs.seq, start, amb)
	if err != nil {
		return nil, err
	}
	seq, err := nucleic.Unpack2na(packed)
	mcache.Free(packed)
	if err != nil {
		return nil, corrupt(fs.seq, "record %d: %v", i, err)
	}

	if next == amb {
		return seq, nil
	}
	if (next-amb)%wordSize != 0 {
		return nil, corrupt(fs.seq, "record %d: ambiguity region of %d bytes", i, next-amb)
	}
	words, err := fs.seq.Uint32s(amb, int((next-amb)/wordSize))
	if err != nil {
		return nil, err
	}
	if err := nucleic.ApplyAmbiguity(seq, words); err != nil {
		return nil, corrupt(fs.seq, "record %d: %v", i, err)
	}
	return seq, nil
}

// dna1 有 FASTA 源文件时直接读取源序列，否则解码两端带哨兵字节的压缩序列
func (fs *files) dna1(i uint32) ([]byte, error) {
	if fs.src != nil {
		start, _, err := fs.table.span(fs.table.Src, i)
		if err != nil {
			return nil, err
		}
		text, err := fs.src.ReadLines(start, func(n int, line []byte) (bool, bool) {
			if binfile.HasPrefix(line, ">") {
				// 源偏移量可能指向标题行
				return false, n == 0
			}
			return true, true
		})
		if err != nil {
			return nil, err
		}
		return stripSpace(text), nil
	}

	start, end, err := fs.table.span(fs.table.Cmp, i)
	if err != nil {
		return nil, err
	}
	if end-start < 3 {
		return nil, corrupt(fs.seq, "record %d: span [%d, %d) too short for sentinels", i, start, end)
	}

	raw, err := readScratch(fs.seq, start, end)
	if err != nil {
		return nil, err
	}
	defer mcache.Free(raw)

	if raw[0] != sentinel1 || raw[len(raw)-1] != sentinel1 {
		return nil, corrupt(fs.seq, "record %d: phase check failed, sentinels %#x %#x", i, raw[0], raw[len(raw)-1])
	}
	seq, err := nucleic.Unpack2na(raw[1 : len(raw)-1])
	if err != nil {
		return nil, corrupt(fs.seq, "record %d: %v", i, err)
	}
	return seq, nil
}

func stripSpace(raw []byte) []byte {
	out := make([]byte, 0, len(raw))
	for _, c := range raw {
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			out = append(out, c)
		}
	}
	return out
}
