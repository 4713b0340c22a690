package emblcd

import (
	"bytes"

	"github.com/Trinoooo/eggie_seqdb/storage/core/binfile"
)

// recordExtent 注释文本到第一行 "//"（含）为止；
// FASTA 格式的数据文件到下一行 ">"（不含）为止
func recordExtent(n int, line []byte) (bool, bool) {
	switch {
	case n > 0 && binfile.HasPrefix(line, ">"):
		return false, false
	case binfile.HasPrefix(line, "//"):
		return true, false
	}
	return true, true
}

// fastaExtent 独立序列文件中的一条 FASTA 记录
func fastaExtent(n int, line []byte) (bool, bool) {
	if n > 0 && binfile.HasPrefix(line, ">") {
		return false, false
	}
	return true, true
}

// fastaResidues 跳过 FASTA 标题行
func fastaResidues(text []byte) []byte {
	if len(text) > 0 && text[0] == '>' {
		if i := bytes.IndexByte(text, '\n'); i >= 0 {
			text = text[i+1:]
		} else {
			text = nil
		}
	}
	return residues(text)
}

// recordResidues 从记录本身提取序列：
// FASTA 取标题行之后的内容，EMBL / Swiss-Prot 取 SQ 行之后，GenBank 取 ORIGIN 行之后
func recordResidues(text []byte) []byte {
	if len(text) > 0 && text[0] == '>' {
		return fastaResidues(text)
	}

	var (
		out    []byte
		inBody bool
	)
	for len(text) > 0 {
		line := text
		if i := bytes.IndexByte(text, '\n'); i >= 0 {
			line, text = text[:i+1], text[i+1:]
		} else {
			text = nil
		}

		switch {
		case binfile.HasPrefix(line, "//"):
			return out
		case inBody:
			out = append(out, residues(line)...)
		case binfile.HasPrefix(line, "SQ"), binfile.HasPrefix(line, "ORIGIN"):
			inBody = true
		}
	}
	return out
}

// residues 去掉空白和数字（行号 / 位置标记）
func residues(raw []byte) []byte {
	out := make([]byte, 0, len(raw))
	for _, c := range raw {
		switch {
		case c == ' ', c == '\t', c == '\n', c == '\r':
		case c >= '0' && c <= '9':
		default:
			out = append(out, c)
		}
	}
	return out
}
