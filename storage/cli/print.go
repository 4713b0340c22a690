package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"github.com/Trinoooo/eggie_seqdb/utils"
)

// lineWidth 序列输出每行的碱基 / 氨基酸数
const lineWidth = 60

type printer struct {
	w     *bufio.Writer
	color bool
}

func newPrinter(w io.Writer, color bool) *printer {
	return &printer{w: bufio.NewWriter(w), color: color}
}

// record 先输出注释原文，再按 lineWidth 折行输出序列
func (p *printer) record(r *iface.Record) error {
	text := r.Text
	if p.color {
		header, rest, _ := bytes.Cut(text, []byte{'\n'})
		_, _ = p.w.WriteString(utils.WrapHeader(string(header)) + "\n")
		text = rest
	}
	_, _ = p.w.Write(text)
	if len(text) > 0 && text[len(text)-1] != '\n' {
		_ = p.w.WriteByte('\n')
	}

	for seq := r.Seq; len(seq) > 0; {
		n := min(len(seq), lineWidth)
		_, _ = p.w.Write(seq[:n])
		_ = p.w.WriteByte('\n')
		seq = seq[n:]
	}
	return p.w.Flush()
}

func (p *printer) info(name string, info *iface.Info) error {
	fields := make([]string, 0, len(info.Fields))
	for _, f := range info.Fields {
		fields = append(fields, string(f))
	}

	fmt.Fprintf(p.w, "database:  %s\n", name)
	fmt.Fprintf(p.w, "method:    %s\n", info.Method)
	fmt.Fprintf(p.w, "name:      %s\n", info.Name)
	fmt.Fprintf(p.w, "release:   %s\n", info.Release)
	fmt.Fprintf(p.w, "date:      %s\n", info.Date)
	fmt.Fprintf(p.w, "entries:   %d\n", info.Entries)
	fmt.Fprintf(p.w, "fields:    %s\n", strings.Join(fields, " "))
	fmt.Fprintf(p.w, "divisions: %s\n", strings.Join(info.Divisions, " "))
	return p.w.Flush()
}

func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
	_ = p.w.Flush()
}
