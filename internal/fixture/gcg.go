package fixture

import (
	"bytes"
	"fmt"
	"os"
	"testing"

	"github.com/Trinoooo/eggie_seqdb/storage/core/nucleic"
	"github.com/stretchr/testify/require"
)

const gcgLineWidth = 50

// GcgRecord Split>0 时序列按 Split 个字符拆成多块：
// 第一块 id_0，中间块 id_01、id_02 ...，最后一块为 id 本身
type GcgRecord struct {
	Id    string
	Type  string
	Desc  string
	Ref   string
	Seq   string
	Split int
}

// Gcg 一对 .ref/.seq 文件
type Gcg struct {
	buf     bytes.Buffer
	ref     bytes.Buffer
	entries []Entry
}

// Add 追加一条记录，返回指向它的条目（division 由调用方填写）
func (g *Gcg) Add(r GcgRecord) Entry {
	e := Entry{Name: r.Id, AnnOffset: uint32(g.ref.Len()), SeqOffset: uint32(g.buf.Len())}
	fmt.Fprintf(&g.ref, ">>>>%s\n%s", r.Id, r.Ref)

	chunks := []string{r.Seq}
	if r.Split > 0 {
		chunks = nil
		for rest := r.Seq; len(rest) > 0; {
			n := min(r.Split, len(rest))
			chunks = append(chunks, rest[:n])
			rest = rest[n:]
		}
	}

	position := 1
	for i, c := range chunks {
		id := r.Id
		switch {
		case len(chunks) == 1:
		case i == 0:
			id += "_0"
		case i < len(chunks)-1:
			id = fmt.Sprintf("%s_%02d", r.Id, i)
		}
		g.chunk(id, r.Type, r.Desc, c, position)
		position += len(c)
	}

	g.entries = append(g.entries, e)
	return e
}

func (g *Gcg) chunk(id, typ, desc, seq string, position int) {
	fmt.Fprintf(&g.buf, ">>>>%s  24/06 GCG %s %d %d\n%s\n", id, typ, len(seq), position, desc)
	if typ == "2" {
		g.buf.Write(nucleic.PackExact([]byte(seq)))
		g.buf.WriteByte('\n')
		return
	}
	for len(seq) > 0 {
		n := min(gcgLineWidth, len(seq))
		g.buf.WriteString(seq[:n])
		g.buf.WriteByte('\n')
		seq = seq[n:]
	}
}

func (g *Gcg) Entries() []Entry {
	return g.entries
}

func (g *Gcg) Write(tb testing.TB, refPath, seqPath string) {
	tb.Helper()
	require.Nil(tb, os.WriteFile(refPath, g.ref.Bytes(), 0644))
	require.Nil(tb, os.WriteFile(seqPath, g.buf.Bytes(), 0644))
}
