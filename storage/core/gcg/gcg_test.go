package gcg

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/internal/fixture"
	"github.com/Trinoooo/eggie_seqdb/storage/core/binfile"
	"github.com/Trinoooo/eggie_seqdb/storage/core/cdindex"
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var longDna = strings.Repeat("ACGTTGCA", 20) + "GAT"

func buildDatabase(t *testing.T) string {
	dir := t.TempDir()

	var g fixture.Gcg
	records := []fixture.GcgRecord{
		{Id: "HSFAU", Type: "A", Desc: "Human fau mRNA", Ref: "ID   HSFAU\nDE   fau\n", Seq: strings.Repeat("ttcctctttctcgactccatcttcgcggtagctgggaccgccgttcagtcg", 3)},
		{Id: "PACKED", Type: "2", Desc: "two bit body", Ref: "ID   PACKED\n", Seq: "ACGTACGTTTGCA"},
		{Id: "BIG", Type: "2", Desc: "split record", Ref: "ID   BIG\nDE   split\n", Seq: longDna, Split: 64},
		{Id: "TAIL", Type: "A", Desc: "after split", Ref: "ID   TAIL\n", Seq: "MKV"},
	}
	index := &fixture.CdIndex{
		DbName:    "gcgdb",
		Divisions: []fixture.Division{{Code: 1, File: "embl.seq"}},
	}
	for _, r := range records {
		e := g.Add(r)
		e.Division = 1
		index.Entries = append(index.Entries, e)
	}
	g.Write(t, filepath.Join(dir, "embl.ref"), filepath.Join(dir, "embl.seq"))
	index.Write(t, dir)
	return dir
}

func open(t *testing.T, dir string) *Gcg {
	db, err := Open(&cdindex.Options{IndexDir: dir})
	require.Nil(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func one(t *testing.T, db *Gcg, id string) *iface.Record {
	s, err := db.ById(&iface.Query{Id: id})
	require.Nil(t, err)
	r, err := s.Next()
	require.Nil(t, err)
	_, err = s.Next()
	require.Equal(t, io.EOF, err)
	return r
}

func TestAscii(t *testing.T) {
	db := open(t, buildDatabase(t))

	r := one(t, db, "hsfau")
	assert.Equal(t, "HSFAU", r.Name)
	assert.Equal(t, "embl.seq", r.Division)
	assert.Equal(t, ">>>>HSFAU\nID   HSFAU\nDE   fau\n", string(r.Text))
	assert.Equal(t, strings.Repeat("ttcctctttctcgactccatcttcgcggtagctgggaccgccgttcagtcg", 3), string(r.Seq))
}

func TestPacked(t *testing.T) {
	db := open(t, buildDatabase(t))
	r := one(t, db, "PACKED")
	assert.Equal(t, "ACGTACGTTTGCA", string(r.Seq))
	assert.Equal(t, ">>>>PACKED\nID   PACKED\n", string(r.Text))
}

// TestSplitMerge 分块按位置拼接，没有空洞也没有重叠
func TestSplitMerge(t *testing.T) {
	db := open(t, buildDatabase(t))

	r := one(t, db, "BIG")
	assert.Equal(t, longDna, string(r.Seq))
	assert.Equal(t, ">>>>BIG\nID   BIG\nDE   split\n", string(r.Text))

	// 拆分记录之后的记录不受影响
	assert.Equal(t, "MKV", string(one(t, db, "TAIL").Seq))
}

func TestSplitChunks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.seq")
	content := ">>>>X_0 a b A 4 1\nfirst\nAAAA\n" +
		">>>>X_01 a b A 4 5\nsecond\nCCCC\n" +
		">>>>X a b A 2 9\nlast\nGG\n" +
		">>>>Y a b A 2 1\nother\nTT\n"
	require.Nil(t, os.WriteFile(path, []byte(content), 0644))

	f, err := binfile.Open(path, nil, false)
	assert.Equal(t, errs.InvalidParamErrCode, errs.GetCode(err))
	f, err = binfile.Open(path, binary.LittleEndian, false)
	require.Nil(t, err)
	defer f.Close()

	c, err := readSequence(f, 0)
	require.Nil(t, err)
	assert.Equal(t, "X_0", c.header.Id)
	assert.Equal(t, "AAAACCCCGG", string(c.seq))

	off := int64(strings.Index(content, ">>>>Y"))
	c, err = readSequence(f, off)
	require.Nil(t, err)
	assert.Equal(t, "TT", string(c.seq))

	_, err = readSequence(f, 4)
	assert.Equal(t, errs.CorruptErrCode, errs.GetCode(err))
}

func writeSeq(t *testing.T, content string) *binfile.File {
	path := filepath.Join(t.TempDir(), "x.seq")
	require.Nil(t, os.WriteFile(path, []byte(content), 0644))
	f, err := binfile.Open(path, binary.LittleEndian, false)
	require.Nil(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

// TestCorruptLength 长度、位置越界时返回 CorruptErr，不分配超大缓冲区
func TestCorruptLength(t *testing.T) {
	cases := []string{
		">>>>X f2 f3 A 9223372036854775807 1\ndesc\nACGT\n",
		">>>>X f2 f3 2 9223372036854775807 1\ndesc\nACGT\n",
		">>>>X f2 f3 A 40 1\ndesc\nACGT\n",
		">>>>X f2 f3 2 200 1\ndesc\nACGT\n",
		">>>>X_0 f2 f3 A 4 1\ndesc\nACGT\n>>>>X f2 f3 A 4 4611686018427387904\ndesc\nACGT\n",
		">>>>X_0 f2 f3 A 4 1\ndesc\nACGT\n>>>>X f2 f3 A 4 6\ndesc\nACGT\n",
		">>>>X_0 f2 f3 A 4 3\ndesc\nACGT\n",
	}
	for _, content := range cases {
		f := writeSeq(t, content)
		assert.NotPanics(t, func() {
			_, err := readSequence(f, 0)
			assert.Equal(t, errs.CorruptErrCode, errs.GetCode(err), content)
		})
	}

	// 恰好衔接和重叠的分块都可以拼接
	f := writeSeq(t, ">>>>X_0 f2 f3 A 4 1\ndesc\nACGT\n>>>>X f2 f3 A 3 4\ndesc\nTTA\n")
	c, err := readSequence(f, 0)
	require.Nil(t, err)
	assert.Equal(t, "ACGTTA", string(c.seq))
}

func TestAll(t *testing.T) {
	db := open(t, buildDatabase(t))
	s, err := db.All(&iface.Query{})
	require.Nil(t, err)

	var names []string
	for {
		r, err := s.Next()
		if err == io.EOF {
			break
		}
		require.Nil(t, err)
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"HSFAU", "PACKED", "BIG", "TAIL"}, names)
}

func TestParseHeader(t *testing.T) {
	h, err := parseHeader([]byte(">>>>HSFAU  9/95 ASCII a 518 1\r\n"))
	require.Nil(t, err)
	assert.Equal(t, &Header{Id: "HSFAU", Type: TypeAscii, Length: 518, Position: 1}, h)

	_, err = parseHeader([]byte(">>>>HSFAU 9/95 A 518\n"))
	assert.Equal(t, errs.CorruptErrCode, errs.GetCode(err))
	_, err = parseHeader([]byte(">>>>HSFAU x y A -1 1\n"))
	assert.Equal(t, errs.CorruptErrCode, errs.GetCode(err))
	_, err = parseHeader([]byte(">>>>HSFAU x y A 5 0\n"))
	assert.Equal(t, errs.CorruptErrCode, errs.GetCode(err))
	_, err = parseHeader([]byte(">>>>HSFAU x y Q 5 1\n"))
	assert.Equal(t, errs.UnsupportedFormatErrCode, errs.GetCode(err))
}

func TestContinuation(t *testing.T) {
	base, ok := splitBase("X_0")
	assert.True(t, ok)
	assert.Equal(t, "X", base)
	base, ok = splitBase("AB_C_00")
	assert.True(t, ok)
	assert.Equal(t, "AB_C", base)
	_, ok = splitBase("X_000")
	assert.False(t, ok)
	_, ok = splitBase("X_1")
	assert.False(t, ok)

	assert.True(t, continues("X", "X"))
	assert.True(t, continues("X", "X_01"))
	assert.True(t, continues("X", "X_2"))
	assert.False(t, continues("X", "X_"))
	assert.False(t, continues("X", "X_a"))
	assert.False(t, continues("X", "XY_1"))
}

func TestPaths(t *testing.T) {
	ref, seq := paths(&cdindex.Division{File: "embl.seq"})
	assert.Equal(t, "embl.ref", ref)
	assert.Equal(t, "embl.seq", seq)

	ref, seq = paths(&cdindex.Division{File: "a.ref", SeqFile: "b.seq"})
	assert.Equal(t, "a.ref", ref)
	assert.Equal(t, "b.seq", seq)

	ref, _ = paths(&cdindex.Division{File: "embl"})
	assert.Equal(t, "embl.ref", ref)
}
