package emblcd

import (
	"encoding/binary"
	"io"
	"path/filepath"
	"testing"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/internal/fixture"
	"github.com/Trinoooo/eggie_seqdb/storage/core/cdindex"
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embl(id, des, seq string) string {
	return "ID   " + id + "; SV 1; linear; DNA.\nDE   " + des + "\nSQ   Sequence\n     " + seq + "        10\n//\n"
}

// buildDatabase 写出一个两个 division 的数据库：
// one.dat 为 EMBL 文本，two.dat 为 FASTA 标题 + 独立序列文件 two.seq
func buildDatabase(t *testing.T, order binary.ByteOrder) string {
	dir := t.TempDir()

	var one fixture.FlatFile
	alpha := one.Add(embl("ALPHA", "first entry", "acgt acgt"))
	beta := one.Add(embl("BETA", "second entry", "ggcc tt"))
	gamma := one.Add(embl("GAMMA", "third entry", "tttt"))
	one.Write(t, filepath.Join(dir, "one.dat"))

	var two, twoSeq fixture.FlatFile
	delta := two.Add(">DELTA fourth entry\n")
	deltaSeq := twoSeq.Add(">DELTA\nMKV\nLLA\n")
	epsilon := two.Add(">EPSILON fifth entry\n")
	epsilonSeq := twoSeq.Add(">EPSILON\nPQ\n")
	two.Write(t, filepath.Join(dir, "two.dat"))
	twoSeq.Write(t, filepath.Join(dir, "two.seq"))

	(&fixture.CdIndex{
		Order:   order,
		DbName:  "testdb",
		Release: "7",
		Divisions: []fixture.Division{
			{Code: 1, File: "one.dat"},
			{Code: 2, File: "two.dat two.seq"},
		},
		Entries: []fixture.Entry{
			{Name: "ALPHA", Division: 1, AnnOffset: alpha},
			{Name: "BETA", Division: 1, AnnOffset: beta},
			{Name: "GAMMA", Division: 1, AnnOffset: gamma},
			{Name: "DELTA", Division: 2, AnnOffset: delta, SeqOffset: deltaSeq},
			{Name: "EPSILON", Division: 2, AnnOffset: epsilon, SeqOffset: epsilonSeq},
		},
		Targets: map[string]map[string][]string{
			"acnum": {"X1": {"BETA"}, "Y1": {"EPSILON"}},
		},
	}).Write(t, dir)
	return dir
}

func open(t *testing.T, dir string) *Emblcd {
	db, err := Open(&cdindex.Options{IndexDir: dir})
	require.Nil(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func collect(t *testing.T, s iface.Session) []*iface.Record {
	var out []*iface.Record
	for {
		r, err := s.Next()
		if err == io.EOF {
			break
		}
		require.Nil(t, err)
		out = append(out, r)
	}
	// 耗尽后保持 io.EOF
	_, err := s.Next()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 0, s.Pending())
	return out
}

func recordNames(records []*iface.Record) []string {
	var out []string
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func TestById(t *testing.T) {
	db := open(t, buildDatabase(t, binary.LittleEndian))

	s, err := db.ById(&iface.Query{Id: "beta"})
	require.Nil(t, err)
	assert.Equal(t, 1, s.Pending())

	records := collect(t, s)
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "BETA", r.Name)
	assert.Equal(t, "one.dat", r.Division)
	assert.Equal(t, embl("BETA", "second entry", "ggcc tt"), string(r.Text))
	assert.Equal(t, "ggcctt", string(r.Seq))

	s, err = db.ById(&iface.Query{Id: "missing"})
	require.Nil(t, err)
	assert.Empty(t, collect(t, s))

	// 登录号回退
	s, err = db.ById(&iface.Query{Id: "y1"})
	require.Nil(t, err)
	assert.Equal(t, []string{"EPSILON"}, recordNames(collect(t, s)))
}

func TestByQuery(t *testing.T) {
	db := open(t, buildDatabase(t, binary.BigEndian))

	s, err := db.ByQuery(&iface.Query{Id: "*a*a"})
	require.Nil(t, err)
	assert.Equal(t, []string{"ALPHA", "GAMMA"}, recordNames(collect(t, s)))

	s, err = db.ByQuery(&iface.Query{Id: "?ELTA", Accession: "X*"})
	require.Nil(t, err)
	records := collect(t, s)
	assert.Equal(t, []string{"BETA", "DELTA"}, recordNames(records))
	assert.Equal(t, "two.dat", records[1].Division)
	assert.Equal(t, ">DELTA fourth entry\n", string(records[1].Text))
	assert.Equal(t, "MKVLLA", string(records[1].Seq))

	_, err = db.ByQuery(&iface.Query{Keyword: "x"})
	assert.Equal(t, errs.FieldNotIndexedErrCode, errs.GetCode(err))
}

func TestAll(t *testing.T) {
	db := open(t, buildDatabase(t, binary.LittleEndian))

	s, err := db.All(&iface.Query{})
	require.Nil(t, err)
	records := collect(t, s)
	assert.Equal(t, []string{"ALPHA", "BETA", "GAMMA", "DELTA", "EPSILON"}, recordNames(records))
	assert.Equal(t, "acgtacgt", string(records[0].Seq))
	assert.Equal(t, "tttt", string(records[2].Seq))
	assert.Equal(t, "PQ", string(records[4].Seq))

	s, err = db.All(&iface.Query{Include: []string{"two.*"}})
	require.Nil(t, err)
	assert.Equal(t, []string{"DELTA", "EPSILON"}, recordNames(collect(t, s)))
}

func TestSessionClose(t *testing.T) {
	db := open(t, buildDatabase(t, binary.LittleEndian))

	s, err := db.All(&iface.Query{})
	require.Nil(t, err)
	_, err = s.Next()
	require.Nil(t, err)
	assert.Equal(t, 4, s.Pending())

	require.Nil(t, s.Close())
	assert.Equal(t, 0, s.Pending())
	_, err = s.Next()
	assert.Equal(t, io.EOF, err)
}

func TestMissingDataFile(t *testing.T) {
	dir := buildDatabase(t, binary.LittleEndian)
	db, err := Open(&cdindex.Options{IndexDir: dir, DataDir: t.TempDir()})
	require.Nil(t, err)
	defer db.Close()

	s, err := db.ById(&iface.Query{Id: "ALPHA"})
	require.Nil(t, err)
	_, err = s.Next()
	assert.Equal(t, errs.OpenFileErrCode, errs.GetCode(err))
}

func TestNew(t *testing.T) {
	dir := buildDatabase(t, binary.BigEndian)

	config := viper.New()
	config.Set(consts.ConfigIndexDir, dir)
	config.Set(consts.ConfigEndian, "big")
	config.Set(consts.ConfigVerify, true)
	core, err := New(config)
	require.Nil(t, err)
	defer core.Close()

	info := core.Info()
	assert.Equal(t, consts.MethodEmblcd, info.Method)
	assert.Equal(t, "testdb", info.Name)
	assert.Equal(t, uint32(5), info.Entries)

	config = viper.New()
	config.Set(consts.ConfigIndexDir, dir)
	config.Set(consts.ConfigEndian, "middle")
	_, err = New(config)
	assert.Equal(t, errs.ConfigErrCode, errs.GetCode(err))
}

func TestRecordResidues(t *testing.T) {
	genbank := "LOCUS       X\nDEFINITION  y\nORIGIN\n        1 acgtacgtac gt\n       13 tt\n//\n"
	assert.Equal(t, "acgtacgtacgttt", string(recordResidues([]byte(genbank))))
	assert.Equal(t, "MKV", string(recordResidues([]byte(">x\nM K\nV\n"))))
	assert.Empty(t, recordResidues([]byte("ID   X\n//\n")))
}
