package access

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Trinoooo/eggie_seqdb/internal/fixture"
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func embl(id, seq string) string {
	return "ID   " + id + "; SV 1; linear; DNA.\nSQ   Sequence\n     " + seq + "\n//\n"
}

// buildEmbl 一个 division、三个条目 ALPHA/BETA/GAMMA 的 EMBL-CD 数据库
func buildEmbl(t *testing.T) string {
	dir := t.TempDir()

	var data fixture.FlatFile
	alpha := data.Add(embl("ALPHA", "acgt"))
	beta := data.Add(embl("BETA", "ggcc"))
	gamma := data.Add(embl("GAMMA", "tttt"))
	data.Write(t, filepath.Join(dir, "abc.dat"))

	(&fixture.CdIndex{
		DbName:    "abc",
		Release:   "1",
		Divisions: []fixture.Division{{Code: 1, File: "abc.dat"}},
		Entries: []fixture.Entry{
			{Name: "GAMMA", Division: 1, AnnOffset: gamma},
			{Name: "ALPHA", Division: 1, AnnOffset: alpha},
			{Name: "BETA", Division: 1, AnnOffset: beta},
		},
	}).Write(t, dir)
	return dir
}

func buildGcg(t *testing.T) string {
	dir := t.TempDir()

	var g fixture.Gcg
	index := &fixture.CdIndex{
		DbName:    "gcgdb",
		Divisions: []fixture.Division{{Code: 1, File: "gcg.seq"}},
	}
	e := g.Add(fixture.GcgRecord{Id: "HSFAU", Type: "A", Desc: "fau", Ref: "ID   HSFAU\n", Seq: "acgtacgt"})
	e.Division = 1
	index.Entries = append(index.Entries, e)
	g.Write(t, filepath.Join(dir, "gcg.ref"), filepath.Join(dir, "gcg.seq"))
	index.Write(t, dir)
	return dir
}

// nodata 使用单独的索引目录，数据目录为空
const configTemplate = `databases:
  embl:
    method: emblcd
    index: %[1]s
  alias:
    method: EMBLCD
    index: %[1]s/
  gcg:
    method: gcg
    index: %[2]s
  nodata:
    method: emblcd
    index: %[3]s
    directory: %[4]s
  srs:
    method: srs
    index: %[1]s
  noindex:
    method: emblcd
`

func writeConfig(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf(configTemplate, buildEmbl(t), buildGcg(t), buildEmbl(t), t.TempDir())
	require.Nil(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newDispatcher(t *testing.T) *Dispatcher {
	config, err := LoadConfig(writeConfig(t))
	require.Nil(t, err)
	d := NewDispatcher(config, nil)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func drain(t *testing.T, c *Cursor) []string {
	var names []string
	for {
		r, err := c.Next()
		if err == io.EOF {
			return names
		}
		require.Nil(t, err)
		names = append(names, r.Name)
	}
}

func query(t *testing.T, d *Dispatcher, db string, q *iface.Query) []string {
	c, err := d.Open(db, q)
	require.Nil(t, err)
	return drain(t, c)
}

func configFromString(t *testing.T, content string) *viper.Viper {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, os.WriteFile(path, []byte(content), 0644))
	config, err := LoadConfig(path)
	require.Nil(t, err)
	return config
}
