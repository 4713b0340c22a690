package fixture

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// 与 EMBL-CD 索引文件头布局一致
const (
	headerSize    = 300
	dbNameOffset  = 10
	dbNameSize    = 20
	releaseOffset = 30
	releaseSize   = 10
	dateOffset    = 40
)

// Division division.lkp 中的一条记录，File 可以是 "数据文件 序列文件"
type Division struct {
	Code uint16
	File string
}

// Entry entrynam.idx 中的一条记录
type Entry struct {
	Name      string
	Division  uint16
	AnnOffset uint32
	SeqOffset uint32
}

// CdIndex 一个完整的 EMBL-CD 索引目录
// Targets 为 字段 -> 取值 -> 条目名
type CdIndex struct {
	Order     binary.ByteOrder
	DbName    string
	Release   string
	Date      [4]byte
	Divisions []Division
	Entries   []Entry
	Targets   map[string]map[string][]string
}

// IndexFile 组装一个定长记录的索引文件
func IndexFile(order binary.ByteOrder, dbName, release string, date [4]byte, recSize int, records [][]byte) []byte {
	size := headerSize + recSize*len(records)
	buf := make([]byte, headerSize, size)
	order.PutUint32(buf[0:], uint32(size))
	order.PutUint32(buf[4:], uint32(len(records)))
	order.PutUint16(buf[8:], uint16(recSize))
	copy(buf[dbNameOffset:dbNameOffset+dbNameSize], pad(dbName, dbNameSize))
	copy(buf[releaseOffset:releaseOffset+releaseSize], pad(release, releaseSize))
	copy(buf[dateOffset:], date[:])

	for _, r := range records {
		rec := make([]byte, recSize)
		copy(rec, r)
		buf = append(buf, rec...)
	}
	return buf
}

func pad(s string, n int) []byte {
	b := bytes.Repeat([]byte{' '}, n)
	copy(b, s)
	return b
}

// Write 写出 division.lkp、entrynam.idx 和各字段的 .trg/.hit
// 条目和取值按大写排序，不要求调用方预先排好
func (c *CdIndex) Write(tb testing.TB, dir string) {
	tb.Helper()

	order := c.Order
	if order == nil {
		order = binary.LittleEndian
	}
	write := func(name string, recSize int, records [][]byte) {
		data := IndexFile(order, c.DbName, c.Release, c.Date, recSize, records)
		require.Nil(tb, os.WriteFile(filepath.Join(dir, name), data, 0644))
	}

	// division.lkp
	width := 1
	for _, d := range c.Divisions {
		width = max(width, len(d.File))
	}
	var records [][]byte
	for _, d := range c.Divisions {
		rec := make([]byte, 2+width)
		order.PutUint16(rec, d.Code)
		copy(rec[2:], pad(d.File, width))
		records = append(records, rec)
	}
	write("division.lkp", 2+width, records)

	// entrynam.idx
	entries := append([]Entry(nil), c.Entries...)
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToUpper(entries[i].Name) < strings.ToUpper(entries[j].Name)
	})
	recno := make(map[string]uint32, len(entries))
	width = 1
	for i, e := range entries {
		width = max(width, len(e.Name)+2)
		recno[strings.ToUpper(e.Name)] = uint32(i + 1)
	}
	records = records[:0]
	for _, e := range entries {
		rec := make([]byte, width+10)
		copy(rec, pad(e.Name, width))
		order.PutUint32(rec[width:], e.AnnOffset)
		order.PutUint32(rec[width+4:], e.SeqOffset)
		order.PutUint16(rec[width+8:], e.Division)
		records = append(records, rec)
	}
	write("entrynam.idx", width+10, records)

	// <field>.trg / <field>.hit
	for field, targets := range c.Targets {
		values := make([]string, 0, len(targets))
		width = 1
		for v := range targets {
			values = append(values, v)
			width = max(width, len(v))
		}
		sort.Slice(values, func(i, j int) bool {
			return strings.ToUpper(values[i]) < strings.ToUpper(values[j])
		})

		var trg, hit [][]byte
		for _, v := range values {
			rec := make([]byte, 8+width)
			order.PutUint32(rec, uint32(len(targets[v])))
			order.PutUint32(rec[4:], uint32(len(hit)+1))
			copy(rec[8:], pad(v, width))
			trg = append(trg, rec)

			for _, name := range targets[v] {
				n, ok := recno[strings.ToUpper(name)]
				require.True(tb, ok, "target %s=%s names unknown entry %s", field, v, name)
				h := make([]byte, 4)
				order.PutUint32(h, n)
				hit = append(hit, h)
			}
		}
		write(field+".trg", 8+width, trg)
		write(field+".hit", 4, hit)
	}
}
