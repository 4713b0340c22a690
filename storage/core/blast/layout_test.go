package blast

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 手工拼装的表文件，逐字节核对数组位置与解码结果

type layoutRecord struct {
	header string
	seq    string
}

type layoutCase struct {
	name   string
	ext    [3]string // 表、标题、序列
	table  []byte
	hdr    []byte
	seq    []byte
	kind   Kind
	title  string
	date   string
	tops   [4]int64 // TopHdr TopCmp TopSrc TopAmb
	hdrOff []uint32
	cmpOff []uint32
	srcOff []uint32
	ambOff []uint32
	clean  uint32
	want   []layoutRecord
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func be32(vs ...uint32) []byte {
	var out []byte
	for _, v := range vs {
		out = append(out, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
	return out
}

func TestHandAssembledTables(t *testing.T) {
	cases := []layoutCase{
		{
			// 标题 5 字节，补齐 3 个 NUL 到 20
			name: "blast1 protein",
			ext:  [3]string{".atb", ".ahd", ".asq"},
			table: cat(
				[]byte{0x78, 0x85, 0x7a, 0x4f},
				be32(3, 5),
				[]byte("abcde"), []byte{0, 0, 0},
				be32(2, 5, 3),
				be32(0, 6, 12),
				be32(0, 4, 7),
			),
			hdr:    []byte(">P1 x\n>P2 yy"),
			seq:    []byte{0x0d, 0x0c, 0x14, 0x00, 0x01, 0x18, 0x00},
			kind:   KindProtein1,
			title:  "abcde",
			tops:   [4]int64{32, 44, 0, 0},
			hdrOff: []uint32{0, 6, 12},
			cmpOff: []uint32{0, 4, 7},
			want: []layoutRecord{
				{header: ">P1 x", seq: "MKV"},
				// 末尾的 * 被去掉
				{header: ">P2 yy", seq: "A"},
			},
		},
		{
			// cleancount 为 2，表尾多出两个字
			name: "blast1 dna",
			ext:  [3]string{".ntb", ".nhd", ".nsq"},
			table: cat(
				[]byte{0x78, 0x85, 0x7a, 0x4e},
				be32(6, 2),
				[]byte("dn"), []byte{0, 0},
				be32(1, 5, 5, 2, 2),
				be32(0, 8),
				be32(0, 4),
				be32(0, 10),
				be32(0xdeadbeef, 0x01020304),
			),
			hdr:    []byte(">D1 dna\n"),
			seq:    []byte{0xfc, 0x1b, 0x01, 0xfc},
			kind:   KindDna1,
			title:  "dn",
			tops:   [4]int64{36, 44, 52, 0},
			hdrOff: []uint32{0, 8},
			cmpOff: []uint32{0, 4},
			srcOff: []uint32{0, 10},
			clean:  2,
			want: []layoutRecord{
				{header: ">D1 dna", seq: "ACGTA"},
			},
		},
		{
			// 版本 3，日期为空，序列文件以一个 NUL 开头
			name: "blast2 v3 protein",
			ext:  [3]string{".pin", ".phr", ".psq"},
			table: cat(
				be32(3, 1, 3),
				[]byte("p23"),
				be32(0, 1),
				[]byte{3, 0, 0, 0, 0, 0, 0, 0},
				be32(3),
				be32(0, 20),
				be32(1, 5),
			),
			hdr: cat(
				[]byte{0x30, 0x12, 0x30, 0x10},
				[]byte{0xa0, 0x07, 0x1a, 0x05}, []byte("hello"),
				[]byte{0xa1, 0x05, 0x1a, 0x03}, []byte("sp1"),
			),
			seq:    []byte{0x00, 0x0c, 0x0a, 0x13, 0x00},
			kind:   KindProtein2,
			title:  "p23",
			tops:   [4]int64{35, 43, 0, 0},
			hdrOff: []uint32{0, 20},
			cmpOff: []uint32{1, 5},
			want: []layoutRecord{
				{header: ">sp1 hello", seq: "MKV"},
			},
		},
		{
			// 版本 4，日期非空，位置 1 起两个 N
			name: "blast2 v4 dna",
			ext:  [3]string{".nin", ".nhr", ".nsq"},
			table: cat(
				be32(4, 0, 2),
				[]byte("n4"),
				be32(5),
				[]byte("Jan 1"),
				be32(1),
				[]byte{5, 0, 0, 0, 0, 0, 0, 0},
				be32(5),
				be32(0, 18),
				be32(0, 10),
				be32(2, 10),
			),
			hdr: cat(
				[]byte{0x30, 0x80, 0x30, 0x0c},
				[]byte{0xa0, 0x04, 0x1a, 0x02}, []byte("d4"),
				[]byte{0xa1, 0x04, 0x1a, 0x02}, []byte("n1"),
				[]byte{0x00, 0x00},
			),
			seq:    cat([]byte{0x1b, 0x01}, be32(1, 0xf1000001)),
			kind:   KindDna2,
			title:  "n4",
			date:   "Jan 1",
			tops:   [4]int64{39, 47, 0, 55},
			hdrOff: []uint32{0, 18},
			cmpOff: []uint32{0, 10},
			ambOff: []uint32{2, 10},
			want: []layoutRecord{
				{header: ">n1 d4", seq: "ANNTA"},
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "db")
			require.Nil(t, os.WriteFile(base+c.ext[0], c.table, 0644))
			require.Nil(t, os.WriteFile(base+c.ext[1], c.hdr, 0644))
			require.Nil(t, os.WriteFile(base+c.ext[2], c.seq, 0644))

			table, err := LoadTable(base, false)
			require.Nil(t, err)
			assert.Equal(t, c.kind, table.Kind)
			assert.Equal(t, c.title, table.Title)
			assert.Equal(t, c.date, table.Date)
			assert.Equal(t, uint32(len(c.want)), table.Size)
			assert.Equal(t, c.clean, table.CleanCount)
			assert.Equal(t, c.tops, [4]int64{table.TopHdr, table.TopCmp, table.TopSrc, table.TopAmb})
			assert.Equal(t, c.hdrOff, table.Hdr)
			assert.Equal(t, c.cmpOff, table.Cmp)
			assert.Equal(t, c.srcOff, table.Src)
			assert.Equal(t, c.ambOff, table.Amb)

			fs, err := openFiles(base, table)
			require.Nil(t, err)
			defer fs.close()
			// 没有同名源文件，走压缩序列
			assert.Nil(t, fs.src)

			for i, w := range c.want {
				header, err := fs.header(uint32(i))
				require.Nil(t, err)
				assert.Equal(t, w.header, string(header))

				seq, err := fs.sequence(uint32(i))
				require.Nil(t, err)
				assert.Equal(t, w.seq, string(seq))
			}
		})
	}
}

// 表文件比头部声明的数组多一个字
func TestHandAssembledTableSize(t *testing.T) {
	base := filepath.Join(t.TempDir(), "db")
	table := cat(
		be32(4, 1, 0, 0, 1),
		[]byte{0, 0, 0, 0, 0, 0, 0, 0},
		be32(0),
		be32(0, 0),
		be32(1, 1),
		be32(0),
	)
	require.Nil(t, os.WriteFile(base+".pin", table, 0644))
	_, err := LoadTable(base, false)
	assert.Equal(t, errs.CorruptErrCode, errs.GetCode(err))
}
