package fixture

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// FlatFile 顺序追加文本记录的数据文件，记录每条记录的起始偏移量
type FlatFile struct {
	buf bytes.Buffer
}

// Add 追加一条记录，返回其偏移量
func (f *FlatFile) Add(text string) uint32 {
	off := uint32(f.buf.Len())
	f.buf.WriteString(text)
	return off
}

func (f *FlatFile) Len() int {
	return f.buf.Len()
}

func (f *FlatFile) Bytes() []byte {
	return f.buf.Bytes()
}

func (f *FlatFile) Write(tb testing.TB, path string) {
	tb.Helper()
	require.Nil(tb, os.WriteFile(path, f.buf.Bytes(), 0644))
}
