package blast

import (
	"encoding/binary"
	"path/filepath"
	"strings"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/storage/core/binfile"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"github.com/Trinoooo/eggie_seqdb/utils"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// BLAST 文件固定为大端
var order = binary.BigEndian

// baseName division 文件名可以带上表 / 标题 / 序列扩展名，统一去掉
func baseName(file string) string {
	ext := strings.ToLower(filepath.Ext(file))
	for _, e := range extensions {
		if ext == e.table || ext == e.hdr || ext == e.seq {
			return strings.TrimSuffix(file, filepath.Ext(file))
		}
	}
	return file
}

// detectKind 按扩展名探测 division 使用的 BLAST 格式
func detectKind(base string) (Kind, string, string, string, error) {
	for _, e := range extensions {
		if utils.FileExists(base + e.table) {
			return e.kind, base + e.table, base + e.hdr, base + e.seq, nil
		}
	}
	e := errs.NewOpenFileErr().WithErr(errors.Errorf("no blast table (.pin/.nin/.atb/.ntb) for %s", base))
	logs.Error(e.Error(), zap.String(consts.LogFieldPath, base))
	return KindUnknown, "", "", "", e
}

// LoadTable 探测格式并解析表文件，表文件解析后即关闭
func LoadTable(base string, useMmap bool) (*Table, error) {
	kind, tablePath, _, _, err := detectKind(base)
	if err != nil {
		return nil, err
	}

	f, err := binfile.Open(tablePath, order, useMmap)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTable(f, kind)
}

// files 一个 division 的标题 / 序列 / FASTA 源文件句柄，由查询会话独占
type files struct {
	base  string
	table *Table
	hdr   *binfile.File
	seq   *binfile.File
	src   *binfile.File // src 仅 1.x DNA 且源文件存在时非nil
}

func openFiles(base string, table *Table) (*files, error) {
	_, _, hdrPath, seqPath, err := detectKind(base)
	if err != nil {
		return nil, err
	}

	fs := &files{base: base, table: table}
	if fs.hdr, err = binfile.Open(hdrPath, order, false); err != nil {
		return nil, err
	}
	if fs.seq, err = binfile.Open(seqPath, order, false); err != nil {
		fs.close()
		return nil, err
	}
	if err := table.CheckSizes(fs.hdr, fs.seq); err != nil {
		fs.close()
		return nil, err
	}

	if table.Kind == KindDna1 && utils.FileExists(base) {
		if fs.src, err = binfile.Open(base, order, false); err != nil {
			fs.close()
			return nil, err
		}
	}
	return fs, nil
}

func (fs *files) close() {
	for _, f := range []*binfile.File{fs.hdr, fs.seq, fs.src} {
		if f != nil {
			_ = f.Close()
		}
	}
	fs.hdr, fs.seq, fs.src = nil, nil, nil
}
