package gcg

import (
	"path/filepath"
	"strings"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/storage/core/cdindex"
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	refExt = ".ref"
	seqExt = ".seq"
)

// Gcg EMBL-CD 索引 + GCG .ref/.seq 数据文件
// 条目的注释偏移量指向 .ref，序列偏移量指向 .seq
type Gcg struct {
	idx *cdindex.Index
}

var _ iface.ICore = &Gcg{}

func New(config *viper.Viper) (iface.ICore, error) {
	opts, err := cdindex.OptionsFromConfig(config)
	if err != nil {
		return nil, err
	}
	return Open(opts)
}

func Open(opts *cdindex.Options) (*Gcg, error) {
	idx, err := cdindex.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Gcg{idx: idx}, nil
}

// paths division 只给出 .seq 时 .ref 由扩展名推出；给出两个名字时依次为 ref、seq
func paths(d *cdindex.Division) (string, string) {
	if d.SeqFile != "" {
		return d.File, d.SeqFile
	}
	seq := d.File
	ref := strings.TrimSuffix(seq, filepath.Ext(seq)) + refExt
	if !strings.EqualFold(filepath.Ext(seq), seqExt) {
		ref = seq + refExt
	}
	return ref, seq
}

func (g *Gcg) All(q *iface.Query) (iface.Session, error) {
	hits, err := g.idx.LookupAll(q)
	if err != nil {
		return nil, err
	}
	return newSession(g.idx, hits), nil
}

func (g *Gcg) ById(q *iface.Query) (iface.Session, error) {
	hits, err := g.idx.LookupEntry(q)
	if err != nil {
		return nil, err
	}
	return newSession(g.idx, hits), nil
}

func (g *Gcg) ByQuery(q *iface.Query) (iface.Session, error) {
	hits, err := g.idx.LookupQuery(q)
	if err != nil {
		return nil, err
	}
	return newSession(g.idx, hits), nil
}

func (g *Gcg) Info() *iface.Info {
	info := g.idx.Info()
	info.Method = consts.MethodGcg
	return info
}

func (g *Gcg) Close() error {
	logs.Info("close database", zap.String(consts.LogFieldMethod, consts.MethodGcg))
	return g.idx.Close()
}
