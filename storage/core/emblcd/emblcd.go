package emblcd

import (
	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/storage/core/cdindex"
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Emblcd EMBL-CD 索引 + 文本数据文件
type Emblcd struct {
	idx *cdindex.Index
}

var _ iface.ICore = &Emblcd{}

func New(config *viper.Viper) (iface.ICore, error) {
	opts, err := cdindex.OptionsFromConfig(config)
	if err != nil {
		return nil, err
	}
	return Open(opts)
}

func Open(opts *cdindex.Options) (*Emblcd, error) {
	idx, err := cdindex.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Emblcd{idx: idx}, nil
}

func (e *Emblcd) All(q *iface.Query) (iface.Session, error) {
	hits, err := e.idx.LookupAll(q)
	if err != nil {
		return nil, err
	}
	return newSession(e.idx, hits), nil
}

func (e *Emblcd) ById(q *iface.Query) (iface.Session, error) {
	hits, err := e.idx.LookupEntry(q)
	if err != nil {
		return nil, err
	}
	return newSession(e.idx, hits), nil
}

func (e *Emblcd) ByQuery(q *iface.Query) (iface.Session, error) {
	hits, err := e.idx.LookupQuery(q)
	if err != nil {
		return nil, err
	}
	return newSession(e.idx, hits), nil
}

func (e *Emblcd) Info() *iface.Info {
	info := e.idx.Info()
	info.Method = consts.MethodEmblcd
	return info
}

func (e *Emblcd) Close() error {
	logs.Info("close database", zap.String(consts.LogFieldMethod, consts.MethodEmblcd))
	return e.idx.Close()
}
