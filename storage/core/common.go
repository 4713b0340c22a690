package core

import (
	"strings"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/storage/core/blast"
	"github.com/Trinoooo/eggie_seqdb/storage/core/emblcd"
	"github.com/Trinoooo/eggie_seqdb/storage/core/gcg"
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var BuilderMap = map[string]iface.Builder{
	consts.MethodEmblcd: emblcd.New,
	consts.MethodBlast:  blast.New,
	consts.MethodGcg:    gcg.New,
}

// Resolve 按访问方法名（大小写不敏感）查找 Builder
func Resolve(method string) (iface.Builder, error) {
	builder, ok := BuilderMap[strings.ToLower(strings.TrimSpace(method))]
	if !ok {
		e := errs.NewUnknownMethodErr().WithErr(errors.Errorf("access method %q", method))
		logs.Error(e.Error(), zap.String(consts.LogFieldMethod, method))
		return nil, e
	}
	return builder, nil
}
