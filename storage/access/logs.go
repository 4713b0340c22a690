package access

import (
	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/storage/logs"
	"go.uber.org/zap"
)

var logger = logs.Logger.With(zap.String(consts.Module, consts.ModuleAccess))
