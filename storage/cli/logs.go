package cli

import (
	"github.com/Trinoooo/eggie_seqdb/consts"
	storagelogs "github.com/Trinoooo/eggie_seqdb/storage/logs"
	"go.uber.org/zap"
)

var logs = storagelogs.Logger.With(zap.String(consts.Module, consts.ModuleCli))
