package logs

import (
	"github.com/Trinoooo/eggie_seqdb/utils"
	"go.uber.org/zap"
)

var Logger *zap.Logger

func init() {
	var err error
	build := utils.GetValueOnEnv(zap.NewProduction, zap.NewDevelopment)
	Logger, err = build(zap.AddCaller())

	if err != nil {
		panic(err)
	}
}

// Sync 进程退出前刷出缓冲日志
func Sync() {
	_ = Logger.Sync()
}
