package logs

import (
	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/storage/logs"
	"go.uber.org/zap"
)

var commonFields = []zap.Field{
	zap.String(consts.Module, consts.ModuleCore),
}

var coreLogger *zap.Logger

func init() {
	coreLogger = logs.Logger.WithOptions(zap.AddCallerSkip(1)).With(commonFields...)
}

func Debug(msg string, fields ...zap.Field) {
	coreLogger.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	coreLogger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	coreLogger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	coreLogger.Error(msg, fields...)
}
