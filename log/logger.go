package log

import (
	"go.uber.org/zap"
)

var logger = zap.NewNop()

// 注入外部zap logger（默认为Nop）
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

func NewDevLogger() *zap.Logger {
	l, _ := zap.NewDevelopment()
	return l
}

func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}

func Sync() {
	_ = logger.Sync()
}
