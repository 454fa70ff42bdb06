package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level 将配置中的日志级别映射为 zap 级别，无法识别时使用 info
func Level(level string) zap.AtomicLevel {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info", "information", "notice", "":
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn", "warning":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}

// New 创建进程日志器：生产环境输出 JSON，其余环境输出控制台格式
func New(level string, production bool) (*zap.Logger, error) {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = Level(level)
	cfg.DisableStacktrace = true
	return cfg.Build()
}
