package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeromicro/go-zero/core/logx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOption 表示日志初始化选项，由 config.LogConfig 转换而来。
type LogOption struct {
	Format   string // "console" 或 "json"
	LogDir   string // 为空时输出到 stdout
	Level    string // debug / info / warn / error
	Compress bool   // 是否压缩旧日志文件
}

// Init 初始化全局日志：zap 负责编码与落盘（lumberjack 轮转），logx 作为业务侧门面。
func Init(opt LogOption) error {
	level, err := parseLevel(opt.Level)
	if err != nil {
		return err
	}

	var sink zapcore.WriteSyncer
	if opt.LogDir != "" {
		if err := os.MkdirAll(opt.LogDir, 0o755); err != nil {
			return fmt.Errorf("create log dir %q: %w", opt.LogDir, err)
		}
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(opt.LogDir, "gentest.log"),
			MaxSize:    128, // MB
			MaxBackups: 10,
			Compress:   opt.Compress,
		})
	} else {
		sink = zapcore.AddSync(os.Stdout)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if opt.Format == "console" {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	zl := zap.New(zapcore.NewCore(enc, sink, level))
	logx.SetWriter(&zapWriter{logger: zl})
	return nil
}

func parseLevel(s string) (zapcore.Level, error) {
	switch s {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// zapWriter 将 logx.Writer 接口桥接到 zap。
type zapWriter struct {
	logger *zap.Logger
}

func (w *zapWriter) Alert(v any) {
	w.logger.Error(fmt.Sprint(v))
}

func (w *zapWriter) Close() error {
	return w.logger.Sync()
}

func (w *zapWriter) Debug(v any, fields ...logx.LogField) {
	w.logger.Debug(fmt.Sprint(v), toZapFields(fields...)...)
}

func (w *zapWriter) Error(v any, fields ...logx.LogField) {
	w.logger.Error(fmt.Sprint(v), toZapFields(fields...)...)
}

func (w *zapWriter) Info(v any, fields ...logx.LogField) {
	w.logger.Info(fmt.Sprint(v), toZapFields(fields...)...)
}

func (w *zapWriter) Severe(v any) {
	w.logger.Fatal(fmt.Sprint(v))
}

func (w *zapWriter) Slow(v any, fields ...logx.LogField) {
	w.logger.Warn(fmt.Sprint(v), toZapFields(fields...)...)
}

func (w *zapWriter) Stack(v any) {
	w.logger.Error(fmt.Sprint(v), zap.Stack("stack"))
}

func (w *zapWriter) Stat(v any, fields ...logx.LogField) {
	w.logger.Info(fmt.Sprint(v), toZapFields(fields...)...)
}

func toZapFields(fields ...logx.LogField) []zap.Field {
	zfs := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		zfs = append(zfs, zap.Any(f.Key, f.Value))
	}
	return zfs
}

// 业务侧统一入口，避免各包直接依赖 logx。
func Debugf(format string, args ...any) { logx.Debugf(format, args...) }
func Infof(format string, args ...any)  { logx.Infof(format, args...) }
func Warnf(format string, args ...any)  { logx.Slowf(format, args...) }
func Errorf(format string, args ...any) { logx.Errorf(format, args...) }
