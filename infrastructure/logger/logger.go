package logger

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bond-arb-go/monitor/logschema"
)

// Logger 封装 zap，提供套利流程的结构化日志入口。
type Logger struct {
	*zap.Logger
	config Config
}

// Config 日志配置。
type Config struct {
	Level      string   `yaml:"level"`       // debug, info, warn, error
	Outputs    []string `yaml:"outputs"`     // stdout, file
	OutputFile string   `yaml:"output_file"` // 日志文件路径
	Format     string   `yaml:"format"`      // json 或 console
}

// DefaultConfig 返回默认配置。
func DefaultConfig() Config {
	return Config{
		Level:   "info",
		Outputs: []string{"stdout"},
		Format:  "json",
	}
}

// New 创建 Logger 实例。
func New(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", cfg.Level, err)
	}

	var encoderConfig zapcore.EncoderConfig
	if cfg.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
	}
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{}
	if contains(cfg.Outputs, "stdout") {
		var encoder zapcore.Encoder
		if cfg.Format == "console" {
			encoder = zapcore.NewConsoleEncoder(encoderConfig)
		} else {
			encoder = zapcore.NewJSONEncoder(encoderConfig)
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level))
	}
	if contains(cfg.Outputs, "file") && cfg.OutputFile != "" {
		fileWriter, err := os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file failed: %w", err)
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(fileWriter), level))
	}

	core := zapcore.NewTee(cores...)
	return &Logger{
		Logger: zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)),
		config: cfg,
	}, nil
}

// Nop 返回丢弃全部输出的 Logger，供测试注入。
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// LogTrade 记录成交相关事件（单腿或整笔套利）。
func (l *Logger) LogTrade(event string, fields map[string]interface{}) {
	l.Info(event, stamp(event, fields)...)
}

// LogSkip 记录被跳过的套利机会。
func (l *Logger) LogSkip(event string, fields map[string]interface{}) {
	l.Warn(event, stamp(event, fields)...)
}

// LogError 记录错误并附带上下文。
func (l *Logger) LogError(err error, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["error"] = err.Error()
	l.Error("error_event", stamp("error_event", fields)...)
}

// stamp 统一附加时间戳，并按 logschema 校验字段；
// 缺字段不丢日志，只追加 _schema_error 标记。
func stamp(event string, fields map[string]interface{}) []zap.Field {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	if err := logschema.Validate(event, fields); err != nil {
		fields["_schema_error"] = err.Error()
	}
	fields["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	return zapFields
}

// Close 关闭日志器。
func (l *Logger) Close() error {
	return l.Sync()
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
