// internal/log/zap.go
package log

import (
	"io"
	"os"
	"path/filepath"
	"time"

	zaplogfmt "github.com/jsternberg/zap-logfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ Logger = &ZapLogger{}

// Config 由環境變數載入（見 internal/config）。
type Config struct {
	Format string `env:"LOG_FORMAT" env-default:"console"` // console, logfmt or json
	Level  Level  `env:"LOG_LEVEL" env-default:"info"`
	Output string `env:"LOG_OUTPUT" env-default:"stderr"` // stderr, stdout, discard or file path
}

// ZapLogger 以 zap SugaredLogger 實作 Logger。
type ZapLogger struct {
	lg *zap.SugaredLogger
}

// NewZapLogger 依設定建立 logger；額外的 WriteSyncer 會同時接收輸出（測試時可傳入 buffer）。
// 檔案無法開啟時退回 stderr。
func NewZapLogger(conf Config, extraWriters ...zapcore.WriteSyncer) *ZapLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = func(ts time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(ts.UTC().Format(time.RFC3339))
	}

	var encoder zapcore.Encoder
	switch conf.Format {
	case "logfmt":
		encoder = zaplogfmt.NewEncoder(encCfg)
	case "json":
		encoder = zapcore.NewJSONEncoder(encCfg)
	default:
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	var ws zapcore.WriteSyncer
	switch conf.Output {
	case "", "stderr":
		ws = zapcore.Lock(os.Stderr)
	case "stdout":
		ws = zapcore.Lock(os.Stdout)
	case "discard":
		ws = zapcore.AddSync(io.Discard)
	default:
		err1 := os.MkdirAll(filepath.Dir(conf.Output), 0755)
		file, err2 := os.OpenFile(conf.Output, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err1 != nil || err2 != nil {
			ws = zapcore.Lock(os.Stderr)
		} else {
			ws = zapcore.AddSync(file)
		}
	}
	wss := zapcore.NewMultiWriteSyncer(append(extraWriters, ws)...)

	core := zapcore.NewCore(encoder, wss, toZapLevel(conf.Level))
	return &ZapLogger{lg: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)).Sugar()}
}

func (l *ZapLogger) Debug(msg string, kv ...any) { l.log(LevelDebug, msg, kv...) }
func (l *ZapLogger) Info(msg string, kv ...any)  { l.log(LevelInfo, msg, kv...) }
func (l *ZapLogger) Warn(msg string, kv ...any)  { l.log(LevelWarn, msg, kv...) }
func (l *ZapLogger) Error(msg string, kv ...any) { l.log(LevelError, msg, kv...) }
func (l *ZapLogger) Fatal(msg string, kv ...any) { l.log(LevelFatal, msg, kv...) }

func (l *ZapLogger) log(level Level, msg string, kv ...any) {
	l.lg.Logw(toZapLevel(level), msg, kv...)
}

// WithKV 回傳附帶固定欄位的新 logger。
func (l *ZapLogger) WithKV(key string, value any) Logger {
	return &ZapLogger{lg: l.lg.With(key, value)}
}

// WithName 以 "." 串接名稱，例如 "cashit.store"。
func (l *ZapLogger) WithName(name string) Logger {
	return &ZapLogger{lg: l.lg.Named(name)}
}

func (l *ZapLogger) Name() string {
	return l.lg.Desugar().Name()
}

// Sync 將緩衝輸出寫出；程式結束前呼叫。
func (l *ZapLogger) Sync() error {
	return l.lg.Sync()
}

func toZapLevel(level Level) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
