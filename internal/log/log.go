// internal/log/log.go
//
// Package log 提供結構化日誌介面。
// 各元件以注入方式取得 Logger，並透過 WithName 標示來源（store、ledger、server…）。
// 預設實作為 zap（見 zap.go），測試中使用 NoopLogger。
package log

// Logger 為整個專案共用的日誌介面。
// keysAndValues 以成對方式傳入，例如 "cnic", id, "amount", amt。
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	// Fatal 記錄後結束程式，僅限啟動階段使用。
	Fatal(msg string, keysAndValues ...any)
	WithKV(key string, value any) Logger
	WithName(name string) Logger
	Name() string
}

// Level 為日誌等級。
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelFatal Level = "fatal"
)

var _ Logger = NoopLogger{}

// NoopLogger 丟棄所有訊息。
type NoopLogger struct{}

// NewNoopLogger 回傳不輸出任何內容的 Logger。
func NewNoopLogger() Logger { return NoopLogger{} }

func (NoopLogger) Debug(string, ...any)        {}
func (NoopLogger) Info(string, ...any)         {}
func (NoopLogger) Warn(string, ...any)         {}
func (NoopLogger) Error(string, ...any)        {}
func (NoopLogger) Fatal(string, ...any)        {}
func (n NoopLogger) WithKV(string, any) Logger { return n }
func (n NoopLogger) WithName(string) Logger    { return n }
func (NoopLogger) Name() string                { return "noop" }
