// Package clog wraps zap into the single structured logger the worker
// uses for its own diagnostics. The worker never logs a success
// response body and never accepts a field whose key looks like it
// could hold secret material — those fields are redacted rather than
// dropped, so a caller who passes one by mistake still sees a log line
// without leaking the value.
package clog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var deniedFieldKeys = map[string]struct{}{
	"mnemonic":    {},
	"passphrase":  {},
	"privatekey":  {},
	"privatekeys": {},
	"seed":        {},
	"entropy":     {},
}

// Logger is the process-wide logger. It writes structured JSON to
// stderr only — stdout is reserved for the single success response.
var Logger = newLogger()

func newLogger() *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg),
		zapcore.Lock(zapcore.AddSync(os.Stderr)),
		zap.WarnLevel,
	)
	return zap.New(core)
}

// Field builds a zap.Field, redacting any key on the secret deny-list.
func Field(key string, value interface{}) zap.Field {
	lower := lowerASCII(key)
	if _, denied := deniedFieldKeys[lower]; denied {
		return zap.String(key, "[redacted]")
	}
	return zap.Any(key, value)
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Warn logs a warning-level diagnostic, e.g. an unknown extended-key
// version tag falling back to its default.
func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}

// Sync flushes buffered log entries; call before process exit.
func Sync() {
	_ = Logger.Sync()
}
