// Package log is a thin request-aware facade over zap. Handlers call
// Info/Audit/Security/Error with the fiber context so every line carries
// the request id, ip, method, path and response status.
package log

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = newLogger("")

func newLogger(file string) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	enc := zapcore.NewJSONEncoder(encCfg)

	sinks := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if file != "" {
		if f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
			sinks = append(sinks, zapcore.AddSync(f))
		}
	}
	core := zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(sinks...), zapcore.InfoLevel)
	return zap.New(core)
}

// SetFile mirrors log output to a file in addition to stdout.
func SetFile(path string) {
	if path != "" {
		logger = newLogger(path)
	}
}

func write(level zapcore.Level, c *fiber.Ctx, action string, err error, fields map[string]any) {
	fs := []zap.Field{zap.String("action", action)}
	if c != nil {
		fs = append(fs,
			zap.String("ip", c.IP()),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
		)
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			fs = append(fs, zap.String("req_id", rid))
		}
	}
	if err != nil {
		fs = append(fs, zap.String("err", err.Error()))
	}
	for k, v := range fields {
		fs = append(fs, zap.Any(k, v))
	}
	if ce := logger.Check(level, action); ce != nil {
		ce.Write(fs...)
	}
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(zapcore.InfoLevel, c, action, nil, fields)
}

func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["audit"] = true
	write(zapcore.InfoLevel, c, action, nil, fields)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(zapcore.WarnLevel, c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(zapcore.ErrorLevel, c, action, err, fields)
}
