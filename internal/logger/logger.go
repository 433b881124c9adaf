// Package logger builds the zap logger shared by the server and the worker,
// plus an Echo request logger that writes through it.
package logger

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const quietKey = "logger.quiet"

// New returns a development console logger when debug is set and a JSON
// production logger otherwise.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Quiet marks the current request so RequestLogger does not record it.
func Quiet(c echo.Context) {
	c.Set(quietKey, true)
}

func isQuiet(c echo.Context) bool {
	q, _ := c.Get(quietKey).(bool)
	return q
}

// RequestLogger logs one line per request with method, URI, status and
// latency. Query strings are left out, no client identity is recorded, and
// requests marked with Quiet are dropped.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURIPath:  true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if isQuiet(c) {
				return nil
			}
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("path", v.URIPath),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				log.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	})
}
