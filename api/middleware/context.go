package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const contextLoggerKey = "request_logger"

func SetLogger(c echo.Context, logger logrus.FieldLogger) {
	c.Set(contextLoggerKey, logger)
}

// LoggerFromContext returns the request-scoped logger, or the standard
// logger when none was set.
func LoggerFromContext(c echo.Context) logrus.FieldLogger {
	value := c.Get(contextLoggerKey)
	if logger, ok := value.(logrus.FieldLogger); ok {
		return logger
	}
	return logrus.StandardLogger()
}
