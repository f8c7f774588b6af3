package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type BaseHandler struct {
	logger *logrus.Logger
}

func NewBaseHandler(logger *logrus.Logger) *BaseHandler {
	return &BaseHandler{
		logger: logger,
	}
}

// logRequest строит запись журнала для запуска операции. Имя загруженного
// файла добавляется при наличии: массовые операции стартуют с файла.
func (h *BaseHandler) logRequest(c echo.Context, operation string) *logrus.Entry {
	entry := h.logger.WithFields(logrus.Fields{
		"operation": operation,
		"method":    c.Request().Method,
		"path":      c.Request().URL.Path,
		"ip":        c.RealIP(),
	})

	if fh, err := c.FormFile("file"); err == nil {
		entry = entry.WithField("file", fh.Filename)
	}

	return entry
}
