package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"m365-admin-service/internal/config"
	"m365-admin-service/internal/domain"
	"m365-admin-service/internal/logstore"
)

// LogHandler обрабатывает журналы прогонов, статистику и выгрузки.
type LogHandler struct {
	*BaseHandler
	store *logstore.Store
	teams domain.TeamUseCase
	cfg   config.Config
}

// NewLogHandler создает новый экземпляр LogHandler.
func NewLogHandler(store *logstore.Store, teams domain.TeamUseCase, cfg config.Config, logger *logrus.Logger) *LogHandler {
	return &LogHandler{
		BaseHandler: NewBaseHandler(logger),
		store:       store,
		teams:       teams,
		cfg:         cfg,
	}
}

// GetLogs возвращает список журналов, новые первыми.
func (h *LogHandler) GetLogs(c echo.Context) error {
	entries, err := h.store.List()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list logs")
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(http.StatusOK, map[string]any{"logs": entries})
}

// GetLog возвращает содержимое одного журнала.
func (h *LogHandler) GetLog(c echo.Context) error {
	name := c.Param("name")

	content, err := h.store.Read(name)
	if err != nil {
		return c.JSON(http.StatusNotFound, toErrorResponse("NOT_FOUND", "log not found"))
	}

	return c.JSON(http.StatusOK, map[string]string{"name": name, "content": content})
}

// DownloadLog отдает журнал как вложение.
func (h *LogHandler) DownloadLog(c echo.Context) error {
	name := c.Param("name")

	path, err := h.store.Path(name)
	if err != nil {
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}

	return c.Attachment(path, name)
}

// GetStats возвращает сводную статистику по последним журналам.
func (h *LogHandler) GetStats(c echo.Context) error {
	stats, err := h.store.CollectStats()
	if err != nil {
		h.logger.WithError(err).Error("Failed to collect stats")
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(http.StatusOK, stats)
}

// GetLineChart возвращает данные графика операций по дням.
func (h *LogHandler) GetLineChart(c echo.Context) error {
	days := 30
	if v := c.QueryParam("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
			days = n
		}
	}

	chart, err := h.store.LineChart(days)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(http.StatusOK, chart)
}

// GetBarChart возвращает данные графика операций по типам.
func (h *LogHandler) GetBarChart(c echo.Context) error {
	chart, err := h.store.BarChart()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(http.StatusOK, chart)
}

// GetDoughnutChart возвращает данные диаграммы успешных прогонов.
func (h *LogHandler) GetDoughnutChart(c echo.Context) error {
	chart, err := h.store.DoughnutChart()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(http.StatusOK, chart)
}

// DownloadInventory выгружает перечень команд тенанта в .xlsx.
func (h *LogHandler) DownloadInventory(c echo.Context) error {
	logEntry := h.logRequest(c, "team_inventory")
	logEntry.Info("Exporting team inventory")

	teams, err := h.teams.ListTeamInventory(c.Request().Context())
	if err != nil {
		logEntry.WithError(err).Error("Failed to list teams")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), domain.ErrorResponse{Error: httpErr})
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	path, err := h.store.WriteInventory(h.cfg.ResultsDir, teams)
	if err != nil {
		logEntry.WithError(err).Error("Failed to write inventory")
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.Attachment(path, "inventario_equipos.xlsx")
}
