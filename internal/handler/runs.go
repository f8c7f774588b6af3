package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"m365-admin-service/internal/config"
	"m365-admin-service/internal/domain"
	"m365-admin-service/internal/logstore"
	"m365-admin-service/internal/tabular"
)

// RunHandler обрабатывает запуск массовых операций из загруженных файлов.
type RunHandler struct {
	*BaseHandler
	students domain.StudentUseCase
	courses  domain.CourseUseCase
	teams    domain.TeamUseCase
	store    *logstore.Store
	cfg      config.Config
}

// NewRunHandler создает новый экземпляр RunHandler.
func NewRunHandler(students domain.StudentUseCase, courses domain.CourseUseCase, teams domain.TeamUseCase, store *logstore.Store, cfg config.Config, logger *logrus.Logger) *RunHandler {
	return &RunHandler{
		BaseHandler: NewBaseHandler(logger),
		students:    students,
		courses:     courses,
		teams:       teams,
		store:       store,
		cfg:         cfg,
	}
}

// PostCreateStudents запускает массовое создание учетных записей.
func (h *RunHandler) PostCreateStudents(c echo.Context) error {
	return h.runFromFile(c, "create_students", func(ctx context.Context, t *tabular.Table) (*domain.RunResult, error) {
		students, err := t.Students()
		if err != nil {
			return nil, err
		}
		return h.students.CreateStudents(ctx, students)
	})
}

// PostUpdateStudents запускает массовое обновление учетных записей.
func (h *RunHandler) PostUpdateStudents(c echo.Context) error {
	return h.runFromFile(c, "update_students", func(ctx context.Context, t *tabular.Table) (*domain.RunResult, error) {
		students, err := t.UpdateRecords()
		if err != nil {
			return nil, err
		}
		return h.students.UpdateStudents(ctx, students)
	})
}

// PostDeleteStudents запускает массовое удаление учетных записей.
// Файл необязателен: без него удаляется диапазон тестовых кодов.
// Запуск из веб-интерфейса считается подтвержденным.
func (h *RunHandler) PostDeleteStudents(c echo.Context) error {
	logEntry := h.logRequest(c, "delete_students")
	logEntry.Info("Starting run")

	var codes []string

	if _, err := c.FormFile("file"); err == nil {
		path, err := saveUpload(c, h.cfg.UploadDir)
		if err != nil {
			return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_UPLOAD", err.Error()))
		}

		table, err := tabular.ReadFile(path)
		if err != nil {
			return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_FILE", err.Error()))
		}

		codes, err = table.DeletionCodes()
		if err != nil {
			return h.fail(c, logEntry, err)
		}
	}

	res, err := h.students.DeleteStudents(c.Request().Context(), codes, domain.DeleteConfirmation{Bypass: true})
	if err != nil {
		return h.fail(c, logEntry, err)
	}

	return h.respond(c, logEntry, res)
}

// PostReassignCourses запускает перевод студентов между группами курсов.
func (h *RunHandler) PostReassignCourses(c echo.Context) error {
	return h.runFromFile(c, "reassign_courses", func(ctx context.Context, t *tabular.Table) (*domain.RunResult, error) {
		changes, err := t.CourseChanges()
		if err != nil {
			return nil, err
		}
		return h.courses.ReassignCourses(ctx, changes)
	})
}

// PostLinkStudents запускает привязку студентов к группам курсов.
func (h *RunHandler) PostLinkStudents(c echo.Context) error {
	return h.runFromFile(c, "link_courses", func(ctx context.Context, t *tabular.Table) (*domain.RunResult, error) {
		links, err := t.CourseLinks()
		if err != nil {
			return nil, err
		}
		return h.courses.LinkStudents(ctx, links)
	})
}

// PostCloneTeams запускает создание команд из шаблона.
func (h *RunHandler) PostCloneTeams(c echo.Context) error {
	return h.runFromFile(c, "clone_teams", func(ctx context.Context, t *tabular.Table) (*domain.RunResult, error) {
		specs, err := t.TeamSpecs()
		if err != nil {
			return nil, err
		}
		return h.teams.CloneTeams(ctx, specs)
	})
}

// PostPurgeTeams запускает вычистку участников и владельцев команд.
func (h *RunHandler) PostPurgeTeams(c echo.Context) error {
	return h.runFromFile(c, "purge_teams", func(ctx context.Context, t *tabular.Table) (*domain.RunResult, error) {
		identifiers, err := t.GroupIdentifiers()
		if err != nil {
			return nil, err
		}
		return h.teams.PurgeTeams(ctx, identifiers)
	})
}

// PostDeleteTeams запускает удаление команд. Запуск из веб-интерфейса
// считается подтвержденным.
func (h *RunHandler) PostDeleteTeams(c echo.Context) error {
	return h.runFromFile(c, "delete_teams", func(ctx context.Context, t *tabular.Table) (*domain.RunResult, error) {
		identifiers, err := t.GroupIdentifiers()
		if err != nil {
			return nil, err
		}
		return h.teams.DeleteTeams(ctx, identifiers, domain.DeleteConfirmation{Bypass: true})
	})
}

// runFromFile выполняет общий путь: загрузка файла, разбор, прогон,
// сохранение журнала, ответ.
func (h *RunHandler) runFromFile(c echo.Context, operation string, run func(context.Context, *tabular.Table) (*domain.RunResult, error)) error {
	logEntry := h.logRequest(c, operation)
	logEntry.Info("Starting run")

	path, err := saveUpload(c, h.cfg.UploadDir)
	if err != nil {
		logEntry.WithError(err).Warn("Upload failed")
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_UPLOAD", err.Error()))
	}

	table, err := tabular.ReadFile(path)
	if err != nil {
		logEntry.WithError(err).Warn("File parsing failed")
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_FILE", err.Error()))
	}

	res, err := run(c.Request().Context(), table)
	if err != nil {
		return h.fail(c, logEntry, err)
	}

	return h.respond(c, logEntry, res)
}

func (h *RunHandler) fail(c echo.Context, logEntry *logrus.Entry, err error) error {
	logEntry.WithError(err).Error("Run aborted")

	if httpErr, exists := domain.ToHTTPError(err); exists {
		return c.JSON(getHTTPStatusCode(err), domain.ErrorResponse{Error: httpErr})
	}
	return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
}

func (h *RunHandler) respond(c echo.Context, logEntry *logrus.Entry, res *domain.RunResult) error {
	logName, err := h.store.Save(res)
	if err != nil {
		logEntry.WithError(err).Error("Failed to persist run log")
	}

	logEntry.WithFields(logrus.Fields{
		"total":  res.Total,
		"errors": res.Errors,
		"log":    logName,
	}).Info("Run finished")

	return c.JSON(http.StatusOK, toRunView(res, logName))
}
