package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"m365-admin-service/internal/domain"
)

// Вспомогательные функции преобразования доменных моделей в ответы API

// runView представляет итог прогона в теле ответа.
type runView struct {
	Operation         string   `json:"operation"`
	Log               string   `json:"log,omitempty"`
	StartedAt         string   `json:"startedAt"`
	DurationSeconds   float64  `json:"durationSeconds"`
	Total             int      `json:"total"`
	Created           int      `json:"created,omitempty"`
	Licensed          int      `json:"licensed,omitempty"`
	Updated           int      `json:"updated,omitempty"`
	Deleted           int      `json:"deleted,omitempty"`
	NotFound          int      `json:"notFound,omitempty"`
	MembersAdded      int      `json:"membersAdded,omitempty"`
	MembersRemoved    int      `json:"membersRemoved,omitempty"`
	OwnersAdded       int      `json:"ownersAdded,omitempty"`
	OwnersPromoted    int      `json:"ownersPromoted,omitempty"`
	OwnersRemoved     int      `json:"ownersRemoved,omitempty"`
	SkippedDuplicates int      `json:"skippedDuplicates,omitempty"`
	NoChanges         int      `json:"noChanges,omitempty"`
	TeamsProcessed    int      `json:"teamsProcessed,omitempty"`
	Errors            int      `json:"errors"`
	Succeeded         bool     `json:"succeeded"`
	Details           []string `json:"details,omitempty"`
	ErrorDetails      []string `json:"errorDetails,omitempty"`
}

func toRunView(res *domain.RunResult, logName string) runView {
	return runView{
		Operation:         string(res.Operation),
		Log:               logName,
		StartedAt:         res.StartedAt.Format(time.RFC3339),
		DurationSeconds:   res.FinishedAt.Sub(res.StartedAt).Seconds(),
		Total:             res.Total,
		Created:           res.Created,
		Licensed:          res.Licensed,
		Updated:           res.Updated,
		Deleted:           res.Deleted,
		NotFound:          res.NotFound,
		MembersAdded:      res.MembersAdded,
		MembersRemoved:    res.MembersRemoved,
		OwnersAdded:       res.OwnersAdded,
		OwnersPromoted:    res.OwnersPromoted,
		OwnersRemoved:     res.OwnersRemoved,
		SkippedDuplicates: res.SkippedDuplicates,
		NoChanges:         res.NoChanges,
		TeamsProcessed:    res.TeamsProcessed,
		Errors:            res.Errors,
		Succeeded:         res.Succeeded(),
		Details:           res.Details,
		ErrorDetails:      res.ErrorDetails,
	}
}

func toErrorResponse(code, message string) domain.ErrorResponse {
	return domain.ErrorResponse{
		Error: domain.HTTPError{Code: code, Message: message},
	}
}

func getHTTPStatusCode(err error) int {
	switch {
	// Bad Request (400) - валидация и подтверждение
	case errors.Is(err, domain.ErrMissingColumns),
		errors.Is(err, domain.ErrEmptyField),
		errors.Is(err, domain.ErrNoRecords),
		errors.Is(err, domain.ErrMissingTemplate),
		errors.Is(err, domain.ErrConfirmationRequired):
		return http.StatusBadRequest

	// Not Found (404)
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrGroupNotFound),
		errors.Is(err, domain.ErrTeamNotFound):
		return http.StatusNotFound

	// Conflict (409)
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrAlreadyMember):
		return http.StatusConflict

	// Bad Gateway (502) - сервис каталога не дал токен
	case errors.Is(err, domain.ErrAuthFailed):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// saveUpload сохраняет загруженный файл в каталог загрузок и возвращает
// путь к сохраненной копии.
func saveUpload(c echo.Context, dir string) (string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", fmt.Errorf("missing file upload: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), filepath.Base(fh.Filename))
	path := filepath.Join(dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating upload copy: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("saving upload: %w", err)
	}

	return path, nil
}
