package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"m365-admin-service/internal/domain"
)

func TestGetHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"missing columns", domain.ErrMissingColumns, http.StatusBadRequest},
		{"empty field", fmt.Errorf("%w (fila 3)", domain.ErrEmptyField), http.StatusBadRequest},
		{"no records", domain.ErrNoRecords, http.StatusBadRequest},
		{"missing template", domain.ErrMissingTemplate, http.StatusBadRequest},
		{"confirmation required", domain.ErrConfirmationRequired, http.StatusBadRequest},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
		{"group not found", fmt.Errorf("group %q: %w", "x", domain.ErrGroupNotFound), http.StatusNotFound},
		{"already exists", domain.ErrAlreadyExists, http.StatusConflict},
		{"already member", domain.ErrAlreadyMember, http.StatusConflict},
		{"auth failed", fmt.Errorf("%w: status 401", domain.ErrAuthFailed), http.StatusBadGateway},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, getHTTPStatusCode(tt.err))
		})
	}
}

func TestToRunView(t *testing.T) {
	started := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	res := &domain.RunResult{
		Operation:         domain.OpCreateStudents,
		StartedAt:         started,
		FinishedAt:        started.Add(90 * time.Second),
		Total:             5,
		Created:           4,
		Licensed:          4,
		SkippedDuplicates: 1,
		Details:           []string{"Estudiante creado: 1001"},
	}

	view := toRunView(res, "create_students_20260201_100000.log")

	assert.Equal(t, "create_students", view.Operation)
	assert.Equal(t, "create_students_20260201_100000.log", view.Log)
	assert.Equal(t, 90.0, view.DurationSeconds)
	assert.Equal(t, 5, view.Total)
	assert.Equal(t, 4, view.Created)
	assert.Equal(t, 1, view.SkippedDuplicates)
	assert.True(t, view.Succeeded)
}

func TestToRunView_FailedRun(t *testing.T) {
	res := &domain.RunResult{
		Operation:    domain.OpDeleteTeams,
		Errors:       2,
		ErrorDetails: []string{"x", "y"},
	}

	view := toRunView(res, "")

	assert.False(t, view.Succeeded)
	assert.Equal(t, 2, view.Errors)
	assert.Len(t, view.ErrorDetails, 2)
}
