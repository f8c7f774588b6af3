package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"m365-admin-service/internal/domain"
)

func TestExtractCourseLabel(t *testing.T) {
	tests := []struct {
		name  string
		group string
		label string
		ok    bool
	}{
		{"plain label", "Estudiantes Curso - 101", "101", true},
		{"letters label", "Estudiantes Curso - TR01", "TR01", true},
		{"other group", "Docentes Primaria", "", false},
		{"prefix only", "Estudiantes Curso - ", "", false},
		{"similar prefix", "Estudiantes Curso 101", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, ok := extractCourseLabel(tt.group, "Estudiantes Curso")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestCourseMovePlan(t *testing.T) {
	current := []domain.Group{
		{ID: "g-101", DisplayName: "Estudiantes Curso - 101"},
		{ID: "g-all", DisplayName: "Todos los Estudiantes"},
	}

	t.Run("already enrolled", func(t *testing.T) {
		toRemove, needAdd := courseMovePlan(current, "Estudiantes Curso", "101")
		assert.Empty(t, toRemove)
		assert.False(t, needAdd)
	})

	t.Run("move to another course", func(t *testing.T) {
		toRemove, needAdd := courseMovePlan(current, "Estudiantes Curso", "202")
		assert.Len(t, toRemove, 1)
		assert.Equal(t, "g-101", toRemove[0].ID)
		assert.True(t, needAdd)
	})

	t.Run("new enrollment", func(t *testing.T) {
		toRemove, needAdd := courseMovePlan(nil, "Estudiantes Curso", "101")
		assert.Empty(t, toRemove)
		assert.True(t, needAdd)
	})

	t.Run("non course groups untouched", func(t *testing.T) {
		toRemove, _ := courseMovePlan(current, "Estudiantes Curso", "202")
		for _, g := range toRemove {
			assert.NotEqual(t, "g-all", g.ID)
		}
	})
}

func TestPartitionByCourse(t *testing.T) {
	links := []domain.CourseLink{
		{StudentID: "a", Course: "101"},
		{StudentID: "b", Course: "202"},
		{StudentID: "c", Course: " 101 "},
	}

	partition := partitionByCourse(links)

	assert.Len(t, partition, 2)
	assert.Equal(t, []string{"a", "c"}, partition["101"])
	assert.Equal(t, []string{"b"}, partition["202"])
}

func TestIsGroupID(t *testing.T) {
	assert.True(t, isGroupID("0f8fad5b-d9cb-469f-a165-70867728950e"))
	assert.True(t, isGroupID("  0f8fad5b-d9cb-469f-a165-70867728950e  "))
	assert.False(t, isGroupID("equipo@colegio.edu.co"))
	assert.False(t, isGroupID("Ciencias 202"))
	assert.False(t, isGroupID("0f8fad5bd9cb469fa16570867728950e"))
	assert.False(t, isGroupID(""))
}

func TestValidOwner(t *testing.T) {
	assert.True(t, validOwner("docente@colegio.edu.co"))
	assert.False(t, validOwner(""))
	assert.False(t, validOwner("   "))
	assert.False(t, validOwner("sin-arroba"))
}
