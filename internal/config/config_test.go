package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_ReportsAllMissing(t *testing.T) {
	cfg := Config{TenantID: "tenant-1"}

	err := cfg.Validate()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "CLIENT_ID")
	assert.Contains(t, err.Error(), "CLIENT_SECRET")
	assert.Contains(t, err.Error(), "SCHOOL_DOMAIN")
	assert.NotContains(t, err.Error(), "TENANT_ID")
}

func TestValidate_Complete(t *testing.T) {
	cfg := Config{
		TenantID:     "tenant-1",
		ClientID:     "client-1",
		ClientSecret: "secret",
		SchoolDomain: "colegio.edu.co",
	}

	assert.NoError(t, cfg.Validate())
}

func TestTokenURL(t *testing.T) {
	cfg := Config{
		Authority: "https://login.microsoftonline.com/",
		TenantID:  "tenant-1",
	}

	assert.Equal(t, "https://login.microsoftonline.com/tenant-1/oauth2/v2.0/token", cfg.TokenURL())
}

func TestStudentUPN(t *testing.T) {
	cfg := Config{SchoolDomain: "colegio.edu.co"}

	assert.Equal(t, "1001@colegio.edu.co", cfg.StudentUPN("1001"))
}

func TestCourseGroupName(t *testing.T) {
	cfg := Config{CourseGroupPrefix: "Estudiantes Curso"}

	assert.Equal(t, "Estudiantes Curso - 101", cfg.CourseGroupName("101"))
}
