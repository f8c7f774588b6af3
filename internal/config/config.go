package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config содержит всю конфигурацию сервиса. Значение собирается один раз
// при старте и передается явно в конструкторы компонентов.
type Config struct {
	// Microsoft 365
	TenantID      string
	ClientID      string
	ClientSecret  string
	Authority     string
	GraphEndpoint string

	// Колледж
	SchoolName   string
	SchoolDomain string
	SchoolCode   string

	// Значения по умолчанию для учетных записей
	UsageLocation string
	Department    string
	JobTitle      string
	City          string
	TempPassword  string

	// Лицензии
	StudentLicenseSKU string

	// Команды и группы
	TemplateTeamID    string
	ProtectedAccount  string
	CourseGroupPrefix string

	// Каталоги
	UploadDir  string
	ResultsDir string
	LogsDir    string

	ServerPort string
}

// LoadConfig загружает конфигурацию из .env и переменных окружения.
func LoadConfig() (Config, error) {

	err := godotenv.Load()

	return Config{
		TenantID:      os.Getenv("TENANT_ID"),
		ClientID:      os.Getenv("CLIENT_ID"),
		ClientSecret:  os.Getenv("CLIENT_SECRET"),
		Authority:     getEnv("AUTHORITY", "https://login.microsoftonline.com"),
		GraphEndpoint: getEnv("GRAPH_ENDPOINT", "https://graph.microsoft.com/v1.0"),

		SchoolName:   os.Getenv("SCHOOL_NAME"),
		SchoolDomain: os.Getenv("SCHOOL_DOMAIN"),
		SchoolCode:   os.Getenv("SCHOOL_CODE"),

		UsageLocation: getEnv("DEFAULT_USAGE_LOCATION", "CO"),
		Department:    getEnv("DEFAULT_DEPARTMENT", "Estudiantes"),
		JobTitle:      getEnv("DEFAULT_JOB_TITLE", "Estudiante"),
		City:          getEnv("DEFAULT_CITY", "Bogotá"),
		TempPassword:  getEnv("TEMP_PASSWORD", "TempPass2024!"),

		StudentLicenseSKU: os.Getenv("LICENSE_STUDENT"),

		TemplateTeamID:    os.Getenv("TEMPLATE_TEAM_ID"),
		ProtectedAccount:  strings.ToLower(os.Getenv("PROTECTED_ACCOUNT")),
		CourseGroupPrefix: getEnv("COURSE_GROUP_PREFIX", "Estudiantes Curso"),

		UploadDir:  getEnv("UPLOAD_DIR", "uploads"),
		ResultsDir: getEnv("RESULTS_DIR", "results"),
		LogsDir:    getEnv("LOGS_DIR", "results/logs"),

		ServerPort: getEnv("SERVER_PORT", "8080"),
	}, err
}

// Validate проверяет наличие обязательных параметров.
func (c Config) Validate() error {
	var missing []string

	if c.TenantID == "" {
		missing = append(missing, "TENANT_ID")
	}
	if c.ClientID == "" {
		missing = append(missing, "CLIENT_ID")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "CLIENT_SECRET")
	}
	if c.SchoolDomain == "" {
		missing = append(missing, "SCHOOL_DOMAIN")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}

// TokenURL возвращает адрес обмена client credentials на токен.
func (c Config) TokenURL() string {
	return fmt.Sprintf("%s/%s/oauth2/v2.0/token", strings.TrimRight(c.Authority, "/"), c.TenantID)
}

// StudentUPN строит userPrincipalName студента из его кода.
func (c Config) StudentUPN(code string) string {
	return fmt.Sprintf("%s@%s", code, c.SchoolDomain)
}

// CourseGroupName строит displayName группы курса по метке курса.
func (c Config) CourseGroupName(course string) string {
	return fmt.Sprintf("%s - %s", c.CourseGroupPrefix, course)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
