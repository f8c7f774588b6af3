package repository_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"m365-admin-service/internal/config"
	"m365-admin-service/internal/domain"
	"m365-admin-service/internal/graph"
	"m365-admin-service/internal/repository"
)

// fixture поднимает один тестовый сервер на оба пути: обмен токена и
// ресурсы Graph. Обработчики ресурсов регистрируются в каждом тесте.
type fixture struct {
	mux     *http.ServeMux
	baseURL string
	users   domain.UserDirectory
	groups  domain.GroupDirectory
	teams   domain.TeamDirectory
	cfg     config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/tenant-1/oauth2/v2.0/token", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-1","expires_in":3600}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := config.Config{
		TenantID:      "tenant-1",
		ClientID:      "client-1",
		ClientSecret:  "secret",
		Authority:     srv.URL,
		GraphEndpoint: srv.URL + "/v1.0",

		SchoolDomain: "colegio.edu.co",

		UsageLocation: "CO",
		Department:    "Estudiantes",
		JobTitle:      "Estudiante",
		City:          "Bogotá",
		TempPassword:  "TempPass2024!",

		StudentLicenseSKU: "sku-123",
	}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	client := graph.NewClient(cfg, logger)

	return &fixture{
		mux:     mux,
		baseURL: srv.URL,
		users:   repository.NewUserRepository(client, cfg, logger),
		groups:  repository.NewGroupRepository(client, logger),
		teams:   repository.NewTeamRepository(client, logger),
		cfg:     cfg,
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
