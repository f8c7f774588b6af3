package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"

	"m365-admin-service/internal/config"
	"m365-admin-service/internal/domain"
	"m365-admin-service/internal/graph"
)

// UserRepository реализует работу с учетными записями через Graph API.
type UserRepository struct {
	client *graph.Client
	cfg    config.Config
	logger *logrus.Logger
}

// NewUserRepository создает новый экземпляр UserRepository.
func NewUserRepository(client *graph.Client, cfg config.Config, logger *logrus.Logger) domain.UserDirectory {
	return &UserRepository{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// GetUserID возвращает id учетной записи по userPrincipalName.
func (r *UserRepository) GetUserID(ctx context.Context, upn string) (string, error) {
	var user struct {
		ID string `json:"id"`
	}

	u := r.client.URL("/users/"+url.PathEscape(upn), "$select=id")

	if err := r.client.Get(ctx, u, &user); err != nil {
		if graph.IsStatus(err, 404) {
			return "", fmt.Errorf("%w: %s", domain.ErrUserNotFound, upn)
		}
		return "", fmt.Errorf("resolving user %s: %w", upn, err)
	}

	return user.ID, nil
}

type passwordProfile struct {
	ForceChangePasswordNextSignIn bool   `json:"forceChangePasswordNextSignIn"`
	Password                      string `json:"password"`
}

type createUserPayload struct {
	AccountEnabled    bool            `json:"accountEnabled"`
	DisplayName       string          `json:"displayName"`
	MailNickname      string          `json:"mailNickname"`
	UserPrincipalName string          `json:"userPrincipalName"`
	PasswordProfile   passwordProfile `json:"passwordProfile"`
	GivenName         string          `json:"givenName"`
	Surname           string          `json:"surname"`
	JobTitle          string          `json:"jobTitle"`
	Department        string          `json:"department"`
	UsageLocation     string          `json:"usageLocation"`
	City              string          `json:"city"`
}

// CreateStudent создает учетную запись студента с временным паролем
// и значениями по умолчанию из конфигурации.
func (r *UserRepository) CreateStudent(ctx context.Context, s domain.Student) error {
	payload := createUserPayload{
		AccountEnabled:    true,
		DisplayName:       studentDisplayName(s),
		MailNickname:      s.Code,
		UserPrincipalName: r.cfg.StudentUPN(s.Code),
		PasswordProfile: passwordProfile{
			ForceChangePasswordNextSignIn: true,
			Password:                      r.cfg.TempPassword,
		},
		GivenName:     s.FirstNames,
		Surname:       s.LastNames,
		JobTitle:      s.Course,
		Department:    r.cfg.Department,
		UsageLocation: r.cfg.UsageLocation,
		City:          r.cfg.City,
	}

	if err := r.client.Post(ctx, r.client.URL("/users", ""), payload, nil); err != nil {
		if graph.IsStatus(err, 409) || graph.IsStatus(err, 400) {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, s.Code)
		}
		return fmt.Errorf("creating user %s: %w", s.Code, err)
	}

	return nil
}

type updateUserPayload struct {
	DisplayName string `json:"displayName"`
	JobTitle    string `json:"jobTitle"`
	Department  string `json:"department"`
	City        string `json:"city"`
	GivenName   string `json:"givenName"`
	Surname     string `json:"surname"`
}

// UpdateStudent обновляет изменяемые атрибуты учетной записи по UPN.
func (r *UserRepository) UpdateStudent(ctx context.Context, s domain.Student) error {
	upn := r.cfg.StudentUPN(s.Code)

	payload := updateUserPayload{
		DisplayName: studentDisplayName(s),
		JobTitle:    s.Course,
		Department:  r.cfg.Department,
		City:        r.cfg.City,
		GivenName:   s.FirstNames,
		Surname:     s.LastNames,
	}

	if err := r.client.Patch(ctx, r.client.URL("/users/"+url.PathEscape(upn), ""), payload); err != nil {
		if graph.IsStatus(err, 404) {
			return fmt.Errorf("%w: %s", domain.ErrUserNotFound, upn)
		}
		return fmt.Errorf("updating user %s: %w", upn, err)
	}

	return nil
}

// DeleteUser удаляет учетную запись из тенанта.
func (r *UserRepository) DeleteUser(ctx context.Context, upn string) error {
	if err := r.client.Delete(ctx, r.client.URL("/users/"+url.PathEscape(upn), "")); err != nil {
		if graph.IsStatus(err, 404) {
			return fmt.Errorf("%w: %s", domain.ErrUserNotFound, upn)
		}
		return fmt.Errorf("deleting user %s: %w", upn, err)
	}

	return nil
}

// UserExists проверяет наличие учетной записи в тенанте.
func (r *UserRepository) UserExists(ctx context.Context, upn string) (bool, error) {
	_, err := r.GetUserID(ctx, upn)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

type assignLicensePayload struct {
	AddLicenses    []licenseRef `json:"addLicenses"`
	RemoveLicenses []string     `json:"removeLicenses"`
}

type licenseRef struct {
	SkuID string `json:"skuId"`
}

// AssignStudentLicense назначает студенческую лицензию по UPN.
func (r *UserRepository) AssignStudentLicense(ctx context.Context, upn string) error {
	payload := assignLicensePayload{
		AddLicenses:    []licenseRef{{SkuID: r.cfg.StudentLicenseSKU}},
		RemoveLicenses: []string{},
	}

	u := r.client.URL("/users/"+url.PathEscape(upn)+"/assignLicense", "")

	if err := r.client.Post(ctx, u, payload, nil); err != nil {
		return fmt.Errorf("assigning license to %s: %w", upn, err)
	}

	return nil
}

// GetUserGroups возвращает группы, в которых состоит пользователь.
func (r *UserRepository) GetUserGroups(ctx context.Context, userID string) ([]domain.Group, error) {
	u := r.client.URL("/users/"+url.PathEscape(userID)+"/memberOf", "$select=id,displayName")

	var groups []domain.Group

	err := forEachItem(ctx, r.client, u, func(item memberOfItem) error {
		// Команды и роли каталога в memberOf не интересуют, только группы.
		if item.ODataType != "#microsoft.graph.group" {
			return nil
		}
		groups = append(groups, domain.Group{ID: item.ID, DisplayName: item.DisplayName})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing groups of user %s: %w", userID, err)
	}

	return groups, nil
}

type memberOfItem struct {
	ODataType   string `json:"@odata.type"`
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

func studentDisplayName(s domain.Student) string {
	return fmt.Sprintf("Estudiante - %s: %s %s", s.Course, s.FirstNames, s.LastNames)
}
