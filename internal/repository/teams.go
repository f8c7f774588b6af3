package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"m365-admin-service/internal/domain"
	"m365-admin-service/internal/graph"
)

// TeamRepository реализует операции над командами через Graph API.
type TeamRepository struct {
	client *graph.Client
	logger *logrus.Logger
}

// NewTeamRepository создает новый экземпляр TeamRepository.
func NewTeamRepository(client *graph.Client, logger *logrus.Logger) domain.TeamDirectory {
	return &TeamRepository{
		client: client,
		logger: logger,
	}
}

type clonePayload struct {
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	MailNickname string `json:"mailNickname"`
	PartsToClone string `json:"partsToClone"`
}

// CloneTeam отправляет асинхронный запрос клонирования команды-шаблона.
// Возврат без ошибки означает, что запрос принят; подготовка команды
// продолжается на стороне сервиса.
func (r *TeamRepository) CloneTeam(ctx context.Context, templateID, displayName, description string) error {
	payload := clonePayload{
		DisplayName:  displayName,
		Description:  description,
		MailNickname: cloneMailNickname(displayName),
		PartsToClone: "apps,tabs,settings,channels,members",
	}

	u := r.client.URL("/teams/"+url.PathEscape(templateID)+"/clone", "")

	if err := r.client.Post(ctx, u, payload, nil); err != nil {
		var se *graph.StatusError
		if errors.As(err, &se) && se.StatusCode == 400 &&
			strings.Contains(strings.ToLower(se.Message), "already exists") {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, displayName)
		}
		return fmt.Errorf("cloning team %q: %w", displayName, err)
	}

	return nil
}

type teamMemberPayload struct {
	ODataType string   `json:"@odata.type"`
	Roles     []string `json:"roles"`
	UserBind  string   `json:"user@odata.bind"`
}

// AddTeamOwner добавляет пользователя в команду в роли владельца.
func (r *TeamRepository) AddTeamOwner(ctx context.Context, teamID, userID string) error {
	payload := teamMemberPayload{
		ODataType: "#microsoft.graph.aadUserConversationMember",
		Roles:     []string{"owner"},
		UserBind:  r.client.URL(fmt.Sprintf("/users('%s')", userID), ""),
	}

	u := r.client.URL("/teams/"+url.PathEscape(teamID)+"/members", "")

	if err := r.client.Post(ctx, u, payload, nil); err != nil {
		// 409: пользователь уже состоит в команде как обычный участник.
		if graph.IsStatus(err, 409) {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyMember, userID)
		}
		return fmt.Errorf("adding owner %s to team %s: %w", userID, teamID, err)
	}

	return nil
}

type rolesPayload struct {
	Roles []string `json:"roles"`
}

// PromoteToOwner повышает существующего участника команды до владельца.
func (r *TeamRepository) PromoteToOwner(ctx context.Context, teamID, userID string) error {
	u := r.client.URL(
		fmt.Sprintf("/teams/%s/members/%s", url.PathEscape(teamID), url.PathEscape(userID)),
		"",
	)

	if err := r.client.Patch(ctx, u, rolesPayload{Roles: []string{"owner"}}); err != nil {
		return fmt.Errorf("promoting %s to owner of team %s: %w", userID, teamID, err)
	}

	return nil
}

// cloneMailNickname выводит mailNickname из displayName команды:
// пробелы и дефисы отбрасываются, длина ограничена 25 символами.
func cloneMailNickname(displayName string) string {
	nickname := strings.NewReplacer(" ", "", "-", "").Replace(displayName)
	if len(nickname) > 25 {
		nickname = nickname[:25]
	}

	return nickname
}
