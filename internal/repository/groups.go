package repository

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"

	"m365-admin-service/internal/domain"
	"m365-admin-service/internal/graph"
)

// GroupRepository реализует работу с группами безопасности через Graph API.
type GroupRepository struct {
	client *graph.Client
	logger *logrus.Logger
}

// NewGroupRepository создает новый экземпляр GroupRepository.
func NewGroupRepository(client *graph.Client, logger *logrus.Logger) domain.GroupDirectory {
	return &GroupRepository{
		client: client,
		logger: logger,
	}
}

type groupItem struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Mail        string `json:"mail"`
	Visibility  string `json:"visibility"`
}

func (g groupItem) toDomain() domain.Group {
	return domain.Group{
		ID:          g.ID,
		DisplayName: g.DisplayName,
		Mail:        g.Mail,
		Visibility:  g.Visibility,
	}
}

// findOne выполняет $filter-запрос и возвращает первую найденную группу.
// При нескольких совпадениях берется первый результат в порядке сервера.
func (r *GroupRepository) findOne(ctx context.Context, filter string) (*domain.Group, error) {
	query := url.Values{
		"$filter": {filter},
		"$select": {"id,displayName,mail"},
	}

	var page struct {
		Value []groupItem `json:"value"`
	}

	if err := r.client.Get(ctx, r.client.URL("/groups", query.Encode()), &page); err != nil {
		return nil, fmt.Errorf("searching groups: %w", err)
	}

	if len(page.Value) == 0 {
		return nil, domain.ErrGroupNotFound
	}

	group := page.Value[0].toDomain()

	return &group, nil
}

// FindGroupByName ищет группу по точному displayName.
func (r *GroupRepository) FindGroupByName(ctx context.Context, displayName string) (*domain.Group, error) {
	group, err := r.findOne(ctx, "displayName eq "+odataQuote(displayName))
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", displayName, err)
	}

	return group, nil
}

// FindGroupByMail ищет группу по адресу почты.
func (r *GroupRepository) FindGroupByMail(ctx context.Context, mail string) (*domain.Group, error) {
	group, err := r.findOne(ctx, "mail eq "+odataQuote(mail))
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", mail, err)
	}

	return group, nil
}

// FindGroupByNameOrMail ищет группу по displayName либо по mail одним запросом.
func (r *GroupRepository) FindGroupByNameOrMail(ctx context.Context, identifier string) (*domain.Group, error) {
	quoted := odataQuote(identifier)

	group, err := r.findOne(ctx, fmt.Sprintf("displayName eq %s or mail eq %s", quoted, quoted))
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", identifier, err)
	}

	return group, nil
}

// GetGroup возвращает группу по id.
func (r *GroupRepository) GetGroup(ctx context.Context, groupID string) (*domain.Group, error) {
	var item groupItem

	u := r.client.URL("/groups/"+url.PathEscape(groupID), "$select=id,displayName,mail")

	if err := r.client.Get(ctx, u, &item); err != nil {
		if graph.IsStatus(err, 404) {
			return nil, fmt.Errorf("%w: %s", domain.ErrGroupNotFound, groupID)
		}
		return nil, fmt.Errorf("getting group %s: %w", groupID, err)
	}

	group := item.toDomain()

	return &group, nil
}

// ListAllGroups перечисляет все группы тенанта постранично.
func (r *GroupRepository) ListAllGroups(ctx context.Context, fn func(domain.Group) error) error {
	query := url.Values{
		"$select": {"id,displayName"},
		"$top":    {"999"},
	}

	return forEachItem(ctx, r.client, r.client.URL("/groups", query.Encode()), func(item groupItem) error {
		return fn(item.toDomain())
	})
}

// ListGroupsByPrefix возвращает группы, чей displayName начинается с prefix.
func (r *GroupRepository) ListGroupsByPrefix(ctx context.Context, prefix string) ([]domain.Group, error) {
	query := url.Values{
		"$filter": {"startsWith(displayName, " + odataQuote(prefix) + ")"},
		"$select": {"id,displayName,mail"},
	}

	var groups []domain.Group

	err := forEachItem(ctx, r.client, r.client.URL("/groups", query.Encode()), func(item groupItem) error {
		groups = append(groups, item.toDomain())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing groups with prefix %q: %w", prefix, err)
	}

	return groups, nil
}

// ListTeams возвращает все группы тенанта, подготовленные как команды.
func (r *GroupRepository) ListTeams(ctx context.Context) ([]domain.Group, error) {
	query := url.Values{
		"$filter": {"resourceProvisioningOptions/Any(x:x eq 'Team')"},
		"$select": {"id,displayName,mail,description,visibility"},
	}

	var teams []domain.Group

	err := forEachItem(ctx, r.client, r.client.URL("/groups", query.Encode()), func(item groupItem) error {
		teams = append(teams, item.toDomain())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}

	return teams, nil
}

type memberItem struct {
	ID                string `json:"id"`
	UserPrincipalName string `json:"userPrincipalName"`
	Mail              string `json:"mail"`
	DisplayName       string `json:"displayName"`
}

func (r *GroupRepository) listRole(ctx context.Context, groupID, role string) ([]domain.GroupMember, error) {
	u := r.client.URL(
		fmt.Sprintf("/groups/%s/%s", url.PathEscape(groupID), role),
		"$select=id,userPrincipalName,mail,displayName",
	)

	var members []domain.GroupMember

	err := forEachItem(ctx, r.client, u, func(item memberItem) error {
		members = append(members, domain.GroupMember{
			ID:                item.ID,
			UserPrincipalName: item.UserPrincipalName,
			Mail:              item.Mail,
			DisplayName:       item.DisplayName,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s of group %s: %w", role, groupID, err)
	}

	return members, nil
}

// ListMembers возвращает всех участников группы, по всем страницам.
func (r *GroupRepository) ListMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error) {
	return r.listRole(ctx, groupID, "members")
}

// ListOwners возвращает всех владельцев группы, по всем страницам.
func (r *GroupRepository) ListOwners(ctx context.Context, groupID string) ([]domain.GroupMember, error) {
	return r.listRole(ctx, groupID, "owners")
}

type directoryObjectRef struct {
	ODataID string `json:"@odata.id"`
}

// AddMember добавляет пользователя в группу.
func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID string) error {
	body := directoryObjectRef{
		ODataID: r.client.URL("/directoryObjects/"+userID, ""),
	}

	u := r.client.URL("/groups/"+url.PathEscape(groupID)+"/members/$ref", "")

	if err := r.client.Post(ctx, u, body, nil); err != nil {
		// Graph отвечает 400 на добавление уже состоящего участника.
		if graph.IsStatus(err, 400) {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyMember, userID)
		}
		if graph.IsStatus(err, 404) {
			return fmt.Errorf("%w: group %s", domain.ErrGroupNotFound, groupID)
		}
		return fmt.Errorf("adding member %s to group %s: %w", userID, groupID, err)
	}

	return nil
}

func (r *GroupRepository) removeRole(ctx context.Context, groupID, userID, role string) error {
	u := r.client.URL(
		fmt.Sprintf("/groups/%s/%s/%s/$ref", url.PathEscape(groupID), role, url.PathEscape(userID)),
		"",
	)

	if err := r.client.Delete(ctx, u); err != nil {
		// Уже отсутствует — удаление идемпотентно.
		if graph.IsStatus(err, 404) {
			return nil
		}
		return fmt.Errorf("removing %s %s from group %s: %w", role, userID, groupID, err)
	}

	return nil
}

// RemoveMember удаляет участника группы; отсутствие — успешный no-op.
func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	return r.removeRole(ctx, groupID, userID, "members")
}

// RemoveOwner удаляет владельца группы; отсутствие — успешный no-op.
func (r *GroupRepository) RemoveOwner(ctx context.Context, groupID, userID string) error {
	return r.removeRole(ctx, groupID, userID, "owners")
}

// DeleteGroup удаляет группу из тенанта.
func (r *GroupRepository) DeleteGroup(ctx context.Context, groupID string) error {
	if err := r.client.Delete(ctx, r.client.URL("/groups/"+url.PathEscape(groupID), "")); err != nil {
		if graph.IsStatus(err, 404) {
			return fmt.Errorf("%w: %s", domain.ErrGroupNotFound, groupID)
		}
		return fmt.Errorf("deleting group %s: %w", groupID, err)
	}

	return nil
}
