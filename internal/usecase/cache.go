package usecase

import (
	"context"
	"errors"
	"strings"

	"m365-admin-service/internal/domain"
)

// snapshotCache кэширует результаты поиска в рамках одного прогона.
// Кэш создается на старте операции и уничтожается вместе с ней;
// отрицательные результаты (не найдено) тоже запоминаются, чтобы не
// повторять один и тот же запрос для каждой записи файла.
type snapshotCache struct {
	users     map[string]userEntry
	groups    map[string]*domain.Group
	teamNames map[string]string
	snapshot  bool
}

type userEntry struct {
	id    string
	found bool
}

func newSnapshotCache() *snapshotCache {
	return &snapshotCache{
		users:     make(map[string]userEntry),
		groups:    make(map[string]*domain.Group),
		teamNames: make(map[string]string),
	}
}

// userID возвращает id учетной записи по UPN, обращаясь к каталогу
// не более одного раза на UPN за прогон.
func (c *snapshotCache) userID(ctx context.Context, dir domain.UserDirectory, upn string) (string, error) {
	key := strings.ToLower(upn)

	if entry, ok := c.users[key]; ok {
		if !entry.found {
			return "", domain.ErrUserNotFound
		}
		return entry.id, nil
	}

	id, err := dir.GetUserID(ctx, upn)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.users[key] = userEntry{}
		}
		return "", err
	}

	c.users[key] = userEntry{id: id, found: true}
	return id, nil
}

// groupByName возвращает группу по displayName с кэшированием.
func (c *snapshotCache) groupByName(ctx context.Context, dir domain.GroupDirectory, name string) (*domain.Group, error) {
	key := strings.ToLower(name)

	if g, ok := c.groups[key]; ok {
		return g, nil
	}

	g, err := dir.FindGroupByName(ctx, name)
	if err != nil {
		return nil, err
	}

	c.groups[key] = g
	return g, nil
}

// loadTeamSnapshot один раз загружает имена всех групп тенанта.
// Снимок используется для проверки дубликатов перед клонированием.
func (c *snapshotCache) loadTeamSnapshot(ctx context.Context, dir domain.GroupDirectory) error {
	if c.snapshot {
		return nil
	}

	err := dir.ListAllGroups(ctx, func(g domain.Group) error {
		c.teamNames[strings.ToLower(g.DisplayName)] = g.ID
		return nil
	})
	if err != nil {
		return err
	}

	c.snapshot = true
	return nil
}

// teamExists проверяет наличие группы с данным именем в снимке.
func (c *snapshotCache) teamExists(name string) bool {
	_, ok := c.teamNames[strings.ToLower(name)]
	return ok
}

// rememberTeam добавляет только что созданную команду в снимок,
// чтобы повтор имени внутри того же файла считался дубликатом.
func (c *snapshotCache) rememberTeam(name, id string) {
	c.teamNames[strings.ToLower(name)] = id
}
