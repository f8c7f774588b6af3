package domain

import (
	"context"
	"strings"
)

// TeamSpec представляет команду к созданию с владельцами.
type TeamSpec struct {
	Name            string
	Owner           string
	Group           string
	Subject         string
	Grade           string
	Coordinator     string
	AcademicAccount string
	Owner3          string
	Owner4          string
}

// Description собирает описание команды из необязательных полей.
func (t TeamSpec) Description() string {
	desc := strings.TrimSpace(t.Subject + " - " + strings.TrimSpace(t.Grade+" "+t.Group))
	return strings.Trim(desc, " -")
}

// SecondaryOwners возвращает необязательных владельцев в фиксированном порядке.
func (t TeamSpec) SecondaryOwners() []string {
	return []string{t.Coordinator, t.AcademicAccount, t.Owner3, t.Owner4}
}

// TeamDirectory определяет контракт для операций над командами.
type TeamDirectory interface {
	// CloneTeam отправляет асинхронный запрос клонирования команды-шаблона.
	CloneTeam(ctx context.Context, templateID, displayName, description string) error
	// AddTeamOwner добавляет владельца; ErrAlreadyMember если уже является участником.
	AddTeamOwner(ctx context.Context, teamID, userID string) error
	// PromoteToOwner повышает существующего участника до владельца.
	PromoteToOwner(ctx context.Context, teamID, userID string) error
}
