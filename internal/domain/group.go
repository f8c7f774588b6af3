package domain

import "context"

// Group представляет группу безопасности или команду в тенанте.
type Group struct {
	ID          string
	DisplayName string
	Mail        string
	Visibility  string
}

// GroupMember представляет участника или владельца группы.
type GroupMember struct {
	ID                string
	UserPrincipalName string
	Mail              string
	DisplayName       string
}

// CourseChange представляет перевод студента на новый курс.
type CourseChange struct {
	UserPrincipalName string
	NewCourse         string
}

// CourseLink представляет привязку студента к группе курса.
type CourseLink struct {
	StudentID string
	Course    string
}

// GroupDirectory определяет контракт для работы с группами тенанта.
type GroupDirectory interface {
	// FindGroupByName ищет группу по точному displayName; ErrGroupNotFound если нет.
	FindGroupByName(ctx context.Context, displayName string) (*Group, error)
	FindGroupByMail(ctx context.Context, mail string) (*Group, error)
	GetGroup(ctx context.Context, groupID string) (*Group, error)
	// FindGroupByNameOrMail ищет по displayName либо по mail одним запросом.
	FindGroupByNameOrMail(ctx context.Context, identifier string) (*Group, error)
	// ListAllGroups перечисляет все группы тенанта постранично, в порядке сервера.
	ListAllGroups(ctx context.Context, fn func(Group) error) error
	// ListGroupsByPrefix возвращает группы, чей displayName начинается с prefix.
	ListGroupsByPrefix(ctx context.Context, prefix string) ([]Group, error)
	// ListTeams возвращает все группы, подготовленные как команды.
	ListTeams(ctx context.Context) ([]Group, error)
	ListMembers(ctx context.Context, groupID string) ([]GroupMember, error)
	ListOwners(ctx context.Context, groupID string) ([]GroupMember, error)
	// AddMember добавляет пользователя в группу; ErrAlreadyMember если уже состоит.
	AddMember(ctx context.Context, groupID, userID string) error
	// RemoveMember удаляет участника; отсутствие участника не считается ошибкой.
	RemoveMember(ctx context.Context, groupID, userID string) error
	RemoveOwner(ctx context.Context, groupID, userID string) error
	// DeleteGroup удаляет группу; ErrGroupNotFound если нет.
	DeleteGroup(ctx context.Context, groupID string) error
}
