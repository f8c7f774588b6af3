package domain

import "context"

// Student представляет запись студента из файла желаемого состояния.
type Student struct {
	Code       string
	Document   string
	Grade      string
	Course     string
	FirstNames string
	LastNames  string
}

// DirectoryUser представляет учетную запись, разрешенную в тенанте.
type DirectoryUser struct {
	ID                string
	UserPrincipalName string
	DisplayName       string
	Mail              string
}

// UserDirectory определяет контракт для работы с учетными записями тенанта.
type UserDirectory interface {
	// GetUserID возвращает id учетной записи по UPN; ErrUserNotFound если нет.
	GetUserID(ctx context.Context, upn string) (string, error)
	CreateStudent(ctx context.Context, student Student) error
	UpdateStudent(ctx context.Context, student Student) error
	// DeleteUser удаляет учетную запись; ErrUserNotFound если нет.
	DeleteUser(ctx context.Context, upn string) error
	UserExists(ctx context.Context, upn string) (bool, error)
	AssignStudentLicense(ctx context.Context, upn string) error
	// GetUserGroups возвращает группы, в которых состоит пользователь.
	GetUserGroups(ctx context.Context, userID string) ([]Group, error)
}
