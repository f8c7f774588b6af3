package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"m365-admin-service/internal/domain"
)

type UserDirectoryMock struct {
	mock.Mock
}

func (m *UserDirectoryMock) GetUserID(ctx context.Context, upn string) (string, error) {
	args := m.Called(ctx, upn)
	return args.String(0), args.Error(1)
}

func (m *UserDirectoryMock) CreateStudent(ctx context.Context, student domain.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *UserDirectoryMock) UpdateStudent(ctx context.Context, student domain.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *UserDirectoryMock) DeleteUser(ctx context.Context, upn string) error {
	args := m.Called(ctx, upn)
	return args.Error(0)
}

func (m *UserDirectoryMock) UserExists(ctx context.Context, upn string) (bool, error) {
	args := m.Called(ctx, upn)
	return args.Bool(0), args.Error(1)
}

func (m *UserDirectoryMock) AssignStudentLicense(ctx context.Context, upn string) error {
	args := m.Called(ctx, upn)
	return args.Error(0)
}

func (m *UserDirectoryMock) GetUserGroups(ctx context.Context, userID string) ([]domain.Group, error) {
	args := m.Called(ctx, userID)
	if groups, ok := args.Get(0).([]domain.Group); ok {
		return groups, args.Error(1)
	}
	return nil, args.Error(1)
}

type GroupDirectoryMock struct {
	mock.Mock
}

func (m *GroupDirectoryMock) FindGroupByName(ctx context.Context, displayName string) (*domain.Group, error) {
	args := m.Called(ctx, displayName)
	if g, ok := args.Get(0).(*domain.Group); ok {
		return g, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GroupDirectoryMock) FindGroupByMail(ctx context.Context, mail string) (*domain.Group, error) {
	args := m.Called(ctx, mail)
	if g, ok := args.Get(0).(*domain.Group); ok {
		return g, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GroupDirectoryMock) FindGroupByNameOrMail(ctx context.Context, identifier string) (*domain.Group, error) {
	args := m.Called(ctx, identifier)
	if g, ok := args.Get(0).(*domain.Group); ok {
		return g, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GroupDirectoryMock) GetGroup(ctx context.Context, groupID string) (*domain.Group, error) {
	args := m.Called(ctx, groupID)
	if g, ok := args.Get(0).(*domain.Group); ok {
		return g, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GroupDirectoryMock) ListAllGroups(ctx context.Context, fn func(domain.Group) error) error {
	args := m.Called(ctx, fn)
	if groups, ok := args.Get(1).([]domain.Group); ok {
		for _, g := range groups {
			if err := fn(g); err != nil {
				return err
			}
		}
	}
	return args.Error(0)
}

func (m *GroupDirectoryMock) ListGroupsByPrefix(ctx context.Context, prefix string) ([]domain.Group, error) {
	args := m.Called(ctx, prefix)
	if groups, ok := args.Get(0).([]domain.Group); ok {
		return groups, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GroupDirectoryMock) ListTeams(ctx context.Context) ([]domain.Group, error) {
	args := m.Called(ctx)
	if groups, ok := args.Get(0).([]domain.Group); ok {
		return groups, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GroupDirectoryMock) ListMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error) {
	args := m.Called(ctx, groupID)
	if members, ok := args.Get(0).([]domain.GroupMember); ok {
		return members, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GroupDirectoryMock) ListOwners(ctx context.Context, groupID string) ([]domain.GroupMember, error) {
	args := m.Called(ctx, groupID)
	if members, ok := args.Get(0).([]domain.GroupMember); ok {
		return members, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GroupDirectoryMock) AddMember(ctx context.Context, groupID, userID string) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *GroupDirectoryMock) RemoveMember(ctx context.Context, groupID, userID string) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *GroupDirectoryMock) RemoveOwner(ctx context.Context, groupID, userID string) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *GroupDirectoryMock) DeleteGroup(ctx context.Context, groupID string) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

type TeamDirectoryMock struct {
	mock.Mock
}

func (m *TeamDirectoryMock) CloneTeam(ctx context.Context, templateID, displayName, description string) error {
	args := m.Called(ctx, templateID, displayName, description)
	return args.Error(0)
}

func (m *TeamDirectoryMock) AddTeamOwner(ctx context.Context, teamID, userID string) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

func (m *TeamDirectoryMock) PromoteToOwner(ctx context.Context, teamID, userID string) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}
