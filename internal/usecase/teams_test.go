package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"m365-admin-service/internal/domain"
)

func newTestTeamService(teams domain.TeamDirectory, groups domain.GroupDirectory, users domain.UserDirectory) *TeamService {
	return &TeamService{
		teams:  teams,
		groups: groups,
		users:  users,
		cfg:    testConfig(),
		logger: testLogger(),
		sleep:  func(time.Duration) {},
	}
}

func TestTeamService_CloneTeams_DuplicateNameSkipped(t *testing.T) {
	ctx := context.Background()
	teams := &TeamDirectoryMock{}
	groups := &GroupDirectoryMock{}
	users := &UserDirectoryMock{}
	svc := newTestTeamService(teams, groups, users)

	groups.On("ListAllGroups", ctx, mock.Anything).Return(nil, []domain.Group{
		{ID: "g-1", DisplayName: "Matemáticas 101"},
	})

	res, err := svc.CloneTeams(ctx, []domain.TeamSpec{
		{Name: "Matemáticas 101", Owner: "docente@colegio.edu.co"},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.SkippedDuplicates)
	assert.Equal(t, 0, res.Created)
	teams.AssertNotCalled(t, "CloneTeam", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTeamService_CloneTeams_CreatesAndAddsOwners(t *testing.T) {
	ctx := context.Background()
	teams := &TeamDirectoryMock{}
	groups := &GroupDirectoryMock{}
	users := &UserDirectoryMock{}
	svc := newTestTeamService(teams, groups, users)

	groups.On("ListAllGroups", ctx, mock.Anything).Return(nil, []domain.Group{})
	users.On("GetUserID", ctx, "docente@colegio.edu.co").Return("uid-owner", nil)
	users.On("GetUserID", ctx, "coordinador@colegio.edu.co").Return("uid-coord", nil)
	teams.On("CloneTeam", ctx, "template-1", "Ciencias 202", mock.Anything).Return(nil)
	groups.On("FindGroupByName", ctx, "Ciencias 202").Return(&domain.Group{ID: "new-team"}, nil)
	teams.On("AddTeamOwner", ctx, "new-team", "uid-owner").Return(nil)
	teams.On("AddTeamOwner", ctx, "new-team", "uid-coord").Return(nil)

	res, err := svc.CloneTeams(ctx, []domain.TeamSpec{
		{Name: "Ciencias 202", Owner: "docente@colegio.edu.co", Coordinator: "coordinador@colegio.edu.co"},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 2, res.OwnersAdded)
	assert.Equal(t, 0, res.Errors)
	teams.AssertExpectations(t)
}

func TestTeamService_CloneTeams_OwnerConflictPromotes(t *testing.T) {
	ctx := context.Background()
	teams := &TeamDirectoryMock{}
	groups := &GroupDirectoryMock{}
	users := &UserDirectoryMock{}
	svc := newTestTeamService(teams, groups, users)

	groups.On("ListAllGroups", ctx, mock.Anything).Return(nil, []domain.Group{})
	users.On("GetUserID", ctx, "docente@colegio.edu.co").Return("uid-owner", nil)
	teams.On("CloneTeam", ctx, "template-1", "Ciencias 202", mock.Anything).Return(nil)
	groups.On("FindGroupByName", ctx, "Ciencias 202").Return(&domain.Group{ID: "new-team"}, nil)
	teams.On("AddTeamOwner", ctx, "new-team", "uid-owner").Return(domain.ErrAlreadyMember)
	teams.On("PromoteToOwner", ctx, "new-team", "uid-owner").Return(nil)

	res, err := svc.CloneTeams(ctx, []domain.TeamSpec{
		{Name: "Ciencias 202", Owner: "docente@colegio.edu.co"},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.OwnersPromoted)
	assert.Equal(t, 0, res.OwnersAdded)
	assert.Equal(t, 0, res.Errors)
	teams.AssertCalled(t, "PromoteToOwner", ctx, "new-team", "uid-owner")
}

func TestTeamService_CloneTeams_InvalidPrimaryOwnerFailsRecord(t *testing.T) {
	ctx := context.Background()
	teams := &TeamDirectoryMock{}
	groups := &GroupDirectoryMock{}
	users := &UserDirectoryMock{}
	svc := newTestTeamService(teams, groups, users)

	groups.On("ListAllGroups", ctx, mock.Anything).Return(nil, []domain.Group{})

	res, err := svc.CloneTeams(ctx, []domain.TeamSpec{
		{Name: "Ciencias 202", Owner: "   "},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Errors)
	teams.AssertNotCalled(t, "CloneTeam", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTeamService_CloneTeams_MissingTemplate(t *testing.T) {
	svc := newTestTeamService(&TeamDirectoryMock{}, &GroupDirectoryMock{}, &UserDirectoryMock{})
	svc.cfg.TemplateTeamID = ""

	_, err := svc.CloneTeams(context.Background(), []domain.TeamSpec{{Name: "x", Owner: "a@b"}})

	assert.ErrorIs(t, err, domain.ErrMissingTemplate)
}

func TestTeamService_PurgeTeams_ProtectedAccountNeverRemoved(t *testing.T) {
	ctx := context.Background()
	teams := &TeamDirectoryMock{}
	groups := &GroupDirectoryMock{}
	users := &UserDirectoryMock{}
	svc := newTestTeamService(teams, groups, users)

	teamID := "0f8fad5b-d9cb-469f-a165-70867728950e"

	groups.On("ListMembers", ctx, teamID).Return([]domain.GroupMember{
		{ID: "uid-student", UserPrincipalName: "40301001@colegio.edu.co"},
	}, nil)
	groups.On("ListOwners", ctx, teamID).Return([]domain.GroupMember{
		{ID: "uid-cap", UserPrincipalName: "cap@colegio.edu.co"},
		{ID: "uid-teacher", UserPrincipalName: "docente@colegio.edu.co"},
	}, nil)
	groups.On("RemoveMember", ctx, teamID, "uid-student").Return(nil)
	groups.On("RemoveOwner", ctx, teamID, "uid-teacher").Return(nil)

	res, err := svc.PurgeTeams(ctx, []string{teamID})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.MembersRemoved)
	assert.Equal(t, 1, res.OwnersRemoved)
	assert.Equal(t, 1, res.TeamsProcessed)
	assert.Equal(t, 0, res.Errors)
	groups.AssertNotCalled(t, "RemoveOwner", ctx, teamID, "uid-cap")
	groups.AssertNotCalled(t, "RemoveMember", ctx, teamID, "uid-cap")
}

func TestTeamService_PurgeTeams_ResolvesByMail(t *testing.T) {
	ctx := context.Background()
	teams := &TeamDirectoryMock{}
	groups := &GroupDirectoryMock{}
	users := &UserDirectoryMock{}
	svc := newTestTeamService(teams, groups, users)

	groups.On("FindGroupByMail", ctx, "equipo@colegio.edu.co").Return(&domain.Group{ID: "g-1", DisplayName: "Equipo"}, nil)
	groups.On("ListMembers", ctx, "g-1").Return([]domain.GroupMember{}, nil)
	groups.On("ListOwners", ctx, "g-1").Return([]domain.GroupMember{}, nil)

	res, err := svc.PurgeTeams(ctx, []string{"equipo@colegio.edu.co"})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.TeamsProcessed)
	groups.AssertExpectations(t)
}

func TestTeamService_PurgeTeams_UnknownIdentifierContinues(t *testing.T) {
	ctx := context.Background()
	teams := &TeamDirectoryMock{}
	groups := &GroupDirectoryMock{}
	users := &UserDirectoryMock{}
	svc := newTestTeamService(teams, groups, users)

	groups.On("FindGroupByMail", ctx, "nadie@colegio.edu.co").Return(nil, domain.ErrGroupNotFound)
	groups.On("FindGroupByMail", ctx, "equipo@colegio.edu.co").Return(&domain.Group{ID: "g-1"}, nil)
	groups.On("ListMembers", ctx, "g-1").Return([]domain.GroupMember{}, nil)
	groups.On("ListOwners", ctx, "g-1").Return([]domain.GroupMember{}, nil)

	res, err := svc.PurgeTeams(ctx, []string{"nadie@colegio.edu.co", "equipo@colegio.edu.co"})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.NotFound)
	assert.Equal(t, 1, res.TeamsProcessed)
}

func TestTeamService_DeleteTeams_ConfirmationGate(t *testing.T) {
	svc := newTestTeamService(&TeamDirectoryMock{}, &GroupDirectoryMock{}, &UserDirectoryMock{})

	_, err := svc.DeleteTeams(context.Background(), []string{"x"}, domain.DeleteConfirmation{Phrase: "no"})

	assert.ErrorIs(t, err, domain.ErrConfirmationRequired)
}

func TestTeamService_DeleteTeams_ResolvesByNameOrMail(t *testing.T) {
	ctx := context.Background()
	teams := &TeamDirectoryMock{}
	groups := &GroupDirectoryMock{}
	users := &UserDirectoryMock{}
	svc := newTestTeamService(teams, groups, users)

	groups.On("FindGroupByNameOrMail", ctx, "Ciencias 202").Return(&domain.Group{ID: "g-1", DisplayName: "Ciencias 202"}, nil)
	groups.On("DeleteGroup", ctx, "g-1").Return(nil)

	res, err := svc.DeleteTeams(ctx, []string{"Ciencias 202"}, domain.DeleteConfirmation{Phrase: "ELIMINAR"})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Deleted)
	groups.AssertExpectations(t)
}
