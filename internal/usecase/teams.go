package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"m365-admin-service/internal/config"
	"m365-admin-service/internal/domain"
)

// Фраза подтверждения массового удаления команд.
const teamDeletePhrase = "ELIMINAR"

const (
	// Пауза после принятого запроса клонирования: команда готовится
	// асинхронно, и ее id еще не разрешается по имени.
	cloneSettleDelay = 2 * time.Second
	// Пауза между записями файла, чтобы не упираться в троттлинг.
	clonePacingDelay = time.Second
)

// TeamService реализует бизнес-логику операций над командами.
type TeamService struct {
	teams  domain.TeamDirectory
	groups domain.GroupDirectory
	users  domain.UserDirectory
	cfg    config.Config
	logger *logrus.Logger
	sleep  func(time.Duration)
}

// NewTeamService создает новый экземпляр TeamService.
func NewTeamService(teams domain.TeamDirectory, groups domain.GroupDirectory, users domain.UserDirectory, cfg config.Config, logger *logrus.Logger) domain.TeamUseCase {
	return &TeamService{
		teams:  teams,
		groups: groups,
		users:  users,
		cfg:    cfg,
		logger: logger,
		sleep:  time.Sleep,
	}
}

// CloneTeams создает команды клонированием команды-шаблона и назначает
// владельцев. Перед прогоном снимается снимок имен групп тенанта:
// команда с существующим именем пропускается как дубликат.
func (s *TeamService) CloneTeams(ctx context.Context, specs []domain.TeamSpec) (*domain.RunResult, error) {
	if s.cfg.TemplateTeamID == "" {
		return nil, domain.ErrMissingTemplate
	}
	if len(specs) == 0 {
		return nil, domain.ErrNoRecords
	}

	run := newRun(domain.OpCloneTeams)
	cache := newSnapshotCache()

	// 1. Снимок имен групп для проверки дубликатов
	if err := cache.loadTeamSnapshot(ctx, s.groups); err != nil {
		return nil, err
	}

	for i, spec := range specs {
		if i > 0 {
			s.sleep(clonePacingDelay)
		}

		run.res.Total++

		name := strings.TrimSpace(spec.Name)
		if name == "" {
			run.failure("registro %d: nombre de equipo vacío", i+1)
			continue
		}

		// 2. Дубликаты пропускаются без обращения к сервису
		if cache.teamExists(name) {
			run.res.SkippedDuplicates++
			run.detail("omitido (ya existe): %s", name)
			continue
		}

		// 3. Основной владелец обязателен
		if !validOwner(spec.Owner) {
			run.failure("equipo %s: propietario principal inválido", name)
			continue
		}

		ownerID, err := cache.userID(ctx, s.users, spec.Owner)
		if err != nil {
			if errors.Is(err, domain.ErrAuthFailed) {
				return nil, err
			}
			run.failure("equipo %s: propietario %s no resuelto: %v", name, spec.Owner, err)
			continue
		}

		// 4. Клонируем шаблон
		err = s.teams.CloneTeam(ctx, s.cfg.TemplateTeamID, name, spec.Description())
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			run.res.SkippedDuplicates++
			run.detail("omitido (ya existe): %s", name)
			continue
		case err != nil:
			run.failure("error clonando %s: %v", name, err)
			continue
		}

		// 5. Ждем подготовку и разрешаем id по имени
		teamID, err := s.resolveClonedTeam(ctx, name)
		if err != nil {
			run.failure("equipo %s creado pero no resuelto: %v", name, err)
			continue
		}

		cache.rememberTeam(name, teamID)
		run.res.Created++
		s.logger.WithFields(logrus.Fields{"team": name, "id": teamID}).Info("Team cloned")

		// 6. Назначаем владельцев
		s.addOwner(ctx, run, teamID, name, ownerID)

		for _, owner := range spec.SecondaryOwners() {
			if !validOwner(owner) {
				continue
			}

			uid, err := cache.userID(ctx, s.users, owner)
			if err != nil {
				run.detail("propietario %s de %s no resuelto", owner, name)
				continue
			}

			s.addOwner(ctx, run, teamID, name, uid)
		}

		run.res.TeamsProcessed++
	}

	return run.done(), nil
}

// resolveClonedTeam ждет подготовку клона и разрешает его id по имени.
// Повторная попытка одна: если команда не появилась, запись считается
// созданной, но не разрешенной.
func (s *TeamService) resolveClonedTeam(ctx context.Context, name string) (string, error) {
	s.sleep(cloneSettleDelay)

	g, err := s.groups.FindGroupByName(ctx, name)
	if errors.Is(err, domain.ErrGroupNotFound) {
		s.sleep(cloneSettleDelay)
		g, err = s.groups.FindGroupByName(ctx, name)
	}
	if err != nil {
		return "", err
	}

	return g.ID, nil
}

// addOwner добавляет владельца команды; конфликт означает, что
// пользователь уже участник, и тогда его роль повышается.
func (s *TeamService) addOwner(ctx context.Context, run *resultBuilder, teamID, teamName, userID string) {
	err := s.teams.AddTeamOwner(ctx, teamID, userID)
	switch {
	case errors.Is(err, domain.ErrAlreadyMember):
		if err := s.teams.PromoteToOwner(ctx, teamID, userID); err != nil {
			run.failure("error promoviendo propietario en %s: %v", teamName, err)
			return
		}
		run.res.OwnersPromoted++
	case err != nil:
		run.failure("error agregando propietario en %s: %v", teamName, err)
	default:
		run.res.OwnersAdded++
	}
}

// PurgeTeams исключает всех участников и владельцев перечисленных
// команд. Защищенная учетная запись не передается ни в одно удаление.
func (s *TeamService) PurgeTeams(ctx context.Context, identifiers []string) (*domain.RunResult, error) {
	if len(identifiers) == 0 {
		return nil, domain.ErrNoRecords
	}

	run := newRun(domain.OpPurgeTeams)

	for _, identifier := range identifiers {
		run.res.Total++

		groupID, name, err := s.resolveByIDOrMail(ctx, identifier)
		if err != nil {
			if errors.Is(err, domain.ErrGroupNotFound) {
				run.res.NotFound++
				run.detail("no encontrado: %s", identifier)
				continue
			}
			if errors.Is(err, domain.ErrAuthFailed) {
				return nil, err
			}
			run.failure("error resolviendo %s: %v", identifier, err)
			continue
		}

		// 1. Исключаем участников
		members, err := s.groups.ListMembers(ctx, groupID)
		if err != nil {
			run.failure("error listando miembros de %s: %v", name, err)
			continue
		}

		for _, m := range members {
			if s.isProtected(m) {
				run.detail("cuenta protegida omitida en %s", name)
				continue
			}
			if err := s.groups.RemoveMember(ctx, groupID, m.ID); err != nil {
				run.failure("error quitando miembro de %s: %v", name, err)
				continue
			}
			run.res.MembersRemoved++
		}

		// 2. Исключаем владельцев
		owners, err := s.groups.ListOwners(ctx, groupID)
		if err != nil {
			run.failure("error listando propietarios de %s: %v", name, err)
			continue
		}

		for _, o := range owners {
			if s.isProtected(o) {
				run.detail("cuenta protegida omitida en %s", name)
				continue
			}
			if err := s.groups.RemoveOwner(ctx, groupID, o.ID); err != nil {
				run.failure("error quitando propietario de %s: %v", name, err)
				continue
			}
			run.res.OwnersRemoved++
		}

		run.res.TeamsProcessed++
		s.logger.WithField("team", name).Info("Team membership purged")
	}

	return run.done(), nil
}

// DeleteTeams удаляет перечисленные команды после подтверждения.
func (s *TeamService) DeleteTeams(ctx context.Context, identifiers []string, confirm domain.DeleteConfirmation) (*domain.RunResult, error) {
	if !confirm.Bypass && confirm.Phrase != teamDeletePhrase {
		return nil, domain.ErrConfirmationRequired
	}
	if len(identifiers) == 0 {
		return nil, domain.ErrNoRecords
	}

	run := newRun(domain.OpDeleteTeams)

	for _, identifier := range identifiers {
		run.res.Total++

		groupID, name, err := s.resolveByAny(ctx, identifier)
		if err != nil {
			if errors.Is(err, domain.ErrGroupNotFound) {
				run.res.NotFound++
				run.detail("no encontrado: %s", identifier)
				continue
			}
			if errors.Is(err, domain.ErrAuthFailed) {
				return nil, err
			}
			run.failure("error resolviendo %s: %v", identifier, err)
			continue
		}

		if err := s.groups.DeleteGroup(ctx, groupID); err != nil {
			if errors.Is(err, domain.ErrGroupNotFound) {
				run.res.NotFound++
				run.detail("no encontrado: %s", identifier)
				continue
			}
			run.failure("error eliminando %s: %v", name, err)
			continue
		}

		run.res.Deleted++
		s.logger.WithField("team", name).Warn("Team deleted")
	}

	return run.done(), nil
}

// ListTeamInventory возвращает все команды тенанта.
func (s *TeamService) ListTeamInventory(ctx context.Context) ([]domain.Group, error) {
	return s.groups.ListTeams(ctx)
}

// resolveByIDOrMail разрешает команду: литеральный GUID проходит как есть,
// иначе значение трактуется как почта группы.
func (s *TeamService) resolveByIDOrMail(ctx context.Context, identifier string) (string, string, error) {
	identifier = strings.TrimSpace(identifier)

	if isGroupID(identifier) {
		return identifier, identifier, nil
	}

	g, err := s.groups.FindGroupByMail(ctx, identifier)
	if err != nil {
		return "", "", err
	}

	return g.ID, g.DisplayName, nil
}

// resolveByAny разрешает команду по id, имени или почте.
func (s *TeamService) resolveByAny(ctx context.Context, identifier string) (string, string, error) {
	identifier = strings.TrimSpace(identifier)

	if isGroupID(identifier) {
		g, err := s.groups.GetGroup(ctx, identifier)
		if err != nil {
			return "", "", err
		}
		return g.ID, g.DisplayName, nil
	}

	g, err := s.groups.FindGroupByNameOrMail(ctx, identifier)
	if err != nil {
		return "", "", err
	}

	return g.ID, g.DisplayName, nil
}

// isProtected проверяет, является ли участник защищенной учетной записью.
func (s *TeamService) isProtected(m domain.GroupMember) bool {
	if s.cfg.ProtectedAccount == "" {
		return false
	}

	return strings.EqualFold(m.UserPrincipalName, s.cfg.ProtectedAccount) ||
		strings.EqualFold(m.Mail, s.cfg.ProtectedAccount)
}
