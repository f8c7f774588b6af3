package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"m365-admin-service/internal/config"
	"m365-admin-service/internal/domain"
)

// CourseService реализует бизнес-логику привязки студентов к группам курсов.
type CourseService struct {
	users  domain.UserDirectory
	groups domain.GroupDirectory
	cfg    config.Config
	logger *logrus.Logger
}

// NewCourseService создает новый экземпляр CourseService.
func NewCourseService(users domain.UserDirectory, groups domain.GroupDirectory, cfg config.Config, logger *logrus.Logger) domain.CourseUseCase {
	return &CourseService{
		users:  users,
		groups: groups,
		cfg:    cfg,
		logger: logger,
	}
}

// ReassignCourses переводит студентов между группами курсов. Для каждой
// записи вычисляется план (без изменений / вступление / перевод) по
// текущим членствам; неудачное исключение из старой группы не блокирует
// добавление в новую.
func (s *CourseService) ReassignCourses(ctx context.Context, changes []domain.CourseChange) (*domain.RunResult, error) {
	if len(changes) == 0 {
		return nil, domain.ErrNoRecords
	}

	run := newRun(domain.OpReassignCourses)
	cache := newSnapshotCache()

	for _, change := range changes {
		run.res.Total++

		// 1. Разрешаем учетную запись
		userID, err := cache.userID(ctx, s.users, change.UserPrincipalName)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				run.res.NotFound++
				run.detail("no encontrado: %s", change.UserPrincipalName)
				continue
			}
			if errors.Is(err, domain.ErrAuthFailed) {
				return nil, err
			}
			run.failure("error resolviendo %s: %v", change.UserPrincipalName, err)
			continue
		}

		// 2. Читаем текущие членства и строим план перевода
		memberships, err := s.users.GetUserGroups(ctx, userID)
		if err != nil {
			run.failure("error listando grupos de %s: %v", change.UserPrincipalName, err)
			continue
		}

		toRemove, needAdd := courseMovePlan(memberships, s.cfg.CourseGroupPrefix, change.NewCourse)
		if !needAdd && len(toRemove) == 0 {
			run.res.NoChanges++
			run.detail("sin cambios: %s ya en %s", change.UserPrincipalName, change.NewCourse)
			continue
		}

		// 3. Покидаем старые группы курсов; сбой здесь не отменяет вступление
		for _, g := range toRemove {
			if err := s.groups.RemoveMember(ctx, g.ID, userID); err != nil {
				run.failure("error saliendo de %s: %v", g.DisplayName, err)
				continue
			}
			run.res.MembersRemoved++
		}

		// 4. Вступаем в целевую группу курса
		if !needAdd {
			continue
		}

		target, err := cache.groupByName(ctx, s.groups, s.cfg.CourseGroupName(change.NewCourse))
		if err != nil {
			if errors.Is(err, domain.ErrGroupNotFound) {
				run.failure("grupo de curso no existe: %s", change.NewCourse)
				continue
			}
			run.failure("error buscando grupo %s: %v", change.NewCourse, err)
			continue
		}

		err = s.groups.AddMember(ctx, target.ID, userID)
		switch {
		case errors.Is(err, domain.ErrAlreadyMember):
			run.res.NoChanges++
			run.detail("ya era miembro: %s en %s", change.UserPrincipalName, change.NewCourse)
		case err != nil:
			run.failure("error agregando %s a %s: %v", change.UserPrincipalName, change.NewCourse, err)
		default:
			run.res.MembersAdded++
		}
	}

	return run.done(), nil
}

// LinkStudents привязывает студентов к группам их курсов. Группы курсов
// перечисляются один раз по префиксу; повторное членство считается
// штатным исходом, отсутствующий студент не прерывает прогон.
func (s *CourseService) LinkStudents(ctx context.Context, links []domain.CourseLink) (*domain.RunResult, error) {
	if len(links) == 0 {
		return nil, domain.ErrNoRecords
	}

	run := newRun(domain.OpLinkCourses)
	cache := newSnapshotCache()

	// 1. Один раз перечисляем группы курсов тенанта
	courseGroups, err := s.groups.ListGroupsByPrefix(ctx, s.cfg.CourseGroupPrefix)
	if err != nil {
		return nil, err
	}

	groupByLabel := make(map[string]domain.Group, len(courseGroups))
	for _, g := range courseGroups {
		if label, ok := extractCourseLabel(g.DisplayName, s.cfg.CourseGroupPrefix); ok {
			groupByLabel[strings.ToLower(label)] = g
		}
	}

	// 2. Разбиваем привязки по курсам; курсы обходим в устойчивом порядке
	partition := partitionByCourse(links)

	courses := make([]string, 0, len(partition))
	for course := range partition {
		courses = append(courses, course)
	}
	sort.Strings(courses)

	for _, course := range courses {
		group, ok := groupByLabel[strings.ToLower(course)]
		if !ok {
			for range partition[course] {
				run.res.Total++
				run.failure("grupo de curso no existe: %s", course)
			}
			continue
		}

		// 3. Добавляем студентов курса в его группу
		for _, identifier := range partition[course] {
			run.res.Total++

			upn := identifier
			if !strings.Contains(upn, "@") {
				upn = s.cfg.StudentUPN(upn)
			}

			userID, err := cache.userID(ctx, s.users, upn)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					run.res.NotFound++
					run.detail("no encontrado: %s", upn)
					continue
				}
				if errors.Is(err, domain.ErrAuthFailed) {
					return nil, err
				}
				run.failure("error resolviendo %s: %v", upn, err)
				continue
			}

			err = s.groups.AddMember(ctx, group.ID, userID)
			switch {
			case errors.Is(err, domain.ErrAlreadyMember):
				run.res.SkippedDuplicates++
				run.detail("ya era miembro: %s en %s", upn, course)
			case err != nil:
				run.failure("error agregando %s a %s: %v", upn, course, err)
			default:
				run.res.MembersAdded++
			}
		}
	}

	return run.done(), nil
}
