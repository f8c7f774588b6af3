package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"m365-admin-service/internal/config"
	"m365-admin-service/internal/domain"
)

// Фраза подтверждения массового удаления учетных записей.
const studentDeletePhrase = "SI ELIMINAR"

// Диапазон тестовых кодов, который удаляется при пустом входе.
const (
	deleteRangeBase  = 40302000
	deleteRangeCount = 200
)

// StudentService реализует бизнес-логику массового администрирования студентов.
type StudentService struct {
	users  domain.UserDirectory
	cfg    config.Config
	logger *logrus.Logger
}

// NewStudentService создает новый экземпляр StudentService.
func NewStudentService(users domain.UserDirectory, cfg config.Config, logger *logrus.Logger) domain.StudentUseCase {
	return &StudentService{
		users:  users,
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStudents создает учетные записи из файла желаемого состояния
// и назначает лицензии. Назначение лицензии считается отдельно от
// создания: учетная запись без лицензии остается созданной.
func (s *StudentService) CreateStudents(ctx context.Context, students []domain.Student) (*domain.RunResult, error) {
	if len(students) == 0 {
		return nil, domain.ErrNoRecords
	}

	run := newRun(domain.OpCreateStudents)

	for _, student := range students {
		run.res.Total++
		upn := s.cfg.StudentUPN(student.Code)

		// 1. Создаем учетную запись
		err := s.users.CreateStudent(ctx, student)
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			run.res.SkippedDuplicates++
			run.detail("omitido (ya existe): %s", upn)
			continue
		case errors.Is(err, domain.ErrAuthFailed):
			return nil, err
		case err != nil:
			run.failure("error creando %s: %v", upn, err)
			continue
		}

		run.res.Created++
		s.logger.WithField("upn", upn).Info("Student account created")

		// 2. Назначаем лицензию, если она настроена
		if s.cfg.StudentLicenseSKU == "" {
			continue
		}

		if err := s.users.AssignStudentLicense(ctx, upn); err != nil {
			run.failure("error asignando licencia a %s: %v", upn, err)
			continue
		}

		run.res.Licensed++
	}

	return run.done(), nil
}

// UpdateStudents обновляет атрибуты существующих учетных записей.
// Отсутствующая учетная запись считается отдельным исходом, не ошибкой.
func (s *StudentService) UpdateStudents(ctx context.Context, students []domain.Student) (*domain.RunResult, error) {
	if len(students) == 0 {
		return nil, domain.ErrNoRecords
	}

	run := newRun(domain.OpUpdateStudents)

	for _, student := range students {
		run.res.Total++
		upn := s.cfg.StudentUPN(student.Code)

		err := s.users.UpdateStudent(ctx, student)
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			run.res.NotFound++
			run.detail("no encontrado: %s", upn)
		case errors.Is(err, domain.ErrAuthFailed):
			return nil, err
		case err != nil:
			run.failure("error actualizando %s: %v", upn, err)
		default:
			run.res.Updated++
		}
	}

	return run.done(), nil
}

// DeleteStudents удаляет учетные записи по кодам. При пустом входе
// удаляется диапазон тестовых кодов. Перед удалением проверяется
// наличие учетной записи: отсутствующая запись не считается ошибкой.
func (s *StudentService) DeleteStudents(ctx context.Context, codes []string, confirm domain.DeleteConfirmation) (*domain.RunResult, error) {
	// 1. Проверка подтверждения
	if err := s.checkConfirmation(confirm); err != nil {
		return nil, err
	}

	// 2. Пустой вход означает диапазон тестовых кодов
	if len(codes) == 0 {
		codes = defaultDeletionCodes()
		s.logger.WithField("count", len(codes)).Info("Using default test code range for deletion")
	}

	run := newRun(domain.OpDeleteStudents)

	for _, code := range codes {
		run.res.Total++
		upn := s.cfg.StudentUPN(strings.TrimSpace(code))

		// 3. Проверяем наличие, чтобы отличить "не было" от "удалено"
		exists, err := s.users.UserExists(ctx, upn)
		if err != nil {
			if errors.Is(err, domain.ErrAuthFailed) {
				return nil, err
			}
			run.failure("error verificando %s: %v", upn, err)
			continue
		}
		if !exists {
			run.res.NotFound++
			run.detail("no existe: %s", upn)
			continue
		}

		if err := s.users.DeleteUser(ctx, upn); err != nil {
			run.failure("error eliminando %s: %v", upn, err)
			continue
		}

		run.res.Deleted++
		s.logger.WithField("upn", upn).Info("Student account deleted")
	}

	return run.done(), nil
}

// checkConfirmation проверяет фразу подтверждения и название колледжа.
// Программный запуск с Bypass пропускает проверки.
func (s *StudentService) checkConfirmation(confirm domain.DeleteConfirmation) error {
	if confirm.Bypass {
		return nil
	}

	if confirm.Phrase != studentDeletePhrase {
		return domain.ErrConfirmationRequired
	}
	if !strings.EqualFold(strings.TrimSpace(confirm.SchoolName), strings.TrimSpace(s.cfg.SchoolName)) {
		return domain.ErrConfirmationRequired
	}

	return nil
}

func defaultDeletionCodes() []string {
	codes := make([]string, 0, deleteRangeCount)
	for i := 1; i <= deleteRangeCount; i++ {
		codes = append(codes, strconv.Itoa(deleteRangeBase+i))
	}
	return codes
}
