package domain

import "context"

// DeleteConfirmation защищает массовые удаления от случайного запуска.
// При Bypass=true (программный запуск из веб-интерфейса) проверки пропускаются;
// иначе оператор обязан ввести точную фразу и название колледжа.
type DeleteConfirmation struct {
	Bypass     bool
	Phrase     string
	SchoolName string
}

// StudentUseCase определяет бизнес-логику массового администрирования студентов.
type StudentUseCase interface {
	CreateStudents(ctx context.Context, students []Student) (*RunResult, error)
	UpdateStudents(ctx context.Context, students []Student) (*RunResult, error)
	DeleteStudents(ctx context.Context, codes []string, confirm DeleteConfirmation) (*RunResult, error)
}

// CourseUseCase определяет бизнес-логику привязки студентов к группам курсов.
type CourseUseCase interface {
	ReassignCourses(ctx context.Context, changes []CourseChange) (*RunResult, error)
	LinkStudents(ctx context.Context, links []CourseLink) (*RunResult, error)
}

// TeamUseCase определяет бизнес-логику операций над командами.
type TeamUseCase interface {
	CloneTeams(ctx context.Context, specs []TeamSpec) (*RunResult, error)
	PurgeTeams(ctx context.Context, identifiers []string) (*RunResult, error)
	DeleteTeams(ctx context.Context, identifiers []string, confirm DeleteConfirmation) (*RunResult, error)
	ListTeamInventory(ctx context.Context) ([]Group, error)
}
