package domain

import "time"

// Operation идентифицирует тип массовой операции.
type Operation string

const (
	OpCreateStudents  Operation = "create_students"
	OpUpdateStudents  Operation = "update_students"
	OpDeleteStudents  Operation = "delete_students"
	OpReassignCourses Operation = "reassign_courses"
	OpLinkCourses     Operation = "link_courses"
	OpCloneTeams      Operation = "clone_teams"
	OpPurgeTeams      Operation = "purge_teams"
	OpDeleteTeams     Operation = "delete_teams"
)

// RunResult представляет итог одного прогона массовой операции.
type RunResult struct {
	Operation  Operation
	StartedAt  time.Time
	FinishedAt time.Time

	Total             int
	Created           int
	Licensed          int
	Updated           int
	Deleted           int
	NotFound          int
	MembersAdded      int
	MembersRemoved    int
	OwnersRemoved     int
	OwnersAdded       int
	OwnersPromoted    int
	SkippedDuplicates int
	NoChanges         int
	TeamsProcessed    int
	Errors            int

	Details      []string
	ErrorDetails []string
}

// Succeeded сообщает, завершился ли прогон без ошибок по записям.
func (r *RunResult) Succeeded() bool {
	return r.Errors == 0
}
