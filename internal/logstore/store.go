package logstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"m365-admin-service/internal/domain"
)

// Store сохраняет итоги прогонов в текстовые журналы
// "<операция>_<yyyymmdd_hhmmss>.log" и читает их обратно.
type Store struct {
	dir    string
	school string
	logger *logrus.Logger
	now    func() time.Time
}

// Entry описывает один файл журнала.
type Entry struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

// NewStore создает хранилище журналов в каталоге dir.
func NewStore(dir, school string, logger *logrus.Logger) *Store {
	return &Store{
		dir:    dir,
		school: school,
		logger: logger,
		now:    time.Now,
	}
}

// Save записывает итог прогона в новый файл журнала и возвращает его имя.
func (s *Store) Save(res *domain.RunResult) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating log directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s.log", res.Operation, s.now().Format("20060102_150405"))

	content := renderLog(res, s.school)

	if err := os.WriteFile(filepath.Join(s.dir, name), []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing log %s: %w", name, err)
	}

	s.logger.WithFields(logrus.Fields{
		"log":       name,
		"operation": res.Operation,
		"errors":    res.Errors,
	}).Info("Run log saved")

	return name, nil
}

// List возвращает файлы журналов, новые первыми.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing logs: %w", err)
	}

	var entries []Entry

	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".log") {
			continue
		}

		info, err := de.Info()
		if err != nil {
			continue
		}

		entries = append(entries, Entry{
			Name:    de.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	// Имена содержат отметку времени, обратный порядок дает новые первыми
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name > entries[j].Name
	})

	return entries, nil
}

// Read возвращает содержимое журнала по имени файла.
func (s *Store) Read(name string) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading log %s: %w", name, err)
	}

	return string(data), nil
}

// Path возвращает путь к журналу, отклоняя выход за пределы каталога.
func (s *Store) Path(name string) (string, error) {
	if name != filepath.Base(name) || !strings.HasSuffix(name, ".log") {
		return "", fmt.Errorf("invalid log name: %s", name)
	}

	return filepath.Join(s.dir, name), nil
}

// Заголовки журналов по операциям.
var operationTitles = map[domain.Operation]string{
	domain.OpCreateStudents:  "CREACIÓN DE ESTUDIANTES",
	domain.OpUpdateStudents:  "ACTUALIZACIÓN DE ESTUDIANTES",
	domain.OpDeleteStudents:  "ELIMINACIÓN DE ESTUDIANTES",
	domain.OpReassignCourses: "TRASLADO DE CURSOS",
	domain.OpLinkCourses:     "VINCULACIÓN A GRUPOS DE CURSO",
	domain.OpCloneTeams:      "CREACIÓN DE EQUIPOS",
	domain.OpPurgeTeams:      "VACIADO DE EQUIPOS",
	domain.OpDeleteTeams:     "ELIMINACIÓN DE EQUIPOS",
}

// renderLog строит текст журнала: заголовок, размеченные счетчики и
// секции деталей. Метки счетчиков — контракт для сборщика статистики.
func renderLog(res *domain.RunResult, school string) string {
	var b strings.Builder

	title := operationTitles[res.Operation]
	if title == "" {
		title = strings.ToUpper(string(res.Operation))
	}

	fmt.Fprintf(&b, "%s - %s\n", title, school)
	fmt.Fprintf(&b, "Fecha: %s\n", res.StartedAt.Format("2006-01-02 15:04:05"))
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Total procesados: %d\n", res.Total)

	for _, c := range summaryCounters(res) {
		fmt.Fprintf(&b, "%s: %d\n", c.label, c.value)
	}

	fmt.Fprintf(&b, "Errores: %d\n", res.Errors)

	if len(res.Details) > 0 {
		b.WriteString("\nDETALLES:\n")
		b.WriteString(strings.Repeat("-", 30) + "\n")
		for _, d := range res.Details {
			fmt.Fprintf(&b, "- %s\n", d)
		}
	}

	if len(res.ErrorDetails) > 0 {
		b.WriteString("\nDETALLES DE ERRORES:\n")
		b.WriteString(strings.Repeat("-", 30) + "\n")
		for _, e := range res.ErrorDetails {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}

	return b.String()
}

type counter struct {
	label string
	value int
}

func summaryCounters(res *domain.RunResult) []counter {
	switch res.Operation {
	case domain.OpCreateStudents:
		return []counter{
			{labelCreated, res.Created},
			{labelLicensed, res.Licensed},
			{labelSkipped, res.SkippedDuplicates},
		}
	case domain.OpUpdateStudents:
		return []counter{
			{labelUpdated, res.Updated},
			{labelNotFound, res.NotFound},
		}
	case domain.OpDeleteStudents:
		return []counter{
			{labelDeleted, res.Deleted},
			{labelNotFound, res.NotFound},
		}
	case domain.OpReassignCourses:
		return []counter{
			{labelMembersAdded, res.MembersAdded},
			{labelMembersRemoved, res.MembersRemoved},
			{labelNoChanges, res.NoChanges},
			{labelNotFound, res.NotFound},
		}
	case domain.OpLinkCourses:
		return []counter{
			{labelMembersAdded, res.MembersAdded},
			{labelSkipped, res.SkippedDuplicates},
			{labelNotFound, res.NotFound},
		}
	case domain.OpCloneTeams:
		return []counter{
			{labelTeamsCreated, res.Created},
			{labelSkipped, res.SkippedDuplicates},
			{labelOwnersAdded, res.OwnersAdded},
			{labelOwnersPromoted, res.OwnersPromoted},
		}
	case domain.OpPurgeTeams:
		return []counter{
			{labelTeamsProcessed, res.TeamsProcessed},
			{labelMembersRemoved, res.MembersRemoved},
			{labelOwnersRemoved, res.OwnersRemoved},
			{labelNotFound, res.NotFound},
		}
	case domain.OpDeleteTeams:
		return []counter{
			{labelTeamsDeleted, res.Deleted},
			{labelNotFound, res.NotFound},
		}
	default:
		return nil
	}
}
