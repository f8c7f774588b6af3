package logstore

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"m365-admin-service/internal/domain"
)

// Метки счетчиков в журналах. Записываются renderLog и извлекаются
// сборщиком статистики по регулярным выражениям.
const (
	labelCreated        = "Estudiantes Creados"
	labelLicensed       = "Licencias Asignadas"
	labelUpdated        = "Estudiantes Actualizados"
	labelDeleted        = "Estudiantes Eliminados"
	labelMembersAdded   = "Miembros Agregados"
	labelMembersRemoved = "Miembros Eliminados"
	labelOwnersAdded    = "Owners Agregados"
	labelOwnersPromoted = "Owners Promovidos"
	labelOwnersRemoved  = "Owners Eliminados"
	labelTeamsCreated   = "Equipos Creados"
	labelTeamsProcessed = "Equipos Procesados"
	labelTeamsDeleted   = "Equipos Eliminados"
	labelSkipped        = "Duplicados Omitidos"
	labelNoChanges      = "Sin Cambios"
	labelNotFound       = "No Encontrados"
)

// Статистика строится по последним журналам, не по всей истории.
const statsLogLimit = 50

// Stats агрегирует показатели по последним журналам прогонов.
type Stats struct {
	TotalOperations int            `json:"totalOperations"`
	StudentsCreated int            `json:"studentsCreated"`
	StudentsUpdated int            `json:"studentsUpdated"`
	StudentsDeleted int            `json:"studentsDeleted"`
	TeamsProcessed  int            `json:"teamsProcessed"`
	MembersRemoved  int            `json:"membersRemoved"`
	OwnersRemoved   int            `json:"ownersRemoved"`
	TotalErrors     int            `json:"totalErrors"`
	FailedRuns      int            `json:"failedRuns"`
	SuccessRate     float64        `json:"successRate"`
	ByOperation     map[string]int `json:"byOperation"`
	ByDay           map[string]int `json:"byDay"`
	RecentActivity  []Activity     `json:"recentActivity"`
}

// Activity описывает один недавний прогон.
type Activity struct {
	Operation string `json:"operation"`
	Date      string `json:"date"`
	Succeeded bool   `json:"succeeded"`
	Summary   string `json:"summary"`
}

var (
	dateInName    = regexp.MustCompile(`(\d{8})_(\d{6})`)
	dateInContent = regexp.MustCompile(`Fecha:\s*(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2})`)
)

// CollectStats разбирает последние журналы и агрегирует показатели.
func (s *Store) CollectStats() (*Stats, error) {
	stats := &Stats{
		ByOperation: make(map[string]int),
		ByDay:       make(map[string]int),
	}

	entries, err := s.List()
	if err != nil {
		return nil, err
	}

	if len(entries) > statsLogLimit {
		entries = entries[:statsLogLimit]
	}

	for _, entry := range entries {
		op := operationFromName(entry.Name)
		if op == "" {
			continue
		}

		content, err := s.Read(entry.Name)
		if err != nil {
			s.logger.WithError(err).WithField("log", entry.Name).Warn("Skipping unreadable log")
			continue
		}

		stats.TotalOperations++
		stats.ByOperation[string(op)]++

		if m := dateInName.FindStringSubmatch(entry.Name); m != nil {
			stats.ByDay[m[1]]++
		}

		errors := scrapeNumber(content, "Errores")
		stats.TotalErrors += errors
		if errors > 0 {
			stats.FailedRuns++
		}

		summary := ""
		switch op {
		case domain.OpCreateStudents:
			n := scrapeNumber(content, labelCreated)
			stats.StudentsCreated += n
			summary = fmt.Sprintf("%d estudiantes creados", n)
		case domain.OpUpdateStudents:
			n := scrapeNumber(content, labelUpdated)
			stats.StudentsUpdated += n
			summary = fmt.Sprintf("%d estudiantes actualizados", n)
		case domain.OpDeleteStudents:
			n := scrapeNumber(content, labelDeleted)
			stats.StudentsDeleted += n
			summary = fmt.Sprintf("%d estudiantes eliminados", n)
		case domain.OpPurgeTeams:
			n := scrapeNumber(content, labelTeamsProcessed)
			stats.TeamsProcessed += n
			stats.MembersRemoved += scrapeNumber(content, labelMembersRemoved)
			stats.OwnersRemoved += scrapeNumber(content, labelOwnersRemoved)
			summary = fmt.Sprintf("%d equipos procesados", n)
		case domain.OpCloneTeams:
			n := scrapeNumber(content, labelTeamsCreated)
			stats.TeamsProcessed += n
			summary = fmt.Sprintf("%d equipos creados", n)
		default:
			summary = fmt.Sprintf("total %d", scrapeNumber(content, "Total procesados"))
		}

		if len(stats.RecentActivity) < 10 {
			stats.RecentActivity = append(stats.RecentActivity, Activity{
				Operation: string(op),
				Date:      scrapeDate(content, entry.Name),
				Succeeded: errors == 0,
				Summary:   summary,
			})
		}
	}

	if stats.TotalOperations > 0 {
		ok := stats.TotalOperations - stats.FailedRuns
		stats.SuccessRate = round1(float64(ok) / float64(stats.TotalOperations) * 100)
	}

	return stats, nil
}

// operationFromName извлекает операцию из имени файла журнала.
func operationFromName(name string) domain.Operation {
	ops := []domain.Operation{
		domain.OpCreateStudents,
		domain.OpUpdateStudents,
		domain.OpDeleteStudents,
		domain.OpReassignCourses,
		domain.OpLinkCourses,
		domain.OpCloneTeams,
		domain.OpPurgeTeams,
		domain.OpDeleteTeams,
	}

	for _, op := range ops {
		if strings.HasPrefix(name, string(op)+"_") {
			return op
		}
	}

	return ""
}

func scrapeNumber(content, label string) int {
	re := regexp.MustCompile(regexp.QuoteMeta(label) + `:\s*(\d+)`)

	m := re.FindStringSubmatch(content)
	if m == nil {
		return 0
	}

	n, _ := strconv.Atoi(m[1])
	return n
}

func scrapeDate(content, name string) string {
	if m := dateInContent.FindStringSubmatch(content); m != nil {
		return m[1]
	}

	if m := dateInName.FindStringSubmatch(name); m != nil {
		d, t := m[1], m[2]
		return fmt.Sprintf("%s-%s-%s %s:%s:%s", d[:4], d[4:6], d[6:8], t[:2], t[2:4], t[4:6])
	}

	return "N/A"
}

// ChartData повторяет форму наборов данных Chart.js.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label string `json:"label,omitempty"`
	Data  []int  `json:"data"`
}

// LineChart строит данные графика операций по дням за последние days дней.
func (s *Store) LineChart(days int) (*ChartData, error) {
	stats, err := s.CollectStats()
	if err != nil {
		return nil, err
	}

	today := s.now()
	labels := make([]string, 0, days)
	data := make([]int, 0, days)

	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		labels = append(labels, day.Format("02/01"))
		data = append(data, stats.ByDay[day.Format("20060102")])
	}

	return &ChartData{
		Labels:   labels,
		Datasets: []Dataset{{Label: "Operaciones", Data: data}},
	}, nil
}

// BarChart строит данные графика операций по типам.
func (s *Store) BarChart() (*ChartData, error) {
	stats, err := s.CollectStats()
	if err != nil {
		return nil, err
	}

	names := map[string]string{
		string(domain.OpCreateStudents):  "Crear",
		string(domain.OpUpdateStudents):  "Actualizar",
		string(domain.OpDeleteStudents):  "Eliminar",
		string(domain.OpReassignCourses): "Traslados",
		string(domain.OpLinkCourses):     "Vincular",
		string(domain.OpCloneTeams):      "Equipos",
		string(domain.OpPurgeTeams):      "Vaciados",
		string(domain.OpDeleteTeams):     "Borrados",
	}

	// Устойчивый порядок колонок
	order := []string{
		string(domain.OpCreateStudents),
		string(domain.OpUpdateStudents),
		string(domain.OpDeleteStudents),
		string(domain.OpReassignCourses),
		string(domain.OpLinkCourses),
		string(domain.OpCloneTeams),
		string(domain.OpPurgeTeams),
		string(domain.OpDeleteTeams),
	}

	chart := &ChartData{Datasets: []Dataset{{Label: "Cantidad"}}}

	for _, op := range order {
		count, ok := stats.ByOperation[op]
		if !ok {
			continue
		}
		chart.Labels = append(chart.Labels, names[op])
		chart.Datasets[0].Data = append(chart.Datasets[0].Data, count)
	}

	return chart, nil
}

// DoughnutChart строит данные диаграммы успешных и ошибочных прогонов.
func (s *Store) DoughnutChart() (*ChartData, error) {
	stats, err := s.CollectStats()
	if err != nil {
		return nil, err
	}

	succeeded := stats.TotalOperations - stats.FailedRuns

	return &ChartData{
		Labels:   []string{"Exitosas", "Con Errores"},
		Datasets: []Dataset{{Data: []int{succeeded, stats.FailedRuns}}},
	}, nil
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
