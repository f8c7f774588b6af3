package usecase

import (
	"strings"

	"github.com/google/uuid"

	"m365-admin-service/internal/domain"
)

// Чистые функции планирования: вычисление нужных шагов отделено от их
// выполнения, поэтому логика переводов проверяется без сети.

// extractCourseLabel извлекает метку курса из имени группы вида
// "<prefix> - <label>". Второй результат false, если имя не подходит.
func extractCourseLabel(groupName, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(groupName, prefix+" - ")
	if !ok {
		return "", false
	}

	label := strings.TrimSpace(rest)
	if label == "" {
		return "", false
	}

	return label, true
}

// courseMovePlan вычисляет план перевода студента на курс target:
// какие группы курсов нужно покинуть и нужно ли вступать в целевую.
// Группы вне префикса курсов план не трогает.
func courseMovePlan(current []domain.Group, prefix, target string) (toRemove []domain.Group, needAdd bool) {
	needAdd = true

	for _, g := range current {
		label, ok := extractCourseLabel(g.DisplayName, prefix)
		if !ok {
			continue
		}

		if strings.EqualFold(label, target) {
			needAdd = false
			continue
		}

		toRemove = append(toRemove, g)
	}

	return toRemove, needAdd
}

// partitionByCourse группирует привязки по метке курса, сохраняя
// порядок записей внутри каждого курса.
func partitionByCourse(links []domain.CourseLink) map[string][]string {
	partition := make(map[string][]string)

	for _, link := range links {
		course := strings.TrimSpace(link.Course)
		partition[course] = append(partition[course], link.StudentID)
	}

	return partition
}

// isGroupID сообщает, является ли значение литеральным GUID группы.
// GUID проходит без поиска по каталогу, все остальное разрешается
// по имени или почте.
func isGroupID(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 36 || strings.Count(s, "-") != 4 {
		return false
	}

	_, err := uuid.Parse(s)
	return err == nil
}

// validOwner проверяет, что значение владельца из файла пригодно
// для разрешения: непустое и похоже на UPN или почту.
func validOwner(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && strings.Contains(s, "@")
}
