package usecase

import (
	"fmt"
	"time"

	"m365-admin-service/internal/domain"
)

// resultBuilder накапливает итог одного прогона массовой операции.
// Счетчики инкрементируются напрямую через res, строки деталей и ошибок
// добавляются в порядке обработки записей.
type resultBuilder struct {
	res *domain.RunResult
}

func newRun(op domain.Operation) *resultBuilder {
	return &resultBuilder{
		res: &domain.RunResult{
			Operation: op,
			StartedAt: time.Now(),
		},
	}
}

// detail добавляет информационную строку о записи.
func (b *resultBuilder) detail(format string, args ...any) {
	b.res.Details = append(b.res.Details, fmt.Sprintf(format, args...))
}

// failure добавляет строку ошибки и увеличивает счетчик ошибок.
func (b *resultBuilder) failure(format string, args ...any) {
	b.res.ErrorDetails = append(b.res.ErrorDetails, fmt.Sprintf(format, args...))
	b.res.Errors++
}

// done фиксирует момент завершения и возвращает итог.
func (b *resultBuilder) done() *domain.RunResult {
	b.res.FinishedAt = time.Now()
	return b.res
}
