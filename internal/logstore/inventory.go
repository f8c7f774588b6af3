package logstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"m365-admin-service/internal/domain"
)

// WriteInventory выгружает перечень команд тенанта в .xlsx и возвращает
// путь к созданному файлу.
func (s *Store) WriteInventory(dir string, teams []domain.Group) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating results directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Equipos"

	idx, err := f.NewSheet(sheet)
	if err != nil {
		return "", fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"GroupId", "DisplayName", "Mail", "Visibility"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return "", fmt.Errorf("writing header: %w", err)
		}
	}

	for row, team := range teams {
		values := []string{team.ID, team.DisplayName, team.Mail, team.Visibility}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return "", fmt.Errorf("writing row %d: %w", row+2, err)
			}
		}
	}

	name := fmt.Sprintf("inventario_equipos_%s.xlsx", s.now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving inventory: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"file": name, "teams": len(teams)}).Info("Team inventory exported")

	return path, nil
}
