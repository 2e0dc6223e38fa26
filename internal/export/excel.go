// Package export writes scenario listings as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/xaenox/trendpulse/internal/models"
)

const (
	ScenarioSheet = "Сценарии"
	ContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var scenarioColumns = []string{
	"ID",
	"Название",
	"Тип проекта",
	"ROI, %",
	"Стоимость, ₽",
	"Срок строительства, мес.",
	"Уровень риска",
	"Рыночный спрос",
	"Регуляторная сложность",
	"NPV, ₽",
	"IRR, %",
	"Окупаемость, лет",
	"Создан",
}

var columnWidths = []float64{8, 28, 24, 10, 18, 14, 14, 14, 14, 18, 10, 12, 18}

// WriteScenarios writes one row per scenario with a styled, frozen header.
func WriteScenarios(w io.Writer, scenarios []*models.Scenario) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ScenarioSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2C3E50"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	moneyFmt := "#,##0"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return fmt.Errorf("failed to create money style: %w", err)
	}
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 22})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}

	header := make([]any, len(scenarioColumns))
	for i, col := range scenarioColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(ScenarioSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	last, _ := excelize.ColumnNumberToName(len(scenarioColumns))
	if err := f.SetCellStyle(ScenarioSheet, "A1", last+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, s := range scenarios {
		row := []any{
			s.ID,
			s.Name,
			s.ProjectType.Label(),
			s.ROI,
			s.EstimatedCost,
			s.ConstructionTime,
			s.RiskLevel.Label(),
			s.MarketDemand.Label(),
			s.RegulatoryComplexity.Label(),
			s.UnitEconomics.NPV,
			s.UnitEconomics.IRR,
			s.UnitEconomics.PaybackPeriod,
			s.CreatedAt,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(ScenarioSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write scenario %d: %w", s.ID, err)
		}
	}

	if n := len(scenarios); n > 0 {
		lastRow := n + 1
		for _, col := range []string{"E", "J"} {
			if err := f.SetCellStyle(ScenarioSheet, fmt.Sprintf("%s2", col), fmt.Sprintf("%s%d", col, lastRow), moneyStyle); err != nil {
				return fmt.Errorf("failed to style column %s: %w", col, err)
			}
		}
		if err := f.SetCellStyle(ScenarioSheet, "M2", fmt.Sprintf("M%d", lastRow), dateStyle); err != nil {
			return fmt.Errorf("failed to style dates: %w", err)
		}
		if err := f.AutoFilter(ScenarioSheet, fmt.Sprintf("A1:%s%d", last, lastRow), nil); err != nil {
			return fmt.Errorf("failed to add filter: %w", err)
		}
	}

	for i, width := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(ScenarioSheet, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	if err := f.SetPanes(ScenarioSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	return f.Write(w)
}
