package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/xaenox/trendpulse/internal/models"
)

func TestWriteScenarios(t *testing.T) {
	scenarios := []*models.Scenario{
		{
			ID:                   1,
			Name:                 "Консервативный сценарий",
			ProjectType:          models.ProjectResidentialComplex,
			ROI:                  12.5,
			EstimatedCost:        95_000_000,
			ConstructionTime:     18,
			RiskLevel:            models.LevelLow,
			MarketDemand:         models.LevelHigh,
			RegulatoryComplexity: models.LevelMedium,
			CreatedAt:            time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		{
			ID:                   2,
			Name:                 "Умеренный сценарий",
			ProjectType:          models.ProjectDataCenter,
			ROI:                  30,
			EstimatedCost:        110_000_000,
			ConstructionTime:     30,
			RiskLevel:            models.LevelHigh,
			MarketDemand:         models.LevelLow,
			RegulatoryComplexity: models.LevelHigh,
			CreatedAt:            time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteScenarios(&buf, scenarios))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ScenarioSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, scenarioColumns, rows[0])
	assert.Equal(t, "Консервативный сценарий", rows[1][1])
	assert.Equal(t, "Жилой комплекс", rows[1][2])
	assert.Equal(t, "Низкий", rows[1][6])
	assert.Equal(t, "Дата-центр", rows[2][2])
	assert.Equal(t, "Высокий", rows[2][8])

	cost, err := f.GetCellValue(ScenarioSheet, "E2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "95000000", cost)
}

func TestWriteScenariosEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteScenarios(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ScenarioSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
