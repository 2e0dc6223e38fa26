package scenario

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaenox/trendpulse/internal/apperr"
	"github.com/xaenox/trendpulse/internal/models"
)

func testProject(budget *float64) *models.Project {
	return &models.Project{
		ID:          7,
		UserID:      3,
		Name:        "X",
		ProjectType: models.ProjectResidentialComplex,
		Budget:      budget,
	}
}

func testPlot() *models.LandPlot {
	return &models.LandPlot{
		ID:             11,
		UserID:         3,
		Area:           2,
		ZoneType:       models.ZoneResidential,
		Infrastructure: []models.InfrastructureType{models.InfraElectricity, models.InfraWater},
		RoadAccess:     true,
	}
}

func TestGenerateBounds(t *testing.T) {
	g := NewGenerator(rand.NewSource(42))
	budget := 100_000_000.0

	for i := 0; i < 200; i++ {
		scenarios, err := g.Generate(testProject(&budget), testPlot(), []int64{4, 2}, 3)
		require.NoError(t, err)
		require.Len(t, scenarios, 3)

		for j, s := range scenarios {
			assert.Equal(t, Names[j], s.Name)
			assert.Equal(t, int64(7), s.ProjectID)
			assert.Equal(t, int64(11), s.LandPlotID)
			assert.Equal(t, int64(3), s.UserID)
			assert.Equal(t, "Автоматически сгенерированный сценарий для проекта X", s.Description)

			assert.GreaterOrEqual(t, s.ROI, 8.0)
			assert.LessOrEqual(t, s.ROI, 35.0)
			assert.InDelta(t, s.ROI, roundTo(s.ROI, 1), 1e-9)

			assert.GreaterOrEqual(t, s.EstimatedCost, 80_000_000.0)
			assert.LessOrEqual(t, s.EstimatedCost, 120_000_000.0)

			assert.GreaterOrEqual(t, s.ConstructionTime, 12)
			assert.LessOrEqual(t, s.ConstructionTime, 36)

			assert.Contains(t, models.Levels, s.RiskLevel)
			assert.Contains(t, models.Levels, s.MarketDemand)
			assert.Contains(t, models.Levels, s.RegulatoryComplexity)

			assert.Equal(t, []int64{4, 2}, s.SuitableContractors)
			assert.Equal(t, s.EstimatedCost, s.UnitEconomics.TotalInvestment)
			assert.Equal(t, s.ROI, s.UnitEconomics.ROIPercentage)
		}
	}
}

func TestGenerateWithoutBudget(t *testing.T) {
	g := NewGenerator(rand.NewSource(1))

	for i := 0; i < 100; i++ {
		scenarios, err := g.Generate(testProject(nil), testPlot(), nil, 5)
		require.NoError(t, err)
		require.Len(t, scenarios, 5)
		for _, s := range scenarios {
			assert.GreaterOrEqual(t, s.EstimatedCost, 1_000_000.0)
			assert.LessOrEqual(t, s.EstimatedCost, 50_000_000.0)
			assert.NotNil(t, s.SuitableContractors)
			assert.Empty(t, s.SuitableContractors)
		}
	}
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	budget := 5e7
	a, err := NewGenerator(rand.NewSource(99)).Generate(testProject(&budget), testPlot(), nil, 3)
	require.NoError(t, err)
	b, err := NewGenerator(rand.NewSource(99)).Generate(testProject(&budget), testPlot(), nil, 3)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateCount(t *testing.T) {
	g := NewGenerator(rand.NewSource(5))

	for _, count := range []int{0, -1, 6, 100} {
		_, err := g.Generate(testProject(nil), testPlot(), nil, count)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindValidation), "count %d", count)
	}

	for count := 1; count <= MaxCount(); count++ {
		scenarios, err := g.Generate(testProject(nil), testPlot(), nil, count)
		require.NoError(t, err)
		assert.Len(t, scenarios, count)
	}
}

func TestGenerateContractorSlicesAreIndependent(t *testing.T) {
	g := NewGenerator(rand.NewSource(5))
	ids := []int64{1, 2}

	scenarios, err := g.Generate(testProject(nil), testPlot(), ids, 2)
	require.NoError(t, err)

	scenarios[0].SuitableContractors[0] = 100
	assert.Equal(t, int64(1), scenarios[1].SuitableContractors[0])
	assert.Equal(t, int64(1), ids[0])
}

func TestDeriveLandPlot(t *testing.T) {
	area := 5000.0
	location := "Тверь"
	p := &models.Project{UserID: 9, ProjectType: models.ProjectLogisticsCenter, Area: &area, Location: &location}

	plot := DeriveLandPlot(p)
	assert.Equal(t, int64(9), plot.UserID)
	assert.InDelta(t, 0.5, plot.Area, 1e-9)
	assert.Equal(t, models.ZoneIndustrial, plot.ZoneType)
	assert.Empty(t, plot.Infrastructure)
	assert.True(t, plot.RoadAccess)
	assert.Equal(t, "Тверь", *plot.Location)

	noArea := DeriveLandPlot(&models.Project{ProjectType: models.ProjectMixedDevelopment})
	assert.Equal(t, 1.0, noArea.Area)
	assert.Equal(t, models.ZoneMixed, noArea.ZoneType)
}

func TestBuildManualScenario(t *testing.T) {
	s, err := Build(testProject(nil), testPlot(), []int64{9}, Manual{
		Name:             "Свой сценарий",
		ROI:              12.34,
		EstimatedCost:    40_000_000.4,
		ConstructionTime: 18,
		RiskLevel:        models.LevelHigh,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), s.ProjectID)
	assert.Equal(t, int64(3), s.UserID)
	assert.Equal(t, int64(11), s.LandPlotID)
	assert.Equal(t, models.ProjectResidentialComplex, s.ProjectType)
	assert.Equal(t, 12.3, s.ROI)
	assert.Equal(t, 40_000_000.0, s.EstimatedCost)
	assert.Equal(t, models.LevelHigh, s.RiskLevel)
	assert.Equal(t, models.LevelMedium, s.MarketDemand)
	assert.Equal(t, models.LevelMedium, s.RegulatoryComplexity)
	assert.Equal(t, []int64{9}, s.SuitableContractors)
	assert.Equal(t, s.EstimatedCost, s.UnitEconomics.TotalInvestment)
	assert.Equal(t, 12.3, s.UnitEconomics.ROIPercentage)
	assert.NotNil(t, s.Recommendations)
}

func TestBuildRejectsInvalidInput(t *testing.T) {
	valid := Manual{Name: "S", ROI: 10, EstimatedCost: 1e6, ConstructionTime: 12}

	tests := []struct {
		name   string
		modify func(m *Manual)
	}{
		{"empty name", func(m *Manual) { m.Name = "  " }},
		{"zero roi", func(m *Manual) { m.ROI = 0 }},
		{"negative cost", func(m *Manual) { m.EstimatedCost = -1 }},
		{"zero months", func(m *Manual) { m.ConstructionTime = 0 }},
		{"unknown level", func(m *Manual) { m.MarketDemand = "extreme" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid
			tt.modify(&m)
			_, err := Build(testProject(nil), testPlot(), nil, m)
			assert.True(t, apperr.Is(err, apperr.KindValidation))
		})
	}
}
