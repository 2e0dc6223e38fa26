package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xaenox/trendpulse/internal/models"
)

func TestUnitEconomics(t *testing.T) {
	ue := UnitEconomics(20, 1_000_000, 2)

	assert.Equal(t, 1_000_000.0, ue.TotalInvestment)
	assert.InDelta(t, 100_000, ue.InfrastructureCost, 1e-6)
	assert.InDelta(t, 900_000, ue.ConstructionCost, 1e-6)
	assert.InDelta(t, 50_000, ue.OperationalCost, 1e-6)
	assert.InDelta(t, 250_000, ue.RevenuePerYear, 1e-6)
	assert.Equal(t, 20.0, ue.ROIPercentage)
	assert.Equal(t, 5.0, ue.PaybackPeriod)
	assert.InDelta(t, 228_913.42, ue.NPV, 0.5)
	assert.InDelta(t, 15.1, ue.IRR, 0.05)
}

func TestUnitEconomicsCostsAddUp(t *testing.T) {
	for missing := 0; missing <= len(models.InfrastructureTypes); missing++ {
		ue := UnitEconomics(12.5, 37_500_000, missing)
		assert.InDelta(t, ue.TotalInvestment, ue.ConstructionCost+ue.InfrastructureCost, 0.01)
		assert.Greater(t, ue.ConstructionCost, 0.0)
	}
}

func TestNPV(t *testing.T) {
	assert.InDelta(t, -100, NPV(0.1, 100, 0, 10), 1e-9)
	assert.InDelta(t, 0, NPV(0, 100, 10, 10), 1e-9)
	assert.InDelta(t, 10/1.1-10, NPV(0.1, 10, 10, 1), 1e-9)
}

func TestIRR(t *testing.T) {
	// Ten yearly flows of 15% of the investment.
	irr := IRR(1000, 150, 10)
	assert.InDelta(t, 0, NPV(irr, 1000, 150, 10), 1e-4)
	assert.InDelta(t, 0.0814, irr, 1e-3)

	// Flows that never recover the investment give a negative rate.
	assert.Less(t, IRR(1000, 80, 10), 0.0)

	assert.Equal(t, 0.0, IRR(0, 100, 10))
	assert.Equal(t, 0.0, IRR(100, 0, 10))
}

func TestRecommendations(t *testing.T) {
	bare := &models.LandPlot{Area: 0.5, Infrastructure: []models.InfrastructureType{}}
	risky := &models.Scenario{
		ProjectType:          models.ProjectDataCenter,
		RiskLevel:            models.LevelHigh,
		MarketDemand:         models.LevelLow,
		RegulatoryComplexity: models.LevelHigh,
	}

	recs := Recommendations(bare, risky)
	assert.Equal(t, []string{
		"Получить технические условия на подключение электроснабжения",
		"Проверить достаточность выделенной электрической мощности для дата-центра",
		"Обеспечить подъездные пути к участку",
		"Предусмотреть подключение к сети интернет",
		"Заложить резерв бюджета не менее 15% на покрытие рисков",
		"Провести маркетинговое исследование спроса до начала строительства",
		"Заранее согласовать проект с контролирующими органами",
		"Рассмотреть компактный формат застройки с учётом площади участка",
	}, recs)

	equipped := &models.LandPlot{
		Area:              3,
		Infrastructure:    models.InfrastructureTypes,
		RoadAccess:        true,
		InternetAvailable: true,
	}
	calm := &models.Scenario{
		ProjectType:          models.ProjectResidentialComplex,
		RiskLevel:            models.LevelLow,
		MarketDemand:         models.LevelHigh,
		RegulatoryComplexity: models.LevelMedium,
	}
	assert.Empty(t, Recommendations(equipped, calm))
	assert.NotNil(t, Recommendations(equipped, calm))
}

func TestMissingInfrastructure(t *testing.T) {
	assert.Equal(t, 6, MissingInfrastructure(&models.LandPlot{}))
	assert.Equal(t, 4, MissingInfrastructure(testPlot()))
	assert.Equal(t, 0, MissingInfrastructure(&models.LandPlot{Infrastructure: models.InfrastructureTypes}))
}
