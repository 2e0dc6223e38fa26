package scenario

import "github.com/xaenox/trendpulse/internal/models"

// smallPlotHectares is the area below which compact development is advised.
const smallPlotHectares = 1.0

// Recommendations returns advice for a drawn scenario on the given plot.
// The order is stable so reports render identically for equal input.
func Recommendations(plot *models.LandPlot, s *models.Scenario) []string {
	recs := []string{}

	if !plot.HasInfrastructure(models.InfraElectricity) {
		recs = append(recs, "Получить технические условия на подключение электроснабжения")
	}
	if s.ProjectType == models.ProjectDataCenter && (plot.ElectricityPower == nil || *plot.ElectricityPower < 5) {
		recs = append(recs, "Проверить достаточность выделенной электрической мощности для дата-центра")
	}
	if !plot.HasInfrastructure(models.InfraWater) && s.ProjectType == models.ProjectResidentialComplex {
		recs = append(recs, "Предусмотреть подключение к централизованному водоснабжению")
	}
	if !plot.RoadAccess && !plot.HasInfrastructure(models.InfraRoad) {
		recs = append(recs, "Обеспечить подъездные пути к участку")
	}
	if !plot.InternetAvailable && !plot.HasInfrastructure(models.InfraInternet) {
		recs = append(recs, "Предусмотреть подключение к сети интернет")
	}
	if s.RiskLevel == models.LevelHigh {
		recs = append(recs, "Заложить резерв бюджета не менее 15% на покрытие рисков")
	}
	if s.MarketDemand == models.LevelLow {
		recs = append(recs, "Провести маркетинговое исследование спроса до начала строительства")
	}
	if s.RegulatoryComplexity == models.LevelHigh {
		recs = append(recs, "Заранее согласовать проект с контролирующими органами")
	}
	if plot.Area < smallPlotHectares {
		recs = append(recs, "Рассмотреть компактный формат застройки с учётом площади участка")
	}
	return recs
}

// MissingInfrastructure counts utilities the plot does not list.
func MissingInfrastructure(plot *models.LandPlot) int {
	missing := 0
	for _, infra := range models.InfrastructureTypes {
		if !plot.HasInfrastructure(infra) {
			missing++
		}
	}
	return missing
}
