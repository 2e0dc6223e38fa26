package models

// Human-readable Russian labels shown in reports, exports and chat messages.

var zoneLabels = map[ZoneType]string{
	ZoneResidential:  "Жилая",
	ZoneCommercial:   "Коммерческая",
	ZoneIndustrial:   "Промышленная",
	ZoneAgricultural: "Сельскохозяйственная",
	ZoneMixed:        "Смешанная",
}

var infrastructureLabels = map[InfrastructureType]string{
	InfraElectricity: "Электричество",
	InfraGas:         "Газ",
	InfraWater:       "Вода",
	InfraSewerage:    "Канализация",
	InfraRoad:        "Дороги",
	InfraInternet:    "Интернет",
}

var projectTypeLabels = map[ProjectType]string{
	ProjectResidentialComplex:     "Жилой комплекс",
	ProjectShoppingCenter:         "Торговый центр",
	ProjectOfficeComplex:          "Офисный комплекс",
	ProjectIndustrialPark:         "Индустриальный парк",
	ProjectDataCenter:             "Дата-центр",
	ProjectAgriculturalProcessing: "Агропереработка",
	ProjectLogisticsCenter:        "Логистический центр",
	ProjectMixedDevelopment:       "Смешанная застройка",
}

var levelLabels = map[Level]string{
	LevelLow:    "Низкий",
	LevelMedium: "Средний",
	LevelHigh:   "Высокий",
}

var reportTypeLabels = map[ReportType]string{
	ReportPreFeasibility: "Пред-ТЭО",
	ReportInvestmentMemo: "Инвестиционный меморандум",
}

func (z ZoneType) Label() string           { return labelOr(zoneLabels, z) }
func (i InfrastructureType) Label() string { return labelOr(infrastructureLabels, i) }
func (p ProjectType) Label() string        { return labelOr(projectTypeLabels, p) }
func (l Level) Label() string              { return labelOr(levelLabels, l) }
func (t ReportType) Label() string         { return labelOr(reportTypeLabels, t) }

func labelOr[K ~string](labels map[K]string, key K) string {
	if label, ok := labels[key]; ok {
		return label
	}
	return string(key)
}
