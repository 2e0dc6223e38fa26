package models

type Role string

const (
	RoleInvestor   Role = "investor"
	RoleDeveloper  Role = "developer"
	RoleContractor Role = "contractor"
)

type ZoneType string

const (
	ZoneResidential  ZoneType = "residential"
	ZoneCommercial   ZoneType = "commercial"
	ZoneIndustrial   ZoneType = "industrial"
	ZoneAgricultural ZoneType = "agricultural"
	ZoneMixed        ZoneType = "mixed"
)

var ZoneTypes = []ZoneType{ZoneResidential, ZoneCommercial, ZoneIndustrial, ZoneAgricultural, ZoneMixed}

type InfrastructureType string

const (
	InfraElectricity InfrastructureType = "electricity"
	InfraGas         InfrastructureType = "gas"
	InfraWater       InfrastructureType = "water"
	InfraSewerage    InfrastructureType = "sewerage"
	InfraRoad        InfrastructureType = "road"
	InfraInternet    InfrastructureType = "internet"
)

var InfrastructureTypes = []InfrastructureType{
	InfraElectricity, InfraGas, InfraWater, InfraSewerage, InfraRoad, InfraInternet,
}

type ProjectType string

const (
	ProjectResidentialComplex     ProjectType = "residential_complex"
	ProjectShoppingCenter         ProjectType = "shopping_center"
	ProjectOfficeComplex          ProjectType = "office_complex"
	ProjectIndustrialPark         ProjectType = "industrial_park"
	ProjectDataCenter             ProjectType = "data_center"
	ProjectAgriculturalProcessing ProjectType = "agricultural_processing"
	ProjectLogisticsCenter        ProjectType = "logistics_center"
	ProjectMixedDevelopment       ProjectType = "mixed_development"
)

var ProjectTypes = []ProjectType{
	ProjectResidentialComplex, ProjectShoppingCenter, ProjectOfficeComplex, ProjectIndustrialPark,
	ProjectDataCenter, ProjectAgriculturalProcessing, ProjectLogisticsCenter, ProjectMixedDevelopment,
}

// ProjectTypeForZone picks the default project type for a zoning class.
func ProjectTypeForZone(zone ZoneType) ProjectType {
	switch zone {
	case ZoneResidential:
		return ProjectResidentialComplex
	case ZoneCommercial:
		return ProjectShoppingCenter
	case ZoneIndustrial:
		return ProjectIndustrialPark
	case ZoneAgricultural:
		return ProjectAgriculturalProcessing
	default:
		return ProjectMixedDevelopment
	}
}

// ZoneForProjectType is the zoning class a project type is normally built on.
func ZoneForProjectType(pt ProjectType) ZoneType {
	switch pt {
	case ProjectResidentialComplex:
		return ZoneResidential
	case ProjectShoppingCenter, ProjectOfficeComplex:
		return ZoneCommercial
	case ProjectIndustrialPark, ProjectDataCenter, ProjectLogisticsCenter:
		return ZoneIndustrial
	case ProjectAgriculturalProcessing:
		return ZoneAgricultural
	default:
		return ZoneMixed
	}
}

type ProjectStatus string

const (
	StatusDraft     ProjectStatus = "draft"
	StatusActive    ProjectStatus = "active"
	StatusCompleted ProjectStatus = "completed"
)

// Level is the low/medium/high scale used for risk, demand and regulatory complexity.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

var Levels = []Level{LevelLow, LevelMedium, LevelHigh}

func (l Level) Valid() bool {
	return l == LevelLow || l == LevelMedium || l == LevelHigh
}

type PriceRange string

const (
	PriceLow     PriceRange = "low"
	PriceMedium  PriceRange = "medium"
	PriceHigh    PriceRange = "high"
	PricePremium PriceRange = "premium"
)

type ReportType string

const (
	ReportPreFeasibility ReportType = "pre_feasibility"
	ReportInvestmentMemo ReportType = "investment_memo"
)

func (t ReportType) Valid() bool {
	return t == ReportPreFeasibility || t == ReportInvestmentMemo
}
