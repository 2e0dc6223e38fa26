package models

import "time"

// User represents a person known by their Telegram id.
type User struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   *string   `json:"username"`
	FirstName  *string   `json:"first_name"`
	LastName   *string   `json:"last_name"`
	Phone      *string   `json:"phone"`
	Email      *string   `json:"email"`
	Role       Role      `json:"role"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LandPlot is the parcel scenarios are generated against. Area is in hectares.
type LandPlot struct {
	ID                int64                `json:"id"`
	UserID            int64                `json:"user_id"`
	Area              float64              `json:"area"`
	ZoneType          ZoneType             `json:"zone_type"`
	Infrastructure    []InfrastructureType `json:"infrastructure"`
	ElectricityPower  *float64             `json:"electricity_power"`
	GasPressure       *float64             `json:"gas_pressure"`
	WaterFlow         *float64             `json:"water_flow"`
	RoadAccess        bool                 `json:"road_access"`
	InternetAvailable bool                 `json:"internet_available"`
	Location          *string              `json:"location"`
	CreatedAt         time.Time            `json:"created_at"`
}

// HasInfrastructure reports whether the plot lists the given utility.
func (p *LandPlot) HasInfrastructure(infra InfrastructureType) bool {
	for _, i := range p.Infrastructure {
		if i == infra {
			return true
		}
	}
	return false
}

// Project is a development project owned by a user. Area is in square metres.
type Project struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"user_id"`
	LandPlotID  *int64        `json:"land_plot_id"`
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	ProjectType ProjectType   `json:"project_type"`
	Location    *string       `json:"location"`
	Budget      *float64      `json:"budget"`
	Area        *float64      `json:"area"`
	Status      ProjectStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type UnitEconomics struct {
	TotalInvestment    float64 `json:"total_investment"`
	ConstructionCost   float64 `json:"construction_cost"`
	InfrastructureCost float64 `json:"infrastructure_cost"`
	OperationalCost    float64 `json:"operational_cost"`
	RevenuePerYear     float64 `json:"revenue_per_year"`
	ROIPercentage      float64 `json:"roi_percentage"`
	PaybackPeriod      float64 `json:"payback_period"`
	NPV                float64 `json:"npv"`
	IRR                float64 `json:"irr"`
}

// Scenario is one generated development plan. ConstructionTime is in months.
type Scenario struct {
	ID                   int64         `json:"id"`
	UserID               int64         `json:"user_id"`
	ProjectID            int64         `json:"project_id"`
	LandPlotID           int64         `json:"land_plot_id"`
	Name                 string        `json:"name"`
	ProjectType          ProjectType   `json:"project_type"`
	Description          string        `json:"description"`
	ROI                  float64       `json:"roi"`
	EstimatedCost        float64       `json:"estimated_cost"`
	ConstructionTime     int           `json:"construction_time"`
	RiskLevel            Level         `json:"risk_level"`
	MarketDemand         Level         `json:"market_demand"`
	RegulatoryComplexity Level         `json:"regulatory_complexity"`
	UnitEconomics        UnitEconomics `json:"unit_economics"`
	Recommendations      []string      `json:"recommendations"`
	SuitableContractors  []int64       `json:"suitable_contractors"`
	CreatedAt            time.Time     `json:"created_at"`
}

type Contractor struct {
	ID                int64         `json:"id"`
	Name              string        `json:"name"`
	Specializations   []ProjectType `json:"specializations"`
	Rating            float64       `json:"rating"`
	ExperienceYears   int           `json:"experience_years"`
	CompletedProjects int           `json:"completed_projects"`
	PriceRange        PriceRange    `json:"price_range"`
	ContactPhone      *string       `json:"contact_phone"`
	ContactEmail      *string       `json:"contact_email"`
	Website           *string       `json:"website"`
	Location          *string       `json:"location"`
	Portfolio         []string      `json:"portfolio"`
	IsActive          bool          `json:"is_active"`
	CreatedAt         time.Time     `json:"created_at"`
}

// Report points at a rendered artifact of a scenario.
type Report struct {
	ID          int64      `json:"id"`
	ScenarioID  int64      `json:"scenario_id"`
	ReportType  ReportType `json:"report_type"`
	FilePath    string     `json:"file_path"`
	FileSize    int64      `json:"file_size"`
	GeneratedAt time.Time  `json:"generated_at"`
}

type MarketData struct {
	ID                     int64       `json:"id"`
	Region                 string      `json:"region"`
	ProjectType            ProjectType `json:"project_type"`
	ConstructionCostPerSqm float64     `json:"construction_cost_per_sqm"`
	RentalRatePerSqm       float64     `json:"rental_rate_per_sqm"`
	VacancyRate            float64     `json:"vacancy_rate"`
	MarketDemandScore      float64     `json:"market_demand_score"`
	UpdatedAt              time.Time   `json:"updated_at"`
}

// ChatSession is the persisted state of one user's chat form.
type ChatSession struct {
	TelegramID int64          `json:"telegram_id"`
	State      string         `json:"state"`
	Data       map[string]any `json:"data"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
