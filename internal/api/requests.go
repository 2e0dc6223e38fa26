package api

import (
	"github.com/xaenox/trendpulse/internal/models"
	"github.com/xaenox/trendpulse/internal/scenario"
	"github.com/xaenox/trendpulse/internal/service"
)

type UserCreateRequest struct {
	TelegramID int64        `json:"telegram_id" binding:"required"`
	Username   *string      `json:"username" binding:"omitempty,max=100"`
	FirstName  *string      `json:"first_name" binding:"omitempty,max=100"`
	LastName   *string      `json:"last_name" binding:"omitempty,max=100"`
	Phone      *string      `json:"phone" binding:"omitempty,phone"`
	Email      *string      `json:"email" binding:"omitempty,email"`
	Role       *models.Role `json:"role" binding:"omitempty,oneof=investor developer contractor"`
}

func (r *UserCreateRequest) toModel() *models.User {
	u := &models.User{
		TelegramID: r.TelegramID,
		Username:   r.Username,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Phone:      r.Phone,
		Email:      r.Email,
		Role:       models.RoleInvestor,
		IsActive:   true,
	}
	if r.Role != nil {
		u.Role = *r.Role
	}
	return u
}

type UserUpdateRequest struct {
	Username  *string      `json:"username" binding:"omitempty,max=100"`
	FirstName *string      `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string      `json:"last_name" binding:"omitempty,max=100"`
	Phone     *string      `json:"phone" binding:"omitempty,phone"`
	Email     *string      `json:"email" binding:"omitempty,email"`
	Role      *models.Role `json:"role" binding:"omitempty,oneof=investor developer contractor"`
}

func (r *UserUpdateRequest) toPatch() service.UserPatch {
	return service.UserPatch{
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Email:     r.Email,
		Role:      r.Role,
	}
}

type ProjectCreateRequest struct {
	Name        string             `json:"name" binding:"required,min=1,max=200"`
	Description *string            `json:"description"`
	ProjectType models.ProjectType `json:"project_type" binding:"required,oneof=residential_complex shopping_center office_complex industrial_park data_center agricultural_processing logistics_center mixed_development"`
	Location    *string            `json:"location" binding:"omitempty,max=200"`
	Budget      *float64           `json:"budget" binding:"omitempty,gt=0"`
	Area        *float64           `json:"area" binding:"omitempty,gt=0"`
	UserID      int64              `json:"user_id" binding:"required,gt=0"`
	LandPlotID  *int64             `json:"land_plot_id" binding:"omitempty,gt=0"`
}

func (r *ProjectCreateRequest) toModel() *models.Project {
	return &models.Project{
		UserID:      r.UserID,
		LandPlotID:  r.LandPlotID,
		Name:        r.Name,
		Description: r.Description,
		ProjectType: r.ProjectType,
		Location:    r.Location,
		Budget:      r.Budget,
		Area:        r.Area,
		Status:      models.StatusDraft,
	}
}

// LandPlotRequest describes a parcel; it is embedded in the chat generation request too.
type LandPlotRequest struct {
	Area              float64                     `json:"area" binding:"required,gt=0"`
	ZoneType          models.ZoneType             `json:"zone_type" binding:"required,oneof=residential commercial industrial agricultural mixed"`
	Infrastructure    []models.InfrastructureType `json:"infrastructure" binding:"omitempty,dive,oneof=electricity gas water sewerage road internet"`
	ElectricityPower  *float64                    `json:"electricity_power" binding:"omitempty,gte=0"`
	GasPressure       *float64                    `json:"gas_pressure" binding:"omitempty,gte=0"`
	WaterFlow         *float64                    `json:"water_flow" binding:"omitempty,gte=0"`
	RoadAccess        *bool                       `json:"road_access"`
	InternetAvailable *bool                       `json:"internet_available"`
	Location          *string                     `json:"location" binding:"omitempty,max=200"`
}

func (r *LandPlotRequest) toModel() models.LandPlot {
	p := models.LandPlot{
		Area:             r.Area,
		ZoneType:         r.ZoneType,
		Infrastructure:   r.Infrastructure,
		ElectricityPower: r.ElectricityPower,
		GasPressure:      r.GasPressure,
		WaterFlow:        r.WaterFlow,
		RoadAccess:       true,
		Location:         r.Location,
	}
	if p.Infrastructure == nil {
		p.Infrastructure = []models.InfrastructureType{}
	}
	if r.RoadAccess != nil {
		p.RoadAccess = *r.RoadAccess
	}
	if r.InternetAvailable != nil {
		p.InternetAvailable = *r.InternetAvailable
	}
	return p
}

type LandPlotCreateRequest struct {
	UserID int64 `json:"user_id" binding:"required,gt=0"`
	LandPlotRequest
}

type ContractorCreateRequest struct {
	Name              string               `json:"name" binding:"required,min=1,max=200"`
	Specializations   []models.ProjectType `json:"specializations" binding:"required,min=1,dive,oneof=residential_complex shopping_center office_complex industrial_park data_center agricultural_processing logistics_center mixed_development"`
	Rating            float64              `json:"rating" binding:"gte=0,lte=5"`
	ExperienceYears   int                  `json:"experience_years" binding:"gte=0"`
	CompletedProjects int                  `json:"completed_projects" binding:"gte=0"`
	PriceRange        *models.PriceRange   `json:"price_range" binding:"omitempty,oneof=low medium high premium"`
	ContactPhone      *string              `json:"contact_phone" binding:"omitempty,phone"`
	ContactEmail      *string              `json:"contact_email" binding:"omitempty,email"`
	Website           *string              `json:"website" binding:"omitempty,url"`
	Location          *string              `json:"location" binding:"omitempty,max=200"`
	Portfolio         []string             `json:"portfolio"`
}

func (r *ContractorCreateRequest) toModel() *models.Contractor {
	c := &models.Contractor{
		Name:              r.Name,
		Specializations:   r.Specializations,
		Rating:            r.Rating,
		ExperienceYears:   r.ExperienceYears,
		CompletedProjects: r.CompletedProjects,
		PriceRange:        models.PriceMedium,
		ContactPhone:      r.ContactPhone,
		ContactEmail:      r.ContactEmail,
		Website:           r.Website,
		Location:          r.Location,
		Portfolio:         r.Portfolio,
		IsActive:          true,
	}
	if r.PriceRange != nil {
		c.PriceRange = *r.PriceRange
	}
	return c
}

// ScenarioCreateRequest is a hand-entered scenario. construction_time is in months.
type ScenarioCreateRequest struct {
	Name                 string       `json:"name" binding:"required,min=1,max=200"`
	Description          string       `json:"description" binding:"max=2000"`
	ROI                  float64      `json:"roi" binding:"gt=0,lte=1000"`
	EstimatedCost        float64      `json:"estimated_cost" binding:"gt=0"`
	ConstructionTime     int          `json:"construction_time" binding:"gte=1,lte=600"`
	RiskLevel            models.Level `json:"risk_level" binding:"omitempty,oneof=low medium high"`
	MarketDemand         models.Level `json:"market_demand" binding:"omitempty,oneof=low medium high"`
	RegulatoryComplexity models.Level `json:"regulatory_complexity" binding:"omitempty,oneof=low medium high"`
}

func (r *ScenarioCreateRequest) toManual() scenario.Manual {
	return scenario.Manual{
		Name:                 r.Name,
		Description:          r.Description,
		ROI:                  r.ROI,
		EstimatedCost:        r.EstimatedCost,
		ConstructionTime:     r.ConstructionTime,
		RiskLevel:            r.RiskLevel,
		MarketDemand:         r.MarketDemand,
		RegulatoryComplexity: r.RegulatoryComplexity,
	}
}

// GenerateScenariosRequest is what the chat front-end posts when its form is complete.
type GenerateScenariosRequest struct {
	TelegramID       int64           `json:"telegram_id" binding:"required"`
	Username         *string         `json:"username"`
	FirstName        *string         `json:"first_name"`
	LastName         *string         `json:"last_name"`
	LandPlot         LandPlotRequest `json:"land_plot"`
	InvestmentBudget *float64        `json:"investment_budget" binding:"omitempty,gt=0"`
	Count            int             `json:"count" binding:"omitempty,min=1,max=5"`
}

func (r *GenerateScenariosRequest) toServiceRequest() service.GenerateRequest {
	return service.GenerateRequest{
		User: models.User{
			TelegramID: r.TelegramID,
			Username:   r.Username,
			FirstName:  r.FirstName,
			LastName:   r.LastName,
			Role:       models.RoleInvestor,
			IsActive:   true,
		},
		LandPlot:         r.LandPlot.toModel(),
		InvestmentBudget: r.InvestmentBudget,
		Count:            r.Count,
	}
}

type MarketDataRequest struct {
	Region                 string             `json:"region" binding:"required,min=1,max=200"`
	ProjectType            models.ProjectType `json:"project_type" binding:"required,oneof=residential_complex shopping_center office_complex industrial_park data_center agricultural_processing logistics_center mixed_development"`
	ConstructionCostPerSqm float64            `json:"construction_cost_per_sqm" binding:"gte=0"`
	RentalRatePerSqm       float64            `json:"rental_rate_per_sqm" binding:"gte=0"`
	VacancyRate            float64            `json:"vacancy_rate" binding:"gte=0,lte=100"`
	MarketDemandScore      float64            `json:"market_demand_score" binding:"gte=0,lte=10"`
}

func (r *MarketDataRequest) toModel() *models.MarketData {
	return &models.MarketData{
		Region:                 r.Region,
		ProjectType:            r.ProjectType,
		ConstructionCostPerSqm: r.ConstructionCostPerSqm,
		RentalRatePerSqm:       r.RentalRatePerSqm,
		VacancyRate:            r.VacancyRate,
		MarketDemandScore:      r.MarketDemandScore,
	}
}

type SessionRequest struct {
	State *string        `json:"state" binding:"omitempty,max=64"`
	Data  map[string]any `json:"data"`
}

// ReportResponse is returned by the PDF generation endpoint.
type ReportResponse struct {
	ReportID    int64  `json:"report_id"`
	Filename    string `json:"filename"`
	FileSize    int64  `json:"file_size"`
	DownloadURL string `json:"download_url"`
}

// ProjectReportResponse is returned by the project PDF endpoint.
type ProjectReportResponse struct {
	PDFPath  string `json:"pdf_path"`
	Filename string `json:"filename"`
	FileSize int64  `json:"file_size"`
	Message  string `json:"message"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
}
