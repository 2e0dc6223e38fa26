// Package scenario draws development scenarios for a project and its land plot.
package scenario

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/xaenox/trendpulse/internal/apperr"
	"github.com/xaenox/trendpulse/internal/models"
)

const (
	DefaultCount = 3
	// MaxContractors caps how many matched contractors a scenario references.
	MaxContractors = 5

	minROI, maxROI               = 8.0, 35.0
	minCostFactor, maxCostFactor = 0.8, 1.2
	minFallbackCost              = 1_000_000.0
	maxFallbackCost              = 50_000_000.0
	minMonths, maxMonths         = 12, 36

	defaultPlotHectares = 1.0
)

// Names are the scenario templates in generation order. A batch of n uses the first n.
var Names = []string{
	"Консервативный сценарий",
	"Умеренный сценарий",
	"Агрессивный сценарий",
	"Инновационный сценарий",
	"Экологичный сценарий",
}

// MaxCount is the largest batch a single call can produce.
func MaxCount() int { return len(Names) }

// ValidateCount rejects batch sizes outside 1..MaxCount.
func ValidateCount(count int) error {
	if count < 1 || count > MaxCount() {
		return apperr.Validation("count must be between 1 and %d", MaxCount())
	}
	return nil
}

// Generator draws scenarios. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a generator over src. A nil src is seeded from the clock.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Generator{rng: rand.New(src)}
}

// Generate draws count scenarios for project on plot. Every scenario carries
// the same matched contractor ids. Records are returned unsaved.
func (g *Generator) Generate(project *models.Project, plot *models.LandPlot, contractorIDs []int64, count int) ([]*models.Scenario, error) {
	if err := ValidateCount(count); err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project is required")
	}
	if plot == nil {
		return nil, fmt.Errorf("land plot is required")
	}

	missing := MissingInfrastructure(plot)

	g.mu.Lock()
	defer g.mu.Unlock()

	scenarios := make([]*models.Scenario, 0, count)
	for i := 0; i < count; i++ {
		roi := roundTo(g.uniform(minROI, maxROI), 1)

		var cost float64
		if project.Budget != nil && *project.Budget > 0 {
			cost = *project.Budget * g.uniform(minCostFactor, maxCostFactor)
		} else {
			cost = g.uniform(minFallbackCost, maxFallbackCost)
		}
		cost = math.Round(cost)

		s := &models.Scenario{
			Name:                 Names[i],
			Description:          "Автоматически сгенерированный сценарий для проекта " + project.Name,
			ROI:                  roi,
			EstimatedCost:        cost,
			ConstructionTime:     minMonths + g.rng.Intn(maxMonths-minMonths+1),
			RiskLevel:            g.level(),
			MarketDemand:         g.level(),
			RegulatoryComplexity: g.level(),
		}
		complete(s, project, plot, contractorIDs, missing)

		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// Manual is a scenario entered by hand instead of drawn.
type Manual struct {
	Name                 string
	Description          string
	ROI                  float64
	EstimatedCost        float64
	ConstructionTime     int
	RiskLevel            models.Level
	MarketDemand         models.Level
	RegulatoryComplexity models.Level
}

// Build turns m into a scenario of project on plot with the unit economics and
// recommendations a drawn scenario gets. Unset levels default to medium.
func Build(project *models.Project, plot *models.LandPlot, contractorIDs []int64, m Manual) (*models.Scenario, error) {
	if project == nil {
		return nil, fmt.Errorf("project is required")
	}
	if plot == nil {
		return nil, fmt.Errorf("land plot is required")
	}
	if strings.TrimSpace(m.Name) == "" {
		return nil, apperr.Validation("name is required")
	}
	if m.ROI <= 0 {
		return nil, apperr.Validation("roi must be positive")
	}
	if m.EstimatedCost <= 0 {
		return nil, apperr.Validation("estimated_cost must be positive")
	}
	if m.ConstructionTime < 1 {
		return nil, apperr.Validation("construction_time must be at least 1 month")
	}

	for _, l := range []models.Level{m.RiskLevel, m.MarketDemand, m.RegulatoryComplexity} {
		if l != "" && !l.Valid() {
			return nil, apperr.Validation("level must be one of low, medium, high")
		}
	}

	s := &models.Scenario{
		Name:                 m.Name,
		Description:          m.Description,
		ROI:                  roundTo(m.ROI, 1),
		EstimatedCost:        math.Round(m.EstimatedCost),
		ConstructionTime:     m.ConstructionTime,
		RiskLevel:            levelOrMedium(m.RiskLevel),
		MarketDemand:         levelOrMedium(m.MarketDemand),
		RegulatoryComplexity: levelOrMedium(m.RegulatoryComplexity),
	}
	complete(s, project, plot, contractorIDs, MissingInfrastructure(plot))
	return s, nil
}

func levelOrMedium(l models.Level) models.Level {
	if l == "" {
		return models.LevelMedium
	}
	return l
}

// complete fills the ownership fields and the derived blocks of s.
func complete(s *models.Scenario, project *models.Project, plot *models.LandPlot, contractorIDs []int64, missing int) {
	s.UserID = project.UserID
	s.ProjectID = project.ID
	s.LandPlotID = plot.ID
	s.ProjectType = project.ProjectType
	s.SuitableContractors = append([]int64{}, contractorIDs...)
	s.UnitEconomics = UnitEconomics(s.ROI, s.EstimatedCost, missing)
	s.Recommendations = Recommendations(plot, s)
}

// uniform draws from [lo, hi].
func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *Generator) level() models.Level {
	return models.Levels[g.rng.Intn(len(models.Levels))]
}

// DeriveLandPlot builds the plot a project without one is generated against:
// the project area converted to hectares and the zone its type is built on.
func DeriveLandPlot(project *models.Project) *models.LandPlot {
	area := defaultPlotHectares
	if project.Area != nil && *project.Area > 0 {
		area = *project.Area / 10000
	}
	return &models.LandPlot{
		UserID:         project.UserID,
		Area:           area,
		ZoneType:       models.ZoneForProjectType(project.ProjectType),
		Infrastructure: []models.InfrastructureType{},
		RoadAccess:     true,
		Location:       project.Location,
	}
}
