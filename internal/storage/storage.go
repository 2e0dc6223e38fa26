package storage

import (
	"context"
	"errors"
	"time"

	"github.com/xaenox/trendpulse/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// Storage is the full persistence surface. Implementations bound to a
// transaction (see WithTx) run every call inside that transaction.
type Storage interface {
	UserStorage
	LandPlotStorage
	ProjectStorage
	ScenarioStorage
	ContractorStorage
	ReportStorage
	MarketDataStorage
	SessionStorage
	StatsStorage

	// WithTx runs fn in a single transaction. It commits when fn returns nil
	// and rolls back otherwise. Nested calls reuse the outer transaction.
	WithTx(ctx context.Context, fn func(Storage) error) error
	Ping(ctx context.Context) error
	Close() error
}

type UserStorage interface {
	// CreateUser inserts u and fills its id and timestamps. Returns ErrConflict
	// when the telegram id is taken.
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	// GetOrCreateUser is idempotent on the telegram id. An existing user only has
	// updated_at touched.
	GetOrCreateUser(ctx context.Context, u *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
}

type LandPlotStorage interface {
	CreateLandPlot(ctx context.Context, p *models.LandPlot) error
	GetLandPlot(ctx context.Context, id int64) (*models.LandPlot, error)
	ListLandPlotsByUser(ctx context.Context, userID int64) ([]*models.LandPlot, error)
}

// ProjectFilter selects a page of projects ordered by id.
type ProjectFilter struct {
	UserID *int64
	Skip   int
	Limit  int
}

type ProjectStorage interface {
	CreateProject(ctx context.Context, p *models.Project) error
	GetProject(ctx context.Context, id int64) (*models.Project, error)
	ListProjects(ctx context.Context, filter ProjectFilter) ([]*models.Project, error)
	// SetProjectLandPlot links the project to a land plot.
	SetProjectLandPlot(ctx context.Context, projectID, landPlotID int64) error
}

type ScenarioStorage interface {
	CreateScenario(ctx context.Context, s *models.Scenario) error
	GetScenario(ctx context.Context, id int64) (*models.Scenario, error)
	ListScenariosByProject(ctx context.Context, projectID int64) ([]*models.Scenario, error)
	ListScenariosByUser(ctx context.Context, userID int64) ([]*models.Scenario, error)
}

type ContractorStorage interface {
	CreateContractor(ctx context.Context, c *models.Contractor) error
	GetContractor(ctx context.Context, id int64) (*models.Contractor, error)
	// ListContractors returns active contractors ordered by id.
	ListContractors(ctx context.Context, skip, limit int) ([]*models.Contractor, error)
	// ListContractorsBySpecialization returns active contractors having any of
	// the given specializations, best rated first.
	ListContractorsBySpecialization(ctx context.Context, types []models.ProjectType, limit int) ([]*models.Contractor, error)
}

type ReportStorage interface {
	CreateReport(ctx context.Context, r *models.Report) error
	GetReport(ctx context.Context, id int64) (*models.Report, error)
	ListReportsByScenario(ctx context.Context, scenarioID int64) ([]*models.Report, error)
}

type MarketDataStorage interface {
	// UpsertMarketData replaces the figures for (region, project type).
	UpsertMarketData(ctx context.Context, m *models.MarketData) error
	GetMarketData(ctx context.Context, region string, projectType models.ProjectType) (*models.MarketData, error)
	ListMarketData(ctx context.Context, region string) ([]*models.MarketData, error)
}

// SessionUpdate carries the chat session fields to replace; nil fields are left as stored.
type SessionUpdate struct {
	State *string
	Data  map[string]any
}

type SessionStorage interface {
	GetSession(ctx context.Context, telegramID int64) (*models.ChatSession, error)
	UpsertSession(ctx context.Context, telegramID int64, upd SessionUpdate) (*models.ChatSession, error)
	// DeleteSession reports whether a session existed.
	DeleteSession(ctx context.Context, telegramID int64) (bool, error)
}

type StatsStorage interface {
	ScenarioStats(ctx context.Context) (*models.ScenarioStats, error)
	UserStats(ctx context.Context, activeSince time.Time) (*models.UserStats, error)
	CountActiveContractors(ctx context.Context) (int, error)
	CountReports(ctx context.Context) (int, error)
}
