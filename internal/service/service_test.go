package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xaenox/trendpulse/internal/apperr"
	"github.com/xaenox/trendpulse/internal/models"
	"github.com/xaenox/trendpulse/internal/report"
	"github.com/xaenox/trendpulse/internal/scenario"
	"github.com/xaenox/trendpulse/internal/storage"
)

func newTestService(t *testing.T) (*Service, *storage.SQLStorage) {
	t.Helper()
	store, err := storage.NewMemoryStorage(context.Background(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	artifacts, err := report.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	renderer, err := report.NewRenderer(artifacts, "", zap.NewNop())
	require.NoError(t, err)

	svc := New(store, scenario.NewGenerator(rand.NewSource(7)), renderer, artifacts, zap.NewNop())
	return svc, store
}

func ptr[T any](v T) *T { return &v }

func mustUser(t *testing.T, svc *Service, telegramID int64) *models.User {
	t.Helper()
	u, err := svc.CreateUser(context.Background(), &models.User{TelegramID: telegramID, IsActive: true})
	require.NoError(t, err)
	return u
}

func mustProject(t *testing.T, svc *Service, userID int64, budget *float64) *models.Project {
	t.Helper()
	p, err := svc.CreateProject(context.Background(), &models.Project{
		UserID:      userID,
		Name:        "X",
		ProjectType: models.ProjectResidentialComplex,
		Budget:      budget,
		Area:        ptr(5000.0),
	})
	require.NoError(t, err)
	return p
}

func TestCreateUserConflict(t *testing.T) {
	svc, _ := newTestService(t)
	mustUser(t, svc, 10)

	_, err := svc.CreateUser(context.Background(), &models.User{TelegramID: 10})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.GetUser(context.Background(), 11)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdateUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustUser(t, svc, 10)

	u, err := svc.UpdateUser(ctx, 10, UserPatch{Phone: ptr("+79991234567"), Role: ptr(models.RoleDeveloper)})
	require.NoError(t, err)
	assert.Equal(t, "+79991234567", *u.Phone)
	assert.Equal(t, models.RoleDeveloper, u.Role)
	assert.Nil(t, u.Email)

	_, err = svc.UpdateUser(ctx, 99, UserPatch{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCreateProjectRequiresUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateProject(context.Background(), &models.Project{UserID: 404, Name: "X", ProjectType: models.ProjectDataCenter})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	u := mustUser(t, svc, 1)
	_, err = svc.CreateProject(context.Background(), &models.Project{UserID: u.ID, LandPlotID: ptr(int64(77)), Name: "X", ProjectType: models.ProjectDataCenter})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestListProjectsValidatesPage(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ListProjects(context.Background(), Page{Skip: -1, Limit: 10}, nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.ListProjects(context.Background(), Page{Skip: 0, Limit: 0}, nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	projects, err := svc.ListProjects(context.Background(), Page{Limit: DefaultLimit}, nil)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestGenerateScenarios(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := mustUser(t, svc, 1)
	p := mustProject(t, svc, u.ID, ptr(100_000_000.0))

	best, err := svc.CreateContractor(ctx, &models.Contractor{
		Name: "ООО Лидер", Specializations: []models.ProjectType{models.ProjectResidentialComplex}, Rating: 4.9, IsActive: true,
	})
	require.NoError(t, err)
	other, err := svc.CreateContractor(ctx, &models.Contractor{
		Name: "ООО Второй", Specializations: []models.ProjectType{models.ProjectResidentialComplex}, Rating: 4.1, IsActive: true,
	})
	require.NoError(t, err)
	_, err = svc.CreateContractor(ctx, &models.Contractor{
		Name: "ООО Склад", Specializations: []models.ProjectType{models.ProjectLogisticsCenter}, Rating: 5, IsActive: true,
	})
	require.NoError(t, err)

	scenarios, err := svc.GenerateScenarios(ctx, p.ID, 3)
	require.NoError(t, err)
	require.Len(t, scenarios, 3)

	ids := map[int64]bool{}
	for _, s := range scenarios {
		assert.NotZero(t, s.ID)
		assert.False(t, ids[s.ID])
		ids[s.ID] = true
		assert.False(t, s.CreatedAt.IsZero())
		assert.Equal(t, p.ID, s.ProjectID)
		assert.NotZero(t, s.LandPlotID)
		assert.GreaterOrEqual(t, s.EstimatedCost, 80_000_000.0)
		assert.LessOrEqual(t, s.EstimatedCost, 120_000_000.0)
		assert.Equal(t, []int64{best.ID, other.ID}, s.SuitableContractors)
	}

	plot, err := svc.GetLandPlot(ctx, scenarios[0].LandPlotID)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, plot.Area, 1e-9)
	assert.Equal(t, models.ZoneResidential, plot.ZoneType)

	stored, err := svc.ListProjectScenarios(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestDerivedLandPlotIsReused(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := mustUser(t, svc, 1)
	p := mustProject(t, svc, u.ID, ptr(100_000_000.0))
	require.Nil(t, p.LandPlotID)

	var plotIDs []int64
	for i := 0; i < 3; i++ {
		scenarios, err := svc.GenerateScenarios(ctx, p.ID, 1)
		require.NoError(t, err)
		require.Len(t, scenarios, 1)
		plotIDs = append(plotIDs, scenarios[0].LandPlotID)
	}
	assert.Equal(t, []int64{plotIDs[0], plotIDs[0], plotIDs[0]}, plotIDs)

	project, err := svc.GetProject(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, project.LandPlotID)
	assert.Equal(t, plotIDs[0], *project.LandPlotID)

	plots, err := svc.ListUserLandPlots(ctx, u.TelegramID)
	require.NoError(t, err)
	assert.Len(t, plots, 1)
}

func TestGenerateScenariosErrors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GenerateScenarios(ctx, 999, 3)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	u := mustUser(t, svc, 1)
	p := mustProject(t, svc, u.ID, nil)

	_, err = svc.GenerateScenarios(ctx, p.ID, 6)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.GenerateScenarios(ctx, p.ID, 0)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	stored, err := svc.ListProjectScenarios(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)

	_, err = svc.ListProjectScenarios(ctx, 999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestGenerateFromLandPlot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	req := GenerateRequest{
		User: models.User{TelegramID: 555, FirstName: ptr("Иван")},
		LandPlot: models.LandPlot{
			Area:           1.5,
			ZoneType:       models.ZoneCommercial,
			Infrastructure: []models.InfrastructureType{models.InfraGas, models.InfraGas, models.InfraWater},
			RoadAccess:     true,
		},
		InvestmentBudget: ptr(20_000_000.0),
	}

	scenarios, err := svc.GenerateFromLandPlot(ctx, req)
	require.NoError(t, err)
	require.Len(t, scenarios, scenario.DefaultCount)

	project, err := svc.GetProject(ctx, scenarios[0].ProjectID)
	require.NoError(t, err)
	assert.Equal(t, "Участок 1.5 га", project.Name)
	assert.Equal(t, models.ProjectShoppingCenter, project.ProjectType)
	assert.InDelta(t, 15000, *project.Area, 1e-9)
	assert.Equal(t, 20_000_000.0, *project.Budget)

	plot, err := svc.GetLandPlot(ctx, scenarios[0].LandPlotID)
	require.NoError(t, err)
	assert.Equal(t, []models.InfrastructureType{models.InfraGas, models.InfraWater}, plot.Infrastructure)

	user, err := svc.GetUser(ctx, 555)
	require.NoError(t, err)
	assert.Equal(t, "Иван", *user.FirstName)

	req.Count = 2
	again, err := svc.GenerateFromLandPlot(ctx, req)
	require.NoError(t, err)
	assert.Len(t, again, 2)

	mine, err := svc.ListUserScenarios(ctx, 555)
	require.NoError(t, err)
	assert.Len(t, mine, 5)

	plots, err := svc.ListUserLandPlots(ctx, 555)
	require.NoError(t, err)
	assert.Len(t, plots, 2)

	req.LandPlot.Area = 0
	_, err = svc.GenerateFromLandPlot(ctx, req)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestListContractorsBySpecialization(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i, rating := range []float64{3, 5, 4} {
		_, err := svc.CreateContractor(ctx, &models.Contractor{
			Name:            "C" + string(rune('A'+i)),
			Specializations: []models.ProjectType{models.ProjectDataCenter},
			Rating:          rating,
			IsActive:        true,
		})
		require.NoError(t, err)
	}

	dc := models.ProjectDataCenter
	page, err := svc.ListContractors(ctx, Page{Skip: 1, Limit: 1}, &dc)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, 4.0, page[0].Rating)

	empty, err := svc.ListContractors(ctx, Page{Skip: 10, Limit: 5}, &dc)
	require.NoError(t, err)
	assert.Empty(t, empty)

	all, err := svc.ListContractors(ctx, Page{Limit: 100}, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGenerateReport(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := mustUser(t, svc, 1)
	p, err := svc.CreateProject(ctx, &models.Project{
		UserID: u.ID, Name: "X", ProjectType: models.ProjectOfficeComplex, Location: ptr("Москва"), Area: ptr(20000.0),
	})
	require.NoError(t, err)
	_, err = svc.UpsertMarketData(ctx, &models.MarketData{Region: "Москва", ProjectType: models.ProjectOfficeComplex, ConstructionCostPerSqm: 150000})
	require.NoError(t, err)

	scenarios, err := svc.GenerateScenarios(ctx, p.ID, 1)
	require.NoError(t, err)

	r, err := svc.GenerateReport(ctx, scenarios[0].ID, models.ReportInvestmentMemo)
	require.NoError(t, err)
	assert.NotZero(t, r.ID)
	assert.Greater(t, r.FileSize, int64(0))

	got, rc, err := svc.OpenReport(ctx, r.ID)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, r.FileSize, int64(len(data)))
	assert.Equal(t, r.ID, got.ID)

	list, err := svc.ListScenarioReports(ctx, scenarios[0].ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.GenerateReport(ctx, scenarios[0].ID, models.ReportType("nope"))
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.GenerateReport(ctx, 999, models.ReportPreFeasibility)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, _, err = svc.OpenReport(ctx, 999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestGenerateProjectReport(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := mustUser(t, svc, 1)
	p := mustProject(t, svc, u.ID, ptr(80_000_000.0))

	empty, err := svc.GenerateProjectReport(ctx, p.ID)
	require.NoError(t, err)
	assert.Greater(t, empty.Size, int64(0))

	_, err = svc.GenerateScenarios(ctx, p.ID, 2)
	require.NoError(t, err)
	artifact, err := svc.GenerateProjectReport(ctx, p.ID)
	require.NoError(t, err)
	assert.NotEqual(t, empty.Path, artifact.Path)

	data, err := os.ReadFile(artifact.Path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, err = svc.GenerateProjectReport(ctx, 999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCreateScenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := mustUser(t, svc, 1)
	p := mustProject(t, svc, u.ID, nil)
	_, err := svc.CreateContractor(ctx, &models.Contractor{
		Name: "ООО СтройИнвест", Specializations: []models.ProjectType{models.ProjectResidentialComplex}, Rating: 4.8, IsActive: true,
	})
	require.NoError(t, err)

	sc, err := svc.CreateScenario(ctx, p.ID, scenario.Manual{
		Name: "Свой сценарий", ROI: 15, EstimatedCost: 30_000_000, ConstructionTime: 20,
	})
	require.NoError(t, err)
	assert.NotZero(t, sc.ID)
	assert.Equal(t, p.ID, sc.ProjectID)
	assert.Len(t, sc.SuitableContractors, 1)
	assert.Equal(t, 30_000_000.0, sc.UnitEconomics.TotalInvestment)

	generated, err := svc.GenerateScenarios(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, sc.LandPlotID, generated[0].LandPlotID)

	stored, err := svc.ListProjectScenarios(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	_, err = svc.CreateScenario(ctx, 999, scenario.Manual{Name: "S", ROI: 10, EstimatedCost: 1, ConstructionTime: 1})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.CreateScenario(ctx, p.ID, scenario.Manual{Name: "S", ROI: -1, EstimatedCost: 1, ConstructionTime: 1})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	stored, err = svc.ListProjectScenarios(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

type failingReports struct {
	*storage.SQLStorage
}

func (failingReports) CreateReport(context.Context, *models.Report) error {
	return errors.New("disk full")
}

func TestGenerateReportRemovesArtifactWhenRecordFails(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewMemoryStorage(ctx, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	dir := t.TempDir()
	artifacts, err := report.NewLocalStore(dir)
	require.NoError(t, err)
	renderer, err := report.NewRenderer(artifacts, "", zap.NewNop())
	require.NoError(t, err)

	svc := New(store, scenario.NewGenerator(rand.NewSource(7)), renderer, artifacts, zap.NewNop())
	u := mustUser(t, svc, 1)
	p := mustProject(t, svc, u.ID, ptr(50_000_000.0))
	scenarios, err := svc.GenerateScenarios(ctx, p.ID, 1)
	require.NoError(t, err)

	broken := New(failingReports{store}, scenario.NewGenerator(rand.NewSource(7)), renderer, artifacts, zap.NewNop())
	_, err = broken.GenerateReport(ctx, scenarios[0].ID, models.ReportPreFeasibility)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSessions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpsertSession(ctx, 1, nil, nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	s, err := svc.UpsertSession(ctx, 1, ptr("collecting_area"), nil)
	require.NoError(t, err)
	assert.Equal(t, "collecting_area", s.State)

	_, err = svc.GetSession(ctx, 2)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	deleted, err := svc.DeleteSession(ctx, 1)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestMarketDataFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, m := range []*models.MarketData{
		{Region: "Москва", ProjectType: models.ProjectOfficeComplex},
		{Region: "Москва", ProjectType: models.ProjectDataCenter},
		{Region: "Казань", ProjectType: models.ProjectOfficeComplex},
	} {
		_, err := svc.UpsertMarketData(ctx, m)
		require.NoError(t, err)
	}

	office := models.ProjectOfficeComplex
	all, err := svc.ListMarketData(ctx, "", nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	moscow, err := svc.ListMarketData(ctx, "Москва", nil)
	require.NoError(t, err)
	assert.Len(t, moscow, 2)

	offices, err := svc.ListMarketData(ctx, "", &office)
	require.NoError(t, err)
	assert.Len(t, offices, 2)

	one, err := svc.ListMarketData(ctx, "Казань", &office)
	require.NoError(t, err)
	assert.Len(t, one, 1)

	dc := models.ProjectDataCenter
	none, err := svc.ListMarketData(ctx, "Казань", &dc)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := mustUser(t, svc, 1)
	p := mustProject(t, svc, u.ID, ptr(1e7))
	_, err := svc.GenerateScenarios(ctx, p.ID, 2)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Scenarios.TotalScenarios)
	assert.Equal(t, "residential_complex", stats.Scenarios.MostPopularProjectType)
	assert.Equal(t, 1, stats.Users.TotalUsers)
	assert.Equal(t, 0, stats.ContractorsCount)
	assert.Equal(t, 0, stats.ReportsGenerated)
}

func TestExportUserScenarios(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GenerateFromLandPlot(ctx, GenerateRequest{
		User:     models.User{TelegramID: 9},
		LandPlot: models.LandPlot{Area: 2, ZoneType: models.ZoneIndustrial},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportUserScenarios(ctx, 9, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))

	err = svc.ExportUserScenarios(ctx, 10, &buf)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
