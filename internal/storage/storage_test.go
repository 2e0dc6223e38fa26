package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xaenox/trendpulse/internal/models"
)

func newTestStorage(t *testing.T) *SQLStorage {
	t.Helper()
	s, err := NewMemoryStorage(context.Background(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func createUser(t *testing.T, s Storage, telegramID int64) *models.User {
	t.Helper()
	u := &models.User{TelegramID: telegramID, Username: strPtr("tester"), IsActive: true}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func createPlot(t *testing.T, s Storage, userID int64, zone models.ZoneType) *models.LandPlot {
	t.Helper()
	p := &models.LandPlot{
		UserID:         userID,
		Area:           2.5,
		ZoneType:       zone,
		Infrastructure: []models.InfrastructureType{models.InfraElectricity, models.InfraRoad},
		RoadAccess:     true,
	}
	require.NoError(t, s.CreateLandPlot(context.Background(), p))
	return p
}

func TestRebind(t *testing.T) {
	pg := &SQLStorage{dialect: DialectPostgres}
	lite := &SQLStorage{dialect: DialectSQLite}

	q := `SELECT * FROM t WHERE a = ? AND b IN (?, ?)`
	assert.Equal(t, `SELECT * FROM t WHERE a = $1 AND b IN ($2, $3)`, pg.rebind(q))
	assert.Equal(t, q, lite.rebind(q))
	assert.Equal(t, "?, ?, ?", placeholders(3))
	assert.Equal(t, "", placeholders(0))
}

func TestConstructorsAcceptNilLogger(t *testing.T) {
	s := newSQLStorage(nil, DialectPostgres, nil)
	require.NotNil(t, s.logger)

	mem, err := NewMemoryStorage(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, mem.Close())
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	u := createUser(t, s, 1001)
	assert.NotZero(t, u.ID)
	assert.Equal(t, models.RoleInvestor, u.Role)

	err := s.CreateUser(ctx, &models.User{TelegramID: 1001})
	assert.ErrorIs(t, err, ErrConflict)

	got, err := s.GetUserByTelegramID(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	require.NotNil(t, got.Username)
	assert.Equal(t, "tester", *got.Username)
	assert.Nil(t, got.Phone)

	again, err := s.GetUserByTelegramID(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, err = s.GetUserByTelegramID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	byID, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), byID.TelegramID)

	_, err = s.GetUser(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	got.Role = models.RoleDeveloper
	got.Phone = strPtr("+7 (495) 123-45-67")
	require.NoError(t, s.UpdateUser(ctx, got))

	updated, err := s.GetUserByTelegramID(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, models.RoleDeveloper, updated.Role)
	assert.Equal(t, "+7 (495) 123-45-67", *updated.Phone)

	err = s.UpdateUser(ctx, &models.User{ID: 424242, Role: models.RoleInvestor})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOrCreateUserIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	first, err := s.GetOrCreateUser(ctx, &models.User{TelegramID: 77, FirstName: strPtr("Анна")})
	require.NoError(t, err)
	second, err := s.GetOrCreateUser(ctx, &models.User{TelegramID: 77, FirstName: strPtr("Other")})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Анна", *second.FirstName)
	assert.True(t, second.IsActive)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
}

func TestLandPlots(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	u := createUser(t, s, 1)

	p := &models.LandPlot{
		UserID:           u.ID,
		Area:             3,
		ZoneType:         models.ZoneIndustrial,
		ElectricityPower: floatPtr(1.5),
		Location:         strPtr("Казань"),
	}
	require.NoError(t, s.CreateLandPlot(ctx, p))

	got, err := s.GetLandPlot(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ZoneIndustrial, got.ZoneType)
	assert.Equal(t, []models.InfrastructureType{}, got.Infrastructure)
	assert.Equal(t, 1.5, *got.ElectricityPower)
	assert.Nil(t, got.GasPressure)
	assert.Equal(t, "Казань", *got.Location)

	createPlot(t, s, u.ID, models.ZoneMixed)
	plots, err := s.ListLandPlotsByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, plots, 2)
	assert.Equal(t, []models.InfrastructureType{models.InfraElectricity, models.InfraRoad}, plots[1].Infrastructure)

	_, err = s.GetLandPlot(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectsPagination(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	alice := createUser(t, s, 1)
	bob := createUser(t, s, 2)

	for i := 0; i < 5; i++ {
		owner := alice.ID
		if i%2 == 1 {
			owner = bob.ID
		}
		p := &models.Project{
			UserID:      owner,
			Name:        "P",
			ProjectType: models.ProjectResidentialComplex,
			Budget:      floatPtr(1e8),
		}
		require.NoError(t, s.CreateProject(ctx, p))
		assert.Equal(t, models.StatusDraft, p.Status)
	}

	all, err := s.ListProjects(ctx, ProjectFilter{Limit: 100})
	require.NoError(t, err)
	require.Len(t, all, 5)

	first, err := s.ListProjects(ctx, ProjectFilter{Skip: 0, Limit: 2})
	require.NoError(t, err)
	second, err := s.ListProjects(ctx, ProjectFilter{Skip: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Equal(t, all[0].ID, first[0].ID)
	assert.Equal(t, all[1].ID, first[1].ID)
	assert.Equal(t, all[2].ID, second[0].ID)
	assert.Equal(t, all[3].ID, second[1].ID)

	bobs, err := s.ListProjects(ctx, ProjectFilter{UserID: &bob.ID, Limit: 100})
	require.NoError(t, err)
	assert.Len(t, bobs, 2)
	for _, p := range bobs {
		assert.Equal(t, bob.ID, p.UserID)
	}

	got, err := s.GetProject(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1e8, *got.Budget)
	assert.Nil(t, got.Area)
	assert.Nil(t, got.LandPlotID)
}

func newScenario(userID, projectID, plotID int64) *models.Scenario {
	return &models.Scenario{
		UserID:               userID,
		ProjectID:            projectID,
		LandPlotID:           plotID,
		Name:                 "Умеренный сценарий",
		ProjectType:          models.ProjectResidentialComplex,
		Description:          "desc",
		ROI:                  12.5,
		EstimatedCost:        9e7,
		ConstructionTime:     24,
		RiskLevel:            models.LevelLow,
		MarketDemand:         models.LevelHigh,
		RegulatoryComplexity: models.LevelMedium,
		UnitEconomics: models.UnitEconomics{
			TotalInvestment: 9e7,
			ROIPercentage:   12.5,
		},
		Recommendations:     []string{"Подключить газ"},
		SuitableContractors: []int64{3, 1},
	}
}

func TestSetProjectLandPlot(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	u := createUser(t, s, 1)
	plot := createPlot(t, s, u.ID, models.ZoneCommercial)

	p := &models.Project{UserID: u.ID, Name: "P", ProjectType: models.ProjectShoppingCenter}
	require.NoError(t, s.CreateProject(ctx, p))

	require.NoError(t, s.SetProjectLandPlot(ctx, p.ID, plot.ID))
	got, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LandPlotID)
	assert.Equal(t, plot.ID, *got.LandPlotID)

	err = s.SetProjectLandPlot(ctx, 999, plot.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScenarios(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	u := createUser(t, s, 1)
	plot := createPlot(t, s, u.ID, models.ZoneResidential)
	project := &models.Project{UserID: u.ID, LandPlotID: &plot.ID, Name: "X", ProjectType: models.ProjectResidentialComplex}
	require.NoError(t, s.CreateProject(ctx, project))

	sc := newScenario(u.ID, project.ID, plot.ID)
	require.NoError(t, s.CreateScenario(ctx, sc))
	assert.NotZero(t, sc.ID)
	assert.False(t, sc.CreatedAt.IsZero())

	got, err := s.GetScenario(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, 24, got.ConstructionTime)
	assert.Equal(t, []string{"Подключить газ"}, got.Recommendations)
	assert.Equal(t, []int64{3, 1}, got.SuitableContractors)
	assert.Equal(t, 9e7, got.UnitEconomics.TotalInvestment)
	assert.Equal(t, models.LevelHigh, got.MarketDemand)

	byProject, err := s.ListScenariosByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, byProject, 1)

	byUser, err := s.ListScenariosByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	_, err = s.GetScenario(ctx, 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	u := createUser(t, s, 1)
	plot := createPlot(t, s, u.ID, models.ZoneResidential)
	project := &models.Project{UserID: u.ID, Name: "X", ProjectType: models.ProjectResidentialComplex}
	require.NoError(t, s.CreateProject(ctx, project))

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx Storage) error {
		for i := 0; i < 2; i++ {
			if err := tx.CreateScenario(ctx, newScenario(u.ID, project.ID, plot.ID)); err != nil {
				return err
			}
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	scenarios, err := s.ListScenariosByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, scenarios)

	err = s.WithTx(ctx, func(tx Storage) error {
		return tx.WithTx(ctx, func(inner Storage) error {
			return inner.CreateScenario(ctx, newScenario(u.ID, project.ID, plot.ID))
		})
	})
	require.NoError(t, err)

	scenarios, err = s.ListScenariosByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, scenarios, 1)
}

func TestContractors(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	mk := func(name string, rating float64, active bool, specs ...models.ProjectType) *models.Contractor {
		c := &models.Contractor{
			Name:            name,
			Specializations: specs,
			Rating:          rating,
			ExperienceYears: 10,
			IsActive:        active,
			ContactEmail:    strPtr("info@example.ru"),
		}
		require.NoError(t, s.CreateContractor(ctx, c))
		return c
	}

	a := mk("ООО СтройИнвест", 4.8, true, models.ProjectResidentialComplex, models.ProjectResidentialComplex)
	b := mk("ООО ПромСтрой", 4.4, true, models.ProjectIndustrialPark, models.ProjectLogisticsCenter)
	c := mk("ООО ЭлитСтрой", 4.9, true, models.ProjectResidentialComplex)
	mk("ООО Закрыто", 5, false, models.ProjectResidentialComplex)

	assert.Equal(t, []models.ProjectType{models.ProjectResidentialComplex}, a.Specializations)

	got, err := s.GetContractor(ctx, b.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.ProjectType{models.ProjectIndustrialPark, models.ProjectLogisticsCenter}, got.Specializations)
	assert.Equal(t, models.PriceMedium, got.PriceRange)
	assert.Equal(t, []string{}, got.Portfolio)

	active, err := s.ListContractors(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, a.ID, active[0].ID)

	page, err := s.ListContractors(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, b.ID, page[0].ID)

	residential, err := s.ListContractorsBySpecialization(ctx, []models.ProjectType{models.ProjectResidentialComplex}, 5)
	require.NoError(t, err)
	require.Len(t, residential, 2)
	assert.Equal(t, c.ID, residential[0].ID)
	assert.Equal(t, a.ID, residential[1].ID)

	none, err := s.ListContractorsBySpecialization(ctx, nil, 5)
	require.NoError(t, err)
	assert.Empty(t, none)

	n, err := s.CountActiveContractors(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestReports(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	u := createUser(t, s, 1)
	plot := createPlot(t, s, u.ID, models.ZoneResidential)
	project := &models.Project{UserID: u.ID, Name: "X", ProjectType: models.ProjectResidentialComplex}
	require.NoError(t, s.CreateProject(ctx, project))
	sc := newScenario(u.ID, project.ID, plot.ID)
	require.NoError(t, s.CreateScenario(ctx, sc))

	r := &models.Report{ScenarioID: sc.ID, ReportType: models.ReportInvestmentMemo, FilePath: "reports/a.pdf", FileSize: 2048}
	require.NoError(t, s.CreateReport(ctx, r))

	got, err := s.GetReport(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportInvestmentMemo, got.ReportType)
	assert.Equal(t, int64(2048), got.FileSize)

	list, err := s.ListReportsByScenario(ctx, sc.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	n, err := s.CountReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMarketDataUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	m := &models.MarketData{Region: "Москва", ProjectType: models.ProjectOfficeComplex, ConstructionCostPerSqm: 120000, MarketDemandScore: 7}
	require.NoError(t, s.UpsertMarketData(ctx, m))

	m2 := &models.MarketData{Region: "Москва", ProjectType: models.ProjectOfficeComplex, ConstructionCostPerSqm: 130000, MarketDemandScore: 8}
	require.NoError(t, s.UpsertMarketData(ctx, m2))
	assert.Equal(t, m.ID, m2.ID)

	got, err := s.GetMarketData(ctx, "Москва", models.ProjectOfficeComplex)
	require.NoError(t, err)
	assert.Equal(t, 130000.0, got.ConstructionCostPerSqm)

	_, err = s.GetMarketData(ctx, "Сочи", models.ProjectOfficeComplex)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := s.ListMarketData(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	_, err := s.GetSession(ctx, 5)
	assert.ErrorIs(t, err, ErrNotFound)

	state := "collecting_area"
	created, err := s.UpsertSession(ctx, 5, SessionUpdate{State: &state})
	require.NoError(t, err)
	assert.Equal(t, "collecting_area", created.State)
	assert.Equal(t, map[string]any{}, created.Data)

	_, err = s.UpsertSession(ctx, 5, SessionUpdate{Data: map[string]any{"area": 2.5}})
	require.NoError(t, err)

	got, err := s.GetSession(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "collecting_area", got.State)
	assert.Equal(t, 2.5, got.Data["area"])

	next := "collecting_zone"
	_, err = s.UpsertSession(ctx, 5, SessionUpdate{State: &next})
	require.NoError(t, err)
	got, err = s.GetSession(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "collecting_zone", got.State)
	assert.Equal(t, 2.5, got.Data["area"])

	deleted, err := s.DeleteSession(ctx, 5)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteSession(ctx, 5)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	empty, err := s.ScenarioStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalScenarios)
	assert.Equal(t, "", empty.MostPopularProjectType)

	u := createUser(t, s, 1)
	createUser(t, s, 2)
	plot := createPlot(t, s, u.ID, models.ZoneCommercial)
	project := &models.Project{UserID: u.ID, Name: "X", ProjectType: models.ProjectShoppingCenter}
	require.NoError(t, s.CreateProject(ctx, project))

	for _, roi := range []float64{10, 20} {
		sc := newScenario(u.ID, project.ID, plot.ID)
		sc.ProjectType = models.ProjectShoppingCenter
		sc.ROI = roi
		sc.UnitEconomics.TotalInvestment = 1e6
		require.NoError(t, s.CreateScenario(ctx, sc))
	}

	ss, err := s.ScenarioStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, ss.TotalScenarios)
	assert.InDelta(t, 15.0, ss.AverageROI, 1e-9)
	assert.InDelta(t, 2e6, ss.TotalInvestment, 1e-6)
	assert.Equal(t, "shopping_center", ss.MostPopularProjectType)
	assert.Equal(t, map[string]int{"commercial": 2}, ss.ScenariosByZone)

	us, err := s.UserStats(ctx, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, us.TotalUsers)
	assert.Equal(t, 2, us.ActiveUsersLast30Days)
	assert.Equal(t, map[string]int{"investor": 2}, us.UsersByRole)
	assert.InDelta(t, 1.0, us.AverageScenariosPerUser, 1e-9)

	future, err := s.UserStats(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, future.ActiveUsersLast30Days)
}
