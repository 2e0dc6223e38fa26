// Package report renders scenario reports to PDF and stores the artifacts.
package report

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"

	"github.com/xaenox/trendpulse/internal/apperr"
	"github.com/xaenox/trendpulse/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Input is everything a report is rendered from. Market is optional.
type Input struct {
	Scenario *models.Scenario
	Project  *models.Project
	Plot     *models.LandPlot
	User     *models.User
	Market   *models.MarketData
}

// Artifact describes a stored report file.
type Artifact struct {
	Name string
	Path string
	Size int64
}

type view struct {
	Input
	Title          string
	Subtitle       string
	GeneratedAt    string
	ROIClass       string
	CostPerHectare float64
	ROIRevenueDown float64
	ROICostUp      float64
}

// ProjectInput is what a project summary is rendered from. Plot is optional.
type ProjectInput struct {
	Project   *models.Project
	Plot      *models.LandPlot
	Scenarios []*models.Scenario
}

type projectView struct {
	ProjectInput
	Title       string
	Subtitle    string
	GeneratedAt string
	CreatedAt   string
	Best        *models.Scenario
}

type Renderer struct {
	templates map[models.ReportType]*template.Template
	project   *template.Template
	fontPath  string
	store     Store
	logger    *zap.Logger
	now       func() time.Time
}

func NewRenderer(store Store, fontPath string, logger *zap.Logger) (*Renderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	funcs := template.FuncMap{
		"currency":       FormatCurrency,
		"percent":        FormatPercent,
		"decimal":        FormatDecimal,
		"hectares":       FormatHectares,
		"share":          FormatShare,
		"infrastructure": FormatInfrastructure,
		"roiClass":       ROIClass,
		"inc":            func(i int) int { return i + 1 },
	}

	templates := make(map[models.ReportType]*template.Template, 2)
	for _, rt := range []models.ReportType{models.ReportPreFeasibility, models.ReportInvestmentMemo} {
		t, err := template.New(string(rt)).Funcs(funcs).ParseFS(templatesFS,
			"templates/base.html", "templates/"+string(rt)+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", rt, err)
		}
		templates[rt] = t
	}

	project, err := template.New("project").Funcs(funcs).ParseFS(templatesFS,
		"templates/base.html", "templates/project_summary.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse project template: %w", err)
	}

	return &Renderer{
		templates: templates,
		project:   project,
		fontPath:  fontPath,
		store:     store,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// FileName is the artifact name for a project rendered at t.
func FileName(projectID int64, t time.Time) string {
	return fmt.Sprintf("project_%d_%s.pdf", projectID, t.Format("20060102_150405"))
}

// Render produces the PDF for in and saves it in the store. Invalid input and
// layout failures come back as render errors.
func (r *Renderer) Render(ctx context.Context, reportType models.ReportType, in Input) (*Artifact, error) {
	if !reportType.Valid() {
		return nil, apperr.Validation("unknown report type %q", reportType)
	}
	if err := checkInput(in); err != nil {
		return nil, apperr.Render(err)
	}

	now := r.now()
	doc, err := r.HTML(reportType, in, now)
	if err != nil {
		return nil, apperr.Render(err)
	}

	title := r.title(reportType, in)
	pdf, err := htmlToPDF(doc, r.fontPath, title)
	if err != nil {
		return nil, apperr.Render(err)
	}

	name := FileName(in.Project.ID, now)
	path, err := r.store.Save(ctx, name, pdf)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to store report")
	}

	r.logger.Info("Report rendered",
		zap.String("report_type", string(reportType)),
		zap.Int64("scenario_id", in.Scenario.ID),
		zap.String("path", path),
		zap.Int("size", len(pdf)))

	return &Artifact{Name: name, Path: path, Size: int64(len(pdf))}, nil
}

// RenderProject produces the summary PDF of a project and its scenarios and
// saves it in the store.
func (r *Renderer) RenderProject(ctx context.Context, in ProjectInput) (*Artifact, error) {
	if in.Project == nil {
		return nil, apperr.Render(errors.New("project is required"))
	}

	now := r.now()
	doc, err := r.ProjectHTML(in, now)
	if err != nil {
		return nil, apperr.Render(err)
	}
	pdf, err := htmlToPDF(doc, r.fontPath, projectTitle(in.Project))
	if err != nil {
		return nil, apperr.Render(err)
	}

	name := FileName(in.Project.ID, now)
	path, err := r.store.Save(ctx, name, pdf)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to store report")
	}

	r.logger.Info("Project report rendered",
		zap.Int64("project_id", in.Project.ID),
		zap.Int("scenarios", len(in.Scenarios)),
		zap.String("path", path),
		zap.Int("size", len(pdf)))

	return &Artifact{Name: name, Path: path, Size: int64(len(pdf))}, nil
}

// ProjectHTML renders the project summary document without converting it.
func (r *Renderer) ProjectHTML(in ProjectInput, at time.Time) ([]byte, error) {
	v := projectView{
		ProjectInput: in,
		Title:        projectTitle(in.Project),
		Subtitle:     in.Project.ProjectType.Label(),
		GeneratedAt:  at.Format("02.01.2006 15:04"),
		CreatedAt:    in.Project.CreatedAt.Format("02.01.2006"),
	}
	for _, sc := range in.Scenarios {
		if v.Best == nil || sc.ROI > v.Best.ROI {
			v.Best = sc
		}
	}

	var buf bytes.Buffer
	if err := r.project.ExecuteTemplate(&buf, "base", v); err != nil {
		return nil, fmt.Errorf("execute project template: %w", err)
	}
	return buf.Bytes(), nil
}

func projectTitle(p *models.Project) string {
	return "Отчет по проекту: " + p.Name
}

// HTML renders the report document without converting it.
func (r *Renderer) HTML(reportType models.ReportType, in Input, at time.Time) ([]byte, error) {
	t, ok := r.templates[reportType]
	if !ok {
		return nil, fmt.Errorf("no template for report type %q", reportType)
	}

	ue := in.Scenario.UnitEconomics
	v := view{
		Input:          in,
		Title:          r.title(reportType, in),
		Subtitle:       r.subtitle(reportType, in),
		GeneratedAt:    at.Format("02.01.2006 15:04"),
		ROIClass:       ROIClass(ue.ROIPercentage),
		CostPerHectare: ue.ConstructionCost / in.Plot.Area,
		ROIRevenueDown: ue.ROIPercentage * 0.9,
		ROICostUp:      ue.ROIPercentage * 0.8,
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", v); err != nil {
		return nil, fmt.Errorf("execute %s template: %w", reportType, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) title(reportType models.ReportType, in Input) string {
	return reportType.Label() + ": " + in.Scenario.Name
}

func (r *Renderer) subtitle(reportType models.ReportType, in Input) string {
	if reportType == models.ReportInvestmentMemo {
		return "Детальный анализ инвестиционного проекта"
	}
	return fmt.Sprintf("Участок %s га, %s", FormatHectares(in.Plot.Area), in.Plot.ZoneType.Label())
}

func checkInput(in Input) error {
	switch {
	case in.Scenario == nil:
		return errors.New("scenario is required")
	case in.Project == nil:
		return errors.New("project is required")
	case in.Plot == nil:
		return errors.New("land plot is required")
	case in.Scenario.Name == "":
		return errors.New("scenario name is empty")
	case in.Plot.Area <= 0:
		return fmt.Errorf("land plot area must be positive, got %v", in.Plot.Area)
	}
	return nil
}
