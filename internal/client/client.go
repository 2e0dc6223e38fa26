// Package client talks to the TrendPulse HTTP API on behalf of the chat bot.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xaenox/trendpulse/internal/models"
)

const defaultTimeout = 60 * time.Second

// Error is a non-2xx answer from the API.
type Error struct {
	Status  int
	Message string
	Details []string
}

func (e *Error) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("api error %d: %s (%s)", e.Status, e.Message, strings.Join(e.Details, "; "))
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsValidation reports whether err is a 422 from the API.
func IsValidation(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnprocessableEntity
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func New(baseURL string, logger *zap.Logger) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: defaultTimeout}, logger)
}

func NewWithHTTPClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// GenerateRequest is the body of POST /generate-scenarios.
type GenerateRequest struct {
	TelegramID       int64    `json:"telegram_id"`
	Username         *string  `json:"username,omitempty"`
	FirstName        *string  `json:"first_name,omitempty"`
	LastName         *string  `json:"last_name,omitempty"`
	LandPlot         LandPlot `json:"land_plot"`
	InvestmentBudget *float64 `json:"investment_budget,omitempty"`
	Count            int      `json:"count,omitempty"`
}

type LandPlot struct {
	Area             float64                     `json:"area"`
	ZoneType         models.ZoneType             `json:"zone_type"`
	Infrastructure   []models.InfrastructureType `json:"infrastructure"`
	ElectricityPower *float64                    `json:"electricity_power,omitempty"`
	Location         *string                     `json:"location,omitempty"`
}

// Report describes a rendered PDF.
type Report struct {
	ReportID    int64  `json:"report_id"`
	Filename    string `json:"filename"`
	FileSize    int64  `json:"file_size"`
	DownloadURL string `json:"download_url"`
}

// Info is the subset of /api-info the bot shows.
type Info struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

type sessionBody struct {
	State *string        `json:"state,omitempty"`
	Data  map[string]any `json:"data"`
}

func (c *Client) GetSession(ctx context.Context, telegramID int64) (*models.ChatSession, error) {
	var session models.ChatSession
	if err := c.do(ctx, http.MethodGet, "/sessions/"+strconv.FormatInt(telegramID, 10), nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SaveSession writes state and data; a nil argument leaves that field unchanged.
func (c *Client) SaveSession(ctx context.Context, telegramID int64, state *string, data map[string]any) (*models.ChatSession, error) {
	var session models.ChatSession
	body := sessionBody{State: state, Data: data}
	if err := c.do(ctx, http.MethodPut, "/sessions/"+strconv.FormatInt(telegramID, 10), body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) DeleteSession(ctx context.Context, telegramID int64) error {
	return c.do(ctx, http.MethodDelete, "/sessions/"+strconv.FormatInt(telegramID, 10), nil, nil)
}

func (c *Client) GenerateScenarios(ctx context.Context, req GenerateRequest) ([]models.Scenario, error) {
	var scenarios []models.Scenario
	if err := c.do(ctx, http.MethodPost, "/generate-scenarios", req, &scenarios); err != nil {
		return nil, err
	}
	return scenarios, nil
}

func (c *Client) ListUserScenarios(ctx context.Context, telegramID int64) ([]models.Scenario, error) {
	var scenarios []models.Scenario
	if err := c.do(ctx, http.MethodGet, "/users/"+strconv.FormatInt(telegramID, 10)+"/scenarios", nil, &scenarios); err != nil {
		return nil, err
	}
	return scenarios, nil
}

func (c *Client) ListContractors(ctx context.Context, limit int) ([]models.Contractor, error) {
	var contractors []models.Contractor
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.do(ctx, http.MethodGet, "/contractors/?"+q.Encode(), nil, &contractors); err != nil {
		return nil, err
	}
	return contractors, nil
}

// NewContractor is the body of POST /contractors/.
type NewContractor struct {
	Name              string               `json:"name"`
	Specializations   []models.ProjectType `json:"specializations"`
	Rating            float64              `json:"rating"`
	ExperienceYears   int                  `json:"experience_years"`
	CompletedProjects int                  `json:"completed_projects"`
	PriceRange        models.PriceRange    `json:"price_range,omitempty"`
	ContactPhone      string               `json:"contact_phone,omitempty"`
	ContactEmail      string               `json:"contact_email,omitempty"`
	Location          string               `json:"location,omitempty"`
}

func (c *Client) CreateContractor(ctx context.Context, in NewContractor) (*models.Contractor, error) {
	var contractor models.Contractor
	if err := c.do(ctx, http.MethodPost, "/contractors/", in, &contractor); err != nil {
		return nil, err
	}
	return &contractor, nil
}

func (c *Client) GenerateReport(ctx context.Context, scenarioID int64, reportType models.ReportType) (*Report, error) {
	var r Report
	q := url.Values{"report_type": {string(reportType)}}
	target := "/scenarios/" + strconv.FormatInt(scenarioID, 10) + "/generate-pdf?" + q.Encode()
	if err := c.do(ctx, http.MethodPost, target, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Download fetches a report file by its download URL and returns its name and contents.
func (c *Client) Download(ctx context.Context, downloadURL string) (string, []byte, error) {
	resp, err := c.send(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", downloadURL, err)
	}

	name := path.Base(downloadURL) + ".pdf"
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}
	return name, data, nil
}

func (c *Client) Info(ctx context.Context) (*Info, error) {
	var info Info
	if err := c.do(ctx, http.MethodGet, "/api-info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	resp, err := c.send(ctx, method, target, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, target, err)
	}
	return nil
}

// send performs the request and returns the response of a 2xx answer.
func (c *Client) send(ctx context.Context, method, target string, body any) (*http.Response, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+target, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("API request failed",
			zap.Error(err),
			zap.String("method", method),
			zap.String("target", target))
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}
	var body struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Error
		apiErr.Details = body.Details
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
