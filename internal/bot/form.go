package bot

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/xaenox/trendpulse/internal/client"
	"github.com/xaenox/trendpulse/internal/models"
)

// skipInput marks an optional answer as omitted.
const skipInput = "-"

const (
	keyArea           = "area"
	keyZoneType       = "zone_type"
	keyInfrastructure = "infrastructure"
	keyPower          = "electricity_power"
	keyBudget         = "investment_budget"
)

var (
	errNotANumber  = errors.New("not a number")
	errNotPositive = errors.New("must be positive")
)

// Form is the land-plot data collected so far.
type Form struct {
	Area             float64
	ZoneType         models.ZoneType
	Infrastructure   []models.InfrastructureType
	// ElectricityPower is entered in kW; the API takes MW.
	ElectricityPower *float64
	InvestmentBudget *float64
}

// formFromData reads a form back from session data decoded from JSON.
func formFromData(data map[string]any) Form {
	var f Form
	if v, ok := data[keyArea].(float64); ok {
		f.Area = v
	}
	if v, ok := data[keyZoneType].(string); ok {
		f.ZoneType = models.ZoneType(v)
	}
	switch items := data[keyInfrastructure].(type) {
	case []any:
		for _, item := range items {
			if s, ok := item.(string); ok {
				f.Infrastructure = append(f.Infrastructure, models.InfrastructureType(s))
			}
		}
	case []string:
		for _, s := range items {
			f.Infrastructure = append(f.Infrastructure, models.InfrastructureType(s))
		}
	}
	if v, ok := data[keyPower].(float64); ok {
		f.ElectricityPower = &v
	}
	if v, ok := data[keyBudget].(float64); ok {
		f.InvestmentBudget = &v
	}
	return f
}

func (f Form) data() map[string]any {
	data := map[string]any{}
	if f.Area > 0 {
		data[keyArea] = f.Area
	}
	if f.ZoneType != "" {
		data[keyZoneType] = string(f.ZoneType)
	}
	infra := make([]string, 0, len(f.Infrastructure))
	for _, i := range f.Infrastructure {
		infra = append(infra, string(i))
	}
	data[keyInfrastructure] = infra
	if f.ElectricityPower != nil {
		data[keyPower] = *f.ElectricityPower
	}
	if f.InvestmentBudget != nil {
		data[keyBudget] = *f.InvestmentBudget
	}
	return data
}

func (f *Form) hasInfrastructure(infra models.InfrastructureType) bool {
	for _, i := range f.Infrastructure {
		if i == infra {
			return true
		}
	}
	return false
}

// toggle adds infra when absent and removes it otherwise, keeping the
// canonical utility order.
func (f *Form) toggle(infra models.InfrastructureType) {
	selected := !f.hasInfrastructure(infra)
	out := make([]models.InfrastructureType, 0, len(models.InfrastructureTypes))
	for _, known := range models.InfrastructureTypes {
		if known == infra {
			if selected {
				out = append(out, known)
			}
			continue
		}
		if f.hasInfrastructure(known) {
			out = append(out, known)
		}
	}
	f.Infrastructure = out
}

func (f Form) request(user *User) client.GenerateRequest {
	infra := f.Infrastructure
	if infra == nil {
		infra = []models.InfrastructureType{}
	}
	var powerMW *float64
	if f.ElectricityPower != nil {
		v := *f.ElectricityPower / kWPerMW
		powerMW = &v
	}
	return client.GenerateRequest{
		TelegramID: user.ID,
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		LandPlot: client.LandPlot{
			Area:             f.Area,
			ZoneType:         f.ZoneType,
			Infrastructure:   infra,
			ElectricityPower: powerMW,
		},
		InvestmentBudget: f.InvestmentBudget,
	}
}

const kWPerMW = 1000

// parseNumber accepts "2,5", "2.5" and digit groups separated by spaces.
func parseNumber(text string) (float64, error) {
	cleaned := strings.NewReplacer(" ", "", "\u00a0", "", ",", ".").Replace(strings.TrimSpace(text))
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotANumber
	}
	return v, nil
}

func parsePositive(text string) (float64, error) {
	v, err := parseNumber(text)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, errNotPositive
	}
	return v, nil
}

// parseOptional returns nil for the skip marker.
func parseOptional(text string) (*float64, error) {
	if strings.TrimSpace(text) == skipInput {
		return nil, nil
	}
	v, err := parsePositive(text)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func validZone(raw string) (models.ZoneType, bool) {
	for _, z := range models.ZoneTypes {
		if string(z) == raw {
			return z, true
		}
	}
	return "", false
}

func validInfrastructure(raw string) (models.InfrastructureType, bool) {
	for _, i := range models.InfrastructureTypes {
		if string(i) == raw {
			return i, true
		}
	}
	return "", false
}
