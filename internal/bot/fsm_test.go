package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaenox/trendpulse/internal/models"
)

func TestFormWalksForwardToDone(t *testing.T) {
	path := []State{
		StateCollectingArea,
		StateCollectingZone,
		StateCollectingInfrastructure,
		StateCollectingPower,
		StateCollectingBudget,
		StateDone,
	}

	state, err := Transition(StateIdle, EventStart)
	require.NoError(t, err)
	assert.Equal(t, path[0], state)

	for _, want := range path[1:] {
		state, err = Transition(state, EventNext)
		require.NoError(t, err)
		assert.Equal(t, want, state)
	}
}

func TestBackReturnsToPredecessor(t *testing.T) {
	tests := []struct {
		from State
		want State
	}{
		{StateCollectingArea, StateIdle},
		{StateCollectingZone, StateCollectingArea},
		{StateCollectingInfrastructure, StateCollectingZone},
		{StateCollectingPower, StateCollectingInfrastructure},
		{StateCollectingBudget, StateCollectingPower},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			got, err := Transition(tt.from, EventBack)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCancelAlwaysReachesIdle(t *testing.T) {
	for state := range transitions {
		got, err := Transition(state, EventCancel)
		require.NoError(t, err, state)
		assert.Equal(t, StateIdle, got, state)
	}
}

func TestInvalidTransitions(t *testing.T) {
	_, err := Transition(StateIdle, EventNext)
	assert.Error(t, err)
	_, err = Transition(StateIdle, EventBack)
	assert.Error(t, err)
	_, err = Transition(StateDone, EventNext)
	assert.Error(t, err)
}

func TestParseState(t *testing.T) {
	assert.Equal(t, StateCollectingPower, parseState("collecting_power"))
	assert.Equal(t, StateIdle, parseState(""))
	assert.Equal(t, StateIdle, parseState("waiting_for_area"))
}

func TestParseNumbers(t *testing.T) {
	v, err := parsePositive("2,5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	v, err = parsePositive("1 500 000")
	require.NoError(t, err)
	assert.Equal(t, 1500000.0, v)

	_, err = parsePositive("0")
	assert.ErrorIs(t, err, errNotPositive)
	_, err = parsePositive("много")
	assert.ErrorIs(t, err, errNotANumber)
	_, err = parsePositive("NaN")
	assert.ErrorIs(t, err, errNotANumber)

	skipped, err := parseOptional(" - ")
	require.NoError(t, err)
	assert.Nil(t, skipped)

	power, err := parseOptional("250")
	require.NoError(t, err)
	require.NotNil(t, power)
	assert.Equal(t, 250.0, *power)
}

func TestFormDataRoundTrip(t *testing.T) {
	power := 100.0
	f := Form{
		Area:             3,
		ZoneType:         models.ZoneMixed,
		Infrastructure:   []models.InfrastructureType{models.InfraGas},
		ElectricityPower: &power,
	}

	back := formFromData(f.data())
	assert.Equal(t, f, back)

	f.toggle(models.InfraElectricity)
	f.toggle(models.InfraGas)
	f.toggle(models.InfraInternet)
	assert.Equal(t, []models.InfrastructureType{models.InfraElectricity, models.InfraInternet}, f.Infrastructure)
}

func TestRequestConvertsPowerToMegawatts(t *testing.T) {
	power := 2000.0
	f := Form{Area: 1, ZoneType: models.ZoneIndustrial, ElectricityPower: &power}

	req := f.request(&User{ID: 5})
	require.NotNil(t, req.LandPlot.ElectricityPower)
	assert.Equal(t, 2.0, *req.LandPlot.ElectricityPower)
	assert.Equal(t, 2000.0, *f.ElectricityPower)

	f.ElectricityPower = nil
	assert.Nil(t, f.request(&User{ID: 5}).LandPlot.ElectricityPower)
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `ROI: 12\.5% \(высокий\)`, escapeMarkdown("ROI: 12.5% (высокий)"))
	assert.Equal(t, `a\\b`, escapeMarkdown(`a\b`))
}

func TestFormatScenario(t *testing.T) {
	text := formatScenario(models.Scenario{
		Name:             "Логистический центр",
		ProjectType:      models.ProjectLogisticsCenter,
		ROI:              21.4,
		EstimatedCost:    12345678,
		ConstructionTime: 18,
		RiskLevel:        models.LevelHigh,
		MarketDemand:     models.LevelMedium,
		Recommendations:  []string{"Проведите газ."},
	})

	assert.Contains(t, text, "*Логистический центр*")
	assert.Contains(t, text, `ROI: 21\.4%`)
	assert.Contains(t, text, "12,345,678 ₽")
	assert.Contains(t, text, "Риск: Высокий")
	assert.Contains(t, text, `Проведите газ\.`)
}
