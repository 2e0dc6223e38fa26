package scenario

import (
	"math"

	"github.com/xaenox/trendpulse/internal/models"
)

const (
	// HorizonYears is the cash-flow horizon used for NPV and IRR.
	HorizonYears = 10
	// DiscountRate is the NPV discount rate.
	DiscountRate = 0.10

	baseInfrastructureShare    = 0.05
	missingInfrastructureShare = 0.025
	operationalShare           = 0.05
)

// UnitEconomics derives the financial block of a scenario from its drawn ROI
// (percent) and estimated cost. Each utility missing on the plot adds to the
// infrastructure share of the cost.
func UnitEconomics(roi, cost float64, missingInfrastructure int) models.UnitEconomics {
	infra := cost * (baseInfrastructureShare + missingInfrastructureShare*float64(missingInfrastructure))
	opex := cost * operationalShare
	netIncome := cost * roi / 100

	ue := models.UnitEconomics{
		TotalInvestment:    cost,
		ConstructionCost:   roundTo(cost-infra, 2),
		InfrastructureCost: roundTo(infra, 2),
		OperationalCost:    roundTo(opex, 2),
		RevenuePerYear:     roundTo(netIncome+opex, 2),
		ROIPercentage:      roi,
		NPV:                roundTo(NPV(DiscountRate, cost, netIncome, HorizonYears), 2),
		IRR:                roundTo(IRR(cost, netIncome, HorizonYears)*100, 2),
	}
	if roi > 0 {
		ue.PaybackPeriod = roundTo(100/roi, 1)
	}
	return ue
}

// NPV discounts a constant yearly cash flow over years periods and subtracts
// the initial investment.
func NPV(rate, investment, cashFlow float64, years int) float64 {
	npv := -investment
	factor := 1.0
	for t := 1; t <= years; t++ {
		factor *= 1 + rate
		npv += cashFlow / factor
	}
	return npv
}

// IRR finds the rate at which NPV is zero by bisection. The result is a
// fraction, not a percentage.
func IRR(investment, cashFlow float64, years int) float64 {
	if investment <= 0 || cashFlow <= 0 {
		return 0
	}

	lo, hi := -0.99, 10.0
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		if NPV(mid, investment, cashFlow, years) > 0 {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < 1e-9 {
			break
		}
	}
	return (lo + hi) / 2
}

func roundTo(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
