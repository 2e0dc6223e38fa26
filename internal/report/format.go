package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/xaenox/trendpulse/internal/models"
)

const (
	ROIClassHigh   = "roi-high"
	ROIClassMedium = "roi-medium"
	ROIClassLow    = "roi-low"
)

// ROIClass buckets an ROI percentage for highlighting.
func ROIClass(roi float64) string {
	switch {
	case roi >= 20:
		return ROIClassHigh
	case roi >= 10:
		return ROIClassMedium
	default:
		return ROIClassLow
	}
}

// FormatCurrency renders whole roubles with thousands separators: "1,234,567 ₽".
func FormatCurrency(v float64) string {
	return humanize.Comma(int64(math.Round(v))) + " ₽"
}

// FormatPercent renders a percentage with one decimal: "12.5%".
func FormatPercent(v float64) string {
	return FormatDecimal(v) + "%"
}

func FormatDecimal(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// FormatHectares drops trailing zeros: 2.50 -> "2.5", 3 -> "3".
func FormatHectares(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatShare renders a [0,1] fraction as a percentage.
func FormatShare(v float64) string {
	return FormatPercent(v * 100)
}

func FormatInfrastructure(infra []models.InfrastructureType) string {
	if len(infra) == 0 {
		return "Отсутствует"
	}
	labels := make([]string, 0, len(infra))
	for _, i := range infra {
		labels = append(labels, i.Label())
	}
	return strings.Join(labels, ", ")
}
