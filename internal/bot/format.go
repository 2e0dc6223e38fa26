package bot

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/xaenox/trendpulse/internal/models"
)

// escapeMarkdown escapes the characters MarkdownV2 reserves.
func escapeMarkdown(text string) string {
	specialChars := []string{"\\", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!"}
	escaped := text
	for _, char := range specialChars {
		escaped = strings.ReplaceAll(escaped, char, "\\"+char)
	}
	return escaped
}

func formatMoney(v float64) string {
	return humanize.Comma(int64(math.Round(v))) + " ₽"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatScenario(s models.Scenario) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", escapeMarkdown(s.Name))
	fmt.Fprintf(&b, "_%s_\n\n", escapeMarkdown(s.ProjectType.Label()))
	if s.Description != "" {
		b.WriteString(escapeMarkdown(s.Description) + "\n\n")
	}

	lines := []string{
		fmt.Sprintf("📈 ROI: %.1f%%", s.ROI),
		"💰 Стоимость: " + formatMoney(s.EstimatedCost),
		fmt.Sprintf("⏱ Срок строительства: %d мес.", s.ConstructionTime),
		fmt.Sprintf("🔄 Окупаемость: %.1f лет", s.UnitEconomics.PaybackPeriod),
		"💵 NPV: " + formatMoney(s.UnitEconomics.NPV),
		fmt.Sprintf("⚠️ Риск: %s", s.RiskLevel.Label()),
		fmt.Sprintf("📊 Спрос: %s", s.MarketDemand.Label()),
		fmt.Sprintf("📑 Регуляторная сложность: %s", s.RegulatoryComplexity.Label()),
	}
	for _, line := range lines {
		b.WriteString(escapeMarkdown(line) + "\n")
	}

	if len(s.Recommendations) > 0 {
		b.WriteString("\n*Рекомендации:*\n")
		for _, r := range s.Recommendations {
			b.WriteString(escapeMarkdown("• "+r) + "\n")
		}
	}
	if n := len(s.SuitableContractors); n > 0 {
		b.WriteString(escapeMarkdown(fmt.Sprintf("\n👷 Подходящих подрядчиков: %d", n)))
	}
	return b.String()
}

func formatContractors(contractors []models.Contractor) string {
	var b strings.Builder
	b.WriteString("*Подрядчики:*\n\n")
	for _, c := range contractors {
		fmt.Fprintf(&b, "*%s*\n", escapeMarkdown(c.Name))
		specs := make([]string, 0, len(c.Specializations))
		for _, s := range c.Specializations {
			specs = append(specs, s.Label())
		}
		line := fmt.Sprintf("⭐ %.1f · опыт %d лет · проектов %d", c.Rating, c.ExperienceYears, c.CompletedProjects)
		b.WriteString(escapeMarkdown(line) + "\n")
		if len(specs) > 0 {
			b.WriteString(escapeMarkdown(strings.Join(specs, ", ")) + "\n")
		}
		if c.ContactPhone != nil {
			b.WriteString(escapeMarkdown("📞 "+*c.ContactPhone) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// formatSummary lists the scenarios of a user in one message.
func formatSummary(scenarios []models.Scenario) string {
	var b strings.Builder
	b.WriteString("*Ваши сценарии:*\n\n")
	for _, s := range scenarios {
		line := fmt.Sprintf("#%d %s · ROI %.1f%% · %s", s.ID, s.Name, s.ROI, formatMoney(s.EstimatedCost))
		b.WriteString(escapeMarkdown(line) + "\n")
	}
	return b.String()
}

func formatForm(f Form) string {
	infra := "Отсутствует"
	if len(f.Infrastructure) > 0 {
		labels := make([]string, 0, len(f.Infrastructure))
		for _, i := range f.Infrastructure {
			labels = append(labels, i.Label())
		}
		infra = strings.Join(labels, ", ")
	}

	power := "не указана"
	if f.ElectricityPower != nil {
		power = formatNumber(*f.ElectricityPower) + " кВт"
	}
	budget := "не указан"
	if f.InvestmentBudget != nil {
		budget = formatMoney(*f.InvestmentBudget)
	}

	return fmt.Sprintf("Площадь: %s га\nЗона: %s\nИнфраструктура: %s\nМощность: %s\nБюджет: %s",
		formatNumber(f.Area), f.ZoneType.Label(), infra, power, budget)
}
