package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/xaenox/trendpulse/internal/models"
)

// Callback data prefixes. Telegram limits callback data to 64 bytes.
const (
	callbackZone   = "zone"
	callbackInfra  = "infra"
	callbackReport = "report"
	infraDone      = "done"
)

func zoneKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(models.ZoneTypes))
	for _, z := range models.ZoneTypes {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(z.Label(), callbackZone+":"+string(z)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// infrastructureKeyboard shows one toggle per utility, two per row, and the
// confirm button.
func infrastructureKeyboard(f Form) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, infra := range models.InfrastructureTypes {
		label := infra.Label()
		if f.hasInfrastructure(infra) {
			label = "✔️ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, callbackInfra+":"+string(infra)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✅ Готово", callbackInfra+":"+infraDone),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func reportKeyboard(scenarioID int64) tgbotapi.InlineKeyboardMarkup {
	id := strconv.FormatInt(scenarioID, 10)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 "+models.ReportPreFeasibility.Label(),
				fmt.Sprintf("%s:%s:%s", callbackReport, id, models.ReportPreFeasibility)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 "+models.ReportInvestmentMemo.Label(),
				fmt.Sprintf("%s:%s:%s", callbackReport, id, models.ReportInvestmentMemo)),
		),
	)
}

// parseCallback splits "kind:arg[:arg]" data.
func parseCallback(data string) (kind string, args []string) {
	parts := strings.Split(data, ":")
	return parts[0], parts[1:]
}
