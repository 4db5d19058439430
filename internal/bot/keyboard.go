package bot

import tele "gopkg.in/telebot.v3"

// Callback data of the inline buttons.
const (
	cbAddCoin         = "add_coin"
	cbRemoveCoin      = "remove_coin"
	cbListCoins       = "list_coins"
	cbConfigRun       = "config_run"
	cbSetRunThreshold = "set_run_threshold"
	cbSetRunPeriods   = "set_run_periods"
	cbMainMenu        = "main_menu"
	cbBroadcast       = "broadcast"
)

func button(text, data string) []tele.InlineButton {
	return []tele.InlineButton{{Text: text, Data: data}}
}

func mainMenu(admin bool) *tele.ReplyMarkup {
	if !admin {
		return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
			button("Überwachte Coins anzeigen", cbListCoins),
		}}
	}
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		button("Coin hinzufügen", cbAddCoin),
		button("Coin entfernen", cbRemoveCoin),
		button("Überwachte Coins anzeigen", cbListCoins),
		button("Run-Konfiguration", cbConfigRun),
		button("Broadcast Nachricht", cbBroadcast),
	}}
}

func runConfigMenu() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		button("RUN_THRESHOLD_PERCENT ändern", cbSetRunThreshold),
		button("RUN_CONSECUTIVE_PERIODS ändern", cbSetRunPeriods),
		button("Zurück zum Hauptmenü", cbMainMenu),
	}}
}
