package bot

// User facing texts.
const (
	msgWelcome      = "Willkommen zum CoinWatcher Bot! Wähle eine Option:"
	msgNoPermission = "Du hast keine Berechtigung, diese Aktion durchzuführen."
	msgUseStart     = "Nutze /start, um das Hauptmenü aufzurufen."

	msgPromptAddCoin      = "Bitte sende den Coin-ID und die Schwelle in folgendem Format: `coin_id,schwelle`.\nBeispiel: `bitcoin,5`"
	msgPromptRemoveCoin   = "Bitte sende den Coin-ID zum Entfernen.\nBeispiel: `bitcoin`"
	msgPromptRunThreshold = "Bitte sende den neuen `RUN_THRESHOLD_PERCENT`.\nBeispiel: `15`"
	msgPromptRunPeriods   = "Bitte sende den neuen `RUN_CONSECUTIVE_PERIODS`.\nBeispiel: `7`"
	msgPromptBroadcast    = "Bitte sende die Nachricht, die du an alle Nicht-Admin-Nutzer senden möchtest."
	msgRunConfig          = "Run-Konfiguration wählen:"

	msgAddCoinFormat     = "Fehlerhaftes Format. Verwende: `coin_id,schwelle`.\nBeispiel: `bitcoin,5`"
	msgInvalidThreshold  = "Ungültiger Wert. Bitte sende eine positive Zahl.\nBeispiel: `15`"
	msgInvalidPeriods    = "Ungültiger Wert. Bitte sende eine positive ganze Zahl.\nBeispiel: `7`"
	msgNoRecipients      = "Es gibt keine Nicht-Admin-Nutzer, an die eine Nachricht gesendet werden kann."
	msgBroadcastDone     = "Broadcast-Nachricht erfolgreich gesendet."
	msgBroadcastFailed   = "Fehler beim Senden der Broadcast-Nachricht: %v"
	msgAddCoinFailed     = "Fehler beim Hinzufügen des Coins: %v"
	msgRemoveCoinFailed  = "Fehler beim Entfernen des Coins: %v"
	msgSettingFailed     = "Fehler beim Speichern der Einstellung: %v"
	msgCoinAdded         = "%s wird jetzt mit einer Schwelle von %s%% überwacht."
	msgCoinRemoved       = "%s wurde aus der Überwachung entfernt."
	msgRunThresholdSaved = "`RUN_THRESHOLD_PERCENT` wurde auf %s%% gesetzt."
	msgRunPeriodsSaved   = "`RUN_CONSECUTIVE_PERIODS` wurde auf %d gesetzt."

	msgCoinListHeader = "Überwachte Coins:"
	msgCoinListItem   = "- %s (Schwelle: %s%%)"
	msgNoCoins        = "Es werden derzeit keine Coins überwacht."
	msgEmptyBroadcast = "Leere Nachricht."
)

const helpAdmin = "📋 **Hilfe-Menü für Admins**\n\n" +
	"/start - Zeigt das Hauptmenü an.\n" +
	"/help - Zeigt dieses Hilfemenü an.\n\n" +
	"Im Hauptmenü stehen folgende Optionen zur Verfügung:\n" +
	"• Coin hinzufügen - Fügt eine neue Kryptowährung zur Überwachung hinzu.\n" +
	"• Coin entfernen - Entfernt eine Kryptowährung aus der Überwachung.\n" +
	"• Überwachte Coins anzeigen - Listet alle derzeit überwachten Kryptowährungen auf.\n" +
	"• Run-Konfiguration - Ermöglicht das Ändern der Run-Parameter.\n" +
	"• Broadcast Nachricht - Sendet eine Nachricht an alle Nicht-Admin-Nutzer.\n"

const helpUser = "📋 **Hilfe-Menü**\n\n" +
	"/start - Zeigt das Hauptmenü an.\n" +
	"/help - Zeigt dieses Hilfemenü an.\n\n" +
	"Im Hauptmenü steht folgende Option zur Verfügung:\n" +
	"• Überwachte Coins anzeigen - Listet alle derzeit überwachten Kryptowährungen auf.\n"
