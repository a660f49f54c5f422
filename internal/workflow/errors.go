package workflow

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable
// guidance. Users can quote the code to support staff for faster diagnosis.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. Patterns are matched using strings.Contains and the first match
// wins, so more specific patterns come before general ones.
//
// Codes are grouped by category:
//
//	WB001-WB099   workbook and import errors
//	VAL001-VAL099 validation and step gating
//	STEP001-..    workflow state errors
//	DRAFT001-..   draft persistence
//	EXP001-..     export
var errorPatterns = []errorPattern{
	// Workbook / import
	{
		pattern: "sheet",
		msg: UserMessage{
			Message: "Die erwartete Tabelle fehlt in der Datei",
			Action:  "Prüfen Sie, ob die richtige Vorlage hochgeladen wurde",
			Code:    "WB001",
		},
	},
	{
		pattern: "zip",
		msg: UserMessage{
			Message: "Die Datei ist keine gültige Excel-Datei",
			Action:  "Laden Sie eine .xlsx-Datei hoch",
			Code:    "WB002",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "Die hochgeladene Datei ist leer",
			Action:  "Laden Sie eine ausgefüllte Protokolldatei hoch",
			Code:    "WB003",
		},
	},

	// Export
	{
		pattern: "export refused",
		msg: UserMessage{
			Message: "Export nicht möglich, das Protokoll enthält noch Fehler",
			Action:  "Beheben Sie alle Fehler und exportieren Sie erneut",
			Code:    "EXP001",
		},
	},
	{
		pattern: "template capacity",
		msg: UserMessage{
			Message: "Zu viele Positionen für die Vorlage",
			Action:  "Teilen Sie das Protokoll auf oder wenden Sie sich an den Support",
			Code:    "EXP002",
		},
	},
	{
		pattern: "unknown document type",
		msg: UserMessage{
			Message: "Unbekannter Dokumenttyp",
			Action:  "Wählen Sie Aufmaß oder Protokoll",
			Code:    "EXP003",
		},
	},

	// Validation / gating
	{
		pattern: "validation errors",
		msg: UserMessage{
			Message: "Der Schritt enthält noch Fehler",
			Action:  "Beheben Sie die markierten Felder und versuchen Sie es erneut",
			Code:    "VAL001",
		},
	},
	{
		pattern: "unknown field",
		msg: UserMessage{
			Message: "Unbekanntes Feld",
			Action:  "Laden Sie die Seite neu und versuchen Sie es erneut",
			Code:    "VAL002",
		},
	},

	// Workflow state
	{
		pattern: "already at first step",
		msg: UserMessage{
			Message: "Dies ist bereits der erste Schritt",
			Action:  "Ein weiterer Schritt zurück ist nicht möglich",
			Code:    "STEP001",
		},
	},
	{
		pattern: "already at last step",
		msg: UserMessage{
			Message: "Dies ist bereits der letzte Schritt",
			Action:  "Exportieren Sie das Dokument, um abzuschließen",
			Code:    "STEP002",
		},
	},
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Die Sitzung wurde nicht gefunden",
			Action:  "Die Sitzung ist abgelaufen. Starten Sie eine neue Sitzung",
			Code:    "STEP003",
		},
	},

	// Draft persistence
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Der Entwurfsspeicher ist nicht erreichbar",
			Action:  "Ihre Eingaben bleiben in dieser Sitzung erhalten. Versuchen Sie es später erneut",
			Code:    "DRAFT001",
		},
	},
	{
		pattern: "snapshot schema",
		msg: UserMessage{
			Message: "Der gespeicherte Entwurf stammt aus einer neueren Version",
			Action:  "Aktualisieren Sie die Anwendung, um den Entwurf zu laden",
			Code:    "DRAFT002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Zeitüberschreitung beim Speichern",
			Action:  "Versuchen Sie es erneut",
			Code:    "DRAFT003",
		},
	},

}

// defaultMessage is returned when no pattern matches. Support staff should
// check application logs for the original technical error on ERR000.
var defaultMessage = UserMessage{
	Message: "Ein unerwarteter Fehler ist aufgetreten",
	Action:  "Versuchen Sie es erneut oder wenden Sie sich an den Support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. It
// searches the known patterns case-insensitively and returns the first
// match, or the ERR000 fallback.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
