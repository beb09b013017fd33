package tasks

import (
	"fmt"
	"net/http"

	"github.com/desertthunder/coursebook/internal/services"
)

// Fallback messages, one per stage.
const (
	CoursesFailedMessage = "courses could not be loaded"
	SlotsFailedMessage   = "slots could not be loaded"
	BookingFailedMessage = "booking failed"
)

// BookingCodeMessages maps the service's symbolic booking error codes to user-facing text.
var BookingCodeMessages = map[string]string{
	"ALREADY_BOOKED": "This person is already registered for this time slot.",
	"SLOT_FULL":      "This time slot is full.",
	"UNKNOWN_SLOT":   "Unknown time slot.",
	"FIELDS_MISSING": "Please fill in all fields.",
}

// LoadErrorMessage describes a failed catalog or slot load.
//
// Preference order: server error, server message, raw body excerpt, fallback.
func LoadErrorMessage(fallback string, err error) string {
	re, ok := services.AsResponseError(err)
	if !ok {
		return fmt.Sprintf("%s: %v", fallback, err)
	}

	switch re.Kind {
	case services.KindTransport:
		return fmt.Sprintf("%s: %v", fallback, re.Err)
	case services.KindParse:
		return "invalid response from server: " + re.Excerpt
	default:
		return applicationMessage(re, fallback)
	}
}

// BookingErrorMessage describes a failed booking submission.
//
// Known codes use [BookingCodeMessages]; unknown codes are shown verbatim.
func BookingErrorMessage(err error) string {
	re, ok := services.AsResponseError(err)
	if !ok {
		return fmt.Sprintf("%s: %v", BookingFailedMessage, err)
	}

	switch re.Kind {
	case services.KindTransport:
		return fmt.Sprintf("%s: %v", BookingFailedMessage, re.Err)
	case services.KindParse:
		return "malformed response: " + re.Excerpt
	}

	if msg, ok := BookingCodeMessages[re.Code]; ok {
		return msg
	}
	return applicationMessage(re, BookingFailedMessage)
}

func applicationMessage(re *services.ResponseError, fallback string) string {
	switch {
	case re.Code != "":
		return re.Code
	case re.Message != "":
		return re.Message
	case re.StatusCode != 0 && (re.StatusCode < 200 || re.StatusCode >= 300):
		return fmt.Sprintf("%s (status %d %s)", fallback, re.StatusCode, http.StatusText(re.StatusCode))
	default:
		return fallback
	}
}
