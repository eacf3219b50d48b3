package response

import "strings"

// Fixed user-facing replies of the dialogue controller
const (
	ParseFailureMessage     = "Something went wrong during response parsing. Try to give clear prompts."
	BookingSuccessMessage   = "Your interview is scheduled successfully"
	BookingDuplicateMessage = "An interview is already booked for this email"
	missingFieldsPrefix     = "Please provide the missing fields: "
)

// MissingFieldsMessage lists field names exactly as given, comma separated.
func MissingFieldsMessage(fields []string) string {
	return missingFieldsPrefix + strings.Join(fields, ",")
}
