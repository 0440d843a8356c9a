package constants

// Spreadsheet API error codes
// These constants define specific error scenarios for the external
// spreadsheet service.

const (
	ErrCodeInvalidToken       = "INVALID_TOKEN"
	ErrCodeSpreadsheetMissing = "SPREADSHEET_NOT_FOUND"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeNetworkError       = "NETWORK_ERROR"
	ErrCodeRangeMalformed     = "RANGE_MALFORMED"
)

var errorMessages = map[string]string{
	ErrCodeInvalidToken:       "Spreadsheet API token was rejected",
	ErrCodeSpreadsheetMissing: "Spreadsheet or sheet not found",
	ErrCodeRateLimited:        "Spreadsheet API rate limit exceeded",
	ErrCodeNetworkError:       "Network error while calling spreadsheet API",
	ErrCodeRangeMalformed:     "Requested range could not be parsed",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "Unknown spreadsheet API error"
}
