package advisor

import (
	"errors"
	"strings"

	"google.golang.org/genai"
)

// ErrEmptyPrompt is returned when Dispatch is called with blank input.
var ErrEmptyPrompt = errors.New("advisor: empty prompt")

// ErrMissingAPIKey is returned when the client is constructed without a
// credential. Failing here beats a cryptic downstream API error.
var ErrMissingAPIKey = errors.New("advisor: GEMINI_API_KEY is not set")

// ValidationError marks a structured model response that failed schema
// validation. The whole batch is rejected; the user should rephrase.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "advisor: invalid model response: " + e.Reason
}

// IsValidationError reports whether err is a batch validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsQuotaExceeded recognizes the rate-limit signature of the external
// API: HTTP 429, or an error message mentioning "429" or "quota".
func IsQuotaExceeded(err error) bool {
	if err == nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota")
}
