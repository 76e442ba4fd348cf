package assembler

import (
	"fmt"
	"time"

	"garment-designlab/internal/models"
)

// ToAPIError normalizes a failed response. The backend message is kept
// verbatim when present.
func ToAPIError(body models.ErrorResponse, status int) *models.APIError {
	message := body.Message
	if message == "" {
		message = body.Detail
	}
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}

	code := body.Error
	if code == "" {
		code = models.CodeUnknownError
	}

	ts := time.Now().UTC()
	if body.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, body.Timestamp); err == nil {
			ts = parsed
		}
	}

	return &models.APIError{
		Message:   message,
		Code:      code,
		Status:    status,
		Timestamp: ts,
	}
}
