package http

import (
	"errors"
	"net/http"

	"cyber-doctor/internal/chat"
	"cyber-doctor/pkg/response"
)

var (
	errEmptyRequest = response.NewHTTPError(http.StatusBadRequest, "message or file is required")
	errTooLarge     = response.NewHTTPError(http.StatusRequestEntityTooLarge, "upload too large")
	errBadUpload    = response.NewHTTPError(http.StatusBadRequest, "invalid upload")
	errMissingID    = response.NewHTTPError(http.StatusBadRequest, "session id is required")
	errBadImage     = response.NewHTTPError(http.StatusBadRequest, "images must be http(s) URLs")
)

// mapError translates chat errors into HTTP errors.
func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, chat.ErrEmptySession):
		return errMissingID
	default:
		return response.NewHTTPError(http.StatusInternalServerError, response.DefaultErrorMessage)
	}
}
