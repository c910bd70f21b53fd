package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/tuanvumaihuynh/stock-assistant/internal/apperr"
	"github.com/tuanvumaihuynh/stock-assistant/internal/http/apierr"
	"github.com/tuanvumaihuynh/stock-assistant/pkg/validator"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Service) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding response", slog.Any("error", err))
	}
}

func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	s.writeJSON(w, r, res.StatusCode, res)
}

// decodeAndValidate reads a JSON body into dst and validates it. An empty body is accepted
// when allowEmpty is set and leaves dst untouched.
func (s *Service) decodeAndValidate(r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return apperr.BadRequestErr.WrapParent(err)
	}

	if err := s.validator.Validate(dst); err != nil {
		if validator.IsValidationError(err) {
			return apperr.ValidationErr.WrapParent(err)
		}
		return fmt.Errorf("validate request: %w", err)
	}
	return nil
}
