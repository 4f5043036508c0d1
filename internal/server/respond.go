package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"edge-calculator/internal/analysis"
	"edge-calculator/internal/odds"
	"edge-calculator/internal/positions"
	"edge-calculator/internal/stake"
)

// badInput lists the errors caused by the caller's data.
var badInput = []error{
	odds.ErrInvalidOdds,
	odds.ErrInvalidMarket,
	odds.ErrDegenerateMarket,
	odds.ErrUnknownFormat,
	analysis.ErrInvalidStake,
	analysis.ErrInvalidProbability,
	analysis.ErrInvalidCombo,
	analysis.ErrInvalidMiddle,
	stake.ErrInvalidBankroll,
	stake.ErrInvalidKellyFraction,
	stake.ErrUnknownMode,
	stake.ErrAllocationRequired,
	positions.ErrInvalidPosition,
}

// decode reads a JSON body into dst and runs its validate tags.
func (s *Server) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &requestError{msg: "invalid request: " + err.Error()}
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return formatValidationErrors(verrs)
		}
		return &requestError{msg: "invalid request: " + err.Error()}
	}
	return nil
}

// requestError is a malformed or incomplete request body.
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func formatValidationErrors(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		}
	}
	return &requestError{msg: "invalid request: " + strings.Join(msgs, "; ")}
}

// statusFor maps an error to the HTTP status it should be reported with.
func statusFor(err error) int {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return http.StatusBadRequest
	}
	if errors.Is(err, positions.ErrNotFound) {
		return http.StatusNotFound
	}
	for _, target := range badInput {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// fail reports err to the client, logging anything that is not the caller's fault.
func (s *Server) fail(w http.ResponseWriter, operation string, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.log.WithError(err).WithField("operation", operation).Error("request failed")
		s.notifier.LogError(operation, err)
		respondError(w, code, "internal error")
		return
	}
	respondError(w, code, err.Error())
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
