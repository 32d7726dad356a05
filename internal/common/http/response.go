package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	commonerrors "github.com/AlibekovAA/tasktrack/internal/common/errors"
	"github.com/AlibekovAA/tasktrack/internal/common/validation"
)

type DataEnvelope struct {
	Data any `json:"data"`
}

type SuccessEnvelope struct {
	Success bool `json:"success"`
}

type ErrorEnvelope struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
	TraceID string         `json:"trace_id,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, DataEnvelope{Data: data})
}

func WriteSuccess(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, SuccessEnvelope{Success: true})
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteErrorEnvelope(w, status, code, message, nil, "")
}

func WriteErrorEnvelope(w http.ResponseWriter, status int, code, message string, details map[string]any, traceID string) {
	env := ErrorEnvelope{Error: message, Code: code}
	if len(details) > 0 {
		env.Details = details
	}
	if traceID != "" {
		env.TraceID = traceID
	}
	WriteJSON(w, status, env)
}

// DecodeJSON decodes a single JSON object from the body. An empty body decodes as {}.
func DecodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrRequestTooLarge
		}
		return commonerrors.ErrInvalidJSON.WithCause(err)
	}
	if dec.More() {
		return commonerrors.ErrInvalidJSON
	}
	return nil
}

// DecodeAndValidate decodes the body into v and runs its validate tags. On
// failure it writes the error response and returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, errs *ErrorHandler, v any) bool {
	if err := DecodeJSON(r, v); err != nil {
		errs.HandleError(w, r, err)
		return false
	}
	if err := validation.Struct(v); err != nil {
		errs.HandleError(w, r, err)
		return false
	}
	return true
}
