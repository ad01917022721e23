package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/matzehuels/netscope/pkg/errors"
)

const maxBodySize = 1 << 20

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// respond writes v as JSON with the given status.
func respond(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps err's code to an HTTP status.
func respondError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	respond(w, statusFor(code), errorResponse{Error: errors.UserMessage(err), Code: code})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodeNetworkNotFound, errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath, errors.ErrCodeInvalidSource:
		return http.StatusBadRequest
	case errors.ErrCodeLoad, errors.ErrCodeReferentialIntegrity:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeStaleLoad:
		return http.StatusConflict
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a single JSON value from the request body into a T. An
// empty body decodes to the zero value.
func decode[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	var data T
	if err := dec.Decode(&data); err != nil {
		if stderrors.Is(err, io.EOF) {
			return data, nil
		}
		return data, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request")
	}

	var trailing struct{}
	if err := dec.Decode(&trailing); err != io.EOF {
		if err == nil {
			return data, errors.New(errors.ErrCodeInvalidFormat, "body must contain a single JSON value")
		}
		return data, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request")
	}
	return data, nil
}
