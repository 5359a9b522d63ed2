package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/erazemk/goodsledger/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type errorBody struct {
	Error   string        `json:"error"`
	Code    string        `json:"code,omitempty"`
	Details []fieldDetail `json:"details,omitempty"`
}

type fieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			zap.L().Warn("error encoding response", zap.Error(err))
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, errorBody{Error: message})
}

// domainError writes a domain failure as 422 or 404 and anything else as
// 500, logging the latter.
func domainError(w http.ResponseWriter, err error, action string) {
	var e *model.Error
	if errors.As(err, &e) {
		status := http.StatusUnprocessableEntity
		if e.Kind == model.KindNotFound {
			status = http.StatusNotFound
		}
		jsonResponse(w, status, errorBody{Error: err.Error(), Code: e.Code})
		return
	}

	zap.L().Error("failed to "+action, zap.Error(err))
	jsonError(w, http.StatusInternalServerError, "failed to "+action)
}

// decodeJSON decodes and validates a JSON request body. On failure it writes
// a 400 response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := validate.Struct(target); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			jsonError(w, http.StatusBadRequest, "invalid request body")
			return false
		}
		body := errorBody{Error: "request validation failed"}
		for _, fe := range fieldErrs {
			field := fe.Namespace()
			if _, rest, ok := strings.Cut(field, "."); ok {
				field = rest
			}
			body.Details = append(body.Details, fieldDetail{Field: field, Message: validationMessage(fe)})
		}
		jsonResponse(w, http.StatusBadRequest, body)
		return false
	}
	return true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " entries"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "datetime":
		return "must be a date formatted as " + fe.Param()
	default:
		return "invalid value"
	}
}
