package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/suteetoe/hrms/internal/apperror"
	"github.com/suteetoe/hrms/pkg/logger"
	"go.uber.org/zap"
)

// Validator adapts go-playground/validator to echo.Validator. Failures come
// back as MalformedInput naming the first offending JSON field.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperror.Wrap(apperror.KindMalformedInput, describe(verrs[0]), err)
	}
	return apperror.Wrap(apperror.KindMalformedInput, "invalid request", err)
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must not be empty"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "datetime":
		return field + " must be in YYYY-MM-DD format"
	}
	return field + " is invalid"
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindInvalidReference, apperror.KindBlockedDelete:
		return http.StatusBadRequest
	case apperror.KindMalformedInput:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// respond writes err as an ErrorResponse. Unclassified errors are logged and
// reported without their cause.
func respond(c echo.Context, err error) error {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		logger.FromEcho(c).Error("Request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "INTERNAL"})
	}
	status := statusFor(appErr.Kind)
	logger.FromEcho(c).Warn("Request rejected",
		zap.String("code", string(appErr.Kind)),
		zap.Int("status", status),
		zap.String("reason", appErr.Message))
	return c.JSON(status, ErrorResponse{Error: appErr.Message, Code: string(appErr.Kind)})
}

// badBody answers a request whose body could not be decoded at all
func badBody(c echo.Context, err error) error {
	logger.FromEcho(c).Warn("Invalid request body", zap.Error(err))
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: string(apperror.KindMalformedInput)})
}

// ErrorHandler renders errors that reach echo itself (unknown routes, wrong
// methods, panics caught by Recover) in the same shape as handler errors.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			msg = m
		}
		code := "INTERNAL"
		if he.Code < http.StatusInternalServerError {
			code = strings.ToUpper(strings.ReplaceAll(http.StatusText(he.Code), " ", "_"))
		}
		_ = c.JSON(he.Code, ErrorResponse{Error: msg, Code: code})
		return
	}
	_ = respond(c, err)
}

// firstNonEmpty supports accepting both snake_case and camelCase spellings
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
