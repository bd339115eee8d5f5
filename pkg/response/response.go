package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	appErrors "github.com/learnroot/learnroot-api/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError carries field-level validation detail.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// JSON sends a success response with an optional message.
func JSON(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// OK responds with HTTP 200.
func OK(c *gin.Context, data interface{}, message string) {
	JSON(c, http.StatusOK, data, message)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}, message string) {
	JSON(c, http.StatusCreated, data, message)
}

// Error converts the error to the common structure. Untyped errors are
// reported as a generic internal failure so no detail leaks to clients.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	envelope := Envelope{Success: false, Message: appErr.Message}
	if appErr.Code == appErrors.ErrInternal.Code {
		envelope.Message = appErrors.ErrInternal.Message
	}
	for _, field := range appErr.Fields {
		envelope.Errors = append(envelope.Errors, FieldError{Field: field, Message: "invalid value"})
	}
	if verrs := validationErrors(appErr); len(verrs) > 0 {
		envelope.Errors = verrs
	}
	c.JSON(appErr.Status, envelope)
}

func validationErrors(err *appErrors.Error) []FieldError {
	var verrs validator.ValidationErrors
	if !appErrorAs(err, &verrs) {
		return nil
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: validationMessage(fe)})
	}
	return fields
}

func appErrorAs(err *appErrors.Error, target *validator.ValidationErrors) bool {
	if err == nil || err.Err == nil {
		return false
	}
	verrs, ok := err.Err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = verrs
	return true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "is too short"
	case "max":
		return "is too long"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
