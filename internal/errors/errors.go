package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/debtdesk/api/internal/middleware"
	"github.com/stwalsh4118/debtdesk/api/internal/validation"
)

// Error code constants for standardized error responses
const (
	ErrNotFound           = "NOT_FOUND"
	ErrBadRequest         = "BAD_REQUEST"
	ErrInternalServer     = "INTERNAL_SERVER_ERROR"
	ErrValidation         = "VALIDATION_ERROR"
	ErrDatabaseConnection = "DATABASE_CONNECTION_ERROR"
	ErrDocument           = "DOCUMENT_ERROR"
	ErrForbidden          = "FORBIDDEN"
	ErrUnauthorized       = "UNAUTHORIZED"
)

// Messages shown to clients when nothing more specific is known.
const (
	MsgInternal   = "Сталася непередбачена помилка. Спробуйте пізніше або зверніться до адміністратора"
	MsgValidation = "Некоректні дані запиту"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Message   string                 `json:"message"`
	Code      string                 `json:"code"`
	RequestID string                 `json:"request_id,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Respond writes an error response with the given status and code and logs
// it at warn level. Use InternalServerError for 5xx.
func Respond(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	logFields := map[string]interface{}{
		"code":       code,
		"message":    message,
		"request_id": requestID,
		"path":       c.Request.URL.Path,
	}
	if details != nil {
		logFields["details"] = details
	}
	if log != nil {
		log.Warn("Request rejected", logFields)
	}

	c.JSON(status, ErrorResponse{
		Message:   message,
		Code:      code,
		RequestID: requestID,
		Details:   details,
	})
}

// NotFound returns a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	Respond(c, http.StatusNotFound, ErrNotFound, message, nil)
}

// BadRequest returns a 400 Bad Request error response with optional details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	Respond(c, http.StatusBadRequest, ErrBadRequest, message, details)
}

// DocumentError returns a 400 response for a document that could not be
// generated. The status stays 400 for compatibility with existing clients.
func DocumentError(c *gin.Context, message string) {
	Respond(c, http.StatusBadRequest, ErrDocument, message, nil)
}

// Forbidden returns a 403 Forbidden error response.
func Forbidden(c *gin.Context, message string) {
	Respond(c, http.StatusForbidden, ErrForbidden, message, nil)
}

// InternalServerError returns a 500 Internal Server Error response.
// The error is logged with full context; the client only sees the message.
func InternalServerError(c *gin.Context, message string, err error) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	if log != nil {
		log.Error("Internal server error", err, map[string]interface{}{
			"message":    message,
			"request_id": requestID,
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
		})
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message:   message,
		Code:      ErrInternalServer,
		RequestID: requestID,
	})
}

// ValidationError returns a 400 Bad Request error response with field-specific validation errors.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	details := make(map[string]interface{}, len(validationErrors))
	for _, err := range validationErrors {
		details[err.Field()] = formatValidationError(err)
	}
	Respond(c, http.StatusBadRequest, ErrValidation, MsgValidation, details)
}

// formatValidationError converts a validator.FieldError to a Ukrainian message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "Поле обов'язкове"
	case "min":
		return "Значення замале (мінімум: " + err.Param() + ")"
	case "max":
		return "Значення завелике (максимум: " + err.Param() + ")"
	case "len":
		return "Довжина має бути " + err.Param()
	case "gt":
		return "Значення має бути більшим за " + err.Param()
	case "gte":
		return "Значення має бути не меншим за " + err.Param()
	case "lt":
		return "Значення має бути меншим за " + err.Param()
	case "lte":
		return "Значення має бути не більшим за " + err.Param()
	case "oneof":
		return "Допустимі значення: " + err.Param()
	case "ip":
		return "Некоректна IP-адреса"
	case "numeric":
		return "Значення має бути числом"
	case validation.IBANTag:
		return "IBAN має складатися з UA та 27 цифр"
	default:
		return "Некоректне значення (" + err.Tag() + ")"
	}
}
