package ginx

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"freshmart/internal/app/pkg/errorx"
)

// Response unified response envelope
type Response struct {
	Meta Meta        `json:"meta"`
	Data interface{} `json:"data,omitempty"`
}

// Meta status of the response
type Meta struct {
	Code    int           `json:"code" example:"200"`
	Message string        `json:"message" example:"OK"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail points at the offending input field
type ErrorDetail struct {
	Path string `json:"path" example:"phone"`
	Info string `json:"info" example:"phone is required"`
}

// SetupValidator makes binding errors report JSON field names instead of Go field names.
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	}
}

// Success 200
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Meta: Meta{
			Code:    http.StatusOK,
			Message: "OK",
		},
		Data: data,
	})
}

// Created 201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Meta: Meta{
			Code:    http.StatusCreated,
			Message: "Created",
		},
		Data: data,
	})
}

// Error error response without data
func Error(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, Response{
		Meta: Meta{
			Code:    httpCode,
			Message: message,
		},
	})
}

// ErrorWithDetails error response with field details
func ErrorWithDetails(c *gin.Context, httpCode int, message string, details []ErrorDetail) {
	c.JSON(httpCode, Response{
		Meta: Meta{
			Code:    httpCode,
			Message: message,
			Details: details,
		},
	})
}

// FromError renders err with the status of its kind. Internal errors are logged by the
// caller and answered with a generic message.
func FromError(c *gin.Context, err error) {
	status := errorx.HTTPStatus(err)

	var ve *errorx.ValidationError
	var be *errorx.BusinessError
	switch {
	case errors.As(err, &be):
		details := make([]ErrorDetail, 0, len(be.Details))
		for _, d := range be.Details {
			details = append(details, ErrorDetail{Path: d.Path, Info: d.Info})
		}
		ErrorWithDetails(c, status, be.Message, details)
	case errors.As(err, &ve):
		if ve.Field == "" {
			Error(c, status, ve.Message)
			return
		}
		ErrorWithDetails(c, status, ve.Message, []ErrorDetail{{Path: ve.Field, Info: ve.Message}})
	case status == http.StatusInternalServerError:
		InternalError(c, "Server error")
	default:
		Error(c, status, err.Error())
	}
}

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// BadRequestWithValidation 400 from a binding error, with validator details when available
func BadRequestWithValidation(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]ErrorDetail, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details = append(details, ErrorDetail{
				Path: fieldErr.Field(),
				Info: getValidationErrorMessage(fieldErr),
			})
		}
		ErrorWithDetails(c, http.StatusBadRequest, "Validation failed", details)
		return
	}

	BadRequest(c, "Invalid request body")
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError 500
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

func getValidationErrorMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fieldErr.Field() + " is required"
	case "min":
		return fieldErr.Field() + " must be at least " + fieldErr.Param()
	case "max":
		return fieldErr.Field() + " must be at most " + fieldErr.Param()
	case "oneof":
		return fieldErr.Field() + " must be one of " + fieldErr.Param()
	case "url":
		return fieldErr.Field() + " must be a valid URL"
	default:
		return fieldErr.Field() + " is invalid"
	}
}
