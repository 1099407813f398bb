package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/sentiment-lab/internal/usecase"
)

// Error codes returned in the error envelope
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeMissingInput     = "MISSING_INPUT"
	CodeDatasetNotFound  = "DATASET_NOT_FOUND"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeUploadParse      = "UPLOAD_PARSE_ERROR"
	CodeModelNotReady    = "MODEL_NOT_READY"
	CodeClassifierError  = "CLASSIFIER_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
)

// RetryAfterSeconds is advertised to clients that hit a model that is still loading
const RetryAfterSeconds = "5"

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
	Details    interface{}
}

// ValidationDetails is attached to VALIDATION_FAILED errors
type ValidationDetails struct {
	MissingCount    int      `json:"missing_count"`
	MissingExamples []string `json:"missing_examples"`
}

// MapUsecaseError maps usecase errors to HTTP error responses.
// It provides consistent error handling across all handlers.
func MapUsecaseError(err error) ErrorResponse {
	var validationErr *usecase.ValidationFailedError

	switch {
	case errors.As(err, &validationErr):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       CodeValidationFailed,
			Message:    usecase.ErrValidationFailed.Error(),
			Details: ValidationDetails{
				MissingCount:    validationErr.MissingCount,
				MissingExamples: validationErr.MissingExamples,
			},
		}
	case errors.Is(err, usecase.ErrMissingInput):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       CodeMissingInput,
			Message:    err.Error(),
		}
	case errors.Is(err, usecase.ErrDatasetNotFound):
		return ErrorResponse{
			StatusCode: http.StatusNotFound,
			Code:       CodeDatasetNotFound,
			Message:    err.Error(),
		}
	case errors.Is(err, usecase.ErrUploadParse):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       CodeUploadParse,
			Message:    err.Error(),
		}
	case errors.Is(err, usecase.ErrInvalidRequest):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       CodeInvalidRequest,
			Message:    err.Error(),
		}
	case errors.Is(err, usecase.ErrModelNotReady):
		return ErrorResponse{
			StatusCode: http.StatusServiceUnavailable,
			Code:       CodeModelNotReady,
			Message:    "model is still loading, retry shortly",
		}
	case errors.Is(err, usecase.ErrClassificationFailed):
		return ErrorResponse{
			StatusCode: http.StatusBadGateway,
			Code:       CodeClassifierError,
			Message:    usecase.ErrClassificationFailed.Error(),
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeInternalError,
			Message:    "internal server error",
		}
	}
}

// HandleUsecaseError handles a usecase error by sending an appropriate HTTP response.
// It returns the mapped response so callers can record it.
func HandleUsecaseError(c *gin.Context, err error) ErrorResponse {
	errResp := MapUsecaseError(err)
	if errResp.StatusCode == http.StatusServiceUnavailable {
		c.Header("Retry-After", RetryAfterSeconds)
	}
	if errResp.StatusCode >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	respondError(c, errResp.StatusCode, errResp.Code, errResp.Message, errResp.Details)
	return errResp
}

// HandleInvalidRequest handles a generic invalid request error.
func HandleInvalidRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, CodeInvalidRequest, message, nil)
}
