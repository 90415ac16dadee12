package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sboli/rcstrap/internal/constants"
	"github.com/sboli/rcstrap/internal/rcs"
	"github.com/sboli/rcstrap/internal/service"
)

const badRequestDetailType = "type.googleapis.com/google.rpc.BadRequest"

// GoogleError is the protocol-style error body returned on every failure:
// {error: {code, message, status, details?}}.
type GoogleError struct {
	Error GoogleErrorBody `json:"error"`
}

type GoogleErrorBody struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Status  string              `json:"status"`
	Details []GoogleErrorDetail `json:"details,omitempty"`
}

type GoogleErrorDetail struct {
	Type            string          `json:"@type"`
	FieldViolations []rcs.Violation `json:"fieldViolations,omitempty"`
}

// ErrorHandler maps service errors onto the Google-style error body.
// Validation failures carry one field-violation entry per failed rule.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(newGoogleError(fiberErr.Code, fiberErr.Message, nil))
		}

		return c.Status(fiber.StatusInternalServerError).JSON(newGoogleError(
			fiber.StatusInternalServerError, constants.ErrMsgInternalError, nil))
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error) error {
	code := err.Code

	status := constants.GetHTTPStatus(code)
	if status == 500 && code != constants.ErrCodeInternalError {
		code = constants.ErrCodeInternalError
	}

	message := constants.GetErrorMessage(code)
	if err.Cause != nil {
		message = err.Cause.Error()
	}

	return c.Status(status).JSON(newGoogleError(status, message, err.Violations))
}

func newGoogleError(httpStatus int, message string, violations []rcs.Violation) GoogleError {
	body := GoogleErrorBody{
		Code:    httpStatus,
		Message: message,
		Status:  constants.GetRPCStatus(httpStatus),
	}

	if len(violations) > 0 {
		body.Details = []GoogleErrorDetail{{
			Type:            badRequestDetailType,
			FieldViolations: violations,
		}}
	}

	return GoogleError{Error: body}
}
