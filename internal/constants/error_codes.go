package constants

const (
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodePreconditionFailed = "PRECONDITION_FAILED"
	ErrCodeMessageNotFound    = "MESSAGE_NOT_FOUND"
	ErrCodeInvalidPhone       = "INVALID_PHONE"
	ErrCodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	ErrCodeUnknownConfigKey   = "UNKNOWN_CONFIG_KEY"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

const (
	ErrMsgValidationFailed   = "message payload failed validation"
	ErrMsgPreconditionFailed = "cannot revoke an already-delivered message"
	ErrMsgMessageNotFound    = "message not found"
	ErrMsgInvalidPhone       = "phone number must be in E.164 format (e.g., +15551234567)"
	ErrMsgInvalidRequestBody = "failed to parse request body"
	ErrMsgUnknownConfigKey   = "unknown configuration key"
	ErrMsgInternalError      = "internal server error"
)

var errorMessages = map[string]string{
	ErrCodeValidationFailed:   ErrMsgValidationFailed,
	ErrCodePreconditionFailed: ErrMsgPreconditionFailed,
	ErrCodeMessageNotFound:    ErrMsgMessageNotFound,
	ErrCodeInvalidPhone:       ErrMsgInvalidPhone,
	ErrCodeInvalidRequestBody: ErrMsgInvalidRequestBody,
	ErrCodeUnknownConfigKey:   ErrMsgUnknownConfigKey,
	ErrCodeInternalError:      ErrMsgInternalError,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodePreconditionFailed, ErrCodeInvalidPhone,
		ErrCodeInvalidRequestBody, ErrCodeUnknownConfigKey:
		return 400
	case ErrCodeMessageNotFound:
		return 404
	case ErrCodeInternalError:
		return 500
	default:
		return 500
	}
}

// GetRPCStatus maps an HTTP status code onto the coarse RPC status string
// used by the Google-style error body.
func GetRPCStatus(httpStatus int) string {
	switch httpStatus {
	case 400:
		return "INVALID_ARGUMENT"
	case 401:
		return "UNAUTHENTICATED"
	case 403:
		return "PERMISSION_DENIED"
	case 404:
		return "NOT_FOUND"
	case 409:
		return "ALREADY_EXISTS"
	case 429:
		return "RESOURCE_EXHAUSTED"
	case 500:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}
