package i18n

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondWithError sends an appropriate HTTP error response for the given error
func RespondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	// Default status for any kind of error
	statusCode := http.StatusInternalServerError
	errorMsg := TranslateError(c, err)

	// Try to extract status code from error
	var errWithCode *ErrorWithCode
	if errors.As(err, &errWithCode) {
		statusCode = int(errWithCode.GetCode())
	}

	c.JSON(statusCode, gin.H{"error": errorMsg})
}

// RespondWithSuccess sends a success HTTP response with an internationalized message
func RespondWithSuccess(c *gin.Context, statusCode int, msgID string, data map[string]any, payload interface{}) {
	message := TranslateMessage(c, msgID, data)

	response := gin.H{
		"message": message,
	}

	if data != nil {
		for k, v := range data {
			response[k] = v
		}
	}

	if payload != nil {
		switch p := payload.(type) {
		case map[string]any:
			for k, v := range p {
				response[k] = v
			}
		case gin.H:
			for k, v := range p {
				response[k] = v
			}
		default:
			response["data"] = payload
		}
	}

	c.JSON(statusCode, response)
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	StatusCode ErrorCode
	Err        error
}

// Send sends the error response to the client
func (r *ErrorResponse) Send(c *gin.Context) {
	RespondWithError(c, r.Err)
}

// Error creates an error response from a predefined error constant
func Error(predefinedErr error) *ErrorResponse {
	statusCode := ErrorInternalServer
	var errWithCode *ErrorWithCode
	if errors.As(predefinedErr, &errWithCode) {
		statusCode = errWithCode.GetCode()
	}
	return &ErrorResponse{
		StatusCode: statusCode,
		Err:        predefinedErr,
	}
}

// detailMessageID deliberately has no bundle entry so the error's default
// message, the backend's own text, always answers.
const detailMessageID = "BackendDetail"

// Detail creates an error response that relays a reason the backend wrote
// for the user verbatim, keeping the backend's status code
func Detail(status int, detail string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: ErrorCode(status),
		Err: &ErrorWithCode{
			I18nError: NewWithMessage(detailMessageID, detail),
			Code:      ErrorCode(status),
		},
	}
}
