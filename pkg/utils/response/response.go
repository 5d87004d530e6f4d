package response

import (
	"net/http"

	"fantasy/pkg/errors"
	"fantasy/pkg/utils/contextkey"
	"fantasy/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the envelope every API handler writes. Data is set on
// success; Details only on errors that carry field information.
type Response struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
	Data    interface{}      `json:"data,omitempty"`
	Details interface{}      `json:"details,omitempty"`
	TraceID string           `json:"trace_id,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	SuccessWithMessage(c, errors.Success.Message(), data)
}

func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    errors.Success,
		Message: message,
		Data:    data,
		TraceID: traceID(c),
	})
}

// Error writes err with ErrorCode.HTTPStatus. Codes outside the not-found,
// auth and unavailable kinds are 400; only InternalServerError, which errors
// without a code become, is 500. Stacks are logged for 5xx responses.
func Error(c *gin.Context, err error) {
	e := errors.GetError(err)
	status := e.Code.HTTPStatus()
	logError(c, e, status)

	resp := Response{
		Code:    e.Code,
		Message: e.Error(),
		TraceID: traceID(c),
	}
	if len(e.Details) > 0 {
		resp.Details = e.Details
	}
	c.JSON(status, resp)
}

func logError(c *gin.Context, e *errors.Error, status int) {
	fields := []zap.Field{
		zap.Int("code", int(e.Code)),
		zap.String("kind", e.Kind().String()),
		zap.String("message", e.Error()),
	}
	if len(e.Details) > 0 {
		fields = append(fields, zap.Any("details", e.Details))
	}
	if e.Err != nil {
		fields = append(fields, zap.NamedError("cause", e.Err))
	}
	ctx := c.Request.Context()
	if status >= http.StatusInternalServerError {
		logger.Error(ctx, "request error", append(fields, zap.String("stack", e.Stack))...)
		return
	}
	logger.Warn(ctx, "request rejected", fields...)
}

// BadRequest writes an InvalidParams error with message.
func BadRequest(c *gin.Context, message string) {
	Error(c, errors.BadRequest(message))
}

// NotFound writes a NotFound error; an empty message uses the default.
func NotFound(c *gin.Context, message string) {
	e := errors.New(errors.NotFound)
	if message != "" {
		e.WithMessage(message)
	}
	Error(c, e)
}

// AbortWithError writes err and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

func traceID(c *gin.Context) string {
	if id := c.GetString("trace_id"); id != "" {
		return id
	}
	return contextkey.TraceIDFrom(c.Request.Context())
}
