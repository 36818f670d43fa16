package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gateway-data-backend/internal/gateway"
	"gateway-data-backend/internal/mw"
	"gateway-data-backend/internal/store"
)

// ErrorResponse is the body of every failed request, whatever format the
// client asked for.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body of a successful write.
type MessageResponse struct {
	Message string           `json:"message"`
	Data    *gateway.Gateway `json:"data,omitempty"`
}

// requestFormat is the format of the request body, and of the response to
// writes.
func requestFormat(c *gin.Context) gateway.Format {
	return gateway.FormatFromContentType(c.ContentType())
}

// acceptFormat is the response format a reader asked for.
func acceptFormat(c *gin.Context) gateway.Format {
	return gateway.FormatFromAccept(c.GetHeader("Accept"))
}

// render writes v in the given format.
func (h *Handler) render(c *gin.Context, status int, format gateway.Format, v any) {
	body, err := gateway.Encode(v, format)
	if err != nil {
		h.fail(c, fmt.Errorf("encode response: %w", err))
		return
	}
	c.Data(status, format.MIME(), body)
}

// fail maps err onto a status code and an error body. Unexpected errors are
// logged and reported without detail.
func (h *Handler) fail(c *gin.Context, err error) {
	var (
		decodeErr     *gateway.DecodeError
		validationErr *gateway.ValidationError
		maxBytesErr   *http.MaxBytesError
	)

	switch {
	case errors.As(err, &maxBytesErr):
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Payload too large"})
	case errors.As(err, &decodeErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("Malformed %s payload", decodeErr.Format)})
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: validationErr.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: "Gateway not found"})
	default:
		h.logger.Error("request failed",
			zap.Error(err),
			zap.String("request_id", c.GetString(mw.RequestIDKey)),
		)
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// readGateway reads, normalizes and validates the request body.
func readGateway(c *gin.Context) (gateway.Gateway, error) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return gateway.Gateway{}, err
	}
	return gateway.Parse(raw, requestFormat(c))
}

// readReplacement is readGateway for a body whose gatewayID is replaced by id.
func readReplacement(c *gin.Context, id string) (gateway.Gateway, error) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return gateway.Gateway{}, err
	}
	return gateway.ParseReplacement(raw, requestFormat(c), id)
}
