package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListGateways handles GET /api/data.
func (h *Handler) ListGateways(c *gin.Context) {
	gateways, err := h.store.Scan(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, acceptFormat(c), gateways)
}

// GetGateway handles GET /api/data/:gatewayID.
func (h *Handler) GetGateway(c *gin.Context) {
	g, err := h.store.Get(c.Request.Context(), c.Param("gatewayID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, acceptFormat(c), g)
}

// CreateGateway handles POST /api/data. An existing gateway with the same
// ID is overwritten.
func (h *Handler) CreateGateway(c *gin.Context) {
	g, err := readGateway(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.store.Put(c.Request.Context(), g); err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusCreated, requestFormat(c), MessageResponse{Message: "Gateway added", Data: &g})
}

// UpdateGateway handles PUT /api/data/:gatewayID. The ID in the URL wins
// over any gatewayID in the body.
func (h *Handler) UpdateGateway(c *gin.Context) {
	g, err := readReplacement(c, c.Param("gatewayID"))
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.store.Put(c.Request.Context(), g); err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, requestFormat(c), MessageResponse{Message: "Gateway updated", Data: &g})
}

// DeleteGateway handles DELETE /api/data/:gatewayID. It succeeds whether or
// not the gateway existed.
func (h *Handler) DeleteGateway(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("gatewayID")); err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, requestFormat(c), MessageResponse{Message: "Gateway deleted"})
}
