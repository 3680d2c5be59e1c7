package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postpilot/backend/internal/client"
	"github.com/postpilot/backend/internal/model"
)

type DraftHandler struct {
	agent *client.AgentClient
}

func NewDraftHandler(agent *client.AgentClient) *DraftHandler {
	return &DraftHandler{agent: agent}
}

// Generate godoc
// @Summary Generate a post draft
// @Description Proxies the draft request to the generation agent service and
// returns its response unchanged.
// @Tags drafts
// @Accept json
// @Produce json
// @Success 200 {object} object
// @Failure 401 {object} model.ErrorResponse
// @Failure 502 {object} model.ErrorResponse
// @Router /api/drafts/generate [post]
func (h *DraftHandler) Generate(c *gin.Context) {
	if !h.agent.IsConfigured() {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Error: "draft generation is not available"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(body) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	payload, err := h.agent.GenerateDraft(c.Request.Context(), body)
	if err != nil {
		c.JSON(http.StatusBadGateway, model.ErrorResponse{Error: "draft generation failed"})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}
