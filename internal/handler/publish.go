package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postpilot/backend/internal/model"
	"github.com/postpilot/backend/internal/service"
)

type PublishHandler struct {
	svc *service.PublishService
}

func NewPublishHandler(svc *service.PublishService) *PublishHandler {
	return &PublishHandler{svc: svc}
}

// Publish godoc
// @Summary Publish a post to X
// @Description Runs the publish pipeline: decrypt stored credentials,
// exchange them for a bearer token, post the text. The upstream payload is
// returned verbatim on success.
// @Tags publish
// @Accept json
// @Produce json
// @Param request body model.PublishRequest true "Post text (max 280 chars)"
// @Success 200 {object} model.PublishResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 422 {object} model.ErrorResponse
// @Router /api/publish [post]
func (h *PublishHandler) Publish(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "not authenticated"})
		return
	}

	var req model.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	payload, err := h.svc.Publish(c.Request.Context(), user.ID, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.PublishResponse{Status: "posted", Response: payload})
}
