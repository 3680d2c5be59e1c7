package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postpilot/backend/internal/model"
	"github.com/postpilot/backend/internal/service"
)

type CredentialHandler struct {
	svc *service.CredentialService
}

func NewCredentialHandler(svc *service.CredentialService) *CredentialHandler {
	return &CredentialHandler{svc: svc}
}

// Upsert godoc
// @Summary Store X API credentials
// @Description Encrypts and stores the user's X API key/secret pair,
// overwriting any previous pair.
// @Tags user
// @Accept json
// @Produce json
// @Param request body model.CredentialRequest true "X API key and secret"
// @Success 200 {object} model.CredentialResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/user/credentials [put]
func (h *CredentialHandler) Upsert(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "not authenticated"})
		return
	}

	var req model.CredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	if err := h.svc.Upsert(c.Request.Context(), user.ID, req.APIKey, req.APISecret); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.CredentialResponse{HasCredentials: true})
}

// Delete godoc
// @Summary Remove X API credentials
// @Description Idempotent; removing credentials that do not exist succeeds.
// @Tags user
// @Produce json
// @Success 200 {object} model.CredentialResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/user/credentials [delete]
func (h *CredentialHandler) Delete(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "not authenticated"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), user.ID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.CredentialResponse{HasCredentials: false})
}
