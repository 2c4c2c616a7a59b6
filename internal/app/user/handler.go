package user

import (
	"net/http"

	"kanbaniq/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	GetMe(c *gin.Context)
	UpdateMe(c *gin.Context)
}

type handler struct {
	service Service
	logger  *zap.SugaredLogger
}

func NewHandler(service Service, logger *zap.Logger) Handler {
	return &handler{
		service: service,
		logger:  logger.Sugar(),
	}
}

// @Summary Current user
// @Description Profile of the authenticated user
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} User
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/users/me [get]
func (h *handler) GetMe(c *gin.Context) {
	u, ok := FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary Update current user
// @Description Change the display name of the authenticated user
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "New display name"
// @Success 200 {object} User
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/users/me [patch]
func (h *handler) UpdateMe(c *gin.Context) {
	u, ok := FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("UpdateMe: invalid request", "user_id", u.ID, "error", err)
		utils.BadRequest(c, "display_name is required")
		return
	}

	updated, err := h.service.UpdateProfile(c.Request.Context(), u.ID, req.DisplayName)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	h.logger.Infow("UpdateMe: display name changed", "user_id", u.ID)
	c.JSON(http.StatusOK, updated)
}
