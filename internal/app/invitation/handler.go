package invitation

import (
	"context"
	"net/http"

	"kanbaniq/internal/app/board"
	"kanbaniq/internal/app/user"
	"kanbaniq/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	CreateInvitation(c *gin.Context)
	ListBoardInvitations(c *gin.Context)
	RevokeInvitation(c *gin.Context)
	ListMyInvitations(c *gin.Context)
	PreviewInvitation(c *gin.Context)
	AcceptInvitation(c *gin.Context)
	DeclineInvitation(c *gin.Context)
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

// @Summary Invite by email
// @Description Sends a board invitation. Re-inviting a pending address issues a fresh link
// @Tags Invitation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param board_id path int true "Board ID"
// @Param request body CreateInvitationRequest true "Invitee"
// @Success 201 {object} Invitation
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/boards/{board_id}/invitations [post]
func (h *handler) CreateInvitation(c *gin.Context) {
	b, _ := board.FromContext(c)
	actor, _ := user.FromContext(c)
	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "a valid email is required")
		return
	}

	inv, err := h.service.Invite(c.Request.Context(), b.ID, actor, req.Email)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// @Summary Pending invitations of a board
// @Tags Invitation
// @Produce json
// @Security BearerAuth
// @Param board_id path int true "Board ID"
// @Success 200 {object} InvitationListResponse
// @Router /api/boards/{board_id}/invitations [get]
func (h *handler) ListBoardInvitations(c *gin.Context) {
	b, _ := board.FromContext(c)
	invs, err := h.service.ListForBoard(c.Request.Context(), b.ID)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, InvitationListResponse{Invitations: invs})
}

// @Summary Revoke invitation
// @Tags Invitation
// @Security BearerAuth
// @Param board_id path int true "Board ID"
// @Param invitation_id path int true "Invitation ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/boards/{board_id}/invitations/{invitation_id} [delete]
func (h *handler) RevokeInvitation(c *gin.Context) {
	b, _ := board.FromContext(c)
	actor, _ := user.FromContext(c)
	id, ok := utils.ParamID(c, "invitation_id")
	if !ok {
		return
	}
	if err := h.service.Revoke(c.Request.Context(), b.ID, id, actor); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary My invitations
// @Description Pending, unexpired invitations addressed to the current user's email
// @Tags Invitation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ReceivedListResponse
// @Router /api/invitations [get]
func (h *handler) ListMyInvitations(c *gin.Context) {
	actor, ok := user.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "unauthorized"})
		return
	}
	invs, err := h.service.ListForUser(c.Request.Context(), actor)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ReceivedListResponse{Invitations: invs})
}

// @Summary Preview invitation
// @Tags Invitation
// @Produce json
// @Security BearerAuth
// @Param token path string true "Invitation token"
// @Success 200 {object} Preview
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/invitations/{token} [get]
func (h *handler) PreviewInvitation(c *gin.Context) {
	p, err := h.service.Preview(c.Request.Context(), c.Param("token"))
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Accept invitation
// @Tags Invitation
// @Produce json
// @Security BearerAuth
// @Param token path string true "Invitation token"
// @Success 200 {object} Invitation
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 410 {object} utils.ErrorResponse
// @Router /api/invitations/{token}/accept [post]
func (h *handler) AcceptInvitation(c *gin.Context) {
	h.respond(c, h.service.Accept)
}

// @Summary Decline invitation
// @Tags Invitation
// @Produce json
// @Security BearerAuth
// @Param token path string true "Invitation token"
// @Success 200 {object} Invitation
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 410 {object} utils.ErrorResponse
// @Router /api/invitations/{token}/decline [post]
func (h *handler) DeclineInvitation(c *gin.Context) {
	h.respond(c, h.service.Decline)
}

func (h *handler) respond(c *gin.Context, action func(ctx context.Context, actor *user.User, token string) (*Invitation, error)) {
	actor, ok := user.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "unauthorized"})
		return
	}
	inv, err := action(c.Request.Context(), actor, c.Param("token"))
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}
