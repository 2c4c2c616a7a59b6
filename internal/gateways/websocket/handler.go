package websocket

import (
	"net/http"

	"kanbaniq/internal/middleware"
	"kanbaniq/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers cannot set headers on WebSocket requests, so the ID token rides
	// in the query string; no ambient credentials are involved.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Live board updates
// @Description Upgrades to a WebSocket that streams events of one board
// @Tags Realtime
// @Param token query string true "Firebase ID token"
// @Param board_id query int true "Board ID"
// @Success 101
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /ws [get]
func (h *Hub) ServeWS(c *gin.Context) {
	boardID, ok := utils.QueryID(c, "board_id")
	if !ok {
		return
	}
	if boardID == nil || *boardID == 0 {
		utils.BadRequest(c, "board_id is required")
		return
	}

	raw, err := middleware.TokenFromRequest(c)
	if err != nil {
		h.logger.Warnw("WebSocket connection rejected: token missing", "client_ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse{Error: err.Error()})
		return
	}
	claims, err := h.verifier.Verify(c.Request.Context(), raw)
	if err != nil {
		h.logger.Warnw("WebSocket connection rejected: invalid token", "client_ip", c.ClientIP(), "error", err)
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "invalid or expired token"})
		return
	}
	u, err := h.userSvc.SyncFromClaims(c.Request.Context(), claims)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	if _, err := h.boardSvc.GetBoard(c.Request.Context(), *boardID); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	if _, err := h.boardSvc.Membership(c.Request.Context(), *boardID, u.ID); err != nil {
		h.logger.Warnw("WebSocket connection rejected: not a member", "board_id", *boardID, "user_id", u.ID)
		utils.RespondError(c, h.logger, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorw("Failed to upgrade connection", "board_id", *boardID, "user_id", u.ID, "error", err)
		return
	}

	client := newClient(h, conn, *boardID, u.ID)
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	}
	h.logger.Debugw("WebSocket connection established",
		"client_id", client.ID,
		"board_id", client.BoardID,
		"user_id", client.UserID,
		"client_ip", c.ClientIP(),
		"user_agent", c.GetHeader("User-Agent"),
	)

	go client.writePump()
	client.readPump()
}
