package board

import (
	"net/http"

	"kanbaniq/internal/app/user"
	"kanbaniq/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	CreateBoard(c *gin.Context)
	ListBoards(c *gin.Context)
	GetBoard(c *gin.Context)
	UpdateBoard(c *gin.Context)
	DeleteBoard(c *gin.Context)
	ListMembers(c *gin.Context)
	RemoveMember(c *gin.Context)
	CreateColumn(c *gin.Context)
	RenameColumn(c *gin.Context)
	ReorderColumns(c *gin.Context)
	DeleteColumn(c *gin.Context)
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

type BoardDetailResponse struct {
	BoardDetail
	Role string `json:"role"`
}

// @Summary Create board
// @Description Create a board owned by the current user. Columns default to To Do, In Progress, Done
// @Tags Board
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBoardRequest true "Board"
// @Success 201 {object} BoardDetailResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/boards [post]
func (h *handler) CreateBoard(c *gin.Context) {
	actor, ok := user.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "unauthorized"})
		return
	}
	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "name is required")
		return
	}

	detail, err := h.service.CreateBoard(c.Request.Context(), actor.ID, req)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, BoardDetailResponse{BoardDetail: *detail, Role: RoleAdmin})
}

// @Summary List boards
// @Description Boards the current user is a member of, newest first
// @Tags Board
// @Produce json
// @Security BearerAuth
// @Success 200 {object} BoardListResponse
// @Router /api/boards [get]
func (h *handler) ListBoards(c *gin.Context) {
	actor, ok := user.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "unauthorized"})
		return
	}
	boards, err := h.service.ListBoards(c.Request.Context(), actor.ID)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, BoardListResponse{Boards: boards})
}

// @Summary Get board
// @Description Board with its ordered columns and members
// @Tags Board
// @Produce json
// @Security BearerAuth
// @Param board_id path int true "Board ID"
// @Success 200 {object} BoardDetailResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/boards/{board_id} [get]
func (h *handler) GetBoard(c *gin.Context) {
	b, _ := FromContext(c)
	m, _ := MembershipFromContext(c)

	detail, err := h.service.GetBoardDetail(c.Request.Context(), b.ID)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, BoardDetailResponse{BoardDetail: *detail, Role: m.Role})
}

// @Summary Update board
// @Tags Board
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param board_id path int true "Board ID"
// @Param request body UpdateBoardRequest true "Fields to change"
// @Success 200 {object} Board
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/boards/{board_id} [patch]
func (h *handler) UpdateBoard(c *gin.Context) {
	b, _ := FromContext(c)
	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body")
		return
	}
	updated, err := h.service.UpdateBoard(c.Request.Context(), b.ID, req)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary Delete board
// @Description Delete the board with its columns, tasks, invitations and memberships
// @Tags Board
// @Security BearerAuth
// @Param board_id path int true "Board ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/boards/{board_id} [delete]
func (h *handler) DeleteBoard(c *gin.Context) {
	b, _ := FromContext(c)
	if err := h.service.DeleteBoard(c.Request.Context(), b.ID); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List members
// @Tags Board
// @Produce json
// @Security BearerAuth
// @Param board_id path int true "Board ID"
// @Success 200 {object} MemberListResponse
// @Router /api/boards/{board_id}/members [get]
func (h *handler) ListMembers(c *gin.Context) {
	b, _ := FromContext(c)
	members, err := h.service.ListMembers(c.Request.Context(), b.ID)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MemberListResponse{Members: members})
}

// @Summary Remove member
// @Description The admin removes a member, or a member removes themselves to leave the board
// @Tags Board
// @Security BearerAuth
// @Param board_id path int true "Board ID"
// @Param user_id path int true "User ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/boards/{board_id}/members/{user_id} [delete]
func (h *handler) RemoveMember(c *gin.Context) {
	b, _ := FromContext(c)
	actor, _ := user.FromContext(c)
	userID, ok := utils.ParamID(c, "user_id")
	if !ok {
		return
	}
	if err := h.service.RemoveMember(c.Request.Context(), b.ID, actor.ID, userID); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Create column
// @Description Append a column to the board
// @Tags Column
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param board_id path int true "Board ID"
// @Param request body ColumnRequest true "Column"
// @Success 201 {object} Column
// @Router /api/boards/{board_id}/columns [post]
func (h *handler) CreateColumn(c *gin.Context) {
	b, _ := FromContext(c)
	var req ColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "name is required")
		return
	}
	col, err := h.service.CreateColumn(c.Request.Context(), b.ID, req.Name)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, col)
}

// @Summary Rename column
// @Tags Column
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param board_id path int true "Board ID"
// @Param column_id path int true "Column ID"
// @Param request body ColumnRequest true "Column"
// @Success 200 {object} Column
// @Router /api/boards/{board_id}/columns/{column_id} [patch]
func (h *handler) RenameColumn(c *gin.Context) {
	b, _ := FromContext(c)
	columnID, ok := utils.ParamID(c, "column_id")
	if !ok {
		return
	}
	var req ColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "name is required")
		return
	}
	col, err := h.service.RenameColumn(c.Request.Context(), b.ID, columnID, req.Name)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, col)
}

// @Summary Reorder columns
// @Description column_ids must list every column of the board exactly once
// @Tags Column
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param board_id path int true "Board ID"
// @Param request body ReorderColumnsRequest true "New order"
// @Success 200 {object} ColumnListResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/boards/{board_id}/columns/order [put]
func (h *handler) ReorderColumns(c *gin.Context) {
	b, _ := FromContext(c)
	var req ReorderColumnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "column_ids is required")
		return
	}
	columns, err := h.service.ReorderColumns(c.Request.Context(), b.ID, req.ColumnIDs)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ColumnListResponse{Columns: columns})
}

// @Summary Delete column
// @Description A column that still holds tasks needs move_to; its tasks are appended to that column
// @Tags Column
// @Security BearerAuth
// @Param board_id path int true "Board ID"
// @Param column_id path int true "Column ID"
// @Param move_to query int false "Column receiving the tasks"
// @Success 204
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/boards/{board_id}/columns/{column_id} [delete]
func (h *handler) DeleteColumn(c *gin.Context) {
	b, _ := FromContext(c)
	columnID, ok := utils.ParamID(c, "column_id")
	if !ok {
		return
	}
	moveTo, ok := utils.QueryID(c, "move_to")
	if !ok {
		return
	}
	if err := h.service.DeleteColumn(c.Request.Context(), b.ID, columnID, moveTo); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
