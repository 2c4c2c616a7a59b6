package task

import (
	"net/http"

	"kanbaniq/internal/app/board"
	"kanbaniq/internal/app/user"
	"kanbaniq/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	ListTasks(c *gin.Context)
	CreateTask(c *gin.Context)
	GetTask(c *gin.Context)
	UpdateTask(c *gin.Context)
	DeleteTask(c *gin.Context)
	MoveTask(c *gin.Context)
	ListMyTasks(c *gin.Context)
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

// @Summary List tasks
// @Description Tasks of a board ordered by column then position
// @Tags Task
// @Produce json
// @Security BearerAuth
// @Param board_id path int true "Board ID"
// @Param column_id query int false "Only this column"
// @Param assignee_id query int false "Only tasks assigned to this user"
// @Param priority query string false "low, medium or high"
// @Success 200 {object} TaskListResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/boards/{board_id}/tasks [get]
func (h *handler) ListTasks(c *gin.Context) {
	b, _ := board.FromContext(c)
	columnID, ok := utils.QueryID(c, "column_id")
	if !ok {
		return
	}
	assigneeID, ok := utils.QueryID(c, "assignee_id")
	if !ok {
		return
	}
	filter := ListFilter{ColumnID: columnID, AssigneeID: assigneeID, Priority: c.Query("priority")}

	tasks, err := h.service.ListTasks(c.Request.Context(), b.ID, filter)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, TaskListResponse{Tasks: tasks})
}

// @Summary Create task
// @Description Appends the task to column_id, or to the board's first column
// @Tags Task
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param board_id path int true "Board ID"
// @Param request body CreateTaskRequest true "Task"
// @Success 201 {object} Task
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/boards/{board_id}/tasks [post]
func (h *handler) CreateTask(c *gin.Context) {
	b, _ := board.FromContext(c)
	actor, _ := user.FromContext(c)
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debugw("CreateTask: invalid request", "board_id", b.ID, "error", err)
		utils.BadRequest(c, "invalid request body: title is required and priority must be low, medium or high")
		return
	}

	t, err := h.service.CreateTask(c.Request.Context(), b.ID, actor, req)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// @Summary Get task
// @Tags Task
// @Produce json
// @Security BearerAuth
// @Param board_id path int true "Board ID"
// @Param task_id path int true "Task ID"
// @Success 200 {object} Task
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/boards/{board_id}/tasks/{task_id} [get]
func (h *handler) GetTask(c *gin.Context) {
	b, _ := board.FromContext(c)
	taskID, ok := utils.ParamID(c, "task_id")
	if !ok {
		return
	}
	t, err := h.service.GetTask(c.Request.Context(), b.ID, taskID)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// @Summary Update task
// @Description Partial update. Use the move endpoint to change column or position
// @Tags Task
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param board_id path int true "Board ID"
// @Param task_id path int true "Task ID"
// @Param request body UpdateTaskRequest true "Fields to change"
// @Success 200 {object} Task
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/boards/{board_id}/tasks/{task_id} [patch]
func (h *handler) UpdateTask(c *gin.Context) {
	b, _ := board.FromContext(c)
	actor, _ := user.FromContext(c)
	taskID, ok := utils.ParamID(c, "task_id")
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body")
		return
	}

	t, err := h.service.UpdateTask(c.Request.Context(), b.ID, taskID, actor, req)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// @Summary Delete task
// @Tags Task
// @Security BearerAuth
// @Param board_id path int true "Board ID"
// @Param task_id path int true "Task ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/boards/{board_id}/tasks/{task_id} [delete]
func (h *handler) DeleteTask(c *gin.Context) {
	b, _ := board.FromContext(c)
	actor, _ := user.FromContext(c)
	taskID, ok := utils.ParamID(c, "task_id")
	if !ok {
		return
	}
	if err := h.service.DeleteTask(c.Request.Context(), b.ID, taskID, actor); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Move task
// @Description Drag and drop. Returns the authoritative order of every affected column
// @Tags Task
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param board_id path int true "Board ID"
// @Param task_id path int true "Task ID"
// @Param request body MoveTaskRequest true "Destination"
// @Success 200 {object} MoveResult
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/boards/{board_id}/tasks/{task_id}/move [post]
func (h *handler) MoveTask(c *gin.Context) {
	b, _ := board.FromContext(c)
	taskID, ok := utils.ParamID(c, "task_id")
	if !ok {
		return
	}
	var req MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "column_id is required")
		return
	}

	result, err := h.service.MoveTask(c.Request.Context(), b.ID, taskID, req)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary My tasks
// @Description Tasks assigned to the current user across boards, earliest due date first
// @Tags Task
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AssignedTaskListResponse
// @Router /api/me/tasks [get]
func (h *handler) ListMyTasks(c *gin.Context) {
	actor, ok := user.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "unauthorized"})
		return
	}
	tasks, err := h.service.ListAssignedToUser(c.Request.Context(), actor.ID)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, AssignedTaskListResponse{Tasks: tasks})
}
