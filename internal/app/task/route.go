package task

import (
	"kanbaniq/internal/app/board"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, handler Handler, boardSvc board.Service) {
	tasks := rg.Group("/boards/:board_id/tasks", board.RequireMember(boardSvc))
	{
		tasks.GET("", handler.ListTasks)
		tasks.POST("", handler.CreateTask)
		tasks.GET("/:task_id", handler.GetTask)
		tasks.PATCH("/:task_id", handler.UpdateTask)
		tasks.DELETE("/:task_id", handler.DeleteTask)
		tasks.POST("/:task_id/move", handler.MoveTask)
	}

	rg.GET("/me/tasks", handler.ListMyTasks)
}
