package board

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler, service Service) {
	boards := rg.Group("/boards")
	{
		boards.POST("", handler.CreateBoard)
		boards.GET("", handler.ListBoards)
	}

	member := boards.Group("/:board_id", RequireMember(service))
	{
		member.GET("", handler.GetBoard)
		member.GET("/members", handler.ListMembers)
		member.DELETE("/members/:user_id", handler.RemoveMember)
	}

	admin := member.Group("", RequireAdmin())
	{
		admin.PATCH("", handler.UpdateBoard)
		admin.DELETE("", handler.DeleteBoard)
		admin.POST("/columns", handler.CreateColumn)
		admin.PUT("/columns/order", handler.ReorderColumns)
		admin.PATCH("/columns/:column_id", handler.RenameColumn)
		admin.DELETE("/columns/:column_id", handler.DeleteColumn)
	}
}
