package invitation

import (
	"kanbaniq/internal/app/board"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, handler Handler, boardSvc board.Service) {
	byBoard := rg.Group("/boards/:board_id/invitations", board.RequireMember(boardSvc), board.RequireAdmin())
	{
		byBoard.POST("", handler.CreateInvitation)
		byBoard.GET("", handler.ListBoardInvitations)
		byBoard.DELETE("/:invitation_id", handler.RevokeInvitation)
	}

	received := rg.Group("/invitations")
	{
		received.GET("", handler.ListMyInvitations)
		received.GET("/:token", handler.PreviewInvitation)
		received.POST("/:token/accept", handler.AcceptInvitation)
		received.POST("/:token/decline", handler.DeclineInvitation)
	}
}
