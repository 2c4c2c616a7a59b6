package board

import (
	"net/http"

	"kanbaniq/internal/app/user"
	"kanbaniq/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	boardContextKey      = "kanbaniq.board"
	membershipContextKey = "kanbaniq.membership"
)

// RequireMember resolves :board_id and admits only members of that board. The
// board and the actor's membership are stored on the context.
func RequireMember(service Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		boardID, ok := utils.ParamID(c, "board_id")
		if !ok {
			return
		}
		actor, ok := user.FromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "unauthorized"})
			return
		}

		b, err := service.GetBoard(c.Request.Context(), boardID)
		if err != nil {
			utils.RespondError(c, nil, err)
			return
		}
		m, err := service.Membership(c.Request.Context(), boardID, actor.ID)
		if err != nil {
			utils.RespondError(c, nil, err)
			return
		}

		c.Set(boardContextKey, b)
		c.Set(membershipContextKey, m)
		c.Next()
	}
}

// RequireAdmin must run after RequireMember.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := MembershipFromContext(c)
		if !ok || m.Role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{Error: "only the board admin can do this"})
			return
		}
		c.Next()
	}
}

func FromContext(c *gin.Context) (*Board, bool) {
	v, ok := c.Get(boardContextKey)
	if !ok {
		return nil, false
	}
	b, ok := v.(*Board)
	return b, ok
}

func MembershipFromContext(c *gin.Context) (*Member, bool) {
	v, ok := c.Get(membershipContextKey)
	if !ok {
		return nil, false
	}
	m, ok := v.(*Member)
	return m, ok
}
