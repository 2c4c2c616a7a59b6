package middleware

import (
	"errors"
	"net/http"

	"kanbaniq/internal/app/user"
	"kanbaniq/internal/providers/firebase"
	"kanbaniq/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware verifies the Firebase ID token from the Authorization header
// (or the token query parameter, which browsers need for WebSockets) and puts
// the synced local user on the context.
func AuthMiddleware(verifier firebase.Verifier, userSvc user.Service, logger *zap.Logger) gin.HandlerFunc {
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		raw, err := TokenFromRequest(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: err.Error()})
			return
		}

		claims, err := verifier.Verify(c.Request.Context(), raw)
		if err != nil {
			sugar.Debugw("Token rejected", "request_id", GetRequestID(c), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "invalid or expired token"})
			return
		}

		u, err := userSvc.SyncFromClaims(c.Request.Context(), claims)
		if err != nil {
			if errors.Is(err, utils.ErrUnauthorized) || errors.Is(err, utils.ErrForbidden) {
				utils.RespondError(c, nil, err)
				return
			}
			sugar.Errorw("Failed to sync user", "uid", claims.UID, "request_id", GetRequestID(c), "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, utils.ErrorResponse{Error: "internal server error"})
			return
		}

		user.SetContext(c, u)
		c.Next()
	}
}

func TokenFromRequest(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		return firebase.BearerToken(header)
	}
	if token := c.Query("token"); token != "" {
		return token, nil
	}
	return "", firebase.ErrMissingToken
}
