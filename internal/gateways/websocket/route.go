package websocket

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts /ws outside the authenticated API group: the socket
// authenticates itself from the token query parameter.
func RegisterRoutes(rg gin.IRoutes, hub *Hub) {
	rg.GET("/ws", hub.ServeWS)
}
