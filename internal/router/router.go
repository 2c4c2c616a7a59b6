package router

import (
	"kanbaniq/internal/app/board"
	"kanbaniq/internal/app/health"
	"kanbaniq/internal/app/invitation"
	"kanbaniq/internal/app/task"
	"kanbaniq/internal/app/user"
	"kanbaniq/internal/gateways/websocket"
	"kanbaniq/internal/middleware"

	_ "kanbaniq/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Router struct {
	Engine *gin.Engine
	api    *gin.RouterGroup
	authed *gin.RouterGroup
}

// NewRouter builds the engine with the global middleware chain. auth guards
// every /api route except the health check.
func NewRouter(frontendURL string, auth gin.HandlerFunc, logger *zap.Logger) *Router {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORSMiddleware(frontendURL))
	engine.Use(middleware.LoggerMiddleware(logger))
	engine.Use(gin.Recovery())

	api := engine.Group("/api")
	return &Router{
		Engine: engine,
		api:    api,
		authed: api.Group("", auth),
	}
}

func (r *Router) RegisterHealthRoutes(handler health.Handler) {
	health.RegisterRoutes(r.api, handler)
}

func (r *Router) RegisterWebSocketRoutes(hub *websocket.Hub) {
	websocket.RegisterRoutes(r.Engine, hub)
}

func (r *Router) RegisterUserRoutes(handler user.Handler) {
	user.RegisterRoutes(r.authed, handler)
}

func (r *Router) RegisterBoardRoutes(handler board.Handler, service board.Service) {
	board.RegisterRoutes(r.authed, handler, service)
}

func (r *Router) RegisterTaskRoutes(handler task.Handler, boardSvc board.Service) {
	task.RegisterRoutes(r.authed, handler, boardSvc)
}

func (r *Router) RegisterInvitationRoutes(handler invitation.Handler, boardSvc board.Service) {
	invitation.RegisterRoutes(r.authed, handler, boardSvc)
}

func (r *Router) RegisterSwaggerRoutes() {
	r.Engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
