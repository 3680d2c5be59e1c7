package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/postpilot/backend/internal/service"
)

type Handlers struct {
	Auth        *AuthHandler
	Credentials *CredentialHandler
	Publish     *PublishHandler
	Drafts      *DraftHandler
	AuthService *service.AuthService
}

func RegisterRoutes(router *gin.Engine, h Handlers, allowedOrigins []string) {
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware(allowedOrigins))

	router.GET("/", Root)
	router.GET("/ping", Ping)

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", h.Auth.Signup)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)

	authed := api.Group("", AuthMiddleware(h.AuthService))
	authed.GET("/user/me", h.Auth.Me)
	authed.PUT("/user/credentials", h.Credentials.Upsert)
	authed.DELETE("/user/credentials", h.Credentials.Delete)
	authed.POST("/publish", h.Publish.Publish)
	authed.POST("/drafts/generate", h.Drafts.Generate)
}
