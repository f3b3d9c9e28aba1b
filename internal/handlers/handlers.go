// Package handlers holds the HTTP surface of the central service:
// payload ingestion, login/token verification, and the time-ranged
// stream queries.
package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type APIHandler struct {
	DB          *gorm.DB
	TokenSecret []byte
}

func NewAPIHandler(db *gorm.DB, tokenSecret string) *APIHandler {
	return &APIHandler{
		DB:          db,
		TokenSecret: []byte(tokenSecret),
	}
}

// Register wires the API routes. Ingestion is open by design (agents
// are trusted by network placement); every read sits behind the token
// middleware.
func (h *APIHandler) Register(r gin.IRouter) {
	r.POST("/api/logs", h.ReceiveLogs)
	r.POST("/api/login", h.Login)

	authed := r.Group("/api", h.RequireToken())
	authed.GET("/logout", h.Logout)
	authed.GET("/system_stats", h.GetSystemStats)
	authed.GET("/new_processes", h.GetNewProcesses)
	authed.GET("/privileged_processes", h.GetPrivilegedProcesses)
}
