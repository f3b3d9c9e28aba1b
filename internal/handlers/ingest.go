package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"hostwatch/internal/models"
)

// ReceiveLogs ingests one agent payload. Deliberately unauthenticated:
// agents are trusted by network placement, not credentialed.
//
// Each row is stamped with the caller's address and the current server
// time, then inserted on its own. There is no transaction spanning the
// payload: a store failure answers 500 and leaves rows committed so
// far in place.
func (h *APIHandler) ReceiveLogs(c *gin.Context) {
	var payload models.TelemetryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("Received invalid telemetry payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	clientIP := c.ClientIP()
	now := models.Now()

	// cpu and memory travel together or not at all
	if payload.CPU != nil && payload.Memory != nil {
		stat := models.SystemStat{
			Timestamp: now,
			IP:        clientIP,
			CPU:       *payload.CPU,
			Memory:    *payload.Memory,
		}
		if err := h.DB.Create(&stat).Error; err != nil {
			h.storeFailure(c, err)
			return
		}
	}

	for _, p := range payload.NewProcesses {
		row := models.NewProcess{
			Timestamp: now,
			IP:        clientIP,
			Pid:       p.Pid,
			Name:      p.Name,
			User:      p.User,
		}
		if err := h.DB.Create(&row).Error; err != nil {
			h.storeFailure(c, err)
			return
		}
	}

	for _, p := range payload.PrivilegedProcesses {
		row := models.PrivilegedProcess{
			Timestamp: now,
			IP:        clientIP,
			Pid:       p.Pid,
			Name:      p.Name,
			User:      p.User,
		}
		if err := h.DB.Create(&row).Error; err != nil {
			h.storeFailure(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *APIHandler) storeFailure(c *gin.Context, err error) {
	log.Printf("Error storing logs: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
