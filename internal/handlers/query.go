package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hostwatch/internal/models"
)

// The three stream reads share one contract: optional inclusive
// start/end range (applied only when both are present), optional row
// limit, newest first.

func (h *APIHandler) GetSystemStats(c *gin.Context) {
	rows := []models.SystemStat{}
	h.streamQuery(c, &rows)
}

func (h *APIHandler) GetNewProcesses(c *gin.Context) {
	rows := []models.NewProcess{}
	h.streamQuery(c, &rows)
}

func (h *APIHandler) GetPrivilegedProcesses(c *gin.Context) {
	rows := []models.PrivilegedProcess{}
	h.streamQuery(c, &rows)
}

func (h *APIHandler) streamQuery(c *gin.Context, rows interface{}) {
	q := h.DB.Order("timestamp DESC")

	start, end := c.Query("start"), c.Query("end")
	if start != "" && end != "" {
		q = q.Where("datetime(timestamp) BETWEEN datetime(?) AND datetime(?)", start, end)
	}
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		q = q.Limit(n)
	}

	if err := q.Find(rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}
