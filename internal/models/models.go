package models

import (
	"time"
)

// TimeLayout matches the ISO-8601 text timestamps stored in the stream
// tables. Lexicographic order equals chronological order, so sqlite can
// range-filter and sort on the raw column.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Now returns the server-assigned timestamp for a freshly inserted row.
func Now() string {
	return time.Now().UTC().Format(TimeLayout)
}

type SystemStat struct {
	ID        uint    `gorm:"primaryKey" json:"-"`
	Timestamp string  `json:"timestamp"`
	IP        string  `json:"ip"`
	CPU       float64 `json:"cpu"`
	Memory    float64 `json:"memory"`
}

type NewProcess struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	Timestamp string `json:"timestamp"`
	IP        string `json:"ip"`
	Pid       int32  `json:"pid"`
	Name      string `json:"name"`
	User      string `json:"user"`
}

type PrivilegedProcess struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	Timestamp string `json:"timestamp"`
	IP        string `json:"ip"`
	Pid       int32  `json:"pid"`
	Name      string `json:"name"`
	User      string `json:"user"`
}

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex" json:"username"`
	PasswordHash string `json:"-"`
}

// ProcessEntry is the wire shape of one classified process inside a
// telemetry payload.
type ProcessEntry struct {
	Pid  int32  `json:"pid"`
	Name string `json:"name"`
	User string `json:"user"`
}

// TelemetryPayload is one poll cycle's bundle. CPU and memory travel
// together or not at all; the process lists are omitted when empty
// rather than sent as empty arrays.
type TelemetryPayload struct {
	CPU                 *float64       `json:"cpu,omitempty"`
	Memory              *float64       `json:"memory,omitempty"`
	NewProcesses        []ProcessEntry `json:"new_processes,omitempty"`
	PrivilegedProcesses []ProcessEntry `json:"privileged_processes,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}
