// Package watcher classifies a process snapshot into the newly started
// and privileged subsets.
package watcher

import (
	"runtime"
	"strings"
	"time"

	"hostwatch/internal/snapshot"
)

// NewProcessWindow is how long after creation a process still counts as
// newly started. The rule is snapshot-local: a young process is
// re-reported on every poll inside this window, there is no cross-poll
// dedup.
const NewProcessWindow = 60 * time.Second

// Usernames that mark a process as privileged on Windows hosts. Matched
// as case-insensitive substrings of the owning account name.
var windowsPrivilegedUsers = []string{
	"SYSTEM",
	"Administrator",
	"Administrators",
	`NT AUTHORITY\SYSTEM`,
	`NT AUTHORITY\LOCAL SERVICE`,
	`NT AUTHORITY\NETWORK SERVICE`,
}

// Watcher applies the classification rules. The zero value is not
// usable; construct with New.
type Watcher struct {
	// GOOS selects the privileged-identity rule for the host OS family.
	GOOS string
	// Window overrides NewProcessWindow when non-zero.
	Window time.Duration
}

func New() *Watcher {
	return &Watcher{GOOS: runtime.GOOS, Window: NewProcessWindow}
}

// NewProcesses returns, in enumeration order, every process created
// within the window before now. The boundary is inclusive: a process
// exactly Window old is still new.
func (w *Watcher) NewProcesses(procs []snapshot.Process, now time.Time) []snapshot.Process {
	var out []snapshot.Process
	for _, p := range procs {
		if !valid(p) {
			continue
		}
		if now.Sub(p.CreatedAt) <= w.Window {
			out = append(out, p)
		}
	}
	return out
}

// PrivilegedProcesses returns, in enumeration order, every process
// owned by an elevated account. Processes whose owner could not be
// resolved are skipped: unknown is not privileged.
func (w *Watcher) PrivilegedProcesses(procs []snapshot.Process) []snapshot.Process {
	var out []snapshot.Process
	for _, p := range procs {
		if !valid(p) || p.User == snapshot.UnknownUser || p.User == "" {
			continue
		}
		if w.privileged(p.User) {
			out = append(out, p)
		}
	}
	return out
}

func (w *Watcher) privileged(user string) bool {
	if w.GOOS == "windows" {
		lower := strings.ToLower(user)
		for _, elevated := range windowsPrivilegedUsers {
			if strings.Contains(lower, strings.ToLower(elevated)) {
				return true
			}
		}
		return false
	}
	// exact match on posix hosts, "roots" is not root
	return user == "root"
}

func valid(p snapshot.Process) bool {
	return p.Pid >= 0 && p.Name != ""
}
