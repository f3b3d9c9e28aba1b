// Package agent runs the collect-and-push loop on the monitored host.
package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"hostwatch/internal/models"
	"hostwatch/internal/snapshot"
	"hostwatch/internal/watcher"
)

type Config struct {
	// ServerURL is the base URL of the central service.
	ServerURL string
	// Interval between poll cycles. Defaults to 10 seconds.
	Interval time.Duration
	// SendTimeout bounds one push to the server. Defaults to 15 seconds.
	SendTimeout time.Duration
	// Backoff is slept after an unexpected cycle failure before the
	// loop resumes. Defaults to the interval.
	Backoff time.Duration
}

type Agent struct {
	cfg     Config
	client  *resty.Client
	source  snapshot.Source
	watcher *watcher.Watcher
}

func New(cfg Config, source snapshot.Source, w *watcher.Watcher) *Agent {
	if cfg.Interval == 0 {
		cfg.Interval = 10 * time.Second
	}
	if cfg.SendTimeout == 0 {
		cfg.SendTimeout = 15 * time.Second
	}
	if cfg.Backoff == 0 {
		cfg.Backoff = cfg.Interval
	}
	return &Agent{
		cfg:     cfg,
		client:  resty.New().SetTimeout(cfg.SendTimeout),
		source:  source,
		watcher: w,
	}
}

// Run loops until ctx is cancelled. One cycle is in flight at a time;
// a failed send is logged and dropped, the next cycle's fresh payload
// is the retry surface.
func (a *Agent) Run(ctx context.Context) {
	for {
		a.runCycle()

		select {
		case <-ctx.Done():
			return
		case <-time.After(a.cfg.Interval):
		}
	}
}

// runCycle shields the loop from anything unexpected a cycle throws:
// log, back off, resume.
func (a *Agent) runCycle() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Unexpected error in collection cycle: %v", r)
			time.Sleep(a.cfg.Backoff)
		}
	}()

	payload, ok := a.Collect()
	if !ok {
		return
	}
	if err := a.Send(payload); err != nil {
		log.Printf("Failed to send data to server: %v", err)
		return
	}
	log.Println("Successfully sent data to server")
}

// Collect assembles one payload. A gauge failure skips the whole cycle
// (ok is false); an enumeration failure degrades to empty process
// lists but still ships the stats.
func (a *Agent) Collect() (models.TelemetryPayload, bool) {
	cpuPct, memPct, err := a.source.Gauges()
	if err != nil {
		log.Printf("Error collecting system stats: %v", err)
		return models.TelemetryPayload{}, false
	}

	procs, err := a.source.Processes()
	if err != nil {
		log.Printf("Error collecting process information: %v", err)
		procs = nil
	}

	return models.TelemetryPayload{
		CPU:                 &cpuPct,
		Memory:              &memPct,
		NewProcesses:        toEntries(a.watcher.NewProcesses(procs, time.Now())),
		PrivilegedProcesses: toEntries(a.watcher.PrivilegedProcesses(procs)),
	}, true
}

// Send pushes one payload to the ingestion endpoint. Non-2xx answers
// are errors; nothing is retried here.
func (a *Agent) Send(payload models.TelemetryPayload) error {
	resp, err := a.client.R().
		SetBody(payload).
		Post(a.cfg.ServerURL + "/api/logs")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("server answered %s", resp.Status())
	}
	return nil
}

func toEntries(procs []snapshot.Process) []models.ProcessEntry {
	if len(procs) == 0 {
		return nil
	}
	entries := make([]models.ProcessEntry, 0, len(procs))
	for _, p := range procs {
		entries = append(entries, models.ProcessEntry{
			Pid:  p.Pid,
			Name: p.Name,
			User: p.User,
		})
	}
	return entries
}
