package app

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Metrics counts what happened during a session.
type Metrics struct {
	inputs  atomic.Uint64
	edits   atomic.Uint64
	undos   atomic.Uint64
	saves   atomic.Uint64
	errors  atomic.Uint64
	reloads atomic.Uint64

	renderCount   atomic.Uint64
	renderTotalNs atomic.Int64
	renderMaxNs   atomic.Int64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordInput records one processed key event.
func (m *Metrics) RecordInput() { m.inputs.Add(1) }

// RecordEdit records a buffer mutation.
func (m *Metrics) RecordEdit() { m.edits.Add(1) }

// RecordUndo records a successful undo.
func (m *Metrics) RecordUndo() { m.undos.Add(1) }

// RecordSave records a successful save.
func (m *Metrics) RecordSave() { m.saves.Add(1) }

// RecordError records a failed command.
func (m *Metrics) RecordError() { m.errors.Add(1) }

// RecordReload records a configuration reload.
func (m *Metrics) RecordReload() { m.reloads.Add(1) }

// RecordRender records render timing.
func (m *Metrics) RecordRender(duration time.Duration) {
	ns := duration.Nanoseconds()
	m.renderCount.Add(1)
	m.renderTotalNs.Add(ns)

	for {
		old := m.renderMaxNs.Load()
		if ns <= old || m.renderMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	renders := m.renderCount.Load()
	var avg time.Duration
	if renders > 0 {
		avg = time.Duration(m.renderTotalNs.Load() / int64(renders))
	}

	return MetricsSnapshot{
		Inputs:        m.inputs.Load(),
		Edits:         m.edits.Load(),
		Undos:         m.undos.Load(),
		Saves:         m.saves.Load(),
		Errors:        m.errors.Load(),
		Reloads:       m.reloads.Load(),
		Renders:       renders,
		AvgRenderTime: avg,
		MaxRenderTime: time.Duration(m.renderMaxNs.Load()),
		Uptime:        time.Since(m.startTime),
	}
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Inputs        uint64
	Edits         uint64
	Undos         uint64
	Saves         uint64
	Errors        uint64
	Reloads       uint64
	Renders       uint64
	AvgRenderTime time.Duration
	MaxRenderTime time.Duration
	Uptime        time.Duration
}

// String formats the snapshot for the log.
func (s MetricsSnapshot) String() string {
	return fmt.Sprintf("inputs=%d edits=%d undos=%d saves=%d errors=%d reloads=%d renders=%d avg_render=%s max_render=%s uptime=%s",
		s.Inputs, s.Edits, s.Undos, s.Saves, s.Errors, s.Reloads, s.Renders,
		s.AvgRenderTime, s.MaxRenderTime, s.Uptime.Round(time.Millisecond))
}
