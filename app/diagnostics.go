package app

import (
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"pkg.lodestone.dev/lodestone/schedule"
	"pkg.lodestone.dev/lodestone/world"
)

// FrameDiagnostics tracks frame timing for the app's world. Updated once per
// tick by the DiagnosticsPlugin systems.
type FrameDiagnostics struct {
	Frames    uint64        `json:"frames"`
	LastFrame time.Duration `json:"last_frame_ns"`
	AvgFrame  time.Duration `json:"avg_frame_ns"`

	frameStart time.Time
}

// ewma smoothing factor for the rolling average frame time.
const frameAvgAlpha = 0.05

// DiagnosticsPlugin measures frame duration across the schedule and logs a
// JSON snapshot every Interval frames.
type DiagnosticsPlugin struct {
	// Interval is the number of frames between log lines. Zero falls back to
	// the app config's diagnostic interval.
	Interval uint64
}

func (p DiagnosticsPlugin) Build(a *App) error {
	interval := p.Interval
	if interval == 0 {
		interval = a.cfg.DiagnosticInterval
	}

	InsertResource(a, FrameDiagnostics{})
	diagID := world.ResourceID[FrameDiagnostics](a.World)

	a.AddSystemToStage(StageFirst, schedule.NewSystem(func(w *world.World) error {
		world.MustResource[FrameDiagnostics](w).frameStart = time.Now()
		return nil
	}).WithName("frame_diagnostics_begin").Writes(diagID))

	a.AddSystemToStage(StageLast, schedule.NewSystem(func(w *world.World) error {
		diag := world.MustResource[FrameDiagnostics](w)
		diag.Frames++
		diag.LastFrame = time.Since(diag.frameStart)
		if diag.AvgFrame == 0 {
			diag.AvgFrame = diag.LastFrame
		} else {
			diag.AvgFrame += time.Duration(frameAvgAlpha * float64(diag.LastFrame-diag.AvgFrame))
		}

		if interval > 0 && diag.Frames%interval == 0 {
			snapshot, err := json.Marshal(diag)
			if err != nil {
				return err
			}
			log.Info().RawJSON("frame_diagnostics", snapshot).Msg("frame diagnostics")
		}
		return nil
	}).WithName("frame_diagnostics_end").Writes(diagID))

	return nil
}
