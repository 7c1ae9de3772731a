package app

// Option augments how an App is constructed.
type Option func(*App)

// WithPrettyLog switches the app logger to human-readable console output.
// Handy for local development; defaults to structured JSON.
func WithPrettyLog() Option {
	return func(a *App) {
		a.cfg.LogPretty = true
	}
}

// WithWorkers caps how many systems a stage may run concurrently, overriding
// the environment configuration.
func WithWorkers(n int) Option {
	return func(a *App) {
		a.cfg.Workers = n
	}
}

// WithTickRate overrides the loop runner's update frequency.
func WithTickRate(rate float64) Option {
	return func(a *App) {
		a.cfg.TickRate = rate
	}
}

// WithDiagnosticInterval overrides how often frame diagnostics are logged.
func WithDiagnosticInterval(frames uint64) Option {
	return func(a *App) {
		a.cfg.DiagnosticInterval = frames
	}
}
