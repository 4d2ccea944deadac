package services

// Storage keys. Each service owns its keys; no two services share one.
const (
	KeySession  = "session"
	KeyLocale   = "locale"
	KeyTheme    = "theme"
	KeyFirstRun = "first_run_done"
)
