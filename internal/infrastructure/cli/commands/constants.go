package commands

// DefaultTopInstances bounds the per-instance table of 'history stats'.
const DefaultTopInstances = 5

// Error messages
const (
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrKeyRequired              = "--key is required"
	ErrInvalidLimit             = "--limit must be >= 1"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
)
