package model

// Theme names.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Preferences holds process-wide display settings, persisted with the data.
type Preferences struct {
	Theme         string `json:"theme"`
	Use24HourTime bool   `json:"use24HourTime"`
}

// DefaultPreferences returns the out-of-the-box settings.
func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeDark, Use24HourTime: false}
}

// SnapshotSchema documents the export format version. The field is written on
// export and ignored on import.
const SnapshotSchema = "calendarly/v1"

// Snapshot is the full persisted record: everything the app knows, in the
// shape used for export/import and as the sync payload. UpdatedAt is a
// millisecond timestamp used by the last-write-wins sync rule.
type Snapshot struct {
	Schema        string                    `json:"schema,omitempty"`
	Notes         map[string][]Note         `json:"notes"`
	Important     []string                  `json:"important"`
	Schedule      map[string][]ScheduleItem `json:"schedule"`
	Theme         string                    `json:"theme"`
	Use24HourTime bool                      `json:"use24HourTime"`
	UpdatedAt     int64                     `json:"updated_at,omitempty"`
}
