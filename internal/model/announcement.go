package model

// Announcement is the system announcement payload from the public API.
type Announcement struct {
	Enabled   bool    `json:"enabled"`
	Content   string  `json:"content"`
	UpdatedAt float64 `json:"updatedAt"`
	Level     string  `json:"level"` // info | warning | alert
}
