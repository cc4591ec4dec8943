package repository

import "time"

// Item kinds indexed from the workspace root.
const (
	KindSkill    = "skill"
	KindCommand  = "command"
	KindTemplate = "template"
)

// Item represents a catalog artifact row: a skill, command or template
// discovered under the workspace root.
type Item struct {
	Kind        string
	ID          string
	Name        string
	Description string
	Body        string
	Path        string
	UpdatedAt   time.Time
}

// Project represents a recorded project row.
type Project struct {
	ID           string
	Name         string
	Path         string
	SessionCount int
	LastActivity time.Time
}

// Session represents a recorded session row belonging to a project.
type Session struct {
	ID           string
	ProjectID    string
	Title        string
	Path         string
	MessageCount int
	LastActivity time.Time
}
