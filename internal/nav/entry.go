// Package nav models the library's navigation: a closed set of view entries,
// the location strings that address them, and the back/forward history the
// browser moves through.
package nav

import "github.com/jwren/berth/internal/database/repository"

// Entry is one member of the navigation history. The set of variants is
// closed: every view the library can show has exactly one entry type, and
// each entry carries what its view needs to identify itself.
type Entry interface {
	// Feature is the first location segment ("projects", "skills", ...).
	Feature() string
	// Title is the breadcrumb label.
	Title() string
	// Location is the entry's address, suitable for persistence.
	Location() string

	isEntry()
}

// ProjectsEntry is the recorded-project list, the library's home view.
type ProjectsEntry struct{}

func (ProjectsEntry) Feature() string  { return "projects" }
func (ProjectsEntry) Title() string    { return "Projects" }
func (ProjectsEntry) Location() string { return "/projects" }
func (ProjectsEntry) isEntry()         {}

// SessionsEntry lists one project's recorded sessions.
type SessionsEntry struct {
	Project repository.Project
}

func (SessionsEntry) Feature() string { return "projects" }
func (e SessionsEntry) Title() string { return e.Project.Name }
func (e SessionsEntry) Location() string {
	return "/projects/" + e.Project.ID
}
func (SessionsEntry) isEntry() {}

// MessagesEntry shows one recorded session's transcript.
type MessagesEntry struct {
	Session     repository.Session
	ProjectName string
}

func (MessagesEntry) Feature() string { return "projects" }
func (e MessagesEntry) Title() string {
	if e.Session.Title != "" {
		return e.Session.Title
	}
	return e.Session.ID
}
func (e MessagesEntry) Location() string {
	return "/projects/" + e.Session.ProjectID + "/" + e.Session.ID
}
func (MessagesEntry) isEntry() {}

// SkillsEntry is the skill list.
type SkillsEntry struct{}

func (SkillsEntry) Feature() string  { return "skills" }
func (SkillsEntry) Title() string    { return "Skills" }
func (SkillsEntry) Location() string { return "/skills" }
func (SkillsEntry) isEntry()         {}

// SkillEntry is one skill's detail view.
type SkillEntry struct {
	Item repository.Item
}

func (SkillEntry) Feature() string    { return "skills" }
func (e SkillEntry) Title() string    { return e.Item.Name }
func (e SkillEntry) Location() string { return "/skills/" + e.Item.ID }
func (SkillEntry) isEntry()           {}

// CommandsEntry is the command list.
type CommandsEntry struct{}

func (CommandsEntry) Feature() string  { return "commands" }
func (CommandsEntry) Title() string    { return "Commands" }
func (CommandsEntry) Location() string { return "/commands" }
func (CommandsEntry) isEntry()         {}

// CommandEntry is one command's detail view.
type CommandEntry struct {
	Item repository.Item
}

func (CommandEntry) Feature() string    { return "commands" }
func (e CommandEntry) Title() string    { return e.Item.Name }
func (e CommandEntry) Location() string { return "/commands/" + e.Item.ID }
func (CommandEntry) isEntry()           {}

// TemplatesEntry is the template list.
type TemplatesEntry struct{}

func (TemplatesEntry) Feature() string  { return "templates" }
func (TemplatesEntry) Title() string    { return "Templates" }
func (TemplatesEntry) Location() string { return "/templates" }
func (TemplatesEntry) isEntry()         {}

// TemplateEntry is one template's detail view.
type TemplateEntry struct {
	Item repository.Item
}

func (TemplateEntry) Feature() string    { return "templates" }
func (e TemplateEntry) Title() string    { return e.Item.Name }
func (e TemplateEntry) Location() string { return "/templates/" + e.Item.ID }
func (TemplateEntry) isEntry()           {}
