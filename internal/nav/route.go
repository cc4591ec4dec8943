package nav

import "strings"

// Route is a parsed location string: /<feature>[/<id>[/<subId>]].
type Route struct {
	Feature string
	ID      string
	SubID   string
}

// ParseLocation splits a location string into its segments. A leading hash
// mark is tolerated since persisted locations may carry one. Anything
// unparseable comes back as the zero Route, which resolves to the home view.
func ParseLocation(loc string) Route {
	loc = strings.TrimPrefix(strings.TrimSpace(loc), "#")
	parts := strings.Split(loc, "/")
	segs := parts[:0]
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	var r Route
	if len(segs) > 0 {
		r.Feature = segs[0]
	}
	if len(segs) > 1 {
		r.ID = segs[1]
	}
	if len(segs) > 2 {
		r.SubID = segs[2]
	}
	return r
}

func (r Route) String() string {
	s := "/" + r.Feature
	if r.ID != "" {
		s += "/" + r.ID
		if r.SubID != "" {
			s += "/" + r.SubID
		}
	}
	return s
}

// NeedsHydration reports whether the route addresses a detail view whose
// data must be looked up before its entry can be pushed.
func (r Route) NeedsHydration() bool {
	switch r.Feature {
	case "projects", "skills", "commands", "templates":
		return r.ID != ""
	}
	return false
}

// InitialEntry maps a route to the entry rendered synchronously on first
// paint. Detail routes seed their parent list; the detail itself arrives by
// hydration. Unknown features land on the home view.
func InitialEntry(r Route) Entry {
	switch r.Feature {
	case "skills":
		return SkillsEntry{}
	case "commands":
		return CommandsEntry{}
	case "templates":
		return TemplatesEntry{}
	default:
		return ProjectsEntry{}
	}
}
