package nav

import "testing"

func TestParseLocation(t *testing.T) {
	cases := []struct {
		in   string
		want Route
	}{
		{"/projects", Route{Feature: "projects"}},
		{"/projects/p1", Route{Feature: "projects", ID: "p1"}},
		{"/projects/p1/s9", Route{Feature: "projects", ID: "p1", SubID: "s9"}},
		{"#/skills/review", Route{Feature: "skills", ID: "review"}},
		{"skills", Route{Feature: "skills"}},
		{"//commands//fmt", Route{Feature: "commands", ID: "fmt"}},
		{"", Route{}},
		{"   ", Route{}},
	}
	for _, c := range cases {
		if got := ParseLocation(c.in); got != c.want {
			t.Fatalf("ParseLocation(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestRouteString(t *testing.T) {
	r := Route{Feature: "projects", ID: "p1", SubID: "s9"}
	if got := r.String(); got != "/projects/p1/s9" {
		t.Fatalf("got %q", got)
	}
	if got := (Route{Feature: "skills"}).String(); got != "/skills" {
		t.Fatalf("got %q", got)
	}
}

func TestNeedsHydration(t *testing.T) {
	if (Route{Feature: "skills"}).NeedsHydration() {
		t.Fatalf("list route must not hydrate")
	}
	if !(Route{Feature: "skills", ID: "review"}).NeedsHydration() {
		t.Fatalf("detail route must hydrate")
	}
	if (Route{Feature: "bogus", ID: "x"}).NeedsHydration() {
		t.Fatalf("unknown feature must not hydrate")
	}
}

func TestInitialEntryIsSynchronous(t *testing.T) {
	// detail routes seed their parent list so first paint never waits
	e := InitialEntry(Route{Feature: "skills", ID: "review"})
	if _, ok := e.(SkillsEntry); !ok {
		t.Fatalf("detail route seeded %T, want the parent list", e)
	}
	if _, ok := InitialEntry(Route{Feature: "bogus"}).(ProjectsEntry); !ok {
		t.Fatalf("unknown feature must land on the home view")
	}
	if _, ok := InitialEntry(Route{Feature: "projects", ID: "p", SubID: "s"}).(ProjectsEntry); !ok {
		t.Fatalf("message detail route must seed the project list")
	}
}
