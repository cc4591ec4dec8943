package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwren/berth/internal/catalog"
	"github.com/jwren/berth/internal/config"
	"github.com/jwren/berth/internal/database/repository"
)

// NewSessionsCommand creates the sessions command.
func NewSessionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions [project] [session-id]",
		Short: "Print recorded projects, sessions or one transcript",
		Long: `Print the recorded-session index in a non-interactive format.
Without arguments: lists recorded projects.
With a project id or name: lists that project's sessions.
With a project and a session id: prints the transcript.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runSessions,
	}
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := newCatalog(db, cfg)
	ctx := cmd.Context()
	switch len(args) {
	case 0:
		return printProjects(ctx, svc)
	case 1:
		return printSessions(ctx, svc, args[0])
	default:
		return printTranscript(ctx, svc, args[0], args[1])
	}
}

func printProjects(ctx context.Context, svc *catalog.Service) error {
	ps, err := svc.ProjectList(ctx)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	if len(ps) == 0 {
		fmt.Println("no projects recorded; run `berth scan` first")
		return nil
	}
	for _, p := range ps {
		fmt.Printf("%-24s %3d sessions  last %s  (%s)\n",
			p.Name, p.SessionCount, p.LastActivity.Local().Format("2006-01-02 15:04"), p.ID)
	}
	return nil
}

func printSessions(ctx context.Context, svc *catalog.Service, ref string) error {
	proj, err := findProject(ctx, svc, ref)
	if err != nil {
		return err
	}
	ss, err := svc.SessionsFor(ctx, proj.ID)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(ss) == 0 {
		fmt.Printf("no sessions recorded for %s\n", proj.Name)
		return nil
	}
	fmt.Printf("sessions for %s (%s):\n", proj.Name, proj.Path)
	for _, s := range ss {
		title := s.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("  %s  %3d messages  last %s\n      %s\n",
			s.ID, s.MessageCount, s.LastActivity.Local().Format("2006-01-02 15:04"), title)
	}
	return nil
}

func printTranscript(ctx context.Context, svc *catalog.Service, ref, sessionID string) error {
	proj, err := findProject(ctx, svc, ref)
	if err != nil {
		return err
	}
	sess, err := svc.Session(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("lookup session: %w", err)
	}
	if sess == nil || sess.ProjectID != proj.ID {
		fmt.Printf("session %s not found in %s\n", sessionID, proj.Name)
		ss, err := svc.SessionsFor(ctx, proj.ID)
		if err != nil || len(ss) == 0 {
			return nil
		}
		fmt.Println("\navailable sessions:")
		for i, s := range ss {
			if i >= 10 {
				fmt.Printf("  ... and %d more\n", len(ss)-10)
				break
			}
			fmt.Printf("  %s  (last %s)\n", s.ID, s.LastActivity.Local().Format("2006-01-02 15:04"))
		}
		return nil
	}

	msgs, err := svc.Transcript(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}
	if len(msgs) == 0 {
		fmt.Println("no messages recorded")
		return nil
	}
	for _, m := range msgs {
		stamp := ""
		if !m.At.IsZero() {
			stamp = "  " + m.At.Local().Format("2006-01-02 15:04")
		}
		fmt.Printf("--- %s%s ---\n%s\n\n", m.Role, stamp, m.Text)
	}
	return nil
}

// findProject resolves a project by id first, then by name.
func findProject(ctx context.Context, svc *catalog.Service, ref string) (*repository.Project, error) {
	proj, err := svc.Project(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("lookup project: %w", err)
	}
	if proj != nil {
		return proj, nil
	}
	ps, err := svc.ProjectList(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	for i := range ps {
		if ps[i].Name == ref {
			return &ps[i], nil
		}
	}
	return nil, fmt.Errorf("project %q not found", ref)
}
