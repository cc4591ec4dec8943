package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jwren/berth/internal/catalog"
	"github.com/jwren/berth/internal/config"
	"github.com/jwren/berth/internal/database"
	"github.com/jwren/berth/internal/database/repository"
	"github.com/jwren/berth/internal/nav"
	"github.com/jwren/berth/internal/testdata"
)

func newTestApp(t *testing.T, location string) *App {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	root := t.TempDir()
	_, err := testdata.Scaffold(root)
	require.NoError(t, err)

	db, err := database.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrations(db))

	svc := &catalog.Service{
		DB:       db,
		Root:     root,
		Items:    repository.NewItemRepo(db),
		Projects: repository.NewProjectRepo(db),
		Sessions: repository.NewSessionRepo(db),
	}
	_, err = svc.Rescan(ctx)
	require.NoError(t, err)

	return New(context.Background(), config.Config{}, Deps{
		Catalog:  svc,
		Location: location,
	})
}

func TestDeepLinkSeedsParentListSynchronously(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, "/skills/code-review")

	require.Equal(t, 1, a.history.Len())
	require.Equal(t, 0, a.history.Index())
	require.IsType(t, nav.SkillsEntry{}, a.history.Current())
	require.True(t, a.needsHydrate)
}

func TestDeepLinkHydratesOnce(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, "/skills/code-review")

	msg := a.hydrateCmd(a.hydrateRoute)()
	hm, ok := msg.(hydratedMsg)
	require.True(t, ok, "expected hydratedMsg, got %T", msg)

	detail, ok := hm.entry.(nav.SkillEntry)
	require.True(t, ok, "expected SkillEntry, got %T", hm.entry)
	require.Equal(t, "code-review", detail.Item.ID)

	a.Update(msg)
	require.Equal(t, 2, a.history.Len())
	require.Equal(t, 1, a.history.Index())
	require.Empty(t, a.notFound)
	cur, ok := a.history.Current().(nav.SkillEntry)
	require.True(t, ok)
	require.Equal(t, "code-review", cur.Item.ID)

	// The latch has been consumed: re-running the command resolves nothing
	// and cannot push a second detail entry.
	require.Nil(t, a.hydrateCmd(a.hydrateRoute)())
	require.Equal(t, 2, a.history.Len())
}

func TestDeepLinkMissLeavesHistoryUntouched(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, "/skills/does-not-exist")

	msg := a.hydrateCmd(a.hydrateRoute)()
	_, ok := msg.(hydrateMissMsg)
	require.True(t, ok, "expected hydrateMissMsg, got %T", msg)

	a.Update(msg)
	require.Equal(t, 1, a.history.Len())
	require.Equal(t, 0, a.history.Index())
	require.IsType(t, nav.SkillsEntry{}, a.history.Current())
	require.Equal(t, "/skills/does-not-exist not found", a.notFound)
}
