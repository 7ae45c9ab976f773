package library_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stoodlemayer/gameshelf/internal/library"
	"github.com/stoodlemayer/gameshelf/internal/testutil"
	"github.com/stoodlemayer/gameshelf/pkg/models"
)

func newDeviceRepo(t *testing.T) library.DeviceRepository {
	t.Helper()
	st := testutil.NewStore(t)
	repo, err := library.NewSQLiteDeviceRepository(context.Background(), st)
	require.NoError(t, err)
	return repo
}

func TestDeviceRepositoryCreateAndGet(t *testing.T) {
	repo := newDeviceRepo(t)
	ctx := context.Background()

	d := testutil.NewDevice(testutil.WithName("Steam Deck"),
		testutil.WithCategory(models.CategoryHandheld),
		testutil.WithPlatforms("steamos", "linux"))
	d.ID = ""

	require.NoError(t, repo.Create(ctx, &d))
	require.NotEmpty(t, d.ID, "Create should generate an ID")

	got, err := repo.Get(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, "Steam Deck", got.Name)
	require.Equal(t, models.CategoryHandheld, got.Category)
	require.Len(t, got.Loadouts, 2)
	require.Equal(t, "steamos", got.Loadouts[0].Platform)
	require.False(t, got.CreatedAt.IsZero())
	require.False(t, got.UpdatedAt.IsZero())
}

func TestDeviceRepositoryGetNotFound(t *testing.T) {
	repo := newDeviceRepo(t)
	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, library.ErrNotFound)
}

func TestDeviceRepositoryListFilters(t *testing.T) {
	repo := newDeviceRepo(t)
	ctx := context.Background()

	devices := []models.Device{
		testutil.NewDevice(testutil.WithName("Gaming PC"), testutil.WithCategory(models.CategoryComputer)),
		testutil.NewDevice(testutil.WithName("Steam Deck"), testutil.WithCategory(models.CategoryHandheld)),
		testutil.NewDevice(testutil.WithName("Switch"), testutil.WithCategory(models.CategoryHybrid)),
	}
	for i := range devices {
		require.NoError(t, repo.Create(ctx, &devices[i]))
	}

	result, err := repo.List(ctx, library.DeviceFilter{Category: "handheld"}, library.ListOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	require.Len(t, result.Items, 1)
	require.Equal(t, "Steam Deck", result.Items[0].Name)

	result, err = repo.List(ctx, library.DeviceFilter{Search: "s"}, library.ListOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, result.Total, "search 's' should match Steam Deck and Switch")
}

func TestDeviceRepositoryListPagination(t *testing.T) {
	repo := newDeviceRepo(t)
	ctx := context.Background()

	for _, name := range []string{"Alpha", "Beta", "Gamma", "Delta"} {
		d := testutil.NewDevice(testutil.WithName(name))
		require.NoError(t, repo.Create(ctx, &d))
	}

	result, err := repo.List(ctx, library.DeviceFilter{}, library.ListOptions{Limit: 2, Offset: 2, SortBy: "name"})
	require.NoError(t, err)
	require.Equal(t, 4, result.Total)
	require.Len(t, result.Items, 2)
	require.Equal(t, "Delta", result.Items[0].Name, "alphabetical page at offset 2")
}

func TestDeviceRepositoryUpdate(t *testing.T) {
	repo := newDeviceRepo(t)
	ctx := context.Background()

	d := testutil.NewDevice(testutil.WithName("Old Name"))
	require.NoError(t, repo.Create(ctx, &d))

	d.Name = "New Name"
	d.Loadouts = []models.PlatformLoadout{{Platform: "windows", Stores: []string{"Steam", "GOG"}}}
	require.NoError(t, repo.Update(ctx, &d))

	got, err := repo.Get(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, "New Name", got.Name)
	require.Len(t, got.Loadouts, 1)
	require.Equal(t, []string{"Steam", "GOG"}, got.Loadouts[0].Stores)
}

func TestDeviceRepositoryUpdateNotFound(t *testing.T) {
	repo := newDeviceRepo(t)
	d := testutil.NewDevice()
	require.ErrorIs(t, repo.Update(context.Background(), &d), library.ErrNotFound)
}

func TestDeviceRepositoryDelete(t *testing.T) {
	repo := newDeviceRepo(t)
	ctx := context.Background()

	d := testutil.NewDevice()
	require.NoError(t, repo.Create(ctx, &d))
	require.NoError(t, repo.Delete(ctx, d.ID))

	_, err := repo.Get(ctx, d.ID)
	require.ErrorIs(t, err, library.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, d.ID), library.ErrNotFound)
}

func TestDeviceRepositoryListAll(t *testing.T) {
	repo := newDeviceRepo(t)
	ctx := context.Background()

	for _, name := range []string{"B", "A"} {
		d := testutil.NewDevice(testutil.WithName(name))
		require.NoError(t, repo.Create(ctx, &d))
	}

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "A", all[0].Name, "ListAll is name-ordered")
}
