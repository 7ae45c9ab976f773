package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/stoodlemayer/gameshelf/pkg/models"
)

// NewDevice returns a Device with sensible defaults, suitable for test
// fixtures. Override individual fields via options.
func NewDevice(opts ...func(*models.Device)) models.Device {
	d := models.Device{
		ID:       uuid.New().String(),
		Name:     "Gaming PC",
		Category: models.CategoryComputer,
		Loadouts: []models.PlatformLoadout{
			{Platform: "windows", Stores: []string{"Steam"}},
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// WithName sets the device name.
func WithName(name string) func(*models.Device) {
	return func(d *models.Device) { d.Name = name }
}

// WithCategory sets the device category.
func WithCategory(c models.DeviceCategory) func(*models.Device) {
	return func(d *models.Device) { d.Category = c }
}

// WithPlatforms replaces the loadouts with bare loadouts for the given
// canonical platform tags.
func WithPlatforms(tags ...string) func(*models.Device) {
	return func(d *models.Device) {
		d.Loadouts = d.Loadouts[:0]
		for _, tag := range tags {
			d.Loadouts = append(d.Loadouts, models.PlatformLoadout{Platform: tag})
		}
	}
}

// NewEntry returns a CatalogEntry fixture.
func NewEntry(name string, opts ...func(*models.CatalogEntry)) models.CatalogEntry {
	e := models.CatalogEntry{
		ID:   uuid.New().String(),
		Name: name,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// WithReleaseYear sets the entry's release date to January 1 of the year.
func WithReleaseYear(year int) func(*models.CatalogEntry) {
	return func(e *models.CatalogEntry) {
		t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		e.ReleaseDate = &t
	}
}

// WithEntryPlatforms sets the entry's declared platform names.
func WithEntryPlatforms(platforms ...string) func(*models.CatalogEntry) {
	return func(e *models.CatalogEntry) { e.Platforms = platforms }
}

// WithPopularity sets the entry's popularity count.
func WithPopularity(n int) func(*models.CatalogEntry) {
	return func(e *models.CatalogEntry) { e.Popularity = n }
}

// WithRating sets the entry's 0–5 rating.
func WithRating(r float64) func(*models.CatalogEntry) {
	return func(e *models.CatalogEntry) { e.Rating = r }
}
