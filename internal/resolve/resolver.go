// Package resolve implements the catalog-to-device platform resolver: given a
// selected catalog entry and the user's declared devices, it returns the
// devices plausibly able to run the game.
package resolve

import (
	"github.com/stoodlemayer/gameshelf/pkg/compat"
	"github.com/stoodlemayer/gameshelf/pkg/models"
)

// RetroYearCutoff: entries released before this year are treated as retro.
// Legacy titles are frequently rereleased or emulated on the original
// vendor's current hardware.
const RetroYearCutoff = 2000

// Resolver filters devices against a catalog entry's declared platforms using
// the compatibility table. Pure and stateless; safe for concurrent use.
type Resolver struct {
	table *compat.Table
}

// NewResolver creates a Resolver backed by the given compatibility table.
func NewResolver(table *compat.Table) *Resolver {
	return &Resolver{table: table}
}

// ResolveDevices returns the subset of devices judged compatible with the
// entry. When the entry is nil or declares no platforms there is nothing to
// filter on and all devices are returned. When filtering would leave the user
// with zero options, the full device list is returned instead: under-filtering
// is preferred over over-filtering. The input slice is never mutated.
func (r *Resolver) ResolveDevices(entry *models.CatalogEntry, devices []models.Device, compatHint bool) []models.Device {
	if entry == nil || len(entry.Platforms) == 0 {
		return copyDevices(devices)
	}

	tags := r.compatibleTags(entry, compatHint)

	matched := make([]models.Device, 0, len(devices))
	for i := range devices {
		if deviceMatches(&devices[i], tags) {
			matched = append(matched, devices[i])
		}
	}

	if len(matched) == 0 && len(devices) > 0 {
		resolverFallbacks.Inc()
		return copyDevices(devices)
	}
	return matched
}

// FilteredCount reports how many devices the entry filtered out, for UI
// messaging ("3 of your 5 devices can run this").
func (r *Resolver) FilteredCount(entry *models.CatalogEntry, devices []models.Device, compatHint bool) int {
	return len(devices) - len(r.ResolveDevices(entry, devices, compatHint))
}

// compatibleTags translates the entry's declared platform names into the set
// of canonical tags a device may match on.
func (r *Resolver) compatibleTags(entry *models.CatalogEntry, compatHint bool) map[string]bool {
	tags := make(map[string]bool)
	for _, declared := range entry.Platforms {
		for _, tag := range r.table.Tags(declared) {
			tags[tag] = true
		}
	}

	// Retro extension: legacy-console titles are routinely rereleased on the
	// family's modern successor. This is an explicit per-family extension,
	// not a blanket retro exemption.
	year := entry.ReleaseYear()
	if year != 0 && year < RetroYearCutoff {
		for tag := range tags {
			if successor, ok := r.table.Successor(tag); ok {
				if !tags[successor] {
					retroExtensions.Inc()
				}
				tags[successor] = true
			}
		}
	}

	// The caller has verified the title runs under a Linux compatibility
	// layer; Linux-family devices become candidates.
	if compatHint {
		for _, tag := range r.table.LinuxFamily() {
			tags[tag] = true
		}
	}

	return tags
}

// deviceMatches reports whether any of the device's loadout tags is in the
// compatible set.
func deviceMatches(d *models.Device, tags map[string]bool) bool {
	for i := range d.Loadouts {
		if tags[d.Loadouts[i].Platform] {
			return true
		}
	}
	return false
}

func copyDevices(devices []models.Device) []models.Device {
	cp := make([]models.Device, len(devices))
	copy(cp, devices)
	return cp
}
