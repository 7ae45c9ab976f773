package resolve

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// acceptableTiers is the allow-list of compatibility-layer report tiers that
// count as "runs acceptably". The external verdict source orders tiers
// native > platinum > gold > silver > bronze > borked; the top four qualify.
var acceptableTiers = map[string]bool{
	"native":   true,
	"platinum": true,
	"gold":     true,
	"silver":   true,
}

// TierAcceptable reports whether a compatibility-layer tier string is good
// enough to treat a Windows-native title as runnable on Linux-family devices.
// Unknown and empty tiers are not acceptable.
func TierAcceptable(tier string) bool {
	return acceptableTiers[strings.ToLower(strings.TrimSpace(tier))]
}

// VerdictCache memoizes compatibility verdicts per catalog identifier.
// Verdict lookups hit an external report source; the verdict for a given
// title changes rarely, so a TTL cache in front keeps repeat resolutions
// cheap. Wrapping the resolver call is the caller's choice; the resolver
// itself stays stateless.
type VerdictCache struct {
	c *gocache.Cache
}

// NewVerdictCache creates a cache whose entries expire after ttl.
func NewVerdictCache(ttl time.Duration) *VerdictCache {
	return &VerdictCache{c: gocache.New(ttl, 2*ttl)}
}

// Get returns the cached verdict for a catalog entry ID, if present.
func (v *VerdictCache) Get(entryID string) (verdict, ok bool) {
	val, found := v.c.Get(entryID)
	if !found {
		return false, false
	}
	b, _ := val.(bool)
	return b, true
}

// Put stores the verdict for a catalog entry ID.
func (v *VerdictCache) Put(entryID string, acceptable bool) {
	v.c.SetDefault(entryID, acceptable)
}
