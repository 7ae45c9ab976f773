package artwork

import "github.com/stoodlemayer/gameshelf/pkg/models"

// Slot names. The set and order are configuration, not user data.
const (
	SlotCover   = "cover"   // portrait box art
	SlotHero    = "hero"    // ultra-wide page banner
	SlotCapsule = "capsule" // wide store capsule
	SlotLogo    = "logo"    // transparent wordmark
)

// SmallImageMaxDim: a transparent image with both dimensions at or below this
// is treated as a logo before any dimension matching runs. Logos are
// typically small transparent PNGs and would otherwise be pulled toward an
// opaque slot by dimension proximity.
const SmallImageMaxDim = 512

// DefaultSlots returns the expected artwork slots in matching priority order.
// Tolerances overlap between slots, so this order decides ties: the first
// slot an image fits wins, and the result never depends on map iteration.
// The logo slot is transparency-defined and carries no target dimensions.
func DefaultSlots() []models.ArtworkSlot {
	return []models.ArtworkSlot{
		{Name: SlotCover, Width: 600, Height: 900, Tolerance: 64},
		{Name: SlotHero, Width: 1920, Height: 620, Tolerance: 128},
		{Name: SlotCapsule, Width: 920, Height: 430, Tolerance: 64},
		{Name: SlotLogo, RequiresTransparency: true},
	}
}
