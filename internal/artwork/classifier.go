// Package artwork implements the image type classifier: it assigns uploaded
// artwork files to expected slots by transparency, dimension tolerance, and
// aspect ratio, and surfaces slot collisions for user adjudication.
package artwork

import (
	"fmt"

	"github.com/stoodlemayer/gameshelf/pkg/models"
)

// Aspect-ratio bands used when no slot matches by dimensions.
const (
	ratioTall      = 0.8 // below: portrait, likely box art
	ratioUltraWide = 2.5 // above: banner
	ratioWide      = 1.5 // above: capsule
)

// Classifier assigns uploaded images to artwork slots. Pure and
// deterministic; safe for concurrent use.
type Classifier struct {
	slots []models.ArtworkSlot
}

// NewClassifier creates a classifier over the given ordered slot set. Pass
// DefaultSlots() for the standard four-slot layout.
func NewClassifier(slots []models.ArtworkSlot) *Classifier {
	return &Classifier{slots: slots}
}

// Classify produces exactly one assignment per input image. No image is ever
// left unaccounted for: images that match nothing get an empty slot with low
// confidence.
func (c *Classifier) Classify(images []models.UploadedImage) []models.ImageAssignment {
	out := make([]models.ImageAssignment, len(images))
	for i := range images {
		out[i] = c.classifyOne(images[i])
	}
	return out
}

// classifyOne runs the decision ladder for a single image:
//  1. small transparent image goes to the transparency-defined slot
//  2. dimension slots in priority order, first within-tolerance match wins
//  3. aspect-ratio banding (low confidence)
//  4. unclassified (low confidence, no slot)
func (c *Classifier) classifyOne(img models.UploadedImage) models.ImageAssignment {
	if img.HasTransparency && img.Width <= SmallImageMaxDim && img.Height <= SmallImageMaxDim {
		if slot, ok := c.transparencySlot(); ok {
			return models.ImageAssignment{
				Image:      img,
				Slot:       slot.Name,
				Confidence: models.ConfidenceHigh,
				Reason:     fmt.Sprintf("small transparent image (%dx%d)", img.Width, img.Height),
			}
		}
	}

	for _, slot := range c.slots {
		if slot.RequiresTransparency {
			continue
		}
		if withinTolerance(img.Width, slot.Width, slot.Tolerance) &&
			withinTolerance(img.Height, slot.Height, slot.Tolerance) {
			return models.ImageAssignment{
				Image:      img,
				Slot:       slot.Name,
				Confidence: models.ConfidenceHigh,
				Reason: fmt.Sprintf("%dx%d within ±%dpx of %s target %dx%d",
					img.Width, img.Height, slot.Tolerance, slot.Name, slot.Width, slot.Height),
			}
		}
	}

	if slot, reason := c.bandByAspect(img); slot != "" {
		return models.ImageAssignment{
			Image:      img,
			Slot:       slot,
			Confidence: models.ConfidenceLow,
			Reason:     reason,
		}
	}

	return models.ImageAssignment{
		Image:      img,
		Confidence: models.ConfidenceLow,
		Reason:     fmt.Sprintf("no slot matches %dx%d", img.Width, img.Height),
	}
}

// bandByAspect falls back to coarse aspect-ratio bands. Returns an empty slot
// name when the ratio is unremarkable.
func (c *Classifier) bandByAspect(img models.UploadedImage) (slot, reason string) {
	ratio := img.AspectRatio()
	switch {
	case ratio == 0:
		return "", ""
	case ratio < ratioTall:
		return SlotCover, fmt.Sprintf("portrait aspect ratio %.2f", ratio)
	case ratio > ratioUltraWide:
		return SlotHero, fmt.Sprintf("ultra-wide aspect ratio %.2f", ratio)
	case ratio > ratioWide:
		return SlotCapsule, fmt.Sprintf("wide aspect ratio %.2f", ratio)
	default:
		return "", ""
	}
}

// transparencySlot returns the single transparency-defined slot.
func (c *Classifier) transparencySlot() (models.ArtworkSlot, bool) {
	for _, slot := range c.slots {
		if slot.RequiresTransparency {
			return slot, true
		}
	}
	return models.ArtworkSlot{}, false
}

func withinTolerance(actual, target, tolerance int) bool {
	diff := actual - target
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

// Result partitions a classification pass for the caller: Auto holds
// assignments that can be applied without confirmation, Conflicts holds
// slots claimed by more than one high-confidence image, Manual holds
// everything needing user review.
type Result struct {
	Assignments []models.ImageAssignment            `json:"assignments"`
	Auto        []models.ImageAssignment            `json:"auto"`
	Conflicts   map[string][]models.ImageAssignment `json:"conflicts,omitempty"`
	Manual      []models.ImageAssignment            `json:"manual,omitempty"`
}

// DetectConflicts splits assignments into the auto-assign, conflict, and
// manual buckets. A slot with more than one high-confidence claimant is a
// conflict: all of its claimants are re-flagged (message changed, confidence
// kept high) and routed to user resolution rather than silently resolved.
// Low-confidence assignments always go to Manual.
func DetectConflicts(assignments []models.ImageAssignment) Result {
	res := Result{
		Assignments: assignments,
		Auto:        []models.ImageAssignment{},
		Manual:      []models.ImageAssignment{},
	}

	claims := make(map[string]int)
	for i := range assignments {
		if assignments[i].Confidence == models.ConfidenceHigh && assignments[i].Slot != "" {
			claims[assignments[i].Slot]++
		}
	}

	for i := range assignments {
		a := assignments[i]
		if a.Confidence != models.ConfidenceHigh || a.Slot == "" {
			res.Manual = append(res.Manual, a)
			continue
		}
		if claims[a.Slot] > 1 {
			a.Reason = fmt.Sprintf("%d images claim the %s slot", claims[a.Slot], a.Slot)
			if res.Conflicts == nil {
				res.Conflicts = make(map[string][]models.ImageAssignment)
			}
			res.Conflicts[a.Slot] = append(res.Conflicts[a.Slot], a)
			continue
		}
		res.Auto = append(res.Auto, a)
	}

	return res
}
