package models

// UploadedImage is one uploaded artwork file after measuring: pixel dimensions
// plus a transparency flag derived by sampling the alpha channel. It exists
// only for the duration of one classification pass.
type UploadedImage struct {
	Name            string `json:"name"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	HasTransparency bool   `json:"has_transparency"`
}

// AspectRatio returns width/height, or 0 when the height is 0.
func (img *UploadedImage) AspectRatio() float64 {
	if img.Height == 0 {
		return 0
	}
	return float64(img.Width) / float64(img.Height)
}

// ArtworkSlot is one expected artwork target. Exactly one slot in a slot set
// is transparency-defined (RequiresTransparency true) and matches on the alpha
// channel instead of dimensions.
type ArtworkSlot struct {
	Name                 string `json:"name"`
	Width                int    `json:"width,omitempty"`
	Height               int    `json:"height,omitempty"`
	Tolerance            int    `json:"tolerance,omitempty"` // allowed deviation in pixels, per axis
	RequiresTransparency bool   `json:"requires_transparency,omitempty"`
}

// Confidence grades how certain the classifier is about a slot assignment.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// ImageAssignment maps one uploaded image to at most one artwork slot. Slot is
// empty when the image could not be classified. Reason is a human-readable
// explanation of how the assignment was decided.
type ImageAssignment struct {
	Image      UploadedImage `json:"image"`
	Slot       string        `json:"slot,omitempty"`
	Confidence Confidence    `json:"confidence"`
	Reason     string        `json:"reason"`
}
