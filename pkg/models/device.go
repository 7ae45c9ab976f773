package models

import "time"

// DeviceCategory categorizes a user-declared gaming device.
type DeviceCategory string

const (
	CategoryComputer DeviceCategory = "computer"
	CategoryHandheld DeviceCategory = "handheld"
	CategoryConsole  DeviceCategory = "console"
	CategoryHybrid   DeviceCategory = "hybrid"
	CategoryMobile   DeviceCategory = "mobile"
	CategoryCustom   DeviceCategory = "custom"
)

// Valid reports whether c is one of the known categories.
func (c DeviceCategory) Valid() bool {
	switch c {
	case CategoryComputer, CategoryHandheld, CategoryConsole, CategoryHybrid, CategoryMobile, CategoryCustom:
		return true
	}
	return false
}

// PlatformLoadout describes one platform a device supports, together with the
// storefronts and subscription services available on that platform. A device
// may carry more than one loadout (e.g. a handheld PC running both a desktop
// OS and a console storefront OS).
type PlatformLoadout struct {
	Platform      string   `json:"platform"` // canonical platform tag
	Stores        []string `json:"stores,omitempty"`
	Subscriptions []string `json:"subscriptions,omitempty"`
}

// Device is a user-declared piece of gaming hardware. Devices are created and
// edited through the library module; the decision engines only read them.
type Device struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Category  DeviceCategory    `json:"category"`
	Loadouts  []PlatformLoadout `json:"loadouts"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// PlatformTags returns the canonical platform tags across all loadouts.
func (d *Device) PlatformTags() []string {
	tags := make([]string, 0, len(d.Loadouts))
	for i := range d.Loadouts {
		tags = append(tags, d.Loadouts[i].Platform)
	}
	return tags
}

// SupportsPlatform reports whether any loadout carries the given canonical tag.
func (d *Device) SupportsPlatform(tag string) bool {
	for i := range d.Loadouts {
		if d.Loadouts[i].Platform == tag {
			return true
		}
	}
	return false
}
