package models

import "time"

// Platform is a social network an integration can connect to.
type Platform struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Platforms returns the supported platforms.
func Platforms() []Platform {
	return []Platform{
		{ID: "twitter", Name: "Twitter", Icon: "twitter.svg"},
		{ID: "instagram", Name: "Instagram", Icon: "instagram.svg"},
		{ID: "facebook", Name: "Facebook", Icon: "facebook.svg"},
		{ID: "linkedin", Name: "LinkedIn", Icon: "linkedin.svg"},
		{ID: "whatsapp", Name: "WhatsApp", Icon: "whatsapp.svg"},
	}
}

// PlatformByID looks up a platform in the catalogue.
func PlatformByID(id string) (Platform, bool) {
	for _, p := range Platforms() {
		if p.ID == id {
			return p, true
		}
	}

	return Platform{}, false
}

// Integration metadata keys.
const (
	MetadataLastSync    = "last_sync"
	MetadataProfileName = "profile_name"
)

// Integration is a connected platform account. AccessToken and RefreshToken hold sealed
// values; they are never exposed through the API.
type Integration struct {
	Record `yaml:",inline"`

	PlatformID   string         `json:"platform_id"             yaml:"platform_id"             validate:"required,oneof=twitter instagram facebook linkedin whatsapp"`
	PlatformName string         `json:"platform_name"           yaml:"platform_name"`
	AccessToken  string         `json:"access_token"            yaml:"access_token"            validate:"required"`
	RefreshToken string         `json:"refresh_token,omitempty" yaml:"refresh_token,omitempty"`
	TokenExpiry  *time.Time     `json:"token_expiry,omitempty"  yaml:"token_expiry,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"      yaml:"metadata,omitempty"`
}

func (i *Integration) DisplayName() string {
	return i.PlatformName
}

// TokenExpired reports whether the access token has expired at now.
func (i *Integration) TokenExpired(now time.Time) bool {
	return i.TokenExpiry != nil && !i.TokenExpiry.After(now)
}
