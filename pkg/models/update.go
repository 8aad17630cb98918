package models

import "time"

// UpdateStatus is the derived publication state of an update.
type UpdateStatus string

const (
	UpdateStatusDraft     UpdateStatus = "draft"
	UpdateStatusScheduled UpdateStatus = "scheduled"
	UpdateStatusPublished UpdateStatus = "published"
)

// Update is a business announcement published to followers.
type Update struct {
	Record `yaml:",inline"`

	Title       string     `json:"title"                  yaml:"title"                  validate:"required"`
	Content     string     `json:"content"                yaml:"content"                validate:"required"`
	Category    string     `json:"category,omitempty"     yaml:"category,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty" yaml:"scheduled_at,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty" yaml:"published_at,omitempty"`
}

func (u *Update) DisplayName() string {
	return u.Title
}

// Status derives the publication state at the given time.
func (u *Update) Status(now time.Time) UpdateStatus {
	switch {
	case u.PublishedAt != nil:
		return UpdateStatusPublished
	case u.ScheduledAt != nil && u.ScheduledAt.After(now):
		return UpdateStatusScheduled
	default:
		return UpdateStatusDraft
	}
}

// IsDue reports whether an active, unpublished update has reached its scheduled time.
func (u *Update) IsDue(now time.Time) bool {
	return u.IsActive && u.PublishedAt == nil && u.ScheduledAt != nil && !u.ScheduledAt.After(now)
}

// Publish marks the update as published at now.
func (u *Update) Publish(now time.Time) {
	u.PublishedAt = &now
}
