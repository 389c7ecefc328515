package model

import "time"

// ShortLink maps a generated code, and optionally a user-chosen alias, to a destination.
type ShortLink struct {
	ID          int64
	OriginalURL string
	ShortCode   string
	CustomCode  *string
	OwnerID     *string
	ExpiresAt   *time.Time
	CreatedAt   time.Time
}

// ResolvedCode is the code a visitor should use: the custom code when one was chosen.
func (l ShortLink) ResolvedCode() string {
	if l.CustomCode != nil && *l.CustomCode != "" {
		return *l.CustomCode
	}
	return l.ShortCode
}

// IsExpired reports whether the link can no longer be resolved at now.
func (l ShortLink) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && !l.ExpiresAt.After(now)
}

// IsOwnedBy reports whether ownerID created the link.
func (l ShortLink) IsOwnedBy(ownerID string) bool {
	return ownerID != "" && l.OwnerID != nil && *l.OwnerID == ownerID
}
