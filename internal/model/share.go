package model

import "time"

// Share permissions. Download implies view.
const (
	PermissionView     = "view"
	PermissionDownload = "download"
)

// ValidPermission reports whether p is a known permission level.
func ValidPermission(p string) bool {
	return p == PermissionView || p == PermissionDownload
}

// Derived share statuses for display. Revoked wins over expired.
const (
	ShareStatusActive  = "active"
	ShareStatusExpired = "expired"
	ShareStatusRevoked = "revoked"
)

// Share is a tokenized grant of access to one document. The token is the
// external bearer capability; once issued the grant itself is immutable apart
// from soft revocation and access bookkeeping.
type Share struct {
	ID             string     `json:"id"`
	DocumentID     string     `json:"documentId"`
	GrantorID      string     `json:"-"`
	RecipientEmail string     `json:"sharedWithEmail"`
	RecipientID    *string    `json:"-"`
	Permission     string     `json:"permissions"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	IsActive       bool       `json:"isActive"`
	AccessCount    int        `json:"accessCount"`
	LastAccessedAt *time.Time `json:"lastAccessed,omitempty"`
	Token          string     `json:"shareToken"`
	CreatedAt      time.Time  `json:"createdAt"`

	// DerivedStatus is computed from IsActive and ExpiresAt when the share is
	// prepared for a response; it is never stored.
	DerivedStatus string `json:"status,omitempty"`
}

// Usable reports whether the share may still be served to its recipient:
// active and either unexpiring or not yet past its expiry.
func (s *Share) Usable(now time.Time) bool {
	if !s.IsActive {
		return false
	}
	return s.ExpiresAt == nil || now.Before(*s.ExpiresAt)
}

// Allows reports whether the stored permission satisfies the required
// capability. A download grant satisfies a view request, not vice versa.
func (s *Share) Allows(required string) bool {
	if s.Permission == required {
		return true
	}
	return s.Permission == PermissionDownload && required == PermissionView
}

// Status derives the display status; expiry is computed, never stored.
func (s *Share) Status(now time.Time) string {
	if !s.IsActive {
		return ShareStatusRevoked
	}
	if s.ExpiresAt != nil && !now.Before(*s.ExpiresAt) {
		return ShareStatusExpired
	}
	return ShareStatusActive
}

// GrantedShare is a share issued by the caller, joined with display metadata
// of the shared document.
type GrantedShare struct {
	Share
	DocumentTitle     string    `json:"documentTitle"`
	DocumentCategory  string    `json:"documentCategory"`
	DocumentCreatedAt time.Time `json:"documentCreatedAt"`
}

// ReceivedShare is a share whose recipient is the caller, joined with the
// document metadata and the grantor's display identity.
type ReceivedShare struct {
	Share
	DocumentTitle     string    `json:"documentTitle"`
	DocumentCategory  string    `json:"documentCategory"`
	DocumentCreatedAt time.Time `json:"documentCreatedAt"`
	GrantorName       string    `json:"sharedByName"`
	GrantorEmail      string    `json:"sharedByEmail"`
}
