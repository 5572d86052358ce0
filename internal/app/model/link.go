package model

import (
	"fmt"
	"strings"
	"time"
)

// Link describes the core short-link entity stored in Postgres.
type Link struct {
	ID          string     `db:"id" gorm:"primaryKey;size:36"`
	ShortCode   string     `db:"short_code" gorm:"uniqueIndex;size:32;not null"`
	OriginalURL string     `db:"original_url" gorm:"type:text;not null"`
	Title       *string    `db:"title" gorm:"size:200"`
	ClickCount  int64      `db:"click_count" gorm:"not null;default:0"`
	OwnerID     *string    `db:"owner_id" gorm:"size:36;index"`
	ExpiresAt   *time.Time `db:"expires_at" gorm:"index"`
	CreatedAt   time.Time  `db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName keeps the table name aligned with the click_events FK.
func (Link) TableName() string {
	return "urls"
}

// IsActive reports whether the link is resolvable at the given instant.
// A link with no expiry never goes inactive.
func (l *Link) IsActive(now time.Time) bool {
	return l.ExpiresAt == nil || l.ExpiresAt.After(now)
}

// ShortURL builds the public short URL for this link.
func (l *Link) ShortURL(baseURL string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(baseURL, "/"), l.ShortCode)
}

// OwnedBy reports whether ownerID may manage this link. Anonymous links
// have no owner and can be managed by anyone who knows the code.
func (l *Link) OwnedBy(ownerID string) bool {
	return l.OwnerID == nil || *l.OwnerID == ownerID
}
