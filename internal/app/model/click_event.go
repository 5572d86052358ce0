package model

import "time"

// ClickEvent records one visit to a short link. Events are written once by
// the click consumer and never mutated; deleting the owning link cascades.
type ClickEvent struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	LinkID    string    `json:"link_id" gorm:"size:36;index;not null"`
	Link      *Link     `json:"-" gorm:"foreignKey:LinkID;constraint:OnDelete:CASCADE"`
	IPAddress string    `json:"ip_address,omitempty" gorm:"size:45"`
	UserAgent string    `json:"user_agent,omitempty" gorm:"size:500"`
	Referer   string    `json:"referer,omitempty" gorm:"size:500"`
	Country   string    `json:"country,omitempty" gorm:"size:2"`
	Browser   string    `json:"browser,omitempty" gorm:"size:100"`
	Bot       bool      `json:"bot,omitempty"`
	ClickedAt time.Time `json:"clicked_at" gorm:"index;not null"`
}

// TableName pins the table name assumed by the stats queries.
func (ClickEvent) TableName() string {
	return "click_events"
}

const (
	ClickStreamName     = "CLICKS"
	ClickStreamSubject  = "clicks.events"
	ClickConsumerName   = "click-recorder"
	ClickStreamMaxBytes = 1024 * 1024 * 100 // 100MB
)
