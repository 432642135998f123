package model

import "time"

const (
	MaterialStatusPending  = "pending"
	MaterialStatusApproved = "approved"
	MaterialStatusRejected = "rejected"
)

// Material is a faculty submission awaiting admin review. Once reviewed it is
// immutable except for conversion bookkeeping (FragmentID).
type Material struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OwnerID     uint       `gorm:"not null;index" json:"owner_id"`
	Title       string     `gorm:"size:256;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Course      string     `gorm:"size:128" json:"course"`
	Topic       string     `gorm:"size:128" json:"topic"`
	FileRef     string     `gorm:"size:256" json:"file_ref"`
	FileName    string     `gorm:"size:256" json:"file_name"`
	TextContent string     `gorm:"type:text" json:"text_content"`
	Status      string     `gorm:"size:16;not null;index;default:pending" json:"status"`
	ReviewedBy  uint       `gorm:"index" json:"reviewed_by"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	FragmentID  uint       `gorm:"index" json:"fragment_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
