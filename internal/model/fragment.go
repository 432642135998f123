package model

import "time"

// KnowledgeFragment is one unit of curated knowledge included in the
// assistant's system instruction. OrderKey is monotonically increasing and
// determines assembly order. SourceMaterialID is zero for fragments an admin
// authored directly.
type KnowledgeFragment struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	OrderKey         int64     `gorm:"not null;uniqueIndex" json:"order_key"`
	Title            string    `gorm:"size:256;not null" json:"title"`
	Content          string    `gorm:"type:text;not null" json:"content"`
	SourceMaterialID uint      `gorm:"index" json:"source_material_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
