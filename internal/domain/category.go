package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node in the product taxonomy. ParentID is nil for root
// categories. Tree acyclicity is a storage concern, not checked here.
type Category struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty" db:"parent_id"`
	ImagePath   string     `json:"image_path" db:"image_path"`
	SEOKeywords string     `json:"seo_keywords" db:"seo_keywords"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
