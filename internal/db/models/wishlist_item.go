package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WishlistItem represents one entry on a user's wishlist.
// Wishlists belong to users, not to groups. Whether another member may see
// them is decided per group by the ShowWishlists setting.
type WishlistItem struct {
	// ID is the unique identifier for the item (UUID).
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// UserID is the ID of the user owning the wishlist.
	UserID string `gorm:"size:36;not null;index" json:"userId"`
	// Name is the short name of the wished item.
	Name string `gorm:"size:100;not null" json:"name"`
	// Description explains the wish in more detail.
	Description string `gorm:"size:255" json:"description,omitempty"`
	// Price is an optional indicative price.
	Price *float64 `json:"price,omitempty"`
	// URL is an optional link to the item.
	URL string `gorm:"size:512" json:"url,omitempty"`
	// User is the associated user (loaded via foreign key).
	// When a user is deleted, their wishlist items are automatically removed (CASCADE).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	// CreatedAt is the timestamp when the item was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the item was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the WishlistItem model.
// This overrides GORM's default pluralized table naming.
func (WishlistItem) TableName() string {
	return "wishlist_items"
}

// BeforeCreate assigns a UUID if the item was constructed without one.
func (w *WishlistItem) BeforeCreate(_ *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}

	return nil
}
