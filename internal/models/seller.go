package models

// Seller is the author of feed posts
type Seller struct {
	ID       int64  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name     string `gorm:"type:varchar(255);not null;column:name" json:"name"`
	ImageURL string `gorm:"type:varchar(1024);not null;default:'';column:image_url" json:"imageUrl,omitempty"`
}

// TableName specifies the table name for Seller
func (Seller) TableName() string {
	return "sellers"
}

// FindSeller returns the seller with the given id, or nil
func FindSeller(sellers []Seller, id int64) *Seller {
	for i := range sellers {
		if sellers[i].ID == id {
			return &sellers[i]
		}
	}
	return nil
}
