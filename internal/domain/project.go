package domain

// Project Model
type Project struct {
	ID       uint   `gorm:"primaryKey" json:"id"`       // Primary key, also the project id in composite token ids
	Name     string `gorm:"not null" json:"name"`       // Display name
	TokenID  int64  `gorm:"uniqueIndex" json:"tokenId"` // Base token id (id*100), kept for reference lookups
	ImageURL string `json:"imageUrl"`                   // Optional cover image
	Blurb    string `json:"blurb"`                      // Optional short description
}
