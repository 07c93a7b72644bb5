package model

import "time"

// Item is a secret record. Field values are stored exactly as the host vault
// layer hands them over; any string field may hold a reference token
// ({REF:FIELD@TYPE:uuid}) instead of a literal value.
type Item struct {
	ID    string `gorm:"primaryKey"`
	Title string `gorm:"not null"`

	Username  string
	Password  string
	URL       string
	Note      string
	OtpSecret string
	Tags      string

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// ItemKeyValue is an ordered custom field of an item.
type ItemKeyValue struct {
	ID     string `gorm:"primaryKey"`
	ItemID string `gorm:"not null;index"`
	Item   *Item  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Key   string `gorm:"not null"`
	Value string
	Order int `gorm:"not null;default:0"`
}

// ItemBinary is attachment metadata. Content is addressed by BinaryHash, so
// duplicating the row never duplicates the binary payload.
type ItemBinary struct {
	ID     string `gorm:"primaryKey"`
	ItemID string `gorm:"not null;index"`
	Item   *Item  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	BinaryHash string `gorm:"not null"`
	FileName   string
}
