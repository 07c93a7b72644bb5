package model

import "time"

// Group is a folder node of the vault tree. ParentID == nil marks a root;
// the chain of ParentID links must stay acyclic. Deleting a group cascades
// to child groups and memberships through the schema constraints.
//
// Ids are stored as text, not a database uuid type: the trash root carries
// the well-known literal id "trash".
type Group struct {
	ID       string  `gorm:"primaryKey"`
	ParentID *string `gorm:"index"`
	Parent   *Group  `gorm:"foreignKey:ParentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Name        string `gorm:"not null"`
	Description *string
	Icon        *string
	Color       *string
	Order       *int

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// GroupItem files an item under at most one group. GroupID == nil means the
// item is unfiled; the row disappears with its group (cascade).
type GroupItem struct {
	ItemID  string  `gorm:"primaryKey"`
	GroupID *string `gorm:"index"`
	Group   *Group  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
