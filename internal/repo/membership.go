package repo

import (
	"HaexVault/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MembershipRepository owns the item-to-group edge. An item has at most one
// row; GroupID == nil files the item as unfiled. The edge is moved, never
// duplicated.
type MembershipRepository interface {
	// Get returns gorm.ErrRecordNotFound when the item has no membership row.
	Get(ctx context.Context, itemID string) (*model.GroupItem, error)
	Insert(ctx context.Context, m *model.GroupItem) error

	// Retarget points the edge at groupID, creating the row when missing.
	Retarget(ctx context.Context, itemID string, groupID *string) error

	// ListByGroup returns the memberships of a group; nil selects unfiled items.
	ListByGroup(ctx context.Context, groupID *string) ([]model.GroupItem, error)
}

type membershipRepo struct {
	db *gorm.DB
}

// NewMembershipRepository creates the gorm-backed membership repository.
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepo{db: db}
}

func (r *membershipRepo) Get(ctx context.Context, itemID string) (*model.GroupItem, error) {
	var m model.GroupItem
	if err := r.db.WithContext(ctx).First(&m, "item_id = ?", itemID).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepo) Insert(ctx context.Context, m *model.GroupItem) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *membershipRepo) Retarget(ctx context.Context, itemID string, groupID *string) error {
	m := &model.GroupItem{ItemID: itemID, GroupID: groupID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"group_id"}),
	}).Create(m).Error
}

func (r *membershipRepo) ListByGroup(ctx context.Context, groupID *string) ([]model.GroupItem, error) {
	var res []model.GroupItem
	q := r.db.WithContext(ctx)
	if groupID != nil {
		q = q.Where("group_id = ?", *groupID)
	} else {
		q = q.Where("group_id IS NULL")
	}
	if err := q.Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}
