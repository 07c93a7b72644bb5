package repo

import (
	"HaexVault/internal/model"
	"context"

	"gorm.io/gorm"
)

// GroupRepository is the store contract for group rows. Delete relies on the
// schema's cascade rule to remove descendant groups and their memberships;
// the application layer never walks the tree to delete.
type GroupRepository interface {
	Insert(ctx context.Context, g *model.Group) error
	Update(ctx context.Context, g *model.Group) error
	Delete(ctx context.Context, id string) error

	// GetByID returns gorm.ErrRecordNotFound when the group does not exist.
	GetByID(ctx context.Context, id string) (*model.Group, error)

	// ListByParent returns direct children ordered by "order" (nulls last),
	// then name. A nil parentID selects the root groups.
	ListByParent(ctx context.Context, parentID *string) ([]model.Group, error)
	ListAll(ctx context.Context) ([]model.Group, error)
}

type groupRepo struct {
	db *gorm.DB
}

// NewGroupRepository creates the gorm-backed group repository.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

const groupOrder = `"order" IS NULL, "order", name`

func (r *groupRepo) Insert(ctx context.Context, g *model.Group) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *groupRepo) Update(ctx context.Context, g *model.Group) error {
	// Save writes every column, so re-parenting to NULL is persisted too.
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *groupRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Group{}, "id = ?", id).Error
}

func (r *groupRepo) GetByID(ctx context.Context, id string) (*model.Group, error) {
	var g model.Group
	if err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *groupRepo) ListByParent(ctx context.Context, parentID *string) ([]model.Group, error) {
	var res []model.Group
	q := r.db.WithContext(ctx).Order(groupOrder)
	if parentID != nil {
		q = q.Where("parent_id = ?", *parentID)
	} else {
		q = q.Where("parent_id IS NULL")
	}
	if err := q.Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

func (r *groupRepo) ListAll(ctx context.Context) ([]model.Group, error) {
	var res []model.Group
	if err := r.db.WithContext(ctx).Order(groupOrder).Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}
