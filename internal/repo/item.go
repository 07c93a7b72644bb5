package repo

import (
	"HaexVault/internal/model"
	"context"

	"gorm.io/gorm"
)

// ItemRepository is the store contract for items, their custom key-value
// fields and attachment metadata.
type ItemRepository interface {
	Insert(ctx context.Context, it *model.Item) error

	// GetByID returns gorm.ErrRecordNotFound when the item does not exist.
	GetByID(ctx context.Context, id string) (*model.Item, error)

	InsertKeyValue(ctx context.Context, kv *model.ItemKeyValue) error
	// ListKeyValues returns custom fields in their stored order.
	ListKeyValues(ctx context.Context, itemID string) ([]model.ItemKeyValue, error)

	InsertAttachment(ctx context.Context, bin *model.ItemBinary) error
	ListAttachments(ctx context.Context, itemID string) ([]model.ItemBinary, error)
}

type itemRepo struct {
	db *gorm.DB
}

// NewItemRepository creates the gorm-backed item repository.
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepo{db: db}
}

func (r *itemRepo) Insert(ctx context.Context, it *model.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *itemRepo) GetByID(ctx context.Context, id string) (*model.Item, error) {
	var it model.Item
	if err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *itemRepo) InsertKeyValue(ctx context.Context, kv *model.ItemKeyValue) error {
	return r.db.WithContext(ctx).Create(kv).Error
}

func (r *itemRepo) ListKeyValues(ctx context.Context, itemID string) ([]model.ItemKeyValue, error) {
	var res []model.ItemKeyValue
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order(`"order", key`).
		Find(&res).Error
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *itemRepo) InsertAttachment(ctx context.Context, bin *model.ItemBinary) error {
	return r.db.WithContext(ctx).Create(bin).Error
}

func (r *itemRepo) ListAttachments(ctx context.Context, itemID string) ([]model.ItemBinary, error) {
	var res []model.ItemBinary
	if err := r.db.WithContext(ctx).Where("item_id = ?", itemID).Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}
