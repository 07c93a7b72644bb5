package service

import (
	"HaexVault/internal/model"
	"HaexVault/internal/repo"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CloneOptions controls CloneMany.
type CloneOptions struct {
	// IncludeHistory also duplicates attachment metadata rows; the binary
	// content is shared via its hash.
	IncludeHistory bool
	// ReferenceCredentials replaces username/password of the clone with live
	// tokens pointing at the original, so later edits propagate.
	ReferenceCredentials bool
	// TitleSuffix is appended (space-separated) to cloned names and titles.
	TitleSuffix string
}

// DefaultCloneOptions mirrors the UI defaults: credentials are referenced,
// history is not copied.
func DefaultCloneOptions() CloneOptions {
	return CloneOptions{ReferenceCredentials: true}
}

// CloneResult reports the outcome for a single id of a batch clone.
type CloneResult struct {
	ID    string
	NewID string
	Kind  string // "group" or "item"
	Err   error
}

// CloneService duplicates groups and items into a target group. Each clone is
// an independent unit of work; a failure does not roll back earlier clones.
type CloneService struct {
	groups      *GroupService
	items       repo.ItemRepository
	memberships repo.MembershipRepository
	defaults    CloneOptions
	log         *zap.SugaredLogger
}

// NewCloneService wires the orchestrator over the tree manager and the item
// store. defaults is used by CloneManyWithDefaults; callers of CloneMany pass
// options explicitly.
func NewCloneService(groups *GroupService, items repo.ItemRepository, memberships repo.MembershipRepository, defaults CloneOptions, log *zap.SugaredLogger) (*CloneService, error) {
	if groups == nil || items == nil || memberships == nil {
		return nil, fmt.Errorf("clone service: %w", ErrNotInitialized)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &CloneService{groups: groups, items: items, memberships: memberships, defaults: defaults, log: log}, nil
}

// Defaults returns the configured default clone options.
func (s *CloneService) Defaults() CloneOptions {
	return s.defaults
}

// CloneManyWithDefaults runs CloneMany with the configured defaults.
func (s *CloneService) CloneManyWithDefaults(ctx context.Context, ids []string, targetGroupID *string) []CloneResult {
	return s.CloneMany(ctx, ids, targetGroupID, s.defaults)
}

// CloneMany clones each id into targetGroupID. Group clones are shallow:
// children are not cloned. One tree re-sync runs after the whole batch.
func (s *CloneService) CloneMany(ctx context.Context, ids []string, targetGroupID *string, opts CloneOptions) []CloneResult {
	results := make([]CloneResult, 0, len(ids))
	for _, id := range ids {
		if g, ok := s.groups.Lookup(id); ok {
			newID, err := s.cloneGroup(ctx, g, targetGroupID, opts)
			results = append(results, CloneResult{ID: id, NewID: newID, Kind: "group", Err: err})
		} else {
			newID, err := s.cloneItem(ctx, id, targetGroupID, opts)
			results = append(results, CloneResult{ID: id, NewID: newID, Kind: "item", Err: err})
		}
	}
	if err := s.groups.Sync(ctx); err != nil {
		s.log.Errorw("hierarchy re-sync after clone failed", "error", err)
	}
	return results
}

func (s *CloneService) cloneGroup(ctx context.Context, src *model.Group, targetGroupID *string, opts CloneOptions) (string, error) {
	clone := &model.Group{
		ID:          uuid.NewString(),
		ParentID:    targetGroupID,
		Name:        withSuffix(src.Name, opts.TitleSuffix),
		Description: src.Description,
		Icon:        src.Icon,
		Color:       src.Color,
	}
	if err := s.groups.Create(ctx, clone); err != nil {
		return "", err
	}
	return clone.ID, nil
}

func (s *CloneService) cloneItem(ctx context.Context, itemID string, targetGroupID *string, opts CloneOptions) (string, error) {
	src, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("item %s: %w", itemID, ErrNotFound)
		}
		return "", err
	}
	kvs, err := s.items.ListKeyValues(ctx, itemID)
	if err != nil {
		return "", err
	}
	attachments, err := s.items.ListAttachments(ctx, itemID)
	if err != nil {
		return "", err
	}

	clone := &model.Item{
		ID:        uuid.NewString(),
		Title:     withSuffix(src.Title, opts.TitleSuffix),
		Username:  src.Username,
		Password:  src.Password,
		URL:       src.URL,
		Note:      src.Note,
		OtpSecret: src.OtpSecret,
		Tags:      src.Tags,
	}
	if opts.ReferenceCredentials {
		clone.Username = ItemRef("USERNAME", itemID)
		clone.Password = ItemRef("PASSWORD", itemID)
	}
	if err := s.items.Insert(ctx, clone); err != nil {
		return "", err
	}
	for _, kv := range kvs {
		cp := model.ItemKeyValue{
			ID:     uuid.NewString(),
			ItemID: clone.ID,
			Key:    kv.Key,
			Value:  kv.Value,
			Order:  kv.Order,
		}
		if err := s.items.InsertKeyValue(ctx, &cp); err != nil {
			return clone.ID, err
		}
	}
	if err := s.memberships.Retarget(ctx, clone.ID, targetGroupID); err != nil {
		return clone.ID, err
	}
	if opts.IncludeHistory {
		for _, a := range attachments {
			cp := model.ItemBinary{
				ID:         uuid.NewString(),
				ItemID:     clone.ID,
				BinaryHash: a.BinaryHash,
				FileName:   a.FileName,
			}
			if err := s.items.InsertAttachment(ctx, &cp); err != nil {
				return clone.ID, err
			}
		}
	}
	return clone.ID, nil
}

func withSuffix(name, suffix string) string {
	if suffix == "" {
		return name
	}
	return name + " " + suffix
}
