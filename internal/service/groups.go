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

// TrashID is the well-known id of the trash root group. It is part of the
// persisted data contract (not a UUID), so existing vaults keep working.
const TrashID = "trash"

// TrashIcon is the icon assigned to the lazily created trash root.
const TrashIcon = "mdi:trash-outline"

// MoveResult reports the outcome for a single id of a batch move. Batch
// operations are not transactional: one failure does not abort siblings.
type MoveResult struct {
	ID  string
	Err error
}

// GroupService owns the group tree: creation, parent-chain computation,
// recursive descendant enumeration, move and trash semantics.
//
// It keeps an in-memory snapshot of all group rows as a read-through cache,
// refreshed by Sync. The subsystem runs single-writer/sequential, so the
// snapshot is unguarded; readers must treat it as eventually consistent with
// the store, never authoritative mid-operation.
type GroupService struct {
	groups      repo.GroupRepository
	memberships repo.MembershipRepository
	items       repo.ItemRepository
	log         *zap.SugaredLogger

	snapshot []model.Group
}

// NewGroupService wires the tree manager over the given repositories.
func NewGroupService(groups repo.GroupRepository, memberships repo.MembershipRepository, items repo.ItemRepository, log *zap.SugaredLogger) (*GroupService, error) {
	if groups == nil || memberships == nil || items == nil {
		return nil, fmt.Errorf("group service: %w", ErrNotInitialized)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &GroupService{groups: groups, memberships: memberships, items: items, log: log}, nil
}

// Sync reloads the snapshot from the store. A sync superseded by a newer one
// is simply overwritten.
func (s *GroupService) Sync(ctx context.Context) error {
	all, err := s.groups.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("sync groups: %w", err)
	}
	s.snapshot = all
	return nil
}

// Snapshot returns a copy of the cached group rows.
func (s *GroupService) Snapshot() []model.Group {
	out := make([]model.Group, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// Lookup finds a group in the snapshot by id.
func (s *GroupService) Lookup(id string) (*model.Group, bool) {
	for i := range s.snapshot {
		if s.snapshot[i].ID == id {
			g := s.snapshot[i]
			return &g, true
		}
	}
	return nil, false
}

// Create persists a new group, assigning an id when absent. The parent, when
// set, must exist.
func (s *GroupService) Create(ctx context.Context, g *model.Group) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.ParentID != nil {
		if _, err := s.groups.GetByID(ctx, *g.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("parent group %s: %w", *g.ParentID, ErrConstraintViolation)
			}
			return err
		}
	}
	if _, err := s.groups.GetByID(ctx, g.ID); err == nil {
		return fmt.Errorf("group id %s already exists: %w", g.ID, ErrConstraintViolation)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err := s.groups.Insert(ctx, g); err != nil {
		return err
	}
	return s.Sync(ctx)
}

// Get reads a single group from the store.
func (s *GroupService) Get(ctx context.Context, id string) (*model.Group, error) {
	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("group %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return g, nil
}

// List returns direct children of parentID; nil selects root groups.
func (s *GroupService) List(ctx context.Context, parentID *string) ([]model.Group, error) {
	return s.groups.ListByParent(ctx, parentID)
}

// ListMemberships returns the item memberships of a group; nil selects
// unfiled items.
func (s *GroupService) ListMemberships(ctx context.Context, groupID *string) ([]model.GroupItem, error) {
	return s.memberships.ListByGroup(ctx, groupID)
}

// Update rewrites a group (rename, recolor, re-parent). Re-parenting is
// subject to the same existence and cycle checks as Move.
func (s *GroupService) Update(ctx context.Context, g *model.Group) error {
	if g.ID == "" {
		return fmt.Errorf("update group: empty id: %w", ErrConstraintViolation)
	}
	if _, err := s.Get(ctx, g.ID); err != nil {
		return err
	}
	if g.ParentID != nil {
		if _, err := s.groups.GetByID(ctx, *g.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("parent group %s: %w", *g.ParentID, ErrConstraintViolation)
			}
			return err
		}
		if err := s.checkNoCycle(g.ID, g.ParentID); err != nil {
			return err
		}
	}
	if err := s.groups.Update(ctx, g); err != nil {
		return err
	}
	return s.Sync(ctx)
}

// AncestorChain walks ParentID links over the snapshot and returns the chain
// root-first, ending with groupID itself. An unknown id yields an empty
// chain. A revisited id means the stored tree is malformed and raises
// ErrCycleDetected instead of looping.
func (s *GroupService) AncestorChain(groupID string) ([]model.Group, error) {
	byID := make(map[string]*model.Group, len(s.snapshot))
	for i := range s.snapshot {
		byID[s.snapshot[i].ID] = &s.snapshot[i]
	}

	var chain []model.Group
	visited := make(map[string]bool)
	next := &groupID
	for next != nil {
		g, ok := byID[*next]
		if !ok {
			break
		}
		if visited[g.ID] {
			return nil, fmt.Errorf("ancestor chain of %s: %w", groupID, ErrCycleDetected)
		}
		visited[g.ID] = true
		chain = append([]model.Group{*g}, chain...)
		next = g.ParentID
	}
	return chain, nil
}

// InTrash reports whether the group sits under the trash root.
func (s *GroupService) InTrash(groupID string) (bool, error) {
	chain, err := s.AncestorChain(groupID)
	if err != nil {
		return false, err
	}
	for _, g := range chain {
		if g.ID == TrashID {
			return true, nil
		}
	}
	return false, nil
}

// DescendantsRecursive enumerates everything under groupID, breadth-first.
// Used before hard-delete confirmation and for "everything under this folder"
// views. A node seen twice means malformed data and raises ErrCycleDetected.
func (s *GroupService) DescendantsRecursive(ctx context.Context, groupID string) ([]model.Group, error) {
	visited := map[string]bool{groupID: true}
	queue := []string{groupID}
	var out []model.Group
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		children, err := s.groups.ListByParent(ctx, &cur)
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			if visited[c.ID] {
				return nil, fmt.Errorf("descendants of %s: %w", groupID, ErrCycleDetected)
			}
			visited[c.ID] = true
			out = append(out, c)
			queue = append(queue, c.ID)
		}
	}
	return out, nil
}

// Move retargets each id: group ids are re-parented, item ids have their
// membership edge retargeted. A nil target moves groups to the root and files
// items as unfiled. Best-effort sequence with per-id reporting, followed by
// one re-sync.
func (s *GroupService) Move(ctx context.Context, ids []string, targetGroupID *string) []MoveResult {
	results := make([]MoveResult, 0, len(ids))

	if targetGroupID != nil {
		if _, err := s.groups.GetByID(ctx, *targetGroupID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = fmt.Errorf("target group %s: %w", *targetGroupID, ErrNotFound)
			}
			for _, id := range ids {
				results = append(results, MoveResult{ID: id, Err: err})
			}
			return results
		}
	}

	for _, id := range ids {
		results = append(results, MoveResult{ID: id, Err: s.moveOne(ctx, id, targetGroupID)})
	}

	if err := s.Sync(ctx); err != nil {
		s.log.Errorw("hierarchy re-sync after move failed", "error", err)
	}
	return results
}

func (s *GroupService) moveOne(ctx context.Context, id string, targetGroupID *string) error {
	g, isGroup := s.Lookup(id)
	if !isGroup {
		// Not a known group, treat the id as an item. The item must exist:
		// retargeting is an upsert and must not invent an edge for an id
		// that names nothing.
		if _, err := s.items.GetByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("item %s: %w", id, ErrNotFound)
			}
			return err
		}
		return s.memberships.Retarget(ctx, id, targetGroupID)
	}

	if samePtr(g.ParentID, targetGroupID) {
		return nil
	}
	if err := s.checkNoCycle(id, targetGroupID); err != nil {
		return err
	}
	g.ParentID = targetGroupID
	if err := s.groups.Update(ctx, g); err != nil {
		return err
	}
	// Keep the snapshot coherent for the rest of the batch.
	for i := range s.snapshot {
		if s.snapshot[i].ID == id {
			s.snapshot[i].ParentID = targetGroupID
		}
	}
	return nil
}

// checkNoCycle rejects re-parenting groupID under itself or one of its own
// descendants, evaluated against the snapshot.
func (s *GroupService) checkNoCycle(groupID string, targetGroupID *string) error {
	if targetGroupID == nil {
		return nil
	}
	if *targetGroupID == groupID {
		return fmt.Errorf("group %s cannot be its own parent: %w", groupID, ErrCycleDetected)
	}
	chain, err := s.AncestorChain(*targetGroupID)
	if err != nil {
		return err
	}
	for _, a := range chain {
		if a.ID == groupID {
			return fmt.Errorf("group %s is an ancestor of target %s: %w", groupID, *targetGroupID, ErrCycleDetected)
		}
	}
	return nil
}

// EnsureTrash creates the trash root when missing. Idempotent.
func (s *GroupService) EnsureTrash(ctx context.Context) (*model.Group, error) {
	g, err := s.groups.GetByID(ctx, TrashID)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	icon := TrashIcon
	trash := &model.Group{ID: TrashID, Name: "Trash", Icon: &icon}
	if err := s.groups.Insert(ctx, trash); err != nil {
		return nil, err
	}
	if err := s.Sync(ctx); err != nil {
		return nil, err
	}
	s.log.Infow("trash group created")
	return trash, nil
}

// SoftDelete moves a group under the trash root, creating it if needed.
// Soft-deleting an already trashed group is a no-op.
func (s *GroupService) SoftDelete(ctx context.Context, groupID string) error {
	if groupID == TrashID {
		return fmt.Errorf("trash group cannot be trashed: %w", ErrConstraintViolation)
	}
	if _, err := s.EnsureTrash(ctx); err != nil {
		return err
	}
	g, err := s.Get(ctx, groupID)
	if err != nil {
		return err
	}
	if g.ParentID != nil && *g.ParentID == TrashID {
		return nil
	}
	trashID := TrashID
	g.ParentID = &trashID
	if err := s.groups.Update(ctx, g); err != nil {
		return err
	}
	return s.Sync(ctx)
}

// HardDelete removes the group; the store's cascade rule takes descendant
// groups and memberships with it. Hard-deleting the trash root empties the
// trash.
func (s *GroupService) HardDelete(ctx context.Context, groupID string) error {
	if err := s.groups.Delete(ctx, groupID); err != nil {
		return err
	}
	return s.Sync(ctx)
}

// EqualGroups compares two group records field by field. Shallow by design:
// it exists to short-circuit redundant refreshes, not to diff subtrees.
func EqualGroups(a, b *model.Group) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID &&
		samePtr(a.ParentID, b.ParentID) &&
		a.Name == b.Name &&
		samePtr(a.Description, b.Description) &&
		samePtr(a.Icon, b.Icon) &&
		samePtr(a.Color, b.Color) &&
		sameIntPtr(a.Order, b.Order)
}

// EqualGroupSlices compares snapshot collections pairwise.
func EqualGroupSlices(a, b []model.Group) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualGroups(&a[i], &b[i]) {
			return false
		}
	}
	return true
}

func samePtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
