package service

import (
	"HaexVault/internal/model"
	"HaexVault/internal/repo"
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Reference tokens have the form {REF:FIELD@TYPE:uuid} with TYPE one of ITEM,
// GROUP, ITEM.EXTRA. FIELD and the type tag are case-insensitive. Only a
// value that is entirely a single token is interpreted; partial-string
// interpolation is out of scope.
var refPattern = regexp.MustCompile(`(?i)^\{REF:([A-Z_]+)@(ITEM|GROUP|ITEM\.EXTRA):([a-f0-9-]+)\}$`)

// DefaultResolveDepth bounds reference chaining when no explicit depth is
// configured.
const DefaultResolveDepth = 10

// itemRefFields maps a token FIELD to the standard item field it reads.
var itemRefFields = map[string]func(*model.Item) string{
	"TITLE":      func(it *model.Item) string { return it.Title },
	"USERNAME":   func(it *model.Item) string { return it.Username },
	"PASSWORD":   func(it *model.Item) string { return it.Password },
	"URL":        func(it *model.Item) string { return it.URL },
	"NOTE":       func(it *model.Item) string { return it.Note },
	"NOTES":      func(it *model.Item) string { return it.Note },
	"OTP":        func(it *model.Item) string { return it.OtpSecret },
	"OTPSECRET":  func(it *model.Item) string { return it.OtpSecret },
	"OTP_SECRET": func(it *model.Item) string { return it.OtpSecret },
	"TAGS":       func(it *model.Item) string { return it.Tags },
}

// groupRefFields maps a token FIELD to the group field it reads.
var groupRefFields = map[string]func(*model.Group) string{
	"NAME":        func(g *model.Group) string { return g.Name },
	"DESCRIPTION": func(g *model.Group) string { return deref(g.Description) },
	"ICON":        func(g *model.Group) string { return deref(g.Icon) },
	"COLOR":       func(g *model.Group) string { return deref(g.Color) },
}

// Resolver interprets reference tokens embedded in stored string fields at
// read time. Resolution never writes and takes no locks; it tolerates values
// changing right after it returns.
type Resolver struct {
	items    repo.ItemRepository
	groups   repo.GroupRepository
	maxDepth int
}

// NewResolver wires the resolver; maxDepth <= 0 selects DefaultResolveDepth.
func NewResolver(items repo.ItemRepository, groups repo.GroupRepository, maxDepth int) (*Resolver, error) {
	if items == nil || groups == nil {
		return nil, fmt.Errorf("resolver: %w", ErrNotInitialized)
	}
	if maxDepth <= 0 {
		maxDepth = DefaultResolveDepth
	}
	return &Resolver{items: items, groups: groups, maxDepth: maxDepth}, nil
}

// MaxDepth reports the configured chaining bound.
func (r *Resolver) MaxDepth() int {
	return r.maxDepth
}

// Resolve dereferences value until it is a literal. Malformed or unresolvable
// tokens come back unchanged with a nil error. A chain deeper than the
// configured bound (for example A→B→A) returns the value reached so far
// together with ErrResolveDepthExceeded instead of recursing forever.
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	return r.resolve(ctx, value, 0)
}

func (r *Resolver) resolve(ctx context.Context, value string, depth int) (string, error) {
	if value == "" {
		return value, nil
	}
	m := refPattern.FindStringSubmatch(value)
	if m == nil {
		return value, nil
	}
	if depth >= r.maxDepth {
		// Fail closed: hand back what we reached instead of chasing the chain.
		return value, fmt.Errorf("resolve %q at depth %d: %w", value, depth, ErrResolveDepthExceeded)
	}

	field := strings.ToUpper(m[1])
	refType := strings.ToUpper(m[2])
	id := strings.ToLower(m[3])

	switch refType {
	case "ITEM":
		it, err := r.items.GetByID(ctx, id)
		if err != nil {
			return value, nil
		}
		get, ok := itemRefFields[field]
		if !ok {
			return value, nil
		}
		return r.resolve(ctx, get(it), depth+1)

	case "ITEM.EXTRA":
		kvs, err := r.items.ListKeyValues(ctx, id)
		if err != nil || len(kvs) == 0 {
			return value, nil
		}
		for _, kv := range kvs {
			if strings.EqualFold(kv.Key, field) {
				if kv.Value == "" {
					return value, nil
				}
				return r.resolve(ctx, kv.Value, depth+1)
			}
		}
		return value, nil

	case "GROUP":
		g, err := r.groups.GetByID(ctx, id)
		if err != nil {
			return value, nil
		}
		get, ok := groupRefFields[field]
		if !ok {
			return value, nil
		}
		return r.resolve(ctx, get(g), depth+1)
	}
	return value, nil
}

// ItemRef builds a token referencing a standard field of an item.
func ItemRef(field, itemID string) string {
	return fmt.Sprintf("{REF:%s@ITEM:%s}", strings.ToUpper(field), itemID)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
