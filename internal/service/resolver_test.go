package service

import (
	"HaexVault/internal/model"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_LiteralPassthrough(t *testing.T) {
	e := newTestEnv(t)
	r := e.newResolver(t, 0)

	for _, v := range []string{"", "hello", "not {REF:a token", "{REF:USERNAME@ITEM:i1} trailing"} {
		got, err := r.Resolve(e.ctx, v)
		assert.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestResolver_ItemFields(t *testing.T) {
	e := newTestEnv(t)
	r := e.newResolver(t, 0)

	it := &model.Item{
		ID:        "11111111-1111-1111-1111-111111111111",
		Title:     "Mail",
		Username:  "alice",
		Password:  "s3cret",
		URL:       "https://mail.example",
		Note:      "personal",
		OtpSecret: "JBSWY3DP",
		Tags:      "mail,personal",
	}
	require.NoError(t, e.items.Insert(e.ctx, it))

	cases := map[string]string{
		"TITLE":      "Mail",
		"USERNAME":   "alice",
		"PASSWORD":   "s3cret",
		"URL":        "https://mail.example",
		"NOTE":       "personal",
		"NOTES":      "personal",
		"OTP":        "JBSWY3DP",
		"OTPSECRET":  "JBSWY3DP",
		"OTP_SECRET": "JBSWY3DP",
		"TAGS":       "mail,personal",
	}
	for field, want := range cases {
		got, err := r.Resolve(e.ctx, fmt.Sprintf("{REF:%s@ITEM:%s}", field, it.ID))
		assert.NoError(t, err)
		assert.Equal(t, want, got, "field %s", field)
	}

	// field and type tag are case-insensitive
	got, err := r.Resolve(e.ctx, fmt.Sprintf("{ref:username@item:%s}", it.ID))
	assert.NoError(t, err)
	assert.Equal(t, "alice", got)
}

func TestResolver_UnknownFieldAndMissingItem(t *testing.T) {
	e := newTestEnv(t)
	r := e.newResolver(t, 0)

	require.NoError(t, e.items.Insert(e.ctx, &model.Item{ID: "22222222-2222-2222-2222-222222222222", Title: "X"}))

	token := "{REF:NOPE@ITEM:22222222-2222-2222-2222-222222222222}"
	got, err := r.Resolve(e.ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, token, got, "unknown field stays unresolved")

	token = "{REF:USERNAME@ITEM:99999999-9999-9999-9999-999999999999}"
	got, err = r.Resolve(e.ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, token, got, "missing item stays unresolved")
}

func TestResolver_ItemExtra(t *testing.T) {
	e := newTestEnv(t)
	r := e.newResolver(t, 0)

	itemID := "33333333-3333-3333-3333-333333333333"
	require.NoError(t, e.items.Insert(e.ctx, &model.Item{ID: itemID, Title: "X"}))
	require.NoError(t, e.items.InsertKeyValue(e.ctx, &model.ItemKeyValue{ID: "k1", ItemID: itemID, Key: "ApiKey", Value: "xyz", Order: 1}))
	require.NoError(t, e.items.InsertKeyValue(e.ctx, &model.ItemKeyValue{ID: "k2", ItemID: itemID, Key: "Empty", Value: "", Order: 2}))

	got, err := r.Resolve(e.ctx, fmt.Sprintf("{REF:APIKEY@ITEM.EXTRA:%s}", itemID))
	assert.NoError(t, err)
	assert.Equal(t, "xyz", got, "key match is case-insensitive")

	// empty value stays unresolved
	token := fmt.Sprintf("{REF:EMPTY@ITEM.EXTRA:%s}", itemID)
	got, err = r.Resolve(e.ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, token, got)

	// no such key stays unresolved
	token = fmt.Sprintf("{REF:MISSING@ITEM.EXTRA:%s}", itemID)
	got, err = r.Resolve(e.ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, token, got)
}

func TestResolver_GroupFields(t *testing.T) {
	e := newTestEnv(t)
	r := e.newResolver(t, 0)

	g := &model.Group{
		ID:          "44444444-4444-4444-4444-444444444444",
		Name:        "Email",
		Description: strPtr("mail accounts"),
		Icon:        strPtr("mdi:email"),
		Color:       strPtr("#336699"),
	}
	require.NoError(t, e.svc.Create(e.ctx, g))

	cases := map[string]string{
		"NAME":        "Email",
		"DESCRIPTION": "mail accounts",
		"ICON":        "mdi:email",
		"COLOR":       "#336699",
	}
	for field, want := range cases {
		got, err := r.Resolve(e.ctx, fmt.Sprintf("{REF:%s@GROUP:%s}", field, g.ID))
		assert.NoError(t, err)
		assert.Equal(t, want, got, "field %s", field)
	}

	token := fmt.Sprintf("{REF:OWNER@GROUP:%s}", g.ID)
	got, err := r.Resolve(e.ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, token, got, "unknown group field stays unresolved")
}

func TestResolver_Chaining(t *testing.T) {
	e := newTestEnv(t)
	r := e.newResolver(t, 0)

	bID := "55555555-5555-5555-5555-555555555555"
	aID := "66666666-6666-6666-6666-666666666666"
	require.NoError(t, e.items.Insert(e.ctx, &model.Item{ID: bID, Title: "B", Password: "secret"}))
	require.NoError(t, e.items.Insert(e.ctx, &model.Item{ID: aID, Title: "A", Password: ItemRef("PASSWORD", bID)}))

	got, err := r.Resolve(e.ctx, ItemRef("PASSWORD", aID))
	assert.NoError(t, err)
	assert.Equal(t, "secret", got)
}

func TestResolver_CycleTerminates(t *testing.T) {
	e := newTestEnv(t)
	r := e.newResolver(t, 0)

	aID := "77777777-7777-7777-7777-777777777777"
	bID := "88888888-8888-8888-8888-888888888888"
	require.NoError(t, e.items.Insert(e.ctx, &model.Item{ID: aID, Title: "A", Password: ItemRef("PASSWORD", bID)}))
	require.NoError(t, e.items.Insert(e.ctx, &model.Item{ID: bID, Title: "B", Password: ItemRef("PASSWORD", aID)}))

	start := ItemRef("PASSWORD", bID)
	got, err := r.Resolve(e.ctx, start)
	assert.ErrorIs(t, err, ErrResolveDepthExceeded)
	// the chain alternates between the two tokens; with the default even
	// depth bound the fallback is the starting token
	assert.Equal(t, start, got)
}

func TestResolver_ConfiguredDepth(t *testing.T) {
	e := newTestEnv(t)
	r := e.newResolver(t, 2)
	assert.Equal(t, 2, r.MaxDepth())
	assert.Equal(t, DefaultResolveDepth, e.newResolver(t, 0).MaxDepth())

	selfID := "99999999-9999-9999-9999-999999999999"
	require.NoError(t, e.items.Insert(e.ctx, &model.Item{ID: selfID, Title: "Self", Password: ItemRef("PASSWORD", selfID)}))

	got, err := r.Resolve(e.ctx, ItemRef("PASSWORD", selfID))
	assert.ErrorIs(t, err, ErrResolveDepthExceeded)
	assert.Equal(t, ItemRef("PASSWORD", selfID), got)
}

func TestItemRef(t *testing.T) {
	assert.Equal(t, "{REF:USERNAME@ITEM:abc}", ItemRef("username", "abc"))
}
