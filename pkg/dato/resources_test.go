package dato_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

func TestItem_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	data := `{
		"id": "42",
		"type": "item",
		"item_type": {"type": "item_type", "id": "article"},
		"creator": {"type": "account", "id": "7"},
		"title": {"en": "Hello", "it": "Ciao"},
		"views": 12,
		"meta": {"status": "published", "current_version": "v3", "is_valid": true}
	}`

	var item dato.Item

	require.NoError(t, json.Unmarshal([]byte(data), &item))

	assert.Equal(t, "42", item.ID)
	assert.Equal(t, dato.NewRef(dato.TypeItemType, "article"), item.ItemType)
	require.NotNil(t, item.Creator)
	assert.Equal(t, "7", item.Creator.ID)
	assert.Equal(t, dato.ItemStatusPublished, item.Meta.Status)
	assert.True(t, item.Meta.IsValid)
	assert.Equal(t, []string{"title", "views"}, item.FieldKeys())

	views, ok := item.Field("views")
	require.True(t, ok)
	assert.InDelta(t, 12.0, views, 0.0001)
	assert.Empty(t, item.FieldString("title"), "localized values are maps")
}

func TestItem_MarshalJSON(t *testing.T) {
	t.Parallel()

	item := dato.Item{
		ID:       "42",
		Type:     dato.TypeItem,
		ItemType: dato.NewRef(dato.TypeItemType, "article"),
		Fields:   map[string]interface{}{"title": "Hello"},
	}

	data, err := json.Marshal(item)
	require.NoError(t, err)

	var decoded map[string]interface{}

	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Hello", decoded["title"])
	assert.Equal(t, "42", decoded["id"])
	assert.Equal(t, map[string]interface{}{"type": "item_type", "id": "article"}, decoded["item_type"])
	assert.NotContains(t, decoded, "creator")
	assert.NotContains(t, decoded, "Fields")
}

func TestItemCreateRequest_MarshalJSON(t *testing.T) {
	t.Parallel()

	creator := dato.NewRef("account", "7")
	request := dato.ItemCreateRequest{
		ID:       "hY5dPz9fQ2S8x6tN1vK3bA",
		ItemType: dato.NewRef(dato.TypeItemType, "article"),
		Creator:  &creator,
		Fields:   map[string]interface{}{"title": "Hello"},
		Meta:     map[string]interface{}{"created_at": "2024-01-01T00:00:00Z"},
	}

	data, err := json.Marshal(request)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "hY5dPz9fQ2S8x6tN1vK3bA",
		"item_type": {"type": "item_type", "id": "article"},
		"creator": {"type": "account", "id": "7"},
		"title": "Hello",
		"meta": {"created_at": "2024-01-01T00:00:00Z"}
	}`, string(data))
}

func TestItemUpdateRequest_MarshalJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(dato.ItemUpdateRequest{
		Fields:         map[string]interface{}{"title": "Changed"},
		CurrentVersion: "v3",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title": "Changed", "meta": {"current_version": "v3"}}`, string(data))

	data, err = json.Marshal(dato.ItemUpdateRequest{Fields: map[string]interface{}{"views": 1}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"views": 1}`, string(data))
}

func TestItemVersion_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	data := `{
		"id": "v1",
		"type": "item_version",
		"item": {"type": "item", "id": "42"},
		"item_type": {"type": "item_type", "id": "article"},
		"editor": null,
		"title": "Snapshot",
		"meta": {"is_current": true}
	}`

	var version dato.ItemVersion

	require.NoError(t, json.Unmarshal([]byte(data), &version))
	assert.Equal(t, "42", version.Item.ID)
	assert.Nil(t, version.Editor)
	assert.True(t, version.Meta.IsCurrent)
	assert.Equal(t, map[string]interface{}{"title": "Snapshot"}, version.Fields)
}

func TestRefs(t *testing.T) {
	t.Parallel()

	refs := dato.Refs(dato.TypeItem, "1", "2")
	assert.Equal(t, []dato.Ref{{Type: "item", ID: "1"}, {Type: "item", ID: "2"}}, refs)
	assert.Empty(t, dato.Refs(dato.TypeItem))
}
