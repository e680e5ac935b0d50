package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

const itemBody = `{
	"data": {
		"id": "item-1",
		"type": "item",
		"attributes": {"title": "Hello", "views": 3},
		"relationships": {
			"item_type": {"data": {"type": "item_type", "id": "article"}},
			"creator": {"data": {"type": "account", "id": "42"}}
		},
		"meta": {"status": "draft", "current_version": "v1", "is_valid": true, "created_at": "2024-01-02T03:04:05Z", "updated_at": "2024-01-02T03:04:05Z"}
	}
}`

func TestItemsClient_Find(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		assert.Equal(t, "3", r.Header.Get("X-Api-Version"))

		switch r.URL.Path {
		case "/items/item-1":
			assert.Equal(t, "published", r.URL.Query().Get("version"))
			writeJSON(t, w, http.StatusOK, itemBody)
		default:
			writeJSON(t, w, http.StatusNotFound, notFoundBody)
		}
	})

	item, err := client.Items().FindWithParams(t.Context(), "item-1", dato.NewQueryParams().WithVersion("published"))
	require.NoError(t, err)
	assert.Equal(t, "item-1", item.ID)
	assert.Equal(t, dato.NewRef("item_type", "article"), item.ItemType)
	require.NotNil(t, item.Creator)
	assert.Equal(t, "42", item.Creator.ID)
	assert.Equal(t, "Hello", item.FieldString("title"))
	assert.InDelta(t, 3, item.Fields["views"], 0)
	assert.Equal(t, dato.ItemStatusDraft, item.Meta.Status)
	assert.Equal(t, "v1", item.Meta.CurrentVersion)

	_, err = client.Items().Find(t.Context(), "missing")
	require.Error(t, err)
	assert.True(t, dato.IsNotFound(err))
	assert.ErrorIs(t, err, dato.ErrNotFound)

	_, err = client.Items().Find(t.Context(), "")
	require.ErrorIs(t, err, dato.ErrIDRequired)
}

func TestItemsClient_List(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items", r.URL.Path)

		query := r.URL.Query()
		assert.Equal(t, "article", query.Get("filter[type]"))
		assert.Equal(t, "2", query.Get("page[limit]"))

		writeJSON(t, w, http.StatusOK, `{
			"data": [
				{"id": "1", "type": "item", "attributes": {"title": "One"}, "relationships": {"item_type": {"data": {"type": "item_type", "id": "article"}}}},
				{"id": "2", "type": "item", "attributes": {"title": "Two"}, "relationships": {"item_type": {"data": {"type": "item_type", "id": "article"}}}}
			],
			"meta": {"total_count": 5}
		}`)
	})

	page, err := client.Items().List(t.Context(), dato.NewQueryParams().WithType("article").WithLimit(2))
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Two", page.Data[1].FieldString("title"))
	assert.Equal(t, 5, page.Meta.TotalCount)
}

func TestItemsClient_ListEmpty(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, `{"data":[],"meta":{"total_count":0}}`)
	})

	page, err := client.Items().List(t.Context(), nil)
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
}

func TestItemsClient_ListPagedIterator(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		offset, _ := strconv.Atoi(r.URL.Query().Get("page[offset]"))
		assert.Equal(t, "2", r.URL.Query().Get("page[limit]"))

		data := make([]map[string]interface{}, 0, 2)
		for i := offset; i < min(offset+2, 5); i++ {
			data = append(data, map[string]interface{}{
				"id":         strconv.Itoa(i),
				"type":       "item",
				"attributes": map[string]interface{}{"position": i},
			})
		}

		body, err := json.Marshal(map[string]interface{}{
			"data": data,
			"meta": map[string]interface{}{"total_count": 5},
		})
		require.NoError(t, err)

		writeJSON(t, w, http.StatusOK, string(body))
	})

	iterator := client.Items().ListPagedIterator(t.Context(), dato.NewQueryParams().WithLimit(2))

	items, err := iterator.All()
	require.NoError(t, err)
	require.Len(t, items, 5)

	for i, item := range items {
		assert.Equal(t, strconv.Itoa(i), item.ID)
	}

	assert.Equal(t, 3, iterator.Pages())
	assert.Equal(t, int32(3), calls.Load())
}

func TestItemsClient_Create(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/items", r.URL.Path)
		assert.Equal(t, "application/vnd.api+json", r.Header.Get("Content-Type"))

		doc := decodeRequest(t, r)
		assert.Equal(t, "item", doc.Data.Type)
		assert.Equal(t, "client-id", doc.Data.ID)
		assert.JSONEq(t, `"Hello"`, string(doc.Data.Attributes["title"]))
		assert.NotContains(t, doc.Data.Attributes, "item_type")
		assert.JSONEq(t, `{"type":"item_type","id":"article"}`, string(doc.Data.Relationships["item_type"].Data))

		writeJSON(t, w, http.StatusCreated, itemBody)
	})

	item, err := client.Items().Create(t.Context(), &dato.ItemCreateRequest{
		ID:       "client-id",
		ItemType: dato.NewRef(dato.TypeItemType, "article"),
		Fields:   map[string]interface{}{"title": "Hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "item-1", item.ID)
}

func TestItemsClient_CreateValidationError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnprocessableEntity, `{"data":[{"id":"e1","type":"api_error","attributes":{"code":"INVALID_FIELD","details":{"field":"title","code":"VALIDATION_REQUIRED"}}}]}`)
	})

	_, err := client.Items().Create(t.Context(), &dato.ItemCreateRequest{
		ItemType: dato.NewRef(dato.TypeItemType, "article"),
	})
	require.Error(t, err)
	assert.True(t, dato.IsValidation(err))
	assert.True(t, dato.HasErrorCode(err, dato.ErrorCodeInvalidField))
}

func TestItemsClient_Update(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, "/items/item-1", r.URL.Path)

		doc := decodeRequest(t, r)
		assert.Equal(t, "item-1", doc.Data.ID)
		assert.Equal(t, "item", doc.Data.Type)
		assert.JSONEq(t, `"v1"`, string(doc.Data.Meta["current_version"]))
		assert.JSONEq(t, `"Updated"`, string(doc.Data.Attributes["title"]))

		writeJSON(t, w, http.StatusOK, itemBody)
	})

	item, err := client.Items().Update(t.Context(), "item-1", &dato.ItemUpdateRequest{
		Fields:         map[string]interface{}{"title": "Updated"},
		CurrentVersion: "v1",
	})
	require.NoError(t, err)
	assert.Equal(t, "item-1", item.ID)
}

func TestItemsClient_DestroyAwaitsJob(t *testing.T) {
	t.Parallel()

	var polls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "DELETE" && r.URL.Path == "/items/item-1":
			writeJSON(t, w, http.StatusAccepted, `{"data":{"type":"job","id":"job-1"}}`)
		case r.URL.Path == "/job-results/job-1":
			if polls.Add(1) < 3 {
				writeJSON(t, w, http.StatusNotFound, notFoundBody)

				return
			}

			payload, err := json.Marshal(json.RawMessage(itemBody))
			require.NoError(t, err)

			writeJSON(t, w, http.StatusOK, `{"data":{"type":"job_result","id":"job-1","attributes":{"status":200,"payload":`+string(payload)+`}}}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	item, err := client.Items().Destroy(t.Context(), "item-1")
	require.NoError(t, err)
	assert.Equal(t, "item-1", item.ID)
	assert.Equal(t, int32(3), polls.Load())
}

func TestItemsClient_Duplicate(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/items/item-1/duplicate", r.URL.Path)
		writeJSON(t, w, http.StatusCreated, itemBody)
	})

	item, err := client.Items().Duplicate(t.Context(), "item-1")
	require.NoError(t, err)
	assert.Equal(t, "item-1", item.ID)
}

func TestItemsClient_Publish(t *testing.T) {
	t.Parallel()

	t.Run("everything", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "PUT", r.Method)
			assert.Equal(t, "/items/item-1/publish", r.URL.Path)
			writeJSON(t, w, http.StatusOK, itemBody)
		})

		_, err := client.Items().Publish(t.Context(), "item-1", nil)
		require.NoError(t, err)
	})

	t.Run("selective", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			doc := decodeRequest(t, r)
			assert.Equal(t, dato.TypeSelectiveItemPublication, doc.Data.Type)
			assert.JSONEq(t, `["en","it"]`, string(doc.Data.Attributes["content_in_locales"]))
			assert.JSONEq(t, `true`, string(doc.Data.Attributes["non_localized_content"]))
			writeJSON(t, w, http.StatusOK, itemBody)
		})

		_, err := client.Items().Publish(t.Context(), "item-1", &dato.ItemPublishRequest{
			ContentInLocales:    []string{"en", "it"},
			NonLocalizedContent: true,
		})
		require.NoError(t, err)
	})

	t.Run("unpublish selective", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/items/item-1/unpublish", r.URL.Path)

			doc := decodeRequest(t, r)
			assert.Equal(t, dato.TypeSelectiveItemUnpublish, doc.Data.Type)
			writeJSON(t, w, http.StatusOK, itemBody)
		})

		_, err := client.Items().Unpublish(t.Context(), "item-1", &dato.ItemUnpublishRequest{ContentInLocales: []string{"en"}})
		require.NoError(t, err)
	})
}

func TestItemsClient_Bulk(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		path          string
		operationType string
		run           func(ctx context.Context, client *Client) error
		stage         string
	}{
		{
			name:          "publish",
			path:          "/items/bulk/publish",
			operationType: dato.TypeItemBulkPublish,
			run: func(ctx context.Context, client *Client) error {
				return client.Items().BulkPublish(ctx, []string{"a", "b"})
			},
		},
		{
			name:          "unpublish",
			path:          "/items/bulk/unpublish",
			operationType: dato.TypeItemBulkUnpublish,
			run: func(ctx context.Context, client *Client) error {
				return client.Items().BulkUnpublish(ctx, []string{"a", "b"})
			},
		},
		{
			name:          "destroy",
			path:          "/items/bulk/destroy",
			operationType: dato.TypeItemBulkDestroy,
			run: func(ctx context.Context, client *Client) error {
				return client.Items().BulkDestroy(ctx, []string{"a", "b"})
			},
		},
		{
			name:          "move to stage",
			path:          "/items/bulk/move-to-stage",
			operationType: dato.TypeItemBulkMoveToStage,
			stage:         "review",
			run: func(ctx context.Context, client *Client) error {
				return client.Items().BulkMoveToStage(ctx, "review", []string{"a", "b"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/job-results/bulk-job" {
					writeJSON(t, w, http.StatusOK, `{"data":{"type":"job_result","id":"bulk-job","attributes":{"status":200,"payload":{"data":[]}}}}`)

					return
				}

				assert.Equal(t, "POST", r.Method)
				assert.Equal(t, tt.path, r.URL.Path)

				doc := decodeRequest(t, r)
				assert.Equal(t, tt.operationType, doc.Data.Type)
				assert.JSONEq(t, `[{"type":"item","id":"a"},{"type":"item","id":"b"}]`, string(doc.Data.Relationships["items"].Data))

				if tt.stage != "" {
					assert.JSONEq(t, `"`+tt.stage+`"`, string(doc.Data.Attributes["stage"]))
				}

				writeJSON(t, w, http.StatusAccepted, `{"data":{"type":"job","id":"bulk-job"}}`)
			})

			require.NoError(t, tt.run(t.Context(), client))
		})
	}
}

func TestItemsClient_BulkJobFailure(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/job-results/bulk-job" {
			writeJSON(t, w, http.StatusOK, `{"data":{"type":"job_result","id":"bulk-job","attributes":{"status":422,"payload":{"data":[{"id":"e","type":"api_error","attributes":{"code":"INVALID_FIELD","details":{}}}]}}}}`)

			return
		}

		writeJSON(t, w, http.StatusAccepted, `{"data":{"type":"job","id":"bulk-job"}}`)
	})

	err := client.Items().BulkPublish(t.Context(), []string{"a"})
	require.ErrorIs(t, err, dato.ErrJobFailed)
	assert.True(t, dato.HasErrorCode(err, dato.ErrorCodeInvalidField))
}

func TestItemsClient_ListVersions(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items/item-1/versions", r.URL.Path)
		writeJSON(t, w, http.StatusOK, `{
			"data": [{
				"id": "v1",
				"type": "item_version",
				"attributes": {"title": "Old title"},
				"relationships": {
					"item": {"data": {"type": "item", "id": "item-1"}},
					"item_type": {"data": {"type": "item_type", "id": "article"}},
					"editor": {"data": null}
				},
				"meta": {"is_current": false, "is_published": true, "created_at": "2024-01-02T03:04:05Z"}
			}],
			"meta": {"total_count": 1}
		}`)
	})

	versions, err := client.Items().ListVersions(t.Context(), "item-1", nil)
	require.NoError(t, err)
	require.Len(t, versions.Data, 1)

	version := versions.Data[0]
	assert.Equal(t, "item-1", version.Item.ID)
	assert.Nil(t, version.Editor)
	assert.True(t, version.Meta.IsPublished)
	assert.Equal(t, "Old title", version.Fields["title"])
}

func TestItemVersionsClient_Restore(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/versions/v1/restore":
			assert.Equal(t, "POST", r.Method)
			writeJSON(t, w, http.StatusAccepted, `{"data":{"type":"job","id":"restore-job"}}`)
		case "/job-results/restore-job":
			writeJSON(t, w, http.StatusOK, `{"data":{"type":"job_result","id":"restore-job","attributes":{"status":200,"payload":{"data":[
				{"id":"v2","type":"item_version","attributes":{}},
				{"id":"item-1","type":"item","attributes":{"title":"Restored"},"relationships":{"item_type":{"data":{"type":"item_type","id":"article"}}}}
			]}}}}`)
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
		}
	})

	item, err := client.ItemVersions().Restore(t.Context(), "v1")
	require.NoError(t, err)
	assert.Equal(t, "item-1", item.ID)
	assert.Equal(t, "Restored", item.FieldString("title"))
}
