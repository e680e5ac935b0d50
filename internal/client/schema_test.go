package client

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

func TestSiteClient(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/site", r.URL.Path)

		switch r.Method {
		case "GET":
			writeJSON(t, w, http.StatusOK, `{"data":{"id":"1","type":"site","attributes":{"name":"Blog","locales":["en"],"timezone":"UTC"},"relationships":{"item_types":{"data":[{"type":"item_type","id":"article"}]}}}}`)
		case "PUT":
			doc := decodeRequest(t, r)
			assert.Equal(t, "site", doc.Data.Type)
			assert.JSONEq(t, `["en","it"]`, string(doc.Data.Attributes["locales"]))
			writeJSON(t, w, http.StatusOK, `{"data":{"id":"1","type":"site","attributes":{"name":"Blog","locales":["en","it"]}}}`)
		}
	})

	site, err := client.Site().Find(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "Blog", site.Name)
	assert.Equal(t, []string{"en"}, site.Locales)
	assert.Equal(t, []dato.Ref{dato.NewRef("item_type", "article")}, site.ItemTypes)

	site, err = client.Site().Update(t.Context(), &dato.SiteUpdateRequest{Locales: []string{"en", "it"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "it"}, site.Locales)
}

func TestItemTypesClient(t *testing.T) {
	t.Parallel()

	const itemTypeBody = `{"data":{"id":"article","type":"item_type","attributes":{"name":"Article","api_key":"article","sortable":true},"relationships":{"title_field":{"data":{"type":"field","id":"title"}},"fields":{"data":[{"type":"field","id":"title"}]}}}}`

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/item-types":
			writeJSON(t, w, http.StatusOK, `{"data":[{"id":"article","type":"item_type","attributes":{"name":"Article","api_key":"article"}}]}`)
		case r.Method == "POST" && r.URL.Path == "/item-types":
			doc := decodeRequest(t, r)
			assert.Equal(t, "item_type", doc.Data.Type)
			assert.JSONEq(t, `"article"`, string(doc.Data.Attributes["api_key"]))
			writeJSON(t, w, http.StatusCreated, itemTypeBody)
		case r.Method == "PUT" && r.URL.Path == "/item-types/article":
			doc := decodeRequest(t, r)
			assert.Equal(t, "article", doc.Data.ID)
			assert.JSONEq(t, `{"type":"field","id":"title"}`, string(doc.Data.Relationships["title_field"].Data))
			writeJSON(t, w, http.StatusOK, itemTypeBody)
		case r.Method == "DELETE" && r.URL.Path == "/item-types/article":
			writeJSON(t, w, http.StatusOK, itemTypeBody)
		case r.Method == "GET" && r.URL.Path == "/item-types/article":
			writeJSON(t, w, http.StatusOK, itemTypeBody)
		default:
			writeJSON(t, w, http.StatusNotFound, notFoundBody)
		}
	})

	list, err := client.ItemTypes().List(t.Context(), nil)
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Article", list.Data[0].Name)

	created, err := client.ItemTypes().Create(t.Context(), &dato.ItemTypeCreateRequest{Name: "Article", APIKey: "article"})
	require.NoError(t, err)
	assert.True(t, created.Sortable)
	require.NotNil(t, created.TitleField)
	assert.Equal(t, "title", created.TitleField.ID)
	assert.Len(t, created.Fields, 1)

	titleField := dato.NewRef(dato.TypeField, "title")
	_, err = client.ItemTypes().Update(t.Context(), "article", &dato.ItemTypeUpdateRequest{TitleField: &titleField})
	require.NoError(t, err)

	found, err := client.ItemTypes().Find(t.Context(), "article")
	require.NoError(t, err)
	assert.Equal(t, "article", found.APIKey)

	destroyed, err := client.ItemTypes().Destroy(t.Context(), "article")
	require.NoError(t, err)
	assert.Equal(t, "article", destroyed.ID)

	_, err = client.ItemTypes().Find(t.Context(), "missing")
	assert.True(t, dato.IsNotFound(err))
}

func TestFieldsClient(t *testing.T) {
	t.Parallel()

	const (
		fieldResource = `{"id":"title","type":"field","attributes":{"label":"Title","api_key":"title","field_type":"string","validators":{"required":{}}},"relationships":{"item_type":{"data":{"type":"item_type","id":"article"}},"fieldset":{"data":null}}}`
		fieldBody     = `{"data":` + fieldResource + `}`
	)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/item-types/article/fields":
			writeJSON(t, w, http.StatusOK, `{"data":[`+fieldResource+`]}`)
		case r.Method == "POST" && r.URL.Path == "/item-types/article/fields":
			doc := decodeRequest(t, r)
			assert.Equal(t, "field", doc.Data.Type)
			assert.JSONEq(t, `"string"`, string(doc.Data.Attributes["field_type"]))
			writeJSON(t, w, http.StatusCreated, fieldBody)
		case r.URL.Path == "/fields/title":
			writeJSON(t, w, http.StatusOK, fieldBody)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	fields, err := client.Fields().List(t.Context(), "article")
	require.NoError(t, err)
	require.Len(t, fields.Data, 1)
	assert.Equal(t, "article", fields.Data[0].ItemType.ID)
	assert.Nil(t, fields.Data[0].Fieldset)

	field, err := client.Fields().Create(t.Context(), "article", &dato.FieldCreateRequest{
		Label:     "Title",
		APIKey:    "title",
		FieldType: "string",
	})
	require.NoError(t, err)
	assert.Contains(t, field.Validators, "required")

	label := "Headline"
	_, err = client.Fields().Update(t.Context(), "title", &dato.FieldUpdateRequest{Label: &label})
	require.NoError(t, err)

	_, err = client.Fields().Find(t.Context(), "title")
	require.NoError(t, err)

	_, err = client.Fields().Destroy(t.Context(), "title")
	require.NoError(t, err)

	_, err = client.Fields().List(t.Context(), "")
	require.ErrorIs(t, err, dato.ErrIDRequired)

	_, err = client.Fields().Create(t.Context(), "", &dato.FieldCreateRequest{})
	require.ErrorIs(t, err, dato.ErrIDRequired)
}

func TestPluginsClient(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/plugins":
			writeJSON(t, w, http.StatusOK, `{"data":[{"id":"p1","type":"plugin","attributes":{"name":"SEO","package_name":"datocms-plugin-seo","permissions":["currentUserAccessToken"]}}]}`)
		case r.Method == "POST" && r.URL.Path == "/plugins":
			doc := decodeRequest(t, r)
			assert.JSONEq(t, `"datocms-plugin-seo"`, string(doc.Data.Attributes["package_name"]))
			writeJSON(t, w, http.StatusCreated, `{"data":{"id":"p1","type":"plugin","attributes":{"name":"SEO"}}}`)
		default:
			writeJSON(t, w, http.StatusOK, `{"data":{"id":"p1","type":"plugin","attributes":{"name":"SEO"}}}`)
		}
	})

	plugins, err := client.Plugins().List(t.Context())
	require.NoError(t, err)
	require.Len(t, plugins.Data, 1)
	assert.Equal(t, []string{"currentUserAccessToken"}, plugins.Data[0].PermissionsList)

	plugin, err := client.Plugins().Create(t.Context(), &dato.PluginCreateRequest{PackageName: "datocms-plugin-seo"})
	require.NoError(t, err)
	assert.Equal(t, "p1", plugin.ID)

	name := "Better SEO"
	_, err = client.Plugins().Update(t.Context(), "p1", &dato.PluginUpdateRequest{Name: &name})
	require.NoError(t, err)

	_, err = client.Plugins().Find(t.Context(), "p1")
	require.NoError(t, err)

	_, err = client.Plugins().Destroy(t.Context(), "p1")
	require.NoError(t, err)
}
