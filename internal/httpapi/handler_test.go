package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/relations/internal/sqlite"
	"github.com/mesh-intelligence/relations/pkg/kinds"
	"github.com/mesh-intelligence/relations/pkg/relationship"
	"github.com/mesh-intelligence/relations/pkg/types"
)

var defaultEndpoints = relationship.Endpoints{
	ItemData:       relationship.DefaultItemDataURL,
	BaseSelections: relationship.DefaultBaseSelectionsURL,
}

// setupServer seeds a store, registers two fields, and returns a test server
// serving the default endpoints.
func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	return setupServerWithEndpoints(t, defaultEndpoints)
}

// setupServerWithEndpoints is setupServer with the endpoint URLs given to
// both the registry and the router.
func setupServerWithEndpoints(t *testing.T, endpoints relationship.Endpoints) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	store := sqlite.NewBackend()
	require.NoError(t, store.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { store.Detach() })

	for _, e := range []*types.Entry{
		{Kind: kinds.Entries, RecordHandle: "alpha", RecordTitle: "Alpha", Parent: "blog", IsPublished: true, URL: "/entries/alpha"},
		{Kind: kinds.Entries, RecordHandle: "beta", RecordTitle: "Beta", Parent: "pages"},
		{Kind: kinds.Users, RecordHandle: "ada", RecordTitle: "Ada"},
	} {
		_, err := store.Set(ctx, e)
		require.NoError(t, err)
	}

	registry, err := kinds.NewRegistry(store, nil, endpoints)
	require.NoError(t, err)
	require.NoError(t, registry.AddFields([]types.Field{
		{
			Handle: "related",
			Type:   kinds.Entries,
			Config: types.FieldConfig{"max_items": 2, "collections": []any{"blog"}},
			Value:  []any{"alpha", "missing"},
		},
		{
			Handle: "author",
			Type:   kinds.Users,
			Config: types.FieldConfig{"max_items": 1},
		},
	}))

	srv := httptest.NewServer(NewRouter(registry, endpoints, nil))
	t.Cleanup(srv.Close)
	return srv
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealthz(t *testing.T) {
	srv := setupServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandlePreload(t *testing.T) {
	srv := setupServer(t)

	t.Run("builds the payload for a registered field", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/fields/related/preload")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var payload types.PreloadPayload
		decodeBody(t, resp, &payload)

		require.Len(t, payload.Data, 2)
		assert.Equal(t, "Alpha", payload.Data[0].Title)
		assert.False(t, payload.Data[0].Invalid)
		require.NotNil(t, payload.Data[0].Published)
		assert.True(t, *payload.Data[0].Published)
		assert.Equal(t, types.InvalidRow("missing"), payload.Data[1])

		assert.True(t, payload.CanCreate)
		assert.True(t, payload.CanEdit)
		assert.Equal(t, []string{"blog"}, payload.Creatables)
		assert.Equal(t, map[string]string{kinds.ParamCollections: "blog"}, payload.GetBaseSelectionsURLParameters)
		require.NotNil(t, payload.FormComponent)
		assert.Equal(t, "entry-publish-form", *payload.FormComponent)
		assert.Equal(t, relationship.DefaultItemDataURL, payload.ItemDataURL)
	})

	t.Run("unknown field is 404", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/fields/nope/preload")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestHandleIndex(t *testing.T) {
	srv := setupServer(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantTitles []string
	}{
		{
			name:       "scoped to configured collections",
			query:      "?field=related",
			wantStatus: http.StatusOK,
			wantTitles: []string{"Alpha"},
		},
		{
			name:       "search with no match",
			query:      "?field=related&search=zzz",
			wantStatus: http.StatusOK,
			wantTitles: nil,
		},
		{
			name:       "unscoped kind lists everything",
			query:      "?field=author&sort=title&order=desc",
			wantStatus: http.StatusOK,
			wantTitles: []string{"Ada"},
		},
		{
			name:       "missing field parameter",
			query:      "",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			query:      "?field=nope",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + relationship.DefaultBaseSelectionsURL + tt.query)
			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus != http.StatusOK {
				resp.Body.Close()
				return
			}

			var result relationship.IndexResult
			decodeBody(t, resp, &result)
			var titles []string
			for _, row := range result.Data {
				titles = append(titles, row.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
			assert.Equal(t, len(tt.wantTitles), result.Total)
			assert.Equal(t, 1, result.Page)
		})
	}
}

func TestHandleItemData(t *testing.T) {
	srv := setupServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantRows   int
	}{
		{name: "sequence of handles", body: `{"field":"related","selections":["alpha","beta"]}`, wantStatus: http.StatusOK, wantRows: 2},
		{name: "scalar selection", body: `{"field":"author","selections":"ada"}`, wantStatus: http.StatusOK, wantRows: 1},
		{name: "no selections", body: `{"field":"related"}`, wantStatus: http.StatusOK, wantRows: 0},
		{name: "missing field", body: `{"selections":["alpha"]}`, wantStatus: http.StatusBadRequest},
		{name: "malformed body", body: `{`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+relationship.DefaultItemDataURL, "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus != http.StatusOK {
				resp.Body.Close()
				return
			}

			var out struct {
				Data []types.DisplayRow `json:"data"`
			}
			decodeBody(t, resp, &out)
			assert.NotNil(t, out.Data)
			assert.Len(t, out.Data, tt.wantRows)
		})
	}

	t.Run("beta resolves outside the configured scope as invalid", func(t *testing.T) {
		resp, err := http.Post(srv.URL+relationship.DefaultItemDataURL, "application/json",
			strings.NewReader(`{"field":"related","selections":["beta"]}`))
		require.NoError(t, err)
		var out struct {
			Data []types.DisplayRow `json:"data"`
		}
		decodeBody(t, resp, &out)
		require.Len(t, out.Data, 1)
		assert.True(t, out.Data[0].Invalid)
	})
}

func TestHandleProcess(t *testing.T) {
	srv := setupServer(t)

	tests := []struct {
		name       string
		field      string
		body       string
		wantStatus int
		wantValue  any
		wantRule   string
	}{
		{name: "multi-select keeps the sequence", field: "related", body: `{"value":["alpha"]}`, wantStatus: http.StatusOK, wantValue: []any{"alpha"}},
		{name: "single-select collapses", field: "author", body: `{"value":["ada"]}`, wantStatus: http.StatusOK, wantValue: "ada"},
		{name: "empty sequence stores null", field: "related", body: `{"value":[]}`, wantStatus: http.StatusOK, wantValue: nil},
		{name: "empty body stores null", field: "related", body: ``, wantStatus: http.StatusOK, wantValue: nil},
		{name: "too many items", field: "related", body: `{"value":["a","b","c"]}`, wantStatus: http.StatusUnprocessableEntity, wantRule: "max:2"},
		{name: "scalar is not a sequence", field: "related", body: `{"value":"alpha"}`, wantStatus: http.StatusUnprocessableEntity, wantRule: "array"},
		{name: "unknown field", field: "nope", body: `{}`, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/fields/"+tt.field+"/process", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, resp.StatusCode)

			var out map[string]any
			decodeBody(t, resp, &out)
			switch tt.wantStatus {
			case http.StatusOK:
				assert.Equal(t, tt.wantValue, out["value"])
			case http.StatusUnprocessableEntity:
				assert.Equal(t, tt.wantRule, out["rule"])
				assert.Equal(t, "VALIDATION_ERROR", out["code"])
			}
		})
	}
}

func TestHandleRules(t *testing.T) {
	srv := setupServer(t)
	resp, err := http.Get(srv.URL + "/fields/related/rules")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Rules []string `json:"rules"`
	}
	decodeBody(t, resp, &out)
	assert.Equal(t, []string{"array", "max:2"}, out.Rules)
}

func TestAdvertisedEndpointsAreServed(t *testing.T) {
	tests := []struct {
		name      string
		endpoints relationship.Endpoints
		wantData  string
		wantIndex string
	}{
		{
			name:      "relative paths",
			endpoints: relationship.Endpoints{ItemData: "/api/data", BaseSelections: "/api/index"},
			wantData:  "/api/data",
			wantIndex: "/api/index",
		},
		{
			name:      "absolute urls mount their path",
			endpoints: relationship.Endpoints{ItemData: "https://cp.example.com/cp/data", BaseSelections: "https://cp.example.com/cp/index"},
			wantData:  "/cp/data",
			wantIndex: "/cp/index",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := setupServerWithEndpoints(t, tt.endpoints)

			resp, err := http.Get(srv.URL + "/fields/related/preload")
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			var payload types.PreloadPayload
			decodeBody(t, resp, &payload)
			assert.Equal(t, tt.endpoints.ItemData, payload.ItemDataURL)
			assert.Equal(t, tt.endpoints.BaseSelections, payload.BaseSelectionsURL)

			resp, err = http.Get(srv.URL + tt.wantIndex + "?field=related")
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			resp, err = http.Post(srv.URL+tt.wantData, "application/json",
				strings.NewReader(`{"field":"related","selections":["alpha"]}`))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			resp, err = http.Get(srv.URL + relationship.DefaultBaseSelectionsURL + "?field=related")
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}

func TestRoutePath(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
	}{
		{endpoint: "", want: "/fallback"},
		{endpoint: "/api/data", want: "/api/data"},
		{endpoint: "api/data", want: "/api/data"},
		{endpoint: "http://host:8080/cp/data?x=1", want: "/cp/data"},
		{endpoint: "http://host", want: "/fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			assert.Equal(t, tt.want, routePath(tt.endpoint, "/fallback"))
		})
	}
}
