package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilemetry/internal/testkit"
)

func newTestServer(t *testing.T) (*Server, *testkit.TestKit) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	kit := testkit.NewTestKit()
	server := NewServer(kit.Widgets, kit.ChartModelAdapter(), nil, nil)
	return server, kit
}

func postJSON(t *testing.T, server *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, req)
	return w
}

func TestDeriveEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	w := postJSON(t, server, "/api/v1/derive", map[string]any{
		"columns": []map[string]string{
			{"id": "name", "label": "Name"},
			{"id": "value", "label": "Value"},
			{"id": "prior", "label": "Prior"},
		},
		"rows": [][]any{
			{"A", 100, 80},
			{"B", 50, 50},
			{"C", 0, 10},
		},
		"mapping": map[string]string{"category": "name", "current": "value", "prior": "prior"},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Records []struct {
			Name        string `json:"name"`
			ChangeLabel string `json:"change_label"`
			ShareLabel  string `json:"share_label"`
			Rank        int    `json:"rank"`
		} `json:"records"`
		Total      float64 `json:"total"`
		Diagnostic string  `json:"diagnostic"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Records, 3)
	assert.Empty(t, resp.Diagnostic)
	assert.Equal(t, 150.0, resp.Total)
	assert.Equal(t, "25.00%", resp.Records[0].ChangeLabel)
	assert.Equal(t, "66.67%", resp.Records[0].ShareLabel)
	assert.Equal(t, "-100.00%", resp.Records[2].ChangeLabel)
	assert.Equal(t, 3, resp.Records[2].Rank)
}

func TestDeriveEndpoint_DegradesOnInvalidMapping(t *testing.T) {
	server, _ := newTestServer(t)

	w := postJSON(t, server, "/api/v1/derive", map[string]any{
		"columns": []map[string]string{{"id": "name"}},
		"rows":    [][]any{{"A"}},
		"mapping": map[string]string{"current": "value"},
	})

	// Recoverable failures answer 200 with an empty record set.
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Records    []any  `json:"records"`
		Diagnostic string `json:"diagnostic"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Records)
	assert.Contains(t, resp.Diagnostic, "mapping")
}

func TestWidgetLifecycleEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	w := postJSON(t, server, "/api/v1/widgets", map[string]any{
		"name":    "Revenue by category",
		"mapping": map[string]string{"category": "category", "current": "revenue", "prior": "revenue_prior_year"},
		"notes":   "Quarterly *revenue* split.",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/widgets/"+created.ID+"/records", nil)
	rec := httptest.NewRecorder()
	server.Engine().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Records []struct {
			Name string `json:"name"`
		} `json:"records"`
		Summary *struct {
			Count int `json:"count"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Records)
	require.NotNil(t, resp.Summary)
	assert.Equal(t, len(resp.Records), resp.Summary.Count)
}

func TestCreateWidget_RejectsInvalidMapping(t *testing.T) {
	server, _ := newTestServer(t)

	w := postJSON(t, server, "/api/v1/widgets", map[string]any{
		"name":    "broken",
		"mapping": map[string]string{"current": "revenue"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestWidgetRecords_NotFound(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/widgets/ghost/records", nil)
	rec := httptest.NewRecorder()
	server.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
