package filter

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testUserID = "65f1a2b3c4d5e6f708192a3b"

func fakeAuth(c *gin.Context) {
	if id := c.GetHeader("X-Test-User"); id != "" {
		c.Set("userID", id)
		c.Next()
		return
	}
	c.AbortWithStatus(http.StatusUnauthorized)
}

func newTestRouter(t *testing.T) (*gin.Engine, *SessionStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	catalog := DefaultCatalog()
	store := NewSessionStore(catalog.Reducer(), time.Hour)

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), NewHandler(catalog, store), fakeAuth)
	return r, store
}

func do(r *gin.Engine, method, path, body, user string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func stateFrom(t *testing.T, w *httptest.ResponseRecorder) StateView {
	t.Helper()
	var body struct {
		Data StateView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data
}

func TestGetCatalog(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/v1/filters/catalog", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Types        []string      `json:"types"`
			Distance     DistanceRange `json:"distance"`
			DefaultState StateView     `json:"defaultState"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Types, 8)
	require.Equal(t, float64(999), body.Data.Distance.Max)
	require.Equal(t, "Izaberite opseg", body.Data.DefaultState.DisplayDateLabel)
	require.Equal(t, "Svi korisnici", body.Data.DefaultState.UsersLabel)
}

func TestDispatch_AppliesInOrder(t *testing.T) {
	r, _ := newTestRouter(t)

	body := `{"events":[
		{"type":"searchTextChanged","text":"rupa"},
		{"type":"typeToggled","label":"Semafor"},
		{"type":"distanceChanged","value":5000},
		{"type":"dateRangeCommitted","start":"2024-03-09","end":"2024-03-01"},
		{"type":"userToggled","id":"` + testUserID + `"}
	]}`
	w := do(r, http.MethodPost, "/api/v1/filters/session/events", body, "alice")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	view := stateFrom(t, w)
	require.Equal(t, "rupa", view.SearchText)
	require.Equal(t, []string{"Semafor"}, view.Types)
	require.Equal(t, float64(999), view.DistanceKm)
	require.Equal(t, "Mar 01, 2024 - Mar 09, 2024", view.DisplayDateLabel)
	require.Equal(t, "1 korisnik izabran", view.UsersLabel)

	w = do(r, http.MethodGet, "/api/v1/filters/session", "", "alice")
	require.Equal(t, view, stateFrom(t, w))
}

func TestDispatch_RejectsWholeBatch(t *testing.T) {
	r, store := newTestRouter(t)

	tests := map[string]string{
		"unknown event":    `{"events":[{"type":"searchTextChanged","text":"x"},{"type":"boom"}]}`,
		"unknown category": `{"events":[{"type":"searchTextChanged","text":"x"},{"type":"typeToggled","label":"Vulkan"}]}`,
		"bad user id":      `{"events":[{"type":"searchTextChanged","text":"x"},{"type":"userToggled","id":"u1"}]}`,
		"empty batch":      `{"events":[]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/v1/filters/session/events", body, "bob")
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	require.Equal(t, "", store.Get("bob").Snapshot().SearchText())
}

func TestResetEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	body := `{"events":[{"type":"searchTextChanged","text":"rupa"},{"type":"userToggled","id":"` + testUserID + `"}]}`
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/v1/filters/session/events", body, "carol").Code)

	view := stateFrom(t, do(r, http.MethodPost, "/api/v1/filters/session/reset-users", "", "carol"))
	require.Empty(t, view.Users)
	require.Equal(t, "rupa", view.SearchText)

	view = stateFrom(t, do(r, http.MethodPost, "/api/v1/filters/session/reset", "", "carol"))
	require.Equal(t, "", view.SearchText)
}

func TestSessionsAreIsolatedAndDiscardable(t *testing.T) {
	r, store := newTestRouter(t)

	body := `{"events":[{"type":"searchTextChanged","text":"semafor"}]}`
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/v1/filters/session/events", body, "dave").Code)

	require.Equal(t, "", stateFrom(t, do(r, http.MethodGet, "/api/v1/filters/session", "", "erin")).SearchText)

	w := do(r, http.MethodDelete, "/api/v1/filters/session", "", "dave")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, store.Len())
}

func TestSessionRequiresAuth(t *testing.T) {
	r, _ := newTestRouter(t)
	require.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/filters/session", "", "").Code)
}
