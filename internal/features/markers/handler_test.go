package markers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/roadwatch/internal/features/auth"
	"github.com/xyz-asif/roadwatch/internal/features/filter"
	"github.com/xyz-asif/roadwatch/internal/pkg/cloudinary"
	"github.com/xyz-asif/roadwatch/internal/pkg/pagination"
	"github.com/xyz-asif/roadwatch/internal/pkg/validator"
	apperrors "github.com/xyz-asif/roadwatch/pkg/errors"
)

type fakeStore struct {
	markers   map[primitive.ObjectID]*Marker
	lastQuery bson.M
	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{markers: map[primitive.ObjectID]*Marker{}}
}

func (s *fakeStore) Create(_ context.Context, m *Marker) error {
	if s.createErr != nil {
		return s.createErr
	}
	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	m.UpdatedAt = m.CreatedAt
	s.markers[m.ID] = m
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id primitive.ObjectID) (*Marker, error) {
	m, ok := s.markers[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *fakeStore) Find(_ context.Context, q bson.M, _ pagination.Request) ([]Marker, int64, error) {
	s.lastQuery = q
	out := make([]Marker, 0, len(s.markers))
	for _, m := range s.markers {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (s *fakeStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.markers[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.markers, id)
	return nil
}

type fakeAuthors map[primitive.ObjectID]*auth.User

func (f fakeAuthors) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*auth.User, error) {
	out := map[primitive.ObjectID]*auth.User{}
	for _, id := range ids {
		if u, ok := f[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type fakeLikes struct {
	liked   map[primitive.ObjectID]bool
	removed int64
}

func (f *fakeLikes) HasLiked(_ context.Context, markerID, _ primitive.ObjectID) (bool, error) {
	return f.liked[markerID], nil
}

func (f *fakeLikes) LikedMarkers(_ context.Context, _ primitive.ObjectID, ids []primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	out := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		if f.liked[id] {
			out[id] = true
		}
	}
	return out, nil
}

func (f *fakeLikes) DeleteByMarker(_ context.Context, _ primitive.ObjectID) (int64, error) {
	return f.removed, nil
}

type fakeUploader struct {
	uploads []string
	deleted []string
}

func (f *fakeUploader) UploadImage(_ context.Context, _ multipart.File, folder string) (*cloudinary.UploadResult, error) {
	f.uploads = append(f.uploads, folder)
	return &cloudinary.UploadResult{URL: "https://img.example/" + folder + "/1.jpg", PublicID: folder + "/1"}, nil
}

func (f *fakeUploader) Delete(_ context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

type fakeLedger map[primitive.ObjectID]int

func (f fakeLedger) Award(_ context.Context, userID primitive.ObjectID, delta int) error {
	f[userID] += delta
	return nil
}

type testEnv struct {
	router   *gin.Engine
	store    *fakeStore
	likes    *fakeLikes
	images   *fakeUploader
	ledger   fakeLedger
	sessions *filter.SessionStore
	users    fakeAuthors
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.RegisterBindings()

	env := &testEnv{
		store:    newFakeStore(),
		likes:    &fakeLikes{liked: map[primitive.ObjectID]bool{}},
		images:   &fakeUploader{},
		ledger:   fakeLedger{},
		sessions: filter.NewSessionStore(filter.DefaultCatalog().Reducer(), time.Hour),
		users:    fakeAuthors{},
	}

	// X-Test-User selects the caller among env.users.
	withUser := func(required bool) gin.HandlerFunc {
		return func(c *gin.Context) {
			id, err := primitive.ObjectIDFromHex(c.GetHeader("X-Test-User"))
			if u, ok := env.users[id]; err == nil && ok {
				c.Set(auth.ContextUserKey, u)
				c.Set(auth.ContextUserIDKey, u.ID.Hex())
			} else if required {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.Next()
		}
	}

	h := NewHandler(env.store, env.users, env.likes, env.images, env.ledger, filter.DefaultCatalog(), env.sessions)
	env.router = gin.New()
	RegisterRoutes(env.router.Group("/api/v1"), h, withUser(true), withUser(false), func(c *gin.Context) { c.Next() })
	return env
}

func (e *testEnv) addUser(username string) *auth.User {
	u := &auth.User{ID: primitive.NewObjectID(), Username: username, Points: 5}
	e.users[u.ID] = u
	return u
}

func (e *testEnv) addMarker(owner *auth.User) *Marker {
	m := &Marker{
		UserID:   owner.ID,
		Type:     "Semafor",
		Title:    "Semafor ne radi",
		Image:    Image{URL: "https://img.example/m.jpg", PublicID: "markers/m"},
		Location: NewPoint(44.8, 20.4),
	}
	_ = e.store.Create(context.Background(), m)
	return m
}

func (e *testEnv) do(req *http.Request, user *auth.User) *httptest.ResponseRecorder {
	if user != nil {
		req.Header.Set("X-Test-User", user.ID.Hex())
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func markerForm(t *testing.T, fields map[string]string, fileName string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("image", fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte("\xff\xd8 fake jpeg"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreateMarker_Success(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser("marko_p")

	body, contentType := markerForm(t, map[string]string{
		"title":       "Rupa kod mosta",
		"description": "Duboka rupa u desnoj traci",
		"type":        "Rupa na putu",
		"lat":         "44.8125",
		"lng":         "20.4612",
	}, "rupa.jpg")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/markers", body)
	req.Header.Set("Content-Type", contentType)

	w := env.do(req, user)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decode(t, w)["data"].(map[string]any)
	require.Equal(t, "Rupa kod mosta", data["title"])
	require.Equal(t, 44.8125, data["lat"])
	require.Equal(t, "Mar 05, 2024 u 14:30", data["formattedDate"])
	require.Equal(t, float64(15), data["author"].(map[string]any)["points"])
	require.NotContains(t, data["image"], "publicId")

	require.Equal(t, []string{cloudinary.FolderMarkers}, env.images.uploads)
	require.Equal(t, auth.PointsPerMarker, env.ledger[user.ID])
	require.Len(t, env.store.markers, 1)
}

func TestCreateMarker_ReportsEveryInvalidField(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser("marko_p")

	body, contentType := markerForm(t, map[string]string{"type": "Vulkan", "lat": "200"}, "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/markers", body)
	req.Header.Set("Content-Type", contentType)

	w := env.do(req, user)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	fields := decode(t, w)["fieldErrors"].(map[string]any)
	for _, f := range []string{"title", "description", "type", "lat", "lng", "image"} {
		require.Contains(t, fields, f)
	}
	require.Empty(t, env.images.uploads)
	require.Empty(t, env.ledger)
}

func TestCreateMarker_DeletesImageWhenInsertFails(t *testing.T) {
	env := newTestEnv(t)
	env.store.createErr = apperrors.ErrInternal
	user := env.addUser("marko_p")

	body, contentType := markerForm(t, map[string]string{
		"title": "Radovi", "description": "Zatvorena traka", "type": "Radovi na putu",
		"lat": "45.25", "lng": "19.84",
	}, "radovi.png")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/markers", body)
	req.Header.Set("Content-Type", contentType)

	w := env.do(req, user)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, []string{"markers/1"}, env.images.deleted)
	require.Empty(t, env.ledger)
}

func TestCreateMarker_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/markers", nil)
	require.Equal(t, http.StatusUnauthorized, env.do(req, nil).Code)
}

func TestListMarkers(t *testing.T) {
	env := newTestEnv(t)
	author := env.addUser("ana")
	viewer := env.addUser("marko_p")
	m := env.addMarker(author)
	env.likes.liked[m.ID] = true

	req := httptest.NewRequest(http.MethodGet, "/api/v1/markers?q=semafor&type=Semafor&distance=10&lat=44.8&lng=20.4", nil)
	w := env.do(req, viewer)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	require.Equal(t, float64(1), body["total"])
	item := body["data"].([]any)[0].(map[string]any)
	require.Equal(t, true, item["hasLiked"])
	require.Equal(t, "ana", item["author"].(map[string]any)["username"])

	require.Contains(t, env.store.lastQuery, "title")
	require.Contains(t, env.store.lastQuery, "type")
	require.Contains(t, env.store.lastQuery, "location")
}

func TestListMarkers_AnonymousHasNoLikes(t *testing.T) {
	env := newTestEnv(t)
	m := env.addMarker(env.addUser("ana"))
	env.likes.liked[m.ID] = true

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/markers", nil), nil)
	require.Equal(t, http.StatusOK, w.Code)
	item := decode(t, w)["data"].([]any)[0].(map[string]any)
	require.Equal(t, false, item["hasLiked"])
}

func TestListMarkers_BadFilters(t *testing.T) {
	env := newTestEnv(t)
	for _, target := range []string{
		"/api/v1/markers?distance=5",
		"/api/v1/markers?type=Vulkan",
		"/api/v1/markers?from=2024-03-01",
		"/api/v1/markers?distance=5&lat=100&lng=20",
	} {
		w := env.do(httptest.NewRequest(http.MethodGet, target, nil), nil)
		require.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestListSessionMarkers_UsesSessionState(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser("marko_p")
	env.sessions.Get(user.ID.Hex()).Dispatch(filter.TypeToggled{Label: "Zatvorena ulica"})

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/filters/session/markers", nil), user)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, bson.M{"$in": []string{"Zatvorena ulica"}}, env.store.lastQuery["type"])
}

func TestGetMarker(t *testing.T) {
	env := newTestEnv(t)
	m := env.addMarker(env.addUser("ana"))

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/markers/"+m.ID.Hex(), nil), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/markers/"+primitive.NewObjectID().Hex(), nil), nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/markers/nope", nil), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteMarker_OnlyAuthor(t *testing.T) {
	env := newTestEnv(t)
	author := env.addUser("ana")
	other := env.addUser("marko_p")
	m := env.addMarker(author)

	w := env.do(httptest.NewRequest(http.MethodDelete, "/api/v1/markers/"+m.ID.Hex(), nil), other)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, env.store.markers, m.ID)
}

func TestDeleteMarker_RevokesPoints(t *testing.T) {
	env := newTestEnv(t)
	author := env.addUser("ana")
	m := env.addMarker(author)
	env.likes.removed = 3

	w := env.do(httptest.NewRequest(http.MethodDelete, "/api/v1/markers/"+m.ID.Hex(), nil), author)
	require.Equal(t, http.StatusOK, w.Code)

	require.NotContains(t, env.store.markers, m.ID)
	require.Equal(t, -(auth.PointsPerMarker + 3*auth.PointsPerLike), env.ledger[author.ID])
	require.Equal(t, []string{"markers/m"}, env.images.deleted)
}
