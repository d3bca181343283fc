package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/roadwatch/internal/features/auth"
	apperrors "github.com/xyz-asif/roadwatch/pkg/errors"
)

type fakeDirectory []auth.User

func (f fakeDirectory) ListByUsername(context.Context) ([]auth.User, error) {
	return f, nil
}

func (f fakeDirectory) GetUserByID(_ context.Context, id string) (*auth.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrBadRequest
	}
	for i := range f {
		if f[i].ID == oid {
			return &f[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func newRouter(dir fakeDirectory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), NewHandler(dir))
	return r
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestListUsers_HidesPrivateFields(t *testing.T) {
	dir := fakeDirectory{
		{ID: primitive.NewObjectID(), Username: "ana", Email: "ana@example.com", Phone: "+381601234567", Points: 12},
		{ID: primitive.NewObjectID(), Username: "marko_p", Email: "marko@example.com"},
	}

	w := get(newRouter(dir), "/api/v1/users")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	require.Equal(t, "ana", body.Data[0]["username"])
	require.Equal(t, float64(12), body.Data[0]["points"])
	require.NotContains(t, body.Data[0], "email")
	require.NotContains(t, body.Data[0], "telefon")
}

func TestGetUser(t *testing.T) {
	ana := auth.User{ID: primitive.NewObjectID(), Username: "ana"}
	r := newRouter(fakeDirectory{ana})

	require.Equal(t, http.StatusOK, get(r, "/api/v1/users/"+ana.ID.Hex()).Code)
	require.Equal(t, http.StatusNotFound, get(r, "/api/v1/users/"+primitive.NewObjectID().Hex()).Code)
	require.Equal(t, http.StatusBadRequest, get(r, "/api/v1/users/nope").Code)
}
