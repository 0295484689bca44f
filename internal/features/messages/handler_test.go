package messages

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyz-asif/classifieds/internal/features/auth"
)

type staticVerifier struct{}

func (staticVerifier) Verify(_ context.Context, raw string) (*auth.Identity, error) {
	if raw == "buyer-token" {
		return &auth.Identity{UID: "u1", Email: "buyer@example.com"}, nil
	}
	return nil, auth.ErrInvalidIDToken
}

func contactRouter(mail *recordingMailer, store *memoryStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/listings"), NewHandler(newService(store, mail)), staticVerifier{})
	return r
}

func postContact(r *gin.Engine, id, token, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/listings/id/"+id+"/contact", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestContactHandler(t *testing.T) {
	payload := `{"message":"` + body + `"}`

	t.Run("requires identity", func(t *testing.T) {
		w := postContact(contactRouter(&recordingMailer{}, &memoryStore{}), listingID, "", payload)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("created", func(t *testing.T) {
		store := &memoryStore{}
		w := postContact(contactRouter(&recordingMailer{}, store), listingID, "buyer-token", payload)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp["data"].(map[string]any)
		assert.Equal(t, true, data["mine"])
		assert.NotContains(t, w.Body.String(), "owner@example.com")
		assert.Len(t, store.msgs, 1)
	})

	t.Run("unprocessable", func(t *testing.T) {
		w := postContact(contactRouter(&recordingMailer{}, &memoryStore{}), listingID, "buyer-token", `{"message":"hi"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"message"`)
	})

	t.Run("not found", func(t *testing.T) {
		w := postContact(contactRouter(&recordingMailer{}, &memoryStore{}), "nope", "buyer-token", payload)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delivery failure", func(t *testing.T) {
		store := &memoryStore{}
		w := postContact(contactRouter(&recordingMailer{err: errors.New("down")}, store), listingID, "buyer-token", payload)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Empty(t, store.msgs)
	})
}
