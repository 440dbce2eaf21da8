package http

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"storefront-be/internal/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMediaHandler_Authorize(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := newTestServer()
		srv.media.On("Authorize", mock.Anything, "photo.jpg").
			Return(&media.UploadCredential{
				Token:     "tok-1",
				UploadURL: "https://blobs.example.com/abc.jpg?token=tok-1",
				ExpiresAt: time.Now().Add(15 * time.Minute),
			}, nil)

		rec := srv.do(t, "POST", "/api/media/uploads", map[string]string{"filename": "photo.jpg"}, nil)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var cred media.UploadCredential
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&cred))
		assert.Equal(t, "tok-1", cred.Token)
	})

	t.Run("Error - Missing filename", func(t *testing.T) {
		srv := newTestServer()
		srv.media.On("Authorize", mock.Anything, "").
			Return(nil, media.ErrFilenameRequired)

		rec := srv.do(t, "POST", "/api/media/uploads", map[string]string{}, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMediaHandler_Complete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := newTestServer()
		srv.media.On("Complete", mock.Anything, "tok-1").
			Return("https://cdn.example.com/abc.jpg", nil)

		rec := srv.do(t, "POST", "/api/media/uploads/tok-1/complete", nil, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"url":"https://cdn.example.com/abc.jpg"}`, rec.Body.String())
	})

	t.Run("Error - Unknown token", func(t *testing.T) {
		srv := newTestServer()
		srv.media.On("Complete", mock.Anything, "bogus").
			Return("", media.ErrTokenNotFound)

		rec := srv.do(t, "POST", "/api/media/uploads/bogus/complete", nil, nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
