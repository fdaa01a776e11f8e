package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/researchlog/pkg/researchlog"
	"github.com/tendant/researchlog/pkg/researchlog/repo/memory"
	memorystorage "github.com/tendant/researchlog/pkg/researchlog/storage/memory"
)

// setupRouterTest creates an /api router backed by in-memory storage
func setupRouterTest(t *testing.T) (http.Handler, researchlog.Service, researchlog.BlobStore) {
	t.Helper()

	store := memorystorage.New()
	clock := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	service, err := researchlog.New(
		researchlog.WithArticleRepository(memory.New()),
		researchlog.WithBlobStore(store),
		researchlog.WithClock(func() time.Time {
			clock = clock.Add(time.Millisecond)
			return clock
		}),
	)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(service, RouterConfig{MaxUploadBytes: 1 << 10, Logger: logger})
	return router, service, store
}

func decodeJSON(t *testing.T, body *bytes.Buffer, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body.Bytes(), v))
}

func multipartBody(t *testing.T, field, fileName string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, fileName)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file here"))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestArticleHandler_SaveAndGet(t *testing.T) {
	router, _, _ := setupRouterTest(t)

	body := `{"title":"실험 1","content":"<p>결과</p>","date":"2024-03-05T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var saved SaveArticleResponse
	decodeJSON(t, w.Body, &saved)
	assert.True(t, saved.Success)
	require.NotNil(t, saved.Article)
	assert.NotEmpty(t, saved.Article.ID)
	assert.Equal(t, "실험 1", saved.Article.Title)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/articles/"+saved.Article.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got researchlog.Article
	decodeJSON(t, w.Body, &got)
	assert.Equal(t, *saved.Article, got)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestArticleHandler_SaveValidation(t *testing.T) {
	router, _, _ := setupRouterTest(t)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing title", `{"content":"x"}`, "Title is required"},
		{"blank title", `{"title":"   "}`, "Title is required"},
		{"bad json", `{"title":`, "Invalid request body"},
		{"bad id", `{"id":"../etc","title":"t"}`, "Invalid name"},
		{"boolean id", `{"id":true,"title":"t"}`, "Invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp ErrorResponse
			decodeJSON(t, w.Body, &resp)
			assert.Equal(t, tt.message, resp.Error)
		})
	}
}

func TestArticleHandler_SaveNumericID(t *testing.T) {
	router, service, _ := setupRouterTest(t)

	tests := []struct {
		name string
		body string
		id   string
	}{
		{"number", `{"id":1700000000000,"title":"t"}`, "1700000000000"},
		{"string", `{"id":"1700000000000","title":"t"}`, "1700000000000"},
		{"zero is generated", `{"id":0,"title":"t"}`, ""},
		{"null is generated", `{"id":null,"title":"t"}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(tt.body)))
			require.Equal(t, http.StatusOK, w.Code)

			var saved SaveArticleResponse
			decodeJSON(t, w.Body, &saved)
			require.NotNil(t, saved.Article)
			if tt.id != "" {
				assert.Equal(t, tt.id, saved.Article.ID)
			} else {
				assert.NotEqual(t, "0", saved.Article.ID)
				assert.NotEmpty(t, saved.Article.ID)
			}

			_, err := service.GetArticle(context.Background(), saved.Article.ID)
			assert.NoError(t, err)
		})
	}
}

func TestArticleHandler_List(t *testing.T) {
	router, service, _ := setupRouterTest(t)
	ctx := context.Background()

	_, err := service.SaveArticle(ctx, researchlog.SaveArticleRequest{ID: "a", Title: "A", Date: "2024-03-05T00:00:00Z"})
	require.NoError(t, err)
	_, err = service.SaveArticle(ctx, researchlog.SaveArticleRequest{ID: "b", Title: "B", Date: "2023-10-01T00:00:00Z"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/articles", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var list []researchlog.ArticleSummary
	decodeJSON(t, w.Body, &list)
	assert.ElementsMatch(t, []researchlog.ArticleSummary{
		{ID: "a", Title: "A", Date: "2024-03-05T00:00:00Z", Year: "2024", Month: "3"},
		{ID: "b", Title: "B", Date: "2023-10-01T00:00:00Z", Year: "2023", Month: "10"},
	}, list)
}

func TestArticleHandler_NotFound(t *testing.T) {
	router, _, _ := setupRouterTest(t)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, "/articles/missing-id", nil))

		assert.Equal(t, http.StatusNotFound, w.Code, method)
		var resp ErrorResponse
		decodeJSON(t, w.Body, &resp)
		assert.Equal(t, "Article not found", resp.Error)
	}
}

func TestArticleHandler_DeleteCascades(t *testing.T) {
	router, service, store := setupRouterTest(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "123-photo.png", strings.NewReader("img")))
	saved, err := service.SaveArticle(ctx, researchlog.SaveArticleRequest{
		Title:   "with photo",
		Content: `<img src="/api/assets/123-photo.png"><img src="/api/assets/999-missing.png">`,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/articles/"+saved.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	_, err = store.Get(ctx, "123-photo.png")
	assert.ErrorIs(t, err, researchlog.ErrNotFound)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/articles/"+saved.ID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssetHandler_UploadAndServe(t *testing.T) {
	router, _, _ := setupRouterTest(t)

	body, contentType := multipartBody(t, "file", "clip.mp4", []byte("video-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/assets", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var uploaded UploadAssetResponse
	decodeJSON(t, w.Body, &uploaded)
	assert.True(t, uploaded.Success)
	assert.True(t, strings.HasSuffix(uploaded.FileName, "-clip.mp4"))
	assert.Equal(t, "/api/assets/"+uploaded.FileName, uploaded.URL)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/"+uploaded.FileName, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "video/mp4", w.Header().Get("Content-Type"))
	assert.Equal(t, "video-bytes", w.Body.String())
}

func TestAssetHandler_ServeEncodedName(t *testing.T) {
	router, _, store := setupRouterTest(t)
	require.NoError(t, store.Put(context.Background(), "1-한글.png", strings.NewReader("img")))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/1-%ED%95%9C%EA%B8%80.png", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}

func TestAssetHandler_UnknownExtensionServedAsJPEG(t *testing.T) {
	router, _, store := setupRouterTest(t)
	require.NoError(t, store.Put(context.Background(), "1-unknownext.xyz", strings.NewReader("?")))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/1-unknownext.xyz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
}

func TestAssetHandler_NoFile(t *testing.T) {
	router, _, store := setupRouterTest(t)

	t.Run("missing field", func(t *testing.T) {
		body, contentType := multipartBody(t, "", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/assets", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"No file uploaded"}`, w.Body.String())
	})

	t.Run("empty file", func(t *testing.T) {
		body, contentType := multipartBody(t, "file", "empty.png", nil)
		req := httptest.NewRequest(http.MethodPost, "/assets", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"No file uploaded"}`, w.Body.String())
	})

	t.Run("not multipart", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/assets", strings.NewReader("raw")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	assert.Empty(t, store.(*memorystorage.Backend).Names())
}

func TestAssetHandler_TooLarge(t *testing.T) {
	router, _, store := setupRouterTest(t)

	body, contentType := multipartBody(t, "file", "big.png", bytes.Repeat([]byte("x"), 4<<10))
	req := httptest.NewRequest(http.MethodPost, "/assets", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"error":"File too large"}`, w.Body.String())
	assert.Empty(t, store.(*memorystorage.Backend).Names())
}

func TestAssetHandler_NotFound(t *testing.T) {
	router, _, _ := setupRouterTest(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/nope.png", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Asset not found"}`, w.Body.String())
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(researchlog.ErrArticleNotFound))
	assert.Equal(t, http.StatusBadRequest, statusFor(researchlog.ErrNoFile))
	assert.Equal(t, http.StatusInternalServerError, statusFor(researchlog.ParseFailure(io.ErrUnexpectedEOF)))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrClosedPipe))
}
