package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interiorly-ai-api/internal/application/assistant"
	"interiorly-ai-api/internal/config"
	"interiorly-ai-api/internal/domain/entity"
)

type stubBlobStore struct {
	puts int
}

func (s *stubBlobStore) Put(_ context.Context, key string, data []byte, contentType string) (*entity.StoredAsset, error) {
	s.puts++
	return &entity.StoredAsset{
		Key:          key,
		URL:          "https://assets.example.com/" + key,
		ContentType:  contentType,
		SizeBytes:    int64(len(data)),
		AccessPolicy: entity.AccessPublic,
		UploadedAt:   time.Now(),
	}, nil
}

func newUploadRouter(store *stubBlobStore, maxSize int64) *gin.Engine {
	gin.SetMode(gin.TestMode)

	pipeline := assistant.NewUploadValidationPipeline(store, config.UploadConfig{
		MaxSizeBytes: maxSize,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/webp"},
	})
	h := NewUploadHandler(pipeline)

	engine := gin.New()
	engine.POST("/v1/files/upload", h.Upload)
	engine.PUT("/v1/files/upload", h.UploadBase64)
	return engine
}

func multipartUpload(t *testing.T, fieldName, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestUploadHandlerSuccess(t *testing.T) {
	store := &stubBlobStore{}
	engine := newUploadRouter(store, 5*1024*1024)

	body, contentType := multipartUpload(t, "file", "room.png", "image/png", []byte("fake png bytes"))
	req := httptest.NewRequest(http.MethodPost, "/v1/files/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, store.puts)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			URL         string `json:"url"`
			Key         string `json:"key"`
			ContentType string `json:"content_type"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, "image/png", resp.Data.ContentType)
	assert.NotEmpty(t, resp.Data.URL)
}

func TestUploadHandlerMissingFile(t *testing.T) {
	engine := newUploadRouter(&stubBlobStore{}, 5*1024*1024)

	req := httptest.NewRequest(http.MethodPost, "/v1/files/upload", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no file uploaded")
}

func TestUploadHandlerTooLarge(t *testing.T) {
	store := &stubBlobStore{}
	engine := newUploadRouter(store, 10)

	body, contentType := multipartUpload(t, "file", "big.png", "image/png", []byte("more than ten bytes of data"))
	req := httptest.NewRequest(http.MethodPost, "/v1/files/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file size should be less than 5MB")
	assert.Equal(t, 0, store.puts)
}

func TestUploadHandlerUnsupportedType(t *testing.T) {
	engine := newUploadRouter(&stubBlobStore{}, 5*1024*1024)

	body, contentType := multipartUpload(t, "file", "plan.pdf", "application/pdf", []byte("%PDF-1.7"))
	req := httptest.NewRequest(http.MethodPost, "/v1/files/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "JPEG, PNG, or WebP")
}

func TestUploadBase64HandlerSuccess(t *testing.T) {
	store := &stubBlobStore{}
	engine := newUploadRouter(store, 5*1024*1024)

	payload := map[string]string{
		"base64_image": "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("generated bytes")),
		"filename":     "nook.png",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/v1/files/upload", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, store.puts)
}

func TestUploadBase64HandlerMissingFields(t *testing.T) {
	engine := newUploadRouter(&stubBlobStore{}, 5*1024*1024)

	req := httptest.NewRequest(http.MethodPut, "/v1/files/upload", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "base64_image and filename are required")
}
