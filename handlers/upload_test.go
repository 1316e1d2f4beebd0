package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func uploadTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/upload-url", GetUploadURL)
	router.DELETE("/api/delete-file", DeleteFile)
	return router
}

func TestObjectKeyHasTimestampPrefix(t *testing.T) {
	key := objectKey("photo.png")

	if !strings.HasSuffix(key, "-photo.png") {
		t.Fatalf("key %q does not end with the file name", key)
	}
	prefix := strings.TrimSuffix(key, "-photo.png")
	if _, err := strconv.ParseInt(prefix, 10, 64); err != nil {
		t.Errorf("key prefix %q is not a numeric timestamp", prefix)
	}
}

func TestGetUploadURLMissingParams(t *testing.T) {
	router := uploadTestRouter()

	for _, target := range []string{
		"/api/upload-url",
		"/api/upload-url?fileName=a.png",
		"/api/upload-url?fileType=image/png",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: got status %d, want 400", target, w.Code)
		}
	}
}

func TestDeleteFileMissingFileName(t *testing.T) {
	router := uploadTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/delete-file", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] != "Missing fileName parameter" {
		t.Errorf("got error %q, want %q", body["error"], "Missing fileName parameter")
	}
}
