package design

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/velvetnails/velvet-api/internal/pkg/response"
)

func allowAll(next http.Handler) http.Handler {
	return next
}

func denyAll(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.Unauthorized(w, "Not authenticated")
	})
}

func TestAdminRoutesUnreachableWithoutSession(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	srv := httptest.NewServer(NewHandler(svc).AdminRoutes(denyAll))
	defer srv.Close()

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodPost, "/"},
		{http.MethodPost, "/reconcile"},
		{http.MethodPatch, "/1/archive"},
		{http.MethodDelete, "/1"},
	}

	for _, tt := range requests {
		req, _ := http.NewRequest(tt.method, srv.URL+tt.path, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", tt.method, tt.path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s: status %d, want 401", tt.method, tt.path, resp.StatusCode)
		}
	}
}

func TestUploadEndpoint(t *testing.T) {
	svc, _, store, _, _ := newTestService(t)
	srv := httptest.NewServer(NewHandler(svc).AdminRoutes(allowAll))
	defer srv.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("image", "rose.png")
	fw.Write(pngBytes(t))
	mw.WriteField("title", "Rose set")
	mw.WriteField("category", "french")
	mw.Close()

	resp, err := http.Post(srv.URL+"/", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status %d, want 201", resp.StatusCode)
	}

	var body struct {
		Data DesignResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.ID != 1 || body.Data.Title != "Rose set" || body.Data.Category != "french" {
		t.Errorf("response: %+v", body.Data)
	}
	if len(store.objects) != 1 {
		t.Errorf("stored %d blobs, want 1", len(store.objects))
	}
}

func TestUploadEndpointRejectsMissingFile(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	srv := httptest.NewServer(NewHandler(svc).AdminRoutes(allowAll))
	defer srv.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("title", "No image")
	mw.Close()

	resp, err := http.Post(srv.URL+"/", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status %d, want 400", resp.StatusCode)
	}
}

func TestDeleteEndpointReportsFailedStep(t *testing.T) {
	svc, _, store, _, _ := newTestService(t)
	srv := httptest.NewServer(NewHandler(svc).AdminRoutes(allowAll))
	defer srv.Close()

	d, err := svc.Upload(context.Background(), bytes.NewReader(pngBytes(t)), "a.png", "", "")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	store.failKeys[d.BackingKey] = true

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/1", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status %d, want 502", resp.StatusCode)
	}

	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Details["failed_step"] != "blob" {
		t.Errorf("details: %v", body.Error.Details)
	}

	// The failure cleared, a retry finishes the job
	store.mu.Lock()
	delete(store.failKeys, d.BackingKey)
	store.mu.Unlock()

	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/1", nil)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("retry DELETE: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNoContent {
		t.Errorf("retry status %d, want 204", resp2.StatusCode)
	}
}
