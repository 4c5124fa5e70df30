package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createAlice(t *testing.T, r http.Handler) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/users", map[string]string{
		"username": "Alice",
		"email":    "Alice@Example.com",
		"password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp.Data.ID
}

func TestRouter_CreateAndGetUser(t *testing.T) {
	r := New(Options{})

	id := createAlice(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/users/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"username":"alice"`)) {
		t.Errorf("Expected normalized username in response, got %s", w.Body.String())
	}
	if bytes.Contains(w.Body.Bytes(), []byte("password")) {
		t.Errorf("Response must not contain a password field: %s", w.Body.String())
	}
}

func TestRouter_CreateUser_Validation(t *testing.T) {
	r := New(Options{})

	w := doJSON(t, r, http.MethodPost, "/api/users", map[string]string{
		"username": "al",
		"email":    "not-an-email",
		"password": "short",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestRouter_CreateUser_PaddedInputAccepted(t *testing.T) {
	r := New(Options{})

	// 16-character username and a valid email, both padded with whitespace
	// that normalization strips
	w := doJSON(t, r, http.MethodPost, "/api/users", map[string]string{
		"username": "  abcdefghijklmnop  ",
		"email":    "  padded@example.com  ",
		"password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201 for padded input, got %d: %s", w.Code, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"username":"abcdefghijklmnop"`)) {
		t.Errorf("Expected trimmed username in response, got %s", w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"email":"padded@example.com"`)) {
		t.Errorf("Expected trimmed email in response, got %s", w.Body.String())
	}
}

func TestRouter_CreateUser_Conflict(t *testing.T) {
	r := New(Options{})

	createAlice(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/users", map[string]string{
		"username": "ALICE",
		"email":    "other@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRouter_DeactivateAndDelete(t *testing.T) {
	r := New(Options{})

	id := createAlice(t, r)

	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/users/%s/deactivate", id), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/users/"+id, nil)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"is_active":false`)) {
		t.Errorf("Expected deactivated user to be retrievable, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodDelete, "/api/users/"+id, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/users/"+id, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after hard delete, got %d", w.Code)
	}
}

func TestRouter_ExistsAndSearch(t *testing.T) {
	r := New(Options{})

	createAlice(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/users/exists/username/ALICE", nil)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"data":true`)) {
		t.Errorf("Expected exists=true, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/users/search?username=ali", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"username":"alice"`)) {
		t.Errorf("Expected alice in search results, got %s", w.Body.String())
	}
}

func TestRouter_InvalidID(t *testing.T) {
	r := New(Options{})

	w := doJSON(t, r, http.MethodGet, "/api/users/not-a-uuid", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed id, got %d", w.Code)
	}
}
