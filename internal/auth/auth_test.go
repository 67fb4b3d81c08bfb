package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddleware_SetsUserID(t *testing.T) {
	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserID(r.Context())
	})

	handler := Middleware(StaticVerifier{UserID: "user-42"})(next)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("Authorization", "Bearer some-token")

	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	if gotUserID != "user-42" {
		t.Errorf("Expected user_id user-42, got %q", gotUserID)
	}
}

func TestMiddleware_MissingToken(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	handler := Middleware(StaticVerifier{UserID: "user-42"})(next)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code %d, got %d", http.StatusUnauthorized, recorder.Code)
	}
	if called {
		t.Error("next handler must not run without a token")
	}
}

func TestHTTPVerifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"user_id":"user-7"}`))
	}))
	defer server.Close()

	verifier := NewHTTPVerifier(server.URL)

	userID, err := verifier.Verify(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if userID != "user-7" {
		t.Errorf("Expected user-7, got %q", userID)
	}

	if _, err := verifier.Verify(context.Background(), "bad-token"); err != ErrUnauthorized {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
}

func TestUserID_MissingFromContext(t *testing.T) {
	if got := UserID(context.Background()); got != "" {
		t.Errorf("Expected empty user id, got %q", got)
	}
}
