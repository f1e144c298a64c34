package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bloglist/bloglist-go/internal/crypto"
	"github.com/bloglist/bloglist-go/internal/model"
)

type stubAuthenticator struct {
	user *model.User
	err  error
	got  string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*model.User, error) {
	s.got = token
	return s.user, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serve(t *testing.T, auth Authenticator, header string) (*httptest.ResponseRecorder, *model.User) {
	t.Helper()
	var seen *model.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/blogs", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	Authenticate(auth, discardLogger())(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthenticate_SchemeIsCaseInsensitive(t *testing.T) {
	root := &model.User{ID: "61f1a780d418ab0000c0000f", Username: "root"}

	for _, scheme := range []string{"Bearer", "bearer", "BEARER"} {
		t.Run(scheme, func(t *testing.T) {
			auth := &stubAuthenticator{user: root}
			rec, seen := serve(t, auth, scheme+" abc.def.ghi")

			if rec.Code != http.StatusNoContent {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
			}
			if auth.got != "abc.def.ghi" {
				t.Errorf("token = %q, want abc.def.ghi", auth.got)
			}
			if seen != root {
				t.Errorf("UserFromContext() = %v, want root", seen)
			}
		})
	}
}

func TestAuthenticate_AnonymousPassThrough(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"other scheme", "Basic cm9vdDpzZWNyZXQ="},
		{"empty bearer", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &stubAuthenticator{err: errors.New("must not be called")}
			rec, seen := serve(t, auth, tt.header)

			if rec.Code != http.StatusNoContent {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
			}
			if seen != nil {
				t.Errorf("UserFromContext() = %v, want nil", seen)
			}
			if auth.got != "" {
				t.Errorf("Authenticate() called with %q", auth.got)
			}
		})
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	auth := &stubAuthenticator{err: crypto.ErrInvalidToken}
	rec, seen := serve(t, auth, "Bearer expired")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if seen != nil {
		t.Error("next handler ran for an invalid token")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	auth := &stubAuthenticator{err: errors.New("connection refused")}
	rec, _ := serve(t, auth, "Bearer abc")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	if _, ok := UserFromContext(context.Background()); ok {
		t.Error("UserFromContext() ok = true on empty context")
	}
}
