package auth_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/growthos/growthos/internal/auth"
	"github.com/growthos/growthos/internal/platform/httpx"
)

type stubRepo struct {
	users map[string]*auth.User
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: map[string]*auth.User{}}
}

func (s *stubRepo) Create(ctx context.Context, user *auth.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return httpx.ErrDuplicate
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, httpx.ErrNotFound
}

func (s *stubRepo) FindByID(ctx context.Context, id string) (*auth.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, httpx.ErrNotFound
}

func (s *stubRepo) List(ctx context.Context) ([]auth.User, error) {
	var out []auth.User
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubRepo) SetActive(ctx context.Context, id string, active bool) error {
	u, ok := s.users[id]
	if !ok {
		return httpx.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func newTestService(t *testing.T, repo auth.Repository) *auth.Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return auth.NewService(repo, auth.NewSessionStore(client, time.Hour))
}

func seedUser(t *testing.T, repo *stubRepo, email, password string) *auth.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &auth.User{ID: "user_000000000001", Email: email, Name: "Test User", PasswordHash: string(hash), IsActive: true}
	repo.users[u.ID] = u
	return u
}

func TestLoginIssuesToken(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "lead@agency.test", "correct-horse")
	service := newTestService(t, repo)
	handler := auth.NewHandler(slog.Default(), service)

	router := chi.NewRouter()
	handler.MountPublic(router)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"lead@agency.test","password":"correct-horse"}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Token == "" {
		t.Fatalf("expected session token in response")
	}

	user, err := service.ResolveSession(req.Context(), body.Token)
	if err != nil {
		t.Fatalf("resolve session: %v", err)
	}
	if user.Email != "lead@agency.test" {
		t.Fatalf("resolved wrong user: %s", user.Email)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "lead@agency.test", "correct-horse")
	service := newTestService(t, repo)
	handler := auth.NewHandler(slog.Default(), service)

	router := chi.NewRouter()
	handler.MountPublic(router)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"lead@agency.test","password":"wrong"}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestLoginUnknownUserSameError(t *testing.T) {
	service := newTestService(t, newStubRepo())

	_, _, err := service.Login(context.Background(), "ghost@agency.test", "whatever")
	if err != httpx.ErrUnauthenticated {
		t.Fatalf("expected generic unauthenticated error, got %v", err)
	}
}

func TestExpiredSessionRejected(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "lead@agency.test", "correct-horse")

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	service := auth.NewService(repo, auth.NewSessionStore(client, time.Minute))

	_, token, err := service.Login(context.Background(), "lead@agency.test", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := service.ResolveSession(context.Background(), token); err != httpx.ErrUnauthenticated {
		t.Fatalf("expected unauthenticated after expiry, got %v", err)
	}
}

func TestDeactivatedUserSessionRejected(t *testing.T) {
	repo := newStubRepo()
	u := seedUser(t, repo, "lead@agency.test", "correct-horse")
	service := newTestService(t, repo)

	_, token, err := service.Login(context.Background(), "lead@agency.test", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	u.IsActive = false

	if _, err := service.ResolveSession(context.Background(), token); err != httpx.ErrUnauthenticated {
		t.Fatalf("expected unauthenticated for deactivated user, got %v", err)
	}
}

func TestBearerHeaderAccepted(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "lead@agency.test", "correct-horse")
	service := newTestService(t, repo)

	_, token, err := service.Login(context.Background(), "lead@agency.test", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireSession(service))
		auth.NewHandler(slog.Default(), service).MountProtected(r)
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 via bearer header, got %d", res.Code)
	}
}
