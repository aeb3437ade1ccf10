package session_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func TestSetToken_PersistsAndClears(t *testing.T) {
	store := session.NewMemoryStore()
	s := session.New(store, "", zap.NewNop())

	if err := s.SetToken("abc"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !s.IsAuthenticated() {
		t.Fatal("expected authenticated after SetToken")
	}
	if v, ok, _ := store.Get(session.DefaultKey); !ok || v != "abc" {
		t.Errorf("expected token persisted, got %q (ok=%v)", v, ok)
	}

	if err := s.SetToken(""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s.IsAuthenticated() {
		t.Fatal("expected unauthenticated after clearing")
	}
	if _, ok, _ := store.Get(session.DefaultKey); ok {
		t.Error("expected persisted token removed")
	}
}

func TestSubscribe_FiresSynchronouslyOnFlipsOnly(t *testing.T) {
	s := session.New(session.NewMemoryStore(), "", zap.NewNop())

	var events []bool
	s.Subscribe(func(authenticated bool) {
		// state is already visible to listeners
		if s.IsAuthenticated() != authenticated {
			t.Errorf("listener saw stale state")
		}
		events = append(events, authenticated)
	})

	s.SetToken("a")
	s.SetToken("b") // token rotation, no flip
	s.SetToken("")
	s.SetToken("") // already logged out

	if len(events) != 2 || events[0] != true || events[1] != false {
		t.Errorf("expected [true false], got %v", events)
	}
}

func TestRestore_ReadsPersistedToken(t *testing.T) {
	store := session.NewFileStore(filepath.Join(t.TempDir(), "state", "session.json"))
	first := session.New(store, "", zap.NewNop())
	if err := first.SetToken("persisted"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	second := session.New(store, "", zap.NewNop())
	if err := second.Restore(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if second.Token() != "persisted" {
		t.Errorf("expected restored token, got %q", second.Token())
	}
}

type failingStore struct{}

func (failingStore) Get(string) (string, bool, error) { return "", false, errors.New("disk gone") }
func (failingStore) Set(string, string) error         { return errors.New("disk gone") }
func (failingStore) Delete(string) error              { return errors.New("disk gone") }

func TestSetToken_StorageFailureStillChangesState(t *testing.T) {
	s := session.New(failingStore{}, "", zap.NewNop())

	if err := s.SetToken("abc"); err == nil {
		t.Fatal("expected storage error to be reported")
	}
	if !s.IsAuthenticated() {
		t.Error("expected in-memory token held despite storage failure")
	}
}

func TestClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "42",
		"email": "ana@vitoriacestas.com.br",
		"exp":   exp.Unix(),
	}).SignedString([]byte("any-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	s := session.New(session.NewMemoryStore(), "", zap.NewNop())
	s.SetToken(tok)

	c := s.Claims()
	if c.Subject != "42" || c.Email != "ana@vitoriacestas.com.br" {
		t.Errorf("unexpected claims: %+v", c)
	}
	if c.ExpiresAt == nil || !c.ExpiresAt.Equal(exp) {
		t.Errorf("expected expiry %v, got %v", exp, c.ExpiresAt)
	}

	s.SetToken("opaque-token")
	if got := s.Claims(); got.Subject != "" || got.ExpiresAt != nil {
		t.Errorf("expected empty claims for opaque token, got %+v", got)
	}
}
