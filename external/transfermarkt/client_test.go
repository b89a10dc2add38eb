package transfermarkt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dfirman/footscout/external/rest"

	crerr "github.com/cockroachdb/errors"
)

func TestClient_ClubPlayersBuildsSeasonRequest(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/clubs/985/players" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("season_id"); got != "2023" {
			t.Errorf("season_id = %q", got)
		}
		w.Write([]byte(`{"id":"985","players":[]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, HTTPClient: srv.Client()})
	raw, err := client.ClubPlayers(context.Background(), "985", "2023")
	if err != nil {
		t.Fatalf("club players: %v", err)
	}
	if string(raw) != `{"id":"985","players":[]}` {
		t.Fatalf("body = %s", raw)
	}
}

func TestClient_SearchPlayersEscapesName(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/players/search/Erling%20Haaland" {
			t.Errorf("path = %q", r.URL.EscapedPath())
		}
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, HTTPClient: srv.Client()})
	if _, err := client.SearchPlayers(context.Background(), "Erling Haaland"); err != nil {
		t.Fatalf("search: %v", err)
	}
}

func TestClient_CompetitionClubsPropagatesRateLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, HTTPClient: srv.Client()})
	_, err := client.CompetitionClubs(context.Background(), "GB1", "2023")
	if err == nil {
		t.Fatal("expected error")
	}

	var statusErr *rest.StatusError
	if !crerr.As(err, &statusErr) || statusErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 StatusError, got %v", err)
	}
	if !rest.IsRateLimited(err) {
		t.Fatal("500 should classify as rate limited")
	}
}
