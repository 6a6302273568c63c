package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"metalwatch/config"
	"metalwatch/internal/metals"
	"metalwatch/pkg/github"
	"metalwatch/pkg/pricesource"

	"go.uber.org/zap"
)

func ratePage(title, quantity string, price float64) string {
	return fmt.Sprintf(`<html><body><section title=%q><table>
<tr><th>Gram</th><th>Price</th></tr>
<tr><td>%s</td><td>&#8377;%.2f</td></tr>
</table></section></body></html>`, title, quantity, price)
}

// env fakes the rate pages and the GitHub comments endpoint.
type env struct {
	mu           sync.Mutex
	gold, silver float64
	silverStatus int
	githubStatus int
	comments     []string

	pages  *httptest.Server
	github *httptest.Server
	cfg    *config.Config
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{silverStatus: http.StatusOK, githubStatus: http.StatusCreated}

	e.pages = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.mu.Lock()
		defer e.mu.Unlock()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch r.URL.Path {
		case "/gold":
			fmt.Fprint(w, ratePage("Gold Rate", "10", e.gold))
		case "/silver":
			if e.silverStatus != http.StatusOK {
				w.WriteHeader(e.silverStatus)
				return
			}
			fmt.Fprint(w, ratePage("Silver Rate", "1000", e.silver))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(e.pages.Close)

	e.github = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.mu.Lock()
		defer e.mu.Unlock()
		if r.URL.Path != "/repos/acme/metals/issues/3/comments" || r.Header.Get("Authorization") != "Bearer tok" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if e.githubStatus != http.StatusCreated {
			http.Error(w, "denied", e.githubStatus)
			return
		}
		var payload struct {
			Body string `json:"body"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		e.comments = append(e.comments, payload.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(e.github.Close)

	e.cfg = &config.Config{
		GitHub: config.GitHubConfig{
			BaseURL:     e.github.URL,
			Token:       "tok",
			Repository:  "acme/metals",
			IssueNumber: 3,
			Timeout:     5 * time.Second,
		},
		Source: config.SourceConfig{
			Timeout:   5 * time.Second,
			UserAgent: "Mozilla/5.0 (test)",
			Gold:      config.PageConfig{URL: e.pages.URL + "/gold", Title: "Gold Rate", ReferenceQuantity: "10"},
			Silver:    config.PageConfig{URL: e.pages.URL + "/silver", Title: "Silver Rate", ReferenceQuantity: "1000"},
		},
		Alert: config.AlertConfig{CrashThreshold: 10.0},
		Store: config.StoreConfig{Driver: "file", Path: filepath.Join(t.TempDir(), "last_prices.json")},
	}
	return e
}

func (e *env) setPrices(gold, silver float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gold, e.silver = gold, silver
}

func (e *env) commentCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.comments)
}

func readRecord(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	return string(data)
}

// go test -v --run TestRunEndToEnd
func TestRunEndToEnd(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// first run: summary only
	e.setPrices(6250, 74500)
	report, err := Run(ctx, e.cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if e.commentCount() != 1 || len(report.Alerts) != 0 {
		t.Fatalf("first run: expected one comment and no alerts, got %d / %v", e.commentCount(), report.Alerts)
	}
	if got := readRecord(t, e.cfg.Store.Path); got != `{"gold":6250,"silver":74500}` {
		t.Errorf("unexpected record %s", got)
	}

	// second run: gold drops 10.4%
	e.setPrices(5600, 74500)
	report, err = Run(ctx, e.cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if e.commentCount() != 3 {
		t.Fatalf("second run: expected summary and gold alert, total comments %d", e.commentCount())
	}
	if len(report.Alerts) != 1 || report.Alerts[0] != metals.Gold {
		t.Errorf("expected gold alert, got %v", report.Alerts)
	}
	if got := readRecord(t, e.cfg.Store.Path); got != `{"gold":5600,"silver":74500}` {
		t.Errorf("unexpected record %s", got)
	}
}

// go test -v --run TestRunSourceFailure
func TestRunSourceFailure(t *testing.T) {
	e := newEnv(t)
	e.setPrices(6250, 74500)
	e.mu.Lock()
	e.silverStatus = http.StatusInternalServerError
	e.mu.Unlock()

	const previous = `{"gold":7000,"silver":80000}`
	if err := os.WriteFile(e.cfg.Store.Path, []byte(previous), 0o644); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	_, err := Run(context.Background(), e.cfg, zap.NewNop())

	var fetchErr *pricesource.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if e.commentCount() != 0 {
		t.Errorf("expected no comments, got %d", e.commentCount())
	}
	if got := readRecord(t, e.cfg.Store.Path); got != previous {
		t.Errorf("record changed to %s", got)
	}
}

// go test -v --run TestRunNotificationForbidden
func TestRunNotificationForbidden(t *testing.T) {
	e := newEnv(t)
	e.setPrices(6250, 74500)
	e.mu.Lock()
	e.githubStatus = http.StatusForbidden
	e.mu.Unlock()

	_, err := Run(context.Background(), e.cfg, zap.NewNop())

	var notifyErr *github.NotificationError
	if !errors.As(err, &notifyErr) || notifyErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 NotificationError, got %v", err)
	}
	if _, statErr := os.Stat(e.cfg.Store.Path); !os.IsNotExist(statErr) {
		t.Errorf("record must not be written, stat err = %v", statErr)
	}
}

// go test -v --run TestOpenStoreUnknownDriver
func TestOpenStoreUnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "sqlite"}}
	if _, _, err := OpenStore(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

// go test -v --run TestPagesDefaultQuantity
func TestPagesDefaultQuantity(t *testing.T) {
	got := pages(config.SourceConfig{
		Gold:   config.PageConfig{URL: "http://gold", Title: "Gold"},
		Silver: config.PageConfig{URL: "http://silver", Title: "Silver", ReferenceQuantity: "1 kg"},
	})

	if got[metals.Gold].ReferenceQuantity != "10" {
		t.Errorf("expected gold to fall back to 10, got %q", got[metals.Gold].ReferenceQuantity)
	}
	if got[metals.Silver].ReferenceQuantity != "1 kg" {
		t.Errorf("expected configured silver quantity, got %q", got[metals.Silver].ReferenceQuantity)
	}
}
