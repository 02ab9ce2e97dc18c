package statsfeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futpeak/futpeak-engine/internal/domain/athlete"
	"github.com/futpeak/futpeak-engine/internal/platform/resilience"
	"github.com/futpeak/futpeak-engine/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler, cfg ClientConfig) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.BaseURL = server.URL
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = server.Client()
	}
	return NewClient(cfg), server
}

func TestGetByID_MapsProfile(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/athletes/ath-1" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data": {"id": "ath-1", "name": " Mateo Varela ", "birth_date": "2004-03-14", "position": "LW", "current_team": "CA Riverside"}}`))
	})

	client, _ := newTestClient(t, handler, ClientConfig{APIKey: "test-key"})

	profile, err := client.GetByID(context.Background(), "ath-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if profile.Name != "Mateo Varela" {
		t.Fatalf("unexpected name: %q", profile.Name)
	}
	if !profile.HasBirthDate() || profile.BirthDate.Year() != 2004 {
		t.Fatalf("unexpected birth date: %v", profile.BirthDate)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	client, _ := newTestClient(t, handler, ClientConfig{})

	_, err := client.GetByID(context.Background(), "missing")
	if !errors.Is(err, athlete.ErrNotFound) {
		t.Fatalf("expected athlete.ErrNotFound, got %v", err)
	}
}

func TestGetByID_RejectsEmptyID(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{})
	_, err := client.GetByID(context.Background(), "  ")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListByAthlete_CoercesMissingStatsToZero(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [
			{"played_at": "2024-05-11", "minutes": 90, "goals": 1},
			{"played_at": "", "minutes": 45},
			{"played_at": "2024-05-18"}
		]}`))
	})
	client, _ := newTestClient(t, handler, ClientConfig{})

	records, err := client.ListByAthlete(context.Background(), "ath-1")
	if err != nil {
		t.Fatalf("ListByAthlete error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records (row without played_at dropped), got %d", len(records))
	}
	if records[0].Goals != 1 || records[0].Assists != 0 {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].Minutes != 0 || records[1].Shots != 0 {
		t.Fatalf("missing cells must coerce to zero: %+v", records[1])
	}
}

func TestListByAthlete_EmptyOnFeedNotFound(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	client, _ := newTestClient(t, handler, ClientConfig{})

	records, err := client.ListByAthlete(context.Background(), "ath-1")
	if err != nil {
		t.Fatalf("ListByAthlete error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestDoJSON_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"data": {"id": "ath-1", "name": "A"}}`))
	})
	client, _ := newTestClient(t, handler, ClientConfig{MaxRetries: 2, Timeout: 5 * time.Second})

	if _, err := client.GetByID(context.Background(), "ath-1"); err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", hits.Load())
	}
}

func TestDoJSON_CircuitBreakerRejectsWhenOpen(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client, _ := newTestClient(t, handler, ClientConfig{
		CircuitBreaker: resilience.BreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.GetByID(context.Background(), "ath-1"); err == nil {
		t.Fatal("expected first request to fail")
	}

	_, err := client.GetByID(context.Background(), "ath-1")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable from open breaker, got %v", err)
	}
}
