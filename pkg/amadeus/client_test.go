package amadeus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCredentialExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		cred Credential
		want bool
	}{
		{"empty token", Credential{}, true},
		{"fresh token", Credential{Token: "t", ExpiresAt: now.Add(10 * time.Minute)}, false},
		{"past expiry", Credential{Token: "t", ExpiresAt: now.Add(-time.Minute)}, true},
		{"inside refresh slack", Credential{Token: "t", ExpiresAt: now.Add(30 * time.Second)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cred.Expired(now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func newTestServer(t *testing.T, tokenCalls *int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("token request method = %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse token form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "client_credentials" {
			t.Errorf("grant_type = %q", r.PostForm.Get("grant_type"))
		}
		*tokenCalls++
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"expires_in":   1799,
		})
	})

	mux.HandleFunc(traveledPath, func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("originCityCode") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"destination": "MEL", "analytics": map[string]any{"travelers": map[string]any{"score": 32.5}}},
				{"destination": "BNE", "analytics": map[string]any{"travelers": map[string]any{"score": 12.0}}},
			},
		})
	})

	return httptest.NewServer(mux)
}

func TestMostTraveledDestinations(t *testing.T) {
	tokenCalls := 0
	srv := newTestServer(t, &tokenCalls)
	defer srv.Close()

	client := NewClient(srv.URL, "id", "secret")

	destinations, err := client.MostTraveledDestinations(context.Background(), "SYD")
	if err != nil {
		t.Fatalf("MostTraveledDestinations: %v", err)
	}
	if len(destinations) != 2 {
		t.Fatalf("got %d destinations, want 2", len(destinations))
	}
	if destinations[0].IATACode != "MEL" || destinations[0].Score != 32.5 {
		t.Errorf("first destination = %+v", destinations[0])
	}

	// second call reuses the cached token
	if _, err := client.MostTraveledDestinations(context.Background(), "MEL"); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if tokenCalls != 1 {
		t.Errorf("token requested %d times, want 1", tokenCalls)
	}
}

func TestTokenFailureSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "bad", "creds")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if _, err := client.MostTraveledDestinations(ctx, "SYD"); err == nil {
		t.Fatal("expected error when token endpoint rejects credentials")
	}
}

func TestRetry(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		attempts := 0
		err := Retry(context.Background(), 3, time.Millisecond, func() error {
			attempts++
			if attempts < 3 {
				return context.DeadlineExceeded
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Retry: %v", err)
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		attempts := 0
		err := Retry(context.Background(), 3, time.Millisecond, func() error {
			attempts++
			return context.DeadlineExceeded
		})
		if err == nil {
			t.Fatal("expected error after exhausting attempts")
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		attempts := 0
		err := Retry(ctx, 5, 10*time.Second, func() error {
			attempts++
			return context.DeadlineExceeded
		})
		if err != context.Canceled {
			t.Errorf("err = %v, want context.Canceled", err)
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})
}
