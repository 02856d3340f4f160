package recommend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"AgriPull/internal/domain/models"
	"AgriPull/pkg/config"
)

func newRecommender(url string) *HTTPCropRecommender {
	cfg := &config.Config{}
	cfg.Recommender.URL = url
	cfg.Recommender.Timeout = time.Second
	cfg.Recommender.Attempts = 3
	return NewHTTPCropRecommender(cfg)
}

func TestRecommendKeepsTopThreeFromProbabilities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/crop/recommend" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]float64
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["N"] != 90 || body["ph"] != 6.5 {
			t.Errorf("unexpected payload %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"probabilities": map[string]float64{"rice": 0.61, "maize": 0.2, "jute": 0.15, "cotton": 0.04},
		})
	}))
	defer srv.Close()

	got, err := newRecommender(srv.URL).Recommend(context.Background(), models.CropFeatures{N: 90, P: 42, K: 43, Temperature: 20.8, Humidity: 82, PH: 6.5, Rainfall: 202.9})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if got.Crop != "rice" || len(got.Recommendations) != 3 {
		t.Fatalf("unexpected recommendation %+v", got)
	}
	if got.Recommendations[0].Confidence != 61 || got.Recommendations[2].Label != "jute" {
		t.Fatalf("ranking wrong: %+v", got.Recommendations)
	}
}

func TestRecommendRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"recommended_crop": "banana",
			"recommendations":  []map[string]interface{}{{"crop": "banana", "confidence": 88.5}},
		})
	}))
	defer srv.Close()

	got, err := newRecommender(srv.URL).Recommend(context.Background(), models.CropFeatures{})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if calls.Load() != 3 || got.Crop != "banana" {
		t.Fatalf("calls=%d got=%+v", calls.Load(), got)
	}
}

func TestRecommendNotConfigured(t *testing.T) {
	_, err := newRecommender("").Recommend(context.Background(), models.CropFeatures{})
	if err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestRecommendDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad features", http.StatusBadRequest)
	}))
	defer srv.Close()

	if _, err := newRecommender(srv.URL + "/").Recommend(context.Background(), models.CropFeatures{}); err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("client error retried %d times", calls.Load())
	}
}
