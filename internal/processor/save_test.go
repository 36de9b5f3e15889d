package processor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestRunWritesCanonicalCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"elements":[{"type":"node","id":1,"lat":48.8,"lon":2.3,"tags":{"historic":"castle","name":"Test Castle"}}]}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	if err := Run(srv.Client(), srv.URL, dir, false); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "features.geojson"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	// output must itself be the canonical shape the normalizer accepts
	features, err := Normalize(data)
	if err != nil {
		t.Fatalf("reparse output: %v", err)
	}
	if len(features) != 1 || features[0].Props.Name != "Test Castle" {
		t.Fatalf("round trip: %+v", features)
	}

	var doc struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &doc); err != nil || doc.Type != "FeatureCollection" {
		t.Fatalf("output type = %q (%v)", doc.Type, err)
	}
}

func TestRunSkipsExistingFile(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		_, _ = w.Write([]byte(`{"elements":[]}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	existing := filepath.Join(dir, "features.geojson")
	if err := os.WriteFile(existing, []byte(`{"type":"FeatureCollection","features":[]}`), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Run(srv.Client(), srv.URL, dir, false); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if atomic.LoadInt64(&hits) != 0 {
		t.Fatal("existing file should have skipped the fetch")
	}

	if err := Run(srv.Client(), srv.URL, dir, true); err != nil {
		t.Fatalf("forced Run: %v", err)
	}
	if atomic.LoadInt64(&hits) != 1 {
		t.Fatal("force should have re-fetched")
	}
}
