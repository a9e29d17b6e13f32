package aoe4world

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookupLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/units/all.json":
			fmt.Fprint(w, `{"data": [{"pbgid": 100, "name": "Villager", "baseId": "villager"}]}`)
		case "/buildings/all.json":
			fmt.Fprint(w, `{"data": [{"pbgid": 200, "name": "Barracks", "baseId": "barracks"}, {"pbgid": 0, "name": "Broken"}]}`)
		case "/technologies/all.json":
			fmt.Fprint(w, `{"data": [{"pbgid": 300, "name": "Wheelbarrow", "baseId": "wheelbarrow"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewLookup()
	if err := l.Load(srv.URL); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	// The pbgid-zero entry is dropped.
	if l.Count() != 3 {
		t.Errorf("Expected 3 entities, got %d", l.Count())
	}
	if got := l.Name(100, ""); got != "Villager" {
		t.Errorf("Expected Villager, got %q", got)
	}
	if got := l.Name(300, ""); got != "Wheelbarrow" {
		t.Errorf("Expected Wheelbarrow, got %q", got)
	}
}

func TestLookupLoadPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/units/all.json" {
			fmt.Fprint(w, `{"data": [{"pbgid": 100, "name": "Villager"}]}`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	l := NewLookup()
	if err := l.Load(srv.URL); err == nil {
		t.Error("Expected error when an endpoint fails")
	}
}

func TestLookupNameFallbacks(t *testing.T) {
	l := NewLookup()
	if got := l.Name(42, "spearman"); got != "spearman" {
		t.Errorf("Expected fallback, got %q", got)
	}
	if got := l.Name(42, ""); got != "Unknown (42)" {
		t.Errorf("Expected Unknown (42), got %q", got)
	}
}
