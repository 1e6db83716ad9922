package preview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := NewFetcher(WithUserAgent("test-agent"))
	resp, err := f.Fetch(context.Background(), srv.URL+"/data")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if resp.MediaType() != "application/json" {
		t.Errorf("Expected application/json, got %s", resp.MediaType())
	}
	if resp.Text() != `{"ok":true}` {
		t.Errorf("Unexpected body: %s", resp.Text())
	}
	if resp.URL != srv.URL+"/data" {
		t.Errorf("Expected URL %s, got %s", srv.URL+"/data", resp.URL)
	}
	if resp.IsImage() {
		t.Error("Expected non-image response")
	}
	if gotUA != "test-agent" {
		t.Errorf("Expected user agent test-agent, got %s", gotUA)
	}
}

func TestFetch_FollowsRedirectAndCapsBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/pic.png", http.StatusFound)
	})
	mux.HandleFunc("/pic.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte(strings.Repeat("x", 100)))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := NewFetcher(WithMaxBody(10))
	resp, err := f.Fetch(context.Background(), srv.URL+"/old")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if !resp.IsImage() {
		t.Error("Expected image response")
	}
	if !strings.HasSuffix(resp.URL, "/pic.png") {
		t.Errorf("Expected final URL after redirect, got %s", resp.URL)
	}
	if len(resp.Body) != 10 || !resp.Truncated {
		t.Errorf("Expected body capped at 10 bytes, got %d (truncated=%v)", len(resp.Body), resp.Truncated)
	}
}

func TestFetch_NonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := NewFetcher().Fetch(context.Background(), srv.URL); err == nil {
		t.Error("Expected error for 404")
	}
}

func TestFetchLinkType_ResolvesOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	done := make(chan Response, 2)
	NewFetcher().FetchLinkType(srv.URL, func(resp Response, err error) {
		if err != nil {
			t.Errorf("FetchLinkType failed: %v", err)
		}
		done <- resp
	})

	select {
	case resp := <-done:
		if resp.Text() != "hello" {
			t.Errorf("Expected hello, got %s", resp.Text())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("FetchLinkType did not resolve")
	}

	select {
	case <-done:
		t.Error("Expected a single resolution")
	case <-time.After(50 * time.Millisecond):
	}
}
