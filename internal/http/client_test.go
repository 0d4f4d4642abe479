package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestClient_GetSendsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient(WithUserAgent("mashup-test"), WithTimeout(5*time.Second))
	body, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}
	if got != "mashup-test" {
		t.Errorf("User-Agent = %q, want mashup-test", got)
	}
}

func TestClient_GetNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewClient().DownloadBytes(context.Background(), srv.URL); err == nil {
		t.Error("expected error for 404")
	}
}

func TestStreamToFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.bin")
	payload := bytes.Repeat([]byte("a"), 10000)

	var last int64
	err := StreamToFile(context.Background(), bytes.NewReader(payload), int64(len(payload)), dest, func(written, total int64) {
		last = written
	})
	if err != nil {
		t.Fatalf("StreamToFile: %v", err)
	}
	if last != int64(len(payload)) {
		t.Errorf("last progress = %d, want %d", last, len(payload))
	}
	data, _ := os.ReadFile(dest)
	if len(data) != len(payload) {
		t.Errorf("file size = %d, want %d", len(data), len(payload))
	}
}

func TestStreamToFile_CancelledRemovesPartial(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.bin")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := StreamToFile(ctx, strings.NewReader("data"), 4, dest, nil)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("partial file should be removed")
	}
}
