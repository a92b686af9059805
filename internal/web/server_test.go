package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/line-sensor/internal/status"
	"github.com/sweeney/line-sensor/internal/track"
)

func testTracker() *status.Tracker {
	tr := status.NewTracker(time.Now(), status.Config{
		PollMs:       20,
		DecayWaitUs:  1000,
		ConfirmCount: 3,
		HeartbeatMs:  900000,
		Broker:       "tcp://broker:1883",
		HTTPAddr:     ":8080",
	})
	tr.Update(track.StateAcquired, 0b00111000, 9550, true, false, true,
		track.EventCounts{Acquired: 1, Samples: 321})
	return tr
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := New(":0", testTracker())
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestIndexHTML(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected HTML content type, got %q", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	page := string(body)
	if !strings.Contains(page, "ACQUIRED") {
		t.Error("expected line state on page")
	}
	if !strings.Contains(page, "955.0 mm") {
		t.Error("expected offset in millimeters on page")
	}
}

func TestIndexJSON(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}

	var parsed status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if parsed.Status.Line != "ACQUIRED" {
		t.Errorf("line: got %q", parsed.Status.Line)
	}
	if parsed.Status.Reading != "00111000" {
		t.Errorf("reading: got %q", parsed.Status.Reading)
	}
	if parsed.Status.OffsetTenthsMM == nil || *parsed.Status.OffsetTenthsMM != 9550 {
		t.Errorf("offset: got %v", parsed.Status.OffsetTenthsMM)
	}
}

func TestUnknownPath(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("GET /nope: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}
