package main

import (
	"strings"
	"testing"
	"time"

	"clz-go/pkg/color"
	"clz-go/pkg/log"
)

func TestParseTimeSpec(t *testing.T) {
	before := time.Now()
	ts, err := parseTimeSpec("1h")
	if err != nil {
		t.Fatal(err)
	}
	if d := before.Sub(ts); d < 59*time.Minute || d > 61*time.Minute {
		t.Errorf("Expected about one hour ago, got %v", d)
	}
	ts, err = parseTimeSpec("2023-10-27")
	if err != nil || ts.Day() != 27 {
		t.Errorf("Unexpected %v, %v", ts, err)
	}
	if _, err := parseTimeSpec("yesterday"); err == nil {
		t.Error("Expected error for unknown spec")
	}
}

func TestPrettyLine(t *testing.T) {
	entry := log.LogEntry{LogData: `{"level":"info","time":"2024-01-01T00:00:00Z","message":"request","status":200,"uri":"/buffers"}` + "\n"}
	got := prettyLine(color.Painter{}, entry)
	want := "2024-01-01T00:00:00Z INFO  request status=200 uri=/buffers"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if got := prettyLine(color.Painter{}, log.LogEntry{LogData: "not json"}); !strings.Contains(got, "not json") {
		t.Errorf("Expected raw fallback, got %q", got)
	}
}
