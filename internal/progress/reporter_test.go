package progress

import (
	"bytes"
	"testing"
	"time"
)

func TestLineReporter(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := &LineReporter{Out: &buf, now: func() time.Time { return at }}

	r.Start(3)
	r.Done("/home/index.html")
	at = at.Add(1500 * time.Millisecond)
	r.Done("/talk/index.html")
	r.Finish()

	want := "rendering 3 pages\n" +
		"[1/3] /home/index.html\n" +
		"[2/3] /talk/index.html\n" +
		"rendered 2 of 3 pages in 1.5s\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestNewReporterUnderCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter(&bytes.Buffer{}).(*LineReporter); !ok {
		t.Error("expected LineReporter when CI is set")
	}
}

func TestNewReporterInTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	if _, ok := NewReporter(&bytes.Buffer{}).(*BarReporter); !ok {
		t.Error("expected BarReporter outside CI")
	}
}

func TestBarReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &BarReporter{Out: &buf}

	// Done and Finish before Start must not panic.
	r.Done("/early")
	r.Finish()

	r.Start(2)
	r.Done("/home/index.html")
	r.Done("/talk/index.html")
	r.Finish()
	if buf.Len() == 0 {
		t.Error("expected bar output")
	}
}
