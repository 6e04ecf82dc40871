package debug

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in  string
		out zerolog.Level
		ok  bool
	}{
		{"trace", zerolog.TraceLevel, true},
		{"debug", zerolog.DebugLevel, true},
		{"info", zerolog.InfoLevel, true},
		{"", zerolog.InfoLevel, true},
		{"warn", zerolog.WarnLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"error", zerolog.ErrorLevel, true},
		{"verbose", zerolog.InfoLevel, false},
	}

	for _, test := range tests {
		l, err := ParseLevel(test.in)
		if (err == nil) != test.ok {
			t.Errorf("ParseLevel(%q): %v", test.in, err)
		}
		if l != test.out {
			t.Errorf("ParseLevel(%q) = %v, expected %v", test.in, l, test.out)
		}
	}
}

func TestSetLevelTrace(t *testing.T) {
	prevTrace, prevLevel := trace, zerolog.GlobalLevel()
	t.Cleanup(func() {
		trace = prevTrace
		zerolog.SetGlobalLevel(prevLevel)
	})

	trace = false
	SetLevel("trace")
	if zerolog.GlobalLevel() != zerolog.TraceLevel || !Tracing() {
		t.Fatalf("level %v, tracing %v", zerolog.GlobalLevel(), Tracing())
	}

	SetLevel("warn")
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Fatalf("level %v while tracing", zerolog.GlobalLevel())
	}
}

func TestPrintf(t *testing.T) {
	prevLog, prevTrace, prevLevel := log, trace, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log, trace = prevLog, prevTrace
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	SetOutput(&buf)

	SetTracing(false)
	SetLevel("info")
	Printf(" -> wl_display@1.sync(%v)", 3)
	if buf.Len() != 0 {
		t.Fatalf("logged without tracing: %q", buf.String())
	}

	SetTracing(true)
	SetLevel("error")
	Printf(" -> wl_display@1.sync(%v)", 3)
	if !strings.Contains(buf.String(), "wl_display@1.sync(3)") {
		t.Fatalf("trace line missing: %q", buf.String())
	}
}
