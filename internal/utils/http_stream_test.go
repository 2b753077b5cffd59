package utils

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// collectSSE drains a scanner into a payload slice, stopping at EOF.
func collectSSE(t *testing.T, input string) []string {
	t.Helper()
	scanner := NewSSEScanner(strings.NewReader(input))

	var payloads []string
	for {
		payload, err := scanner.Next()
		if errors.Is(err, io.EOF) {
			return payloads
		}
		if err != nil {
			t.Fatalf("unexpected scanner error: %v", err)
		}
		payloads = append(payloads, payload)
	}
}

// TestSSEScanner_BasicEvents verifies simple data events separated by blank lines.
func TestSSEScanner_BasicEvents(t *testing.T) {
	payloads := collectSSE(t, "data: one\n\ndata: two\n\n")
	if len(payloads) != 2 || payloads[0] != "one" || payloads[1] != "two" {
		t.Errorf("unexpected payloads: %q", payloads)
	}
}

// TestSSEScanner_DoneSentinel verifies the [DONE] sentinel maps to EOF and
// later data is never observed.
func TestSSEScanner_DoneSentinel(t *testing.T) {
	payloads := collectSSE(t, "data: one\n\ndata: [DONE]\n\ndata: after\n\n")
	if len(payloads) != 1 || payloads[0] != "one" {
		t.Errorf("expected only the pre-DONE payload, got %q", payloads)
	}
}

// TestSSEScanner_MultiLineData verifies consecutive data lines join with newlines.
func TestSSEScanner_MultiLineData(t *testing.T) {
	payloads := collectSSE(t, "data: first\ndata: second\n\n")
	if len(payloads) != 1 || payloads[0] != "first\nsecond" {
		t.Errorf("expected joined payload, got %q", payloads)
	}
}

// TestSSEScanner_SkipsCommentsAndForeignFields verifies ':' comments and
// event:/id: fields are ignored.
func TestSSEScanner_SkipsCommentsAndForeignFields(t *testing.T) {
	input := ": keep-alive\nevent: message\nid: 42\ndata: payload\n\n"
	payloads := collectSSE(t, input)
	if len(payloads) != 1 || payloads[0] != "payload" {
		t.Errorf("unexpected payloads: %q", payloads)
	}
}

// TestSSEScanner_TrailingDataWithoutBlankLine verifies data at EOF without a
// terminating blank line is still returned.
func TestSSEScanner_TrailingDataWithoutBlankLine(t *testing.T) {
	payloads := collectSSE(t, "data: tail")
	if len(payloads) != 1 || payloads[0] != "tail" {
		t.Errorf("unexpected payloads: %q", payloads)
	}
}

// TestSSEScanner_EmptyInput verifies immediate EOF on empty input.
func TestSSEScanner_EmptyInput(t *testing.T) {
	payloads := collectSSE(t, "")
	if len(payloads) != 0 {
		t.Errorf("expected no payloads, got %q", payloads)
	}
}

// TestTruncateString verifies truncation bookkeeping.
func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("short strings must pass through, got %q", got)
	}

	long := strings.Repeat("a", 20)
	got := TruncateString(long, 5)
	if !strings.HasPrefix(got, "aaaaa...") || !strings.Contains(got, "total: 20") {
		t.Errorf("unexpected truncation result %q", got)
	}
}

// TestJSONToString verifies compact and indented output plus failure safety.
func TestJSONToString(t *testing.T) {
	if got := JSONToString(map[string]int{"a": 1}); got != `{"a":1}` {
		t.Errorf("unexpected compact output %q", got)
	}
	if got := JSONToString(map[string]int{"a": 1}, true); !strings.Contains(got, "\n") {
		t.Errorf("expected indented output, got %q", got)
	}
	if got := JSONToString(make(chan int)); !strings.Contains(got, "error") {
		t.Errorf("expected an error payload for unmarshalable input, got %q", got)
	}
}
