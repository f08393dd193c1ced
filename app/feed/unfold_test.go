package feed

import (
	"strings"
	"testing"
)

func TestUnfold_NoContinuations(t *testing.T) {
	data := []byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n")

	lines := Unfold(data)

	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got: %d", len(lines))
	}
	if lines[0] != "BEGIN:VCALENDAR" {
		t.Errorf("Expected 'BEGIN:VCALENDAR', got: %s", lines[0])
	}
	if lines[1] != "VERSION:2.0" {
		t.Errorf("Expected 'VERSION:2.0', got: %s", lines[1])
	}
	if lines[2] != "END:VCALENDAR" {
		t.Errorf("Expected 'END:VCALENDAR', got: %s", lines[2])
	}
}

func TestUnfold_SpaceContinuation(t *testing.T) {
	data := []byte("SUMMARY:Sitzung des Rates\r\n  Teil 2\r\n")

	lines := Unfold(data)

	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got: %d", len(lines))
	}

	// Exactly one leading character is stripped, the second space survives
	if lines[0] != "SUMMARY:Sitzung des Rates Teil 2" {
		t.Errorf("Expected 'SUMMARY:Sitzung des Rates Teil 2', got: %s", lines[0])
	}
}

func TestUnfold_TabContinuation(t *testing.T) {
	data := []byte("DESCRIPTION:first\r\n\tsecond\r\n")

	lines := Unfold(data)

	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got: %d", len(lines))
	}
	if lines[0] != "DESCRIPTION:firstsecond" {
		t.Errorf("Expected 'DESCRIPTION:firstsecond', got: %s", lines[0])
	}
}

func TestUnfold_MultipleContinuations(t *testing.T) {
	data := []byte("SUMMARY:abc\r\n def\r\n ghi\r\nLOCATION:Rathaus\r\n")

	lines := Unfold(data)

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got: %d", len(lines))
	}
	if lines[0] != "SUMMARY:abcdefghi" {
		t.Errorf("Expected 'SUMMARY:abcdefghi', got: %s", lines[0])
	}
	if lines[1] != "LOCATION:Rathaus" {
		t.Errorf("Expected 'LOCATION:Rathaus', got: %s", lines[1])
	}
}

func TestUnfold_ContinuationAtDocumentStart(t *testing.T) {
	data := []byte(" orphaned\r\nSUMMARY:real\r\n")

	lines := Unfold(data)

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got: %d", len(lines))
	}

	// With nothing to continue, the line stands alone with the prefix stripped
	if lines[0] != "orphaned" {
		t.Errorf("Expected 'orphaned', got: %s", lines[0])
	}
	if lines[1] != "SUMMARY:real" {
		t.Errorf("Expected 'SUMMARY:real', got: %s", lines[1])
	}
}

func TestUnfold_BareLineFeeds(t *testing.T) {
	data := []byte("BEGIN:VCALENDAR\nSUMMARY:abc\n def\nEND:VCALENDAR\n")

	lines := Unfold(data)

	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got: %d", len(lines))
	}
	if lines[1] != "SUMMARY:abcdef" {
		t.Errorf("Expected 'SUMMARY:abcdef', got: %s", lines[1])
	}
}

func TestUnfold_MissingFinalNewline(t *testing.T) {
	data := []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR")

	lines := Unfold(data)

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got: %d", len(lines))
	}
	if lines[1] != "END:VCALENDAR" {
		t.Errorf("Expected 'END:VCALENDAR', got: %s", lines[1])
	}
}

func TestUnfold_EmptyInput(t *testing.T) {
	lines := Unfold(nil)
	if len(lines) != 0 {
		t.Errorf("Expected no lines for empty input, got: %d", len(lines))
	}

	lines = Unfold([]byte(""))
	if len(lines) != 0 {
		t.Errorf("Expected no lines for empty string, got: %d", len(lines))
	}
}

func TestUnfold_BlankLinesPreserved(t *testing.T) {
	data := []byte("SUMMARY:abc\r\n\r\nLOCATION:Rathaus\r\n")

	lines := Unfold(data)

	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got: %d", len(lines))
	}
	if lines[1] != "" {
		t.Errorf("Expected blank line preserved, got: %s", lines[1])
	}
}

func TestUnfold_LongFoldedProperty(t *testing.T) {
	// A 75-octet folded SUMMARY as produced by conforming writers
	part1 := "SUMMARY:" + strings.Repeat("a", 67)
	part2 := strings.Repeat("b", 50)
	data := []byte(part1 + "\r\n " + part2 + "\r\n")

	lines := Unfold(data)

	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got: %d", len(lines))
	}

	expected := part1 + part2
	if lines[0] != expected {
		t.Errorf("Expected rejoined property of length %d, got length %d", len(expected), len(lines[0]))
	}
}
