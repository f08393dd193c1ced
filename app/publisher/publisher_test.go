package publisher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/feedwerk/ics-split/app/feed"
)

func testFeeds() []feed.CommitteeFeed {
	return []feed.CommitteeFeed{
		{
			Committee: "Rat der Stadt",
			Slug:      "rat-der-stadt",
			Filename:  "rat-der-stadt.ics",
			Content:   []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"),
			Matched:   2,
		},
		{
			Committee: "Alle Sitzungen",
			Slug:      "alle",
			Filename:  "alle.ics",
			Content:   []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"),
			Matched:   3,
		},
	}
}

func TestPublisher_Run_WritesFeedsAndIndex(t *testing.T) {
	outputDir := t.TempDir()
	publisher := NewPublisher(outputDir)

	err := publisher.Run(testFeeds())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(outputDir, CalendarsDir, "rat-der-stadt.ics"))
	if err != nil {
		t.Fatalf("Feed file not written: %v", err)
	}
	if string(content) != "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n" {
		t.Errorf("Feed file content differs: %q", string(content))
	}

	if _, err := os.Stat(filepath.Join(outputDir, CalendarsDir, "alle.ics")); err != nil {
		t.Errorf("Master feed file not written: %v", err)
	}

	index, err := os.ReadFile(filepath.Join(outputDir, "index.html"))
	if err != nil {
		t.Fatalf("Index page not written: %v", err)
	}

	page := string(index)
	if !strings.Contains(page, "Rat der Stadt") {
		t.Errorf("Index page missing committee name:\n%s", page)
	}
	if !strings.Contains(page, `href="calendars/rat-der-stadt.ics"`) {
		t.Errorf("Index page missing feed link:\n%s", page)
	}
	if !strings.Contains(page, "<em>Stand:</em>") {
		t.Errorf("Index page missing generation timestamp:\n%s", page)
	}
}

func TestPublisher_Run_CreatesOutputDirectory(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "docs")
	publisher := NewPublisher(outputDir)

	err := publisher.Run(testFeeds())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outputDir, CalendarsDir)); err != nil {
		t.Errorf("Calendars directory not created: %v", err)
	}
}

func TestPublisher_Run_OverwritesExistingFiles(t *testing.T) {
	outputDir := t.TempDir()
	publisher := NewPublisher(outputDir)

	feeds := testFeeds()
	if err := publisher.Run(feeds); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	feeds[0].Content = []byte("BEGIN:VCALENDAR\r\nX-UPDATED:1\r\nEND:VCALENDAR\r\n")
	if err := publisher.Run(feeds); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(outputDir, CalendarsDir, "rat-der-stadt.ics"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "X-UPDATED:1") {
		t.Errorf("Feed file not overwritten: %q", string(content))
	}
}

func TestPublisher_Run_RemovesOrphanedFeeds(t *testing.T) {
	outputDir := t.TempDir()
	publisher := NewPublisher(outputDir)

	calendarsDir := filepath.Join(outputDir, CalendarsDir)
	if err := os.MkdirAll(calendarsDir, 0755); err != nil {
		t.Fatal(err)
	}

	// A feed from a dropped committee and an unrelated file
	if err := os.WriteFile(filepath.Join(calendarsDir, "dropped-committee.ics"), []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(calendarsDir, "notes.txt"), []byte("keep me"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := publisher.Run(testFeeds()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if _, err := os.Stat(filepath.Join(calendarsDir, "dropped-committee.ics")); !os.IsNotExist(err) {
		t.Error("Orphaned feed file should have been removed")
	}

	// Cleanup only ever touches .ics files
	if _, err := os.Stat(filepath.Join(calendarsDir, "notes.txt")); err != nil {
		t.Error("Non-calendar file should not be touched")
	}

	// Published feeds survive the cleanup
	if _, err := os.Stat(filepath.Join(calendarsDir, "rat-der-stadt.ics")); err != nil {
		t.Error("Published feed should not be removed")
	}
}

func TestPublisher_Run_IgnoresSubdirectories(t *testing.T) {
	outputDir := t.TempDir()
	publisher := NewPublisher(outputDir)

	calendarsDir := filepath.Join(outputDir, CalendarsDir)
	if err := os.MkdirAll(filepath.Join(calendarsDir, "archive.ics"), 0755); err != nil {
		t.Fatal(err)
	}

	if err := publisher.Run(testFeeds()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// A directory, even one named like a feed, is left alone
	if _, err := os.Stat(filepath.Join(calendarsDir, "archive.ics")); err != nil {
		t.Error("Subdirectory should not be removed")
	}
}

func TestPublisher_Run_EmptyFeedList(t *testing.T) {
	outputDir := t.TempDir()
	publisher := NewPublisher(outputDir)

	err := publisher.Run(nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// The index page is still written
	if _, err := os.Stat(filepath.Join(outputDir, "index.html")); err != nil {
		t.Errorf("Index page not written: %v", err)
	}
}
