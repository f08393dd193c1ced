package publisher

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/feedwerk/ics-split/app/feed"
)

// CalendarsDir is the subdirectory of the output directory the .ics
// files are published to.
const CalendarsDir = "calendars"

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="de">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Gefilterte Sitzungs-Kalender</title>
<style>body{font-family:system-ui,Segoe UI,Roboto,Helvetica,Arial,sans-serif;margin:2rem;max-width:900px}li{margin:.4rem 0}</style>
</head>
<body>
<h1>Gefilterte Kalender nach Gremien</h1>
<p>Quelle: öffentlicher Gesamt-Sitzungskalender. Abgesagte Termine sind entfernt.</p>
<ul>
{{- range .Feeds}}
<li><strong>{{.Committee}}</strong><br><a href="calendars/{{.Filename}}">ICS abonnieren</a> <small>(Rechtsklick &raquo; Link kopieren)</small></li>
{{- end}}
</ul>
<hr>
<p><em>Stand:</em> {{.GeneratedAt}}</p>
</body>
</html>
`))

type indexData struct {
	Feeds       []feed.CommitteeFeed
	GeneratedAt string
}

// Publisher writes generated feeds and the index page into the output
// directory. Every run is a full publish: all feeds are rewritten and
// feed files no current configuration accounts for are removed.
type Publisher struct {
	outputDir string
}

func NewPublisher(outputDir string) *Publisher {
	return &Publisher{outputDir: outputDir}
}

// Run publishes the given feeds. Each file is written in one piece, so
// a failing run leaves complete files from the previous run in place.
func (p *Publisher) Run(feeds []feed.CommitteeFeed) error {
	dir := filepath.Join(p.outputDir, CalendarsDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	expected := make(map[string]bool, len(feeds))
	for _, f := range feeds {
		if err := os.WriteFile(filepath.Join(dir, f.Filename), f.Content, 0644); err != nil {
			return fmt.Errorf("failed to write feed file %s: %w", f.Filename, err)
		}
		expected[f.Filename] = true
	}

	if err := p.writeIndex(feeds); err != nil {
		return err
	}

	p.cleanupOrphans(dir, expected)

	return nil
}

func (p *Publisher) writeIndex(feeds []feed.CommitteeFeed) error {
	data := indexData{
		Feeds:       feeds,
		GeneratedAt: time.Now().In(time.Local).Format(time.RFC3339),
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render index page: %w", err)
	}

	if err := os.WriteFile(filepath.Join(p.outputDir, "index.html"), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write index page: %w", err)
	}

	return nil
}

// cleanupOrphans removes feed files left over from dropped committees.
// It only ever touches .ics files directly inside the calendars
// directory. Removal failures are logged, not fatal.
func (p *Publisher) cleanupOrphans(dir string, expected map[string]bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Warn("Failed to scan calendars directory", "dir", dir, "error", err)
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".ics") {
			continue
		}
		if expected[name] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			slog.Warn("Failed to remove orphaned feed file", "file", name, "error", err)
			continue
		}
		slog.Info("Removed orphaned feed file", "file", name)
	}
}
