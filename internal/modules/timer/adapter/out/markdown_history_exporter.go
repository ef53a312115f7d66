package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gear/internal/modules/timer/domain"
	timerout "gear/internal/modules/timer/port/out"
	"gear/internal/platform/markdown"
)

const (
	indexName      = "history.md"
	indexStartMark = "<!-- gear:history:start -->"
	indexEndMark   = "<!-- gear:history:end -->"
	noteTimeLayout = "2006-01-02T15:04:05Z07:00"
	noteNameLayout = "20060102-150405"
)

// MarkdownHistoryExporter writes one note per session plus an index whose
// generated table lives between markers, so hand-written text around it
// survives re-exports. Existing notes are left untouched.
type MarkdownHistoryExporter struct{}

func NewMarkdownHistoryExporter() timerout.HistoryExporter {
	return MarkdownHistoryExporter{}
}

func (MarkdownHistoryExporter) Export(ctx context.Context, dir string, entries []domain.HistoryEntry) (int, string, error) {
	sessionsDir := filepath.Join(dir, "sessions")
	if err := os.MkdirAll(sessionsDir, 0o755); err != nil {
		return 0, "", fmt.Errorf("create export dir: %w", err)
	}
	written := 0
	rows := make([]string, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return written, "", err
		}
		name := noteName(entry)
		rows = append(rows, fmt.Sprintf("| [[sessions/%s]] | %s | %s | %s |",
			strings.TrimSuffix(name, ".md"),
			startText(entry),
			entry.EndTime.Format(noteTimeLayout),
			domain.FormatDuration(entry.Duration().Seconds()),
		))
		path := filepath.Join(sessionsDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		note, err := renderNote(entry)
		if err != nil {
			return written, "", err
		}
		if err := os.WriteFile(path, []byte(note), 0o644); err != nil {
			return written, "", fmt.Errorf("write session note: %w", err)
		}
		written++
	}

	indexPath := filepath.Join(dir, indexName)
	existing, err := os.ReadFile(indexPath)
	if err != nil && !os.IsNotExist(err) {
		return written, "", fmt.Errorf("read history index: %w", err)
	}
	body := string(existing)
	if strings.TrimSpace(body) == "" {
		body = "# Timer history\n\n"
	}
	table := "| Session | Start | End | Duration |\n|---|---|---|---|"
	if len(rows) > 0 {
		table += "\n" + strings.Join(rows, "\n")
	}
	body = markdown.ReplaceBlock(body, indexStartMark, indexEndMark, table)
	if err := os.WriteFile(indexPath, []byte(body), 0o644); err != nil {
		return written, "", fmt.Errorf("write history index: %w", err)
	}
	return written, indexPath, nil
}

func noteName(entry domain.HistoryEntry) string {
	short := entry.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s-%s.md", entry.EndTime.UTC().Format(noteNameLayout), short)
}

func startText(entry domain.HistoryEntry) string {
	if entry.StartTime == nil {
		return ""
	}
	return entry.StartTime.Format(noteTimeLayout)
}

func renderNote(entry domain.HistoryEntry) (string, error) {
	duration := entry.Duration()
	fields := []markdown.Field{
		{Key: "schema_version", Value: domain.SchemaVersion},
		{Key: "id", Value: entry.ID},
		{Key: "started_at", Value: startText(entry)},
		{Key: "ended_at", Value: entry.EndTime.Format(noteTimeLayout)},
		{Key: "duration_seconds", Value: int64(duration.Seconds())},
	}
	body := fmt.Sprintf("# Session %s\n\n- Start: %s\n- End: %s\n- Duration: %s\n",
		entry.ID,
		startText(entry),
		entry.EndTime.Format(noteTimeLayout),
		domain.FormatDuration(duration.Seconds()),
	)
	return markdown.RenderNote(fields, body)
}
