package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"DepthScan/internal/model"
	"DepthScan/internal/recorder"
)

// ScanSummary is what a finished run reports to the chat.
type ScanSummary struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	Analyses int
	Files    int
	Failed   []string
	Top      []model.ScanScore
}

// FormatScanSummary formats a finished run into a Telegram HTML message.
func FormatScanSummary(s *ScanSummary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>DepthScan</b> | %s\n\n", s.Started.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Analyses: %d | Files: %d | %s\n",
		s.Analyses, s.Files, s.Duration.Round(time.Millisecond)))
	b.WriteString(fmt.Sprintf("Run: <code>%s</code>\n", html.EscapeString(s.RunID)))

	if len(s.Top) > 0 {
		b.WriteString("\n🐋 <b>Big scan leaders:</b>\n")
		for i, sc := range s.Top {
			b.WriteString(fmt.Sprintf("%d. <b>%s</b> %d %s | %s | %s\n",
				i+1, html.EscapeString(sc.Symbol), sc.Total, sc.Tier.Label,
				html.EscapeString(sc.Whale), sc.Trend))
		}
	}

	if len(s.Failed) > 0 {
		b.WriteString("\n❌ <b>Failed:</b> ")
		escaped := make([]string, len(s.Failed))
		for i, f := range s.Failed {
			escaped[i] = html.EscapeString(f)
		}
		b.WriteString(strings.Join(escaped, ", "))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatRecentRuns lists stored runs, newest first.
func FormatRecentRuns(runs []recorder.RunSummary) string {
	if len(runs) == 0 {
		return "No runs recorded yet."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent runs</b>\n\n")
	for _, r := range runs {
		status := "✅"
		if r.Failed > 0 {
			status = fmt.Sprintf("⚠️ %d failed", r.Failed)
		}
		b.WriteString(fmt.Sprintf("%s | %d analyses | %s\n",
			r.StartedAt.Format("2006-01-02 15:04"), r.Analyses, status))
	}
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return "Commands:\n• /run - run every analysis now\n• /last - recent runs\n• /help - this message"
}
