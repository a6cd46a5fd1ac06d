// Package report builds the daily incident report and delivers it by
// email and S3 archival.
package report

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/scogranger/ec2-incident-responder/internal/incident"
)

const messageColumnLimit = 80

// Markdown renders the daily report for a date from its incident records.
// Records are expected sorted ascending by created_at; the detail table
// preserves that order.
func Markdown(date string, incidents []incident.Record) string {
	var md strings.Builder

	fmt.Fprintf(&md, "# Daily Cloud Incident Report - %s\n\n", date)

	if len(incidents) == 0 {
		md.WriteString("No incidents recorded for this date.")
		return md.String()
	}

	writeSummary(&md, incidents)
	writeCounter(&md, "By event type", incidents, func(r incident.Record) string { return r.EventType })
	writeCounter(&md, "By remediation type", incidents, func(r incident.Record) string { return r.RemediationType })

	md.WriteString("---\n\n")
	writeDetails(&md, incidents)

	return md.String()
}

func writeSummary(md *strings.Builder, incidents []incident.Record) {
	// No dedicated status field exists on records, so success/failure is a
	// heuristic over the action and message text.
	failed := 0
	instances := make(map[string]struct{})

	for _, r := range incidents {
		if strings.Contains(strings.ToUpper(r.Action+r.Message), "FAILED") {
			failed++
		}
		if r.InstanceID != "" {
			instances[r.InstanceID] = struct{}{}
		}
	}

	md.WriteString("**Summary**\n")
	fmt.Fprintf(md, "- Total incidents: %d\n", len(incidents))
	fmt.Fprintf(md, "- Success (heuristic): %d\n", len(incidents)-failed)
	fmt.Fprintf(md, "- Failed (heuristic): %d\n", failed)
	fmt.Fprintf(md, "- Unique instances: %d\n\n", len(instances))
}

func writeCounter(md *strings.Builder, title string, incidents []incident.Record, key func(incident.Record) string) {
	counts := make(map[string]int)
	for _, r := range incidents {
		k := key(r)
		if k == "" {
			k = "UNKNOWN"
		}
		counts[k]++
	}

	keys := slices.Collect(maps.Keys(counts))
	slices.SortFunc(keys, func(a, b string) int {
		if counts[a] != counts[b] {
			return counts[b] - counts[a]
		}
		return strings.Compare(a, b)
	})

	fmt.Fprintf(md, "**%s**\n", title)
	for _, k := range keys {
		fmt.Fprintf(md, "- %s: %d\n", k, counts[k])
	}
	md.WriteString("\n")
}

func writeDetails(md *strings.Builder, incidents []incident.Record) {
	md.WriteString("## Incident Details\n\n")
	md.WriteString("| Time (created_at) | Event Type | Instance ID | Remediation Type | Action | Message |\n")
	md.WriteString("|-------------------|------------|-------------|------------------|--------|---------|\n")

	for _, r := range incidents {
		fmt.Fprintf(md, "| %s | %s | %s | %s | %s | %s |\n",
			orDash(r.CreatedAt),
			orDash(r.EventType),
			orDash(r.InstanceID),
			orDash(r.RemediationType),
			orDash(r.Action),
			tableMessage(r.Message),
		)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// tableMessage flattens and truncates a message so it fits a table cell.
func tableMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\n", " ")

	runes := []rune(msg)
	if len(runes) > messageColumnLimit {
		return string(runes[:messageColumnLimit-3]) + "..."
	}
	return msg
}
