package builder

import (
	"strconv"
	"strings"
)

// BulkEntry is one parsed line of bulk-add input: a display label and the
// value the formset row gets.
type BulkEntry struct {
	Label string
	Value string
}

// ParseBulkEntries parses bulk-add text into formset entries. Input is split
// on commas when any are present, else on newlines; blank segments are
// dropped. Each segment may carry an explicit numeric value as "Label|123";
// otherwise the 1-based position is assigned.
func ParseBulkEntries(raw string) []BulkEntry {
	var segments []string
	if strings.Contains(raw, ",") {
		segments = strings.Split(raw, ",")
	} else {
		segments = strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	}

	var entries []BulkEntry
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}

		var parts []string
		for _, p := range strings.Split(seg, "|") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) == 0 {
			continue
		}

		entry := BulkEntry{Label: parts[0]}
		if len(parts) > 1 {
			if _, err := strconv.ParseFloat(parts[1], 64); err == nil {
				entry.Value = parts[1]
			}
		}
		if entry.Value == "" {
			entry.Value = strconv.Itoa(len(entries) + 1)
		}
		entries = append(entries, entry)
	}
	return entries
}
