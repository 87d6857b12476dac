package logic

import (
	"strings"

	"github.com/pollwright/surveywizard/internal/types"
)

// NormalizeRawValue converts raw value-control input into a condition value.
// Any input containing a comma is list input: split on commas, each segment
// trimmed, empty segments dropped. Anything else is a trimmed scalar.
//
// "1, 2 ,3" -> ["1","2","3"]; "1" -> "1"; "," -> empty list.
func NormalizeRawValue(raw string) types.Value {
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		items := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				items = append(items, trimmed)
			}
		}
		return types.List(items...)
	}
	return types.Scalar(strings.TrimSpace(raw))
}
