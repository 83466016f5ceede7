package session

import (
	"strings"

	"github.com/calyptra/perch/internal/aviary"
)

// UnreadCount counts the notifications with Read=false. It is a pure
// function of the sequence it is given and is recomputed from the current
// sequence on every transition that replaces it; no count is ever carried
// over from a previous sequence.
func UnreadCount(notifications []aviary.Notification) int {
	count := 0
	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// FilterDirectory applies a case-insensitive substring filter on profile
// names, preserving directory order and projecting matches to {ID, Name}.
// An empty query yields the full directory. The query is matched as typed;
// whitespace is significant, so " a " only matches names containing " a ".
func FilterDirectory(directory []aviary.Profile, query string) []SearchResult {
	needle := strings.ToLower(query)
	results := make([]SearchResult, 0, len(directory))
	for _, p := range directory {
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		results = append(results, SearchResult{ID: p.ID, Name: p.Name})
	}
	return results
}
