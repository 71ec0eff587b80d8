package pages

import (
	"sort"
	"strconv"
	"strings"
)

// Parse resolves a user-entered page selection like "1, 3, 5-8" into a
// sorted, deduplicated list of page numbers within [1, maxPages].
//
// An empty or whitespace-only selection means every page. Malformed or
// out-of-bounds tokens contribute nothing; a mix of valid and invalid
// tokens succeeds using only the valid ones. A non-blank selection that
// yields no pages returns an empty (non-nil-distinct) result, which the
// caller must treat as invalid input rather than "all pages".
func Parse(selection string, maxPages int) []int {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		all := make([]int, maxPages)
		for i := range all {
			all[i] = i + 1
		}
		return all
	}

	seen := make(map[int]bool)
	for _, part := range strings.Split(selection, ",") {
		part = strings.TrimSpace(part)
		if strings.Contains(part, "-") {
			start, end, ok := parseRange(part)
			if !ok || start <= 0 || end > maxPages || start > end {
				continue
			}
			for p := start; p <= end; p++ {
				seen[p] = true
			}
			continue
		}
		p, err := strconv.Atoi(part)
		if err != nil || p <= 0 || p > maxPages {
			continue
		}
		seen[p] = true
	}

	out := make([]int, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

func parseRange(part string) (start, end int, ok bool) {
	bounds := strings.SplitN(part, "-", 2)
	if len(bounds) != 2 {
		return 0, 0, false
	}
	start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
	if err != nil {
		return 0, 0, false
	}
	end, err = strconv.Atoi(strings.TrimSpace(bounds[1]))
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}
