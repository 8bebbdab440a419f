package pdftext

import (
	"math"
	"sort"
	"strings"
)

// ReconstructLines turns a page's positioned tokens back into reading-order
// text. Tokens whose y coordinates round to the same integer are treated as
// one visual line; the <1 unit tolerance absorbs font-rendering jitter.
// PDF y grows upward, so lines are emitted in descending y order and tokens
// within a line in ascending x order. An empty token set yields "".
func ReconstructLines(tokens []Token) string {
	if len(tokens) == 0 {
		return ""
	}

	buckets := make(map[int][]Token)
	for _, t := range tokens {
		key := int(math.Round(t.Y))
		buckets[key] = append(buckets[key], t)
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))

	var b strings.Builder
	for i, k := range keys {
		line := buckets[k]
		sort.SliceStable(line, func(a, b int) bool { return line[a].X < line[b].X })
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, t := range line {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strings.TrimSpace(t.Text))
		}
	}
	return b.String()
}
