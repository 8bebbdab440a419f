package parse

import "regexp"

var (
	reDateArtifact   = regexp.MustCompile(`\d{4}\s*年\s*\d{1,2}\s*月`)
	reCurrArtifact   = regexp.MustCompile(`[¥￥]|人民币`)
	reAmountArtifact = regexp.MustCompile(`\d{1,3}(,\d{3})*\.\d{2}|\d+\.\d{2}`)
)

// heuristicConfidence scores how invoice-like a page of text looks, based
// on common fapiao artifacts. Logged for diagnostics only; it never gates
// the parse.
func heuristicConfidence(txt string) float32 {
	score := float32(0.2) // base
	if reDateArtifact.MatchString(txt) {
		score += 0.2
	}
	if reCurrArtifact.MatchString(txt) {
		score += 0.15
	}
	if reAmountArtifact.MatchString(txt) {
		score += 0.15
	}
	if len(txt) > 120 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
