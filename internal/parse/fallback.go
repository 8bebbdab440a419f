package parse

import (
	"regexp"

	"github.com/invoicekit/fapiao/constants"
)

var (
	// Alternate phrasings of the whole-unit marker: rounded to the yuan,
	// jiao, or fen, with the amount somewhere in the following 40 chars.
	reTotalFallback = regexp.MustCompile(`[圆元角分]整[\s\S]{0,40}?[¥￥]\s*([0-9][0-9,]*(?:\.\d{1,2})?)`)

	// Buyer and seller blocks printed as parallel columns: two name labels
	// on the same physical line, buyer first.
	reNamePair = regexp.MustCompile(`(?m)^[^\n]*名\s*称\s*[：:]\s*(\S+)[^\n]*名\s*称\s*[：:]\s*(\S+)`)

	// Layouts where the 20-digit number wraps onto a different line than
	// its label, in either direction, within a 40-char window.
	reNumberAfterLabel  = regexp.MustCompile(`发\s*票\s*号\s*码[\s\S]{0,40}?(\d{20})`)
	reNumberBeforeLabel = regexp.MustCompile(`(\d{20})[\s\S]{0,40}?发\s*票\s*号\s*码`)

	reDigits20 = regexp.MustCompile(`^\d{20}$`)
)

// applyFallbacks runs the secondary searches, in order, for every primary
// field still absent. Set-once semantics make re-running any pass harmless.
func (e *Extractor) applyFallbacks(text string, f *Fields) {
	if _, ok := f.Get(constants.FieldTotalAmount); !ok {
		if m := reTotalFallback.FindStringSubmatch(text); m != nil {
			f.Set(constants.FieldTotalAmount, cleanAmount(m[1]))
		}
	}

	_, hasBuyer := f.Get(constants.FieldBuyerName)
	_, hasSeller := f.Get(constants.FieldSellerName)
	if !hasBuyer || !hasSeller {
		if m := reNamePair.FindStringSubmatch(text); m != nil {
			f.Set(constants.FieldBuyerName, m[1])
			f.Set(constants.FieldSellerName, m[2])
		}
	}

	if _, ok := f.Get(constants.FieldInvoiceNumber); !ok {
		if m := reNumberAfterLabel.FindStringSubmatch(text); m != nil {
			f.Set(constants.FieldInvoiceNumber, m[1])
		} else if m := reNumberBeforeLabel.FindStringSubmatch(text); m != nil {
			f.Set(constants.FieldInvoiceNumber, m[1])
		}
	}
}

// SplitFunc decides how a 20-digit composite invoice number splits into
// invoice code and invoice number. The stock heuristic is a guess at the
// two numbering-code lengths in circulation, so callers may override it.
type SplitFunc func(digits string) (code, number string)

// DefaultSplit splits 12+8 when the 11th and 12th digits are both zero
// (an 8-digit number zero-padded behind a 12-digit code reads that way),
// and 10+10 otherwise.
func DefaultSplit(digits string) (code, number string) {
	if digits[10:12] == "00" {
		return digits[:12], digits[12:]
	}
	return digits[:10], digits[10:]
}

// EvenSplit always splits 10+10, for callers that know their invoices
// never carry the zero-padded 12-digit code.
func EvenSplit(digits string) (code, number string) {
	return digits[:10], digits[10:]
}

// splitCodeNumber rewrites a resolved 20-digit invoice number into its
// code and number halves. Shorter or longer values pass through untouched;
// anything that is neither 8 nor 20 digits is flagged for manual review.
func (e *Extractor) splitCodeNumber(f *Fields) {
	number, ok := f.Get(constants.FieldInvoiceNumber)
	if !ok {
		return
	}
	if !reDigits20.MatchString(number) {
		if len(number) != 8 {
			e.logger.Warn("invoice number has unexpected length, review manually",
				"length", len(number))
		}
		return
	}
	code, num := e.split(number)
	f.Set(constants.FieldInvoiceCode, code)
	f.replace(constants.FieldInvoiceNumber, num)
}
