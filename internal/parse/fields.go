package parse

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/invoicekit/fapiao/constants"
)

// Fields collects extracted values keyed by constants.Field*. A key once set
// is never overwritten: later fallback passes only fill gaps.
type Fields struct {
	m map[string]string
}

func NewFields() *Fields {
	return &Fields{m: make(map[string]string)}
}

// Set records a value for key unless one is already present. Empty values
// (after trimming) are ignored so a blank capture can't block a later pass.
func (f *Fields) Set(key, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if _, ok := f.m[key]; ok {
		return
	}
	f.m[key] = value
}

// Get returns the value for key and whether it was set.
func (f *Fields) Get(key string) (string, bool) {
	v, ok := f.m[key]
	return v, ok
}

// replace swaps an already-set value. Only the code/number split uses it;
// everything else goes through Set.
func (f *Fields) replace(key, value string) {
	f.m[key] = value
}

// HasAll reports whether every given key is present.
func (f *Fields) HasAll(keys []string) bool {
	for _, k := range keys {
		if _, ok := f.m[k]; !ok {
			return false
		}
	}
	return true
}

// fieldPattern is one row of the extraction table: a field key, its primary
// pattern, and optional assemble/post hooks. By default the first capturing
// group is the value; assemble overrides that for multi-group patterns and
// post cleans the captured text. New invoice layouts are new rows, not new
// control flow.
type fieldPattern struct {
	key      string
	re       *regexp.Regexp
	assemble func(m []string) string
	post     func(s string) string
}

var (
	reInvoiceNumber = regexp.MustCompile(`发\s*票\s*号\s*码\s*[：:﹕]?\s*(\d{20})`)
	reInvoiceDate   = regexp.MustCompile(`开\s*票\s*日\s*期\s*[：:﹕]?\s*(\d{4})\s*年\s*(\d{1,2})\s*月\s*(\d{1,2})\s*日`)
	reInvoiceType   = regexp.MustCompile(`(增值税(?:电子)?(?:专用|普通)发票)`)
	reBuyerName     = regexp.MustCompile(`购\s*买\s*方[\s\S]{0,100}?名\s*称\s*[：:]\s*([^\n]+)`)
	reSellerName    = regexp.MustCompile(`销\s*售\s*方[\s\S]{0,100}?名\s*称\s*[：:]\s*([^\n]+)`)
	// The capitalized total ends with the whole-unit marker (…圆整) and the
	// figure follows, usually behind a （小写） tag and a currency glyph.
	reTotalAmount = regexp.MustCompile(`[圆元]整[^¥￥0-9\n]{0,20}[¥￥]?\s*([0-9][0-9,]*(?:\.\d{1,2})?)`)

	// Two currency-prefixed amounts on one line; the net amount and the tax
	// amount share a totals-adjacent line on every known layout.
	reAmountPair = regexp.MustCompile(`[¥￥]\s*([0-9][0-9,]*(?:\.\d{1,2})?)\s*[¥￥]\s*([0-9][0-9,]*(?:\.\d{1,2})?)`)
	reTotalLabel = regexp.MustCompile(`价\s*税\s*合\s*计|合\s*计`)

	reAmountJunk = regexp.MustCompile(`[,，¥￥\s]`)
)

// cleanAmount strips thousands separators, currency glyphs, and spaces.
func cleanAmount(s string) string {
	return reAmountJunk.ReplaceAllString(s, "")
}

var fieldPatterns = []fieldPattern{
	{key: constants.FieldInvoiceNumber, re: reInvoiceNumber},
	{
		key: constants.FieldInvoiceDate,
		re:  reInvoiceDate,
		assemble: func(m []string) string {
			return m[1] + "年" + m[2] + "月" + m[3] + "日"
		},
	},
	{key: constants.FieldInvoiceType, re: reInvoiceType},
	{key: constants.FieldBuyerName, re: reBuyerName},
	{key: constants.FieldSellerName, re: reSellerName},
	{key: constants.FieldTotalAmount, re: reTotalAmount, post: cleanAmount},
}

// Extractor turns normalized invoice text into a Fields mapping.
type Extractor struct {
	logger *slog.Logger
	split  SplitFunc
}

// NewExtractor builds an Extractor. A nil split uses DefaultSplit.
func NewExtractor(logger *slog.Logger, split SplitFunc) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if split == nil {
		split = DefaultSplit
	}
	return &Extractor{logger: logger, split: split}
}

// Extract runs the pattern table over normalized text, then the fallback
// passes, and validates the mandatory fields. It never fails on a missing
// optional field; a missing mandatory field makes the whole extraction nil.
func (e *Extractor) Extract(text string) *Fields {
	f := NewFields()

	for _, p := range fieldPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v := m[1]
		if p.assemble != nil {
			v = p.assemble(m)
		}
		if p.post != nil {
			v = p.post(v)
		}
		f.Set(p.key, v)
	}
	e.extractTotalsAdjacent(text, f)
	e.applyFallbacks(text, f)
	e.splitCodeNumber(f)

	if !f.HasAll(constants.MandatoryFields) {
		e.logger.Debug("extraction incomplete, mandatory field missing",
			"has_number", has(f, constants.FieldInvoiceNumber),
			"has_date", has(f, constants.FieldInvoiceDate),
			"has_buyer", has(f, constants.FieldBuyerName),
			"has_seller", has(f, constants.FieldSellerName),
		)
		return nil
	}
	return f
}

func has(f *Fields, key string) bool {
	_, ok := f.Get(key)
	return ok
}

// extractTotalsAdjacent pulls the net amount and tax amount: the first and
// second currency-prefixed numbers on a line next to a totals label (the
// amounts usually sit one line above 价税合计, sometimes on the label line
// itself).
func (e *Extractor) extractTotalsAdjacent(text string, f *Fields) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !reTotalLabel.MatchString(line) {
			continue
		}
		for _, j := range []int{i - 1, i, i + 1} {
			if j < 0 || j >= len(lines) {
				continue
			}
			if m := reAmountPair.FindStringSubmatch(lines[j]); m != nil {
				f.Set(constants.FieldAmountWithoutTax, cleanAmount(m[1]))
				f.Set(constants.FieldTaxAmount, cleanAmount(m[2]))
				return
			}
		}
	}
}
