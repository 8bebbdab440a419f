package parse

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/invoicekit/fapiao/internal/entity"
)

var (
	reItemsStart = regexp.MustCompile(`项\s*目\s*名\s*称|货物或应税劳务、?服务名称`)
	reItemsEnd   = regexp.MustCompile(`合\s*计`)

	// Core of one item row: unit, 2-3 whitespace-separated numbers
	// (quantity [unit price] amount), tax rate, tax amount.
	reItemCore = regexp.MustCompile(`([\p{Han}]{1,3})\s+(\d+(?:\.\d+)?(?:\s+\d+(?:\.\d+)?){1,2})\s+(\d{1,2}(?:\.\d+)?%)\s+(\d+(?:\.\d+)?)`)

	// Optional unit price trailing the item name, which overrides the one
	// derived from the number run.
	reTrailingPrice = regexp.MustCompile(`\s+(\d+(?:\.\d+)?)$`)
)

// ExtractLineItems parses the goods/services block of the invoice. It takes
// the raw reconstructed text (item parsing needs the original line breaks),
// returns the well-formed rows, and silently drops malformed ones: items are
// best-effort and never fail the record.
func ExtractLineItems(raw string) []entity.LineItem {
	start := reItemsStart.FindStringIndex(raw)
	if start == nil {
		return nil
	}
	rest := raw[start[1]:]
	if end := reItemsEnd.FindStringIndex(rest); end != nil {
		rest = rest[:end[0]]
	}

	var items []entity.LineItem
	for _, entry := range splitEntries(rest) {
		if item, ok := parseEntry(entry); ok {
			items = append(items, item)
		}
	}
	return items
}

// splitEntries cuts the block into per-item chunks. A line starting with the
// asterisk tag that prefixes a product/service category code begins a new
// item; continuation lines are folded into the current one.
func splitEntries(block string) []string {
	var entries []string
	var cur []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "*") || strings.HasPrefix(line, "＊") || strings.HasPrefix(line, "※") {
			if len(cur) > 0 {
				entries = append(entries, strings.Join(cur, " "))
			}
			cur = []string{line}
			continue
		}
		if len(cur) > 0 {
			cur = append(cur, line)
		}
	}
	if len(cur) > 0 {
		entries = append(entries, strings.Join(cur, " "))
	}
	return entries
}

func parseEntry(entry string) (entity.LineItem, bool) {
	loc := reItemCore.FindStringSubmatchIndex(entry)
	if loc == nil {
		return entity.LineItem{}, false
	}
	group := func(i int) string { return entry[loc[2*i]:loc[2*i+1]] }

	item := entity.LineItem{
		Unit:    group(1),
		TaxRate: group(3),
	}
	item.TaxAmount, _ = strconv.ParseFloat(group(4), 64)

	nums := strings.Fields(group(2))
	qty, err := strconv.ParseFloat(nums[0], 64)
	if err != nil {
		return entity.LineItem{}, false
	}
	amount, err := strconv.ParseFloat(nums[len(nums)-1], 64)
	if err != nil {
		return entity.LineItem{}, false
	}
	item.Quantity = qty
	item.Amount = amount
	if len(nums) == 3 {
		item.UnitPrice, _ = strconv.ParseFloat(nums[1], 64)
	}

	name := strings.TrimSpace(entry[:loc[0]])
	if m := reTrailingPrice.FindStringSubmatch(name); m != nil {
		if price, err := strconv.ParseFloat(m[1], 64); err == nil {
			item.UnitPrice = price
			name = strings.TrimSpace(name[:len(name)-len(m[0])])
		}
	}
	name = stripCategoryTag(name)
	if name == "" {
		return entity.LineItem{}, false
	}
	item.Name = name
	return item, true
}

// stripCategoryTag drops the starred category prefix (e.g. *办公设备*) and
// keeps the product name that follows the last delimiter.
func stripCategoryTag(name string) string {
	i := strings.LastIndexAny(name, "*＊※")
	if i < 0 {
		return name
	}
	_, w := utf8.DecodeRuneInString(name[i:])
	return strings.TrimSpace(name[i+w:])
}
