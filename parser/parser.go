// Package parser turns ledger text into an ordered list of position-tagged
// directives. It is intentionally tolerant and line-heuristic rather than a
// formal grammar: a line that does not match a known directive shape degrades
// to a Comment directive or is dropped, never aborting the file. Only
// file-level I/O problems surface as errors to the caller.
package parser

import (
	"context"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/beanledger/ast"
)

var (
	// A directive line starts with an ISO date followed by its arguments.
	dateLineRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+(.+)$`)

	// Transaction header: FLAG ["payee"] ["narration"] [#tag ^link ...]
	txnHeaderRe = regexp.MustCompile(`^([*!]|txn)\s*(?:"([^"]*)")?\s*(?:"([^"]*)")?\s*(.*)$`)

	// Posting: [FLAG] ACCOUNT [AMOUNT CURRENCY] [{COST}] [@ PRICE | @@ TOTAL] [; comment]
	// Account components after the canonical prefix may be any non-space runes,
	// so non-ASCII account names parse fine.
	postingRe = regexp.MustCompile(`^([!*])?\s*((?:Assets|Liabilities|Equity|Income|Expenses):\S+)\s*(-?[\d,]+(?:\.\d+)?)?\s*([A-Z][A-Z0-9'._-]*)?(?:\s*\{([^}]*)\})?(?:\s*(@@?)\s*(-?[\d,]+(?:\.\d+)?)\s*([A-Z][A-Z0-9'._-]*))?(?:\s*;.*)?$`)
)

// Parse parses ledger file content into directives. The filename is recorded
// in each directive's span for error reporting and identifier generation; it
// is not read from disk. Include directives appear in the output untouched;
// resolving them is the loader's job.
func Parse(ctx context.Context, filename string, data []byte) ([]ast.Directive, error) {
	// Carriage returns are stripped for parsing, but byte offsets accumulate
	// over the raw lines so spans stay exact for CRLF input.
	raw := strings.Split(string(data), "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	var directives []ast.Directive
	pos := 0
	i := 0

	for i < len(lines) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lineStart := pos
		trimmed := strings.TrimSpace(lines[i])

		// Blank lines and ;/# comment lines carry no directive.
		if trimmed == "" || strings.HasPrefix(trimmed, ";") || strings.HasPrefix(trimmed, "#") {
			pos += len(raw[i]) + 1
			i++
			continue
		}

		// Org-mode section headers ("* Accounts", "** Bank") are not dated
		// and get skipped, but "2024-01-01 * ..." is a transaction.
		if strings.HasPrefix(trimmed, "*") && !dateLineRe.MatchString(trimmed) {
			pos += len(raw[i]) + 1
			i++
			continue
		}

		lineNumber := i + 1

		if d, consumed := parseBlock(lines, raw, i, lineStart, lineNumber, filename); d != nil {
			directives = append(directives, d)
			for j := 0; j < consumed && i+j < len(raw); j++ {
				pos += len(raw[i+j]) + 1
			}
			i += consumed
			continue
		}

		if d := parseLine(trimmed, lineStart, lineNumber, filename); d != nil {
			directives = append(directives, d)
		}
		pos += len(raw[i]) + 1
		i++
	}

	return directives, nil
}

// parseBlock handles directives that may span multiple lines: transactions
// and commodity declarations with trailing metadata. It returns nil when the
// first line is not such a block.
func parseBlock(lines, raw []string, start, byteStart, lineNumber int, filename string) (ast.Directive, int) {
	trimmed := strings.TrimSpace(lines[start])

	m := dateLineRe.FindStringSubmatch(trimmed)
	if m == nil {
		return nil, 0
	}
	dateStr, rest := m[1], m[2]

	isTxn := strings.HasPrefix(rest, "*") || strings.HasPrefix(rest, "!") ||
		rest == "txn" || strings.HasPrefix(rest, "txn ")
	isCommodity := strings.HasPrefix(rest, "commodity ")
	if !isTxn && !isCommodity {
		return nil, 0
	}

	// Collect indented continuation lines until an unindented or blank line.
	var continuation []string
	consumed := 1
	end := byteStart + len(raw[start])
	for j := start + 1; j < len(lines); j++ {
		line := lines[j]
		if line == "" || (line[0] != ' ' && line[0] != '\t') {
			break
		}
		continuation = append(continuation, line)
		consumed++
		end += len(raw[j]) + 1
	}

	span := ast.Span{Source: filename, Line: lineNumber, End: end}

	if isTxn {
		txn := parseTransaction(rest, dateStr, continuation)
		txn.Pos = span
		return txn, consumed
	}

	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return &ast.Comment{Pos: span, Text: trimmed}, consumed
	}
	c := &ast.Commodity{Pos: span, Date: parseDate(dateStr), Currency: fields[1]}
	for _, line := range continuation {
		if key, value, ok := splitMetadata(strings.TrimSpace(line)); ok {
			c.Meta.Set(key, value)
		}
	}
	return c, consumed
}

// parseTransaction parses a transaction header plus its continuation lines.
// Each continuation line is classified as metadata or a posting, never both.
func parseTransaction(rest, dateStr string, continuation []string) *ast.Transaction {
	txn := &ast.Transaction{Date: parseDate(dateStr)}

	if m := txnHeaderRe.FindStringSubmatch(rest); m != nil {
		txn.Flag = m[1]
		// A single quoted string is the narration; only with two does the
		// first become the payee.
		if strings.Count(rest, `"`) >= 4 {
			txn.Payee = m[2]
			txn.Narration = m[3]
		} else {
			txn.Narration = m[2]
		}
		for _, part := range strings.Fields(m[4]) {
			switch {
			case strings.HasPrefix(part, "#"):
				txn.Tags = append(txn.Tags, part[1:])
			case strings.HasPrefix(part, "^"):
				txn.Links = append(txn.Links, part[1:])
			}
		}
	}
	if txn.Flag == "txn" {
		txn.Flag = "*"
	}

	for _, line := range continuation {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			continue
		}
		if key, value, ok := splitMetadata(trimmed); ok {
			txn.Meta.Set(key, value)
			continue
		}
		if p := parsePosting(trimmed); p != nil {
			txn.Postings = append(txn.Postings, p)
		}
	}

	return txn
}

// splitMetadata recognizes "key: value" continuation lines. Metadata keys
// contain no spaces and are not account names; anything account-shaped is a
// posting (a posting line always starts with its account or a flag).
func splitMetadata(line string) (key, value string, ok bool) {
	colon := strings.Index(line, ":")
	if colon < 0 {
		return "", "", false
	}
	before := line[:colon]
	if strings.Contains(before, " ") || ast.Account(line).HasCanonicalPrefix() {
		return "", "", false
	}
	value = strings.Trim(strings.TrimSpace(line[colon+1:]), `"`)
	return strings.TrimSpace(before), value, true
}

// parsePosting parses one posting line, returning nil for lines that do not
// match the posting shape.
func parsePosting(line string) *ast.Posting {
	m := postingRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	p := &ast.Posting{
		Flag:    m[1],
		Account: ast.Account(m[2]),
	}

	if m[3] != "" && m[4] != "" {
		if n, ok := parseNumber(m[3]); ok {
			p.Amount = &ast.Amount{Number: n, Raw: m[3], Currency: m[4]}
		}
	}

	if cost := strings.TrimSpace(m[5]); cost != "" {
		parts := strings.Fields(cost)
		if len(parts) >= 2 {
			if n, ok := parseNumber(parts[0]); ok {
				p.Cost = &ast.Amount{Number: n, Raw: parts[0], Currency: parts[1]}
			}
		}
	}

	if m[6] != "" && m[7] != "" && m[8] != "" {
		if n, ok := parseNumber(m[7]); ok {
			p.Price = &ast.Amount{Number: n, Raw: m[7], Currency: m[8]}
			p.PriceTotal = m[6] == "@@"
		}
	}

	return p
}

// parseLine handles single-line directives. Dated lines with an unknown
// keyword are preserved as Comment directives; undated lines other than
// option/include/pushtag/poptag are dropped.
func parseLine(trimmed string, byteStart, lineNumber int, filename string) ast.Directive {
	span := ast.Span{Source: filename, Line: lineNumber, End: byteStart + len(trimmed)}

	if m := dateLineRe.FindStringSubmatch(trimmed); m != nil {
		dateStr, rest := m[1], m[2]
		date := parseDate(dateStr)
		fields := strings.Fields(rest)
		keyword := fields[0]

		degraded := &ast.Comment{Pos: span, Text: trimmed}

		switch keyword {
		case "open":
			if len(fields) < 2 {
				return degraded
			}
			o := &ast.Open{Pos: span, Date: date, Account: ast.Account(fields[1])}
			for _, c := range fields[2:] {
				for _, currency := range strings.Split(c, ",") {
					if currency = strings.TrimSpace(currency); currency != "" {
						o.Currencies = append(o.Currencies, currency)
					}
				}
			}
			return o
		case "close":
			if len(fields) < 2 {
				return degraded
			}
			return &ast.Close{Pos: span, Date: date, Account: ast.Account(fields[1])}
		case "balance":
			if len(fields) < 4 {
				return degraded
			}
			n, _ := parseNumber(fields[2])
			return &ast.Balance{
				Pos: span, Date: date, Account: ast.Account(fields[1]),
				Amount: ast.Amount{Number: n, Raw: fields[2], Currency: fields[3]},
			}
		case "pad":
			if len(fields) < 3 {
				return degraded
			}
			return &ast.Pad{Pos: span, Date: date, Account: ast.Account(fields[1]), Source: ast.Account(fields[2])}
		case "price":
			if len(fields) < 4 {
				return degraded
			}
			n, _ := parseNumber(fields[2])
			return &ast.PriceDecl{
				Pos: span, Date: date, Currency: fields[1],
				Amount: ast.Amount{Number: n, Raw: fields[2], Currency: fields[3]},
			}
		case "document":
			if len(fields) < 3 {
				return degraded
			}
			return &ast.Document{
				Pos: span, Date: date, Account: ast.Account(fields[1]),
				Path: unquote(strings.Join(fields[2:], " ")),
			}
		case "note":
			parts := strings.SplitN(rest, " ", 3)
			if len(parts) < 3 {
				return degraded
			}
			return &ast.Note{
				Pos: span, Date: date, Account: ast.Account(parts[1]),
				Comment: unquote(strings.TrimSpace(parts[2])),
			}
		case "event":
			name, value, ok := twoQuoted(strings.TrimSpace(strings.TrimPrefix(rest, "event")))
			if !ok {
				return degraded
			}
			return &ast.Event{Pos: span, Date: date, Name: name, Value: value}
		case "custom":
			if len(fields) < 3 {
				return degraded
			}
			values := make([]string, 0, len(fields)-2)
			for _, v := range fields[2:] {
				values = append(values, unquote(v))
			}
			return &ast.Custom{Pos: span, Date: date, Type: unquote(fields[1]), Values: values}
		case "option":
			return parseOption(rest, span)
		case "include":
			return parseInclude(rest, span)
		}

		return degraded
	}

	switch {
	case strings.HasPrefix(trimmed, "option "):
		return parseOption(trimmed, span)
	case strings.HasPrefix(trimmed, "include "):
		return parseInclude(trimmed, span)
	case strings.HasPrefix(trimmed, "pushtag "), strings.HasPrefix(trimmed, "poptag "):
		// Tag stacks are not materialized; keep the line for round-trips.
		return &ast.Comment{Pos: span, Text: trimmed}
	}

	return nil
}

func parseOption(rest string, span ast.Span) ast.Directive {
	parts := strings.SplitN(rest, " ", 3)
	if len(parts) < 3 {
		return &ast.Comment{Pos: span, Text: rest}
	}
	return &ast.Option{Pos: span, Name: unquote(parts[1]), Value: unquote(strings.TrimSpace(parts[2]))}
}

func parseInclude(rest string, span ast.Span) ast.Directive {
	parts := strings.SplitN(rest, " ", 2)
	if len(parts) < 2 {
		return &ast.Comment{Pos: span, Text: rest}
	}
	return &ast.Include{Pos: span, Path: unquote(strings.TrimSpace(parts[1]))}
}

var twoQuotedRe = regexp.MustCompile(`^"([^"]*)"\s+"([^"]*)"`)

// twoQuoted extracts two consecutive quoted strings.
func twoQuoted(s string) (first, second string, ok bool) {
	m := twoQuotedRe.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func unquote(s string) string {
	return strings.Trim(s, `"`)
}

// parseNumber parses a numeric literal leniently: thousands separators are
// stripped and a leading sign is accepted.
func parseNumber(s string) (decimal.Decimal, bool) {
	n, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero, false
	}
	return n, true
}

func parseDate(s string) ast.Date {
	d, err := ast.ParseDate(s)
	if err != nil {
		// The dateLineRe shape guarantees digits; out-of-range values fall
		// back to the epoch rather than failing the line.
		return ast.MustDate("1970-01-01")
	}
	return d
}
