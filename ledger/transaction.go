package ledger

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/beanledger/ast"
	"github.com/robinvdvleuten/beanledger/formatter"
)

// Transaction is the derived model for one transaction, including the
// synthesized pad transactions. The identifier is deterministic over
// (source, line, canonical text), so re-parsing unchanged text yields the
// same identifier across reloads.
type Transaction struct {
	ID        string
	Date      ast.Date
	Time      string // "15:04:05" when extracted from metadata, else ""
	Flag      string
	Payee     string
	Narration string
	Tags      []string
	Links     []string
	Meta      ast.Metadata
	Postings  []*Posting
	Source    string
	Line      int
}

// HasTime reports whether a time was extracted from metadata.
func (t *Transaction) HasTime() bool {
	return t.Time != ""
}

// DateTime combines the date with the extracted time, defaulting to
// midnight.
func (t *Transaction) DateTime() time.Time {
	if t.Time != "" {
		if clock, err := time.Parse("15:04:05", t.Time); err == nil {
			return time.Date(
				t.Date.Year(), t.Date.Month(), t.Date.Day(),
				clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC,
			)
		}
	}
	return t.Date.Time
}

// InvolvesAccount reports whether any posting touches the named account.
func (t *Transaction) InvolvesAccount(name string) bool {
	for _, p := range t.Postings {
		if p.Account == name {
			return true
		}
	}
	return false
}

// Summary renders a short human-readable label.
func (t *Transaction) Summary() string {
	switch {
	case t.Payee != "" && t.Narration != "":
		return t.Payee + " | " + t.Narration
	case t.Payee != "":
		return t.Payee
	default:
		return t.Narration
	}
}

// HasTag reports whether the transaction carries the given tag.
func (t *Transaction) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// Posting is one leg of a derived transaction. Amount keeps the raw source
// spelling; Number is the resolved decimal, inferred from the other postings
// when the source omitted it.
type Posting struct {
	Account    string
	Amount     string
	Number     decimal.Decimal
	Currency   string
	Cost       *ast.Amount
	Price      *ast.Amount
	PriceTotal bool
	Inferred   bool
}

// TotalValue resolves the posting's value in the operating currency: when a
// price is attached and the posting currency differs from the operating one,
// units are converted through the price; otherwise the posting amount is
// used as is. This is a single-currency approximation, not full conversion.
func (p *Posting) TotalValue(operatingCurrency string) decimal.Decimal {
	if p.Price == nil || p.Currency == "" || p.Currency == operatingCurrency {
		return p.Number
	}
	if p.PriceTotal {
		total := p.Price.Number
		if p.Number.IsNegative() {
			return total.Neg()
		}
		return total
	}
	return p.Number.Mul(p.Price.Number)
}

// timeMetaKeys are the metadata keys checked, in order, for a transaction
// time. The set covers the importers seen in the wild (trade exports,
// Telegram bots, payment platforms).
var timeMetaKeys = []string{"time", "trade_time", "tgbot_time", "payTime", "created_at"}

var timeLayouts = []string{
	"15:04:05",
	"15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// extractTime pulls a normalized HH:MM:SS time out of directive metadata,
// returning "" when no key matches.
func extractTime(meta ast.Metadata) string {
	for _, key := range timeMetaKeys {
		value, ok := meta.Get(key)
		if !ok {
			continue
		}
		// Fractional seconds are accepted and dropped.
		if i := strings.LastIndexByte(value, '.'); i > 0 && !strings.ContainsAny(value[i+1:], ": ") {
			value = value[:i]
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t.Format("15:04:05")
			}
		}
	}
	return ""
}

// transactionID derives the stable identifier for a parsed transaction:
// txn-{source}:{line}:{hash} with path separators and colons in the source
// flattened to dashes, and an 8-hex-digit hash of the canonical text.
func transactionID(source string, line int, canonical string) string {
	return fmt.Sprintf("txn-%s:%d:%s", sanitizeSource(source), line, shortHash(canonical))
}

var sourceSanitizer = strings.NewReplacer("/", "-", "\\", "-", ":", "-")

func sanitizeSource(source string) string {
	return sourceSanitizer.Replace(source)
}

func shortHash(s string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return fmt.Sprintf("%08x", h.Sum32())
}

// convert turns a parsed transaction into the derived model: the identifier
// is computed over the canonical rendering, the time extracted from
// metadata, and a single omitted posting amount resolved as the additive
// inverse of the sum of the others.
func convert(t *ast.Transaction) *Transaction {
	txn := &Transaction{
		ID:        transactionID(t.Pos.Source, t.Pos.Line, formatter.Directive(t)),
		Date:      t.Date,
		Time:      extractTime(t.Meta),
		Flag:      t.Flag,
		Payee:     t.Payee,
		Narration: t.Narration,
		Tags:      t.Tags,
		Links:     t.Links,
		Meta:      t.Meta,
		Source:    t.Pos.Source,
		Line:      t.Pos.Line,
	}

	var explicitSum decimal.Decimal
	var inferredCurrency string
	for _, p := range t.Postings {
		if p.Amount != nil {
			explicitSum = explicitSum.Add(p.Amount.Number)
			if inferredCurrency == "" {
				inferredCurrency = p.Amount.Currency
			}
		}
	}

	for _, p := range t.Postings {
		posting := &Posting{
			Account:    string(p.Account),
			Cost:       p.Cost,
			Price:      p.Price,
			PriceTotal: p.PriceTotal,
		}
		if p.Amount != nil {
			posting.Amount = p.Amount.Raw
			posting.Number = p.Amount.Number
			posting.Currency = p.Amount.Currency
		} else {
			posting.Number = explicitSum.Neg()
			posting.Amount = posting.Number.String()
			posting.Currency = inferredCurrency
			posting.Inferred = true
		}
		txn.Postings = append(txn.Postings, posting)
	}

	return txn
}
