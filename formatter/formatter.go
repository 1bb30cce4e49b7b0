// Package formatter renders directives back to their canonical textual form.
//
// The canonical form is what transaction identifier hashing is computed
// over, so it must be deterministic: amounts keep their source spelling,
// metadata keeps insertion order, and postings keep file order. It is also
// what the fmt command prints.
package formatter

import (
	"fmt"
	"strings"

	"github.com/robinvdvleuten/beanledger/ast"
)

const indent = "  "

// Directive renders a single directive in canonical form, without a
// trailing newline. Multi-line directives (transactions, commodities with
// metadata) separate lines with '\n'.
func Directive(d ast.Directive) string {
	switch d := d.(type) {
	case *ast.Transaction:
		return transaction(d)
	case *ast.Open:
		var b strings.Builder
		fmt.Fprintf(&b, "%s open %s", d.Date, d.Account)
		if len(d.Currencies) > 0 {
			b.WriteString(" " + strings.Join(d.Currencies, ","))
		}
		return b.String()
	case *ast.Close:
		return fmt.Sprintf("%s close %s", d.Date, d.Account)
	case *ast.Balance:
		return fmt.Sprintf("%s balance %s %s", d.Date, d.Account, d.Amount.String())
	case *ast.Pad:
		return fmt.Sprintf("%s pad %s %s", d.Date, d.Account, d.Source)
	case *ast.Commodity:
		var b strings.Builder
		fmt.Fprintf(&b, "%s commodity %s", d.Date, d.Currency)
		writeMetadata(&b, d.Meta)
		return b.String()
	case *ast.PriceDecl:
		return fmt.Sprintf("%s price %s %s", d.Date, d.Currency, d.Amount.String())
	case *ast.Document:
		return fmt.Sprintf("%s document %s %q", d.Date, d.Account, d.Path)
	case *ast.Event:
		return fmt.Sprintf("%s event %q %q", d.Date, d.Name, d.Value)
	case *ast.Note:
		return fmt.Sprintf("%s note %s %q", d.Date, d.Account, d.Comment)
	case *ast.Option:
		return fmt.Sprintf("option %q %q", d.Name, d.Value)
	case *ast.Include:
		return fmt.Sprintf("include %q", d.Path)
	case *ast.Custom:
		var b strings.Builder
		fmt.Fprintf(&b, "%s custom %q", d.Date, d.Type)
		for _, v := range d.Values {
			fmt.Fprintf(&b, " %q", v)
		}
		return b.String()
	case *ast.Comment:
		return d.Text
	}
	return ""
}

// Directives renders a directive list separated by blank lines, with a
// trailing newline. Used by the fmt command.
func Directives(directives []ast.Directive) string {
	parts := make([]string, 0, len(directives))
	for _, d := range directives {
		parts = append(parts, Directive(d))
	}
	return strings.Join(parts, "\n\n") + "\n"
}

func transaction(t *ast.Transaction) string {
	var b strings.Builder

	flag := t.Flag
	if flag == "" {
		flag = "*"
	}
	fmt.Fprintf(&b, "%s %s", t.Date, flag)
	if t.Payee != "" {
		fmt.Fprintf(&b, " %q", t.Payee)
	}
	fmt.Fprintf(&b, " %q", t.Narration)
	for _, tag := range t.Tags {
		b.WriteString(" #" + tag)
	}
	for _, link := range t.Links {
		b.WriteString(" ^" + link)
	}

	writeMetadata(&b, t.Meta)

	for _, p := range t.Postings {
		b.WriteString("\n" + indent)
		if p.Flag != "" {
			b.WriteString(p.Flag + " ")
		}
		b.WriteString(string(p.Account))
		if p.Amount != nil {
			b.WriteString(" " + p.Amount.String())
		}
		if p.Cost != nil {
			fmt.Fprintf(&b, " {%s}", p.Cost.String())
		}
		if p.Price != nil {
			marker := "@"
			if p.PriceTotal {
				marker = "@@"
			}
			fmt.Fprintf(&b, " %s %s", marker, p.Price.String())
		}
	}

	return b.String()
}

func writeMetadata(b *strings.Builder, meta ast.Metadata) {
	for _, e := range meta {
		fmt.Fprintf(b, "\n%s%s: %q", indent, e.Key, e.Value)
	}
}
