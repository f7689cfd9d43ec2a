/*
lines.go - Commission line extraction

PURPOSE:
  Locates, inside a contract's commission breakdown, the lines that payout
  strategies need: the immediate/acquisition commission, the anniversary
  bonuses, and the recurring bands.

DISPATCH ORDER:
  1. Structured LineKind tag (preferred - set by the coefficient engine)
  2. Normalized title substring match (fallback for legacy records whose
     lines carry only a human-readable title)

TITLE NORMALIZATION:
  Titles are free text entered in Czech with diacritics and inconsistent
  casing ("Získatelská provize", "provize po 3 letech"). Matching is done
  on a lowercased, trimmed, diacritic-stripped form.

ABSENCE IS NOT AN ERROR:
  A breakdown without, say, an "after 4 years" line simply means that
  product variant pays no 4th-year bonus - the strategy branch that needs
  the line stays silent.

SEE ALSO:
  - types.go: LineKind values
  - strategy.go: How strategies consume extracted lines
*/
package projection

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// EXTRACTED LINES - Breakdown lines relevant to payout timing
// =============================================================================

// ExtractedLines holds the commission lines a strategy may route payouts
// from. A nil field means the breakdown has no such line and the dependent
// payout branch is disabled.
type ExtractedLines struct {
	Immediate          *CommissionLine
	AfterYear3         *CommissionLine
	AfterYear4         *CommissionLine
	RecurringYear2to5  *CommissionLine
	RecurringYear5to10 *CommissionLine
	RecurringFromYear6 *CommissionLine
	PerPayment         *CommissionLine
}

// ExtractLines classifies a contract's commission breakdown.
// The first line matching each kind wins; later duplicates are ignored.
func ExtractLines(lines []CommissionLine) ExtractedLines {
	var out ExtractedLines
	for i := range lines {
		line := &lines[i]
		kind := line.Kind
		if kind == LineUnknown {
			kind = classifyTitle(line.Title)
		}
		switch kind {
		case LineImmediate:
			if out.Immediate == nil {
				out.Immediate = line
			}
		case LineAfterYear3:
			if out.AfterYear3 == nil {
				out.AfterYear3 = line
			}
		case LineAfterYear4:
			if out.AfterYear4 == nil {
				out.AfterYear4 = line
			}
		case LineRecurringYear2to5:
			if out.RecurringYear2to5 == nil {
				out.RecurringYear2to5 = line
			}
		case LineRecurringYear5to10:
			if out.RecurringYear5to10 == nil {
				out.RecurringYear5to10 = line
			}
		case LineRecurringFromYear6:
			if out.RecurringFromYear6 == nil {
				out.RecurringFromYear6 = line
			}
		case LineRecurringPerPayment:
			if out.PerPayment == nil {
				out.PerPayment = line
			}
		}
	}
	return out
}

// =============================================================================
// TITLE MATCHING FALLBACK
// =============================================================================

// titleMatchers pairs each line kind with the normalized substrings that
// identify it. Order matters: the year-specific bands are tested before
// the generic per-payment wording.
var titleMatchers = []struct {
	kind       LineKind
	substrings []string
}{
	{LineAfterYear3, []string{"po 3 letech", "3. rok", "after 3 years", "3rd year"}},
	{LineAfterYear4, []string{"po 4 letech", "4. rok", "after 4 years", "4th year"}},
	{LineRecurringYear2to5, []string{"2. az 5.", "2.-5.", "2nd-5th", "year 2-5"}},
	{LineRecurringYear5to10, []string{"5. az 10.", "5.-10.", "5th-10th", "year 5-10"}},
	{LineRecurringFromYear6, []string{"od 6. roku", "from 6th year", "from year 6"}},
	{LineRecurringPerPayment, []string{"za platbu", "nasledna", "per payment", "follow-up", "follow up"}},
	{LineImmediate, []string{"ziskatelska", "okamzita", "immediate", "acquisition"}},
}

func classifyTitle(title string) LineKind {
	t := NormalizeTitle(title)
	if t == "" {
		return LineUnknown
	}
	for _, m := range titleMatchers {
		for _, sub := range m.substrings {
			if strings.Contains(t, sub) {
				return m.kind
			}
		}
	}
	return LineUnknown
}

var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeTitle lowercases, trims, and strips diacritics so that
// "Získatelská provize" and "ziskatelska provize" compare equal.
func NormalizeTitle(title string) string {
	stripped, _, err := transform.String(stripDiacritics, title)
	if err != nil {
		stripped = title
	}
	return strings.ToLower(strings.TrimSpace(stripped))
}
