package projection_test

import (
	"testing"

	"github.com/warp/commission-engine/projection"
)

// =============================================================================
// TITLE NORMALIZATION TESTS
// =============================================================================

func TestNormalizeTitle_StripsDiacritics(t *testing.T) {
	cases := map[string]string{
		"Získatelská provize":          "ziskatelska provize",
		"Následná provize za platbu":   "nasledna provize za platbu",
		"  Provize po 3 letech  ":      "provize po 3 letech",
		"NÁSLEDNÁ PROVIZE 2. AŽ 5. ROK": "nasledna provize 2. az 5. rok",
	}
	for in, want := range cases {
		if got := projection.NormalizeTitle(in); got != want {
			t.Errorf("NormalizeTitle(%q): expected %q, got %q", in, want, got)
		}
	}
}

// =============================================================================
// LINE EXTRACTION TESTS
// =============================================================================

func line(kind projection.LineKind, title string, amount float64) projection.CommissionLine {
	return projection.CommissionLine{
		Kind:   kind,
		Title:  title,
		Amount: projection.NewAmount(amount, projection.CurrencyCZK),
	}
}

func TestExtractLines_StructuredKinds(t *testing.T) {
	// GIVEN: A breakdown with structured kind tags
	lines := []projection.CommissionLine{
		line(projection.LineImmediate, "whatever title", 900),
		line(projection.LineAfterYear3, "", 250),
		line(projection.LineRecurringYear2to5, "", 50),
	}

	// WHEN: Extracting
	out := projection.ExtractLines(lines)

	// THEN: Kinds route regardless of titles
	if out.Immediate == nil || !out.Immediate.Amount.Equal(projection.NewAmount(900, projection.CurrencyCZK)) {
		t.Error("expected immediate line with amount 900")
	}
	if out.AfterYear3 == nil {
		t.Error("expected after-year-3 line")
	}
	if out.RecurringYear2to5 == nil {
		t.Error("expected recurring 2-5 line")
	}
	if out.AfterYear4 != nil || out.PerPayment != nil {
		t.Error("expected absent lines to stay nil")
	}
}

func TestExtractLines_TitleFallback(t *testing.T) {
	// GIVEN: Legacy lines carrying only Czech display titles
	lines := []projection.CommissionLine{
		line(projection.LineUnknown, "Získatelská provize", 900),
		line(projection.LineUnknown, "Provize po 3 letech", 250),
		line(projection.LineUnknown, "Provize po 4 letech", 250),
		line(projection.LineUnknown, "Následná provize za platbu", 20),
	}

	// WHEN: Extracting
	out := projection.ExtractLines(lines)

	// THEN: Titles classify through the normalized substring table
	if out.Immediate == nil {
		t.Error("expected immediate line from title")
	}
	if out.AfterYear3 == nil || out.AfterYear4 == nil {
		t.Error("expected anniversary bonus lines from titles")
	}
	if out.PerPayment == nil {
		t.Error("expected per-payment line from title")
	}
}

func TestExtractLines_BandBeatsGenericWording(t *testing.T) {
	// GIVEN: A band title that also contains the follow-up wording
	lines := []projection.CommissionLine{
		line(projection.LineUnknown, "Následná provize 2. až 5. rok", 50),
		line(projection.LineUnknown, "Následná provize 5. až 10. rok", 30),
	}

	// WHEN: Extracting
	out := projection.ExtractLines(lines)

	// THEN: The year-specific band wins over the generic "nasledna" match
	if out.RecurringYear2to5 == nil {
		t.Error("expected 2-5 band line")
	}
	if out.RecurringYear5to10 == nil {
		t.Error("expected 5-10 band line")
	}
	if out.PerPayment != nil {
		t.Error("band titles must not classify as per-payment")
	}
}

func TestExtractLines_FirstMatchWins(t *testing.T) {
	// GIVEN: Two immediate lines
	lines := []projection.CommissionLine{
		line(projection.LineImmediate, "first", 100),
		line(projection.LineImmediate, "second", 200),
	}

	// WHEN: Extracting
	out := projection.ExtractLines(lines)

	// THEN: The first one wins
	if out.Immediate == nil || out.Immediate.Title != "first" {
		t.Error("expected the first immediate line to win")
	}
}

func TestExtractLines_UnknownTitleIgnored(t *testing.T) {
	lines := []projection.CommissionLine{
		line(projection.LineUnknown, "Storno rezerva", 10),
		line(projection.LineUnknown, "", 10),
	}
	out := projection.ExtractLines(lines)
	if out != (projection.ExtractedLines{}) {
		t.Error("expected unclassifiable lines to extract nothing")
	}
}
