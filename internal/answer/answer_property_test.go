package answer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/efreitasn/qualifier/internal/domain"
	"pgregory.net/rapid"
)

// genPrefix generates the part of a registration number before the suffix.
func genPrefix() *rapid.Generator[string] {
	return rapid.StringMatching(`[0-9A-Z]{0,10}`)
}

// genTable generates a table with distinct branches.
func genTable() *rapid.Generator[Table] {
	return rapid.Custom(func(t *rapid.T) Table {
		even := rapid.StringMatching(`SELECT [a-z]{1,12}`).Draw(t, "even")
		odd := rapid.StringMatching(`SELECT [a-z]{1,12}`).Filter(func(s string) bool {
			return s != even
		}).Draw(t, "odd")
		return NewTable(even, odd)
	})
}

// TestProperty_SelectDependsOnSuffixParityOnly verifies that the selected
// answer is determined by the parity of the last two digits alone.
func TestProperty_SelectDependsOnSuffixParityOnly(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		table := genTable().Draw(t, "table")
		prefix := genPrefix().Draw(t, "prefix")
		suffix := rapid.IntRange(0, 99).Draw(t, "suffix")
		regNo := fmt.Sprintf("%s%02d", prefix, suffix)

		got, parity, err := table.Select(regNo)
		if err != nil {
			t.Fatalf("Select(%q) returned error: %v", regNo, err)
		}

		want, wantParity := table.Odd, Odd
		if suffix%2 == 0 {
			want, wantParity = table.Even, Even
		}
		if got != want {
			t.Fatalf("Select(%q) = %q, want %q", regNo, got, want)
		}
		if parity != wantParity {
			t.Fatalf("Select(%q) parity = %q, want %q", regNo, parity, wantParity)
		}

		// Any other registration number with the same suffix parity gets the same answer.
		otherPrefix := genPrefix().Draw(t, "otherPrefix")
		otherSuffix := rapid.IntRange(0, 49).Draw(t, "otherSuffix")*2 + suffix%2
		other := fmt.Sprintf("%s%02d", otherPrefix, otherSuffix)
		gotOther, otherParity, err := table.Select(other)
		if err != nil {
			t.Fatalf("Select(%q) returned error: %v", other, err)
		}
		if otherParity != parity {
			t.Fatalf("Select(%q) parity = %q, want %q", other, otherParity, parity)
		}
		if gotOther != got {
			t.Fatalf("Select(%q) = %q, Select(%q) = %q; same parity must select the same answer",
				regNo, got, other, gotOther)
		}
	})
}

// TestProperty_SelectIsIdempotent verifies repeated calls are byte-identical.
func TestProperty_SelectIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		table := NewTable("", "")
		regNo := rapid.StringMatching(`[0-9A-Z]{0,12}`).Draw(t, "regNo")

		first, _, err1 := table.Select(regNo)
		second, _, err2 := table.Select(regNo)

		if (err1 == nil) != (err2 == nil) {
			t.Fatalf("Select(%q) errors differ: %v vs %v", regNo, err1, err2)
		}
		if first != second {
			t.Fatalf("Select(%q) not idempotent", regNo)
		}
	})
}

// TestProperty_NonNumericSuffixIsFormatError verifies that a registration
// number with any non-digit among its last two characters is rejected.
func TestProperty_NonNumericSuffixIsFormatError(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prefix := genPrefix().Draw(t, "prefix")
		bad := rapid.StringMatching(`[A-Za-z _.-]`).Draw(t, "bad")
		digit := rapid.StringMatching(`[0-9]`).Draw(t, "digit")

		var regNo string
		switch rapid.IntRange(0, 2).Draw(t, "position") {
		case 0:
			regNo = prefix + bad + digit
		case 1:
			regNo = prefix + digit + bad
		default:
			regNo = prefix + bad + bad
		}

		_, _, err := NewTable("", "").Select(regNo)
		var formatErr *domain.FormatError
		if !errors.As(err, &formatErr) {
			t.Fatalf("Select(%q) error = %v, want *domain.FormatError", regNo, err)
		}
	})
}

// TestProperty_ShortRegistrationNumberIsFormatError covers inputs shorter
// than two characters.
func TestProperty_ShortRegistrationNumberIsFormatError(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		regNo := rapid.StringMatching(`[0-9A-Z]?`).Draw(t, "regNo")

		_, err := ParityOf(regNo)
		var formatErr *domain.FormatError
		if !errors.As(err, &formatErr) {
			t.Fatalf("ParityOf(%q) error = %v, want *domain.FormatError", regNo, err)
		}
	})
}
