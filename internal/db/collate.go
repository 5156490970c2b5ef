package db

import (
	"unicode"
	"unicode/utf8"

	"modernc.org/sqlite"
)

// FoldCollation names the collation used for location labels. Unlike
// SQLite's NOCASE, which folds ASCII only, it treats every Unicode case
// variant of a letter as equal ("Küche" = "KÜCHE").
const FoldCollation = "FOLD"

func init() {
	sqlite.MustRegisterCollationUtf8(FoldCollation, CompareFold)
}

// CompareFold compares a and b rune by rune after simple case folding.
func CompareFold(a, b string) int {
	for a != "" && b != "" {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		if fa, fb := foldRune(ra), foldRune(rb); fa != fb {
			if fa < fb {
				return -1
			}
			return 1
		}
		a, b = a[na:], b[nb:]
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

// foldRune maps r to the smallest rune of its case-folding orbit, so all
// case variants share one key.
func foldRune(r rune) rune {
	key := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < key {
			key = f
		}
	}
	return key
}
