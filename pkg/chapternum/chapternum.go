// Copyright (c) 2026 Mirrordex. All rights reserved.

/*
Package chapternum orders chapter numbers the way readers expect.

Chapter numbers arrive from the upstream API as free-form strings:
"1", "2.5", "10", "84a", or empty for oneshots. Plain string sorting
puts "10" before "2", which is wrong for navigation. This package
compares numbers numerically whenever both sides parse as decimals,
and falls back to lexical order only when they do not.

Oneshots (empty chapter number) sort before every numbered chapter.
*/
package chapternum

import "strconv"

// Compare returns -1, 0, or 1 as a orders before, equal to, or after b.
//
// Both sides numeric: decimal comparison ("2" < "10", "2.5" < "3").
// One side numeric: the numeric side orders first.
// Neither side numeric: byte-wise string comparison.
// The empty string (oneshot) orders before everything else.
func Compare(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return -1
	}
	if b == "" {
		return 1
	}

	av, aok := parse(a)
	bv, bok := parse(b)

	switch {
	case aok && bok:
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		// Numerically equal but textually distinct ("2" vs "2.0"):
		// keep the order total by falling through to lexical.
	case aok:
		return -1
	case bok:
		return 1
	}

	if a < b {
		return -1
	}
	return 1
}

// Less reports whether a orders before b. Convenience for sort callbacks.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

func parse(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}
