// Package natorder compares strings in natural order: runs of decimal
// digits compare by numeric value rather than lexicographically, so
// "v2" sorts before "v10". Everything else compares byte-for-byte.
//
// No dependency in the retrieved example corpus provides this; it's a
// short enough algorithm that vendoring a library for it isn't
// worthwhile (see DESIGN.md).
package natorder

// Compare returns a negative number if a sorts before b in natural
// order, a positive number if a sorts after b, and 0 if they're equal.
func Compare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]

		if isDigit(ca) && isDigit(cb) {
			na, ni := scanNumber(a, i)
			nb, nj := scanNumber(b, j)
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			i, j = ni, nj
			continue
		}

		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	default:
		return 0
	}
}

// Less reports whether a sorts before b in natural order. It's a
// convenience wrapper for sort.Slice call sites.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Max returns the greatest of ss in natural order, and false if ss is
// empty.
func Max(ss []string) (string, bool) {
	if len(ss) == 0 {
		return "", false
	}
	best := ss[0]
	for _, s := range ss[1:] {
		if Compare(s, best) > 0 {
			best = s
		}
	}
	return best, true
}

// Min returns the least of ss in natural order, and false if ss is
// empty.
func Min(ss []string) (string, bool) {
	if len(ss) == 0 {
		return "", false
	}
	best := ss[0]
	for _, s := range ss[1:] {
		if Compare(s, best) < 0 {
			best = s
		}
	}
	return best, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// scanNumber returns the numeric value of the run of digits in s
// starting at i, along with the index just past it. Leading zeros are
// ignored. A run with more than 18 significant digits is given the
// maximal int64 value instead of being parsed, so it avoids integer
// overflow, compares greater than any shorter run, and compares equal to
// any other such run.
func scanNumber(s string, i int) (value int64, end int) {
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	digits := s[start:i]
	// Strip leading zeros for magnitude comparison purposes, but cap at
	// a width where overflow can't occur; no real version string has
	// 18-digit numeric components.
	trimmed := digits
	for len(trimmed) > 1 && trimmed[0] == '0' {
		trimmed = trimmed[1:]
	}
	if len(trimmed) > 18 {
		// Astronomically unlikely; fall back to treating it as maximal
		// so comparisons stay total and transitive.
		return 1<<63 - 1, i
	}
	var v int64
	for _, c := range trimmed {
		v = v*10 + int64(c-'0')
	}
	return v, i
}
