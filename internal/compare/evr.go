package compare

import "github.com/scanset/ESP-Agent-SDK/internal/model"

// CompareEVR orders two epoch:version-release identifiers by RPM's
// rules: epoch dominates as an integer; version and release each
// compare via segmentCompare, which walks alternating runs of digits
// and non-digits, comparing digit runs numerically and alpha runs
// lexically, treating a present segment as greater than an absent one.
func CompareEVR(a, b model.EVR) int {
	if a.Epoch != b.Epoch {
		if a.Epoch < b.Epoch {
			return -1
		}
		return 1
	}
	if c := segmentCompare(a.Version, b.Version); c != 0 {
		return c
	}
	return segmentCompare(a.Release, b.Release)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// segmentCompare implements rpmvercmp: strings are split into runs of
// [0-9]+ and [A-Za-z]+; characters other than letters, digits and '~'
// are separators and skipped; a '~' sorts before anything, including
// the end of the string; digit runs are compared numerically
// (stripped of leading zeros, longer run wins), and alpha runs are
// compared byte-by-byte.
func segmentCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		for i < len(a) && !isAlnum(a[i]) && a[i] != '~' {
			i++
		}
		for j < len(b) && !isAlnum(b[j]) && b[j] != '~' {
			j++
		}
		if aTilde, bTilde := i < len(a) && a[i] == '~', j < len(b) && b[j] == '~'; aTilde || bTilde {
			if aTilde != bTilde {
				if aTilde {
					return -1
				}
				return 1
			}
			i, j = i+1, j+1
			continue
		}
		if i >= len(a) || j >= len(b) {
			break
		}

		if isDigit(a[i]) && isDigit(b[j]) {
			si := i
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			sj := j
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			numA := stripLeadingZeros(a[si:i])
			numB := stripLeadingZeros(b[sj:j])
			if len(numA) != len(numB) {
				if len(numA) < len(numB) {
					return -1
				}
				return 1
			}
			if numA != numB {
				if numA < numB {
					return -1
				}
				return 1
			}
			continue
		}

		if isDigit(a[i]) != isDigit(b[j]) {
			// A digit run outranks an alpha run at the same position,
			// matching rpm's convention that numeric segments are newer.
			if isDigit(a[i]) {
				return 1
			}
			return -1
		}

		si := i
		for i < len(a) && isAlpha(a[i]) {
			i++
		}
		sj := j
		for j < len(b) && isAlpha(b[j]) {
			j++
		}
		segA := a[si:i]
		segB := b[sj:j]
		if segA != segB {
			if segA < segB {
				return -1
			}
			return 1
		}
	}

	remA := i < len(a)
	remB := j < len(b)
	switch {
	case remA && !remB:
		return 1
	case !remA && remB:
		return -1
	default:
		return 0
	}
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool { return isDigit(c) || isAlpha(c) }

func stripLeadingZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}
