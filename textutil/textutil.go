package textutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// listSeparators split a list of numbers.  "/" is what people type for
// stacks and prizes ("100/30/10"); whitespace also works.
const listSeparators = "/ \t"

func decomma(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

// ParseFloats parses a separated list of numbers like "20/10/5" or
// "1,500 / 900".  Commas are thousands separators and are ignored.
func ParseFloats(s string) ([]float64, error) {
	fields := strings.FieldsFunc(decomma(s), func(r rune) bool {
		return strings.ContainsRune(listSeparators, r)
	})
	if len(fields) == 0 {
		return nil, errors.New("empty list")
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("can't parse %q as a number", f)
		}
		out[i] = v
	}
	return out, nil
}

// FormatFloats joins numbers with "/", the inverse of ParseFloats.
func FormatFloats(vs []float64) string {
	return strings.Join(lo.Map(vs, func(v float64, _ int) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}), "/")
}

// FormatPlace converts a numeric place (1, 2, 3, ...) to a string ("1st", "2nd", "3rd", ...).
func FormatPlace(place int) string {
	suffix := "th"
	if place%100 < 11 || place%100 > 13 {
		switch place % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", place, suffix)
}
