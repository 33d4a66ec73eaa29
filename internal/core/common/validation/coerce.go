package validation

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// maxExponent bounds the decimal exponent accepted from clients. Rescaling a
// value like 1e2000000000 builds a power of ten with billions of digits, so
// anything outside this window is refused before any arithmetic runs.
const maxExponent = 30

var (
	decimalPattern = regexp.MustCompile(`^\d+\.?\d*$`)
	digitsPattern  = regexp.MustCompile(`^\d+$`)
)

// Accepted textual date layouts. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// AsString returns the trimmed string form of value.
func AsString(value interface{}) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// AsDecimal reads a JSON number or a plain decimal string such as "12.50".
// Signs, exponents and thousands separators are rejected in string form.
func AsDecimal(value interface{}) (decimal.Decimal, bool) {
	var (
		d   decimal.Decimal
		err error
	)
	switch v := value.(type) {
	case json.Number:
		d, err = decimal.NewFromString(v.String())
	case float64:
		d = decimal.NewFromFloat(v)
	case string:
		s := strings.TrimSpace(v)
		if !decimalPattern.MatchString(s) {
			return decimal.Zero, false
		}
		d, err = decimal.NewFromString(s)
	default:
		return decimal.Zero, false
	}
	if err != nil || !boundedExponent(d) {
		return decimal.Zero, false
	}
	return d, true
}

func boundedExponent(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= -maxExponent && exp <= maxExponent
}

// AsPositiveInt reads an identifier given either as a JSON number or as a
// string of digits. Zero, negatives and fractions are rejected.
func AsPositiveInt(value interface{}) (int64, bool) {
	var text string
	switch v := value.(type) {
	case json.Number:
		text = v.String()
	case float64:
		text = strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		text = strings.TrimSpace(v)
		if !digitsPattern.MatchString(text) {
			return 0, false
		}
	default:
		return 0, false
	}

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		d, derr := decimal.NewFromString(text)
		if derr != nil || !boundedExponent(d) || !d.IsInteger() || !d.IsPositive() {
			return 0, false
		}
		if !d.LessThanOrEqual(decimal.NewFromInt(1<<63 - 1)) {
			return 0, false
		}
		n = d.IntPart()
	}
	if n <= 0 {
		return 0, false
	}
	return n, true
}

// AsTimestamp reads an RFC 3339 timestamp, a calendar date, or epoch
// milliseconds. The result is always in UTC.
func AsTimestamp(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case json.Number:
		ms, err := v.Int64()
		if err != nil {
			return time.Time{}, false
		}
		return time.UnixMilli(ms).UTC(), true
	case float64:
		return time.UnixMilli(int64(v)).UTC(), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timestampLayouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}
