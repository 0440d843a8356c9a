// Package normalize holds the pure value-normalization helpers shared by the
// import pipeline and the status reconciliation loop. The three spreadsheet
// sources are edited by hand, so every join key passes through here first.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	headerStripRe = regexp.MustCompile(`[^a-zа-яё0-9%]+`)
	blockRunRe    = regexp.MustCompile(`[\s_–—-]+`)
	slugStripRe   = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)
	slugDashRe    = regexp.MustCompile(`-{2,}`)
)

// cyrToLat maps Cyrillic letters that have Latin look-alikes. Block names
// arrive spelled in either alphabet depending on which document they came
// from; transliterating the ambiguous letters makes the spellings collide.
var cyrToLat = map[rune]string{
	'А': "A", 'а': "a",
	'В': "V", 'в': "v",
	'С': "S", 'с': "s",
	'Е': "E", 'е': "e",
	'К': "K", 'к': "k",
	'М': "M", 'м': "m",
	'Н': "N", 'н': "n",
	'О': "O", 'о': "o",
	'Р': "R", 'р': "r",
	'Т': "T", 'т': "t",
	'Х': "H", 'х': "h",
	'У': "U", 'у': "u",
}

// Header lowercases a spreadsheet header and strips everything outside
// letters, digits and '%'. The result is only ever used for alias lookup.
func Header(value string) string {
	return headerStripRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(value)), "")
}

// BlockName produces the canonical join key for a block: transliterate the
// Cyrillic look-alikes, lowercase, collapse whitespace/underscore/dash runs
// into single hyphens.
func BlockName(value string) string {
	s := strings.TrimSpace(value)
	var b strings.Builder
	for _, r := range s {
		if lat, ok := cyrToLat[r]; ok {
			b.WriteString(lat)
			continue
		}
		b.WriteRune(r)
	}
	s = strings.ToLower(b.String())
	return blockRunRe.ReplaceAllString(s, "-")
}

// UnitNumber trims whitespace only. Unit numbers are opaque strings, not
// integers, since some catalogs use alphanumeric unit codes.
func UnitNumber(value string) string {
	return strings.TrimSpace(value)
}

// Area parses a comma-or-dot decimal and formats it to a fixed two-decimal
// string so that "65", "65.0" and "65,00" all produce the same cache key.
// Unparseable input is returned trimmed, so the caller still gets a stable
// (if useless) key instead of an error.
func Area(value string) string {
	text := strings.TrimSpace(value)
	f, err := Float(text)
	if err != nil {
		if text == "" {
			return "unknown"
		}
		return text
	}
	return fmt.Sprintf("%.2f", f)
}

// AreaFloat is Area for values already held as float64.
func AreaFloat(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

// Slug builds a filesystem/URL-safe segment while preserving Cyrillic
// letters, used for complex directories and cached plan file names.
func Slug(value string) string {
	s := strings.ToLower(strings.TrimSpace(value))
	s = slugStripRe.ReplaceAllString(s, "-")
	s = slugDashRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "unknown"
	}
	return s
}

// Int coerces a spreadsheet cell to an integer. Accepts dot and comma decimal
// separators ("5,0" -> 5); empty and unparseable cells yield (0, false).
func Int(value string) (int, bool) {
	f, err := Float(value)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

// Float coerces a spreadsheet cell to a float64. Strips ordinary and
// non-breaking spaces used as thousands separators and accepts both decimal
// separators.
func Float(value string) (float64, error) {
	cleaned := strings.NewReplacer(" ", "", " ", "", ",", ".").Replace(strings.TrimSpace(value))
	if cleaned == "" {
		return 0, fmt.Errorf("empty numeric cell")
	}
	return strconv.ParseFloat(cleaned, 64)
}

var dateFormats = []string{"02.01.2006", "2006-01-02"}

// Date coerces a cell to a date. Two fixed formats are accepted; anything
// else yields (zero, false) rather than failing the row.
func Date(value string) (time.Time, bool) {
	text := strings.TrimSpace(value)
	if text == "" {
		return time.Time{}, false
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
