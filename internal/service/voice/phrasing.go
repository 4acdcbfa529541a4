package voice

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

const dateLayout = "Monday, 2 January"

// countNoun renders "1 item" / "3 items".
func countNoun(n int, singular, plural string) string {
	return fmt.Sprintf("%d %s", n, noun(n, singular, plural))
}

func noun(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

func formatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

// dayOffset counts calendar days from now to t in loc, so 23:00 today to
// 01:00 tomorrow is one day.
func dayOffset(now, t time.Time, loc *time.Location) int {
	a := now.In(loc)
	b := t.In(loc)
	start := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, loc)
	end := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, loc)
	return int(math.Round(end.Sub(start).Hours() / 24))
}

// dayQualifier is empty beyond a week or in the past.
func dayQualifier(offset int) string {
	switch {
	case offset == 0:
		return "today"
	case offset == 1:
		return "tomorrow"
	case offset >= 2 && offset <= 7:
		return fmt.Sprintf("in %d days", offset)
	default:
		return ""
	}
}

func joinWith(items []string, conj string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " " + conj + " " + items[len(items)-1]
	}
}

func joinOr(items []string) string  { return joinWith(items, "or") }
func joinAnd(items []string) string { return joinWith(items, "and") }

// wordSet matches any of words or phrases as whole words, so "top" does not
// fire on "stop" nor "delivered" on "undelivered".
func wordSet(words ...string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
