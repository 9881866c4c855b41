package quake

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04:05"
	timeLayoutFrac = "15:04:05.000000"
)

// dateTimeLayouts lists the accepted date/time texts in the order they are tried.
// Numeric dates are read day first, so "03/04/2024" is 3 April 2024. Four-digit
// years are tried before two-digit ones. Seconds and the time part are optional;
// a fractional second after the seconds field is accepted by time.Parse without
// being named in the layout. UTC offsets and zone names are not accepted.
var dateTimeLayouts = withClock(
	// ISO-style, year first
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",

	// Day first, numeric
	"2.1.2006",
	"2/1/2006",
	"2-1-2006",
	"2.1.06",
	"2/1/06",
	"2-1-06",

	// Month names, English or Turkish (see monthNames)
	"2 January 2006",
	"2 Jan 2006",
	"2-Jan-2006",
	"January 2 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"2 Jan 06",
)

// withClock expands each date layout into its with-seconds, minutes-only and
// date-only variants. ISO dates also get the "T" separated forms.
func withClock(dates ...string) []string {
	layouts := make([]string, 0, len(dates)*5)
	for _, d := range dates {
		layouts = append(layouts, d+" 15:04:05", d+" 15:04")
		if d == dateLayout {
			layouts = append(layouts, d+"T15:04:05", d+"T15:04")
		}
		layouts = append(layouts, d)
	}
	return layouts
}

// monthNames maps folded Turkish month names and abbreviations to the English
// abbreviations time.Parse understands.
var monthNames = map[string]string{
	"ocak": "Jan", "oca": "Jan",
	"subat": "Feb", "sub": "Feb",
	"mart": "Mar",
	"nisan": "Apr", "nis": "Apr",
	"mayis": "May",
	"haziran": "Jun", "haz": "Jun",
	"temmuz": "Jul", "tem": "Jul",
	"agustos": "Aug", "agu": "Aug",
	"eylul": "Sep", "eyl": "Sep",
	"ekim": "Oct", "eki": "Oct",
	"kasim": "Nov", "kas": "Nov",
	"aralik": "Dec", "ara": "Dec",
}

// translateMonths rewrites Turkish month words in text to English abbreviations.
// All other words are left untouched.
func translateMonths(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		if en, ok := monthNames[foldLabel(w)]; ok && strings.IndexFunc(w, unicode.IsDigit) < 0 {
			words[i] = en
		}
	}
	return strings.Join(words, " ")
}

var errUnknownDateFormat = errors.New("unrecognized date/time format")

// ParseDateTime parses the free-form date/time text of the first table column.
// The result carries no zone information beyond UTC as a neutral placeholder; it is
// formatted back exactly as read.
func ParseDateTime(text string) (time.Time, error) {
	text = translateMonths(text)
	if text == "" {
		return time.Time{}, errors.New("empty date/time")
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errUnknownDateFormat
}

// FormatDate renders the calendar date of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatTime renders the time of day of t as HH:MM:SS, adding microseconds
// only when t has a fractional second.
func FormatTime(t time.Time) string {
	t = t.Truncate(time.Microsecond)
	if t.Nanosecond() != 0 {
		return t.Format(timeLayoutFrac)
	}
	return t.Format(timeLayout)
}

// FormatDateTime renders t as FormatDate + "T" + FormatTime.
func FormatDateTime(t time.Time) string {
	return JoinDateTime(FormatDate(t), FormatTime(t))
}

// JoinDateTime rebuilds the datetime field from its date and time parts.
func JoinDateTime(date, clock string) string {
	return date + "T" + clock
}
