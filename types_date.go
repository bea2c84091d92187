package tracker

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the canonical format used to write dates.
const DateFormat = "2006-01-02"

// readDateFormat is more permissive, it accepts 2025-7-1.
const readDateFormat = "2006-1-2"

// Date is a calendar day. Transactions are ordered by Date for FIFO matching.
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date, NewDate(2025, 2, 30) is March 2nd.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// DateOf returns the calendar day of t in its own location.
func DateOf(t time.Time) Date { return NewDate(t.Date()) }

// Today returns the current date.
func Today() Date { return DateOf(time.Now()) }

func (d Date) Year() int          { return d.y }
func (d Date) Month() time.Month  { return d.m }
func (d Date) Day() int           { return d.d }
func (d Date) String() string     { return d.time().Format(DateFormat) }
func (d Date) IsZero() bool       { return d == Date{} }
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }
func (d Date) After(x Date) bool  { return d.time().After(x.time()) }

// Add returns the date i days later (or earlier when i is negative).
func (d Date) Add(i int) Date { return NewDate(d.y, d.m, d.d+i) }

// canonical midnight UTC, comparable with ==.
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

var (
	relativeDateRE = regexp.MustCompile(`^([+-])(\d+)([dwmy])$`)
	monthDayDateRE = regexp.MustCompile(`^(?:(\d+)-)?(\d+)$`)
)

// ParseDate parses a date. Besides ISO dates (2025-07-01 or 2025-7-1) it
// accepts dates relative to today:
//
//	-1d, +2w, -3m, -1y   days, weeks, months or years from today
//	27, 8-27             day of the current month, or month-day of the current year
//	0                    last day of the previous month
func ParseDate(str string) (Date, error) {
	str = strings.TrimSpace(str)
	today := Today()

	if m := relativeDateRE.FindStringSubmatch(str); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return Date{}, fmt.Errorf("invalid relative date %q: %w", str, err)
		}
		if m[1] == "-" {
			n = -n
		}
		switch m[3] {
		case "d":
			return today.Add(n), nil
		case "w":
			return today.Add(7 * n), nil
		case "m":
			return NewDate(today.y, today.m+time.Month(n), today.d), nil
		case "y":
			return NewDate(today.y+n, today.m, today.d), nil
		}
	}

	if m := monthDayDateRE.FindStringSubmatch(str); m != nil {
		day, err := strconv.Atoi(m[2])
		if err != nil {
			return Date{}, fmt.Errorf("invalid day in date %q: %w", str, err)
		}
		year, month := today.y, today.m
		if m[1] != "" {
			mm, err := strconv.Atoi(m[1])
			if err != nil {
				return Date{}, fmt.Errorf("invalid month in date %q: %w", str, err)
			}
			month = time.Month(mm)
		}
		// day 0 normalizes to the last day of the previous month
		return NewDate(year, month, day), nil
	}

	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		// timestamps are accepted, only their day is kept
		if ts, terr := time.Parse(time.RFC3339, str); terr == nil {
			return DateOf(ts), nil
		}
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, DateFormat, err)
	}
	return NewDate(on.Date()), nil
}

// MustParseDate is like ParseDate but panics on error.
func MustParseDate(str string) Date {
	d, err := ParseDate(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// UnmarshalJSON is strict: data files only hold ISO dates.
func (d *Date) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		return fmt.Errorf("invalid date %q, want format %q: %w", str, DateFormat, err)
	}
	*d = NewDate(on.Date())
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
