// Package period provides the fiscal period value type used across the
// analyzer: a calendar month within a year, as declared by SPED ledger
// headers and DCTF reports.
package period

import (
	"encoding/json"
	"fmt"
	"time"
)

// Period represents one fiscal reporting period with month granularity.
type Period struct {
	m time.Month
	y int
}

// MinYear is the oldest year accepted in a fiscal period. SPED itself did not
// exist before 2007, but government test files dated in the 2000s do circulate.
const MinYear = 2000

// New returns the period for the given year and month, or an error when the
// pair is out of the accepted range.
func New(year int, month time.Month) (Period, error) {
	if month < time.January || month > time.December {
		return Period{}, fmt.Errorf("invalid month %d: want 1..12", month)
	}
	if year < MinYear {
		return Period{}, fmt.Errorf("invalid year %d: want >= %d", year, MinYear)
	}
	return Period{m: month, y: year}, nil
}

// MustNew is like New but panics on error.
func MustNew(year int, month time.Month) Period {
	p, err := New(year, month)
	if err != nil {
		panic(err.Error())
	}
	return p
}

// Month returns the period's month.
func (p Period) Month() time.Month { return p.m }

// Year returns the period's year.
func (p Period) Year() int { return p.y }

// IsZero reports whether p is the zero period (no period derived yet).
func (p Period) IsZero() bool { return p.m == 0 && p.y == 0 }

// String formats the period in its standard "mm/yyyy" form.
func (p Period) String() string { return fmt.Sprintf("%02d/%04d", p.m, p.y) }

// Parse parses a Period from its standard "mm/yyyy" form.
func Parse(str string) (Period, error) {
	var m, y int
	if _, err := fmt.Sscanf(str, "%d/%d", &m, &y); err != nil {
		return Period{}, fmt.Errorf("invalid period %q want format %q: %w", str, "mm/yyyy", err)
	}
	return New(y, time.Month(m))
}

// FromSPEDDate derives the period from a SPED date token in "ddmmyyyy" form,
// as found in the opening record of every ledger family.
func FromSPEDDate(tok string) (Period, error) {
	if len(tok) != 8 {
		return Period{}, fmt.Errorf("invalid SPED date %q: want 8 digits ddmmyyyy", tok)
	}
	var d, m, y int
	if _, err := fmt.Sscanf(tok, "%2d%2d%4d", &d, &m, &y); err != nil {
		return Period{}, fmt.Errorf("invalid SPED date %q: %w", tok, err)
	}
	if d < 1 || d > 31 {
		return Period{}, fmt.Errorf("invalid SPED date %q: day %d out of range", tok, d)
	}
	return New(y, time.Month(m))
}

// MarshalJSON implements the json marshalling of a period as its "mm/yyyy" string.
func (p Period) MarshalJSON() ([]byte, error) {
	str := p.String()
	return json.Marshal(&str)
}

// UnmarshalJSON implements the json specific way to unmarshal a period from a json string.
func (p *Period) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	parsed, err := Parse(str)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// check that a Period pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Period)(nil)
var _ json.Unmarshaler = (*Period)(nil)
