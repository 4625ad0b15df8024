package patient

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/schoolclinic/cms/pkg/normalize"
)

var (
	// ErrNotFound is returned when no record matches the requested ID.
	ErrNotFound = errors.New("patient not found")
	// ErrDuplicateID is returned when an insert collides with an existing
	// patient_id.
	ErrDuplicateID = errors.New("patient ID already exists")
)

// dateLayout is the external M/D/YYYY contract used by the patient table,
// import files and exports. Go's "1/2" verbs also accept zero-padded input.
const dateLayout = "1/2/2006"

// Date wraps a clinic date stored as M/D/YYYY text. The raw string is kept
// so unparsable legacy values round-trip unchanged instead of being
// rejected or rewritten.
type Date struct {
	Time  time.Time
	Valid bool
	raw   string
}

// ParseDate interprets s as an M/D/YYYY date. Parsing never fails: an
// unrecognized value yields an invalid Date that still remembers s.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{raw: s}
	}
	return Date{Time: t, Valid: true, raw: s}
}

// DateOf builds a valid Date from a time value, truncated to the day.
func DateOf(t time.Time) Date {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Date{Time: day, Valid: true, raw: day.Format(dateLayout)}
}

// String renders the stored form: non-zero-padded M/D/YYYY when valid,
// the original raw text otherwise.
func (d Date) String() string {
	if d.Valid {
		return d.Time.Format(dateLayout)
	}
	return d.raw
}

// IsZero reports whether the field was absent entirely.
func (d Date) IsZero() bool { return !d.Valid && d.raw == "" }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*d = ParseDate(s)
	return nil
}

// Address keeps the flat comma-joined string the storage schema expects
// alongside the positional segments the analytics layer consumes. Segments
// are the cleaned (proper-cased, non-empty) comma-separated parts in
// street, barangay, municipality, province order; a short address simply
// leaves the later fields empty.
type Address struct {
	Raw          string
	Street       string
	Barangay     string
	Municipality string
	Province     string
}

// ParseAddress splits raw on commas and assigns the cleaned segments
// positionally. Malformed addresses are not rejected; they just produce
// fewer segments.
func ParseAddress(raw string) Address {
	a := Address{Raw: strings.TrimSpace(raw)}
	var parts []string
	for _, part := range strings.Split(a.Raw, ",") {
		if cleaned := normalize.ProperCase(part); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	fields := []*string{&a.Street, &a.Barangay, &a.Municipality, &a.Province}
	for i, p := range parts {
		if i >= len(fields) {
			break
		}
		*fields[i] = p
	}
	return a
}

// String returns the flat stored form unchanged.
func (a Address) String() string { return a.Raw }

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Raw)
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = ParseAddress(s)
	return nil
}

// Patient maps to the patient table. Every column is stored as text; the
// typed Date and Address fields are converted at the repository boundary.
type Patient struct {
	ID        string  `db:"patient_id" json:"patient_id"`
	Name      string  `db:"name" json:"name"`
	Mobile    string  `db:"mobile" json:"mobile"`
	Email     string  `db:"email" json:"email"`
	Address   Address `db:"address" json:"address"`
	Gender    string  `db:"gender" json:"gender"`
	DOB       Date    `db:"dob" json:"dob"`
	Diagnosis string  `db:"diagnosis" json:"diagnosis"`
	VisitDate Date    `db:"visit_date" json:"visit_date"`
}
