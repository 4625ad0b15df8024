package patient

import (
	"fmt"
	"strings"
)

const patientCols = `patient_id, name, mobile, email, address, gender, dob, diagnosis, visit_date`

// filterColumns is the sole defense against interpolating unsanitized
// column names into a statement; the term itself is always bound.
var filterColumns = map[string]bool{
	"patient_id": true, "name": true, "mobile": true, "email": true,
	"address": true, "gender": true, "dob": true, "diagnosis": true,
	"visit_date": true,
}

var sortColumns = map[string]bool{
	"patient_id": true, "name": true, "dob": true, "visit_date": true,
}

// dateColumns store M/D/YYYY text and need a calendar interpretation
// when used for ordering.
var dateColumns = map[string]bool{"dob": true, "visit_date": true}

// QueryContext is the immutable filter and sort state the caller passes
// in on every fetch. Fields outside the whitelists fall back to their
// defaults rather than reaching the statement.
type QueryContext struct {
	FilterField string
	FilterTerm  string
	SortField   string
	SortOrder   string
}

// Normalized returns a copy with out-of-whitelist values replaced by the
// defaults: no filter, sort by patient_id ascending.
func (q QueryContext) Normalized() QueryContext {
	if !filterColumns[q.FilterField] || strings.TrimSpace(q.FilterTerm) == "" {
		q.FilterField = ""
		q.FilterTerm = ""
	}
	if !sortColumns[q.SortField] {
		q.SortField = "patient_id"
	}
	if q.SortOrder != "ASC" && q.SortOrder != "DESC" {
		q.SortOrder = "ASC"
	}
	return q
}

func (q QueryContext) whereClause() (string, []interface{}) {
	if q.FilterField == "" {
		return "", nil
	}
	clause := fmt.Sprintf(" WHERE LOWER(%s) LIKE $1", q.FilterField)
	return clause, []interface{}{"%" + strings.ToLower(strings.TrimSpace(q.FilterTerm)) + "%"}
}

// orderClause builds the ORDER BY fragment. patient_id gets the two-tier
// ordering: fully numeric IDs first, compared as numbers, then the rest
// lexicographically. The numeric group always leads regardless of
// direction. Date columns are reordered by a derived YYYYMMDD key built
// from the M/D/YYYY text; values that do not match the shape sort last.
func (q QueryContext) orderClause() string {
	switch {
	case q.SortField == "patient_id":
		numeric := `CASE WHEN patient_id ~ '^[0-9]+$' THEN patient_id::numeric END`
		return fmt.Sprintf(
			" ORDER BY (%s IS NULL) ASC, %s %s, patient_id %s",
			numeric, numeric, q.SortOrder, q.SortOrder,
		)
	case dateColumns[q.SortField]:
		key := fmt.Sprintf(
			`CASE WHEN %[1]s ~ '^[0-9]{1,2}/[0-9]{1,2}/[0-9]{4}$' THEN `+
				`split_part(%[1]s, '/', 3) || lpad(split_part(%[1]s, '/', 1), 2, '0') || lpad(split_part(%[1]s, '/', 2), 2, '0') END`,
			q.SortField,
		)
		return fmt.Sprintf(" ORDER BY %s %s NULLS LAST", key, q.SortOrder)
	default:
		return fmt.Sprintf(" ORDER BY %s %s", q.SortField, q.SortOrder)
	}
}

// SelectSQL returns the parameterized read statement and its bound
// arguments, with LIMIT/OFFSET appended as the trailing parameters.
func (q QueryContext) SelectSQL(limit, offset int) (string, []interface{}) {
	q = q.Normalized()
	where, args := q.whereClause()
	sql := fmt.Sprintf(
		"SELECT %s FROM patient%s%s LIMIT $%d OFFSET $%d",
		patientCols, where, q.orderClause(), len(args)+1, len(args)+2,
	)
	return sql, append(args, limit, offset)
}

// SelectAllSQL is SelectSQL without the LIMIT/OFFSET tail, for export
// paths that dump the whole filtered view.
func (q QueryContext) SelectAllSQL() (string, []interface{}) {
	q = q.Normalized()
	where, args := q.whereClause()
	sql := fmt.Sprintf("SELECT %s FROM patient%s%s", patientCols, where, q.orderClause())
	return sql, args
}

// CountSQL returns the matching count statement for the same filter.
func (q QueryContext) CountSQL() (string, []interface{}) {
	q = q.Normalized()
	where, args := q.whereClause()
	return "SELECT COUNT(*) FROM patient" + where, args
}
