package patient

import (
	"strings"
	"testing"
)

func TestQueryContext_DefaultsWhenEmpty(t *testing.T) {
	q := QueryContext{}.Normalized()
	if q.SortField != "patient_id" || q.SortOrder != "ASC" {
		t.Errorf("got %+v", q)
	}
	if q.FilterField != "" {
		t.Errorf("expected no filter, got %q", q.FilterField)
	}
}

func TestQueryContext_RejectsUnlistedFilterField(t *testing.T) {
	q := QueryContext{FilterField: "password; DROP TABLE patient", FilterTerm: "x"}
	sql, args := q.SelectSQL(10, 0)
	if strings.Contains(sql, "DROP") || strings.Contains(sql, "password") {
		t.Fatalf("unlisted field reached the statement: %s", sql)
	}
	if strings.Contains(sql, "WHERE") {
		t.Errorf("expected no filter clause, got: %s", sql)
	}
	if len(args) != 2 { // just limit + offset
		t.Errorf("args = %v", args)
	}
}

func TestQueryContext_FilterTermIsBound(t *testing.T) {
	q := QueryContext{FilterField: "name", FilterTerm: "Dela"}
	sql, args := q.SelectSQL(10, 0)
	if !strings.Contains(sql, "WHERE LOWER(name) LIKE $1") {
		t.Errorf("unexpected filter clause: %s", sql)
	}
	if len(args) != 3 || args[0] != "%dela%" {
		t.Errorf("args = %v", args)
	}
}

func TestQueryContext_BlankTermMeansNoFilter(t *testing.T) {
	q := QueryContext{FilterField: "name", FilterTerm: "   "}
	sql, _ := q.SelectSQL(10, 0)
	if strings.Contains(sql, "WHERE") {
		t.Errorf("blank term should not filter: %s", sql)
	}
}

func TestQueryContext_PatientIDOrdering(t *testing.T) {
	// Two-tier ordering: numeric IDs first compared as numbers, then the
	// non-numeric rest lexicographically. Given IDs 10, 2, abc, 1 the
	// ascending result must be 1, 2, 10, abc.
	sql, _ := QueryContext{SortField: "patient_id", SortOrder: "ASC"}.SelectSQL(10, 0)
	wantNumeric := `CASE WHEN patient_id ~ '^[0-9]+$' THEN patient_id::numeric END`
	if !strings.Contains(sql, "("+wantNumeric+" IS NULL) ASC") {
		t.Errorf("numeric group must sort first: %s", sql)
	}
	if !strings.Contains(sql, wantNumeric+" ASC, patient_id ASC") {
		t.Errorf("missing numeric-then-lexicographic ordering: %s", sql)
	}
}

func TestQueryContext_PatientIDDescendingKeepsNumericGroupFirst(t *testing.T) {
	sql, _ := QueryContext{SortField: "patient_id", SortOrder: "DESC"}.SelectSQL(10, 0)
	if !strings.Contains(sql, "IS NULL) ASC") {
		t.Errorf("non-numeric IDs must sort last regardless of direction: %s", sql)
	}
	if !strings.Contains(sql, "patient_id DESC") {
		t.Errorf("direction not applied inside the groups: %s", sql)
	}
}

func TestQueryContext_DateOrderingIsCalendar(t *testing.T) {
	for _, field := range []string{"dob", "visit_date"} {
		sql, _ := QueryContext{SortField: field, SortOrder: "ASC"}.SelectSQL(10, 0)
		// A YYYYMMDD key derived from the M/D/YYYY text, never plain
		// lexicographic ordering of the raw column.
		if !strings.Contains(sql, "split_part("+field+", '/', 3)") {
			t.Errorf("%s: missing year-first sort key: %s", field, sql)
		}
		if !strings.Contains(sql, "NULLS LAST") {
			t.Errorf("%s: unparsable dates must sort last: %s", field, sql)
		}
		if strings.Contains(sql, "ORDER BY "+field+" ASC") {
			t.Errorf("%s: raw string ordering is wrong for dates: %s", field, sql)
		}
	}
}

func TestQueryContext_InvalidSortFallsBack(t *testing.T) {
	sql, _ := QueryContext{SortField: "mobile", SortOrder: "sideways"}.SelectSQL(10, 0)
	if !strings.Contains(sql, "patient_id ASC") {
		t.Errorf("expected fallback to patient_id ASC: %s", sql)
	}
}

func TestQueryContext_NameSort(t *testing.T) {
	sql, _ := QueryContext{SortField: "name", SortOrder: "DESC"}.SelectSQL(10, 0)
	if !strings.Contains(sql, "ORDER BY name DESC") {
		t.Errorf("got: %s", sql)
	}
}

func TestQueryContext_CountSharesFilter(t *testing.T) {
	q := QueryContext{FilterField: "diagnosis", FilterTerm: "Flu"}
	sql, args := q.CountSQL()
	if sql != "SELECT COUNT(*) FROM patient WHERE LOWER(diagnosis) LIKE $1" {
		t.Errorf("got: %s", sql)
	}
	if len(args) != 1 || args[0] != "%flu%" {
		t.Errorf("args = %v", args)
	}
}

func TestQueryContext_SelectAllHasNoLimit(t *testing.T) {
	q := QueryContext{FilterField: "gender", FilterTerm: "Female", SortField: "name"}
	sql, args := q.SelectAllSQL()
	if strings.Contains(sql, "LIMIT") || strings.Contains(sql, "OFFSET") {
		t.Errorf("export query must not be paginated: %s", sql)
	}
	if !strings.Contains(sql, "WHERE LOWER(gender) LIKE $1") || !strings.Contains(sql, "ORDER BY name ASC") {
		t.Errorf("got: %s", sql)
	}
	if len(args) != 1 || args[0] != "%female%" {
		t.Errorf("args = %v", args)
	}
}
