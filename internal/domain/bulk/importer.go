package bulk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/schoolclinic/cms/internal/domain/patient"
	"github.com/schoolclinic/cms/pkg/normalize"
)

// errorSampleCap bounds the failure messages surfaced to the caller;
// the skip counter still covers every failed row.
const errorSampleCap = 5

// requiredColumns lists the nine canonical fields in report order. Key
// is the normalized header an upload must resolve; Label is the wording
// used in per-row error messages.
var requiredColumns = []struct {
	Field string
	Key   string
	Label string
}{
	{"patient_id", "patientid", "patient ID"},
	{"name", "name", "name"},
	{"mobile", "mobileno", "mobile number"},
	{"email", "email", "email"},
	{"address", "address", "address"},
	{"gender", "gender", "gender"},
	{"dob", "dateofbirth", "date of birth"},
	{"diagnosis", "diagnosis", "diagnosis"},
	{"visit_date", "visitdate", "visit date"},
}

// Result is the import outcome: Inserted+Skipped always equals the
// number of data rows in the file.
type Result struct {
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// Importer reconciles uploaded tables against the patient store.
type Importer struct {
	repo patient.Repository
	log  zerolog.Logger
}

func NewImporter(repo patient.Repository, log zerolog.Logger) *Importer {
	return &Importer{repo: repo, log: log}
}

// resolveColumns maps each canonical field to its column index in the
// header row, matching headers case- and punctuation-insensitively.
func resolveColumns(headers []string) (map[string]int, error) {
	byKey := make(map[string]int, len(headers))
	for i, h := range headers {
		key := normalize.ColumnName(h)
		if _, ok := byKey[key]; !ok {
			byKey[key] = i
		}
	}

	resolved := make(map[string]int, len(requiredColumns))
	var missing []string
	for _, col := range requiredColumns {
		if i, ok := byKey[col.Key]; ok {
			resolved[col.Field] = i
		} else {
			missing = append(missing, normalize.ProperCase(strings.ReplaceAll(col.Field, "_", " ")))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns in file: %s", strings.Join(missing, ", "))
	}
	return resolved, nil
}

// Import inserts every valid row of the table, committing per row so one
// bad row never aborts the rest of the file.
func (im *Importer) Import(ctx context.Context, table *Table) (*Result, error) {
	if len(table.Rows) == 0 {
		return nil, ErrNoRecords
	}
	resolved, err := resolveColumns(table.Headers)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	addError := func(msg string) {
		if len(res.Errors) < errorSampleCap {
			res.Errors = append(res.Errors, msg)
		}
	}

	for idx, row := range table.Rows {
		fileRow := idx + 2 // data rows start under the header

		values := make(map[string]string, len(requiredColumns))
		var missing []string
		for _, col := range requiredColumns {
			v := table.Cell(row, resolved[col.Field])
			values[col.Field] = v
			if v == "" {
				missing = append(missing, col.Label)
			}
		}
		if len(missing) > 0 {
			res.Skipped++
			addError(fmt.Sprintf("Row %d: Missing %s.", fileRow, strings.Join(missing, ", ")))
			continue
		}

		mobile, ok := normalize.Mobile(values["mobile"])
		if !ok {
			res.Skipped++
			addError(fmt.Sprintf("Row %d: Mobile number must follow +63 000 000 0000 format.", fileRow))
			continue
		}

		p := &patient.Patient{
			ID:        values["patient_id"],
			Name:      normalize.ProperCase(values["name"]),
			Mobile:    mobile,
			Email:     values["email"],
			Address:   patient.ParseAddress(normalize.ProperCase(values["address"])),
			Gender:    values["gender"],
			DOB:       patient.ParseDate(values["dob"]),
			Diagnosis: normalize.ProperCase(values["diagnosis"]),
			VisitDate: patient.ParseDate(values["visit_date"]),
		}

		switch err := im.repo.Create(ctx, p); {
		case err == nil:
			res.Inserted++
		case errors.Is(err, patient.ErrDuplicateID):
			res.Skipped++
			addError(fmt.Sprintf("Row %d: Patient ID already exists.", fileRow))
		default:
			res.Skipped++
			addError(fmt.Sprintf("Row %d: %v", fileRow, err))
			im.log.Warn().Err(err).Int("row", fileRow).Msg("import row failed")
		}
	}
	return res, nil
}
