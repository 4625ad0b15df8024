package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) Repository {
	return &patientRepoPG{pool: pool}
}

func (r *patientRepoPG) conn() queryable { return r.pool }

func (r *patientRepoPG) scanRow(row pgx.Row) (*Patient, error) {
	var (
		p                   Patient
		address, dob, visit string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Mobile, &p.Email, &address,
		&p.Gender, &dob, &p.Diagnosis, &visit)
	if err != nil {
		return nil, err
	}
	p.Address = ParseAddress(address)
	p.DOB = ParseDate(dob)
	p.VisitDate = ParseDate(visit)
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	_, err := r.conn().Exec(ctx, `
		INSERT INTO patient (patient_id, name, mobile, email, address, gender, dob, diagnosis, visit_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.Name, p.Mobile, p.Email, p.Address.String(),
		p.Gender, p.DOB.String(), p.Diagnosis, p.VisitDate.String())
	if isUniqueViolation(err) {
		return ErrDuplicateID
	}
	return err
}

func (r *patientRepoPG) GetByID(ctx context.Context, id string) (*Patient, error) {
	p, err := r.scanRow(r.conn().QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient WHERE patient_id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn().Exec(ctx, `
		UPDATE patient SET name=$2, mobile=$3, email=$4, address=$5, gender=$6, dob=$7, diagnosis=$8, visit_date=$9
		WHERE patient_id = $1`,
		p.ID, p.Name, p.Mobile, p.Email, p.Address.String(),
		p.Gender, p.DOB.String(), p.Diagnosis, p.VisitDate.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientRepoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.conn().Exec(ctx, `DELETE FROM patient WHERE patient_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientRepoPG) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.conn().Exec(ctx, `DELETE FROM patient WHERE patient_id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete patients: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *patientRepoPG) List(ctx context.Context, q QueryContext, limit, offset int) ([]*Patient, int, error) {
	countSQL, countArgs := q.CountSQL()
	var total int
	if err := r.conn().QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sql, args := q.SelectSQL(limit, offset)
	rows, err := r.conn().Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *patientRepoPG) ListFiltered(ctx context.Context, q QueryContext) ([]*Patient, error) {
	sql, args := q.SelectAllSQL()
	return r.collect(ctx, sql, args...)
}

func (r *patientRepoPG) ListAll(ctx context.Context) ([]*Patient, error) {
	return r.collect(ctx, `SELECT `+patientCols+` FROM patient`)
}

func (r *patientRepoPG) collect(ctx context.Context, sql string, args ...interface{}) ([]*Patient, error) {
	rows, err := r.conn().Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
