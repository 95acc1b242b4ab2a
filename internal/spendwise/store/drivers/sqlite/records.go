package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/spendwise-app/spendwise/internal/spendwise/domain"
	"github.com/spendwise-app/spendwise/internal/spendwise/store"
	"github.com/spendwise-app/spendwise/pkg/idx"
)

type recordsRepo struct {
	db *sql.DB
}

const recordColumns = `id, owner_id, title, description, category, date, amount, created_at, updated_at`

func (r *recordsRepo) Create(ctx context.Context, rec *domain.Record, kind domain.Kind) error {
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO records (id, owner_id, kind, title, description, category, date, amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.OwnerID.String(), string(kind),
		rec.Title, rec.Description, rec.Category, rec.Date.String(), rec.Amount,
		rec.CreatedAt, rec.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *recordsRepo) Get(ctx context.Context, kind domain.Kind, owner, id idx.ID) (domain.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE id = ? AND owner_id = ? AND kind = ?`,
		id.String(), owner.String(), string(kind))
	return scanRecord(row)
}

func (r *recordsRepo) ListByOwner(ctx context.Context, kind domain.Kind, owner idx.ID) ([]domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE owner_id = ? AND kind = ?
		ORDER BY date DESC, id DESC`,
		owner.String(), string(kind))
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

func (r *recordsRepo) ListByOwnerBetween(ctx context.Context, kind domain.Kind, owner idx.ID, from, to domain.Date) ([]domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE owner_id = ? AND kind = ? AND date >= ? AND date <= ?
		ORDER BY date DESC, id DESC`,
		owner.String(), string(kind), from.String(), to.String())
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

func (r *recordsRepo) Update(ctx context.Context, rec *domain.Record, kind domain.Kind) error {
	rec.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		UPDATE records
		SET title = ?, description = ?, category = ?, date = ?, amount = ?, updated_at = ?
		WHERE id = ? AND owner_id = ? AND kind = ?`,
		rec.Title, rec.Description, rec.Category, rec.Date.String(), rec.Amount, rec.UpdatedAt,
		rec.ID.String(), rec.OwnerID.String(), string(kind))
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *recordsRepo) Delete(ctx context.Context, kind domain.Kind, owner, id idx.ID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM records
		WHERE id = ? AND owner_id = ? AND kind = ?`,
		id.String(), owner.String(), string(kind))
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *recordsRepo) Aggregate(ctx context.Context, kind domain.Kind, owner idx.ID) (store.Aggregate, error) {
	var agg store.Aggregate
	var total sql.NullFloat64
	var min, max sql.NullFloat64

	err := r.db.QueryRowContext(ctx, `
		SELECT SUM(amount), MIN(amount), MAX(amount)
		FROM records
		WHERE owner_id = ? AND kind = ?`,
		owner.String(), string(kind)).Scan(&total, &min, &max)
	if err != nil {
		return store.Aggregate{}, err
	}

	if total.Valid {
		agg.Total = total.Float64
	}
	if min.Valid {
		agg.Min = &min.Float64
	}
	if max.Valid {
		agg.Max = &max.Float64
	}
	return agg, nil
}

func (r *recordsRepo) LatestByDate(ctx context.Context, kind domain.Kind, owner idx.ID) (domain.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE owner_id = ? AND kind = ?
		ORDER BY date DESC, id DESC
		LIMIT 1`,
		owner.String(), string(kind))
	return scanRecord(row)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecordFrom(sc rowScanner) (domain.Record, error) {
	var rec domain.Record
	var id, owner, date string
	err := sc.Scan(&id, &owner, &rec.Title, &rec.Description, &rec.Category,
		&date, &rec.Amount, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return domain.Record{}, err
	}
	if rec.ID, err = parseID(id); err != nil {
		return domain.Record{}, err
	}
	if rec.OwnerID, err = parseID(owner); err != nil {
		return domain.Record{}, err
	}
	if rec.Date, err = domain.ParseDate(date); err != nil {
		return domain.Record{}, err
	}
	return rec, nil
}

func scanRecord(row *sql.Row) (domain.Record, error) {
	rec, err := scanRecordFrom(row)
	if err != nil {
		return domain.Record{}, mapNotFound(err)
	}
	return rec, nil
}

func collectRecords(rows *sql.Rows) ([]domain.Record, error) {
	defer rows.Close()

	out := []domain.Record{}
	for rows.Next() {
		rec, err := scanRecordFrom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
