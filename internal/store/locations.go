package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/goodsledger/internal/model"
)

// CreateStock creates a stock location for a department.
func CreateStock(ctx context.Context, db *sql.DB, department string, code *int) (*model.Location, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := insertLocation(ctx, tx, model.LocationStock)
	if err != nil {
		return nil, err
	}

	var nullCode sql.NullInt64
	if code != nil {
		nullCode = sql.NullInt64{Int64: int64(*code), Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO stocks (location_id, department, code) VALUES (?, ?, ?)`,
		id, department, nullCode,
	); err != nil {
		return nil, fmt.Errorf("creating stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing stock: %w", err)
	}

	return GetLocation(ctx, db, id)
}

// CreateStaff creates a staff member location.
func CreateStaff(ctx context.Context, db *sql.DB, surname, forename, patronymic string) (*model.Location, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := insertLocation(ctx, tx, model.LocationStaff)
	if err != nil {
		return nil, err
	}

	var nullPatronymic sql.NullString
	if patronymic != "" {
		nullPatronymic = sql.NullString{String: patronymic, Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO staff (location_id, surname, forename, patronymic) VALUES (?, ?, ?, ?)`,
		id, surname, forename, nullPatronymic,
	); err != nil {
		return nil, fmt.Errorf("creating staff: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing staff: %w", err)
	}

	return GetLocation(ctx, db, id)
}

func insertLocation(ctx context.Context, q Querier, kind model.LocationKind) (int64, error) {
	result, err := q.ExecContext(ctx, `INSERT INTO locations (kind) VALUES (?)`, string(kind))
	if err != nil {
		return 0, fmt.Errorf("creating location: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting location id: %w", err)
	}
	return id, nil
}

// GetLocation returns a location by ID together with the stock or staff
// record that owns it.
func GetLocation(ctx context.Context, q Querier, id int64) (*model.Location, error) {
	l := &model.Location{}
	var kind string
	var department, surname, forename, patronymic sql.NullString
	var code sql.NullInt64
	err := q.QueryRowContext(ctx,
		`SELECT l.id, l.kind, l.created_at,
		        s.department, s.code, st.surname, st.forename, st.patronymic
		 FROM locations l
		 LEFT JOIN stocks s ON s.location_id = l.id
		 LEFT JOIN staff st ON st.location_id = l.id
		 WHERE l.id = ?`, id,
	).Scan(&l.ID, &kind, &l.CreatedAt, &department, &code, &surname, &forename, &patronymic)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting location: %w", err)
	}

	l.Kind = model.LocationKind(kind)
	switch l.Kind {
	case model.LocationStock:
		if !department.Valid {
			return nil, fmt.Errorf("location %d has no stock record", id)
		}
		l.Stock = &model.Stock{Department: department.String}
		if code.Valid {
			c := int(code.Int64)
			l.Stock.Code = &c
		}
	case model.LocationStaff:
		if !surname.Valid {
			return nil, fmt.Errorf("location %d has no staff record", id)
		}
		l.Staff = &model.Staff{
			Surname:    surname.String,
			Forename:   forename.String,
			Patronymic: patronymic.String,
		}
	default:
		return nil, fmt.Errorf("location %d has unknown kind %q", id, kind)
	}
	return l, nil
}

// ResolveLocation returns the location with the given ID or a not-found failure.
func ResolveLocation(ctx context.Context, q Querier, id int64) (*model.Location, error) {
	l, err := GetLocation(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, model.NotFound(model.CodeLocationNotFound, "location %d not found", id)
	}
	return l, nil
}
