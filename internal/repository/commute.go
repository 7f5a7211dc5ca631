package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/commutelog/api/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrCommuteNotFound = errors.New("commute not found")
)

type CommuteRepository interface {
	Create(ctx context.Context, commute *model.Commute) error
	Commutes(ctx context.Context, userID int64) ([]*model.Commute, error)
	ByID(ctx context.Context, userID, commuteID int64) (*model.Commute, error)
	Update(ctx context.Context, commute *model.Commute) error
	SetImage(ctx context.Context, userID, commuteID int64, image string) (*string, error)
	Delete(ctx context.Context, userID, commuteID int64) (*string, error)
}

type commuteRepository struct {
	db *sqlx.DB
}

func NewCommuteRepository(db *sqlx.DB) CommuteRepository {
	return &commuteRepository{db: db}
}

func (r *commuteRepository) Create(ctx context.Context, commute *model.Commute) error {
	query := `INSERT INTO commutes (user_id, from_label, to_label, mode, start_time, end_time, duration_min,
	          purpose, notes, start_lat, start_lng, end_lat, end_lng, distance_km)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := insert(ctx, r.db, query,
		commute.UserID,
		commute.FromLabel,
		commute.ToLabel,
		commute.Mode,
		commute.StartTime,
		commute.EndTime,
		commute.DurationMin,
		commute.Purpose,
		commute.Notes,
		commute.StartLat,
		commute.StartLng,
		commute.EndLat,
		commute.EndLng,
		commute.DistanceKm,
	)
	if err != nil {
		return err
	}

	commute.ID = id
	return nil
}

// Commutes lists a user's commutes, most recent start first. Commutes
// without a start time sort last on every dialect.
func (r *commuteRepository) Commutes(ctx context.Context, userID int64) ([]*model.Commute, error) {
	commutes := []*model.Commute{}
	query := r.db.Rebind(`SELECT * FROM commutes WHERE user_id = ? ORDER BY start_time IS NULL, start_time DESC, id DESC`)

	err := r.db.SelectContext(ctx, &commutes, query, userID)
	if err != nil {
		return nil, err
	}

	return commutes, nil
}

func (r *commuteRepository) ByID(ctx context.Context, userID, commuteID int64) (*model.Commute, error) {
	commute := &model.Commute{}
	query := r.db.Rebind(`SELECT * FROM commutes WHERE id = ? AND user_id = ?`)

	err := r.db.GetContext(ctx, commute, query, commuteID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCommuteNotFound
	}
	if err != nil {
		return nil, err
	}

	return commute, nil
}

// Update overwrites every attribute except id, user_id and image. The
// ownership predicate is part of the statement, so a commute owned by
// someone else is reported as not found.
func (r *commuteRepository) Update(ctx context.Context, commute *model.Commute) error {
	query := r.db.Rebind(`UPDATE commutes
	          SET from_label = ?, to_label = ?, mode = ?, start_time = ?, end_time = ?, duration_min = ?,
	              purpose = ?, notes = ?, start_lat = ?, start_lng = ?, end_lat = ?, end_lng = ?, distance_km = ?
	          WHERE id = ? AND user_id = ?`)

	result, err := r.db.ExecContext(ctx, query,
		commute.FromLabel,
		commute.ToLabel,
		commute.Mode,
		commute.StartTime,
		commute.EndTime,
		commute.DurationMin,
		commute.Purpose,
		commute.Notes,
		commute.StartLat,
		commute.StartLng,
		commute.EndLat,
		commute.EndLng,
		commute.DistanceKm,
		commute.ID,
		commute.UserID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrCommuteNotFound
	}

	return nil
}

// SetImage attaches image to an owned commute and returns the filename it replaced.
func (r *commuteRepository) SetImage(ctx context.Context, userID, commuteID int64, image string) (*string, error) {
	var previous *string

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &previous, tx.Rebind(`SELECT image FROM commutes WHERE id = ? AND user_id = ?`+forUpdate(tx)), commuteID, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCommuteNotFound
		}
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE commutes SET image = ? WHERE id = ? AND user_id = ?`), image, commuteID, userID)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if rows == 0 {
			return ErrCommuteNotFound
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return previous, nil
}

// Delete removes an owned commute and returns its image filename, if any.
func (r *commuteRepository) Delete(ctx context.Context, userID, commuteID int64) (*string, error) {
	var image *string

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &image, tx.Rebind(`SELECT image FROM commutes WHERE id = ? AND user_id = ?`+forUpdate(tx)), commuteID, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCommuteNotFound
		}
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM commutes WHERE id = ? AND user_id = ?`), commuteID, userID)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if rows == 0 {
			return ErrCommuteNotFound
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return image, nil
}
