package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/commutelog/api/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

// userColumns is the safe projection returned to API clients.
const userColumns = `id, username, name, email, phone, image`

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Users(ctx context.Context) ([]*model.User, error)
	ByID(ctx context.Context, id int64) (*model.User, error)
	ByEmail(ctx context.Context, email string) ([]*model.User, error)
	Update(ctx context.Context, user *model.User, withPassword bool) error
	SetImage(ctx context.Context, id int64, image *string) (*string, error)
	Delete(ctx context.Context, id int64) ([]string, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, name, email, password_hash, phone) VALUES (?, ?, ?, ?, ?)`

	id, err := insert(ctx, r.db, query, user.Username, user.Name, user.Email, user.PasswordHash, user.Phone)
	if err != nil {
		return err
	}

	user.ID = id
	return nil
}

func (r *userRepository) Users(ctx context.Context) ([]*model.User, error) {
	users := []*model.User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	err := r.db.SelectContext(ctx, &users, query)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) ByID(ctx context.Context, id int64) (*model.User, error) {
	user := &model.User{}
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)

	err := r.db.GetContext(ctx, user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ByEmail returns every user registered with email, including the
// password hash so the caller can verify credentials.
func (r *userRepository) ByEmail(ctx context.Context, email string) ([]*model.User, error) {
	users := []*model.User{}
	query := r.db.Rebind(`SELECT ` + userColumns + `, password_hash FROM users WHERE email = ? ORDER BY id`)

	err := r.db.SelectContext(ctx, &users, query, email)
	if err != nil {
		return nil, err
	}

	return users, nil
}

// Update overwrites the profile fields of user. The stored password hash
// is only touched when withPassword is set.
func (r *userRepository) Update(ctx context.Context, user *model.User, withPassword bool) error {
	if withPassword {
		query := r.db.Rebind(`UPDATE users SET username = ?, name = ?, email = ?, password_hash = ?, phone = ? WHERE id = ?`)
		_, err := r.db.ExecContext(ctx, query, user.Username, user.Name, user.Email, user.PasswordHash, user.Phone, user.ID)
		return err
	}

	query := r.db.Rebind(`UPDATE users SET username = ?, name = ?, email = ?, phone = ? WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query, user.Username, user.Name, user.Email, user.Phone, user.ID)
	return err
}

// SetImage replaces the avatar filename and returns the previous one.
func (r *userRepository) SetImage(ctx context.Context, id int64, image *string) (*string, error) {
	var previous *string

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &previous, tx.Rebind(`SELECT image FROM users WHERE id = ?`+forUpdate(tx)), id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE users SET image = ? WHERE id = ?`), image, id)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if rows == 0 {
			return ErrUserNotFound
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return previous, nil
}

// Delete removes the user and, through the foreign key cascade, their
// commutes. It returns the image filenames the deleted rows referenced.
// Deleting a missing user is not an error.
func (r *userRepository) Delete(ctx context.Context, id int64) ([]string, error) {
	images := []string{}

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var avatar *string
		err := tx.GetContext(ctx, &avatar, tx.Rebind(`SELECT image FROM users WHERE id = ?`+forUpdate(tx)), id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if avatar != nil && *avatar != "" {
			images = append(images, *avatar)
		}

		var attached []string
		query := tx.Rebind(`SELECT image FROM commutes WHERE user_id = ? AND image IS NOT NULL` + forUpdate(tx))
		err = tx.SelectContext(ctx, &attached, query, id)
		if err != nil {
			return err
		}
		for _, image := range attached {
			if image != "" {
				images = append(images, image)
			}
		}

		_, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM users WHERE id = ?`), id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return images, nil
}
