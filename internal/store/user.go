package store

import (
	"context"
	"fmt"

	"tutor-marketplace-api/internal/model"
)

const userColumns = `id, name, email, password_hash, avatar, bio, whatsapp, is_teacher, created_at, updated_at`

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, avatar, bio, whatsapp, is_teacher)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.PasswordHash, u.Avatar, u.Bio, u.Whatsapp, u.IsTeacher,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Avatar, &u.Bio, &u.Whatsapp, &u.IsTeacher, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *Store) UserByID(ctx context.Context, id int64) (*model.User, error) {
	u := &model.User{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Avatar, &u.Bio, &u.Whatsapp, &u.IsTeacher, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// UpdateProfile writes the public profile fields and refreshes UpdatedAt.
func (s *Store) UpdateProfile(ctx context.Context, u *model.User) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE users
		 SET name=$1, avatar=$2, bio=$3, whatsapp=$4, is_teacher=$5, updated_at=NOW()
		 WHERE id=$6
		 RETURNING updated_at`,
		u.Name, u.Avatar, u.Bio, u.Whatsapp, u.IsTeacher, u.ID,
	).Scan(&u.UpdatedAt)
	if err != nil {
		return notFound(err)
	}
	return nil
}

func (s *Store) UpdatePassword(ctx context.Context, userID int64, hash string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2`, hash, userID,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
