package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"tutor-marketplace-api/internal/model"
)

const listingSelect = `
	SELECT u.id, c.id, u.name, u.avatar, u.bio, u.whatsapp,
	       c.subject, c.cost::float8, s.week_day, s."from", s."to"
	FROM users u
	JOIN classes c ON c.user_id = u.id
	JOIN classes_schedule s ON s.class_id = c.id
	WHERE u.is_teacher = true`

const listingOrder = `
	ORDER BY c.id, s.week_day, s."from", s.id`

// ListClasses returns one row per teacher x class x slot. With a filter only
// the slots on the requested day that contain the requested minute are joined
// (from <= time < to).
func (s *Store) ListClasses(ctx context.Context, f model.ClassFilter) ([]model.ClassListing, error) {
	q := listingSelect
	var args []any

	if f.Filtered {
		q += `
	  AND c.subject = $1
	  AND s.week_day = $2
	  AND s."from" <= $3
	  AND s."to" > $3`
		args = append(args, f.Subject, f.WeekDay, f.Time)
	}
	q += listingOrder

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	out := []model.ClassListing{}
	for rows.Next() {
		var l model.ClassListing
		if err := rows.Scan(
			&l.ID, &l.ClassID, &l.Name, &l.Avatar, &l.Bio, &l.Whatsapp,
			&l.Subject, &l.Cost, &l.WeekDay, &l.From, &l.To,
		); err != nil {
			return nil, fmt.Errorf("scan class listing: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate class listings: %w", err)
	}
	return out, nil
}

// CreateClass inserts the class and all of its slots in one transaction.
// c.ID is set on success; slot ids are left zero.
func (s *Store) CreateClass(ctx context.Context, c *model.Class) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO classes (subject, cost, user_id) VALUES ($1,$2,$3) RETURNING id`,
		c.Subject, c.Cost, c.UserID,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert class: %w", err)
	}

	rows := make([][]any, len(c.Schedule))
	for i := range c.Schedule {
		c.Schedule[i].ClassID = c.ID
		slot := c.Schedule[i]
		rows[i] = []any{slot.ClassID, slot.WeekDay, slot.From, slot.To}
	}

	if len(rows) > 0 {
		n, err := tx.CopyFrom(ctx,
			pgx.Identifier{"classes_schedule"},
			[]string{"class_id", "week_day", "from", "to"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("insert schedule: %w", err)
		}
		if int(n) != len(rows) {
			return fmt.Errorf("insert schedule: wrote %d of %d slots", n, len(rows))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.log.Info("class created",
		zap.Int64("class_id", c.ID),
		zap.Int64("user_id", c.UserID),
		zap.String("subject", c.Subject),
		zap.Int("slots", len(rows)))
	return nil
}

// ClassesByUser loads a user's classes with their slots, ordered by class id.
func (s *Store) ClassesByUser(ctx context.Context, userID int64) ([]model.Class, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT c.id, c.subject, c.cost::float8, c.user_id,
		        s.id, s.week_day, s."from", s."to"
		 FROM classes c
		 LEFT JOIN classes_schedule s ON s.class_id = c.id
		 WHERE c.user_id = $1
		 ORDER BY c.id, s.week_day, s."from"`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("classes by user: %w", err)
	}
	defer rows.Close()

	out := []model.Class{}
	for rows.Next() {
		var (
			c                     model.Class
			slotID, day, from, to *int64
		)
		if err := rows.Scan(&c.ID, &c.Subject, &c.Cost, &c.UserID, &slotID, &day, &from, &to); err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		if n := len(out); n == 0 || out[n-1].ID != c.ID {
			c.Schedule = []model.ScheduleSlot{}
			out = append(out, c)
		}
		if slotID != nil {
			last := &out[len(out)-1]
			last.Schedule = append(last.Schedule, model.ScheduleSlot{
				ID: *slotID, ClassID: c.ID, WeekDay: int(*day), From: int(*from), To: int(*to),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate classes: %w", err)
	}
	return out, nil
}
