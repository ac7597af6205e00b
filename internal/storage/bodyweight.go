package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/meltforce/gymlog/internal/models"
)

// InsertBodyWeight logs one bodyweight measurement.
func (db *DB) InsertBodyWeight(ctx context.Context, userID int, weight float64, unit string, loggedAt time.Time) (*models.BodyWeightLog, error) {
	var l models.BodyWeightLog
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO body_weight_logs (user_id, weight, unit, logged_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, weight, unit, logged_at`,
		userID, weight, unit, loggedAt,
	).Scan(&l.ID, &l.UserID, &l.Weight, &l.Unit, &l.LoggedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting body weight: %w", err)
	}
	return &l, nil
}

// ListBodyWeight returns the user's bodyweight log, newest first, bounded
// by limit.
func (db *DB) ListBodyWeight(ctx context.Context, userID, limit int) ([]models.BodyWeightLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, weight, unit, logged_at
		 FROM body_weight_logs
		 WHERE user_id = $1
		 ORDER BY logged_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying body weight: %w", err)
	}
	defer rows.Close()

	var result []models.BodyWeightLog
	for rows.Next() {
		var l models.BodyWeightLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Weight, &l.Unit, &l.LoggedAt); err != nil {
			return nil, fmt.Errorf("scanning body weight: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
