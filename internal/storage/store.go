// Package storage persists generated scenarios to PostgreSQL.
//
// Persistence is optional: when no DATABASE_URL is configured the engine
// runs without a store and scenario history is simply not kept.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/socialproof/socialproof/internal/scenario"
)

// Querier defines the database operations the store needs.
// Following Go best practices: interfaces are defined by the consumer,
// not the provider. *pgxpool.Pool satisfies this interface.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Record is one persisted scenario.
type Record struct {
	ID              string    `json:"id"`
	PlayerID        string    `json:"player_id"`
	ScenarioType    string    `json:"scenario_type"`
	Content         string    `json:"content"`
	DifficultyLabel string    `json:"difficulty_label"`
	DifficultyLevel float64   `json:"difficulty_level"`
	Provider        string    `json:"provider"`
	CreatedAt       time.Time `json:"created_at"`
}

// Store manages scenario persistence with a PostgreSQL backend.
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	querier Querier
	logger  *slog.Logger
}

// New creates a new Store instance.
func New(querier Querier, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{querier: querier, logger: logger}
}

// SaveScenario persists a generated scenario for a player and returns the
// new record's ID.
func (s *Store) SaveScenario(ctx context.Context, playerID string, res scenario.Result) (string, error) {
	id := uuid.New().String()

	_, err := s.querier.Exec(ctx, `
		INSERT INTO scenarios (id, player_id, scenario_type, content, difficulty_label, difficulty_level, provider)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, playerID, res.ScenarioType, res.Content, res.DifficultyLabel, res.DifficultyLevel, res.Provider)
	if err != nil {
		return "", fmt.Errorf("inserting scenario: %w", err)
	}

	s.logger.Debug("scenario saved",
		"id", id,
		"player_id", playerID,
		"scenario_type", res.ScenarioType)
	return id, nil
}

// ListByPlayer returns a player's most recent scenarios, newest first.
func (s *Store) ListByPlayer(ctx context.Context, playerID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.querier.Query(ctx, `
		SELECT id, player_id, scenario_type, content, difficulty_label, difficulty_level, provider, created_at
		FROM scenarios
		WHERE player_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying scenarios: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.PlayerID, &r.ScenarioType, &r.Content,
			&r.DifficultyLabel, &r.DifficultyLevel, &r.Provider, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning scenario row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scenario rows: %w", err)
	}
	return records, nil
}
