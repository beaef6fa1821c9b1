// Package store persists hand history to Postgres behind the Engine's
// Store interface: one row per hand, one row per hole-card reveal, one
// row per action, one row per winner share.
package store

import (
	"context"
	"embed"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

//go:embed schema.sql
var schemaFS embed.FS

// DB wraps a pgxpool.Pool with the migration and close lifecycle this
// engine needs around it. It logs through zerolog rather than the
// engine's charmbracelet/log, matching the split between the engine's
// own Logger-taking constructors and the store's standalone lifecycle
// (Open/Migrate run before any Engine exists to hand it one).
type DB struct {
	*pgxpool.Pool
	log zerolog.Logger
}

// Open connects to Postgres using dsn and returns a ready DB. Callers
// should call Migrate once at startup before wiring a Store off of it.
func Open(ctx context.Context, dsn string, logger zerolog.Logger) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create postgres pool")
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error().Err(err).Msg("failed to ping postgres")
		return nil, err
	}
	logger.Info().Msg("connected to postgres")
	return &DB{Pool: pool, log: logger}, nil
}

// Close releases the pool's connections.
func (db *DB) Close() { db.Pool.Close() }

// Migrate applies the embedded schema. It is safe to call on every
// startup: every statement is CREATE ... IF NOT EXISTS.
func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		db.log.Error().Err(err).Msg("failed to read embedded schema")
		return err
	}
	if _, err := db.Exec(ctx, string(sqlBytes)); err != nil {
		db.log.Error().Err(err).Msg("failed to apply schema")
		return err
	}
	db.log.Info().Msg("schema migrated")
	return nil
}

// PostgresStore implements engine.Store against a *DB. Hand IDs are
// generated client-side as UUIDs so InsertHand can hand the caller a
// usable ID without a round trip. Every write failure is logged at the
// point it happens, in addition to being returned: the Engine converts
// the returned error into a room-fatal GameError, but by then it has
// lost the query detail this log line still carries.
type PostgresStore struct {
	db *DB
}

// NewPostgresStore constructs a PostgresStore over an already-migrated
// DB.
func NewPostgresStore(db *DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) InsertHand(ctx context.Context, gameID string, handNumber, dealerSeat, sbSeat, bbSeat int, street string, pot int) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(ctx, `
		INSERT INTO hands (id, game_id, hand_number, dealer_seat, sb_seat, bb_seat, street, pot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, gameID, handNumber, dealerSeat, sbSeat, bbSeat, street, pot)
	if err != nil {
		s.db.log.Error().Err(err).Str("gameId", gameID).Int("handNumber", handNumber).Msg("insertHand failed")
		return "", err
	}
	return id, nil
}

func (s *PostgresStore) InsertHoleCards(ctx context.Context, handID, userID, card1, card2 string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO hand_cards (hand_id, user_id, card1, card2)
		VALUES ($1, $2, $3, $4)
	`, handID, userID, card1, card2)
	if err != nil {
		s.db.log.Error().Err(err).Str("handId", handID).Str("userId", userID).Msg("insertHoleCards failed")
	}
	return err
}

func (s *PostgresStore) InsertAction(ctx context.Context, handID, userID, actionType string, amount int, street string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO actions (hand_id, user_id, action_type, amount, street)
		VALUES ($1, $2, $3, $4, $5)
	`, handID, userID, actionType, amount, street)
	if err != nil {
		s.db.log.Error().Err(err).Str("handId", handID).Str("userId", userID).Msg("insertAction failed")
	}
	return err
}

func (s *PostgresStore) UpdateHandBoardStreetPot(ctx context.Context, handID string, board []string, street string, pot int) error {
	_, err := s.db.Exec(ctx, `
		UPDATE hands SET board = $2, street = $3, pot = $4 WHERE id = $1
	`, handID, board, street, pot)
	if err != nil {
		s.db.log.Error().Err(err).Str("handId", handID).Msg("updateHandBoardStreetPot failed")
	}
	return err
}

func (s *PostgresStore) InsertWinner(ctx context.Context, handID, userID string, amountWon int, handRankName string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO winners (hand_id, user_id, amount_won, hand_rank_name)
		VALUES ($1, $2, $3, $4)
	`, handID, userID, amountWon, handRankName)
	if err != nil {
		s.db.log.Error().Err(err).Str("handId", handID).Str("userId", userID).Msg("insertWinner failed")
	}
	return err
}

func (s *PostgresStore) MarkHandCompleted(ctx context.Context, handID string) error {
	_, err := s.db.Exec(ctx, `UPDATE hands SET completed = TRUE WHERE id = $1`, handID)
	if err != nil {
		s.db.log.Error().Err(err).Str("handId", handID).Msg("markHandCompleted failed")
	}
	return err
}
