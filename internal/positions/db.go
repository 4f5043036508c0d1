package positions

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"edge-calculator/internal/analysis"
	"edge-calculator/internal/odds"
)

var (
	// ErrNotFound is returned when no position has the requested ID.
	ErrNotFound = errors.New("position not found")

	ErrInvalidPosition = errors.New("invalid position")
)

// Position is a bet that has already been placed and may later be hedged.
type Position struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Label       string    `json:"label"`  // e.g. "Lakers", "Over 218.5"
	Source      string    `json:"source"` // book the bet was placed at
	DecimalOdds float64   `json:"decimal_odds"`
	Stake       float64   `json:"stake"`
	FreeBet     bool      `json:"free_bet"` // stake is not returned on a win
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks a position before it is stored.
func (p Position) Validate() error {
	if p.EventID == "" || p.Label == "" {
		return fmt.Errorf("%w: event_id and label are required", ErrInvalidPosition)
	}
	if _, err := odds.NewOddsValue(p.DecimalOdds); err != nil {
		return err
	}
	if p.Stake <= 0 || math.IsNaN(p.Stake) || math.IsInf(p.Stake, 0) {
		return fmt.Errorf("%w: stake must be positive, got %v", analysis.ErrInvalidStake, p.Stake)
	}
	return nil
}

// DB handles position storage
type DB struct {
	db *sql.DB
}

// NewDB creates a new position database
func NewDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db: db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS positions (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		label TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		decimal_odds REAL NOT NULL CHECK (decimal_odds > 1.0),
		stake REAL NOT NULL CHECK (stake > 0),
		free_bet INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_positions_event ON positions(event_id);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks the database is reachable.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// AddPosition stores a new position and returns it with its generated ID
// and creation time.
func (d *DB) AddPosition(pos Position) (Position, error) {
	if err := pos.Validate(); err != nil {
		return Position{}, err
	}
	pos.ID = uuid.NewString()
	pos.CreatedAt = time.Now().UTC()

	_, err := d.db.Exec(`
		INSERT INTO positions (id, event_id, label, source, decimal_odds, stake, free_bet, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, pos.ID, pos.EventID, pos.Label, pos.Source, pos.DecimalOdds, pos.Stake, pos.FreeBet, pos.CreatedAt)
	if err != nil {
		return Position{}, fmt.Errorf("inserting position: %w", err)
	}

	return pos, nil
}

const selectPositions = `
	SELECT id, event_id, label, source, decimal_odds, stake, free_bet, created_at
	FROM positions`

type scanner interface {
	Scan(dest ...any) error
}

func scanPosition(s scanner) (Position, error) {
	var pos Position
	err := s.Scan(&pos.ID, &pos.EventID, &pos.Label, &pos.Source,
		&pos.DecimalOdds, &pos.Stake, &pos.FreeBet, &pos.CreatedAt)
	return pos, err
}

// GetPosition retrieves a position by ID
func (d *DB) GetPosition(id string) (Position, error) {
	row := d.db.QueryRow(selectPositions+` WHERE id = ?`, id)

	pos, err := scanPosition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Position{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Position{}, fmt.Errorf("scanning position: %w", err)
	}

	return pos, nil
}

// GetAllPositions retrieves all positions, newest first
func (d *DB) GetAllPositions() ([]Position, error) {
	rows, err := d.db.Query(selectPositions + ` ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying positions: %w", err)
	}
	return collect(rows)
}

// GetPositionsByEvent retrieves positions for a specific event
func (d *DB) GetPositionsByEvent(eventID string) ([]Position, error) {
	rows, err := d.db.Query(selectPositions+`
		WHERE event_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("querying positions by event: %w", err)
	}
	return collect(rows)
}

func collect(rows *sql.Rows) ([]Position, error) {
	defer rows.Close()

	var positions []Position
	for rows.Next() {
		pos, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning position row: %w", err)
		}
		positions = append(positions, pos)
	}

	return positions, rows.Err()
}

// DeletePosition removes a position
func (d *DB) DeletePosition(id string) error {
	res, err := d.db.Exec("DELETE FROM positions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting position: %w", err)
	}
	return requireRow(res, id)
}

// UpdateStake changes the stake of a position, e.g. after a partial cash-out
func (d *DB) UpdateStake(id string, stake float64) error {
	if stake <= 0 || math.IsNaN(stake) || math.IsInf(stake, 0) {
		return fmt.Errorf("%w: stake must be positive, got %v", analysis.ErrInvalidStake, stake)
	}
	res, err := d.db.Exec("UPDATE positions SET stake = ? WHERE id = ?", stake, id)
	if err != nil {
		return fmt.Errorf("updating stake: %w", err)
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
