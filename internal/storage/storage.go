package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/models"
)

// InitDB opens the trade history database and creates the schema if needed.
func InitDB(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err = createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	// One row per executed trade leg. Append-only, mirrors the per-bot
	// in-memory ledgers for offline inspection.
	createTradesTableSQL := `
	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		bot_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		mode TEXT NOT NULL,
		side TEXT NOT NULL,
		price REAL NOT NULL,
		amount REAL NOT NULL,
		value REAL NOT NULL,
		fee REAL NOT NULL,
		profit REAL NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);`
	if _, err := db.Exec(createTradesTableSQL); err != nil {
		return err
	}

	createIndexSQL := `CREATE INDEX IF NOT EXISTS idx_trades_bot_id ON trades(bot_id);`
	if _, err := db.Exec(createIndexSQL); err != nil {
		return err
	}

	return nil
}

// InsertTrade appends one trade event to the history.
func InsertTrade(db *sql.DB, ev models.TradeEvent) error {
	query := `
	INSERT INTO trades (bot_id, symbol, mode, side, price, amount, value, fee, profit, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.Exec(query,
		ev.BotID, ev.Symbol, string(ev.Mode), string(ev.Side),
		ev.Price, ev.Amount, ev.Value, ev.Fee, ev.Profit, ev.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade for bot %s: %w", ev.BotID, err)
	}
	return nil
}

// ListTrades returns the recorded trades of one bot in insertion order.
func ListTrades(db *sql.DB, botID string) ([]models.TradeEvent, error) {
	query := `
	SELECT bot_id, symbol, mode, side, price, amount, value, fee, profit, created_at
	FROM trades
	WHERE bot_id = ?
	ORDER BY id ASC`

	rows, err := db.Query(query, botID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var events []models.TradeEvent
	for rows.Next() {
		var ev models.TradeEvent
		var mode, side string
		if err := rows.Scan(
			&ev.BotID, &ev.Symbol, &mode, &side,
			&ev.Price, &ev.Amount, &ev.Value, &ev.Fee, &ev.Profit, &ev.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trade row: %w", err)
		}
		ev.Mode = models.Mode(mode)
		ev.Side = models.Side(side)
		events = append(events, ev)
	}
	return events, rows.Err()
}
