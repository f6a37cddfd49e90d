package persistence

import "github.com/samilkawa480-lang/p2p-trading-bot/internal/models"

// StateRepository abstracts where bot snapshots are stored. It keeps the
// underlying database out of the scheduler and the HTTP layer.
type StateRepository interface {
	// SaveSnapshot atomically stores the snapshot of one bot.
	SaveSnapshot(snap models.BotSnapshot) error

	// LoadSnapshots returns every stored bot snapshot.
	// An empty store returns (nil, nil).
	LoadSnapshots() ([]models.BotSnapshot, error)

	// Close gracefully closes the database.
	Close() error
}
