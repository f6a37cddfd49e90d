package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v3"

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/models"
)

const snapshotKeyPrefix = "bot_state:"

// badgerRepository is the BadgerDB implementation of StateRepository.
// Snapshots are JSON values under "bot_state:<bot id>" keys.
type badgerRepository struct {
	db *badger.DB
}

// NewBadgerRepository opens (or creates) a BadgerDB database at dbPath.
func NewBadgerRepository(dbPath string) (StateRepository, error) {
	opts := badger.DefaultOptions(dbPath)
	// Badger's own logging is noisy; errors still surface from operations.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open state db: %w", err)
	}
	return &badgerRepository{db: db}, nil
}

func snapshotKey(botID string) []byte {
	return []byte(snapshotKeyPrefix + botID)
}

// SaveSnapshot atomically stores the snapshot of one bot.
func (r *badgerRepository) SaveSnapshot(snap models.BotSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(snapshotKey(snap.BotID), data)
	})
}

// LoadSnapshots scans the snapshot prefix and unmarshals every stored bot.
func (r *badgerRepository) LoadSnapshots() ([]models.BotSnapshot, error) {
	var snaps []models.BotSnapshot

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(snapshotKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var snap models.BotSnapshot
				if err := json.Unmarshal(val, &snap); err != nil {
					return err
				}
				snaps = append(snaps, snap)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snaps, nil
}

// Close gracefully closes the database.
func (r *badgerRepository) Close() error {
	return r.db.Close()
}
