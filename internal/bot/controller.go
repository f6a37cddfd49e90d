package bot

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jxskiss/base62"

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/grid"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/models"
)

// ErrBotNotFound is returned when an operation references an unknown bot id.
var ErrBotNotFound = errors.New("bot not found")

// Controller owns the bot registry. Registry access is synchronized here;
// each bot fetched from it serializes its own ticks internally, so ticks for
// different bots run in parallel.
type Controller struct {
	mu   sync.RWMutex
	bots map[string]*grid.Bot

	// overridable in tests
	now   func() time.Time
	newID func() string
}

// NewController returns an empty bot registry.
func NewController() *Controller {
	return &Controller{
		bots:  make(map[string]*grid.Bot),
		now:   time.Now,
		newID: newBotID,
	}
}

// newBotID builds a process-unique bot id from the creation time.
func newBotID() string {
	return "grid_" + string(base62.FormatInt(time.Now().UnixNano()))
}

// Create validates the config, builds an inactive bot and registers it.
// An invalid config never constructs a bot. An id collision in the registry
// is a defect (the clock went backwards), never silently overwritten.
func (c *Controller) Create(cfg models.GridConfig) (string, error) {
	b, err := grid.NewBot(c.newID(), cfg, c.now())
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.bots[b.ID]; exists {
		return "", fmt.Errorf("bot id collision on %s", b.ID)
	}
	c.bots[b.ID] = b
	return b.ID, nil
}

// Start activates a bot. Idempotent: starting a running bot changes nothing.
func (c *Controller) Start(botID string) (models.BotSnapshot, error) {
	b, err := c.get(botID)
	if err != nil {
		return models.BotSnapshot{}, err
	}
	b.Start()
	return b.Snapshot(), nil
}

// Stop deactivates a bot. Idempotent; open positions are left untouched.
func (c *Controller) Stop(botID string) (models.BotSnapshot, error) {
	b, err := c.get(botID)
	if err != nil {
		return models.BotSnapshot{}, err
	}
	b.Stop()
	return b.Snapshot(), nil
}

// Tick feeds one price observation to a bot and returns the trades it
// executed. An inactive bot returns an empty sequence.
func (c *Controller) Tick(botID string, price float64) ([]models.TradeEvent, error) {
	b, err := c.get(botID)
	if err != nil {
		return nil, err
	}
	return b.OnPriceTick(price), nil
}

// Status returns a display snapshot of one bot.
func (c *Controller) Status(botID string) (models.BotSnapshot, error) {
	b, err := c.get(botID)
	if err != nil {
		return models.BotSnapshot{}, err
	}
	return b.Snapshot(), nil
}

// Get returns the bot itself, for callers that need direct access to a
// bot's history (persistence, reporting).
func (c *Controller) Get(botID string) (*grid.Bot, error) {
	return c.get(botID)
}

// List returns snapshots of every registered bot.
func (c *Controller) List() []models.BotSnapshot {
	c.mu.RLock()
	bots := make([]*grid.Bot, 0, len(c.bots))
	for _, b := range c.bots {
		bots = append(bots, b)
	}
	c.mu.RUnlock()

	// Snapshots are taken outside the registry lock; each takes the bot's
	// own lock instead.
	out := make([]models.BotSnapshot, 0, len(bots))
	for _, b := range bots {
		out = append(out, b.Snapshot())
	}
	return out
}

// ActiveIDs returns the ids of all bots currently trading.
func (c *Controller) ActiveIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var ids []string
	for id, b := range c.bots {
		if b.Active() {
			ids = append(ids, id)
		}
	}
	return ids
}

func (c *Controller) get(botID string) (*grid.Bot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bots[botID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBotNotFound, botID)
	}
	return b, nil
}
