package scheduler

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/account"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/bot"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/feed"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/logger"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/persistence"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/storage"
)

// Scheduler drives the trading loop: on a fixed interval it samples a price
// for every active bot, pushes the tick through the decision engine and fans
// the resulting trade events out to the account ledger and the history store.
// All I/O happens out here; the engine's critical section only computes.
type Scheduler struct {
	controller *bot.Controller
	priceFeed  feed.PriceFeed
	accounts   *account.Manager
	historyDB  *sql.DB                     // optional
	repo       persistence.StateRepository // optional
	interval   time.Duration

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New wires a scheduler. historyDB and repo may be nil; trading proceeds
// without history or snapshots in that case.
func New(controller *bot.Controller, priceFeed feed.PriceFeed, accounts *account.Manager,
	historyDB *sql.DB, repo persistence.StateRepository, interval time.Duration) *Scheduler {
	return &Scheduler{
		controller: controller,
		priceFeed:  priceFeed,
		accounts:   accounts,
		historyDB:  historyDB,
		repo:       repo,
		interval:   interval,
		stopChan:   make(chan struct{}),
	}
}

// Start launches the polling loop.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
	logger.S().Infof("scheduler started, tick interval %s", s.interval)
}

// Stop halts the loop and waits for an in-flight round to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	logger.S().Info("scheduler stopped")
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.tickRound()
		}
	}
}

// tickRound processes one tick for every active bot. Bots are independent,
// so they run concurrently; each bot serializes its own state internally.
// A failure on one bot never touches another bot's state.
func (s *Scheduler) tickRound() {
	ids := s.controller.ActiveIDs()
	if len(ids) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(botID string) {
			defer wg.Done()
			s.tickBot(botID)
		}(id)
	}
	wg.Wait()
}

func (s *Scheduler) tickBot(botID string) {
	b, err := s.controller.Get(botID)
	if err != nil {
		// Removed between listing and ticking; nothing to do.
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	price, err := s.priceFeed.CurrentPrice(ctx, b.Config.Symbol)
	if err != nil {
		// No price means no tick at all for this bot: either every level
		// is evaluated or none is.
		logger.S().Warnf("bot %s: skipping tick: %v", botID, err)
		return
	}

	events := b.OnPriceTick(price)
	for _, ev := range events {
		s.accounts.Apply(ev)
		logger.S().Infof("bot %s: %s %.5f %s @ %.2f (fee %.4f, profit %.4f)",
			botID, ev.Side, ev.Amount, ev.Symbol, ev.Price, ev.Fee, ev.Profit)

		if s.historyDB != nil {
			if err := storage.InsertTrade(s.historyDB, ev); err != nil {
				// History is best effort; trading is not gated on it.
				logger.S().Errorf("bot %s: failed to record trade: %v", botID, err)
			}
		}
	}

	if len(events) > 0 && s.repo != nil {
		if err := s.repo.SaveSnapshot(b.Snapshot()); err != nil {
			logger.S().Errorf("bot %s: failed to save snapshot: %v", botID, err)
		}
	}
}
