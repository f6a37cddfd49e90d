package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/account"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/bot"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/feed"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/models"
)

// stubFeed serves a fixed price, or an error when failing is set.
type stubFeed struct {
	mu      sync.Mutex
	price   float64
	failing bool
	calls   int
}

func (f *stubFeed) CurrentPrice(_ context.Context, _ string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failing {
		return 0, feed.ErrPriceUnavailable
	}
	return f.price, nil
}

func (f *stubFeed) setFailing(v bool) {
	f.mu.Lock()
	f.failing = v
	f.mu.Unlock()
}

func (f *stubFeed) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testSetup(t *testing.T, pf feed.PriceFeed) (*Scheduler, *bot.Controller, *account.Manager, string) {
	t.Helper()

	controller := bot.NewController()
	accounts := account.NewManager(10000)

	id, err := controller.Create(models.GridConfig{
		Symbol:     "BTCUSDT",
		LowerPrice: 100,
		UpperPrice: 200,
		GridCount:  5,
		Investment: 500,
		Mode:       models.ModeDemo,
	})
	require.NoError(t, err)

	s := New(controller, pf, accounts, nil, nil, 10*time.Millisecond)
	return s, controller, accounts, id
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSchedulerTicksActiveBots(t *testing.T) {
	pf := &stubFeed{price: 95}
	s, controller, accounts, id := testSetup(t, pf)

	_, err := controller.Start(id)
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	waitFor(t, func() bool {
		snap, err := controller.Status(id)
		return err == nil && snap.TotalTrades >= 6
	})

	snap, err := controller.Status(id)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, snap.OpenOrders, 6)

	acct := accounts.Snapshot(models.ModeDemo)
	assert.Less(t, acct.Balance, 10000.0, "demo balance must reflect the buys")
	assert.Positive(t, acct.Holdings["BTC"])
}

func TestSchedulerIgnoresInactiveBots(t *testing.T) {
	pf := &stubFeed{price: 95}
	s, controller, _, id := testSetup(t, pf)

	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	assert.Zero(t, pf.callCount(), "no active bot means no price polling at all")

	snap, err := controller.Status(id)
	require.NoError(t, err)
	assert.Zero(t, snap.TotalTrades)
}

func TestSchedulerSkipsTickWhenPriceUnavailable(t *testing.T) {
	pf := &stubFeed{price: 95, failing: true}
	s, controller, accounts, id := testSetup(t, pf)

	_, err := controller.Start(id)
	require.NoError(t, err)

	s.Start()
	waitFor(t, func() bool { return pf.callCount() >= 3 })

	snap, err := controller.Status(id)
	require.NoError(t, err)
	assert.Zero(t, snap.TotalTrades, "a failed price fetch must skip the whole tick")

	// Once the feed recovers, trading resumes.
	pf.setFailing(false)
	waitFor(t, func() bool {
		snap, err := controller.Status(id)
		return err == nil && snap.TotalTrades >= 6
	})
	s.Stop()

	assert.Positive(t, accounts.Snapshot(models.ModeDemo).Holdings["BTC"])
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	pf := &stubFeed{price: 150}
	s, _, _, _ := testSetup(t, pf)

	s.Start()
	s.Stop()
	s.Stop()
}
