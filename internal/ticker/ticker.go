// Package ticker maintains the simulated market quotes shown in the
// scrolling header: USD/BRL, Bitcoin and the SELIC rate. Quotes follow a
// bounded random walk; a real implementation would poll a quotes API.
package ticker

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Quotes is a snapshot of the displayed market prices.
type Quotes struct {
	USDBRL  float64   `json:"usdBrl"`
	Bitcoin float64   `json:"btcBrl"`
	Selic   float64   `json:"selic"`
	Updated time.Time `json:"updated"`
}

// Ticker updates quotes on a fixed interval until stopped.
type Ticker struct {
	mu       sync.RWMutex
	quotes   Quotes
	interval time.Duration
	rng      *rand.Rand
	log      zerolog.Logger

	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

// New creates a ticker with the initial quotes. interval <= 0 defaults
// to 5 seconds.
func New(interval time.Duration, log zerolog.Logger) *Ticker {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Ticker{
		quotes: Quotes{
			USDBRL:  5.12,
			Bitcoin: 324512,
			Selic:   13.75,
			Updated: time.Now(),
		},
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		log:      log,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Quotes returns the current snapshot.
func (t *Ticker) Quotes() Quotes {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.quotes
}

// Start launches the update loop in a background goroutine. It returns
// immediately; use Stop to shut the loop down.
func (t *Ticker) Start(ctx context.Context) {
	go func() {
		defer close(t.done)

		tick := time.NewTicker(t.interval)
		defer tick.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.stopChan:
				return
			case <-tick.C:
				t.step()
			}
		}
	}()
}

// Stop halts the update loop and waits for it to exit.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stopChan) })
	<-t.done
}

// step advances the random walk. USD moves within ±0.01, BTC within
// ±50; SELIC stays put between central bank meetings.
func (t *Ticker) step() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.quotes.USDBRL += t.rng.Float64()*0.02 - 0.01
	if t.quotes.USDBRL < 0.01 {
		t.quotes.USDBRL = 0.01
	}
	t.quotes.Bitcoin += t.rng.Float64()*100 - 50
	if t.quotes.Bitcoin < 1 {
		t.quotes.Bitcoin = 1
	}
	t.quotes.Updated = time.Now()

	t.log.Debug().
		Float64("usd_brl", t.quotes.USDBRL).
		Float64("btc_brl", t.quotes.Bitcoin).
		Msg("Ticker updated")
}
