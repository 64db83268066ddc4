package services

import (
	"context"
	"time"

	"github.com/Aditya-Vasipalli/buymechai/utils"
)

type expiredDeleter interface {
	DeleteExpired(ctx context.Context, retention time.Duration) (int64, error)
}

// Sweeper is the periodic retention job. Expired intents stay queryable for
// audit during the retention window and are removed afterwards; it never
// touches unexpired or ledger rows.
type Sweeper struct {
	intents   expiredDeleter
	interval  time.Duration
	retention time.Duration
	stop      chan struct{}
	done      chan struct{}
}

func NewSweeper(intents expiredDeleter, interval, retention time.Duration) *Sweeper {
	return &Sweeper{
		intents:   intents,
		interval:  interval,
		retention: retention,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	go s.run()
}

func (s *Sweeper) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweepOnce()
		case <-s.stop:
			return
		}
	}
}

func (s *Sweeper) sweepOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.intents.DeleteExpired(ctx, s.retention)
	if err != nil {
		utils.Error(ctx, "intent retention sweep failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if removed > 0 {
		utils.Info(ctx, "intent retention sweep completed", map[string]interface{}{
			"removed": removed,
		})
	}
}

func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}
