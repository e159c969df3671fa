package presence

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/glory-summit/summit/db"
	"github.com/glory-summit/summit/internal/models"
)

const (
	defaultSweepInterval = time.Minute
	defaultOfflineAfter  = 5 * time.Minute
)

// Sweeper flips users back to offline once they have not been seen for a
// while. The auth middleware refreshes last_seen_at on every request.
type Sweeper struct {
	interval     time.Duration
	offlineAfter time.Duration
	mu           sync.Mutex
	ctx          context.Context
	cancel       context.CancelFunc
}

// NewSweeper initializes a new Sweeper instance
func NewSweeper(interval, offlineAfter time.Duration) *Sweeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{
		interval:     interval,
		offlineAfter: offlineAfter,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start begins the sweep loop with an immediate first pass.
func (s *Sweeper) Start() {
	log.Println("Starting presence sweeper...")

	go func() {
		s.sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// Stop cancels the sweep loop.
func (s *Sweeper) Stop() {
	log.Println("Stopping presence sweeper...")
	s.cancel()
}

func (s *Sweeper) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.offlineAfter)

	result := db.DB.Model(&models.User{}).
		Where("online = ? AND (last_seen_at IS NULL OR last_seen_at < ?)", true, cutoff).
		UpdateColumn("online", false)

	if result.Error != nil {
		log.Printf("Presence sweep failed: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Presence sweep marked %d users offline", result.RowsAffected)
	}
}

// Global sweeper instance
var globalSweeper *Sweeper

// Initialize creates and starts the global sweeper
func Initialize() {
	globalSweeper = NewSweeper(defaultSweepInterval, defaultOfflineAfter)
	globalSweeper.Start()
}

// Shutdown stops the global sweeper
func Shutdown() {
	if globalSweeper != nil {
		globalSweeper.Stop()
	}
}
