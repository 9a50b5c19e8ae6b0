package application

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sponsorhub/bidengine/internal/auction/domain"
	"github.com/sponsorhub/bidengine/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Broadcaster fans a serialized snapshot out to every connected client.
type Broadcaster interface {
	BroadcastAll(data []byte)
}

// SnapshotStore persists the single snapshot document. Load returns
// nil, nil when no snapshot exists yet.
type SnapshotStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, state []byte) error
}

const persistTimeout = 5 * time.Second

// Processor owns the canonical state and is the system's single writer:
// inbound actions and the timer sweep are serviced by one goroutine, so
// every action runs to completion against the snapshot before the next.
// Every change is broadcast to all observers and persisted write-behind.
type Processor struct {
	mu    sync.RWMutex
	state *domain.State

	hub   Broadcaster
	store SnapshotStore // nil in memory-only mode
	clock clockwork.Clock

	actions       chan domain.Action
	sweepInterval time.Duration
}

func NewProcessor(hub Broadcaster, store SnapshotStore, clock clockwork.Clock, sweepInterval time.Duration) *Processor {
	return &Processor{
		state:         domain.NewDefaultState(),
		hub:           hub,
		store:         store,
		clock:         clock,
		actions:       make(chan domain.Action, 256),
		sweepInterval: sweepInterval,
	}
}

// Dispatch queues one action for processing. Blocks when the queue is
// full, which preserves arrival order per submitter.
func (p *Processor) Dispatch(a domain.Action) {
	p.actions <- a
}

// Run loads the persisted snapshot (if any), then services the action
// queue and the sweep ticker until the context is cancelled.
func (p *Processor) Run(ctx context.Context) {
	p.loadState(ctx)

	ticker := p.clock.NewTicker(p.sweepInterval)
	defer ticker.Stop()

	log.Info("action processor started",
		zap.Duration("sweepInterval", p.sweepInterval),
		zap.Bool("persistence", p.store != nil),
	)

	for {
		select {
		case <-ctx.Done():
			log.Info("action processor shutting down")
			return
		case a := <-p.actions:
			p.applyAndPublish(a)
		case <-ticker.Chan():
			p.sweep()
		}
	}
}

func (p *Processor) applyAndPublish(a domain.Action) {
	now := p.clock.Now().UnixMilli()

	p.mu.Lock()
	changed := domain.Apply(p.state, a, now)
	var stateJSON []byte
	if changed {
		stateJSON = p.marshalStateLocked()
	}
	p.mu.Unlock()

	if changed {
		p.publish(stateJSON)
	}
}

func (p *Processor) sweep() {
	now := p.clock.Now().UnixMilli()

	p.mu.Lock()
	changed := domain.SweepExpired(p.state, now)
	var stateJSON []byte
	if changed {
		stateJSON = p.marshalStateLocked()
	}
	p.mu.Unlock()

	// One broadcast per sweep regardless of how many lots closed.
	if changed {
		p.publish(stateJSON)
	}
}

func (p *Processor) publish(stateJSON []byte) {
	p.hub.BroadcastAll(wrapStateUpdate(stateJSON))

	if p.store == nil {
		return
	}
	// Write-behind: persistence must never block or fail the broadcast.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := p.store.Save(ctx, stateJSON); err != nil {
			log.Warn("snapshot persistence failed, continuing in memory",
				zap.Error(err),
			)
		}
	}()
}

// SnapshotMessage returns the full current snapshot wrapped in the
// outbound state_update envelope, for the initial push on connect.
func (p *Processor) SnapshotMessage() []byte {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return wrapStateUpdate(p.marshalStateLocked())
}

// Authenticate performs the trivial stored-credential lookup for the
// login round-trip. Returns a copy; the snapshot stays owned here.
func (p *Processor) Authenticate(username, password string) (domain.User, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	u := p.state.FindUserByCredentials(username, password)
	if u == nil {
		return domain.User{}, false
	}
	return *u, true
}

// CurrentState returns a deep copy of the snapshot, for tests and
// diagnostics only.
func (p *Processor) CurrentState() *domain.State {
	p.mu.RLock()
	data := p.marshalStateLocked()
	p.mu.RUnlock()

	var s domain.State
	if err := json.Unmarshal(data, &s); err != nil {
		log.Error("failed to clone state", zap.Error(err))
		return nil
	}
	return &s
}

func (p *Processor) marshalStateLocked() []byte {
	data, err := json.Marshal(p.state)
	if err != nil {
		// The state tree is plain data; marshal cannot realistically
		// fail, but never broadcast a half-built document.
		log.Error("failed to marshal state", zap.Error(err))
		return []byte("{}")
	}
	return data
}

func wrapStateUpdate(stateJSON []byte) []byte {
	msg, err := json.Marshal(struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}{Type: "state_update", Payload: stateJSON})
	if err != nil {
		log.Error("failed to wrap state update", zap.Error(err))
		return []byte(`{"type":"state_update","payload":{}}`)
	}
	return msg
}

func (p *Processor) loadState(ctx context.Context) {
	if p.store == nil {
		log.Info("no snapshot store configured, starting from defaults")
		return
	}

	data, err := p.store.Load(ctx)
	if err != nil {
		log.Warn("failed to load snapshot, starting from defaults", zap.Error(err))
		return
	}
	if data == nil {
		log.Info("no persisted snapshot found, starting from defaults")
		return
	}

	var s domain.State
	if err := json.Unmarshal(data, &s); err != nil {
		log.Warn("persisted snapshot is unreadable, starting from defaults", zap.Error(err))
		return
	}

	if domain.EnsureSystemAccounts(&s) {
		log.Info("re-inserted missing system accounts into loaded snapshot")
	}

	p.mu.Lock()
	p.state = &s
	p.mu.Unlock()
	log.Info("snapshot loaded from store",
		zap.Int("users", len(s.Users)),
		zap.Int("sponsorships", len(s.Sponsorships)),
	)
}
