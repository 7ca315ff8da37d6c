package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/chanderbhanswami/vardhman-mills-sub005/pkg/errors"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/logger"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/redis"
)

// Repository persists session snapshots. Save coalesces bursts of
// writes behind a debounce window; SaveNow bypasses it for transitions
// that must not be lost.
type Repository interface {
	Save(ctx context.Context, sess *Session) error
	SaveNow(ctx context.Context, sess *Session) error
	Load(ctx context.Context, sessionID uuid.UUID) (*Session, error)
	Delete(ctx context.Context, sessionID uuid.UUID) error
	Close()
}

// RepositoryParams groups dependencies for the snapshot repository.
type RepositoryParams struct {
	Snapshots redis.SnapshotStore
	Logger    *logger.Logger
	TTL       time.Duration
	Debounce  time.Duration
}

type pendingWrite struct {
	timer *time.Timer
	data  []byte
}

type repository struct {
	snapshots redis.SnapshotStore
	log       *logger.Logger
	ttl       time.Duration
	debounce  time.Duration

	mu      sync.Mutex
	pending map[uuid.UUID]*pendingWrite
	closed  bool
}

// NewRepository constructs the snapshot repository.
func NewRepository(params RepositoryParams) (*repository, error) {
	if params.Snapshots == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "snapshot store required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	if params.TTL <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session ttl must be positive")
	}
	return &repository{
		snapshots: params.Snapshots,
		log:       params.Logger,
		ttl:       params.TTL,
		debounce:  params.Debounce,
		pending:   make(map[uuid.UUID]*pendingWrite),
	}, nil
}

// Save schedules a snapshot write. Repeated saves inside the debounce
// window collapse into one write carrying the latest state.
func (r *repository) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "marshal session snapshot")
	}
	if r.debounce <= 0 {
		return r.write(ctx, sess.ID, data)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return pkgerrors.New(pkgerrors.CodePersistence, "repository closed")
	}
	if pend, found := r.pending[sess.ID]; found {
		pend.data = data
		return nil
	}
	pend := &pendingWrite{data: data}
	sessionID := sess.ID
	pend.timer = time.AfterFunc(r.debounce, func() {
		r.flush(sessionID)
	})
	r.pending[sess.ID] = pend
	return nil
}

// SaveNow writes immediately and drops any scheduled write.
func (r *repository) SaveNow(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "marshal session snapshot")
	}
	r.cancelPending(sess.ID)
	return r.write(ctx, sess.ID, data)
}

// Load restores a session from its snapshot. A missing key returns
// (nil, nil); a corrupt snapshot is discarded and treated as missing so
// the caller starts the shopper over instead of failing.
func (r *repository) Load(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	key := r.snapshots.SessionKey(sessionID.String())
	raw, err := r.snapshots.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load session snapshot")
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil || sess.ID != sessionID {
		r.log.Warn(r.log.WithSessionID(ctx, sessionID.String()), "discarding corrupt session snapshot")
		if delErr := r.snapshots.Del(ctx, key); delErr != nil {
			r.log.Error(ctx, "delete corrupt snapshot", delErr)
		}
		return nil, nil
	}
	return &sess, nil
}

// Delete removes the snapshot and any scheduled write.
func (r *repository) Delete(ctx context.Context, sessionID uuid.UUID) error {
	r.cancelPending(sessionID)
	if err := r.snapshots.Del(ctx, r.snapshots.SessionKey(sessionID.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "delete session snapshot")
	}
	return nil
}

// Close flushes every scheduled write synchronously.
func (r *repository) Close() {
	r.mu.Lock()
	r.closed = true
	remaining := make(map[uuid.UUID][]byte, len(r.pending))
	for id, pend := range r.pending {
		pend.timer.Stop()
		remaining[id] = pend.data
	}
	r.pending = make(map[uuid.UUID]*pendingWrite)
	r.mu.Unlock()

	for id, data := range remaining {
		if err := r.write(context.Background(), id, data); err != nil {
			r.log.Error(context.Background(), "flush session snapshot on close", err)
		}
	}
}

func (r *repository) flush(sessionID uuid.UUID) {
	r.mu.Lock()
	pend, found := r.pending[sessionID]
	if !found {
		r.mu.Unlock()
		return
	}
	delete(r.pending, sessionID)
	data := pend.data
	r.mu.Unlock()

	ctx := context.Background()
	if err := r.write(ctx, sessionID, data); err != nil {
		r.log.Error(r.log.WithSessionID(ctx, sessionID.String()), "write session snapshot", err)
	}
}

func (r *repository) cancelPending(sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pend, found := r.pending[sessionID]; found {
		pend.timer.Stop()
		delete(r.pending, sessionID)
	}
}

func (r *repository) write(ctx context.Context, sessionID uuid.UUID, data []byte) error {
	key := r.snapshots.SessionKey(sessionID.String())
	if err := r.snapshots.Set(ctx, key, string(data), r.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "write session snapshot")
	}
	return nil
}
