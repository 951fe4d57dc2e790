package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xRahul/wedding-planner-app-sub001/internal/amqp"
	applog "github.com/xRahul/wedding-planner-app-sub001/internal/log"
	"github.com/xRahul/wedding-planner-app-sub001/internal/mirror"
	"github.com/xRahul/wedding-planner-app-sub001/internal/storage"
)

// Outbox is the part of the primary store the worker reads.
type Outbox interface {
	LoadRevision(ctx context.Context) ([]byte, uint64, error)
	PendingOutbox(ctx context.Context, limit int) ([]storage.OutboxEntry, error)
	MarkMirrored(ctx context.Context, ids ...int64) error
	MarkMirrorFailed(ctx context.Context, id int64, maxAttempts int, cause error) error
	PruneOutbox(ctx context.Context, before time.Time) (int64, error)
}

const (
	DefaultBatchSize  = 50
	DefaultMaxRetries = 5
	DefaultRetention  = 7 * 24 * time.Hour
)

// MirrorWorker pushes the latest stored document to every mirror. Each
// outbox entry is settled by pushing whatever revision is current, since a
// newer snapshot supersedes older ones.
type MirrorWorker struct {
	store      Outbox
	mirrors    []mirror.Mirror
	batchSize  int
	maxRetries int
	retention  time.Duration
	logger     *applog.Logger
	now        func() time.Time

	// mu keeps the AMQP handler and the periodic scan from pushing at once.
	mu sync.Mutex
}

type Option func(*MirrorWorker)

func WithBatchSize(n int) Option {
	return func(w *MirrorWorker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

func WithMaxRetries(n int) Option {
	return func(w *MirrorWorker) {
		if n > 0 {
			w.maxRetries = n
		}
	}
}

func WithLogger(l *applog.Logger) Option {
	return func(w *MirrorWorker) { w.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(w *MirrorWorker) { w.now = now }
}

func NewMirrorWorker(store Outbox, mirrors []mirror.Mirror, opts ...Option) *MirrorWorker {
	w := &MirrorWorker{
		store:      store,
		mirrors:    mirrors,
		batchSize:  DefaultBatchSize,
		maxRetries: DefaultMaxRetries,
		retention:  DefaultRetention,
		now:        time.Now,
	}
	for _, o := range opts {
		o(w)
	}
	if w.logger == nil {
		w.logger = applog.FromContext(context.Background())
	}
	w.logger = w.logger.WithComponent(applog.ComponentWorker)
	return w
}

// HandleDocumentSaved processes a document-saved message from AMQP. Only a
// failure to read the primary store is returned, which requeues the message;
// mirror failures are recorded in the outbox instead.
func (w *MirrorWorker) HandleDocumentSaved(ctx context.Context, msg *amqp.DocumentSavedMessage) error {
	w.logger.InfoContext(ctx, "Processing document saved message", applog.FieldRevision, msg.Revision)
	_, err := w.ProcessPending(ctx)
	return err
}

// ProcessPending settles up to one batch of outbox entries and returns how
// many it handled.
func (w *MirrorWorker) ProcessPending(ctx context.Context) (int, error) {
	n, _, err := w.processBatch(ctx)
	return n, err
}

// processBatch also reports whether the push succeeded. Entries of a failed
// push stay pending, so reading again would return the same batch.
func (w *MirrorWorker) processBatch(ctx context.Context) (int, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries, err := w.store.PendingOutbox(ctx, w.batchSize)
	if err != nil {
		return 0, false, fmt.Errorf("get pending outbox: %w", err)
	}
	if len(entries) == 0 {
		return 0, true, nil
	}

	raw, rev, err := w.store.LoadRevision(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("load document: %w", err)
	}
	if raw == nil {
		return 0, false, errors.New("outbox has entries but no document is stored")
	}

	snap, err := mirror.NewSnapshot(rev, raw, w.now())
	var pushErr error
	if err != nil {
		pushErr = err
	} else {
		pushErr = w.pushAll(ctx, snap)
	}

	if pushErr == nil {
		ids := make([]int64, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
		}
		if err := w.store.MarkMirrored(ctx, ids...); err != nil {
			w.logger.ErrorContext(ctx, "Failed to mark outbox mirrored", applog.FieldError, err.Error())
		}
		w.logger.InfoContext(ctx, "Mirrored document",
			applog.FieldRevision, rev, "entries", len(entries), "mirrors", len(w.mirrors))
		return len(entries), true, nil
	}

	for _, e := range entries {
		if err := w.store.MarkMirrorFailed(ctx, e.ID, w.maxRetries, pushErr); err != nil {
			w.logger.ErrorContext(ctx, "Failed to record mirror error",
				applog.FieldOutboxID, e.ID, applog.FieldError, err.Error())
		}
	}
	w.logger.WarnContext(ctx, "Mirror push failed, will retry",
		applog.FieldRevision, rev, applog.FieldError, pushErr.Error())
	return len(entries), false, nil
}

// pushAll pushes snap to every mirror concurrently. One mirror failing does
// not cancel the others; all failures are joined.
func (w *MirrorWorker) pushAll(ctx context.Context, snap mirror.Snapshot) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	for _, m := range w.mirrors {
		g.Go(func() error {
			start := w.now()
			if err := m.Push(ctx, snap); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", m.Name(), err))
				mu.Unlock()
				return nil
			}
			w.logger.DebugContext(ctx, "Mirror updated",
				applog.FieldMirror, m.Name(),
				applog.FieldRevision, snap.Revision,
				applog.FieldDuration, w.now().Sub(start).Milliseconds())
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// StartupSyncCheck drains the outbox once, recovering from missed messages
// or worker downtime.
func (w *MirrorWorker) StartupSyncCheck(ctx context.Context) error {
	total := 0
	for {
		n, pushed, err := w.processBatch(ctx)
		if err != nil {
			return fmt.Errorf("startup sync check: %w", err)
		}
		total += n
		// Failed entries are left to the periodic scan.
		if !pushed || n < w.batchSize || total >= w.batchSize*5 {
			break
		}
	}
	w.logger.InfoContext(ctx, "Startup sync completed", "entries", total)
	return nil
}

// Run scans the outbox every interval and prunes settled entries once a day
// until ctx is done.
func (w *MirrorWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	prune := time.NewTicker(24 * time.Hour)
	defer prune.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.ProcessPending(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic sync failed", applog.FieldError, err.Error())
			}
		case <-prune.C:
			n, err := w.store.PruneOutbox(ctx, w.now().Add(-w.retention))
			if err != nil {
				w.logger.ErrorContext(ctx, "Outbox prune failed", applog.FieldError, err.Error())
				continue
			}
			w.logger.InfoContext(ctx, "Outbox pruned", "deleted", n)
		}
	}
}
