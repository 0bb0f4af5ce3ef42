package journal

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/filex"
	"github.com/dmitrijs2005/gophjournal/internal/store"
)

// Progress checkpoints reported while saving.
const (
	ProgressStarted     = 0
	ProgressSnapshotted = 25
	ProgressEncoded     = 50
	ProgressWritten     = 75
	ProgressDone        = 100
)

// SaveObserver receives coarse progress and exactly one completion signal
// for an asynchronous save.
type SaveObserver interface {
	SaveProgress(percent int)
	SaveDone(err error)
}

// ObserverFuncs adapts plain functions to SaveObserver. Nil fields are
// skipped.
type ObserverFuncs struct {
	Progress func(percent int)
	Done     func(err error)
}

func (o ObserverFuncs) SaveProgress(percent int) {
	if o.Progress != nil {
		o.Progress(percent)
	}
}

func (o ObserverFuncs) SaveDone(err error) {
	if o.Done != nil {
		o.Done(err)
	}
}

// Save writes every entry to the backing file, replacing it atomically.
// If another save is in flight, Save waits for it first; giving up the wait
// through ctx is reported as common.ErrIO. Filesystem failures are wrapped
// in common.ErrIO; the in-memory entries are never
// modified by Save, so a failed save can simply be retried.
func (s *Session) Save(ctx context.Context) error {
	if err := s.saving.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: wait for save: %w", common.ErrIO, err)
	}
	defer s.saving.Release(1)

	snap, version, err := s.snapshot()
	if err != nil {
		return err
	}
	return s.persist(context.WithoutCancel(ctx), snap, version, nil)
}

// SaveAsync saves a snapshot of the current entries on a background
// goroutine and returns immediately. Edits made after the call are not part
// of this save. Only one save may be in flight per session: a second call
// fails with common.ErrSaveInProgress until the first completes. A started
// save is never cancelled; obs is told about progress and completion.
// SaveDone runs before the save counts as finished, so Close waits for it;
// it must not call Save.
func (s *Session) SaveAsync(ctx context.Context, obs SaveObserver) error {
	if obs == nil {
		obs = ObserverFuncs{}
	}
	if !s.saving.TryAcquire(1) {
		return common.ErrSaveInProgress
	}

	snap, version, err := s.snapshot()
	if err != nil {
		s.saving.Release(1)
		return err
	}

	obs.SaveProgress(ProgressStarted)
	go func() {
		defer s.saving.Release(1)
		err := s.persist(context.WithoutCancel(ctx), snap, version, obs)
		obs.SaveDone(err)
	}()
	return nil
}

func (s *Session) snapshot() (*store.Store, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, 0, common.ErrClosed
	}
	return s.entries.Clone(), s.version, nil
}

func (s *Session) persist(ctx context.Context, snap *store.Store, version uint64, obs SaveObserver) error {
	report := func(p int) {
		if obs != nil {
			obs.SaveProgress(p)
		}
	}
	report(ProgressSnapshotted)

	var buf bytes.Buffer
	if _, err := snap.WriteTo(&buf); err != nil {
		s.log.Error(ctx, "journal encode failed", "error", err)
		return fmt.Errorf("%w: encode journal: %w", common.ErrIO, err)
	}
	report(ProgressEncoded)

	err := filex.WriteAtomic(s.path, func(w io.Writer) error {
		_, err := buf.WriteTo(w)
		return err
	})
	if err != nil {
		s.log.Error(ctx, "journal save failed", "error", err)
		return fmt.Errorf("%w: save %s: %w", common.ErrIO, s.path, err)
	}
	report(ProgressWritten)

	s.mu.Lock()
	if version > s.saved {
		s.saved = version
	}
	s.mu.Unlock()

	s.log.Info(ctx, "journal saved", "entries", snap.Len())

	if s.afterSave != nil {
		if err := s.afterSave(ctx, s.path); err != nil {
			s.log.Warn(ctx, "after-save hook failed", "error", err)
		}
	}
	report(ProgressDone)
	return nil
}
