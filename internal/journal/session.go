package journal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/cryptox"
	"github.com/dmitrijs2005/gophjournal/internal/datekey"
	"github.com/dmitrijs2005/gophjournal/internal/filex"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/navigator"
	"github.com/dmitrijs2005/gophjournal/internal/store"
	"golang.org/x/sync/semaphore"
)

// ErrInvalidName is returned by CreateIn for an empty or path-like name.
var ErrInvalidName = errors.New("invalid journal name")

// AfterSaveFunc runs after every successful save with the journal path.
type AfterSaveFunc func(ctx context.Context, path string) error

// Option configures a Session.
type Option func(*Session)

// WithCipher sets the cipher used for entries. Defaults to
// cryptox.DefaultParams.
func WithCipher(c *cryptox.Cipher) Option {
	return func(s *Session) {
		if c != nil {
			s.cipher = c
		}
	}
}

// entryCipher is the part of *cryptox.Cipher a Session needs.
type entryCipher interface {
	Encrypt(plaintext string, password []byte) (string, error)
	Decrypt(ciphertext string, password []byte) (string, error)
}

// WithLogger sets the session logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithAfterSave registers a hook that runs after each successful save.
// Hook errors are logged; they do not turn the save into a failure.
func WithAfterSave(fn AfterSaveFunc) Option {
	return func(s *Session) { s.afterSave = fn }
}

// Session is an open journal. Methods are safe for concurrent use, although
// the intended model is one foreground owner plus at most one background
// save.
type Session struct {
	mu       sync.RWMutex
	path     string
	password []byte
	entries  *store.Store
	closed   bool

	// version counts in-memory mutations; saved is the version last
	// written to disk.
	version uint64
	saved   uint64

	saving    *semaphore.Weighted
	cipher    entryCipher
	log       logging.Logger
	afterSave AfterSaveFunc
}

func newSession(path string, password []byte, entries *store.Store, opts []Option) *Session {
	s := &Session{
		path:     path,
		password: common.CloneBytes(password),
		entries:  entries,
		saving:   semaphore.NewWeighted(1),
		log:      logging.Discard(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.cipher == nil {
		s.cipher = cryptox.New(cryptox.DefaultParams)
	}
	s.log = s.log.With("journal", path)
	return s
}

// Create makes a new empty journal at path, creating missing parent
// directories. It fails with common.ErrAlreadyExists if anything exists at
// path. No password check is possible or needed.
func Create(ctx context.Context, path string, password []byte, opts ...Option) (*Session, error) {
	exists, err := filex.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("%w: check %s: %w", common.ErrIO, path, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", common.ErrAlreadyExists, path)
	}

	if err := filex.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrIO, err)
	}
	if err := filex.CreateExclusive(path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", common.ErrAlreadyExists, path)
		}
		return nil, fmt.Errorf("%w: create %s: %w", common.ErrIO, path, err)
	}

	s := newSession(path, password, store.New(), opts)
	s.log.Info(ctx, "journal created")
	return s, nil
}

// CreateIn creates a journal called name inside dir.
func CreateIn(ctx context.Context, dir, name string, password []byte, opts ...Option) (*Session, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return Create(ctx, filepath.Join(dir, name), password, opts...)
}

// Open loads the journal at path and validates password against one stored
// entry. Failures map to common.ErrNotFound, common.ErrNotWritable,
// common.ErrIO or common.ErrIncorrectPassword.
func Open(ctx context.Context, path string, password []byte, opts ...Option) (*Session, error) {
	exists, err := filex.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("%w: check %s: %w", common.ErrIO, path, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", common.ErrNotFound, path)
	}
	if err := filex.CheckWritable(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrNotWritable, path, err)
	}

	entries, err := store.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", common.ErrIO, path, err)
	}

	s := newSession(path, password, entries, opts)
	if err := s.checkPassword(); err != nil {
		s.log.Warn(ctx, "journal password rejected")
		s.wipe()
		return nil, err
	}

	s.log.Info(ctx, "journal opened", "entries", entries.Len())
	return s, nil
}

// checkPassword decrypts the earliest entry. There is no dedicated
// verifier in the file format, so an empty journal accepts any password.
func (s *Session) checkPassword() error {
	key, ct, ok := s.entries.Min()
	if !ok {
		return nil
	}
	if _, err := s.cipher.Decrypt(ct, s.password); err != nil {
		return fmt.Errorf("%w: could not decrypt entry %s: %w", common.ErrIncorrectPassword, key, err)
	}
	return nil
}

// Path returns the backing file path.
func (s *Session) Path() string {
	return s.path
}

// Len returns the number of entries in memory.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries.Len()
}

// Modified reports whether there are in-memory changes not yet on disk.
func (s *Session) Modified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version != s.saved
}

// AddEntry encrypts plaintext and stores it under date, replacing any
// existing entry. Nothing is written to disk.
func (s *Session) AddEntry(date datekey.DateKey, plaintext string) error {
	if date.IsZero() {
		return fmt.Errorf("%w: empty date", common.ErrInvalidDate)
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return common.ErrClosed
	}
	password := common.CloneBytes(s.password)
	s.mu.RUnlock()
	defer common.WipeByteArray(password)

	// Encrypt runs unlocked; key derivation is slow.
	ct, err := s.cipher.Encrypt(plaintext, password)
	if err != nil {
		return fmt.Errorf("encrypt entry %s: %w", date, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return common.ErrClosed
	}
	s.entries.Put(date, ct)
	s.version++
	return nil
}

// RemoveEntry deletes the entry for date and reports whether one existed.
// Nothing is written to disk.
func (s *Session) RemoveEntry(date datekey.DateKey) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, common.ErrClosed
	}

	removed := s.entries.Delete(date)
	if removed {
		s.version++
	}
	return removed, nil
}

// GetEntry returns the decrypted entry for date. ok is false when there is
// no entry. A decryption failure is returned wrapped in common.ErrDecryption.
func (s *Session) GetEntry(date datekey.DateKey) (text string, ok bool, err error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return "", false, common.ErrClosed
	}
	ct, ok := s.entries.Get(date)
	if !ok {
		s.mu.RUnlock()
		return "", false, nil
	}
	password := common.CloneBytes(s.password)
	s.mu.RUnlock()
	defer common.WipeByteArray(password)

	text, err = s.cipher.Decrypt(ct, password)
	if err != nil {
		return "", false, fmt.Errorf("read entry %s: %w", date, err)
	}
	return text, true, nil
}

// Entries decrypts every entry. It stops early if ctx is cancelled.
func (s *Session) Entries(ctx context.Context) (map[datekey.DateKey]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, common.ErrClosed
	}

	out := make(map[datekey.DateKey]string, s.entries.Len())
	var rangeErr error
	s.entries.Range(datekey.None, datekey.None, func(key datekey.DateKey, ct string) bool {
		if err := ctx.Err(); err != nil {
			rangeErr = err
			return false
		}
		text, err := s.cipher.Decrypt(ct, s.password)
		if err != nil {
			rangeErr = fmt.Errorf("read entry %s: %w", key, err)
			return false
		}
		out[key] = text
		return true
	})
	if rangeErr != nil {
		return nil, rangeErr
	}
	return out, nil
}

// EntryDates returns every entry date in ascending order, derived from the
// current contents on each call.
func (s *Session) EntryDates() []datekey.DateKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries.Keys()
}

// EntryDatesIn returns the entry dates that fall in the given month.
func (s *Session) EntryDatesIn(year int, month time.Month) []datekey.DateKey {
	from := datekey.FromYMD(year, month, 1)
	to := datekey.FromYMD(year, month+1, 1)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []datekey.DateKey
	s.entries.Range(from, to, func(key datekey.DateKey, _ string) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// FirstEntryDate returns the earliest entry date.
func (s *Session) FirstEntryDate() (datekey.DateKey, bool) {
	return navigator.First(s.EntryDates())
}

// LastEntryDate returns the latest entry date.
func (s *Session) LastEntryDate() (datekey.DateKey, bool) {
	return navigator.Last(s.EntryDates())
}

// NextEntryDate returns the first entry date after ref, or ref if none.
func (s *Session) NextEntryDate(ref datekey.DateKey) datekey.DateKey {
	return navigator.Next(s.EntryDates(), ref)
}

// PreviousEntryDate returns the last entry date before ref, or ref if none.
func (s *Session) PreviousEntryDate(ref datekey.DateKey) datekey.DateKey {
	return navigator.Previous(s.EntryDates(), ref)
}

// Close waits for an in-flight save, then wipes the password. Later calls
// fail with common.ErrClosed. Close is idempotent.
func (s *Session) Close() error {
	_ = s.saving.Acquire(context.Background(), 1)
	defer s.saving.Release(1)

	s.wipe()
	return nil
}

func (s *Session) wipe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	common.WipeByteArray(s.password)
	s.password = nil
	s.closed = true
}
