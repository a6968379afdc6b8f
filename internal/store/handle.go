package store

import "sync"

// Handle opens a SQLiteStore on first use and shares it afterwards. Every
// caller of Get sees the same store, or the same open error.
type Handle struct {
	path string
	opts []Option

	once  sync.Once
	store *SQLiteStore
	err   error

	mu     sync.Mutex
	closed bool
}

// NewHandle returns a handle for the database at path. Nothing is opened
// until Get is called.
func NewHandle(path string, opts ...Option) *Handle {
	return &Handle{path: path, opts: opts}
}

// Get opens the store on the first call, migrating it to LatestVersion.
// Concurrent first calls wait for the same open. After Close it returns
// ErrClosed.
func (h *Handle) Get() (*SQLiteStore, error) {
	h.once.Do(func() {
		h.store, h.err = NewSQLiteStore(h.path, h.opts...)
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrClosed
	}
	return h.store, h.err
}

// Close closes the store if it was opened. A handle closed before first use
// never opens the database. Closing twice is a no-op.
func (h *Handle) Close() error {
	h.once.Do(func() { h.err = ErrClosed })

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	if h.store == nil {
		return nil
	}
	return h.store.Close()
}
