// Package sync feeds store changes and clock rollovers into the Bubble Tea
// runtime as messages.
package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tpq-attendance/internal/logger"
	"github.com/nhle/tpq-attendance/internal/model"
)

// StudentsMsg is a tea.Msg carrying the latest student list.
type StudentsMsg struct {
	Students []model.Student
}

// DayChangedMsg is a tea.Msg sent when the local date rolls over.
type DayChangedMsg struct {
	Day time.Time
}

// Source is the store capability the watcher observes.
type Source interface {
	WatchStudents(ctx context.Context) <-chan []model.Student
}

// dayCheckInterval is how often the watcher looks at the clock.
const dayCheckInterval = time.Minute

// Watcher forwards student list updates and day rollovers to the UI.
type Watcher struct {
	source   Source
	log      logger.Logger
	now      func() time.Time
	interval time.Duration

	resultCh chan tea.Msg
	cancel   context.CancelFunc

	mu         gosync.Mutex
	running    bool
	day        int64
	lastUpdate time.Time
}

// New creates a watcher over s.
func New(s Source, log logger.Logger) *Watcher {
	return &Watcher{
		source:   s,
		log:      log,
		now:      time.Now,
		interval: dayCheckInterval,
		resultCh: make(chan tea.Msg, 16),
	}
}

// Start launches the background goroutines and returns a command that
// delivers the first message. Calling Start on a running watcher is a no-op.
func (w *Watcher) Start() tea.Cmd {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.running = true
	w.day = model.DayKey(w.now())
	w.mu.Unlock()

	go w.forwardStudents(ctx)
	go w.watchClock(ctx)

	return w.waitForResult()
}

// Stop halts the background goroutines.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.cancel()
	w.running = false
}

// LastUpdate returns when the student list was last received.
func (w *Watcher) LastUpdate() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUpdate
}

func (w *Watcher) forwardStudents(ctx context.Context) {
	for students := range w.source.WatchStudents(ctx) {
		w.mu.Lock()
		w.lastUpdate = w.now()
		w.mu.Unlock()
		w.send(ctx, StudentsMsg{Students: students})
	}
}

func (w *Watcher) watchClock(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if msg, changed := w.checkDay(); changed {
				w.send(ctx, msg)
			}
		}
	}
}

// checkDay reports a rollover when the current day differs from the last
// one seen.
func (w *Watcher) checkDay() (DayChangedMsg, bool) {
	now := w.now()
	key := model.DayKey(now)

	w.mu.Lock()
	defer w.mu.Unlock()
	if key == w.day {
		return DayChangedMsg{}, false
	}
	w.day = key
	w.log.Info("day changed", "day", model.FormatDay(key))
	return DayChangedMsg{Day: model.DayStart(now)}, true
}

// send delivers msg unless the watcher is stopping. Student lists are
// never dropped; the UI always drains the channel through WaitForNext.
func (w *Watcher) send(ctx context.Context, msg tea.Msg) {
	select {
	case w.resultCh <- msg:
	case <-ctx.Done():
	}
}

func (w *Watcher) waitForResult() tea.Cmd {
	return func() tea.Msg {
		return <-w.resultCh
	}
}

// WaitForNext returns a tea.Cmd that waits for the next message. It should
// be called after handling each watcher message to keep listening.
func (w *Watcher) WaitForNext() tea.Cmd {
	return w.waitForResult()
}
