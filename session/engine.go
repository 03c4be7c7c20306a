// Package session records live light readings and replays them with their
// original spacing.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/lightorchestra/device"
	"github.com/jsphweid/lightorchestra/model"
	"github.com/jsphweid/lightorchestra/store"
	"go.uber.org/zap"
)

// Invalid transitions. None of them change engine state.
var (
	ErrReplaying    = errors.New("replay in progress")
	ErrRecording    = errors.New("recording in progress")
	ErrEmptySession = errors.New("no session to replay")
	ErrBusy         = errors.New("cannot load while recording or replaying")
)

// ErrStorage wraps failures reported by the session store.
var ErrStorage = errors.New("session storage failed")

type State int

const (
	Idle State = iota
	Recording
	Replaying
)

func (s State) Mode() model.Mode {
	switch s {
	case Recording:
		return model.Recording
	case Replaying:
		return model.Replaying
	default:
		return model.Live
	}
}

// Engine owns the current session, its replay cursor and the
// idle/recording/replaying state. It is not safe for concurrent use.
type Engine struct {
	store store.SessionStore
	tone  device.ToneDevice
	log   *zap.Logger

	state   State
	samples model.Session
	cursor  int
	id      string
}

func NewEngine(st store.SessionStore, tone device.ToneDevice, log *zap.Logger) *Engine {
	return &Engine{store: st, tone: tone, log: log}
}

func (e *Engine) State() State {
	return e.state
}

// Session returns the in-memory session. Callers must not modify it.
func (e *Engine) Session() model.Session {
	return e.samples
}

// Id identifies the last recording started, or is empty.
func (e *Engine) Id() string {
	return e.id
}

func (e *Engine) Cursor() int {
	return e.cursor
}

func (e *Engine) StartRecording() (bool, error) {
	switch e.state {
	case Replaying:
		return false, ErrReplaying
	case Recording:
		return false, nil
	}
	e.state = Recording
	e.samples = nil
	e.cursor = 0
	e.id = uuid.New().String()
	e.log.Info("recording started", zap.String("session", e.id))
	return true, nil
}

// StopRecording ends the recording and persists it. The engine is idle
// afterwards even if the save fails.
func (e *Engine) StopRecording() (bool, error) {
	if e.state != Recording {
		return false, nil
	}
	e.state = Idle
	e.log.Info("recording stopped",
		zap.String("session", e.id),
		zap.Int("samples", len(e.samples)))
	return true, e.save()
}

// Record appends a reading while recording. Timestamps earlier than the last
// one are raised to it so the session stays ordered.
func (e *Engine) Record(ts int64, value uint16) {
	if e.state != Recording {
		return
	}
	if n := len(e.samples); n > 0 && ts < e.samples[n-1].Timestamp {
		ts = e.samples[n-1].Timestamp
	}
	e.samples = append(e.samples, model.Sample{Timestamp: ts, Value: value})
}

func (e *Engine) StartReplay() (bool, error) {
	switch {
	case e.state == Recording:
		return false, ErrRecording
	case len(e.samples) == 0:
		return false, ErrEmptySession
	}
	e.state = Replaying
	e.cursor = 0
	e.log.Info("replay started", zap.Int("samples", len(e.samples)))
	return true, nil
}

func (e *Engine) StopReplay() (bool, error) {
	if e.state != Replaying {
		return false, nil
	}
	e.state = Idle
	e.tone.SetDutyOff()
	e.log.Info("replay stopped", zap.Int("cursor", e.cursor))
	return true, nil
}

// Next returns the sample under the cursor and how long to wait before the
// following one. Handing out the last sample ends the replay: the engine is
// idle again when Next returns, and silencing the held note is left to the
// caller. Outside a replay Next reports ok=false.
func (e *Engine) Next() (s model.Sample, wait time.Duration, ok bool) {
	if e.state != Replaying || e.cursor >= len(e.samples) {
		return model.Sample{}, 0, false
	}

	s = e.samples[e.cursor]
	e.cursor++
	if e.cursor == len(e.samples) {
		e.state = Idle
		e.log.Info("replay finished", zap.Int("cursor", e.cursor))
		return s, 0, true
	}
	if d := e.samples[e.cursor].Timestamp - s.Timestamp; d > 0 {
		wait = time.Duration(d) * time.Millisecond
	}
	return s, wait, true
}

// SaveSession persists the in-memory session, including a recording still
// in progress.
func (e *Engine) SaveSession() (bool, error) {
	if len(e.samples) == 0 {
		return false, nil
	}
	if err := e.save(); err != nil {
		return false, err
	}
	return true, nil
}

// LoadSession replaces the in-memory session with the stored one. On failure
// the session is left empty.
func (e *Engine) LoadSession() (bool, error) {
	if e.state != Idle {
		return false, ErrBusy
	}
	samples, err := e.store.Load()
	if err != nil {
		e.samples = nil
		e.cursor = 0
		e.log.Warn("could not load session, starting empty", zap.Error(err))
		return true, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	e.samples = samples
	e.cursor = 0
	e.log.Info("session loaded", zap.Int("samples", len(samples)))
	return true, nil
}

func (e *Engine) save() error {
	if err := e.store.Save(e.samples); err != nil {
		e.log.Warn("could not save session", zap.String("session", e.id), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	e.log.Info("session saved", zap.String("session", e.id), zap.Int("samples", len(e.samples)))
	return nil
}
