// Package controller runs the single loop that turns light into notes.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jsphweid/lightorchestra/bar"
	"github.com/jsphweid/lightorchestra/chord"
	"github.com/jsphweid/lightorchestra/device"
	"github.com/jsphweid/lightorchestra/model"
	"github.com/jsphweid/lightorchestra/scale"
	"github.com/jsphweid/lightorchestra/session"
	"github.com/jsphweid/lightorchestra/store"
	"github.com/jsphweid/lightorchestra/util"
	"go.uber.org/zap"
)

var (
	ErrUnknownOp = errors.New("unknown operation")
	ErrStopped   = errors.New("controller is not running")
)

// Controller owns every piece of playback state. Tick and Apply must only be
// called from one goroutine; while Run is active use Submit instead.
type Controller struct {
	cfg    Config
	sensor device.LightSensor
	voice  *voice
	engine *session.Engine
	bars   *bar.Clock
	now    func() time.Time
	log    *zap.Logger

	cmds chan request
	done chan struct{}

	start     time.Time
	tail      bool
	light     uint16
	rootIndex int
	voicing   chord.Voicing
}

type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

func New(cfg Config, sensor device.LightSensor, tone device.ToneDevice, st store.SessionStore, log *zap.Logger, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bars, err := bar.NewClock(cfg.BPM)
	if err != nil {
		return nil, err
	}

	v := &voice{tone: tone}
	c := &Controller{
		cfg:    cfg,
		sensor: sensor,
		voice:  v,
		engine: session.NewEngine(st, v, log),
		bars:   bars,
		now:    time.Now,
		log:    log,
		cmds:   make(chan request),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Tick runs one iteration and returns how long to wait before the next.
func (c *Controller) Tick() time.Duration {
	now := c.now()
	if c.start.IsZero() {
		c.start = now
	}
	rel := now.Sub(c.start).Milliseconds()

	// the last replayed note has had its interval
	if c.tail {
		c.tail = false
		c.voice.SetDutyOff()
	}

	wait := c.cfg.Tick
	raw, replayed := uint16(0), false
	if c.engine.State() == session.Replaying {
		var s model.Sample
		s, wait, replayed = c.engine.Next()
		raw = s.Value
		if c.engine.State() != session.Replaying {
			wait = c.cfg.Tick
			c.tail = replayed
		}
	}
	if !replayed {
		v, err := c.sensor.ReadLight()
		if err != nil {
			c.log.Debug("light reading failed", zap.Error(err))
		} else {
			c.engine.Record(rel, v)
		}
		raw = v
	}

	c.light = raw
	c.render(rel, int(raw))
	return util.Max(wait, 0)
}

func (c *Controller) render(rel int64, raw int) {
	light := util.Clamp(raw, c.cfg.MinLight, c.cfg.MaxLight)
	if light <= c.cfg.MinLight {
		c.voice.quiet()
		return
	}

	if c.bars.Observe(rel, light) {
		hz := scale.Map(light, c.cfg.MinLight, c.cfg.MaxLight, c.cfg.MinFreq, c.cfg.MaxFreq)
		c.rootIndex = c.cfg.Scale.Nearest(hz)
		previous, current := c.bars.Lights()
		var fam chord.Family
		c.voicing, fam = chord.Select(c.cfg.Scale[c.rootIndex], previous, current)
		c.log.Debug("new bar",
			zap.Int("root", c.cfg.Scale[c.rootIndex]),
			zap.Int("previous", previous),
			zap.Int("current", current),
			zap.String("family", string(fam)),
			zap.Stringer("voicing", c.voicing))
	}

	c.voice.SetFrequency(c.cfg.Scale.At(c.rootIndex + c.voicing[c.bars.Beat()]))
}

// Run ticks until ctx is cancelled, servicing submitted operations between
// ticks. On the way out it silences the tone and saves a recording in
// progress.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)
	defer c.shutdown()

	c.log.Info("controller running", zap.Duration("tick", c.cfg.Tick), zap.Int("bpm", c.cfg.BPM))
	for {
		if err := c.wait(ctx, c.Tick()); err != nil {
			return nil
		}
	}
}

func (c *Controller) wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-c.cmds:
			req.reply <- c.Apply(req.op)
		case <-timer.C:
			return nil
		}
	}
}

func (c *Controller) shutdown() {
	c.voice.SetDutyOff()
	switch c.engine.State() {
	case session.Recording:
		if _, err := c.engine.StopRecording(); err != nil {
			c.log.Error("partial recording was not saved", zap.Error(err))
		}
	case session.Replaying:
		c.engine.StopReplay()
	}
	c.log.Info("controller stopped")
}

// Submit hands op to the running loop and waits for its result.
func (c *Controller) Submit(ctx context.Context, op Op) (Reply, error) {
	req := request{op: op, reply: make(chan Reply, 1)}
	select {
	case c.cmds <- req:
	case <-c.done:
		return Reply{}, ErrStopped
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}
	select {
	case r := <-req.reply:
		return r, nil
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}
}

// Apply performs op immediately. Only for use when Run is not active.
func (c *Controller) Apply(op Op) Reply {
	var changed bool
	var err error
	switch op {
	case StartRecording:
		changed, err = c.engine.StartRecording()
	case StopRecording:
		changed, err = c.engine.StopRecording()
	case StartReplay:
		changed, err = c.engine.StartReplay()
	case StopReplay:
		changed, err = c.engine.StopReplay()
	case SaveSession:
		changed, err = c.engine.SaveSession()
	case LoadSession:
		changed, err = c.engine.LoadSession()
	case GetStatus:
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownOp, op)
	}
	if err != nil {
		c.log.Info("operation not completed", zap.String("op", string(op)), zap.Error(err))
	}
	return Reply{Changed: changed, Err: err, Status: c.status()}
}

func (c *Controller) status() Status {
	light := util.Clamp(int(c.light), c.cfg.MinLight, c.cfg.MaxLight)
	return Status{
		Mode:    c.engine.State().Mode(),
		Light:   c.light,
		Norm:    float64(light-c.cfg.MinLight) / float64(c.cfg.MaxLight-c.cfg.MinLight),
		Hz:      c.voice.hz,
		Session: c.engine.Id(),
		Samples: len(c.engine.Session()),
		Cursor:  c.engine.Cursor(),
	}
}

// Session exposes the in-memory session. Only for use when Run is not active.
func (c *Controller) Session() model.Session {
	return c.engine.Session()
}

// Mode reports the playback mode. Only for use when Run is not active.
func (c *Controller) Mode() model.Mode {
	return c.engine.State().Mode()
}
