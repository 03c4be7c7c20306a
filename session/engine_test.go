package session

import (
	"errors"
	"testing"
	"time"

	"github.com/jsphweid/lightorchestra/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type memStore struct {
	saved   model.Session
	saves   int
	saveErr error
	loadErr error
}

func (m *memStore) Save(s model.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(model.Session(nil), s...)
	m.saves++
	return nil
}

func (m *memStore) Load() (model.Session, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append(model.Session(nil), m.saved...), nil
}

type tone struct {
	offs int
}

func (t *tone) SetFrequency(hz int) {}
func (t *tone) SetDutyOff()         { t.offs++ }

func newEngine(t *testing.T) (*Engine, *memStore, *tone) {
	st := &memStore{}
	tn := &tone{}
	return NewEngine(st, tn, zaptest.NewLogger(t)), st, tn
}

func TestRecordThenReplayReproducesSpacing(t *testing.T) {
	assert := assert.New(t)
	e, st, tn := newEngine(t)

	changed, err := e.StartRecording()
	assert.True(changed)
	assert.NoError(err)
	assert.NotEmpty(e.Id())

	times := []int64{100, 150, 230, 231, 400}
	values := []uint16{1000, 2000, 3500, 1200, 65000}
	for i := range times {
		e.Record(times[i], values[i])
	}
	changed, err = e.StopRecording()
	assert.True(changed)
	assert.NoError(err)
	assert.Equal(1, st.saves)
	assert.Len(st.saved, 5)

	_, err = e.StartReplay()
	assert.NoError(err)
	assert.Equal(Replaying, e.State())

	var got []uint16
	var total time.Duration
	for {
		s, wait, ok := e.Next()
		if !ok {
			break
		}
		got = append(got, s.Value)
		total += wait
	}
	assert.Equal(values, got)
	assert.Equal(300*time.Millisecond, total)
	assert.Equal(Idle, e.State())
	// the last note is still sounding
	assert.Equal(0, tn.offs)
}

func TestReplayWaitsAreNeverNegative(t *testing.T) {
	assert := assert.New(t)
	e, st, _ := newEngine(t)
	st.saved = model.Session{{Timestamp: 50, Value: 1}, {Timestamp: 50, Value: 2}, {Timestamp: 90, Value: 3}}
	_, err := e.LoadSession()
	assert.NoError(err)
	e.StartReplay()

	_, wait, _ := e.Next()
	assert.Equal(time.Duration(0), wait)
	_, wait, _ = e.Next()
	assert.Equal(40*time.Millisecond, wait)
	_, wait, ok := e.Next()
	assert.True(ok)
	assert.Equal(time.Duration(0), wait)
	_, _, ok = e.Next()
	assert.False(ok)
}

func TestLastSampleEndsReplay(t *testing.T) {
	assert := assert.New(t)
	e, st, _ := newEngine(t)
	st.saved = model.Session{{Timestamp: 0, Value: 9000}, {Timestamp: 40, Value: 9100}}
	e.LoadSession()
	e.StartReplay()

	e.Next()
	assert.Equal(Replaying, e.State())
	s, _, ok := e.Next()
	assert.True(ok)
	assert.Equal(uint16(9100), s.Value)
	assert.Equal(Idle, e.State())
	assert.Equal(2, e.Cursor())

	changed, err := e.StartRecording()
	assert.True(changed)
	assert.NoError(err)
}

func TestRecordClampsBackwardsTimestamps(t *testing.T) {
	e, _, _ := newEngine(t)
	e.StartRecording()
	e.Record(100, 1)
	e.Record(90, 2)
	assert.Equal(t, model.Session{{Timestamp: 100, Value: 1}, {Timestamp: 100, Value: 2}}, e.Session())
	assert.True(t, model.Sorted(e.Session()))
}

func TestRecordIgnoredWhenNotRecording(t *testing.T) {
	e, _, _ := newEngine(t)
	e.Record(1, 1)
	assert.Empty(t, e.Session())
}

func TestStartRecordingRejectedWhileReplaying(t *testing.T) {
	assert := assert.New(t)
	e, st, _ := newEngine(t)
	st.saved = model.Session{{Timestamp: 0, Value: 5000}, {Timestamp: 10, Value: 6000}}
	e.LoadSession()
	e.StartReplay()
	e.Next()

	changed, err := e.StartRecording()
	assert.False(changed)
	assert.True(errors.Is(err, ErrReplaying))
	assert.Equal(Replaying, e.State())
	assert.Equal(st.saved, e.Session())
	assert.Equal(1, e.Cursor())
}

func TestStartReplayRejectedWhileRecording(t *testing.T) {
	assert := assert.New(t)
	e, _, _ := newEngine(t)
	e.StartRecording()
	e.Record(1, 1000)

	changed, err := e.StartReplay()
	assert.False(changed)
	assert.True(errors.Is(err, ErrRecording))
	assert.Equal(Recording, e.State())
	assert.Len(e.Session(), 1)
}

func TestStartReplayNeedsSamples(t *testing.T) {
	e, _, _ := newEngine(t)
	_, err := e.StartReplay()
	assert.True(t, errors.Is(err, ErrEmptySession))
	assert.Equal(t, Idle, e.State())
}

func TestStopsAreNoOpsWhenIdle(t *testing.T) {
	assert := assert.New(t)
	e, st, tn := newEngine(t)

	changed, err := e.StopRecording()
	assert.False(changed)
	assert.NoError(err)
	changed, err = e.StopReplay()
	assert.False(changed)
	assert.NoError(err)
	changed, err = e.SaveSession()
	assert.False(changed)
	assert.NoError(err)

	assert.Equal(0, st.saves)
	assert.Equal(0, tn.offs)
}

func TestStartRecordingTwiceIsNoOp(t *testing.T) {
	e, _, _ := newEngine(t)
	e.StartRecording()
	e.Record(1, 1)
	changed, err := e.StartRecording()
	assert.False(t, changed)
	assert.NoError(t, err)
	assert.Len(t, e.Session(), 1)
}

func TestStopReplaySilences(t *testing.T) {
	e, st, tn := newEngine(t)
	st.saved = model.Session{{Timestamp: 0, Value: 5000}}
	e.LoadSession()
	e.StartReplay()
	changed, _ := e.StopReplay()
	assert.True(t, changed)
	assert.Equal(t, 1, tn.offs)
	assert.Equal(t, Idle, e.State())
}

func TestReplayRestartResetsCursor(t *testing.T) {
	e, st, _ := newEngine(t)
	st.saved = model.Session{{Timestamp: 0, Value: 1}, {Timestamp: 5, Value: 2}}
	e.LoadSession()
	e.StartReplay()
	e.Next()
	changed, err := e.StartReplay()
	assert.True(t, changed)
	assert.NoError(t, err)
	assert.Equal(t, 0, e.Cursor())
}

func TestSaveFailureStillStopsRecording(t *testing.T) {
	assert := assert.New(t)
	e, st, _ := newEngine(t)
	st.saveErr = errors.New("disk full")
	e.StartRecording()
	e.Record(1, 1)

	changed, err := e.StopRecording()
	assert.True(changed)
	assert.True(errors.Is(err, ErrStorage))
	assert.Equal(Idle, e.State())
	assert.Len(e.Session(), 1)
}

func TestLoadFailureLeavesEmptySession(t *testing.T) {
	assert := assert.New(t)
	e, st, _ := newEngine(t)
	e.StartRecording()
	e.Record(1, 1)
	e.StopRecording()

	st.loadErr = errors.New("corrupt")
	_, err := e.LoadSession()
	assert.True(errors.Is(err, ErrStorage))
	assert.Empty(e.Session())
	assert.Equal(Idle, e.State())
}

func TestLoadRejectedWhileBusy(t *testing.T) {
	e, _, _ := newEngine(t)
	e.StartRecording()
	_, err := e.LoadSession()
	assert.True(t, errors.Is(err, ErrBusy))
}

func TestSaveSessionPersistsPartialRecording(t *testing.T) {
	e, st, _ := newEngine(t)
	e.StartRecording()
	e.Record(1, 1)
	changed, err := e.SaveSession()
	assert.True(t, changed)
	assert.NoError(t, err)
	assert.Equal(t, Recording, e.State())
	assert.Len(t, st.saved, 1)
}
