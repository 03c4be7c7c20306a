//go:build e2e
// +build e2e

package e2e_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jsphweid/lightorchestra/controller"
	"github.com/jsphweid/lightorchestra/model"
	"github.com/jsphweid/lightorchestra/server"
	"github.com/jsphweid/lightorchestra/store"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type lamp struct {
	mu    sync.Mutex
	value uint16
}

func (l *lamp) ReadLight() (uint16, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, nil
}

func (l *lamp) set(v uint16) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.value = v
}

type buzzer struct {
	mu    sync.Mutex
	notes int
}

func (b *buzzer) SetFrequency(hz int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notes++
}

func (b *buzzer) SetDutyOff() {}

func post(t *testing.T, base, path string) (int, model.ControlResponse) {
	resp, err := http.Post(base+path, "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	var res model.ControlResponse
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, res
}

func TestRecordAndReplayOverHTTP(t *testing.T) {
	assert := assert.New(t)
	log := zaptest.NewLogger(t)
	light := &lamp{value: 20000}
	st := store.NewFile(filepath.Join(t.TempDir(), "session.json"))

	cfg := controller.DefaultConfig()
	cfg.Tick = 5 * time.Millisecond
	ctl, err := controller.New(cfg, light, &buzzer{}, st, log)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- ctl.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	srv := httptest.NewServer(server.New(ctl, "pico-e2e", log).Handler())
	defer srv.Close()

	code, res := post(t, srv.URL, "/recording/start")
	assert.Equal(200, code)
	assert.Equal("recording", res.Mode)

	// long enough that the replay below is still running when recording is
	// requested again
	for _, v := range []uint16{20000, 3000, 45000} {
		light.set(v)
		time.Sleep(400 * time.Millisecond)
	}

	code, _ = post(t, srv.URL, "/replay/start")
	assert.Equal(http.StatusConflict, code)

	code, res = post(t, srv.URL, "/recording/stop")
	assert.Equal(200, code)
	assert.True(res.Changed)

	saved, err := st.Load()
	assert.NoError(err)
	assert.NotEmpty(saved)

	code, res = post(t, srv.URL, "/replay/start")
	assert.Equal(200, code)
	assert.Equal("replaying", res.Mode)

	code, res = post(t, srv.URL, "/recording/start")
	assert.Equal(http.StatusConflict, code)
	assert.False(res.Changed)
	assert.Equal("replaying", res.Mode)

	code, res = post(t, srv.URL, "/replay/stop")
	assert.Equal(200, code)
	code, res = post(t, srv.URL, "/replay/stop")
	assert.Equal(200, code)
	assert.Equal("nothing to do", res.Detail)
}
