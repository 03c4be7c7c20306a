package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsphweid/lightorchestra/constants"
	"github.com/jsphweid/lightorchestra/controller"
	"github.com/jsphweid/lightorchestra/device"
	"github.com/jsphweid/lightorchestra/server"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	"go.uber.org/zap"
)

var runOpts struct {
	sim      bool
	serial   string
	baud     int
	midiOut  string
	httpAddr string
	record   bool
	replay   bool
	bpm      int
	tick     time.Duration
}

func init() {
	f := runCmd.Flags()
	f.BoolVar(&runOpts.sim, "sim", false, "use a simulated light sensor")
	f.StringVar(&runOpts.serial, "serial", constants.GetSerialPort(), "serial device of the light/buzzer board")
	f.IntVar(&runOpts.baud, "baud", constants.GetSerialBaud(), "serial baud rate")
	f.StringVar(&runOpts.midiOut, "midi-out", "", "play notes on this MIDI output port instead of the buzzer")
	f.StringVar(&runOpts.httpAddr, "http", "", "serve the control endpoint on this address, e.g. :8080")
	f.BoolVar(&runOpts.record, "record", false, "start recording immediately")
	f.BoolVar(&runOpts.replay, "replay", false, "load the stored session and replay it")
	f.IntVar(&runOpts.bpm, "bpm", constants.DefaultBPM, "tempo")
	f.DurationVar(&runOpts.tick, "tick", constants.TickInterval, "live sampling interval")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs the light to music loop",
	Long:  `Runs the light to music loop until interrupted. A recording in progress is saved on exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if runOpts.record && runOpts.replay {
			return errors.New("--record and --replay are mutually exclusive")
		}
		return run(cmd.Context())
	},
}

func run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := controller.DefaultConfig()
	cfg.BPM = runOpts.bpm
	cfg.Tick = runOpts.tick
	if err := cfg.Validate(); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	var sensor device.LightSensor
	var tone device.ToneDevice
	switch {
	case runOpts.serial != "":
		board, err := device.OpenBoard(runOpts.serial, runOpts.baud, logger)
		if err != nil {
			return err
		}
		defer board.Close()
		sensor, tone = board, board
	case runOpts.sim:
		// one slow sweep every two bars
		sensor = device.NewSim(8 * time.Minute / time.Duration(cfg.BPM))
	default:
		return errors.New("need a light source: --serial or --sim")
	}

	if runOpts.midiOut != "" {
		defer midi.CloseDriver()
		out, err := device.OpenMIDIOut(runOpts.midiOut, 0, logger)
		if err != nil {
			return err
		}
		defer out.Close()
		tone = out
	}
	if tone == nil {
		tone = device.NewLogged(logger)
	}

	ctl, err := controller.New(cfg, sensor, tone, st, logger)
	if err != nil {
		return err
	}

	if runOpts.replay {
		if r := ctl.Apply(controller.LoadSession); r.Err != nil {
			logger.Warn("continuing live", zap.Error(r.Err))
		} else if r := ctl.Apply(controller.StartReplay); r.Err != nil {
			logger.Warn("continuing live", zap.Error(r.Err))
		}
	}
	if runOpts.record {
		ctl.Apply(controller.StartRecording)
	}

	if runOpts.httpAddr != "" {
		srv := &http.Server{
			Addr:    runOpts.httpAddr,
			Handler: server.New(ctl, constants.GetDeviceId(), logger).Handler(),
		}
		go func() {
			logger.Info("serving control endpoint", zap.String("addr", runOpts.httpAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("control endpoint failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	return ctl.Run(ctx)
}
