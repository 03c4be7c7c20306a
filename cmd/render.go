package cmd

import (
	"fmt"
	"time"

	"github.com/jsphweid/lightorchestra/constants"
	"github.com/jsphweid/lightorchestra/controller"
	"github.com/jsphweid/lightorchestra/midi"
	"github.com/jsphweid/lightorchestra/model"
	"github.com/jsphweid/lightorchestra/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	renderBPM    int
	renderVerify bool
)

func init() {
	renderCmd.Flags().IntVar(&renderBPM, "bpm", constants.DefaultBPM, "tempo")
	renderCmd.Flags().BoolVar(&renderVerify, "verify", false, "read the file back and check its note count")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <out.mid>",
	Short: "Renders the stored session to a MIDI file",
	Long:  `Replays the stored session against a virtual clock and writes the notes it plays to a Standard MIDI File.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		notes, err := render(st, renderBPM, args[0])
		if err != nil {
			return err
		}
		if renderVerify {
			if err := midi.Verify(args[0], notes); err != nil {
				return err
			}
		}
		fmt.Printf("Wrote %v notes to %v\n", notes, args[0])
		return nil
	},
}

type darkness struct{}

func (darkness) ReadLight() (uint16, error) { return 0, nil }

func render(st store.SessionStore, bpm int, path string) (int, error) {
	start := time.Unix(0, 0)
	now := start
	out := midi.NewRenderer(bpm, func() time.Duration { return now.Sub(start) })

	cfg := controller.DefaultConfig()
	cfg.BPM = bpm
	ctl, err := controller.New(cfg, darkness{}, out, st, logger, controller.WithClock(func() time.Time { return now }))
	if err != nil {
		return 0, err
	}
	if r := ctl.Apply(controller.LoadSession); r.Err != nil {
		return 0, r.Err
	}
	if r := ctl.Apply(controller.StartReplay); r.Err != nil {
		return 0, r.Err
	}

	for {
		now = now.Add(ctl.Tick())
		if ctl.Mode() != model.Replaying {
			break
		}
	}

	logger.Info("session rendered", zap.Duration("length", now.Sub(start)), zap.Int("notes", out.Notes()))
	return out.Notes(), out.WriteFile(path)
}
