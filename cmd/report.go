package cmd

import (
	"fmt"
	"time"

	"github.com/jsphweid/lightorchestra/model"
	"github.com/jsphweid/lightorchestra/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a report",
	Long:  `Summarizes the stored session: length, sample spacing and light range`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		samples, err := st.Load()
		if err != nil {
			return err
		}
		r := analyze(samples)
		fmt.Printf("samples: %v\n", r.numSamples)
		fmt.Printf("length: %v\n", r.span)
		fmt.Printf("mean gap: %v\n", r.meanGap)
		fmt.Printf("max gap: %v\n", r.maxGap)
		fmt.Printf("light range: %v - %v\n", r.minLight, r.maxLight)
		return nil
	},
}

type sessionReport struct {
	numSamples int
	span       time.Duration
	meanGap    time.Duration
	maxGap     time.Duration
	minLight   uint16
	maxLight   uint16
}

func analyze(samples model.Session) sessionReport {
	var report sessionReport
	report.numSamples = len(samples)
	if len(samples) == 0 {
		return report
	}

	gaps := make([]int64, 0, len(samples)-1)
	report.minLight, report.maxLight = samples[0].Value, samples[0].Value
	for i, s := range samples {
		report.minLight = util.Min(report.minLight, s.Value)
		report.maxLight = util.Max(report.maxLight, s.Value)
		if i > 0 {
			gaps = append(gaps, s.Timestamp-samples[i-1].Timestamp)
		}
	}

	ms := time.Millisecond
	report.span = time.Duration(samples[len(samples)-1].Timestamp-samples[0].Timestamp) * ms
	if len(gaps) > 0 {
		report.meanGap = time.Duration(util.Sum(gaps)/int64(len(gaps))) * ms
		for _, g := range gaps {
			report.maxGap = util.Max(report.maxGap, time.Duration(g)*ms)
		}
	}
	return report
}
