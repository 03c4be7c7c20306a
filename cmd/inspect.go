package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Prints the stored session",
	Long:  `Prints every sample of the stored session as timestamp (ms) and light value`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		samples, err := st.Load()
		if err != nil {
			return err
		}
		for _, s := range samples {
			fmt.Printf("%8d %5d\n", s.Timestamp, s.Value)
		}
		return nil
	},
}
