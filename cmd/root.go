package cmd

import (
	"github.com/jsphweid/lightorchestra/constants"
	"github.com/jsphweid/lightorchestra/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	debug       bool
	sessionPath string
	logger      = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "lightorchestra",
	Short: "Plays ambient light as music",
	Long: `Reads a light sensor, maps it onto a diatonic scale and plays a
four note chord per bar that follows how the light changes. Light sessions
can be recorded and replayed with their original timing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if debug {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", constants.GetSessionPath(), "session file")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// openStore uses DynamoDB when LIGHT_DYNAMO_TABLE is set, the session file
// otherwise.
func openStore() (store.SessionStore, error) {
	if table := constants.GetDynamoTable(); table != "" {
		logger.Info("using DynamoDB session store", zap.String("table", table))
		return store.NewDynamo(constants.GetDynamoEndpoint(), constants.GetDynamoRegion(), table, constants.GetDeviceId())
	}
	return store.NewFile(sessionPath), nil
}
