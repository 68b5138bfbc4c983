package cmd

import (
	"github.com/bgraf/trackmap/cmd/serve"
	"github.com/bgraf/trackmap/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive map and load all datasets in the background",
	RunE:  serve.RunServeCmd,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "Listen address (default :8000)")
	if err := viper.BindPFlag(config.KeyServerAddress, serveCmd.Flags().Lookup("address")); err != nil {
		panic(err)
	}
}
