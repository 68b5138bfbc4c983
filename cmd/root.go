package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/bgraf/trackmap/config"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trackmap",
	Short: "Show GPX tracks and CSV legs from remote sources on a map",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.trackmap.yaml)")

	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	if err := viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		panic(err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in the working directory, then in home, with name ".trackmap" (without extension).
		if dir, err := os.Getwd(); err == nil {
			viper.AddConfigPath(dir)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".trackmap")
	}

	viper.SetEnvPrefix("trackmap")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	err := viper.ReadInConfig()

	level, levelErr := log.ParseLevel(config.LogLevel())
	if levelErr != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if err == nil {
		log.Info("using config file", "path", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		log.Fatal("could not read config file", "path", cfgFile, "err", err)
	}
}
