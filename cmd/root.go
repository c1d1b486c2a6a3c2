package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "quell",
	Short: "A log suppression and sanitization tool",
	Long: `Quell filters noise out of log streams and redacts credentials
before they reach anyone's eyes.

It classifies every line against categorized pattern sets: noise patterns
(browser-extension errors, known harmless warnings) suppress the line
entirely, sensitive patterns (tokens, keys, credentials) redact it in place.

Examples:
  quell filter app.log
  quell filter --stats --level warn 'logs/*.log'
  quell tail --follow-rotate /var/log/app.log
  quell stats app.log
  quell explain app.log`,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.quell.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "output format (text, json, table)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".quell")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("QUELL")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("format", "text")
	viper.SetDefault("verbose", false)
	viper.SetDefault("minimum_log_level", "trace")
	viper.SetDefault("production_mode", false)
	viper.SetDefault("max_recent_suppressed", 20)

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
