package internal

import (
	"github.com/spf13/cobra"

	"github.com/goplus/xmakegen/internal/config"
	"github.com/goplus/xmakegen/internal/logging"
	"github.com/goplus/xmakegen/internal/logging/logfields"
)

var log = logging.DefaultLogger.WithField(logfields.LogSubsys, "cli")

var (
	cfgFile   string
	logLevel  string
	logFormat string
	verbose   bool

	// cfg is loaded before any subcommand runs.
	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "xmakegen",
	Short: "xmakegen writes xmake build info for resolved dependencies",
	Long: `xmakegen turns a resolved dependency graph into conanbuildinfo.xmake.lua,
the table xmake loads to find include dirs, libraries, defines and flags.`,
	Version:           version(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default <user config dir>/xmakegen/config.yaml)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "", "Log format: text or json")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Shorthand for --log-level=debug")
}

// setup loads the config file and applies logging options. Flags win over
// the config file.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if verbose {
		level = "debug"
	}
	if err := logging.SetLogLevel(level); err != nil {
		return err
	}

	format := cfg.LogFormat
	if logFormat != "" {
		format = logFormat
	}
	return logging.SetLogFormat(format)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
