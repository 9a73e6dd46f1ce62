package cli

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"skin-animator/internal/config"
	"skin-animator/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// NewRootCommand creates the root command of the animate CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "animate",
		Short: "Pose skinned rigs and render keyframe animations",
		Long: `Loads a rig (bone hierarchy plus skinned mesh), runs its pose script
through the keyframe editor and renders keyframe thumbnails and sampled
playback frames as WebP images.`,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (yaml or json)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (trace|debug|info|warn|error|off)")

	// Add subcommands
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewBuiltinsCommand())

	return cmd
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts *RootOptions, flags config.Flags) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	flags.LogLevel = opts.LogLevel
	cfg.Resolve(flags)
	return cfg, nil
}

func newLogger(cfg config.Config, w io.Writer) zerolog.Logger {
	return logging.New(cfg.LogLevel, w)
}
