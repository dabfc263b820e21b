package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kalmanmoshe/fencedit/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage fencedit configuration",
	Long: `View or edit your fencedit configuration.

Examples:
  fencedit config                     # show effective config
  fencedit config path                # print config file path
  fencedit config edit                # edit in $EDITOR`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		return configShow(cmd.OutOrStdout(), cfg)
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file in $EDITOR",
	Args:  cobra.NoArgs,
	RunE:  configEdit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configTargetPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configPathCmd)
}

// configTargetPath is --config when given, else the default location.
func configTargetPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	return path, nil
}

func configShow(w io.Writer, cfg *config.Config) error {
	if cfg.File == "" {
		path, _ := configTargetPath()
		fmt.Fprintf(w, "# No config file (using defaults)\n")
		fmt.Fprintf(w, "# Create one with: fencedit config edit (%s)\n\n", path)
	} else {
		fmt.Fprintf(w, "# %s\n\n", cfg.File)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

func configEdit(cmd *cobra.Command, args []string) error {
	configPath, err := configTargetPath()
	if err != nil {
		return err
	}

	// Create a commented default config if it doesn't exist
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		defaults, err := config.Defaults()
		if err != nil {
			return err
		}
		if err := config.Save(defaults, configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Warn("opening config with errors", "error", err)
		cfg = &config.Config{}
	}
	argv := append(editorCommand(cfg), configPath)
	editorCmd := exec.Command(argv[0], argv[1:]...)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	return editorCmd.Run()
}
