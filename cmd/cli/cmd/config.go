package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"printquote/internal/config"
	perrors "printquote/internal/errors"
)

var configForce bool

// configCmd manages configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Long: `Write the default configuration to --config, or to
$HOME/.printquote/config.json when no path is given.

An existing file is left alone unless --force is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		if err := initConfigFile(path, config.Default(), configForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig(cmd.OutOrStdout(), config.Get())
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func initConfigFile(path string, cfg *config.Config, force bool) error {
	if path == "" {
		return perrors.New(perrors.TypeConfig, "no config path: pass --config")
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return perrors.Newf(perrors.TypeConfig, "%s already exists (use --force to overwrite)", path)
		}
	}
	if err := cfg.Save(path); err != nil {
		return perrors.Wrapf(perrors.TypeConfig, err, "write config %s", path)
	}
	return nil
}

func showConfig(w io.Writer, cfg *config.Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}
