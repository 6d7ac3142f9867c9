package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/nocsim/config"
)

var configCmd = &cobra.Command{
	Use:   "config [config.yaml] [key=value ...]",
	Short: "Print the resolved configuration.",
	Long: "`config` applies the configuration file, the environment, and the " +
		"command line assignments to the defaults and prints the result as YAML.",
	RunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")

		cfg, err := loadConfig(args, envFile)
		if err != nil {
			return err
		}

		return cfg.Dump(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().String("env-file", ".env",
		"Read NOCSIM_* overrides from this file")
}

// loadConfig builds a configuration from an optional YAML file followed by
// key=value assignments. Environment overrides are applied between the two.
func loadConfig(args []string, envFile string) (*config.Configuration, error) {
	cfg := config.New()

	if len(args) > 0 && !isAssignment(args[0]) {
		if err := cfg.LoadFile(args[0]); err != nil {
			return nil, err
		}

		args = args[1:]
	}

	if err := cfg.LoadEnv(envFile); err != nil {
		return nil, err
	}

	for _, a := range args {
		if !isAssignment(a) {
			return nil, fmt.Errorf("%q is not a key=value assignment", a)
		}

		if err := cfg.Assign(a); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func isAssignment(arg string) bool {
	return strings.Contains(arg, "=")
}
