package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"narrator-cli/cmd/utils"
)

// Version will be set by build flags during release builds
var Version = "dev"

const (
	defaultEndpoint = "http://ml:8888/v1"
	defaultModel    = "default"
)

var (
	debug       bool
	endpoint    string
	model       string
	apiKey      string
	configFile  string
	overrideCwd string
)

var rootCmd = &cobra.Command{
	Use:   "mrm",
	Short: "The Narrator's Console - a terminal chat with a self-aware storyteller",
	Long: `mrm opens a full-screen conversation with the Narrator, a playful,
reality-bending storyteller backed by any OpenAI-compatible
/chat/completions endpoint.

Configuration is resolved from flags, then MRM_ENDPOINT / MRM_MODEL /
MRM_API_KEY, then an optional mrm.yaml (or .yml, .toml, .json) in the
working directory or the user config directory.

Examples:
  mrm
  mrm -e http://localhost:8080/v1 -m llama3
  mrm --apikey sk-... --debug`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		utils.OverrideCwd = overrideCwd
		if debug || truthy(os.Getenv("DEBUG")) {
			if err := utils.InitDebugLogger("", debug); err != nil {
				return fmt.Errorf("failed to open debug log: %w", err)
			}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, source, err := resolveSessionConfig(flagInputs(cmd))
		if err != nil {
			return err
		}
		utils.LogDebug(fmt.Sprintf("session config: endpoint=%s model=%s api_key_set=%t source=%s",
			cfg.Endpoint, cfg.Model, cfg.APIKey != "", source))
		return runSession(cmd.Context(), cfg, os.Stdin, os.Stdout)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		utils.CloseDebugLogger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		utils.CloseDebugLogger()
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = utils.FormatVersionForDisplay(Version)
	rootCmd.SetVersionTemplate("mrm {{.Version}}\n")

	rootCmd.Flags().StringVarP(&endpoint, "endpoint", "e", defaultEndpoint, "OpenAI-compatible API base URL")
	rootCmd.Flags().StringVarP(&model, "model", "m", defaultModel, "Model identifier sent with every request")
	rootCmd.Flags().StringVarP(&apiKey, "apikey", "a", "", "Bearer API key (optional)")
	rootCmd.Flags().StringVar(&configFile, "config", "", "Read settings from this config file")

	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Write a debug log to debug.log")
	rootCmd.PersistentFlags().StringVar(&overrideCwd, "cwd", "", "Override the working directory used for config lookup and the debug log")
}

// flagInputs collects only the flags the user actually set, so that
// environment and file values can fill the rest.
func flagInputs(cmd *cobra.Command) configInputs {
	in := configInputs{
		ConfigFile: configFile,
		Getenv:     os.Getenv,
	}
	if cmd.Flags().Changed("endpoint") {
		in.Endpoint = endpoint
	}
	if cmd.Flags().Changed("model") {
		in.Model = model
	}
	if cmd.Flags().Changed("apikey") {
		in.APIKey = apiKey
	}
	return in
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
