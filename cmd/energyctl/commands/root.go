package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"energy-cost-backend/config"
	"energy-cost-backend/internal/appliance"
	"energy-cost-backend/internal/logging"
	"energy-cost-backend/internal/store"
)

// env is the state shared by every subcommand of one invocation.
type env struct {
	configPath string
	dataPath   string

	kv       store.Store
	registry *appliance.Registry
	prefs    *store.Preferences
}

func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:          "energyctl",
		Short:        "Estimate the monthly energy cost of household appliances",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if e.kv == nil {
				return nil
			}
			return e.kv.Close()
		},
	}

	root.PersistentFlags().StringVar(&e.configPath, "config", "", "config file (default $CONFIG_PATH, then built-in defaults)")
	root.PersistentFlags().StringVar(&e.dataPath, "data", "", "use a JSON file store at this path instead of the configured storage")

	root.AddCommand(
		listCmd(e),
		addCmd(e),
		updateCmd(e),
		removeCmd(e),
		summaryCmd(e),
		chartCmd(e),
		categoriesCmd(),
		themeCmd(e),
		seedCmd(e),
	)
	return root
}

func (e *env) loadConfig() (*config.Config, error) {
	path := e.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func (e *env) open(ctx context.Context) error {
	cfg, err := e.loadConfig()
	if err != nil {
		return err
	}
	if e.dataPath != "" {
		cfg.Storage.Driver = "file"
		cfg.Storage.Path = e.dataPath
	}

	// Diagnostics go to stderr so command output stays clean.
	cfg.Logging.Output = "stderr"
	logger := logging.New(cfg.Logging)

	policy, _ := appliance.ParseUpdatePolicy(cfg.Registry.UpdatePolicy)

	e.kv, err = store.Open(&cfg.Storage)
	if err != nil {
		return err
	}
	e.prefs = store.NewPreferences(e.kv)
	e.registry = appliance.NewRegistry(store.NewApplianceRecords(e.kv),
		appliance.WithUpdatePolicy(policy),
		appliance.WithLogger(logger),
	)
	return e.registry.Restore(ctx)
}
