package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"todoapi/pkg/config"
)

type flagBinding struct {
	key   string
	flag  string
	usage string
}

var persistentFlags = []flagBinding{
	{key: "store", flag: "store", usage: "todo store: memory, sqlite, postgres or badger"},
	{key: "database_path", flag: "database-path", usage: "sqlite database file (\":memory:\" for a throwaway database)"},
	{key: "database_url", flag: "database-url", usage: "postgres connection URL"},
	{key: "badger_path", flag: "badger-path", usage: "badger data directory (empty for in-memory)"},
	{key: "sql_log_level", flag: "sql-log-level", usage: "SQL statement log level"},
	{key: "environment", flag: "environment", usage: "deployment environment"},
}

var serveFlags = []flagBinding{
	{key: "port", flag: "port", usage: "HTTP port"},
	{key: "metrics_port", flag: "metrics-port", usage: "Prometheus metrics port"},
	{key: "otlp_endpoint", flag: "otlp-endpoint", usage: "OTLP gRPC endpoint for traces"},
	{key: "loki_url", flag: "loki-url", usage: "Loki base URL for log shipping"},
	{key: "gin_mode", flag: "gin-mode", usage: "gin mode: debug, release or test"},
}

// newRootCmd wires the commands to a fresh viper instance. Flags win over
// environment variables, which win over the config file.
func newRootCmd() *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)

	var configFile string

	root := &cobra.Command{
		Use:           "todoapi",
		Short:         "GraphQL todo list API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return readConfigFile(v, configFile)
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./todoapi.yaml or $HOME/.todoapi/todoapi.yaml)")
	addFlags(root.PersistentFlags(), v, persistentFlags)

	serve := newServeCmd(v)
	root.AddCommand(serve, newMigrateCmd(v))

	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func readConfigFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("todoapi")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.todoapi")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError

		if configFile == "" && errors.As(err, &notFound) {
			return nil
		}

		return fmt.Errorf("reading config: %w", err)
	}

	return nil
}
