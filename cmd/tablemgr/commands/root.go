package commands

import (
	"context"
	"io"

	"github.com/Konsultn-Engineering/tablemgr/config"
	"github.com/Konsultn-Engineering/tablemgr/engine"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	_ "github.com/Konsultn-Engineering/tablemgr/providers/mssql"
	_ "github.com/Konsultn-Engineering/tablemgr/providers/mysql"
	_ "github.com/Konsultn-Engineering/tablemgr/providers/postgres"
	_ "github.com/Konsultn-Engineering/tablemgr/providers/sqlite"
)

// NewRootCommand builds the tablemgr command tree.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	rc := &cobra.Command{
		Use:           "tablemgr",
		Short:         "Describe tables and bulk load records into them.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rc.PersistentFlags().StringP("config", "c", "tablemgr.yaml", "Configuration file to read from.")

	rc.AddCommand(newDescribeCommand(stdout, stderr))
	rc.AddCommand(newLoadCommand(stdin, stdout, stderr))

	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

// setup loads the config named by --config and opens a manager with it.
func setup(ctx context.Context, cmd *cobra.Command, stderr io.Writer, opts ...engine.Option) (*config.Config, *engine.Manager, zerolog.Logger, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}
	logger := cfg.Log.Logger(stderr)

	m, err := engine.Open(ctx, cfg, append([]engine.Option{engine.WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, nil, logger, err
	}
	return cfg, m, logger, nil
}
