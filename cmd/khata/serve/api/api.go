// Package apicmder provides the khata REST API server cobra command.
package apicmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/khata/api"
	"github.com/papercomputeco/khata/cmd/khata/setup"
	"github.com/papercomputeco/khata/pkg/config"
	"github.com/papercomputeco/khata/pkg/engine"
	"github.com/papercomputeco/khata/pkg/eventstream/logpub"
	"github.com/papercomputeco/khata/pkg/logger"
)

type apiCommander struct {
	listen      string
	engineFlags setup.EngineFlags
	debug       bool
	cfg         *config.Config
	logger      *zap.Logger
}

const apiLongDesc string = `Run the khata REST API server for querying the transaction ledger.`

const apiShortDesc string = "Run the khata REST API server"

func NewAPICmd() *cobra.Command {
	cmder := &apiCommander{}

	cmd := &cobra.Command{
		Use:   "api",
		Short: apiShortDesc,
		Long:  apiLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}

			keys := append([]string{config.FlagAPIListen}, setup.EngineFlagKeys...)
			config.BindRegisteredFlags(v, cmd, config.Flags, keys)

			cmder.cfg = config.FromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPIListen, &cmder.listen)
	setup.AddEngineFlags(cmd, &cmder.engineFlags)

	return cmd
}

func (c *apiCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	eng, closeEngine, err := setup.NewEngine(ctx, c.cfg, c.logger,
		engine.WithPublisher(logpub.NewPublisher(c.logger)))
	if err != nil {
		return err
	}
	defer closeEngine()

	mem, err := setup.NewMemoryDriver(c.cfg)
	if err != nil {
		return fmt.Errorf("creating memory driver: %w", err)
	}
	if mem != nil {
		defer mem.Close()
	}

	server, err := api.NewServer(api.Config{
		ListenAddr: c.cfg.API.Listen,
		Memory:     mem,
	}, eng, c.logger)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	c.logger.Info("starting API server",
		zap.String("listen", c.cfg.API.Listen),
		zap.String("ledger_source", c.cfg.Ledger.Source),
	)

	return server.Run()
}
