// Package servecmder provides the serve command for running the khata server.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/khata/api"
	"github.com/papercomputeco/khata/api/mcp"
	apicmder "github.com/papercomputeco/khata/cmd/khata/serve/api"
	"github.com/papercomputeco/khata/cmd/khata/setup"
	"github.com/papercomputeco/khata/pkg/config"
	"github.com/papercomputeco/khata/pkg/engine"
	"github.com/papercomputeco/khata/pkg/eventstream/logpub"
	"github.com/papercomputeco/khata/pkg/logger"
)

type ServeCommander struct {
	listen      string
	engineFlags setup.EngineFlags
	noMCP       bool
	debug       bool
	cfg         *config.Config
	logger      *zap.Logger
}

const serveLongDesc string = `Run the khata server.

Serves the REST query API and, unless --no-mcp is given, mounts the MCP
endpoint at /mcp on the same listener so agent clients can call the ask,
search, and history tools.

Use subcommands to run individual services:
  khata serve          Run the API server with the MCP endpoint
  khata serve api      Run just the REST API server`

const serveShortDesc string = "Run the khata server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
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
	cmd.Flags().BoolVar(&cmder.noMCP, "no-mcp", false, "Disable the MCP endpoint")

	cmd.AddCommand(apicmder.NewAPICmd())

	return cmd
}

func (c *ServeCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	// The log stream doubles as the event stream while serving.
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

	apiConfig := api.Config{
		ListenAddr: c.cfg.API.Listen,
		Memory:     mem,
	}

	if !c.noMCP {
		mcpServer, err := mcp.NewServer(mcp.Config{
			Engine: eng,
			Memory: mem,
			Logger: c.logger,
		})
		if err != nil {
			return fmt.Errorf("creating MCP server: %w", err)
		}
		apiConfig.MCPHandler = mcpServer.Handler()
	}

	apiServer, err := api.NewServer(apiConfig, eng, c.logger)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	c.logger.Info("starting api server",
		zap.String("listen", c.cfg.API.Listen),
		zap.String("ledger_source", c.cfg.Ledger.Source),
		zap.String("embedding_provider", c.cfg.Embedding.Provider),
		zap.String("vector_provider", c.cfg.VectorStore.Provider),
		zap.Bool("mcp", !c.noMCP),
	)

	// Channel to capture errors from the server goroutine
	errChan := make(chan error, 1)

	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return apiServer.Shutdown()
	}
}
