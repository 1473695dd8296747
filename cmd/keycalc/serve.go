package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lemonberrylabs/keycalc/pkg/api"
	grpcapi "github.com/lemonberrylabs/keycalc/pkg/api/grpc"
	"github.com/lemonberrylabs/keycalc/pkg/config"
	"github.com/lemonberrylabs/keycalc/pkg/input"
	"github.com/lemonberrylabs/keycalc/pkg/store"
	"github.com/lemonberrylabs/keycalc/web"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP, gRPC and web keypad servers",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	cmd.Flags().String("config", "", "YAML config file (env KEYCALC_CONFIG)")
	cmd.Flags().Int("port", 0, "HTTP server port (default 8787, env PORT)")
	cmd.Flags().Int("grpc-port", -1, "gRPC server port, 0 disables (default 8788, env GRPC_PORT)")
	cmd.Flags().String("host", "", "Bind address (default 0.0.0.0, env HOST)")
	cmd.Flags().String("data-file", "", "bbolt file for themes and history (env DATA_FILE)")
	cmd.Flags().Bool("log-requests", false, "log every HTTP request")
	return cmd
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path := os.Getenv("KEYCALC_CONFIG")
	if v, _ := cmd.Flags().GetString("config"); v != "" {
		path = v
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		cfg.Port = v
	}
	if v, _ := cmd.Flags().GetInt("grpc-port"); v >= 0 {
		cfg.GRPCPort = v
	}
	if v, _ := cmd.Flags().GetString("host"); v != "" {
		cfg.Host = v
	}
	if v, _ := cmd.Flags().GetString("data-file"); v != "" {
		cfg.DataFile = v
	}
	if v, _ := cmd.Flags().GetBool("log-requests"); v {
		cfg.LogRequests = true
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []store.Option{
		store.WithInputOptions(input.Options{CommaAsDecimal: cfg.CommaIsDecimal()}),
	}
	if cfg.DataFile != "" {
		p, err := store.OpenBolt(cfg.DataFile)
		if err != nil {
			return fmt.Errorf("opening data file: %w", err)
		}
		opts = append(opts, store.WithPersister(p))
		log.Printf("Persisting themes and history to %s", cfg.DataFile)
	}
	s := store.New(opts...)
	defer func() {
		if err := s.Close(); err != nil {
			log.Printf("Error closing store: %v", err)
		}
	}()

	var apiOpts []api.Option
	if cfg.LogRequests {
		apiOpts = append(apiOpts, api.WithRequestLog(os.Stderr))
	}
	server := api.New(s, apiOpts...)

	// Register the web UI (non-fatal if template parsing fails)
	if cfg.UIEnabled() {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Warning: web UI disabled due to template error: %v", r)
				}
			}()
			web.New(s).Register(server.App())
		}()
	}

	var grpcServer *grpcapi.Server
	if grpcAddr := cfg.GRPCAddr(); grpcAddr != "" {
		grpcServer = grpcapi.New(s)
		go func() {
			log.Printf("gRPC server listening on %s", grpcAddr)
			if err := grpcServer.Serve(grpcAddr); err != nil {
				log.Printf("gRPC server error: %v", err)
			}
		}()
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down keycalc...")
		if grpcServer != nil {
			grpcServer.GracefulStop()
		}
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("keycalc listening on %s", cfg.Addr())
	if !cfg.UIEnabled() {
		log.Printf("API-only mode (web keypad disabled)")
	}
	return server.Listen(cfg.Addr())
}
