package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cruderly/wallie/internal/config"
	"github.com/cruderly/wallie/internal/server"
	"github.com/cruderly/wallie/pkg/site"
)

// serveOptions holds the flags of the serve command. Flags override the
// config file and the environment only when set.
type serveOptions struct {
	configPath  string
	addr        string
	baseURL     string
	endpoint    string
	metrics     bool
	printConfig bool
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site and accept leads",
		Long: `Serve the localized site, its static assets and the lead API.

Configuration is read from --config or $WALLIE_CONFIG (TOML). WALLIE_*
environment variables override the file, and flags override both.`,
		Example: `  # Serve with built-in defaults on :8080
  wallie serve

  # Serve with a config file and metrics on another port
  wallie serve --config /etc/wallie.toml --addr :9000 --metrics

  # Show the effective configuration
  wallie serve --config wallie.toml --print-config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServeConfig(cmd, opts)
			if err != nil {
				return err
			}
			if opts.printConfig {
				fmt.Fprint(cmd.OutOrStdout(), cfg.String())
				return nil
			}
			return c.runServe(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (default $"+config.EnvConfig+")")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default "+config.DefaultAddr+")")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "public origin used in canonical links")
	cmd.Flags().StringVar(&opts.endpoint, "leads-endpoint", "", "form backend the leads are forwarded to")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "expose Prometheus metrics at /metrics")
	cmd.Flags().BoolVar(&opts.printConfig, "print-config", false, "print the effective configuration and exit")

	return cmd
}

// loadServeConfig loads the config file and applies the flags that were set.
func loadServeConfig(cmd *cobra.Command, opts serveOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Server.Addr = opts.addr
	}
	if flags.Changed("base-url") {
		cfg.Site.BaseURL = opts.baseURL
	}
	if flags.Changed("leads-endpoint") {
		cfg.Leads.Endpoint = opts.endpoint
	}
	if flags.Changed("metrics") {
		cfg.Server.Metrics = opts.metrics
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *CLI) runServe(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.ErrOrStderr()

	spinner := newSpinner(ctx, out, "Connecting backends...")
	spinner.Start()
	prog := newProgress(logger)
	srv, err := server.Build(ctx, cfg, logger)
	if err != nil {
		spinner.StopWithError("Backends unavailable")
		return err
	}
	spinner.Stop()
	prog.done("Backends ready")
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Error("close backends", "error", err)
		}
	}()

	printKeyValue(out, "Address", cfg.Server.Addr)
	printKeyValue(out, "Site", StyleLink.Render(cfg.Site.BaseURL))
	printKeyValue(out, "Cache", cfg.Site.Cache)
	printKeyValue(out, "Leads", cfg.Leads.Store+" / "+cfg.Leads.Limiter)
	if cfg.Leads.Endpoint == "" {
		printWarning(out, "No leads.endpoint configured; leads are archived only")
	}
	if missing := site.MissingAssets(site.Static()); len(missing) > 0 {
		printWarning(out, "Slider assets missing ("+strings.Join(missing, ", ")+"); run go generate ./pkg/site")
	}
	if cfg.Server.Metrics {
		printDetail(out, "Metrics at /metrics")
	}

	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		return err
	}
	printInfo(out, "Stopped")
	return nil
}
