package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Adda-Baaj/tour-of-heroes/internal/app"
	"github.com/Adda-Baaj/tour-of-heroes/internal/config"
	"github.com/Adda-Baaj/tour-of-heroes/internal/logger"
	"github.com/spf13/cobra"
)

var errNotFound = errors.New("hero not found")

type cli struct {
	apiURL       string
	encodeSearch bool

	cfg    *config.Config
	client *app.Client
}

// Execute runs the CLI with the process arguments.
func Execute(ctx context.Context) error {
	return Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes the CLI with args, writing results to stdout and errors to stderr.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := &cli{}
	defer c.close()

	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "heroes",
		Short:         "Manage heroes through the heroes API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.apiURL, "api", "", "heroes API base URL (overrides API_BASE_URL)")
	root.PersistentFlags().BoolVar(&c.encodeSearch, "encode-search", false, "query-escape search terms")

	root.AddCommand(
		c.listCmd(),
		c.getCmd(),
		c.searchCmd(),
		c.addCmd(),
		c.deleteCmd(),
		c.updateCmd(),
		c.messagesCmd(),
	)
	return root
}

func (c *cli) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// stdout carries command output.
	cfg.LogOutput = "stderr"
	if cmd.Flags().Changed("api") {
		cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.apiURL), "/")
		if cfg.APIBaseURL == "" {
			return fmt.Errorf("--api must not be empty")
		}
	}
	if cmd.Flags().Changed("encode-search") {
		cfg.EncodeSearchTerm = c.encodeSearch
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	client, err := app.NewClient(cmd.Context(), cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize client", "error", err.Error())
		return err
	}
	c.cfg = cfg
	c.client = client
	return nil
}

func (c *cli) close() {
	if c.client != nil {
		if err := c.client.Close(); err != nil {
			logger.ErrorObj("client close failed", "error", err.Error())
		}
	}
	_ = logger.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid hero id %q", raw)
	}
	return id, nil
}
