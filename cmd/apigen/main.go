package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mirror12k/catwalk-apigen/internal/config"
	"github.com/mirror12k/catwalk-apigen/internal/definition"
	"github.com/mirror12k/catwalk-apigen/internal/generator"
	"github.com/mirror12k/catwalk-apigen/internal/server"
	"github.com/mirror12k/catwalk-apigen/internal/store"
)

const defaultConfigContent = `generate:
  target: "browser-script"
  endpoint_url: "http://example.com/api"
  # per-target override of auth-token support
  # (defaults: browser-script on, python-like on, java-like off)
  auth_tokens: {}

output:
  dir: "./output"

store:
  path: ""

server:
  host: "127.0.0.1"
  port: 3000

log:
  level: "info"
`

type rootOptions struct {
	cfgPath string
	verbose bool
	debug   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "apigen",
		Short:         "Generate API client code from endpoint definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.cfgPath, "config", "", "config file path")
	root.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "enable verbose output")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug output")

	root.AddCommand(newInitCmd(opts))
	root.AddCommand(newGenerateCmd(opts))
	root.AddCommand(newTargetsCmd())
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newListCmd(opts))
	root.AddCommand(newShowCmd(opts))
	root.AddCommand(newDeleteCmd(opts))

	return root
}

// load reads and validates config and builds the logger for a command.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.cfgPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, newLogger(cmd, cfg.Log.Level, o.verbose, o.debug), nil
}

func newLogger(cmd *cobra.Command, level string, verbose, debug bool) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if verbose && lvl > slog.LevelInfo {
		lvl = slog.LevelInfo
	}
	if debug {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
}

func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return store.NewSQLiteStore(cfg.Store.Path)
}

func newInitCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default config if missing and create the run database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := root.cfgPath
			if cfgFile == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				cfgFile = filepath.Join(home, ".apigen", "config.yaml")
			}
			if err := os.MkdirAll(filepath.Dir(cfgFile), 0o755); err != nil {
				return err
			}
			if _, err := os.Stat(cfgFile); errors.Is(err, os.ErrNotExist) {
				if err := os.WriteFile(cfgFile, []byte(defaultConfigContent), 0o644); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "created", cfgFile)
			} else if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "exists", cfgFile)
			} else {
				return err
			}

			cfg, _, err := root.load(cmd)
			if err != nil {
				return err
			}
			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "database ready", cfg.Store.Path)
			return nil
		},
	}
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	var defPath, target, endpointURL, outDir string
	var authTokens, noAuthTokens, toStdout, noRecord bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a client from an endpoint definition file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load(cmd)
			if err != nil {
				return err
			}
			if authTokens && noAuthTokens {
				return errors.New("--auth-tokens and --no-auth-tokens are mutually exclusive")
			}
			if target == "" {
				target = cfg.Generate.Target
			}
			t, err := generator.ParseTarget(target)
			if err != nil {
				return err
			}

			def, err := definition.Parse(defPath)
			if err != nil {
				return err
			}
			logger.Debug("loaded definition", "path", defPath, "endpoints", len(def))

			opts := cfg.Options(t)
			if endpointURL != "" {
				opts.EndpointURL = endpointURL
			}
			if authTokens {
				opts = opts.WithAuthTokens(true)
			}
			if noAuthTokens {
				opts = opts.WithAuthTokens(false)
			}

			var source string
			if noRecord {
				source, err = generator.Generate(def, t, opts)
				if err != nil {
					return err
				}
			} else {
				st, err := openStore(cfg)
				if err != nil {
					return err
				}
				defer st.Close()
				run, err := generator.GenerateAndRecord(st, def, t, opts, func(stage string) {
					logger.Debug(stage)
				})
				if err != nil {
					return err
				}
				source = run.Source
				logger.Info("recorded run", "run", run.ID, "digest", run.Digest)
			}

			if toStdout {
				_, err := fmt.Fprint(cmd.OutOrStdout(), source)
				return err
			}
			if outDir != "" {
				cfg.Output.Dir = outDir
			}
			if err := cfg.ValidateOutput(); err != nil {
				return err
			}
			path, err := generator.WriteSource(source, t, cfg.Output.Dir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&defPath, "def", "", "endpoint definition file (.json, .yaml, .yml)")
	cmd.Flags().StringVar(&target, "target", "", "target: browser-script, python-like or java-like")
	cmd.Flags().StringVar(&endpointURL, "endpoint-url", "", "endpoint URL embedded in the client")
	cmd.Flags().BoolVar(&authTokens, "auth-tokens", false, "emit auth-token support")
	cmd.Flags().BoolVar(&noAuthTokens, "no-auth-tokens", false, "omit auth-token support")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (overrides output.dir)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "print the source instead of writing a file")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "do not record the run in the history store")
	_ = cmd.MarkFlagRequired("def")
	return cmd
}

func newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List supported targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TARGET\tFILE\tAUTH TOKENS")
			for _, t := range generator.Targets() {
				fmt.Fprintf(w, "%s\t%s\t%v\n", t, t.FileName(), t.DefaultAuthTokens())
			}
			return w.Flush()
		},
	}
}

func newServeCmd(root *rootOptions) *cobra.Command {
	var host string
	var port int
	cmd := &cobra.Command{Use: "serve", Short: "Start HTTP service", RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := root.load(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = host
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = port
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		srv, err := server.New(cfg, st, logger)
		if err != nil {
			return err
		}
		return srv.ListenAndServe(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	}}
	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "server host")
	cmd.Flags().IntVar(&port, "port", 3000, "server port")
	return cmd
}

func newListCmd(root *rootOptions) *cobra.Command {
	var target string
	var limit int
	cmd := &cobra.Command{Use: "list", Short: "List recorded generation runs", RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := root.load(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		runs, err := st.ListRuns(store.RunFilter{Target: target, Limit: limit})
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTARGET\tENDPOINTS\tURL\tCREATED")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", r.ID, r.Target, r.EndpointCount, r.EndpointURL, r.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	}}
	cmd.Flags().StringVar(&target, "target", "", "only runs for this target")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of runs")
	return cmd
}

func newShowCmd(root *rootOptions) *cobra.Command {
	var runID string
	var sourceOnly bool
	cmd := &cobra.Command{Use: "show", Short: "Show a recorded run", RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := root.load(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		run, err := st.GetRun(runID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !sourceOnly {
			fmt.Fprintf(out, "id: %s\ntarget: %s\nendpoint_url: %s\nauth_tokens: %v\nendpoints: %d\ndigest: %s\ncreated_at: %s\ndefinition: %s\n\n",
				run.ID, run.Target, run.EndpointURL, run.AuthTokens, run.EndpointCount, run.Digest, run.CreatedAt.Format("2006-01-02 15:04:05"), run.Definition)
		}
		_, err = fmt.Fprint(out, run.Source)
		return err
	}}
	cmd.Flags().StringVar(&runID, "run", "", "run id")
	cmd.Flags().BoolVar(&sourceOnly, "source", false, "print only the generated source")
	_ = cmd.MarkFlagRequired("run")
	return cmd
}

func newDeleteCmd(root *rootOptions) *cobra.Command {
	var runID string
	cmd := &cobra.Command{Use: "delete", Short: "Delete a recorded run", RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := root.load(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.DeleteRun(runID); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "deleted", runID)
		return nil
	}}
	cmd.Flags().StringVar(&runID, "run", "", "run id")
	_ = cmd.MarkFlagRequired("run")
	return cmd
}
