package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/bastiangx/hehify/internal/cli"
	"github.com/bastiangx/hehify/internal/logger"
	"github.com/bastiangx/hehify/internal/utils"
	"github.com/bastiangx/hehify/pkg/config"
	"github.com/bastiangx/hehify/pkg/httpapi"
	"github.com/bastiangx/hehify/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newReplCmd(a *app) *cobra.Command {
	var syllables, repeat bool
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive prompt for trying settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.transformer(cmd)
			if err != nil {
				return err
			}
			log.SetReportTimestamp(false)
			show := syllables || a.cfg.CLI.ShowSyllables
			h := cli.NewInputHandler(t, cmd.InOrStdin(), cmd.OutOrStdout(), show, a.cfg.Server.MaxTextLen)
			h.SetRepeat(repeat)
			return h.Start()
		},
	}
	cmd.Flags().BoolVar(&syllables, "syllables", false, "show the syllable breakdown of every word")
	cmd.Flags().BoolVar(&repeat, "repeat", false, "re-apply the transform until a line stops changing")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve msgpack IPC on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.transformer(cmd)
			if err != nil {
				return err
			}
			showStartupInfo(a.configPath, a.resolver)
			srv := server.NewServer(t, a.cfg, a.configPath, a.resolve(), a.overrides(cmd), cmd.InOrStdin(), cmd.OutOrStdout())
			return srv.Start()
		},
	}
}

func newHTTPCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.transformer(cmd)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.Server.HTTPAddr
			}
			l := logger.FromContext(cmd.Context())
			srv := &http.Server{
				Addr:              addr,
				Handler:           httpapi.New(t, a.cfg.Server.MaxTextLen, l).Routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			return listen(cmd.Context(), srv, l)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// listen serves until ctx is cancelled, then shuts down gracefully.
func listen(ctx context.Context, srv *http.Server, l *log.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		l.Infof("Listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		l.Info("Shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or reset the config file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the active config file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetActiveConfigPath(a.configPath))
				return err
			},
		},
		&cobra.Command{
			Use:   "rebuild",
			Short: "Overwrite the default config file with defaults",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.RebuildConfigFile()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "rebuilt %s\n", path)
				return err
			},
		},
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			l := log.NewWithOptions(cmd.OutOrStdout(), log.Options{
				ReportCaller:    false,
				ReportTimestamp: false,
			})
			styles := log.DefaultStyles()
			styles.Values["version"] = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
			styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
			l.SetStyles(styles)

			l.Print("")
			l.Print("[ hehify ] Хехифицирует русский текст")
			l.Print("", "version", Version)
			l.Print("")
			l.Print("use -h or --help to see available options")
			l.Print("Github Repo", "gh", gh)
		},
	}
}

// showStartupInfo writes basic process info to stderr; stdout carries IPC.
// Runtime paths are added at debug level.
func showStartupInfo(configPath string, resolver *utils.PathResolver) {
	l := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)
	l.Infof("%s %s", AppName, Version)
	l.Infof("Process ID: [ %d ]", os.Getpid())
	l.Infof("config: ( %s )", config.GetActiveConfigPath(configPath))
	if resolver != nil && log.GetLevel() <= log.DebugLevel {
		info := resolver.GetRuntimeInfo()
		keys := make([]string, 0, len(info))
		for k := range info {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			l.Info("runtime", "key", k, "value", info[k])
		}
	}
	l.Info("status: ready")
}
