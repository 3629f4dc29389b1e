package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"pkt.systems/psi"
	"pkt.systems/pslog"
)

var version = "dev"

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("futuredash failed")
		return 1
	}
	return 0
}

type runOptions struct {
	configPath string
	once       bool
	preview    bool
}

func newRootCmd() *cobra.Command {
	var opts runOptions

	root := &cobra.Command{
		Use:           "futuredash",
		Short:         "Status bar feeder for dzen2",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ~/.config/futuredash/config.yaml)")
	root.Flags().BoolVar(&opts.once, "once", false, "render a single frame and exit")
	root.Flags().BoolVar(&opts.preview, "preview", false, "draw the bar in this terminal instead of starting the renderer")

	root.AddCommand(newConfigCmd(&opts))
	root.AddCommand(newVersionCmd())
	return root
}

func newConfigCmd(opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			return writeConfig(cmd.OutOrStdout(), cfg)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "futuredash", version)
		},
	}
}

func writeConfig(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func run(ctx context.Context, opts runOptions) error {
	logger := pslog.Ctx(ctx)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if missing := cfg.missingIcons(); len(missing) > 0 {
		logger.Warn("icons missing", "dir", cfg.IconDir, "icons", missing)
	}

	var hypr *HyprlandClient
	if cfg.WorkspaceBackend == "hyprland" || cfg.HyprlandEvents {
		hypr, err = NewHyprlandClient()
		if err != nil {
			logger.Warn("hyprland unavailable", "err", err)
		} else {
			defer hypr.Close()
		}
	}

	widgets, err := buildWidgets(cfg, hypr)
	if err != nil {
		return err
	}

	var sink *Sink
	if opts.preview {
		sink = NewSink(cfg, io.Discard, nil)
	} else {
		renderer, err := StartRenderer(cfg)
		if err != nil {
			return err
		}
		if opts.once {
			renderer.Persist()
		}
		sink = NewSink(cfg, renderer, os.Stdout)
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Warn("renderer close failed", "err", err)
		}
	}()

	var wake <-chan struct{}
	if cfg.HyprlandEvents && hypr != nil {
		handler := NewHyprlandEventHandler(hypr)
		wake = handler.WakeOnWorkspaceActivity()
		if err := handler.Start(ctx); err != nil {
			logger.Warn("hyprland events disabled", "err", err)
			wake = nil
		} else {
			defer handler.Stop()
		}
	}

	m := initialModel(ctx, cfg, sink, widgets, modelOptions{
		once:    opts.once,
		preview: opts.preview,
		wake:    wake,
	})

	teaOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithoutSignalHandler()}
	if opts.preview {
		teaOpts = append(teaOpts, tea.WithAltScreen())
	} else {
		teaOpts = append(teaOpts, tea.WithoutRenderer(), tea.WithInput(nil))
	}

	logger.Info("futuredash started", "modules", len(widgets), "interval", cfg.RefreshInterval.String(), "preview", opts.preview)
	final, err := tea.NewProgram(m, teaOpts...).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if fm, ok := final.(model); ok && fm.err != nil {
		return fm.err
	}
	logger.Info("futuredash stopped")
	return nil
}
