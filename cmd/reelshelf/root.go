package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmunix/reelshelf/internal/config"
	"github.com/vmunix/reelshelf/internal/events"
)

var version = "dev"

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	indexPath  string
	jsonOutput bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "reelshelf",
		Short: "Personal video library indexer",
		Long: `reelshelf - personal video library indexer

Scans granted folders, matches posters, subtitles and .nfo sidecars
to each video, generates thumbnails with ffmpeg when no poster exists,
and keeps a flat index that can be relinked to the files later.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default: discovered)")
	root.PersistentFlags().StringVar(&flags.indexPath, "index", "", "Index file, overrides index.path")
	root.PersistentFlags().BoolVar(&flags.jsonOutput, "json", false, "Output as JSON")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Debug logging and progress events")

	root.Version = version
	root.SetVersionTemplate("reelshelf {{.Version}}\n")

	root.AddCommand(
		newInitCmd(flags),
		newIngestCmd(flags),
		newRelinkCmd(flags),
		newListCmd(flags),
		newCollectionsCmd(flags),
		newSubtitleCmd(flags),
		newExportNFOCmd(flags),
		newVersionCmd(),
		newCompletionCmd(),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "reelshelf %s\n", version)
		},
	}
}

// session is the per-invocation runtime: config, logger and event bus.
type session struct {
	cfg  *config.Config
	log  *slog.Logger
	bus  *events.Bus
	pub  events.Publisher
	out  io.Writer
	done chan struct{}
}

func openSession(cmd *cobra.Command, flags *globalFlags) (*session, error) {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.indexPath != "" {
		cfg.Index.Path = flags.indexPath
	}

	level := parseLogLevel(cfg.Log.Level)
	if flags.verbose {
		level = slog.LevelDebug
	}
	log := newLogger(cmd.ErrOrStderr(), cfg.Log.Format, level)

	s := &session{
		cfg:  cfg,
		log:  log,
		bus:  events.NewBus(log),
		out:  cmd.OutOrStdout(),
		done: make(chan struct{}),
	}
	s.pub = s.bus

	if flags.verbose {
		ch := s.bus.SubscribeAll(256)
		go func() {
			defer close(s.done)
			for e := range ch {
				log.Info("event", "type", e.EventType(), "entity_type", e.EntityType(), "entity_id", e.EntityID())
			}
		}()
	} else {
		close(s.done)
	}
	return s, nil
}

func (s *session) publish(ctx context.Context, e events.Event) {
	if err := s.pub.Publish(ctx, e); err != nil {
		s.log.Warn("publish event failed", "type", e.EventType(), "error", err)
	}
}

func (s *session) Close() {
	_ = s.bus.Close()
	<-s.done
}

// loadConfig loads an explicit path, or the discovered file, or defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	found, err := config.Discover()
	if errors.Is(err, config.ErrNotFound) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return config.Load(found)
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
