package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tgienger/taskgraph/internal/document"
	"github.com/tgienger/taskgraph/internal/persist"
	"github.com/tgienger/taskgraph/internal/ui"
	"github.com/tgienger/taskgraph/internal/views"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagView    string
	flagDebug   bool
	flagNoStore bool
)

var rootCmd = &cobra.Command{
	Use:   "taskgraph [file]",
	Short: "Dependency-graph task manager for the terminal",
	Long: `taskgraph tracks tasks as a dependency graph: a task is ready
once everything it depends on is completed. It keeps time logs per
task, an undo history, and five views over the same document.`,
	Args:    cobra.MaximumNArgs(1),
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	RunE:    run,
}

func init() {
	rootCmd.Flags().StringVar(&flagView, "view", "board", "initial view: board, queue, search, outline or focus")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "write a debug log next to the data file")
	rootCmd.Flags().BoolVar(&flagNoStore, "no-archive", false, "disable the sqlite snapshot archive")
}

func parseView(name string) (views.Kind, error) {
	switch strings.ToLower(name) {
	case "board":
		return views.KindBoard, nil
	case "queue":
		return views.KindQueue, nil
	case "search":
		return views.KindSearch, nil
	case "outline":
		return views.KindOutline, nil
	case "focus":
		return views.KindFocus, nil
	}
	return 0, fmt.Errorf("unknown view %q", name)
}

func run(cmd *cobra.Command, args []string) error {
	initial, err := parseView(flagView)
	if err != nil {
		return err
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		if path, err = persist.DefaultFilePath(); err != nil {
			return fmt.Errorf("resolving data path: %w", err)
		}
	}

	// A TUI owns stdout, so logs go to a file or nowhere.
	if flagDebug {
		logFile, err := tea.LogToFile(path+".log", "debug")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer logFile.Close()
		slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug})))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	}

	doc := document.New()
	if _, err := os.Stat(path); err == nil {
		if err := persist.Load(path, doc); err != nil {
			return err
		}
	}

	var archive *persist.Archive
	if !flagNoStore {
		archivePath, err := persist.DefaultArchivePath()
		if err != nil {
			slog.Warn("snapshot archive disabled", "error", err)
		} else if archive, err = persist.OpenArchive(archivePath); err != nil {
			slog.Warn("snapshot archive disabled", "error", err)
			archive = nil
		}
	}
	if archive != nil {
		defer archive.Close()
	}

	history := document.NewHistory(document.DefaultHistoryLimit)
	app := ui.NewApp(doc, history, path, archive, initial)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
