package main

import (
	"github.com/spf13/cobra"

	"devenv/internal/watcher"
)

var watchDebounceMs int

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Rescan the project whenever relevant files change",
	Long: `Scan the project, then watch package.json, environment files, configuration
and sources, printing a fresh scan after each burst of changes. Stop with Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchDebounceMs, "debounce", watcher.DefaultConfig().DebounceMs, "Quiet period in milliseconds before rescanning")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	rescan := func() error {
		// SERVICES.toml is among the watched files, so reload it every time.
		catalog, err := s.catalog()
		if err != nil {
			return err
		}
		analysis, err := s.scan(ctx, catalog)
		if err != nil {
			return err
		}
		return printResponse(out, analysis)
	}

	if err := rescan(); err != nil {
		return err
	}

	cfg := watcher.DefaultConfig()
	cfg.DebounceMs = watchDebounceMs
	w := watcher.New(cfg, s.logger, func(root string, events []watcher.Event) {
		for _, ev := range events {
			s.logger.Info("File changed", "path", ev.Path, "type", ev.Type.String())
		}
		// A broken manifest mid-edit is reported and watching continues.
		if err := rescan(); err != nil && ctx.Err() == nil {
			s.logger.Error("Rescan failed", "error", err)
		}
	})
	return w.Run(ctx, s.root)
}
