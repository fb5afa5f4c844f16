package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var watchInitialScan bool

var watchCmd = &cobra.Command{
	Use:   "watch [library...]",
	Short: "Watch library roots for new files",
	Long:  "Watches the given libraries (names or paths, default all) and registers files as they appear, until interrupted.",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchInitialScan, "scan", true, "Scan each root before watching it")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	roots := a.roots(args)
	a.prune(ctx)

	g, ctx := errgroup.WithContext(ctx)
	for _, root := range roots {
		g.Go(func() error {
			if watchInitialScan {
				st, err := a.scanner.Scan(ctx, root)
				if err != nil {
					return err
				}
				a.log.Info("initial scan done", "root", root,
					"registered", st.Registered, "failed", st.Failed)
			}
			return a.scanner.Watch(ctx, root)
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		a.log.Info("watch stopped")
		return nil
	}
	return err
}
