package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/reelcat/internal/scanner"
)

var scanCmd = &cobra.Command{
	Use:   "scan [library...]",
	Short: "Scan library roots once",
	Long:  "Walks the given libraries (names or paths, default all) and registers every media file not yet in the catalog.",
	RunE:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

// rootStats pairs a root with the outcome of its scan.
type rootStats struct {
	Root       string `json:"root"`
	Discovered int64  `json:"discovered"`
	Skipped    int64  `json:"skipped"`
	Registered int64  `json:"registered"`
	Failed     int64  `json:"failed"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

func newRootStats(root string, st scanner.Stats, err error) rootStats {
	rs := rootStats{
		Root:       root,
		Discovered: st.Discovered,
		Skipped:    st.Skipped,
		Registered: st.Registered,
		Failed:     st.Failed,
		DurationMS: st.Duration.Milliseconds(),
	}
	if err != nil {
		rs.Error = err.Error()
	}
	return rs
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	roots := a.roots(args)
	a.prune(ctx)

	results := scanRoots(ctx, a.scanner, roots)
	if err := printScanResults(cmd.OutOrStdout(), results); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, r := range results {
		if r.Error != "" {
			return fmt.Errorf("scan of %s failed: %s", r.Root, r.Error)
		}
	}
	return nil
}

// scanRoots scans every root concurrently. A root that cannot be scanned
// is reported in its result and does not stop the others.
func scanRoots(ctx context.Context, s *scanner.Scanner, roots []string) []rootStats {
	results := make([]rootStats, len(roots))

	var g errgroup.Group
	for i, root := range roots {
		g.Go(func() error {
			st, err := s.Scan(ctx, root)
			results[i] = newRootStats(root, st, err)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func printScanResults(w io.Writer, results []rootStats) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROOT\tDISCOVERED\tREGISTERED\tSKIPPED\tFAILED\tDURATION")
	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t%s\n", r.Root, r.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%dms\n",
			r.Root, r.Discovered, r.Registered, r.Skipped, r.Failed, r.DurationMS)
	}
	return tw.Flush()
}
