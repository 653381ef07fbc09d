package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/iidx-tools/notecount/pkg/chart"
	"github.com/iidx-tools/notecount/pkg/logging"
	"github.com/iidx-tools/notecount/pkg/soundroot"
)

const version = "0.1.0"

var (
	logLevel    string
	dataRoot    string
	chartName   string
	versionFlag bool
	rootCmd     *cobra.Command
)

// buildTimestamp resolves a timestamp for --version output from the
// binary's embedded VCS metadata, falling back to the binary's own mtime.
func buildTimestamp() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func init() {
	rootCmd = &cobra.Command{
		Use:   "notecount",
		Short: "Count notes in Beatmania IIDX chart archives",
		Long:  `notecount extracts per-chart note counts from IIDX sound archives (ifs containers or pre-extracted sidecar files).`,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&dataRoot, "data-root", "", "Base directory for data/sound resolution (defaults to NOTECOUNT_DATA_ROOT or ./data/sound)")
	rootCmd.PersistentFlags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	countCmd := &cobra.Command{
		Use:   "count <music-id> <chart>",
		Short: "Count notes in a single chart",
		Args:  cobra.ExactArgs(2),
		RunE:  runCount,
	}

	countsCmd := &cobra.Command{
		Use:   "counts <music-id>",
		Short: "Count notes in every chart slot for a music identifier",
		Args:  cobra.ExactArgs(1),
		RunE:  runCounts,
	}

	rootCmd.AddCommand(countCmd, countsCmd)
}

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		printVersion()
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("notecount %s\n", version)
	fmt.Printf("Built: %s\n", buildTimestamp())
}

func resolver() *chart.Resolver {
	level := logLevel
	if level == "" {
		level = logging.GetLogLevel()
	}
	logger := logging.NewLogger("notecount", level, os.Stderr)

	root := soundroot.Default()
	if dataRoot != "" {
		root = soundroot.New(dataRoot)
	}
	return chart.NewResolver(root, logger)
}

type chartResult struct {
	MusicID string `json:"music_id"`
	Chart   string `json:"chart"`
	Notes   int    `json:"notes"`
}

func runCount(cmd *cobra.Command, args []string) error {
	if versionFlag {
		printVersion()
		return nil
	}
	musicID, chartArg := args[0], args[1]

	id, ok := chart.ParseChartName(chartArg)
	if !ok {
		return fmt.Errorf("unknown chart %q (expected SPH, SPN, SPA, SPB, DPH, DPN, or DPA)", chartArg)
	}

	notes, err := resolver().CountChart(musicID, id)
	if err != nil {
		return fmt.Errorf("counting %s/%s: %w", musicID, chartArg, err)
	}

	return json.NewEncoder(os.Stdout).Encode(chartResult{MusicID: musicID, Chart: id.String(), Notes: notes})
}

func runCounts(cmd *cobra.Command, args []string) error {
	if versionFlag {
		printVersion()
		return nil
	}
	musicID := args[0]

	counts, err := resolver().CountAllCharts(musicID)
	if err != nil {
		return fmt.Errorf("counting charts for %s: %w", musicID, err)
	}

	results := make([]chartResult, chart.MaxChartCount)
	for i, n := range counts {
		results[i] = chartResult{MusicID: musicID, Chart: chart.ChartID(i).String(), Notes: n}
	}

	return json.NewEncoder(os.Stdout).Encode(results)
}
