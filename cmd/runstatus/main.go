package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lucasjlepore/runstatus"
	"github.com/lucasjlepore/runstatus/dataset"
	"github.com/lucasjlepore/runstatus/goals"
	"github.com/lucasjlepore/runstatus/pipeline"
)

var (
	flagConfig string
	flagData   string
	flagRaw    string
	flagReadme string
	flagToday  string
	flagDryRun bool
)

func main() {
	root := &cobra.Command{
		Use:           "runstatus",
		Short:         "Track half-marathon training status from FIT activity files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config (defaults built in)")
	root.PersistentFlags().StringVar(&flagData, "data", "data/processed", "Directory holding runs.csv and runs.parquet")
	root.PersistentFlags().StringVar(&flagToday, "today", "", "Evaluation date as YYYY-MM-DD (default: current date)")

	update := &cobra.Command{
		Use:   "update",
		Short: "Ingest raw FIT files, refresh the dataset, and rewrite the README status block",
		RunE:  runUpdate,
	}
	update.Flags().StringVar(&flagRaw, "raw", "data/raw", "Directory with easy/, long/, threshold/ FIT folders")
	update.Flags().StringVar(&flagReadme, "readme", "README.md", "Document carrying the goal-status markers (empty to skip)")
	update.Flags().BoolVar(&flagDryRun, "dry-run", false, "Compute everything, write nothing; show the README diff")

	status := &cobra.Command{
		Use:   "status",
		Short: "Print the current goal status without touching any file",
		RunE:  runStatus,
	}

	root.AddCommand(update, status)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "runstatus: %v\n", err)
		os.Exit(1)
	}
}

func parseToday() (time.Time, error) {
	if flagToday == "" {
		return time.Now(), nil
	}
	return runstatus.ParseDate(flagToday)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	today, err := parseToday()
	if err != nil {
		return fmt.Errorf("parse --today: %w", err)
	}
	res, err := pipeline.Run(pipeline.Options{
		RawDir:     flagRaw,
		DataDir:    flagData,
		ReadmePath: flagReadme,
		ConfigPath: flagConfig,
		Today:      today,
		DryRun:     flagDryRun,
	})
	if err != nil {
		return err
	}

	if flagDryRun {
		fmt.Printf("dry run: %d file(s) would be ingested\n", res.Ingested)
		if res.Diff != "" {
			fmt.Println(res.Diff)
		} else if res.ReadmePath != "" {
			fmt.Println("README already up to date")
		}
	} else {
		fmt.Printf("update complete\n")
		fmt.Printf("Ingested:  %d file(s)\n", res.Ingested)
		fmt.Printf("Dataset:   %s\n", res.DatasetPath)
		fmt.Printf("Parquet:   %s\n", res.ParquetPath)
		fmt.Printf("Status:    %s\n", res.StatusPath)
		if res.ReadmePath != "" {
			fmt.Printf("README:    %s\n", res.ReadmePath)
		}
	}
	for _, s := range res.Skipped {
		fmt.Fprintf(os.Stderr, "skipped: %s (%s)\n", s.Path, s.Reason)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	today, err := parseToday()
	if err != nil {
		return fmt.Errorf("parse --today: %w", err)
	}
	cfg, err := goals.LoadConfig(flagConfig)
	if err != nil {
		return err
	}
	ds, err := dataset.Load(filepath.Join(flagData, "runs.csv"))
	if err != nil {
		return err
	}
	rep, err := goals.BuildStatusReport(ds, cfg, today)
	if err != nil {
		return err
	}

	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	fmt.Printf("Race: %s  (%.1f weeks away)\n\n", rep.RaceDateStr, rep.WeeksToRace)

	label := pass("Pass")
	if !rep.Compliance.Pass() {
		label = fail("Fail")
	}
	fmt.Printf("HR compliance (last %d days): %s\n", rep.Compliance.WindowDays, label)
	for _, rt := range runstatus.RunTypes {
		c := rep.Compliance.Counts[rt]
		fmt.Printf("  %-9s cap %d: %d/%d pass\n", rt, c.Cap, c.Pass, c.Total)
	}
	if f := rep.Compliance.FirstFailure; f != nil {
		fmt.Printf("  first failure: %s\n", fail(f.Evidence()))
	}

	fmt.Printf("\nPace confidence: %s\n\nGoals:\n", rep.PaceConfidence)
	for _, g := range rep.Goals {
		mark := pass("✓")
		if !g.OnTrack {
			mark = fail("✗")
		}
		fmt.Printf("  %s %-26s %s\n", mark, g.Name, g.Evidence)
	}
	return nil
}
