// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/medivision/medscan/internal/history"
	"github.com/medivision/medscan/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past scans (list, search, export)",
	Long: `History manages the local SQLite database of past scans. Use
subcommands to list recent scans, search them by medication name or
label text, or export the full history.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent scans, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfigFromFlags(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistoryOutput(records, jsonOutput)
}

// --- search subcommand ---

var historySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over past scans",
	Long: `Search matches the query against brand names, generic names, and raw
label text using FTS5, ranked by relevance.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHistorySearch,
}

func runHistorySearch(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfigFromFlags(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := store.Search(context.Background(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistoryOutput(records, jsonOutput)
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the scan history to YAML or JSON",
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	cfg := historyConfigFromFlags(cmd)
	store, err := history.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background()); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.yaml\n", cfg.HistoryDir)
	case "json":
		if err := store.ExportJSON(context.Background()); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.json\n", cfg.HistoryDir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func historyConfigFromFlags(cmd *cobra.Command) types.HistoryConfig {
	dir, _ := cmd.Flags().GetString("history-dir")
	if dir == "" {
		dir = "history"
	}
	maxResults, _ := cmd.Flags().GetInt("limit")
	return types.HistoryConfig{
		HistoryDir: dir,
		MaxResults: maxResults,
	}
}

func formatHistoryOutput(records []types.ScanRecord, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No scans found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-30s  %-10s  %s\n",
		"Scanned", "Brand", "Tier", "Manufacturer")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	for _, r := range records {
		brand := r.Medication.BrandName
		if len(brand) > 30 {
			brand = brand[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-30s  %-10s  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			brand, r.Medication.Tier, r.Medication.Manufacturer)
	}

	fmt.Fprintf(os.Stdout, "\n%d scans\n", len(records))
	return nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	historyCmd.PersistentFlags().String("history-dir", "history", "base directory for the scan database")
	historyCmd.PersistentFlags().Int("limit", 0, "maximum results (0 = use default)")
	historyCmd.PersistentFlags().Bool("json", false, "output results as JSON")

	// Export flags.
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	// Wire subcommands.
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
