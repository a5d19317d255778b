// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/medivision/medscan/internal/history"
	"github.com/medivision/medscan/internal/interpret"
	"github.com/medivision/medscan/internal/rxnav"
	"github.com/medivision/medscan/pkg/types"
)

var interpretCmd = &cobra.Command{
	Use:   "interpret [text...]",
	Short: "Interpret medication label text",
	Long: `Interpret runs OCR-extracted label text through the interpretation
pipeline and prints the resulting medication record. Text comes from
the --text flag, a --file, positional arguments, or stdin.

Every input produces a record; unrecognizable labels fall through to
the heuristic guesser rather than failing.`,
	RunE: runInterpret,
}

func runInterpret(cmd *cobra.Command, args []string) error {
	text, err := readLabelText(cmd, args)
	if err != nil {
		return err
	}

	noValidate, _ := cmd.Flags().GetBool("no-validate")
	it := buildInterpreter(noValidate)

	info := it.Interpret(context.Background(), text)

	if save, _ := cmd.Flags().GetBool("save"); save {
		if err := saveScan(info, text, ""); err != nil {
			return err
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return writeMedication(os.Stdout, info, jsonOutput)
}

// readLabelText resolves the input text from flags, arguments, or stdin.
func readLabelText(cmd *cobra.Command, args []string) (string, error) {
	if text, _ := cmd.Flags().GetString("text"); text != "" {
		return text, nil
	}
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return string(data), nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

// buildInterpreter wires the pipeline, attaching the RxNav validator
// unless disabled by flag or config.
func buildInterpreter(noValidate bool) *interpret.Interpreter {
	cfg := validatorConfig()
	var validator interpret.Validator
	if cfg.Enabled && !noValidate {
		validator = rxnav.New(cfg)
	}
	return interpret.New(validator, os.Stderr)
}

// saveScan stores an interpreted result in the history database.
func saveScan(info types.MedicationInfo, rawText, imagePath string) error {
	store, err := history.NewStore(historyConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	rec := &types.ScanRecord{
		Medication: info,
		ImagePath:  imagePath,
		RawText:    rawText,
	}
	if err := store.Save(context.Background(), rec); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved scan %s\n", rec.ID)
	return nil
}

func historyConfig() types.HistoryConfig {
	dir := viper.GetString("history.dir")
	if dir == "" {
		dir = "history"
	}
	return types.HistoryConfig{
		HistoryDir: dir,
		MaxResults: viper.GetInt("history.max_results"),
	}
}

// writeMedication prints a medication record as aligned text or JSON.
func writeMedication(w io.Writer, info types.MedicationInfo, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(w, "%-18s %s\n", "Brand name:", info.BrandName)
	fmt.Fprintf(w, "%-18s %s\n", "Generic name:", info.GenericName)
	fmt.Fprintf(w, "%-18s %s\n", "Active ingredient:", info.ActiveIngredient)
	fmt.Fprintf(w, "%-18s %s\n", "Indications:", info.Indications)
	fmt.Fprintf(w, "%-18s %s\n", "Manufacturer:", info.Manufacturer)
	fmt.Fprintf(w, "%-18s %s\n", "Tier:", info.Tier)
	return nil
}

func init() {
	interpretCmd.Flags().String("text", "", "label text to interpret")
	interpretCmd.Flags().String("file", "", "read label text from a file")
	interpretCmd.Flags().Bool("json", false, "output the record as JSON")
	interpretCmd.Flags().Bool("no-validate", false, "skip the RxNav drug database lookup")
	interpretCmd.Flags().Bool("save", false, "store the result in the scan history")

	rootCmd.AddCommand(interpretCmd)
}
