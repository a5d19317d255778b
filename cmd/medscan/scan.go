// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/medivision/medscan/internal/vision"
)

var scanCmd = &cobra.Command{
	Use:   "scan --image <path>",
	Short: "OCR a label photograph and interpret the text",
	Long: `Scan sends a label photograph to the Cloud Vision API, extracts the
printed text, and runs it through the interpretation pipeline.

Requires a Cloud Vision API key in .secrets/vision-api-key or the
ocr.api_key config setting.`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	imagePath, _ := cmd.Flags().GetString("image")
	if imagePath == "" {
		return fmt.Errorf("--image is required")
	}

	image, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", imagePath, err)
	}

	ctx := context.Background()

	text, err := vision.New(ocrConfig()).ExtractText(ctx, image)
	if err != nil {
		return fmt.Errorf("extracting text: %w", err)
	}
	if text == "" {
		fmt.Fprintln(os.Stderr, "No text detected in image")
	}

	noValidate, _ := cmd.Flags().GetBool("no-validate")
	info := buildInterpreter(noValidate).Interpret(ctx, text)

	if save, _ := cmd.Flags().GetBool("save"); save {
		if err := saveScan(info, text, imagePath); err != nil {
			return err
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return writeMedication(os.Stdout, info, jsonOutput)
}

func init() {
	scanCmd.Flags().String("image", "", "path to the label photograph")
	scanCmd.Flags().Bool("json", false, "output the record as JSON")
	scanCmd.Flags().Bool("no-validate", false, "skip the RxNav drug database lookup")
	scanCmd.Flags().Bool("save", false, "store the result in the scan history")

	rootCmd.AddCommand(scanCmd)
}
