// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/medivision/medscan/internal/api"
	"github.com/medivision/medscan/internal/history"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interpretation pipeline over HTTP",
	Long: `Serve exposes the pipeline as a JSON API: POST /api/interpret runs
label text through the tiers, GET /api/history lists or searches past
scans, and GET /api/health reports liveness.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = viper.GetString("service.addr")
	}
	if addr == "" {
		addr = ":8080"
	}

	noValidate, _ := cmd.Flags().GetBool("no-validate")
	it := buildInterpreter(noValidate)

	// The service runs without history if the store cannot open; the
	// history endpoints then answer 503.
	var store api.HistoryStore
	if s, err := history.NewStore(historyConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: history store unavailable: %v\n", err)
	} else {
		defer s.Close()
		store = s
	}

	server := api.NewServer(it, store, os.Stderr)

	fmt.Fprintf(os.Stderr, "Listening on %s\n", addr)
	return http.ListenAndServe(addr, server.NewRouter())
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().Bool("no-validate", false, "skip the RxNav drug database lookup")

	rootCmd.AddCommand(serveCmd)
}
