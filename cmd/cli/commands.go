package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	division             string
	dateFrom             string
	dateTo               string
	fieldKeys            []string
	gameLength           int
	genMode              string
	noDoubleHeaders      bool
	balanceHomeAway      bool
	maxGamesPerWeek      int
	externalOfferPerWeek int
	importFile           string
	runID                string
)

func init() {
	for _, cmd := range []*cobra.Command{previewCmd, applyCmd, generateCmd} {
		cmd.Flags().StringVar(&division, "division", "", "Division to operate on")
		cmd.Flags().StringVar(&dateFrom, "from", "", "Start date (YYYY-MM-DD)")
		cmd.Flags().StringVar(&dateTo, "to", "", "End date (YYYY-MM-DD)")
		cmd.MarkFlagRequired("division")
		cmd.MarkFlagRequired("from")
		cmd.MarkFlagRequired("to")
	}
	for _, cmd := range []*cobra.Command{previewCmd, applyCmd} {
		cmd.Flags().BoolVar(&noDoubleHeaders, "no-double-headers", true, "At most one game per team per date")
		cmd.Flags().BoolVar(&balanceHomeAway, "balance", true, "Balance home and away counts")
		cmd.Flags().IntVar(&maxGamesPerWeek, "max-games-per-week", -1, "Weekly cap per team (-1 uses the server default)")
		cmd.Flags().IntVar(&externalOfferPerWeek, "external-offer-per-week", -1, "External offers per team per week (-1 uses the server default)")
	}
	generateCmd.Flags().StringSliceVar(&fieldKeys, "field", nil, "Field key (repeatable)")
	generateCmd.Flags().IntVar(&gameLength, "game-length", 0, "Game length in minutes (0 uses the server default)")
	generateCmd.Flags().StringVar(&genMode, "mode", "rules", "Generation mode: rules or fixed")
	importCmd.Flags().StringVar(&importFile, "file", "", "Path to the slot CSV file")
	importCmd.MarkFlagRequired("file")
	runsCmd.Flags().StringVar(&division, "division", "", "Filter runs by division")
	runsCmd.Flags().StringVar(&runID, "id", "", "Fetch a single run by id")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List the teams in a division",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/teams?division=" + division)
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview a round-robin schedule for a division",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostJSON("/schedule/preview", scheduleBody())
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Compute and persist a round-robin schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostJSON("/schedule/apply", scheduleBody())
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate open slots from availability rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{
			"division": division,
			"dateFrom": dateFrom,
			"dateTo":   dateTo,
			"mode":     genMode,
		}
		if len(fieldKeys) > 0 {
			body["fieldKeys"] = fieldKeys
		}
		if gameLength > 0 {
			body["gameLengthMinutes"] = gameLength
		}
		return performPostJSON("/slots/generate", body)
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import slots from a CSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(importFile)
		if err != nil {
			return fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer f.Close()
		return performPost("/slots/import", "text/csv", f)
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded schedule runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if runID != "" {
			return performGetRequest("/runs?id=" + runID)
		}
		return performGetRequest("/runs?division=" + division)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func scheduleBody() map[string]any {
	body := map[string]any{
		"division":        division,
		"dateFrom":        dateFrom,
		"dateTo":          dateTo,
		"noDoubleHeaders": noDoubleHeaders,
		"balanceHomeAway": balanceHomeAway,
	}
	if maxGamesPerWeek >= 0 {
		body["maxGamesPerWeek"] = maxGamesPerWeek
	}
	if externalOfferPerWeek >= 0 {
		body["externalOfferPerWeek"] = externalOfferPerWeek
	}
	return body
}

func requestURL(endpoint string) string {
	url := host + endpoint
	if dryRun {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		url += sep + "dry_run=true"
	}
	return url
}

func performGetRequest(endpoint string) error {
	url := requestURL(endpoint)
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostJSON(endpoint string, body map[string]any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	return performPost(endpoint, "application/json", bytes.NewReader(payload))
}

func performPost(endpoint, contentType string, body io.Reader) error {
	url := requestURL(endpoint)
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, contentType, body)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
