// Package main implements the sweepctl CLI for manual operations against a
// sweepd server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	// serverURL is the base URL for the sweepd HTTP server
	serverURL string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sweepctl",
	Short: "CLI for sweepd server operations",
	Long: `sweepctl is a command-line interface for interacting with a sweepd server.
It provides commands for analyzing caption text, posting playback events,
managing users and preferences, and checking server health.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "sweepd server URL")
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(eventCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(prefsCmd)
}

// healthCmd checks server health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check sweepd server health",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Status  string `json:"status"`
			Service string `json:"service"`
			Version string `json:"version"`
		}
		if err := getJSON("/api/health", &resp); err != nil {
			return err
		}
		fmt.Printf("Server Status: %s\n", resp.Status)
		fmt.Printf("Service:       %s %s\n", resp.Service, resp.Version)
		fmt.Printf("Server URL:    %s\n", serverURL)
		return nil
	},
}

var analyzeUserID int

// analyzeCmd runs a simple-mode analysis on text from an argument or stdin.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Analyze caption text and print the playback action",
	Long: `Analyze caption or transcript text against a user's preferences.

Examples:
  # Analyze a line of text
  sweepctl analyze --user 1 "this is a damn good scene"

  # Analyze from stdin
  cat captions.txt | sweepctl analyze --user 1 -`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	eventUserID     int
	eventConfidence float64
)

// eventCmd posts a structured decision event.
var eventCmd = &cobra.Command{
	Use:   "event [text]",
	Short: "Post a playback event and print the structured decision",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvent,
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeUserID, "user", 0, "user ID (required)")
	_ = analyzeCmd.MarkFlagRequired("user")

	eventCmd.Flags().IntVar(&eventUserID, "user", 0, "user ID (required)")
	eventCmd.Flags().Float64Var(&eventConfidence, "confidence", 0, "optional transcript confidence (0.0-1.0)")
	_ = eventCmd.MarkFlagRequired("user")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := readTextArg(args[0])
	if err != nil {
		return err
	}

	var resp struct {
		Action string `json:"action"`
	}
	if err := postJSON("/api/analyze", map[string]any{
		"user_id": analyzeUserID,
		"text":    text,
	}, &resp); err != nil {
		return err
	}
	fmt.Println(resp.Action)
	return nil
}

func runEvent(cmd *cobra.Command, args []string) error {
	text, err := readTextArg(args[0])
	if err != nil {
		return err
	}

	body := map[string]any{
		"user_id": eventUserID,
		"text":    text,
	}
	if cmd.Flags().Changed("confidence") {
		body["confidence"] = eventConfidence
	}

	var resp struct {
		Action          string  `json:"action"`
		DurationSeconds int     `json:"duration_seconds"`
		MatchedCategory *string `json:"matched_category"`
		Reason          string  `json:"reason"`
	}
	if err := postJSON("/event", body, &resp); err != nil {
		return err
	}

	category := "-"
	if resp.MatchedCategory != nil {
		category = *resp.MatchedCategory
	}
	fmt.Printf("Action:   %s\n", resp.Action)
	fmt.Printf("Duration: %ds\n", resp.DurationSeconds)
	fmt.Printf("Category: %s\n", category)
	fmt.Printf("Reason:   %s\n", resp.Reason)
	return nil
}

// readTextArg reads the text argument, or stdin when it is "-".
func readTextArg(arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}
	if len(content) == 0 {
		return "", fmt.Errorf("no text to analyze")
	}
	return string(content), nil
}

// getJSON performs a GET against the server and decodes the JSON response.
func getJSON(path string, out any) error {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(serverURL + path)
	if err != nil {
		return fmt.Errorf("failed to connect to %s%s: %w", serverURL, path, err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

// postJSON performs a POST with a JSON body and decodes the JSON response.
func postJSON(path string, body any, out any) error {
	reqJSON, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Post(serverURL+path, "application/json", bytes.NewReader(reqJSON))
	if err != nil {
		return fmt.Errorf("failed to send request to %s%s: %w", serverURL, path, err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

// putJSON performs a PUT with a JSON body and decodes the JSON response.
func putJSON(path string, body any, out any) error {
	reqJSON, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPut, serverURL+path, bytes.NewReader(reqJSON))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to %s%s: %w", serverURL, path, err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
