package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL  string
	timeout  time.Duration
	tripID   string
	memberID string
	token    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tripledger-cli",
		Short: "TripLedger CLI tool",
		Long:  `A command line interface for interacting with the TripLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the TripLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&tripID, "trip", "", "Trip ID")
	rootCmd.PersistentFlags().StringVar(&memberID, "member", "", "Acting member ID (sent as X-Member-ID)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token (overrides --member)")

	balancesCmd := &cobra.Command{
		Use:   "balances",
		Short: "Show every member's current balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printTripResource("balances")
		},
	}

	debtsCmd := &cobra.Command{
		Use:   "debts",
		Short: "Show the suggested repayment plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printTripResource("debts")
		},
	}

	breakdownCmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Show the chronological trip breakdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printTripResource("breakdown")
		},
	}

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency for a trip",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkConsistency()
		},
	}

	ledgerCmd.AddCommand(consistencyCmd)
	rootCmd.AddCommand(balancesCmd, debtsCmd, breakdownCmd, ledgerCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func get(path string) (int, []byte, error) {
	if tripID == "" {
		return 0, nil, fmt.Errorf("--trip is required")
	}

	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/v1/trips/"+tripID+path, nil)
	if err != nil {
		return 0, nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else if memberID != "" {
		req.Header.Set("X-Member-ID", memberID)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, body, err
}

func printTripResource(resource string) error {
	status, body, err := get("/" + resource)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("request failed (status %d): %s", status, string(body))
	}

	var pretty any
	if err := json.Unmarshal(body, &pretty); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return nil
}

func checkConsistency() error {
	status, body, err := get("/consistency")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("consistency check FAILED (status %d): %s", status, string(body))
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if consistent, ok := result["consistent"].(bool); ok && consistent {
		fmt.Println("Consistency check PASSED")
	} else {
		fmt.Println("Consistency check FAILED: ledger totals do not match")
		os.Exit(1)
	}

	return nil
}
