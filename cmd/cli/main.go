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
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledger-cli",
		Short: "Ledger CLI tool",
		Long:  `A command line interface for interacting with the ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Carryforward commands
	carryforwardCmd := &cobra.Command{
		Use:   "carryforward",
		Short: "Balance carryforward operations",
	}

	var carryforwardDate string

	runCmd := &cobra.Command{
		Use:   "run <collective-id>",
		Short: "Run a balance carryforward for one collective",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runCarryforward(args[0], carryforwardDate)
		},
	}
	runCmd.Flags().StringVar(&carryforwardDate, "date", "", "Carryforward date (YYYY-MM-DD, defaults to yesterday)")

	runAllCmd := &cobra.Command{
		Use:   "run-all",
		Short: "Run balance carryforwards for all hosted collectives",
		Run: func(cmd *cobra.Command, args []string) {
			runAllCarryforwards(carryforwardDate)
		},
	}
	runAllCmd.Flags().StringVar(&carryforwardDate, "date", "", "Carryforward date (YYYY-MM-DD, defaults to yesterday)")

	carryforwardCmd.AddCommand(runCmd)
	carryforwardCmd.AddCommand(runAllCmd)
	rootCmd.AddCommand(carryforwardCmd)

	// Balance commands
	var endDate string

	balanceCmd := &cobra.Command{
		Use:   "balance <collective-id>",
		Short: "Show per-host balances for a collective",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			showBalances(args[0], endDate)
		},
	}
	balanceCmd.Flags().StringVar(&endDate, "end-date", "", "Compute balances as of this date (YYYY-MM-DD)")
	rootCmd.AddCommand(balanceCmd)

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	}

	ledgerCmd.AddCommand(consistencyCmd)
	rootCmd.AddCommand(ledgerCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func carryforwardBody(date string) []byte {
	if date == "" {
		return []byte(`{}`)
	}
	body, _ := json.Marshal(map[string]string{"date": date})
	return body
}

func runCarryforward(collectiveID, date string) {
	client := &http.Client{Timeout: timeout}
	url := fmt.Sprintf("%s/api/v1/collectives/%s/carryforward", baseURL, collectiveID)

	resp, err := client.Post(url, "application/json", bytes.NewReader(carryforwardBody(date)))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		fmt.Printf("Carryforward FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if created, ok := result["created"].(bool); ok && !created {
		fmt.Printf("Nothing to carry forward (zero balance)\n")
		return
	}

	fmt.Printf("Carryforward created\n")
	fmt.Printf("Balance: %v %v\n", result["balance"], result["host_currency"])
}

func runAllCarryforwards(date string) {
	client := &http.Client{Timeout: timeout}
	url := baseURL + "/api/v1/carryforward/run-all"

	resp, err := client.Post(url, "application/json", bytes.NewReader(carryforwardBody(date)))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Batch carryforward FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Batch carryforward completed\n")
	fmt.Printf("Processed: %v  Created: %v  Skipped: %v  Failed: %v\n",
		result["processed"], result["created"], result["skipped"], result["failed"])
}

func showBalances(collectiveID, endDate string) {
	client := &http.Client{Timeout: timeout}
	url := fmt.Sprintf("%s/api/v1/collectives/%s/balances", baseURL, collectiveID)
	if endDate != "" {
		url += "?end_date=" + endDate
	}

	resp, err := client.Get(url)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Balance query FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var balances []map[string]any
	if err := json.Unmarshal(body, &balances); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if len(balances) == 0 {
		fmt.Printf("No balances found\n")
		return
	}

	for _, b := range balances {
		fmt.Printf("Host %v: %v %v\n", b["host_collective_id"], b["balance"], b["host_currency"])
	}
}

func checkConsistency() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/ledger/consistency")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Consistency check PASSED\n")
	if consistent, ok := result["consistent"].(bool); ok {
		fmt.Printf("Consistent: %v\n", consistent)
	}
}
