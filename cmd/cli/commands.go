package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(headToHeadCmd)
	rootCmd.AddCommand(decksCmd)
	rootCmd.AddCommand(stereotypesCmd)
	rootCmd.AddCommand(countersCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the points leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard")
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recently recorded games",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/games/recent")
	},
}

var playerCmd = &cobra.Command{
	Use:   "player [external-id]",
	Short: "Show one player's statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players/stats?player=" + url.QueryEscape(args[0]))
	},
}

var headToHeadCmd = &cobra.Command{
	Use:   "head-to-head [external-id-1] [external-id-2]",
	Short: "Compare two players across their shared games",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(fmt.Sprintf("/head-to-head?player1=%s&player2=%s",
			url.QueryEscape(args[0]), url.QueryEscape(args[1])))
	},
}

var decksCmd = &cobra.Command{
	Use:   "decks [commander]",
	Short: "Show deck statistics, optionally filtered by commander name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/decks"
		if len(args) == 1 {
			endpoint += "?commander=" + url.QueryEscape(args[0])
		}
		return performGetRequest(endpoint)
	},
}

var stereotypesCmd = &cobra.Command{
	Use:   "stereotypes",
	Short: "List the stereotype catalogue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/stereotypes")
	},
}

var countersCmd = &cobra.Command{
	Use:   "counters",
	Short: "Get the persisted operational counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/counters")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
