package main

import (
	"bufio"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Scrape a running agent's /metrics endpoint for a focused view",
}

func init() {
	inspectCmd.PersistentFlags().String("addr", "http://localhost:8080", "base address of the agent to inspect")

	inspectCmd.AddCommand(inspectBreakersCmd, inspectCorrelationsCmd)
}

// scrapeMetrics fetches addr+"/metrics" and returns the lines whose metric
// name starts with any of the given prefixes, in order of appearance.
func scrapeMetrics(addr string, prefixes ...string) ([]string, error) {
	resp, err := http.Get(strings.TrimRight(addr, "/") + "/metrics")
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", addr, err)
	}
	defer resp.Body.Close()

	var matched []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(line, prefix) {
				matched = append(matched, line)
				break
			}
		}
	}
	return matched, scanner.Err()
}

var inspectBreakersCmd = &cobra.Command{
	Use:   "breakers",
	Short: "Show circuit breaker state and trip counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		lines, err := scrapeMetrics(addr, "chimera_breaker_state", "chimera_breaker_trips_total")
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			fmt.Println("no breaker metrics reported")
			return nil
		}
		for _, l := range lines {
			fmt.Println(l)
		}
		return nil
	},
}

var inspectCorrelationsCmd = &cobra.Command{
	Use:   "correlations",
	Short: "Show in-flight and reaped request/response correlations",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		lines, err := scrapeMetrics(addr, "chimera_correlations_in_flight", "chimera_correlations_reaped_total")
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			fmt.Println("no correlation metrics reported")
			return nil
		}
		for _, l := range lines {
			fmt.Println(l)
		}
		return nil
	},
}
