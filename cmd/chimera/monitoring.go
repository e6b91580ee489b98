package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chimera-labs/chimera/pkg/state"
)

var monitoringCmd = &cobra.Command{
	Use:   "monitoring",
	Short: "Manage alert rules in the bbolt rule store",
}

var monitoringRuleCmd = &cobra.Command{
	Use:   "rule",
	Short: "Manage a single alert rule",
}

var monitoringRulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Bulk import/export alert rules",
}

func init() {
	monitoringCmd.PersistentFlags().String("data-dir", "./data", "directory holding the bbolt rule store")

	monitoringRuleCmd.AddCommand(ruleAddCmd, ruleListCmd, ruleRemoveCmd)
	monitoringRulesCmd.AddCommand(rulesImportCmd, rulesExportCmd)
	monitoringCmd.AddCommand(monitoringRuleCmd, monitoringRulesCmd)

	ruleAddCmd.Flags().String("name", "", "rule name")
	ruleAddCmd.Flags().String("metric", "", "metric name the condition evaluates against")
	ruleAddCmd.Flags().String("operator", ">", "comparison operator (>, <, ≥, ≤, =)")
	ruleAddCmd.Flags().Float64("threshold", 0, "threshold value")
	ruleAddCmd.Flags().Int("duration-seconds", 0, "how long the condition must hold")
	ruleAddCmd.Flags().Int("cooldown-seconds", 300, "minimum time between repeated firings")
	ruleAddCmd.Flags().StringSlice("channels", nil, "notification channel ids")
	_ = ruleAddCmd.MarkFlagRequired("name")
	_ = ruleAddCmd.MarkFlagRequired("metric")
}

// openStore resolves the --data-dir persistent flag from anywhere in the
// monitoring command tree; cobra merges persistent flags down to every
// descendant by the time RunE runs.
func openStore(cmd *cobra.Command) (*state.Store, error) {
	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return nil, err
	}
	return state.NewStore(dataDir)
}

var ruleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an alert rule under a newly minted id",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		name, _ := cmd.Flags().GetString("name")
		metric, _ := cmd.Flags().GetString("metric")
		operator, _ := cmd.Flags().GetString("operator")
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		duration, _ := cmd.Flags().GetInt("duration-seconds")
		cooldown, _ := cmd.Flags().GetInt("cooldown-seconds")
		channels, _ := cmd.Flags().GetStringSlice("channels")

		rule := &state.AlertRule{
			ID:   uuid.NewString(),
			Name: name,
			Condition: state.Condition{
				Metric:          metric,
				Operator:        state.Operator(operator),
				Threshold:       threshold,
				DurationSeconds: duration,
				CooldownSeconds: cooldown,
			},
			NotificationChannelIDs: channels,
			Enabled:                true,
		}
		if err := store.CreateRule(rule); err != nil {
			return err
		}
		fmt.Printf("rule %s created\n", rule.ID)
		return nil
	},
}

var ruleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List alert rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		rules, err := store.ListRules()
		if err != nil {
			return err
		}
		for _, r := range rules {
			fmt.Printf("%s\t%s\t%s %s %.4g\tenabled=%t\n", r.ID, r.Name, r.Condition.Metric, r.Condition.Operator, r.Condition.Threshold, r.Enabled)
		}
		return nil
	},
}

var ruleRemoveCmd = &cobra.Command{
	Use:   "remove <rule-id>",
	Short: "Remove an alert rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.DeleteRule(args[0])
	},
}

var rulesImportCmd = &cobra.Command{
	Use:   "import <file>.yaml",
	Short: "Bulk-create alert rules from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var rules []state.AlertRule
		if err := yaml.Unmarshal(data, &rules); err != nil {
			return err
		}
		for i := range rules {
			if err := store.CreateRule(&rules[i]); err != nil {
				return err
			}
		}
		fmt.Printf("imported %d rules\n", len(rules))
		return nil
	},
}

var rulesExportCmd = &cobra.Command{
	Use:   "export <file>.yaml",
	Short: "Export every alert rule to a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		rules, err := store.ListRules()
		if err != nil {
			return err
		}
		flat := make([]state.AlertRule, len(rules))
		for i, r := range rules {
			flat[i] = *r
		}
		data, err := yaml.Marshal(flat)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return err
		}
		fmt.Printf("exported %d rules to %s\n", len(flat), args[0])
		return nil
	},
}
