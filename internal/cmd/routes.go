package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okenna/ferry/internal/config"
	"github.com/okenna/ferry/internal/dispatch"
)

var routesCmd = &cobra.Command{
	Use:   "routes [label...]",
	Short: "Show routing rules and resolve labels",
	Long: `Routes prints the configured label routing rules in match order.
With label arguments it also shows which delivery target each label
resolves to, including the fallback for unmatched labels.`,
	RunE: runRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)
}

func runRoutes(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	router, err := dispatch.NewRouter(cfg.RouterRules())
	if err != nil {
		return err
	}
	router.SetFallback(cfg.DefaultTarget())

	rules := router.Rules()
	if len(rules) == 0 {
		cmd.Println("No routing rules configured.")
	} else {
		cmd.Println("Rules (first match wins):")
		for _, r := range rules {
			cmd.Printf("  %-24s → %s\n", r.Pattern, dispatch.ParseTarget(r.Target).String())
		}
	}
	cmd.Printf("Fallback: %s\n", cfg.DefaultTarget().String())

	if len(args) > 0 {
		cmd.Println()
		for _, label := range args {
			cmd.Printf("  %-24s → %s\n", label, router.Resolve(label).String())
		}
	}
	return nil
}
