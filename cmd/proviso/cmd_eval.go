package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wch1125/proviso/internal/engine"
	"github.com/wch1125/proviso/parser"
)

var (
	financialsPath   string
	evaluationPeriod string
	showHistory      bool
)

var evalCmd = &cobra.Command{
	Use:   "eval <source-file>",
	Short: "load a source file and financial data, then print the deal's status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		program, err := parser.Parse(string(src))
		if err != nil {
			return err
		}

		it := engine.New(program)

		if financialsPath != "" {
			data, err := os.ReadFile(financialsPath)
			if err != nil {
				return fmt.Errorf("read %s: %w", financialsPath, err)
			}
			if err := it.LoadFinancialsRaw(data); err != nil {
				return fmt.Errorf("load financials: %w", err)
			}
		}
		if evaluationPeriod != "" {
			if err := it.SetEvaluationPeriod(evaluationPeriod); err != nil {
				return err
			}
		}

		status, err := it.GetStatus()
		if err != nil {
			return err
		}
		printStatus(status)

		if showHistory {
			history, err := it.GetComplianceHistory()
			if err != nil {
				return fmt.Errorf("compliance history: %w", err)
			}
			printComplianceHistory(history)
		}
		return nil
	},
}

func init() {
	evalCmd.Flags().StringVar(&financialsPath, "financials", "", "path to a JSON or YAML financial-data snapshot")
	evalCmd.Flags().StringVar(&evaluationPeriod, "period", "", "evaluation period label, for multi-period snapshots")
	evalCmd.Flags().BoolVar(&showHistory, "history", false, "print covenant compliance across every loaded period")
}

func printComplianceHistory(history []engine.PeriodCompliance) {
	fmt.Println("\nCompliance history:")
	for _, snapshot := range history {
		fmt.Printf("  %s:\n", snapshot.Period)
		for _, c := range snapshot.Covenants {
			compliance := "COMPLIANT"
			if !c.Compliant {
				compliance = "BREACH"
			}
			fmt.Printf("    %-24s %-10s actual=%.4f threshold=%.4f\n", c.Name, compliance, c.Actual, c.Threshold)
		}
	}
}

func printStatus(status engine.Status) {
	if status.CurrentPhase != "" {
		fmt.Printf("Phase: %s\n\n", status.CurrentPhase)
	}

	fmt.Println("Covenants:")
	for _, c := range status.Covenants {
		compliance := "COMPLIANT"
		if !c.Compliant {
			compliance = "BREACH"
		}
		fmt.Printf("  %-24s %-10s actual=%.4f threshold=%.4f headroom=%.4f\n", c.Name, compliance, c.Actual, c.Threshold, c.Headroom)
	}

	fmt.Println("\nBaskets:")
	for _, b := range status.Baskets {
		fmt.Printf("  %-24s used=%.2f capacity=%.2f available=%.2f\n", b.Name, b.Used, b.Capacity, b.Available)
	}

	fmt.Println("\nReserves:")
	for _, r := range status.Reserves {
		fmt.Printf("  %-24s balance=%.2f target=%.2f minimum=%.2f\n", r.Name, r.Balance, r.Target, r.Minimum)
	}

	fmt.Println("\nMilestones:")
	for _, m := range status.Milestones {
		fmt.Printf("  %-24s %s\n", m.Name, m.Status)
	}

	if len(status.CPChecklists) > 0 {
		fmt.Println("\nConditions precedent:")
		for _, c := range status.CPChecklists {
			fmt.Printf("  %s: %v\n", c.Name, c.ByStatus)
		}
	}
}
