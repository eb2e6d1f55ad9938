package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wch1125/proviso/internal/engine"
	"github.com/wch1125/proviso/internal/prose"
	"github.com/wch1125/proviso/internal/tui"
	"github.com/wch1125/proviso/parser"
)

var tuiFinancialsPath string

var tuiCmd = &cobra.Command{
	Use:   "tui <source-file>",
	Short: "open the covenant/prose status dashboard for a source file",
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
		if tuiFinancialsPath != "" {
			data, err := os.ReadFile(tuiFinancialsPath)
			if err != nil {
				return fmt.Errorf("read %s: %w", tuiFinancialsPath, err)
			}
			if err := it.LoadFinancialsRaw(data); err != nil {
				return fmt.Errorf("load financials: %w", err)
			}
		}

		status, err := it.GetStatus()
		if err != nil {
			return err
		}
		doc, err := prose.GenerateDocument(program, nil)
		if err != nil {
			return err
		}

		model := tui.NewModel(status, doc.FullText)
		_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	tuiCmd.Flags().StringVar(&tuiFinancialsPath, "financials", "", "path to a JSON or YAML financial-data snapshot")
}
