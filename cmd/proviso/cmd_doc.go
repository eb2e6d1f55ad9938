package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wch1125/proviso/internal/prose"
	"github.com/wch1125/proviso/parser"
)

var docTitle string

var docCmd = &cobra.Command{
	Use:   "doc <source-file>",
	Short: "render a source file to a prose document outline",
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
		metadata := map[string]string{}
		if docTitle != "" {
			metadata["title"] = docTitle
		}
		doc, err := prose.GenerateDocument(program, metadata)
		if err != nil {
			return err
		}
		fmt.Print(doc.FullText)
		return nil
	},
}

func init() {
	docCmd.Flags().StringVar(&docTitle, "title", "", "document title, recorded in metadata")
}

var redlineCmd = &cobra.Command{
	Use:   "redline <old-source-file> <new-source-file>",
	Short: "diff two revisions of a source file and print a redline",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		oldSrc, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		newSrc, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[1], err)
		}
		redline, err := prose.GenerateRedline(string(oldSrc), string(newSrc))
		if err != nil {
			return err
		}
		fmt.Printf("%d added, %d removed, %d modified\n\n", len(redline.Added), len(redline.Removed), len(redline.Modified))
		fmt.Print(redline.Body)
		return nil
	},
}
