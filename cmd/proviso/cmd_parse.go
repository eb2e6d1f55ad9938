package main

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/wch1125/proviso/parser"
)

var watchParse bool

var parseCmd = &cobra.Command{
	Use:   "parse <source-file>",
	Short: "parse a source file and report syntax errors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := parseOnce(args[0]); err != nil {
			return err
		}
		if !watchParse {
			return nil
		}
		return watchAndReparse(args[0])
	},
}

func init() {
	parseCmd.Flags().BoolVar(&watchParse, "watch", false, "re-parse on source-file save")
}

func parseOnce(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	program, err := parser.Parse(string(data))
	if err != nil {
		if se, ok := err.(*parser.SyntaxError); ok {
			fmt.Fprintf(os.Stderr, "%s:%d:%d: %s\n", path, se.Line, se.Column, se.Message)
			return err
		}
		return err
	}
	fmt.Printf("%s: OK (%d statements)\n", path, len(program.Statements))
	return nil
}

// watchAndReparse re-parses path on every fsnotify write event, per
// spec §2.T's watch-mode component. Debouncing is left to the OS-level
// coalescing of rapid writes; a single fsnotify.Write is sufficient for
// the common editor save pattern this targets.
func watchAndReparse(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	fmt.Printf("watching %s for changes (ctrl-c to stop)\n", path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				_ = parseOnce(path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
