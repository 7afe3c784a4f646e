package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ayn2op/ultralist/diff"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the operations a diff coalesces into",
	Long: `Plan turns added, removed and moved indices into the range operations the
list applies, in order. With --length the plan is also checked against a
collection of that size.`,
	Example: `  ultralist plan --added 2,3,4,9 --removed 0,1 --moved 1:8 --length 10`,
	Args:    cobra.NoArgs,
	RunE:    runPlan,
}

func init() {
	planCmd.Flags().IntSlice("added", nil, "added indices, in the final order")
	planCmd.Flags().IntSlice("removed", nil, "removed indices, in the original order")
	planCmd.Flags().StringSlice("moved", nil, "moves as from:to pairs")
	planCmd.Flags().Int("length", -1, "length of the collection before the diff")
}

func runPlan(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	added, err := flags.GetIntSlice("added")
	if err != nil {
		return fmt.Errorf("failed to get added flag: %w", err)
	}
	removed, err := flags.GetIntSlice("removed")
	if err != nil {
		return fmt.Errorf("failed to get removed flag: %w", err)
	}
	movedFlag, err := flags.GetStringSlice("moved")
	if err != nil {
		return fmt.Errorf("failed to get moved flag: %w", err)
	}
	length, _ := flags.GetInt("length")

	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	switch colorFlag {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	}

	moved, err := parseMoves(movedFlag)
	if err != nil {
		return err
	}
	result := diff.Result{Added: normalize(added), Removed: normalize(removed), Moved: moved}
	if slices.ContainsFunc(result.Added, negative) || slices.ContainsFunc(result.Removed, negative) {
		return fmt.Errorf("indices must not be negative")
	}

	return printPlan(cmd.OutOrStdout(), diff.Plan(result), length)
}

func negative(i int) bool {
	return i < 0
}

// normalize sorts indices and drops duplicates.
func normalize(indices []int) []int {
	out := slices.Clone(indices)
	slices.Sort(out)
	return slices.Compact(out)
}

func parseMoves(values []string) ([]diff.Move, error) {
	moves := make([]diff.Move, 0, len(values))
	for _, value := range values {
		from, to, ok := strings.Cut(value, ":")
		if !ok {
			return nil, fmt.Errorf("move %q: want from:to", value)
		}
		f, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return nil, fmt.Errorf("move %q: %w", value, err)
		}
		t, err := strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			return nil, fmt.Errorf("move %q: %w", value, err)
		}
		moves = append(moves, diff.Move{From: f, To: t})
	}
	return moves, nil
}

var (
	removeColor = color.New(color.FgRed)
	insertColor = color.New(color.FgGreen)
	moveColor   = color.New(color.FgYellow)
	faintColor  = color.New(color.Faint)
)

func printPlan(w io.Writer, ops []diff.Op, length int) error {
	if len(ops) == 0 {
		faintColor.Fprintln(w, "no changes")
		return nil
	}
	for i, op := range ops {
		c := moveColor
		switch op.Kind {
		case diff.OpRemove:
			c = removeColor
		case diff.OpInsert:
			c = insertColor
		}
		faintColor.Fprintf(w, "%3d ", i+1)
		c.Fprintln(w, op)
	}

	if length < 0 {
		return nil
	}
	final, err := diff.Validate(ops, length)
	if err != nil {
		return fmt.Errorf("plan does not fit length %d: %w", length, err)
	}
	faintColor.Fprintf(w, "length %d -> %d\n", length, final)
	return nil
}
