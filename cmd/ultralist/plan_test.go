package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/ayn2op/ultralist/diff"
)

func TestPlanCommand(t *testing.T) {
	color.NoColor = true

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"plan",
		"--added", "9,2,3,4",
		"--removed", "0,1",
		"--moved", "1:8",
		"--length", "10",
		"--color", "off",
	})
	require.NoError(t, rootCmd.Execute())

	require.Equal(t, ""+
		"  1 remove range(0,2)\n"+
		"  2 insert range(2,3)\n"+
		"  3 insert single(9)\n"+
		"  4 move(1->8)\n"+
		"length 10 -> 12\n", out.String())
}

func TestPrintPlanRejectsShortLength(t *testing.T) {
	color.NoColor = true

	ops := diff.Plan(diff.Result{Removed: []int{4}})
	var out bytes.Buffer
	err := printPlan(&out, ops, 3)

	var rangeErr *diff.OutOfRangeError
	require.ErrorAs(t, err, &rangeErr)
	require.Equal(t, 4, rangeErr.Index)
}

func TestPrintPlanEmpty(t *testing.T) {
	color.NoColor = true

	var out bytes.Buffer
	require.NoError(t, printPlan(&out, nil, 5))
	require.Equal(t, "no changes\n", out.String())
}

func TestParseMoves(t *testing.T) {
	moves, err := parseMoves([]string{"1:8", " 3 : 0"})
	require.NoError(t, err)
	require.Equal(t, []diff.Move{{From: 1, To: 8}, {From: 3, To: 0}}, moves)

	_, err = parseMoves([]string{"18"})
	require.Error(t, err)
	_, err = parseMoves([]string{"a:1"})
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	require.Equal(t, []int{1, 2, 5}, normalize([]int{5, 1, 2, 5}))
}
