package main

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInscribeMint(t *testing.T) {
	out, err := run(t, "inscribe", "mint", "--tick", "ABCD", "--amount", "1.5", "--decimals", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, `{"p":"brc-100","op":"mint","tick":"abcd","amt":"150"}`, lines[0])

	raw, err := hex.DecodeString(strings.TrimPrefix(lines[1], "0x"))
	require.NoError(t, err)
	require.Equal(t, `data:application/json,`+lines[0], string(raw))
}

func TestInscribeRejectsBadTick(t *testing.T) {
	_, err := run(t, "inscribe", "burn", "--tick", "toolong", "--amount", "1")
	require.Error(t, err)
}

func TestCurveMilestones(t *testing.T) {
	out, err := run(t, "curve", "milestones")
	require.NoError(t, err)
	require.Contains(t, out, "First token")
	require.Contains(t, out, "$0.0000001")
	require.Contains(t, out, "Last token")

	_, err = run(t, "curve", "quote", "--preset", "nope")
	require.ErrorIs(t, err, ErrUnknownPreset)
}
