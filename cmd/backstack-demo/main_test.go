package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/backstack/pkg/backstack"
)

func TestHandleSession(t *testing.T) {
	t.Cleanup(backstack.Close)
	require.NoError(t, backstack.Init(backstack.Options{}))

	var out bytes.Buffer
	for _, line := range []string{"open settings", "step wizard 1", "step wizard 2", "gesture"} {
		quit, err := handle(strings.Fields(line), &out)
		require.NoError(t, err)
		require.False(t, quit)
	}
	backstack.Dispatch()

	require.Contains(t, out.String(), "stack: settings > wizard > wizard-step-2")
	require.Contains(t, out.String(), "wizard back to phase 1")
	require.Equal(t, []string{"settings", "wizard"}, backstack.StackIDs())
}

func TestHandleErrors(t *testing.T) {
	t.Cleanup(backstack.Close)
	require.NoError(t, backstack.Init(backstack.Options{}))

	var out bytes.Buffer
	_, err := handle([]string{"open"}, &out)
	require.ErrorContains(t, err, "needs 1 argument")

	_, err = handle([]string{"step", "wizard", "two"}, &out)
	require.ErrorContains(t, err, "phase")

	_, err = handle([]string{"fly"}, &out)
	require.ErrorContains(t, err, "unknown command")

	quit, err := handle([]string{"quit"}, &out)
	require.NoError(t, err)
	require.True(t, quit)
}

func TestRunEndsWithInput(t *testing.T) {
	t.Cleanup(backstack.Close)
	require.NoError(t, backstack.Init(backstack.Options{}))

	var out bytes.Buffer
	require.NoError(t, run(strings.NewReader("open a\nls\n"), &out, nil))
	require.Contains(t, out.String(), "stack: a")
}

func TestReadLinesStopsWhenDone(t *testing.T) {
	lines := make(chan string)
	done := make(chan struct{})
	close(done)

	returned := make(chan struct{})
	go func() {
		readLines(strings.NewReader("open a\nopen b\n"), lines, done)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("reader kept waiting for a receiver")
	}
	_, ok := <-lines
	require.False(t, ok)
}
