package backstack_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/backstack/pkg/backstack"
	"github.com/BrandonKowalski/backstack/pkg/backstack/input"
	"github.com/BrandonKowalski/backstack/pkg/backstack/memhistory"
	"github.com/BrandonKowalski/backstack/pkg/backstack/nav"
)

func TestInitTwice(t *testing.T) {
	t.Cleanup(backstack.Close)

	require.NoError(t, backstack.Init(backstack.Options{}))
	require.ErrorIs(t, backstack.Init(backstack.Options{}), backstack.ErrAlreadyInitialized)

	backstack.Close()
	require.NoError(t, backstack.Init(backstack.Options{}))
}

func TestDefaultIsLazy(t *testing.T) {
	t.Cleanup(backstack.Close)
	backstack.Close()

	closed := false
	backstack.Register(&nav.Simple{Key: "detail", OnClose: func() { closed = true }})

	require.Equal(t, []string{"detail"}, backstack.StackIDs())
	require.True(t, backstack.IsTop("detail"))

	backer, ok := backstack.Host().(input.Backer)
	require.True(t, ok)
	require.NoError(t, backer.Back())

	select {
	case <-backstack.Wake():
	default:
		t.Fatal("expected a wake signal")
	}
	require.Equal(t, 1, backstack.Dispatch())
	require.True(t, closed)
	require.Zero(t, backstack.Len())
}

func TestCloseStartsFresh(t *testing.T) {
	t.Cleanup(backstack.Close)
	require.NoError(t, backstack.Init(backstack.Options{}))

	backstack.Register(&nav.Simple{Key: "a"})
	backstack.Close()

	require.False(t, backstack.IsOpen("a"))
	require.Empty(t, backstack.StackIDs())
}

func TestInitWithHost(t *testing.T) {
	t.Cleanup(backstack.Close)

	h := memhistory.New()
	require.NoError(t, backstack.Init(backstack.Options{History: h}))
	require.Same(t, h, backstack.Host())
	require.Nil(t, backstack.Wake())

	backstack.PushStep("wizard", 1, nil, nil)
	backstack.PushStep("wizard", 2, nil, nil)
	require.Equal(t, 2, h.Depth())

	backstack.CloseAllByPrefix("wizard", true)
	require.Zero(t, backstack.Dispatch(), "a supplied host is dispatched by its owner")
	require.Equal(t, 1, h.Settle())
	require.Zero(t, backstack.Len())
	require.Zero(t, h.Depth())
}

func TestFacadeProgrammaticMoves(t *testing.T) {
	t.Cleanup(backstack.Close)
	require.NoError(t, backstack.Init(backstack.Options{}))

	var closed []string
	for _, id := range []string{"a", "b", "c"} {
		id := id
		backstack.Register(&nav.Simple{Key: id, OnClose: func() { closed = append(closed, id) }})
	}

	backstack.CloseOverlay("b", false)
	backstack.Dispatch()
	require.Equal(t, []string{"b"}, closed)
	require.Equal(t, []string{"a"}, backstack.StackIDs())

	backstack.Replace(&nav.Simple{Key: "d"})
	require.Equal(t, []string{"d"}, backstack.StackIDs())

	backstack.ClearAndNavigate()
	backstack.Dispatch()
	require.Zero(t, backstack.Len())
	require.Equal(t, []string{"b"}, closed)
}
