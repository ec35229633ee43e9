package view_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/delaneyj/flowparty/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hello() view.Frame {
	return view.Frame{Live: "Hello World", State: "Hello World"}
}

// should render every widget through the panel template
func TestPanel(t *testing.T) {
	out := view.Panel(view.Frame{Live: "LiveData", State: "StateFlow", Flow: "Item 2", Snackbar: "SharedFlow"})
	assert.Equal(t, "[live]     LiveData\n[state]    StateFlow\n[flow]     Item 2\n>>         SharedFlow\n", out)

	out = view.Panel(hello())
	assert.Equal(t, "[live]     Hello World\n[state]    Hello World\n[flow]     \n", out)
}

// should skip painting an unchanged frame
func TestScreenSkipsIdenticalFrames(t *testing.T) {
	s := view.NewScreen(hello())
	var buf bytes.Buffer

	painted, err := s.Render(&buf)
	require.NoError(t, err)
	assert.True(t, painted)

	s.Set(view.WidgetLive, "Hello World")
	painted, err = s.Render(&buf)
	require.NoError(t, err)
	assert.False(t, painted)

	s.Observer(view.WidgetFlow)("Item 0")
	painted, err = s.Render(&buf)
	require.NoError(t, err)
	assert.True(t, painted)
	assert.Equal(t, "Item 0", s.Frame().Flow)
}

// should show a snackbar for exactly one paint
func TestScreenSnackbarIsOneShot(t *testing.T) {
	s := view.NewScreen(hello())
	var buf bytes.Buffer

	s.Set(view.WidgetSnackbar, "SharedFlow")
	_, err := s.Render(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), ">>         SharedFlow")
	assert.Empty(t, s.Frame().Snackbar)

	buf.Reset()
	painted, err := s.Render(&buf)
	require.NoError(t, err)
	assert.True(t, painted)
	assert.NotContains(t, buf.String(), "SharedFlow")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed pipe")
}

// should surface write failures and retry the frame next time
func TestScreenWriteError(t *testing.T) {
	s := view.NewScreen(hello())
	_, err := s.Render(failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed pipe")

	var buf bytes.Buffer
	painted, err := s.Render(&buf)
	require.NoError(t, err)
	assert.True(t, painted)
}

func TestWidgetString(t *testing.T) {
	assert.Equal(t, "live", view.WidgetLive.String())
	assert.Equal(t, "state", view.WidgetState.String())
	assert.Equal(t, "flow", view.WidgetFlow.String())
	assert.Equal(t, "snackbar", view.WidgetSnackbar.String())
}
