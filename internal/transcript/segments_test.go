package transcript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSegmentsInterimTrailsCommitted(t *testing.T) {
	t.Parallel()

	var s Segments
	s.SetInterim("i built")
	require.Equal(t, []string{"i built"}, s.List())

	s.SetInterim("i built a  queue")
	require.Equal(t, []string{"i built a queue"}, s.List())

	s.Commit("i built a queue service")
	s.SetInterim("it handled")
	require.Equal(t, []string{"i built a queue service", "it handled"}, s.List())
}

func TestSegmentsCommitMergesContinuations(t *testing.T) {
	t.Parallel()

	var s Segments
	s.Commit("we shipped")
	s.Commit("we shipped it in march")
	s.Commit("we shipped")
	require.Equal(t, []string{"we shipped it in march"}, s.List())
}

func TestSegmentsIgnoresBlankAndResets(t *testing.T) {
	t.Parallel()

	var s Segments
	s.Commit("   ")
	s.SetInterim("\n")
	require.Empty(t, s.List())

	s.Commit("hello")
	s.Reset()
	require.Empty(t, s.List())
}
