package transcript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssembleNormalizesWhitespaceAndSentenceCase(t *testing.T) {
	t.Parallel()

	got := Assemble([]string{" hello", "world.", "\nthis", "is my answer"}, Options{CapitalizeSentences: true})
	require.Equal(t, "Hello world. This is my answer", got)
}

func TestAssembleWithoutCapitalization(t *testing.T) {
	t.Parallel()

	got := Assemble([]string{"hello", "world"}, Options{})
	require.Equal(t, "hello world", got)
}

func TestAssembleEmptyInput(t *testing.T) {
	t.Parallel()

	require.Empty(t, Assemble(nil, Options{CapitalizeSentences: true}))
	require.Empty(t, Assemble([]string{"  ", "\n\t"}, Options{CapitalizeSentences: true}))
}

func TestAssembleCapitalizesPronounI(t *testing.T) {
	t.Parallel()

	got := Assemble([]string{"when i joined i'm sure i learned a lot. i think so"}, Options{CapitalizeSentences: true})
	require.Equal(t, "When I joined I'm sure I learned a lot. I think so", got)
}

func TestAssembleIdempotentForNormalizedOutput(t *testing.T) {
	t.Parallel()

	first := Assemble([]string{"i led the migration. it took two quarters"}, Options{CapitalizeSentences: true})
	second := Assemble([]string{first}, Options{CapitalizeSentences: true})
	require.Equal(t, first, second)
}

func TestAssembleKeepsInnerAbbreviationPeriods(t *testing.T) {
	t.Parallel()

	got := Assemble([]string{"we used node.js and go"}, Options{CapitalizeSentences: true})
	require.Equal(t, "We used node.js and go", got)
}
