package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseArgv(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr string
	}{
		{name: "empty", input: "", want: nil},
		{name: "simple", input: "tee -a answers.txt", want: []string{"tee", "-a", "answers.txt"}},
		{name: "quoted spaces", input: `notify-send "answer saved"`, want: []string{"notify-send", "answer saved"}},
		{name: "single quote", input: `sh -c 'cat >> log'`, want: []string{"sh", "-c", "cat >> log"}},
		{name: "escaped space", input: `tee my\ answers.txt`, want: []string{"tee", "my answers.txt"}},
		{name: "leading comment", input: `# tee answers.txt`, want: nil},
		{name: "unterminated quote", input: `tee "oops`, wantErr: "unterminated quote"},
		{name: "unterminated escape", input: `tee answers\`, wantErr: "unterminated escape"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseArgv(tc.input)
			if tc.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
