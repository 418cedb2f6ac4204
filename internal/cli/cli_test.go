package cli

import (
	"os"
	"testing"

	"github.com/dallingham/regenerate/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Program
	}{
		{
			name: "project file only",
			args: []string{"prog", "soc.json"},
			want: options.Program{
				Parameters: options.Parameters{Project: "soc.json", Output: "."},
				Flags:      options.Flags{Workers: 1},
			},
		},
		{
			name: "generation flags",
			args: []string{"prog", "-f", "-j", "4", "soc.json"},
			want: options.Program{
				Parameters: options.Parameters{Project: "soc.json", Output: "."},
				Flags:      options.Flags{Force: true, Workers: 4},
			},
		},
		{
			name: "import mode",
			args: []string{"prog", "-import", "chip.xml", "-o", "out", "-block", "256"},
			want: options.Program{
				Parameters: options.Parameters{Import: "chip.xml", Output: "out"},
				Flags:      options.Flags{Workers: 1, Boundary: 256},
			},
		},
		{
			name: "import keeping reserved fields",
			args: []string{"prog", "-import", "chip.xml", "-keep-reserved"},
			want: options.Program{
				Parameters: options.Parameters{Import: "chip.xml", Output: "."},
				Flags:      options.Flags{Workers: 1, KeepReserved: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			got, err := ParseFlags()
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlagsMissingProject(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"prog"}

	_, err := ParseFlags()
	assert.Error(t, err)

	usageErr, ok := err.(*UsageError)
	assert.True(t, ok)
	assert.NotNil(t, usageErr)
}

func TestValidateArgs(t *testing.T) {
	assert.NoError(t, validateArgs([]string{"soc.json"}))
	assert.Error(t, validateArgs([]string{"soc.json", "-f"}))
}
