package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value form",
			args:    []string{"-a", "http://x:1", "-v", "-t", "5"},
			allowed: []string{"-a", "-t"},
			want:    []string{"-a", "http://x:1", "-t", "5"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=conf.json", "-a=http://x:1", "-other=1"},
			allowed: []string{"--config", "-a"},
			want:    []string{"--config=conf.json", "-a=http://x:1"},
		},
		{
			name:    "flag followed by another flag keeps no value",
			args:    []string{"-a", "-t", "5"},
			allowed: []string{"-a"},
			want:    []string{"-a"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "1"},
			allowed: nil,
			want:    []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FilterArgs(tc.args, tc.allowed))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-c", "one.json"}
	assert.Equal(t, "one.json", JsonConfigFlags())

	os.Args = []string{"testbin", "-config=two.json"}
	assert.Equal(t, "two.json", JsonConfigFlags())

	os.Args = []string{"testbin"}
	assert.Equal(t, "", JsonConfigFlags())
}
