package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", input: `"15m"`, want: 15 * time.Minute},
		{name: "compound string", input: `"1h30m"`, want: 90 * time.Minute},
		{name: "nanoseconds", input: `1000000000`, want: time.Second},
		{name: "bad string", input: `"soon"`, wantErr: true},
		{name: "bool", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	var cfg struct {
		Access  Duration `yaml:"access"`
		Refresh Duration `yaml:"refresh"`
	}
	err := yaml.Unmarshal([]byte("access: 15m\nrefresh: 60000000000\n"), &cfg)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.Access.Duration)
	assert.Equal(t, time.Minute, cfg.Refresh.Duration)

	err = yaml.Unmarshal([]byte("access: later\n"), &cfg)
	require.Error(t, err)
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 2 * time.Hour})
	require.NoError(t, err)
	assert.JSONEq(t, `"2h0m0s"`, string(b))
}
