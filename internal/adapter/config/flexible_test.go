package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFlexibleText_JSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "string", input: `"one rule"`, want: "one rule"},
		{name: "list", input: `["a", "b"]`, want: "a\nb"},
		{name: "mixed", input: `["a", 2]`, want: "a\n2"},
		{name: "empty list", input: `[]`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexibleText
			require.NoError(t, json.Unmarshal([]byte(tt.input), &f))
			assert.Equal(t, tt.want, f.String())
		})
	}
}

func TestFlexibleText_JSONInvalid(t *testing.T) {
	var f FlexibleText
	assert.Error(t, json.Unmarshal([]byte(`{"a": 1}`), &f))
}

func TestFlexibleText_YAML(t *testing.T) {
	var v struct {
		Rule    FlexibleText `yaml:"rule"`
		Example FlexibleText `yaml:"example"`
	}
	input := "rule: be kind\nexample:\n  - x\n  - y\n"
	require.NoError(t, yaml.Unmarshal([]byte(input), &v))

	assert.Equal(t, "be kind", v.Rule.String())
	assert.Equal(t, "x\ny", v.Example.String())
}

func TestFlexibleText_YAMLMapping(t *testing.T) {
	var v struct {
		Rule FlexibleText `yaml:"rule"`
	}
	assert.Error(t, yaml.Unmarshal([]byte("rule:\n  a: b\n"), &v))
}
