package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FlexibleText は単一の文字列と文字列リストのどちらも受け付けるテキスト
// リストは改行で連結して扱う
type FlexibleText []string

// UnmarshalJSON は文字列・文字列リスト・混在リストを受け付ける
func (f *FlexibleText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleText{s}
		return nil
	}

	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*f = ss
		return nil
	}

	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}

	result := make([]string, 0, len(raw))
	for _, v := range raw {
		switch val := v.(type) {
		case string:
			result = append(result, val)
		case float64:
			result = append(result, fmt.Sprintf("%v", val))
		default:
			b, _ := json.Marshal(val)
			result = append(result, string(b))
		}
	}
	*f = result
	return nil
}

// UnmarshalYAML はスカラーとシーケンスを受け付ける
func (f *FlexibleText) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*f = FlexibleText{node.Value}
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := node.Decode(&ss); err != nil {
			return err
		}
		*f = ss
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list of strings", node.Line)
	}
}

// String は改行で連結したテキストを返す
func (f FlexibleText) String() string {
	return strings.Join(f, "\n")
}
