package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Kind uint8

const (
	KindInvalid Kind = iota
	KindNumber
	KindString
	// KindRaw holds any other JSON value (bool, null, object, array) verbatim.
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindRaw:
		return "raw"
	default:
		return "invalid"
	}
}

// Value is a single dashboard reading. Numbers keep their JSON literal so a
// copied reading is byte-for-byte what the API sent.
type Value struct {
	kind Kind
	text string
}

func Number(literal string) Value {
	return Value{kind: KindNumber, text: literal}
}

func Float(f float64) Value {
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'f', -1, 64)}
}

func Int(i int64) Value {
	return Value{kind: KindNumber, text: strconv.FormatInt(i, 10)}
}

func String(s string) Value {
	return Value{kind: KindString, text: s}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNumber() bool {
	return v.kind == KindNumber
}

func (v Value) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.text, true
}

func (v Value) String() string {
	return v.text
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber, KindRaw:
		return []byte(v.text), nil
	case KindString:
		return marshalPlain(v.text)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty reading value")
	}

	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case c == '-' || (c >= '0' && c <= '9'):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Number(n.String())
	default:
		var compact bytes.Buffer
		if err := json.Compact(&compact, data); err != nil {
			return err
		}
		*v = Value{kind: KindRaw, text: compact.String()}
	}
	return nil
}

func (v Value) yamlNode() (*yaml.Node, error) {
	switch v.kind {
	case KindNumber:
		tag := "!!int"
		if strings.ContainsAny(v.text, ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.text}, nil
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.text}, nil
	case KindRaw:
		var decoded any
		if err := json.Unmarshal([]byte(v.text), &decoded); err != nil {
			return nil, err
		}
		var n yaml.Node
		if err := n.Encode(decoded); err != nil {
			return nil, err
		}
		return &n, nil
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
}

func (v Value) MarshalYAML() (any, error) {
	return v.yamlNode()
}
