package model

import (
	"encoding/json"
	"iter"

	"gopkg.in/yaml.v3"
)

// Readings maps dashboard field names to values, preserving the order the
// fields arrived in.
type Readings struct {
	m ordered[Value]
}

func NewReadings() Readings {
	return Readings{}
}

func (r *Readings) Set(key string, v Value) {
	r.m.set(key, v)
}

func (r Readings) Get(key string) (Value, bool) {
	return r.m.get(key)
}

func (r Readings) Len() int {
	return r.m.len()
}

func (r Readings) Keys() []string {
	return r.m.keyList()
}

func (r Readings) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range r.m.keys {
			if !yield(k, r.m.vals[k]) {
				return
			}
		}
	}
}

func (r Readings) MarshalJSON() ([]byte, error) {
	return r.m.marshalJSON()
}

func (r *Readings) UnmarshalJSON(data []byte) error {
	var fresh Readings
	err := decodeObject(data, func(key string, raw json.RawMessage) error {
		var v Value
		if err := v.UnmarshalJSON(raw); err != nil {
			return err
		}
		fresh.Set(key, v)
		return nil
	})
	if err != nil {
		return err
	}
	*r = fresh
	return nil
}

func (r Readings) yamlNode() (*yaml.Node, error) {
	return r.m.yamlNode(Value.yamlNode)
}

func (r Readings) MarshalYAML() (any, error) {
	return r.yamlNode()
}
