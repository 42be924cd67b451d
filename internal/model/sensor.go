package model

import (
	"encoding/json"
	"fmt"
	"iter"

	"gopkg.in/yaml.v3"
)

// SensorRecord is the flattened view of one device or module. ID is carried
// by the key of the enclosing SensorMap and is not serialized.
type SensorRecord struct {
	ID       string   `json:"-" yaml:"-"`
	Name     string   `json:"name" yaml:"name"`
	Readings Readings `json:"readings" yaml:"readings"`
}

func (s SensorRecord) yamlNode() (*yaml.Node, error) {
	readings, err := s.Readings.yamlNode()
	if err != nil {
		return nil, err
	}
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: "name"},
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: s.Name},
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: "readings"},
			readings,
		},
	}, nil
}

// SensorMap is the report: sensor id to record, devices first, each followed
// by its modules.
type SensorMap struct {
	m ordered[SensorRecord]
}

func NewSensorMap() *SensorMap {
	return &SensorMap{}
}

// Put inserts rec under rec.ID. A repeated id replaces the earlier record
// but keeps its position.
func (s *SensorMap) Put(rec SensorRecord) {
	s.m.set(rec.ID, rec)
}

func (s *SensorMap) Get(id string) (SensorRecord, bool) {
	return s.m.get(id)
}

func (s *SensorMap) Len() int {
	return s.m.len()
}

func (s *SensorMap) IDs() []string {
	return s.m.keyList()
}

func (s *SensorMap) All() iter.Seq2[string, SensorRecord] {
	return func(yield func(string, SensorRecord) bool) {
		for _, k := range s.m.keys {
			if !yield(k, s.m.vals[k]) {
				return
			}
		}
	}
}

func (s *SensorMap) MarshalJSON() ([]byte, error) {
	return s.m.marshalJSON()
}

func (s *SensorMap) UnmarshalJSON(data []byte) error {
	var fresh SensorMap
	err := decodeObject(data, func(id string, raw json.RawMessage) error {
		var rec SensorRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("failed to decode sensor %q: %w", id, err)
		}
		rec.ID = id
		fresh.Put(rec)
		return nil
	})
	if err != nil {
		return err
	}
	*s = fresh
	return nil
}

func (s *SensorMap) MarshalYAML() (any, error) {
	return s.m.yamlNode(SensorRecord.yamlNode)
}
