package model

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantKind Kind
		wantJSON string
	}{
		{name: "integer", in: `1013`, wantKind: KindNumber, wantJSON: `1013`},
		{name: "float keeps literal", in: `21.50`, wantKind: KindNumber, wantJSON: `21.50`},
		{name: "negative", in: `-3.2`, wantKind: KindNumber, wantJSON: `-3.2`},
		{name: "exponent", in: `1e3`, wantKind: KindNumber, wantJSON: `1e3`},
		{name: "string", in: `"up"`, wantKind: KindString, wantJSON: `"up"`},
		{name: "bool is raw", in: `true`, wantKind: KindRaw, wantJSON: `true`},
		{name: "null is raw", in: `null`, wantKind: KindRaw, wantJSON: `null`},
		{name: "object is compacted raw", in: `{ "a" : 1 }`, wantKind: KindRaw, wantJSON: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			if err := json.Unmarshal([]byte(tt.in), &v); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.in, err)
			}
			if v.Kind() != tt.wantKind {
				t.Errorf("Kind = %v; want %v", v.Kind(), tt.wantKind)
			}
			out, err := json.Marshal(v)
			if err != nil {
				t.Fatalf("Marshal error = %v", err)
			}
			if string(out) != tt.wantJSON {
				t.Errorf("Marshal = %s; want %s", out, tt.wantJSON)
			}
		})
	}
}

func TestValue_Accessors(t *testing.T) {
	f, ok := Number("21.5").Float64()
	if !ok || f != 21.5 {
		t.Errorf("Float64 = %v, %v; want 21.5, true", f, ok)
	}
	if _, ok := String("x").Float64(); ok {
		t.Error("Float64 on string should report false")
	}
	if s, ok := String("x").Str(); !ok || s != "x" {
		t.Errorf("Str = %q, %v; want x, true", s, ok)
	}
	if got := Float(3.25).String(); got != "3.25" {
		t.Errorf("Float(3.25) = %q; want 3.25", got)
	}
	if got := Int(-7).String(); got != "-7" {
		t.Errorf("Int(-7) = %q; want -7", got)
	}
	if b, _ := json.Marshal(Value{}); string(b) != "null" {
		t.Errorf("zero Value marshals to %s; want null", b)
	}
}

func TestReadings_PreservesOrder(t *testing.T) {
	in := `{"Temperature":21.3,"CO2":512,"Humidity":48,"Noise":37,"Pressure":1013.2}`

	var r Readings
	if err := json.Unmarshal([]byte(in), &r); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}

	want := []string{"Temperature", "CO2", "Humidity", "Noise", "Pressure"}
	if got := r.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys = %v; want %v", got, want)
	}

	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if string(out) != in {
		t.Errorf("Marshal = %s; want %s", out, in)
	}
}

func TestReadings_SetExistingKeepsPosition(t *testing.T) {
	var r Readings
	r.Set("a", Int(1))
	r.Set("b", Int(2))
	r.Set("a", String("x"))

	if got := r.Keys(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Keys = %v; want [a b]", got)
	}
	if v, _ := r.Get("a"); v.Kind() != KindString {
		t.Errorf("a kind = %v; want string", v.Kind())
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d; want 2", r.Len())
	}
}

func TestReadings_EmptyAndNull(t *testing.T) {
	var r Readings
	out, _ := json.Marshal(r)
	if string(out) != "{}" {
		t.Errorf("empty Readings = %s; want {}", out)
	}

	if err := json.Unmarshal([]byte(`null`), &r); err != nil {
		t.Fatalf("Unmarshal(null) error = %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("Len after null = %d; want 0", r.Len())
	}

	if err := json.Unmarshal([]byte(`[1,2]`), &r); err == nil {
		t.Error("Unmarshal(array) error = nil; want non-nil")
	}
}

func TestReadings_All_StopsEarly(t *testing.T) {
	var r Readings
	r.Set("a", Int(1))
	r.Set("b", Int(2))
	r.Set("c", Int(3))

	var seen []string
	for k := range r.All() {
		seen = append(seen, k)
		if k == "b" {
			break
		}
	}
	if !slices.Equal(seen, []string{"a", "b"}) {
		t.Errorf("seen = %v; want [a b]", seen)
	}
}

func TestSensorMap_RoundTrip(t *testing.T) {
	m := NewSensorMap()

	dev := SensorRecord{ID: "70:ee:50:00:00:01", Name: "Home"}
	dev.Readings.Set("Temperature", Number("21.3"))
	dev.Readings.Set("CO2", Number("512"))
	m.Put(dev)

	mod := SensorRecord{ID: "02:00:00:00:00:02", Name: "Outdoor"}
	mod.Readings.Set("Humidity", Number("80"))
	mod.Readings.Set("battery_state", String("high"))
	m.Put(mod)

	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent error = %v", err)
	}

	back := NewSensorMap()
	if err := json.Unmarshal(out, back); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}

	if !slices.Equal(back.IDs(), m.IDs()) {
		t.Fatalf("IDs = %v; want %v", back.IDs(), m.IDs())
	}
	for id, want := range m.All() {
		got, _ := back.Get(id)
		if got.ID != id {
			t.Errorf("ID = %q; want %q", got.ID, id)
		}
		if got.Name != want.Name {
			t.Errorf("%s name = %q; want %q", id, got.Name, want.Name)
		}
		if !slices.Equal(got.Readings.Keys(), want.Readings.Keys()) {
			t.Errorf("%s keys = %v; want %v", id, got.Readings.Keys(), want.Readings.Keys())
		}
		for k, wv := range want.Readings.All() {
			gv, _ := got.Readings.Get(k)
			if gv != wv {
				t.Errorf("%s.%s = %v; want %v", id, k, gv, wv)
			}
		}
	}

	again, err := json.MarshalIndent(back, "", "  ")
	if err != nil {
		t.Fatalf("second MarshalIndent error = %v", err)
	}
	if string(again) != string(out) {
		t.Errorf("round trip changed output:\n%s\nvs\n%s", again, out)
	}
}

func TestSensorMap_YAMLPreservesOrder(t *testing.T) {
	m := NewSensorMap()
	rec := SensorRecord{ID: "dev", Name: "Main Device"}
	rec.Readings.Set("Temperature", Number("21.5"))
	rec.Readings.Set("CO2", Number("512"))
	rec.Readings.Set("state", String("ok"))
	m.Put(rec)

	out, err := yaml.Marshal(m)
	if err != nil {
		t.Fatalf("yaml.Marshal error = %v", err)
	}

	got := string(out)
	iTemp := strings.Index(got, "Temperature")
	iCO2 := strings.Index(got, "CO2")
	iState := strings.Index(got, "state")
	if iTemp < 0 || iCO2 < 0 || iState < 0 || !(iTemp < iCO2 && iCO2 < iState) {
		t.Errorf("yaml output keeps wrong order:\n%s", got)
	}
	if !strings.Contains(got, "Temperature: 21.5") {
		t.Errorf("yaml output = %q; want Temperature: 21.5", got)
	}

	var decoded map[string]map[string]any
	if err := yaml.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("yaml.Unmarshal error = %v", err)
	}
	if decoded["dev"]["name"] != "Main Device" {
		t.Errorf("name = %v; want Main Device", decoded["dev"]["name"])
	}
}

func TestStationsResponse_DevicesPresence(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantNil bool
	}{
		{name: "missing", in: `{"body":{}}`, wantNil: true},
		{name: "null", in: `{"body":{"devices":null}}`, wantNil: true},
		{name: "empty", in: `{"body":{"devices":[]}}`, wantNil: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp StationsResponse
			if err := json.Unmarshal([]byte(tt.in), &resp); err != nil {
				t.Fatalf("Unmarshal error = %v", err)
			}
			if got := resp.Body.Devices == nil; got != tt.wantNil {
				t.Errorf("Devices == nil is %v; want %v", got, tt.wantNil)
			}
		})
	}
}
