package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Intent string

const (
	IntentLights        Intent = "lights"
	IntentPlayMedia     Intent = "play_media"
	IntentThermostatSet Intent = "thermostat_set"
	IntentSceneChange   Intent = "scene_change"
)

// Intents lists the intents the resolver understands.
var Intents = []Intent{IntentLights, IntentPlayMedia, IntentThermostatSet, IntentSceneChange}

// Slot names produced by the upstream tagger.
const (
	SlotRoom          = "room"
	SlotLightItem     = "light_item"
	SlotLightGroup    = "light_group"
	SlotOnOff         = "on_off"
	SlotMediaAction   = "media_action"
	SlotVolumePercent = "volume_percent"
	SlotTemperature   = "temperature"
	SlotScene         = "scene"
)

// EntityTree is the output of the tagging step:
//
//	{"intent": "lights", "entities": {"room": [{"value": "kitchen"}]}}
type EntityTree struct {
	Intent   Intent                 `json:"intent"`
	Entities map[string][]SlotValue `json:"entities"`
}

// Slot returns the first value of the named slot.
func (t EntityTree) Slot(name string) (string, bool) {
	values := t.Entities[name]
	if len(values) == 0 {
		return "", false
	}
	return values[0].Value, true
}

// SlotValue holds one tagged value. Numbers keep their literal JSON text so
// 20 stays "20" and 21.5 stays "21.5".
type SlotValue struct {
	Value string
}

func (s *SlotValue) UnmarshalJSON(data []byte) error {
	var raw struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	v := bytes.TrimSpace(raw.Value)
	switch {
	case len(v) == 0 || bytes.Equal(v, []byte("null")):
		s.Value = ""
	case v[0] == '"':
		return json.Unmarshal(v, &s.Value)
	case v[0] == '{' || v[0] == '[':
		return fmt.Errorf("slot value must be a string, number or boolean: %s", v)
	default:
		s.Value = string(v)
	}
	return nil
}

func (s SlotValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Value string `json:"value"`
	}{s.Value})
}
