package config_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homecmd/config"
	"homecmd/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeFile(t, "config.yaml", "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, "mqtt", cfg.Output)
	assert.Equal(t, "tcp://pixie:1883", cfg.MQTT.Broker)
	assert.Equal(t, "bedroom-mark", cfg.MQTT.ClientID)
	assert.Equal(t, "ha/", cfg.MQTT.TopicRoot)
	assert.Equal(t, "5s", cfg.MQTT.StatusTimeout)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 30, cfg.HTTP.RatePerMinute)
	assert.Equal(t, "http", cfg.Input.Source)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("HOMECMD_TEST_PASSWORD", "s3cret")

	path := writeFile(t, "config.yaml", `
mqtt:
  broker: tcp://broker.local:1883
  password: ${HOMECMD_TEST_PASSWORD}
  qos: 1
  status_query: true
  status_timeout: 2s
http:
  auth_token: token-123
input:
  source: file
  file_dir: /var/spool/homecmd
log:
  level: debug
  format: console
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tcp://broker.local:1883", cfg.MQTT.Broker)
	assert.Equal(t, "s3cret", cfg.MQTT.Password)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
	assert.True(t, cfg.MQTT.StatusQuery)
	assert.Equal(t, "2s", cfg.MQTT.StatusTimeout)
	assert.Equal(t, "token-123", cfg.HTTP.AuthToken)
	assert.Equal(t, "file", cfg.Input.Source)
	assert.Equal(t, "/var/spool/homecmd", cfg.Input.FileDir)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")

	_, err = config.Load(writeFile(t, "bad.yaml", "mqtt: [unclosed\n"))
	assert.ErrorContains(t, err, "parsing config")

	_, err = config.Load(writeFile(t, "qos.yaml", "mqtt:\n  qos: 3\n"))
	assert.ErrorContains(t, err, "qos")

	_, err = config.Load(writeFile(t, "root.yaml", "mqtt:\n  topic_root: ha\n"))
	assert.ErrorContains(t, err, "topic_root")

	_, err = config.Load(writeFile(t, "output.yaml", "output: zigbee\n"))
	assert.ErrorContains(t, err, "unknown output")

	_, err = config.Load(writeFile(t, "ha.yaml", "output: homeassistant\n"))
	assert.ErrorContains(t, err, "homeassistant.url")
}

func TestLoad_HomeAssistantOutput(t *testing.T) {
	t.Setenv("HOMECMD_TEST_HA_TOKEN", "ha-token")

	cfg, err := config.Load(writeFile(t, "config.yaml", `
output: homeassistant
homeassistant:
  url: http://homeassistant.local:8123
  token: ${HOMECMD_TEST_HA_TOKEN}
`))
	require.NoError(t, err)

	assert.Equal(t, "homeassistant", cfg.Output)
	assert.Equal(t, "http://homeassistant.local:8123", cfg.HomeAssistant.URL)
	assert.Equal(t, "ha-token", cfg.HomeAssistant.Token)
}

func TestLoadVocabulary(t *testing.T) {
	v, err := config.LoadVocabulary("")
	require.NoError(t, err)
	assert.Equal(t, domain.Location("bedroom-mark"), v.DefaultLocation())

	path := writeFile(t, "vocabulary.yaml", `
locations: [den, garden]
items:
  - {keyword: blinds, suffix: /blinds, action_required: true}
  - {keyword: sprinkler, suffix: /sprinkler, pattern: binary|integer}
actions:
  - {keyword: raise, suffix: /blinds/raise, pattern: integer}
  - {keyword: party, suffix: /scene, fixed_state: party}
`)

	v, err = config.LoadVocabulary(path)
	require.NoError(t, err)

	assert.Equal(t, domain.Location("den"), v.DefaultLocation())
	items := slices.Collect(v.Items())
	require.Len(t, items, 2)
	assert.True(t, items[0].ActionRequired)
	assert.Equal(t, domain.PatternAny, items[1].Pattern)

	actions := slices.Collect(v.Actions())
	require.Len(t, actions, 2)
	assert.Equal(t, "party", actions[1].FixedState)
}

func TestLoadVocabulary_Invalid(t *testing.T) {
	_, err := config.LoadVocabulary(writeFile(t, "pattern.yaml", `
locations: [den]
items:
  - {keyword: blinds, suffix: /blinds, pattern: percent}
`))
	assert.ErrorContains(t, err, "unknown state pattern")

	_, err = config.LoadVocabulary(writeFile(t, "empty.yaml", "items: []\n"))
	assert.ErrorContains(t, err, "location")

	_, err = config.LoadVocabulary(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
