package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-multistream/pkg/protocolids"
)

// TestNewConfig 测试创建默认配置
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, 3*time.Second, cfg.Negotiation.HandshakeTimeout.Duration())
	assert.Equal(t, protocolids.MuxerProtocols(), cfg.Muxer.Preferred)
	assert.False(t, cfg.Metrics.Enable)

	t.Log("✅ NewConfig 测试通过")
}

func TestConfig_ValidateErrors(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"handshake timeout", func(c *Config) { c.Negotiation.HandshakeTimeout = 0 }},
		{"negotiate timeout", func(c *Config) { c.Negotiation.NegotiateTimeout = -1 }},
		{"listen addr", func(c *Config) { c.Transport.ListenAddrs = []string{"nohost"} }},
		{"dial timeout", func(c *Config) { c.Transport.DialTimeout = 0 }},
		{"accept burst", func(c *Config) { c.Transport.AcceptBurst = 0 }},
		{"no muxer", func(c *Config) { c.Muxer.Preferred = nil }},
		{"unknown muxer", func(c *Config) { c.Muxer.Preferred = []string{"/mplex/6.7.0"} }},
		{"small window", func(c *Config) { c.Muxer.MaxStreamWindowSize = 1024 }},
		{"metrics namespace", func(c *Config) { c.Metrics.Enable = true; c.Metrics.Namespace = "" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// TestFromJSON 测试 JSON 覆盖默认值
func TestFromJSON(t *testing.T) {
	data := []byte(`{
		"negotiation": {"handshake_timeout": "5s", "negotiate_timeout": 2000},
		"transport": {"listen_addrs": ["0.0.0.0:0"]},
		"metrics": {"enable": true, "listen_addr": "127.0.0.1:9100"}
	}`)

	cfg, err := FromJSON(data)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5*time.Second, cfg.Negotiation.HandshakeTimeout.Duration())
	assert.Equal(t, 2*time.Second, cfg.Negotiation.NegotiateTimeout.Duration())
	assert.Equal(t, []string{"0.0.0.0:0"}, cfg.Transport.ListenAddrs)
	assert.True(t, cfg.Metrics.Enable)
	assert.Equal(t, "mss", cfg.Metrics.Namespace)
	assert.Equal(t, DefaultMuxerConfig(), cfg.Muxer)

	_, err = FromJSON([]byte(`{"negotiation": {"handshake_timeout": "soon"}}`))
	assert.Error(t, err)
}

func TestToJSON_RoundTrip(t *testing.T) {
	cfg := NewConfig()
	cfg.Negotiation.HandshakeTimeout = Duration(1500 * time.Millisecond)

	data, err := cfg.ToJSON()
	require.NoError(t, err)

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "1.5s", raw["negotiation"]["handshake_timeout"])

	back, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mss.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log": {"level": "debug", "format": "json"}}`), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	require.NoError(t, os.WriteFile(path, []byte(`{"log": {"format": "xml"}}`), 0o600))
	_, err = LoadFile(path)
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("MSS_LISTEN_ADDR", "0.0.0.0:5001")
	t.Setenv("MSS_METRICS_ADDR", "127.0.0.1:9200")
	t.Setenv("MSS_LOG_LEVEL", "warn")
	t.Setenv("MSS_HANDSHAKE_TIMEOUT", "250")

	cfg := NewConfig()
	require.NoError(t, ApplyEnv(cfg))

	assert.Equal(t, []string{"0.0.0.0:5001"}, cfg.Transport.ListenAddrs)
	assert.True(t, cfg.Metrics.Enable)
	assert.Equal(t, "127.0.0.1:9200", cfg.Metrics.ListenAddr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 250*time.Millisecond, cfg.Negotiation.HandshakeTimeout.Duration())

	t.Setenv("MSS_HANDSHAKE_TIMEOUT", "later")
	assert.Error(t, ApplyEnv(NewConfig()))
	assert.Error(t, ApplyEnv(nil))
}

func TestDuration_JSON(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"250ms"`), &d))
	assert.Equal(t, 250*time.Millisecond, d.Duration())

	require.NoError(t, json.Unmarshal([]byte(`1500`), &d))
	assert.Equal(t, 1500*time.Millisecond, d.Duration())

	assert.Error(t, json.Unmarshal([]byte(`true`), &d))
	assert.Error(t, json.Unmarshal([]byte(`1.5`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &d))
	assert.Equal(t, "1.5s", d.String())

	out, err := json.Marshal(Duration(2 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, `"2s"`, string(out))
}
