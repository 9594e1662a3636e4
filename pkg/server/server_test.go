package server

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/hehify/pkg/config"
	"github.com/bastiangx/hehify/pkg/heh"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	log.SetLevel(log.FatalLevel)
}

// session runs the server over the encoded messages and returns a decoder
// positioned after the ready signal.
func session(t *testing.T, cfg *config.Config, path string, messages ...any) *msgpack.Decoder {
	t.Helper()
	return sessionWith(t, cfg, path, config.Overrides{}, messages...)
}

func sessionWith(t *testing.T, cfg *config.Config, path string, overrides config.Overrides, messages ...any) *msgpack.Decoder {
	t.Helper()
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, m := range messages {
		require.NoError(t, enc.Encode(m))
	}

	tr, err := cfg.NewTransformer(nil, overrides.Apply)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, NewServer(tr, cfg, path, nil, overrides, &in, &out).Start())

	dec := msgpack.NewDecoder(&out)
	var ready AdminResponse
	require.NoError(t, dec.Decode(&ready))
	require.Equal(t, "ready", ready.Status)
	return dec
}

func fullRate() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Heh.Rate = 1
	return cfg
}

func TestTransformRequest(t *testing.T) {
	dec := session(t, fullRate(), "", TransformRequest{ID: "req_001", Text: "Майка, купил!"})

	var resp TransformResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "req_001", resp.ID)
	assert.Equal(t, "Хахка, кухих!", resp.Text)
	assert.Equal(t, 2, resp.Changed)
	assert.Equal(t, WordStats{Words: 2, Changed: 2, Replaced: 2}, resp.Stats)
	assert.GreaterOrEqual(t, resp.TimeTaken, int64(0))
}

func TestTransformOverrides(t *testing.T) {
	level := 1.0
	dec := session(t, config.DefaultConfig(), "",
		map[string]any{"id": "a", "t": "купил", "r": 1, "lv": level},
		map[string]any{"id": "b", "t": "купил", "r": 0},
		map[string]any{"id": "c", "t": "купил", "lv": 5},
	)

	var a, b TransformResponse
	require.NoError(t, dec.Decode(&a))
	assert.Equal(t, "хихих", a.Text)
	require.NoError(t, dec.Decode(&b))
	assert.Equal(t, "купил", b.Text)

	var c ErrorResponse
	require.NoError(t, dec.Decode(&c))
	assert.Equal(t, "c", c.ID)
	assert.Equal(t, 422, c.Code)
}

func TestSeededRequestsAreReproducible(t *testing.T) {
	text := "Широкая электрификация южных губерний даст мощный толчок подъёму сельского хозяйства."
	seed := int64(11)
	req := TransformRequest{Text: text, Rate: ptr(0.5), Seed: &seed}
	dec := session(t, config.DefaultConfig(), "", req, req)

	var first, second TransformResponse
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, first.Text, second.Text)
	assert.NotEmpty(t, first.ID, "missing ids are generated")
	assert.NotEqual(t, first.ID, second.ID)
}

func TestTransformRejectsBadText(t *testing.T) {
	cfg := fullRate()
	cfg.Server.MaxTextLen = 8
	dec := session(t, cfg, "",
		TransformRequest{ID: "long", Text: strings.Repeat("а", 10)},
		TransformRequest{ID: "utf", Text: string([]byte{0xff})},
		"not a map",
	)

	for _, id := range []string{"long", "utf", ""} {
		var e ErrorResponse
		require.NoError(t, dec.Decode(&e))
		assert.Equal(t, id, e.ID)
		assert.Equal(t, 400, e.Code)
		assert.NotEmpty(t, e.Error)
	}
}

func TestAdminActions(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	cfg := config.DefaultConfig()
	dec := session(t, cfg, path,
		AdminRequest{ID: "h", Action: "health"},
		AdminRequest{ID: "g", Action: "get_config"},
		AdminRequest{ID: "s", Action: "set_settings", Rate: ptr(1), Level: ptr(1)},
		TransformRequest{ID: "t", Text: "купил"},
		AdminRequest{ID: "bad", Action: "set_settings", Rate: ptr(3)},
		AdminRequest{ID: "x", Action: "reboot"},
	)

	var health AdminResponse
	require.NoError(t, dec.Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 1, health.Requests)

	var got AdminResponse
	require.NoError(t, dec.Decode(&got))
	require.NotNil(t, got.Settings)
	assert.Equal(t, heh.DefaultRate, got.Settings.Rate)
	assert.Equal(t, cfg.Server.MaxTextLen, got.Settings.MaxTextLen)

	var set AdminResponse
	require.NoError(t, dec.Decode(&set))
	assert.Equal(t, "ok", set.Status)
	assert.Equal(t, 1.0, set.Settings.Level)

	var tr TransformResponse
	require.NoError(t, dec.Decode(&tr))
	assert.Equal(t, "хихих", tr.Text)

	var bad AdminResponse
	require.NoError(t, dec.Decode(&bad))
	assert.Equal(t, "error", bad.Status)
	assert.Contains(t, bad.Error, "INVALID_CONFIGURATION")

	var unknown ErrorResponse
	require.NoError(t, dec.Decode(&unknown))
	assert.Equal(t, 400, unknown.Code)

	saved, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1.0, saved.Heh.Rate)
}

func TestPeriodicReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	onDisk := config.DefaultConfig()
	onDisk.Heh.Rate = 1
	onDisk.Heh.Level = 1
	require.NoError(t, config.SaveConfig(onDisk, path))

	running := config.DefaultConfig()
	running.Heh.Rate = 0
	running.Server.ReloadEvery = 2
	dec := session(t, running, path,
		TransformRequest{ID: "1", Text: "купил"},
		TransformRequest{ID: "2", Text: "купил"},
	)

	var first, second TransformResponse
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, "купил", first.Text)
	assert.Equal(t, "хихих", second.Text)
}

func TestReloadKeepsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	onDisk := config.DefaultConfig()
	onDisk.Heh.Rate = 0
	onDisk.Server.ReloadEvery = 2
	require.NoError(t, config.SaveConfig(onDisk, path))

	running, err := config.LoadConfig(path)
	require.NoError(t, err)
	overrides := config.Overrides{Rate: ptr(1), Level: ptr(1)}
	dec := sessionWith(t, running, path, overrides,
		TransformRequest{ID: "1", Text: "купил"},
		TransformRequest{ID: "2", Text: "купил"},
		TransformRequest{ID: "3", Text: "купил"},
	)

	for _, id := range []string{"1", "2", "3"} {
		var resp TransformResponse
		require.NoError(t, dec.Decode(&resp))
		assert.Equal(t, "хихих", resp.Text, "request %s", id)
	}
}

func TestSetSettingsReplacesOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	overrides := config.Overrides{Rate: ptr(1), Level: ptr(1)}
	dec := sessionWith(t, config.DefaultConfig(), path, overrides,
		AdminRequest{ID: "s", Action: "set_settings", Rate: ptr(0)},
		TransformRequest{ID: "t", Text: "купил"},
		AdminRequest{ID: "g", Action: "get_config"},
	)

	var set AdminResponse
	require.NoError(t, dec.Decode(&set))
	require.Equal(t, "ok", set.Status)
	assert.Equal(t, 0.0, set.Settings.Rate)
	assert.Equal(t, 1.0, set.Settings.Level, "level override still applies")

	var tr TransformResponse
	require.NoError(t, dec.Decode(&tr))
	assert.Equal(t, "купил", tr.Text)

	var got AdminResponse
	require.NoError(t, dec.Decode(&got))
	assert.Equal(t, 1.0, got.Settings.Level)
}

func ptr(v float64) *float64 { return &v }
