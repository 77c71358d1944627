package factory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sink struct {
	Topic   string
	Timeout time.Duration
}

type sinkConf struct {
	Topic   string        `json:"topic"`
	Timeout time.Duration `json:"timeout"`
}

func newSinkRegistry(t *testing.T) *Registry[*sink] {
	t.Helper()
	reg := NewRegistry[*sink]()
	require.NoError(t, reg.Register("mqtt", func(conf map[string]any) (*sink, error) {
		var c sinkConf
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		return &sink{Topic: c.Topic, Timeout: c.Timeout}, nil
	}))
	return reg
}

func TestRegistryCreate(t *testing.T) {
	reg := newSinkRegistry(t)
	inst, err := reg.Create(ModuleConfig{Type: "mqtt", Conf: map[string]any{"topic": "ev/schedule", "timeout": "2s"}})
	require.NoError(t, err)
	assert.Equal(t, "ev/schedule", inst.Topic)
	assert.Equal(t, 2*time.Second, inst.Timeout)
}

func TestRegistryCreateAll(t *testing.T) {
	reg := newSinkRegistry(t)
	all, err := reg.CreateAll([]ModuleConfig{
		{Type: "mqtt", Conf: map[string]any{"topic": "a"}},
		{Type: "mqtt", Conf: map[string]any{"topic": "b"}},
	})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[1].Topic)

	_, err = reg.CreateAll([]ModuleConfig{{Type: "kafka"}})
	assert.Error(t, err)
}

func TestRegistryErrors(t *testing.T) {
	reg := newSinkRegistry(t)
	assert.Error(t, reg.Register("mqtt", func(map[string]any) (*sink, error) { return nil, nil }))
	assert.Error(t, reg.Register("nil", nil))
	_, err := reg.Create(ModuleConfig{Type: "unknown"})
	assert.Error(t, err)
	_, err = reg.Create(ModuleConfig{Type: "mqtt", Conf: map[string]any{"tpoic": "typo"}})
	assert.Error(t, err)
	assert.Equal(t, []string{"mqtt"}, reg.Names())
}
