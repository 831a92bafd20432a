package ops

import (
	"os"
	"path/filepath"
	"testing"

	"main/internal/schema"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadResolvesConfig(t *testing.T) {
	path := writeConfig(t, `{
		"registry": {
			"owner": "0x00000000000000000000000000000000000000a1",
			"controller": "0x00000000000000000000000000000000000000b2",
			"keeper": "0x00000000000000000000000000000000000000c3",
			"feeBps": 25,
			"minAmount": 10,
			"maxAmount": 1000000,
			"startHeight": 42
		},
		"queue": {"capacity": 16}
	}`)

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Config.FeeBps != 25 {
		t.Fatalf("feeBps: %d", loaded.Config.FeeBps)
	}
	if loaded.Config.MinAmount != 10 || loaded.Config.MaxAmount != 1000000 {
		t.Fatalf("bounds: %d..%d", loaded.Config.MinAmount, loaded.Config.MaxAmount)
	}
	if loaded.StartHeight != schema.Seq(42) {
		t.Fatalf("start height: %d", loaded.StartHeight)
	}
	if loaded.QueueCapacity != 16 {
		t.Fatalf("queue capacity: %d", loaded.QueueCapacity)
	}
	if loaded.Config.Owner.IsZero() || loaded.Config.Controller.IsZero() || loaded.Config.Keeper.IsZero() {
		t.Fatal("addresses not parsed")
	}
}

func TestLoadDefaultsQueueCapacity(t *testing.T) {
	path := writeConfig(t, `{
		"registry": {
			"owner": "0x00000000000000000000000000000000000000a1",
			"minAmount": 1,
			"maxAmount": 2
		}
	}`)
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.QueueCapacity != defaultQueueCapacity {
		t.Fatalf("queue capacity: %d", loaded.QueueCapacity)
	}
}

func TestLoadRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing owner", `{"registry": {"minAmount": 1, "maxAmount": 2}}`},
		{"zero owner", `{"registry": {"owner": "0x0000000000000000000000000000000000000000"}}`},
		{"bad address", `{"registry": {"owner": "0x1234"}}`},
		{"fee too high", `{"registry": {"owner": "0x00000000000000000000000000000000000000a1", "feeBps": 10001}}`},
		{"inverted bounds", `{"registry": {"owner": "0x00000000000000000000000000000000000000a1", "minAmount": 5, "maxAmount": 1}}`},
		{"mirror without conn", `{"registry": {"owner": "0x00000000000000000000000000000000000000a1"}, "mirror": {"enabled": true}}`},
	}
	for _, tc := range cases {
		path := writeConfig(t, tc.body)
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}
