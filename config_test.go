package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// resets the global viper state to the fbv defaults
func setupConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	configInit("")
	t.Cleanup(viper.Reset)
}

func TestSaveConfig(t *testing.T) {
	setupConfig(t)
	viper.Set("filter", "sepia")

	fn := filepath.Join(t.TempDir(), "fbv.json")
	got := saveConfig(fn)
	if got != nil {
		t.Errorf("got %q, wanted nil", got)
	}

	b, err := os.ReadFile(fn)
	if err != nil {
		t.Fatal(err)
	}
	var c config
	if err := json.Unmarshal(b, &c); err != nil {
		t.Fatal(err)
	}
	if c.Filter != "sepia" || c.Device != defaultDevice || c.SnapshotDepth != 32 {
		t.Errorf("unexpected saved config %+v", c)
	}
}

func TestSaveConfigUnwritable(t *testing.T) {
	setupConfig(t)
	got := saveConfig(filepath.Join(t.TempDir(), "missing", "fbv.json"))
	if got != ErrCannotSaveConfigFile {
		t.Errorf("got %v, wanted %v", got, ErrCannotSaveConfigFile)
	}
}

func TestConfigFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "custom.json")
	if err := os.WriteFile(fn, []byte(`{"device": "/dev/fb1", "snapshot_depth": 16}`), 0o644); err != nil {
		t.Fatal(err)
	}
	viper.Reset()
	t.Cleanup(viper.Reset)
	configInit(fn)

	c, err := currentConfig()
	if err != nil {
		t.Fatal(err)
	}
	if c.Device != "/dev/fb1" || c.SnapshotDepth != 16 || c.SnapshotWidth != 1280 {
		t.Errorf("unexpected config %+v", c)
	}
	if err := showConfig(); err != nil {
		t.Error(err)
	}
}
