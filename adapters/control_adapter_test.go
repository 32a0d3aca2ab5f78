package adapters_test

import (
	"testing"
	"time"

	"github.com/momentics/mpr/adapters"
)

func TestControlAdapterBasic(t *testing.T) {
	ctrl := adapters.NewControlAdapter()
	cfg := ctrl.GetConfig()
	if len(cfg) != 0 {
		t.Error("Expected empty config on init")
	}
	err := ctrl.SetConfig(map[string]any{"k": 1})
	if err != nil {
		t.Fatal(err)
	}
	stats := ctrl.Stats()
	if stats["k"] != 1 {
		t.Error("SetConfig did not apply")
	}
	called := make(chan struct{}, 2)
	ctrl.OnReload(func() { called <- struct{}{} })
	ctrl.SetConfig(map[string]any{"x": 2})
	// allow hook: reload hooks run on their own goroutines
	select {
	case <-called:
	case <-time.After(time.Second):
		t.Error("Reload hook not called")
	}
}
