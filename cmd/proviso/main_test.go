package main

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/wch1125/proviso/internal/config"
	"github.com/wch1125/proviso/internal/engine"
	"github.com/wch1125/proviso/internal/store"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	w.Close()
	os.Stdout = orig
	return <-done
}

func TestPrintStatusReportsBreachAndCompliant(t *testing.T) {
	status := engine.Status{
		CurrentPhase: "Operations",
		Covenants: []engine.CovenantResult{
			{Name: "MaxLeverage", Compliant: false, Actual: 6.0, Threshold: 5.0, Headroom: -1.0},
			{Name: "MinDSCR", Compliant: true, Actual: 1.3, Threshold: 1.2, Headroom: 0.1},
		},
	}
	output := captureOutput(t, func() { printStatus(status) })

	if !bytes.Contains([]byte(output), []byte("Phase: Operations")) {
		t.Errorf("expected phase header in output, got: %s", output)
	}
	if !bytes.Contains([]byte(output), []byte("MaxLeverage")) || !bytes.Contains([]byte(output), []byte("BREACH")) {
		t.Errorf("expected breach line for MaxLeverage, got: %s", output)
	}
	if !bytes.Contains([]byte(output), []byte("MinDSCR")) || !bytes.Contains([]byte(output), []byte("COMPLIANT")) {
		t.Errorf("expected compliant line for MinDSCR, got: %s", output)
	}
}

func TestOpenRegistryDefaultsToMemory(t *testing.T) {
	cfg = config.Default()
	reg, err := openRegistry()
	if err != nil {
		t.Fatalf("openRegistry returned error: %v", err)
	}
	defer reg.Close()
	if _, ok := reg.(*store.MemoryStore); !ok {
		t.Errorf("expected a MemoryStore for backend %q, got %T", cfg.Store.Backend, reg)
	}
}

func TestOpenRegistrySelectsSQLite(t *testing.T) {
	cfg = config.Default()
	cfg.Store.Backend = "sqlite"
	cfg.Store.Path = t.TempDir() + "/proviso.db"

	reg, err := openRegistry()
	if err != nil {
		t.Fatalf("openRegistry returned error: %v", err)
	}
	defer reg.Close()
	if _, ok := reg.(*store.SQLiteStore); !ok {
		t.Errorf("expected a SQLiteStore for backend %q, got %T", cfg.Store.Backend, reg)
	}
}
