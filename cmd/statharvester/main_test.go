// cmd/statharvester/main_test.go
package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/valpere/StatHarvester/internal/catalog"
	"github.com/valpere/StatHarvester/internal/config"
)

func TestLooksLikeConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "harvest.yaml")
	if err := os.WriteFile(path, []byte("name: test\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if !looksLikeConfig(path) {
		t.Errorf("existing file %s not recognized as config", path)
	}
	if looksLikeConfig("inflation") {
		t.Error("query term mistaken for config file")
	}
}

func TestExampleConfigSelectsBuiltinSources(t *testing.T) {
	cfg, err := config.LoadFromFile(filepath.Join("..", "..", "examples", "harvest.yaml"))
	if err != nil {
		t.Fatalf("example config does not load: %v", err)
	}

	selected := catalog.Default().Select(cfg.Categories, cfg.MaxSources)
	if len(selected) == 0 {
		t.Errorf("categories %v select no sources from the built-in catalog (%v)",
			cfg.Categories, catalog.Default().Categories())
	}
}

func TestExampleCatalogLoads(t *testing.T) {
	cat, err := catalog.LoadFromFile(filepath.Join("..", "..", "examples", "catalog.yaml"))
	if err != nil {
		t.Fatalf("example catalog does not load: %v", err)
	}
	if cat.Len() == 0 {
		t.Error("example catalog is empty")
	}
}

func TestIsFlag(t *testing.T) {
	if !isFlag("--verbose") || !isFlag("-v") {
		t.Error("flags not recognized")
	}
	if isFlag("run") || isFlag("") {
		t.Error("non-flags recognized as flags")
	}
}
