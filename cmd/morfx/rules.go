package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oxhq/morfx/internal/lang"
	"github.com/oxhq/morfx/internal/project"
	"github.com/oxhq/morfx/internal/rule"
)

// loadRules walks every ruleDir in cfg, decoding each *.yml/*.yaml file as
// one rule document and registering it in a fresh Collection. Rules may
// reference each other via `matches:` regardless of load order; Link is
// called once every file has been added.
func loadRules(cfg *project.Config, registry *lang.Registry) (*rule.Collection, error) {
	globals := rule.NewGlobalRules()
	collection := rule.NewCollection(globals)

	for _, dir := range cfg.RuleDirs {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".yml" && ext != ".yaml" {
				return nil
			}
			doc, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading rule %s: %w", path, err)
			}
			rc, err := rule.Decode(doc, registry, globals)
			if err != nil {
				return fmt.Errorf("decoding rule %s: %w", path, err)
			}
			return collection.Add(rc)
		})
		if err != nil {
			return nil, err
		}
	}

	if err := collection.Link(); err != nil {
		return nil, err
	}
	return collection, nil
}
