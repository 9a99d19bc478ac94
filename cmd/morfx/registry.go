package main

import (
	"github.com/oxhq/morfx/internal/lang"
	"github.com/oxhq/morfx/providers/golang"
	"github.com/oxhq/morfx/providers/javascript"
	"github.com/oxhq/morfx/providers/php"
	"github.com/oxhq/morfx/providers/python"
	"github.com/oxhq/morfx/providers/typescript"
)

// newRegistry returns a lang.Registry with every built-in grammar adapter
// registered, the same fixed set demo/cmd/main.go wires up by hand rather
// than discovering dynamically.
func newRegistry() *lang.Registry {
	registry := lang.NewRegistry()
	for _, adapter := range []lang.Adapter{
		golang.New(),
		javascript.New(),
		typescript.New(),
		python.New(),
		php.New(),
	} {
		if err := registry.Register(adapter); err != nil {
			panic(err)
		}
	}
	return registry
}
