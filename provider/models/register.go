// Package models is the process-wide registry of named models.
package models

import (
	"github.com/casualjim/hangar/api"
	"github.com/casualjim/hangar/internal/registry"
	"github.com/casualjim/hangar/provider"
)

var Global = registry.New[api.Model]()

func Add(model api.Model) {
	Global.Add(model.Name(), model)
}

func Get(name string) (api.Model, bool) {
	return Global.Get(name)
}

func GetOrAdd(name string, modelF func() api.Model) api.Model {
	m, _ := Global.GetOrAdd(name, modelF)
	return m
}

func Del(name string) {
	Global.Del(name)
}

func Len() int {
	return Global.Len()
}

// Names lists the registered model names in lexical order.
func Names() []string {
	return Global.Keys()
}

// ByFamily lists the registered names whose model belongs to family, in lexical order.
func ByFamily(family provider.Family) []string {
	var names []string
	for _, name := range Global.Keys() {
		if m, ok := Global.Get(name); ok && m.Family() == family {
			names = append(names, name)
		}
	}
	return names
}
