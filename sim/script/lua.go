// Package script runs Lua effect hooks. Scenario authors can attach a
// script body to an effect; the script reads and writes world state through
// a small registered API instead of a fixed attribute/op pair.
//
// Registered globals:
//
//	get_indicator(name) -> number or nil
//	set_indicator(name, value) -> bool
//	get_attr(entity_id, attr) -> number or nil
//	set_attr(entity_id, attr, value) -> bool
package script

import (
	"fmt"

	lua "github.com/Shopify/go-lua"
)

// Binding is the world surface exposed to scripts.
type Binding interface {
	Indicator(name string) (float64, bool)
	SetIndicator(name string, v float64) bool
	Attribute(entityID, attr string) (float64, bool)
	SetAttribute(entityID, attr string, v float64) bool
}

// Run executes a script body against the binding. A fresh Lua state is used
// per invocation; scripts cannot leak state into each other.
func Run(src string, b Binding) error {
	l := lua.NewState()
	lua.OpenLibraries(l)
	register(l, b)

	if err := lua.DoString(l, src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

func register(l *lua.State, b Binding) {
	l.Register("get_indicator", func(l *lua.State) int {
		name := lua.CheckString(l, 1)
		v, ok := b.Indicator(name)
		if !ok {
			l.PushNil()
			return 1
		}
		l.PushNumber(v)
		return 1
	})

	l.Register("set_indicator", func(l *lua.State) int {
		name := lua.CheckString(l, 1)
		v := lua.CheckNumber(l, 2)
		l.PushBoolean(b.SetIndicator(name, v))
		return 1
	})

	l.Register("get_attr", func(l *lua.State) int {
		id := lua.CheckString(l, 1)
		attr := lua.CheckString(l, 2)
		v, ok := b.Attribute(id, attr)
		if !ok {
			l.PushNil()
			return 1
		}
		l.PushNumber(v)
		return 1
	})

	l.Register("set_attr", func(l *lua.State) int {
		id := lua.CheckString(l, 1)
		attr := lua.CheckString(l, 2)
		v := lua.CheckNumber(l, 3)
		l.PushBoolean(b.SetAttribute(id, attr, v))
		return 1
	})
}
