// Package script evaluates user-supplied Lua expressions as match
// predicates for bulk marking. Each expression sees one match as a
// global `m` table and returns a boolean.
package script

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/findkit/internal/search"
)

var (
	// ErrEmptyExpression is returned when the predicate source is blank.
	ErrEmptyExpression = errors.New("empty predicate expression")
	// ErrEvalFailed wraps Lua runtime errors raised during evaluation.
	ErrEvalFailed = errors.New("predicate evaluation failed")
)

// Predicate is a compiled Lua match filter. It owns a private Lua
// state and is not safe for concurrent use.
type Predicate struct {
	state *lua.LState
	fn    *lua.LFunction
}

// NewPredicate compiles an expression such as `m.line > 10` or
// `string.find(m.line_text, "fn ") ~= nil`. The expression runs in a
// restricted state: only the base, string, and math libraries are
// loaded, and the code-loading globals are removed.
func NewPredicate(expr string) (*Predicate, error) {
	if expr == "" {
		return nil, ErrEmptyExpression
	}

	state := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		state.Push(state.NewFunction(open.fn))
		state.Push(lua.LString(open.name))
		state.Call(1, 0)
	}

	// The base library brings code-loading entry points along; a
	// predicate never needs them.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		state.SetGlobal(name, lua.LNil)
	}

	fn, err := state.LoadString("return (" + expr + ")")
	if err != nil {
		state.Close()
		return nil, fmt.Errorf("compile predicate %q: %w", expr, err)
	}

	return &Predicate{state: state, fn: fn}, nil
}

// Eval runs the predicate against one match. Any truthy Lua value
// counts as a match; nil and false do not.
func (p *Predicate) Eval(m search.Match) (bool, error) {
	p.state.SetGlobal("m", p.matchTable(m))

	p.state.Push(p.fn)
	if err := p.state.PCall(0, 1, nil); err != nil {
		return false, fmt.Errorf("%w: %v", ErrEvalFailed, err)
	}
	result := p.state.Get(-1)
	p.state.Pop(1)

	return !lua.LVIsFalse(result), nil
}

// Func adapts the predicate to the signature Report.MarkWhere takes.
// Evaluation errors make the predicate reject the match.
func (p *Predicate) Func() func(search.Match) bool {
	return func(m search.Match) bool {
		ok, err := p.Eval(m)
		return err == nil && ok
	}
}

// Close releases the Lua state.
func (p *Predicate) Close() {
	p.state.Close()
}

// matchTable exposes a match to Lua. `finish` stands in for the end
// offset since `end` is a Lua keyword.
func (p *Predicate) matchTable(m search.Match) *lua.LTable {
	t := p.state.NewTable()
	p.state.SetField(t, "line", lua.LNumber(m.Line))
	p.state.SetField(t, "column", lua.LNumber(m.Column))
	p.state.SetField(t, "start", lua.LNumber(m.Start))
	p.state.SetField(t, "finish", lua.LNumber(m.End))
	p.state.SetField(t, "text", lua.LString(m.Text))
	p.state.SetField(t, "line_text", lua.LString(m.LineText))
	return t
}
