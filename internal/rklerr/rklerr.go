// Package rklerr defines the tagged error kinds the compiler returns.
//
// Every stage of the pipeline returns a plain error; these types exist so
// callers (and tests) can use errors.As to tell a syntax problem from a
// semantic one without parsing a message string.
package rklerr

import "fmt"

// ParseError is returned by internal/sexpr for unbalanced parens or an
// empty token stream.
type ParseError struct {
	Msg  string
	Form string
}

func (e *ParseError) Error() string {
	if e.Form == "" {
		return fmt.Sprintf("parse error: %s", e.Msg)
	}
	return fmt.Sprintf("parse error: %s (in %s)", e.Msg, e.Form)
}

// ShapeError is a form with the wrong arity or an unexpected head atom.
type ShapeError struct {
	Msg  string
	Form string
}

func (e *ShapeError) Error() string {
	if e.Form == "" {
		return fmt.Sprintf("shape error: %s", e.Msg)
	}
	return fmt.Sprintf("shape error: %s (in %s)", e.Msg, e.Form)
}

// UnknownKeyError is an atom that does not name a physical key.
type UnknownKeyError struct {
	Name string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown key %q", e.Name)
}

// UnknownKeymapError is an atom that does not name a Keymap.
type UnknownKeymapError struct {
	Name string
}

func (e *UnknownKeymapError) Error() string {
	return fmt.Sprintf("unknown keymap %q", e.Name)
}

// UnknownActionError is a list whose head atom selects no known action form.
type UnknownActionError struct {
	Form string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %s", e.Form)
}

// DuplicateError covers duplicate defsrc keys, duplicate template args,
// and duplicate layer names.
type DuplicateError struct {
	Kind string
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s %q", e.Kind, e.Name)
}

// MissingAliasError is an Alias(name) with no entry in the alias map.
type MissingAliasError struct {
	Name string
}

func (e *MissingAliasError) Error() string {
	return fmt.Sprintf("alias @%s not found", e.Name)
}

// MissingLayerError names a layer referenced but never defined.
type MissingLayerError struct {
	Name string
}

func (e *MissingLayerError) Error() string {
	return fmt.Sprintf("layer %q not defined", e.Name)
}

// AliasCycleError is raised when resolving an alias revisits a name
// already on the current resolution path.
type AliasCycleError struct {
	Name string
}

func (e *AliasCycleError) Error() string {
	return fmt.Sprintf("alias cycle detected at @%s", e.Name)
}

// CycleError is raised by the layer dependency topo-sort.
type CycleError struct{}

func (e *CycleError) Error() string {
	return "cycle detected"
}

// OverrideShapeError is an override whose action cannot be lowered to a
// key plus a modifier set.
type OverrideShapeError struct {
	Form string
}

func (e *OverrideShapeError) Error() string {
	return fmt.Sprintf("override action not lowerable to key+mods: %s", e.Form)
}

// UnicodeUnresolvableError is a Unicode action surviving into a back-end
// that cannot emit one.
type UnicodeUnresolvableError struct {
	Char rune
}

func (e *UnicodeUnresolvableError) Error() string {
	return fmt.Sprintf("unresolved unicode %q", string(e.Char))
}
