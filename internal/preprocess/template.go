// Package preprocess implements the two preprocessing passes that run
// before the action AST builder: deftemplate collection and expansion,
// and unwrap splicing.
package preprocess

import (
	"strings"

	"github.com/rkl-go/rkl/internal/rklerr"
	"github.com/rkl-go/rkl/internal/sexpr"
)

// maxExpansionDepth caps template re-expansion so a template that calls
// itself (directly or through another template) cannot loop forever.
const maxExpansionDepth = 32

type template struct {
	params []string
	body   sexpr.Expr
}

// Templates maps a template name to its parameter list and body, as
// collected by Deftemplate across every "(deftemplate name (args) body
// ...)" form in the source.
type Templates map[string]template

// Deftemplate consumes the atoms following the "deftemplate" head as
// (name, args, body) triples and adds each to templates.
func Deftemplate(rest []sexpr.Expr, into Templates) error {
	if len(rest)%3 != 0 {
		return &rklerr.ShapeError{Msg: "deftemplate expects (name (args) body) triples"}
	}
	for i := 0; i < len(rest); i += 3 {
		name, err := rest[i].AsAtom()
		if err != nil {
			return err
		}
		argExprs, err := rest[i+1].AsList()
		if err != nil {
			return &rklerr.ShapeError{Msg: "deftemplate argument list must be a list", Form: rest[i+1].Pretty()}
		}
		body := rest[i+2]

		seen := make(map[string]bool, len(argExprs))
		params := make([]string, 0, len(argExprs))
		for _, a := range argExprs {
			arg, err := a.AsAtom()
			if err != nil {
				return err
			}
			if !strings.HasPrefix(arg, "$") {
				return &rklerr.ShapeError{Msg: "template argument must start with $: " + arg}
			}
			if seen[arg] {
				return &rklerr.DuplicateError{Kind: "template argument", Name: arg}
			}
			seen[arg] = true
			params = append(params, arg)
		}
		into[name] = template{params: params, body: body}
	}
	return nil
}

// Expand recursively rewrites expr, substituting every call to a known
// template with its bound body, re-running expansion on the result up to
// maxExpansionDepth times.
func Expand(expr sexpr.Expr, templates Templates) sexpr.Expr {
	return expand(expr, templates, 0)
}

func expand(expr sexpr.Expr, templates Templates, depth int) sexpr.Expr {
	items, err := expr.AsList()
	if err != nil {
		return expr
	}
	if len(items) == 0 {
		return expr
	}
	name, err := items[0].AsAtom()
	if err != nil {
		return expandChildren(items, templates, depth)
	}
	tpl, ok := templates[name]
	if !ok {
		return expandChildren(items, templates, depth)
	}
	if depth >= maxExpansionDepth {
		return expandChildren(items, templates, depth)
	}

	args := items[1:]
	if len(tpl.params) == 0 {
		return tpl.body
	}

	env := make(map[string]sexpr.Expr, len(tpl.params))
	regular := tpl.params[:len(tpl.params)-1]
	extraParam := tpl.params[len(tpl.params)-1]

	n := len(regular)
	if n > len(args) {
		n = len(args)
	}
	for i := 0; i < n; i++ {
		env[regular[i]] = expand(args[i], templates, depth+1)
	}

	var extraArgs []sexpr.Expr
	if len(args) > n {
		extraArgs = args[n:]
	}
	extraExpanded := make([]sexpr.Expr, len(extraArgs))
	for i, a := range extraArgs {
		extraExpanded[i] = expand(a, templates, depth+1)
	}
	switch len(extraExpanded) {
	case 1:
		env[extraParam] = extraExpanded[0]
	default:
		env[extraParam] = sexpr.List(extraExpanded)
	}

	return substitute(tpl.body, env, templates, depth+1)
}

func expandChildren(items []sexpr.Expr, templates Templates, depth int) sexpr.Expr {
	out := make([]sexpr.Expr, len(items))
	for i, e := range items {
		out[i] = expand(e, templates, depth)
	}
	return sexpr.List(out)
}

func substitute(expr sexpr.Expr, env map[string]sexpr.Expr, templates Templates, depth int) sexpr.Expr {
	if expr.IsAtom() {
		a, _ := expr.AsAtom()
		if bound, ok := env[a]; ok {
			return bound
		}
		return expr
	}
	items, _ := expr.AsList()
	out := make([]sexpr.Expr, len(items))
	for i, e := range items {
		out[i] = substitute(e, env, templates, depth)
	}
	if depth >= maxExpansionDepth {
		return sexpr.List(out)
	}
	return expand(sexpr.List(out), templates, depth)
}
