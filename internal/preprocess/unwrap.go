package preprocess

import "github.com/rkl-go/rkl/internal/sexpr"

// Unwrap rewrites expr's direct children: a child headed by "unwrap"
// splices its arguments into the parent in its place (each argument
// additionally flattened if it is itself a list); a child headed by an
// atom in ignore vanishes entirely; every other child is processed
// recursively but keeps its own parens. Non-list expr is returned
// unchanged.
func Unwrap(expr sexpr.Expr, ignore map[string]bool) sexpr.Expr {
	items, err := expr.AsList()
	if err != nil {
		return expr
	}
	if head, ok := headAtom(expr); ok && ignore[head] {
		return sexpr.List(nil)
	}

	var out []sexpr.Expr
	for _, item := range items {
		out = append(out, unwrapChild(item, ignore)...)
	}
	return sexpr.List(out)
}

func unwrapChild(item sexpr.Expr, ignore map[string]bool) []sexpr.Expr {
	head, ok := headAtom(item)
	if !ok {
		return []sexpr.Expr{Unwrap(item, ignore)}
	}
	if ignore[head] {
		return nil
	}
	if head == "unwrap" {
		args, _ := item.AsList()
		var out []sexpr.Expr
		for _, arg := range args[1:] {
			result := Unwrap(arg, ignore)
			if xs, err := result.AsList(); err == nil {
				out = append(out, xs...)
			} else {
				out = append(out, result)
			}
		}
		return out
	}
	return []sexpr.Expr{Unwrap(item, ignore)}
}

func headAtom(e sexpr.Expr) (string, bool) {
	items, err := e.AsList()
	if err != nil || len(items) == 0 {
		return "", false
	}
	name, err := items[0].AsAtom()
	if err != nil {
		return "", false
	}
	return name, true
}
