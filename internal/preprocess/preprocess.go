package preprocess

import (
	"github.com/rkl-go/rkl/internal/rklerr"
	"github.com/rkl-go/rkl/internal/sexpr"
)

// defaultIgnore is spliced out of the tree entirely once expansion is
// complete; deftemplate forms have done their job by then.
var defaultIgnore = map[string]bool{"deftemplate": true}

// Run collects every deftemplate form in root's top-level items, expands
// all template calls to a fixed point, then strips deftemplate forms and
// splices unwrap forms. root must be a List of top-level forms.
func Run(root sexpr.Expr) (sexpr.Expr, error) {
	forms, err := root.AsList()
	if err != nil {
		return sexpr.Expr{}, &rklerr.ShapeError{Msg: "top-level source must be a list of forms"}
	}

	templates := make(Templates)
	for _, item := range forms {
		form, err := item.AsList()
		if err != nil {
			return sexpr.Expr{}, err
		}
		if len(form) == 0 {
			return sexpr.Expr{}, &rklerr.ShapeError{Msg: "empty top-level form"}
		}
		head, err := form[0].AsAtom()
		if err != nil {
			return sexpr.Expr{}, err
		}
		if head == "deftemplate" {
			if err := Deftemplate(form[1:], templates); err != nil {
				return sexpr.Expr{}, err
			}
		}
	}

	expanded := Expand(root, templates)
	return Unwrap(expanded, defaultIgnore), nil
}
