// Package keyboard parses physical keyboard descriptor files: the
// key-geometry matrix, the firmware's logical-address map ("vial"), and
// the defsrc ordering that assigns every physical key an integer index.
package keyboard

import (
	"strconv"
	"strings"

	"github.com/rkl-go/rkl/internal/keys"
	"github.com/rkl-go/rkl/internal/rklerr"
	"github.com/rkl-go/rkl/internal/sexpr"
)

// MatrixItem is one physical key's geometry, informational only.
type MatrixItem struct {
	Key                keys.Key
	X, Y, W, H         float64
	R, RX, RY          float64
}

// VialAddress is the firmware-side location of a logical key: either a
// (row, col) matrix address, or an (index, direction) encoder address.
type VialAddress struct {
	Encoder bool
	A, B    uint8
}

// Descriptor is a fully parsed physical keyboard: its geometry, its
// firmware address map, its defsrc key ordering, and any free-text meta
// prelude found before the "---" separator.
type Descriptor struct {
	Matrix []MatrixItem
	Vial   map[keys.Key]VialAddress
	Source map[keys.Key]int
	Meta   string
}

// Parse reads a descriptor file's contents: an optional free-text meta
// block, a "---" separator, then a sequence of (defmatrix …), (defvial …),
// and (defsrc …) forms.
func Parse(content string) (*Descriptor, error) {
	raw, meta := content, ""
	if before, after, ok := strings.Cut(content, "---"); ok {
		raw, meta = after, strings.TrimSpace(before)
	}

	root, err := sexpr.Parse("(" + strings.TrimSpace(raw) + ")")
	if err != nil {
		return nil, err
	}
	forms, err := root.AsList()
	if err != nil {
		return nil, err
	}

	d := &Descriptor{
		Vial:   make(map[keys.Key]VialAddress),
		Source: make(map[keys.Key]int),
		Meta:   meta,
	}

	for _, form := range forms {
		items, err := form.AsList()
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, &rklerr.ShapeError{Msg: "expected a named form", Form: form.Pretty()}
		}
		head, err := items[0].AsAtom()
		if err != nil {
			return nil, err
		}
		rest := items[1:]
		switch head {
		case "defmatrix":
			matrix, err := parseMatrix(rest)
			if err != nil {
				return nil, err
			}
			d.Matrix = matrix
		case "defvial":
			if err := parseVial(rest, d.Vial); err != nil {
				return nil, err
			}
		case "defsrc":
			src, err := parseSource(rest)
			if err != nil {
				return nil, err
			}
			d.Source = src
		default:
			return nil, &rklerr.ShapeError{Msg: "unexpected descriptor form " + head, Form: form.Pretty()}
		}
	}
	return d, nil
}

func parseMatrix(rows []sexpr.Expr) ([]MatrixItem, error) {
	matrix := make([]MatrixItem, 0, len(rows))
	for _, row := range rows {
		cells, err := row.AsList()
		if err != nil {
			return nil, err
		}
		var atoms []string
		for _, c := range cells {
			a, err := c.AsAtom()
			if err != nil {
				continue
			}
			atoms = append(atoms, a)
		}
		item, err := parseMatrixItem(atoms)
		if err != nil {
			return nil, err
		}
		matrix = append(matrix, item)
	}
	return matrix, nil
}

func parseMatrixItem(row []string) (MatrixItem, error) {
	parseFloat := func(s string) (float64, error) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, &rklerr.ParseError{Msg: "cannot parse float " + s}
		}
		return v, nil
	}
	if len(row) != 5 && len(row) != 8 {
		return MatrixItem{}, &rklerr.ShapeError{Msg: "matrix row must have 5 or 8 fields"}
	}
	k, err := keys.Parse(row[0])
	if err != nil {
		return MatrixItem{}, err
	}
	x, err := parseFloat(row[1])
	if err != nil {
		return MatrixItem{}, err
	}
	y, err := parseFloat(row[2])
	if err != nil {
		return MatrixItem{}, err
	}
	w, err := parseFloat(row[3])
	if err != nil {
		return MatrixItem{}, err
	}
	h, err := parseFloat(row[4])
	if err != nil {
		return MatrixItem{}, err
	}
	item := MatrixItem{Key: k, X: x, Y: y, W: w, H: h}
	if len(row) == 8 {
		if item.R, err = parseFloat(row[5]); err != nil {
			return MatrixItem{}, err
		}
		if item.RX, err = parseFloat(row[6]); err != nil {
			return MatrixItem{}, err
		}
		if item.RY, err = parseFloat(row[7]); err != nil {
			return MatrixItem{}, err
		}
	}
	return item, nil
}

func parseVial(rows []sexpr.Expr, into map[keys.Key]VialAddress) error {
	for _, row := range rows {
		cells, err := row.AsList()
		if err != nil {
			return err
		}
		var atoms []string
		for _, c := range cells {
			a, err := c.AsAtom()
			if err != nil {
				continue
			}
			atoms = append(atoms, a)
		}
		if len(atoms) == 0 {
			return &rklerr.ShapeError{Msg: "vial row missing key name"}
		}
		k, err := keys.Parse(atoms[0])
		if err != nil {
			return err
		}
		if len(atoms) != 3 && len(atoms) != 4 {
			return &rklerr.ShapeError{Msg: "unexpected vial row shape", Form: row.Pretty()}
		}
		a, err := strconv.ParseUint(atoms[1], 10, 8)
		if err != nil {
			return &rklerr.ParseError{Msg: "cannot parse vial field " + atoms[1]}
		}
		b, err := strconv.ParseUint(atoms[2], 10, 8)
		if err != nil {
			return &rklerr.ParseError{Msg: "cannot parse vial field " + atoms[2]}
		}
		addr := VialAddress{A: uint8(a), B: uint8(b), Encoder: len(atoms) == 4 && atoms[3] == "e"}
		if _, exists := into[k]; exists {
			return &rklerr.DuplicateError{Kind: "vial key", Name: k.String()}
		}
		into[k] = addr
	}
	return nil
}

// ParseVial parses a sequence of (KEY row col [e]) rows into into, the
// same logic defvial uses inside a descriptor file. Exposed so a layout's
// own inline (defvial ...) form can reuse it.
func ParseVial(rows []sexpr.Expr, into map[keys.Key]VialAddress) error {
	return parseVial(rows, into)
}

// ParseSource parses a positional sequence of key atoms into a
// key-to-index map, the same logic defsrc uses inside a descriptor file.
func ParseSource(atoms []sexpr.Expr) (map[keys.Key]int, error) {
	return parseSource(atoms)
}

func parseSource(atoms []sexpr.Expr) (map[keys.Key]int, error) {
	out := make(map[keys.Key]int, len(atoms))
	for i, e := range atoms {
		name, err := e.AsAtom()
		if err != nil {
			return nil, err
		}
		k, err := keys.Parse(name)
		if err != nil {
			return nil, err
		}
		if _, exists := out[k]; exists {
			return nil, &rklerr.DuplicateError{Kind: "defsrc key", Name: name}
		}
		out[k] = i
	}
	return out, nil
}
