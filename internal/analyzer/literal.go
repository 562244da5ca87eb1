package analyzer

import (
	"go/constant"
	"go/token"
	"go/types"
	"math"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/origadmin/factorygen/internal/model"
)

// ConstLiteral converts the text of a struct tag value into a constant of
// type t and renders it as Go source.
//
// Text of a string typed value is taken verbatim. Any other text is
// evaluated as a constant expression in scope, so named constants of that
// package resolve, and must be representable in t. Typed constants must
// have exactly type t.
func ConstLiteral(fset *token.FileSet, scope *types.Package, t types.Type, text string) (model.Literal, error) {
	basic, ok := t.Underlying().(*types.Basic)
	if !ok {
		return model.Literal{}, errors.Newf("type %s has no basic underlying type", ShortName(t))
	}

	var val constant.Value
	if basic.Info()&types.IsString != 0 {
		val = constant.MakeString(text)
	} else {
		v, err := evalConst(fset, scope, t, text)
		if err != nil {
			return model.Literal{}, err
		}
		val = v
	}
	return Render(t, val), nil
}

func evalConst(fset *token.FileSet, scope *types.Package, t types.Type, text string) (constant.Value, error) {
	if text == "" {
		return nil, errors.Newf("empty value for %s", ShortName(t))
	}
	tv, err := types.Eval(fset, scope, token.NoPos, text)
	if err != nil {
		return nil, errors.Wrapf(err, "evaluate %q", text)
	}
	if tv.Value == nil {
		return nil, errors.Newf("%q is not a constant", text)
	}
	if b, untyped := tv.Type.(*types.Basic); untyped && b.Info()&types.IsUntyped != 0 {
		if !representable(tv.Value, t) {
			return nil, errors.Newf("%s cannot represent %s", ShortName(t), tv.Value.ExactString())
		}
		return tv.Value, nil
	}
	if !types.Identical(tv.Type, t) {
		return nil, errors.Newf("%q has type %s, want %s", text, ShortName(tv.Type), ShortName(t))
	}
	return tv.Value, nil
}

// representable reports whether the untyped constant v fits in t.
func representable(v constant.Value, t types.Type) bool {
	basic := t.Underlying().(*types.Basic)
	info := basic.Info()
	switch {
	case info&types.IsBoolean != 0:
		return v.Kind() == constant.Bool
	case info&types.IsInteger != 0:
		iv := constant.ToInt(v)
		if iv.Kind() != constant.Int {
			return false
		}
		return fitsInt(iv, basic.Kind())
	case info&types.IsFloat != 0:
		fv := constant.ToFloat(v)
		if fv.Kind() != constant.Float && fv.Kind() != constant.Int {
			return false
		}
		if basic.Kind() == types.Float32 {
			f, _ := constant.Float32Val(fv)
			return !math.IsInf(float64(f), 0)
		}
		f, _ := constant.Float64Val(fv)
		return !math.IsInf(f, 0)
	case info&types.IsComplex != 0:
		cv := constant.ToComplex(v)
		return cv.Kind() == constant.Complex || cv.Kind() == constant.Float || cv.Kind() == constant.Int
	case info&types.IsString != 0:
		return v.Kind() == constant.String
	}
	return false
}

var intBounds = map[types.BasicKind][2]int64{
	types.Int8:  {-1 << 7, 1<<7 - 1},
	types.Int16: {-1 << 15, 1<<15 - 1},
	types.Int32: {-1 << 31, 1<<31 - 1},
	types.Int64: {-1 << 63, 1<<63 - 1},
	types.Int:   {-1 << 63, 1<<63 - 1},
}

var uintBits = map[types.BasicKind]uint{
	types.Uint8:   8,
	types.Uint16:  16,
	types.Uint32:  32,
	types.Uint64:  64,
	types.Uint:    64,
	types.Uintptr: 64,
}

func fitsInt(v constant.Value, kind types.BasicKind) bool {
	if b, ok := intBounds[kind]; ok {
		i, exact := constant.Int64Val(v)
		return exact && i >= b[0] && i <= b[1]
	}
	if bits, ok := uintBits[kind]; ok {
		u, exact := constant.Uint64Val(v)
		if !exact || constant.Sign(v) < 0 {
			return false
		}
		return bits == 64 || u < 1<<bits
	}
	return kind == types.UntypedInt || kind == types.UntypedRune
}

// Render prints val as a Go expression of type t. Values of defined types
// become conversions, and so do values of predeclared types other than the
// default type of an untyped constant, so that the expression keeps type t
// when it is stored in an interface. Floats are rounded to the precision of
// t first.
func Render(t types.Type, val constant.Value) model.Literal {
	t = types.Unalias(t)
	basic, _ := t.Underlying().(*types.Basic)
	lit := model.Literal{Text: renderValue(val, basic)}
	switch tt := t.(type) {
	case *types.Named:
		if tt.Obj().Pkg() != nil {
			lit.Named = tt.Obj()
		}
	case *types.Basic:
		if needsConversion(tt) {
			lit.Text = tt.Name() + "(" + lit.Text + ")"
		}
	}
	return lit
}

// needsConversion reports whether an untyped constant would default to a
// type other than b.
func needsConversion(b *types.Basic) bool {
	if b.Info()&types.IsUntyped != 0 {
		return false
	}
	switch b.Kind() {
	case types.Int, types.String, types.Bool, types.Invalid:
		return false
	}
	return true
}

func renderValue(val constant.Value, basic *types.Basic) string {
	if basic != nil && basic.Info()&types.IsFloat != 0 {
		fv := constant.ToFloat(val)
		if basic.Kind() == types.Float32 {
			f, _ := constant.Float32Val(fv)
			return strconv.FormatFloat(float64(f), 'g', -1, 32)
		}
		f, _ := constant.Float64Val(fv)
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	switch val.Kind() {
	case constant.String:
		return strconv.Quote(constant.StringVal(val))
	case constant.Int:
		return val.ExactString()
	case constant.Float:
		if f, ok := constant.Float64Val(val); ok {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return val.ExactString()
	case constant.Bool:
		return strconv.FormatBool(constant.BoolVal(val))
	default:
		return val.ExactString()
	}
}

// ZeroLiteral renders the zero value of t. Types without a basic
// underlying type get nil.
func ZeroLiteral(t types.Type) model.Literal {
	basic, ok := t.Underlying().(*types.Basic)
	if !ok {
		return model.Literal{Text: "nil"}
	}
	var val constant.Value
	info := basic.Info()
	switch {
	case info&types.IsString != 0:
		val = constant.MakeString("")
	case info&types.IsBoolean != 0:
		val = constant.MakeBool(false)
	default:
		val = constant.MakeInt64(0)
	}
	return Render(t, val)
}
