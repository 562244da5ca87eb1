package generator

import (
	"go/types"

	"github.com/origadmin/factorygen/internal/model"
)

func qualify(obj types.Object, q types.Qualifier) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	if prefix := q(obj.Pkg()); prefix != "" {
		return prefix + "." + obj.Name()
	}
	return obj.Name()
}

// construct returns an expression creating a value as dc describes and
// whether it also yields an error.
func construct(dc model.DirectConstruct, q types.Qualifier) (expr string, fallible bool) {
	if dc.Ctor != nil {
		return qualify(dc.Ctor, q) + "()", dc.CtorReturnsError
	}
	lit := qualify(dc.Type, q) + "{}"
	if dc.Pointer {
		return "&" + lit, false
	}
	return lit, false
}

// writeReturn writes the statements returning (expr, nil) from a function
// whose results are (T, error), where zero is the zero value of T.
func writeReturn(w *writer, expr string, fallible bool, zero string) {
	if !fallible {
		w.line("return %s, nil", expr)
		return
	}
	w.line("v, err := %s", expr)
	w.block("if err != nil", "", func() {
		w.line("return %s, err", zero)
	})
	w.line("return v, nil")
}

// zeroValue renders the zero value of t.
func zeroValue(t types.Type, q types.Qualifier) string {
	switch u := t.Underlying().(type) {
	case *types.Interface, *types.Pointer, *types.Slice, *types.Map, *types.Chan, *types.Signature:
		return "nil"
	case *types.Basic:
		switch {
		case u.Info()&types.IsBoolean != 0:
			return "false"
		case u.Info()&types.IsString != 0:
			return `""`
		case u.Info()&types.IsNumeric != 0:
			return "0"
		}
		return "nil"
	default:
		return types.TypeString(t, q) + "{}"
	}
}
