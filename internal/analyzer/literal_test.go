package analyzer

import (
	"go/ast"
	"go/constant"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const literalSrc = `package colors

type Color int

const (
	Red Color = iota
	Green
)

type Name string

type Ratio float32

const Answer = 42
`

func checkSource(t *testing.T, src string) (*token.FileSet, *types.Package) {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "src.go", src, 0)
	require.NoError(t, err)
	pkg, err := new(types.Config).Check("example.com/colors", fset, []*ast.File{f}, nil)
	require.NoError(t, err)
	return fset, pkg
}

func TestConstLiteral(t *testing.T) {
	fset, pkg := checkSource(t, literalSrc)
	color := pkg.Scope().Lookup("Color").Type()
	name := pkg.Scope().Lookup("Name").Type()
	ratio := pkg.Scope().Lookup("Ratio").Type()

	tests := []struct {
		name    string
		typ     types.Type
		text    string
		want    string
		wantErr bool
	}{
		{name: "string verbatim", typ: types.Typ[types.String], text: `say "hi"`, want: `"say \"hi\""`},
		{name: "empty string", typ: types.Typ[types.String], text: "", want: `""`},
		{name: "named string", typ: name, text: "circle", want: `colors.Name("circle")`},
		{name: "int", typ: types.Typ[types.Int], text: "42", want: "42"},
		{name: "int expression", typ: types.Typ[types.Int], text: "Answer+1", want: "43"},
		{name: "hex int", typ: types.Typ[types.Int], text: "0x10", want: "16"},
		{name: "enum constant", typ: color, text: "Green", want: "colors.Color(1)"},
		{name: "enum literal", typ: color, text: "5", want: "colors.Color(5)"},
		{name: "float", typ: types.Typ[types.Float64], text: "1.5", want: "float64(1.5)"},
		{name: "float from int", typ: types.Typ[types.Float64], text: "2", want: "float64(2)"},
		{name: "float32 rounded", typ: types.Typ[types.Float32], text: "0.1000000001", want: "float32(0.1)"},
		{name: "int64", typ: types.Typ[types.Int64], text: "5", want: "int64(5)"},
		{name: "rune", typ: types.Typ[types.Int32], text: "'a'", want: "int32(97)"},
		{name: "named float", typ: ratio, text: "0.25", want: "colors.Ratio(0.25)"},
		{name: "bool", typ: types.Typ[types.Bool], text: "true", want: "true"},
		{name: "uint8 max", typ: types.Typ[types.Uint8], text: "255", want: "uint8(255)"},
		{name: "uint8 overflow", typ: types.Typ[types.Uint8], text: "256", wantErr: true},
		{name: "negative unsigned", typ: types.Typ[types.Uint], text: "-1", wantErr: true},
		{name: "int8 overflow", typ: types.Typ[types.Int8], text: "300", wantErr: true},
		{name: "not a constant", typ: types.Typ[types.Int], text: "abc", wantErr: true},
		{name: "empty int", typ: types.Typ[types.Int], text: "", wantErr: true},
		{name: "float for int", typ: types.Typ[types.Int], text: "1.5", wantErr: true},
		{name: "typed mismatch", typ: types.Typ[types.Int], text: "Red", wantErr: true},
		{name: "string for bool", typ: types.Typ[types.Bool], text: `"yes"`, wantErr: true},
		{name: "not basic", typ: types.NewSlice(types.Typ[types.Int]), text: "1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit, err := ConstLiteral(fset, pkg, tt.typ, tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, lit.String())
		})
	}
}

func TestZeroLiteral(t *testing.T) {
	_, pkg := checkSource(t, literalSrc)
	color := pkg.Scope().Lookup("Color").Type()

	assert.Equal(t, `""`, ZeroLiteral(types.Typ[types.String]).String())
	assert.Equal(t, "float64(0)", ZeroLiteral(types.Typ[types.Float64]).String())
	assert.Equal(t, "uint16(0)", ZeroLiteral(types.Typ[types.Uint16]).String())
	assert.Equal(t, "0", ZeroLiteral(types.Typ[types.Int]).String())
	assert.Equal(t, "false", ZeroLiteral(types.Typ[types.Bool]).String())
	assert.Equal(t, "colors.Color(0)", ZeroLiteral(color).String())
	assert.Equal(t, "nil", ZeroLiteral(types.NewSlice(types.Typ[types.String])).String())
}

func TestRender(t *testing.T) {
	assert.Equal(t, "float64(1e+21)", Render(types.Typ[types.Float64], constant.MakeFloat64(1e21)).Text)
	assert.Equal(t, "-3", Render(types.Typ[types.Int], constant.MakeInt64(-3)).Text)
	assert.Nil(t, Render(types.Typ[types.Int], constant.MakeInt64(1)).Named)
}

func TestRender_Float32Precision(t *testing.T) {
	_, pkg := checkSource(t, literalSrc)
	ratio := pkg.Scope().Lookup("Ratio").Type()

	a := Render(ratio, constant.MakeFloat64(1.00000001))
	b := Render(ratio, constant.MakeFloat64(1.00000002))
	assert.Equal(t, a.String(), b.String(), "both round to the same float32")
	assert.Equal(t, "colors.Ratio(1)", a.String())

	c := Render(types.Typ[types.Float64], constant.MakeFloat64(1.00000001))
	d := Render(types.Typ[types.Float64], constant.MakeFloat64(1.00000002))
	assert.NotEqual(t, c.String(), d.String())
}
