package generator

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportManager_Add(t *testing.T) {
	im := NewImportManager("example.com/out")

	assert.Equal(t, "pkg1", im.AddPath("github.com/example/pkg1", "pkg1"))
	assert.Equal(t, "pkg1", im.AddPath("github.com/example/pkg1", "pkg1"))
	assert.Equal(t, "pkg2", im.Add(types.NewPackage("github.com/example/pkg2", "pkg2")))
	assert.Equal(t, "", im.AddPath("example.com/out", "out"))
	assert.Equal(t, "", im.Add(nil))
	assert.Equal(t, 2, im.Len())
}

func TestImportManager_ConflictHandling(t *testing.T) {
	im := NewImportManager("example.com/out")

	assert.Equal(t, "pkg", im.AddPath("github.com/example1/pkg", "pkg"))
	assert.Equal(t, "pkg1", im.AddPath("github.com/example2/pkg", "pkg"))
	assert.Equal(t, "pkg2", im.AddPath("github.com/example3/pkg", "pkg"))

	alias, ok := im.Alias("github.com/example2/pkg")
	assert.True(t, ok)
	assert.Equal(t, "pkg1", alias)
}

func TestImportManager_Write(t *testing.T) {
	im := NewImportManager("example.com/out")
	im.AddPath("github.com/b/pkg", "pkg")
	im.AddPath("github.com/a/pkg", "pkg")
	im.AddPath("github.com/a/v2", "api")

	assert.Equal(t, []string{"github.com/a/pkg", "github.com/a/v2", "github.com/b/pkg"}, im.Paths())

	var w writer
	im.write(&w)
	assert.Equal(t, "import (\n\tpkg1 \"github.com/a/pkg\"\n\t\"github.com/a/v2\"\n\t\"github.com/b/pkg\"\n)\n\n", string(w.bytes()))
}

func TestImportManager_Qualifier(t *testing.T) {
	im := NewImportManager("example.com/out")
	pkg := types.NewPackage("example.com/shapes", "shapes")
	obj := types.NewTypeName(0, pkg, "Shape", nil)
	named := types.NewNamed(obj, types.NewInterfaceType(nil, nil), nil)

	assert.Equal(t, "[]shapes.Shape", types.TypeString(types.NewSlice(named), im.Qualifier()))
	_, ok := im.Alias("example.com/shapes")
	assert.True(t, ok)
}

func TestWriter_Block(t *testing.T) {
	var w writer
	w.comment("%s is %d", "x", 1)
	w.block("func f()", "", func() {
		w.line("return")
	})
	assert.Equal(t, "// x is 1\nfunc f() {\n\treturn\n}\n", string(w.bytes()))
}
