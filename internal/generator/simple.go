package generator

import (
	"fmt"
	"go/types"

	"github.com/origadmin/factorygen/internal/analyzer"
	"github.com/origadmin/factorygen/internal/model"
)

// writeSimple emits the switch based factory of one target.
func (g *Generator) writeSimple(w *writer, im *ImportManager, f *model.FactoryInfo) {
	q := im.Qualifier()
	rt := im.Add(g.runtime)
	key := types.TypeString(f.Key, q)
	target := types.TypeString(f.Target, q)
	zero := zeroValue(f.Target, q)
	name := f.Name + "Factory"

	w.comment("%s creates %s products by %s key.", name, analyzer.ShortName(f.Target), analyzer.ShortName(f.Key))
	w.line("type %s struct{}", name)
	w.blank()
	w.line("var _ %s.Simple[%s, %s] = %s{}", rt, key, target, name)
	w.blank()

	w.comment("Keys returns the keys %s creates products for.", name)
	w.block(fmt.Sprintf("func (%s) Keys() []%s", name, key), "", func() {
		w.block(fmt.Sprintf("return []%s", key), "", func() {
			for _, p := range f.Products {
				w.line("%s,", p.Label.Render(q))
			}
		})
	})
	w.blank()

	w.comment("Create returns a new product for key.")
	w.block(fmt.Sprintf("func (%s) Create(key %s) (%s, error)", name, key, target), "", func() {
		w.block("switch key", "", func() {
			for _, p := range f.Products {
				w.line("case %s:", p.Label.Render(q))
				w.depth++
				switch c := p.Construction.(type) {
				case model.DynamicActivate:
					w.line("return %s.Activate[%s](%q)", rt, target, c.QualifiedName)
				case model.DirectConstruct:
					expr, fallible := construct(c, q)
					writeReturn(w, expr, fallible, zero)
				}
				w.depth--
			}
			w.line("default:")
			w.depth++
			w.line("return %s, %s.KeyNotFound(key)", zero, rt)
			w.depth--
		})
	})
	w.blank()
}
