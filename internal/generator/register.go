package generator

import (
	"fmt"
	"go/types"

	"github.com/origadmin/factorygen/internal/model"
)

// writeRegistration emits the init function of a product package.
func (g *Generator) writeRegistration(w *writer, im *ImportManager, reg *model.Registration) {
	q := im.Qualifier()
	rt := im.Add(g.runtime)

	var opts string
	if g.cfg.RejectDuplicates() {
		opts = fmt.Sprintf(", %s.OnDuplicate(%s.Reject)", rt, rt)
	}

	w.block("func init()", "", func() {
		for _, rp := range reg.Products {
			f, p := rp.Factory, rp.Product
			target := types.TypeString(f.Target, q)

			w.line("%s.MustRegister(%s.Entry[%s, %s]{", rt, rt, types.TypeString(f.Key, q), target)
			w.depth++
			w.line("Key: %s,", p.Label.Render(q))
			w.line("TypeName: %q,", p.ClassDeclaration)
			w.block(fmt.Sprintf("New: func() (%s, error)", target), ",", func() {
				expr, fallible := construct(p.Direct, q)
				writeReturn(w, expr, fallible, zeroValue(f.Target, q))
			})
			if len(p.Tags) > 0 {
				w.block(fmt.Sprintf("Tags: %s.Tags", rt), ",", func() {
					for _, tag := range p.Tags {
						w.line("{Name: %q, Value: %s},", tag.Name, tag.Value.Render(q))
					}
				})
			}
			w.depth--
			w.line("}%s)", opts)
		}
		for _, dc := range reg.Activatable {
			open := fmt.Sprintf("%s.RegisterType(%q, func() (any, error)", rt, model.QualifiedName(dc.Type))
			w.block(open, ")", func() {
				expr, fallible := construct(dc, q)
				writeReturn(w, expr, fallible, "nil")
			})
		}
	})
}
