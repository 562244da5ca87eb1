package generator

import (
	"fmt"
	"go/types"

	"github.com/origadmin/factorygen/internal/analyzer"
	"github.com/origadmin/factorygen/internal/model"
)

// writeMethod emits the creator list of one target.
func (g *Generator) writeMethod(w *writer, im *ImportManager, f *model.FactoryInfo) {
	q := im.Qualifier()
	rt := im.Add(g.runtime)
	key := types.TypeString(f.Key, q)
	target := types.TypeString(f.Target, q)
	creator := fmt.Sprintf("%s.Creator[%s, %s]", rt, key, target)
	name := f.Name + "Creators"

	w.comment("%s lists the creators of %s in declaration order.", name, analyzer.ShortName(f.Target))
	w.line("type %s struct{}", name)
	w.blank()
	w.line("var _ %s.Method[%s, %s] = %s{}", rt, key, target, name)
	w.blank()

	w.comment("Creators returns a new instance of every creator.")
	w.block(fmt.Sprintf("func (%s) Creators() []%s", name, creator), "", func() {
		w.block(fmt.Sprintf("return []%s", creator), "", func() {
			for _, c := range f.Creators {
				switch con := c.Construction.(type) {
				case model.DynamicActivate:
					w.line("%s.MustActivate[%s](%q),", rt, creator, con.QualifiedName)
				case model.DirectConstruct:
					expr, fallible := construct(con, q)
					if fallible {
						expr = fmt.Sprintf("%s.Must(%s)", rt, expr)
					}
					w.line("%s,", expr)
				}
			}
		})
	})
	w.blank()
}

// writeProvide emits the init function publishing every creator list.
func (g *Generator) writeProvide(w *writer, im *ImportManager, methods []*model.FactoryInfo) {
	if len(methods) == 0 {
		return
	}
	q := im.Qualifier()
	rt := im.Add(g.runtime)
	w.block("func init()", "", func() {
		for _, f := range methods {
			call := fmt.Sprintf("%s.ProvideMethod[%s, %s](%sCreators{})", rt,
				types.TypeString(f.Key, q), types.TypeString(f.Target, q), f.Name)
			w.block(fmt.Sprintf("if err := %s; err != nil", call), "", func() {
				w.line("panic(err)")
			})
		}
	})
}
