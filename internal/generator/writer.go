package generator

import (
	"bytes"
	"fmt"
	"strings"
)

// writer builds a Go source document line by line. Output is passed through
// go/format afterwards, the indentation only has to be consistent.
type writer struct {
	buf   bytes.Buffer
	depth int
}

func (w *writer) line(format string, args ...any) {
	if format == "" {
		w.buf.WriteByte('\n')
		return
	}
	w.buf.WriteString(strings.Repeat("\t", w.depth))
	if len(args) == 0 {
		w.buf.WriteString(format)
	} else {
		fmt.Fprintf(&w.buf, format, args...)
	}
	w.buf.WriteByte('\n')
}

func (w *writer) blank() {
	w.line("")
}

// block writes open followed by " {", the body one level deeper and the
// closing brace followed by closeSuffix.
func (w *writer) block(open string, closeSuffix string, body func()) {
	w.line("%s {", open)
	w.depth++
	body()
	w.depth--
	w.line("}%s", closeSuffix)
}

func (w *writer) comment(format string, args ...any) {
	w.line("// "+format, args...)
}

func (w *writer) bytes() []byte {
	return w.buf.Bytes()
}
