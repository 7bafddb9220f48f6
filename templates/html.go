// Package templates holds the HTML components served by the handlers.
package templates

import (
	"io"

	"github.com/a-h/templ"
)

// htmlWriter writes markup and remembers the first write error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// cell writes a table cell; class may be empty.
func (h *htmlWriter) cell(tag, class, value string) {
	if class != "" {
		h.raw("<" + tag + ` class="` + templ.EscapeString(class) + `">`)
	} else {
		h.raw("<" + tag + ">")
	}
	h.text(value)
	h.raw("</" + tag + ">")
}

func (h *htmlWriter) row(tag string, classes []string, values ...string) {
	h.raw("<tr>")
	for i, v := range values {
		class := ""
		if i < len(classes) {
			class = classes[i]
		}
		h.cell(tag, class, v)
	}
	h.raw("</tr>")
}
