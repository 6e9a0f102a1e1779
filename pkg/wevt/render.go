package wevt

import (
	"github.com/wevtlib/wevtx/internal/binxml"
	"github.com/wevtlib/wevtx/internal/format"
	"github.com/wevtlib/wevtx/internal/render"
	"github.com/wevtlib/wevtx/pkg/types"
)

// resolverAdapter satisfies internal/render.TemplateResolver over a Store's
// template index.
type resolverAdapter struct{ s *Store }

func (r resolverAdapter) ResolveTemplate(guid format.GUID) (*format.Template, bool) {
	t, ok := r.s.Template(guid)
	if !ok {
		return nil, false
	}
	return &t, true
}

// Render decodes ev's template body as Binary-XML and walks it against
// values, producing well-formed XML text (spec §4.7). ev must have
// HasTemplate() true; values supplies one entry per substitution slot the
// template's Binary-XML references, in slot-index order.
//
// When opts.Buffer is non-nil, Render follows the size-query-then-retry
// convention spec §6 describes for Output::InsufficientSpace: if the
// rendered text doesn't fit, it returns types.ErrBufferTooSmall carrying
// the required size so the caller can grow the buffer and call again.
func (s *Store) Render(ev format.Event, values []types.Value, opts types.RenderOptions) (string, error) {
	if !ev.HasTemplate() {
		return "", types.ErrBadArgument("event has no associated template")
	}
	tmpl, ok := s.Template(ev.TemplateID)
	if !ok {
		return "", types.WrapDecodeError("render event template", format.ErrNotFound)
	}

	root, err := binxml.Read(tmpl.Body)
	if err != nil {
		return "", types.WrapDecodeError("parse template body", err)
	}

	out, err := render.Render(root, values, resolverAdapter{s}, render.Options{Abort: opts.Abort, Indent: opts.Indent})
	if err != nil {
		if err == render.ErrAbortRequested {
			return "", types.ErrAbort()
		}
		return "", types.WrapDecodeError("render template", err)
	}

	if opts.Buffer != nil {
		if len(out) > len(opts.Buffer) {
			return "", types.ErrBufferTooSmall(len(out))
		}
		copy(opts.Buffer, out)
	}
	return out, nil
}
