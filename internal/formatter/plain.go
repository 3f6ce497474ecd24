package formatter

import (
	"io"
	"strconv"

	"github.com/zjrosen/hilite/internal/token"
)

// plainFormatter writes one line per token, "NAME: \"value\"", mostly for
// tests and debugging lexers.
type plainFormatter struct{}

var plainInfo = &Info{
	Name:    "Plain",
	Doc:     "One token per line as <token name>: <quoted value>, mostly intended for tests.",
	Aliases: []string{"plain", "tokens", "debug"},
}

func (*plainFormatter) Info() *Info { return plainInfo }

func (*plainFormatter) Renderer(_ *Formatter, w io.Writer) Renderer {
	return &plainRenderer{w: w}
}

type plainRenderer struct {
	w   io.Writer
	buf []byte
}

func (r *plainRenderer) StartDocument() error { return nil }
func (r *plainRenderer) EndDocument() error   { return nil }

func (r *plainRenderer) StartToken(c token.Class) error {
	r.buf = append(append(r.buf[:0], c.String()...), ": "...)
	return nil
}

func (r *plainRenderer) WriteToken(text []byte) error {
	r.buf = strconv.AppendQuote(r.buf, string(text))
	return nil
}

func (r *plainRenderer) EndToken(token.Class) error {
	r.buf = append(r.buf, '\n')
	_, err := r.w.Write(r.buf)
	return err
}
