package formatter

import (
	"bytes"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/zjrosen/hilite/internal/option"
	"github.com/zjrosen/hilite/internal/theme"
	"github.com/zjrosen/hilite/internal/token"
)

// Color profiles accepted by the terminal formatter's "profile" option.
const (
	ProfileAuto      = "auto"
	ProfileTrueColor = "truecolor"
	ProfileANSI256   = "ansi256"
	ProfileANSI      = "ansi"
	ProfileNone      = "none"
)

// terminalFormatter writes tokens wrapped in ANSI SGR sequences. Sequences
// are closed and reopened around line breaks so that every line can be
// displayed on its own.
type terminalFormatter struct{}

var terminalInfo = &Info{
	Name:    "Terminal",
	Doc:     "Format tokens with ANSI color sequences, for output in a text console.",
	Aliases: []string{"terminal", "term", "console", "ansi"},
	Options: []option.Decl{
		themeOption(),
		{
			Name:    "profile",
			Type:    option.TypeEnum,
			Default: option.Enum(ProfileAuto),
			Choices: []string{ProfileAuto, ProfileTrueColor, ProfileANSI256, ProfileANSI, ProfileNone},
			Doc:     "color depth; auto asks the environment",
		},
		{
			Name:    "background",
			Type:    option.TypeBool,
			Default: option.Bool(false),
			Doc:     "also paint the background colors of the theme",
		},
	},
}

func (*terminalFormatter) Info() *Info { return terminalInfo }

// Profile returns the termenv profile selected by name.
func Profile(name string) termenv.Profile {
	switch name {
	case ProfileTrueColor:
		return termenv.TrueColor
	case ProfileANSI256:
		return termenv.ANSI256
	case ProfileANSI:
		return termenv.ANSI
	case ProfileNone:
		return termenv.Ascii
	default:
		return termenv.EnvColorProfile()
	}
}

func (*terminalFormatter) Renderer(f *Formatter, w io.Writer) Renderer {
	return &terminalRenderer{
		w:          w,
		theme:      f.Theme(),
		profile:    Profile(f.Str("profile")),
		background: f.Bool("background"),
	}
}

type terminalRenderer struct {
	w          io.Writer
	theme      *theme.Theme
	profile    termenv.Profile
	background bool

	sequences [token.Count]string
	open      string
}

var resetSequence = termenv.CSI + termenv.ResetSeq + "m"

// Sequence returns the SGR sequence rendering s in profile p, "" when s
// renders as plain text.
func Sequence(s theme.Style, p termenv.Profile, background bool) string {
	var parts []string
	if s.Bold {
		parts = append(parts, termenv.BoldSeq)
	}
	if s.Italic {
		parts = append(parts, termenv.ItalicSeq)
	}
	if s.Underline {
		parts = append(parts, termenv.UnderlineSeq)
	}
	if s.FGSet {
		if seq := p.Color(s.FG.Hex()); seq != nil && seq.Sequence(false) != "" {
			parts = append(parts, seq.Sequence(false))
		}
	}
	if s.BGSet && background {
		if seq := p.Color(s.BG.Hex()); seq != nil && seq.Sequence(true) != "" {
			parts = append(parts, seq.Sequence(true))
		}
	}
	if len(parts) == 0 || p == termenv.Ascii {
		return ""
	}
	return termenv.CSI + strings.Join(parts, ";") + "m"
}

func (r *terminalRenderer) StartDocument() error {
	for _, c := range token.All() {
		r.sequences[c] = Sequence(r.theme.Style(c), r.profile, r.background)
	}
	return nil
}

func (r *terminalRenderer) EndDocument() error { return nil }

func (r *terminalRenderer) StartToken(c token.Class) error {
	r.open = ""
	if c.Valid() {
		r.open = r.sequences[c]
	}
	return r.write(r.open)
}

func (r *terminalRenderer) WriteToken(text []byte) error {
	if r.open == "" {
		_, err := r.w.Write(text)
		return err
	}
	for {
		i := bytes.IndexByte(text, '\n')
		if i < 0 {
			_, err := r.w.Write(text)
			return err
		}
		if _, err := r.w.Write(text[:i]); err != nil {
			return err
		}
		if err := r.write(resetSequence + "\n" + r.open); err != nil {
			return err
		}
		text = text[i+1:]
	}
}

func (r *terminalRenderer) EndToken(token.Class) error {
	if r.open == "" {
		return nil
	}
	r.open = ""
	return r.write(resetSequence)
}

func (r *terminalRenderer) write(s string) error {
	if s == "" {
		return nil
	}
	_, err := io.WriteString(r.w, s)
	return err
}
