package presentation

import (
	"github.com/zjrosen/hilite/internal/formatter"
	"github.com/zjrosen/hilite/internal/option"
	"github.com/zjrosen/hilite/internal/registry"
	"github.com/zjrosen/hilite/internal/theme"
)

// OptionDTO describes one declared option.
type OptionDTO struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Default string   `json:"default,omitempty"`
	Choices []string `json:"choices,omitempty"`
	Doc     string   `json:"doc,omitempty"`
}

// LexerDTO represents a registered lexer for presentation
type LexerDTO struct {
	Name         string      `json:"name"`
	Source       string      `json:"source"`
	Doc          string      `json:"doc,omitempty"`
	Aliases      []string    `json:"aliases"`
	Filenames    []string    `json:"filenames"`
	MimeTypes    []string    `json:"mime_types"`
	Interpreters []string    `json:"interpreters,omitempty"`
	Options      []OptionDTO `json:"options,omitempty"`
}

// FormatterDTO represents a formatter implementation
type FormatterDTO struct {
	Name    string      `json:"name"`
	Doc     string      `json:"doc"`
	Aliases []string    `json:"aliases"`
	Options []OptionDTO `json:"options,omitempty"`
}

// ThemeDTO represents a registered theme
type ThemeDTO struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// FromOptions converts option declarations. Defaults equal to the zero
// value are left out.
func FromOptions(decls []option.Decl) []OptionDTO {
	if len(decls) == 0 {
		return nil
	}
	out := make([]OptionDTO, 0, len(decls))
	for _, d := range decls {
		dto := OptionDTO{Name: d.Name, Type: d.Type.String(), Choices: d.Choices, Doc: d.Doc}
		if d.Default.Type() == d.Type {
			if def := d.Default.String(); def != "false" && def != "0" {
				dto.Default = def
			}
		}
		out = append(out, dto)
	}
	return out
}

// FromRegistration converts a registry entry to a DTO
func FromRegistration(reg *registry.Registration) LexerDTO {
	info := reg.Info()
	return LexerDTO{
		Name:         info.Name,
		Source:       reg.Source().String(),
		Doc:          info.Doc,
		Aliases:      nonNil(info.Aliases),
		Filenames:    nonNil(info.Filenames),
		MimeTypes:    nonNil(info.MimeTypes),
		Interpreters: info.Interpreters,
		Options:      FromOptions(info.Options),
	}
}

// FromRegistrations converts registry entries in order.
func FromRegistrations(regs []*registry.Registration) []LexerDTO {
	out := make([]LexerDTO, 0, len(regs))
	for _, reg := range regs {
		out = append(out, FromRegistration(reg))
	}
	return out
}

// FromFormatters converts formatter implementations in order.
func FromFormatters(impls []formatter.Implementation) []FormatterDTO {
	out := make([]FormatterDTO, 0, len(impls))
	for _, impl := range impls {
		info := impl.Info()
		out = append(out, FormatterDTO{
			Name:    info.Name,
			Doc:     info.Doc,
			Aliases: nonNil(info.Aliases),
			Options: FromOptions(info.Options),
		})
	}
	return out
}

// FromThemes converts themes in order.
func FromThemes(themes []*theme.Theme) []ThemeDTO {
	out := make([]ThemeDTO, 0, len(themes))
	for _, t := range themes {
		out = append(out, ThemeDTO{Name: t.Name, Description: t.Description})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
