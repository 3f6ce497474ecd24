package presentation

import (
	"fmt"
	"strings"
)

// LexersMarkdown renders lexers as a markdown table under a heading.
func LexersMarkdown(lexers []LexerDTO) string {
	var b strings.Builder
	b.WriteString("# Lexers\n\n| Name | Aliases | Filenames | Options |\n| --- | --- | --- | --- |\n")
	for _, l := range lexers {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			cell(l.Name), cell(join(l.Aliases)), cell(join(l.Filenames)), cell(optionNames(l.Options)))
	}
	return b.String()
}

// FormattersMarkdown renders formatters with their options.
func FormattersMarkdown(formatters []FormatterDTO) string {
	var b strings.Builder
	b.WriteString("# Formatters\n")
	for _, f := range formatters {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n\nAliases: %s\n", f.Name, f.Doc, cell(join(f.Aliases)))
		if len(f.Options) == 0 {
			continue
		}
		b.WriteString("\n| Option | Type | Default | Description |\n| --- | --- | --- | --- |\n")
		for _, o := range f.Options {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", cell(o.Name), cell(o.Type), cell(o.Default), cell(o.Doc))
		}
	}
	return b.String()
}

// ThemesMarkdown renders themes as a list, marking current.
func ThemesMarkdown(themes []ThemeDTO, current string) string {
	var b strings.Builder
	b.WriteString("# Themes\n\n")
	for _, t := range themes {
		name := "`" + t.Name + "`"
		if strings.EqualFold(t.Name, current) {
			name = "**" + name + "** (current)"
		}
		if t.Description != "" {
			fmt.Fprintf(&b, "- %s: %s\n", name, t.Description)
		} else {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}
	return b.String()
}

// cell escapes pipes so text stays inside one table cell.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
