package config

import (
	"fmt"
	"strconv"
	"strings"
)

const tomlHeader = "# docqa configuration (TOML)"

// table is one [section] of the options table; the unnamed table holds the
// top-level keys.
type table struct {
	name string
	opts []ConfigOption
}

// splitKey splits "server.url" into its table and the key inside it.
func splitKey(key string) (string, string) {
	if i := strings.Index(key, "."); i >= 0 {
		return key[:i], key[i+1:]
	}
	return "", key
}

// tables groups options by table in first-seen order, top-level first. Keys
// in the result are relative to their table.
func tables(opts []ConfigOption) []table {
	out := []table{{}}
	index := map[string]int{"": 0}
	for _, o := range opts {
		name, key := splitKey(o.Key)
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, table{name: name})
		}
		out[i].opts = append(out[i].opts, ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return out
}

// tomlValue formats a string, integer or bool option value.
func tomlValue(v any) string {
	switch x := v.(type) {
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case string:
		return tomlQuote(x)
	default:
		return tomlQuote(fmt.Sprint(x))
	}
}

// tomlQuote writes s as a TOML basic string.
func tomlQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func assignment(key string, v any) string {
	return key + " = " + tomlValue(v)
}

// appendOption appends a commented assignment followed by a blank line.
func appendOption(lines []string, o ConfigOption) []string {
	if o.Comment != "" {
		lines = append(lines, "# "+o.Comment)
	}
	return append(lines, assignment(o.Key, o.Default), "")
}

func appendTables(lines []string, ts []table) []string {
	for _, t := range ts {
		if len(t.opts) == 0 {
			continue
		}
		if t.name != "" {
			lines = append(lines, "["+t.name+"]")
		}
		for _, o := range t.opts {
			lines = appendOption(lines, o)
		}
	}
	return lines
}

// RenderDefaultTOML renders every option with its default and comment.
func RenderDefaultTOML() string {
	lines := appendTables([]string{tomlHeader}, tables(GetConfigOptions()))
	return strings.Join(lines, "\n")
}

// scanTOML calls fn for every key assignment with its dotted name. Blank,
// comment and header lines are passed with an empty key.
func scanTOML(lines []string, fn func(i int, line, section, key string)) {
	section := ""
	for i, line := range lines {
		trim := strings.TrimSpace(line)
		if isSectionHeader(trim) {
			section = strings.TrimSpace(trim[1 : len(trim)-1])
			fn(i, line, section, "")
			continue
		}
		key, ok := parseTOMLKey(line)
		if !ok {
			fn(i, line, section, "")
			continue
		}
		fn(i, line, section, key)
	}
}

// UpdateTOML adds options missing from existing to their tables and comments
// out keys the options table no longer knows. It reports whether anything
// changed.
func UpdateTOML(existing string) (string, bool) {
	opts := GetConfigOptions()
	known := make(map[string]bool, len(opts))
	for _, o := range opts {
		known[o.Key] = true
	}

	seen := map[string]bool{}
	lines := strings.Split(existing, "\n")
	out := make([]string, 0, len(lines))
	changed := false
	scanTOML(lines, func(_ int, line, section, key string) {
		if key == "" {
			out = append(out, line)
			return
		}
		full := key
		if section != "" {
			full = section + "." + key
		}
		seen[full] = true
		if known[full] {
			out = append(out, line)
			return
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		out = append(out,
			indent+"# OUTDATED: option removed from config schema",
			indent+"# "+strings.TrimLeft(line, " \t"))
		changed = true
	})

	for _, o := range opts {
		if seen[o.Key] {
			continue
		}
		section, name := splitKey(o.Key)
		block := appendOption(nil, ConfigOption{Key: name, Default: o.Default, Comment: o.Comment})
		if section != "" {
			// keys inside a table stay together
			block = block[:len(block)-1]
		}
		out = insertInTable(out, section, block)
		changed = true
	}
	return strings.Join(out, "\n"), changed
}

// SetOption writes key = value into a TOML document, replacing an existing
// assignment or adding one at the end of the right table.
func SetOption(existing, key string, value any) (string, error) {
	if _, ok := LookupOption(key); !ok {
		return existing, fmt.Errorf("unknown config key %q", key)
	}
	section, name := splitKey(key)
	line := assignment(name, value)

	lines := strings.Split(existing, "\n")
	replaced := -1
	scanTOML(lines, func(i int, _, current, k string) {
		if replaced < 0 && current == section && k == name {
			replaced = i
		}
	})
	if replaced >= 0 {
		lines[replaced] = line
		return strings.Join(lines, "\n"), nil
	}
	return strings.Join(insertInTable(lines, section, []string{line}), "\n"), nil
}

// tableEnd returns where a new key of section goes: after its last non-blank
// line, or -1 when the table is absent. Top-level keys go before the first
// table header.
func tableEnd(lines []string, section string) int {
	end := -1
	if section == "" {
		end = len(lines)
	}
	scanTOML(lines, func(i int, _, current, _ string) {
		switch {
		case section == "" && current != "" && end == len(lines):
			end = i
		case section != "" && current == section:
			end = i + 1
		}
	})
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return end
}

// insertInTable adds block to the end of section, creating the table at the
// end of the document when it does not exist yet.
func insertInTable(lines []string, section string, block []string) []string {
	if at := tableEnd(lines, section); at >= 0 {
		out := make([]string, 0, len(lines)+len(block))
		out = append(out, lines[:at]...)
		out = append(out, block...)
		return append(out, lines[at:]...)
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > 0 {
		lines = append(lines, "")
	}
	lines = append(lines, "["+section+"]")
	return append(lines, block...)
}

func parseTOMLKey(line string) (string, bool) {
	idx := strings.Index(line, "=")
	if idx == -1 {
		return "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.HasPrefix(key, "#") || strings.HasPrefix(key, "[") {
		return "", false
	}
	if strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}

func isSectionHeader(trim string) bool {
	if trim == "" || strings.HasPrefix(trim, "#") || strings.HasPrefix(trim, ";") {
		return false
	}
	return strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]")
}
