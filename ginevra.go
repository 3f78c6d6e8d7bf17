/*
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package ginevra implements a single-pass #define text preprocessor.
// It tokenizes its input, records `#define NAME VALUE` directives in a
// macro table, and re-emits the token stream with every defined name
// replaced by its value. There is no recursive expansion, no
// function-like macros and no #include or conditional processing.
package ginevra

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ginevra-pp/ginevra/internal/scanner"
)

// ErrPrematureEOF reports input that ends directly after a #define,
// before a macro name could be read.
var ErrPrematureEOF = errors.New("premature end of file after #define")

// Processor drives the scanner and owns the macro table. Transformed
// text goes to out; warnings and errors go to errw, one per line,
// prefixed "warning:" or "error:".
type Processor struct {
	// ResolveDefinitions replaces already-defined macro names inside a
	// #define value once, at definition time. Substituted output is
	// never re-expanded; this is not recursive expansion.
	ResolveDefinitions bool

	macros map[string]string
	out    io.Writer
	errw   io.Writer
}

func New(out, errw io.Writer) *Processor {
	return &Processor{
		macros: map[string]string{},
		out:    out,
		errw:   errw,
	}
}

// Define adds or overwrites a macro. The CLI uses it for -D predefines.
func (p *Processor) Define(name, value string) {
	p.macros[name] = value
}

// Run pulls tokens from r until end of input, applying directives and
// substitutions. Output is buffered and written to out only on
// success, so a fatal scan error emits no partial token. Non-fatal
// conditions (redefinition, malformed string, #define without an
// identifier) are reported to errw and processing continues.
func (p *Processor) Run(r io.Reader) error {
	s := scanner.New(r)
	var out bytes.Buffer

	for {
		tok, err := s.Next()
		if err != nil {
			return err
		}
		if tok.Kind == scanner.KindEOF {
			break
		}

		switch {
		case tok.Kind == scanner.KindIdentifier && tok.Column == 1 && strings.HasPrefix(tok.Text, "#"):
			// a '#' word is a directive only in column 1; anywhere
			// else it is ordinary text
			if tok.Text != "#define" {
				fmt.Fprintf(p.errw, "warning: # in column 1, but not a #define\n")
				out.WriteString(tok.Text + " " + strings.TrimSpace(s.NextLine()) + "\n")
				continue
			}
			if err := p.define(s, &out); err != nil {
				return err
			}

		case tok.Kind == scanner.KindIdentifier:
			if value, ok := p.macros[tok.Text]; ok {
				out.WriteString(value + " ")
			} else {
				out.WriteString(tok.Text + " ")
			}

		case tok.Kind == scanner.KindBad:
			fmt.Fprintf(p.errw, "error: malformed string\n")

		default:
			out.WriteString(tok.Text)
		}
	}

	_, err := p.out.Write(out.Bytes())
	return err
}

// define handles the tokens following a #define directive: the macro
// name, then the raw remainder of the line as its value.
func (p *Processor) define(s *scanner.Scanner, out *bytes.Buffer) error {
	name, err := s.Next()
	if err != nil {
		return err
	}
	switch {
	case name.Kind == scanner.KindEOF:
		return ErrPrematureEOF
	case name.Kind == scanner.KindNewline:
		fmt.Fprintf(p.errw, "error: premature end of #define\n")
		return nil
	case name.Kind != scanner.KindIdentifier:
		// echo the non-conforming symbol/value pair rather than abort
		fmt.Fprintf(p.errw, "error: expected identifier after #define\n")
		out.WriteString(name.Text + " " + strings.TrimSpace(s.NextLine()) + "\n")
		return nil
	}

	value := strings.TrimSpace(s.NextLine())
	if p.ResolveDefinitions {
		value = replaceIdents(value, p.macros)
	}
	if _, ok := p.macros[name.Text]; ok {
		fmt.Fprintf(p.errw, "warning: symbol %s redefined\n", name.Text)
	}
	p.macros[name.Text] = value
	return nil
}

// replaceIdents rewrites identifiers in s through repl, leaving quoted
// strings and block comments untouched.
func replaceIdents(s string, repl map[string]string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		ch := s[i]
		if ch == '"' || ch == '\'' {
			quote := ch
			b.WriteByte(ch)
			i++
			for i < len(s) {
				ch = s[i]
				b.WriteByte(ch)
				i++
				if ch == '\\' && i < len(s) {
					b.WriteByte(s[i])
					i++
					continue
				}
				if ch == quote {
					break
				}
			}
			continue
		}
		if ch == '/' && i+1 < len(s) && s[i+1] == '*' {
			b.WriteString(s[i : i+2])
			i += 2
			for i < len(s) {
				ch = s[i]
				b.WriteByte(ch)
				i++
				if ch == '*' && i < len(s) && s[i] == '/' {
					b.WriteByte(s[i])
					i++
					break
				}
			}
			continue
		}
		if isIdentStart(ch) {
			j := i + 1
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			name := s[i:j]
			if val, ok := repl[name]; ok {
				b.WriteString(val)
			} else {
				b.WriteString(name)
			}
			i = j
			continue
		}
		b.WriteByte(ch)
		i++
	}
	return b.String()
}

func isIdentStart(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || b == '.' || (b >= '0' && b <= '9')
}
