// Package javasyntax extracts declaration spans from Java source files.
//
// The checks only need to know where structural units (types, fields,
// constructors, methods, static initializers) start and end, where their
// bodies sit, and which line a preceding doc comment must lie below. This
// package derives exactly that from a tree-sitter Java syntax tree so the
// checks never touch the parser directly.
package javasyntax

import (
	"context"
	"errors"
	"fmt"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsjava "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// ErrParseFailed is returned when the parser produced no tree at all.
var ErrParseFailed = errors.New("java parse failed")

// SyntaxError reports the first malformed construct in a source file.
type SyntaxError struct {
	// Row is the 0-based row of the first error node.
	Row int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d", e.Row+1)
}

// Kind classifies a declaration.
type Kind int

const (
	KindClass Kind = iota
	KindInterface
	KindEnum
	KindRecord
	KindAnnotation
	KindField
	KindConstructor
	KindMethod
	KindStaticInitializer
)

var kindNames = [...]string{
	KindClass:             "class",
	KindInterface:         "interface",
	KindEnum:              "enum",
	KindRecord:            "record",
	KindAnnotation:        "annotation",
	KindField:             "field",
	KindConstructor:       "constructor",
	KindMethod:            "method",
	KindStaticInitializer: "static-initializer",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsType reports whether the declaration introduces a type.
func (k Kind) IsType() bool {
	return k <= KindAnnotation
}

// IsCallable reports whether the declaration has an executable body.
func (k Kind) IsCallable() bool {
	return k == KindConstructor || k == KindMethod || k == KindStaticInitializer
}

// Span is an inclusive range of 0-based rows.
type Span struct {
	Start int
	End   int
}

// Contains reports whether row lies within the span.
func (s Span) Contains(row int) bool {
	return row >= s.Start && row <= s.End
}

// Declaration is the line range of one structural code unit.
type Declaration struct {
	Kind Kind
	Name string

	// Span covers the whole declaration, modifiers and annotations included.
	Span Span

	// Body covers the braces of the declaration body. Nil for fields and
	// bodiless (abstract or interface) methods.
	Body *Span

	// Parent is the enclosing declaration, nil at top level.
	Parent *Declaration

	// Floor is the last row that belongs to whatever precedes the declaration
	// in its scope: the end of the previous sibling, the opening line of the
	// enclosing body, or -1 for the first top-level element. A doc comment
	// for this declaration must end strictly below Floor.
	Floor int
}

// Line returns the 0-based row the declaration starts on.
func (d *Declaration) Line() int {
	return d.Span.Start
}

// TopLevel reports whether the declaration has no enclosing declaration.
func (d *Declaration) TopLevel() bool {
	return d.Parent == nil
}

// File holds the declarations of one source file in source order; outer
// declarations come before the ones they contain.
type File struct {
	Declarations []*Declaration
}

// Callables returns the constructors, methods and static initializers.
func (f *File) Callables() []*Declaration {
	var out []*Declaration
	for _, d := range f.Declarations {
		if d.Kind.IsCallable() {
			out = append(out, d)
		}
	}
	return out
}

var declarationKinds = map[string]Kind{
	"class_declaration":               KindClass,
	"interface_declaration":           KindInterface,
	"enum_declaration":                KindEnum,
	"record_declaration":              KindRecord,
	"annotation_type_declaration":     KindAnnotation,
	"field_declaration":               KindField,
	"constant_declaration":            KindField,
	"constructor_declaration":         KindConstructor,
	"compact_constructor_declaration": KindConstructor,
	"method_declaration":              KindMethod,
	"static_initializer":              KindStaticInitializer,
}

var language = ts.NewLanguage(tsjava.Language())

// Parse builds the declaration list for Java source.
//
// Tree-sitter recovers from malformed input, but spans around an error node
// are unreliable, so any error in the tree is reported as a *SyntaxError and
// no declarations are returned. The context is checked before and after
// parsing; the parse itself is not interruptible.
//
// Parse is safe for concurrent use: every call owns its parser.
func Parse(ctx context.Context, source []byte) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}

	parser := ts.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("load java grammar: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, ErrParseFailed
	}
	defer tree.Close()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled: %w", err)
	}

	root := tree.RootNode()
	if root == nil {
		return nil, ErrParseFailed
	}
	if root.HasError() {
		return nil, &SyntaxError{Row: firstErrorRow(root)}
	}

	w := &walker{source: source}
	w.walk(root, nil, -1)
	return &File{Declarations: w.out}, nil
}

type walker struct {
	source []byte
	out    []*Declaration
}

// walk visits the children of n. floor is the row preceding the first child:
// the enclosing node's start row, or -1 at the top of the file.
func (w *walker) walk(n *ts.Node, owner *Declaration, floor int) {
	prev := floor
	for i := range n.ChildCount() {
		child := n.Child(i)
		if child == nil || isComment(child) {
			continue
		}

		inner := owner
		if kind, ok := declarationKinds[child.Kind()]; ok {
			d := &Declaration{
				Kind:   kind,
				Name:   w.name(child, kind),
				Span:   spanOf(child),
				Parent: owner,
				Floor:  prev,
			}
			if body := bodyOf(child, kind); body != nil {
				s := spanOf(body)
				d.Body = &s
			}
			w.out = append(w.out, d)
			inner = d
		}

		w.walk(child, inner, int(child.StartPosition().Row))
		prev = int(child.EndPosition().Row)
	}
}

func (w *walker) name(n *ts.Node, kind Kind) string {
	switch kind {
	case KindStaticInitializer:
		return "static"
	case KindField:
		if decl := n.ChildByFieldName("declarator"); decl != nil {
			if id := decl.ChildByFieldName("name"); id != nil {
				return id.Utf8Text(w.source)
			}
		}
		return ""
	default:
		if id := n.ChildByFieldName("name"); id != nil {
			return id.Utf8Text(w.source)
		}
		return ""
	}
}

func bodyOf(n *ts.Node, kind Kind) *ts.Node {
	switch kind {
	case KindField:
		return nil
	case KindStaticInitializer:
		for i := range n.NamedChildCount() {
			if c := n.NamedChild(i); c != nil && c.Kind() == "block" {
				return c
			}
		}
		return nil
	default:
		return n.ChildByFieldName("body")
	}
}

func spanOf(n *ts.Node) Span {
	return Span{Start: int(n.StartPosition().Row), End: int(n.EndPosition().Row)}
}

func isComment(n *ts.Node) bool {
	k := n.Kind()
	return k == "line_comment" || k == "block_comment"
}

func firstErrorRow(n *ts.Node) int {
	if n.IsError() || n.IsMissing() {
		return int(n.StartPosition().Row)
	}
	for i := range n.ChildCount() {
		if c := n.Child(i); c != nil && c.HasError() {
			return firstErrorRow(c)
		}
	}
	return int(n.StartPosition().Row)
}
