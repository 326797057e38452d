// Package xmldom provides the mutable XML document tree the LDML mapper
// reads, selectively rewrites, and serializes. Elements, text runs, and
// comments are kept as ordered child nodes so content the mapper does not
// understand survives a rewrite untouched.
package xmldom

import (
	"strings"
	"unicode"
)

// Node is a child of an element: *Element, Text, or Comment.
type Node interface {
	node()
}

// Text is a run of character data directly under an element.
type Text string

func (Text) node() {}

// Comment is an XML comment; the value excludes the <!-- --> delimiters.
type Comment string

func (Comment) node() {}

// Attr is a named attribute. Namespace declarations are stored as attributes
// in the xmlns namespace: the default declaration under local name "xmlns",
// prefixed declarations under the prefix as local name.
type Attr struct {
	Space string
	Local string
	Value string
}

// Element is a mutable element node.
type Element struct {
	space  string
	local  string
	attrs  []Attr
	nodes  []Node
	parent *Element
}

// NewElement creates a detached element in the given namespace.
func NewElement(space, local string) *Element {
	return &Element{space: space, local: local}
}

func (*Element) node() {}

// Namespace returns the element's namespace URI ("" for no namespace).
func (e *Element) Namespace() string {
	return e.space
}

// LocalName returns the element's local name.
func (e *Element) LocalName() string {
	return e.local
}

// Parent returns the parent element; nil for a root or detached element.
func (e *Element) Parent() *Element {
	if e == nil {
		return nil
	}
	return e.parent
}

// Is reports whether the element has the given namespace and local name.
func (e *Element) Is(space, local string) bool {
	return e != nil && e.space == space && e.local == local
}

// Nodes returns a copy of the child node list.
func (e *Element) Nodes() []Node {
	if e == nil {
		return nil
	}
	return append([]Node(nil), e.nodes...)
}

// Children returns all child elements in document order.
func (e *Element) Children() []*Element {
	if e == nil {
		return nil
	}
	var out []*Element
	for _, n := range e.nodes {
		if c, ok := n.(*Element); ok {
			out = append(out, c)
		}
	}
	return out
}

// ChildrenNamed returns the child elements matching space and local name.
func (e *Element) ChildrenNamed(space, local string) []*Element {
	if e == nil {
		return nil
	}
	var out []*Element
	for _, n := range e.nodes {
		if c, ok := n.(*Element); ok && c.space == space && c.local == local {
			out = append(out, c)
		}
	}
	return out
}

// Child returns the first child element matching space and local name, or nil.
func (e *Element) Child(space, local string) *Element {
	if e == nil {
		return nil
	}
	for _, n := range e.nodes {
		if c, ok := n.(*Element); ok && c.space == space && c.local == local {
			return c
		}
	}
	return nil
}

// AppendChild adds n as the last child. An element child is reparented.
func (e *Element) AppendChild(n Node) {
	if n == nil {
		return
	}
	if c, ok := n.(*Element); ok {
		c.detach()
		c.parent = e
	}
	e.nodes = append(e.nodes, n)
}

// InsertBefore inserts n immediately before ref. A nil ref appends.
func (e *Element) InsertBefore(n, ref Node) {
	if n == nil {
		return
	}
	if c, ok := n.(*Element); ok {
		c.detach()
		c.parent = e
	}
	idx := e.indexOf(ref)
	if idx < 0 {
		e.nodes = append(e.nodes, n)
		return
	}
	e.nodes = append(e.nodes, nil)
	copy(e.nodes[idx+1:], e.nodes[idx:])
	e.nodes[idx] = n
}

// RemoveChild removes n from the child list and reports whether it was found.
func (e *Element) RemoveChild(n Node) bool {
	idx := e.indexOf(n)
	if idx < 0 {
		return false
	}
	if c, ok := n.(*Element); ok {
		c.parent = nil
	}
	e.nodes = append(e.nodes[:idx], e.nodes[idx+1:]...)
	return true
}

// RemoveChildrenNamed removes every child element matching space and local name.
func (e *Element) RemoveChildrenNamed(space, local string) {
	if e == nil {
		return
	}
	kept := e.nodes[:0]
	for _, n := range e.nodes {
		if c, ok := n.(*Element); ok && c.space == space && c.local == local {
			c.parent = nil
			continue
		}
		kept = append(kept, n)
	}
	e.nodes = kept
}

// Attr returns the value of the named attribute, or "".
func (e *Element) Attr(space, local string) string {
	if e == nil {
		return ""
	}
	for _, a := range e.attrs {
		if a.Space == space && a.Local == local {
			return a.Value
		}
	}
	return ""
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(space, local string) bool {
	if e == nil {
		return false
	}
	for _, a := range e.attrs {
		if a.Space == space && a.Local == local {
			return true
		}
	}
	return false
}

// SetAttr sets the named attribute, replacing an existing value in place.
func (e *Element) SetAttr(space, local, value string) {
	for i := range e.attrs {
		if e.attrs[i].Space == space && e.attrs[i].Local == local {
			e.attrs[i].Value = value
			return
		}
	}
	e.attrs = append(e.attrs, Attr{Space: space, Local: local, Value: value})
}

// RemoveAttr removes the named attribute and reports whether it was present.
func (e *Element) RemoveAttr(space, local string) bool {
	for i := range e.attrs {
		if e.attrs[i].Space == space && e.attrs[i].Local == local {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			return true
		}
	}
	return false
}

// Attrs returns a copy of the attribute list in document order.
func (e *Element) Attrs() []Attr {
	if e == nil {
		return nil
	}
	return append([]Attr(nil), e.attrs...)
}

// Text returns the concatenated direct text content.
func (e *Element) Text() string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	for _, n := range e.nodes {
		if t, ok := n.(Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}

// SetText drops existing text runs and, for a non-empty s, inserts a single
// run ahead of any other children.
func (e *Element) SetText(s string) {
	kept := e.nodes[:0]
	for _, n := range e.nodes {
		if _, ok := n.(Text); ok {
			continue
		}
		kept = append(kept, n)
	}
	e.nodes = kept
	if s == "" {
		return
	}
	e.nodes = append(e.nodes, nil)
	copy(e.nodes[1:], e.nodes)
	e.nodes[0] = Text(s)
}

// IsEmpty reports whether the element carries no attributes, no element or
// comment children, and no text beyond whitespace. The writer prunes
// regenerated section elements that end up empty.
func (e *Element) IsEmpty() bool {
	if e == nil {
		return true
	}
	if len(e.attrs) > 0 {
		return false
	}
	for _, n := range e.nodes {
		switch t := n.(type) {
		case Text:
			if strings.ContainsFunc(string(t), func(r rune) bool { return !unicode.IsSpace(r) }) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (e *Element) indexOf(n Node) int {
	if n == nil {
		return -1
	}
	for i, c := range e.nodes {
		if c == n {
			return i
		}
	}
	return -1
}

func (e *Element) detach() {
	if e.parent != nil {
		e.parent.RemoveChild(e)
	}
}

// Document is one parsed or constructed XML document. Comments outside the
// root element are retained so a rewrite does not drop file headers.
type Document struct {
	prolog []Node
	root   *Element
	epilog []Node
}

// NewDocument returns a document with the given root element.
func NewDocument(root *Element) *Document {
	return &Document{root: root}
}

// Root returns the document element.
func (d *Document) Root() *Element {
	if d == nil {
		return nil
	}
	return d.root
}

// SetRoot replaces the document element.
func (d *Document) SetRoot(e *Element) {
	d.root = e
}
