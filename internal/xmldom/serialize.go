package xmldom

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/AndrewChristensenFCBH/libpalaso/internal/xmlnames"
)

const xmlDeclaration = `<?xml version="1.0" encoding="utf-8"?>`

// Serialize writes the document as tab-indented UTF-8 XML. Element and
// attribute prefixes are reconstructed from the namespace declarations held
// in the tree; a namespace with no in-scope declaration gets a synthesized
// one. Code points outside the XML 1.0 Char production are written as
// numeric character references, one reference per code point.
func Serialize(d *Document, w io.Writer) error {
	if d == nil || d.root == nil {
		return fmt.Errorf("serialize: document has no root element")
	}
	bw := bufio.NewWriter(w)
	bw.WriteString(xmlDeclaration)
	bw.WriteByte('\n')
	for _, n := range d.prolog {
		if c, ok := n.(Comment); ok {
			writeComment(bw, c)
			bw.WriteByte('\n')
		}
	}
	ns := &nsStack{}
	writeElement(bw, d.root, 0, ns)
	bw.WriteByte('\n')
	for _, n := range d.epilog {
		if c, ok := n.(Comment); ok {
			writeComment(bw, c)
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

type nsBinding struct {
	prefix string
	uri    string
}

type nsStack struct {
	scopes [][]nsBinding
}

func (s *nsStack) push(e *Element) {
	var scope []nsBinding
	for _, a := range e.attrs {
		if a.Space != xmlnames.XMLNSNamespace {
			continue
		}
		if a.Local == xmlnames.XMLNSPrefix {
			scope = append(scope, nsBinding{prefix: "", uri: a.Value})
		} else {
			scope = append(scope, nsBinding{prefix: a.Local, uri: a.Value})
		}
	}
	s.scopes = append(s.scopes, scope)
}

func (s *nsStack) pop() {
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// declare adds a binding to the innermost scope.
func (s *nsStack) declare(prefix, uri string) {
	last := len(s.scopes) - 1
	s.scopes[last] = append(s.scopes[last], nsBinding{prefix: prefix, uri: uri})
}

// uriFor resolves a prefix to its in-scope namespace URI.
func (s *nsStack) uriFor(prefix string) (string, bool) {
	if prefix == xmlnames.XMLPrefix {
		return xmlnames.XMLNamespace, true
	}
	for i := len(s.scopes) - 1; i >= 0; i-- {
		scope := s.scopes[i]
		for j := len(scope) - 1; j >= 0; j-- {
			if scope[j].prefix == prefix {
				return scope[j].uri, true
			}
		}
	}
	return "", false
}

// defaultURI returns the in-scope default namespace ("" when none).
func (s *nsStack) defaultURI() string {
	uri, ok := s.uriFor("")
	if !ok {
		return ""
	}
	return uri
}

// prefixFor finds an unshadowed in-scope prefix bound to uri. The default
// declaration is only usable for element names.
func (s *nsStack) prefixFor(uri string, includeDefault bool) (string, bool) {
	if uri == xmlnames.XMLNamespace {
		return xmlnames.XMLPrefix, true
	}
	for i := len(s.scopes) - 1; i >= 0; i-- {
		for _, b := range s.scopes[i] {
			if b.uri != uri {
				continue
			}
			if b.prefix == "" && !includeDefault {
				continue
			}
			if resolved, ok := s.uriFor(b.prefix); ok && resolved == uri {
				return b.prefix, true
			}
		}
	}
	return "", false
}

func (s *nsStack) synthesize(uri string, extra *[]Attr) string {
	prefix := ""
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("ns%d", i)
		if _, taken := s.uriFor(candidate); !taken {
			prefix = candidate
			break
		}
	}
	s.declare(prefix, uri)
	*extra = append(*extra, Attr{Space: xmlnames.XMLNSNamespace, Local: prefix, Value: uri})
	return prefix
}

// writeElement emits one element. A negative depth means inline mode: no
// indentation is introduced, preserving mixed text-and-element content.
func writeElement(bw *bufio.Writer, e *Element, depth int, ns *nsStack) {
	ns.push(e)
	defer ns.pop()

	var extra []Attr
	name := elementName(e, ns, &extra)

	bw.WriteByte('<')
	bw.WriteString(name)
	for _, a := range e.attrs {
		writeAttr(bw, attrName(a, ns, &extra), a.Value)
	}
	for _, a := range extra {
		writeAttr(bw, attrName(a, ns, &extra), a.Value)
	}

	text := e.Text()
	children := false
	mixed := strings.TrimSpace(text) != ""
	for _, n := range e.nodes {
		switch n.(type) {
		case *Element, Comment:
			children = true
		}
	}

	switch {
	case !children && text == "":
		bw.WriteString("/>")
	case !children:
		bw.WriteByte('>')
		escapeText(bw, text)
		bw.WriteString("</")
		bw.WriteString(name)
		bw.WriteByte('>')
	case mixed || depth < 0:
		// Mixed content is reproduced as-is; re-indenting would alter it.
		bw.WriteByte('>')
		for _, n := range e.nodes {
			switch c := n.(type) {
			case Text:
				escapeText(bw, string(c))
			case Comment:
				writeComment(bw, c)
			case *Element:
				writeElement(bw, c, -1, ns)
			}
		}
		bw.WriteString("</")
		bw.WriteString(name)
		bw.WriteByte('>')
	default:
		bw.WriteByte('>')
		for _, n := range e.nodes {
			switch c := n.(type) {
			case Text:
				// Whitespace between child elements is formatting.
			case Comment:
				bw.WriteByte('\n')
				writeIndent(bw, depth+1)
				writeComment(bw, c)
			case *Element:
				bw.WriteByte('\n')
				writeIndent(bw, depth+1)
				writeElement(bw, c, depth+1, ns)
			}
		}
		bw.WriteByte('\n')
		writeIndent(bw, depth)
		bw.WriteString("</")
		bw.WriteString(name)
		bw.WriteByte('>')
	}
}

func elementName(e *Element, ns *nsStack, extra *[]Attr) string {
	if e.space == "" {
		if ns.defaultURI() != "" {
			// Re-establish no-namespace for this subtree.
			ns.declare("", "")
			*extra = append(*extra, Attr{Space: xmlnames.XMLNSNamespace, Local: xmlnames.XMLNSPrefix, Value: ""})
		}
		return e.local
	}
	if prefix, ok := ns.prefixFor(e.space, true); ok {
		if prefix == "" {
			return e.local
		}
		return prefix + ":" + e.local
	}
	return ns.synthesize(e.space, extra) + ":" + e.local
}

func attrName(a Attr, ns *nsStack, extra *[]Attr) string {
	switch a.Space {
	case "":
		return a.Local
	case xmlnames.XMLNSNamespace:
		if a.Local == xmlnames.XMLNSPrefix {
			return xmlnames.XMLNSPrefix
		}
		return xmlnames.XMLNSPrefix + ":" + a.Local
	case xmlnames.XMLNamespace:
		return xmlnames.XMLPrefix + ":" + a.Local
	}
	if prefix, ok := ns.prefixFor(a.Space, false); ok {
		return prefix + ":" + a.Local
	}
	return ns.synthesize(a.Space, extra) + ":" + a.Local
}

func writeAttr(bw *bufio.Writer, name, value string) {
	bw.WriteByte(' ')
	bw.WriteString(name)
	bw.WriteString(`="`)
	escapeAttr(bw, value)
	bw.WriteByte('"')
}

func writeComment(bw *bufio.Writer, c Comment) {
	bw.WriteString("<!--")
	bw.WriteString(string(c))
	bw.WriteString("-->")
}

func writeIndent(bw *bufio.Writer, depth int) {
	for i := 0; i < depth; i++ {
		bw.WriteByte('\t')
	}
}

func escapeText(bw *bufio.Writer, s string) {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == '&':
			bw.WriteString("&amp;")
		case r == '<':
			bw.WriteString("&lt;")
		case r == '>':
			bw.WriteString("&gt;")
		case r == '\r':
			bw.WriteString("&#xD;")
		case r == utf8.RuneError && size == 1:
			bw.WriteRune(utf8.RuneError)
		case !isValidXMLChar(r):
			fmt.Fprintf(bw, "&#x%X;", r)
		default:
			bw.WriteRune(r)
		}
	}
}

func escapeAttr(bw *bufio.Writer, s string) {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == '&':
			bw.WriteString("&amp;")
		case r == '<':
			bw.WriteString("&lt;")
		case r == '>':
			bw.WriteString("&gt;")
		case r == '"':
			bw.WriteString("&quot;")
		case r == '\t':
			bw.WriteString("&#x9;")
		case r == '\n':
			bw.WriteString("&#xA;")
		case r == '\r':
			bw.WriteString("&#xD;")
		case r == utf8.RuneError && size == 1:
			bw.WriteRune(utf8.RuneError)
		case !isValidXMLChar(r):
			fmt.Fprintf(bw, "&#x%X;", r)
		default:
			bw.WriteRune(r)
		}
	}
}

// isValidXMLChar reports whether r matches the XML 1.0 Char production,
// which excludes most control codes.
func isValidXMLChar(r rune) bool {
	switch {
	case r == 0x9 || r == 0xA || r == 0xD:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	default:
		return false
	}
}
