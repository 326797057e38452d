package xmldom

import (
	"encoding/xml"
	"fmt"
	"io"
	"unicode"

	"github.com/AndrewChristensenFCBH/libpalaso/internal/xmlnames"
)

// Parse builds a mutable document tree from XML input. Namespace prefixes on
// element and attribute names are resolved to URIs; the declarations
// themselves are kept as attributes so the original prefixes can be
// reconstructed when serializing.
func Parse(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)

	doc := &Document{}
	var stack []*Element
	rootClosed := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if rootClosed {
				return nil, fmt.Errorf("unexpected element %s after document end", t.Name.Local)
			}
			elem := &Element{
				space: t.Name.Space,
				local: t.Name.Local,
				attrs: convertAttrs(t.Attr),
			}
			if len(stack) > 0 {
				stack[len(stack)-1].AppendChild(elem)
			} else {
				doc.root = elem
			}
			stack = append(stack, elem)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
				if len(stack) == 0 && doc.root != nil {
					rootClosed = true
				}
			}

		case xml.CharData:
			if len(stack) == 0 {
				if !isIgnorableOutsideRoot(string(t)) {
					return nil, fmt.Errorf("unexpected character data outside root element")
				}
				continue
			}
			appendText(stack[len(stack)-1], string(t))

		case xml.Comment:
			switch {
			case len(stack) > 0:
				stack[len(stack)-1].AppendChild(Comment(t))
			case rootClosed:
				doc.epilog = append(doc.epilog, Comment(t))
			default:
				doc.prolog = append(doc.prolog, Comment(t))
			}

		case xml.ProcInst, xml.Directive:
			// Processing instructions and DTD directives are not part of
			// the formats this tree carries; they are dropped.
		}
	}

	if doc.root == nil {
		return nil, io.ErrUnexpectedEOF
	}

	return doc, nil
}

func appendText(e *Element, s string) {
	if len(e.nodes) > 0 {
		if t, ok := e.nodes[len(e.nodes)-1].(Text); ok {
			e.nodes[len(e.nodes)-1] = Text(string(t) + s)
			return
		}
	}
	e.nodes = append(e.nodes, Text(s))
}

func isIgnorableOutsideRoot(data string) bool {
	for _, r := range data {
		if r == '\uFEFF' {
			continue
		}
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func convertAttrs(xmlAttrs []xml.Attr) []Attr {
	attrs := make([]Attr, 0, len(xmlAttrs))
	for _, a := range xmlAttrs {
		space := a.Name.Space
		if space == "xmlns" || (space == "" && a.Name.Local == "xmlns") {
			space = xmlnames.XMLNSNamespace
		}
		attrs = append(attrs, Attr{
			Space: space,
			Local: a.Name.Local,
			Value: a.Value,
		})
	}
	return attrs
}
