package ldml

import (
	"strings"

	liberrors "github.com/AndrewChristensenFCBH/libpalaso/errors"
	"github.com/AndrewChristensenFCBH/libpalaso/internal/xmldom"
	"github.com/AndrewChristensenFCBH/libpalaso/internal/xmlnames"
	"github.com/AndrewChristensenFCBH/libpalaso/writingsystems"
)

func readCollations(collations *xmldom.Element, ws *writingsystems.Definition) error {
	ws.ClearCollations()

	defaultType := childText(collations, "defaultCollation")
	if defaultType == "" {
		defaultType = standardCollationType
	}

	for _, collation := range collations.ChildrenNamed("", "collation") {
		def, ok, err := readCollation(collation)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := ws.AddCollation(def); err != nil {
			return liberrors.NewConversionf(liberrors.ErrFormat, "collations/collation", "%v", err)
		}
	}

	// A defaultCollation pointing at a type that was not read stays
	// unresolved; the model then falls back to its first collation.
	for _, def := range ws.Collations() {
		if def.Type() == defaultType {
			if err := ws.SetDefaultCollation(defaultType); err != nil {
				return liberrors.NewConversionf(liberrors.ErrFormat, "collations", "%v", err)
			}
			break
		}
	}
	return nil
}

// readCollation decodes one collation element. The shape is decided by the
// first element of the collation's special block: sil:inherited, sil:simple,
// or sil:reordered. Reordered collations have no model shape; the second
// result is false for them. Any other leading element, or no special block at
// all, means plain ICU rule text.
func readCollation(collation *xmldom.Element) (writingsystems.CollationDefinition, bool, error) {
	collationType := collation.Attr("", "type")
	if collationType == "" {
		collationType = standardCollationType
	}
	needsCompiling, err := parseBoolAttr("collations/collation", collation.Attr(xmlnames.SilNamespace, "needscompiling"))
	if err != nil {
		return nil, false, err
	}

	if first := firstSpecialElement(collation); first != nil {
		switch {
		case first.Is(xmlnames.SilNamespace, "inherited"):
			return writingsystems.InheritedCollation{
				CollationType: collationType,
				BaseTag:       first.Attr("", "base"),
				BaseType:      first.Attr("", "type"),
			}, true, nil
		case first.Is(xmlnames.SilNamespace, "simple"):
			return writingsystems.SimpleCollation{
				CollationType: collationType,
				SimpleRules:   first.Text(),
			}, true, nil
		case first.Is(xmlnames.SilNamespace, "reordered"):
			return nil, false, nil
		}
	}

	var rules string
	if cr := collation.Child("", "cr"); cr != nil {
		rules = cr.Text()
	}
	return writingsystems.IcuCollation{
		CollationType: collationType,
		IcuRules:      rules,
		Valid:         !needsCompiling,
	}, true, nil
}

// firstSpecialElement returns the first element held by the collation's
// special blocks, skipping blocks that carry none.
func firstSpecialElement(collation *xmldom.Element) *xmldom.Element {
	for _, special := range collation.ChildrenNamed("", "special") {
		if children := special.Children(); len(children) > 0 {
			return children[0]
		}
	}
	return nil
}

func writeCollations(root *xmldom.Element, ws *writingsystems.Definition) {
	defs := ws.Collations()
	collations := root.Child("", "collations")
	if collations == nil {
		if len(defs) == 0 {
			return
		}
		collations = ensureChild(root, "", "collations", rootOrder)
	}

	collations.RemoveChildrenNamed("", "defaultCollation")

	written := make(map[*xmldom.Element]bool, len(defs))
	for _, def := range defs {
		target := findCollation(collations, def.Type())
		if target == nil {
			target = xmldom.NewElement("", "collation")
			insertOrdered(collations, target, collationsOrder)
		}
		writeCollation(target, def)
		written[target] = true
	}

	if def, ok := ws.DefaultCollation(); ok {
		dc := xmldom.NewElement("", "defaultCollation")
		dc.SetText(def.Type())
		insertOrdered(collations, dc, collationsOrder)
	}

	// Reordering directives have no model shape: drop them from collation
	// elements this pass did not regenerate, then prune whatever that
	// leaves behind.
	for _, collation := range collations.ChildrenNamed("", "collation") {
		if written[collation] {
			continue
		}
		for _, special := range collation.ChildrenNamed("", "special") {
			special.RemoveChildrenNamed(xmlnames.SilNamespace, "reordered")
			pruneEmpty(collation, special)
		}
		if emptiedByRewrite(collation) {
			collations.RemoveChild(collation)
		}
	}
	pruneEmpty(root, collations)
}

// findCollation matches by type attribute, an absent attribute counting as
// the standard type.
func findCollation(collations *xmldom.Element, collationType string) *xmldom.Element {
	for _, c := range collations.ChildrenNamed("", "collation") {
		t := c.Attr("", "type")
		if t == "" {
			t = standardCollationType
		}
		if t == collationType {
			return c
		}
	}
	return nil
}

func writeCollation(collation *xmldom.Element, def writingsystems.CollationDefinition) {
	collation.SetAttr("", "type", def.Type())
	collation.RemoveChildrenNamed("", "cr")
	for _, special := range collation.ChildrenNamed("", "special") {
		special.RemoveChildrenNamed(xmlnames.SilNamespace, "inherited")
		special.RemoveChildrenNamed(xmlnames.SilNamespace, "simple")
		special.RemoveChildrenNamed(xmlnames.SilNamespace, "reordered")
	}

	// This mapper never compiles rules, so only plain ICU collations can be
	// marked valid.
	switch c := def.(type) {
	case writingsystems.IcuCollation:
		setOptionalAttr(collation, xmlnames.SilNamespace, "needscompiling", boolAttr(!c.Valid))
		if c.IcuRules != "" {
			cr := xmldom.NewElement("", "cr")
			cr.SetText(c.IcuRules)
			insertOrdered(collation, cr, collationOrder)
		}
	case writingsystems.SimpleCollation:
		collation.SetAttr(xmlnames.SilNamespace, "needscompiling", "true")
		special := ensureChild(collation, "", "special", collationOrder)
		simple := xmldom.NewElement(xmlnames.SilNamespace, "simple")
		simple.SetText(c.SimpleRules)
		special.AppendChild(simple)
	case writingsystems.InheritedCollation:
		collation.SetAttr(xmlnames.SilNamespace, "needscompiling", "true")
		special := ensureChild(collation, "", "special", collationOrder)
		inherited := xmldom.NewElement(xmlnames.SilNamespace, "inherited")
		setOptionalAttr(inherited, "", "base", c.BaseTag)
		setOptionalAttr(inherited, "", "type", c.BaseType)
		special.AppendChild(inherited)
	}

	for _, special := range collation.ChildrenNamed("", "special") {
		pruneEmpty(collation, special)
	}
}

// emptiedByRewrite reports whether an element retains no children, comments,
// or non-whitespace text. Attributes alone do not keep it alive.
func emptiedByRewrite(e *xmldom.Element) bool {
	for _, n := range e.Nodes() {
		switch v := n.(type) {
		case *xmldom.Element, xmldom.Comment:
			return false
		case xmldom.Text:
			if strings.TrimSpace(string(v)) != "" {
				return false
			}
		}
	}
	return true
}

func boolAttr(v bool) string {
	if v {
		return "true"
	}
	return ""
}
