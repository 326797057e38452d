package ldml

import (
	"github.com/AndrewChristensenFCBH/libpalaso/internal/xmldom"
	"github.com/AndrewChristensenFCBH/libpalaso/internal/xmlnames"
)

// Canonical child order per parent element. The writer inserts the elements
// it generates by these tables; siblings with unlisted names rank last and
// are never moved.
var (
	rootOrder        = []string{"identity", "characters", "delimiters", "layout", "numbers", "collations", "special"}
	identityOrder    = []string{"version", "generation", "language", "script", "territory", "variant", "special"}
	charactersOrder  = []string{"exemplarCharacters", "special"}
	delimitersOrder  = []string{"quotationStart", "quotationEnd", "alternateQuotationStart", "alternateQuotationEnd", "special"}
	layoutOrder      = []string{"orientation"}
	orientationOrder = []string{"characterOrder", "lineOrder"}
	numbersOrder     = []string{"defaultNumberingSystem", "numberingSystem"}
	collationsOrder  = []string{"defaultCollation", "collation"}
	collationOrder   = []string{"cr", "special"}

	delimitersSpecialOrder = []string{"matched-pairs", "punctuation-patterns", "quotation-marks"}
	quotationMarksOrder    = []string{"quotationContinue", "alternateQuotationContinue", "quotation"}
	externalResourcesOrder = []string{"font", "spellcheck", "kbd"}
)

// Standard exemplar-set types carried on base exemplarCharacters elements.
// The main type is implied by an absent type attribute. Every other set type
// goes to sil:exemplarCharacters, except numeric, which feeds the numbers
// section instead.
var standardCharacterSetTypes = []string{"main", "auxiliary", "index", "punctuation"}

const (
	mainCharacterSetType    = "main"
	numericCharacterSetType = "numeric"

	standardNumberingSystemID = "standard"
	standardCollationType     = "standard"
	rightToLeftOrder          = "right-to-left"
	leftToRightOrder          = "left-to-right"
)

func orderRank(order []string, name string) int {
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return len(order)
}

// insertOrdered places child among parent's children per the order table.
// Among same-named siblings the child goes last.
func insertOrdered(parent, child *xmldom.Element, order []string) {
	rank := orderRank(order, child.LocalName())
	for _, sibling := range parent.Children() {
		if orderRank(order, sibling.LocalName()) > rank {
			parent.InsertBefore(child, sibling)
			return
		}
	}
	parent.AppendChild(child)
}

// ensureChild returns the first matching child element, creating and
// order-inserting it when absent.
func ensureChild(parent *xmldom.Element, space, local string, order []string) *xmldom.Element {
	if c := parent.Child(space, local); c != nil {
		return c
	}
	c := xmldom.NewElement(space, local)
	insertOrdered(parent, c, order)
	return c
}

// pruneEmpty removes child from parent when nothing meaningful is left in it.
func pruneEmpty(parent, child *xmldom.Element) {
	if child != nil && child.IsEmpty() {
		parent.RemoveChild(child)
	}
}

// ensureSilNamespace declares the vendor namespace on the root element when
// no declaration for it is in scope there.
func ensureSilNamespace(root *xmldom.Element) {
	for _, a := range root.Attrs() {
		if a.Space == xmlnames.XMLNSNamespace && a.Value == xmlnames.SilNamespace {
			return
		}
	}
	root.SetAttr(xmlnames.XMLNSNamespace, xmlnames.SilPrefix, xmlnames.SilNamespace)
}

// setOptionalAttr sets the attribute for a non-empty value and removes it
// otherwise.
func setOptionalAttr(e *xmldom.Element, space, local, value string) {
	if value == "" {
		e.RemoveAttr(space, local)
		return
	}
	e.SetAttr(space, local, value)
}
