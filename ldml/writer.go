package ldml

import (
	"strconv"
	"strings"

	"github.com/AndrewChristensenFCBH/libpalaso/internal/unicodesets"
	"github.com/AndrewChristensenFCBH/libpalaso/internal/xmldom"
	"github.com/AndrewChristensenFCBH/libpalaso/internal/xmlnames"
	"github.com/AndrewChristensenFCBH/libpalaso/writingsystems"
)

// writeDocument merges ws into doc section by section. Each section writer
// removes only the elements this mapper understands, regenerates them from
// the model, and prunes containers the rewrite emptied; everything else in
// the document is never visited and rides through untouched.
func (m *DataMapper) writeDocument(doc *xmldom.Document, ws *writingsystems.Definition) {
	root := doc.Root()
	ensureSilNamespace(root)

	m.writeIdentity(root, ws)
	writeCharacters(root, ws)
	writeDelimiters(root, ws)
	writeLayout(root, ws)
	writeNumbers(root, ws)
	writeCollations(root, ws)
	writeExternalResources(root, ws)
}

func (m *DataMapper) writeIdentity(root *xmldom.Element, ws *writingsystems.Definition) {
	identity := ensureChild(root, "", "identity", rootOrder)
	identity.RemoveChildrenNamed("", "version")
	identity.RemoveChildrenNamed("", "generation")
	identity.RemoveChildrenNamed("", "language")
	identity.RemoveChildrenNamed("", "script")
	identity.RemoveChildrenNamed("", "territory")
	identity.RemoveChildrenNamed("", "variant")
	for _, special := range identity.ChildrenNamed("", "special") {
		special.RemoveChildrenNamed(xmlnames.SilNamespace, "identity")
	}

	// version is schema-required even with an empty number.
	version := xmldom.NewElement("", "version")
	version.SetAttr("", "number", ws.VersionNumber())
	if desc := ws.VersionDescription(); desc != "" {
		version.SetText(desc)
	}
	insertOrdered(identity, version, identityOrder)

	if !ws.DateModified().IsZero() {
		generation := xmldom.NewElement("", "generation")
		generation.SetAttr("", "date", ws.DateModified().Format("2006-01-02T15:04:05"))
		insertOrdered(identity, generation, identityOrder)
	}

	lang, script, region, variant := ws.Language(), ws.Script(), ws.Region(), ws.Variant()
	if m.legacy && m.options.legacyRoundTrip {
		lang, script, region, variant = m.rawLanguage, m.rawScript, m.rawRegion, m.rawVariant
	}
	writeSubtag := func(name, value string) {
		if value == "" && name != "language" {
			return
		}
		e := xmldom.NewElement("", name)
		e.SetAttr("", "type", value)
		insertOrdered(identity, e, identityOrder)
	}
	writeSubtag("language", lang)
	writeSubtag("script", script)
	writeSubtag("territory", region)
	writeSubtag("variant", variant)

	var variantName string
	if variants := ws.Variants(); len(variants) > 0 {
		variantName = variants[0].Name
	}
	if ws.WindowsLCID() != "" || ws.DefaultRegion() != "" || variantName != "" {
		special := ensureChild(identity, "", "special", identityOrder)
		silIdentity := xmldom.NewElement(xmlnames.SilNamespace, "identity")
		setOptionalAttr(silIdentity, "", "windowsLCID", ws.WindowsLCID())
		setOptionalAttr(silIdentity, "", "defaultRegion", ws.DefaultRegion())
		setOptionalAttr(silIdentity, "", "variantName", variantName)
		special.AppendChild(silIdentity)
	}
	for _, special := range identity.ChildrenNamed("", "special") {
		pruneEmpty(identity, special)
	}
}

func writeCharacters(root *xmldom.Element, ws *writingsystems.Definition) {
	types := ws.CharacterSetTypes()
	hasNonNumeric := false
	for _, t := range types {
		if t != numericCharacterSetType {
			hasNonNumeric = true
			break
		}
	}

	characters := root.Child("", "characters")
	if characters == nil {
		if !hasNonNumeric {
			return
		}
		characters = ensureChild(root, "", "characters", rootOrder)
	}

	characters.RemoveChildrenNamed("", "exemplarCharacters")
	// Vendor exemplar elements without a type are not this mapper's; only
	// typed ones are regenerated.
	for _, special := range characters.ChildrenNamed("", "special") {
		for _, exemplar := range special.ChildrenNamed(xmlnames.SilNamespace, "exemplarCharacters") {
			if exemplar.Attr("", "type") != "" {
				special.RemoveChild(exemplar)
			}
		}
	}

	for _, t := range standardCharacterSetTypes {
		members, ok := ws.CharacterSet(t)
		if !ok {
			continue
		}
		e := xmldom.NewElement("", "exemplarCharacters")
		if t != mainCharacterSetType {
			e.SetAttr("", "type", t)
		}
		e.SetText(unicodesets.Pattern(members))
		insertOrdered(characters, e, charactersOrder)
	}

	var customTypes []string
	for _, t := range types {
		if t == numericCharacterSetType || isStandardCharacterSetType(t) {
			continue
		}
		customTypes = append(customTypes, t)
	}
	if len(customTypes) > 0 {
		special := ensureChild(characters, "", "special", charactersOrder)
		for _, t := range customTypes {
			members, _ := ws.CharacterSet(t)
			e := xmldom.NewElement(xmlnames.SilNamespace, "exemplarCharacters")
			e.SetAttr("", "type", t)
			e.SetText(unicodesets.Pattern(members))
			special.AppendChild(e)
		}
	}

	for _, special := range characters.ChildrenNamed("", "special") {
		pruneEmpty(characters, special)
	}
	pruneEmpty(root, characters)
}

func isStandardCharacterSetType(t string) bool {
	for _, s := range standardCharacterSetTypes {
		if s == t {
			return true
		}
	}
	return false
}

func writeDelimiters(root *xmldom.Element, ws *writingsystems.Definition) {
	var level1, level2 writingsystems.QuotationMark
	var generic []writingsystems.QuotationMark
	for _, mark := range ws.QuotationMarks() {
		switch {
		case mark.Level == 1 && mark.Type == writingsystems.QuotationNormal:
			level1 = mark
		case mark.Level == 2 && mark.Type == writingsystems.QuotationNormal:
			level2 = mark
		default:
			generic = append(generic, mark)
		}
	}

	paraContinue := ws.QuotationParagraphContinue()
	needsMarksBlock := level1.Continue != "" || level2.Continue != "" ||
		len(generic) > 0 || paraContinue != writingsystems.ParagraphContinueNone
	needsSection := needsMarksBlock ||
		level1 != (writingsystems.QuotationMark{}) || level2 != (writingsystems.QuotationMark{}) ||
		len(ws.MatchedPairs()) > 0 || len(ws.PunctuationPatterns()) > 0

	delimiters := root.Child("", "delimiters")
	if delimiters == nil {
		if !needsSection {
			return
		}
		delimiters = ensureChild(root, "", "delimiters", rootOrder)
	}

	delimiters.RemoveChildrenNamed("", "quotationStart")
	delimiters.RemoveChildrenNamed("", "quotationEnd")
	delimiters.RemoveChildrenNamed("", "alternateQuotationStart")
	delimiters.RemoveChildrenNamed("", "alternateQuotationEnd")
	for _, special := range delimiters.ChildrenNamed("", "special") {
		special.RemoveChildrenNamed(xmlnames.SilNamespace, "matched-pairs")
		special.RemoveChildrenNamed(xmlnames.SilNamespace, "punctuation-patterns")
		for _, block := range special.ChildrenNamed(xmlnames.SilNamespace, "quotation-marks") {
			block.RemoveChildrenNamed(xmlnames.SilNamespace, "quotationContinue")
			block.RemoveChildrenNamed(xmlnames.SilNamespace, "alternateQuotationContinue")
			block.RemoveAttr("", "paraContinuType")
			// Unlabeled and narrative entries are what this mapper itself
			// regenerates; entries with any other type label are preserved.
			for _, q := range block.ChildrenNamed(xmlnames.SilNamespace, "quotation") {
				switch q.Attr("", "type") {
				case "", "narrative":
					block.RemoveChild(q)
				}
			}
		}
	}

	writeDelimiter := func(name, value string) {
		if value == "" {
			return
		}
		e := xmldom.NewElement("", name)
		e.SetText(value)
		insertOrdered(delimiters, e, delimitersOrder)
	}
	writeDelimiter("quotationStart", level1.Open)
	writeDelimiter("quotationEnd", level1.Close)
	writeDelimiter("alternateQuotationStart", level2.Open)
	writeDelimiter("alternateQuotationEnd", level2.Close)

	if pairs := ws.MatchedPairs(); len(pairs) > 0 {
		special := ensureChild(delimiters, "", "special", delimitersOrder)
		container := xmldom.NewElement(xmlnames.SilNamespace, "matched-pairs")
		for _, pair := range pairs {
			e := xmldom.NewElement(xmlnames.SilNamespace, "matched-pair")
			setOptionalAttr(e, "", "open", pair.Open)
			setOptionalAttr(e, "", "close", pair.Close)
			setOptionalAttr(e, "", "paraClose", boolAttr(pair.ParagraphClose))
			container.AppendChild(e)
		}
		insertOrdered(special, container, delimitersSpecialOrder)
	}

	if patterns := ws.PunctuationPatterns(); len(patterns) > 0 {
		special := ensureChild(delimiters, "", "special", delimitersOrder)
		container := xmldom.NewElement(xmlnames.SilNamespace, "punctuation-patterns")
		for _, pattern := range patterns {
			e := xmldom.NewElement(xmlnames.SilNamespace, "punctuation-pattern")
			setOptionalAttr(e, "", "pattern", pattern.Pattern)
			e.SetAttr("", "context", punctuationContextTable.encodeValue(pattern.Context))
			container.AppendChild(e)
		}
		insertOrdered(special, container, delimitersSpecialOrder)
	}

	if needsMarksBlock {
		block := findQuotationMarks(delimiters)
		if block == nil {
			special := ensureChild(delimiters, "", "special", delimitersOrder)
			block = xmldom.NewElement(xmlnames.SilNamespace, "quotation-marks")
			insertOrdered(special, block, delimitersSpecialOrder)
		}
		setOptionalAttr(block, "", "paraContinuType", paragraphContinueTable.encodeValue(paraContinue))

		writeContinue := func(name, value string) {
			if value == "" {
				return
			}
			e := xmldom.NewElement(xmlnames.SilNamespace, name)
			e.SetText(value)
			insertOrdered(block, e, quotationMarksOrder)
		}
		writeContinue("quotationContinue", level1.Continue)
		writeContinue("alternateQuotationContinue", level2.Continue)

		for _, mark := range generic {
			q := xmldom.NewElement(xmlnames.SilNamespace, "quotation")
			setOptionalAttr(q, "", "open", mark.Open)
			setOptionalAttr(q, "", "close", mark.Close)
			setOptionalAttr(q, "", "continue", mark.Continue)
			q.SetAttr("", "level", strconv.Itoa(mark.Level))
			setOptionalAttr(q, "", "type", quotationTypeTable.encodeValue(mark.Type))
			insertOrdered(block, q, quotationMarksOrder)
		}
	}

	for _, special := range delimiters.ChildrenNamed("", "special") {
		for _, block := range special.ChildrenNamed(xmlnames.SilNamespace, "quotation-marks") {
			pruneEmpty(special, block)
		}
		pruneEmpty(delimiters, special)
	}
	pruneEmpty(root, delimiters)
}

func findQuotationMarks(delimiters *xmldom.Element) *xmldom.Element {
	for _, special := range delimiters.ChildrenNamed("", "special") {
		if block := special.Child(xmlnames.SilNamespace, "quotation-marks"); block != nil {
			return block
		}
	}
	return nil
}

// writeLayout always records the character order, even when it equals the
// left-to-right default. Line order is not modeled and is left alone.
func writeLayout(root *xmldom.Element, ws *writingsystems.Definition) {
	layout := ensureChild(root, "", "layout", rootOrder)
	orientation := ensureChild(layout, "", "orientation", layoutOrder)
	orientation.RemoveChildrenNamed("", "characterOrder")

	characterOrder := xmldom.NewElement("", "characterOrder")
	if ws.RightToLeft() {
		characterOrder.SetText(rightToLeftOrder)
	} else {
		characterOrder.SetText(leftToRightOrder)
	}
	insertOrdered(orientation, characterOrder, orientationOrder)
}

func writeNumbers(root *xmldom.Element, ws *writingsystems.Definition) {
	digits, hasNumeric := ws.CharacterSet(numericCharacterSetType)
	numbers := root.Child("", "numbers")
	if numbers == nil {
		if !hasNumeric {
			return
		}
		numbers = ensureChild(root, "", "numbers", rootOrder)
	}

	numbers.RemoveChildrenNamed("", "defaultNumberingSystem")
	for _, system := range numbers.ChildrenNamed("", "numberingSystem") {
		if system.Attr("", "type") == "numeric" {
			numbers.RemoveChild(system)
		}
	}

	if hasNumeric {
		def := xmldom.NewElement("", "defaultNumberingSystem")
		def.SetText(standardNumberingSystemID)
		insertOrdered(numbers, def, numbersOrder)

		system := xmldom.NewElement("", "numberingSystem")
		system.SetAttr("", "id", standardNumberingSystemID)
		system.SetAttr("", "type", "numeric")
		system.SetAttr("", "digits", strings.Join(digits, ""))
		insertOrdered(numbers, system, numbersOrder)
	}
	pruneEmpty(root, numbers)
}

func writeExternalResources(root *xmldom.Element, ws *writingsystems.Definition) {
	for _, special := range root.ChildrenNamed("", "special") {
		for _, resources := range special.ChildrenNamed(xmlnames.SilNamespace, "external-resources") {
			resources.RemoveChildrenNamed(xmlnames.SilNamespace, "font")
			resources.RemoveChildrenNamed(xmlnames.SilNamespace, "spellcheck")
			resources.RemoveChildrenNamed(xmlnames.SilNamespace, "kbd")
		}
	}

	fonts, dicts, keyboards := ws.Fonts(), ws.SpellCheckDictionaries(), ws.Keyboards()
	if len(fonts) > 0 || len(dicts) > 0 || len(keyboards) > 0 {
		resources := findExternalResources(root)
		if resources == nil {
			special := ensureChild(root, "", "special", rootOrder)
			resources = xmldom.NewElement(xmlnames.SilNamespace, "external-resources")
			special.AppendChild(resources)
		}
		for _, font := range fonts {
			insertOrdered(resources, fontElement(font), externalResourcesOrder)
		}
		for _, dict := range dicts {
			insertOrdered(resources, spellCheckElement(dict), externalResourcesOrder)
		}
		for _, kbd := range keyboards {
			insertOrdered(resources, keyboardElement(kbd), externalResourcesOrder)
		}
	}

	for _, special := range root.ChildrenNamed("", "special") {
		touched := false
		for _, resources := range special.ChildrenNamed(xmlnames.SilNamespace, "external-resources") {
			touched = true
			pruneEmpty(special, resources)
		}
		if touched {
			pruneEmpty(root, special)
		}
	}
}

func findExternalResources(root *xmldom.Element) *xmldom.Element {
	for _, special := range root.ChildrenNamed("", "special") {
		if resources := special.Child(xmlnames.SilNamespace, "external-resources"); resources != nil {
			return resources
		}
	}
	return nil
}

func fontElement(font writingsystems.FontDefinition) *xmldom.Element {
	e := xmldom.NewElement(xmlnames.SilNamespace, "font")
	e.SetAttr("", "name", font.Name)
	setOptionalAttr(e, "", "types", fontRoleTable.encodeFlags(font.Roles))
	if font.RelativeSize != 0 {
		e.SetAttr("", "size", strconv.FormatFloat(font.RelativeSize, 'f', -1, 64))
	}
	setOptionalAttr(e, "", "minversion", font.MinVersion)
	setOptionalAttr(e, "", "features", font.Features)
	setOptionalAttr(e, "", "lang", font.Language)
	setOptionalAttr(e, "", "otlang", font.OpenTypeLanguage)
	setOptionalAttr(e, "", "engines", fontEngineTable.encodeFlags(font.Engines))
	setOptionalAttr(e, "", "subset", font.Subset)
	appendURLs(e, font.URLs)
	return e
}

func spellCheckElement(dict writingsystems.SpellCheckDictionaryDefinition) *xmldom.Element {
	e := xmldom.NewElement(xmlnames.SilNamespace, "spellcheck")
	e.SetAttr("", "type", spellCheckFormatTable.encodeValue(dict.Format))
	appendURLs(e, dict.URLs)
	return e
}

func keyboardElement(kbd writingsystems.KeyboardDefinition) *xmldom.Element {
	e := xmldom.NewElement(xmlnames.SilNamespace, "kbd")
	e.SetAttr("", "id", kbd.ID)
	setOptionalAttr(e, "", "type", keyboardFormatTable.encodeValue(kbd.Format))
	appendURLs(e, kbd.URLs)
	return e
}

func appendURLs(parent *xmldom.Element, urls []string) {
	for _, u := range urls {
		e := xmldom.NewElement(xmlnames.SilNamespace, "url")
		e.SetText(u)
		parent.AppendChild(e)
	}
}
