package ldml

import (
	"strconv"
	"strings"
	"time"

	liberrors "github.com/AndrewChristensenFCBH/libpalaso/errors"
	"github.com/AndrewChristensenFCBH/libpalaso/internal/unicodesets"
	"github.com/AndrewChristensenFCBH/libpalaso/internal/xmldom"
	"github.com/AndrewChristensenFCBH/libpalaso/internal/xmlnames"
	"github.com/AndrewChristensenFCBH/libpalaso/writingsystems"
)

// checkRoot verifies the document is rooted at ldml and does not declare the
// legacy palaso extension namespace.
func checkRoot(root *xmldom.Element) error {
	if root == nil {
		return liberrors.NewConversion(liberrors.ErrFormat, "document has no root element", "")
	}
	if !root.Is("", "ldml") {
		return &liberrors.Conversion{
			Code:     string(liberrors.ErrFormat),
			Message:  "unexpected document root",
			Path:     root.LocalName(),
			Actual:   root.LocalName(),
			Expected: []string{"ldml"},
		}
	}
	for _, a := range root.Attrs() {
		if a.Space == xmlnames.XMLNSNamespace && a.Value == xmlnames.LegacyPalasoNamespace {
			return liberrors.NewConversion(liberrors.ErrUnsupportedVersion,
				"palaso extension documents predate this format", "ldml")
		}
	}
	return nil
}

func (m *DataMapper) readDocument(doc *xmldom.Document, ws *writingsystems.Definition) error {
	root := doc.Root()
	if err := checkRoot(root); err != nil {
		return err
	}

	m.legacy = false
	m.rawLanguage, m.rawScript, m.rawRegion, m.rawVariant = "", "", "", ""

	// The presence of any external-resources block makes the document
	// authoritative for fonts, spellcheck dictionaries, and keyboards.
	var resources []*xmldom.Element
	for _, special := range root.ChildrenNamed("", "special") {
		resources = append(resources, special.ChildrenNamed(xmlnames.SilNamespace, "external-resources")...)
	}
	if len(resources) > 0 {
		ws.ClearFonts()
		ws.ClearSpellCheckDictionaries()
		ws.ClearKeyboards()
	}

	for _, section := range root.Children() {
		var err error
		switch {
		case section.Is("", "identity"):
			err = m.readIdentity(section, ws)
		case section.Is("", "characters"):
			err = readCharacters(section, ws)
		case section.Is("", "delimiters"):
			err = readDelimiters(section, ws)
		case section.Is("", "layout"):
			err = readLayout(section, ws)
		case section.Is("", "numbers"):
			err = readNumbers(section, ws)
		case section.Is("", "collations"):
			err = readCollations(section, ws)
		}
		if err != nil {
			return err
		}
	}
	for _, res := range resources {
		if err := readExternalResources(res, ws); err != nil {
			return err
		}
	}

	ws.ResetChanged()
	return nil
}

// Generation timestamps appear in several historic shapes. An unparsable
// value, or one still carrying the unexpanded $Date keyword, reads as the
// current time.
var generationLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseGenerationDate(value string) time.Time {
	if strings.Contains(value, "$Date") {
		return time.Now()
	}
	for _, layout := range generationLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Now()
}

func (m *DataMapper) readIdentity(identity *xmldom.Element, ws *writingsystems.Definition) error {
	if version := identity.Child("", "version"); version != nil {
		ws.SetVersionNumber(version.Attr("", "number"))
		ws.SetVersionDescription(strings.TrimSpace(version.Text()))
	}
	if generation := identity.Child("", "generation"); generation != nil {
		if date := generation.Attr("", "date"); date != "" {
			ws.SetDateModified(parseGenerationDate(date))
		}
	}

	lang := childTypeAttr(identity, "language")
	script := childTypeAttr(identity, "script")
	region := childTypeAttr(identity, "territory")
	variant := childTypeAttr(identity, "variant")

	if strings.HasPrefix(lang, "x-") {
		normLang, normScript, normRegion, normVariant, err := m.options.normalizer.NormalizePrivateUse(lang, script, region, variant)
		if err != nil {
			return err
		}
		ws.SetAllComponents(normLang, normScript, normRegion, normVariant)
		m.legacy = true
		m.rawLanguage, m.rawScript, m.rawRegion, m.rawVariant = lang, script, region, variant
	} else {
		ws.SetAllComponents(lang, script, region, variant)
	}

	for _, special := range identity.ChildrenNamed("", "special") {
		silIdentity := special.Child(xmlnames.SilNamespace, "identity")
		if silIdentity == nil {
			continue
		}
		ws.SetWindowsLCID(silIdentity.Attr("", "windowsLCID"))
		ws.SetDefaultRegion(silIdentity.Attr("", "defaultRegion"))
		if name := silIdentity.Attr("", "variantName"); name != "" && len(ws.Variants()) > 0 {
			if err := ws.SetVariantName(name); err != nil {
				return liberrors.NewConversionf(liberrors.ErrFormat, "identity/special/sil:identity", "%v", err)
			}
		}
	}
	return nil
}

func readCharacters(characters *xmldom.Element, ws *writingsystems.Definition) error {
	for _, exemplar := range characters.ChildrenNamed("", "exemplarCharacters") {
		if err := readExemplarSet(exemplar, exemplar.Attr("", "type"), ws); err != nil {
			return err
		}
	}
	// Vendor exemplar elements without a type attribute are not understood
	// and ride through untouched.
	for _, special := range characters.ChildrenNamed("", "special") {
		for _, exemplar := range special.ChildrenNamed(xmlnames.SilNamespace, "exemplarCharacters") {
			setType := exemplar.Attr("", "type")
			if setType == "" {
				continue
			}
			if err := readExemplarSet(exemplar, setType, ws); err != nil {
				return err
			}
		}
	}
	return nil
}

func readExemplarSet(exemplar *xmldom.Element, setType string, ws *writingsystems.Definition) error {
	if setType == "" {
		setType = mainCharacterSetType
	}
	members, err := unicodesets.Parse(strings.TrimSpace(exemplar.Text()))
	if err != nil {
		return liberrors.NewConversionf(liberrors.ErrFormat, "characters/exemplarCharacters",
			"bad %s exemplar set: %v", setType, err)
	}
	ws.SetCharacterSet(setType, members)
	return nil
}

func readDelimiters(delimiters *xmldom.Element, ws *writingsystems.Definition) error {
	ws.ClearQuotationMarks()
	ws.ClearMatchedPairs()
	ws.ClearPunctuationPatterns()
	ws.SetQuotationParagraphContinue(writingsystems.ParagraphContinueNone)

	var marksBlocks []*xmldom.Element
	for _, special := range delimiters.ChildrenNamed("", "special") {
		marksBlocks = append(marksBlocks, special.ChildrenNamed(xmlnames.SilNamespace, "quotation-marks")...)
	}

	var continue1, continue2 string
	for _, block := range marksBlocks {
		if c := block.Child(xmlnames.SilNamespace, "quotationContinue"); c != nil {
			continue1 = strings.TrimSpace(c.Text())
		}
		if c := block.Child(xmlnames.SilNamespace, "alternateQuotationContinue"); c != nil {
			continue2 = strings.TrimSpace(c.Text())
		}
	}

	addReserved := func(level int, open, closeMark, cont string) error {
		if open == "" && closeMark == "" && cont == "" {
			return nil
		}
		err := ws.AddQuotationMark(writingsystems.QuotationMark{
			Open:     open,
			Close:    closeMark,
			Continue: cont,
			Level:    level,
			Type:     writingsystems.QuotationNormal,
		})
		if err != nil {
			return liberrors.NewConversionf(liberrors.ErrFormat, "delimiters", "%v", err)
		}
		return nil
	}
	if err := addReserved(1, childText(delimiters, "quotationStart"), childText(delimiters, "quotationEnd"), continue1); err != nil {
		return err
	}
	if err := addReserved(2, childText(delimiters, "alternateQuotationStart"), childText(delimiters, "alternateQuotationEnd"), continue2); err != nil {
		return err
	}

	for _, special := range delimiters.ChildrenNamed("", "special") {
		for _, pairs := range special.ChildrenNamed(xmlnames.SilNamespace, "matched-pairs") {
			for _, pair := range pairs.ChildrenNamed(xmlnames.SilNamespace, "matched-pair") {
				paraClose, err := parseBoolAttr("delimiters/special/sil:matched-pairs", pair.Attr("", "paraClose"))
				if err != nil {
					return err
				}
				ws.AddMatchedPair(writingsystems.MatchedPair{
					Open:           pair.Attr("", "open"),
					Close:          pair.Attr("", "close"),
					ParagraphClose: paraClose,
				})
			}
		}
		for _, patterns := range special.ChildrenNamed(xmlnames.SilNamespace, "punctuation-patterns") {
			for _, pattern := range patterns.ChildrenNamed(xmlnames.SilNamespace, "punctuation-pattern") {
				context, err := punctuationContextTable.decodeToken("delimiters/special/sil:punctuation-patterns", pattern.Attr("", "context"))
				if err != nil {
					return err
				}
				ws.AddPunctuationPattern(writingsystems.PunctuationPattern{
					Pattern: pattern.Attr("", "pattern"),
					Context: context,
				})
			}
		}
	}

	for _, block := range marksBlocks {
		if block.HasAttr("", "paraContinuType") {
			cont, err := paragraphContinueTable.decodeToken("delimiters/special/sil:quotation-marks", block.Attr("", "paraContinuType"))
			if err != nil {
				return err
			}
			ws.SetQuotationParagraphContinue(cont)
		}

		for _, q := range block.ChildrenNamed(xmlnames.SilNamespace, "quotation") {
			qt, err := quotationTypeTable.decodeToken("delimiters/special/sil:quotation-marks", q.Attr("", "type"))
			if err != nil {
				return err
			}
			levelAttr := q.Attr("", "level")
			level, err := strconv.Atoi(levelAttr)
			if err != nil {
				return &liberrors.Conversion{
					Code:    string(liberrors.ErrFormat),
					Message: "quotation level is not a number",
					Path:    "delimiters/special/sil:quotation-marks",
					Actual:  levelAttr,
				}
			}
			mark := writingsystems.QuotationMark{
				Open:     q.Attr("", "open"),
				Close:    q.Attr("", "close"),
				Continue: q.Attr("", "continue"),
				Level:    level,
				Type:     qt,
			}
			if err := ws.AddQuotationMark(mark); err != nil {
				return liberrors.NewConversionf(liberrors.ErrFormat, "delimiters/special/sil:quotation-marks", "%v", err)
			}
		}
	}
	return nil
}

func readLayout(layout *xmldom.Element, ws *writingsystems.Definition) error {
	orientation := layout.Child("", "orientation")
	if orientation == nil {
		return nil
	}
	characterOrder := orientation.Child("", "characterOrder")
	if characterOrder == nil {
		return nil
	}
	// Vertical and bottom-to-top orders are not modeled; anything but the
	// right-to-left token reads as left to right.
	ws.SetRightToLeft(strings.TrimSpace(characterOrder.Text()) == rightToLeftOrder)
	return nil
}

func readNumbers(numbers *xmldom.Element, ws *writingsystems.Definition) error {
	id := childText(numbers, "defaultNumberingSystem")
	if id == "" {
		return nil
	}
	// A reference to an undeclared or non-numeric system is ignored.
	for _, system := range numbers.ChildrenNamed("", "numberingSystem") {
		if system.Attr("", "id") != id || system.Attr("", "type") != "numeric" {
			continue
		}
		var members []string
		for _, r := range system.Attr("", "digits") {
			members = append(members, string(r))
		}
		ws.SetCharacterSet(numericCharacterSetType, members)
		break
	}
	return nil
}

func readExternalResources(resources *xmldom.Element, ws *writingsystems.Definition) error {
	for _, child := range resources.Children() {
		switch {
		case child.Is(xmlnames.SilNamespace, "font"):
			font, ok, err := readFont(child)
			if err != nil {
				return err
			}
			if ok {
				ws.AddFont(font)
			}
		case child.Is(xmlnames.SilNamespace, "spellcheck"):
			dict, err := readSpellCheck(child)
			if err != nil {
				return err
			}
			ws.AddSpellCheckDictionary(dict)
		case child.Is(xmlnames.SilNamespace, "kbd"):
			kbd, ok, err := readKeyboard(child)
			if err != nil {
				return err
			}
			if ok {
				ws.AddKeyboard(kbd)
			}
		}
	}
	return nil
}

func readFont(font *xmldom.Element) (writingsystems.FontDefinition, bool, error) {
	// A font entry with no name identifies nothing and is skipped.
	name := font.Attr("", "name")
	if name == "" {
		return writingsystems.FontDefinition{}, false, nil
	}
	roles, err := fontRoleTable.decodeTokens("special/sil:external-resources/sil:font", font.Attr("", "types"))
	if err != nil {
		return writingsystems.FontDefinition{}, false, err
	}
	engines, err := fontEngineTable.decodeTokens("special/sil:external-resources/sil:font", font.Attr("", "engines"))
	if err != nil {
		return writingsystems.FontDefinition{}, false, err
	}
	def := writingsystems.FontDefinition{
		Name:             name,
		Roles:            roles,
		MinVersion:       font.Attr("", "minversion"),
		Features:         font.Attr("", "features"),
		Language:         font.Attr("", "lang"),
		OpenTypeLanguage: font.Attr("", "otlang"),
		Engines:          engines,
		Subset:           font.Attr("", "subset"),
		URLs:             readURLs(font),
	}
	if size := font.Attr("", "size"); size != "" {
		relative, err := strconv.ParseFloat(size, 64)
		if err != nil {
			return writingsystems.FontDefinition{}, false, &liberrors.Conversion{
				Code:    string(liberrors.ErrFormat),
				Message: "font size is not a number",
				Path:    "special/sil:external-resources/sil:font",
				Actual:  size,
			}
		}
		def.RelativeSize = relative
	}
	return def, true, nil
}

func readSpellCheck(spellcheck *xmldom.Element) (writingsystems.SpellCheckDictionaryDefinition, error) {
	format, err := spellCheckFormatTable.decodeToken("special/sil:external-resources/sil:spellcheck", spellcheck.Attr("", "type"))
	if err != nil {
		return writingsystems.SpellCheckDictionaryDefinition{}, err
	}
	return writingsystems.SpellCheckDictionaryDefinition{
		Format: format,
		URLs:   readURLs(spellcheck),
	}, nil
}

func readKeyboard(kbd *xmldom.Element) (writingsystems.KeyboardDefinition, bool, error) {
	// An id-less keyboard entry is skipped.
	id := kbd.Attr("", "id")
	if id == "" {
		return writingsystems.KeyboardDefinition{}, false, nil
	}
	format, err := keyboardFormatTable.decodeToken("special/sil:external-resources/sil:kbd", kbd.Attr("", "type"))
	if err != nil {
		return writingsystems.KeyboardDefinition{}, false, err
	}
	return writingsystems.KeyboardDefinition{
		ID:     id,
		Format: format,
		URLs:   readURLs(kbd),
	}, true, nil
}

func readURLs(parent *xmldom.Element) []string {
	var urls []string
	for _, u := range parent.ChildrenNamed(xmlnames.SilNamespace, "url") {
		if text := strings.TrimSpace(u.Text()); text != "" {
			urls = append(urls, text)
		}
	}
	return urls
}

func childTypeAttr(parent *xmldom.Element, name string) string {
	if c := parent.Child("", name); c != nil {
		return c.Attr("", "type")
	}
	return ""
}

func childText(parent *xmldom.Element, name string) string {
	if c := parent.Child("", name); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

func parseBoolAttr(path, value string) (bool, error) {
	switch {
	case value == "":
		return false, nil
	case strings.EqualFold(value, "true") || value == "1":
		return true, nil
	case strings.EqualFold(value, "false") || value == "0":
		return false, nil
	}
	return false, &liberrors.Conversion{
		Code:     string(liberrors.ErrFormat),
		Message:  "invalid boolean attribute",
		Path:     path,
		Actual:   value,
		Expected: []string{"true", "false"},
	}
}
