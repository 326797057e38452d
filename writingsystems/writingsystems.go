// Package writingsystems holds the in-memory writing-system model the LDML
// mapper populates and serializes. A Definition tracks local modification so
// callers know when it needs persisting; reading a file resets the flag.
package writingsystems

import (
	"fmt"
	"strings"
	"time"

	"github.com/AndrewChristensenFCBH/libpalaso/internal/xiter"
)

// Definition is one writing system. The zero value is an empty, unchanged
// definition ready for a Read. Subtag components are never reported as
// missing by a nil; the empty string stands for absent.
type Definition struct {
	language string
	script   string
	region   string
	variant  string

	variantName string

	rightToLeft        bool
	dateModified       time.Time
	versionNumber      string
	versionDescription string
	windowsLCID        string
	defaultRegion      string

	characterSets map[string][]string

	quotationMarks    []QuotationMark
	matchedPairs      []MatchedPair
	punctuationPats   []PunctuationPattern
	paragraphContinue QuotationParagraphContinueType

	collations  []CollationDefinition
	defaultColl string

	fonts         []FontDefinition
	spellCheckers []SpellCheckDictionaryDefinition
	keyboards     []KeyboardDefinition

	changed bool
}

// Language returns the language subtag ("" when absent).
func (d *Definition) Language() string { return d.language }

// Script returns the script subtag ("" when absent).
func (d *Definition) Script() string { return d.script }

// Region returns the region subtag ("" when absent).
func (d *Definition) Region() string { return d.region }

// Variant returns the complete variant component, private-use chain included.
func (d *Definition) Variant() string { return d.variant }

// SetLanguage sets the language subtag.
func (d *Definition) SetLanguage(s string) {
	d.language = s
	d.MarkChanged()
}

// SetScript sets the script subtag.
func (d *Definition) SetScript(s string) {
	d.script = s
	d.MarkChanged()
}

// SetRegion sets the region subtag.
func (d *Definition) SetRegion(s string) {
	d.region = s
	d.MarkChanged()
}

// SetVariant sets the variant component.
func (d *Definition) SetVariant(s string) {
	d.variant = s
	d.MarkChanged()
}

// SetAllComponents sets the four subtag components in one step.
func (d *Definition) SetAllComponents(language, script, region, variant string) {
	d.language = language
	d.script = script
	d.region = region
	d.variant = variant
	d.MarkChanged()
}

// ID returns the computed identifier: the dash-join of the non-empty subtag
// components.
func (d *Definition) ID() string {
	var parts []string
	for _, p := range []string{d.language, d.script, d.region, d.variant} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "-")
}

// Variants splits the variant component into its entries. Entries after the
// "x" marker are private use. The first entry carries the display name set
// via SetVariantName.
func (d *Definition) Variants() []Variant {
	var out []Variant
	private := false
	for _, code := range strings.Split(d.variant, "-") {
		if code == "" {
			continue
		}
		if strings.EqualFold(code, "x") {
			private = true
			continue
		}
		out = append(out, Variant{Code: code, IsPrivateUse: private})
	}
	if len(out) > 0 {
		out[0].Name = d.variantName
	}
	return out
}

// SetVariantName names the first variant entry. It fails when the variant
// component is empty, since there is nothing to attach the name to.
func (d *Definition) SetVariantName(name string) error {
	if len(d.Variants()) == 0 {
		return fmt.Errorf("set variant name %q: definition has no variants", name)
	}
	d.variantName = name
	d.MarkChanged()
	return nil
}

// RightToLeft reports whether the script runs right to left.
func (d *Definition) RightToLeft() bool { return d.rightToLeft }

// SetRightToLeft sets the script direction.
func (d *Definition) SetRightToLeft(rtl bool) {
	d.rightToLeft = rtl
	d.MarkChanged()
}

// DateModified returns the modification timestamp.
func (d *Definition) DateModified() time.Time { return d.dateModified }

// SetDateModified sets the modification timestamp.
func (d *Definition) SetDateModified(t time.Time) {
	d.dateModified = t
	d.MarkChanged()
}

// VersionNumber returns the version number string.
func (d *Definition) VersionNumber() string { return d.versionNumber }

// SetVersionNumber sets the version number string.
func (d *Definition) SetVersionNumber(s string) {
	d.versionNumber = s
	d.MarkChanged()
}

// VersionDescription returns the version description.
func (d *Definition) VersionDescription() string { return d.versionDescription }

// SetVersionDescription sets the version description.
func (d *Definition) SetVersionDescription(s string) {
	d.versionDescription = s
	d.MarkChanged()
}

// WindowsLCID returns the Windows locale identifier.
func (d *Definition) WindowsLCID() string { return d.windowsLCID }

// SetWindowsLCID sets the Windows locale identifier.
func (d *Definition) SetWindowsLCID(s string) {
	d.windowsLCID = s
	d.MarkChanged()
}

// DefaultRegion returns the default-region override.
func (d *Definition) DefaultRegion() string { return d.defaultRegion }

// SetDefaultRegion sets the default-region override.
func (d *Definition) SetDefaultRegion(s string) {
	d.defaultRegion = s
	d.MarkChanged()
}

// CharacterSet returns the members of the named character set.
func (d *Definition) CharacterSet(setType string) ([]string, bool) {
	members, ok := d.characterSets[setType]
	if !ok {
		return nil, false
	}
	return append([]string(nil), members...), true
}

// SetCharacterSet stores the members of the named character set, replacing
// any previous set of that type.
func (d *Definition) SetCharacterSet(setType string, members []string) {
	if d.characterSets == nil {
		d.characterSets = make(map[string][]string)
	}
	d.characterSets[setType] = append([]string(nil), members...)
	d.MarkChanged()
}

// RemoveCharacterSet drops the named character set.
func (d *Definition) RemoveCharacterSet(setType string) {
	if _, ok := d.characterSets[setType]; !ok {
		return
	}
	delete(d.characterSets, setType)
	d.MarkChanged()
}

// CharacterSetTypes returns the stored set types in sorted order.
func (d *Definition) CharacterSetTypes() []string {
	return xiter.Collect(xiter.SortedKeys(d.characterSets))
}

// QuotationMarks returns the quotation marks in insertion order.
func (d *Definition) QuotationMarks() []QuotationMark {
	return append([]QuotationMark(nil), d.quotationMarks...)
}

// AddQuotationMark appends a quotation mark. Levels 1 and 2 with type Normal
// map to dedicated document elements, so at most one mark may exist per such
// (level, type) pair; the level must be at least 1.
func (d *Definition) AddQuotationMark(qm QuotationMark) error {
	if qm.Level < 1 {
		return fmt.Errorf("add quotation mark: level %d is below 1", qm.Level)
	}
	if qm.Type == QuotationNormal && qm.Level <= 2 {
		for _, have := range d.quotationMarks {
			if have.Type == QuotationNormal && have.Level == qm.Level {
				return fmt.Errorf("add quotation mark: level %d normal mark already present", qm.Level)
			}
		}
	}
	d.quotationMarks = append(d.quotationMarks, qm)
	d.MarkChanged()
	return nil
}

// ClearQuotationMarks drops all quotation marks.
func (d *Definition) ClearQuotationMarks() {
	if len(d.quotationMarks) == 0 {
		return
	}
	d.quotationMarks = nil
	d.MarkChanged()
}

// MatchedPairs returns the matched pairs in insertion order.
func (d *Definition) MatchedPairs() []MatchedPair {
	return append([]MatchedPair(nil), d.matchedPairs...)
}

// AddMatchedPair appends a matched pair.
func (d *Definition) AddMatchedPair(p MatchedPair) {
	d.matchedPairs = append(d.matchedPairs, p)
	d.MarkChanged()
}

// ClearMatchedPairs drops all matched pairs.
func (d *Definition) ClearMatchedPairs() {
	if len(d.matchedPairs) == 0 {
		return
	}
	d.matchedPairs = nil
	d.MarkChanged()
}

// PunctuationPatterns returns the punctuation patterns in insertion order.
func (d *Definition) PunctuationPatterns() []PunctuationPattern {
	return append([]PunctuationPattern(nil), d.punctuationPats...)
}

// AddPunctuationPattern appends a punctuation pattern.
func (d *Definition) AddPunctuationPattern(p PunctuationPattern) {
	d.punctuationPats = append(d.punctuationPats, p)
	d.MarkChanged()
}

// ClearPunctuationPatterns drops all punctuation patterns.
func (d *Definition) ClearPunctuationPatterns() {
	if len(d.punctuationPats) == 0 {
		return
	}
	d.punctuationPats = nil
	d.MarkChanged()
}

// QuotationParagraphContinue returns the paragraph-continuation setting.
func (d *Definition) QuotationParagraphContinue() QuotationParagraphContinueType {
	return d.paragraphContinue
}

// SetQuotationParagraphContinue sets the paragraph-continuation setting.
func (d *Definition) SetQuotationParagraphContinue(t QuotationParagraphContinueType) {
	d.paragraphContinue = t
	d.MarkChanged()
}

// Collations returns the collations in insertion order.
func (d *Definition) Collations() []CollationDefinition {
	return append([]CollationDefinition(nil), d.collations...)
}

// AddCollation appends a collation. Collation types are unique within a
// definition and must be non-empty.
func (d *Definition) AddCollation(c CollationDefinition) error {
	if c == nil {
		return fmt.Errorf("add collation: nil collation")
	}
	if c.Type() == "" {
		return fmt.Errorf("add collation: empty collation type")
	}
	for _, have := range d.collations {
		if have.Type() == c.Type() {
			return fmt.Errorf("add collation: type %q already present", c.Type())
		}
	}
	d.collations = append(d.collations, c)
	d.MarkChanged()
	return nil
}

// ClearCollations drops all collations and the default-collation pointer.
func (d *Definition) ClearCollations() {
	if len(d.collations) == 0 && d.defaultColl == "" {
		return
	}
	d.collations = nil
	d.defaultColl = ""
	d.MarkChanged()
}

// SetDefaultCollation marks the collation with the given type as the
// default. The collation must already be present.
func (d *Definition) SetDefaultCollation(collationType string) error {
	for _, have := range d.collations {
		if have.Type() == collationType {
			d.defaultColl = collationType
			d.MarkChanged()
			return nil
		}
	}
	return fmt.Errorf("set default collation: no collation of type %q", collationType)
}

// DefaultCollation returns the designated default collation, falling back to
// the first collation. ok is false when the definition has no collations.
func (d *Definition) DefaultCollation() (CollationDefinition, bool) {
	if d.defaultColl != "" {
		for _, have := range d.collations {
			if have.Type() == d.defaultColl {
				return have, true
			}
		}
	}
	if len(d.collations) > 0 {
		return d.collations[0], true
	}
	return nil, false
}

// Fonts returns the font definitions in insertion order.
func (d *Definition) Fonts() []FontDefinition {
	return append([]FontDefinition(nil), d.fonts...)
}

// AddFont appends a font definition.
func (d *Definition) AddFont(f FontDefinition) {
	d.fonts = append(d.fonts, f)
	d.MarkChanged()
}

// ClearFonts drops all font definitions.
func (d *Definition) ClearFonts() {
	if len(d.fonts) == 0 {
		return
	}
	d.fonts = nil
	d.MarkChanged()
}

// SpellCheckDictionaries returns the dictionary definitions in insertion order.
func (d *Definition) SpellCheckDictionaries() []SpellCheckDictionaryDefinition {
	return append([]SpellCheckDictionaryDefinition(nil), d.spellCheckers...)
}

// AddSpellCheckDictionary appends a dictionary definition.
func (d *Definition) AddSpellCheckDictionary(s SpellCheckDictionaryDefinition) {
	d.spellCheckers = append(d.spellCheckers, s)
	d.MarkChanged()
}

// ClearSpellCheckDictionaries drops all dictionary definitions.
func (d *Definition) ClearSpellCheckDictionaries() {
	if len(d.spellCheckers) == 0 {
		return
	}
	d.spellCheckers = nil
	d.MarkChanged()
}

// Keyboards returns the keyboard definitions in insertion order.
func (d *Definition) Keyboards() []KeyboardDefinition {
	return append([]KeyboardDefinition(nil), d.keyboards...)
}

// AddKeyboard appends a keyboard definition.
func (d *Definition) AddKeyboard(k KeyboardDefinition) {
	d.keyboards = append(d.keyboards, k)
	d.MarkChanged()
}

// ClearKeyboards drops all keyboard definitions.
func (d *Definition) ClearKeyboards() {
	if len(d.keyboards) == 0 {
		return
	}
	d.keyboards = nil
	d.MarkChanged()
}

// IsChanged reports whether the definition has unpersisted modifications.
func (d *Definition) IsChanged() bool { return d.changed }

// MarkChanged records that the definition has unpersisted modifications.
func (d *Definition) MarkChanged() { d.changed = true }

// ResetChanged records that the definition matches its persisted form. The
// reader calls this after a successful load.
func (d *Definition) ResetChanged() { d.changed = false }
