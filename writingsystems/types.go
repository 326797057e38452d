package writingsystems

import (
	"fmt"
	"strings"
)

// Variant is one dash-delimited entry of the variant component. Entries after
// the "x" marker are private use. Only the first variant of a definition may
// carry a display name.
type Variant struct {
	Code         string
	Name         string
	IsPrivateUse bool
}

// QuotationMarkingSystemType distinguishes regular quotations from narrative
// (dialogue) quotations.
type QuotationMarkingSystemType int

const (
	QuotationNormal QuotationMarkingSystemType = iota
	QuotationNarrative
)

func (t QuotationMarkingSystemType) String() string {
	switch t {
	case QuotationNormal:
		return "normal"
	case QuotationNarrative:
		return "narrative"
	default:
		return fmt.Sprintf("quotation-type(%d)", int(t))
	}
}

// QuotationParagraphContinueType states which quotation levels reopen at a
// paragraph break.
type QuotationParagraphContinueType int

const (
	ParagraphContinueNone QuotationParagraphContinueType = iota
	ParagraphContinueAll
	ParagraphContinueOutermost
	ParagraphContinueInnermost
)

func (t QuotationParagraphContinueType) String() string {
	switch t {
	case ParagraphContinueNone:
		return "none"
	case ParagraphContinueAll:
		return "all"
	case ParagraphContinueOutermost:
		return "outermost"
	case ParagraphContinueInnermost:
		return "innermost"
	default:
		return fmt.Sprintf("paragraph-continue(%d)", int(t))
	}
}

// QuotationMark is one quotation mark pair. Close and Continue may be empty.
// Levels 1 and 2 with type Normal are reserved for the dedicated LDML
// start/end elements.
type QuotationMark struct {
	Open     string
	Close    string
	Continue string
	Level    int
	Type     QuotationMarkingSystemType
}

// MatchedPair is an open/close character pair, with a flag for pairs that
// close at a paragraph break.
type MatchedPair struct {
	Open           string
	Close          string
	ParagraphClose bool
}

// PunctuationPatternContext states where a punctuation pattern may occur.
type PunctuationPatternContext int

const (
	PunctuationInitial PunctuationPatternContext = iota
	PunctuationMedial
	PunctuationFinal
	PunctuationBreak
	PunctuationIsolate
)

func (c PunctuationPatternContext) String() string {
	switch c {
	case PunctuationInitial:
		return "initial"
	case PunctuationMedial:
		return "medial"
	case PunctuationFinal:
		return "final"
	case PunctuationBreak:
		return "break"
	case PunctuationIsolate:
		return "isolate"
	default:
		return fmt.Sprintf("punctuation-context(%d)", int(c))
	}
}

// PunctuationPattern is a punctuation sequence and the context it occurs in.
type PunctuationPattern struct {
	Pattern string
	Context PunctuationPatternContext
}

// FontRoles is a bit set of the roles a font plays for the writing system.
type FontRoles int

const (
	FontRoleDefault FontRoles = 1 << iota
	FontRoleHeading
	FontRoleEmphasis
)

func (r FontRoles) String() string {
	if r == 0 {
		return "none"
	}
	var parts []string
	if r&FontRoleDefault != 0 {
		parts = append(parts, "default")
	}
	if r&FontRoleHeading != 0 {
		parts = append(parts, "heading")
	}
	if r&FontRoleEmphasis != 0 {
		parts = append(parts, "emphasis")
	}
	return strings.Join(parts, "|")
}

// FontEngines is a bit set of the rendering engines a font supports.
type FontEngines int

const (
	FontEngineOpenType FontEngines = 1 << iota
	FontEngineGraphite
)

func (e FontEngines) String() string {
	if e == 0 {
		return "none"
	}
	var parts []string
	if e&FontEngineOpenType != 0 {
		parts = append(parts, "opentype")
	}
	if e&FontEngineGraphite != 0 {
		parts = append(parts, "graphite")
	}
	return strings.Join(parts, "|")
}

// FontDefinition describes one font resource.
type FontDefinition struct {
	Name             string
	Roles            FontRoles
	RelativeSize     float64
	MinVersion       string
	Features         string
	Language         string
	OpenTypeLanguage string
	Engines          FontEngines
	Subset           string
	URLs             []string
}

// SpellCheckDictionaryFormat identifies a spell-check dictionary payload.
type SpellCheckDictionaryFormat int

const (
	SpellCheckHunspell SpellCheckDictionaryFormat = iota
	SpellCheckWordlist
	SpellCheckLift
)

func (f SpellCheckDictionaryFormat) String() string {
	switch f {
	case SpellCheckHunspell:
		return "hunspell"
	case SpellCheckWordlist:
		return "wordlist"
	case SpellCheckLift:
		return "lift"
	default:
		return fmt.Sprintf("spellcheck-format(%d)", int(f))
	}
}

// SpellCheckDictionaryDefinition describes one spell-check dictionary resource.
type SpellCheckDictionaryDefinition struct {
	Format SpellCheckDictionaryFormat
	URLs   []string
}

// KeyboardFormat identifies a keyboard layout payload.
type KeyboardFormat int

const (
	KeyboardUnknown KeyboardFormat = iota
	KeyboardKeyman
	KeyboardCompiledKeyman
	KeyboardMsklc
	KeyboardLdml
	KeyboardKeylayout
)

func (f KeyboardFormat) String() string {
	switch f {
	case KeyboardUnknown:
		return "unknown"
	case KeyboardKeyman:
		return "keyman"
	case KeyboardCompiledKeyman:
		return "compiled-keyman"
	case KeyboardMsklc:
		return "msklc"
	case KeyboardLdml:
		return "ldml"
	case KeyboardKeylayout:
		return "keylayout"
	default:
		return fmt.Sprintf("keyboard-format(%d)", int(f))
	}
}

// KeyboardDefinition describes one keyboard layout resource.
type KeyboardDefinition struct {
	ID     string
	Format KeyboardFormat
	URLs   []string
}
