package ldml_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	liberrors "github.com/AndrewChristensenFCBH/libpalaso/errors"
	"github.com/AndrewChristensenFCBH/libpalaso/ldml"
	"github.com/AndrewChristensenFCBH/libpalaso/writingsystems"
)

func read(t *testing.T, doc string) *writingsystems.Definition {
	t.Helper()
	var ws writingsystems.Definition
	require.NoError(t, ldml.Read(strings.NewReader(doc), &ws))
	return &ws
}

func readErr(t *testing.T, doc string) error {
	t.Helper()
	var ws writingsystems.Definition
	err := ldml.Read(strings.NewReader(doc), &ws)
	require.Error(t, err)
	return err
}

func TestReadMinimalIdentity(t *testing.T) {
	ws := read(t, `<ldml><identity><language type="en"/></identity></ldml>`)

	require.Equal(t, "en", ws.Language())
	require.Empty(t, ws.Script())
	require.Empty(t, ws.Region())
	require.Empty(t, ws.Variant())
	require.Equal(t, "en", ws.ID())
	require.False(t, ws.IsChanged())
}

func TestReadFullIdentity(t *testing.T) {
	ws := read(t, `<ldml xmlns:sil="urn://www.sil.org/ldml/0.1">
	<identity>
		<version number="2.1">minor corrections</version>
		<generation date="2019-05-04T11:02:03"/>
		<language type="grt"/>
		<script type="Beng"/>
		<territory type="IN"/>
		<variant type="fonipa-x-etic"/>
		<special>
			<sil:identity windowsLCID="1111" defaultRegion="IN" variantName="Phonetic"/>
		</special>
	</identity>
</ldml>`)

	require.Equal(t, "grt", ws.Language())
	require.Equal(t, "Beng", ws.Script())
	require.Equal(t, "IN", ws.Region())
	require.Equal(t, "fonipa-x-etic", ws.Variant())
	require.Equal(t, "grt-Beng-IN-fonipa-x-etic", ws.ID())
	require.Equal(t, "2.1", ws.VersionNumber())
	require.Equal(t, "minor corrections", ws.VersionDescription())
	require.Equal(t, time.Date(2019, 5, 4, 11, 2, 3, 0, time.UTC), ws.DateModified())
	require.Equal(t, "1111", ws.WindowsLCID())
	require.Equal(t, "IN", ws.DefaultRegion())

	variants := ws.Variants()
	require.Len(t, variants, 2)
	require.Equal(t, "fonipa", variants[0].Code)
	require.Equal(t, "Phonetic", variants[0].Name)
	require.False(t, variants[0].IsPrivateUse)
	require.Equal(t, "etic", variants[1].Code)
	require.True(t, variants[1].IsPrivateUse)
}

func TestReadGenerationDateForms(t *testing.T) {
	tests := []struct {
		name string
		date string
		want time.Time
	}{
		{name: "rfc3339", date: "2019-05-04T11:02:03Z", want: time.Date(2019, 5, 4, 11, 2, 3, 0, time.UTC)},
		{name: "sortable", date: "2019-05-04T11:02:03", want: time.Date(2019, 5, 4, 11, 2, 3, 0, time.UTC)},
		{name: "legacy", date: "2019-05-04 11:02:03", want: time.Date(2019, 5, 4, 11, 2, 3, 0, time.UTC)},
		{name: "bare date", date: "2019-05-04", want: time.Date(2019, 5, 4, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := read(t, `<ldml><identity><generation date="`+tt.date+`"/></identity></ldml>`)
			require.Equal(t, tt.want, ws.DateModified())
		})
	}
}

func TestReadGenerationDateFallsBackToNow(t *testing.T) {
	for _, date := range []string{"$Date: 2008/06/18 22:52:35 $", "yesterday"} {
		ws := read(t, `<ldml><identity><generation date="`+date+`"/></identity></ldml>`)
		require.WithinDuration(t, time.Now(), ws.DateModified(), time.Minute, "date %q", date)
	}
}

func TestReadGenerationAbsentLeavesZeroDate(t *testing.T) {
	ws := read(t, `<ldml><identity><language type="en"/></identity></ldml>`)
	require.True(t, ws.DateModified().IsZero())
}

func TestReadLegacyPrivateUseIdentity(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		wantLang    string
		wantVariant string
	}{
		{
			name:        "unregistered language",
			doc:         `<ldml><identity><language type="x-kal"/></identity></ldml>`,
			wantLang:    "qaa",
			wantVariant: "x-kal",
		},
		{
			name:        "registered language promotes",
			doc:         `<ldml><identity><language type="x-en"/></identity></ldml>`,
			wantLang:    "en",
			wantVariant: "",
		},
		{
			name:        "payload after language stays private",
			doc:         `<ldml><identity><language type="x-kal"/><variant type="fonipa"/></identity></ldml>`,
			wantLang:    "qaa",
			wantVariant: "fonipa-x-kal",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := read(t, tt.doc)
			require.Equal(t, tt.wantLang, ws.Language())
			require.Equal(t, tt.wantVariant, ws.Variant())
		})
	}
}

// payloadNormalizer keeps the x- payload as the language unchanged.
type payloadNormalizer struct{}

func (payloadNormalizer) NormalizePrivateUse(lang, script, region, variant string) (string, string, string, string, error) {
	return strings.TrimPrefix(lang, "x-"), script, region, variant, nil
}

func TestReadLegacyIdentityWithCustomNormalizer(t *testing.T) {
	doc := `<ldml><identity><language type="x-kal"/><script type="Latn"/></identity></ldml>`

	m := ldml.NewDataMapper(ldml.WithTagNormalizer(payloadNormalizer{}))
	var ws writingsystems.Definition
	require.NoError(t, m.Read(strings.NewReader(doc), &ws))
	require.Equal(t, "kal", ws.Language())
	require.Equal(t, "Latn", ws.Script())
	require.Empty(t, ws.Variant())
}

func TestReadCharacters(t *testing.T) {
	ws := read(t, `<ldml xmlns:sil="urn://www.sil.org/ldml/0.1">
	<characters>
		<exemplarCharacters>[a b {ch}]</exemplarCharacters>
		<exemplarCharacters type="auxiliary">[d-f]</exemplarCharacters>
		<special>
			<sil:exemplarCharacters type="footnotes">[* †]</sil:exemplarCharacters>
			<sil:exemplarCharacters>[ignored]</sil:exemplarCharacters>
		</special>
	</characters>
</ldml>`)

	main, ok := ws.CharacterSet("main")
	require.True(t, ok)
	require.Equal(t, []string{"a", "b", "ch"}, main)

	aux, ok := ws.CharacterSet("auxiliary")
	require.True(t, ok)
	require.Equal(t, []string{"d", "e", "f"}, aux)

	footnotes, ok := ws.CharacterSet("footnotes")
	require.True(t, ok)
	require.Equal(t, []string{"*", "†"}, footnotes)

	require.Equal(t, []string{"auxiliary", "footnotes", "main"}, ws.CharacterSetTypes())
}

func TestReadCharactersBadPattern(t *testing.T) {
	err := readErr(t, `<ldml><characters><exemplarCharacters>[a</exemplarCharacters></characters></ldml>`)
	require.True(t, liberrors.HasCode(err, liberrors.ErrFormat), "got %v", err)
}

func TestReadDelimiters(t *testing.T) {
	ws := read(t, `<ldml xmlns:sil="urn://www.sil.org/ldml/0.1">
	<delimiters>
		<quotationStart>“</quotationStart>
		<quotationEnd>”</quotationEnd>
		<alternateQuotationStart>‘</alternateQuotationStart>
		<alternateQuotationEnd>’</alternateQuotationEnd>
		<special>
			<sil:matched-pairs>
				<sil:matched-pair open="(" close=")" paraClose="false"/>
				<sil:matched-pair open="[" close="]" paraClose="true"/>
			</sil:matched-pairs>
			<sil:punctuation-patterns>
				<sil:punctuation-pattern pattern="?!" context="final"/>
			</sil:punctuation-patterns>
			<sil:quotation-marks paraContinuType="outer">
				<sil:quotationContinue>„</sil:quotationContinue>
				<sil:quotation open="«" close="»" level="3"/>
				<sil:quotation open="-" level="1" type="narrative"/>
			</sil:quotation-marks>
		</special>
	</delimiters>
</ldml>`)

	marks := ws.QuotationMarks()
	require.Equal(t, []writingsystems.QuotationMark{
		{Open: "“", Close: "”", Continue: "„", Level: 1, Type: writingsystems.QuotationNormal},
		{Open: "‘", Close: "’", Level: 2, Type: writingsystems.QuotationNormal},
		{Open: "«", Close: "»", Level: 3, Type: writingsystems.QuotationNormal},
		{Open: "-", Level: 1, Type: writingsystems.QuotationNarrative},
	}, marks)

	require.Equal(t, []writingsystems.MatchedPair{
		{Open: "(", Close: ")"},
		{Open: "[", Close: "]", ParagraphClose: true},
	}, ws.MatchedPairs())

	require.Equal(t, []writingsystems.PunctuationPattern{
		{Pattern: "?!", Context: writingsystems.PunctuationFinal},
	}, ws.PunctuationPatterns())

	require.Equal(t, writingsystems.ParagraphContinueOutermost, ws.QuotationParagraphContinue())
}

func TestReadDelimitersReplacesExistingMarks(t *testing.T) {
	var ws writingsystems.Definition
	require.NoError(t, ws.AddQuotationMark(writingsystems.QuotationMark{Open: "'", Level: 1, Type: writingsystems.QuotationNormal}))
	ws.AddMatchedPair(writingsystems.MatchedPair{Open: "{", Close: "}"})

	doc := `<ldml><delimiters><quotationStart>“</quotationStart></delimiters></ldml>`
	require.NoError(t, ldml.Read(strings.NewReader(doc), &ws))

	marks := ws.QuotationMarks()
	require.Len(t, marks, 1)
	require.Equal(t, "“", marks[0].Open)
	require.Empty(t, ws.MatchedPairs())
}

func TestReadDelimiterErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code liberrors.ErrorCode
	}{
		{
			name: "bad paraClose",
			doc: `<ldml xmlns:sil="urn://www.sil.org/ldml/0.1"><delimiters><special><sil:matched-pairs>` +
				`<sil:matched-pair open="(" close=")" paraClose="maybe"/></sil:matched-pairs></special></delimiters></ldml>`,
			code: liberrors.ErrFormat,
		},
		{
			name: "unknown punctuation context",
			doc: `<ldml xmlns:sil="urn://www.sil.org/ldml/0.1"><delimiters><special><sil:punctuation-patterns>` +
				`<sil:punctuation-pattern pattern="." context="weird"/></sil:punctuation-patterns></special></delimiters></ldml>`,
			code: liberrors.ErrLookup,
		},
		{
			name: "missing punctuation context",
			doc: `<ldml xmlns:sil="urn://www.sil.org/ldml/0.1"><delimiters><special><sil:punctuation-patterns>` +
				`<sil:punctuation-pattern pattern="."/></sil:punctuation-patterns></special></delimiters></ldml>`,
			code: liberrors.ErrLookup,
		},
		{
			name: "bad quotation level",
			doc: `<ldml xmlns:sil="urn://www.sil.org/ldml/0.1"><delimiters><special><sil:quotation-marks>` +
				`<sil:quotation open="«" level="x"/></sil:quotation-marks></special></delimiters></ldml>`,
			code: liberrors.ErrFormat,
		},
		{
			name: "unknown quotation type",
			doc: `<ldml xmlns:sil="urn://www.sil.org/ldml/0.1"><delimiters><special><sil:quotation-marks>` +
				`<sil:quotation open="-" level="1" type="fancy"/></sil:quotation-marks></special></delimiters></ldml>`,
			code: liberrors.ErrLookup,
		},
		{
			name: "unknown paragraph continuation",
			doc: `<ldml xmlns:sil="urn://www.sil.org/ldml/0.1"><delimiters><special>` +
				`<sil:quotation-marks paraContinuType="sideways"/></special></delimiters></ldml>`,
			code: liberrors.ErrLookup,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := readErr(t, tt.doc)
			require.True(t, liberrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestReadLayout(t *testing.T) {
	tests := []struct {
		order string
		want  bool
	}{
		{order: "right-to-left", want: true},
		{order: "left-to-right", want: false},
		{order: "top-to-bottom", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.order, func(t *testing.T) {
			ws := read(t, `<ldml><layout><orientation><characterOrder>`+tt.order+`</characterOrder></orientation></layout></ldml>`)
			require.Equal(t, tt.want, ws.RightToLeft())
		})
	}
}

func TestReadNumbers(t *testing.T) {
	ws := read(t, `<ldml>
	<numbers>
		<defaultNumberingSystem>beng</defaultNumberingSystem>
		<numberingSystem id="beng" type="numeric" digits="০১২৩৪৫৬৭৮৯"/>
	</numbers>
</ldml>`)

	digits, ok := ws.CharacterSet("numeric")
	require.True(t, ok)
	require.Len(t, digits, 10)
	require.Equal(t, "০", digits[0])
	require.Equal(t, "৯", digits[9])
}

func TestReadNumbersIgnoresUnknownSystem(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "undeclared id",
			doc: `<ldml><numbers><defaultNumberingSystem>thai</defaultNumberingSystem>` +
				`<numberingSystem id="latn" type="numeric" digits="0123456789"/></numbers></ldml>`,
		},
		{
			name: "non-numeric type",
			doc: `<ldml><numbers><defaultNumberingSystem>algo</defaultNumberingSystem>` +
				`<numberingSystem id="algo" type="algorithmic"/></numbers></ldml>`,
		},
		{
			name: "no default element",
			doc:  `<ldml><numbers><numberingSystem id="latn" type="numeric" digits="0123456789"/></numbers></ldml>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := read(t, tt.doc)
			_, ok := ws.CharacterSet("numeric")
			require.False(t, ok)
		})
	}
}

func TestReadCollations(t *testing.T) {
	ws := read(t, `<ldml xmlns:sil="urn://www.sil.org/ldml/0.1">
	<collations>
		<defaultCollation>standard</defaultCollation>
		<collation type="standard">
			<cr>&amp; b &lt; a</cr>
		</collation>
		<collation type="simple">
			<special>
				<sil:simple>b a c</sil:simple>
			</special>
		</collation>
		<collation type="borrowed">
			<special>
				<sil:inherited base="my" type="standard"/>
			</special>
		</collation>
		<collation type="reordering">
			<special>
				<sil:reordered>z y x</sil:reordered>
			</special>
		</collation>
	</collations>
</ldml>`)

	defs := ws.Collations()
	require.Len(t, defs, 3, "reordered collations are skipped")
	require.Equal(t, writingsystems.IcuCollation{CollationType: "standard", IcuRules: "& b < a", Valid: true}, defs[0])
	require.Equal(t, writingsystems.SimpleCollation{CollationType: "simple", SimpleRules: "b a c"}, defs[1])
	require.Equal(t, writingsystems.InheritedCollation{CollationType: "borrowed", BaseTag: "my", BaseType: "standard"}, defs[2])

	def, ok := ws.DefaultCollation()
	require.True(t, ok)
	require.Equal(t, "standard", def.Type())
}

func TestReadCollationNeedsCompiling(t *testing.T) {
	ws := read(t, `<ldml xmlns:sil="urn://www.sil.org/ldml/0.1">
	<collations>
		<collation type="standard" sil:needscompiling="true">
			<cr>&amp; b &lt; a</cr>
		</collation>
	</collations>
</ldml>`)

	defs := ws.Collations()
	require.Len(t, defs, 1)
	require.Equal(t, writingsystems.IcuCollation{CollationType: "standard", IcuRules: "& b < a", Valid: false}, defs[0])
}

func TestReadCollationsDefaultFallsBackToFirst(t *testing.T) {
	ws := read(t, `<ldml><collations><collation type="custom"><cr>&amp; a</cr></collation></collations></ldml>`)

	def, ok := ws.DefaultCollation()
	require.True(t, ok)
	require.Equal(t, "custom", def.Type())
}

func TestReadCollationTypeDefaultsToStandard(t *testing.T) {
	ws := read(t, `<ldml><collations><collation><cr>&amp; a</cr></collation></collations></ldml>`)

	defs := ws.Collations()
	require.Len(t, defs, 1)
	require.Equal(t, "standard", defs[0].Type())
}

func TestReadCollationShapeDecidedByFirstSpecialElement(t *testing.T) {
	ws := read(t, `<ldml xmlns:sil="urn://www.sil.org/ldml/0.1">
	<collations>
		<collation type="standard">
			<cr>&amp; a &lt; b</cr>
			<special>
				<sil:note>draft ordering</sil:note>
				<sil:simple>a b</sil:simple>
			</special>
		</collation>
	</collations>
</ldml>`)

	defs := ws.Collations()
	require.Len(t, defs, 1)
	require.Equal(t, writingsystems.IcuCollation{CollationType: "standard", IcuRules: "& a < b", Valid: true}, defs[0],
		"a discriminator behind a foreign element does not change the shape")
}

func TestReadExternalResources(t *testing.T) {
	ws := read(t, `<ldml xmlns:sil="urn://www.sil.org/ldml/0.1">
	<special>
		<sil:external-resources>
			<sil:font name="Padauk" types="default emphasis" size="2.1" engines="gr ot" otlang="bod">
				<sil:url>https://example.com/padauk.ttf</sil:url>
			</sil:font>
			<sil:font name=""/>
			<sil:spellcheck type="hunspell">
				<sil:url>https://example.com/grt.dic</sil:url>
			</sil:spellcheck>
			<sil:kbd id="grt-device" type="kmx">
				<sil:url>https://example.com/grt.kmx</sil:url>
			</sil:kbd>
			<sil:kbd type="kmn"/>
		</sil:external-resources>
	</special>
</ldml>`)

	fonts := ws.Fonts()
	require.Len(t, fonts, 1, "nameless fonts are skipped")
	require.Equal(t, writingsystems.FontDefinition{
		Name:             "Padauk",
		Roles:            writingsystems.FontRoleDefault | writingsystems.FontRoleEmphasis,
		RelativeSize:     2.1,
		OpenTypeLanguage: "bod",
		Engines:          writingsystems.FontEngineGraphite | writingsystems.FontEngineOpenType,
		URLs:             []string{"https://example.com/padauk.ttf"},
	}, fonts[0])

	dicts := ws.SpellCheckDictionaries()
	require.Len(t, dicts, 1)
	require.Equal(t, writingsystems.SpellCheckDictionaryDefinition{
		Format: writingsystems.SpellCheckHunspell,
		URLs:   []string{"https://example.com/grt.dic"},
	}, dicts[0])

	keyboards := ws.Keyboards()
	require.Len(t, keyboards, 1, "id-less keyboards are skipped")
	require.Equal(t, writingsystems.KeyboardDefinition{
		ID:     "grt-device",
		Format: writingsystems.KeyboardCompiledKeyman,
		URLs:   []string{"https://example.com/grt.kmx"},
	}, keyboards[0])
}

func TestReadExternalResourcesReplacesExisting(t *testing.T) {
	var ws writingsystems.Definition
	ws.AddFont(writingsystems.FontDefinition{Name: "Old Font"})
	ws.AddKeyboard(writingsystems.KeyboardDefinition{ID: "old"})

	doc := `<ldml xmlns:sil="urn://www.sil.org/ldml/0.1"><special><sil:external-resources>` +
		`<sil:font name="New Font"/></sil:external-resources></special></ldml>`
	require.NoError(t, ldml.Read(strings.NewReader(doc), &ws))

	fonts := ws.Fonts()
	require.Len(t, fonts, 1)
	require.Equal(t, "New Font", fonts[0].Name)
	require.Empty(t, ws.Keyboards())
}

func TestReadExternalResourceErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code liberrors.ErrorCode
	}{
		{
			name: "unknown font role",
			doc: `<ldml xmlns:sil="urn://www.sil.org/ldml/0.1"><special><sil:external-resources>` +
				`<sil:font name="F" types="fancy"/></sil:external-resources></special></ldml>`,
			code: liberrors.ErrLookup,
		},
		{
			name: "unknown font engine",
			doc: `<ldml xmlns:sil="urn://www.sil.org/ldml/0.1"><special><sil:external-resources>` +
				`<sil:font name="F" engines="uniscribe"/></sil:external-resources></special></ldml>`,
			code: liberrors.ErrLookup,
		},
		{
			name: "bad font size",
			doc: `<ldml xmlns:sil="urn://www.sil.org/ldml/0.1"><special><sil:external-resources>` +
				`<sil:font name="F" size="big"/></sil:external-resources></special></ldml>`,
			code: liberrors.ErrFormat,
		},
		{
			name: "spellcheck type required",
			doc: `<ldml xmlns:sil="urn://www.sil.org/ldml/0.1"><special><sil:external-resources>` +
				`<sil:spellcheck/></sil:external-resources></special></ldml>`,
			code: liberrors.ErrLookup,
		},
		{
			name: "unknown keyboard format",
			doc: `<ldml xmlns:sil="urn://www.sil.org/ldml/0.1"><special><sil:external-resources>` +
				`<sil:kbd id="k" type="qwerty"/></sil:external-resources></special></ldml>`,
			code: liberrors.ErrLookup,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := readErr(t, tt.doc)
			require.True(t, liberrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestReadAbsentSectionsLeaveModelAlone(t *testing.T) {
	var ws writingsystems.Definition
	ws.SetCharacterSet("main", []string{"a"})
	ws.AddFont(writingsystems.FontDefinition{Name: "Kept"})
	require.NoError(t, ws.AddCollation(writingsystems.IcuCollation{CollationType: "standard"}))

	require.NoError(t, ldml.Read(strings.NewReader(`<ldml><identity><language type="en"/></identity></ldml>`), &ws))

	_, ok := ws.CharacterSet("main")
	require.True(t, ok)
	require.Len(t, ws.Fonts(), 1)
	require.Len(t, ws.Collations(), 1)
}

func TestReadRootErrors(t *testing.T) {
	var ws writingsystems.Definition

	err := ldml.Read(nil, &ws)
	require.True(t, liberrors.HasCode(err, liberrors.ErrMissingArgument), "got %v", err)

	err = ldml.Read(strings.NewReader("<ldml/>"), nil)
	require.True(t, liberrors.HasCode(err, liberrors.ErrMissingArgument), "got %v", err)

	err = ldml.Read(strings.NewReader("<locale/>"), &ws)
	require.True(t, liberrors.HasCode(err, liberrors.ErrFormat), "got %v", err)

	err = ldml.Read(strings.NewReader("<ldml><identity>"), &ws)
	require.True(t, liberrors.HasCode(err, liberrors.ErrFormat), "got %v", err)

	err = ldml.Read(strings.NewReader(`<ldml xmlns:palaso="urn://palaso.org/ldmlExtensions/v1"/>`), &ws)
	require.True(t, liberrors.HasCode(err, liberrors.ErrUnsupportedVersion), "got %v", err)
}

func TestReadUnsupportedTagFails(t *testing.T) {
	var ws writingsystems.Definition
	err := ldml.Read(strings.NewReader(`<ldml><identity><language type="x-kal"/><script type="12ab"/></identity></ldml>`), &ws)
	require.True(t, liberrors.HasCode(err, liberrors.ErrUnsupportedConversion), "got %v", err)
}
