package ldml

import (
	"strings"

	liberrors "github.com/AndrewChristensenFCBH/libpalaso/errors"
	"github.com/AndrewChristensenFCBH/libpalaso/writingsystems"
)

// Each attribute codec is built from a single pair list so the two directions
// cannot drift. Decoding an unknown token fails with a lookup error; a table
// whose list carries a "" token treats an absent attribute as that default.
// Encoding is total over the enumeration: the first pair listed for a value
// is its canonical token.

type codecPair[E comparable] struct {
	token string
	value E
}

type codec[E comparable] struct {
	name   string
	decode map[string]E
	encode map[E]string
	tokens []string
}

func newCodec[E comparable](name string, pairs []codecPair[E]) *codec[E] {
	c := &codec[E]{
		name:   name,
		decode: make(map[string]E, len(pairs)),
		encode: make(map[E]string, len(pairs)),
	}
	for _, p := range pairs {
		c.decode[p.token] = p.value
		if _, ok := c.encode[p.value]; !ok {
			c.encode[p.value] = p.token
		}
		if p.token != "" {
			c.tokens = append(c.tokens, p.token)
		}
	}
	return c
}

func (c *codec[E]) decodeToken(path, token string) (E, error) {
	v, ok := c.decode[token]
	if !ok {
		var zero E
		return zero, &liberrors.Conversion{
			Code:     string(liberrors.ErrLookup),
			Message:  "unknown " + c.name + " token",
			Path:     path,
			Actual:   token,
			Expected: c.tokens,
		}
	}
	return v, nil
}

func (c *codec[E]) encodeValue(v E) string {
	return c.encode[v]
}

// flagCodec maps a space-separated token list to a bit set. The empty value
// is what an absent attribute decodes to and what encodes back to an absent
// attribute.
type flagCodec[E ~int] struct {
	name   string
	empty  E
	pairs  []codecPair[E]
	decode map[string]E
	tokens []string
}

func newFlagCodec[E ~int](name string, empty E, pairs []codecPair[E]) *flagCodec[E] {
	c := &flagCodec[E]{
		name:   name,
		empty:  empty,
		pairs:  pairs,
		decode: make(map[string]E, len(pairs)),
	}
	for _, p := range pairs {
		c.decode[p.token] = p.value
		c.tokens = append(c.tokens, p.token)
	}
	return c
}

func (c *flagCodec[E]) decodeTokens(path, attr string) (E, error) {
	if strings.TrimSpace(attr) == "" {
		return c.empty, nil
	}
	var out E
	for _, token := range strings.Fields(attr) {
		v, ok := c.decode[token]
		if !ok {
			return 0, &liberrors.Conversion{
				Code:     string(liberrors.ErrLookup),
				Message:  "unknown " + c.name + " token",
				Path:     path,
				Actual:   token,
				Expected: c.tokens,
			}
		}
		out |= v
	}
	return out, nil
}

func (c *flagCodec[E]) encodeFlags(v E) string {
	if v == c.empty {
		return ""
	}
	var tokens []string
	for _, p := range c.pairs {
		if v&p.value != 0 {
			tokens = append(tokens, p.token)
		}
	}
	return strings.Join(tokens, " ")
}

var fontRoleTable = newFlagCodec("font role", writingsystems.FontRoleDefault, []codecPair[writingsystems.FontRoles]{
	{token: "default", value: writingsystems.FontRoleDefault},
	{token: "heading", value: writingsystems.FontRoleHeading},
	{token: "emphasis", value: writingsystems.FontRoleEmphasis},
})

var fontEngineTable = newFlagCodec("font engine", writingsystems.FontEngines(0), []codecPair[writingsystems.FontEngines]{
	{token: "gr", value: writingsystems.FontEngineGraphite},
	{token: "ot", value: writingsystems.FontEngineOpenType},
})

var spellCheckFormatTable = newCodec("spellcheck format", []codecPair[writingsystems.SpellCheckDictionaryFormat]{
	{token: "hunspell", value: writingsystems.SpellCheckHunspell},
	{token: "wordlist", value: writingsystems.SpellCheckWordlist},
	{token: "lift", value: writingsystems.SpellCheckLift},
})

var keyboardFormatTable = newCodec("keyboard format", []codecPair[writingsystems.KeyboardFormat]{
	{token: "", value: writingsystems.KeyboardUnknown},
	{token: "kmn", value: writingsystems.KeyboardKeyman},
	{token: "kmx", value: writingsystems.KeyboardCompiledKeyman},
	{token: "msklc", value: writingsystems.KeyboardMsklc},
	{token: "ldml", value: writingsystems.KeyboardLdml},
	{token: "keylayout", value: writingsystems.KeyboardKeylayout},
})

var punctuationContextTable = newCodec("punctuation context", []codecPair[writingsystems.PunctuationPatternContext]{
	{token: "init", value: writingsystems.PunctuationInitial},
	{token: "medial", value: writingsystems.PunctuationMedial},
	{token: "final", value: writingsystems.PunctuationFinal},
	{token: "break", value: writingsystems.PunctuationBreak},
	{token: "isolate", value: writingsystems.PunctuationIsolate},
})

var quotationTypeTable = newCodec("quotation type", []codecPair[writingsystems.QuotationMarkingSystemType]{
	{token: "", value: writingsystems.QuotationNormal},
	{token: "narrative", value: writingsystems.QuotationNarrative},
})

var paragraphContinueTable = newCodec("paragraph continuation", []codecPair[writingsystems.QuotationParagraphContinueType]{
	{token: "", value: writingsystems.ParagraphContinueNone},
	{token: "all", value: writingsystems.ParagraphContinueAll},
	{token: "outer", value: writingsystems.ParagraphContinueOutermost},
	{token: "inner", value: writingsystems.ParagraphContinueInnermost},
})
