// Package langtags normalizes identity subtags written with the legacy
// private-use convention, where an "x-" prefixed language attribute carries
// arbitrary authoring data instead of a canonical tag.
package langtags

import (
	"strings"

	"golang.org/x/text/language"

	liberrors "github.com/AndrewChristensenFCBH/libpalaso/errors"
)

const (
	privateUseMarker   = "x-"
	privateUseLanguage = "qaa"
)

// Normalizer is the default tag normalizer. The zero value is ready to use.
type Normalizer struct{}

// NormalizePrivateUse implements the mapper's tag-normalizer contract.
func (Normalizer) NormalizePrivateUse(lang, script, region, variant string) (string, string, string, string, error) {
	return NormalizePrivateUse(lang, script, region, variant)
}

// NormalizePrivateUse converts raw identity subtags into canonical
// language/script/region/variant components. The "x-" marker is stripped from
// the language value; the payload is kept as the language when it already is
// a canonical language subtag, otherwise the language becomes "qaa" and the
// payload moves into the private-use variant chain. Script and region are
// case-normalized and must be well-formed. Variant parts that are not
// registered variant subtags also move into the private-use chain.
func NormalizePrivateUse(lang, script, region, variant string) (string, string, string, string, error) {
	payload := strings.TrimPrefix(strings.TrimSpace(lang), privateUseMarker)
	parts := splitSubtags(payload)

	outLang := privateUseLanguage
	private := parts
	if len(parts) > 0 && isCanonicalLanguage(parts[0]) {
		outLang = parts[0]
		private = parts[1:]
	}

	outScript, err := normalizeScript(script)
	if err != nil {
		return "", "", "", "", err
	}
	outRegion, err := normalizeRegion(region)
	if err != nil {
		return "", "", "", "", err
	}
	standard, extra, err := normalizeVariants(variant)
	if err != nil {
		return "", "", "", "", err
	}
	private = appendMissing(private, extra...)
	for _, p := range private {
		if !isPrivateUseSubtag(p) {
			return "", "", "", "", liberrors.NewConversionf(liberrors.ErrUnsupportedConversion, "",
				"%q cannot become a private-use subtag", p)
		}
	}

	return outLang, outScript, outRegion, composeVariant(standard, private), nil
}

// isCanonicalLanguage reports whether s already is the canonical form of a
// known language subtag. Aliased codes (such as a three-letter code with a
// two-letter equivalent) do not qualify and stay private use.
func isCanonicalLanguage(s string) bool {
	base, err := language.ParseBase(s)
	return err == nil && base.String() == s
}

func normalizeScript(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	scr, err := language.ParseScript(s)
	if err == nil {
		return scr.String(), nil
	}
	if _, ok := err.(language.ValueError); ok {
		// Well-formed but unregistered; keep it with canonical casing.
		return strings.ToUpper(s[:1]) + strings.ToLower(s[1:]), nil
	}
	return "", liberrors.NewConversionf(liberrors.ErrUnsupportedConversion, "",
		"%q is not a valid script subtag", s)
}

func normalizeRegion(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	reg, err := language.ParseRegion(s)
	if err == nil {
		return reg.String(), nil
	}
	if _, ok := err.(language.ValueError); ok {
		return strings.ToUpper(s), nil
	}
	return "", liberrors.NewConversionf(liberrors.ErrUnsupportedConversion, "",
		"%q is not a valid region subtag", s)
}

// normalizeVariants splits a raw variant value into registered variant
// subtags and leftover parts destined for the private-use chain.
func normalizeVariants(s string) (standard, private []string, err error) {
	inPrivate := false
	for _, part := range splitSubtags(s) {
		if part == "x" {
			inPrivate = true
			continue
		}
		if inPrivate {
			private = append(private, part)
			continue
		}
		if v, verr := language.ParseVariant(part); verr == nil {
			standard = append(standard, v.String())
			continue
		}
		if !isPrivateUseSubtag(part) {
			return nil, nil, liberrors.NewConversionf(liberrors.ErrUnsupportedConversion, "",
				"%q is not a valid variant subtag", part)
		}
		private = append(private, part)
	}
	return standard, private, nil
}

func composeVariant(standard, private []string) string {
	switch {
	case len(standard) == 0 && len(private) == 0:
		return ""
	case len(private) == 0:
		return strings.Join(standard, "-")
	case len(standard) == 0:
		return privateUseMarker + strings.Join(private, "-")
	default:
		return strings.Join(standard, "-") + "-" + privateUseMarker + strings.Join(private, "-")
	}
}

// splitSubtags lowers and splits a raw value on dashes, dropping empties.
func splitSubtags(s string) []string {
	var out []string
	for _, part := range strings.Split(strings.ToLower(strings.TrimSpace(s)), "-") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func appendMissing(dst []string, parts ...string) []string {
	for _, p := range parts {
		found := false
		for _, have := range dst {
			if have == p {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, p)
		}
	}
	return dst
}

func isPrivateUseSubtag(s string) bool {
	if len(s) == 0 || len(s) > 8 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
