// Package ldml maps between LDML locale documents and the writing-system
// model. Reading populates a writingsystems.Definition from a document;
// writing merges a definition into a prior document, regenerating only the
// elements the mapper understands so everything else survives byte for byte.
package ldml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	liberrors "github.com/AndrewChristensenFCBH/libpalaso/errors"
	"github.com/AndrewChristensenFCBH/libpalaso/internal/atomicfile"
	"github.com/AndrewChristensenFCBH/libpalaso/internal/xmldom"
	"github.com/AndrewChristensenFCBH/libpalaso/langtags"
	"github.com/AndrewChristensenFCBH/libpalaso/writingsystems"
)

// TagNormalizer converts identity subtags recorded with the legacy
// private-use convention into canonical language, script, region, and
// variant components.
type TagNormalizer interface {
	NormalizePrivateUse(language, script, region, variant string) (string, string, string, string, error)
}

// Option configures a DataMapper.
type Option interface{ apply(*mapperOptions) }

type optionFunc func(*mapperOptions)

func (f optionFunc) apply(cfg *mapperOptions) {
	if cfg == nil {
		return
	}
	f(cfg)
}

type mapperOptions struct {
	normalizer      TagNormalizer
	legacyRoundTrip bool
}

// WithTagNormalizer overrides the normalizer applied to legacy identity
// blocks. The default is langtags.Normalizer.
func WithTagNormalizer(n TagNormalizer) Option {
	return optionFunc(func(cfg *mapperOptions) {
		if n != nil {
			cfg.normalizer = n
		}
	})
}

// WithLegacyRoundTrip controls whether a Write re-emits the raw identity
// subtags captured by a legacy-convention Read on the same mapper. Enabled
// by default.
func WithLegacyRoundTrip(enabled bool) Option {
	return optionFunc(func(cfg *mapperOptions) {
		cfg.legacyRoundTrip = enabled
	})
}

func applyOptions(opts []Option) mapperOptions {
	cfg := mapperOptions{
		normalizer:      langtags.Normalizer{},
		legacyRoundTrip: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&cfg)
		}
	}
	return cfg
}

// DataMapper reads and writes LDML documents. A mapper additionally carries
// one piece of session state: whether its last Read met the legacy
// private-use identity convention, and the raw subtags it saw. A later Write
// on the same mapper reproduces those subtags in the identity block. A
// DataMapper is not safe for concurrent use; independent calls should use
// independent mappers.
type DataMapper struct {
	options mapperOptions

	legacy      bool
	rawLanguage string
	rawScript   string
	rawRegion   string
	rawVariant  string
}

// NewDataMapper returns a mapper with the given options applied.
func NewDataMapper(opts ...Option) *DataMapper {
	return &DataMapper{options: applyOptions(opts)}
}

// Read parses an LDML document from r into ws. On success the definition is
// marked unchanged. On failure the definition's state is undefined and must
// be discarded.
func (m *DataMapper) Read(r io.Reader, ws *writingsystems.Definition) error {
	if r == nil {
		return fmt.Errorf("read ldml: %w", liberrors.NewConversion(liberrors.ErrMissingArgument, "source reader is nil", ""))
	}
	if ws == nil {
		return fmt.Errorf("read ldml: %w", liberrors.NewConversion(liberrors.ErrMissingArgument, "definition is nil", ""))
	}
	doc, err := xmldom.Parse(r)
	if err != nil {
		return fmt.Errorf("read ldml: %w", liberrors.NewConversionf(liberrors.ErrFormat, "", "malformed document: %v", err))
	}
	if err := m.readDocument(doc, ws); err != nil {
		return fmt.Errorf("read ldml: %w", err)
	}
	return nil
}

// ReadFile parses the LDML file at path into ws.
func (m *DataMapper) ReadFile(path string, ws *writingsystems.Definition) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("read ldml file %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close ldml file %s: %w", path, closeErr)
		}
	}()

	if err := m.Read(f, ws); err != nil {
		return fmt.Errorf("read ldml file %s: %w", path, err)
	}
	return nil
}

// Write serializes ws to w. When prior is non-nil it supplies the merge
// base: the writer regenerates only the elements it understands and leaves
// every other node of the prior document untouched. prior is consumed fully
// before Write returns.
func (m *DataMapper) Write(w io.Writer, ws *writingsystems.Definition, prior io.Reader) error {
	if w == nil {
		return fmt.Errorf("write ldml: %w", liberrors.NewConversion(liberrors.ErrMissingArgument, "destination writer is nil", ""))
	}
	if ws == nil {
		return fmt.Errorf("write ldml: %w", liberrors.NewConversion(liberrors.ErrMissingArgument, "definition is nil", ""))
	}

	var doc *xmldom.Document
	if prior != nil {
		parsed, err := xmldom.Parse(prior)
		if err != nil {
			return fmt.Errorf("write ldml: %w", liberrors.NewConversionf(liberrors.ErrFormat, "", "malformed merge base: %v", err))
		}
		if err := checkRoot(parsed.Root()); err != nil {
			return fmt.Errorf("write ldml: %w", err)
		}
		doc = parsed
	} else {
		doc = xmldom.NewDocument(xmldom.NewElement("", "ldml"))
	}

	m.writeDocument(doc, ws)
	if err := xmldom.Serialize(doc, w); err != nil {
		return fmt.Errorf("write ldml: %w", err)
	}
	return nil
}

// WriteFile serializes ws to the file at path. An existing file at path is
// used as the merge base. The destination is replaced atomically: content is
// written to a temporary file in the same directory and renamed over path
// only after a fully successful write.
func (m *DataMapper) WriteFile(path string, ws *writingsystems.Definition) error {
	if ws == nil {
		return fmt.Errorf("write ldml file %s: %w", path,
			liberrors.NewConversion(liberrors.ErrMissingArgument, "definition is nil", ""))
	}

	var prior io.Reader
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		prior = bytes.NewReader(data)
	case errors.Is(err, fs.ErrNotExist):
	default:
		return fmt.Errorf("write ldml file %s: %w", path, err)
	}

	err = atomicfile.Replace(path, func(w io.Writer) error {
		return m.Write(w, ws, prior)
	})
	if err != nil {
		return fmt.Errorf("write ldml file %s: %w", path, err)
	}
	return nil
}

// Read parses an LDML document with a fresh default mapper.
func Read(r io.Reader, ws *writingsystems.Definition) error {
	return NewDataMapper().Read(r, ws)
}

// ReadFile parses an LDML file with a fresh default mapper.
func ReadFile(path string, ws *writingsystems.Definition) error {
	return NewDataMapper().ReadFile(path, ws)
}

// Write serializes a definition with a fresh default mapper.
func Write(w io.Writer, ws *writingsystems.Definition, prior io.Reader) error {
	return NewDataMapper().Write(w, ws, prior)
}

// WriteFile serializes a definition to a file with a fresh default mapper.
func WriteFile(path string, ws *writingsystems.Definition) error {
	return NewDataMapper().WriteFile(path, ws)
}
