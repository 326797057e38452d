// Package xmlnames holds the namespace constants shared by the LDML reader
// and writer.
package xmlnames

const (
	// XMLPrefix is the reserved prefix for the XML namespace.
	XMLPrefix = "xml"
	// XMLNSPrefix is the reserved prefix for namespace declarations.
	XMLNSPrefix = "xmlns"
	// XMLNamespace is the XML namespace URI.
	XMLNamespace = "http://www.w3.org/XML/1998/namespace"
	// XMLNSNamespace is the XMLNS namespace URI.
	XMLNSNamespace = "http://www.w3.org/2000/xmlns/"
	// SilNamespace is the SIL vendor-extension ("special") namespace URI.
	SilNamespace = "urn://www.sil.org/ldml/0.1"
	// SilPrefix is the conventional prefix for SilNamespace.
	SilPrefix = "sil"
	// LegacyPalasoNamespace marked pre-SIL writing-system files; documents
	// carrying it predate the current format and cannot be read.
	LegacyPalasoNamespace = "urn://palaso.org/ldmlExtensions/v1"
)
