package writingsystems

// CollationDefinition is one collation scheme of a writing system. The three
// implementations are IcuCollation, SimpleCollation, and InheritedCollation;
// a definition never changes shape once constructed.
type CollationDefinition interface {
	// Type returns the collation's type identifier, e.g. "standard".
	Type() string

	collationDefinition()
}

// IcuCollation sorts by explicit ICU rule text. Valid reports whether the
// rules are known-good; rules that still need compiling are not valid.
type IcuCollation struct {
	CollationType string
	IcuRules      string
	Valid         bool
}

func (c IcuCollation) Type() string { return c.CollationType }

func (IcuCollation) collationDefinition() {}

// SimpleCollation sorts by a free-form simple ordering rule text.
type SimpleCollation struct {
	CollationType string
	SimpleRules   string
}

func (c SimpleCollation) Type() string { return c.CollationType }

func (SimpleCollation) collationDefinition() {}

// InheritedCollation defers to a collation of another writing system.
type InheritedCollation struct {
	CollationType string
	BaseTag       string
	BaseType      string
}

func (c InheritedCollation) Type() string { return c.CollationType }

func (InheritedCollation) collationDefinition() {}
