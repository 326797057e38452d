package xmldom

import (
	"testing"
)

func TestElementChildAccess(t *testing.T) {
	// all three child kinds implement Node
	var _ Node = (*Element)(nil)
	var _ Node = Text("")
	var _ Node = Comment("")

	root := NewElement("", "ldml")
	identity := NewElement("", "identity")
	characters := NewElement("", "characters")
	root.AppendChild(identity)
	root.AppendChild(Text("\n"))
	root.AppendChild(characters)

	if got := len(root.Children()); got != 2 {
		t.Fatalf("Children() returned %d elements, want 2", got)
	}
	if got := root.Child("", "identity"); got != identity {
		t.Errorf("Child(identity) = %v, want the appended element", got)
	}
	if got := root.Child("", "missing"); got != nil {
		t.Errorf("Child(missing) = %v, want nil", got)
	}
	if got := identity.Parent(); got != root {
		t.Errorf("Parent() = %v, want root", got)
	}
}

func TestElementChildrenNamed(t *testing.T) {
	root := NewElement("", "collations")
	a := NewElement("", "collation")
	b := NewElement("", "collation")
	root.AppendChild(a)
	root.AppendChild(NewElement("", "defaultCollation"))
	root.AppendChild(b)

	got := root.ChildrenNamed("", "collation")
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("ChildrenNamed(collation) = %v, want [a b] in document order", got)
	}
}

func TestAppendChildReparents(t *testing.T) {
	first := NewElement("", "first")
	second := NewElement("", "second")
	child := NewElement("", "child")
	first.AppendChild(child)
	second.AppendChild(child)

	if got := len(first.Children()); got != 0 {
		t.Errorf("old parent still has %d children, want 0", got)
	}
	if got := child.Parent(); got != second {
		t.Errorf("Parent() = %v, want second", got)
	}
}

func TestInsertBefore(t *testing.T) {
	root := NewElement("", "ldml")
	identity := NewElement("", "identity")
	layout := NewElement("", "layout")
	root.AppendChild(identity)
	root.AppendChild(layout)

	characters := NewElement("", "characters")
	root.InsertBefore(characters, layout)

	want := []string{"identity", "characters", "layout"}
	children := root.Children()
	if len(children) != len(want) {
		t.Fatalf("got %d children, want %d", len(children), len(want))
	}
	for i, name := range want {
		if children[i].LocalName() != name {
			t.Errorf("child[%d] = %s, want %s", i, children[i].LocalName(), name)
		}
	}
}

func TestInsertBeforeNilAppends(t *testing.T) {
	root := NewElement("", "ldml")
	root.AppendChild(NewElement("", "identity"))
	special := NewElement("", "special")
	root.InsertBefore(special, nil)

	children := root.Children()
	if got := children[len(children)-1]; got != special {
		t.Errorf("last child = %v, want the inserted element", got)
	}
}

func TestRemoveChildrenNamed(t *testing.T) {
	root := NewElement("", "characters")
	root.AppendChild(NewElement("", "exemplarCharacters"))
	root.AppendChild(Text("\n"))
	root.AppendChild(NewElement("", "exemplarCharacters"))
	special := NewElement("", "special")
	root.AppendChild(special)

	root.RemoveChildrenNamed("", "exemplarCharacters")

	if got := len(root.ChildrenNamed("", "exemplarCharacters")); got != 0 {
		t.Errorf("%d exemplarCharacters remain, want 0", got)
	}
	if got := root.Child("", "special"); got != special {
		t.Errorf("special child lost during removal")
	}
}

func TestAttrOperations(t *testing.T) {
	e := NewElement("", "collation")
	e.SetAttr("", "type", "standard")
	e.SetAttr("urn://example", "needscompiling", "true")

	if got := e.Attr("", "type"); got != "standard" {
		t.Errorf(`Attr(type) = %q, want "standard"`, got)
	}
	e.SetAttr("", "type", "simple")
	if got := e.Attr("", "type"); got != "simple" {
		t.Errorf(`Attr(type) after SetAttr = %q, want "simple"`, got)
	}
	if got := len(e.Attrs()); got != 2 {
		t.Errorf("len(Attrs()) = %d, want 2 after in-place update", got)
	}
	e.RemoveAttr("urn://example", "needscompiling")
	if e.HasAttr("urn://example", "needscompiling") {
		t.Errorf("HasAttr(needscompiling) = true after RemoveAttr")
	}
}

func TestTextAndSetText(t *testing.T) {
	e := NewElement("", "quotationStart")
	e.AppendChild(Text("“"))
	if got := e.Text(); got != "“" {
		t.Errorf("Text() = %q, want %q", got, "“")
	}
	e.SetText("«")
	if got := e.Text(); got != "«" {
		t.Errorf("Text() after SetText = %q, want %q", got, "«")
	}
	if got := len(e.nodes); got != 1 {
		t.Errorf("SetText left %d nodes, want 1", got)
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Element
		want  bool
	}{
		{
			name:  "no children",
			build: func() *Element { return NewElement("", "numbers") },
			want:  true,
		},
		{
			name: "whitespace only",
			build: func() *Element {
				e := NewElement("", "numbers")
				e.AppendChild(Text("\n\t"))
				return e
			},
			want: true,
		},
		{
			name: "has attribute",
			build: func() *Element {
				e := NewElement("", "numbers")
				e.SetAttr("", "draft", "approved")
				return e
			},
			want: false,
		},
		{
			name: "has element child",
			build: func() *Element {
				e := NewElement("", "numbers")
				e.AppendChild(NewElement("", "defaultNumberingSystem"))
				return e
			},
			want: false,
		},
		{
			name: "has text",
			build: func() *Element {
				e := NewElement("", "version")
				e.AppendChild(Text("1"))
				return e
			},
			want: false,
		},
		{
			name: "has comment",
			build: func() *Element {
				e := NewElement("", "numbers")
				e.AppendChild(Comment(" keep "))
				return e
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.build().IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}
