package rendertree

import (
	"errors"
	"testing"
)

func TestFingerprint(t *testing.T) {
	a := buildTree(t, sampleNodes(t)...)
	b := buildTree(t, sampleNodes(t)...)

	fa, err := Fingerprint(a)
	if err != nil {
		t.Fatal(err)
	}
	fb, err := Fingerprint(b)
	if err != nil {
		t.Fatal(err)
	}
	if fa != fb {
		t.Error("identical trees have different fingerprints")
	}
	again, err := Fingerprint(a)
	if err != nil {
		t.Fatal(err)
	}
	if again != fa {
		t.Error("fingerprint of the same tree changed between passes")
	}
	if a.OpenIterators() != 0 {
		t.Errorf("Fingerprint leaked %d iterators", a.OpenIterators())
	}
}

func TestFingerprintDistinguishesTrees(t *testing.T) {
	base := heading1()
	variants := map[string]Text{
		"value": {Value: "heading2", Font: base.Font, FontSize: base.FontSize, Bold: base.Bold},
		"font":  {Value: base.Value, Font: "Arial", FontSize: base.FontSize, Bold: base.Bold},
		"size":  {Value: base.Value, Font: base.Font, FontSize: 36, Bold: base.Bold},
		"bold":  {Value: base.Value, Font: base.Font, FontSize: base.FontSize},
		// Length prefixes keep value/font boundaries distinct.
		"shifted": {Value: "heading1T", Font: "imes New Roman", FontSize: base.FontSize, Bold: base.Bold},
	}

	want, err := Fingerprint(buildTree(t, Root(), mustText(t, base)))
	if err != nil {
		t.Fatal(err)
	}
	for name, txt := range variants {
		got, err := Fingerprint(buildTree(t, Root(), mustText(t, txt)))
		if err != nil {
			t.Fatal(err)
		}
		if got == want {
			t.Errorf("%s: fingerprint did not change", name)
		}
	}

	rootOnly, err := Fingerprint(buildTree(t, Root()))
	if err != nil {
		t.Fatal(err)
	}
	if rootOnly == want {
		t.Error("root-only tree matches a tree with text")
	}
}

func TestFingerprintReleased(t *testing.T) {
	tree, err := Build(Static(Root()), nil)
	if err != nil {
		t.Fatal(err)
	}
	tree.Release()
	if _, err := Fingerprint(tree); !errors.Is(err, ErrInvalidTree) {
		t.Errorf("Fingerprint(released) = %v, want ErrInvalidTree", err)
	}
}
