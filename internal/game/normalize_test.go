package game

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		same bool
	}{
		{"accent and case fold", "École", "ecole", true},
		{"surrounding whitespace", " Foo ", "foo", true},
		{"accented capital", "México", "mexico", true},
		{"different letters stay different", "Chad", "Chile", false},
		{"cedilla", "Curaçao", "curacao", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.a) == Normalize(tc.b)
			if got != tc.same {
				t.Fatalf("Normalize(%q)=%q, Normalize(%q)=%q, equal=%v, want %v",
					tc.a, Normalize(tc.a), tc.b, Normalize(tc.b), got, tc.same)
			}
		})
	}
}

func TestNormalizeIsPure(t *testing.T) {
	in := "  Côte d'Ivoire  "
	first := Normalize(in)
	second := Normalize(in)
	if first != second {
		t.Fatalf("normalize not deterministic: %q vs %q", first, second)
	}
	if first != "cote d'ivoire" {
		t.Fatalf("unexpected canonical form %q", first)
	}
}
