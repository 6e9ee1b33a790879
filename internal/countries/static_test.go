package countries

import (
	"context"
	"strings"
	"testing"
)

func TestStaticSourceServesBundledDatasets(t *testing.T) {
	source, err := NewStaticSource()
	if err != nil {
		t.Fatalf("static source: %v", err)
	}
	list, err := source.Countries(context.Background())
	if err != nil {
		t.Fatalf("countries: %v", err)
	}
	if len(list) < 20 {
		t.Fatalf("expected a usable bundled pool, got %d records", len(list))
	}

	var foundMexico bool
	for _, country := range list {
		if country.Name == "" || country.Code == "" {
			t.Fatalf("record missing identity fields: %+v", country)
		}
		if !strings.Contains(country.FlagSVG, DefaultTrustedFlagHost) {
			t.Fatalf("flag URL not on trusted host: %q", country.FlagSVG)
		}
		if country.Code == "MX" {
			foundMexico = true
			if country.DisplayName("fr") != "Mexique" {
				t.Fatalf("expected french name Mexique, got %q", country.DisplayName("fr"))
			}
			if country.DisplayName("en") != "Mexico" {
				t.Fatalf("expected english name Mexico, got %q", country.DisplayName("en"))
			}
		}
	}
	if !foundMexico {
		t.Fatalf("expected Mexico in the bundled dataset")
	}
}

func TestStaticSourceIsStableAcrossCalls(t *testing.T) {
	source, err := NewStaticSource()
	if err != nil {
		t.Fatalf("static source: %v", err)
	}
	first, _ := source.Countries(context.Background())
	second, _ := source.Countries(context.Background())
	if len(first) != len(second) {
		t.Fatalf("expected stable record set")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("record %d changed between calls", i)
		}
	}
}
