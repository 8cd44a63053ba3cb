package metadata

import "testing"

func TestDefaultCatalogLookup(t *testing.T) {
	catalog := DefaultCatalog()

	options, ok := catalog.Lookup("Membership_Type__c")
	if !ok || len(options) == 0 {
		t.Fatalf("expected embedded options for Membership_Type__c")
	}

	if _, ok := catalog.Lookup("Not_A_Field__c"); ok {
		t.Fatalf("unexpected catalog hit for unknown apiName")
	}
}

func TestParseCatalog(t *testing.T) {
	catalog, err := ParseCatalog([]byte("Colour__c:\n  - Red\n  - Blue\n"))
	if err != nil {
		t.Fatalf("ParseCatalog returned error: %v", err)
	}
	options, ok := catalog.Lookup("Colour__c")
	if !ok || len(options) != 2 || options[0] != "Red" {
		t.Fatalf("unexpected options: %v", options)
	}
}

func TestLookupCopiesOptions(t *testing.T) {
	catalog := NewCatalog(map[string][]string{"X__c": {"a", "b"}})

	options, _ := catalog.Lookup("X__c")
	options[0] = "mutated"

	fresh, _ := catalog.Lookup("X__c")
	if fresh[0] != "a" {
		t.Fatalf("catalog state mutated through Lookup result")
	}
}
