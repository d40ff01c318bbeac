package metadata

import (
	"reflect"
	"testing"
)

func TestGetAbsent(t *testing.T) {
	md := New()
	if got := md.Get("nope"); got != "" {
		t.Errorf("expected empty string for absent attribute, got %q", got)
	}
	if vs := md.Values("nope"); vs != nil {
		t.Errorf("expected nil values for absent attribute, got %v", vs)
	}
}

func TestSetReplaces(t *testing.T) {
	md := New()
	md.Set(Title, "first")
	md.Set(Title, "second")
	if got := md.Get(Title); got != "second" {
		t.Errorf("expected %q, got %q", "second", got)
	}
	if got := md.Values(Title); len(got) != 1 {
		t.Errorf("expected single value after Set, got %v", got)
	}
}

func TestSetEmptyRemoves(t *testing.T) {
	md := New()
	md.Set(Author, "someone")
	md.Set(Author, "")
	if md.Len() != 0 {
		t.Errorf("expected empty record, got %d attributes", md.Len())
	}
}

func TestAddAppends(t *testing.T) {
	md := New()
	md.Add(ParsedBy, "first")
	md.Add(ParsedBy, "second")
	md.Add(ParsedBy, "")

	want := []string{"first", "second"}
	if got := md.Values(ParsedBy); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got := md.Get(ParsedBy); got != "first" {
		t.Errorf("Get should return the first value, got %q", got)
	}
}

func TestValuesCopy(t *testing.T) {
	md := New()
	md.Add(Keywords, "aaa")

	vs := md.Values(Keywords)
	vs[0] = "changed"

	if got := md.Get(Keywords); got != "aaa" {
		t.Errorf("Values must return a copy; record now holds %q", got)
	}
}

func TestNamesSorted(t *testing.T) {
	md := New()
	md.Set("zeta", "1")
	md.Set("alpha", "2")
	md.Set("mid", "3")

	want := []string{"alpha", "mid", "zeta"}
	if got := md.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestString(t *testing.T) {
	md := New()
	md.Set(ResourceName, "report.pdf")
	md.Set(ContentType, "application/pdf")

	got := md.String()
	want := "Content-Type=application/pdf resourceName=report.pdf"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
