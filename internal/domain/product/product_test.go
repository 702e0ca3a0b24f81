package product

import (
	"reflect"
	"testing"
)

func TestKey(t *testing.T) {
	if got := Key("product:", 42); got != "product:42" {
		t.Errorf("Key = %q", got)
	}
}

func TestJoinSplit_RoundTrip(t *testing.T) {
	in := []string{"red", "sale"}
	if got := SplitList(JoinList(in)); !reflect.DeepEqual(got, in) {
		t.Errorf("SplitList(JoinList(%v)) = %v", in, got)
	}
}

// A separator inside a value is stored as-is and reads back as two values.
func TestJoinList_IsLossy(t *testing.T) {
	withComma := JoinList([]string{"red,blue"})
	separate := JoinList([]string{"red", "blue"})

	if withComma != separate {
		t.Fatalf("expected identical flattening, got %q and %q", withComma, separate)
	}
	if got := SplitList(withComma); len(got) != 2 {
		t.Errorf("SplitList(%q) = %v, want two values", withComma, got)
	}
}

func TestSplitList_Empty(t *testing.T) {
	if got := SplitList(""); got != nil {
		t.Errorf("SplitList(\"\") = %v, want nil", got)
	}
}
