package configs

import (
	"testing"
)

func TestFirst(t *testing.T) {
	loader := testLoader(t)

	str, err := First[string](loader, "str")
	if err != nil {
		t.Fatal(err)
	}
	if str != "bar" {
		t.Fatalf("got %v", str)
	}

	list, err := First[[]int](loader, "list")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("got %v", list)
	}

	n, err := First[int](loader, "not")
	if err != nil || n != 0 {
		t.Fatalf("got %v, %v", n, err)
	}

	if _, err := First[int](loader, "str"); err == nil {
		t.Fatal("should fail")
	}
}
