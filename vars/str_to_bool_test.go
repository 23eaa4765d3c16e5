package vars

import "testing"

func TestStrToBool(t *testing.T) {
	for str, expected := range map[string]bool{
		"true":  true,
		" Yes ": true,
		"T":     true,
		"no":    false,
		"FALSE": false,
		"f":     false,
	} {
		value, ok := StrToBool(str)
		if !ok || value != expected {
			t.Fatalf("%q: got %v, %v", str, value, ok)
		}
	}
	if _, ok := StrToBool("maybe"); ok {
		t.Fatal("should fail")
	}
}
