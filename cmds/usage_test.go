package cmds

import (
	"strings"
	"testing"
)

func TestUsage(t *testing.T) {
	executor := NewExecutor()
	executor.Define("foo", Sub(map[string]*Command{
		"bar": Func(func() {
		}).Desc("BAR"),
		"baz": Sub(map[string]*Command{
			"qux": Func(func(n int, s *string) {}).Desc("QUX"),
		}).Desc("BAZ"),
	}).Desc("FOO"))

	buf := new(strings.Builder)
	executor.WriteUsage(buf)
	usage := buf.String()
	for _, expected := range []string{
		"-h (help, -help, --help)\tprint this usage\n",
		"foo\tFOO\n",
		"  bar\tBAR\n",
		"  baz\tBAZ\n",
		"    qux <int> [string]\tQUX\n",
	} {
		if !strings.Contains(usage, expected) {
			t.Fatalf("got %s", usage)
		}
	}
	if strings.Count(usage, "print this usage") != 1 {
		t.Fatalf("got %s", usage)
	}
}
