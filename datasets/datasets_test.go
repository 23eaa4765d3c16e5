package datasets

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/tnl/configs"
	"github.com/reusee/tnl/logs"
	"github.com/reusee/tnl/modes"
	"github.com/reusee/tnl/values"
)

func expectColumn(t *testing.T, table *values.Table, name string, expected ...values.Value) {
	t.Helper()
	col, err := table.Column(name)
	if err != nil {
		t.Fatal(err)
	}
	if !col.Equal(&values.Column{Type: col.Type, Values: expected}) {
		t.Fatalf("got %v", col.Values)
	}
}

func TestReadCSV(t *testing.T) {
	content, err := os.ReadFile("testdata/people.csv")
	if err != nil {
		t.Fatal(err)
	}
	table, err := ReadCSV(content, CSVOptions{
		NullLiterals: configs.DefaultNullLiterals,
	})
	if err != nil {
		t.Fatal(err)
	}
	if s := table.Fields.String(); s != "name:str, age:int, score:float, active:bool" {
		t.Fatalf("got %s", s)
	}
	expectColumn(t, table, "age", values.Int(30), values.Int(17), values.Int(18), values.Null)
	expectColumn(t, table, "score", values.Float(1.5), values.Float(2.5), values.Float(3), values.Float(3))
	expectColumn(t, table, "active", values.Bool(true), values.Bool(false), values.Bool(true), values.Null)
}

func TestReadCSVOptions(t *testing.T) {
	table, err := ReadCSV([]byte("a;b;c\n1;-;x\n-;2.5;-\n"), CSVOptions{
		Delimiter:    ';',
		NullLiterals: []string{"-"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if s := table.Fields.String(); s != "a:int, b:float, c:str" {
		t.Fatalf("got %s", s)
	}
	expectColumn(t, table, "c", values.Str("x"), values.Null)

	// empty cells are strings when not null literals
	table, err = ReadCSV([]byte("a,b\n1,\n"), CSVOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if s := table.Fields.String(); s != "a:int, b:str" {
		t.Fatalf("got %s", s)
	}

	for _, content := range []string{
		"",
		"a,a\n1,2\n",
		"a,b\n1\n",
	} {
		if _, err := ReadCSV([]byte(content), CSVOptions{}); err == nil {
			t.Fatalf("%q: should error", content)
		}
	}
}

func TestReadJSON(t *testing.T) {
	content, err := os.ReadFile("testdata/people.json")
	if err != nil {
		t.Fatal(err)
	}
	table, err := ReadJSON(content)
	if err != nil {
		t.Fatal(err)
	}
	if s := table.Fields.String(); s != "name:str, age:int, score:float, tag:str" {
		t.Fatalf("got %s", s)
	}
	expectColumn(t, table, "age", values.Int(30), values.Int(17), values.Null)
	expectColumn(t, table, "score", values.Float(1.5), values.Float(2), values.Float(3))
	expectColumn(t, table, "tag", values.Null, values.Null, values.Str("x"))

	content, err = os.ReadFile("testdata/people.jsonl")
	if err != nil {
		t.Fatal(err)
	}
	table, err = ReadJSON(content)
	if err != nil {
		t.Fatal(err)
	}
	if s := table.Fields.String(); s != "name:str, age:float" {
		t.Fatalf("got %s", s)
	}

	for _, content := range []string{
		"",
		"42",
		`[{"a": 1}, 2]`,
		`[{"a": [1]}]`,
		`[{"a": 1}, {"a": "x"}]`,
		`{"a": 1, "a": 2}`,
	} {
		if _, err := ReadJSON([]byte(content)); err == nil {
			t.Fatalf("%q: should error", content)
		}
	}
}

func TestSniff(t *testing.T) {
	for _, c := range []struct {
		path     string
		content  string
		expected configs.TableFormat
	}{
		{"people.json", `[{"a": 1}]`, configs.FormatJSON},
		{"people", `[{"a": 1}]`, configs.FormatJSON},
		{"people.txt", "a,b\n1,2\n3,4\n", configs.FormatCSV},
		{"people.ndjson", "", configs.FormatJSON},
		{"people", "", configs.FormatCSV},
	} {
		if got := Sniff(c.path, []byte(c.content)); got != c.expected {
			t.Fatalf("%s: got %s", c.path, got)
		}
	}
}

func TestWrite(t *testing.T) {
	table, err := values.NewTable(
		values.Schema{
			{Name: "b", Type: values.TypeStr},
			{Name: "a", Type: values.TypeInt},
		},
		[]*values.Column{
			values.ColumnOf(values.Str("x,y"), values.Null),
			values.ColumnOf(values.Int(1), values.Int(2)),
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	buf := new(bytes.Buffer)
	if err := WriteCSV(buf, table); err != nil {
		t.Fatal(err)
	}
	if s := buf.String(); s != "b,a\n\"x,y\",1\n,2\n" {
		t.Fatalf("got %q", s)
	}

	buf.Reset()
	if err := WriteJSON(buf, table); err != nil {
		t.Fatal(err)
	}
	if s := buf.String(); s != "{\"b\":\"x,y\",\"a\":1}\n{\"b\":null,\"a\":2}\n" {
		t.Fatalf("got %q", s)
	}

	// round trip through the reader
	back, err := ReadJSON(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if back.Fields.String() != table.Fields.String() {
		t.Fatalf("got %s", back.Fields)
	}
}

func loadScope(t *testing.T, cfg configs.Config) dscope.Scope {
	return dscope.New(
		new(Module),
		new(logs.Module),
		modes.ForTest(t),
		func() configs.Config {
			return cfg
		},
	)
}

func TestLoad(t *testing.T) {
	loadScope(t, configs.Config{
		TableFormat:  configs.FormatAuto,
		CSVDelimiter: ',',
		NullLiterals: configs.DefaultNullLiterals,
	}).Call(func(
		load Load,
	) {
		ctx := context.Background()
		for _, path := range []string{
			"testdata/people.csv",
			"testdata/people.json",
			"testdata/people.jsonl",
		} {
			table, err := load(ctx, path)
			if err != nil {
				t.Fatal(err)
			}
			if table.Rows() < 2 {
				t.Fatalf("got %v", table)
			}
		}

		_, err := load(ctx, "testdata/not-exists.csv")
		if err == nil || !strings.Contains(err.Error(), "not-exists.csv") {
			t.Fatalf("got %v", err)
		}
	})
}

func TestLoadConfiguredFormat(t *testing.T) {
	loadScope(t, configs.Config{
		TableFormat:  configs.FormatJSON,
		CSVDelimiter: ',',
		NullLiterals: configs.DefaultNullLiterals,
	}).Call(func(
		load Load,
	) {
		// the configured format wins over the extension
		if _, err := load(context.Background(), "testdata/people.csv"); err == nil {
			t.Fatal("should fail")
		}
		table, err := load(context.Background(), "testdata/people.jsonl")
		if err != nil {
			t.Fatal(err)
		}
		if table.Rows() < 2 {
			t.Fatalf("got %v", table)
		}
	})
}

func TestQueryPostgres(t *testing.T) {
	connString := os.Getenv("TNL_TEST_POSTGRES")
	if connString == "" {
		t.Skip("TNL_TEST_POSTGRES not set")
	}
	table, err := QueryPostgres(context.Background(), connString,
		`select 'a'::text as name, 1::int4 as n, 1.5::numeric as x, null::bool as b`)
	if err != nil {
		t.Fatal(err)
	}
	if s := table.Fields.String(); s != "name:str, n:int, x:float, b:bool" {
		t.Fatalf("got %s", s)
	}
	if !table.Row(0)[2].Equal(values.Float(1.5)) || !table.Row(0)[3].IsNull() {
		t.Fatalf("got %v", table.Row(0))
	}
}

func TestPgValue(t *testing.T) {
	for _, c := range []struct {
		input    any
		t        values.Type
		expected values.Value
	}{
		{nil, values.TypeInt, values.Null},
		{int16(3), values.TypeInt, values.Int(3)},
		{int64(3), values.TypeInt, values.Int(3)},
		{float32(1.5), values.TypeFloat, values.Float(1.5)},
		{true, values.TypeBool, values.Bool(true)},
		{[]byte("x"), values.TypeStr, values.Str("x")},
		{42, values.TypeStr, values.Str("42")},
	} {
		got, err := pgValue(c.input, c.t)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(c.expected) {
			t.Fatalf("got %v", got)
		}
	}
	if _, err := pgValue("x", values.TypeInt); err == nil {
		t.Fatal("should error")
	}
}
