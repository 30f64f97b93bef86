package parser

import (
	stderrors "errors"
	"os"
	"strings"
	"testing"

	"github.com/mcncl/jsonview/internal/errors"
	"github.com/mcncl/jsonview/internal/models"
)

func TestParse_SimpleObject(t *testing.T) {
	jsonStr := `{"name": "John Doe", "age": 30, "isStudent": false, "city": null}`
	root, err := Parse(strings.NewReader(jsonStr))
	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	expected := models.MappingValue(
		models.Field{Key: "name", Value: models.StringValue("John Doe")},
		models.Field{Key: "age", Value: models.NumberValue("30")},
		models.Field{Key: "isStudent", Value: models.BoolValue(false)},
		models.Field{Key: "city", Value: models.NullValue()},
	)

	if !models.Equal(root, expected) {
		t.Errorf("Parse() root = %s, want %s", mustJSON(t, root), mustJSON(t, expected))
	}
}

func TestParse_PreservesKeyOrder(t *testing.T) {
	jsonStr := `{"zebra": 1, "apple": 2, "mango": {"z": true, "a": false}}`
	root, err := Parse(strings.NewReader(jsonStr))
	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	if got := strings.Join(root.Keys(), ","); got != "zebra,apple,mango" {
		t.Errorf("Parse() keys = %s, want zebra,apple,mango", got)
	}
	if got := strings.Join(root.Field("mango").Keys(), ","); got != "z,a" {
		t.Errorf("Parse() nested keys = %s, want z,a", got)
	}
}

func TestParse_SimpleArray(t *testing.T) {
	root, err := Parse(strings.NewReader(`[1, "test", true, null, 3.14, [], {}]`))
	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	if root.Kind != models.Sequence {
		t.Fatalf("Parse() root kind = %s, want sequence", root.Kind)
	}
	wantKinds := []models.Kind{models.Number, models.String, models.Bool, models.Null, models.Number, models.Sequence, models.Mapping}
	if root.Len() != len(wantKinds) {
		t.Fatalf("Parse() len = %d, want %d", root.Len(), len(wantKinds))
	}
	for i, want := range wantKinds {
		if got := root.Index(i).Kind; got != want {
			t.Errorf("Parse() item %d kind = %s, want %s", i, got, want)
		}
	}
	if got := root.Index(4).Num(); got != "3.14" {
		t.Errorf("Parse() number literal = %s, want 3.14", got)
	}
}

func TestParse_DuplicateKeysLastWins(t *testing.T) {
	root, err := Parse(strings.NewReader(`{"a": 1, "b": 2, "a": 3}`))
	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}
	if got := strings.Join(root.Keys(), ","); got != "a,b" {
		t.Errorf("Parse() keys = %s, want a,b", got)
	}
	if got := root.Field("a").Text(); got != "3" {
		t.Errorf("Parse() a = %s, want 3", got)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	if err == nil {
		t.Fatalf("Parse() with empty reader, err = nil, want error")
	}
	if !stderrors.Is(err, errors.ErrEmptyInput) {
		t.Errorf("Parse() with empty reader, err = %v, want ErrEmptyInput", err)
	}
}

func TestParseString_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "   \n\t"} {
		_, err := ParseString(in)
		if err == nil {
			t.Errorf("ParseString(%q) err = nil, want error", in)
		} else if !strings.Contains(err.Error(), "input string is empty") {
			t.Errorf("ParseString(%q) err = %v, want error containing 'input string is empty'", in, err)
		}
	}
}

func TestParse_MalformedJSON(t *testing.T) {
	testCases := []struct {
		name    string
		jsonStr string
		want    string
	}{
		{"MissingClosingBrace", `{"name": "John Doe", "age": 30`, "unexpected end of JSON input"},
		{"MissingClosingBracket", `["item1", "item2",`, "unexpected end of JSON input"},
		{"HTMLBody", `<html><body>oops</body></html>`, "JSON syntax error at offset"},
		{"MissingColon", `{"a" 1}`, "JSON syntax error"},
		{"TrailingGarbage", `{"a": 1} xyz`, "invalid trailing data"},
		{"MultipleValues", `{"a": 1} {"b": 2}`, "multiple JSON values"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.jsonStr))
			if err == nil {
				t.Fatalf("Parse() err = nil, want error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Parse() err = %v, want error containing %q", err, tc.want)
			}
			if errors.TypeOf(err) != errors.ErrorTypeParsing {
				t.Errorf("Parse() err type = %s, want parsing", errors.TypeOf(err))
			}
		})
	}
}

func TestParse_TrailingWhitespaceAllowed(t *testing.T) {
	if _, err := Parse(strings.NewReader("{\"a\": 1}\n\n  ")); err != nil {
		t.Errorf("Parse() error = %v, wantErr nil", err)
	}
}

func TestParseBytes(t *testing.T) {
	root, err := ParseBytes([]byte(`{"a": [true, null]}`))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	if root.Field("a").Len() != 2 {
		t.Errorf("ParseBytes() a len = %d, want 2", root.Field("a").Len())
	}

	_, err = ParseBytes([]byte("  "))
	if !stderrors.Is(err, errors.ErrEmptyInput) {
		t.Errorf("ParseBytes() whitespace err = %v, want ErrEmptyInput", err)
	}
}

func TestParseFile_SimpleObject(t *testing.T) {
	content := `{"product": "Laptop", "price": 1200.50}`
	tmpfile, err := os.CreateTemp("", "test_simple_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name()) // clean up

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}

	root, err := ParseFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ParseFile() error = %v, wantErr nil", err)
	}

	expected := models.MappingValue(
		models.Field{Key: "product", Value: models.StringValue("Laptop")},
		models.Field{Key: "price", Value: models.NumberValue("1200.50")},
	)
	if !models.Equal(root, expected) {
		t.Errorf("ParseFile() root = %s, want %s", mustJSON(t, root), mustJSON(t, expected))
	}
}

func TestParseFile_NonExistentFile(t *testing.T) {
	_, err := ParseFile("nonexistentfile.json")
	if err == nil {
		t.Fatalf("ParseFile() with non-existent file, err = nil, want error")
	}
	if !stderrors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("ParseFile() with non-existent file, err = %v, want ErrFileNotFound", err)
	}
}

func TestParseFile_EmptyPath(t *testing.T) {
	_, err := ParseFile("")
	if err == nil {
		t.Errorf("ParseFile() with empty path, err = nil, want error")
	} else if !strings.Contains(err.Error(), "file path is empty") {
		t.Errorf("ParseFile() with empty path, err = %v, want error containing 'file path is empty'", err)
	}
}

func TestParseFile_EmptyFileContent(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_empty_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name()) // clean up

	if err := tmpfile.Close(); err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}

	_, err = ParseFile(tmpfile.Name())
	if !stderrors.Is(err, errors.ErrFileEmpty) {
		t.Errorf("ParseFile() with empty file content, err = %v, want ErrFileEmpty", err)
	}
}

func TestParse_RootPrimitives(t *testing.T) {
	testCases := []struct {
		name     string
		jsonStr  string
		kind     models.Kind
		wantText string
	}{
		{"RootString", `"hello world"`, models.String, "hello world"},
		{"RootNumber", `123.45`, models.Number, "123.45"},
		{"RootBooleanTrue", `true`, models.Bool, "true"},
		{"RootBooleanFalse", `false`, models.Bool, "false"},
		{"RootNull", `null`, models.Null, "null"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root, err := Parse(strings.NewReader(tc.jsonStr))
			if err != nil {
				t.Fatalf("Parse() error = %v, wantErr nil for %s", err, tc.name)
			}
			if root.Kind != tc.kind {
				t.Errorf("Parse() kind = %s, want %s", root.Kind, tc.kind)
			}
			if root.Text() != tc.wantText {
				t.Errorf("Parse() text = %q, want %q", root.Text(), tc.wantText)
			}
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	jsonStr := `{"restaurant": {"name": "Smak", "open": true}, "tables": [{"tableId": "T1", "seats": 4, "reservations": []}], "notes": null}`
	root, err := ParseString(jsonStr)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	raw, err := root.Indent()
	if err != nil {
		t.Fatalf("Indent() error = %v", err)
	}
	again, err := ParseString(raw)
	if err != nil {
		t.Fatalf("ParseString(raw) error = %v", err)
	}
	if !models.Equal(root, again) {
		t.Errorf("round trip changed the document:\n%s", raw)
	}
}

func mustJSON(t *testing.T, v models.Value) string {
	t.Helper()
	b, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	return string(b)
}
