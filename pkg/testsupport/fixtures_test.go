package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFixture(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.txt")
	testContent := []byte("test fixture content")

	if err := os.WriteFile(testFile, testContent, 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	if result := LoadFixture(t, testFile); string(result) != string(testContent) {
		t.Errorf("expected %q, got %q", testContent, result)
	}
}

func TestLoadFixtureJSON(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "forms.json")
	if err := os.WriteFile(testFile, []byte(`[{"formNumber":"AB-001","version":2}]`), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	var forms []struct {
		FormNumber string `json:"formNumber"`
		Version    int    `json:"version"`
	}
	LoadFixtureJSON(t, testFile, &forms)

	if len(forms) != 1 || forms[0].FormNumber != "AB-001" || forms[0].Version != 2 {
		t.Errorf("unexpected fixture content: %+v", forms)
	}
}

func TestWriteGolden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.golden")

	WriteGolden(t, path, []byte("hello"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("golden file not written: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("expected hello, got %q", data)
	}
}

func TestCompareWithGolden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compare.golden")

	// First call creates the file.
	CompareWithGolden(t, path, []byte("page"))
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected golden file to be created: %v", err)
	}

	// Second call compares against it.
	CompareWithGolden(t, path, []byte("page"))
}

func TestCompareJSONWithGolden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.json")
	if err := os.WriteFile(path, []byte("{\n  \"data\": [],\n  \"recordCount\": 0\n}"), 0644); err != nil {
		t.Fatalf("failed to write golden: %v", err)
	}

	CompareJSONWithGolden(t, path, []byte(`{"data":[],"recordCount":0}`+"\n"))
}

func TestJSONEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "key order", a: `{"a":1,"b":[1,2]}`, b: `{"b":[1,2],"a":1}`, want: true},
		{name: "whitespace", a: `{"a": 1}`, b: "{\n\"a\":1}", want: true},
		{name: "different value", a: `{"a":1}`, b: `{"a":2}`, want: false},
		{name: "array order matters", a: `[1,2]`, b: `[2,1]`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JSONEqual(t, []byte(tt.a), []byte(tt.b)); got != tt.want {
				t.Errorf("JSONEqual() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFixturePath(t *testing.T) {
	if got, want := FixturePath("forms.json"), filepath.Join("testdata", "forms.json"); got != want {
		t.Errorf("FixturePath() = %q, want %q", got, want)
	}
}

func TestGoldenPath(t *testing.T) {
	if got, want := GoldenPath("list.json"), filepath.Join("testdata", "golden", "list.json"); got != want {
		t.Errorf("GoldenPath() = %q, want %q", got, want)
	}
}
