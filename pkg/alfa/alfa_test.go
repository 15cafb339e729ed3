package alfa

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"mercator-hq/alfac/pkg/alfa/compiler"
	alfaErrors "mercator-hq/alfac/pkg/alfa/errors"
)

const policySource = `namespace com.acme {
	// Allows read access.
	policy reader {
		apply firstApplicable
		rule allow {
			permit
			target clause actionId == "read"
		}
	}
}`

const policySetSource = `namespace com.acme {
	policyset root {
		apply denyOverrides
		policy leaf {
			apply firstApplicable
			rule { permit }
		}
	}
}`

func TestCompile(t *testing.T) {
	ctx := compiler.New(compiler.DefaultConfig())
	outputs, err := Compile(ctx, []Source{
		{Filename: "reader.alfa", Contents: []byte(policySource)},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(outputs) != 1 {
		t.Fatalf("len(outputs) = %d, want 1", len(outputs))
	}

	out := outputs[0]
	if out.Filename != "com.acme.reader.xml" {
		t.Errorf("out.Filename = %q, want %q", out.Filename, "com.acme.reader.xml")
	}
	if out.Policy == nil {
		t.Fatal("out.Policy is nil")
	}
	if out.PolicySet != nil {
		t.Error("out.PolicySet is set for a plain policy")
	}

	var buf bytes.Buffer
	if err := out.WriteXML(&buf); err != nil {
		t.Fatalf("WriteXML() error = %v", err)
	}
	xml := buf.String()
	if !strings.Contains(xml, "PolicyId=") {
		t.Errorf("output XML missing PolicyId attribute:\n%s", xml)
	}
	if !strings.Contains(xml, "com/acme/reader") {
		t.Errorf("output XML missing policy identifier path:\n%s", xml)
	}
}

func TestCompilePolicySet(t *testing.T) {
	ctx := compiler.New(compiler.DefaultConfig())
	outputs, err := Compile(ctx, []Source{
		{Filename: "root.alfa", Contents: []byte(policySetSource)},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(outputs) != 1 {
		t.Fatalf("len(outputs) = %d, want 1", len(outputs))
	}
	if outputs[0].PolicySet == nil {
		t.Fatal("outputs[0].PolicySet is nil")
	}
	if outputs[0].Filename != "com.acme.root.xml" {
		t.Errorf("outputs[0].Filename = %q, want %q", outputs[0].Filename, "com.acme.root.xml")
	}
}

func TestCompileNoTopLevelPolicies(t *testing.T) {
	ctx := compiler.New(compiler.DefaultConfig())
	src := `namespace com.acme {
		attribute role { id = "urn:acme:role" type = string category = subjectCat }
	}`
	outputs, err := Compile(ctx, []Source{
		{Filename: "decls.alfa", Contents: []byte(src)},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(outputs) != 0 {
		t.Errorf("len(outputs) = %d, want 0", len(outputs))
	}
}

func TestCompileParseError(t *testing.T) {
	ctx := compiler.New(compiler.DefaultConfig())
	_, err := Compile(ctx, []Source{
		{Filename: "bad.alfa", Contents: []byte(`namespace x { policy p { permit } }`)},
	})
	if err == nil {
		t.Fatal("Compile() succeeded for a policy without apply")
	}
	var aerr *alfaErrors.Error
	if !errors.As(err, &aerr) {
		t.Fatalf("error type = %T, want *alfaErrors.Error", err)
	}
	if aerr.Type != alfaErrors.ErrorTypeMissingApply {
		t.Errorf("aerr.Type = %v, want ErrorTypeMissingApply", aerr.Type)
	}
}

func TestCompileMultipleSources(t *testing.T) {
	ctx := compiler.New(compiler.DefaultConfig())
	decls := `namespace shared {
		attribute dept { id = "urn:acme:dept" type = string category = subjectCat }
	}`
	pol := `namespace com.acme {
		import shared.*
		policy byDept {
			apply firstApplicable
			rule { permit target clause dept == "eng" }
		}
	}`
	outputs, err := Compile(ctx, []Source{
		{Filename: "shared.alfa", Contents: []byte(decls)},
		{Filename: "byDept.alfa", Contents: []byte(pol)},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(outputs) != 1 {
		t.Fatalf("len(outputs) = %d, want 1", len(outputs))
	}
	if outputs[0].Filename != "com.acme.byDept.xml" {
		t.Errorf("outputs[0].Filename = %q", outputs[0].Filename)
	}
}

func TestCollectInputs(t *testing.T) {
	tmpDir := t.TempDir()
	sub := filepath.Join(tmpDir, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	files := map[string]string{
		"a.alfa":          "",
		"b.txt":           "",
		"sub/c.alfa":      "",
		"sub/readme.md":   "",
		"sub/nested.alfa": "",
	}
	for name, contents := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	inputs, err := CollectInputs([]string{tmpDir})
	if err != nil {
		t.Fatalf("CollectInputs() error = %v", err)
	}
	sort.Strings(inputs)
	want := []string{
		filepath.Join(tmpDir, "a.alfa"),
		filepath.Join(tmpDir, "sub", "c.alfa"),
		filepath.Join(tmpDir, "sub", "nested.alfa"),
	}
	if len(inputs) != len(want) {
		t.Fatalf("inputs = %v, want %v", inputs, want)
	}
	for i := range want {
		if inputs[i] != want[i] {
			t.Errorf("inputs[%d] = %q, want %q", i, inputs[i], want[i])
		}
	}
}

func TestCollectInputsExplicitFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "x.alfa")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	other := filepath.Join(tmpDir, "y.txt")
	if err := os.WriteFile(other, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	inputs, err := CollectInputs([]string{path, other})
	if err != nil {
		t.Fatalf("CollectInputs() error = %v", err)
	}
	if len(inputs) != 1 || inputs[0] != path {
		t.Errorf("inputs = %v, want [%s]", inputs, path)
	}
}

func TestCollectInputsMissingPath(t *testing.T) {
	_, err := CollectInputs([]string{filepath.Join(t.TempDir(), "nope")})
	if err == nil {
		t.Fatal("CollectInputs() succeeded for a missing path")
	}
	var aerr *alfaErrors.Error
	if !errors.As(err, &aerr) {
		t.Fatalf("error type = %T, want *alfaErrors.Error", err)
	}
	if aerr.Type != alfaErrors.ErrorTypeIO {
		t.Errorf("aerr.Type = %v, want ErrorTypeIO", aerr.Type)
	}
}

func TestCompileFiles(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "reader.alfa")
	if err := os.WriteFile(path, []byte(policySource), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := compiler.New(compiler.DefaultConfig())
	outputs, err := CompileFiles(ctx, []string{path})
	if err != nil {
		t.Fatalf("CompileFiles() error = %v", err)
	}
	if len(outputs) != 1 {
		t.Fatalf("len(outputs) = %d, want 1", len(outputs))
	}
}

func TestWriteOutputs(t *testing.T) {
	ctx := compiler.New(compiler.DefaultConfig())
	outputs, err := Compile(ctx, []Source{
		{Filename: "reader.alfa", Contents: []byte(policySource)},
	})
	if err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(t.TempDir(), "out", "xacml")
	if err := WriteOutputs(dir, outputs); err != nil {
		t.Fatalf("WriteOutputs() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "com.acme.reader.xml"))
	if err != nil {
		t.Fatalf("reading output file: %v", err)
	}
	if !strings.Contains(string(data), "xacml3:Policy") {
		t.Errorf("output file missing policy element:\n%s", data)
	}
}

func TestWriteOutputsMissingFilename(t *testing.T) {
	err := WriteOutputs(t.TempDir(), []Output{{Filename: ""}})
	if err == nil {
		t.Fatal("WriteOutputs() succeeded with an empty filename")
	}
	var aerr *alfaErrors.Error
	if !errors.As(err, &aerr) {
		t.Fatalf("error type = %T, want *alfaErrors.Error", err)
	}
	if aerr.Type != alfaErrors.ErrorTypeMissingFilename {
		t.Errorf("aerr.Type = %v, want ErrorTypeMissingFilename", aerr.Type)
	}
}
