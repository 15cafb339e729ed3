// Package alfa compiles ALFA 1.0 source into XACML 3.0 XML documents.
//
// ALFA, the Abbreviated Language for Authorization, is a compact
// syntax for writing XACML authorization policies. Compile parses a
// set of ALFA sources against a shared compiler context and lowers
// every top-level policyset and policy into a XACML document, one
// output file per top-level entity.
package alfa

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mercator-hq/alfac/pkg/alfa/ast"
	"mercator-hq/alfac/pkg/alfa/compiler"
	alfaErrors "mercator-hq/alfac/pkg/alfa/errors"
	"mercator-hq/alfac/pkg/alfa/parser"
	"mercator-hq/alfac/pkg/alfa/xacml"
)

// SourceSuffix is the file extension of ALFA source files.
const SourceSuffix = ".alfa"

// Source is one ALFA input file.
type Source struct {
	Filename string
	Contents []byte
}

// Output is one generated XACML document: a top-level policy or
// policyset. Exactly one of Policy and PolicySet is set.
type Output struct {
	// Filename is the proposed relative output filename, derived from
	// the entity's namespace and name. Empty when the name path could
	// not be resolved.
	Filename  string
	Policy    *xacml.Policy
	PolicySet *xacml.PolicySet
}

// WriteXML serializes the output's document to w.
func (o *Output) WriteXML(w io.Writer) error {
	if o.PolicySet != nil {
		return o.PolicySet.WriteXML(w)
	}
	return o.Policy.WriteXML(w)
}

// Compile parses the sources and lowers every top-level policyset and
// policy into an Output. Sources without top-level policies yield no
// outputs.
func Compile(ctx *compiler.Context, sources []Source) ([]Output, error) {
	p := parser.NewParser(ctx)
	var collection ast.Collection
	for _, src := range sources {
		slog.Info("parsing source", "file", src.Filename)
		doc, err := p.ParseBytes(src.Filename, src.Contents)
		if err != nil {
			return nil, err
		}
		collection.Add(doc)
	}
	return Convert(ctx, &collection)
}

// Convert lowers every top-level policyset and policy in a parsed
// collection into an Output.
func Convert(ctx *compiler.Context, collection *ast.Collection) ([]Output, error) {
	slog.Debug("converting collection",
		"documents", collection.Len(),
		"policysets", len(collection.PolicySets()),
		"policies", len(collection.Policies()))

	cv := xacml.NewConverter(ctx)
	var outputs []Output
	for _, ps := range collection.PolicySets() {
		xps, err := cv.PolicySet(ps)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, Output{Filename: xps.Filename, PolicySet: xps})
	}
	for _, pol := range collection.Policies() {
		entry, err := cv.PolicyEntry(pol)
		if err != nil {
			return nil, err
		}
		switch {
		case entry.Policy != nil:
			outputs = append(outputs, Output{Filename: entry.Policy.Filename, Policy: entry.Policy})
		case entry.PolicySet != nil:
			outputs = append(outputs, Output{Filename: entry.PolicySet.Filename, PolicySet: entry.PolicySet})
		}
	}
	return outputs, nil
}

// CompileFiles reads the named ALFA files and compiles them.
func CompileFiles(ctx *compiler.Context, paths []string) ([]Output, error) {
	sources := make([]Source, 0, len(paths))
	for _, path := range paths {
		contents, err := os.ReadFile(path)
		if err != nil {
			return nil, alfaErrors.Newf(alfaErrors.ErrorTypeIO,
				"could not read '%s': %v", path, err)
		}
		sources = append(sources, Source{Filename: path, Contents: contents})
	}
	return Compile(ctx, sources)
}

// CollectInputs expands a mix of files and directories into the ALFA
// source files they contain. Directories are walked recursively;
// non-ALFA files are skipped.
func CollectInputs(paths []string) ([]string, error) {
	var inputs []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, alfaErrors.Newf(alfaErrors.ErrorTypeIO,
				"could not read '%s': %v", path, err)
		}
		if !info.IsDir() {
			if strings.HasSuffix(path, SourceSuffix) {
				inputs = append(inputs, path)
			}
			continue
		}
		walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, SourceSuffix) {
				inputs = append(inputs, p)
			}
			return nil
		})
		if walkErr != nil {
			return nil, alfaErrors.Newf(alfaErrors.ErrorTypeIO,
				"could not walk '%s': %v", path, walkErr)
		}
	}
	return inputs, nil
}

// WriteOutputs writes each output document under dir, creating it if
// needed.
func WriteOutputs(dir string, outputs []Output) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return alfaErrors.Newf(alfaErrors.ErrorTypeWrite,
			"could not create output directory '%s': %v", dir, err)
	}
	for i := range outputs {
		if err := writeOutput(dir, &outputs[i]); err != nil {
			return err
		}
	}
	return nil
}

func writeOutput(dir string, o *Output) error {
	if o.Filename == "" {
		return alfaErrors.Newf(alfaErrors.ErrorTypeMissingFilename,
			"no output filename could be determined for a top-level policy")
	}
	path := filepath.Join(dir, o.Filename)
	f, err := os.Create(path)
	if err != nil {
		return alfaErrors.Newf(alfaErrors.ErrorTypeWrite,
			"could not create '%s': %v", path, err)
	}
	defer f.Close()
	if err := o.WriteXML(f); err != nil {
		return alfaErrors.Newf(alfaErrors.ErrorTypeWrite,
			"could not write '%s': %v", path, err)
	}
	slog.Info("wrote policy file", "path", path)
	return nil
}
