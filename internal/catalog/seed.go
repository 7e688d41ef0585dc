package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

//go:embed schema.cue
var schemaCUE []byte

// seedFile is the on-disk shape of a catalog seed.
type seedFile struct {
	Users     []User     `yaml:"users"`
	Branches  []Branch   `yaml:"branches"`
	Products  []Product  `yaml:"products"`
	Customers []Customer `yaml:"customers"`
	Tables    []Table    `yaml:"tables"`
}

// Load builds a Catalog from the embedded default seed.
func Load() (*Catalog, error) {
	return Parse(defaultSeed)
}

// LoadFile builds a Catalog from a YAML seed file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read seed: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: seed %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML seed. The raw document is checked
// against the embedded CUE schema before the typed decode, so schema
// violations surface with constraint-level messages rather than as
// half-populated structs.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("catalog: parse seed: %w", err)
	}
	if err := validateSeed(raw); err != nil {
		return nil, err
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: decode seed: %w", err)
	}
	return New(f.Users, f.Branches, f.Products, f.Customers, f.Tables)
}

// validateSeed unifies the decoded document with the #Seed definition
// from schema.cue.
func validateSeed(raw map[string]any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("catalog: compile schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Seed"))
	if !def.Exists() {
		return fmt.Errorf("catalog: schema has no #Seed definition")
	}

	doc := ctx.Encode(raw)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("catalog: encode seed: %w", err)
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return fmt.Errorf("catalog: invalid seed:\n%s", cueerrors.Details(err, nil))
	}
	return nil
}
