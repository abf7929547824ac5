package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/justengel/resman"
	"github.com/justengel/resman/internal/log"
)

// File is the root structure for a resources.yaml manifest.
type File struct {
	Resources []Entry `yaml:"resources"`
}

// Entry declares one registration: either a single file (name) or a
// directory scan (directory). Use directory "." for the package root.
type Entry struct {
	Package string `yaml:"package"` // dot-separated package identifier (required)
	Name    string `yaml:"name"`    // relative file name (file entries)

	Directory  string   `yaml:"directory"`  // subdirectory to scan (scan entries)
	Recursive  bool     `yaml:"recursive"`  // descend into subdirectories
	Extensions []string `yaml:"extensions"` // extension allow-list, e.g. [.png, .txt]
	Exclude    []string `yaml:"exclude"`    // leaf file names to skip

	Alias     string `yaml:"alias"`      // explicit alias string
	AliasMode string `yaml:"alias_mode"` // "name" or "stem"

	Data     string         `yaml:"data"` // inline text payload (synthetic resources)
	Metadata map[string]any `yaml:"metadata"`
}

// Load reads a YAML manifest from path and registers its entries into m.
func Load(path string, m *resman.Manager) error {
	content, err := os.ReadFile(path) //nolint:gosec // G304: caller-supplied manifest path
	if err != nil {
		return fmt.Errorf("read manifest %s: %w", path, err)
	}
	if err := Parse(content, m); err != nil {
		return fmt.Errorf("manifest %s: %w", path, err)
	}
	log.Info(log.CatManifest, "loaded manifest", "path", path, "resources", m.Len())
	return nil
}

// Parse registers the manifest entries from raw YAML into m. Entries are
// registered in declaration order, so later entries shadow earlier ones.
func Parse(content []byte, m *resman.Manager) error {
	var file File
	if err := yaml.Unmarshal(content, &file); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}
	if len(file.Resources) == 0 {
		return fmt.Errorf("manifest declares no resources")
	}

	for i, entry := range file.Resources {
		if err := register(entry, m); err != nil {
			return fmt.Errorf("resource %d (%s): %w", i, entry.Package, err)
		}
	}
	return nil
}

func register(entry Entry, m *resman.Manager) error {
	if entry.Package == "" {
		return fmt.Errorf("package is required")
	}

	isFile := entry.Name != ""
	isScan := entry.Directory != ""
	switch {
	case isFile && isScan:
		return fmt.Errorf("name and directory are mutually exclusive")
	case !isFile && !isScan:
		return fmt.Errorf("either name or directory is required")
	}

	opts, err := resourceOptions(entry)
	if err != nil {
		return err
	}

	if isFile {
		if entry.Data != "" {
			opts = append(opts, resman.WithText(entry.Data))
		}
		m.Register(entry.Package, entry.Name, opts...)
		return nil
	}

	if entry.Data != "" {
		return fmt.Errorf("data requires a name, not a directory")
	}
	if entry.Alias != "" {
		return fmt.Errorf("directory scans cannot share one explicit alias")
	}

	subdir := entry.Directory
	if subdir == "." {
		subdir = ""
	}
	scanOpts := []resman.ScanOption{resman.WithResourceOptions(opts...)}
	if entry.Recursive {
		scanOpts = append(scanOpts, resman.WithRecursive())
	}
	if len(entry.Extensions) > 0 {
		scanOpts = append(scanOpts, resman.WithExtensions(entry.Extensions...))
	}
	if len(entry.Exclude) > 0 {
		scanOpts = append(scanOpts, resman.WithExclude(entry.Exclude...))
	}

	_, err = m.RegisterDirectory(entry.Package, subdir, scanOpts...)
	return err
}

func resourceOptions(entry Entry) ([]resman.ResourceOption, error) {
	var opts []resman.ResourceOption

	if entry.Alias != "" && entry.AliasMode != "" {
		return nil, fmt.Errorf("alias and alias_mode are mutually exclusive")
	}
	switch {
	case entry.Alias != "":
		opts = append(opts, resman.WithAlias(resman.AliasString(entry.Alias)))
	case entry.AliasMode == "name":
		opts = append(opts, resman.WithAlias(resman.AliasName))
	case entry.AliasMode == "stem":
		opts = append(opts, resman.WithAlias(resman.AliasStem))
	case entry.AliasMode != "":
		return nil, fmt.Errorf("invalid alias_mode %q (must be \"name\" or \"stem\")", entry.AliasMode)
	}

	if len(entry.Metadata) > 0 {
		opts = append(opts, resman.WithMetadata(entry.Metadata))
	}
	return opts, nil
}
