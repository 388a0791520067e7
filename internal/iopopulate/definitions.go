package iopopulate

import (
	"path/filepath"

	"github.com/gnames/gnverse/internal/iofs"
	"github.com/gnames/gnverse/pkg/catalog"
	"gopkg.in/yaml.v3"
)

const (
	booksFile    = "books.yaml"
	versionsFile = "versions.yaml"
	dailyFile    = "daily.yaml"
)

// versionsDoc is the layout of versions.yaml.
type versionsDoc struct {
	Default  string       `yaml:"default"`
	Versions []versionDef `yaml:"versions"`
}

// versionDef is a translation with loader-only settings.
type versionDef struct {
	catalog.VersionEntry `yaml:",inline"`

	// Brackets tells that square brackets and curly braces in verse
	// texts are style markers, not punctuation.
	Brackets bool `yaml:"brackets"`
}

// definitions are books and versions of a corpus together with a
// catalog built out of them. The catalog has no bounds yet, it is used
// to resolve aliases found in verse and daily files.
type definitions struct {
	books    []catalog.BookEntry
	versions []catalog.VersionEntry
	brackets map[string]bool
	deflt    string
	cat      *catalog.Catalog
}

// loadDefinitions reads books.yaml and versions.yaml from dir. Missing
// files are replaced by the embedded defaults.
func loadDefinitions(dir string) (*definitions, error) {
	path := filepath.Join(dir, booksFile)
	bs, err := iofs.ReadFile(path, iofs.BooksYAML)
	if err != nil {
		return nil, err
	}
	var books []catalog.BookEntry
	if err = yaml.Unmarshal(bs, &books); err != nil {
		return nil, DefinitionsError(path, err)
	}
	for i := range books {
		books[i].Index = i
	}

	path = filepath.Join(dir, versionsFile)
	bs, err = iofs.ReadFile(path, iofs.VersionsYAML)
	if err != nil {
		return nil, err
	}
	var doc versionsDoc
	if err = yaml.Unmarshal(bs, &doc); err != nil {
		return nil, DefinitionsError(path, err)
	}

	versions := make([]catalog.VersionEntry, len(doc.Versions))
	brackets := make(map[string]bool)
	for i, v := range doc.Versions {
		versions[i] = v.VersionEntry
		if v.Brackets {
			brackets[v.Code] = true
		}
	}

	cat, err := catalog.New(catalog.Tables{
		Books:          books,
		Versions:       versions,
		DefaultVersion: doc.Default,
	})
	if err != nil {
		return nil, DefinitionsError(dir, err)
	}

	res := &definitions{
		books:    books,
		versions: versions,
		brackets: brackets,
		deflt:    doc.Default,
		cat:      cat,
	}
	return res, nil
}
