// Package catalog keeps immutable lookup tables of books and
// translations (versions) together with their aliases, verse bounds and
// the reading plan. A Catalog is a snapshot: it is never modified after
// New returns it, reloads create a new snapshot and swap it in a
// Registry.
package catalog

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/gnames/gnverse/pkg/address"
	"github.com/gnames/gnverse/pkg/errcode"
	"github.com/gnames/gnverse/pkg/reading"
)

// Names are display forms of a book in one language.
type Names struct {
	Abbr  string `json:"abbr"  yaml:"abbr"`
	Title string `json:"title" yaml:"title"`
}

// Alias is an additional name of a book.
type Alias struct {
	Text string `json:"text" yaml:"text"`
	Lang string `json:"lang" yaml:"lang"`
}

// BookEntry describes a book of the corpus.
type BookEntry struct {
	// Code is a short canonical name, like "Gen" or "1John".
	Code string `json:"code" yaml:"code"`

	// Index is the 0-based position of the book in the corpus.
	Index int `json:"index" yaml:"index"`

	// Names are display forms keyed by language tag.
	Names map[string]Names `json:"names" yaml:"names"`

	// Others are aliases in addition to the code and display forms.
	Others []Alias `json:"others,omitempty" yaml:"others,omitempty"`
}

// Name returns the display forms for lang, falling back to English and
// then to the code.
func (b BookEntry) Name(lang string) Names {
	if n, ok := b.Names[lang]; ok {
		return n
	}
	if n, ok := b.Names["en"]; ok {
		return n
	}
	return Names{Abbr: b.Code, Title: b.Code}
}

// VersionEntry describes a translation.
type VersionEntry struct {
	Code      string            `json:"code"      yaml:"code"`
	Abbr      string            `json:"abbr"      yaml:"abbr"`
	Lang      string            `json:"lang"      yaml:"lang"`
	Blessed   bool              `json:"blessed"   yaml:"blessed"`
	Year      int               `json:"year"      yaml:"year"`
	Copyright string            `json:"copyright" yaml:"copyright"`
	Titles    map[string]string `json:"titles"    yaml:"titles"`
	Aliases   []string          `json:"aliases,omitempty" yaml:"aliases,omitempty"`

	// MaxGap is the largest ordinal distance between two consecutive
	// verses present in the translation. It is at least 1 for a
	// populated translation.
	MaxGap int `json:"max_gap" yaml:"-"`
}

type bookRef struct {
	book int
	lang string
}

// Tables is the raw material for a Catalog.
type Tables struct {
	Books    []BookEntry
	Versions []VersionEntry
	Bounds   *address.Bounds
	Plan     *reading.Plan

	// DefaultVersion is the code of the global default translation.
	DefaultVersion string
}

// Catalog is an immutable snapshot of lookup tables.
type Catalog struct {
	books        []BookEntry
	versions     []VersionEntry
	bookAlias    map[string]bookRef
	versionAlias map[string]int
	blessed      map[string]int
	defaultIdx   int
	bounds       *address.Bounds
	plan         *reading.Plan
}

// Normalize folds whitespace and case of an alias. All whitespace is
// removed, so "1 John" and "1john" are the same key.
func Normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}

// New validates tables and builds a catalog out of them. Every failed
// check wraps errcode.ErrInvariantViolation.
func New(t Tables) (*Catalog, error) {
	res := &Catalog{
		books:        slices.Clone(t.Books),
		versions:     slices.Clone(t.Versions),
		bookAlias:    make(map[string]bookRef),
		versionAlias: make(map[string]int),
		blessed:      make(map[string]int),
		defaultIdx:   -1,
		bounds:       t.Bounds,
		plan:         t.Plan,
	}
	if res.plan == nil {
		res.plan = reading.NewPlan(nil)
	}

	slices.SortFunc(res.books, func(a, b BookEntry) int {
		return cmp.Compare(a.Index, b.Index)
	})
	for i, b := range res.books {
		if b.Index != i {
			return nil, invariantError(
				"book %q has index %d, expected %d", b.Code, b.Index, i)
		}
		if err := res.addBookAlias(b.Code, i, ""); err != nil {
			return nil, err
		}
		for _, lang := range sortedKeys(b.Names) {
			n := b.Names[lang]
			for _, a := range []string{n.Abbr, n.Title} {
				if err := res.addBookAlias(a, i, lang); err != nil {
					return nil, err
				}
			}
		}
		for _, a := range b.Others {
			if err := res.addBookAlias(a.Text, i, a.Lang); err != nil {
				return nil, err
			}
		}
	}

	for i, v := range res.versions {
		if v.Code == "" {
			return nil, invariantError("version #%d has no code", i)
		}
		if v.MaxGap < 0 {
			return nil, invariantError(
				"version %q has negative max gap", v.Code)
		}
		if v.Blessed {
			if j, ok := res.blessed[v.Lang]; ok {
				return nil, invariantError(
					"versions %q and %q are both blessed for %q",
					res.versions[j].Code, v.Code, v.Lang)
			}
			res.blessed[v.Lang] = i
		}
		aliases := []string{v.Code, v.Abbr}
		for _, lang := range sortedKeys(v.Titles) {
			aliases = append(aliases, v.Titles[lang])
		}
		aliases = append(aliases, v.Aliases...)
		for _, a := range aliases {
			if err := res.addVersionAlias(a, i); err != nil {
				return nil, err
			}
		}
		if v.Code == t.DefaultVersion {
			res.defaultIdx = i
		}
	}

	if t.DefaultVersion != "" && res.defaultIdx < 0 {
		return nil, invariantError(
			"default version %q is not in the catalog", t.DefaultVersion)
	}
	if res.defaultIdx < 0 && len(res.versions) > 0 {
		res.defaultIdx = 0
	}

	if res.bounds != nil && res.bounds.Books() != len(res.books) {
		return nil, invariantError(
			"verse bounds cover %d books, catalog has %d",
			res.bounds.Books(), len(res.books))
	}

	return res, nil
}

func (c *Catalog) addBookAlias(alias string, book int, lang string) error {
	key := Normalize(alias)
	if key == "" {
		return nil
	}
	if ref, ok := c.bookAlias[key]; ok {
		if ref.book != book {
			return invariantError("alias %q points to books %q and %q",
				alias, c.books[ref.book].Code, c.books[book].Code)
		}
		if ref.lang != "" || lang == "" {
			return nil
		}
	}
	c.bookAlias[key] = bookRef{book: book, lang: lang}
	return nil
}

func (c *Catalog) addVersionAlias(alias string, version int) error {
	key := Normalize(alias)
	if key == "" {
		return nil
	}
	if i, ok := c.versionAlias[key]; ok && i != version {
		return invariantError("alias %q points to versions %q and %q",
			alias, c.versions[i].Code, c.versions[version].Code)
	}
	c.versionAlias[key] = version
	return nil
}

// ResolveBook finds a book by any of its aliases.
func (c *Catalog) ResolveBook(alias string) (BookEntry, error) {
	res, _, err := c.ResolveBookAlias(alias)
	return res, err
}

// ResolveBookAlias finds a book by alias and also returns the language
// of the alias. The language is empty for language-neutral aliases such
// as book codes.
func (c *Catalog) ResolveBookAlias(alias string) (BookEntry, string, error) {
	ref, ok := c.bookAlias[Normalize(alias)]
	if !ok {
		return BookEntry{}, "", fmt.Errorf("book %q: %w", alias, errcode.ErrNotFound)
	}
	return c.books[ref.book], ref.lang, nil
}

// ResolveVersion finds a translation by any of its aliases.
func (c *Catalog) ResolveVersion(alias string) (VersionEntry, error) {
	i, ok := c.versionAlias[Normalize(alias)]
	if !ok {
		return VersionEntry{}, fmt.Errorf("version %q: %w", alias, errcode.ErrNotFound)
	}
	return c.versions[i], nil
}

// DefaultVersion returns the blessed translation of lang, falling back
// to the global default.
func (c *Catalog) DefaultVersion(lang string) VersionEntry {
	if i, ok := c.blessed[lang]; ok {
		return c.versions[i]
	}
	if c.defaultIdx < 0 {
		return VersionEntry{}
	}
	return c.versions[c.defaultIdx]
}

// Book returns a book by its index.
func (c *Catalog) Book(index int) (BookEntry, error) {
	if index < 0 || index >= len(c.books) {
		return BookEntry{}, fmt.Errorf("book #%d: %w", index, errcode.ErrNotFound)
	}
	return c.books[index], nil
}

// Books returns all books ordered by index.
func (c *Catalog) Books() []BookEntry {
	return slices.Clone(c.books)
}

// Versions returns all translations.
func (c *Catalog) Versions() []VersionEntry {
	return slices.Clone(c.versions)
}

// Bounds returns verse bounds tables. They are nil for a catalog
// built before verses are loaded, and nil bounds resolve no address.
func (c *Catalog) Bounds() *address.Bounds {
	return c.bounds
}

// Plan returns the daily reading plan.
func (c *Catalog) Plan() *reading.Plan {
	return c.plan
}

// ResolveVersions resolves aliases in order, skipping unknown ones and
// duplicates, and keeps at most limit of them. Non-positive limit means
// no limit.
func (c *Catalog) ResolveVersions(aliases []string, limit int) []VersionEntry {
	var res []VersionEntry
	for _, a := range aliases {
		if limit > 0 && len(res) == limit {
			break
		}
		v, err := c.ResolveVersion(a)
		if err != nil {
			continue
		}
		if slices.ContainsFunc(res, func(e VersionEntry) bool {
			return e.Code == v.Code
		}) {
			continue
		}
		res = append(res, v)
	}
	return res
}

// ParseVersions normalizes a comma-separated pair of translations, like
// "kjv,niv". An unknown first translation becomes the global default;
// the second one is dropped when unknown or equal to the first.
func (c *Catalog) ParseVersions(s string) []VersionEntry {
	first, second, _ := strings.Cut(s, ",")
	v1, err := c.ResolveVersion(first)
	if err != nil {
		v1 = c.DefaultVersion("")
	}
	res := []VersionEntry{v1}
	if v2, err := c.ResolveVersion(second); err == nil && v2.Code != v1.Code {
		res = append(res, v2)
	}
	return res
}

// VersionCodes joins translation codes for display or a query string.
func VersionCodes(vs []VersionEntry) string {
	codes := make([]string, len(vs))
	for i := range vs {
		codes[i] = vs[i].Code
	}
	return strings.Join(codes, ",")
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

func invariantError(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...),
		errcode.ErrInvariantViolation)
}
