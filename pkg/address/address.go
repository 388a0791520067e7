// Package address maps (book, chapter, verse) triples to dense verse
// positions. Every verse gets an index, its 0-based position inside the
// book, and an ordinal, its 0-based position in the whole corpus.
// Both are derived from read-only bounds tables built once from the
// corpus.
package address

import (
	"cmp"
	"errors"
	"fmt"
	"math"

	"github.com/gnames/gnverse/pkg/errcode"
)

// Last is a chapter or verse value that resolves to the last chapter of
// a book or the last verse of a chapter.
const Last = math.MaxInt

var (
	// ErrInvalidBook means the book index is outside of the catalog.
	ErrInvalidBook = fmt.Errorf("invalid book: %w", errcode.ErrNotFound)

	// ErrInvalidChapter means the book has no such chapter.
	ErrInvalidChapter = fmt.Errorf("invalid chapter: %w", errcode.ErrNotFound)

	// ErrInvalidVerse means the chapter has no such verse.
	ErrInvalidVerse = fmt.Errorf("invalid verse: %w", errcode.ErrNotFound)
)

// VerseAddress is a resolved verse position.
type VerseAddress struct {
	Book    int `json:"book"`
	Chapter int `json:"chapter"`
	Verse   int `json:"verse"`

	// Index is the 0-based position of the verse within its book.
	Index int `json:"index"`

	// Ordinal is the 0-based position of the verse in the corpus.
	Ordinal int `json:"ordinal"`
}

// String formats the address as book:chapter:verse.
func (a VerseAddress) String() string {
	return fmt.Sprintf("%d:%d:%d", a.Book, a.Chapter, a.Verse)
}

// Compare orders addresses lexicographically by book, chapter and verse.
// For resolved addresses the result agrees with comparing ordinals.
func Compare(a, b VerseAddress) int {
	if c := cmp.Compare(a.Book, b.Book); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Chapter, b.Chapter); c != 0 {
		return c
	}
	return cmp.Compare(a.Verse, b.Verse)
}

// Resolve converts a triple into a VerseAddress. Chapter accepts Last,
// and a non-positive chapter means the first chapter. Verse accepts
// Last. Failures are ErrInvalidBook, ErrInvalidChapter or
// ErrInvalidVerse, all of them wrap errcode.ErrNotFound. Nil bounds
// have no books.
func (b *Bounds) Resolve(book, chapter, verse int) (VerseAddress, error) {
	var res VerseAddress
	vr, chapter, err := b.chapter(book, chapter)
	if err != nil {
		return res, err
	}

	if verse == Last {
		verse = vr.Max
	}
	if verse < vr.Min || verse > vr.Max {
		return res, fmt.Errorf("%d:%d:%d: %w", book, chapter, verse, ErrInvalidVerse)
	}

	res = VerseAddress{
		Book:    book,
		Chapter: chapter,
		Verse:   verse,
		Index:   vr.Index + verse - vr.Min,
		Ordinal: vr.Ordinal + verse - vr.Min,
	}
	return res, nil
}

// First resolves the first verse of a chapter. Chapter sentinels are
// handled as in Resolve.
func (b *Bounds) First(book, chapter int) (VerseAddress, error) {
	vr, chapter, err := b.chapter(book, chapter)
	if err != nil {
		return VerseAddress{}, err
	}
	return b.Resolve(book, chapter, vr.Min)
}

// Chapter returns verse bounds of a chapter.
func (b *Bounds) Chapter(book, chapter int) (VerseRange, error) {
	vr, _, err := b.chapter(book, chapter)
	return vr, err
}

func (b *Bounds) chapter(book, chapter int) (VerseRange, int, error) {
	var vr VerseRange
	if b == nil || book < 0 || book >= len(b.chapters) {
		return vr, chapter, fmt.Errorf("book %d: %w", book, ErrInvalidBook)
	}
	cr := b.chapters[book]
	if cr.Max == 0 {
		return vr, chapter, fmt.Errorf("book %d has no chapters: %w",
			book, ErrInvalidChapter)
	}

	switch {
	case chapter == Last:
		chapter = cr.Max
	case chapter <= 0:
		chapter = cr.Min
	}

	vr, ok := b.verses[book][chapter]
	if !ok {
		return vr, chapter, fmt.Errorf("%d:%d: %w", book, chapter, ErrInvalidChapter)
	}
	return vr, chapter, nil
}

// FromOrdinal recovers the address of a verse from its ordinal.
func (b *Bounds) FromOrdinal(ordinal int) (VerseAddress, error) {
	var res VerseAddress
	if b == nil {
		return res, fmt.Errorf("ordinal %d: %w", ordinal, ErrInvalidVerse)
	}
	lo, hi := 0, len(b.spans)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if b.spans[mid].Ordinal <= ordinal {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return res, fmt.Errorf("ordinal %d: %w", ordinal, ErrInvalidVerse)
	}

	sp := b.spans[lo-1]
	offset := ordinal - sp.Ordinal
	if offset > sp.Max-sp.Min {
		return res, fmt.Errorf("ordinal %d: %w", ordinal, ErrInvalidVerse)
	}
	res = VerseAddress{
		Book:    sp.book,
		Chapter: sp.chapter,
		Verse:   sp.Min + offset,
		Index:   sp.Index + offset,
		Ordinal: ordinal,
	}
	return res, nil
}

// IsNotFound tells if err is one of resolution failures.
func IsNotFound(err error) bool {
	return errors.Is(err, errcode.ErrNotFound)
}
