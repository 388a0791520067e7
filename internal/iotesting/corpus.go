package iotesting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// Facts about the corpus written by WriteCorpus.
const (
	// CorpusVerses is the number of distinct verse addresses.
	CorpusVerses = 12
	// CorpusTexts is the number of verse texts of all versions.
	CorpusTexts = 24
	// CorpusNIVGap is the max gap of niv, it lacks John 3.
	CorpusNIVGap = 3
)

const corpusBooks = `- code: Gen
  names:
    en: {abbr: Gen, title: Genesis}
    ko: {abbr: 창, title: 창세기}
- code: John
  names:
    en: {abbr: John, title: John}
    ko: {abbr: 요, title: 요한복음}
- code: 1John
  names:
    en: {abbr: 1John, title: 1 John}
    ko: {abbr: 요일, title: 요한일서}
  others:
    - {text: First John, lang: en}
`

const corpusVersions = `default: kjav
versions:
  - code: kjv
    abbr: KJV
    lang: en
    blessed: true
    year: 1611
    copyright: Public domain
    titles: {en: King James Version}
  - code: niv
    abbr: NIV
    lang: en
    year: 1978
    copyright: International Bible Society
    titles: {en: New International Version}
  - code: kjav
    abbr: 흠정역
    lang: ko
    blessed: true
    year: 2011
    titles: {ko: 킹제임스 흠정역, en: Korean Authorized King James Version}
    aliases: [흠정]
    brackets: true
`

// Ordinals: Gen 1:1-3 are 0-2, Gen 2:1-2 are 3-4, John 1:1-3 are 5-7,
// John 3:16-17 are 8-9, 1John 1:1-2 are 10-11.
const corpusKJV = `# version	book	chapter	verse	text
kjv	Gen	1	1	In the beginning God created the heaven and the earth.
kjv	Gen	1	2	And the earth was without form, and void; and darkness <i>was</i> upon the face of the deep.
kjv	Gen	1	3	And God said, Let there be light: and there was light.
kjv	Gen	2	1	Thus the heavens and the earth were finished, and all the host of them.
kjv	Gen	2	2	And on the seventh day God ended his work which he had made.
kjv	John	1	1	In the beginning was the Word, and the Word was with God, and the Word was God.
kjv	John	1	2	The same was in the beginning with God.
kjv	John	1	3	All things were made by him.
kjv	John	3	16	For God so loved the world, that he gave his only begotten Son.
kjv	John	3	17	For God sent not his Son into the world to condemn the world.
kjv	1John	1	1	That which was from the beginning, which we have heard.
kjv	1John	1	2	For the life was manifested, and we have seen it.
xyz	Gen	1	1	Unknown versions are skipped.
`

const corpusNIV = `niv	Genesis	1	1	In the beginning God created the heavens and the earth.
niv	Genesis	1	2	Now the earth was formless and empty.
niv	Genesis	1	3	And God said, Let there be light, and there was light.
niv	Genesis	2	1	Thus the heavens and the earth were completed.
niv	Genesis	2	2	By the seventh day God had finished the work.
niv	John	1	1	In the beginning was the Word.
niv	John	1	2	He was with God in the beginning.
niv	John	1	3	Through him all things were made.
niv	First John	1	1	That which was from the beginning.
niv	First John	1	2	The life appeared; we have seen it.
`

const corpusKJAV = `kjav	창	1	1	태초에(太初) 하나님께서 하늘과 땅을 창조하시니라.
kjav	창	1	2	땅은 형태가 없고 [비어] 있었으며
`

const corpusDaily = `"0101":
  - [Gen, 1, 1]
  - [John, 1, 1, 1, 2]
"0102":
  - [Gen, 2, 2]
  - [Gen, 1, 1]
"1231":
  - [요일, 1, 1]
`

// WriteCorpus writes a small corpus directory and returns its path. It
// has three books, three versions (kjav compressed with xz) and three
// daily readings.
func WriteCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"books.yaml":     corpusBooks,
		"versions.yaml":  corpusVersions,
		"verses_kjv.tsv": corpusKJV,
		"verses_niv.tsv": corpusNIV,
		"daily.yaml":     corpusDaily,
	}
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err)
	}

	f, err := os.Create(filepath.Join(dir, "verses_kjav.tsv.xz"))
	require.NoError(t, err)
	defer f.Close()
	w, err := xz.NewWriter(f)
	require.NoError(t, err)
	_, err = w.Write([]byte(corpusKJAV))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return dir
}
