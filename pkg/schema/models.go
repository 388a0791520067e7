// Package schema provides database schema models for the verse store.
// Every model carries gorm tags for AutoMigrate on PostgreSQL and
// db/ddl tags for plain DDL on SQLite.
package schema

// DDLGenerator defines how Go models generate DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the table name for this model.
	TableName() string
}

// Book is a book of the corpus.
type Book struct {
	// ID is the 0-based position of the book.
	ID int `db:"book" ddl:"INTEGER PRIMARY KEY" gorm:"column:book;primaryKey;autoIncrement:false"`

	// Code is a short canonical name, like "Gen".
	Code string `db:"code" ddl:"TEXT NOT NULL UNIQUE" gorm:"column:code;not null;uniqueIndex"`
}

// BookName keeps display forms of a book in one language.
type BookName struct {
	Book  int    `db:"book"  ddl:"INTEGER NOT NULL" gorm:"column:book;primaryKey;autoIncrement:false"`
	Lang  string `db:"lang"  ddl:"TEXT NOT NULL"    gorm:"column:lang;primaryKey"`
	Abbr  string `db:"abbr"  ddl:"TEXT NOT NULL"    gorm:"column:abbr;not null"`
	Title string `db:"title" ddl:"TEXT NOT NULL"    gorm:"column:title;not null"`
}

// BookAlias is an extra name of a book. Alias is stored normalized.
type BookAlias struct {
	Alias string `db:"alias" ddl:"TEXT PRIMARY KEY" gorm:"column:alias;primaryKey"`
	Book  int    `db:"book"  ddl:"INTEGER NOT NULL" gorm:"column:book;not null"`
	Lang  string `db:"lang"  ddl:"TEXT"             gorm:"column:lang"`
}

// Version is a translation.
type Version struct {
	Code      string `db:"version"   ddl:"TEXT PRIMARY KEY"           gorm:"column:version;primaryKey"`
	Abbr      string `db:"abbr"      ddl:"TEXT NOT NULL"              gorm:"column:abbr;not null"`
	Lang      string `db:"lang"      ddl:"TEXT NOT NULL"              gorm:"column:lang;not null"`
	Blessed   bool   `db:"blessed"   ddl:"BOOLEAN NOT NULL DEFAULT 0" gorm:"column:blessed;not null;default:false"`
	Year      int    `db:"year"      ddl:"INTEGER"                    gorm:"column:year"`
	Copyright string `db:"copyright" ddl:"TEXT"                       gorm:"column:copyright"`

	// MaxGap is the largest ordinal step between two consecutive verses
	// of the translation. It is recomputed by optimize.
	MaxGap int `db:"max_gap" ddl:"INTEGER NOT NULL DEFAULT 1" gorm:"column:max_gap;not null;default:1"`
}

// VersionName is a title of a translation in one language.
type VersionName struct {
	Version string `db:"version" ddl:"TEXT NOT NULL" gorm:"column:version;primaryKey"`
	Lang    string `db:"lang"    ddl:"TEXT NOT NULL" gorm:"column:lang;primaryKey"`
	Title   string `db:"title"   ddl:"TEXT NOT NULL" gorm:"column:title;not null"`
}

// VersionAlias is an extra name of a translation.
type VersionAlias struct {
	Alias   string `db:"alias"   ddl:"TEXT PRIMARY KEY" gorm:"column:alias;primaryKey"`
	Version string `db:"version" ddl:"TEXT NOT NULL"    gorm:"column:version;not null"`
}

// Verse is the address of a verse.
type Verse struct {
	// Ordinal is the 0-based position of the verse in the corpus.
	Ordinal int `db:"ordinal" ddl:"INTEGER PRIMARY KEY" gorm:"column:ordinal;primaryKey;autoIncrement:false"`

	Book    int `db:"book"    ddl:"INTEGER NOT NULL" gorm:"column:book;not null"`
	Chapter int `db:"chapter" ddl:"INTEGER NOT NULL" gorm:"column:chapter;not null"`
	Verse   int `db:"verse"   ddl:"INTEGER NOT NULL" gorm:"column:verse;not null"`

	// Idx is the 0-based position of the verse in its book.
	Idx int `db:"idx" ddl:"INTEGER NOT NULL" gorm:"column:idx;not null"`
}

// Datum is the text of a verse in one translation.
type Datum struct {
	Version string `db:"version" ddl:"TEXT NOT NULL"    gorm:"column:version;primaryKey"`
	Ordinal int    `db:"ordinal" ddl:"INTEGER NOT NULL" gorm:"column:ordinal;primaryKey;autoIncrement:false"`
	Text    string `db:"text"    ddl:"TEXT NOT NULL"    gorm:"column:text;not null"`

	// Markup has one style byte per character of Text.
	Markup []byte `db:"markup" ddl:"BLOB" gorm:"column:markup"`

	// Annotations are translator notes, one per line.
	Annotations string `db:"annotations" ddl:"TEXT" gorm:"column:annotations"`
}

// Topic is a named ordinal range. Daily readings are topics of kind
// "daily" with a MMDD code.
type Topic struct {
	Kind     string `db:"kind"     ddl:"TEXT NOT NULL"    gorm:"column:kind;not null;index:idx_topics_kind_code"`
	Code     string `db:"code"     ddl:"TEXT NOT NULL"    gorm:"column:code;not null;index:idx_topics_kind_code"`
	Ordinal1 int    `db:"ordinal1" ddl:"INTEGER NOT NULL" gorm:"column:ordinal1;not null"`
	Ordinal2 int    `db:"ordinal2" ddl:"INTEGER NOT NULL" gorm:"column:ordinal2;not null"`
}

// Meta keeps facts about the loaded corpus: build id, digests, load
// time.
type Meta struct {
	Key   string `db:"key"   ddl:"TEXT PRIMARY KEY" gorm:"column:key;primaryKey"`
	Value string `db:"value" ddl:"TEXT NOT NULL"    gorm:"column:value;not null"`
}

// Meta keys.
const (
	MetaBuildID    = "build_id"
	MetaDigest     = "corpus_digest"
	MetaLoadedAt   = "loaded_at"
	MetaVerseCount = "verse_count"
	MetaOptimized  = "optimized_at"
	MetaDefault    = "default_version"
)

// TopicDaily is the kind of daily reading topics.
const TopicDaily = "daily"
