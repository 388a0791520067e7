package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
func generateDDL(model any, tableName string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

// Columns returns column names of a model in declaration order.
func Columns(model any) []string {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	var res []string
	for i := 0; i < t.NumField(); i++ {
		if col := t.Field(i).Tag.Get("db"); col != "" {
			res = append(res, col)
		}
	}
	return res
}

// ColumnDef is a column name with its DDL type and constraints.
type ColumnDef struct {
	Name string
	DDL  string
}

// AddableDDL drops constraints that SQLite does not allow in ALTER
// TABLE ADD COLUMN. NOT NULL stays only together with a default.
func (c ColumnDef) AddableDDL() string {
	res := strings.ReplaceAll(c.DDL, "PRIMARY KEY", "")
	res = strings.ReplaceAll(res, "UNIQUE", "")
	if !strings.Contains(res, "DEFAULT") {
		res = strings.ReplaceAll(res, "NOT NULL", "")
	}
	return strings.Join(strings.Fields(res), " ")
}

// ColumnDefs returns column definitions of a model in declaration order.
func ColumnDefs(model any) []ColumnDef {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	var res []ColumnDef
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, ddl := f.Tag.Get("db"), f.Tag.Get("ddl")
		if name != "" && ddl != "" {
			res = append(res, ColumnDef{Name: name, DDL: ddl})
		}
	}
	return res
}

func (b Book) TableDDL() string {
	return generateDDL(b, b.TableName())
}

func (b Book) IndexDDL() []string {
	return []string{}
}

func (b Book) TableName() string {
	return "books"
}

func (bn BookName) TableDDL() string {
	return generateDDL(bn, bn.TableName())
}

func (bn BookName) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_book_names_book_lang ON book_names(book, lang);",
	}
}

func (bn BookName) TableName() string {
	return "book_names"
}

func (ba BookAlias) TableDDL() string {
	return generateDDL(ba, ba.TableName())
}

func (ba BookAlias) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_book_aliases_book ON book_aliases(book);",
	}
}

func (ba BookAlias) TableName() string {
	return "book_aliases"
}

func (v Version) TableDDL() string {
	return generateDDL(v, v.TableName())
}

func (v Version) IndexDDL() []string {
	return []string{}
}

func (v Version) TableName() string {
	return "versions"
}

func (vn VersionName) TableDDL() string {
	return generateDDL(vn, vn.TableName())
}

func (vn VersionName) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_version_names_version_lang ON version_names(version, lang);",
	}
}

func (vn VersionName) TableName() string {
	return "version_names"
}

func (va VersionAlias) TableDDL() string {
	return generateDDL(va, va.TableName())
}

func (va VersionAlias) IndexDDL() []string {
	return []string{}
}

func (va VersionAlias) TableName() string {
	return "version_aliases"
}

func (v Verse) TableDDL() string {
	return generateDDL(v, v.TableName())
}

func (v Verse) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_verses_address ON verses(book, chapter, verse);",
		"CREATE INDEX IF NOT EXISTS idx_verses_book_idx ON verses(book, idx);",
	}
}

func (v Verse) TableName() string {
	return "verses"
}

func (d Datum) TableDDL() string {
	return generateDDL(d, d.TableName())
}

// IndexDDL of data makes range scans by version and ordinal use an
// index in both directions.
func (d Datum) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_data_version_ordinal ON data(version, ordinal);",
	}
}

func (d Datum) TableName() string {
	return "data"
}

func (tp Topic) TableDDL() string {
	return generateDDL(tp, tp.TableName())
}

func (tp Topic) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_topics_kind_code ON topics(kind, code);",
	}
}

func (tp Topic) TableName() string {
	return "topics"
}

func (m Meta) TableDDL() string {
	return generateDDL(m, m.TableName())
}

func (m Meta) IndexDDL() []string {
	return []string{}
}

func (m Meta) TableName() string {
	return "meta"
}
