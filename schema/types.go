// Package schema, deklaratif model açıklamalarını (schema.yaml) SQLite DDL
// statement'larına derler.
//
// Akış:
//
//	Parse(text) → *Schema → Compile(schema) → []string (DROP / CREATE TABLE / CREATE INDEX)
//
// Derleyici "drop and rebuild" çalışır: incremental migration yapmaz.
// Statement'ları çalıştırmak ve ne zaman çalıştırılacağına karar vermek
// database.Gate'in işidir; bu paket hiçbir I/O yapmaz.
package schema

import "github.com/akinalp/tohum/models"

// ForeignKey, bir kolonun başka bir tabloya referansı.
type ForeignKey struct {
	Table    string
	Column   string // boşsa "id"
	OnDelete string // CASCADE | SET NULL | SET DEFAULT | RESTRICT | NO ACTION
	OnUpdate string
}

// TargetColumn, referans verilen kolonu döner (varsayılan "id").
func (fk ForeignKey) TargetColumn() string {
	if fk.Column == "" {
		return "id"
	}
	return fk.Column
}

// FieldDef, tek bir kolonun tanımı.
type FieldDef struct {
	Name          string
	Type          string // integer, boolean, string, text, timestamp, date, json, float, decimal, blob veya serbest
	PrimaryKey    bool
	AutoIncrement bool
	Unique        bool
	// Nullable nil ise kolon nullable'dır. Sadece açıkça false verilirse NOT NULL yazılır.
	Nullable *bool
	// MaxLength SQLite'ta uygulanmaz; açıklama amaçlı taşınır.
	MaxLength int
	// Default nil ise DEFAULT yazılmaz. "now" string'i CURRENT_TIMESTAMP'e çevrilir.
	Default    *models.Value
	OnUpdate   string
	References *ForeignKey
}

// NotNull, kolon açıkça nullable: false ile işaretlenmişse true döner.
func (f FieldDef) NotNull() bool {
	return f.Nullable != nil && !*f.Nullable
}

// IndexDef, sıralı kolon listesi üzerinde bir index.
type IndexDef struct {
	Fields []string
}

// ModelDef, bir tabloya karşılık gelen model.
type ModelDef struct {
	Name   string
	Table  string
	Fields []FieldDef // şema dosyasındaki sırayla
	// PrimaryKey, composite primary key kolonları. Boş değilse field'lardaki
	// primaryKey flag'leri yok sayılır ve tablo seviyesinde tek bir
	// PRIMARY KEY (...) clause'u yazılır.
	PrimaryKey []string
	Indexes    []IndexDef
}

// Field, isme göre field arar.
func (m *ModelDef) Field(name string) (*FieldDef, bool) {
	for i := range m.Fields {
		if m.Fields[i].Name == name {
			return &m.Fields[i], true
		}
	}
	return nil, false
}

// HasCompositeKey, model tablo seviyesinde primary key tanımlıyorsa true döner.
func (m *ModelDef) HasCompositeKey() bool {
	return len(m.PrimaryKey) > 0
}

// Schema, model isminden model tanımına sıralı eşleme.
// Sıra, şema dosyasındaki yazım sırasıdır ve derleme çıktısını belirler.
type Schema struct {
	Models []ModelDef
}

// Model, isme göre model arar.
func (s *Schema) Model(name string) (*ModelDef, bool) {
	for i := range s.Models {
		if s.Models[i].Name == name {
			return &s.Models[i], true
		}
	}
	return nil, false
}
