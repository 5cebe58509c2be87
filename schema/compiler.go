package schema

import (
	"fmt"
	"strings"

	"github.com/akinalp/tohum/pkg"
)

// onUpdateNowMarker, "onUpdate: now" için kolona eklenen bilgi notu.
// SQLite'ta ON UPDATE CURRENT_TIMESTAMP yoktur: trigger gerekir, derleyici
// trigger üretmez, sadece ihtiyacı belgeler.
const onUpdateNowMarker = "/* ON UPDATE CURRENT_TIMESTAMP (requires trigger in SQLite) */"

// defaultNow, DEFAULT CURRENT_TIMESTAMP'e çevrilen sentinel değer.
const defaultNow = "now"

// Compile, şemayı sıralı DDL statement listesine derler.
//
// Her model için (şemadaki sırayla):
//  1. DROP TABLE IF EXISTS: koşulsuz, CREATE'ten önce
//  2. CREATE TABLE: kolonlar field sırasıyla, varsa composite PRIMARY KEY en sonda
//  3. CREATE INDEX: unique kolon üzerindeki tek kolonlu index'ler atlanır
//
// Önce tüm şema doğrulanır; herhangi bir model hatalıysa hiçbir statement
// dönmez (all-or-nothing). Model sırası değiştirilmez: referans sıralaması
// isteniyorsa çağıran önce SortByReferences kullanır.
func Compile(s *Schema) ([]string, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}

	var statements []string
	for i := range s.Models {
		statements = append(statements, compileModel(&s.Models[i])...)
	}
	return statements, nil
}

func compileModel(m *ModelDef) []string {
	statements := []string{
		fmt.Sprintf("DROP TABLE IF EXISTS %s;", quoteIdent(m.Table)),
	}

	composite := m.HasCompositeKey()

	clauses := make([]string, 0, len(m.Fields)+1)
	for i := range m.Fields {
		clauses = append(clauses, "  "+columnClause(&m.Fields[i], composite))
	}

	if composite {
		clauses = append(clauses, "  PRIMARY KEY ("+quoteList(dedupe(m.PrimaryKey))+")")
	}

	statements = append(statements, fmt.Sprintf(
		"CREATE TABLE %s (\n%s\n);", quoteIdent(m.Table), strings.Join(clauses, ",\n"),
	))

	for _, idx := range m.Indexes {
		// Tek kolonlu index unique kolon üzerindeyse gereksiz:
		// UNIQUE constraint SQLite'ta zaten otomatik bir index oluşturur.
		if len(idx.Fields) == 1 {
			if f, ok := m.Field(idx.Fields[0]); ok && f.Unique {
				continue
			}
		}

		name := m.Table + "_" + strings.Join(idx.Fields, "_") + "_idx"
		statements = append(statements, fmt.Sprintf(
			"CREATE INDEX %s ON %s (%s);", quoteIdent(name), quoteIdent(m.Table), quoteList(idx.Fields),
		))
	}

	return statements
}

// columnClause, tek bir kolonun tanımını sabit sırayla üretir:
// isim, tip, PRIMARY KEY [AUTOINCREMENT], NOT NULL, UNIQUE, DEFAULT, REFERENCES, on-update notu.
func columnClause(f *FieldDef, composite bool) string {
	var b strings.Builder
	b.WriteString(quoteIdent(f.Name))
	b.WriteString(" ")
	b.WriteString(MapType(f.Type))

	// Composite key varsa inline PRIMARY KEY yazılmaz: tablo seviyesinde bir kere tanımlanır
	if f.PrimaryKey && !composite {
		b.WriteString(" PRIMARY KEY")
		if f.AutoIncrement {
			b.WriteString(" AUTOINCREMENT")
		}
	}

	if f.NotNull() {
		b.WriteString(" NOT NULL")
	}

	if f.Unique {
		b.WriteString(" UNIQUE")
	}

	if f.Default != nil {
		b.WriteString(" DEFAULT ")
		if s, ok := f.Default.Str(); ok && s == defaultNow {
			b.WriteString("CURRENT_TIMESTAMP")
		} else {
			b.WriteString(f.Default.Literal())
		}
	}

	if ref := f.References; ref != nil {
		b.WriteString(" REFERENCES ")
		b.WriteString(quoteIdent(ref.Table))
		b.WriteString("(" + quoteIdent(ref.TargetColumn()) + ")")
		if ref.OnDelete != "" {
			b.WriteString(" ON DELETE " + normalizeAction(ref.OnDelete))
		}
		if ref.OnUpdate != "" {
			b.WriteString(" ON UPDATE " + normalizeAction(ref.OnUpdate))
		}
	}

	if f.OnUpdate == defaultNow {
		b.WriteString(" " + onUpdateNowMarker)
	}

	return b.String()
}

// validActions, foreign key ON DELETE / ON UPDATE için izin verilen aksiyonlar.
var validActions = map[string]bool{
	"CASCADE":     true,
	"SET NULL":    true,
	"SET DEFAULT": true,
	"RESTRICT":    true,
	"NO ACTION":   true,
}

// Validate, şemanın derlenebilir olduğunu kontrol eder.
// Hatalar pkg.ErrInvalidSchema ile wrap edilir: startup'ta fatal'dır.
func Validate(s *Schema) error {
	if s == nil {
		return fmt.Errorf("%w: schema is nil", pkg.ErrInvalidSchema)
	}

	tables := make(map[string]string)
	names := make(map[string]bool)

	for i := range s.Models {
		m := &s.Models[i]

		if names[m.Name] {
			return invalid(m, "duplicate model name")
		}
		names[m.Name] = true

		if strings.TrimSpace(m.Table) == "" {
			return invalid(m, "missing table name")
		}
		if strings.HasPrefix(strings.ToLower(m.Table), "sqlite_") {
			return invalid(m, "table name %q is reserved", m.Table)
		}
		if other, dup := tables[m.Table]; dup {
			return invalid(m, "table %q is already used by model %q", m.Table, other)
		}
		tables[m.Table] = m.Name

		if len(m.Fields) == 0 {
			return invalid(m, "no fields defined")
		}

		seen := make(map[string]bool, len(m.Fields))
		for _, f := range m.Fields {
			if f.Name == "" {
				return invalid(m, "field with empty name")
			}
			if seen[f.Name] {
				return invalid(m, "duplicate field %q", f.Name)
			}
			seen[f.Name] = true

			if strings.TrimSpace(f.Type) == "" {
				return invalid(m, "field %q has no type", f.Name)
			}
			if f.OnUpdate != "" && f.OnUpdate != defaultNow {
				return invalid(m, "field %q: unsupported onUpdate %q (only \"now\")", f.Name, f.OnUpdate)
			}
			if ref := f.References; ref != nil {
				if strings.TrimSpace(ref.Table) == "" {
					return invalid(m, "field %q: references without table", f.Name)
				}
				for _, action := range []string{ref.OnDelete, ref.OnUpdate} {
					if action != "" && !validActions[normalizeAction(action)] {
						return invalid(m, "field %q: unknown foreign key action %q", f.Name, action)
					}
				}
			}
		}

		for _, col := range m.PrimaryKey {
			if !seen[col] {
				return invalid(m, "primary key column %q is not a field", col)
			}
		}

		for _, idx := range m.Indexes {
			if len(idx.Fields) == 0 {
				return invalid(m, "index without fields")
			}
			for _, col := range idx.Fields {
				if !seen[col] {
					return invalid(m, "index column %q is not a field", col)
				}
			}
		}
	}

	return nil
}

func invalid(m *ModelDef, format string, args ...any) error {
	return fmt.Errorf("%w: model %q: %s", pkg.ErrInvalidSchema, m.Name, fmt.Sprintf(format, args...))
}

// quoteIdent, SQL identifier'ını çift tırnakla sarar; içteki " karakteri "" olur.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}

// dedupe, sırayı koruyarak tekrar eden kolonları çıkarır.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeAction(action string) string {
	return strings.ToUpper(strings.Join(strings.Fields(action), " "))
}
