package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrReferenceCycle, modeller arasında döngüsel foreign key referansı olduğunda döner.
var ErrReferenceCycle = errors.New("foreign key reference cycle")

// SortByReferences, modelleri referans verilen tablo önce gelecek şekilde sıralar.
//
// Compile model sırasını değiştirmez; eager FK kontrolü yapan bir engine'de
// ileri referans (henüz oluşturulmamış tabloya REFERENCES) CREATE TABLE'ı
// patlatabilir. Bu fonksiyon derlemeden önce çağrılarak o durum kapatılır.
//
// Kararlı (stable) topological sort: her adımda, bağımlılıkları yerleşmiş
// modellerden şemada EN ÖNCE yazılmış olanı seçilir. Bağımsız modeller
// orijinal sıralarını korur. Kendine referans ve şema dışındaki tablolara
// referans yok sayılır.
//
// Döngü varsa orijinal sırayla bir kopya ve ErrReferenceCycle döner:
// çağıran loglayıp devam edebilir (SQLite CREATE sırasında hedefi kontrol etmez).
func SortByReferences(s *Schema) (*Schema, error) {
	byTable := make(map[string]int, len(s.Models))
	for i, m := range s.Models {
		byTable[m.Table] = i
	}

	deps := make([]map[int]bool, len(s.Models))
	for i, m := range s.Models {
		deps[i] = make(map[int]bool)
		for _, f := range m.Fields {
			if f.References == nil {
				continue
			}
			if j, ok := byTable[f.References.Table]; ok && j != i {
				deps[i][j] = true
			}
		}
	}

	placed := make([]bool, len(s.Models))
	order := make([]int, 0, len(s.Models))

	for len(order) < len(s.Models) {
		next := -1
		for i := range s.Models {
			if placed[i] {
				continue
			}
			ready := true
			for j := range deps[i] {
				if !placed[j] {
					ready = false
					break
				}
			}
			if ready {
				next = i
				break
			}
		}

		if next == -1 {
			var stuck []string
			for i, m := range s.Models {
				if !placed[i] {
					stuck = append(stuck, m.Name)
				}
			}
			cp := &Schema{Models: append([]ModelDef(nil), s.Models...)}
			return cp, fmt.Errorf("%w: %s", ErrReferenceCycle, strings.Join(stuck, ", "))
		}

		placed[next] = true
		order = append(order, next)
	}

	sorted := &Schema{Models: make([]ModelDef, 0, len(s.Models))}
	for _, i := range order {
		sorted.Models = append(sorted.Models, s.Models[i])
	}
	return sorted, nil
}
