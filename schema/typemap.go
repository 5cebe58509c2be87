package schema

import "strings"

// MapType, soyut field tipini SQLite kolon tipine çevirir.
//
//	integer, boolean                           → INTEGER
//	string, text, timestamp, date, json        → TEXT
//	float, decimal                             → REAL
//	blob                                       → BLOB
//	diğer her şey                              → büyük harfe çevrilmiş hali (ör: "numeric" → NUMERIC)
//
// Son madde bilinçli bir kaçış kapısıdır: engine'e özgü tipler olduğu gibi geçer.
func MapType(name string) string {
	switch name {
	case "integer", "boolean":
		return "INTEGER"
	case "string", "text", "timestamp", "date", "json":
		return "TEXT"
	case "float", "decimal":
		return "REAL"
	case "blob":
		return "BLOB"
	default:
		return strings.ToUpper(name)
	}
}
