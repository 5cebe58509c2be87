package database

import _ "embed"

// DefaultSchema, binary'ye gömülü varsayılan şema açıklaması.
// SCHEMA_PATH boşsa gate bunu kullanır.
//
//go:embed schema.yaml
var DefaultSchema []byte
