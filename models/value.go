package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind, Value'nun hangi tipte değer taşıdığını belirtir.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
)

// String, log ve hata mesajları için okunabilir isim döner.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value, token claim'lerinde ve şema default'larında kullanılan tagged-variant tiptir:
// null | bool | number | string.
//
// Neden map[string]any değil?
// any her şeyi kabul eder: JSON'dan nested object veya array gelirse sessizce
// kabul edilir ve ileride type assertion'da patlar. Value sadece dört tipi taşır,
// JSON sınırında dönüşüm açıkça yapılır ve desteklenmeyen tipler reddedilir.
//
// Sayılar tek bir kanonik formda tutulur: tam sayıya eşit olan float'lar
// (ör: 2.0) integer olarak saklanır. Böylece JSON round-trip sonrası
// FloatValue(2) == IntValue(2) eşitliği korunur.
type Value struct {
	kind  ValueKind
	b     bool
	i     int64
	f     float64
	isInt bool
	s     string
}

// NullValue, null değer oluşturur. Value{} ile aynıdır.
func NullValue() Value { return Value{} }

// BoolValue, boolean değer oluşturur.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// IntValue, tam sayı değer oluşturur.
func IntValue(i int64) Value { return Value{kind: KindNumber, i: i, isInt: true} }

// FloatValue, ondalıklı sayı oluşturur. Tam sayıya eşitse integer olarak saklanır.
func FloatValue(f float64) Value {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return IntValue(int64(f))
	}
	return Value{kind: KindNumber, f: f}
}

// StringValue, string değer oluşturur.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// Kind, değerin tipini döner.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull, değer null ise true döner.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str, string değeri döner. Tip string değilse ok=false.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Bool, boolean değeri döner.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Int64, sayı tam sayı ise değerini döner.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindNumber || !v.isInt {
		return 0, false
	}
	return v.i, true
}

// Float64, sayıyı float64 olarak döner (integer'lar da dahil).
func (v Value) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	if v.isInt {
		return float64(v.i), true
	}
	return v.f, true
}

// String, değerin insan tarafından okunabilir hali (fmt.Stringer).
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return v.numberText()
	case KindString:
		return v.s
	default:
		return "null"
	}
}

// Literal, değeri SQL literal'i olarak render eder.
// String'lerdeki tek tırnaklar '' olarak escape edilir.
func (v Value) Literal() string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	case KindNumber:
		return v.numberText()
	case KindString:
		return "'" + strings.ReplaceAll(v.s, "'", "''") + "'"
	default:
		return "NULL"
	}
}

func (v Value) numberText() string {
	if v.isInt {
		return strconv.FormatInt(v.i, 10)
	}
	return strconv.FormatFloat(v.f, 'g', -1, 64)
}

// MarshalJSON, json.Marshaler implementasyonu.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindNumber:
		if !v.isInt && (math.IsNaN(v.f) || math.IsInf(v.f, 0)) {
			return nil, fmt.Errorf("cannot encode %v as JSON number", v.f)
		}
		return []byte(v.numberText()), nil
	case KindString:
		return json.Marshal(v.s)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON, json.Unmarshaler implementasyonu.
// Object ve array reddedilir: Value sadece scalar taşır.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	// UseNumber: büyük integer'lar float64'e çevrilip hassasiyet kaybetmesin
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	parsed, err := valueFromJSON(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func valueFromJSON(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return IntValue(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return FloatValue(f), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T: only null, bool, number and string are allowed", raw)
	}
}
