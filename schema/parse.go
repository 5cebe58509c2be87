package schema

import (
	"fmt"

	"github.com/akinalp/tohum/models"
	"github.com/akinalp/tohum/pkg"
	"gopkg.in/yaml.v3"
)

// Parse, YAML şema açıklamasını Schema'ya çevirir.
//
// Beklenen format:
//
//	models:
//	  User:
//	    table: users
//	    fields:
//	      id: { type: integer, primaryKey: true, autoIncrement: true }
//	      email: { type: text, unique: true, nullable: false }
//	    indexes:
//	      - fields: [email]
//
// Neden map'e değil yaml.Node'a decode ediyoruz?
// Go map'lerinin iterasyon sırası rastgeledir. Model ve field sırası derleme
// çıktısını belirlediği için dokümandaki sıra korunmalı: yaml.Node, mapping
// içeriğini yazıldığı sırayla [key, value, key, value, ...] olarak tutar.
func Parse(text []byte) (*Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(text, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", pkg.ErrInvalidSchema, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty schema description", pkg.ErrInvalidSchema)
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nodeError(root, "top level must be a mapping")
	}
	if err := checkKeys(root, "models"); err != nil {
		return nil, err
	}

	modelsNode := lookup(root, "models")
	if modelsNode == nil {
		return nil, nodeError(root, "missing \"models\" mapping")
	}
	if modelsNode.Kind != yaml.MappingNode {
		return nil, nodeError(modelsNode, "\"models\" must be a mapping")
	}

	s := &Schema{}
	for i := 0; i+1 < len(modelsNode.Content); i += 2 {
		name := modelsNode.Content[i].Value
		model, err := parseModel(name, modelsNode.Content[i+1])
		if err != nil {
			return nil, err
		}
		s.Models = append(s.Models, model)
	}

	return s, nil
}

func parseModel(name string, node *yaml.Node) (ModelDef, error) {
	model := ModelDef{Name: name}

	if node.Kind != yaml.MappingNode {
		return model, nodeError(node, "model %q must be a mapping", name)
	}
	if err := checkKeys(node, "table", "fields", "primaryKey", "indexes"); err != nil {
		return model, err
	}

	if n := lookup(node, "table"); n != nil {
		if err := n.Decode(&model.Table); err != nil {
			return model, nodeError(n, "model %q: table: %v", name, err)
		}
	}

	if n := lookup(node, "fields"); n != nil {
		if n.Kind != yaml.MappingNode {
			return model, nodeError(n, "model %q: fields must be a mapping", name)
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			field, err := parseField(n.Content[i].Value, n.Content[i+1])
			if err != nil {
				return model, fmt.Errorf("model %q: %w", name, err)
			}
			model.Fields = append(model.Fields, field)
		}
	}

	if n := lookup(node, "primaryKey"); n != nil {
		if err := n.Decode(&model.PrimaryKey); err != nil {
			return model, nodeError(n, "model %q: primaryKey must be a list of column names: %v", name, err)
		}
	}

	if n := lookup(node, "indexes"); n != nil {
		if n.Kind != yaml.SequenceNode {
			return model, nodeError(n, "model %q: indexes must be a list", name)
		}
		for _, item := range n.Content {
			if item.Kind != yaml.MappingNode {
				return model, nodeError(item, "model %q: index must be a mapping", name)
			}
			if err := checkKeys(item, "fields"); err != nil {
				return model, err
			}
			var idx IndexDef
			if f := lookup(item, "fields"); f != nil {
				if err := f.Decode(&idx.Fields); err != nil {
					return model, nodeError(f, "model %q: index fields must be a list of column names: %v", name, err)
				}
			}
			model.Indexes = append(model.Indexes, idx)
		}
	}

	return model, nil
}

// rawField, default hariç field özelliklerinin YAML karşılığı.
// default ayrıca işlenir çünkü tipi (string/sayı/bool) YAML tag'inden okunmalı.
type rawField struct {
	Type          string `yaml:"type"`
	PrimaryKey    bool   `yaml:"primaryKey"`
	AutoIncrement bool   `yaml:"autoIncrement"`
	Unique        bool   `yaml:"unique"`
	Nullable      *bool  `yaml:"nullable"`
	MaxLength     int    `yaml:"maxLength"`
	OnUpdate      string `yaml:"onUpdate"`
}

type rawReference struct {
	Table    string `yaml:"table"`
	Column   string `yaml:"column"`
	OnDelete string `yaml:"onDelete"`
	OnUpdate string `yaml:"onUpdate"`
}

func parseField(name string, node *yaml.Node) (FieldDef, error) {
	field := FieldDef{Name: name}

	if node.Kind != yaml.MappingNode {
		return field, nodeError(node, "field %q must be a mapping", name)
	}
	if err := checkKeys(node,
		"type", "primaryKey", "autoIncrement", "unique", "nullable",
		"maxLength", "default", "onUpdate", "references",
	); err != nil {
		return field, err
	}

	var raw rawField
	if err := node.Decode(&raw); err != nil {
		return field, nodeError(node, "field %q: %v", name, err)
	}
	field.Type = raw.Type
	field.PrimaryKey = raw.PrimaryKey
	field.AutoIncrement = raw.AutoIncrement
	field.Unique = raw.Unique
	field.Nullable = raw.Nullable
	field.MaxLength = raw.MaxLength
	field.OnUpdate = raw.OnUpdate

	if n := lookup(node, "default"); n != nil {
		v, err := scalarValue(n)
		if err != nil {
			return field, fmt.Errorf("field %q: %w", name, err)
		}
		field.Default = &v
	}

	if n := lookup(node, "references"); n != nil {
		if n.Kind != yaml.MappingNode {
			return field, nodeError(n, "field %q: references must be a mapping", name)
		}
		if err := checkKeys(n, "table", "column", "onDelete", "onUpdate"); err != nil {
			return field, err
		}
		var ref rawReference
		if err := n.Decode(&ref); err != nil {
			return field, nodeError(n, "field %q: references: %v", name, err)
		}
		field.References = &ForeignKey{
			Table:    ref.Table,
			Column:   ref.Column,
			OnDelete: ref.OnDelete,
			OnUpdate: ref.OnUpdate,
		}
	}

	return field, nil
}

// scalarValue, YAML scalar'ını tag'ine göre models.Value'ya çevirir.
// "42" (tırnaklı) string kalır, 42 sayı olur.
func scalarValue(n *yaml.Node) (models.Value, error) {
	if n.Kind != yaml.ScalarNode {
		return models.Value{}, nodeError(n, "default must be a scalar")
	}

	switch n.ShortTag() {
	case "!!null":
		return models.NullValue(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return models.Value{}, nodeError(n, "default: %v", err)
		}
		return models.BoolValue(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return models.Value{}, nodeError(n, "default: %v", err)
		}
		return models.IntValue(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return models.Value{}, nodeError(n, "default: %v", err)
		}
		return models.FloatValue(f), nil
	default:
		return models.StringValue(n.Value), nil
	}
}

// lookup, mapping node'unda key'e karşılık gelen value node'unu döner.
func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// checkKeys, mapping'de izin verilmeyen key varsa hata döner.
// Yazım hatası (ör: "nulable") sessizce yok sayılırsa yanlış şema üretilir.
func checkKeys(mapping *yaml.Node, allowed ...string) error {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i]
		ok := false
		for _, a := range allowed {
			if key.Value == a {
				ok = true
				break
			}
		}
		if !ok {
			return nodeError(key, "unknown key %q", key.Value)
		}
	}
	return nil
}

func nodeError(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", pkg.ErrInvalidSchema, n.Line, fmt.Sprintf(format, args...))
}
