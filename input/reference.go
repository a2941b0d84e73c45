package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ge0mant1s/soacframe-community/extract"
	"github.com/ge0mant1s/soacframe-community/model"
)

// decodeFile reads a JSON or YAML document into a generic value. Files ending
// in .json are decoded as JSON, everything else as YAML.
func decodeFile(path, hint string) (any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &model.InputMissingError{Path: path, Hint: hint}
		}
		return nil, &model.ParseError{Path: path, Err: err}
	}

	var doc any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(content, &doc)
	} else {
		err = yaml.Unmarshal(content, &doc)
	}
	if err != nil {
		return nil, &model.ParseError{Path: path, Err: err}
	}
	return doc, nil
}

// LoadReferenceSet reads a technique reference table. The techniques key may
// be a mapping of ID to name (or to an object with a name) or a list of
// objects with id or technique_id and name. IDs are normalized; an optional
// total_techniques_covered overrides the denominator.
func LoadReferenceSet(path string) (model.ReferenceSet, error) {
	doc, err := decodeFile(path, "Provide a technique mapping file.")
	if err != nil {
		return model.ReferenceSet{}, err
	}
	root, ok := doc.(map[string]any)
	if !ok {
		return model.ReferenceSet{}, &model.ParseError{Path: path, Err: errors.New("top level must be a mapping")}
	}

	ref := model.ReferenceSet{
		Name:       strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Techniques: map[string]string{},
	}
	if name, ok := root["name"].(string); ok && name != "" {
		ref.Name = name
	}

	add := func(id, name string) error {
		id = extract.NormalizeTechnique(id)
		if id == "" {
			return &model.ConfigError{Reason: fmt.Sprintf("%s: technique with empty id", path)}
		}
		if _, dup := ref.Techniques[id]; dup {
			return &model.ConfigError{Reason: fmt.Sprintf("%s: duplicate technique %s", path, id)}
		}
		ref.Techniques[id] = name
		return nil
	}

	switch techniques := root["techniques"].(type) {
	case map[string]any:
		for id, v := range techniques {
			if err := add(id, entryName(v)); err != nil {
				return model.ReferenceSet{}, err
			}
		}
	case []any:
		for i, v := range techniques {
			entry, ok := v.(map[string]any)
			if !ok {
				return model.ReferenceSet{}, &model.ParseError{Path: path, Err: fmt.Errorf("techniques[%d] must be a mapping", i)}
			}
			id := stringField(entry, "id")
			if id == "" {
				id = stringField(entry, "technique_id")
			}
			if err := add(id, entryName(entry)); err != nil {
				return model.ReferenceSet{}, err
			}
		}
	case nil:
	default:
		return model.ReferenceSet{}, &model.ParseError{Path: path, Err: fmt.Errorf("techniques must be a mapping or a list, got %T", techniques)}
	}

	if raw, present := root["total_techniques_covered"]; present {
		total, ok := toInt(raw)
		if !ok {
			return model.ReferenceSet{}, &model.ParseError{Path: path, Err: fmt.Errorf("total_techniques_covered must be an integer, got %v", raw)}
		}
		ref.Total = total
		if total <= 0 {
			return model.ReferenceSet{}, &model.ConfigError{Reason: fmt.Sprintf("%s: total_techniques_covered must be positive, got %d", path, total)}
		}
	}
	return ref, nil
}

func entryName(v any) string {
	switch e := v.(type) {
	case string:
		return e
	case map[string]any:
		return stringField(e, "name")
	}
	return ""
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
