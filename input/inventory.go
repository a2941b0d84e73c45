package input

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ge0mant1s/soacframe-community/model"
	"github.com/ge0mant1s/soacframe-community/util"
)

const inventorySchema = `{
  "type": ["object", "null"],
  "properties": {
    "devices": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "hostname":   {"type": "string"},
          "ip":         {"type": ["string", "number", "null"]},
          "vendor":     {"type": ["string", "number", "null"]},
          "model":      {"type": ["string", "number", "null"]},
          "os_version": {"type": ["string", "number", "null"]},
          "role":       {"type": ["string", "number", "null"]}
        },
        "required": ["hostname"]
      }
    }
  }
}`

var inventoryLoader = gojsonschema.NewStringLoader(inventorySchema)

type inventoryFile struct {
	Devices []model.DeviceRecord `json:"devices"`
}

// LoadInventory reads a device inventory document with a top-level devices
// list. A missing file is an InputMissingError; a malformed document or one
// that does not fit the inventory schema is a ParseError. An empty document
// yields no devices.
func LoadInventory(path string) ([]model.DeviceRecord, error) {
	doc, err := decodeFile(path, "Please populate "+path)
	if err != nil {
		return nil, err
	}

	result, err := gojsonschema.Validate(inventoryLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, &model.ParseError{Path: path, Err: err}
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, &model.ParseError{Path: path, Err: fmt.Errorf("inventory does not match schema: %s", strings.Join(problems, "; "))}
	}

	// The schema guarantees the shape, so a JSON round trip gives typed records.
	stringifyScalars(doc)
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, &model.ParseError{Path: path, Err: err}
	}
	var inv inventoryFile
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, &model.ParseError{Path: path, Err: err}
	}

	for i, d := range inv.Devices {
		if err := d.Validate(); err != nil {
			return nil, &model.ParseError{Path: path, Err: fmt.Errorf("devices[%d]: %w", i, err)}
		}
	}
	util.Debug("LoadInventory: %d devices from %s", len(inv.Devices), path)
	return inv.Devices, nil
}

// stringifyScalars rewrites numeric device fields as strings, so an unquoted
// YAML value such as os_version: 17.6 reads the same as its quoted form.
func stringifyScalars(doc any) {
	root, ok := doc.(map[string]any)
	if !ok {
		return
	}
	devices, _ := root["devices"].([]any)
	for _, item := range devices {
		device, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for key, value := range device {
			switch v := value.(type) {
			case int:
				device[key] = strconv.Itoa(v)
			case int64:
				device[key] = strconv.FormatInt(v, 10)
			case uint64:
				device[key] = strconv.FormatUint(v, 10)
			case float64:
				device[key] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
	}
}
