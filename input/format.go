package input

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/ge0mant1s/soacframe-community/extract"
	"github.com/ge0mant1s/soacframe-community/model"
	"github.com/ge0mant1s/soacframe-community/util"
)

var structuredExtensions = map[string]bool{
	".yml":  true,
	".yaml": true,
	".json": true,
}

var queryExtensions = map[string]bool{
	".kql":    true,
	".spl":    true,
	".sql":    true,
	".eql":    true,
	".esql":   true,
	".lucene": true,
	".txt":    true,
}

// sniffLimit bounds how much of an unknown file is read for format detection.
const sniffLimit = 4096

// DetectRuleFormat identifies the rule format of path, first by extension and
// then by looking at the start of the file.
func DetectRuleFormat(path string) model.RuleFormat {
	ext := strings.ToLower(filepath.Ext(path))
	if structuredExtensions[ext] {
		return model.FormatStructured
	}
	if queryExtensions[ext] {
		return model.FormatQuery
	}

	f, err := os.Open(path)
	if err != nil {
		util.Debug("DetectRuleFormat: could not open %s: %v", path, err)
		return model.FormatUnknown
	}
	defer f.Close()

	head := make([]byte, sniffLimit)
	n, _ := f.Read(head)
	return sniffRuleFormat(head[:n])
}

func sniffRuleFormat(head []byte) model.RuleFormat {
	if bytes.Contains(head, []byte(extract.QueryMarker)) {
		return model.FormatQuery
	}
	trimmed := bytes.TrimSpace(head)
	if bytes.HasPrefix(trimmed, []byte("title:")) || bytes.HasPrefix(trimmed, []byte("---")) {
		return model.FormatStructured
	}
	if bytes.HasPrefix(trimmed, []byte("{")) && bytes.Contains(trimmed, []byte(`"tags"`)) {
		return model.FormatStructured
	}
	return model.FormatUnknown
}
