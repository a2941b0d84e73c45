package input_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ge0mant1s/soacframe-community/input"
	"github.com/ge0mant1s/soacframe-community/model"
)

// Helper function to create rule files for testing
func createFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDetectRuleFormat(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		content  string
		expected model.RuleFormat
	}{
		{"kql extension", "a.kql", "SecurityEvent", model.FormatQuery},
		{"yaml extension", "a.yml", "title: x", model.FormatStructured},
		{"json extension", "a.json", "{}", model.FormatStructured},
		{"sniffed marker", "rule", "// MITRE: T1190\nSigninLogs", model.FormatQuery},
		{"sniffed sigma", "rule2", "title: Edge exploit\ntags: []", model.FormatStructured},
		{"unknown", "notes", "hello", model.FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createFile(t, filepath.Join(tmpDir, tt.file), tt.content)
			assert.Equal(t, tt.expected, input.DetectRuleFormat(path))
		})
	}

	assert.Equal(t, model.FormatUnknown, input.DetectRuleFormat(filepath.Join(tmpDir, "missing")))
}

func TestDiscoverRules(t *testing.T) {
	root := t.TempDir()
	createFile(t, filepath.Join(root, "b.kql"), "")
	createFile(t, filepath.Join(root, "a.kql"), "")
	createFile(t, filepath.Join(root, "readme.md"), "")
	createFile(t, filepath.Join(root, "sub", "c.kql"), "")
	createFile(t, filepath.Join(root, "sub", "d.yaml"), "")
	createFile(t, filepath.Join(root, "e.yml"), "")

	flat, err := input.DiscoverRules(root, input.QueryPatterns, false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.kql"), filepath.Join(root, "b.kql")}, flat)

	deep, err := input.DiscoverRules(root, input.StructuredPatterns, true)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "e.yml"), filepath.Join(root, "sub", "d.yaml")}, deep)

	single, err := input.DiscoverRules(filepath.Join(root, "a.kql"), input.StructuredPatterns, true)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.kql")}, single)
}

func TestDiscoverRulesMissingRoot(t *testing.T) {
	_, err := input.DiscoverRules(filepath.Join(t.TempDir(), "nope"), input.QueryPatterns, false)
	assert.True(t, errors.Is(err, model.ErrInputMissing))

	_, err = input.DiscoverRules(t.TempDir(), []string{"["}, false)
	assert.Error(t, err)
}

func TestLoadRules(t *testing.T) {
	root := t.TempDir()
	good := createFile(t, filepath.Join(root, "edge", "exploit.yml"), "title: x\ntags:\n  - attack.t1190\n  - attack.initial_access\n")
	bad := createFile(t, filepath.Join(root, "broken.yml"), "title: [unclosed\n")
	query := createFile(t, filepath.Join(root, "tunnel.kql"), "// MITRE: T1572 - Protocol Tunneling\n// MITRE: see docs\n")

	var seen []string
	var failures int
	rules := input.LoadRules(root, []string{good, bad, query}, func(path string, err error) {
		seen = append(seen, path)
		if err != nil {
			failures++
		}
	})

	require.Len(t, rules, 3)
	assert.Equal(t, []string{good, bad, query}, seen)
	assert.Equal(t, 1, failures)

	assert.Equal(t, "edge/exploit.yml", rules[0].Name)
	assert.Equal(t, []string{"T1190"}, rules[0].Techniques)
	assert.Empty(t, rules[0].ParseError)

	assert.Equal(t, "broken.yml", rules[1].Name)
	assert.NotEmpty(t, rules[1].ParseError)
	assert.Empty(t, rules[1].Techniques)

	assert.Equal(t, model.FormatQuery, rules[2].Format)
	assert.Equal(t, []string{"T1572", "see docs"}, rules[2].Techniques)
	require.Len(t, rules[2].Suspect, 1)
	assert.Equal(t, 2, rules[2].Suspect[0].Line)
}

func TestLoadRulesNameOutsideRoot(t *testing.T) {
	dir := t.TempDir()
	path := createFile(t, filepath.Join(dir, "r.kql"), "// MITRE: T1040\n")
	rules := input.LoadRules(filepath.Join(dir, "other"), []string{path}, nil)
	require.Len(t, rules, 1)
	assert.Equal(t, "r.kql", rules[0].Name)
}

func TestLoadRuleDocuments(t *testing.T) {
	dir := t.TempDir()
	good := createFile(t, filepath.Join(dir, "a.yml"), "title: x\n")
	empty := createFile(t, filepath.Join(dir, "b.yml"), "")
	bad := createFile(t, filepath.Join(dir, "c.yml"), "- just\n- a list\n")

	docs, failures := input.LoadRuleDocuments([]string{good, empty, bad, filepath.Join(dir, "gone.yml")})
	require.Len(t, docs, 1)
	assert.Equal(t, "x", docs[0].Title())

	require.Len(t, failures, 3)
	for _, f := range failures {
		assert.False(t, f.Valid())
		assert.Contains(t, f.Errors[0], "Unparsable document")
	}
}

func TestMissingMarker(t *testing.T) {
	dir := t.TempDir()
	tagged := createFile(t, filepath.Join(dir, "a.kql"), "// MITRE: T1190\n")
	untagged := createFile(t, filepath.Join(dir, "b.kql"), "SigninLogs | take 10\n")

	assert.Equal(t, []string{"b.kql"}, input.MissingMarker([]string{tagged, untagged}))
	assert.Empty(t, input.MissingMarker([]string{tagged}))
}

func TestLoadReferenceSet(t *testing.T) {
	dir := t.TempDir()

	t.Run("json mapping with total", func(t *testing.T) {
		path := createFile(t, filepath.Join(dir, "attack_mapping.json"),
			`{"techniques": {"t1190": "Exploit Public-Facing Application", "T1572": {"name": "Protocol Tunneling"}}, "total_techniques_covered": 4}`)
		ref, err := input.LoadReferenceSet(path)
		require.NoError(t, err)
		assert.Equal(t, "attack_mapping", ref.Name)
		assert.Equal(t, map[string]string{"T1190": "Exploit Public-Facing Application", "T1572": "Protocol Tunneling"}, ref.Techniques)
		assert.Equal(t, 4, ref.Total)
	})

	t.Run("yaml list", func(t *testing.T) {
		path := createFile(t, filepath.Join(dir, "ref.yml"),
			"name: edge\ntechniques:\n  - id: T1190\n    name: Exploit\n  - technique_id: t1040\n")
		ref, err := input.LoadReferenceSet(path)
		require.NoError(t, err)
		assert.Equal(t, "edge", ref.Name)
		assert.Equal(t, []string{"T1040", "T1190"}, ref.IDs())
		assert.Zero(t, ref.Total)
	})

	t.Run("duplicate after normalization", func(t *testing.T) {
		path := createFile(t, filepath.Join(dir, "dup.yml"), "techniques:\n  - id: T1190\n  - id: ' t1190'\n")
		_, err := input.LoadReferenceSet(path)
		assert.True(t, errors.Is(err, model.ErrConfig))
	})

	t.Run("zero total", func(t *testing.T) {
		path := createFile(t, filepath.Join(dir, "zero.json"), `{"techniques": {"T1190": ""}, "total_techniques_covered": 0}`)
		_, err := input.LoadReferenceSet(path)
		assert.True(t, errors.Is(err, model.ErrConfig))
	})

	t.Run("malformed", func(t *testing.T) {
		path := createFile(t, filepath.Join(dir, "bad.json"), `{"techniques":`)
		_, err := input.LoadReferenceSet(path)
		assert.True(t, errors.Is(err, model.ErrParse))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := input.LoadReferenceSet(filepath.Join(dir, "nope.json"))
		assert.True(t, errors.Is(err, model.ErrInputMissing))
	})
}

func TestLoadInventory(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		path := createFile(t, filepath.Join(dir, "inv.yml"), `devices:
  - hostname: edge-rtr-01
    ip: 203.0.113.1
    vendor: Cisco
    model: ASR 1001-X
    os_version: "17.6.1"
    role: internet-edge
  - hostname: core-sw-01
    vendor: Arista
    role: core
`)
		devices, err := input.LoadInventory(path)
		require.NoError(t, err)
		require.Len(t, devices, 2)
		assert.Equal(t, "edge-rtr-01", devices[0].Hostname)
		assert.Equal(t, "17.6.1", devices[0].OSVersion)
		assert.Equal(t, "", devices[1].Model)
	})

	t.Run("unquoted numeric fields", func(t *testing.T) {
		path := createFile(t, filepath.Join(dir, "numeric.yml"), `devices:
  - hostname: edge-rtr-02
    vendor: Cisco
    model: 4331
    os_version: 17.6
    role: internet-edge
`)
		devices, err := input.LoadInventory(path)
		require.NoError(t, err)
		require.Len(t, devices, 1)
		assert.Equal(t, "17.6", devices[0].OSVersion)
		assert.Equal(t, "4331", devices[0].Model)
	})

	t.Run("numeric fields in json", func(t *testing.T) {
		path := createFile(t, filepath.Join(dir, "numeric.json"), `{"devices": [{"hostname": "vpn-01", "os_version": 22.4, "role": "vpn-gateway"}]}`)
		devices, err := input.LoadInventory(path)
		require.NoError(t, err)
		require.Len(t, devices, 1)
		assert.Equal(t, "22.4", devices[0].OSVersion)
	})

	t.Run("empty document", func(t *testing.T) {
		path := createFile(t, filepath.Join(dir, "empty.yml"), "")
		devices, err := input.LoadInventory(path)
		require.NoError(t, err)
		assert.Empty(t, devices)
	})

	t.Run("missing", func(t *testing.T) {
		path := filepath.Join(dir, "device_inventory.yml")
		_, err := input.LoadInventory(path)
		require.True(t, errors.Is(err, model.ErrInputMissing))
		assert.Contains(t, err.Error(), "Please populate "+path)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := createFile(t, filepath.Join(dir, "bad.yml"), "devices: [\n")
		_, err := input.LoadInventory(path)
		assert.True(t, errors.Is(err, model.ErrParse))
	})

	t.Run("schema mismatch", func(t *testing.T) {
		path := createFile(t, filepath.Join(dir, "shape.yml"), "devices:\n  - ip: 10.0.0.1\n")
		_, err := input.LoadInventory(path)
		require.True(t, errors.Is(err, model.ErrParse))
		assert.Contains(t, err.Error(), "hostname")
	})

	t.Run("blank hostname", func(t *testing.T) {
		path := createFile(t, filepath.Join(dir, "blank.yml"), "devices:\n  - hostname: '  '\n")
		_, err := input.LoadInventory(path)
		require.True(t, errors.Is(err, model.ErrParse))
		assert.Contains(t, err.Error(), "Hostname cannot be empty")
	})
}

func TestLoadCatalog(t *testing.T) {
	vulns, roles, err := input.LoadCatalog("")
	require.NoError(t, err)
	assert.Len(t, vulns, 3)
	assert.Contains(t, roles, "internet-edge")

	dir := t.TempDir()
	path := createFile(t, filepath.Join(dir, "cat.yml"), `vulnerabilities:
  CVE-2025-0001:
    product: Fortinet FortiOS
    severity: high
`)
	vulns, roles, err = input.LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, vulns, 1)
	assert.Equal(t, "Fortinet FortiOS", vulns["CVE-2025-0001"].Product)
	assert.Contains(t, roles, "vpn-gateway")

	bad := createFile(t, filepath.Join(dir, "bad.yml"), "vulnerabilities:\n  CVE-1: {severity: low}\n")
	_, _, err = input.LoadCatalog(bad)
	assert.True(t, errors.Is(err, model.ErrConfig))
}
