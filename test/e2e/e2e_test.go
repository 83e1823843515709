package e2e_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mcncl/jsontocs/internal/analyzer"
	apperrors "github.com/mcncl/jsontocs/internal/errors"
	"github.com/mcncl/jsontocs/internal/formatter"
	"github.com/mcncl/jsontocs/internal/generator"
	"github.com/mcncl/jsontocs/internal/output"
	"github.com/mcncl/jsontocs/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateFile runs the full pipeline from a JSON file to a directory of .cs files.
func generateFile(t testing.TB, input, root, outDir string, opts generator.Options) *analyzer.Registry {
	src, err := source.Open(input)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	reg, err := analyzer.Create(root, src, opts)
	require.NoError(t, err)

	_, err = output.NewWriter(formatter.NewFormatter(formatter.DefaultOptions())).WriteDir(outDir, reg)
	require.NoError(t, err)
	return reg
}

// TestEndToEnd_ComplexNestedStructures tests the pipeline with complex nested JSON structures
func TestEndToEnd_ComplexNestedStructures(t *testing.T) {
	tempDir := t.TempDir()

	jsonContent := `{
		"id": 12345,
		"uuid": "550e8400-e29b-41d4-a716-446655440000",
		"created_at": "2023-05-20T14:56:23Z",
		"config": {
			"enabled": true,
			"timeout_seconds": 30,
			"features": ["logging", "metrics", "alerting"],
			"rate_limits": {
				"per_second": 100,
				"burst": 150
			}
		},
		"users": [
			{
				"id": 1,
				"name": "Alice",
				"roles": ["admin", "user"],
				"metadata": {
					"last_login": "2023-05-19T10:30:00Z",
					"login_count": 42
				}
			},
			{
				"id": 2,
				"name": "Bob"
			}
		],
		"revisions": {
			"1": {"author": "alice", "at": "2023-05-01"},
			"2": {"author": "bob", "at": "2023-05-02"}
		}
	}`

	inputFile := filepath.Join(tempDir, "complex.json")
	require.NoError(t, os.WriteFile(inputFile, []byte(jsonContent), 0o644))

	outDir := filepath.Join(tempDir, "out")
	reg := generateFile(t, inputFile, "Service", outDir, generator.Options{Namespace: "Acme", DeclareDataMember: true})

	assert.Equal(t, []string{"Service", "Config", "RateLimits", "User", "Metadata", "Revision"}, reg.Names())

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, len(reg.Names()))

	service, err := os.ReadFile(filepath.Join(outDir, "Service.cs"))
	require.NoError(t, err)
	code := string(service)

	assert.Contains(t, code, "using System;\nusing System.Collections.Generic;\nusing System.Runtime.Serialization;\n")
	assert.Contains(t, code, "DateTime created_at,")
	assert.Contains(t, code, "string uuid,")
	assert.Contains(t, code, "IEnumerable<User> users,")
	assert.Contains(t, code, "IReadOnlyDictionary<int, Revision> revisions)")
	assert.Contains(t, code, `[DataMember(Name = "created_at")]`)

	user, err := os.ReadFile(filepath.Join(outDir, "User.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(user), "IEnumerable<string> roles,")
	assert.Contains(t, string(user), "Metadata metadata)")
}

// TestEndToEnd_SampleFile runs the bundled sample through the pipeline.
func TestEndToEnd_SampleFile(t *testing.T) {
	input := filepath.Join("..", "..", "testdata", "samples", "order.json")

	reg := generateFile(t, input, "Order", t.TempDir(), generator.DefaultOptions())

	assert.Equal(t, []string{"Order", "Customer", "Address", "Item", "Shipment"}, reg.Names())
	order := reg.Source("Order")
	assert.Contains(t, order, "DateTime placed_at,")
	assert.Contains(t, order, "IReadOnlyDictionary<int, Shipment> shipments,")
	assert.Contains(t, order, "IEnumerable<object> notes)")
	assert.Contains(t, reg.Source("Shipment"), "DateTime shipped_on)")
}

// TestEndToEnd_HeterogeneousArrays checks that only the first element shapes the type
func TestEndToEnd_HeterogeneousArrays(t *testing.T) {
	jsonContent := `{"mixed": [1, "two", {"three": 3}, [4]], "records": [{"a": 1}, {"b": "x"}]}`

	reg, err := analyzer.Create("Root", source.NewString(jsonContent), generator.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"Root", "Record"}, reg.Names())
	assert.Contains(t, reg.Source("Root"), "IEnumerable<int> mixed,")
	assert.Contains(t, reg.Source("Record"), "int a)")
}

// generateLargeJSON generates a large JSON file with the specified number of items
func generateLargeJSON(t testing.TB, filePath string, itemCount int) {
	// Seed random for reproducible results
	rng := rand.New(rand.NewSource(42))

	items := make([]map[string]interface{}, itemCount)
	for i := 0; i < itemCount; i++ {
		items[i] = map[string]interface{}{
			"id":          i + 1,
			"guid":        fmt.Sprintf("%x-%x-%x", rng.Uint32(), rng.Uint32()&0xffff, rng.Uint32()),
			"name":        fmt.Sprintf("Item %d", i+1),
			"description": fmt.Sprintf("This is item number %d in the test dataset", i+1),
			"created_at":  time.Now().Add(-time.Duration(rng.Intn(10000)) * time.Hour).Format(time.RFC3339),
			"price":       float64(rng.Intn(100000))/100 + 0.001,
			"quantity":    rng.Intn(100),
			"active":      rng.Intn(2) == 1,
			"tags":        []string{"tag1", "tag2", "tag3"}[0 : rng.Intn(3)+1],
			"metadata": map[string]interface{}{
				"source":      "test",
				"priority":    rng.Intn(5) + 1,
				"processed":   rng.Intn(2) == 1,
				"retry_count": rng.Intn(5),
			},
		}
	}

	jsonData, err := json.MarshalIndent(map[string]interface{}{"items": items}, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filePath, jsonData, 0o644))
}

// TestEndToEnd_LargeFile streams a large file through the reader source
func TestEndToEnd_LargeFile(t *testing.T) {
	tempDir := t.TempDir()
	jsonFile := filepath.Join(tempDir, "large.json")
	generateLargeJSON(t, jsonFile, 2000)

	reg := generateFile(t, jsonFile, "Catalog", filepath.Join(tempDir, "out"), generator.DefaultOptions())

	assert.Equal(t, []string{"Catalog", "Item", "Metadata"}, reg.Names())
	item := reg.Source("Item")
	assert.Contains(t, item, "public bool Active { get; }")
	assert.Contains(t, item, "public DateTime CreatedAt { get; }")
	assert.Contains(t, item, "public double Price { get; }")
	assert.Contains(t, item, "public IEnumerable<string> Tags { get; }")
}

// TestEndToEnd_EdgeCases tests various edge cases
func TestEndToEnd_EdgeCases(t *testing.T) {
	testCases := []struct {
		name     string
		json     string
		expected string
		sentinel error
	}{
		{name: "EmptyObject", json: `{}`, sentinel: apperrors.ErrEmptyRecord},
		{name: "RootArray", json: `[]`, sentinel: apperrors.ErrExpectedObject},
		{name: "SingleValue", json: `"just a string"`, sentinel: apperrors.ErrExpectedObject},
		{name: "SingleNull", json: `null`, sentinel: apperrors.ErrUnknownIdentifier},
		{name: "InvalidJSON", json: `{"name": "Invalid JSON",}`, sentinel: apperrors.ErrTrailingComma},
		{name: "KeyedRoot", json: `{"1": {"a": 1}}`, sentinel: apperrors.ErrKeyedRoot},
		{
			name:     "DeeplyNestedObject",
			json:     `{"level1":{"level2":{"level3":{"level4":{"level5":{"value":42}}}}}}`,
			expected: "public class Level5",
		},
		{
			name:     "DeeplyNestedArray",
			json:     `{"matrix": [[[[[[42]]]]]]}`,
			expected: "IEnumerable<IEnumerable<IEnumerable<IEnumerable<IEnumerable<IEnumerable<int>>>>>> matrix)",
		},
		{
			name:     "UnicodeKeys",
			json:     `{"café": "x", "naïve_value": 1}`,
			expected: "public int NaïveValue { get; }",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reg, err := analyzer.Create("RootType", source.NewReader(strings.NewReader(tc.json)), generator.DefaultOptions())
			if tc.sentinel != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.sentinel), "got %v", err)
				return
			}
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, output.NewWriter(nil).WriteStream(&buf, reg))
			assert.Contains(t, buf.String(), tc.expected)
		})
	}
}
