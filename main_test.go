package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/mcncl/jsontocs/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personJSON = `{"name": "John", "age": 30, "active": true, "address": {"city": "Springfield"}}`

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := execute(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRun_GenerateToDefaultDirectory(t *testing.T) {
	input := writeInput(t, "person.json", personJSON)

	_, stderr, err := runCLI(t, "", "generate", input)
	require.NoError(t, err)

	outDir := filepath.Join(filepath.Dir(input), "out")
	assert.Contains(t, stderr, "Generated 2 class(es) in "+outDir)

	person, err := os.ReadFile(filepath.Join(outDir, "Person.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(person), "public class Person\n")
	assert.Contains(t, string(person), "public Address Address { get; }")

	address, err := os.ReadFile(filepath.Join(outDir, "Address.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(address), "public string City { get; }")
}

func TestRun_DefaultCommandToStdout(t *testing.T) {
	input := writeInput(t, "person.json", personJSON)

	stdout, _, err := runCLI(t, "", input, "--output=-")
	require.NoError(t, err)

	personAt := strings.Index(stdout, "public class Person")
	addressAt := strings.Index(stdout, "public class Address")
	require.GreaterOrEqual(t, personAt, 0)
	assert.Greater(t, addressAt, personAt)
}

func TestRun_StdinToStdout(t *testing.T) {
	stdout, _, err := runCLI(t, `{"id": 1}`, "generate", "-n", "order")
	require.NoError(t, err)
	assert.Contains(t, stdout, "public class Order\n")
	assert.Contains(t, stdout, "this.Id = id;")
}

func TestRun_StdinDefaultsToRootType(t *testing.T) {
	stdout, _, err := runCLI(t, `{"id": 1}`, "generate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "public class RootType\n")
}

func TestRun_Flags(t *testing.T) {
	input := writeInput(t, "catalog.json", `{"items": [{"sku": "a"}]}`)

	stdout, _, err := runCLI(t, "", "generate", input, "--output=-", "-s", "Acme.Shop", "-d", "-l", "IReadOnlyList")
	require.NoError(t, err)

	assert.Contains(t, stdout, "namespace Acme.Shop\n{")
	assert.Contains(t, stdout, "[DataContract]")
	assert.Contains(t, stdout, `[DataMember(Name = "items")]`)
	assert.Contains(t, stdout, "IReadOnlyList<Item> items)")
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "jsontocs.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
namespace: "FromConfig"
output:
  indent: 2
  file_header: "generated"
  directory: "`+filepath.ToSlash(filepath.Join(dir, "cs"))+`"
`), 0o644))
	input := writeInput(t, "user.json", `{"id": 1}`)

	_, _, err := runCLI(t, "", "-c", cfgPath, "generate", input)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "cs", "User.cs"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "// generated\n\nnamespace FromConfig\n{\n  public class User\n"))
}

func TestRun_ExplicitDefaultRootName(t *testing.T) {
	input := writeInput(t, "person.json", `{"id": 1}`)

	stdout, _, err := runCLI(t, "", "generate", input, "--output=-", "-n", "RootType")
	require.NoError(t, err)
	assert.Contains(t, stdout, "public class RootType\n")
	assert.NotContains(t, stdout, "public class Person\n")
}

func TestRun_ConfigDebugRaisesLogLevel(t *testing.T) {
	cfgPath := writeInput(t, "jsontocs.yml", "dev:\n  debug: true\n")
	input := writeInput(t, "user.json", `{"id": 1}`)

	_, stderr, err := runCLI(t, "", "--log-level=warn", "-c", cfgPath, "generate", input, "--output=-")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Generated classes")
}

func TestRun_WhitespaceOnlyStdin(t *testing.T) {
	_, _, err := runCLI(t, " \n\t", "generate")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrEmptyInput))
}

func TestRun_InvalidJSON(t *testing.T) {
	input := writeInput(t, "bad.json", `{"a": 1,}`)

	_, _, err := runCLI(t, "", "generate", input, "--output=-")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTrailingComma))
	assert.Contains(t, apperrors.UserFriendlyError(err), "JSON error at 1:9")
}

func TestRun_MissingFile(t *testing.T) {
	_, _, err := runCLI(t, "", "generate", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrFileNotFound))
}

func TestRun_EmptyFile(t *testing.T) {
	_, _, err := runCLI(t, "", "generate", writeInput(t, "empty.json", ""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrFileEmpty))
}

func TestRun_InvalidListType(t *testing.T) {
	input := writeInput(t, "a.json", `{"a": 1}`)

	_, _, err := runCLI(t, "", "generate", input, "-l", "Array")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidOption))
	assert.Contains(t, apperrors.UserFriendlyError(err), "Hint:")
}

func TestRun_Version(t *testing.T) {
	stdout, _, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "jsontocs version "+Version+"\n", stdout)
}

func TestRootName(t *testing.T) {
	tests := []struct {
		input      string
		explicit   string
		configured string
		expected   string
	}{
		{"", "", "RootType", "RootType"},
		{"-", "", "", "RootType"},
		{"data/person.json", "", "RootType", "person"},
		{"data/person.json", "", "Customer", "Customer"},
		{"data/person.json", "RootType", "RootType", "RootType"},
		{"data/person.json", "Order", "Customer", "Order"},
		{"data/.json", "", "", "RootType"},
	}

	for _, tt := range tests {
		t.Run(tt.input+"|"+tt.explicit+"|"+tt.configured, func(t *testing.T) {
			assert.Equal(t, tt.expected, rootName(tt.input, tt.explicit, tt.configured))
		})
	}
}

func TestOutputDir(t *testing.T) {
	assert.Equal(t, "-", outputDir("", ""))
	assert.Equal(t, "-", outputDir("-", ""))
	assert.Equal(t, filepath.Join("data", "out"), outputDir(filepath.Join("data", "person.json"), ""))
	assert.Equal(t, "custom", outputDir("data/person.json", "custom"))
}
