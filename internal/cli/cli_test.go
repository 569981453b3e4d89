package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/citrine/internal/logging"
	"github.com/aretw0/citrine/internal/testutils"
	"github.com/aretw0/citrine/pkg/schema"
)

const userSpec = `
id:
  type: integer
  bind_to: user_id
name:
  type: string
role:
  type: symbol
  any_of: [admin, user]
  default: user
`

func TestCheck_Valid(t *testing.T) {
	specPath := testutils.WriteTempFile(t, "user.yaml", userSpec)
	var out bytes.Buffer

	report, err := Check(CheckOptions{SchemaPath: specPath},
		strings.NewReader(`{"id": "7", "name": "ann"}`), &out, logging.NewNop())
	require.NoError(t, err)
	assert.Empty(t, report.Error)
	assert.Equal(t, 7, report.Data["id"])
	assert.Equal(t, schema.Symbol("user"), report.Data["role"])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, map[string]any{"id": float64(7), "name": "ann", "role": "user"}, decoded["data"])
	assert.NotContains(t, decoded, "error")
}

func TestCheck_Convert(t *testing.T) {
	specPath := testutils.WriteTempFile(t, "user.yaml", userSpec)
	dataPath := testutils.WriteTempFile(t, "data.yaml", "id: 7\nname: ann\nrole: admin\n")
	var out bytes.Buffer

	report, err := Check(CheckOptions{SchemaPath: specPath, DataPath: dataPath, Render: true, Pretty: true},
		nil, &out, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 7, report.Data["user_id"])
	assert.NotContains(t, report.Data, "id")
	assert.Contains(t, out.String(), "\n  \"data\": {")
}

func TestCheck_Invalid(t *testing.T) {
	specPath := testutils.WriteTempFile(t, "user.yaml", userSpec)
	var out bytes.Buffer

	report, err := Check(CheckOptions{SchemaPath: specPath},
		strings.NewReader(`{"id": "abc", "name": "ann"}`), &out, logging.NewNop())
	assert.ErrorIs(t, err, ErrInvalidData)
	require.NotNil(t, report)
	assert.Equal(t, "TypeCastingError", report.Code)
	assert.Contains(t, report.Error, "ID")
	assert.Contains(t, out.String(), `"code":"TypeCastingError"`)
}

func TestCheck_Raise(t *testing.T) {
	specPath := testutils.WriteTempFile(t, "user.yaml", userSpec)
	var out bytes.Buffer

	_, err := Check(CheckOptions{SchemaPath: specPath, Raise: true},
		strings.NewReader(`{}`), &out, logging.NewNop())
	assert.ErrorIs(t, err, schema.ErrMissingRequiredAttribute)
	assert.Empty(t, out.String())
}

func TestCheck_EmptyInput(t *testing.T) {
	specPath := testutils.WriteTempFile(t, "opt.json", `{"note": {"required": false}}`)
	var out bytes.Buffer

	report, err := Check(CheckOptions{SchemaPath: specPath, DataPath: "-"},
		strings.NewReader(""), &out, logging.NewNop())
	require.NoError(t, err)
	assert.Empty(t, report.Data)
}

func TestCheck_Formats(t *testing.T) {
	specPath := testutils.WriteTempFile(t, "hex.yaml", "id:\n  type: integer\n")
	var out bytes.Buffer

	base := 16
	report, err := Check(CheckOptions{SchemaPath: specPath, Formats: FormatFlags{IntegerBase: &base}},
		strings.NewReader(`{"id": "ff"}`), &out, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 255, report.Data["id"])
}

func TestCheck_ZeroFormatsAreKept(t *testing.T) {
	specPath := testutils.WriteTempFile(t, "price.yaml", "price:\n  type: decimal\ncode:\n  type: integer\n")

	zero := 0
	report, err := Check(CheckOptions{SchemaPath: specPath, Formats: FormatFlags{DecimalPrecision: &zero, IntegerBase: &zero}},
		strings.NewReader(`{"price": "9.75", "code": "0x1A"}`), &bytes.Buffer{}, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 10.0, report.Data["price"])
	assert.Equal(t, 26, report.Data["code"])

	report, err = Check(CheckOptions{SchemaPath: specPath},
		strings.NewReader(`{"price": "9.756", "code": "12"}`), &bytes.Buffer{}, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 9.76, report.Data["price"])
}

func TestCheck_BadInputs(t *testing.T) {
	specPath := testutils.WriteTempFile(t, "user.yaml", userSpec)

	_, err := Check(CheckOptions{SchemaPath: filepath.Join(t.TempDir(), "missing.yaml")},
		strings.NewReader(`{}`), &bytes.Buffer{}, logging.NewNop())
	assert.Error(t, err)

	_, err = Check(CheckOptions{SchemaPath: specPath},
		strings.NewReader(`[1, 2`), &bytes.Buffer{}, logging.NewNop())
	assert.ErrorContains(t, err, "failed to parse data")

	badSpec := testutils.WriteTempFile(t, "bad.yaml", "id:\n  type: money\n")
	_, err = Check(CheckOptions{SchemaPath: badSpec},
		strings.NewReader(`{}`), &bytes.Buffer{}, logging.NewNop())
	assert.ErrorIs(t, err, schema.ErrInvalidSpec)
}

func TestOpenAPI(t *testing.T) {
	specPath := testutils.WriteTempFile(t, "user.yaml", userSpec)

	var out bytes.Buffer
	require.NoError(t, OpenAPI(OpenAPIOptions{SchemaPath: specPath, Format: "json"}, &out))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "object", doc["type"])
	props := doc["properties"].(map[string]any)
	assert.Contains(t, props, "user_id")
	assert.ElementsMatch(t, []any{"user_id", "name"}, doc["required"])

	out.Reset()
	require.NoError(t, OpenAPI(OpenAPIOptions{SchemaPath: specPath}, &out))
	assert.Contains(t, out.String(), "type: object")
	assert.Contains(t, out.String(), "user_id:")

	assert.Error(t, OpenAPI(OpenAPIOptions{SchemaPath: specPath, Format: "xml"}, &out))
}
