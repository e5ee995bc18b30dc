package document_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/genqa/pkg/document"
)

func TestDecode_Scalars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		check func(t *testing.T, n *document.Node)
	}{
		{
			name:  "string",
			input: `"hello"`,
			check: func(t *testing.T, n *document.Node) {
				assert.Equal(t, document.KindString, n.Kind)
				assert.Equal(t, "hello", n.Str)
			},
		},
		{
			name:  "integer",
			input: `42`,
			check: func(t *testing.T, n *document.Node) {
				v, ok := n.Int()
				require.True(t, ok)
				assert.Equal(t, int64(42), v)
			},
		},
		{
			name:  "float is not an integer",
			input: `42.0`,
			check: func(t *testing.T, n *document.Node) {
				_, ok := n.Int()
				assert.False(t, ok)
				f, ok := n.Float()
				require.True(t, ok)
				assert.InDelta(t, 42.0, f, 1e-9)
			},
		},
		{
			name:  "bool",
			input: `true`,
			check: func(t *testing.T, n *document.Node) {
				assert.Equal(t, document.KindBool, n.Kind)
				assert.True(t, n.Bool)
			},
		},
		{
			name:  "null",
			input: `null`,
			check: func(t *testing.T, n *document.Node) {
				assert.Equal(t, document.KindNull, n.Kind)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			n, err := document.Decode(strings.NewReader(tt.input))
			require.NoError(t, err)
			tt.check(t, n)
		})
	}
}

func TestDecode_ObjectPreservesKeyOrder(t *testing.T) {
	t.Parallel()

	n, err := document.Decode(strings.NewReader(`{"z":1,"a":2,"m":3}`))
	require.NoError(t, err)
	require.Equal(t, document.KindObject, n.Kind)

	var keys []string
	for _, f := range n.Fields {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"z", "a", "m"}, keys)
}

func TestDecode_Nested(t *testing.T) {
	t.Parallel()

	input := `{
		"attempt": 3,
		"round": null,
		"errorMsg": {"errorType": "Compile", "errorMessage": ["a", "b"]},
		"records": [1, {"x": true}, "s"]
	}`

	n, err := document.Decode(strings.NewReader(input))
	require.NoError(t, err)

	v, ok := n.Get("attempt").Int()
	require.True(t, ok)
	assert.Equal(t, int64(3), v)

	assert.Equal(t, document.KindNull, n.Get("round").Kind)
	assert.True(t, n.Has("round"))
	assert.False(t, n.Has("missing"))

	em := n.Get("errorMsg")
	require.NotNil(t, em)
	assert.Equal(t, "Compile", em.Get("errorType").Str)
	assert.Equal(t, []string{"a", "b"}, em.Get("errorMessage").Strings())

	recs := n.Get("records")
	require.Equal(t, document.KindArray, recs.Kind)
	require.Len(t, recs.Items, 3)
	assert.Equal(t, document.KindBool, recs.Items[1].Get("x").Kind)
}

func TestDecode_DeepNestingDoesNotRecurse(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	const depth = 200000
	for range depth {
		sb.WriteString(`{"d":`)
	}
	sb.WriteString(`1`)
	for range depth {
		sb.WriteString(`}`)
	}

	n, err := document.Decode(strings.NewReader(sb.String()))
	require.NoError(t, err)
	assert.Equal(t, document.KindObject, n.Kind)
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ``},
		{"truncated object", `{"a":`},
		{"bare garbage", `}{`},
		{"two top-level values", `{} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := document.Decode(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "records.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"attempt":1}`), 0644))

	n, err := document.Load(path)
	require.NoError(t, err)
	v, ok := n.Get("attempt").Int()
	require.True(t, ok)
	assert.Equal(t, int64(1), v)
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, err := document.Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestStrings_Shapes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"x"}, document.String("x").Strings())
	assert.Equal(t, []string{"a", "b"},
		document.Array(document.String("a"), document.Int(1), document.String("b")).Strings())
	assert.Nil(t, document.Int(5).Strings())
	assert.Nil(t, (*document.Node)(nil).Strings())
}

func TestGet_NonObject(t *testing.T) {
	t.Parallel()

	assert.Nil(t, document.String("s").Get("k"))
	assert.Nil(t, (*document.Node)(nil).Get("k"))
}
