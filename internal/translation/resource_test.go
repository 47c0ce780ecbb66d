package translation

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "rrss/pkg/domain-errors"
	"rrss/pkg/identifier"
)

func TestNewResourceMeta(t *testing.T) {
	loc := FSLocation{Path: "en-US/common.json"}

	valid := []string{"en", "en-US", "zh-Hans-CN", "pt-BR", "fr"}
	for _, lng := range valid {
		t.Run("valid "+lng, func(t *testing.T) {
			m, err := NewResourceMeta(lng, "valid_namespace", loc)
			require.NoError(t, err)
			assert.Equal(t, identifier.Identifier("valid_namespace"), m.Namespace)
		})
	}

	invalid := []string{"", "english language", "en_US_", "-en"}
	for _, lng := range invalid {
		t.Run("invalid "+lng, func(t *testing.T) {
			_, err := NewResourceMeta(lng, "valid_namespace", loc)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}

	t.Run("invalid namespace", func(t *testing.T) {
		_, err := NewResourceMeta("en-US", "Common", loc)
		require.ErrorIs(t, err, identifier.ErrInvalid)
		assert.Contains(t, err.Error(), "namespace")
	})

	t.Run("nil location", func(t *testing.T) {
		_, err := NewResourceMeta("en-US", "common", nil)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("same key for equivalent tags", func(t *testing.T) {
		a, err := NewResourceMeta("en-us", "common", loc)
		require.NoError(t, err)
		b, err := NewResourceMeta("en-US", "common", FSLocation{Path: "elsewhere"})
		require.NoError(t, err)
		assert.Equal(t, a.key(), b.key())
		assert.Equal(t, "en-US:common", a.key().String())
	})
}

func TestFSLocation(t *testing.T) {
	fsys := fstest.MapFS{"en-US/common.json": {Data: []byte(`{"a":"b"}`)}}
	loc := FSLocation{FS: fsys, Path: "en-US/common.json"}

	data, err := loc.Read(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"b"}`, string(data))
	assert.Equal(t, "fs:en-US/common.json", loc.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = loc.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestText(t *testing.T) {
	txt, err := NewText("common", "greeting")
	require.NoError(t, err)
	assert.True(t, txt.Translate)

	lit := txt.Literal()
	assert.False(t, lit.Translate)
	assert.True(t, txt.Translate, "Literal must not modify the receiver")

	_, err = NewText("common", "Greeting")
	require.ErrorIs(t, err, identifier.ErrInvalid)
	assert.Contains(t, err.Error(), "key")

	_, err = NewText("", "greeting")
	require.ErrorIs(t, err, identifier.ErrInvalid)
	assert.Contains(t, err.Error(), "namespace")
}
