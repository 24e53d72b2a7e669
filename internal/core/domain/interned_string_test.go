package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mirror/internal/core/domain"
)

func TestInternedString(t *testing.T) {
	a := domain.NewInternedString("acme/site")
	b := domain.NewInternedString("acme/site")

	assert.Equal(t, a.Value(), b.Value(), "identical fragments share one handle")
	assert.Equal(t, "acme/site", a.String())
	assert.False(t, a.IsZero())

	var zero domain.InternedString
	assert.True(t, zero.IsZero())
	assert.Empty(t, zero.String())
}

func TestInternedString_JSON(t *testing.T) {
	type fragment struct {
		Branch domain.InternedString `json:"branch"`
	}

	data, err := json.Marshal(fragment{Branch: domain.NewInternedString("main")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"branch":"main"}`, string(data))

	var decoded fragment
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, domain.NewInternedString("main").Value(), decoded.Branch.Value())
}

func TestNewInternedStrings(t *testing.T) {
	got := domain.NewInternedStrings([]string{"acme/site", "main", "main"})
	require.Len(t, got, 3)
	assert.Equal(t, "acme/site", got[0].String())
	assert.Equal(t, got[1].Value(), got[2].Value())

	assert.Empty(t, domain.NewInternedStrings(nil))
}
