package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenRandomID(t *testing.T) {
	a := GenRandomID()
	b := GenRandomID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestGenUserPassword(t *testing.T) {
	hash := GenUserPassword("salt1", "geheim")
	assert.NotEmpty(t, hash)
	assert.Equal(t, hash, GenUserPassword("salt1", "geheim"))
	assert.NotEqual(t, hash, GenUserPassword("salt2", "geheim"))
	assert.NotEqual(t, hash, GenUserPassword("salt1", "anders"))
}

func TestParseAcceptLanguage(t *testing.T) {
	res := ParseAcceptLanguage("de-DE,de;q=0.9,en-US;q=0.8,en;q=0.7")
	assert.Equal(t, "de-DE", res[0].Tag)
	assert.Len(t, res, 4)

	assert.Empty(t, ParseAcceptLanguage(""))
}
