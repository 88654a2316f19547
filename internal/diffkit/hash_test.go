package diffkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentHashSplitsOnFirstColon(t *testing.T) {
	assert.Equal(t, "contenthash", ContentHash("modulehash:contenthash"))
}

func TestContentHashKeepsExternalHashesWhole(t *testing.T) {
	assert.Equal(t, "ext:github.com/foo", ContentHash("ext:github.com/foo"))
}

func TestContentHashWithNoColonReturnsWhole(t *testing.T) {
	assert.Equal(t, "nocolon", ContentHash("nocolon"))
}

func TestContentHashOnlySplitsAtFirstColon(t *testing.T) {
	assert.Equal(t, "b:c", ContentHash("a:b:c"))
}
