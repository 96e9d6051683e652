package avatar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashImage_Deterministic(t *testing.T) {
	data := []byte("same image bytes")
	assert.Equal(t, HashImage(data), HashImage(data))
}

func TestHashImage_DiffersOnContent(t *testing.T) {
	assert.NotEqual(t, HashImage([]byte("a")), HashImage([]byte("b")))
}

func TestHashImage_KnownVector(t *testing.T) {
	// SHA-256 of the empty input.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		HashImage(nil))
}
