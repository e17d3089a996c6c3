package palette

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var hexRe = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestSequenceIsDarkAndDeterministic(t *testing.T) {
	a, b := Sequence(42), Sequence(42)
	for i := 0; i < 200; i++ {
		ca, cb := a(), b()
		assert.Equal(t, ca, cb)
		assert.Regexp(t, hexRe, ca)
		assert.True(t, IsDark(ca), ca)
	}
}

func TestSequenceSeedsDiffer(t *testing.T) {
	a, b := Sequence(1), Sequence(2)
	same := 0
	for i := 0; i < 20; i++ {
		if a() == b() {
			same++
		}
	}
	assert.Less(t, same, 20)
}

func TestIsDark(t *testing.T) {
	assert.True(t, IsDark("#000000"))
	assert.True(t, IsDark("#123456"))
	assert.False(t, IsDark("#ffffff"))
	assert.False(t, IsDark("not a colour"))
}
