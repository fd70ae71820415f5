package numerology

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElementOf(t *testing.T) {
	cases := map[int]Element{
		1:  ElementWater,
		2:  ElementEarth,
		3:  ElementWood,
		4:  ElementWood,
		5:  ElementEarth,
		6:  ElementMetal,
		7:  ElementMetal,
		8:  ElementEarth,
		9:  ElementFire,
		11: ElementEarth, // force-reduced to 2
		22: ElementWood,  // force-reduced to 4
		0:  ElementUnknown,
		-3: ElementUnknown,
	}
	for n, want := range cases {
		assert.Equal(t, want, ElementOf(n), "ElementOf(%d)", n)
	}
}

func TestElementEnglish(t *testing.T) {
	assert.Equal(t, "fire", ElementFire.English())
	assert.Equal(t, "unknown", ElementUnknown.English())
	assert.Equal(t, "unknown", Element("?").English())
}
