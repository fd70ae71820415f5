package numerology

// Element is one of the five Wu Xing phases.
type Element string

const (
	ElementWater   Element = "水"
	ElementEarth   Element = "土"
	ElementWood    Element = "木"
	ElementMetal   Element = "金"
	ElementFire    Element = "火"
	ElementUnknown Element = "未知"
)

var elements = map[int]Element{
	1: ElementWater,
	2: ElementEarth,
	3: ElementWood,
	4: ElementWood,
	5: ElementEarth,
	6: ElementMetal,
	7: ElementMetal,
	8: ElementEarth,
	9: ElementFire,
}

var elementNames = map[Element]string{
	ElementWater:   "water",
	ElementEarth:   "earth",
	ElementWood:    "wood",
	ElementMetal:   "metal",
	ElementFire:    "fire",
	ElementUnknown: "unknown",
}

// ElementOf maps n, force-reduced to a single digit, to its element.
// Zero and negative inputs are ElementUnknown.
func ElementOf(n int) Element {
	if e, ok := elements[ReduceForceSingleDigit(n)]; ok {
		return e
	}
	return ElementUnknown
}

// English returns the English element name.
func (e Element) English() string {
	if name, ok := elementNames[e]; ok {
		return name
	}
	return elementNames[ElementUnknown]
}
