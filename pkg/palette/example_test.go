package palette_test

import (
	"fmt"

	"github.com/chordial/chordial/pkg/palette"
)

func ExampleDefault() {
	colors := palette.Default()

	// Wheel colors by index
	fmt.Println(colors(0, "Apps"))
	fmt.Println(colors(1, "Services"))
	// Output:
	// #4e79a7
	// #f28e2b
}

func ExampleParseHex() {
	c, err := palette.ParseHex("#ff8800")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(c.R, c.G, c.B, c.A)
	// Output:
	// 255 136 0 255
}

func ExampleDarken() {
	fmt.Println(palette.Darken("#808080", 0.5))
	// Output:
	// #404040
}

func ExampleWithAlpha() {
	// rgba() form for SVG fill attributes
	fmt.Println(palette.WithAlpha("#4e79a7", 0.7))
	// Output:
	// rgba(78,121,167,0.7)
}
