package palette

import "math"

// RGBA is one palette color, sRGB encoded.
type RGBA struct {
	R, G, B, A uint8
}

// hsv is a working color in linear space. Hue is degrees in [0, 360).
type hsv struct {
	H, S, V float64
}

func srgbToLinear(c uint8) float64 {
	v := float64(c) / 255
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func linearToSrgb(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	if v <= 0.0031308 {
		v *= 12.92
	} else {
		v = 1.055*math.Pow(v, 1/2.4) - 0.055
	}
	return uint8(math.Round(v * 255))
}

// toHSV linearizes the sRGB color and converts to HSV.
func toHSV(c RGBA) hsv {
	r := srgbToLinear(c.R)
	g := srgbToLinear(c.G)
	b := srgbToLinear(c.B)

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	d := max - min

	var h float64
	switch {
	case d == 0:
		h = 0
	case max == r:
		h = 60 * math.Mod((g-b)/d, 6)
	case max == g:
		h = 60 * ((b-r)/d + 2)
	default:
		h = 60 * ((r-g)/d + 4)
	}
	if h < 0 {
		h += 360
	}

	var s float64
	if max > 0 {
		s = d / max
	}
	return hsv{H: h, S: s, V: max}
}

// fromHSV converts back to an sRGB color with the given alpha.
func fromHSV(c hsv, a uint8) RGBA {
	h := math.Mod(c.H, 360)
	if h < 0 {
		h += 360
	}
	s := clamp01(c.S)
	v := clamp01(c.V)

	chroma := v * s
	x := chroma * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - chroma

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = chroma, x, 0
	case h < 120:
		r, g, b = x, chroma, 0
	case h < 180:
		r, g, b = 0, chroma, x
	case h < 240:
		r, g, b = 0, x, chroma
	case h < 300:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}
	return RGBA{
		R: linearToSrgb(r + m),
		G: linearToSrgb(g + m),
		B: linearToSrgb(b + m),
		A: a,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// darken lowers the value channel by the given fraction.
func darken(c RGBA, amount float64) RGBA {
	h := toHSV(c)
	h.V *= 1 - amount
	return fromHSV(h, c.A)
}

// desaturate lowers the saturation channel by the given fraction.
func desaturate(c RGBA, amount float64) RGBA {
	h := toHSV(c)
	h.S *= 1 - amount
	return fromHSV(h, c.A)
}

// ensureMinValue keeps near-black colors barely visible.
func ensureMinValue(c RGBA, min float64) RGBA {
	h := toHSV(c)
	if h.V >= min {
		return c
	}
	h.V = min
	return fromHSV(h, c.A)
}

// ConsoleColor is a 16-entry terminal color index, used by growth
// prints to describe seasonal appearance.
type ConsoleColor int32

const (
	ConsoleBlack ConsoleColor = iota
	ConsoleBlue
	ConsoleGreen
	ConsoleCyan
	ConsoleRed
	ConsoleMagenta
	ConsoleBrown
	ConsoleGrey
	ConsoleDarkGrey
	ConsoleLightBlue
	ConsoleLightGreen
	ConsoleLightCyan
	ConsoleLightRed
	ConsoleLightMagenta
	ConsoleYellow
	ConsoleWhite
)

var consoleColors = [...]RGBA{
	ConsoleBlack:        {0, 0, 0, 255},
	ConsoleBlue:         {0, 0, 255, 255},
	ConsoleGreen:        {0, 128, 0, 255},
	ConsoleCyan:         {0, 255, 255, 255},
	ConsoleRed:          {255, 0, 0, 255},
	ConsoleMagenta:      {139, 0, 139, 255},
	ConsoleBrown:        {165, 42, 42, 255},
	ConsoleGrey:         {128, 128, 128, 255},
	ConsoleDarkGrey:     {169, 169, 169, 255},
	ConsoleLightBlue:    {173, 216, 230, 255},
	ConsoleLightGreen:   {144, 238, 144, 255},
	ConsoleLightCyan:    {224, 255, 255, 255},
	ConsoleLightRed:     {255, 192, 203, 255},
	ConsoleLightMagenta: {255, 0, 255, 255},
	ConsoleYellow:       {255, 255, 0, 255},
	ConsoleWhite:        {255, 255, 255, 255},
}

// RGB returns the displayed color of the console index. Out-of-range
// indexes fall back to black.
func (c ConsoleColor) RGB() RGBA {
	if c < 0 || int(c) >= len(consoleColors) {
		return consoleColors[ConsoleBlack]
	}
	return consoleColors[c]
}
