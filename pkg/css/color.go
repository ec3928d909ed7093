package css

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// RGBA is a color with channels in [0, 1], not premultiplied.
type RGBA struct {
	R, G, B, A float64
}

var (
	Transparent = RGBA{}
	Black       = RGBA{0, 0, 0, 1}
	White       = RGBA{1, 1, 1, 1}
)

// RGBA implements color.Color.
func (c RGBA) RGBA() (r, g, b, a uint32) {
	a = uint32(clamp01(c.A) * 0xffff)
	r = uint32(clamp01(c.R) * clamp01(c.A) * 0xffff)
	g = uint32(clamp01(c.G) * clamp01(c.A) * 0xffff)
	b = uint32(clamp01(c.B) * clamp01(c.A) * 0xffff)
	return
}

// IsTransparent reports whether the alpha channel is zero.
func (c RGBA) IsTransparent() bool { return c.A <= 0 }

func (c RGBA) String() string {
	return "rgba(" +
		strconv.Itoa(int(math.Round(c.R*255))) + ", " +
		strconv.Itoa(int(math.Round(c.G*255))) + ", " +
		strconv.Itoa(int(math.Round(c.B*255))) + ", " +
		strconv.FormatFloat(c.A, 'g', 3, 64) + ")"
}

// ParseColor parses a CSS color. Supported forms are #rgb, #rgba, #rrggbb,
// #rrggbbaa, rgb(), rgba(), hsl(), hsla(), cmyk(), named colors and the
// keywords transparent, none, initial and unset (all transparent).
// "inherit" is not handled here; see ResolveColor.
func ParseColor(value string) (RGBA, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "":
		return Transparent, false
	case "transparent", "none", "initial", "unset":
		return Transparent, true
	}

	if strings.HasPrefix(v, "#") {
		return parseHexColor(v[1:])
	}

	if open := strings.IndexByte(v, '('); open > 0 && strings.HasSuffix(v, ")") {
		fn := strings.TrimSpace(v[:open])
		args := splitColorArgs(v[open+1 : len(v)-1])
		switch fn {
		case "rgb", "rgba":
			return parseRGBFunc(args)
		case "hsl", "hsla":
			return parseHSLFunc(args)
		case "cmyk":
			return parseCMYKFunc(args)
		}
		return Transparent, false
	}

	if c, ok := colornames.Map[v]; ok {
		return RGBA{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255}, true
	}
	return Transparent, false
}

// ResolveColor parses value, substituting inherited for "inherit" and
// Transparent for anything unparseable.
func ResolveColor(value string, inherited RGBA) RGBA {
	if strings.EqualFold(strings.TrimSpace(value), "inherit") {
		return inherited
	}
	c, _ := ParseColor(value)
	return c
}

func parseHexColor(hex string) (RGBA, bool) {
	for _, ch := range hex {
		if !strings.ContainsRune("0123456789abcdef", ch) {
			return Transparent, false
		}
	}
	nibble := func(i int) float64 {
		n, _ := strconv.ParseUint(hex[i:i+1], 16, 8)
		return float64(n*17) / 255
	}
	byteAt := func(i int) float64 {
		n, _ := strconv.ParseUint(hex[i:i+2], 16, 8)
		return float64(n) / 255
	}
	switch len(hex) {
	case 3:
		return RGBA{nibble(0), nibble(1), nibble(2), 1}, true
	case 4:
		return RGBA{nibble(0), nibble(1), nibble(2), nibble(3)}, true
	case 6:
		return RGBA{byteAt(0), byteAt(2), byteAt(4), 1}, true
	case 8:
		return RGBA{byteAt(0), byteAt(2), byteAt(4), byteAt(6)}, true
	}
	return Transparent, false
}

// splitColorArgs accepts both "1, 2, 3" and "1 2 3 / 0.5".
func splitColorArgs(s string) []string {
	s = strings.ReplaceAll(s, "/", " ")
	s = strings.ReplaceAll(s, ",", " ")
	return strings.Fields(s)
}

// channel parses an rgb channel: a number in [0, 255] or a percentage.
func channel(s string) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		return clamp01(f / 100), err == nil
	}
	f, err := strconv.ParseFloat(s, 64)
	return clamp01(f / 255), err == nil
}

// fraction parses an alpha or cmyk component: a number in [0, 1] or a
// percentage.
func fraction(s string) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		return clamp01(f / 100), err == nil
	}
	f, err := strconv.ParseFloat(s, 64)
	return clamp01(f), err == nil
}

func parseRGBFunc(args []string) (RGBA, bool) {
	if len(args) != 3 && len(args) != 4 {
		return Transparent, false
	}
	var c RGBA
	var ok1, ok2, ok3 bool
	c.R, ok1 = channel(args[0])
	c.G, ok2 = channel(args[1])
	c.B, ok3 = channel(args[2])
	c.A = 1
	if len(args) == 4 {
		var ok bool
		if c.A, ok = fraction(args[3]); !ok {
			return Transparent, false
		}
	}
	return c, ok1 && ok2 && ok3
}

func parseHSLFunc(args []string) (RGBA, bool) {
	if len(args) != 3 && len(args) != 4 {
		return Transparent, false
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return Transparent, false
	}
	s, ok1 := fraction(args[1])
	l, ok2 := fraction(args[2])
	if !ok1 || !ok2 || !strings.HasSuffix(args[1], "%") || !strings.HasSuffix(args[2], "%") {
		return Transparent, false
	}
	a := 1.0
	if len(args) == 4 {
		var ok bool
		if a, ok = fraction(args[3]); !ok {
			return Transparent, false
		}
	}
	r, g, b := hslToRGB(h, s, l)
	return RGBA{r, g, b, a}, true
}

func hslToRGB(h, s, l float64) (float64, float64, float64) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

func parseCMYKFunc(args []string) (RGBA, bool) {
	if len(args) != 4 && len(args) != 5 {
		return Transparent, false
	}
	var v [4]float64
	for i := 0; i < 4; i++ {
		f, ok := fraction(args[i])
		if !ok {
			return Transparent, false
		}
		v[i] = f
	}
	a := 1.0
	if len(args) == 5 {
		var ok bool
		if a, ok = fraction(args[4]); !ok {
			return Transparent, false
		}
	}
	k := v[3]
	return RGBA{(1 - v[0]) * (1 - k), (1 - v[1]) * (1 - k), (1 - v[2]) * (1 - k), a}, true
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
