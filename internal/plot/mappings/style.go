package mappings

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

type RuntimeStyle struct {
	Color string
	Label string
}

var RuntimeStyles = map[string]RuntimeStyle{
	"bare":          {Color: "#6c757d", Label: "Bare Metal"},
	"docker":        {Color: "#0db7ed", Label: "Docker"},
	"podman":        {Color: "#892ca0", Label: "Podman"},
	"dind":          {Color: "#0a8ab5", Label: "Docker-in-Docker"},
	"podman-nested": {Color: "#6b1f80", Label: "Podman-in-Podman"},
}

const FallbackColor = "#aaa"

// Dark theme shared by every chart.
const (
	FigureBackground = "#1a1a2e"
	AxesBackground   = "#16213e"
	SpineColor       = "#333"
	TextColor        = "#ffffff"
	ZeroLineColor    = "#666"
)

func GetRuntimeStyle(runtime string) RuntimeStyle {
	if style, ok := RuntimeStyles[runtime]; ok {
		return style
	}
	return RuntimeStyle{Color: FallbackColor, Label: runtime}
}

func Label(runtime string) string {
	return GetRuntimeStyle(runtime).Label
}

func Color(runtime string) string {
	return GetRuntimeStyle(runtime).Color
}

// WrapLabel breaks a long display label onto two lines: labels with a space
// split at the first space, hyphenated ids split at the hyphen when that
// yields exactly two parts. Everything else is returned unchanged.
func WrapLabel(runtime string) string {
	label := Label(runtime)
	if !strings.Contains(runtime, "-") && !strings.Contains(label, " ") {
		return label
	}
	var parts []string
	if strings.Contains(label, "-") {
		parts = strings.Split(label, "-")
	} else {
		parts = strings.SplitN(label, " ", 2)
	}
	if len(parts) == 2 {
		return strings.Join(parts, "\n")
	}
	return label
}

// ParseHex accepts #rgb and #rrggbb.
func ParseHex(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// MustParseHex is for the constant palette above.
func MustParseHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// TikzColorName returns a pgf color name for a hex color, e.g. "c0db7ed".
func TikzColorName(hex string) string {
	c := MustParseHex(hex)
	return fmt.Sprintf("c%02x%02x%02x", c.R, c.G, c.B)
}

// TikzHex returns the uppercase RRGGBB form used by \definecolor{..}{HTML}{..}.
func TikzHex(hex string) string {
	c := MustParseHex(hex)
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}
