package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanSliceCoverage(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"hello element", `div { text { Hello } }`},
		{"local style", `div { style { .card { color: red; } } text { hi } }`},
		{"local script with chtljs", `div { script { {{.x}}.listen { click: fn } } }`},
		{"global style block", `style { body { margin: 0; } }`},
		{"nested elements", `div { span { text { a } } p { text { b } } }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slices, diags := Scan("test.chtl", tt.src)
			for _, d := range diags {
				t.Fatalf("unexpected diagnostic: %v", d)
			}
			var rebuilt strings.Builder
			for _, sl := range slices {
				rebuilt.WriteString(sl.Content)
			}
			require.Equal(t, tt.src, rebuilt.String(), "slice coverage invariant violated")
		})
	}
}

func TestScanClassifiesStyleAndScript(t *testing.T) {
	src := `div { style { .card { color: red; } } script { {{.x}}.listen { click: fn } } }`
	slices, diags := Scan("test.chtl", src)
	require.Empty(t, diags)

	var kinds []SliceKind
	for _, sl := range slices {
		if strings.TrimSpace(sl.Content) == "" {
			continue
		}
		kinds = append(kinds, sl.Kind)
	}

	require.Contains(t, kinds, CSS)
	require.Contains(t, kinds, CHTLJS)
	require.Contains(t, kinds, JS)
}

func TestScanUnbalancedBraces(t *testing.T) {
	_, diags := Scan("test.chtl", `div { style { .card { color: red; } }`)
	require.NotEmpty(t, diags)
}

func TestIsCHTLJSPattern(t *testing.T) {
	require.True(t, IsCHTLJSPattern("{{.box}}.listen"))
	require.True(t, IsCHTLJSPattern("listen { click: fn }"))
	require.True(t, IsCHTLJSPattern("Box<Open> { }"))
	require.False(t, IsCHTLJSPattern("console.log('hi')"))
}
