package display

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blankFrame(width, height int) string {
	b := strings.Builder{}
	b.WriteString("╔" + strings.Repeat("═", width-2) + "╗\n")
	for i := 0; i < height-2; i++ {
		b.WriteString("║" + strings.Repeat(" ", width-2) + "║\n")
	}
	b.WriteString("╚" + strings.Repeat("═", width-2) + "╝\n")
	return b.String()
}

func TestSimBlankFrame(t *testing.T) {
	t.Parallel()

	d := NewSim(50, 15)
	text, ok := d.Text()
	require.True(t, ok)
	assert.Equal(t, blankFrame(50, 15), text)
}

func TestSimClearIdempotent(t *testing.T) {
	t.Parallel()

	d := NewSim(50, 15)
	require.NoError(t, d.DrawText("Hello World!", 10, 30, White))
	require.NoError(t, d.DrawText("junk", 10, 90, White))
	require.NoError(t, d.Clear())
	text, ok := d.Text()
	require.True(t, ok)
	assert.Equal(t, blankFrame(50, 15), text)
}

func TestSimDrawText(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		text   string
		x, y   int
		expect func(t *testing.T, lines []string)
	}{
		{"cell-mapping", "AB", 10, 30, func(t *testing.T, lines []string) {
			// x=10 -> cell 1 -> column 2 after border
			runes := []rune(lines[1])
			assert.Equal(t, "AB", string(runes[2:4]))
		}},
		{"origin-interior", "Z", 0, 20, func(t *testing.T, lines []string) {
			runes := []rune(lines[1])
			assert.Equal(t, "Z", string(runes[1:2]))
		}},
		{"truncate-right", strings.Repeat("x", 100), 10, 30, func(t *testing.T, lines []string) {
			runes := []rune(lines[1])
			assert.Equal(t, strings.Repeat("x", 7), string(runes[2:9]))
			// border column survives
			assert.Equal(t, "║", string(runes[9]))
		}},
		{"row-beyond-height", "gone", 10, 20 * 40, func(t *testing.T, lines []string) {
			assert.Equal(t, blankFrame(10, 5), strings.Join(lines, "\n")+"\n")
		}},
		{"row-top-border", "gone", 10, 0, func(t *testing.T, lines []string) {
			assert.Equal(t, blankFrame(10, 5), strings.Join(lines, "\n")+"\n")
		}},
		{"col-beyond-width", "gone", 10 * 40, 30, func(t *testing.T, lines []string) {
			assert.Equal(t, blankFrame(10, 5), strings.Join(lines, "\n")+"\n")
		}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			d := NewSim(10, 5)
			require.NoError(t, d.DrawText(c.text, c.x, c.y, White))
			text, ok := d.Text()
			require.True(t, ok)
			lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
			c.expect(t, lines)
		})
	}
}
