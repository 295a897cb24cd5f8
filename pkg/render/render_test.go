package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pytutor/pytutor-terminal/pkg/models"
)

const twoBlocks = "First:\n\n```python\na = 1\n```\n\nThen `b`:\n\n```js\nlet b = 2\n```\n"

func TestPlainRenderLabelsEachBlock(t *testing.T) {
	r, err := NewRenderer(models.ThemeLight, 60, WithPlain())
	require.NoError(t, err)

	out := r.Render(Parse(twoBlocks, "python"), 0, nil)
	assert.Contains(t, out, "python  [1] Copy")
	assert.Contains(t, out, "js  [2] Copy")
	assert.Contains(t, out, "a = 1")
	assert.Contains(t, out, "let b = 2")
	assert.Contains(t, out, "Then `b`:")
	assert.NotContains(t, out, LabelCopied)
}

func TestRenderCopiedLabelIsPerBlock(t *testing.T) {
	r, err := NewRenderer(models.ThemeDark, 60, WithPlain())
	require.NoError(t, err)

	copied := func(n int) bool { return n == 1 }
	out := r.Render(Parse(twoBlocks, "python"), 0, copied)
	assert.Contains(t, out, "python  [1] Copy ---")
	assert.Contains(t, out, "js  [2] Copied!")
}

func TestRenderOffsetNumbersBlocks(t *testing.T) {
	r, err := NewRenderer(models.ThemeLight, 60, WithPlain())
	require.NoError(t, err)

	out := r.Render(Parse("```\nx\n```", "python"), 3, func(n int) bool { return n == 3 })
	assert.Contains(t, out, "python  [4] Copied!")
}

func TestStyledRender(t *testing.T) {
	for _, theme := range []models.Theme{models.ThemeLight, models.ThemeDark} {
		t.Run(string(theme), func(t *testing.T) {
			r, err := NewRenderer(theme, 80)
			require.NoError(t, err)
			assert.Equal(t, theme, r.Theme())

			out := r.RenderMarkdown("## Hint\n\nCheck `x`.\n\n```python\nprint(x)\n```", "python")
			assert.Contains(t, out, "[1] Copy")
			assert.Contains(t, out, "Hint")
		})
	}
}

func TestNewRendererClampsWidth(t *testing.T) {
	r, err := NewRenderer(models.ThemeLight, 5, WithPlain())
	require.NoError(t, err)
	assert.Equal(t, minCodeWidth, r.Width())
}

func TestHighlightKeepsCode(t *testing.T) {
	out := Highlight("print(1)", "python", models.ThemeLight)
	assert.Contains(t, out, "print")
	assert.False(t, strings.HasSuffix(out, "\n"))

	// Unknown language still produces the text
	out = Highlight("just words", "no-such-lang", models.ThemeDark)
	assert.Contains(t, out, "words")
}

func stubClipboard(t *testing.T, err error) *[]string {
	t.Helper()
	var written []string
	original := clipboardWrite
	clipboardWrite = func(s string) error {
		if err != nil {
			return err
		}
		written = append(written, s)
		return nil
	}
	t.Cleanup(func() { clipboardWrite = original })
	return &written
}

func TestCopyTrackerIndependentBlocks(t *testing.T) {
	written := stubClipboard(t, nil)
	c := NewCopyTracker()
	c.Duration = time.Millisecond

	cmd0, err := c.Copy(0, "a = 1")
	require.NoError(t, err)
	cmd1, err := c.Copy(1, "let b = 2")
	require.NoError(t, err)

	assert.Equal(t, []string{"a = 1", "let b = 2"}, *written)
	assert.True(t, c.Copied(0))
	assert.True(t, c.Copied(1))

	c.Expire(cmd0().(CopyExpiredMsg))
	assert.False(t, c.Copied(0))
	assert.True(t, c.Copied(1), "expiring one block leaves the other alone")

	c.Expire(cmd1().(CopyExpiredMsg))
	assert.False(t, c.Copied(1))
}

func TestCopyTrackerRecopyExtendsLabel(t *testing.T) {
	stubClipboard(t, nil)
	c := NewCopyTracker()
	c.Duration = time.Millisecond

	first, err := c.Copy(0, "x")
	require.NoError(t, err)
	_, err = c.Copy(0, "x")
	require.NoError(t, err)

	// The first revert is stale once the block was copied again
	c.Expire(first().(CopyExpiredMsg))
	assert.True(t, c.Copied(0))
}

func TestCopyTrackerClipboardError(t *testing.T) {
	stubClipboard(t, errors.New("no clipboard utility"))
	c := NewCopyTracker()

	cmd, err := c.Copy(0, "x")
	assert.Nil(t, cmd)
	assert.ErrorContains(t, err, "no clipboard utility")
	assert.False(t, c.Copied(0))
}

func TestCopyTrackerReset(t *testing.T) {
	stubClipboard(t, nil)
	c := NewCopyTracker()
	_, err := c.Copy(2, "x")
	require.NoError(t, err)

	c.Reset()
	assert.False(t, c.Copied(2))
	assert.Equal(t, DefaultCopiedDuration, 2*time.Second)
}
