package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNarrative(t *testing.T) {
	t.Run("plain paragraph", func(t *testing.T) {
		blocks := NormalizeNarrative("Branch counts declined steadily over the period.")
		require.Len(t, blocks, 1)
		assert.Equal(t, BlockParagraph, blocks[0].Kind)
		assert.Equal(t, "Branch counts declined steadily over the period.", blocks[0].PlainText())
	})

	t.Run("numbered list", func(t *testing.T) {
		blocks := NormalizeNarrative("1. Branches declined 12%.\n2. Two banks control the market.\n3. LMI coverage held steady.")
		require.Len(t, blocks, 1)
		assert.Equal(t, BlockNumberedList, blocks[0].Kind)
		require.Len(t, blocks[0].Items, 3)
		assert.Equal(t, "Branches declined 12%.", blocks[0].Items[0])
	})

	t.Run("bullet list with mixed markers", func(t *testing.T) {
		blocks := NormalizeNarrative("• First point\n- Second point\n* Third point")
		require.Len(t, blocks, 1)
		assert.Equal(t, BlockBulletList, blocks[0].Kind)
		assert.Equal(t, []string{"First point", "Second point", "Third point"}, blocks[0].Items)
	})

	t.Run("heading from colon-terminated phrase", func(t *testing.T) {
		blocks := NormalizeNarrative("Market Dynamics:")
		require.Len(t, blocks, 1)
		assert.Equal(t, BlockHeading, blocks[0].Kind)
		assert.Equal(t, "Market Dynamics", blocks[0].Text)
		assert.Equal(t, 3, blocks[0].Level)
	})

	t.Run("long colon line stays a paragraph", func(t *testing.T) {
		long := "This sentence happens to end with a colon but is far too long to plausibly be a section heading in any report, so it must remain prose:"
		blocks := NormalizeNarrative(long)
		require.Len(t, blocks, 1)
		assert.Equal(t, BlockParagraph, blocks[0].Kind)
	})

	t.Run("inline bold spans", func(t *testing.T) {
		blocks := NormalizeNarrative("The market is **highly concentrated** per the index.")
		require.Len(t, blocks, 1)
		b := blocks[0]
		require.Len(t, b.Spans, 3)
		assert.False(t, b.Spans[0].Bold)
		assert.True(t, b.Spans[1].Bold)
		assert.Equal(t, "highly concentrated", b.Spans[1].Text)
		assert.Equal(t, "The market is highly concentrated per the index.", b.PlainText())
	})

	t.Run("fully wrapped bold degrades to plain paragraph", func(t *testing.T) {
		blocks := NormalizeNarrative("**Entire paragraph wrapped in markers**")
		require.Len(t, blocks, 1)
		require.Len(t, blocks[0].Spans, 1)
		assert.False(t, blocks[0].Spans[0].Bold)
		assert.Equal(t, "Entire paragraph wrapped in markers", blocks[0].PlainText())
	})

	t.Run("single asterisk emphasis", func(t *testing.T) {
		blocks := NormalizeNarrative("A *notable* decline.")
		require.Len(t, blocks, 1)
		var bold []string
		for _, s := range blocks[0].Spans {
			if s.Bold {
				bold = append(bold, s.Text)
			}
		}
		assert.Equal(t, []string{"notable"}, bold)
	})

	t.Run("mixed chunk keeps structure", func(t *testing.T) {
		blocks := NormalizeNarrative("The key drivers were:\n• Consolidation\n• Digital banking")
		require.Len(t, blocks, 2)
		assert.Equal(t, BlockHeading, blocks[0].Kind)
		assert.Equal(t, BlockBulletList, blocks[1].Kind)
		assert.Len(t, blocks[1].Items, 2)
	})

	t.Run("multiple chunks", func(t *testing.T) {
		blocks := NormalizeNarrative("First paragraph.\n\nSecond paragraph.")
		require.Len(t, blocks, 2)
		assert.Equal(t, BlockParagraph, blocks[0].Kind)
		assert.Equal(t, BlockParagraph, blocks[1].Kind)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, NormalizeNarrative(""))
		assert.Empty(t, NormalizeNarrative("   \n\n  "))
	})
}
