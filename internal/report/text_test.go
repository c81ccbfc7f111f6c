package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderText(t *testing.T) {
	text := RenderText(sampleReport())

	t.Run("carries the headline totals", func(t *testing.T) {
		assert.Contains(t, text, "🍗 炸雞對帳報告")
		assert.Contains(t, text, "對帳期間: 2025-04-29 至 2025-05-12")
		assert.Contains(t, text, "總銷售金額: $2240")
		assert.Contains(t, text, "總銷售數量: 13 份")
		assert.Contains(t, text, "總訂單數: 3 筆")
		assert.Contains(t, text, "平均單價: $172.31")
	})

	t.Run("carries the supplier reconciliation block", func(t *testing.T) {
		assert.Contains(t, text, "🍗 炸雞老闆對帳明細:")
		assert.Contains(t, text, "炸雞老闆應付金額: $1115")
		assert.Contains(t, text, "成本比例: 49.8%")
		assert.Contains(t, text, "利潤: $1125")
	})

	t.Run("lists items and days", func(t *testing.T) {
		assert.Contains(t, text, "雞排: 10 份, $1700")
		assert.Contains(t, text, "雞翅: 3 份, $540")
		assert.Contains(t, text, "2025-04-29: 8 份, $1360")
		assert.Contains(t, text, "2025-04-30: 5 份, $880")
	})

	t.Run("reconciliation figures come before the breakdowns", func(t *testing.T) {
		payable := strings.Index(text, "炸雞老闆應付金額")
		items := strings.Index(text, "各品項銷售摘要:")
		days := strings.Index(text, "每日銷售摘要:")
		require.GreaterOrEqual(t, payable, 0)
		require.Greater(t, items, payable)
		require.Greater(t, days, items)
	})
}

func TestRenderText_EmptyReport(t *testing.T) {
	rep := sampleReport()
	rep.ItemSummaries = nil
	rep.DailySummaries = nil

	text := RenderText(rep)

	assert.NotContains(t, text, "各品項銷售摘要:")
	assert.NotContains(t, text, "每日銷售摘要:")
	assert.False(t, strings.HasSuffix(text, "\n"))
}
