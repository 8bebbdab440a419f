package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLineItemsSingleEntry(t *testing.T) {
	raw := "项目名称 规格型号 单位 数量 单价 金额 税率 税额\n" +
		"*办公设备*打印机 台 2 50.00 100.00 13% 13.00\n" +
		"合 计 ¥100.00 ¥6.00"

	items := ExtractLineItems(raw)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "打印机", item.Name)
	assert.Equal(t, "台", item.Unit)
	assert.Equal(t, 2.0, item.Quantity)
	assert.Equal(t, 50.00, item.UnitPrice)
	assert.Equal(t, 100.00, item.Amount)
	assert.Equal(t, "13%", item.TaxRate)
	assert.Equal(t, 13.00, item.TaxAmount)
}

func TestExtractLineItemsTwoNumbersDefaultsUnitPrice(t *testing.T) {
	// Quantity and amount only; unit price falls back to zero.
	raw := "项目名称\n*咨询服务 次 1 500.00 6% 30.00\n合 计"

	items := ExtractLineItems(raw)
	require.Len(t, items, 1)
	assert.Equal(t, "咨询服务", items[0].Name)
	assert.Equal(t, 1.0, items[0].Quantity)
	assert.Equal(t, 0.0, items[0].UnitPrice)
	assert.Equal(t, 500.00, items[0].Amount)
}

func TestExtractLineItemsTrailingPriceOverride(t *testing.T) {
	// A unit price trailing the name wins over the derived one.
	raw := "项目名称\n*电脑配件*内存条 128.00 条 4 512.00 13% 66.56\n合 计"

	items := ExtractLineItems(raw)
	require.Len(t, items, 1)
	assert.Equal(t, "内存条", items[0].Name)
	assert.Equal(t, 128.00, items[0].UnitPrice)
	assert.Equal(t, 4.0, items[0].Quantity)
	assert.Equal(t, 512.00, items[0].Amount)
}

func TestExtractLineItemsWrappedEntry(t *testing.T) {
	// An entry broken across lines is flattened before parsing.
	raw := "项目名称\n" +
		"*信息技术服务*软件开发\n" +
		"服务费 项 1 10000.00 6% 600.00\n" +
		"合 计"

	items := ExtractLineItems(raw)
	require.Len(t, items, 1)
	assert.Equal(t, "软件开发 服务费", items[0].Name)
	assert.Equal(t, 1.0, items[0].Quantity)
	assert.Equal(t, 10000.00, items[0].Amount)
}

func TestExtractLineItemsMalformedDropped(t *testing.T) {
	raw := "项目名称\n" +
		"*打印机 台 2 50.00 100.00 13% 13.00\n" +
		"*没有数字的行\n" +
		"*纸张 包 abc 20.00 13% 2.60\n" +
		"合 计"

	items := ExtractLineItems(raw)
	require.Len(t, items, 1)
	assert.Equal(t, "打印机", items[0].Name)
}

func TestExtractLineItemsNoBlock(t *testing.T) {
	assert.Empty(t, ExtractLineItems("发票号码：14403200011100000001"))
	assert.Empty(t, ExtractLineItems(""))
}

func TestExtractLineItemsMultipleEntries(t *testing.T) {
	raw := "项目名称\n" +
		"*办公用品*签字笔 支 10 2.00 20.00 13% 2.60\n" +
		"*办公用品*笔记本 本 5 8.00 40.00 13% 5.20\n" +
		"合 计 ¥60.00 ¥7.80"

	items := ExtractLineItems(raw)
	require.Len(t, items, 2)
	assert.Equal(t, "签字笔", items[0].Name)
	assert.Equal(t, "笔记本", items[1].Name)
	assert.Equal(t, 40.00, items[1].Amount)
}
