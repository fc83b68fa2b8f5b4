package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"lang-visible/internal/chart"
)

// dataSheet 是 xlsx 中存放序列数据的工作表。
const dataSheet = "Data"

// 数据列之前的固定列：Language、Color、Visible。
const leadingColumns = 3

// XLSX 将 cfg 写为 Excel 工作簿：每个系列一行，季度为列，
// 并为可见的系列插入一张原生折线图。
func XLSX(w io.Writer, cfg *chart.Configuration) error {
	if cfg == nil {
		return fmt.Errorf("nil configuration")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return err
	}

	width := 0
	for _, s := range cfg.Series {
		width = max(width, len(s.Data))
	}

	header := []interface{}{"Language", "Color", "Visible"}
	for i := 0; i < width; i++ {
		header = append(header, chart.QuarterLabel(i))
	}
	if err := f.SetSheetRow(dataSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	var series []excelize.ChartSeries
	for i, s := range cfg.Series {
		row := i + 2
		values := []interface{}{s.Name, s.Color, s.Visible}
		for _, v := range s.Data {
			values = append(values, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(dataSheet, cell, &values); err != nil {
			return fmt.Errorf("write %s: %w", s.Name, err)
		}

		if !s.Visible || width == 0 {
			continue
		}
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$A$%d", dataSheet, row),
			Categories: rangeRef(1, width),
			Values:     rangeRef(row, width),
			Fill: excelize.Fill{
				Type:    "pattern",
				Pattern: 1,
				Color:   []string{strings.TrimPrefix(s.Color, "#")},
			},
			Marker: excelize.ChartMarker{Symbol: "none"},
		})
	}

	if len(series) > 0 {
		anchor, err := excelize.CoordinatesToCellName(1, len(cfg.Series)+3)
		if err != nil {
			return err
		}
		if err := f.AddChart(dataSheet, anchor, &excelize.Chart{
			Type:      excelize.Line,
			Series:    series,
			Title:     []excelize.RichTextRun{{Text: cfg.Title}},
			Legend:    excelize.ChartLegend{Position: "bottom"},
			Dimension: excelize.ChartDimension{Width: 960, Height: 480},
		}); err != nil {
			return fmt.Errorf("add chart: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// rangeRef 返回第 row 行全部数据列的绝对引用，如 Data!$D$2:$F$2。
func rangeRef(row, width int) string {
	first, _ := excelize.ColumnNumberToName(leadingColumns + 1)
	last, _ := excelize.ColumnNumberToName(leadingColumns + width)
	return fmt.Sprintf("%s!$%s$%d:$%s$%d", dataSheet, first, row, last, row)
}
