package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"lang-visible/internal/chart"
)

// Row 是数据文件中的一行。
type Row struct {
	Name    string `json:"name"`
	Year    int    `json:"year"`
	Quarter int    `json:"quarter"`
	Count   int    `json:"count"`
}

// number 兼容 JSON 数字和字符串形式的数字（如 "2014"），并记录字段是否出现。
type number struct {
	value float64
	set   bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	return n.parse(s)
}

func (n *number) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	n.value = v
	n.set = true
	return nil
}

// rawRow 是解码后、校验前的一行。
type rawRow struct {
	Name    *string `json:"name"`
	Year    number  `json:"year"`
	Quarter number  `json:"quarter"`
	Count   number  `json:"count"`
}

// Load 读取数据文件（.json 或 .csv）并转换为按季度排序的原始记录。
// 默认模式下缺少 count 视为 0，缺少 name、year 或 quarter 的记录被丢弃；
// strict 为 true 时遇到第一个缺失字段即返回 *MissingFieldError。
//
// 返回前每个语言都会补零到 [0, 最新季度] 的每个季度，
// 因此序列数据的下标与横轴下标一致。
func Load(path string, strict bool) ([]chart.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []rawRow
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		rows, err = decodeJSON(f)
	case ".csv":
		rows, err = decodeCSV(f)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q (supported: .json, .csv)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	records, err := toRecords(rows, strict)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return alignToAxis(records), nil
}

func decodeJSON(r io.Reader) ([]rawRow, error) {
	var rows []rawRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func decodeCSV(r io.Reader) ([]rawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	// 列名 -> 下标
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("csv header must contain name, year, quarter, count; got %v", header)
	}

	cell := func(rec []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []rawRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		var row rawRow
		if name := cell(rec, "name"); name != "" {
			row.Name = &name
		}
		for col, n := range map[string]*number{"year": &row.Year, "quarter": &row.Quarter, "count": &row.Count} {
			if err := n.parse(cell(rec, col)); err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, col, err)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// toRecords 校验并转换原始行，结果按季度稳定排序。
func toRecords(rows []rawRow, strict bool) ([]chart.RawRecord, error) {
	records := make([]chart.RawRecord, 0, len(rows))
	for i, row := range rows {
		missing := ""
		switch {
		case row.Name == nil || strings.TrimSpace(*row.Name) == "":
			missing = "name"
		case !row.Year.set:
			missing = "year"
		case !row.Quarter.set:
			missing = "quarter"
		case !row.Count.set && strict:
			missing = "count"
		}
		if missing != "" {
			if strict {
				return nil, &MissingFieldError{Index: i, Field: missing}
			}
			continue
		}

		quarter := int(row.Quarter.value)
		if quarter < 1 || quarter > 4 {
			if strict {
				return nil, fmt.Errorf("record %d: quarter must be 1-4, got %v", i, row.Quarter.value)
			}
			continue
		}

		year := int(row.Year.value)
		idx := chart.QuarterIndex(year, quarter)
		if idx < 0 || year >= chart.AxisEndYear {
			if strict {
				return nil, fmt.Errorf("record %d: %d Q%d is outside the chart axis (%d Q2 - %d Q4)",
					i, year, quarter, chart.EpochYear, chart.AxisEndYear-1)
			}
			continue
		}

		count := 0
		if row.Count.set && row.Count.value > 0 {
			count = int(math.Floor(row.Count.value))
		}

		records = append(records, chart.RawRecord{
			Name:         strings.TrimSpace(*row.Name),
			Count:        count,
			QuarterIndex: idx,
		})
	}

	sortByQuarter(records)
	return records, nil
}

// alignToAxis 为每个语言在 [0, 最新季度] 中没有观测值的季度补一条 count 为 0 的记录。
// records 需已按季度排序。补出的记录排在同季度真实记录之后，
// 并按语言首次出现的顺序排列，所以分组后的序列顺序不变。
func alignToAxis(records []chart.RawRecord) []chart.RawRecord {
	if len(records) == 0 {
		return records
	}
	latest := records[len(records)-1].QuarterIndex

	var names []string
	seen := make(map[string]map[int]struct{})
	for _, r := range records {
		quarters, ok := seen[r.Name]
		if !ok {
			quarters = make(map[int]struct{})
			seen[r.Name] = quarters
			names = append(names, r.Name)
		}
		quarters[r.QuarterIndex] = struct{}{}
	}

	out := records
	for _, name := range names {
		for q := 0; q <= latest; q++ {
			if _, ok := seen[name][q]; !ok {
				out = append(out, chart.RawRecord{Name: name, QuarterIndex: q})
			}
		}
	}
	sortByQuarter(out)
	return out
}

func sortByQuarter(records []chart.RawRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].QuarterIndex < records[j].QuarterIndex
	})
}

// MaxDate 返回记录中最新的季度。没有记录时 ok 为 false。
func MaxDate(records []chart.RawRecord) (year, quarter int, ok bool) {
	if len(records) == 0 {
		return 0, 0, false
	}
	latest := records[0].QuarterIndex
	for _, r := range records[1:] {
		latest = max(latest, r.QuarterIndex)
	}
	year, quarter = chart.QuarterOf(latest)
	return year, quarter, true
}

// FindFile 在 dir 中查找事件对应的数据文件，优先 .json。
func FindFile(dir string, event Event) (string, error) {
	for _, ext := range []string{".json", ".csv"} {
		p := filepath.Join(dir, string(event)+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no dataset for event %q in %s: %w", event, dir, os.ErrNotExist)
}

// Save 将数据行写入 JSON 文件。
// 先写临时文件再 rename，避免读到半写的文件。
func Save(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	if rows == nil {
		rows = []Row{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
