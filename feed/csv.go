package feed

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"bond-arb-go/market"
)

// 行情 CSV 的时间格式，依次尝试。
var csvTimeLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
}

const bookLevels = 5

// LoadDir 读取目录下全部 *.csv 行情文件，合并后按时间戳升序返回快照序列。
// 列布局：time, security, BI_price_1..5, BI_quantity_1..5, OF_price_1..5, OF_quantity_1..5。
func LoadDir(dir string) ([]market.Snapshot, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no csv files found in %s", dir)
	}
	sort.Strings(files)

	var all []market.Snapshot
	for _, f := range files {
		snaps, err := LoadFile(f)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
		all = append(all, snaps...)
	}
	// 稳定排序：同一时间戳保持文件内原始顺序。
	sort.SliceStable(all, func(i, j int) bool { return all[i].Time.Before(all[j].Time) })
	return all, nil
}

// LoadFile 解析单个行情 CSV 文件。
func LoadFile(path string) ([]market.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("empty csv")
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"time", "security"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	snaps := make([]market.Snapshot, 0, len(records)-1)
	for lineNo, row := range records[1:] {
		ts, err := parseTime(field(row, col, "time"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", lineNo+2, err)
		}
		snap := market.Snapshot{
			Security: field(row, col, "security"),
			Time:     ts,
		}
		for i := 1; i <= bookLevels; i++ {
			snap.BidPrices = append(snap.BidPrices, parseFloat(field(row, col, fmt.Sprintf("BI_price_%d", i))))
			snap.BidVolumes = append(snap.BidVolumes, parseFloat(field(row, col, fmt.Sprintf("BI_quantity_%d", i))))
			snap.OfferPrices = append(snap.OfferPrices, parseFloat(field(row, col, fmt.Sprintf("OF_price_%d", i))))
			snap.OfferVolumes = append(snap.OfferVolumes, parseFloat(field(row, col, fmt.Sprintf("OF_quantity_%d", i))))
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

func field(row []string, col map[string]int, name string) string {
	idx, ok := col[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseFloat 将空值/NaN 当作 0；簿替换会过滤非正数量。
func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if v != v { // NaN
		return 0
	}
	return v
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range csvTimeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time %q", s)
}
