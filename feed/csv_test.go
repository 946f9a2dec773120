package feed

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const csvHeader = "time,security,BI_price_1,BI_quantity_1,BI_price_2,BI_quantity_2,OF_price_1,OF_quantity_1,OF_price_2,OF_quantity_2"

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
}

func TestLoadFileParsesLevels(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "al30.csv", csvHeader+"\n"+
		"2023-05-12 11:00:00.123456,AL30-0002-C-CT-ARS,995,100,990,50,1000,80,1005,20\n")

	snaps, err := LoadFile(filepath.Join(dir, "al30.csv"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot got %d", len(snaps))
	}
	snap := snaps[0]
	if snap.Security != "AL30-0002-C-CT-ARS" {
		t.Fatalf("unexpected security %q", snap.Security)
	}
	want := time.Date(2023, 5, 12, 11, 0, 0, 123456000, time.UTC)
	if !snap.Time.Equal(want) {
		t.Fatalf("unexpected time %v want %v", snap.Time, want)
	}
	// 缺失的 3-5 档按 0 填充，由簿替换过滤
	if len(snap.BidPrices) != 5 || snap.BidPrices[0] != 995 || snap.BidPrices[1] != 990 {
		t.Fatalf("unexpected bid prices %v", snap.BidPrices)
	}
	if snap.OfferPrices[0] != 1000 || snap.OfferVolumes[0] != 80 {
		t.Fatalf("unexpected offers %v %v", snap.OfferPrices, snap.OfferVolumes)
	}
	if snap.BidPrices[4] != 0 || snap.BidVolumes[4] != 0 {
		t.Fatalf("missing levels must parse as zero")
	}
}

func TestLoadFileTreatsEmptyAndNaNAsZero(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "gaps.csv", csvHeader+"\n"+
		"2023-05-12 11:00:01,GD30-0002-C-CT-ARS,1195,100,,NaN,1200,80,,\n")

	snaps, err := LoadFile(filepath.Join(dir, "gaps.csv"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	snap := snaps[0]
	if snap.BidPrices[1] != 0 || snap.BidVolumes[1] != 0 {
		t.Fatalf("empty/NaN cells must map to zero: %v %v", snap.BidPrices, snap.BidVolumes)
	}
}

func TestLoadFileRejectsBadTime(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "bad.csv", csvHeader+"\n"+
		"not-a-time,AL30-0002-C-CT-ARS,995,100,,,1000,80,,\n")
	if _, err := LoadFile(filepath.Join(dir, "bad.csv")); err == nil {
		t.Fatalf("expected time parse error")
	}
}

func TestLoadDirMergesChronologically(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "b_later.csv", csvHeader+"\n"+
		"2023-05-12 11:00:02,AL30-0002-C-CT-ARS,995,100,,,1000,80,,\n")
	writeCSV(t, dir, "a_earlier.csv", csvHeader+"\n"+
		"2023-05-12 11:00:03,GD30-0002-C-CT-ARS,1195,100,,,1200,80,,\n"+
		"2023-05-12 11:00:01,GD30D-0002-C-CT-USD,55,100,,,56,80,,\n")

	snaps, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("expected 3 snapshots got %d", len(snaps))
	}
	for i := 1; i < len(snaps); i++ {
		if snaps[i].Time.Before(snaps[i-1].Time) {
			t.Fatalf("snapshots out of order at %d: %v after %v", i, snaps[i].Time, snaps[i-1].Time)
		}
	}
	if snaps[0].Security != "GD30D-0002-C-CT-USD" {
		t.Fatalf("unexpected first snapshot %q", snaps[0].Security)
	}
}

func TestLoadDirFailsOnEmptyDir(t *testing.T) {
	if _, err := LoadDir(t.TempDir()); err == nil {
		t.Fatalf("expected error for directory without csv files")
	}
}
