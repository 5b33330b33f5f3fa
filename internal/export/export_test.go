package export

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"subtracker/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func testSnapshot() core.Snapshot {
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	cat := core.Category{ID: uuid.New(), Name: "视频流媒体", Color: "#E53935"}
	return core.Snapshot{
		Subscriptions: []core.Subscription{
			{
				ID: uuid.New(), Name: "Netflix", Provider: "Netflix Inc", CategoryID: cat.ID,
				Cost: decimal.RequireFromString("29.99"), Currency: core.CNY, BillingCycle: core.Monthly,
				StartDate: core.NewDate(2024, 10, 1), ExpiryDate: core.NewDate(2025, 2, 13),
			},
			{
				ID: uuid.New(), Name: "GitHub",
				Cost: decimal.RequireFromString("120"), Currency: core.USD, BillingCycle: core.Yearly,
				StartDate: core.NewDate(2024, 10, 1), ExpiryDate: core.NewDate(2025, 2, 28),
			},
		},
		Categories: []core.Category{cat},
		Settings:   core.DefaultSettings(),
		Now:        now,
	}
}

func TestRenderExpiringTable(t *testing.T) {
	var buf bytes.Buffer
	RenderExpiringTable(&buf, testSnapshot(), 30)
	out := buf.String()

	if !strings.Contains(out, "Found 2 of 2 subscriptions expiring within 30 days") {
		t.Errorf("missing summary line: %s", out)
	}
	for _, want := range []string{"Netflix", "GitHub", "2025-02-13", "2025-02-28", "29.99", "10.00", "Total"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	// Soonest expiry renders first.
	if strings.Index(out, "Netflix") > strings.Index(out, "GitHub") {
		t.Error("rows not sorted by expiry date")
	}
}

func TestRenderTrendTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTrendTable(&buf, testSnapshot(), 3)
	out := buf.String()

	for _, want := range []string{"2024-12", "2025-01", "2025-02"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := WriteWorkbook(path, testSnapshot(), 3); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetSubscriptions)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("subscription rows = %d, want header + 2", len(rows))
	}
	if rows[1][0] != "Netflix" || rows[1][2] != "视频流媒体" {
		t.Errorf("first row = %v", rows[1])
	}
	// Yearly 120 amortizes to 10.00 a month.
	if rows[2][6] != "10.00" {
		t.Errorf("GitHub monthly = %q, want 10.00", rows[2][6])
	}

	trend, err := f.GetRows(sheetTrend)
	if err != nil {
		t.Fatalf("GetRows trend: %v", err)
	}
	if len(trend) != 4 {
		t.Fatalf("trend rows = %d, want header + 3", len(trend))
	}
	if trend[3][0] != "2025-02" {
		t.Errorf("last trend month = %q", trend[3][0])
	}
}
