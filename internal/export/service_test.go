package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/po-extractor/constants"
	"github.com/joseph-ayodele/po-extractor/internal/results"
	"github.com/joseph-ayodele/po-extractor/internal/storage"
)

func sampleRecords() []results.Record {
	return []results.Record{
		{
			Key: "4517984961-10", Order: "4517984961", Date: "15.01.2024", To: "Acme, Corp", InvoiceTo: `Globex "MX"`,
			Detail: &results.Detail{ItemNumber: "10", Description: "Consulting", UnitPrice: "5,221.82", Consultant: "Jane Doe", Discount: "5%"},
		},
		{Key: "4517984962", Order: "4517984962", Date: "16.01.2024"},
	}
}

func TestCSV(t *testing.T) {
	body, err := CSV(sampleRecords())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(body, []byte(bom)) {
		t.Fatal("missing BOM")
	}
	rows, err := csv.NewReader(bytes.NewReader(body[len(bom):])).ReadAll()
	if err != nil {
		t.Fatalf("csv not parseable: %v", err)
	}
	if len(rows) != 3 || len(rows[0]) != len(Headers) {
		t.Fatalf("rows = %v", rows)
	}
	first := rows[1]
	if first[0] != "4517984961" || first[2] != "Acme, Corp" || first[3] != `Globex "MX"` || first[4] != "10" {
		t.Errorf("row = %q", first)
	}
	if first[13] != "Jane Doe" || first[18] != "" || first[20] != "5%" {
		t.Errorf("supplementary columns = %q", first[13:])
	}
	if rows[2][0] != "4517984962" || rows[2][4] != "" {
		t.Errorf("item-less row = %q", rows[2])
	}
}

func TestXLSX(t *testing.T) {
	body, err := XLSX(sampleRecords())
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0][5] != "Descripción" || rows[1][2] != "Acme, Corp" {
		t.Errorf("rows = %v", rows)
	}
}

func TestNextBaseNameAvoidsCollisions(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(store, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC) }

	for i, want := range []string{"OC-procesadas-2024-03-05", "OC-procesadas-2024-03-05-1", "OC-procesadas-2024-03-05-2"} {
		base, err := svc.NextBaseName(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if base != want {
			t.Fatalf("call %d: base = %q, want %q", i, base, want)
		}
		name, err := svc.WriteCSV(ctx, base, sampleRecords())
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasSuffix(name, ".csv") {
			t.Errorf("name = %q", name)
		}
	}

	xname, err := svc.WriteXLSX(ctx, "OC-procesadas-2024-03-05", sampleRecords())
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := store.Exists(ctx, constants.Results, xname); !ok {
		t.Errorf("%s not stored", xname)
	}
}
