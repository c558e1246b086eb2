package ghg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/esgdesk/pkg/config"
	"github.com/esgdesk/pkg/database"
	"github.com/esgdesk/pkg/errors"
	"github.com/esgdesk/services/esgdd/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    bool
}

func (m *memStore) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	if m.fail {
		return "", fmt.Errorf("bucket unavailable")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[name] = data
	return "mem://" + name, nil
}

func (m *memStore) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[name]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func newService(t *testing.T, store *memStore) *Service {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{Driver: "sqlite", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.GhgEntry{}))
	if store == nil {
		return NewService(NewRepository(db), nil, nil)
	}
	return NewService(NewRepository(db), store, nil)
}

func ptr(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func TestSaveComputesEmissions(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	entry, err := svc.Save(ctx, "tpl-1", &EntryInput{
		Category: "purchased-goods-services", Period: "2026-01", Activity: "Steel",
		Quantity: ptr("2"), Unit: "t", EmissionFactor: ptr("1.85"),
	})
	require.NoError(t, err)
	assert.Equal(t, "kg", entry.BaseUnit)
	assert.True(t, entry.NormalizedQuantity.Equal(decimal.NewFromInt(2000)))
	assert.True(t, entry.Emissions.Equal(decimal.NewFromInt(3700)))
	assert.Equal(t, model.SourceManual, entry.Source)

	updated, err := svc.Save(ctx, "tpl-1", &EntryInput{
		ID: entry.ID, Category: "purchased-goods-services", Period: "2026-01", Activity: "Steel",
		Quantity: ptr("3"), Unit: "t", EmissionFactor: ptr("1.85"),
	})
	require.NoError(t, err)
	assert.Equal(t, entry.ID, updated.ID)
	assert.True(t, updated.Emissions.Equal(decimal.NewFromInt(5550)))

	_, err = svc.Save(ctx, "tpl-other", &EntryInput{
		ID: entry.ID, Category: "purchased-goods-services", Period: "2026-01",
		Quantity: ptr("3"), Unit: "t", EmissionFactor: ptr("1"),
	})
	assert.Equal(t, 404, errors.GetCode(err))
}

func TestSaveValidation(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()
	valid := func() EntryInput {
		return EntryInput{Category: "business-travel", Period: "2026-02", Quantity: ptr("1"), Unit: "km", EmissionFactor: ptr("0.1")}
	}

	cases := map[string]func(*EntryInput){
		"category": func(in *EntryInput) { in.Category = "travel" },
		"period":   func(in *EntryInput) { in.Period = "2026-2" },
		"quantity": func(in *EntryInput) { in.Quantity = nil },
		"negative": func(in *EntryInput) { in.Quantity = ptr("-1") },
		"unit":     func(in *EntryInput) { in.Unit = "parsec" },
		"factor":   func(in *EntryInput) { in.EmissionFactor = nil },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := valid()
			mutate(&in)
			_, err := svc.Save(ctx, "tpl", &in)
			assert.Equal(t, 422, errors.GetCode(err))
		})
	}

	in := valid()
	_, err := svc.Save(ctx, " ", &in)
	assert.Equal(t, 422, errors.GetCode(err))
}

func TestCollectIsAllOrNothing(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	_, err := svc.Collect(ctx, &CollectRequest{TemplateID: "tpl", Entries: []EntryInput{
		{Category: "business-travel", Period: "2026-01", Quantity: ptr("100"), Unit: "km", EmissionFactor: ptr("0.2")},
		{Category: "business-travel", Period: "bad", Quantity: ptr("100"), Unit: "km", EmissionFactor: ptr("0.2")},
	}})
	require.Error(t, err)
	assert.Equal(t, 422, errors.GetCode(err))
	assert.Contains(t, errors.GetMessage(err), "第 2 条")

	c, err := svc.List(ctx, "tpl", nil)
	require.NoError(t, err)
	assert.Empty(t, c.Entries)

	saved, err := svc.Collect(ctx, &CollectRequest{TemplateID: "tpl", Entries: []EntryInput{
		{Category: "business-travel", Period: "2026-01", Quantity: ptr("100"), Unit: "km", EmissionFactor: ptr("0.2")},
		{Category: "employee-commuting", Period: "2026-01", Quantity: ptr("50"), Unit: "km", EmissionFactor: ptr("0.1")},
		{Category: "business-travel", Period: "2026-02", Quantity: ptr("1"), Unit: "mi", EmissionFactor: ptr("1")},
	}})
	require.NoError(t, err)
	assert.Len(t, saved, 3)

	c, err = svc.List(ctx, "tpl", nil)
	require.NoError(t, err)
	require.Len(t, c.Totals, 2)
	assert.Equal(t, "2026-01", c.Totals[0].Period)
	assert.Equal(t, 2, c.Totals[0].Entries)
	assert.True(t, c.Totals[0].Emissions.Equal(decimal.NewFromInt(25)))
	assert.True(t, c.Totals[1].Emissions.Equal(decimal.RequireFromString("1.609344")))
	assert.True(t, c.Total.Equal(decimal.RequireFromString("26.609344")))

	c, err = svc.List(ctx, "tpl", &ListQuery{Period: "2026-01", Category: "employee-commuting"})
	require.NoError(t, err)
	assert.Len(t, c.Entries, 1)

	_, err = svc.List(ctx, "tpl", &ListQuery{Period: "January"})
	assert.Equal(t, 422, errors.GetCode(err))
}

func TestImportArchivesAndReportsRows(t *testing.T) {
	store := &memStore{}
	svc := newService(t, store)
	ctx := context.Background()

	data := workbook(t, [][]interface{}{
		{"Category", "Period", "Activity", "Quantity", "Unit", "Emission Factor"},
		{"waste-generated", "2026-04", "Landfill", "2", "t", "0.45"},
		{"waste-generated", "2026-04", "Incineration", "500", "kg", "0.9"},
		{"not-a-category", "2026-04", "?", "1", "kg", "1"},
		{"waste-generated", "2026-04", "Compost", "x", "kg", "1"},
	})

	result, err := svc.Import(ctx, "tpl-imp", "waste.xlsx", data)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 4, result.Errors[0].Row)
	assert.Equal(t, 5, result.Errors[1].Row)
	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, "mem://ghg-imports/tpl-imp/"+result.BatchID+".xlsx", result.Archive)
	assert.Equal(t, data, store.objects["ghg-imports/tpl-imp/"+result.BatchID+".xlsx"])

	c, err := svc.List(ctx, "tpl-imp", nil)
	require.NoError(t, err)
	require.Len(t, c.Entries, 2)
	for _, e := range c.Entries {
		assert.Equal(t, model.SourceImport, e.Source)
		assert.Equal(t, result.BatchID, e.BatchID)
	}
	assert.True(t, c.Total.Equal(decimal.NewFromInt(1350)))

	exported, err := svc.Export(ctx, "tpl-imp", nil)
	require.NoError(t, err)
	rows, rowErrs, err := ParseWorkbook(bytes.NewReader(exported))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	assert.Len(t, rows, 2)
}

func TestImportArchiveFailureDoesNotFailImport(t *testing.T) {
	svc := newService(t, &memStore{fail: true})
	data := workbook(t, [][]interface{}{
		{"Category", "Period", "Quantity", "Unit", "Factor"},
		{"franchises", "2026-05", "10", "kWh", "0.7"},
	})
	result, err := svc.Import(context.Background(), "tpl", "f.xlsx", data)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Empty(t, result.Archive)
}

func TestImportRejectsBadWorkbook(t *testing.T) {
	svc := newService(t, nil)
	_, err := svc.Import(context.Background(), "tpl", "f.xlsx", []byte("garbage"))
	assert.Equal(t, 422, errors.GetCode(err))
}
