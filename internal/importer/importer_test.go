package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/logger"

	models "kvadrat-crm/inventory/internal/models/gorm"
)

func newTestDB(t *testing.T) *gormlib.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gormlib.Open(sqlite.Open(dsn), &gormlib.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.ResidentialComplex{},
		&models.ApartmentUnit{},
		&models.ChessboardPriceEntry{},
		&models.ContractRegistryEntry{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestComplex(t *testing.T, db *gormlib.DB) models.ResidentialComplex {
	t.Helper()
	cx := models.ResidentialComplex{Name: "ЖК Бахор", Slug: "жк-бахор"}
	if err := db.Create(&cx).Error; err != nil {
		t.Fatalf("failed to create test complex: %v", err)
	}
	return cx
}

// writeXLSX builds a one-sheet workbook fixture in the test temp dir.
func writeXLSX(t *testing.T, headers []string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("failed to write header row: %v", err)
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to write row %d: %v", i+2, err)
		}
	}

	path := filepath.Join(t.TempDir(), "fixture.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save fixture: %v", err)
	}
	return path
}

var chessHeaders = []string{"Блок", "Тип", "Статус", "Кол-во комнат", "Номер помещения", "Площадь м2", "Этаж"}

func TestImportChessGrid(t *testing.T) {
	db := newTestDB(t)
	cx := newTestComplex(t, db)
	im := New(db)

	path := writeXLSX(t, chessHeaders, [][]interface{}{
		{"Блок А", "кв", "Свободна", "2", "12", "65,5", "2"},
		{"Блок А", "кв", "RESERVED", "3", "13", "80.2", "2"},
		{"Блок Б", "кв", "", "1", "1", "40", "1"},
		{"Блок Б", "кв", "free", "", "", "50", "3"},       // no unit number, skipped
		{"Блок Б", "кв", "free", "1", "7", "50", "подвал"}, // bad floor, skipped
	})

	written, err := im.ImportChessGrid(context.Background(), cx.ID, path)
	if err != nil {
		t.Fatalf("ImportChessGrid returned error: %v", err)
	}
	if written != 3 {
		t.Fatalf("expected 3 units written, got %d", written)
	}

	var units []models.ApartmentUnit
	if err := db.Where("complex_id = ?", cx.ID).Order("unit_number").Find(&units).Error; err != nil {
		t.Fatalf("failed to load units: %v", err)
	}
	byNumber := map[string]models.ApartmentUnit{}
	for _, u := range units {
		byNumber[u.UnitNumber] = u
	}

	if got := byNumber["12"].Status; got != "Свободна" {
		t.Errorf("expected status stored as written, got %q", got)
	}
	if got := byNumber["13"].Status; got != "RESERVED" {
		t.Errorf("expected status stored as written, got %q", got)
	}
	if got := byNumber["1"].Status; got != "" {
		t.Errorf("expected empty status cell to stay empty, got %q", got)
	}
	if byNumber["12"].AreaSqm == nil || *byNumber["12"].AreaSqm != 65.5 {
		t.Errorf("expected comma decimal area 65.5, got %v", byNumber["12"].AreaSqm)
	}
	if byNumber["12"].BlockSlug != byNumber["13"].BlockSlug {
		t.Errorf("same block spelled identically resolved to different slugs: %q vs %q",
			byNumber["12"].BlockSlug, byNumber["13"].BlockSlug)
	}
	if byNumber["12"].RawPayload["Статус"] != "Свободна" {
		t.Errorf("expected raw payload to keep original status text, got %q", byNumber["12"].RawPayload["Статус"])
	}

	// Re-running the same file replaces rather than appends.
	written, err = im.ImportChessGrid(context.Background(), cx.ID, path)
	if err != nil {
		t.Fatalf("second ImportChessGrid returned error: %v", err)
	}
	if written != 3 {
		t.Fatalf("expected 3 units on re-import, got %d", written)
	}
	var count int64
	db.Model(&models.ApartmentUnit{}).Where("complex_id = ?", cx.ID).Count(&count)
	if count != 3 {
		t.Fatalf("expected 3 units in database after re-import, got %d", count)
	}
}

func TestImportChessGridMissingColumns(t *testing.T) {
	db := newTestDB(t)
	cx := newTestComplex(t, db)
	im := New(db)

	path := writeXLSX(t, []string{"Блок", "Статус"}, [][]interface{}{
		{"Блок А", "free"},
	})

	_, err := im.ImportChessGrid(context.Background(), cx.ID, path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Shape != ShapeUnitGrid {
		t.Errorf("expected shape %q, got %q", ShapeUnitGrid, verr.Shape)
	}
	if len(verr.Missing) != 2 {
		t.Errorf("expected unit_number and floor reported missing, got %v", verr.Missing)
	}

	var count int64
	db.Model(&models.ApartmentUnit{}).Count(&count)
	if count != 0 {
		t.Errorf("validation failure must not write rows, found %d", count)
	}
}

func TestImportChessGridHeaderAliases(t *testing.T) {
	db := newTestDB(t)
	cx := newTestComplex(t, db)
	im := New(db)

	// Same grid with alternate header spellings.
	path := writeXLSX(t, []string{"Корпус", "СТАТУС:", "Квартира", "этаж"}, [][]interface{}{
		{"А", "free", "5", "1"},
	})

	written, err := im.ImportChessGrid(context.Background(), cx.ID, path)
	if err != nil {
		t.Fatalf("ImportChessGrid returned error: %v", err)
	}
	if written != 1 {
		t.Fatalf("expected 1 unit written, got %d", written)
	}
}

func TestImportPriceGrid(t *testing.T) {
	db := newTestDB(t)
	cx := newTestComplex(t, db)
	im := New(db)

	path := writeXLSX(t, []string{"Этаж", "Стандарт", "Премиум"}, [][]interface{}{
		{"1", "10 000 000", "12 000 000"},
		{"2", "10500000,50", ""}, // empty premium cell is legal
		{"этаж", "1", "2"},       // unparsable floor, skipped
	})

	written, err := im.ImportPriceGrid(context.Background(), cx.ID, path)
	if err != nil {
		t.Fatalf("ImportPriceGrid returned error: %v", err)
	}
	if written != 3 {
		t.Fatalf("expected 3 price entries, got %d", written)
	}

	var entries []models.ChessboardPriceEntry
	if err := db.Where("complex_id = ?", cx.ID).Find(&entries).Error; err != nil {
		t.Fatalf("failed to load price entries: %v", err)
	}
	for _, e := range entries {
		switch e.CategoryKey {
		case "Стандарт":
			if e.OrderIndex != 0 {
				t.Errorf("expected Стандарт at order index 0, got %d", e.OrderIndex)
			}
			if e.Floor == 2 && e.PricePerSqm != 10500000.50 {
				t.Errorf("expected comma decimal price 10500000.50, got %v", e.PricePerSqm)
			}
		case "Премиум":
			if e.OrderIndex != 1 {
				t.Errorf("expected Премиум at order index 1, got %d", e.OrderIndex)
			}
			if e.Floor == 2 {
				t.Errorf("empty cell must not produce an entry")
			}
		default:
			t.Errorf("unexpected category %q", e.CategoryKey)
		}
	}
}

var registryHeaders = []string{
	"№ договора", "Дата договора", "Блок", "Этаж", "Кв.", "ФИО", "Общ стоимость договора", "Менеджер",
}

func TestImportContractRegistry(t *testing.T) {
	db := newTestDB(t)
	cx := newTestComplex(t, db)
	im := New(db)

	path := writeXLSX(t, registryHeaders, [][]interface{}{
		{"Д-101", "15.03.2024", "Блок А", "2", "12", "Иванов И.И.", "650 000 000", "Зал 1"},
		{"Д-101", "16.03.2024", "Блок А", "2", "13", "Петров П.П.", "700 000 000", "Зал 2"}, // duplicate, first wins
		{"Д-102", "", "Блок А", "3", "14", "Сидоров С.С.", "", ""},                          // no date, dated at import
		{"Д-103", "2024-04-01", "Блок Б", "1", "1", "Каримов К.К.", "400000000", ""},
		{"", "01.05.2024", "Блок Б", "1", "2", "Без Номера", "", ""}, // no contract number, skipped
	})

	written, err := im.ImportContractRegistry(context.Background(), cx.ID, path)
	if err != nil {
		t.Fatalf("ImportContractRegistry returned error: %v", err)
	}
	if written != 3 {
		t.Fatalf("expected 3 entries written, got %d", written)
	}

	var entries []models.ContractRegistryEntry
	if err := db.Where("complex_id = ?", cx.ID).Order("contract_number").Find(&entries).Error; err != nil {
		t.Fatalf("failed to load entries: %v", err)
	}
	first := entries[0]
	if first.ContractNumber != "Д-101" || first.BuyerFullName != "Иванов И.И." {
		t.Errorf("duplicate contract number must keep the first row, got buyer %q", first.BuyerFullName)
	}
	if first.TotalPrice == nil || *first.TotalPrice != 650000000 {
		t.Errorf("expected grouped-digits total price 650000000, got %v", first.TotalPrice)
	}
	if first.ExtraData["Менеджер"] != "Зал 1" {
		t.Errorf("unmapped column must land in extra_data, got %v", first.ExtraData)
	}

	dateless := entries[1]
	if dateless.ContractNumber != "Д-102" {
		t.Fatalf("expected the dateless row to survive, got %q", dateless.ContractNumber)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if dateless.ContractDate.IsZero() || dateless.ContractDate.Before(today) {
		t.Errorf("expected the dateless row dated at import time, got %v", dateless.ContractDate)
	}
}

func TestContractLinkageSurvivesImportOrder(t *testing.T) {
	chessRows := [][]interface{}{
		{"Блок А", "кв", "reserved", "2", "12", "65,5", "2"},
	}
	registryRows := [][]interface{}{
		{"Д-101", "15.03.2024", "Блок_А", "2", "12", "Иванов И.И.", "650000000", ""},
		{"Д-104", "15.03.2024", "Блок В", "9", "99", "Нет Т.Т.", "1", ""}, // no matching unit
	}

	run := func(t *testing.T, chessFirst bool) {
		db := newTestDB(t)
		cx := newTestComplex(t, db)
		im := New(db)
		ctx := context.Background()

		chessPath := writeXLSX(t, chessHeaders, chessRows)
		registryPath := writeXLSX(t, registryHeaders, registryRows)

		if chessFirst {
			if _, err := im.ImportChessGrid(ctx, cx.ID, chessPath); err != nil {
				t.Fatalf("chess import failed: %v", err)
			}
			if _, err := im.ImportContractRegistry(ctx, cx.ID, registryPath); err != nil {
				t.Fatalf("registry import failed: %v", err)
			}
		} else {
			if _, err := im.ImportContractRegistry(ctx, cx.ID, registryPath); err != nil {
				t.Fatalf("registry import failed: %v", err)
			}
			if _, err := im.ImportChessGrid(ctx, cx.ID, chessPath); err != nil {
				t.Fatalf("chess import failed: %v", err)
			}
		}

		var unit models.ApartmentUnit
		if err := db.Where("complex_id = ?", cx.ID).First(&unit).Error; err != nil {
			t.Fatalf("failed to load unit: %v", err)
		}
		var linked models.ContractRegistryEntry
		if err := db.Where("contract_number = ?", "Д-101").First(&linked).Error; err != nil {
			t.Fatalf("failed to load entry: %v", err)
		}
		if linked.ApartmentID == nil || *linked.ApartmentID != unit.ID {
			t.Errorf("expected Д-101 linked to unit %s, got %v", unit.ID, linked.ApartmentID)
		}

		var unlinked models.ContractRegistryEntry
		if err := db.Where("contract_number = ?", "Д-104").First(&unlinked).Error; err != nil {
			t.Fatalf("failed to load entry: %v", err)
		}
		if unlinked.ApartmentID != nil {
			t.Errorf("entry without a matching unit must stay unlinked, got %v", *unlinked.ApartmentID)
		}
	}

	t.Run("chess then registry", func(t *testing.T) { run(t, true) })
	t.Run("registry then chess", func(t *testing.T) { run(t, false) })
}

func TestValidateAliases(t *testing.T) {
	if err := ValidateAliases(); err != nil {
		t.Fatalf("alias table failed validation: %v", err)
	}
}
