package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	gormlib "gorm.io/gorm"

	"kvadrat-crm/inventory/internal/db"
	"kvadrat-crm/inventory/internal/importer"
	models "kvadrat-crm/inventory/internal/models/gorm"
	"kvadrat-crm/inventory/internal/normalize"
)

// importctl loads spreadsheet exports into the catalog without going through
// the HTTP API. Typical one-shot refresh:
//
//	importctl -complex "ЖК Бахор" -create -chess shaxmatka.xlsx -prices prices.xlsx -registry reestr.xlsx
func main() {
	var (
		complexName = flag.String("complex", "", "residential complex name (required)")
		create      = flag.Bool("create", false, "create the complex if it does not exist")
		chessPath   = flag.String("chess", "", "path to the unit grid .xlsx")
		pricesPath  = flag.String("prices", "", "path to the price grid .xlsx")
		regPath     = flag.String("registry", "", "path to the contract registry .xlsx")
	)
	flag.Parse()

	if *complexName == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *chessPath == "" && *pricesPath == "" && *regPath == "" {
		log.Fatal("nothing to import: pass at least one of -chess, -prices, -registry")
	}
	if err := importer.ValidateAliases(); err != nil {
		log.Fatalf("alias table: %v", err)
	}

	host := os.Getenv("PG_HOST")
	port := os.Getenv("PG_PORT")
	user := os.Getenv("PG_USER")
	dbname := os.Getenv("PG_DB")
	password := os.Getenv("PG_PASSWORD")
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbname)

	orm, err := db.InitPostgresORM(dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}

	cx, err := findOrCreateComplex(orm, *complexName, *create)
	if err != nil {
		log.Fatalf("resolve complex %q: %v", *complexName, err)
	}

	ctx := context.Background()
	imp := importer.New(orm)

	runShape(ctx, imp.ImportChessGrid, cx.ID, *chessPath, "unit grid")
	runShape(ctx, imp.ImportPriceGrid, cx.ID, *pricesPath, "price grid")
	runShape(ctx, imp.ImportContractRegistry, cx.ID, *regPath, "contract registry")
}

func runShape(ctx context.Context, run func(context.Context, string, string) (int, error), complexID, path, label string) {
	if path == "" {
		return
	}
	written, err := run(ctx, complexID, path)
	if err != nil {
		log.Fatalf("import %s from %s: %v", label, path, err)
	}
	fmt.Printf("%s: %d rows imported from %s\n", label, written, path)
}

func findOrCreateComplex(orm *gormlib.DB, name string, create bool) (*models.ResidentialComplex, error) {
	var cx models.ResidentialComplex
	err := orm.Where("name = ?", name).First(&cx).Error
	if err == nil {
		return &cx, nil
	}
	if !errors.Is(err, gormlib.ErrRecordNotFound) {
		return nil, err
	}
	if !create {
		return nil, errors.New("not found (use -create to add it)")
	}

	cx = models.ResidentialComplex{Name: name, Slug: normalize.Slug(name)}
	if err := orm.Create(&cx).Error; err != nil {
		return nil, err
	}
	fmt.Printf("created complex %q (slug %s)\n", name, cx.Slug)
	return &cx, nil
}
