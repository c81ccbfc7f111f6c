// Command settle runs one settlement from the command line: fetch the sales
// sheet (or a local CSV export), build the report for a date range, print
// the reconciliation text and optionally write the Excel workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/givingwi/chicken-settlement/internal/catalog"
	"github.com/givingwi/chicken-settlement/internal/config"
	"github.com/givingwi/chicken-settlement/internal/models"
	"github.com/givingwi/chicken-settlement/internal/report"
	"github.com/givingwi/chicken-settlement/internal/settlement"
	"github.com/givingwi/chicken-settlement/internal/sheets"
	"github.com/givingwi/chicken-settlement/pkg/database"
	"github.com/givingwi/chicken-settlement/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	start := flag.String("start", "", "settlement start date (YYYY-MM-DD)")
	end := flag.String("end", "", "settlement end date (YYYY-MM-DD)")
	csvPath := flag.String("csv", "", "read sales rows from a local CSV file instead of the sheet")
	excel := flag.Bool("excel", false, "also write the Excel workbook to the report output directory")
	flag.Parse()

	if *start == "" || *end == "" {
		fmt.Fprintln(os.Stderr, "usage: settle -start YYYY-MM-DD -end YYYY-MM-DD [-csv file] [-excel]")
		os.Exit(2)
	}

	_ = gotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: "stderr",
		Format:     "console",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	rep, err := runSettlement(cfg, logger, *start, *end, *csvPath)
	if err != nil {
		logger.Fatal("Settlement failed", zap.Error(err))
	}

	fmt.Println(rep.TextSummary)

	if *excel {
		renderer := report.NewExcelRenderer(cfg.Report.OutputDir, logger)
		path, err := renderer.Render(rep, "")
		if err != nil {
			logger.Fatal("Failed to write Excel report", zap.Error(err))
		}
		fmt.Fprintf(os.Stderr, "Excel report: %s\n", path)
	}
}

func runSettlement(cfg *config.Config, logger *zap.Logger, start, end, csvPath string) (*models.SettlementReport, error) {
	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := database.NewMigrator(db, logger).RunMigrations(); err != nil {
		return nil, err
	}

	priceStore := catalog.NewStore(db, logger)
	if err := priceStore.Seed(cfg.DefaultCatalog()); err != nil {
		return nil, err
	}

	var source settlement.DataSource
	if csvPath != "" {
		source = fileSource{path: csvPath}
	} else {
		source = sheets.NewReader(sheets.Config{
			SheetID: cfg.Sheets.SheetID,
			GID:     cfg.Sheets.GID,
			Timeout: cfg.Sheets.Timeout,
		}, logger)
	}

	service := settlement.NewService(source, priceStore, settlement.NewBuilder(logger), logger)
	return service.SettleRange(context.Background(), start, end)
}

// fileSource adapts a local CSV export to the settlement data source.
type fileSource struct {
	path string
}

func (s fileSource) FetchRows(_ context.Context) ([]models.RawRow, error) {
	return sheets.ReadFile(s.path)
}
