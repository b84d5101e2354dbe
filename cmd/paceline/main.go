package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"github.com/jthorne/paceline/internal/derive"
	"github.com/jthorne/paceline/internal/ingest"
	"github.com/jthorne/paceline/internal/models"
	"github.com/jthorne/paceline/internal/regress"
	"github.com/jthorne/paceline/internal/report"
	"github.com/jthorne/paceline/internal/store"
)

type fitPaths []string

func (f *fitPaths) String() string { return "" }
func (f *fitPaths) Set(v string) error {
	*f = append(*f, v)
	return nil
}

func main() {
	var fits fitPaths
	csvPath := flag.String("csv", "", "path to the activities CSV export")
	flag.Var(&fits, "fit", "path to a .fit session file to append (repeatable)")
	dbPath := flag.String("db", "", "optional SQLite archive path")
	outCSV := flag.String("out-csv", "", "write the derived dataset as CSV")
	outParquet := flag.String("out-parquet", "", "write the derived dataset as parquet")
	flag.Parse()

	// Optional .env for local runs; absence is fine.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env")
	}
	if *csvPath == "" {
		*csvPath = os.Getenv("PACELINE_CSV")
	}
	if *csvPath == "" && len(fits) == 0 {
		log.Fatal("a source is required: -csv export and/or -fit files")
	}

	var activities []models.Activity
	if *csvPath != "" {
		loaded, err := ingest.LoadCSV(*csvPath, ingest.StravaFields())
		if err != nil {
			log.Fatalf("load export: %v", err)
		}
		activities = loaded
		log.Printf("loaded %d activities from %s", len(loaded), *csvPath)
	}

	for _, path := range fits {
		a, err := ingest.LoadFIT(path)
		if err != nil {
			log.Fatalf("load fit file: %v", err)
		}
		activities = append(activities, a)
	}

	for _, a := range activities {
		if flags := ingest.Validate(a); len(flags) > 0 {
			log.Printf("activity %q (%s): flagged %v", a.Name, a.StartedAt.Format("2006-01-02"), flags)
		}
	}

	full := derive.Derive(activities)
	filtered := derive.FilterOutliers(full)

	modelFits, err := regress.FitAll(full, filtered)
	if err != nil {
		log.Fatalf("fit models: %v", err)
	}

	comparison := regress.Compare(full, regress.DefaultFrozen())

	report.WriteSummary(os.Stdout, full, filtered)
	report.WriteModels(os.Stdout, modelFits)
	report.WriteComparison(os.Stdout, comparison)

	if *outCSV != "" {
		if err := report.ExportCSV(*outCSV, full); err != nil {
			log.Fatalf("export csv: %v", err)
		}
		log.Printf("derived dataset written to %s", *outCSV)
	}

	if *outParquet != "" {
		if err := report.ExportParquet(*outParquet, full); err != nil {
			log.Fatalf("export parquet: %v", err)
		}
		log.Printf("derived dataset written to %s", *outParquet)
	}

	if *dbPath != "" {
		if err := archive(*dbPath, full, modelFits, comparison); err != nil {
			log.Fatalf("archive: %v", err)
		}
		log.Printf("run archived to %s", *dbPath)
	}
}

func archive(path string, activities []models.Activity, fits []regress.ModelFit, comparison regress.ComparisonResult) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		return err
	}

	for _, a := range activities {
		if err := st.UpsertActivity(a); err != nil {
			return err
		}
	}

	runAt := time.Now().UTC()
	for _, mf := range fits {
		if err := st.RecordModelRun(runAt, mf); err != nil {
			return err
		}
	}
	return st.RecordComparisonRun(runAt, comparison)
}
