package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/yumyai/pangene/logger"
	"github.com/yumyai/pangene/pkg/pipeline"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

const VERSION = "0.2.0"

func main() {

	speciesList := flag.String("species", "", "selected species file, reference species first")
	homologyDir := flag.String("homology-dir", "", "directory with <species>.homologies.tsv[.gz] dumps")
	geneTable := flag.String("db", "", "sqlite gene inventory (gene_table.db)")
	outDir := flag.String("out", "", "output directory")
	samples := flag.Int("samples", 100, "number of random genome orderings to sample")
	seed := flag.Int64("seed", 0, "random seed for reproducible sampling")
	soft := flag.Float64("soft", 0, "soft-core fraction in (0,1]; 0 disables soft-core tracking")
	minGOC := flag.Float64("goc", 0, "minimum GOC score; 0 disables the check")
	minWGA := flag.Float64("wga", 0, "minimum WGA coverage; 0 disables the check")
	allowLowConf := flag.Bool("allow-low-conf", false, "keep orthologs without the high-confidence flag")
	order := flag.String("order", "", "fixed inclusion order (comma-separated species), forces one sample")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := logger.ParseLevel("info")
	if *verbose {
		level = logger.ParseLevel("debug")
	}
	if err := logger.InitLogger(level); err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Try load env
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env found, using local environment")
	}

	dataDir := os.Getenv("PANGENE_DATA")
	if dataDir == "" {
		logger.Warn("No local environment (PANGENE_DATA), using default value (./data)")
		dataDir = "./data"
	}

	cfg := pipeline.Config{
		SpeciesList:        orDefault(*speciesList, filepath.Join(dataDir, "species.txt")),
		HomologyDir:        orDefault(*homologyDir, filepath.Join(dataDir, "homologies")),
		GeneTable:          orDefault(*geneTable, filepath.Join(dataDir, "db/gene_table.db")),
		OutDir:             orDefault(*outDir, filepath.Join(dataDir, "pangenome")),
		MinGOC:             *minGOC,
		MinWGA:             *minWGA,
		AllowLowConfidence: *allowLowConf,
		Samples:            *samples,
		Seed:               *seed,
		SoftCore:           *soft,
	}
	if *order != "" {
		cfg.FixedOrder = strings.Split(*order, ",")
	}

	logger.Info("Start:", zap.String("Version", VERSION))
	logger.Info("Reading gene inventory from", zap.String("DB_LOC", cfg.GeneTable))

	p := pipeline.New(cfg)
	if err := p.Run(); err != nil {
		logger.Error("Pipeline failed:", zap.String("error message", err.Error()))
		logger.Sync()
		os.Exit(1)
	}
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
