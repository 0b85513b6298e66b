// seed_moves importa movimientos de inventario desde un CSV exportado por el ERP
// (separador ';', codificación ISO-8859-1) y los valora en orden de fecha.
//
// Uso: go run ./cmd/seed_moves -company <id> [-latin1=false] movimientos.csv
//
// Columnas: id;product_id;source_location_id;destination_location_id;quantity;
// unit_of_measure;state;origin_returned_move_id;price_unit;date;reference
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/fifo-valuation-api/internal/application/dto"
	"github.com/jhoicas/fifo-valuation-api/internal/application/valuation"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/inventory"
	"github.com/jhoicas/fifo-valuation-api/internal/infrastructure/postgres"
	"github.com/jhoicas/fifo-valuation-api/pkg/config"
	"github.com/jhoicas/fifo-valuation-api/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const columns = 11

func main() {
	companyID := flag.String("company", "", "empresa dueña de los movimientos")
	latin1 := flag.Bool("latin1", true, "el archivo viene en ISO-8859-1")
	flag.Parse()
	if *companyID == "" || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_moves -company <id> archivo.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var in io.Reader = f
	if *latin1 {
		in = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	moves, err := readMoves(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level}).Component("seed_moves")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	settings := valuation.DefaultSettings()
	settings.Precision = inventory.Precision{Value: cfg.FIFO.PricePrecision, UnitDigits: cfg.FIFO.UnitCostPrecision}
	settings.DefaultShortagePolicy = cfg.FIFO.ShortagePolicy
	settings.DefaultLocationValidation = cfg.FIFO.LocationValidation
	fifo := valuation.NewFIFOService(settings, nil, log)
	allocator := valuation.NewLandedCostAllocator(settings.Precision, log)
	svc := valuation.NewMoveValuationService(settings, fifo, allocator, valuation.NewReturnResolver(fifo, log), nil, nil, log)
	uc := valuation.NewMoveUseCase(postgres.NewTxRunner(pool), svc, log)

	var posted, failed int
	for _, m := range moves {
		if _, err := uc.Post(ctx, *companyID, m); err != nil {
			failed++
			log.Warn().Err(err).Str("move_id", m.ID).Msg("movimiento no importado")
			continue
		}
		posted++
	}
	fmt.Printf("Importados %d movimientos, %d con error\n", posted, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// readMoves parsea el CSV y ordena por (fecha, id), el orden en que se valoran.
func readMoves(in io.Reader) ([]dto.MoveRequest, error) {
	r := csv.NewReader(in)
	r.Comma = ';'
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = columns

	var out []dto.MoveRequest
	line := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "id") {
			continue
		}
		m, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func parseRecord(rec []string) (dto.MoveRequest, error) {
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	qty, err := parseDecimal(rec[4])
	if err != nil {
		return dto.MoveRequest{}, fmt.Errorf("quantity: %w", err)
	}
	price, err := parseDecimal(rec[8])
	if err != nil {
		return dto.MoveRequest{}, fmt.Errorf("price_unit: %w", err)
	}
	date, err := parseDate(rec[9])
	if err != nil {
		return dto.MoveRequest{}, fmt.Errorf("date: %w", err)
	}
	return dto.MoveRequest{
		ID:                    rec[0],
		ProductID:             rec[1],
		SourceLocationID:      rec[2],
		DestinationLocationID: rec[3],
		Quantity:              qty,
		UnitOfMeasure:         rec[5],
		State:                 strings.ToLower(rec[6]),
		OriginReturnedMoveID:  rec[7],
		PriceUnit:             price,
		Date:                  date,
		Reference:             rec[10],
	}, nil
}

// parseDecimal acepta coma decimal ("1234,50") además de punto.
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	}
	return decimal.NewFromString(s)
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("formato no reconocido: %q", s)
}
