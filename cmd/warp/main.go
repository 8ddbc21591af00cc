// Command warp runs a small filter/aggregate demo pipeline against one
// of the supported SQL backends, standing in for the document/GUI
// collaborator that drives Warp's engine in a full deployment.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"

	"github.com/pixelspark/warp/dataset"
	"github.com/pixelspark/warp/expr"
	"github.com/pixelspark/warp/inmem"
	"github.com/pixelspark/warp/job"
	"github.com/pixelspark/warp/sqldataset"
	"github.com/pixelspark/warp/table"
	"github.com/pixelspark/warp/util"
	"github.com/pixelspark/warp/value"
	"github.com/pixelspark/warp/warehouse"
)

var version string

type options struct {
	Driver  string `short:"d" long:"driver" description:"Backend driver" choice:"mysql" choice:"postgres" choice:"sqlite" choice:"mssql" choice:"cockroach" default:"sqlite"`
	DSN     string `long:"dsn" description:"Connection string (driver-specific)" value-name:"dsn"`
	Table   string `short:"t" long:"table" description:"Table to read" value-name:"table_name"`
	Where   string `long:"where" description:"Equality filter, column=value" value-name:"col=value"`
	GroupBy string `long:"group-by" description:"Comma-separated group-by columns" value-name:"columns"`
	Sum     string `long:"sum" description:"Column to sum per group" value-name:"column"`
	Limit   int    `long:"limit" description:"Cap the number of output rows" default:"0"`
	Local   bool   `long:"local" description:"Evaluate entirely in memory after one initial fetch, instead of pushing operators down to the backend"`
	Verbose bool   `short:"v" long:"verbose" description:"Print job progress counters after running"`
	Help    bool   `long:"help" description:"Show this help"`
	Version bool   `long:"version" description:"Show this version"`
}

func parseOptions(args []string) *options {
	var opts options
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[options]"
	if _, err := parser.ParseArgs(args); err != nil {
		log.Fatal(err)
	}

	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}
	if opts.Table == "" {
		fmt.Print("No table is specified (use -t/--table)!\n\n")
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	}
	return &opts
}

func openWarehouse(driver, dsn string) (warehouse.Warehouse, error) {
	switch driver {
	case "mysql":
		return warehouse.OpenMySQL(dsn)
	case "postgres":
		return warehouse.OpenPostgres(dsn)
	case "cockroach":
		return warehouse.OpenCockroach(dsn)
	case "sqlite":
		if dsn == "" {
			dsn = ":memory:"
		}
		return warehouse.OpenSQLite(dsn)
	case "mssql":
		return warehouse.OpenMSSQL(dsn)
	default:
		return nil, fmt.Errorf("warp: unknown driver %q", driver)
	}
}

func parseFilter(where string) (table.Column, value.Value, bool) {
	col, val, ok := strings.Cut(where, "=")
	if !ok {
		return "", value.Invalid(), false
	}
	col = strings.TrimSpace(col)
	val = strings.TrimSpace(val)
	if n, err := strconv.ParseInt(val, 10, 64); err == nil {
		return table.Column(col), value.Int(n), true
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return table.Column(col), value.Double(f), true
	}
	return table.Column(col), value.String(val), true
}

func splitColumns(csv string) table.Columns {
	if csv == "" {
		return table.Columns{}
	}
	parts := strings.Split(csv, ",")
	cols := make([]table.Column, len(parts))
	for i, p := range parts {
		cols[i] = table.Column(strings.TrimSpace(p))
	}
	return table.NewColumns(cols...)
}

func buildPipeline(wh warehouse.Warehouse, opts *options) (dataset.Dataset, error) {
	j := job.New()
	cols, err := wh.Columns(context.Background(), opts.Table)
	if err != nil {
		return nil, fmt.Errorf("warp: discover columns for %s: %w", opts.Table, err)
	}

	quoted := wh.Dialect().QuoteIdentifier(opts.Table)
	var ds dataset.Dataset = sqldataset.New(wh, quoted, cols)

	if opts.Local {
		raster, err := ds.Raster(j)
		if err != nil {
			return nil, err
		}
		ds = inmem.New(raster)
	}

	ds = dataset.Coalesce(ds)

	if opts.Where != "" {
		col, val, ok := parseFilter(opts.Where)
		if !ok {
			return nil, fmt.Errorf("warp: --where must be column=value, got %q", opts.Where)
		}
		ds = ds.Filter(expr.NewBinary(expr.OpEq, expr.NewSibling(col), expr.NewLiteral(val)))
	}

	if opts.GroupBy != "" {
		groupBy := splitColumns(opts.GroupBy)
		aggregations := []expr.Aggregation{}
		if opts.Sum != "" {
			sumCol := table.Column(opts.Sum)
			aggregations = append(aggregations, expr.Aggregation{
				Map:    expr.NewSibling(sumCol),
				Reduce: expr.Reducers["sum"],
				Target: sumCol,
			})
		}
		ds = ds.Aggregate(groupBy, aggregations)
	}

	if opts.Limit > 0 {
		ds = ds.Limit(opts.Limit)
	}

	return ds, nil
}

func writeCSV(w *os.File, raster *table.Raster) {
	cols := raster.Columns()
	names := make([]string, cols.Len())
	for i := 0; i < cols.Len(); i++ {
		names[i] = string(cols.At(i))
	}
	fmt.Fprintln(w, strings.Join(names, ","))
	for _, row := range raster.Rows() {
		fields := make([]string, cols.Len())
		for i := 0; i < cols.Len(); i++ {
			fields[i] = row.At(i).String()
		}
		fmt.Fprintln(w, strings.Join(fields, ","))
	}
}

func main() {
	util.InitSlog()
	opts := parseOptions(os.Args[1:])

	wh, err := openWarehouse(opts.Driver, opts.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer wh.Close()

	ds, err := buildPipeline(wh, opts)
	if err != nil {
		log.Fatal(err)
	}

	j := job.New()
	raster, err := ds.Raster(j)
	if err != nil {
		slog.Error("pipeline failed", "error", err)
		os.Exit(1)
	}

	writeCSV(os.Stdout, raster)

	if opts.Verbose {
		pp.Println(j.ProgressSnapshot())
	}
}
