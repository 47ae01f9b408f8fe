package dataset

import (
	"math"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

type runParquetRow struct {
	Date         string  `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Week         string  `parquet:"name=week, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	RunType      string  `parquet:"name=run_type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DurationMin  float64 `parquet:"name=duration_min, type=DOUBLE"`
	DistanceMi   float64 `parquet:"name=distance_mi, type=DOUBLE"`
	AvgPaceMinMi float64 `parquet:"name=avg_pace_minmi, type=DOUBLE"`
	AvgHR        float64 `parquet:"name=avg_hr, type=DOUBLE"`
	SourceFile   string  `parquet:"name=source_file, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
}

// ExportParquet writes a parquet mirror of the dataset with the same columns
// as the CSV. Missing pace and HR values become NaN.
func (d *Dataset) ExportParquet(path string) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(runParquetRow), 4)
	if err != nil {
		_ = fw.Close()
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, rec := range d.records {
		row := runParquetRow{
			Date:         rec.DateString(),
			Week:         rec.Week(),
			RunType:      string(rec.RunType),
			DurationMin:  rec.DurationMin,
			DistanceMi:   rec.DistanceMi,
			AvgPaceMinMi: math.NaN(),
			AvgHR:        math.NaN(),
			SourceFile:   rec.SourceFile,
		}
		if p, ok := rec.PaceMinMi(); ok {
			row.AvgPaceMinMi = p
		}
		if rec.AvgHR != nil {
			row.AvgHR = float64(*rec.AvgHR)
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}
