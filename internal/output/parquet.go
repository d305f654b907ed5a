package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/timeseries"
)

// parquetPoint is the on-disk row of a Parquet copy. Label columns are not
// carried; the CSV output keeps them.
type parquetPoint struct {
	Time  int64   `parquet:"name=time, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	Value float64 `parquet:"name=value, type=DOUBLE"`
}

// ParquetPath returns the path of the Parquet copy that goes next to a CSV
// output.
func ParquetPath(csvPath string) string {
	return strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".parquet"
}

// compressionCodec maps parquet_compression to a codec. Unknown names mean
// no compression.
func compressionCodec(name string) parquet.CompressionCodec {
	switch strings.ToLower(name) {
	case "snappy":
		return parquet.CompressionCodec_SNAPPY
	case "gzip":
		return parquet.CompressionCodec_GZIP
	default:
		return parquet.CompressionCodec_UNCOMPRESSED
	}
}

// WriteParquetFile writes the time and value columns of s to path.
func WriteParquetFile(path string, s *timeseries.Series, compression string) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}

	pw, err := writer.NewParquetWriter(fw, new(parquetPoint), 1)
	if err != nil {
		fw.Close()
		return fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = compressionCodec(compression)

	for _, p := range s.Points {
		rec := parquetPoint{Time: p.Time.UnixMilli(), Value: p.Value}
		if err := pw.Write(rec); err != nil {
			pw.WriteStop()
			fw.Close()
			return fmt.Errorf("write parquet record: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("finalize parquet: %w", err)
	}
	return fw.Close()
}
