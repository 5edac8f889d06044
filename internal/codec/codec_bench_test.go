package codec

import (
	"bytes"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
)

func benchRecords(count int) []domain.Record {
	recs := make([]domain.Record, count)
	for i := range recs {
		recs[i] = domain.Record{ID: i + 1, Fields: domain.Fields{
			FirstName:       fmt.Sprintf("First%d", i%100),
			LastName:        "Petrova",
			DateOfBirth:     time.Date(1950+i%60, time.March, 8, 0, 0, 0, 0, time.UTC),
			Sex:             domain.SexFemale,
			NumberOfReviews: i % 20,
			Salary:          decimal.RequireFromString("2500.75"),
		}}
	}
	return recs
}

func BenchmarkEncode(b *testing.B) {
	recs := benchRecords(10000)
	for _, c := range []Codec{CSV{}, XML{}} {
		b.Run(c.Format(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := c.Encode(io.Discard, recs); err != nil {
					b.Fatalf("Encode: %v", err)
				}
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	recs := benchRecords(10000)
	for _, c := range []Codec{CSV{}, XML{}} {
		var buf bytes.Buffer
		if err := c.Encode(&buf, recs); err != nil {
			b.Fatalf("Encode: %v", err)
		}
		data := buf.Bytes()

		b.Run(c.Format(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := c.Decode(bytes.NewReader(data)); err != nil {
					b.Fatalf("Decode: %v", err)
				}
			}
		})
	}
}
