package latency

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestRecord_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		record Record
	}{
		{
			name:   "empty correlation ID",
			record: Record{CorrelationID: []byte{}, CaptureMillis: 0, LatencyMicros: 0},
		},
		{
			name:   "single byte ID",
			record: Record{CorrelationID: []byte("x"), CaptureMillis: 1617181920000, LatencyMicros: 125},
		},
		{
			name:   "typical order ID",
			record: Record{CorrelationID: []byte("ORD-2024-000042"), CaptureMillis: 1700000000123, LatencyMicros: 4312},
		},
		{
			name:   "maximum length ID",
			record: Record{CorrelationID: bytes.Repeat([]byte("k"), 255), CaptureMillis: 1, LatencyMicros: 1},
		},
		{
			name:   "negative latency preserved",
			record: Record{CorrelationID: []byte("clock-skew"), CaptureMillis: 99, LatencyMicros: -750},
		},
		{
			name:   "extreme values",
			record: Record{CorrelationID: []byte("edge"), CaptureMillis: math.MaxUint64, LatencyMicros: math.MinInt64},
		},
		{
			name:   "max latency",
			record: Record{CorrelationID: []byte("edge"), CaptureMillis: 0, LatencyMicros: math.MaxInt64},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := tt.record.AppendEncode(nil)

			if len(frame) != tt.record.EncodedSize() {
				t.Errorf("frame length = %d, want EncodedSize() = %d", len(frame), tt.record.EncodedSize())
			}

			got, consumed, err := Decode(frame)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if consumed != len(frame) {
				t.Errorf("Decode() consumed %d bytes, want %d", consumed, len(frame))
			}
			if !bytes.Equal(got.CorrelationID, tt.record.CorrelationID) {
				t.Errorf("CorrelationID = %q, want %q", got.CorrelationID, tt.record.CorrelationID)
			}
			if got.CaptureMillis != tt.record.CaptureMillis {
				t.Errorf("CaptureMillis = %d, want %d", got.CaptureMillis, tt.record.CaptureMillis)
			}
			if got.LatencyMicros != tt.record.LatencyMicros {
				t.Errorf("LatencyMicros = %d, want %d", got.LatencyMicros, tt.record.LatencyMicros)
			}
		})
	}
}

func TestRecord_Layout(t *testing.T) {
	// The layout is a wire contract: length byte, ID bytes, then two
	// big-endian 64-bit fields.
	rec := Record{
		CorrelationID: []byte("AB"),
		CaptureMillis: 0x0102030405060708,
		LatencyMicros: -1,
	}
	frame := rec.AppendEncode(nil)

	want := []byte{
		2,        // N
		'A', 'B', // correlation ID
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, // capture millis
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, // -1 two's complement
	}
	if !bytes.Equal(frame, want) {
		t.Errorf("frame = % X, want % X", frame, want)
	}
}

func TestRecord_AppendEncode_PanicsOnOversizedID(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("AppendEncode() did not panic for a 256-byte correlation ID")
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, "256") {
			t.Errorf("panic = %v, want message naming the offending length", r)
		}
	}()

	rec := Record{CorrelationID: bytes.Repeat([]byte("x"), 256)}
	rec.AppendEncode(nil)
}

func TestDecode_Truncated(t *testing.T) {
	rec := Record{CorrelationID: []byte("trade-7"), CaptureMillis: 1700000000000, LatencyMicros: 88}
	frame := rec.AppendEncode(nil)

	for cut := 0; cut < len(frame); cut++ {
		_, _, err := Decode(frame[:cut])
		if !errors.Is(err, ErrTruncatedRecord) {
			t.Errorf("Decode(frame[:%d]) error = %v, want ErrTruncatedRecord", cut, err)
		}
	}
}

func TestDecode_ConsumesOneRecordFromConcatenation(t *testing.T) {
	first := Record{CorrelationID: []byte("a"), CaptureMillis: 10, LatencyMicros: 100}
	second := Record{CorrelationID: []byte("bb"), CaptureMillis: 20, LatencyMicros: 200}

	buf := first.AppendEncode(nil)
	buf = second.AppendEncode(buf)

	got, consumed, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if string(got.CorrelationID) != "a" || got.LatencyMicros != 100 {
		t.Errorf("first record = %+v, want the first written record", got)
	}

	got, _, err = Decode(buf[consumed:])
	if err != nil {
		t.Fatalf("Decode() second record error = %v", err)
	}
	if string(got.CorrelationID) != "bb" || got.LatencyMicros != 200 {
		t.Errorf("second record = %+v, want the second written record", got)
	}
}
