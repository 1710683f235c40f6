package ultra

import (
	"errors"
	"testing"
)

func TestPaddedSize(t *testing.T) {
	cases := []struct {
		payload, total, pad int
	}{
		{0, 8, 0},
		{1, 16, 7},
		{7, 16, 1},
		{8, 16, 0},
		{16, 24, 0},
		{48, 56, 0},
		{13, 24, 3},
	}
	for _, c := range cases {
		total, pad := paddedSize(c.payload)
		if total != c.total || pad != c.pad {
			t.Errorf("paddedSize(%d) = (%d, %d), want (%d, %d)",
				c.payload, total, pad, c.total, c.pad)
		}
		if total%attributeAlign != 0 {
			t.Errorf("paddedSize(%d) total %d not 8-byte aligned", c.payload, total)
		}
	}
}

func TestCursorTruncatedHeader(t *testing.T) {
	c := cursor{buf: make([]byte, 4)}
	if _, _, err := c.next(); !errors.Is(err, ErrTruncatedHeader) {
		t.Fatalf("got %v, want ErrTruncatedHeader", err)
	}
}

func TestCursorBadSizes(t *testing.T) {
	cases := []struct {
		name string
		size uint32
		want error
	}{
		{"below header size", 4, ErrMalformedRecord},
		{"unaligned", 70, ErrMalformedRecord},
		{"past buffer end", 64, ErrOutOfBounds},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, 32)
			putHeader(buf, AttributeMemoryMap, int(tc.size))
			c := cursor{buf: buf}
			if _, _, err := c.next(); !errors.Is(err, tc.want) {
				t.Fatalf("size %d: got %v, want %v", tc.size, err, tc.want)
			}
		})
	}
}

func TestCursorAdvance(t *testing.T) {
	buf := make([]byte, 48)
	putHeader(buf, AttributeCommandLine, 16)
	putHeader(buf[16:], AttributeType(9999), 32)

	c := cursor{buf: buf}
	typ, payload, err := c.next()
	if err != nil {
		t.Fatalf("first attribute: %v", err)
	}
	if typ != AttributeCommandLine || len(payload) != 8 {
		t.Fatalf("first attribute: type %v payload %d bytes", typ, len(payload))
	}
	typ, payload, err = c.next()
	if err != nil {
		t.Fatalf("second attribute: %v", err)
	}
	if typ != AttributeType(9999) || len(payload) != 24 {
		t.Fatalf("second attribute: type %v payload %d bytes", typ, len(payload))
	}
	if c.remaining() != 0 {
		t.Fatalf("%d bytes remaining after last attribute", c.remaining())
	}
}
