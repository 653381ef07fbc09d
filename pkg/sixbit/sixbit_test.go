package sixbit

import "testing"

// fakeReader feeds a fixed byte slice to Unpack without depending on
// bytestream, keeping this package's tests free of an import on its only
// consumer's sibling package.
type fakeReader struct {
	data []byte
	pos  int
}

func (f *fakeReader) ReadU8() uint8 {
	v := f.data[f.pos]
	f.pos++
	return v
}

func TestUnpackFullGroupOfFour(t *testing.T) {
	// length=4, one full 3-byte group -> 4 characters, no tail.
	r := &fakeReader{data: []byte{4, 0x1C, 0xE2, 0x49}}
	got := Unpack(r)
	want := string([]byte{Alphabet[0x07], Alphabet[0x0E], Alphabet[0x09], Alphabet[0x09]})
	if got != want {
		t.Fatalf("Unpack = %q, want %q", got, want)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 characters, got %d", len(got))
	}
}

func TestUnpackFiveCharactersTailOne(t *testing.T) {
	// length=5: one full group of four (3 bytes) then a one-character tail
	// (1 byte) -> exactly five characters, four source bytes total.
	r := &fakeReader{data: []byte{5, 0x1C, 0xE2, 0x49, 0x80}}
	got := Unpack(r)
	if len(got) != 5 {
		t.Fatalf("expected exactly five characters, got %d (%q)", len(got), got)
	}
	want := string([]byte{Alphabet[0x07], Alphabet[0x0E], Alphabet[0x09], Alphabet[0x09], Alphabet[0x20]})
	if got != want {
		t.Fatalf("Unpack = %q, want %q", got, want)
	}
}

func TestUnpackTailOfOneConsumesOneSourceByte(t *testing.T) {
	r := &fakeReader{data: []byte{1, 0xFC}}
	got := Unpack(r)
	if len(got) != 1 {
		t.Fatalf("expected one character, got %d", len(got))
	}
	if r.pos != 2 {
		t.Fatalf("expected exactly one source byte consumed after the length byte, cursor at %d", r.pos)
	}
}

func TestUnpackTailOfTwoConsumesTwoSourceBytes(t *testing.T) {
	r := &fakeReader{data: []byte{2, 0xFC, 0x0F}}
	got := Unpack(r)
	if len(got) != 2 {
		t.Fatalf("expected two characters, got %d", len(got))
	}
	if r.pos != 3 {
		t.Fatalf("expected two source bytes consumed after the length byte, cursor at %d", r.pos)
	}
}

func TestUnpackEmptyName(t *testing.T) {
	r := &fakeReader{data: []byte{0}}
	got := Unpack(r)
	if got != "" {
		t.Fatalf("expected empty name, got %q", got)
	}
	if r.pos != 1 {
		t.Fatalf("expected only the length byte consumed, cursor at %d", r.pos)
	}
}
