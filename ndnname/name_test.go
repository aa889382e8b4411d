package ndnname_test

import (
	"bytes"
	"testing"

	"ndnlite.dev/lite/ndnname"
	"ndnlite.dev/lite/tlv"
)

// TestFromStringS1 checks spec.md scenario S1: "/hello/world" encodes to
// 07 0e 08 05 68 65 6c 6c 6f 08 05 77 6f 72 6c 64.
func TestFromStringS1(t *testing.T) {
	n, err := ndnname.FromString("/hello/world")
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	if len(n.Components) != 2 {
		t.Fatalf("got %d components, want 2", len(n.Components))
	}
	if !bytes.Equal(n.Components[0].Payload, []byte("hello")) {
		t.Errorf("component 0 = %q, want %q", n.Components[0].Payload, "hello")
	}
	if !bytes.Equal(n.Components[1].Payload, []byte("world")) {
		t.Errorf("component 1 = %q, want %q", n.Components[1].Payload, "world")
	}

	buf := make([]byte, 64)
	enc := tlv.NewEncoder(buf)
	if err := ndnname.TLVEncode(enc, n); err != nil {
		t.Fatalf("TLVEncode: %v", err)
	}
	want := []byte{
		0x07, 0x0e,
		0x08, 0x05, 0x68, 0x65, 0x6c, 0x6c, 0x6f,
		0x08, 0x05, 0x77, 0x6f, 0x72, 0x6c, 0x64,
	}
	if !bytes.Equal(enc.Bytes(), want) {
		t.Errorf("encoded = % x, want % x", enc.Bytes(), want)
	}
}

// TestFromStringS2 checks spec.md scenario S2: missing leading slash fails
// INVALID_FORMAT.
func TestFromStringS2(t *testing.T) {
	if _, err := ndnname.FromString("hello/world"); err == nil {
		t.Fatalf("expected INVALID_FORMAT for missing leading slash")
	}
}

func TestFromStringOversize(t *testing.T) {
	s := "/a/b/c/d/e/f/g/h/i/j/k" // 11 components, max is 10
	if _, err := ndnname.FromString(s); err == nil {
		t.Fatalf("expected OVERSIZE for 11 components")
	}
}

// TestNameRoundTrip checks spec.md invariant 1: decode(encode(n)) == n.
func TestNameRoundTrip(t *testing.T) {
	n, err := ndnname.FromString("/a/bb/ccc")
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	buf := make([]byte, 64)
	enc := tlv.NewEncoder(buf)
	if err := ndnname.TLVEncode(enc, n); err != nil {
		t.Fatalf("TLVEncode: %v", err)
	}
	dec := tlv.NewDecoder(enc.Bytes())
	got, err := ndnname.TLVDecode(dec)
	if err != nil {
		t.Fatalf("TLVDecode: %v", err)
	}
	if ndnname.Compare(n, got) != 0 {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, n)
	}
}

func TestCompareAndPrefix(t *testing.T) {
	a, _ := ndnname.FromString("/a")
	ab, _ := ndnname.FromString("/a/b")
	ac, _ := ndnname.FromString("/a/c")

	if ndnname.Compare(a, a) != 0 {
		t.Errorf("a should equal itself")
	}
	if ndnname.Compare(ab, ac) == 0 {
		t.Errorf("/a/b and /a/c should differ")
	}
	if ndnname.IsPrefixOf(a, ab) != 0 {
		t.Errorf("/a should be a prefix of /a/b")
	}
	if ndnname.IsPrefixOf(ab, a) == 0 {
		t.Errorf("/a/b should not be a prefix of /a")
	}
	if ndnname.IsPrefixOf(a, a) != 0 {
		t.Errorf("reflexivity: /a should be a prefix of itself")
	}
}

// TestPrefixTransitivity checks spec.md invariant 5.
func TestPrefixTransitivity(t *testing.T) {
	a, _ := ndnname.FromString("/a")
	ab, _ := ndnname.FromString("/a/b")
	abc, _ := ndnname.FromString("/a/b/c")

	if ndnname.IsPrefixOf(a, ab) != 0 || ndnname.IsPrefixOf(ab, abc) != 0 {
		t.Fatalf("setup: expected prefix chain a -> ab -> abc")
	}
	if ndnname.IsPrefixOf(a, abc) != 0 {
		t.Errorf("transitivity violated: /a should be a prefix of /a/b/c")
	}
}

func TestTLVDecodeOversizeComponentCount(t *testing.T) {
	// Hand-build a Name TLV with 11 single-byte generic components.
	buf := make([]byte, 128)
	enc := tlv.NewEncoder(buf)
	var inner []byte
	for i := 0; i < 11; i++ {
		inner = append(inner, 0x08, 0x01, byte('a'+i))
	}
	if err := enc.AppendType(ndnname.TLVName); err != nil {
		t.Fatalf("AppendType: %v", err)
	}
	if err := enc.AppendLength(uint64(len(inner))); err != nil {
		t.Fatalf("AppendLength: %v", err)
	}
	if err := enc.AppendRaw(inner); err != nil {
		t.Fatalf("AppendRaw: %v", err)
	}
	dec := tlv.NewDecoder(enc.Bytes())
	if _, err := ndnname.TLVDecode(dec); err == nil {
		t.Fatalf("expected OVERSIZE for 11-component name")
	}
}
