// sid_parser_test.go - Tests for PSID/RSID header parsing and chip model detection

package sidfilter

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// buildSIDHeader creates a minimal PSID/RSID file with a 0x7C byte header.
func buildSIDHeader(magic string, version uint16, flags uint16, sid2, sid3 uint8) []byte {
	data := make([]byte, 0x7C+16) // header + 16 bytes of dummy program data
	copy(data[0x00:], magic)
	binary.BigEndian.PutUint16(data[0x04:], version)
	binary.BigEndian.PutUint16(data[0x06:], 0x7C)   // data offset (v2+)
	binary.BigEndian.PutUint16(data[0x08:], 0x1000) // loadAddress
	binary.BigEndian.PutUint16(data[0x0A:], 0x1000) // initAddress
	binary.BigEndian.PutUint16(data[0x0C:], 0x1003) // playAddress
	binary.BigEndian.PutUint16(data[0x0E:], 1)      // songs
	binary.BigEndian.PutUint16(data[0x10:], 1)      // startSong
	copy(data[0x16:0x36], "Test Song\x00")
	copy(data[0x36:0x56], "Test Author\x00")
	copy(data[0x56:0x76], "2024\x00")
	binary.BigEndian.PutUint16(data[0x76:], flags)
	data[0x7A] = sid2
	data[0x7B] = sid3
	for i := 0x7C; i < len(data); i++ {
		data[i] = 0x60 // RTS opcodes
	}
	return data
}

func TestSIDParse_PSID_V1(t *testing.T) {
	// PSID v1: header size 0x76 (no flags)
	data := make([]byte, 0x76+16)
	copy(data[0x00:], "PSID")
	binary.BigEndian.PutUint16(data[0x04:], 1)    // version 1
	binary.BigEndian.PutUint16(data[0x06:], 0x76) // data offset
	copy(data[0x16:0x36], "V1 Song\x00")

	h, err := ParseSIDHeader(data)
	if err != nil {
		t.Fatalf("ParseSIDHeader(PSID v1) failed: %v", err)
	}
	if h.Version != 1 || h.IsRSID {
		t.Errorf("expected PSID v1, got version %d rsid=%v", h.Version, h.IsRSID)
	}
	if h.Name != "V1 Song" {
		t.Errorf("expected name 'V1 Song', got %q", h.Name)
	}
	if models := h.ChipModels(); len(models) != 1 || models[0] != SID_MODEL_6581 {
		t.Errorf("v1 tunes default to a single 6581, got %v", models)
	}
}

func TestSIDParse_ModelFlags(t *testing.T) {
	tests := []struct {
		name  string
		flags uint16
		want  ChipModel
	}{
		{"unknown", 0x00, SID_MODEL_6581},
		{"6581", 0x10, SID_MODEL_6581},        // bits 4-5 = 01
		{"8580", 0x20, SID_MODEL_8580},        // bits 4-5 = 10
		{"either", 0x30, SID_MODEL_6581},      // bits 4-5 = 11
		{"NTSC+8580", 0x28, SID_MODEL_8580},   // bits 2-3 = 10, bits 4-5 = 10
		{"8580 second", 0x80, SID_MODEL_6581}, // only SID 2 asks for 8580
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := ParseSIDHeader(buildSIDHeader("PSID", 2, tt.flags, 0, 0))
			if err != nil {
				t.Fatalf("ParseSIDHeader failed: %v", err)
			}
			if h.Flags != tt.flags {
				t.Errorf("expected flags 0x%04X, got 0x%04X", tt.flags, h.Flags)
			}
			models := h.ChipModels()
			if len(models) != 1 || models[0] != tt.want {
				t.Errorf("flags 0x%04X: got %v, want [%v]", tt.flags, models, tt.want)
			}
		})
	}
}

func TestSIDParse_RSID(t *testing.T) {
	h, err := ParseSIDHeader(buildSIDHeader("RSID", 2, 0x24, 0, 0))
	if err != nil {
		t.Fatalf("ParseSIDHeader(RSID) failed: %v", err)
	}
	if !h.IsRSID {
		t.Error("expected IsRSID=true for RSID")
	}
	if h.ChipModels()[0] != SID_MODEL_8580 {
		t.Errorf("expected 8580, got %v", h.ChipModels()[0])
	}
}

func TestSIDParse_MultiSID(t *testing.T) {
	// v4: SID 1 = 6581, SID 2 = 8580, SID 3 = 8580
	flags := uint16(0x10 | 0x80 | 0x200)
	h, err := ParseSIDHeader(buildSIDHeader("PSID", 4, flags, 0x50, 0x42))
	if err != nil {
		t.Fatalf("ParseSIDHeader(v4) failed: %v", err)
	}
	if h.Sid2Addr != 0x50 || h.Sid3Addr != 0x42 {
		t.Errorf("expected sid2=0x50 sid3=0x42, got 0x%02X 0x%02X", h.Sid2Addr, h.Sid3Addr)
	}
	if h.ChipCount() != 3 {
		t.Errorf("expected 3 chips, got %d", h.ChipCount())
	}
	want := []ChipModel{SID_MODEL_6581, SID_MODEL_8580, SID_MODEL_8580}
	got := h.ChipModels()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SID %d: got %v, want %v", i+1, got[i], want[i])
		}
	}

	// v3 has no third SID address
	h, err = ParseSIDHeader(buildSIDHeader("PSID", 3, flags, 0x50, 0x42))
	if err != nil {
		t.Fatalf("ParseSIDHeader(v3) failed: %v", err)
	}
	if h.Sid3Addr != 0 || h.ChipCount() != 2 {
		t.Errorf("v3 must ignore the third SID: sid3=0x%02X count=%d", h.Sid3Addr, h.ChipCount())
	}
}

func TestSIDParse_Rejects(t *testing.T) {
	bad := buildSIDHeader("XSID", 2, 0, 0, 0)
	if _, err := ParseSIDHeader(bad); err == nil {
		t.Error("expected error for invalid magic")
	}
	if _, err := ParseSIDHeader(make([]byte, 0x40)); err == nil {
		t.Error("expected error for short data")
	}
	offset := buildSIDHeader("PSID", 2, 0, 0, 0)
	binary.BigEndian.PutUint16(offset[0x06:], 0xFFFF)
	if _, err := ParseSIDHeader(offset); err == nil {
		t.Error("expected error for data offset beyond file")
	}
}

func TestSIDParse_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tune.sid")
	if err := os.WriteFile(path, buildSIDHeader("PSID", 2, 0x20, 0, 0), 0o644); err != nil {
		t.Fatal(err)
	}
	h, err := ParseSIDFile(path)
	if err != nil {
		t.Fatalf("ParseSIDFile failed: %v", err)
	}
	if h.Author != "Test Author" {
		t.Errorf("expected author 'Test Author', got %q", h.Author)
	}
	if _, err := ParseSIDFile(filepath.Join(t.TempDir(), "missing.sid")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNewFiltersForSID(t *testing.T) {
	h, err := ParseSIDHeader(buildSIDHeader("PSID", 3, 0x10|0x80, 0x50, 0))
	if err != nil {
		t.Fatal(err)
	}
	filters, err := NewFiltersForSID(h)
	if err != nil {
		t.Fatalf("NewFiltersForSID failed: %v", err)
	}
	if len(filters) != 2 {
		t.Fatalf("expected 2 filters, got %d", len(filters))
	}
	if filters[0].Model() != SID_MODEL_6581 || filters[1].Model() != SID_MODEL_8580 {
		t.Errorf("unexpected models %v %v", filters[0].Model(), filters[1].Model())
	}
	if filters[0].VoiceDC() == filters[1].VoiceDC() {
		t.Error("6581 and 8580 filters should have different DC offsets")
	}

	filters[0].WriteFCHi(0xFF)
	if filters[1].Registers().FC() != 0 {
		t.Error("filters created for one tune share register state")
	}
}
