// sid_parser.go - PSID/RSID header parsing for chip model selection

package sidfilter

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// SIDHeader holds the PSID/RSID header fields that describe the target chips.
type SIDHeader struct {
	MagicID    string
	Version    uint16
	DataOffset uint16
	Songs      uint16
	StartSong  uint16
	Name       string
	Author     string
	Released   string
	Flags      uint16
	Sid2Addr   uint8 // $Dxx0 middle byte, v3+
	Sid3Addr   uint8 // $Dxx0 middle byte, v4+
	IsRSID     bool
}

// PSID flags fields holding the model of each SID (2 bits each)
const (
	SID_FLAGS_MODEL1_SHIFT = 4
	SID_FLAGS_MODEL2_SHIFT = 6
	SID_FLAGS_MODEL3_SHIFT = 8
)

func ParseSIDFile(path string) (*SIDHeader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSIDHeader(data)
}

func ParseSIDHeader(data []byte) (*SIDHeader, error) {
	if len(data) < 0x76 {
		return nil, errors.New("SID data too short")
	}

	magic := string(data[:4])
	header := SIDHeader{
		MagicID: magic,
	}

	switch magic {
	case "PSID":
		header.IsRSID = false
	case "RSID":
		header.IsRSID = true
	default:
		return nil, fmt.Errorf("invalid SID magic: %q", magic)
	}

	header.Version = binary.BigEndian.Uint16(data[0x04:0x06])
	header.DataOffset = binary.BigEndian.Uint16(data[0x06:0x08])
	header.Songs = binary.BigEndian.Uint16(data[0x0E:0x10])
	header.StartSong = binary.BigEndian.Uint16(data[0x10:0x12])
	header.Name = parsePaddedString(data[0x16:0x36])
	header.Author = parsePaddedString(data[0x36:0x56])
	header.Released = parsePaddedString(data[0x56:0x76])

	if header.DataOffset == 0 || int(header.DataOffset) > len(data) {
		return nil, fmt.Errorf("invalid data offset: 0x%04X", header.DataOffset)
	}

	if header.Version >= 2 && header.DataOffset >= 0x78 && len(data) >= 0x78 {
		header.Flags = binary.BigEndian.Uint16(data[0x76:0x78])
	}
	if header.Version >= 3 && header.DataOffset >= 0x7C && len(data) >= 0x7C {
		header.Sid2Addr = data[0x7A]
	}
	if header.Version >= 4 && header.DataOffset >= 0x7C && len(data) >= 0x7C {
		header.Sid3Addr = data[0x7B]
	}

	return &header, nil
}

// ChipCount returns how many SID chips the tune drives.
func (h *SIDHeader) ChipCount() int {
	n := 1
	if h.Sid2Addr != 0 {
		n++
	}
	if h.Sid3Addr != 0 {
		n++
	}
	return n
}

// ChipModels returns the model requested for each SID the tune drives.
// Unknown or "any" models default to the 6581.
func (h *SIDHeader) ChipModels() []ChipModel {
	models := []ChipModel{sidHeaderModel(h.Flags, SID_FLAGS_MODEL1_SHIFT)}
	if h.Sid2Addr != 0 {
		models = append(models, sidHeaderModel(h.Flags, SID_FLAGS_MODEL2_SHIFT))
	}
	if h.Sid3Addr != 0 {
		models = append(models, sidHeaderModel(h.Flags, SID_FLAGS_MODEL3_SHIFT))
	}
	return models
}

// sidHeaderModel decodes a 2-bit model field: 1 = 6581, 2 = 8580,
// 0 (unknown) and 3 (either) fall back to the 6581.
func sidHeaderModel(flags uint16, shift uint) ChipModel {
	if (flags>>shift)&0x03 == 0x02 {
		return SID_MODEL_8580
	}
	return SID_MODEL_6581
}

// NewFiltersForSID creates one independent filter per SID chip in the tune.
func NewFiltersForSID(h *SIDHeader) ([]*Filter, error) {
	models := h.ChipModels()
	filters := make([]*Filter, 0, len(models))
	for _, m := range models {
		f, err := NewFilterModel(m)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

func parsePaddedString(b []byte) string {
	end := len(b)
	for i, c := range b {
		if c == 0 {
			end = i
			break
		}
	}
	return string(b[:end])
}
