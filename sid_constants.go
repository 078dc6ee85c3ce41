// sid_constants.go - MOS 6581/8580 SID filter register offsets and fixed-point constants

package sidfilter

import "math"

// SID filter register offsets (relative to the chip base, e.g. $D400 on a C64)
const (
	SID_FC_LO    = 0x15 // Filter cutoff low (bits 0-2 only)
	SID_FC_HI    = 0x16 // Filter cutoff high byte
	SID_RES_FILT = 0x17 // Filter resonance (bits 4-7) and routing (bits 0-3)
	SID_MODE_VOL = 0x18 // Volume (bits 0-3), filter mode (bits 4-6), voice 3 off (bit 7)
)

// RES_FILT routing bits
const (
	SID_FILT_1   = 0x01 // Route voice 1 through filter
	SID_FILT_2   = 0x02 // Route voice 2 through filter
	SID_FILT_3   = 0x04 // Route voice 3 through filter
	SID_FILT_EX  = 0x08 // Route external input through filter
	SID_FILT_RES = 0xF0 // Resonance
)

// MODE_VOL bits
const (
	SID_MODE_LP   = 0x10 // Low-pass output enable
	SID_MODE_BP   = 0x20 // Band-pass output enable
	SID_MODE_HP   = 0x40 // High-pass output enable
	SID_3OFF      = 0x80 // Disconnect voice 3 from the mixer
	SID_MODE_VOLM = 0x0F // Master volume
	SID_MODE_MASK = SID_MODE_LP | SID_MODE_BP | SID_MODE_HP
)

// FC_LO/FC_HI bits
const (
	SID_FC_LO_BITS = 3
	SID_FC_LO_MASK = 1<<SID_FC_LO_BITS - 1 // Cutoff bits 0-2
	SID_FC_HI_MASK = 0xFF                  // Cutoff bits 3-10
)

// Cutoff register range
const (
	SID_FC_BITS  = 11
	SID_FC_COUNT = 1 << SID_FC_BITS // 2048 codes
	SID_FC_MAX   = SID_FC_COUNT - 1
)

// Fixed-point scaling.
//
// w0 is stored as 2*pi*f*1.048576 so the integration loop can divide by
// 1 000 000 with a right shift of 20 (2^20 = 1048576). The Q term is stored
// as 1024/Q and shifted out by 10.
const (
	W0_SHIFT       = 20
	Q_SHIFT        = 10
	W0_SCALE       = 2 * math.Pi * 1.048576
	Q_SCALE        = 1 << Q_SHIFT
	Q_MIN          = 0.707 // Q at resonance 0
	RES_STEPS      = 0x0F
	W0_CEIL_1_HZ   = 16000 // keeps a 1 cycle filter step stable
	W0_CEIL_DT_HZ  = 4000  // keeps a delta_t cycle filter step stable
	VOICE_DC_6581  = -4095 * 255 / 4
	VOICE_DC_8580  = 0
	SID_VOICE_MASK = SID_FILT_1 | SID_FILT_2 | SID_FILT_3
)
