// sid_filter_regs.go - Filter register word layout and SID write decoding

package sidfilter

import "math/bits"

// regField describes where a register write's bits come from (mask after
// shifting the written byte right by shift) and where they are stored in the
// Registers word (pos). The width is the width of mask.
type regField struct {
	shift uint8 // source bit offset in the written byte
	mask  uint8 // source mask, applied after the shift
	pos   uint8 // destination bit offset in Registers
}

func (f regField) decode(value uint8) uint32 {
	return uint32((value >> f.shift) & f.mask)
}

func (f regField) get(r Registers) uint32 {
	return (uint32(r) >> f.pos) & uint32(f.mask)
}

func (f regField) set(r Registers, v uint32) Registers {
	m := uint32(f.mask) << f.pos
	return Registers(uint32(r)&^m | (v<<f.pos)&m)
}

// regFieldFor builds the field for the contiguous register bits in srcMask,
// stored at pos in the Registers word.
func regFieldFor(srcMask uint8, pos uint8) regField {
	shift := uint8(bits.TrailingZeros8(srcMask))
	return regField{shift: shift, mask: srcMask >> shift, pos: pos}
}

// Wire format of the four filter registers. FC_HI lands in FC bits 3-10,
// so both FC fields share the 11-bit cutoff slot at bit 0.
var (
	fieldFCLo      = regFieldFor(SID_FC_LO_MASK, 0)              // FC_LO bits 0-2 -> FC bits 0-2
	fieldFCHi      = regFieldFor(SID_FC_HI_MASK, SID_FC_LO_BITS) // FC_HI bits 0-7 -> FC bits 3-10
	fieldRes       = regFieldFor(SID_FILT_RES, 11)               // RES_FILT bits 4-7
	fieldFilt      = regFieldFor(SID_VOICE_MASK, 15)             // RES_FILT bits 0-2
	fieldFiltEx    = regFieldFor(SID_FILT_EX, 18)                // RES_FILT bit 3
	fieldVoice3Off = regFieldFor(SID_3OFF, 19)                   // MODE_VOL bit 7
	fieldMode      = regFieldFor(SID_MODE_MASK, 20)              // MODE_VOL bits 4-6
	fieldVolume    = regFieldFor(SID_MODE_VOLM, 23)              // MODE_VOL bits 0-3
)

// voiceFiltBits maps voice 0-2 to its RES_FILT routing bit.
var voiceFiltBits = [3]uint8{SID_FILT_1, SID_FILT_2, SID_FILT_3}

// fcMask covers the combined 11-bit cutoff slot.
const fcMask = SID_FC_COUNT - 1

// Registers holds the decoded filter registers in a single word.
type Registers uint32

// FC returns the 11-bit cutoff code.
func (r Registers) FC() uint16 { return uint16(uint32(r) & fcMask) }

// Res returns the 4-bit resonance code.
func (r Registers) Res() uint8 { return uint8(fieldRes.get(r)) }

// Filt returns the voice 1-3 routing bits (bit 0 = voice 1).
func (r Registers) Filt() uint8 { return uint8(fieldFilt.get(r)) }

// FiltEx reports whether the external input is routed through the filter.
func (r Registers) FiltEx() bool { return fieldFiltEx.get(r) != 0 }

// Voice3Off reports whether voice 3 is disconnected from the mixer.
func (r Registers) Voice3Off() bool { return fieldVoice3Off.get(r) != 0 }

// Mode returns the HP/BP/LP bits (bit 0 = LP, bit 1 = BP, bit 2 = HP).
func (r Registers) Mode() uint8 { return uint8(fieldMode.get(r)) }

func (r Registers) LP() bool { return r.modeBit(SID_MODE_LP) }
func (r Registers) BP() bool { return r.modeBit(SID_MODE_BP) }
func (r Registers) HP() bool { return r.modeBit(SID_MODE_HP) }

// modeBit tests a MODE_VOL output bit against the stored mode field.
func (r Registers) modeBit(bit uint8) bool {
	return r.Mode()&(bit>>fieldMode.shift) != 0
}

// Volume returns the 4-bit master volume.
func (r Registers) Volume() uint8 { return uint8(fieldVolume.get(r)) }

// VoiceFiltered reports whether voice (0-2) is routed through the filter.
func (r Registers) VoiceFiltered(voice int) bool {
	if voice < 0 || voice >= len(voiceFiltBits) {
		return false
	}
	return r.Filt()&(voiceFiltBits[voice]>>fieldFilt.shift) != 0
}

// Voice3Muted reports whether the mixer drops voice 3. Voice 3 is not
// silenced by Voice3Off while it is filtered.
func (r Registers) Voice3Muted() bool {
	return r.Voice3Off() && !r.VoiceFiltered(2)
}

func (r Registers) withFCLo(value uint8) Registers {
	return fieldFCLo.set(r, fieldFCLo.decode(value))
}

func (r Registers) withFCHi(value uint8) Registers {
	return fieldFCHi.set(r, fieldFCHi.decode(value))
}

func (r Registers) withResFilt(value uint8) Registers {
	r = fieldRes.set(r, fieldRes.decode(value))
	r = fieldFilt.set(r, fieldFilt.decode(value))
	return fieldFiltEx.set(r, fieldFiltEx.decode(value))
}

func (r Registers) withModeVol(value uint8) Registers {
	r = fieldVoice3Off.set(r, fieldVoice3Off.decode(value))
	r = fieldMode.set(r, fieldMode.decode(value))
	return fieldVolume.set(r, fieldVolume.decode(value))
}
