// sid_filter.go - MOS 6581/8580 SID filter register file and fixed-point coefficient derivation

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package sidfilter

import (
	"errors"
	"fmt"
	"io"
	"math"
)

var (
	ErrUnknownModel = errors.New("unknown SID chip model")
	ErrCutoffRange  = errors.New("cutoff frequency out of range")
)

// maxCutoffHz is the highest frequency whose w0 fits in an int32.
var maxCutoffHz = math.MaxInt32 / W0_SCALE

// FilterState is the integrator state of the external per-sample loop.
// Reset zeroes it together with the registers.
type FilterState struct {
	Vhp int32 // highpass
	Vbp int32 // bandpass
	Vlp int32 // lowpass
	Vnf int32 // not filtered
}

// Coefficients is a snapshot of the values the integration loop reads.
type Coefficients struct {
	W0       int32 // 2*pi*f0*1.048576, shift out with W0_SHIFT
	W0Ceil1  int32 // w0 limited to 16kHz for single cycle steps
	W0CeilDt int32 // w0 limited to 4kHz for delta_t cycle steps
	Div1024Q int32 // 1024/Q, shift out with Q_SHIFT
}

// Filter is the SID filter register file together with the cutoff lookup for
// the selected chip model. It holds no global state; independent instances
// can model several chips. Filter is not safe for concurrent use.
type Filter struct {
	regs    Registers
	state   FilterState
	enabled bool

	model   ChipModel
	voiceDC int32
	points  []FCPoint

	// fcLUT maps every FC value to w0 for the active calibration points.
	fcLUT [SID_FC_COUNT]int32
	sp    spline

	coeff Coefficients

	debug io.Writer
}

// NewFilter creates an enabled 6581 filter in its reset state.
func NewFilter() *Filter {
	// The built-in tables always validate.
	f, _ := NewFilterModel(SID_MODEL_6581)
	return f
}

// NewFilterModel creates an enabled filter for model in its reset state.
func NewFilterModel(model ChipModel) (*Filter, error) {
	f := &Filter{}
	f.EnableFilter(true)
	if err := f.SetChipModel(model); err != nil {
		return nil, err
	}
	f.Reset()
	return f, nil
}

// SetDebugOutput enables register and configuration logging to w.
// A nil writer turns logging off.
func (f *Filter) SetDebugOutput(w io.Writer) {
	f.debug = w
}

// EnableFilter toggles filtering. Register decoding is unaffected.
func (f *Filter) EnableFilter(enable bool) {
	f.enabled = enable
}

// Enabled reports whether the integration loop should filter.
func (f *Filter) Enabled() bool {
	return f.enabled
}

// SetChipModel selects the DC offset and cutoff curve of model and rebuilds
// the cutoff lookup. Register values are kept; w0 is recomputed.
func (f *Filter) SetChipModel(model ChipModel) error {
	p, ok := profileFor(model)
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownModel, model)
	}
	if err := f.rebuild(p.points); err != nil {
		return err
	}
	f.model = model
	f.voiceDC = p.voiceDC
	f.points = p.points
	if f.debug != nil {
		f.logf("SID FILTER model=%v voiceDC=%d\n", model, f.voiceDC)
	}
	return nil
}

// SetFCPoints replaces the active calibration curve, e.g. with measurements
// from a different chip. The points must be sorted by FC and span exactly
// [0, 2047], and every w0 must fit an int32. On error the previous curve
// stays in use.
func (f *Filter) SetFCPoints(points []FCPoint) error {
	own := append([]FCPoint(nil), points...)
	if err := f.rebuild(own); err != nil {
		return err
	}
	f.points = own
	f.logf("SID FILTER recalibrated with %d points\n", len(own))
	return nil
}

// FCDefault returns a copy of the calibration points in use.
func (f *Filter) FCDefault() []FCPoint {
	return append([]FCPoint(nil), f.points...)
}

// rebuild regenerates fcLUT from points. Validation happens before the
// table is touched.
func (f *Filter) rebuild(points []FCPoint) error {
	if err := validatePoints(points, 0, SID_FC_MAX); err != nil {
		return err
	}
	for i, p := range points {
		if float64(p.Hz) > maxCutoffHz {
			return fmt.Errorf("%w: point %d (fc=%d) at %dHz exceeds %.0fHz",
				ErrCutoffRange, i, p.FC, p.Hz, maxCutoffHz)
		}
	}
	if err := f.sp.interpolate(points, 0, SID_FC_MAX, fcPlotter{lut: &f.fcLUT}); err != nil {
		return err
	}
	f.setW0()
	return nil
}

// fcPlotter stores interpolated cutoff frequencies as w0 values.
type fcPlotter struct {
	lut *[SID_FC_COUNT]int32
}

func (p fcPlotter) Plot(x int, hz float64) {
	// Clamp negative values to zero.
	if hz < 0 {
		hz = 0
	}
	p.lut[x] = hzToW0(hz)
}

// hzToW0 saturates at math.MaxInt32 so spline overshoot cannot wrap.
func hzToW0(hz float64) int32 {
	w0 := math.Round(W0_SCALE * hz)
	if w0 >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(w0)
}

// Reset zeroes the registers and the integrator state. The enable flag and
// chip model are kept.
func (f *Filter) Reset() {
	f.regs = 0
	f.state = FilterState{}

	f.setW0()
	f.setQ()
}

// WriteFCLo sets FC bits 0-2.
func (f *Filter) WriteFCLo(fcLo uint8) {
	f.regs = f.regs.withFCLo(fcLo)
	f.setW0()
}

// WriteFCHi sets FC bits 3-10.
func (f *Filter) WriteFCHi(fcHi uint8) {
	f.regs = f.regs.withFCHi(fcHi)
	f.setW0()
}

// WriteResFilt sets resonance and voice routing.
func (f *Filter) WriteResFilt(resFilt uint8) {
	f.regs = f.regs.withResFilt(resFilt)
	f.setQ()
}

// WriteModeVol sets voice 3 off, the output mode and master volume. These are
// read directly by the mixer so no coefficient changes.
func (f *Filter) WriteModeVol(modeVol uint8) {
	f.regs = f.regs.withModeVol(modeVol)
}

// WriteRegister writes a SID register by offset. Offsets outside the filter
// block are ignored.
func (f *Filter) WriteRegister(reg uint8, value uint8) {
	switch reg {
	case SID_FC_LO:
		f.WriteFCLo(value)
	case SID_FC_HI:
		f.WriteFCHi(value)
	case SID_RES_FILT:
		f.WriteResFilt(value)
	case SID_MODE_VOL:
		f.WriteModeVol(value)
	default:
		return
	}
	if f.debug != nil {
		f.debugRegisterWrite(reg, value)
	}
}

// setW0 sets the filter cutoff frequency.
func (f *Filter) setW0() {
	w0 := f.fcLUT[f.regs.FC()]
	f.coeff.W0 = w0
	f.coeff.W0Ceil1 = min(w0, hzToW0(W0_CEIL_1_HZ))
	f.coeff.W0CeilDt = min(w0, hzToW0(W0_CEIL_DT_HZ))
}

// setQ sets the filter resonance. Q is linear in res over roughly
// [0.707, 1.7].
func (f *Filter) setQ() {
	f.coeff.Div1024Q = div1024Q(f.regs.Res())
}

func div1024Q(res uint8) int32 {
	return int32(math.Round(Q_SCALE / (Q_MIN + float64(res&0x0F)/RES_STEPS)))
}

// Registers returns the decoded register word.
func (f *Filter) Registers() Registers { return f.regs }

// State returns the integrator state for the integration loop to update.
func (f *Filter) State() *FilterState { return &f.state }

// Coefficients returns the current derived coefficients.
func (f *Filter) Coefficients() Coefficients { return f.coeff }

// W0 returns the fixed-point angular cutoff for the current FC.
func (f *Filter) W0() int32 { return f.coeff.W0 }

// W0Ceil1 returns w0 limited for single cycle integration steps.
func (f *Filter) W0Ceil1() int32 { return f.coeff.W0Ceil1 }

// W0CeilDt returns w0 limited for delta_t cycle integration steps.
func (f *Filter) W0CeilDt() int32 { return f.coeff.W0CeilDt }

// Div1024Q returns 1024/Q for the current resonance.
func (f *Filter) Div1024Q() int32 { return f.coeff.Div1024Q }

// Model returns the selected chip model.
func (f *Filter) Model() ChipModel { return f.model }

// VoiceDC returns the per-voice DC offset of the selected chip model.
func (f *Filter) VoiceDC() int32 { return f.voiceDC }

// CutoffLookup returns the w0 value for an arbitrary FC code.
func (f *Filter) CutoffLookup(fc uint16) int32 {
	return f.fcLUT[fc&fcMask]
}

// CutoffHz converts the lookup value for fc back to Hz.
func (f *Filter) CutoffHz(fc uint16) float64 {
	return float64(f.CutoffLookup(fc)) / W0_SCALE
}
