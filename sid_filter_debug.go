// sid_filter_debug.go - Debug logging for SID filter register writes

package sidfilter

import "fmt"

func (f *Filter) logf(format string, args ...any) {
	if f.debug == nil {
		return
	}
	fmt.Fprintf(f.debug, format, args...)
}

func (f *Filter) debugRegisterWrite(reg uint8, value uint8) {
	r := f.regs
	switch reg {
	case SID_FC_LO, SID_FC_HI:
		f.logf("SID FILTER reg=0x%02X val=0x%02X cutoff=%d w0=%d (%.0fHz)\n",
			reg, value, r.FC(), f.coeff.W0, f.CutoffHz(r.FC()))
	case SID_RES_FILT:
		f.logf("SID FILTER reg=0x%02X val=0x%02X res=%d filt=0x%X ext=%t 1024/Q=%d\n",
			reg, value, r.Res(), r.Filt(), r.FiltEx(), f.coeff.Div1024Q)
	case SID_MODE_VOL:
		f.logf("SID FILTER reg=0x%02X val=0x%02X mode=0x%X vol=%d 3off=%t\n",
			reg, value, r.Mode(), r.Volume(), r.Voice3Off())
	}
}
