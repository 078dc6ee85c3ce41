package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/intuitionamiga/sidfilter"
)

type options struct {
	model      string
	sidPath    string
	pointsPath string
	step       int
	fc         int
	res        int
	debug      bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var opts options
	flagSet := flag.NewFlagSet("sidfc", flag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.model, "model", "6581", "SID chip model (6581 or 8580)")
	flagSet.StringVar(&opts.sidPath, "sid", "", "Take the chip model(s) from a PSID/RSID file")
	flagSet.StringVar(&opts.pointsPath, "points", "", "Calibration points file (\"fc hz\" per line)")
	flagSet.IntVar(&opts.step, "step", 64, "FC step between table rows")
	flagSet.IntVar(&opts.fc, "fc", -1, "Show coefficients for a single FC value (0-2047)")
	flagSet.IntVar(&opts.res, "res", 0, "Resonance (0-15) used with -fc")
	flagSet.BoolVar(&opts.debug, "debug", false, "Log filter register writes to stderr")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage: sidfc [options]\n\nPrints the SID filter FC to cutoff mapping and derived coefficients.\n\nOptions:\n")
		flagSet.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  sidfc -model 8580 -step 128\n")
		fmt.Fprintf(stderr, "  sidfc -sid Commando.sid -fc 1024 -res 15\n")
		fmt.Fprintf(stderr, "  sidfc -points my6581.txt\n")
	}
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if opts.step <= 0 || opts.step > sidfilter.SID_FC_MAX {
		return fmt.Errorf("-step must be between 1 and %d", sidfilter.SID_FC_MAX)
	}
	if opts.fc > sidfilter.SID_FC_MAX {
		return fmt.Errorf("-fc must be between 0 and %d", sidfilter.SID_FC_MAX)
	}
	if opts.res < 0 || opts.res > 15 {
		return fmt.Errorf("-res must be between 0 and 15")
	}

	filters, err := buildFilters(opts, stderr)
	if err != nil {
		return err
	}

	width := terminalWidth(stdout)
	for i, f := range filters {
		if len(filters) > 1 {
			fmt.Fprintf(stdout, "# SID %d\n", i+1)
		}
		if opts.fc >= 0 {
			printCoefficients(stdout, f, uint16(opts.fc), uint8(opts.res))
			continue
		}
		printTable(stdout, f, collectRows(f, opts.step), width)
	}
	return nil
}

// buildFilters creates one filter per chip, applying -sid and -points.
func buildFilters(opts options, stderr io.Writer) ([]*sidfilter.Filter, error) {
	var filters []*sidfilter.Filter
	if opts.sidPath != "" {
		header, err := sidfilter.ParseSIDFile(opts.sidPath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opts.sidPath, err)
		}
		filters, err = sidfilter.NewFiltersForSID(header)
		if err != nil {
			return nil, err
		}
	} else {
		model, err := sidfilter.ParseChipModel(opts.model)
		if err != nil {
			return nil, err
		}
		f, err := sidfilter.NewFilterModel(model)
		if err != nil {
			return nil, err
		}
		filters = []*sidfilter.Filter{f}
	}

	if opts.pointsPath != "" {
		file, err := os.Open(opts.pointsPath)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		points, err := parsePoints(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opts.pointsPath, err)
		}
		for _, f := range filters {
			if err := f.SetFCPoints(points); err != nil {
				return nil, fmt.Errorf("%s: %w", opts.pointsPath, err)
			}
		}
	}

	if opts.debug {
		for _, f := range filters {
			f.SetDebugOutput(stderr)
		}
	}
	return filters, nil
}

// parsePoints reads "fc hz" pairs, one per line. Commas are accepted as
// separators and '#' starts a comment.
func parsePoints(r io.Reader) ([]sidfilter.FCPoint, error) {
	var points []sidfilter.FCPoint
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"fc hz\", got %q", line, strings.TrimSpace(text))
		}
		fc, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid fc: %w", line, err)
		}
		hz, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid frequency: %w", line, err)
		}
		points = append(points, sidfilter.FCPoint{FC: fc, Hz: hz})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

type row struct {
	fc uint16
	hz float64
	w0 int32
}

// collectRows samples the curve every step codes, always ending on 2047.
func collectRows(f *sidfilter.Filter, step int) []row {
	var rows []row
	for fc := 0; fc <= sidfilter.SID_FC_MAX; fc += step {
		rows = append(rows, row{uint16(fc), f.CutoffHz(uint16(fc)), f.CutoffLookup(uint16(fc))})
	}
	if rows[len(rows)-1].fc != sidfilter.SID_FC_MAX {
		fc := uint16(sidfilter.SID_FC_MAX)
		rows = append(rows, row{fc, f.CutoffHz(fc), f.CutoffLookup(fc)})
	}
	return rows
}

func printCoefficients(w io.Writer, f *sidfilter.Filter, fc uint16, res uint8) {
	f.WriteRegister(sidfilter.SID_FC_LO, uint8(fc&0x07))
	f.WriteRegister(sidfilter.SID_FC_HI, uint8(fc>>3))
	f.WriteRegister(sidfilter.SID_RES_FILT, res<<4)
	c := f.Coefficients()
	fmt.Fprintf(w, "model    %v\n", f.Model())
	fmt.Fprintf(w, "fc       %d (FCHI=0x%02X FCLO=0x%02X)\n", fc, fc>>3, fc&0x07)
	fmt.Fprintf(w, "cutoff   %.1fHz\n", f.CutoffHz(fc))
	fmt.Fprintf(w, "w0       %d\n", c.W0)
	fmt.Fprintf(w, "w0 1cyc  %d\n", c.W0Ceil1)
	fmt.Fprintf(w, "w0 dt    %d\n", c.W0CeilDt)
	fmt.Fprintf(w, "res      %d\n", res)
	fmt.Fprintf(w, "1024/Q   %d\n", c.Div1024Q)
	fmt.Fprintf(w, "voice DC %d\n", f.VoiceDC())
}

const cellWidth = 24 // "2047  18000.0Hz  118591"

// printTable writes tab separated rows, or a column layout when width > 0.
func printTable(w io.Writer, f *sidfilter.Filter, rows []row, width int) {
	fmt.Fprintf(w, "# %v voiceDC=%d\n", f.Model(), f.VoiceDC())
	if width <= 0 {
		fmt.Fprintf(w, "fc\thz\tw0\n")
		for _, r := range rows {
			fmt.Fprintf(w, "%d\t%.1f\t%d\n", r.fc, r.hz, r.w0)
		}
		return
	}
	for _, line := range formatColumns(rows, width) {
		fmt.Fprintln(w, line)
	}
}

// formatColumns lays rows out column-major in as many columns as fit.
func formatColumns(rows []row, width int) []string {
	cols := (width + 2) / (cellWidth + 2)
	if cols < 1 {
		cols = 1
	}
	lines := (len(rows) + cols - 1) / cols
	out := make([]string, 0, lines)
	for l := 0; l < lines; l++ {
		var sb strings.Builder
		for c := 0; c < cols; c++ {
			i := c*lines + l
			if i >= len(rows) {
				break
			}
			if c > 0 {
				sb.WriteString("  ")
			}
			fmt.Fprintf(&sb, "%4d %9.1fHz %7d", rows[i].fc, rows[i].hz, rows[i].w0)
		}
		out = append(out, sb.String())
	}
	return out
}

// terminalWidth returns the width of w if it is a terminal, otherwise 0.
func terminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok {
		return 0
	}
	fd := int(file.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}
