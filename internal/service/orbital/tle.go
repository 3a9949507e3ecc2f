package orbital

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrChecksum is returned when a TLE line fails its modulo-10 checksum.
var ErrChecksum = errors.New("tle checksum mismatch")

// Elements are the mean orbital elements of a two-line element set.
// Angles are in degrees, mean motion in revolutions per day.
type Elements struct {
	Satellite     string
	Epoch         time.Time
	Inclination   float64
	RAAN          float64
	Eccentricity  float64
	ArgPerigee    float64
	MeanAnomaly   float64
	MeanMotion    float64
	RevolutionNum int
}

// ParseTLE reads the fixed-column NORAD format, verifying both checksums.
func ParseTLE(line1, line2 string) (Elements, error) {
	line1 = strings.TrimRight(line1, " \r\n")
	line2 = strings.TrimRight(line2, " \r\n")

	if err := checkLine(line1, '1'); err != nil {
		return Elements{}, fmt.Errorf("line 1: %w", err)
	}
	if err := checkLine(line2, '2'); err != nil {
		return Elements{}, fmt.Errorf("line 2: %w", err)
	}
	if col(line1, 3, 7) != col(line2, 3, 7) {
		return Elements{}, fmt.Errorf("satellite number differs between lines")
	}

	var (
		el  = Elements{Satellite: col(line1, 3, 7)}
		p   = fieldParser{}
		yy  = p.int(line1, 19, 20, "epoch year")
		day = p.float(line1, 21, 32, "epoch day")
	)
	el.Inclination = p.float(line2, 9, 16, "inclination")
	el.RAAN = p.float(line2, 18, 25, "raan")
	el.Eccentricity = p.float("0."+col(line2, 27, 33), 1, 9, "eccentricity")
	el.ArgPerigee = p.float(line2, 35, 42, "argument of perigee")
	el.MeanAnomaly = p.float(line2, 44, 51, "mean anomaly")
	el.MeanMotion = p.float(line2, 53, 63, "mean motion")
	if rev := col(line2, 64, 68); rev != "" {
		el.RevolutionNum = p.int(line2, 64, 68, "revolution")
	}
	if p.err != nil {
		return Elements{}, p.err
	}
	if el.MeanMotion <= 0 {
		return Elements{}, fmt.Errorf("mean motion must be positive")
	}
	if el.Eccentricity >= 1 {
		return Elements{}, fmt.Errorf("eccentricity %.7f is not elliptical", el.Eccentricity)
	}

	year := 2000 + yy
	if yy >= 57 {
		year = 1900 + yy
	}
	el.Epoch = time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).
		Add(time.Duration((day - 1) * float64(24*time.Hour)))
	return el, nil
}

func checkLine(line string, num byte) error {
	if len(line) != 69 {
		return fmt.Errorf("want 69 columns, got %d", len(line))
	}
	if line[0] != num {
		return fmt.Errorf("want line number %c, got %c", num, line[0])
	}
	want := int(line[68] - '0')
	if want < 0 || want > 9 {
		return fmt.Errorf("checksum column is not a digit")
	}
	if got := Checksum(line[:68]); got != want {
		return fmt.Errorf("%w: computed %d, line says %d", ErrChecksum, got, want)
	}
	return nil
}

// Checksum sums the digits of s, counting '-' as 1, modulo 10.
func Checksum(s string) int {
	sum := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return sum % 10
}

// col returns the trimmed 1-indexed inclusive column range [from, to].
func col(s string, from, to int) string {
	if from > len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return strings.TrimSpace(s[from-1 : to])
}

// fieldParser keeps the first parse error so a TLE reads top to bottom.
type fieldParser struct{ err error }

func (p *fieldParser) float(s string, from, to int, name string) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(col(s, from, to), 64)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", name, err)
	}
	return v
}

func (p *fieldParser) int(s string, from, to int, name string) int {
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(col(s, from, to))
	if err != nil {
		p.err = fmt.Errorf("%s: %w", name, err)
	}
	return v
}
