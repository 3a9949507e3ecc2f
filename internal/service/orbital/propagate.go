package orbital

import (
	"math"
	"time"
)

// WGS-84 and EGM constants, km and seconds.
const (
	mu           = 398600.4418
	earthRadius  = 6378.137
	j2           = 1.08262668e-3
	flattening   = 1 / 298.257223563
	secondsInDay = 86400.0
)

// Vector is an Earth-centred inertial position in km.
type Vector struct{ X, Y, Z float64 }

// Norm is the vector length.
func (v Vector) Norm() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

func rad(deg float64) float64 { return deg * math.Pi / 180 }
func deg(r float64) float64   { return r * 180 / math.Pi }

// Propagate advances el to at with two-body motion plus the secular J2
// drift of the node, perigee and mean anomaly. It is good to a few tens of
// kilometres over a day for low orbits, which is plenty for a map marker.
func Propagate(el Elements, at time.Time) Vector {
	var (
		n  = el.MeanMotion * 2 * math.Pi / secondsInDay
		e  = el.Eccentricity
		i  = rad(el.Inclination)
		a  = math.Cbrt(mu / (n * n))
		p  = a * (1 - e*e)
		dt = at.Sub(el.Epoch).Seconds()
	)

	k := 1.5 * j2 * (earthRadius / p) * (earthRadius / p) * n
	sinI2 := math.Sin(i) * math.Sin(i)
	raanDot := -k * math.Cos(i)
	argpDot := k * (2 - 2.5*sinI2)
	mDot := n + k*math.Sqrt(1-e*e)*(1-1.5*sinI2)

	raan := rad(el.RAAN) + raanDot*dt
	argp := rad(el.ArgPerigee) + argpDot*dt
	m := math.Mod(rad(el.MeanAnomaly)+mDot*dt, 2*math.Pi)

	ea := solveKepler(m, e)
	nu := 2 * math.Atan2(math.Sqrt(1+e)*math.Sin(ea/2), math.Sqrt(1-e)*math.Cos(ea/2))
	r := a * (1 - e*math.Cos(ea))
	u := argp + nu

	cosO, sinO := math.Cos(raan), math.Sin(raan)
	cosU, sinU := math.Cos(u), math.Sin(u)
	cosI, sinI := math.Cos(i), math.Sin(i)

	return Vector{
		X: r * (cosO*cosU - sinO*sinU*cosI),
		Y: r * (sinO*cosU + cosO*sinU*cosI),
		Z: r * sinU * sinI,
	}
}

// solveKepler returns the eccentric anomaly for mean anomaly m.
func solveKepler(m, e float64) float64 {
	ea := m
	if e > 0.8 {
		ea = math.Pi
	}
	for k := 0; k < 20; k++ {
		d := (ea - e*math.Sin(ea) - m) / (1 - e*math.Cos(ea))
		ea -= d
		if math.Abs(d) < 1e-12 {
			break
		}
	}
	return ea
}

// GMST is the Greenwich mean sidereal angle in radians at t.
func GMST(t time.Time) float64 {
	jd := float64(t.UnixNano())/1e9/secondsInDay + 2440587.5
	d := jd - 2451545.0
	c := d / 36525
	g := 280.46061837 + 360.98564736629*d + 0.000387933*c*c - c*c*c/38710000
	g = math.Mod(g, 360)
	if g < 0 {
		g += 360
	}
	return rad(g)
}

// Geodetic converts an inertial position at t to WGS-84 latitude and
// longitude in degrees, plus altitude in km.
func Geodetic(v Vector, t time.Time) (lat, lon, alt float64) {
	theta := GMST(t)
	lon = math.Atan2(v.Y, v.X) - theta
	lon = math.Mod(lon+math.Pi, 2*math.Pi)
	if lon < 0 {
		lon += 2 * math.Pi
	}
	lon -= math.Pi

	e2 := flattening * (2 - flattening)
	rho := math.Hypot(v.X, v.Y)
	phi := math.Atan2(v.Z, rho*(1-e2))
	var nRad float64
	for k := 0; k < 6; k++ {
		s := math.Sin(phi)
		nRad = earthRadius / math.Sqrt(1-e2*s*s)
		alt = rho/math.Cos(phi) - nRad
		phi = math.Atan2(v.Z, rho*(1-e2*nRad/(nRad+alt)))
	}
	return deg(phi), deg(lon), alt
}
