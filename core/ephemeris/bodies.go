package ephemeris

import "math"

const (
	auKm = 149597870.7

	// general precession in longitude, degrees per Julian century
	precessionRate = 1.396971
)

func sunPosition(jd float64) (float64, float64, float64) {
	T := Centuries(jd)
	L0 := 280.46646 + 36000.76983*T + 0.0003032*T*T
	M := 357.52911 + 35999.05029*T - 0.0001537*T*T
	C := (1.914602-0.004817*T-0.000014*T*T)*sind(M) +
		(0.019993-0.000101*T)*sind(2*M) +
		0.000289*sind(3*M)
	e := 0.016708634 - 0.000042037*T - 0.0000001267*T*T
	nu := M + C
	R := 1.000001018 * (1 - e*e) / (1 + e*cosd(nu))

	omega := 125.04 - 1934.136*T
	lon := L0 + C - 0.00569 - 0.00478*sind(omega)
	return lon, 0, R
}

// lunarTerm is one periodic term of the lunar series: multiples of
// D, M, M', F and the amplitude.
type lunarTerm struct {
	d, m, mp, f float64
	amp         float64
}

var moonLongitudeTerms = []lunarTerm{
	{0, 0, 1, 0, 6.288774},
	{2, 0, -1, 0, 1.274027},
	{2, 0, 0, 0, 0.658314},
	{0, 0, 2, 0, 0.213618},
	{0, 1, 0, 0, -0.185116},
	{0, 0, 0, 2, -0.114332},
	{2, 0, -2, 0, 0.058793},
	{2, -1, -1, 0, 0.057066},
	{2, 0, 1, 0, 0.053322},
	{2, -1, 0, 0, 0.045758},
	{0, 1, -1, 0, -0.040923},
	{1, 0, 0, 0, -0.034720},
	{0, 1, 1, 0, -0.030383},
	{2, 0, 0, -2, 0.015327},
	{0, 0, 1, 2, -0.012528},
	{0, 0, 1, -2, 0.010980},
	{4, 0, -1, 0, 0.010675},
	{0, 0, 3, 0, 0.010034},
	{4, 0, -2, 0, 0.008548},
	{2, 1, -1, 0, -0.007888},
	{2, 1, 0, 0, -0.006766},
	{1, 0, -1, 0, -0.005163},
	{1, 1, 0, 0, 0.004987},
	{2, -1, 1, 0, 0.004036},
	{2, 0, 2, 0, 0.003994},
}

var moonLatitudeTerms = []lunarTerm{
	{0, 0, 0, 1, 5.128122},
	{0, 0, 1, 1, 0.280602},
	{0, 0, 1, -1, 0.277693},
	{2, 0, 0, -1, 0.173237},
	{2, 0, -1, 1, 0.055413},
	{2, 0, -1, -1, 0.046271},
	{2, 0, 0, 1, 0.032573},
	{0, 0, 2, 1, 0.017198},
	{2, 0, 1, -1, 0.009266},
	{0, 0, 2, -1, 0.008822},
}

var moonDistanceTerms = []lunarTerm{
	{0, 0, 1, 0, -20905.355},
	{2, 0, -1, 0, -3699.111},
	{2, 0, 0, 0, -2955.968},
	{0, 0, 2, 0, -569.925},
	{0, 1, 0, 0, 48.888},
	{2, 0, -2, 0, 246.158},
	{2, -1, -1, 0, -152.138},
	{2, 0, 1, 0, -170.733},
	{2, -1, 0, 0, -204.586},
	{0, 1, -1, 0, -129.620},
	{1, 0, 0, 0, 108.743},
	{0, 1, 1, 0, 104.755},
}

type lunarArgs struct {
	L, D, M, Mp, F float64
}

func moonArguments(T float64) lunarArgs {
	return lunarArgs{
		L:  218.3164477 + 481267.88123421*T - 0.0015786*T*T,
		D:  297.8501921 + 445267.1114034*T - 0.0018819*T*T,
		M:  357.5291092 + 35999.0502909*T - 0.0001536*T*T,
		Mp: 134.9633964 + 477198.8675055*T + 0.0087414*T*T,
		F:  93.2720950 + 483202.0175233*T - 0.0036539*T*T,
	}
}

func (a lunarArgs) angle(t lunarTerm) float64 {
	return t.d*a.D + t.m*a.M + t.mp*a.Mp + t.f*a.F
}

func moonPosition(jd float64) (float64, float64, float64) {
	a := moonArguments(Centuries(jd))

	lon := a.L
	for _, t := range moonLongitudeTerms {
		lon += t.amp * sind(a.angle(t))
	}
	lat := 0.0
	for _, t := range moonLatitudeTerms {
		lat += t.amp * sind(a.angle(t))
	}
	km := 385000.56
	for _, t := range moonDistanceTerms {
		km += t.amp * cosd(a.angle(t))
	}
	return lon, lat, km / auKm
}

func meanNode(jd float64) (float64, float64, float64) {
	T := Centuries(jd)
	return 125.0445479 - 1934.1362891*T + 0.0020754*T*T, 0, 0
}

func trueNode(jd float64) (float64, float64, float64) {
	a := moonArguments(Centuries(jd))
	lon, _, _ := meanNode(jd)
	lon += -1.4979*sind(2*(a.D-a.F)) -
		0.1500*sind(a.M) -
		0.1226*sind(2*a.D) +
		0.1176*sind(2*a.F) -
		0.0801*sind(2*(a.Mp-a.F))
	return lon, 0, 0
}

// meanLilith is the mean lunar apogee
func meanLilith(jd float64) (float64, float64, float64) {
	T := Centuries(jd)
	perigee := 83.3532465 + 4069.0137287*T - 0.0103200*T*T
	return perigee + 180, 0, 0
}

// orbitalElements are J2000 mean elements with their rates per century:
// semi-major axis (AU), eccentricity, inclination, mean longitude,
// longitude of perihelion and longitude of the ascending node (degrees).
type orbitalElements struct {
	a, e, i, L, peri, node float64

	aDot, eDot, iDot, LDot, periDot, nodeDot float64
}

func (el orbitalElements) at(T float64) orbitalElements {
	return orbitalElements{
		a:    el.a + el.aDot*T,
		e:    el.e + el.eDot*T,
		i:    el.i + el.iDot*T,
		L:    el.L + el.LDot*T,
		peri: el.peri + el.periDot*T,
		node: el.node + el.nodeDot*T,
	}
}

var earthElements = orbitalElements{
	a: 1.00000261, e: 0.01671123, i: -0.00001531, L: 100.46457166, peri: 102.93768193, node: 0,
	aDot: 0.00000562, eDot: -0.00004392, iDot: -0.01294668, LDot: 35999.37244981, periDot: 0.32327364, nodeDot: 0,
}

var planetElements = map[string]orbitalElements{
	Mercury: {
		a: 0.38709927, e: 0.20563593, i: 7.00497902, L: 252.25032350, peri: 77.45779628, node: 48.33076593,
		aDot: 0.00000037, eDot: 0.00001906, iDot: -0.00594749, LDot: 149472.67411175, periDot: 0.16047689, nodeDot: -0.12534081,
	},
	Venus: {
		a: 0.72333566, e: 0.00677672, i: 3.39467605, L: 181.97909950, peri: 131.60246718, node: 76.67984255,
		aDot: 0.00000390, eDot: -0.00004107, iDot: -0.00078890, LDot: 58517.81538729, periDot: 0.00268329, nodeDot: -0.27769418,
	},
	Mars: {
		a: 1.52371034, e: 0.09339410, i: 1.84969142, L: -4.55343205, peri: -23.94362959, node: 49.55953891,
		aDot: 0.00001847, eDot: 0.00007882, iDot: -0.00813131, LDot: 19140.30268499, periDot: 0.44441088, nodeDot: -0.29257343,
	},
	Jupiter: {
		a: 5.20288700, e: 0.04838624, i: 1.30439695, L: 34.39644051, peri: 14.72847983, node: 100.47390909,
		aDot: -0.00011607, eDot: -0.00013253, iDot: -0.00183714, LDot: 3034.74612775, periDot: 0.21252668, nodeDot: 0.20469106,
	},
	Saturn: {
		a: 9.53667594, e: 0.05386179, i: 2.48599187, L: 49.95424423, peri: 92.59887831, node: 113.66242448,
		aDot: -0.00125060, eDot: -0.00050991, iDot: 0.00193609, LDot: 1222.49362201, periDot: -0.41897216, nodeDot: -0.28867794,
	},
	Uranus: {
		a: 19.18916464, e: 0.04725744, i: 0.77263783, L: 313.23810451, peri: 170.95427630, node: 74.01692503,
		aDot: -0.00196176, eDot: -0.00004397, iDot: -0.00242939, LDot: 428.48202785, periDot: 0.40805281, nodeDot: 0.04240589,
	},
	Neptune: {
		a: 30.06992276, e: 0.00859048, i: 1.77004347, L: -55.12002969, peri: 44.96476227, node: 131.78422574,
		aDot: 0.00026291, eDot: 0.00005105, iDot: 0.00035372, LDot: 218.45945325, periDot: -0.32241464, nodeDot: -0.00508664,
	},
	Pluto: {
		a: 39.48211675, e: 0.24882730, i: 17.14001206, L: 238.92903833, peri: 224.06891629, node: 110.30393684,
		aDot: -0.00031596, eDot: 0.00005170, iDot: 0.00004818, LDot: 145.20780515, periDot: -0.04062942, nodeDot: -0.01183482,
	},
}

// heliocentric returns J2000 ecliptic rectangular coordinates in AU
func heliocentric(el orbitalElements, T float64) (x, y, z float64) {
	c := el.at(T)
	omega := c.peri - c.node
	M := math.Mod(c.L-c.peri, 360) * math.Pi / 180
	E := solveKepler(M, c.e)

	xp := c.a * (math.Cos(E) - c.e)
	yp := c.a * math.Sqrt(1-c.e*c.e) * math.Sin(E)

	cw, sw := cosd(omega), sind(omega)
	cn, sn := cosd(c.node), sind(c.node)
	ci, si := cosd(c.i), sind(c.i)

	x = (cw*cn-sw*sn*ci)*xp + (-sw*cn-cw*sn*ci)*yp
	y = (cw*sn+sw*cn*ci)*xp + (-sw*sn+cw*cn*ci)*yp
	z = (sw*si)*xp + (cw*si)*yp
	return x, y, z
}

// solveKepler solves E - e sin E = M by Newton iteration (radians)
func solveKepler(M, e float64) float64 {
	E := M + e*math.Sin(M)
	for i := 0; i < 30; i++ {
		dE := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= dE
		if math.Abs(dE) < 1e-12 {
			break
		}
	}
	return E
}

func planetPosition(el orbitalElements, jd float64) (float64, float64, float64) {
	T := Centuries(jd)
	px, py, pz := heliocentric(el, T)
	ex, ey, ez := heliocentric(earthElements, T)
	x, y, z := px-ex, py-ey, pz-ez

	lon := atan2d(y, x) + precessionRate*T
	lat := atan2d(z, math.Hypot(x, y))
	return lon, lat, math.Sqrt(x*x + y*y + z*z)
}
