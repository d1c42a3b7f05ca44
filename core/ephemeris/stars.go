package ephemeris

import (
	"sort"

	"astrochart/core/zodiac"
)

// PrecessionPerYear is the annual general precession in longitude (50.29″)
const PrecessionPerYear = 50.29 / 3600.0

// Star is a fixed star or cluster with J2000 ecliptic coordinates
type Star struct {
	Name            string
	TraditionalName string
	Constellation   string
	Messier         string
	Longitude       float64
	Latitude        float64
	Magnitude       float64
	Nature          string
	Meaning         string
	Cluster         bool
}

// StarCatalog is a read-only set of stars and clusters
type StarCatalog struct {
	byName map[string]Star
	order  []string
}

// NewStarCatalog indexes stars by name; later duplicates replace earlier ones
func NewStarCatalog(stars []Star) *StarCatalog {
	c := &StarCatalog{byName: make(map[string]Star, len(stars))}
	for _, s := range stars {
		if _, dup := c.byName[s.Name]; !dup {
			c.order = append(c.order, s.Name)
		}
		c.byName[s.Name] = s
	}
	return c
}

// Lookup finds a star or cluster by name
func (c *StarCatalog) Lookup(name string) (Star, bool) {
	s, ok := c.byName[name]
	return s, ok
}

// Stars returns the stars (not clusters) brightest first
func (c *StarCatalog) Stars() []Star {
	var out []Star
	for _, n := range c.order {
		if s := c.byName[n]; !s.Cluster {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Magnitude < out[j].Magnitude })
	return out
}

// Clusters returns the clusters in catalog order
func (c *StarCatalog) Clusters() []Star {
	var out []Star
	for _, n := range c.order {
		if s := c.byName[n]; s.Cluster {
			out = append(out, s)
		}
	}
	return out
}

// Precess carries a J2000 longitude to the equinox of jd
func Precess(lonJ2000, jd float64) float64 {
	return zodiac.Normalize(lonJ2000 + PrecessionPerYear*YearsSinceJ2000(jd))
}

// DefaultStars returns the built-in catalog of major stars and clusters
func DefaultStars() *StarCatalog {
	return NewStarCatalog(defaultStars)
}

var defaultStars = []Star{
	{Name: "Regulus", TraditionalName: "Regulus", Constellation: "Leo", Longitude: 149.656, Latitude: 0.465, Magnitude: 1.35,
		Nature: "Mars-Jupiter", Meaning: "Royal star - Success, leadership, honor, courage"},
	{Name: "Spica", TraditionalName: "Spica", Constellation: "Virgo", Longitude: 203.987, Latitude: -2.046, Magnitude: 0.98,
		Nature: "Venus-Mars", Meaning: "Abundance, protection, knowledge, gifts"},
	{Name: "Algol", TraditionalName: "Algol", Constellation: "Perseus", Longitude: 55.995, Latitude: 22.416, Magnitude: 2.12,
		Nature: "Saturn-Jupiter", Meaning: "Demon star - Danger, transformation, power, intensity"},
	{Name: "Aldebaran", TraditionalName: "Aldebaran", Constellation: "Taurus", Longitude: 69.792, Latitude: -5.469, Magnitude: 0.85,
		Nature: "Mars", Meaning: "Bull's eye - Courage, honor, warrior energy, eloquence"},
	{Name: "Antares", TraditionalName: "Antares", Constellation: "Scorpio", Longitude: 249.534, Latitude: -4.554, Magnitude: 1.09,
		Nature: "Mars-Jupiter", Meaning: "Heart of Scorpion - Passion, war, danger, obsession"},
	{Name: "Sirius", TraditionalName: "Sirius", Constellation: "Canis Major", Longitude: 104.075, Latitude: -39.598, Magnitude: -1.46,
		Nature: "Jupiter-Mars", Meaning: "Dog star - Fame, power, loyalty, heat, ambition"},
	{Name: "Procyon", TraditionalName: "Procyon", Constellation: "Canis Minor", Longitude: 114.985, Latitude: -16.039, Magnitude: 0.34,
		Nature: "Mercury-Mars", Meaning: "Activity, sudden change, swiftness, rashness"},
	{Name: "Betelgeuse", TraditionalName: "Betelgeuse", Constellation: "Orion", Longitude: 88.646, Latitude: -16.009, Magnitude: 0.50,
		Nature: "Mars-Mercury", Meaning: "War, victory, rapid success, everlasting fame"},
	{Name: "Rigel", TraditionalName: "Rigel", Constellation: "Orion", Longitude: 78.628, Latitude: -31.067, Magnitude: 0.13,
		Nature: "Jupiter-Mars", Meaning: "Knowledge, arts, success, honors, riches"},
	{Name: "Altair", TraditionalName: "Altair", Constellation: "Aquila", Longitude: 301.750, Latitude: 29.291, Magnitude: 0.77,
		Nature: "Mars-Jupiter", Meaning: "Courage, ambition, rise to power, liberality"},
	{Name: "Vega", TraditionalName: "Vega", Constellation: "Lyra", Longitude: 285.122, Latitude: 61.753, Magnitude: 0.03,
		Nature: "Venus-Mercury", Meaning: "Charisma, artistic talent, social grace, beneficence"},
	{Name: "Arcturus", TraditionalName: "Arcturus", Constellation: "Bootes", Longitude: 213.943, Latitude: 30.747, Magnitude: -0.05,
		Nature: "Mars-Jupiter", Meaning: "Protection, fortune, honors, riches, prosperity"},
	{Name: "Capella", TraditionalName: "Capella", Constellation: "Auriga", Longitude: 81.528, Latitude: 22.877, Magnitude: 0.08,
		Nature: "Mercury-Mars", Meaning: "Curiosity, exploration, learning, inquisitiveness"},
	{Name: "Fomalhaut", TraditionalName: "Fomalhaut", Constellation: "Piscis Austrinus", Longitude: 333.776, Latitude: -21.018, Magnitude: 1.16,
		Nature: "Venus-Mercury", Meaning: "Idealism, devotion to ideals, malevolence if ill-aspected"},
	{Name: "Deneb", TraditionalName: "Deneb", Constellation: "Cygnus", Longitude: 314.980, Latitude: 57.466, Magnitude: 1.25,
		Nature: "Venus-Mercury", Meaning: "Justice, power, brightness, good fortune"},

	{Name: "Pleiades", TraditionalName: "Pleiades (Seven Sisters)", Constellation: "Taurus", Messier: "M45",
		Longitude: 59.776, Latitude: 4.03, Cluster: true,
		Meaning: "Tears, loss, group energy, collective consciousness, mourning"},
	{Name: "Hyades", TraditionalName: "Hyades", Constellation: "Taurus",
		Longitude: 69.792, Latitude: -5.469, Cluster: true,
		Meaning: "Rain bringers, passion, emotional intensity, tears"},
	{Name: "Praesepe", TraditionalName: "Praesepe (Beehive Cluster)", Constellation: "Cancer", Messier: "M44",
		Longitude: 127.550, Latitude: 0.160, Cluster: true,
		Meaning: "Collective, swarm energy, community, nebulous vision"},
}
