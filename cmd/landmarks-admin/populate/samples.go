package populate

import kdb "github.com/opst/landmarks/pkg/db"

// Sample is a landmark to be seeded.
type Sample struct {
	Title       string
	Category    kdb.Category
	Description string
	Latitude    string
	Longitude   string
	Country     string
	ImageURL    string
}

func (s Sample) Patch() kdb.LandmarkPatch {
	return kdb.LandmarkPatch{
		Title:       kdb.Assign(s.Title),
		Category:    kdb.Assign(s.Category.String()),
		Description: kdb.Assign(s.Description),
		Latitude:    kdb.Assign(kdb.MustParseCoordinate(s.Latitude)),
		Longitude:   kdb.Assign(kdb.MustParseCoordinate(s.Longitude)),
		Country:     kdb.Assign(s.Country),
	}
}

func pexels(id string) string {
	return "https://images.pexels.com/photos/" + id + "/pexels-photo-" + id + ".jpeg"
}

var Samples = []Sample{
	{
		Title:       "Eiffel Tower",
		Category:    kdb.Historical,
		Description: "The Eiffel Tower is a wrought-iron lattice tower located on the Champ de Mars in Paris. Built in 1889, it has become both a global cultural icon of France and one of the most recognizable structures in the world.",
		Latitude:    "48.8584",
		Longitude:   "2.2945",
		Country:     "France",
		ImageURL:    pexels("2082103"),
	},
	{
		Title:       "Taj Mahal",
		Category:    kdb.Historical,
		Description: "The Taj Mahal is an ivory-white marble mausoleum on the right bank of the river Yamuna in Agra, India. It was commissioned in 1632 by the Mughal emperor Shah Jahan to house the tomb of his favorite wife, Mumtaz Mahal.",
		Latitude:    "27.1751",
		Longitude:   "78.0421",
		Country:     "India",
		ImageURL:    pexels("1603650"),
	},
	{
		Title:       "Great Wall of China",
		Category:    kdb.Historical,
		Description: "The Great Wall of China is a series of fortifications that were built across the historical northern borders of ancient Chinese states and Imperial China as protection against nomadic incursions.",
		Latitude:    "40.4319",
		Longitude:   "116.5704",
		Country:     "China",
		ImageURL:    pexels("2412603"),
	},
	{
		Title:       "Machu Picchu",
		Category:    kdb.Historical,
		Description: "Machu Picchu is an Incan citadel set high in the Andes Mountains in Peru. Built in the 15th century and later abandoned, it is renowned for its sophisticated dry-stone walls that fuse huge blocks without the use of mortar.",
		Latitude:    "-13.1631",
		Longitude:   "-72.5450",
		Country:     "Peru",
		ImageURL:    pexels("2356045"),
	},
	{
		Title:       "Grand Canyon",
		Category:    kdb.Natural,
		Description: "The Grand Canyon is a steep-sided canyon carved by the Colorado River in Arizona. The canyon is 277 miles long, up to 18 miles wide and attains a depth of over a mile.",
		Latitude:    "36.0544",
		Longitude:   "-112.1401",
		Country:     "United States",
		ImageURL:    "https://images.pexels.com/photos/33041/antelope-canyon-lower-canyon-arizona.jpg",
	},
	{
		Title:       "Petra",
		Category:    kdb.Historical,
		Description: "Petra is a famous archaeological site in Jordans southwestern desert. Dating to around 300 B.C., it was the capital of the Nabataean Kingdom. It is accessed via a narrow canyon called Al Siq.",
		Latitude:    "30.3285",
		Longitude:   "35.4444",
		Country:     "Jordan",
		ImageURL:    pexels("1631665"),
	},
	{
		Title:       "Christ the Redeemer",
		Category:    kdb.Religious,
		Description: "Christ the Redeemer is an Art Deco statue of Jesus Christ in Rio de Janeiro, Brazil. Created by French sculptor Paul Landowski, it is 98 feet tall, not including its 26-foot pedestal, and its arms stretch 92 feet wide.",
		Latitude:    "-22.9519",
		Longitude:   "-43.2105",
		Country:     "Brazil",
		ImageURL:    pexels("2868242"),
	},
	{
		Title:       "Colosseum",
		Category:    kdb.Historical,
		Description: "The Colosseum is an oval amphitheatre in the centre of Rome, Italy. Built of travertine limestone, tuff, and brick-faced concrete, it is the largest amphitheatre ever built and was used for gladiatorial contests and public spectacles.",
		Latitude:    "41.8902",
		Longitude:   "12.4922",
		Country:     "Italy",
		ImageURL:    pexels("1797161"),
	},
	{
		Title:       "Northern Lights",
		Category:    kdb.Natural,
		Description: "The Aurora Borealis (Northern Lights) is a natural light display in the Earths sky, predominantly seen in high-latitude regions. Tromso, Norway is one of the best places to view this phenomenon.",
		Latitude:    "69.6492",
		Longitude:   "18.9553",
		Country:     "Norway",
		ImageURL:    pexels("1933239"),
	},
	{
		Title:       "Angkor Wat",
		Category:    kdb.Religious,
		Description: "Angkor Wat is a temple complex in Cambodia and is the largest religious monument in the world. Originally constructed as a Hindu temple dedicated to the god Vishnu for the Khmer Empire, it was gradually transformed into a Buddhist temple.",
		Latitude:    "13.4125",
		Longitude:   "103.8670",
		Country:     "Cambodia",
		ImageURL:    pexels("3290071"),
	},
}
