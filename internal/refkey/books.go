package refkey

// bookCodes maps lowercase English and Spanish book names (plus common
// abbreviations) to canonical 3-letter codes. Both spellings of a book
// resolve to the same code, so "Romanos 12:1-2" and "Romans 12:1-2"
// share a cache entry.
var bookCodes = map[string]string{
	// Old Testament
	"genesis": "gen", "génesis": "gen", "gen": "gen",
	"exodus": "exo", "exodo": "exo", "éxodo": "exo", "exo": "exo",
	"leviticus": "lev", "levitico": "lev", "levítico": "lev", "lev": "lev",
	"numbers": "num", "numeros": "num", "números": "num", "num": "num",
	"deuteronomy": "deu", "deuteronomio": "deu", "deut": "deu", "deu": "deu",
	"joshua": "jos", "josue": "jos", "josué": "jos", "jos": "jos",
	"judges": "jdg", "jueces": "jdg", "jdg": "jdg",
	"ruth": "rut", "rut": "rut",
	"1 samuel": "1sa", "2 samuel": "2sa", "1 sam": "1sa", "2 sam": "2sa",
	"1 kings": "1ki", "2 kings": "2ki", "1 reyes": "1ki", "2 reyes": "2ki",
	"1 chronicles": "1ch", "2 chronicles": "2ch",
	"1 cronicas": "1ch", "2 cronicas": "2ch",
	"1 crónicas": "1ch", "2 crónicas": "2ch",
	"ezra": "ezr", "esdras": "ezr", "ezr": "ezr",
	"nehemiah": "neh", "nehemias": "neh", "nehemías": "neh", "neh": "neh",
	"esther": "est", "ester": "est", "est": "est",
	"job": "job",
	"psalms": "psa", "psalm": "psa", "salmos": "psa", "salmo": "psa", "psa": "psa",
	"proverbs": "pro", "proverbios": "pro", "prov": "pro", "pro": "pro",
	"ecclesiastes": "ecc", "eclesiastes": "ecc", "eclesiastés": "ecc", "ecc": "ecc",
	"song of solomon": "sng", "song of songs": "sng", "cantares": "sng", "cantar de los cantares": "sng",
	"isaiah": "isa", "isaias": "isa", "isaías": "isa", "isa": "isa",
	"jeremiah": "jer", "jeremias": "jer", "jeremías": "jer", "jer": "jer",
	"lamentations": "lam", "lamentaciones": "lam", "lam": "lam",
	"ezekiel": "eze", "ezequiel": "eze", "eze": "eze",
	"daniel": "dan", "dan": "dan",
	"hosea": "hos", "oseas": "hos", "hos": "hos",
	"joel": "joe", "joe": "joe",
	"amos": "amo", "amós": "amo", "amo": "amo",
	"obadiah": "oba", "abdias": "oba", "abdías": "oba", "oba": "oba",
	"jonah": "jon", "jonas": "jon", "jonás": "jon", "jon": "jon",
	"micah": "mic", "miqueas": "mic", "mic": "mic",
	"nahum": "nah", "nahúm": "nah", "nah": "nah",
	"habakkuk": "hab", "habacuc": "hab", "hab": "hab",
	"zephaniah": "zep", "sofonias": "zep", "sofonías": "zep", "zep": "zep",
	"haggai": "hag", "hageo": "hag", "hag": "hag",
	"zechariah": "zec", "zacarias": "zec", "zacarías": "zec", "zec": "zec",
	"malachi": "mal", "malaquias": "mal", "malaquías": "mal", "mal": "mal",

	// New Testament
	"matthew": "mat", "mateo": "mat", "mat": "mat",
	"mark": "mar", "marcos": "mar", "mar": "mar",
	"luke": "luk", "lucas": "luk", "luk": "luk",
	"john": "jhn", "juan": "jhn", "jhn": "jhn",
	"acts": "act", "hechos": "act", "act": "act",
	"romans": "rom", "romanos": "rom", "rom": "rom",
	"1 corinthians": "1co", "2 corinthians": "2co",
	"1 corintios": "1co", "2 corintios": "2co",
	"1 cor": "1co", "2 cor": "2co",
	"galatians": "gal", "galatas": "gal", "gálatas": "gal", "gal": "gal",
	"ephesians": "eph", "efesios": "eph", "eph": "eph",
	"philippians": "phl", "filipenses": "phl", "phl": "phl",
	"colossians": "col", "colosenses": "col", "col": "col",
	"1 thessalonians": "1th", "2 thessalonians": "2th",
	"1 tesalonicenses": "1th", "2 tesalonicenses": "2th",
	"1 timothy": "1ti", "2 timothy": "2ti",
	"1 timoteo": "1ti", "2 timoteo": "2ti",
	"titus": "tit", "tito": "tit", "tit": "tit",
	"philemon": "phm", "filemon": "phm", "filemón": "phm", "phm": "phm",
	"hebrews": "heb", "hebreos": "heb", "heb": "heb",
	"james": "jas", "santiago": "jas", "jas": "jas",
	"1 peter": "1pe", "2 peter": "2pe",
	"1 pedro": "1pe", "2 pedro": "2pe",
	"1 john": "1jn", "2 john": "2jn", "3 john": "3jn",
	"1 juan": "1jn", "2 juan": "2jn", "3 juan": "3jn",
	"jude": "jud", "judas": "jud", "jud": "jud",
	"revelation": "rev", "apocalipsis": "rev", "rev": "rev",
}
