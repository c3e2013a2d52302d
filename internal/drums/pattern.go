package drums

// PatternLibrary is the immutable table of named 16-step groove templates
// matched against the quantised recent beat grid.
var PatternLibrary = map[string][16]int{
	"four_four_basic": {1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0},
	"backbeat":        {1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0},
	"shuffle":         {1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 0},
	"latin_clave":     {1, 0, 0, 1, 0, 0, 1, 0, 0, 0, 1, 0, 0, 1, 0, 0},
	"breakbeat":       {1, 0, 0, 0, 1, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
	"drum_and_bass":   {1, 0, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0, 1, 0},
	"reggae":          {0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0},
	"rock_basic":      {1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0},
}

// patternNames fixes an iteration order over PatternLibrary so pattern
// matching is deterministic (Go map iteration is not) and ties resolve the
// same way every run.
var patternNames = []string{
	"four_four_basic", "backbeat", "shuffle", "latin_clave",
	"breakbeat", "drum_and_bass", "reggae", "rock_basic",
}
