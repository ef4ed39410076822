package content

// Item is an authored bank entry as it appears on disk.
// Fields are optional here; the exercise builder resolves them into a Round.
type Item struct {
	ID             string     `toml:"id"`
	Prompt         string     `toml:"prompt"`
	PromptKey      string     `toml:"prompt_key"`
	Options        []string   `toml:"options"`
	OptionsKey     string     `toml:"options_key"`
	CorrectIndex   *int       `toml:"correct"`
	OddIndex       *int       `toml:"odd"`
	Pairs          []Pair     `toml:"pairs"`
	Items          []string   `toml:"items"`
	CorrectOrder   []int      `toml:"order"`
	InstructionKey string     `toml:"instruction_key"`
	Stimuli        []Stimulus `toml:"stimuli"`
	PaceMs         int        `toml:"pace_ms"`
}

// Bank is a named, ordered list of items of one template. Banks are read-only inputs.
type Bank struct {
	ID       string   `toml:"id"`
	Template Template `toml:"template"`
	Items    []Item   `toml:"items"`
}

// Catalog resolves localization keys. Implementations must be safe for concurrent reads.
type Catalog interface {
	Text(key string) (string, bool)
	List(key string) ([]string, bool)
}

// MapCatalog is an in-memory Catalog.
type MapCatalog struct {
	Texts map[string]string   `toml:"text"`
	Lists map[string][]string `toml:"lists"`
}

// Text returns the text for key.
func (c MapCatalog) Text(key string) (string, bool) {
	v, ok := c.Texts[key]
	return v, ok
}

// List returns a copy of the list for key.
func (c MapCatalog) List(key string) ([]string, bool) {
	v, ok := c.Lists[key]
	if !ok {
		return nil, false
	}
	out := make([]string, len(v))
	copy(out, v)
	return out, true
}
