package language

import (
	"sort"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/sahilm/fuzzy"
)

// Plaintext is the language reported for empty and unknown tags.
const Plaintext = "plaintext"

// Registry resolves fence tags to canonical language names.
//
// Lookups go through configured aliases, then the language table, then
// chroma's lexer registry. The table can be extended with Register and is
// rebuilt in place, so a Registry is safe to share.
type Registry struct {
	mu       sync.RWMutex
	tags     map[string][]string // language -> tags
	lookup   map[string]string   // tag -> language
	aliases  map[string]string
	fallback string
	lexers   bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithAliases adds tag -> language overrides that win over the table.
func WithAliases(aliases map[string]string) Option {
	return func(r *Registry) {
		for tag, lang := range aliases {
			tag = strings.ToLower(strings.TrimSpace(tag))
			lang = strings.ToLower(strings.TrimSpace(lang))
			if tag == "" || lang == "" {
				continue
			}
			r.aliases[tag] = lang
		}
	}
}

// WithDefault sets the language returned for empty or unknown tags.
func WithDefault(lang string) Option {
	return func(r *Registry) {
		if lang = strings.TrimSpace(lang); lang != "" {
			r.fallback = strings.ToLower(lang)
		}
	}
}

// WithTable replaces the built-in language table.
func WithTable(table map[string][]string) Option {
	return func(r *Registry) {
		r.tags = make(map[string][]string, len(table))
		for lang, tags := range table {
			r.tags[strings.ToLower(lang)] = append([]string(nil), tags...)
		}
	}
}

// WithoutLexers disables the chroma lexer fallback.
func WithoutLexers() Option {
	return func(r *Registry) {
		r.lexers = false
	}
}

// NewRegistry returns a registry seeded with the built-in table.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		tags:     DefaultTags(),
		aliases:  make(map[string]string),
		fallback: Plaintext,
		lexers:   true,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.Rebuild()
	return r
}

// Rebuild recomputes the tag lookup from the language table.
func (r *Registry) Rebuild() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rebuildLocked()
}

func (r *Registry) rebuildLocked() {
	langs := make([]string, 0, len(r.tags))
	for lang := range r.tags {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	lookup := make(map[string]string)
	for _, lang := range langs {
		for _, tag := range r.tags[lang] {
			lookup[strings.ToLower(tag)] = lang
		}
	}
	// Language names resolve to themselves even when another language
	// claims the same string as an extension.
	for _, lang := range langs {
		lookup[lang] = lang
	}
	r.lookup = lookup
}

// Register adds tags for lang and rebuilds the lookup.
func (r *Registry) Register(lang string, tags ...string) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing := make(map[string]bool)
	for _, t := range r.tags[lang] {
		existing[strings.ToLower(t)] = true
	}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(t), "."))
		if t == "" || existing[t] {
			continue
		}
		r.tags[lang] = append(r.tags[lang], t)
		existing[t] = true
	}
	if _, ok := r.tags[lang]; !ok {
		r.tags[lang] = nil
	}
	r.rebuildLocked()
}

// Resolve maps a fence tag to its canonical language.
func (r *Registry) Resolve(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))

	r.mu.RLock()
	defer r.mu.RUnlock()

	if t == "" {
		return r.fallback
	}
	if lang, ok := r.aliases[t]; ok {
		return lang
	}
	if lang, ok := r.lookup[t]; ok {
		return lang
	}
	if lang, ok := r.lookup[normalizeModeName(t)]; ok {
		return lang
	}
	if r.lexers {
		if lexer := lexers.Get(t); lexer != nil {
			name := canonicalName(lexer.Config().Name)
			if lang, ok := r.lookup[name]; ok {
				return lang
			}
			return name
		}
	}
	return r.fallback
}

// Default returns the language used for unknown tags.
func (r *Registry) Default() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}

// Languages returns the table's languages, sorted.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.tags))
	for lang := range r.tags {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Tags returns the tags registered for lang.
func (r *Registry) Tags(lang string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.tags[strings.ToLower(lang)]...)
}

// Extension returns the preferred file extension for lang, without a dot.
// Unknown languages yield "txt".
func (r *Registry) Extension(lang string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := r.tags[strings.ToLower(lang)]
	if len(tags) == 0 {
		return "txt"
	}
	return tags[0]
}

// KnownTags returns every tag the table resolves, sorted.
func (r *Registry) KnownTags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.lookup)+len(r.aliases))
	for tag := range r.lookup {
		out = append(out, tag)
	}
	for tag := range r.aliases {
		if _, ok := r.lookup[tag]; !ok {
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

// Suggest returns up to limit known tags matching query, best first.
// A non-positive limit returns every match.
func (r *Registry) Suggest(query string, limit int) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	matches := fuzzy.Find(query, r.KnownTags())
	var out []string
	for _, m := range matches {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

func normalizeModeName(name string) string {
	switch name {
	case "xtex", "stex":
		return "latex"
	case "jsx":
		return "javascript"
	case "c#":
		return "csharp"
	}
	return name
}

func canonicalName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
