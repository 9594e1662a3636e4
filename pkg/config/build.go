package config

import (
	"github.com/bastiangx/hehify/pkg/heh"
	"github.com/bastiangx/hehify/pkg/lexicon"
	"github.com/charmbracelet/log"
)

// Resolver maps a configured file name to a readable path.
type Resolver func(name string) (string, error)

// Overrides holds values given on the command line. Set fields take
// precedence over the [heh] section, also across reloads.
type Overrides struct {
	Rate  *float64
	Level *float64
	Seed  *int64
}

// Apply writes the set fields into s.
func (o Overrides) Apply(s *heh.Settings) {
	if o.Rate != nil {
		s.Rate = *o.Rate
	}
	if o.Level != nil {
		s.Level = *o.Level
	}
	if o.Seed != nil {
		*s = s.WithSeed(*o.Seed)
	}
}

// NewTransformer builds a transformer from the config: settings from
// [heh], a syllable cache and the protected word set from [lexicon].
// A protected_file that cannot be found is logged and skipped.
func (c *Config) NewTransformer(resolve Resolver, overrides ...func(*heh.Settings)) (*heh.Transformer, error) {
	settings := c.Settings()
	for _, o := range overrides {
		o(&settings)
	}

	protected := lexicon.NewProtected(c.Lexicon.Protected...)
	if name := c.Lexicon.ProtectedFile; name != "" {
		path := name
		if resolve != nil {
			if resolved, err := resolve(name); err == nil {
				path = resolved
			}
		}
		if err := protected.LoadFile(path); err != nil {
			log.Warnf("Skipping protected words file: %v", err)
		}
	}

	return heh.New(settings,
		heh.WithCache(lexicon.NewCache(c.Lexicon.CacheSize)),
		heh.WithProtected(protected),
	)
}
