package pbp

import (
	"gopkg.in/yaml.v3"

	perr "rinkfeed/internal/platform/errors"
)

// tablesFile is the YAML override format:
//
//	aliases:
//	  n.j: njd
//	codes:
//	  PGSTR: period_start
type tablesFile struct {
	Aliases map[string]string `yaml:"aliases"`
	Codes   map[string]string `yaml:"codes"`
}

var knownCategories = map[Category]bool{
	CategoryPeriodStart: true, CategoryPeriodEnd: true, CategoryGameEnd: true,
	CategoryFaceoff: true, CategoryStop: true, CategoryGoal: true, CategoryShot: true,
	CategoryBlockedShot: true, CategoryMissedShot: true, CategoryTakeaway: true,
	CategoryGiveaway: true, CategoryHit: true, CategoryPenalty: true,
}

// ParseConfigYAML layers a YAML override document on top of the defaults.
// Codes may only map onto existing categories
func ParseConfigYAML(data []byte) (Config, error) {
	var tf tablesFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return Config{}, perr.Wrap(err, perr.ErrorCodeValidation, "parse pbp tables")
	}
	for code, cat := range tf.Codes {
		if !knownCategories[Category(cat)] {
			return Config{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "code %s maps to unknown category %q", code, cat), "codes")
		}
	}
	return Config{
		Codes:   DefaultCodes().Merge(tf.Codes),
		Aliases: DefaultAliases().Merge(tf.Aliases),
	}, nil
}
