package evaluation

import (
	"hash/fnv"

	"quality_evaluator/internal/domain/value"
)

// Input carries the caller-supplied attributes of one project.
type Input struct {
	ProjectName string
	Language    value.Language
	LinesOfCode int
	Complexity  int
	HasTests    bool
	UsesGit     bool
	AnalyzedBy  string
	Description string
}

type SizeTier struct {
	MaxLines int
	Points   int
}

type NameTier struct {
	MaxLength int
	Points    int
}

// ScoreConfig holds every weight table the scoring engine reads. The
// tables are data, not logic: tests swap them without touching Score.
type ScoreConfig struct {
	LanguageWeights map[value.Language]int
	DefaultWeight   int

	// SizeTiers are checked in order; OversizePoints applies past the
	// last tier. The tiers are deliberately non-monotonic: medium
	// projects score highest.
	SizeTiers      []SizeTier
	OversizePoints int

	ComplexityPoints map[int]int

	TestsBonus   int
	TestsPenalty int
	GitBonus     int
	GitPenalty   int

	NameTiers      []NameTier
	LongNamePoints int
	QualityByTier  map[value.Language]int
	DefaultQuality int
	JitterModulus  int
}

func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		LanguageWeights: map[value.Language]int{
			value.LanguageJava:       18,
			value.LanguageCSharp:     18,
			value.LanguageRust:       18,
			value.LanguageCPP:        16,
			value.LanguageGo:         16,
			value.LanguageKotlin:     16,
			value.LanguagePython:     14,
			value.LanguageTypeScript: 14,
			value.LanguageSwift:      14,
			value.LanguageC:          13,
			value.LanguageJavaScript: 12,
			value.LanguagePHP:        10,
			value.LanguageRuby:       10,
			value.LanguageDart:       10,
		},
		DefaultWeight: 8,

		SizeTiers: []SizeTier{
			{MaxLines: 100, Points: 5},
			{MaxLines: 500, Points: 18},
			{MaxLines: 1000, Points: 15},
			{MaxLines: 5000, Points: 10},
		},
		OversizePoints: 5,

		ComplexityPoints: map[int]int{
			1: 20,
			2: 15,
			3: 8,
			4: -10,
			5: -20,
		},

		TestsBonus:   20,
		TestsPenalty: -10,
		GitBonus:     8,
		GitPenalty:   -5,

		NameTiers: []NameTier{
			{MaxLength: 10, Points: 3},
			{MaxLength: 20, Points: 6},
		},
		LongNamePoints: 8,
		QualityByTier: map[value.Language]int{
			value.LanguageJava:       6,
			value.LanguageCSharp:     6,
			value.LanguageRust:       6,
			value.LanguageCPP:        5,
			value.LanguageGo:         5,
			value.LanguagePython:     4,
			value.LanguageTypeScript: 4,
			value.LanguageKotlin:     4,
			value.LanguageSwift:      4,
		},
		DefaultQuality: 3,
		JitterModulus:  5,
	}
}

// Score maps an input to an integer in [0,100]. The computation is
// additive across independent factors and clamped only at the final
// sum. Language validity must be checked by the caller beforehand.
func (c ScoreConfig) Score(in Input) int {
	score := 0

	weight, ok := c.LanguageWeights[in.Language]
	if !ok {
		weight = c.DefaultWeight
	}
	score += weight

	score += c.sizePoints(in.LinesOfCode)
	score += c.ComplexityPoints[in.Complexity]

	if in.HasTests {
		score += c.TestsBonus
	} else {
		score += c.TestsPenalty
	}

	if in.UsesGit {
		score += c.GitBonus
	} else {
		score += c.GitPenalty
	}

	score += c.simulateQuality(in.ProjectName, in.Language)

	return clamp(score, 0, 100)
}

func (c ScoreConfig) sizePoints(lines int) int {
	for _, tier := range c.SizeTiers {
		if lines <= tier.MaxLines {
			return tier.Points
		}
	}

	return c.OversizePoints
}

// simulateQuality stands in for actual code inspection: a bounded term
// derived from the project name and language tier, plus a small jitter
// so structurally identical inputs don't collapse to one score.
func (c ScoreConfig) simulateQuality(projectName string, language value.Language) int {
	points := c.LongNamePoints

	for _, tier := range c.NameTiers {
		if len(projectName) <= tier.MaxLength {
			points = tier.Points
			break
		}
	}

	quality, ok := c.QualityByTier[language]
	if !ok {
		quality = c.DefaultQuality
	}
	points += quality

	points += nameJitter(projectName, c.JitterModulus)

	return points
}

// nameJitter is deterministic per name, bounded by modulus.
func nameJitter(projectName string, modulus int) int {
	if modulus <= 0 {
		return 0
	}

	h := fnv.New32a()
	h.Write([]byte(projectName)) //nolint:errcheck // never fails

	return int(h.Sum32() % uint32(modulus))
}

func clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}

	return v
}
