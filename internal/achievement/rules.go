// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package achievement

import (
	"fmt"
	"math"
)

// RuleKind identifies a badge rule.
type RuleKind int

// Rules are evaluated in declaration order.
const (
	FirstSteps RuleKind = iota
	MovieBuff
	Cinephile
	FilmCritic
	GenreFan
	ToughCritic
	Optimist
)

// Rating-count thresholds.
const (
	FirstStepsMinRatings = 1
	MovieBuffMinRatings  = 10
	CinephileMinRatings  = 25
	FilmCriticMinRatings = 50

	// GenreFanMinRatings is the overall count below which no genre badge is
	// considered.
	GenreFanMinRatings = 5

	// GenreFanMinGenreRatings is the absolute number of ratings in a genre
	// required for its fan badge.
	GenreFanMinGenreRatings = 5

	// GenreFanMinShare is the fraction of all ratings a genre must cover.
	GenreFanMinShare = 0.7

	// MeanRuleMinRatings gates the Tough Critic and Optimist badges.
	MeanRuleMinRatings = 10
)

// Mean-rating thresholds, exclusive.
const (
	ToughCriticMaxMean = 3.0
	OptimistMinMean    = 4.0
)

var kindNames = map[RuleKind]string{
	FirstSteps:  "first_steps",
	MovieBuff:   "movie_buff",
	Cinephile:   "cinephile",
	FilmCritic:  "film_critic",
	GenreFan:    "genre_fan",
	ToughCritic: "tough_critic",
	Optimist:    "optimist",
}

// String returns the snake_case identifier of the rule kind.
func (k RuleKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("rule_kind(%d)", int(k))
}

// Stats are the rating aggregates rules are evaluated against.
type Stats struct {
	// Count is the number of movies the user has rated.
	Count int

	// Mean is the average rating value; 0 when Count is 0.
	Mean float64

	// GenreCounts is the number of rated movies carrying each genre.
	GenreCounts map[string]int
}

// Award is a badge granted by a rule.
type Award struct {
	Kind        RuleKind
	Name        string
	Description string
}

// Rule is one entry of the badge table.
type Rule struct {
	Kind RuleKind

	// Name and Description are used as-is except for GenreFan, where both
	// are format strings taking the genre.
	Name        string
	Description string
}

// Rules is the badge table in evaluation order.
var Rules = []Rule{
	{Kind: FirstSteps, Name: "First Steps", Description: "Rated your first movie!"},
	{Kind: MovieBuff, Name: "Movie Buff", Description: "Rated 10 movies!"},
	{Kind: Cinephile, Name: "Cinephile", Description: "Rated 25 movies!"},
	{Kind: FilmCritic, Name: "Film Critic", Description: "Rated 50 movies!"},
	{Kind: GenreFan, Name: "%s Fan", Description: "Loves %s movies!"},
	{Kind: ToughCritic, Name: "Tough Critic", Description: "Average rating below 3 stars"},
	{Kind: Optimist, Name: "Optimist", Description: "Average rating above 4 stars!"},
}

// Evaluate returns the awards the rule grants for stats. Only GenreFan can
// grant more than one, visiting genres in the given order.
//
//nolint:gocritic // hugeParam: stats passed by value for immutability
func (r Rule) Evaluate(stats Stats, genres []string) []Award {
	grant := func() []Award {
		return []Award{{Kind: r.Kind, Name: r.Name, Description: r.Description}}
	}

	switch r.Kind {
	case FirstSteps:
		if stats.Count >= FirstStepsMinRatings {
			return grant()
		}
	case MovieBuff:
		if stats.Count >= MovieBuffMinRatings {
			return grant()
		}
	case Cinephile:
		if stats.Count >= CinephileMinRatings {
			return grant()
		}
	case FilmCritic:
		if stats.Count >= FilmCriticMinRatings {
			return grant()
		}
	case GenreFan:
		if stats.Count < GenreFanMinRatings {
			return nil
		}
		need := math.Max(GenreFanMinGenreRatings, GenreFanMinShare*float64(stats.Count))
		var awards []Award
		for _, g := range genres {
			if float64(stats.GenreCounts[g]) >= need {
				awards = append(awards, Award{
					Kind:        GenreFan,
					Name:        fmt.Sprintf(r.Name, g),
					Description: fmt.Sprintf(r.Description, g),
				})
			}
		}
		return awards
	case ToughCritic:
		if stats.Count >= MeanRuleMinRatings && stats.Mean < ToughCriticMaxMean {
			return grant()
		}
	case Optimist:
		if stats.Count >= MeanRuleMinRatings && stats.Mean > OptimistMinMean {
			return grant()
		}
	}
	return nil
}

// Qualifying returns every award stats earn under Rules, in rule order.
//
//nolint:gocritic // hugeParam: stats passed by value for immutability
func Qualifying(stats Stats, genres []string) []Award {
	var awards []Award
	for _, r := range Rules {
		awards = append(awards, r.Evaluate(stats, genres)...)
	}
	return awards
}
