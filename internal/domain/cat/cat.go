// Package cat contains the cat breed record returned by the cats API.
package cat

import (
	"net/url"
	"strings"
)

// Cat is one breed entry. Every known field is re-encoded, zero values
// included; fields the API adds beyond these are dropped.
type Cat struct {
	Name              string  `json:"name"`
	Origin            string  `json:"origin"`
	Length            string  `json:"length"`
	ImageLink         string  `json:"image_link"`
	FamilyFriendly    int     `json:"family_friendly"`
	Shedding          int     `json:"shedding"`
	GeneralHealth     int     `json:"general_health"`
	Playfulness       int     `json:"playfulness"`
	ChildrenFriendly  int     `json:"children_friendly"`
	Grooming          int     `json:"grooming"`
	Intelligence      int     `json:"intelligence"`
	OtherPetsFriendly int     `json:"other_pets_friendly"`
	MinWeight         float64 `json:"min_weight"`
	MaxWeight         float64 `json:"max_weight"`
	MinLifeExpectancy float64 `json:"min_life_expectancy"`
	MaxLifeExpectancy float64 `json:"max_life_expectancy"`
}

// Rating is a named 1..5 attribute score.
type Rating struct {
	Label string
	Score int
}

// Ratings returns the attribute scores in display order, skipping unset ones.
func (c Cat) Ratings() []Rating {
	all := []Rating{
		{"Family friendly", c.FamilyFriendly},
		{"Children friendly", c.ChildrenFriendly},
		{"Other pets friendly", c.OtherPetsFriendly},
		{"Playfulness", c.Playfulness},
		{"Intelligence", c.Intelligence},
		{"General health", c.GeneralHealth},
		{"Grooming", c.Grooming},
		{"Shedding", c.Shedding},
	}
	out := all[:0]
	for _, r := range all {
		if r.Score > 0 {
			out = append(out, r)
		}
	}
	return out
}

// DetailPath is the cat-details route for this breed.
func (c Cat) DetailPath() string {
	return "/cats/" + url.PathEscape(strings.TrimSpace(c.Name))
}

// Page is one slice of the cat list plus the offsets of its neighbours.
type Page struct {
	Cats       []Cat `json:"cats"`
	Offset     int   `json:"offset"`
	PageSize   int   `json:"page_size"`
	PrevOffset int   `json:"prev_offset"`
	NextOffset int   `json:"next_offset"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}
