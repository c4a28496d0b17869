package cat

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const upstreamPayload = `{
  "length": "12 to 18 inches",
  "origin": "Maine, United States",
  "image_link": "https://api-ninjas.com/images/cats/maine_coon.jpg",
  "family_friendly": 5,
  "shedding": 3,
  "general_health": 2,
  "playfulness": 5,
  "children_friendly": 4,
  "grooming": 3,
  "intelligence": 5,
  "other_pets_friendly": 5,
  "min_weight": 12.0,
  "max_weight": 18.0,
  "min_life_expectancy": 12.0,
  "max_life_expectancy": 15.0,
  "name": "Maine Coon",
  "unknown_field": true
}`

func TestCatDecoding(t *testing.T) {
	Convey("Given an upstream cat payload", t, func() {
		var c Cat
		err := json.Unmarshal([]byte(upstreamPayload), &c)

		Convey("Then it should decode every known field and ignore the rest", func() {
			So(err, ShouldBeNil)
			So(c.Name, ShouldEqual, "Maine Coon")
			So(c.Origin, ShouldEqual, "Maine, United States")
			So(c.Length, ShouldEqual, "12 to 18 inches")
			So(c.OtherPetsFriendly, ShouldEqual, 5)
			So(c.MaxWeight, ShouldEqual, 18.0)
			So(c.MaxLifeExpectancy, ShouldEqual, 15.0)
		})
	})
}

func TestCatRatings(t *testing.T) {
	Convey("Given a cat with some attribute scores", t, func() {
		c := Cat{Name: "Sphynx", FamilyFriendly: 5, Shedding: 1, Grooming: 0}

		Convey("Then Ratings should keep display order and skip unset scores", func() {
			r := c.Ratings()
			So(len(r), ShouldEqual, 2)
			So(r[0], ShouldResemble, Rating{Label: "Family friendly", Score: 5})
			So(r[1], ShouldResemble, Rating{Label: "Shedding", Score: 1})
		})
	})
}

func TestCatDetailPath(t *testing.T) {
	Convey("Given breed names", t, func() {
		Convey("Then spaces should be escaped in the detail path", func() {
			So(Cat{Name: "Maine Coon"}.DetailPath(), ShouldEqual, "/cats/Maine%20Coon")
		})

		Convey("And slashes should not create extra path segments", func() {
			So(Cat{Name: "A/B"}.DetailPath(), ShouldEqual, "/cats/A%2FB")
		})
	})
}

func TestCatEncoding(t *testing.T) {
	Convey("Given a cat whose scores include zeros", t, func() {
		var c Cat
		So(json.Unmarshal([]byte(`{"name":"Sphynx","shedding":0,"grooming":5,"min_weight":0}`), &c), ShouldBeNil)

		Convey("When re-encoding it", func() {
			b, err := json.Marshal(c)
			So(err, ShouldBeNil)

			var out map[string]any
			So(json.Unmarshal(b, &out), ShouldBeNil)

			Convey("Then zero-valued fields should still be present", func() {
				So(out, ShouldContainKey, "shedding")
				So(out["shedding"], ShouldEqual, 0.0)
				So(out, ShouldContainKey, "min_weight")
				So(out, ShouldContainKey, "origin")
				So(out["grooming"], ShouldEqual, 5.0)
				So(len(out), ShouldEqual, 16)
			})
		})
	})
}
