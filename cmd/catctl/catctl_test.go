package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/okian/catbreeds/internal/adapters/catapi"
	"github.com/okian/catbreeds/internal/domain/cat"
	"github.com/smartystreets/goconvey/convey"
	"github.com/spf13/pflag"
)

type fakeFetcher struct {
	cats       []cat.Cat
	err        error
	lastBreed  string
	lastOffset int
	listCalled bool
}

func (f *fakeFetcher) FetchCatsByBreed(_ context.Context, breed string, offset int) ([]cat.Cat, error) {
	f.lastBreed, f.lastOffset = breed, offset
	return f.cats, f.err
}

func (f *fakeFetcher) FetchCatsListByBreed(_ context.Context, offset int) ([]cat.Cat, error) {
	f.listCalled, f.lastOffset = true, offset
	return f.cats, f.err
}

func execute(f *fakeFetcher, args ...string) (string, error) {
	root := newRootCmd(func(context.Context, *pflag.FlagSet) (fetcher, error) { return f, nil })
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	convey.Convey("Given catctl with a fake client", t, func() {
		f := &fakeFetcher{cats: []cat.Cat{{Name: "Abyssinian", Origin: "Egypt", MinWeight: 6, MaxWeight: 10}}}

		convey.Convey("When running list with an offset", func() {
			out, err := execute(f, "list", "--offset", "20")

			convey.Convey("Then it should query the list and print a table", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(f.listCalled, convey.ShouldBeTrue)
				convey.So(f.lastOffset, convey.ShouldEqual, 20)
				convey.So(out, convey.ShouldContainSubstring, "Abyssinian")
				convey.So(out, convey.ShouldContainSubstring, "6-10")
			})
		})

		convey.Convey("When running list with --json", func() {
			out, err := execute(f, "list", "--json")

			convey.Convey("Then it should print the records as JSON", func() {
				convey.So(err, convey.ShouldBeNil)
				var cats []cat.Cat
				convey.So(json.Unmarshal([]byte(out), &cats), convey.ShouldBeNil)
				convey.So(cats[0].Origin, convey.ShouldEqual, "Egypt")
				convey.So(f.lastOffset, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the page is empty", func() {
			f.cats = nil
			out, err := execute(f, "list", "--offset", "120")

			convey.Convey("Then it should print the same notice style as breed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "No cats found at offset 120")
				convey.So(out, convey.ShouldNotContainSubstring, "NAME")
			})
		})

		convey.Convey("When the page is empty and --json is set", func() {
			f.cats = nil
			out, err := execute(f, "list", "--json")

			convey.Convey("Then it should print an empty JSON array", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldEqual, "[]\n")
			})
		})

		convey.Convey("When the upstream fails", func() {
			f.err = &catapi.APIError{StatusCode: 400, Message: "Invalid API Key."}
			out, err := execute(f, "list")

			convey.Convey("Then the upstream message should be reported", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Invalid API Key.")
			})
		})
	})
}

func TestBreedCommand(t *testing.T) {
	convey.Convey("Given catctl with a fake client", t, func() {
		f := &fakeFetcher{cats: []cat.Cat{{Name: "Maine Coon", Origin: "United States"}}}

		convey.Convey("When looking up a breed with spaces", func() {
			out, err := execute(f, "breed", "Maine Coon")

			convey.Convey("Then the name should be passed verbatim", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(f.lastBreed, convey.ShouldEqual, "Maine Coon")
				convey.So(out, convey.ShouldContainSubstring, "United States")
			})
		})

		convey.Convey("When the breed has no records", func() {
			f.cats = nil
			out, err := execute(f, "breed", "Nope")

			convey.Convey("Then it should say so", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, `No cats found for "Nope"`)
			})
		})

		convey.Convey("When no name is given", func() {
			_, err := execute(f, "breed")

			convey.Convey("Then the arguments should be rejected", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
