package service

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/catbreeds/internal/adapters/catapi"
	"github.com/okian/catbreeds/internal/domain/cat"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeSource struct {
	list     []cat.Cat
	breeds   map[string][]cat.Cat
	err      error
	lastName string
	lastOff  int
}

func (f *fakeSource) FetchCatsByBreed(_ context.Context, breed string, offset int) ([]cat.Cat, error) {
	f.lastName, f.lastOff = breed, offset
	if f.err != nil {
		return nil, f.err
	}
	return f.breeds[breed], nil
}

func (f *fakeSource) FetchCatsListByBreed(_ context.Context, offset int) ([]cat.Cat, error) {
	f.lastOff = offset
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func names(n int) []cat.Cat {
	out := make([]cat.Cat, n)
	for i := range out {
		out[i] = cat.Cat{Name: string(rune('A' + i))}
	}
	return out
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a service", t, func() {
		ctx := context.Background()

		Convey("When started with a source", func() {
			svc := New(&fakeSource{}, WithPageSize(10))
			err := svc.Start(ctx)

			Convey("Then it should report started and stop cleanly", func() {
				So(err, ShouldBeNil)
				So(svc.Start(ctx), ShouldBeNil)
				So(svc.GetStats()["started"], ShouldEqual, true)
				So(svc.PageSize(), ShouldEqual, 10)
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
				So(func() { svc.Stop() }, ShouldNotPanic)
			})
		})

		Convey("When started without a source", func() {
			err := New(nil).Start(ctx)

			Convey("Then it should fail", func() {
				So(errors.Is(err, ErrNoSource), ShouldBeTrue)
			})
		})
	})
}

func TestListCats(t *testing.T) {
	Convey("Given a source with a full page", t, func() {
		src := &fakeSource{list: names(3)}
		svc := New(src, WithPageSize(3))
		ctx := context.Background()

		Convey("When listing the first page", func() {
			p, err := svc.ListCats(ctx, 0)

			Convey("Then it should have a next page but no previous page", func() {
				So(err, ShouldBeNil)
				So(len(p.Cats), ShouldEqual, 3)
				So(p.HasPrev, ShouldBeFalse)
				So(p.HasNext, ShouldBeTrue)
				So(p.NextOffset, ShouldEqual, 3)
				So(src.lastOff, ShouldEqual, 0)
			})
		})

		Convey("When listing a later page", func() {
			p, err := svc.ListCats(ctx, 4)

			Convey("Then the previous offset should be clamped at zero", func() {
				So(err, ShouldBeNil)
				So(p.HasPrev, ShouldBeTrue)
				So(p.PrevOffset, ShouldEqual, 1)
				So(src.lastOff, ShouldEqual, 4)
			})
		})

		Convey("When the offset is negative", func() {
			_, err := svc.ListCats(ctx, -1)

			Convey("Then it should be rejected before calling upstream", func() {
				So(errors.Is(err, ErrInvalidOffset), ShouldBeTrue)
				So(svc.GetStats()[KindList].(map[string]int64)["lookups"], ShouldEqual, 0)
			})
		})
	})

	Convey("Given a configured page size larger than the upstream's pages", t, func() {
		src := &fakeSource{list: names(20)}
		svc := New(src, WithPageSize(50))
		ctx := context.Background()

		Convey("When listing a full upstream page", func() {
			p, err := svc.ListCats(ctx, 40)

			Convey("Then the pager should step by the upstream page length", func() {
				So(err, ShouldBeNil)
				So(p.HasNext, ShouldBeTrue)
				So(p.NextOffset, ShouldEqual, 60)
				So(p.PrevOffset, ShouldEqual, 20)
				So(p.PageSize, ShouldEqual, 20)
				So(svc.PageSize(), ShouldEqual, 20)
			})

			Convey("And a later short page should have no next page", func() {
				src.list = names(7)
				p, err := svc.ListCats(ctx, 60)
				So(err, ShouldBeNil)
				So(p.HasNext, ShouldBeFalse)
				So(p.PrevOffset, ShouldEqual, 40)
			})
		})
	})

	Convey("Given a source with no more cats", t, func() {
		svc := New(&fakeSource{list: nil}, WithPageSize(20))

		Convey("Then there should be no next page", func() {
			p, err := svc.ListCats(context.Background(), 100)
			So(err, ShouldBeNil)
			So(p.HasNext, ShouldBeFalse)
			So(p.PageSize, ShouldEqual, 20)
		})
	})
}

func TestCatsByBreed(t *testing.T) {
	Convey("Given a source knowing one breed", t, func() {
		src := &fakeSource{breeds: map[string][]cat.Cat{"Bengal": {{Name: "Bengal"}}}}
		svc := New(src)
		ctx := context.Background()

		Convey("When looking up the known breed", func() {
			cats, err := svc.CatsByBreed(ctx, "Bengal", 0)

			Convey("Then it should return the records", func() {
				So(err, ShouldBeNil)
				So(cats[0].Name, ShouldEqual, "Bengal")
				So(src.lastName, ShouldEqual, "Bengal")
			})
		})

		Convey("When looking up an unknown breed", func() {
			_, err := svc.CatsByBreed(ctx, "Dragon", 0)

			Convey("Then it should be not found and counted as empty", func() {
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				stats := svc.GetStats()[KindBreed].(map[string]int64)
				So(stats["lookups"], ShouldEqual, 1)
				So(stats["empty"], ShouldEqual, 1)
			})
		})
	})

	Convey("Given a failing upstream", t, func() {
		upstreamErr := &catapi.APIError{StatusCode: 502, Message: "Failed to fetch cats"}
		svc := New(&fakeSource{err: upstreamErr})

		Convey("When looking up a breed", func() {
			_, err := svc.CatsByBreed(context.Background(), "Bengal", 0)

			Convey("Then the upstream error should pass through unchanged", func() {
				So(err, ShouldEqual, upstreamErr)
				So(svc.GetStats()[KindBreed].(map[string]int64)["failures"], ShouldEqual, 1)
			})
		})
	})
}
