package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/deckcheck/internal/domain/identity"
	"github.com/okian/deckcheck/internal/domain/model"
	"github.com/okian/deckcheck/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeVanityResolver struct {
	names map[string]model.AccountID
	calls int
	err   error
}

func (f *fakeVanityResolver) ResolveVanity(_ context.Context, name string) (model.AccountID, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	id, ok := f.names[name]
	if !ok {
		return 0, errors.New("no match")
	}
	return id, nil
}

func TestResolve(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Convey("Given an identity resolver", t, func() {
		ctx := context.Background()
		vanity := &fakeVanityResolver{
			names: map[string]model.AccountID{
				"examplevanity": 76561197960287930,
			},
		}
		resolver := identity.NewResolver(vanity)

		Convey("When resolving a numeric id", func() {
			id, err := resolver.Resolve(ctx, "76561197960287930")

			Convey("Then it resolves locally without a lookup", func() {
				So(err, ShouldBeNil)
				So(id, ShouldEqual, model.AccountID(76561197960287930))
				So(vanity.calls, ShouldEqual, 0)
			})
		})

		Convey("When resolving a vanity name", func() {
			id, err := resolver.Resolve(ctx, "examplevanity")

			Convey("Then it resolves through one lookup", func() {
				So(err, ShouldBeNil)
				So(id, ShouldEqual, model.AccountID(76561197960287930))
				So(vanity.calls, ShouldEqual, 1)
			})
		})

		Convey("When resolving profile URLs", func() {
			Convey("Then the /id/ shape resolves via vanity lookup", func() {
				id, err := resolver.Resolve(ctx, "https://steamcommunity.com/id/examplevanity")
				So(err, ShouldBeNil)
				So(id, ShouldEqual, model.AccountID(76561197960287930))
				So(vanity.calls, ShouldEqual, 1)
			})

			Convey("And the /profiles/ shape resolves locally", func() {
				id, err := resolver.Resolve(ctx, "https://steamcommunity.com/profiles/76561197960287930")
				So(err, ShouldBeNil)
				So(id, ShouldEqual, model.AccountID(76561197960287930))
				So(vanity.calls, ShouldEqual, 0)
			})

			Convey("And a trailing slash is tolerated", func() {
				id, err := resolver.Resolve(ctx, "https://steamcommunity.com/id/examplevanity/")
				So(err, ShouldBeNil)
				So(id, ShouldEqual, model.AccountID(76561197960287930))
			})

			Convey("And all shapes of the same account agree", func() {
				ids := make([]model.AccountID, 0, 3)
				for _, raw := range []string{
					"76561197960287930",
					"https://steamcommunity.com/profiles/76561197960287930",
					"https://steamcommunity.com/id/examplevanity",
				} {
					id, err := resolver.Resolve(ctx, raw)
					So(err, ShouldBeNil)
					ids = append(ids, id)
				}
				So(ids[0], ShouldEqual, ids[1])
				So(ids[1], ShouldEqual, ids[2])
			})
		})

		Convey("When the input is malformed", func() {
			for _, raw := range []string{
				"",
				"   ",
				"not a vanity!",
				"https://steamcommunity.com/groups/whatever",
				"https://example.com/id/examplevanity",
			} {
				_, err := resolver.Resolve(ctx, raw)
				So(errors.Is(err, identity.ErrInvalidIdentity), ShouldBeTrue)
			}
			So(vanity.calls, ShouldEqual, 0)
		})

		Convey("When the vanity lookup finds no match", func() {
			_, err := resolver.Resolve(ctx, "nosuchvanity")

			Convey("Then the failure is typed and not retried", func() {
				So(errors.Is(err, identity.ErrResolutionFailed), ShouldBeTrue)
				So(vanity.calls, ShouldEqual, 1)
			})
		})

		Convey("When the resolution service errors", func() {
			broken := &fakeVanityResolver{err: errors.New("boom")}
			r := identity.NewResolver(broken)

			_, err := r.Resolve(ctx, "examplevanity")

			Convey("Then the cause stays on the error chain", func() {
				So(errors.Is(err, identity.ErrResolutionFailed), ShouldBeTrue)
				So(errors.Is(err, broken.err), ShouldBeTrue)
			})
		})
	})
}
