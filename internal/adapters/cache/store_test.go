package cache_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/deckcheck/internal/adapters/cache"
	"github.com/okian/deckcheck/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStore(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Convey("Given a cache store", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "cache.db")

		store, err := cache.Open(path)
		So(err, ShouldBeNil)
		defer func() { _ = store.Close() }()

		Convey("When a value is written through", func() {
			So(store.Put(ctx, "protondb", 620, "gold"), ShouldBeNil)

			Convey("Then it reads back as a hit", func() {
				value, ok, err := store.Get(ctx, "protondb", 620)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(value, ShouldEqual, "gold")
			})

			Convey("And the sources are keyed independently", func() {
				_, ok, err := store.Get(ctx, "anticheat", 620)
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})

			Convey("And a rewrite replaces the value", func() {
				So(store.Put(ctx, "protondb", 620, "platinum"), ShouldBeNil)
				value, ok, err := store.Get(ctx, "protondb", 620)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(value, ShouldEqual, "platinum")
			})
		})

		Convey("When a key was never written", func() {
			_, ok, err := store.Get(ctx, "protondb", 999999)

			Convey("Then it reads as a miss, not an error", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the store is purged", func() {
			So(store.Put(ctx, "protondb", 620, "gold"), ShouldBeNil)
			So(store.Purge(ctx), ShouldBeNil)

			_, ok, err := store.Get(ctx, "protondb", 620)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("When the store is reopened", func() {
			So(store.Put(ctx, "protondb", 620, "gold"), ShouldBeNil)
			So(store.Close(), ShouldBeNil)

			reopened, err := cache.Open(path)
			So(err, ShouldBeNil)
			defer func() { _ = reopened.Close() }()

			Convey("Then values persist across processes", func() {
				value, ok, err := reopened.Get(ctx, "protondb", 620)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(value, ShouldEqual, "gold")
			})
		})
	})
}

func TestStoreExpiry(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Convey("Given a cache store with a very short TTL", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "cache.db")

		store, err := cache.Open(path, cache.WithTTL(10*time.Millisecond))
		So(err, ShouldBeNil)
		defer func() { _ = store.Close() }()

		Convey("When a value outlives the TTL", func() {
			So(store.Put(ctx, "protondb", 620, "gold"), ShouldBeNil)
			time.Sleep(25 * time.Millisecond)

			Convey("Then it reads as a miss", func() {
				_, ok, err := store.Get(ctx, "protondb", 620)
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})
	})
}
