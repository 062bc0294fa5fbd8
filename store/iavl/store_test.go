package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/custody/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCommitStore(t *testing.T) {
	Convey("Given an empty in-memory commit store", t, func() {
		s := MockCommitStore()
		So(s.LoadLatestVersion(), ShouldBeNil)

		id, err := s.LatestVersion()
		So(err, ShouldBeNil)
		So(id.Version, ShouldEqual, 0)

		Convey("Cached writes are invisible until committed", func() {
			c := s.CacheWrap()
			So(c.Set([]byte("owner"), []byte("alice")), ShouldBeNil)

			val, err := s.Get([]byte("owner"))
			So(err, ShouldBeNil)
			So(val, ShouldBeNil)

			So(c.Write(), ShouldBeNil)
			id, err := s.Commit()
			So(err, ShouldBeNil)
			So(id.Version, ShouldEqual, 1)
			So(id.Hash, ShouldNotBeEmpty)

			val, err = s.Get([]byte("owner"))
			So(err, ShouldBeNil)
			So(string(val), ShouldEqual, "alice")

			Convey("A discarded cache leaves the state untouched", func() {
				c := s.CacheWrap()
				So(c.Delete([]byte("owner")), ShouldBeNil)
				c.Discard()
				id2, err := s.Commit()
				So(err, ShouldBeNil)
				So(id2.Hash, ShouldResemble, id.Hash)
			})

			Convey("Iterators see committed and cached data", func() {
				c := s.CacheWrap()
				So(c.Set([]byte("threshold"), []byte("2")), ShouldBeNil)
				it, err := c.Iterator(nil, nil)
				So(err, ShouldBeNil)
				defer it.Release()

				var keys []string
				for {
					k, _, err := it.Next()
					if errors.ErrIteratorDone.Is(err) {
						break
					}
					So(err, ShouldBeNil)
					keys = append(keys, string(k))
				}
				So(keys, ShouldResemble, []string{"owner", "threshold"})
			})
		})
	})
}

func TestCommitStoreReload(t *testing.T) {
	dir, err := ioutil.TempDir("", "custody-iavl")
	if err != nil {
		t.Fatalf("cannot create temp dir: %s", err)
	}
	defer os.RemoveAll(dir)

	s, err := NewCommitStore(dir, "state", 0)
	if err != nil {
		t.Fatalf("cannot create store: %s", err)
	}
	c := s.CacheWrap()
	if err := c.Set([]byte("wallet"), []byte("record")); err != nil {
		t.Fatal(err)
	}
	if err := c.Write(); err != nil {
		t.Fatal(err)
	}
	want, err := s.Commit()
	if err != nil {
		t.Fatalf("cannot commit: %s", err)
	}

	// Loading the latest version again must restore the committed state.
	reopened := s
	if err := reopened.LoadLatestVersion(); err != nil {
		t.Fatalf("cannot load: %s", err)
	}
	got, err := reopened.LatestVersion()
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != want.Version {
		t.Fatalf("want version %d, got %d", want.Version, got.Version)
	}
	val, err := reopened.Get([]byte("wallet"))
	if err != nil || string(val) != "record" {
		t.Fatalf("unexpected value %q: %v", val, err)
	}
}
