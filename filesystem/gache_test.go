package filesystem

import (
	"os"
	"testing"

	"github.com/metafates/gache"
	. "github.com/smartystreets/goconvey/convey"
)

var _ gache.FileSystem = &GacheFs{}

func TestGacheFs(t *testing.T) {
	Convey("GacheFs", t, func() {
		SetMemMapFs()
		fs := GacheFs{}

		Convey("Should create directories through the active backend", func() {
			So(fs.MkdirAll("/cache/streamz", os.ModePerm), ShouldBeNil)

			isDir, err := API().IsDir("/cache/streamz")
			So(err, ShouldBeNil)
			So(isDir, ShouldBeTrue)
		})

		Convey("Should open files through the active backend", func() {
			So(fs.MkdirAll("/cache/streamz", os.ModePerm), ShouldBeNil)

			f, err := fs.OpenFile("/cache/streamz/version.json", os.O_RDWR|os.O_CREATE, 0o600)
			So(err, ShouldBeNil)
			So(f, ShouldNotBeNil)
			So(f.Close(), ShouldBeNil)
		})
	})
}
